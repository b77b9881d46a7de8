package ppu

import "sync"

const (
	Width  = 256
	Height = 240
)

// Framebuffer is double buffered: the PPU draws into the back buffer and
// Swap publishes it, so readers only ever see whole frames.
type Framebuffer struct {
	mu    sync.RWMutex
	front []uint32
	back  []uint32
}

func NewFramebuffer() *Framebuffer {
	return &Framebuffer{
		front: make([]uint32, Width*Height),
		back:  make([]uint32, Width*Height),
	}
}

func (f *Framebuffer) set(x int, y int, c uint32) {
	f.back[y*Width+x] = c
}

func (f *Framebuffer) Swap() {
	f.mu.Lock()
	f.front, f.back = f.back, f.front
	f.mu.Unlock()
}

// Copy fills dst with the last published frame and returns the number of
// pixels copied.
func (f *Framebuffer) Copy(dst []uint32) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return copy(dst, f.front)
}

func (f *Framebuffer) clear() {
	f.mu.Lock()
	for i := range f.front {
		f.front[i] = 0
		f.back[i] = 0
	}
	f.mu.Unlock()
}
