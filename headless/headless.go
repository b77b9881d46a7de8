// Package headless runs the machine without a window. A run ends with a
// CRC32 digest of the last frame so that two builds can be compared
// pixel for pixel.
package headless

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/bradleyjkemp/memviz"

	"nes-core/bus"
	"nes-core/cartridge"
	"nes-core/cpu"
	"nes-core/ppu"
)

// Result is the outcome of Run.
type Result struct {
	Frames uint64
	Cycles uint64
	Digest uint32
}

func (r Result) String() string {
	return fmt.Sprintf("%d frames, %d cpu cycles, frame crc32 %08x", r.Frames, r.Cycles, r.Digest)
}

// Run advances the machine by n frames. A CPU fault stops the run early and
// is returned along with the result reached so far.
func Run(nes *bus.Bus, n int) (Result, error) {
	var err error
	for i := 0; i < n; i++ {
		if err = nes.RunFrame(); err != nil {
			err = fmt.Errorf("frame %d: %w", i, err)
			break
		}
	}
	return Result{
		Frames: nes.PPU().FrameCount(),
		Cycles: nes.CPU().CycleCount(),
		Digest: Digest(nes.PPU().Frame()),
	}, err
}

// Digest hashes a frame as little endian 0xRRGGBB words.
func Digest(frame []uint32) uint32 {
	buf := make([]byte, 4*len(frame))
	for i, c := range frame {
		binary.LittleEndian.PutUint32(buf[4*i:], c)
	}
	return crc32.ChecksumIEEE(buf)
}

// RGBA expands a frame into dst, four bytes per pixel. dst must hold at
// least 4*len(frame) bytes.
func RGBA(dst []byte, frame []uint32) {
	for i, c := range frame {
		r, g, b := ppu.RGB(c)
		dst[4*i] = r
		dst[4*i+1] = g
		dst[4*i+2] = b
		dst[4*i+3] = 0xFF
	}
}

// Registers is a snapshot of the CPU programmer visible state.
type Registers struct {
	A, X, Y, SP uint8
	PC          uint16
	Status      uint8
	Flags       string
	Cycles      uint64
}

// State is the graph written by Dump.
type State struct {
	Header    cartridge.Header
	Registers Registers
	Scanline  int
	Cycle     int
	Sprites   []ppu.Sprite
}

// Snapshot collects the machine state shown by Dump.
func Snapshot(nes *bus.Bus) *State {
	c := nes.CPU()
	s := &State{
		Registers: Registers{
			A: c.A, X: c.X, Y: c.Y, SP: c.SP,
			PC:     c.PC,
			Status: c.Status,
			Flags:  Flags(c),
			Cycles: c.CycleCount(),
		},
		Scanline: nes.PPU().Scanline(),
		Cycle:    nes.PPU().Cycle(),
		Sprites:  nes.PPU().ScanlineSprites(),
	}
	if cart := nes.Cartridge(); cart != nil {
		s.Header = cart.Header()
	}
	return s
}

// Dump writes a Graphviz rendering of Snapshot(nes) to w.
func Dump(w io.Writer, nes *bus.Bus) {
	memviz.Map(w, Snapshot(nes))
}

// DumpFile is Dump into a newly created file.
func DumpFile(filename string, nes *bus.Bus) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	Dump(f, nes)
	return f.Close()
}

// Flags renders the status register the way a debugger shows it, upper case
// for set flags.
func Flags(c *cpu.CPU) string {
	const names = "NVUBDIZC"
	out := []byte("nvubdizc")
	for i := 0; i < 8; i++ {
		if c.GetFlag(cpu.CPUFlag(0x80>>i)) != 0 {
			out[i] = names[i]
		}
	}
	return string(out)
}
