package ppu

import (
	"testing"

	"github.com/stretchr/testify/require"

	"nes-core/mapper"
)

type mockCartridge struct {
	chr    [0x2000]uint8
	mirror mapper.MIRROR
}

func (c *mockCartridge) PpuRead(addr uint16, data *uint8) bool {
	if addr <= 0x1FFF {
		*data = c.chr[addr]
		return true
	}
	return false
}

func (c *mockCartridge) PpuWrite(addr uint16, data uint8) bool {
	if addr <= 0x1FFF {
		c.chr[addr] = data
		return true
	}
	return false
}

func (c *mockCartridge) Mirror() mapper.MIRROR {
	return c.mirror
}

// solidTile fills tile n of pattern table 0 with colour 1.
func (c *mockCartridge) solidTile(n int) {
	for row := 0; row < 8; row++ {
		c.chr[n*16+row] = 0xFF
		c.chr[n*16+row+8] = 0x00
	}
}

func newTestPPU(t *testing.T, mirror mapper.MIRROR, options ...Option) (*PPU, *mockCartridge) {
	t.Helper()
	p, err := NewPPU(options...)
	require.NoError(t, err)
	cart := &mockCartridge{mirror: mirror}
	p.ConnectCartridge(cart)
	p.Reset()
	return p, cart
}

func setAddr(p *PPU, addr uint16) {
	p.CpuWrite(0x2006, uint8(addr>>8))
	p.CpuWrite(0x2006, uint8(addr))
}

func writeVRAM(p *PPU, addr uint16, data ...uint8) {
	setAddr(p, addr)
	for _, d := range data {
		p.CpuWrite(0x2007, d)
	}
}

// readVRAM returns the byte at addr, discarding the stale buffered value
// for non palette addresses.
func readVRAM(p *PPU, addr uint16) uint8 {
	setAddr(p, addr)
	if addr&0x3FFF >= 0x3F00 {
		return p.CpuRead(0x2007, false)
	}
	p.CpuRead(0x2007, false)
	return p.CpuRead(0x2007, false)
}

func hideAllSprites(p *PPU) {
	p.CpuWrite(0x2003, 0x00)
	for i := 0; i < oamSize; i++ {
		p.CpuWrite(0x2004, 0xFF)
	}
}

func putSprite(p *PPU, index int, y, tile, attribute, x uint8) {
	p.CpuWrite(0x2003, uint8(index*4))
	p.CpuWrite(0x2004, y)
	p.CpuWrite(0x2004, tile)
	p.CpuWrite(0x2004, attribute)
	p.CpuWrite(0x2004, x)
}

// resetScroll points rendering at the top left of nametable 0.
func resetScroll(p *PPU, control uint8) {
	p.CpuWrite(0x2000, control)
	p.CpuRead(0x2002, false)
	p.CpuWrite(0x2005, 0x00)
	p.CpuWrite(0x2005, 0x00)
}

func runUntil(t *testing.T, p *PPU, done func() bool) {
	t.Helper()
	for i := 0; i < 4*cyclesPerScanline*scanlinesPerFrame; i++ {
		if done() {
			return
		}
		require.NoError(t, p.Clock())
	}
	t.Fatalf("ppu never reached the expected state (scanline %d, cycle %d)", p.scanline, p.cycle)
}

func runFrames(t *testing.T, p *PPU, frames uint64) {
	t.Helper()
	target := p.FrameCount() + frames
	for p.FrameCount() < target {
		runUntil(t, p, func() bool { return p.FrameCount() == target })
	}
}
