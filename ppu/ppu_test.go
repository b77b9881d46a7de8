package ppu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nes-core/mapper"
)

func TestPaletteMirroring(t *testing.T) {
	p, _ := newTestPPU(t, mapper.HORIZONTAL)

	for _, addr := range []uint16{0x3F00, 0x3F04, 0x3F08, 0x3F0C} {
		value := uint8(addr&0x0F) + 0x10
		writeVRAM(p, addr, value)
		assert.Equal(t, value, readVRAM(p, 0x3F00), "write to %04x", addr)
	}

	writeVRAM(p, 0x3F00, 0x0F)
	writeVRAM(p, 0x3F10, 0x21)
	writeVRAM(p, 0x3F14, 0x22)
	writeVRAM(p, 0x3F18, 0x23)
	writeVRAM(p, 0x3F1C, 0x24)
	assert.Equal(t, uint8(0x0F), readVRAM(p, 0x3F00))
	assert.Equal(t, uint8(0x21), readVRAM(p, 0x3F10))
	assert.Equal(t, uint8(0x22), readVRAM(p, 0x3F14))
	assert.Equal(t, uint8(0x23), readVRAM(p, 0x3F18))
	assert.Equal(t, uint8(0x24), readVRAM(p, 0x3F1C))

	// every 32 bytes up to $3FFF
	writeVRAM(p, 0x3F25, 0x15)
	assert.Equal(t, uint8(0x15), readVRAM(p, 0x3F05))
	assert.Equal(t, uint8(0x15), readVRAM(p, 0x3FE5))
}

func TestPaletteGrayscale(t *testing.T) {
	p, _ := newTestPPU(t, mapper.HORIZONTAL)
	writeVRAM(p, 0x3F01, 0x2A)
	p.CpuWrite(0x2001, 0x01)
	assert.Equal(t, uint8(0x20), readVRAM(p, 0x3F01))
	p.CpuWrite(0x2001, 0x00)
	assert.Equal(t, uint8(0x2A), readVRAM(p, 0x3F01))
}

func TestNametableMirroring(t *testing.T) {
	cases := []struct {
		mirror mapper.MIRROR
		want   [4]uint16
	}{
		{mapper.HORIZONTAL, [4]uint16{0, 0, 1, 1}},
		{mapper.VERTICAL, [4]uint16{0, 1, 0, 1}},
		{mapper.ONESCREEN_LO, [4]uint16{0, 0, 0, 0}},
		{mapper.ONESCREEN_HI, [4]uint16{1, 1, 1, 1}},
		{mapper.FOUR_SCREEN, [4]uint16{0, 1, 2, 3}},
	}

	for _, tc := range cases {
		for logical, want := range tc.want {
			addr := 0x2000 + uint16(logical)*0x400 + 0x0123
			table, offset := nametableIndex(tc.mirror, addr)
			assert.Equal(t, want, table, "%s nametable %d", tc.mirror, logical)
			assert.Equal(t, uint16(0x0123), offset)

			// $3000-$3EFF mirrors $2000-$2EFF
			table, _ = nametableIndex(tc.mirror, addr+0x1000)
			assert.Equal(t, want, table)
		}
	}
}

func TestNametableWritesFold(t *testing.T) {
	p, _ := newTestPPU(t, mapper.VERTICAL)
	writeVRAM(p, 0x2005, 0x42)
	assert.Equal(t, uint8(0x42), readVRAM(p, 0x2805))
	assert.Equal(t, uint8(0x42), readVRAM(p, 0x3005))
	assert.Equal(t, uint8(0x00), readVRAM(p, 0x2405))

	p, _ = newTestPPU(t, mapper.HORIZONTAL)
	writeVRAM(p, 0x2005, 0x42)
	assert.Equal(t, uint8(0x42), readVRAM(p, 0x2405))
	assert.Equal(t, uint8(0x00), readVRAM(p, 0x2805))
}

func TestPeekVRAM(t *testing.T) {
	p, _ := newTestPPU(t, mapper.VERTICAL)
	writeVRAM(p, 0x2005, 0x42, 0x43)

	setAddr(p, 0x2005)
	p.CpuRead(0x2007, false) // buffer now holds $42

	assert.Equal(t, uint8(0x42), p.PeekVRAM(0x2805))
	assert.Equal(t, uint8(0x00), p.PeekVRAM(0x2405))
	assert.Equal(t, uint8(0x42), p.CpuRead(0x2007, false), "peek leaves the read buffer alone")
	assert.Equal(t, uint8(0x43), p.CpuRead(0x2007, false))
}

func TestBufferedDataReads(t *testing.T) {
	p, cart := newTestPPU(t, mapper.HORIZONTAL)
	cart.chr[0x0010] = 0x99
	writeVRAM(p, 0x2000, 0x11, 0x22)

	setAddr(p, 0x2000)
	p.CpuRead(0x2007, false) // stale buffer
	assert.Equal(t, uint8(0x11), p.CpuRead(0x2007, false))
	assert.Equal(t, uint8(0x22), p.CpuRead(0x2007, false))

	setAddr(p, 0x0010)
	p.CpuRead(0x2007, false)
	assert.Equal(t, uint8(0x99), p.CpuRead(0x2007, false))
}

func TestDataIncrementMode(t *testing.T) {
	p, _ := newTestPPU(t, mapper.HORIZONTAL)
	p.CpuWrite(0x2000, 0x04)
	writeVRAM(p, 0x2000, 0x01, 0x02)
	p.CpuWrite(0x2000, 0x00)

	assert.Equal(t, uint8(0x01), readVRAM(p, 0x2000))
	assert.Equal(t, uint8(0x02), readVRAM(p, 0x2020))
	assert.Equal(t, uint8(0x00), readVRAM(p, 0x2001))
}

func TestStatusReadResetsLatch(t *testing.T) {
	p, _ := newTestPPU(t, mapper.HORIZONTAL)

	p.CpuWrite(0x2006, 0x21) // high byte, left dangling
	assert.Equal(t, awaitingLow, p.latch)
	p.CpuRead(0x2002, false)
	assert.Equal(t, awaitingHigh, p.latch)

	p.CpuWrite(0x2006, 0x3F)
	p.CpuWrite(0x2006, 0x00)
	assert.Equal(t, uint16(0x3F00), p.vramAddr.Reg)
	p.CpuWrite(0x2007, 0x2A)
	assert.Equal(t, uint8(0x2A), p.tablePalette[0])

	// the same latch drives $2005
	p.CpuWrite(0x2005, 0x7D)
	p.CpuRead(0x2002, false)
	p.CpuWrite(0x2005, 0x5E)
	assert.Equal(t, uint8(0x06), p.fineX)
	assert.Equal(t, uint16(0x5E>>3), p.tramAddr.GetField(loopyCoarseX))
}

func TestScrollWrites(t *testing.T) {
	p, _ := newTestPPU(t, mapper.HORIZONTAL)
	p.CpuWrite(0x2000, 0x03)
	p.CpuWrite(0x2005, 0x7D)
	p.CpuWrite(0x2005, 0x5E)

	assert.Equal(t, uint8(0x05), p.fineX)
	assert.Equal(t, uint16(0x0F), p.tramAddr.GetField(loopyCoarseX))
	assert.Equal(t, uint16(0x0B), p.tramAddr.GetField(loopyCoarseY))
	assert.Equal(t, uint16(0x06), p.tramAddr.GetField(loopyFineY))
	assert.Equal(t, uint16(1), p.tramAddr.GetField(loopyNametableX))
	assert.Equal(t, uint16(1), p.tramAddr.GetField(loopyNametableY))
}

func TestOAMDataIncrements(t *testing.T) {
	p, _ := newTestPPU(t, mapper.HORIZONTAL)

	p.CpuWrite(0x2003, 0x10)
	p.CpuWrite(0x2004, 0xAA)
	p.CpuWrite(0x2004, 0xBB)
	assert.Equal(t, uint8(0x12), p.oamAddr)
	assert.Equal(t, uint8(0xAA), p.oam[0x10])
	assert.Equal(t, uint8(0xBB), p.oam[0x11])

	p.CpuWrite(0x2003, 0x11)
	assert.Equal(t, uint8(0xBB), p.CpuRead(0x2004, false))
	assert.Equal(t, uint8(0x11), p.oamAddr, "reads do not increment")

	p.CpuWrite(0x2003, 0xFF)
	p.CpuWrite(0x2004, 0x01)
	p.CpuWrite(0x2004, 0x02)
	assert.Equal(t, uint8(0x01), p.oam[0xFF])
	assert.Equal(t, uint8(0x02), p.oam[0x00])

	s := p.Sprite(4)
	assert.Equal(t, uint8(4), s.Index)
	assert.Equal(t, uint8(0xAA), s.Y)
	assert.Equal(t, uint8(0xBB), s.Tile)
}

func TestSpriteAttributes(t *testing.T) {
	s := Sprite{Attribute: 0xE3}
	assert.Equal(t, uint8(3), s.Palette())
	assert.True(t, s.BehindBackground())
	assert.True(t, s.FlipHorizontal())
	assert.True(t, s.FlipVertical())

	s = Sprite{Attribute: 0x01}
	assert.False(t, s.BehindBackground())
	assert.False(t, s.FlipHorizontal())
	assert.False(t, s.FlipVertical())
	assert.Equal(t, uint8(0x80), flipByte(0x01))
	assert.Equal(t, uint8(0xF0), flipByte(0x0F))
}

func TestOpenBus(t *testing.T) {
	p, _ := newTestPPU(t, mapper.HORIZONTAL)

	p.CpuWrite(0x2003, 0x5A)
	for _, port := range []uint16{0x2000, 0x2001, 0x2003, 0x2005, 0x2006} {
		assert.Equal(t, uint8(0x5A), p.CpuRead(port, false), "port %04x", port)
	}
	assert.Equal(t, uint8(0x1A), p.CpuRead(0x2002, false))
	assert.Equal(t, uint8(0x1A), p.CpuRead(0x200D, true), "mirrored port")
}

func TestFrameCadence(t *testing.T) {
	p, _ := newTestPPU(t, mapper.HORIZONTAL)
	p.CpuWrite(0x2000, 0x80)

	edges := 0
	nmis := 0
	vblank := p.VerticalBlank()
	for i := 0; i < cyclesPerScanline*scanlinesPerFrame; i++ {
		require.NoError(t, p.Clock())
		if p.VerticalBlank() && !vblank {
			edges++
			assert.Equal(t, vblankLine, p.Scanline())
			assert.Equal(t, 2, p.Cycle())
		}
		vblank = p.VerticalBlank()
		if p.TakeNMI() {
			nmis++
		}
	}

	assert.Equal(t, 1, edges)
	assert.Equal(t, 1, nmis)
	assert.Equal(t, uint64(1), p.FrameCount())
	assert.Equal(t, 0, p.Scanline())
	assert.Equal(t, 0, p.Cycle())
	assert.False(t, p.TakeNMI())
}

func TestOddFrameSkip(t *testing.T) {
	p, _ := newTestPPU(t, mapper.HORIZONTAL)
	hideAllSprites(p)
	p.CpuWrite(0x2001, 0x08)

	count := func() int {
		n := 0
		start := p.FrameCount()
		for p.FrameCount() == start {
			require.NoError(t, p.Clock())
			n++
		}
		return n
	}

	assert.Equal(t, 89342, count(), "even frame")
	assert.Equal(t, 89341, count(), "odd frame drops a dot")
	assert.Equal(t, 89342, count())

	p.CpuWrite(0x2001, 0x00)
	assert.Equal(t, 89342, count(), "no skip with rendering off")
	assert.Equal(t, 89342, count())
}

func TestVerticalBlankStatus(t *testing.T) {
	p, _ := newTestPPU(t, mapper.HORIZONTAL)
	runUntil(t, p, func() bool { return p.Scanline() == vblankLine+1 })

	assert.Equal(t, uint8(0x80), p.CpuRead(0x2002, false)&0x80)
	assert.Equal(t, uint8(0x00), p.CpuRead(0x2002, false)&0x80)

	// enabling NMI during vblank raises it at once
	runFrames(t, p, 1)
	runUntil(t, p, func() bool { return p.Scanline() == vblankLine+1 })
	assert.False(t, p.TakeNMI())
	p.CpuWrite(0x2000, 0x80)
	assert.True(t, p.TakeNMI())

	runUntil(t, p, func() bool { return p.Scanline() == preRenderLine && p.Cycle() == 2 })
	assert.False(t, p.VerticalBlank())
}

func TestSpriteOverflow(t *testing.T) {
	for _, n := range []int{1, 8, 9, 12} {
		p, _ := newTestPPU(t, mapper.HORIZONTAL)
		hideAllSprites(p)
		for i := 0; i < n; i++ {
			putSprite(p, i, 40, 0, 0, uint8(i*8))
		}
		p.CpuWrite(0x2001, 0x10)

		runUntil(t, p, func() bool { return p.Scanline() == 40 && p.Cycle() == 258 })
		want := n
		if want > 8 {
			want = 8
		}
		assert.Len(t, p.ScanlineSprites(), want, "%d sprites", n)
		assert.Equal(t, n > 8, p.SpriteOverflow(), "%d sprites", n)

		runUntil(t, p, func() bool { return p.Scanline() == preRenderLine })
		assert.Equal(t, n > 8, p.SpriteOverflow(), "flag holds until pre-render")
		runUntil(t, p, func() bool { return p.Scanline() == preRenderLine && p.Cycle() == 2 })
		assert.False(t, p.SpriteOverflow())
	}
}

func TestSpriteLimitLifted(t *testing.T) {
	p, _ := newTestPPU(t, mapper.HORIZONTAL, SpriteLimit(false))
	hideAllSprites(p)
	for i := 0; i < 12; i++ {
		putSprite(p, i, 40, 0, 0, uint8(i*8))
	}
	p.CpuWrite(0x2001, 0x10)

	runUntil(t, p, func() bool { return p.Scanline() == 40 && p.Cycle() == 258 })
	assert.Len(t, p.ScanlineSprites(), 12)
	assert.True(t, p.SpriteOverflow())
}

func TestSpriteHeight(t *testing.T) {
	p, _ := newTestPPU(t, mapper.HORIZONTAL)
	hideAllSprites(p)
	putSprite(p, 0, 40, 0, 0, 0)
	p.CpuWrite(0x2001, 0x10)

	runUntil(t, p, func() bool { return p.Scanline() == 48 && p.Cycle() == 258 })
	assert.Len(t, p.ScanlineSprites(), 0, "8x8 sprite ends at line 48")

	p.CpuWrite(0x2000, 0x20)
	runUntil(t, p, func() bool { return p.Scanline() == 55 && p.Cycle() == 258 })
	assert.Len(t, p.ScanlineSprites(), 1, "8x16 sprite still covers line 56")
}

func TestSpritePatternAddr(t *testing.T) {
	p, _ := newTestPPU(t, mapper.HORIZONTAL)
	p.scanline = 12

	s := Sprite{Y: 10, Tile: 0x05}
	assert.Equal(t, uint16(0x0052), p.spritePatternAddr(s))
	s.Attribute = attrFlipVertical
	assert.Equal(t, uint16(0x0055), p.spritePatternAddr(s))

	p.control.SetFlag(ctrlPatternSprite, true)
	s.Attribute = 0
	assert.Equal(t, uint16(0x1052), p.spritePatternAddr(s))

	// 8x16: table from bit 0 of the tile, bottom half in the next tile
	p.control.SetReg(0x20)
	s = Sprite{Y: 10, Tile: 0x05}
	assert.Equal(t, uint16(0x1042), p.spritePatternAddr(s))
	p.scanline = 20
	assert.Equal(t, uint16(0x1052), p.spritePatternAddr(s))
	s.Attribute = attrFlipVertical
	assert.Equal(t, uint16(0x1045), p.spritePatternAddr(s))
}

// setupScene fills nametable 0 with a solid tile and sets two palettes.
func setupScene(t *testing.T, p *PPU, cart *mockCartridge) {
	t.Helper()
	cart.solidTile(1)
	hideAllSprites(p)
	setAddr(p, 0x2000)
	for i := 0; i < 960; i++ {
		p.CpuWrite(0x2007, 0x01)
	}
	writeVRAM(p, 0x3F00, 0x0F, 0x30)
	writeVRAM(p, 0x3F11, 0x16)
	resetScroll(p, 0x00)
}

func TestBackgroundRendering(t *testing.T) {
	p, cart := newTestPPU(t, mapper.HORIZONTAL)
	setupScene(t, p, cart)
	p.CpuWrite(0x2001, 0x0A)

	runFrames(t, p, 2)
	frame := p.Frame()
	require.Len(t, frame, Width*Height)
	assert.Equal(t, Colour(0x30), frame[0])
	assert.Equal(t, Colour(0x30), frame[Width-1])
	assert.Equal(t, Colour(0x30), frame[(Height-1)*Width])
	assert.Equal(t, Colour(0x30), frame[Width*Height-1])

	// left column clipping shows the backdrop
	p.CpuWrite(0x2001, 0x08)
	runFrames(t, p, 1)
	frame = p.Frame()
	assert.Equal(t, Colour(0x0F), frame[100*Width+7])
	assert.Equal(t, Colour(0x30), frame[100*Width+8])
}

func TestRenderingDisabledShowsBackdrop(t *testing.T) {
	p, cart := newTestPPU(t, mapper.HORIZONTAL)
	setupScene(t, p, cart)
	writeVRAM(p, 0x3F00, 0x21)
	resetScroll(p, 0x00)

	runFrames(t, p, 1)
	for _, px := range p.Frame() {
		if px != Colour(0x21) {
			t.Fatalf("got %06x, want backdrop %06x", px, Colour(0x21))
		}
	}
}

func TestFramebufferSwap(t *testing.T) {
	f := NewFramebuffer()
	f.set(3, 2, 0x123456)

	dst := make([]uint32, Width*Height)
	f.Copy(dst)
	assert.Equal(t, uint32(0), dst[2*Width+3], "back buffer is not visible")

	f.Swap()
	f.Copy(dst)
	assert.Equal(t, uint32(0x123456), dst[2*Width+3])

	assert.Equal(t, 10, f.Copy(make([]uint32, 10)))
}

func TestFrameNeverPartial(t *testing.T) {
	p, cart := newTestPPU(t, mapper.HORIZONTAL)
	setupScene(t, p, cart)
	writeVRAM(p, 0x3F00, 0x21)
	resetScroll(p, 0x00)
	runFrames(t, p, 1)

	old := p.Frame()
	for _, px := range old {
		require.Equal(t, Colour(0x21), px)
	}

	writeVRAM(p, 0x3F00, 0x0F)
	resetScroll(p, 0x00)
	p.CpuWrite(0x2001, 0x0A)
	runUntil(t, p, func() bool { return p.Scanline() == 120 })

	assert.Equal(t, old, p.Frame(), "front buffer holds the last complete frame")
	copied := make([]uint32, Width*Height)
	assert.Equal(t, Width*Height, p.Framebuffer().Copy(copied))
	assert.Equal(t, old, copied)

	runFrames(t, p, 2)
	frame := p.Frame()
	assert.Equal(t, Colour(0x30), frame[120*Width+128])
	assert.Equal(t, Colour(0x30), frame[(Height-1)*Width+128])
}

func TestSpritePriority(t *testing.T) {
	p, cart := newTestPPU(t, mapper.HORIZONTAL)
	setupScene(t, p, cart)
	putSprite(p, 0, 99, 1, 0x00, 40)
	putSprite(p, 1, 99, 1, attrBehindBackground, 80)
	p.CpuWrite(0x2001, 0x1E)

	runFrames(t, p, 2)
	frame := p.Frame()
	assert.Equal(t, Colour(0x16), frame[100*Width+40], "sprite in front")
	assert.Equal(t, Colour(0x16), frame[107*Width+47])
	assert.Equal(t, Colour(0x30), frame[100*Width+80], "sprite behind opaque background")
	assert.Equal(t, Colour(0x30), frame[108*Width+40], "below the sprite")
}

func TestSpriteZeroHit(t *testing.T) {
	cases := []struct {
		name string
		x    uint8
		mask uint8
		hit  bool
	}{
		{"overlap", 40, 0x1E, true},
		{"last column", 255, 0x1E, false},
		{"background off", 40, 0x14, false},
		{"clipped left", 0, 0x18, false},
		{"left shown", 0, 0x1E, true},
	}

	for _, tc := range cases {
		p, cart := newTestPPU(t, mapper.HORIZONTAL)
		setupScene(t, p, cart)
		putSprite(p, 0, 99, 1, 0x00, tc.x)
		p.CpuWrite(0x2001, tc.mask)

		runFrames(t, p, 1)
		runUntil(t, p, func() bool { return p.Scanline() == 110 })
		assert.Equal(t, tc.hit, p.SpriteZeroHit(), tc.name)
		assert.Equal(t, tc.hit, p.CpuRead(0x2002, false)&0x40 != 0, tc.name)
	}
}

func TestPatternTable(t *testing.T) {
	p, cart := newTestPPU(t, mapper.HORIZONTAL)
	cart.solidTile(1)
	cart.chr[0x1000] = 0x80
	cart.chr[0x1008] = 0x80
	writeVRAM(p, 0x3F00, 0x0F, 0x30, 0x16, 0x27)

	table := p.PatternTable(0, 0)
	require.Len(t, table, 128*128)
	assert.Equal(t, Colour(0x0F), table[0])
	assert.Equal(t, Colour(0x30), table[8])
	assert.Equal(t, Colour(0x30), table[7*128+15])

	table = p.PatternTable(1, 0)
	assert.Equal(t, Colour(0x27), table[0])
	assert.Equal(t, Colour(0x0F), table[1])
}

func TestColour(t *testing.T) {
	assert.Equal(t, uint32(0x545454), Colour(0x00))
	assert.Equal(t, Colour(0x01), Colour(0x41))
	r, g, b := RGB(Colour(0x16))
	assert.Equal(t, [3]uint8{0x98, 0x22, 0x20}, [3]uint8{r, g, b})
}
