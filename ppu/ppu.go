package ppu

import "fmt"

const (
	cyclesPerScanline = 341
	scanlinesPerFrame = 262
	postRenderLine    = 240
	vblankLine        = 241
	preRenderLine     = 261
)

type PPU struct {
	frame *Framebuffer

	tableName    [4][1024]uint8
	tablePalette [32]uint8

	status  Register
	mask    Register
	control Register

	vramAddr Register
	tramAddr Register
	fineX    uint8

	latch         writeLatch
	ppuDataBuffer uint8
	// last value driven on the register bus, returned by write-only ports
	openBus uint8

	scanline   int
	cycle      int
	oddFrame   bool
	frameCount uint64

	bgNextTileId       uint8
	bgNextTileAttrib   uint8
	bgNextTileLsb      uint8
	bgNextTileMsb      uint8
	bgShifterPatternLo uint16
	bgShifterPatternHi uint16
	bgShifterAttribLo  uint16
	bgShifterAttribHi  uint16

	cartridge Cartridge
	nmi       bool

	oam     [oamSize]uint8
	oamAddr uint8

	spriteScanline         [oamEntries]Sprite
	spriteCount            int
	spriteShifterPatternLo [oamEntries]uint8
	spriteShifterPatternHi [oamEntries]uint8
	spriteLimit            bool

	spriteZeroHitPossible   bool
	spriteZeroBeingRendered bool
}

type Option func(*PPU) error

// SpriteLimit enables the hardware limit of eight sprites per scanline.
// Overflow is reported either way.
func SpriteLimit(limit bool) Option {
	return func(p *PPU) error {
		p.spriteLimit = limit
		return nil
	}
}

func NewPPU(options ...Option) (*PPU, error) {
	p := &PPU{
		frame:       NewFramebuffer(),
		spriteLimit: true,
	}
	for i, option := range options {
		if err := option(p); err != nil {
			return nil, fmt.Errorf("failed to set ppu option index %d: %w", i, err)
		}
	}
	return p, nil
}

func (p *PPU) ConnectCartridge(cartridge Cartridge) {
	p.cartridge = cartridge
}

// CpuRead reads register addr&7. readOnly peeks without side effects.
func (p *PPU) CpuRead(addr uint16, readOnly bool) uint8 {
	addr &= 0x0007
	if readOnly {
		switch addr {
		case 0x0002:
			return (uint8(p.status.Reg) & 0xE0) | (p.openBus & 0x1F)
		case 0x0004:
			return p.oam[p.oamAddr]
		case 0x0007:
			return p.ppuDataBuffer
		}
		return p.openBus
	}

	data := p.openBus
	switch addr {
	case 0x0002:
		data = (uint8(p.status.Reg) & 0xE0) | (p.openBus & 0x1F)
		p.status.SetFlag(statusVerticalBlank, false)
		p.latch = awaitingHigh
	case 0x0004:
		data = p.oam[p.oamAddr]
	case 0x0007:
		data = p.ppuDataBuffer
		p.ppuDataBuffer = p.ppuRead(p.vramAddr.Reg)

		// palette reads skip the buffer
		if p.vramAddr.Reg&0x3FFF >= 0x3F00 {
			data = p.ppuDataBuffer
		}
		p.incrementVramAddr()
	}
	p.openBus = data
	return data
}

func (p *PPU) CpuWrite(addr uint16, data uint8) {
	p.openBus = data

	switch addr & 0x0007 {
	case 0x0000:
		nmiWasEnabled := p.control.Flag(ctrlEnableNMI)
		p.control.SetReg(uint16(data))
		p.tramAddr.SetField(loopyNametableX, p.control.GetField(ctrlNametableX))
		p.tramAddr.SetField(loopyNametableY, p.control.GetField(ctrlNametableY))
		// enabling NMI inside vblank fires it straight away
		if !nmiWasEnabled && p.control.Flag(ctrlEnableNMI) && p.status.Flag(statusVerticalBlank) {
			p.nmi = true
		}
	case 0x0001:
		p.mask.SetReg(uint16(data))
	case 0x0003:
		p.oamAddr = data
	case 0x0004:
		p.oam[p.oamAddr] = data
		p.oamAddr++
	case 0x0005:
		if p.latch == awaitingHigh {
			p.fineX = data & 0x07
			p.tramAddr.SetField(loopyCoarseX, uint16(data)>>3)
			p.latch = awaitingLow
		} else {
			p.tramAddr.SetField(loopyFineY, uint16(data)&0x07)
			p.tramAddr.SetField(loopyCoarseY, uint16(data)>>3)
			p.latch = awaitingHigh
		}
	case 0x0006:
		if p.latch == awaitingHigh {
			p.tramAddr.Reg = ((uint16(data) & 0x3F) << 8) | (p.tramAddr.Reg & 0x00FF)
			p.latch = awaitingLow
		} else {
			p.tramAddr.Reg = (p.tramAddr.Reg & 0xFF00) | uint16(data)
			p.vramAddr.Reg = p.tramAddr.Reg
			p.latch = awaitingHigh
		}
	case 0x0007:
		p.ppuWrite(p.vramAddr.Reg, data)
		p.incrementVramAddr()
	}
}

func (p *PPU) incrementVramAddr() {
	if p.control.Flag(ctrlIncrementMode) {
		p.vramAddr.Reg += 32
	} else {
		p.vramAddr.Reg++
	}
	p.vramAddr.Reg &= 0x7FFF
}

// TakeNMI reports a pending vblank NMI request and clears it.
func (p *PPU) TakeNMI() bool {
	nmi := p.nmi
	p.nmi = false
	return nmi
}

// Frame returns a copy of the last completed frame, Width*Height packed
// 0xRRGGBB pixels.
func (p *PPU) Frame() []uint32 {
	out := make([]uint32, Width*Height)
	p.frame.Copy(out)
	return out
}

func (p *PPU) Framebuffer() *Framebuffer {
	return p.frame
}

// FrameCount is the number of frames completed since Reset.
func (p *PPU) FrameCount() uint64 {
	return p.frameCount
}

func (p *PPU) Scanline() int {
	return p.scanline
}

func (p *PPU) Cycle() int {
	return p.cycle
}

func (p *PPU) VerticalBlank() bool {
	return p.status.Flag(statusVerticalBlank)
}

func (p *PPU) SpriteOverflow() bool {
	return p.status.Flag(statusSpriteOverflow)
}

func (p *PPU) SpriteZeroHit() bool {
	return p.status.Flag(statusSpriteZeroHit)
}

// Clock advances the PPU by one dot.
func (p *PPU) Clock() error {
	p.clock()
	return nil
}

func (p *PPU) Reset() {
	p.fineX = 0
	p.latch = awaitingHigh
	p.ppuDataBuffer = 0
	p.openBus = 0
	p.scanline = 0
	p.cycle = 0
	p.oddFrame = false
	p.frameCount = 0
	p.bgNextTileId = 0
	p.bgNextTileAttrib = 0
	p.bgNextTileLsb = 0
	p.bgNextTileMsb = 0
	p.bgShifterPatternLo = 0x0000
	p.bgShifterPatternHi = 0x0000
	p.bgShifterAttribLo = 0x0000
	p.bgShifterAttribHi = 0x0000
	p.status.Reg = 0x00
	p.mask.Reg = 0x00
	p.control.Reg = 0x00
	p.vramAddr.Reg = 0x0000
	p.tramAddr.Reg = 0x0000
	p.oamAddr = 0
	p.nmi = false
	p.clearSprites()
	p.frame.clear()
}
