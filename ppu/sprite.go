package ppu

const (
	oamSize      = 256
	oamEntries   = 64
	spritesShown = 8
)

const (
	attrPalette          = 0x03
	attrBehindBackground = 0x20
	attrFlipHorizontal   = 0x40
	attrFlipVertical     = 0x80
)

// Sprite is one decoded OAM entry. Y is the byte stored in OAM, one less
// than the first scanline the sprite covers.
type Sprite struct {
	Index     uint8
	Y         uint8
	Tile      uint8
	Attribute uint8
	X         uint8
}

func (s Sprite) Palette() uint8 {
	return s.Attribute & attrPalette
}

func (s Sprite) BehindBackground() bool {
	return s.Attribute&attrBehindBackground != 0
}

func (s Sprite) FlipHorizontal() bool {
	return s.Attribute&attrFlipHorizontal != 0
}

func (s Sprite) FlipVertical() bool {
	return s.Attribute&attrFlipVertical != 0
}

// Sprite decodes OAM entry i (0-63).
func (p *PPU) Sprite(i int) Sprite {
	base := (i & 0x3F) * 4
	return Sprite{
		Index:     uint8(i & 0x3F),
		Y:         p.oam[base],
		Tile:      p.oam[base+1],
		Attribute: p.oam[base+2],
		X:         p.oam[base+3],
	}
}

// OAM returns a copy of sprite attribute memory.
func (p *PPU) OAM() [oamSize]uint8 {
	return p.oam
}

// ScanlineSprites returns the sprites selected for the scanline being drawn.
func (p *PPU) ScanlineSprites() []Sprite {
	out := make([]Sprite, p.spriteCount)
	copy(out, p.spriteScanline[:p.spriteCount])
	return out
}

func (p *PPU) spriteHeight() int {
	if p.control.Flag(ctrlSpriteSize) {
		return 16
	}
	return 8
}

// evaluateSprites selects the sprites covering the next scanline. Overflow
// is flagged on the first sprite past the hardware limit; with the limit
// lifted the extra sprites are kept and drawn.
func (p *PPU) evaluateSprites() {
	p.spriteCount = 0
	p.spriteZeroHitPossible = false
	for i := range p.spriteShifterPatternLo {
		p.spriteShifterPatternLo[i] = 0
		p.spriteShifterPatternHi[i] = 0
	}

	height := p.spriteHeight()
	for i := 0; i < oamEntries; i++ {
		s := p.Sprite(i)
		diff := p.scanline - int(s.Y)
		if diff < 0 || diff >= height {
			continue
		}

		if p.spriteCount == spritesShown {
			p.status.SetFlag(statusSpriteOverflow, true)
			if p.spriteLimit {
				break
			}
		}
		if i == 0 {
			p.spriteZeroHitPossible = true
		}
		p.spriteScanline[p.spriteCount] = s
		p.spriteCount++
	}
}

func (p *PPU) clearSprites() {
	p.spriteCount = 0
	p.spriteZeroHitPossible = false
	p.spriteZeroBeingRendered = false
}

func flipByte(b uint8) uint8 {
	b = ((b & 0xF0) >> 4) | ((b & 0x0F) << 4)
	b = ((b & 0xCC) >> 2) | ((b & 0x33) << 2)
	b = ((b & 0xAA) >> 1) | ((b & 0x55) << 1)
	return b
}

// spritePatternAddr is the low plane address of the row of s drawn on the
// next scanline.
func (p *PPU) spritePatternAddr(s Sprite) uint16 {
	row := uint16(p.scanline - int(s.Y))

	if p.spriteHeight() == 8 {
		if s.FlipVertical() {
			row = 7 - row
		}
		return (p.control.GetField(ctrlPatternSprite) << 12) |
			(uint16(s.Tile) << 4) |
			(row & 0x07)
	}

	// 8x16 sprites pick their table from bit 0 of the tile
	if s.FlipVertical() {
		row = 15 - row
	}
	tile := uint16(s.Tile & 0xFE)
	if row >= 8 {
		tile++
	}
	return (uint16(s.Tile&0x01) << 12) |
		(tile << 4) |
		(row & 0x07)
}

func (p *PPU) loadSpritePatterns() {
	for i := 0; i < p.spriteCount; i++ {
		s := p.spriteScanline[i]
		addr := p.spritePatternAddr(s)
		lo := p.ppuRead(addr)
		hi := p.ppuRead(addr + 8)

		if s.FlipHorizontal() {
			lo = flipByte(lo)
			hi = flipByte(hi)
		}
		p.spriteShifterPatternLo[i] = lo
		p.spriteShifterPatternHi[i] = hi
	}
}
