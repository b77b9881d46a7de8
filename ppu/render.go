package ppu

func (p *PPU) renderingEnabled() bool {
	return p.mask.Flag(maskRenderBackground) || p.mask.Flag(maskRenderSprites)
}

func (p *PPU) incrementScrollX() {
	if !p.renderingEnabled() {
		return
	}
	if p.vramAddr.GetField(loopyCoarseX) == 31 {
		p.vramAddr.SetField(loopyCoarseX, 0)
		p.vramAddr.SetField(loopyNametableX, ^p.vramAddr.GetField(loopyNametableX))
		return
	}
	p.vramAddr.SetField(loopyCoarseX, p.vramAddr.GetField(loopyCoarseX)+1)
}

func (p *PPU) incrementScrollY() {
	if !p.renderingEnabled() {
		return
	}
	if p.vramAddr.GetField(loopyFineY) < 7 {
		p.vramAddr.SetField(loopyFineY, p.vramAddr.GetField(loopyFineY)+1)
		return
	}

	p.vramAddr.SetField(loopyFineY, 0)
	switch p.vramAddr.GetField(loopyCoarseY) {
	case 29:
		p.vramAddr.SetField(loopyCoarseY, 0)
		p.vramAddr.SetField(loopyNametableY, ^p.vramAddr.GetField(loopyNametableY))
	case 31:
		// attribute rows wrap without switching nametable
		p.vramAddr.SetField(loopyCoarseY, 0)
	default:
		p.vramAddr.SetField(loopyCoarseY, p.vramAddr.GetField(loopyCoarseY)+1)
	}
}

func (p *PPU) transferAddressX() {
	if !p.renderingEnabled() {
		return
	}
	p.vramAddr.SetField(loopyNametableX, p.tramAddr.GetField(loopyNametableX))
	p.vramAddr.SetField(loopyCoarseX, p.tramAddr.GetField(loopyCoarseX))
}

func (p *PPU) transferAddressY() {
	if !p.renderingEnabled() {
		return
	}
	p.vramAddr.SetField(loopyFineY, p.tramAddr.GetField(loopyFineY))
	p.vramAddr.SetField(loopyNametableY, p.tramAddr.GetField(loopyNametableY))
	p.vramAddr.SetField(loopyCoarseY, p.tramAddr.GetField(loopyCoarseY))
}

func (p *PPU) loadBackgroundShifters() {
	p.bgShifterPatternLo = (p.bgShifterPatternLo & 0xFF00) | uint16(p.bgNextTileLsb)
	p.bgShifterPatternHi = (p.bgShifterPatternHi & 0xFF00) | uint16(p.bgNextTileMsb)

	acc := uint16(0x00)
	if p.bgNextTileAttrib&0b01 != 0 {
		acc = 0xFF
	}
	p.bgShifterAttribLo = (p.bgShifterAttribLo & 0xFF00) | acc
	acc = 0x00
	if p.bgNextTileAttrib&0b10 != 0 {
		acc = 0xFF
	}
	p.bgShifterAttribHi = (p.bgShifterAttribHi & 0xFF00) | acc
}

func (p *PPU) updateShifters() {
	if p.mask.Flag(maskRenderBackground) {
		p.bgShifterPatternLo <<= 1
		p.bgShifterPatternHi <<= 1
		p.bgShifterAttribLo <<= 1
		p.bgShifterAttribHi <<= 1
	}

	if p.mask.Flag(maskRenderSprites) && p.cycle >= 1 && p.cycle < 258 {
		for i := 0; i < p.spriteCount; i++ {
			if p.spriteScanline[i].X > 0 {
				p.spriteScanline[i].X--
			} else {
				p.spriteShifterPatternLo[i] <<= 1
				p.spriteShifterPatternHi[i] <<= 1
			}
		}
	}
}

// fetchBackground runs one dot of the four step tile fetch.
func (p *PPU) fetchBackground() {
	switch (p.cycle - 1) % 8 {
	case 0:
		p.loadBackgroundShifters()
		p.bgNextTileId = p.ppuRead(0x2000 | (p.vramAddr.Reg & 0x0FFF))
	case 2:
		p.bgNextTileAttrib = p.ppuRead(0x23C0 |
			(p.vramAddr.GetField(loopyNametableY) << 11) |
			(p.vramAddr.GetField(loopyNametableX) << 10) |
			((p.vramAddr.GetField(loopyCoarseY) >> 2) << 3) |
			(p.vramAddr.GetField(loopyCoarseX) >> 2))
		if p.vramAddr.GetField(loopyCoarseY)&0x02 != 0 {
			p.bgNextTileAttrib >>= 4
		}
		if p.vramAddr.GetField(loopyCoarseX)&0x02 != 0 {
			p.bgNextTileAttrib >>= 2
		}
		p.bgNextTileAttrib &= 0x03
	case 4:
		p.bgNextTileLsb = p.ppuRead((p.control.GetField(ctrlPatternBackground) << 12) +
			(uint16(p.bgNextTileId) << 4) +
			p.vramAddr.GetField(loopyFineY))
	case 6:
		p.bgNextTileMsb = p.ppuRead((p.control.GetField(ctrlPatternBackground) << 12) +
			(uint16(p.bgNextTileId) << 4) +
			p.vramAddr.GetField(loopyFineY) + 8)
	case 7:
		p.incrementScrollX()
	}
}

func (p *PPU) renderLine() {
	preRender := p.scanline == preRenderLine

	if preRender && p.cycle == 1 {
		p.status.SetFlag(statusVerticalBlank, false)
		p.status.SetFlag(statusSpriteZeroHit, false)
		p.status.SetFlag(statusSpriteOverflow, false)
		for i := range p.spriteShifterPatternLo {
			p.spriteShifterPatternLo[i] = 0
			p.spriteShifterPatternHi[i] = 0
		}
	}

	if (p.cycle >= 2 && p.cycle < 258) || (p.cycle >= 321 && p.cycle < 338) {
		p.updateShifters()
		p.fetchBackground()
	}
	if p.cycle == 256 {
		p.incrementScrollY()
	}
	if p.cycle == 257 {
		p.loadBackgroundShifters()
		p.transferAddressX()
	}
	if p.cycle == 338 || p.cycle == 340 {
		p.bgNextTileId = p.ppuRead(0x2000 | (p.vramAddr.Reg & 0x0FFF))
	}
	if preRender && p.cycle >= 280 && p.cycle < 305 {
		p.transferAddressY()
	}

	if p.cycle == 257 {
		if !preRender && p.renderingEnabled() {
			p.evaluateSprites()
		} else {
			// no sprites on line 0 or while rendering is off
			p.clearSprites()
		}
	}
	if p.cycle == 340 {
		p.loadSpritePatterns()
	}
}

func (p *PPU) backgroundPixel() (pixel uint8, palette uint8) {
	if !p.mask.Flag(maskRenderBackground) {
		return 0, 0
	}
	if !p.mask.Flag(maskBackgroundLeft) && p.cycle <= 8 {
		return 0, 0
	}

	bitMux := uint16(0x8000) >> p.fineX
	if p.bgShifterPatternLo&bitMux != 0 {
		pixel |= 0b01
	}
	if p.bgShifterPatternHi&bitMux != 0 {
		pixel |= 0b10
	}
	if p.bgShifterAttribLo&bitMux != 0 {
		palette |= 0b01
	}
	if p.bgShifterAttribHi&bitMux != 0 {
		palette |= 0b10
	}
	return pixel, palette
}

func (p *PPU) spritePixel() (pixel uint8, palette uint8, front bool) {
	p.spriteZeroBeingRendered = false
	if !p.mask.Flag(maskRenderSprites) {
		return 0, 0, false
	}
	if !p.mask.Flag(maskSpritesLeft) && p.cycle <= 8 {
		return 0, 0, false
	}

	// lowest OAM index wins
	for i := 0; i < p.spriteCount; i++ {
		s := p.spriteScanline[i]
		if s.X != 0 {
			continue
		}

		pixel = 0
		if p.spriteShifterPatternLo[i]&0x80 != 0 {
			pixel |= 0b01
		}
		if p.spriteShifterPatternHi[i]&0x80 != 0 {
			pixel |= 0b10
		}
		if pixel == 0 {
			continue
		}

		if i == 0 && s.Index == 0 {
			p.spriteZeroBeingRendered = true
		}
		return pixel, s.Palette() + 0x04, !s.BehindBackground()
	}
	return 0, 0, false
}

func (p *PPU) composite() {
	bgPixel, bgPalette := p.backgroundPixel()
	fgPixel, fgPalette, fgFront := p.spritePixel()

	pixel := uint8(0)
	palette := uint8(0)

	switch {
	case bgPixel == 0 && fgPixel == 0:
	case bgPixel == 0:
		pixel, palette = fgPixel, fgPalette
	case fgPixel == 0:
		pixel, palette = bgPixel, bgPalette
	default:
		if fgFront {
			pixel, palette = fgPixel, fgPalette
		} else {
			pixel, palette = bgPixel, bgPalette
		}

		if p.spriteZeroHitPossible && p.spriteZeroBeingRendered {
			// never at x=255, and not in the clipped left columns
			first := 1
			if !p.mask.Flag(maskBackgroundLeft) || !p.mask.Flag(maskSpritesLeft) {
				first = 9
			}
			if p.cycle >= first && p.cycle < 256 {
				p.status.SetFlag(statusSpriteZeroHit, true)
			}
		}
	}

	p.frame.set(p.cycle-1, p.scanline, p.colourFromPaletteRam(palette, pixel))
}

func (p *PPU) clock() {
	if p.scanline < postRenderLine || p.scanline == preRenderLine {
		p.renderLine()
	}

	if p.scanline == vblankLine && p.cycle == 1 {
		p.status.SetFlag(statusVerticalBlank, true)
		if p.control.Flag(ctrlEnableNMI) {
			p.nmi = true
		}
	}

	if p.scanline < postRenderLine && p.cycle >= 1 && p.cycle <= Width {
		p.composite()
	}

	p.cycle++
	// odd frames drop the last dot of the pre-render line
	if p.scanline == preRenderLine && p.cycle == cyclesPerScanline-1 && p.oddFrame && p.renderingEnabled() {
		p.cycle = cyclesPerScanline
	}
	if p.cycle >= cyclesPerScanline {
		p.cycle = 0
		p.scanline++
		if p.scanline >= scanlinesPerFrame {
			p.scanline = 0
			p.oddFrame = !p.oddFrame
			p.frameCount++
			p.frame.Swap()
		}
	}
}
