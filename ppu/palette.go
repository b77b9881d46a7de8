package ppu

// colours is the 2C02 system palette as packed 0xRRGGBB.
var colours = [64]uint32{
	0x545454, 0x001E74, 0x081090, 0x300088, 0x440064, 0x5C0030, 0x540400, 0x3C1800,
	0x202A00, 0x083A00, 0x004000, 0x003C00, 0x00323C, 0x000000, 0x000000, 0x000000,
	0x989698, 0x084CC4, 0x3032EC, 0x5C1EE4, 0x8814B0, 0xA01464, 0x982220, 0x783C00,
	0x545A00, 0x287200, 0x087C00, 0x007628, 0x006678, 0x000000, 0x000000, 0x000000,
	0xECEEEC, 0x4C9AEC, 0x787CEC, 0xB062EC, 0xE454EC, 0xEC58B4, 0xEC6A64, 0xD48820,
	0xA0AA00, 0x74C400, 0x4CD020, 0x38CC6C, 0x38B4CC, 0x3C3C3C, 0x000000, 0x000000,
	0xECEEEC, 0xA8CCEC, 0xBCBCEC, 0xD4B2EC, 0xECAEEC, 0xECAED4, 0xECB4B0, 0xE4C490,
	0xCCD278, 0xB4DE78, 0xA8E290, 0x98E2B4, 0xA0D6E4, 0xA0A2A0, 0x000000, 0x000000,
}

// Colour returns the packed RGB value of a 6 bit system colour index.
func Colour(index uint8) uint32 {
	return colours[index&0x3F]
}

// RGB splits a packed colour into its channels.
func RGB(c uint32) (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

func (p *PPU) colourFromPaletteRam(palette uint8, pixel uint8) uint32 {
	return Colour(p.ppuRead(0x3F00 + uint16(palette)<<2 + uint16(pixel)))
}

// PatternTable renders one 4KB pattern table as a 128x128 image of packed
// colours, using palette (0-7) to colour the tiles.
func (p *PPU) PatternTable(i uint8, palette uint8) []uint32 {
	out := make([]uint32, 128*128)
	base := uint16(i&1) * 0x1000
	for tileY := uint16(0); tileY < 16; tileY++ {
		for tileX := uint16(0); tileX < 16; tileX++ {
			offset := tileY*256 + tileX*16
			for row := uint16(0); row < 8; row++ {
				tileLsb := p.ppuRead(base + offset + row)
				tileMsb := p.ppuRead(base + offset + row + 0x0008)

				for col := uint16(0); col < 8; col++ {
					pixel := ((tileMsb & 0x01) << 1) | (tileLsb & 0x01)
					tileLsb >>= 1
					tileMsb >>= 1
					x := tileX*8 + (7 - col)
					y := tileY*8 + row
					out[int(y)*128+int(x)] = p.colourFromPaletteRam(palette&0x07, pixel)
				}
			}
		}
	}
	return out
}
