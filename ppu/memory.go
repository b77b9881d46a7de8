package ppu

import "nes-core/mapper"

// Cartridge is the PPU's view of the cartridge: CHR memory and the
// nametable wiring.
type Cartridge interface {
	PpuRead(addr uint16, data *uint8) bool
	PpuWrite(addr uint16, data uint8) bool
	Mirror() mapper.MIRROR
}

func (p *PPU) mirror() mapper.MIRROR {
	if p.cartridge == nil {
		return mapper.HORIZONTAL
	}
	return p.cartridge.Mirror()
}

// nametableIndex folds a $2000-$2FFF address onto one of the physical
// nametables for the given mirroring.
func nametableIndex(mirror mapper.MIRROR, addr uint16) (table uint16, offset uint16) {
	addr &= 0x0FFF
	logical := addr >> 10
	offset = addr & 0x03FF

	switch mirror {
	case mapper.VERTICAL:
		table = logical & 0x01
	case mapper.HORIZONTAL:
		table = logical >> 1
	case mapper.ONESCREEN_LO:
		table = 0
	case mapper.ONESCREEN_HI:
		table = 1
	default:
		table = logical
	}
	return table, offset
}

// paletteIndex applies the backdrop aliasing: $3F04/$3F08/$3F0C read and
// write $3F00, the sprite half keeps its own entries.
func paletteIndex(addr uint16) uint16 {
	addr &= 0x001F
	if addr < 0x0010 && addr&0x0003 == 0 {
		return 0
	}
	return addr
}

func (p *PPU) ppuRead(addr uint16) uint8 {
	data := uint8(0)
	addr &= 0x3FFF

	switch {
	case addr <= 0x1FFF:
		if p.cartridge != nil {
			p.cartridge.PpuRead(addr, &data)
		}
	case addr <= 0x3EFF:
		table, offset := nametableIndex(p.mirror(), addr)
		data = p.tableName[table][offset]
	default:
		mask := uint8(0x3F)
		if p.mask.Flag(maskGrayscale) {
			mask = 0x30
		}
		data = p.tablePalette[paletteIndex(addr)] & mask
	}
	return data
}

func (p *PPU) ppuWrite(addr uint16, data uint8) {
	addr &= 0x3FFF

	switch {
	case addr <= 0x1FFF:
		if p.cartridge != nil {
			p.cartridge.PpuWrite(addr, data)
		}
	case addr <= 0x3EFF:
		table, offset := nametableIndex(p.mirror(), addr)
		p.tableName[table][offset] = data
	default:
		p.tablePalette[paletteIndex(addr)] = data
	}
}

// PeekVRAM reads PPU address space without touching $2007's buffer.
func (p *PPU) PeekVRAM(addr uint16) uint8 {
	return p.ppuRead(addr)
}
