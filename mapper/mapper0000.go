package mapper

// Mapper0000 is NROM: no bank switching. One 16KB PRG bank is mirrored into
// both halves of $8000-$FFFF, two banks fill it. CHR is a single fixed 8KB
// bank, writable only when the cartridge ships CHR RAM.
type Mapper0000 struct {
	PrgBanks uint8
	ChrBanks uint8
}

func (m *Mapper0000) prgMask() uint16 {
	if m.PrgBanks > 1 {
		return 0x7FFF
	}
	return 0x3FFF
}

func (m *Mapper0000) CpuMapRead(addr uint16, mappedAddr *uint32) bool {
	if addr >= 0x8000 {
		*mappedAddr = uint32(addr & m.prgMask())
		return true
	}
	return false
}

// CpuMapWrite never claims an address: PRG is ROM and NROM has no registers.
func (m *Mapper0000) CpuMapWrite(addr uint16, mappedAddr *uint32, data uint8) bool {
	return false
}

func (m *Mapper0000) PpuMapRead(addr uint16, mappedAddr *uint32) bool {
	if addr <= 0x1FFF {
		*mappedAddr = uint32(addr)
		return true
	}
	return false
}

func (m *Mapper0000) PpuMapWrite(addr uint16, mappedAddr *uint32, data uint8) bool {
	if addr <= 0x1FFF && m.ChrBanks == 0 {
		*mappedAddr = uint32(addr)
		return true
	}
	return false
}

func (m *Mapper0000) Reset() {
}

func (m *Mapper0000) Mirror() MIRROR {
	return HARDWARE
}
