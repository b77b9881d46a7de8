package mapper

import (
	"errors"
	"fmt"
)

type MIRROR uint8

const (
	HARDWARE     = MIRROR(0)
	HORIZONTAL   = MIRROR(1)
	VERTICAL     = MIRROR(2)
	ONESCREEN_LO = MIRROR(3)
	ONESCREEN_HI = MIRROR(4)
	FOUR_SCREEN  = MIRROR(5)
)

func (m MIRROR) String() string {
	switch m {
	case HARDWARE:
		return "hardware"
	case HORIZONTAL:
		return "horizontal"
	case VERTICAL:
		return "vertical"
	case ONESCREEN_LO:
		return "single (low)"
	case ONESCREEN_HI:
		return "single (high)"
	case FOUR_SCREEN:
		return "four screen"
	}
	return fmt.Sprintf("mirror(%d)", uint8(m))
}

var ErrUnsupported = errors.New("unsupported mapper")

// Mapper translates CPU and PPU bus addresses into offsets inside the
// cartridge PRG and CHR memories. A Map call returning false means the
// mapper does not claim the address; for writes it also means no storage is
// touched, which is how bank-select registers swallow the value.
type Mapper interface {
	CpuMapRead(addr uint16, mappedAddr *uint32) bool
	CpuMapWrite(addr uint16, mappedAddr *uint32, data uint8) bool
	PpuMapRead(addr uint16, mappedAddr *uint32) bool
	PpuMapWrite(addr uint16, mappedAddr *uint32, data uint8) bool
	Reset()
	// Mirror returns HARDWARE unless the mapper drives nametable mirroring itself.
	Mirror() MIRROR
}

// New returns the mapper for an iNES mapper id.
func New(id uint8, prgBanks uint8, chrBanks uint8) (Mapper, error) {
	switch id {
	case 0:
		return &Mapper0000{PrgBanks: prgBanks, ChrBanks: chrBanks}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnsupported, id)
}
