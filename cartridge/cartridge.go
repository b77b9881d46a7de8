package cartridge

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"nes-core/mapper"
)

const (
	prgBankSize  = 16384
	chrBankSize  = 8192
	trainerSize  = 512
	expansionLo  = 0x4020
	saveRAMLo    = 0x6000
	saveRAMSize  = 0x2000
	expansionLen = saveRAMLo - expansionLo
)

var (
	ErrBadMagic  = errors.New("not an iNES image")
	ErrBadHeader = errors.New("malformed iNES header")
	ErrTruncated = errors.New("truncated iNES image")
)

var magic = [4]byte{'N', 'E', 'S', 0x1A}

type Cartridge struct {
	header    Header
	prgBanks  uint8
	chrBanks  uint8
	prgMemory []uint8
	chrMemory []uint8
	expansion []uint8
	saveRAM   []uint8
	mapperId  uint8
	mapper    mapper.Mapper
	mirror    mapper.MIRROR
}

type Header struct {
	Name         [4]byte
	PrgRomChunks uint8
	ChrRomChunks uint8
	Mapper1      uint8
	Mapper2      uint8
	PrgRamSize   uint8
	TvSystem1    uint8
	TvSystem2    uint8
	Unused       [5]byte
}

func (h Header) hasTrainer() bool {
	return h.Mapper1&0x04 != 0
}

// Battery reports whether save RAM is battery backed.
func (h Header) Battery() bool {
	return h.Mapper1&0x02 != 0
}

func (h Header) mapperId() uint8 {
	return (h.Mapper2 & 0xF0) | (h.Mapper1 >> 4)
}

func (h Header) mirror() mapper.MIRROR {
	if h.Mapper1&0x08 != 0 {
		return mapper.FOUR_SCREEN
	}
	if h.Mapper1&0x01 != 0 {
		return mapper.VERTICAL
	}
	return mapper.HORIZONTAL
}

// Load reads an iNES image from disk.
func Load(filename string) (*Cartridge, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cart, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return cart, nil
}

// Parse builds a cartridge from an iNES stream. Nothing is returned unless
// every bank declared by the header was read in full.
func Parse(r io.Reader) (*Cartridge, error) {
	header := Header{}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrTruncated, err)
	}
	if header.Name != magic {
		return nil, ErrBadMagic
	}
	if header.PrgRomChunks == 0 {
		return nil, fmt.Errorf("%w: no PRG banks", ErrBadHeader)
	}

	if header.hasTrainer() {
		if _, err := io.CopyN(io.Discard, r, trainerSize); err != nil {
			return nil, fmt.Errorf("%w: trainer: %v", ErrTruncated, err)
		}
	}

	cart := &Cartridge{
		header:    header,
		prgBanks:  header.PrgRomChunks,
		chrBanks:  header.ChrRomChunks,
		mapperId:  header.mapperId(),
		mirror:    header.mirror(),
		expansion: make([]uint8, expansionLen),
		saveRAM:   make([]uint8, saveRAMSize),
	}

	cart.prgMemory = make([]uint8, int(cart.prgBanks)*prgBankSize)
	if _, err := io.ReadFull(r, cart.prgMemory); err != nil {
		return nil, fmt.Errorf("%w: PRG: %v", ErrTruncated, err)
	}

	if cart.chrBanks == 0 {
		// CHR RAM
		cart.chrMemory = make([]uint8, chrBankSize)
	} else {
		cart.chrMemory = make([]uint8, int(cart.chrBanks)*chrBankSize)
		if _, err := io.ReadFull(r, cart.chrMemory); err != nil {
			return nil, fmt.Errorf("%w: CHR: %v", ErrTruncated, err)
		}
	}

	m, err := mapper.New(cart.mapperId, cart.prgBanks, cart.chrBanks)
	if err != nil {
		return nil, err
	}
	cart.mapper = m

	return cart, nil
}

func bank(memory []uint8, mappedAddr uint32, region string) *uint8 {
	if mappedAddr >= uint32(len(memory)) {
		panic(fmt.Sprintf("cartridge: %s access %06x outside %d bytes", region, mappedAddr, len(memory)))
	}
	return &memory[mappedAddr]
}

// CpuRead claims cartridge space ($4020-$FFFF).
func (c *Cartridge) CpuRead(addr uint16, data *uint8) bool {
	switch {
	case addr < expansionLo:
		return false
	case addr < saveRAMLo:
		*data = c.expansion[addr-expansionLo]
		return true
	case addr < 0x8000:
		*data = c.saveRAM[addr-saveRAMLo]
		return true
	}

	mappedAddr := uint32(0)
	if c.mapper.CpuMapRead(addr, &mappedAddr) {
		*data = *bank(c.prgMemory, mappedAddr, "PRG")
		return true
	}
	return false
}

func (c *Cartridge) CpuWrite(addr uint16, data uint8) bool {
	switch {
	case addr < expansionLo:
		return false
	case addr < saveRAMLo:
		c.expansion[addr-expansionLo] = data
		return true
	case addr < 0x8000:
		c.saveRAM[addr-saveRAMLo] = data
		return true
	}

	mappedAddr := uint32(0)
	if c.mapper.CpuMapWrite(addr, &mappedAddr, data) {
		*bank(c.prgMemory, mappedAddr, "PRG") = data
	}
	// ROM writes land on the mapper or nowhere
	return true
}

func (c *Cartridge) PpuRead(addr uint16, data *uint8) bool {
	mappedAddr := uint32(0)
	if c.mapper.PpuMapRead(addr, &mappedAddr) {
		*data = *bank(c.chrMemory, mappedAddr, "CHR")
		return true
	}
	return false
}

func (c *Cartridge) PpuWrite(addr uint16, data uint8) bool {
	mappedAddr := uint32(0)
	if c.mapper.PpuMapWrite(addr, &mappedAddr, data) {
		*bank(c.chrMemory, mappedAddr, "CHR") = data
		return true
	}
	return addr <= 0x1FFF
}

// Mirror is the active nametable arrangement: the mapper's when it drives
// one, otherwise the soldered setting from the header.
func (c *Cartridge) Mirror() mapper.MIRROR {
	if m := c.mapper.Mirror(); m != mapper.HARDWARE {
		return m
	}
	return c.mirror
}

func (c *Cartridge) Reset() {
	if c.mapper != nil {
		c.mapper.Reset()
	}
}

func (c *Cartridge) Header() Header {
	return c.header
}

func (c *Cartridge) MapperId() uint8 {
	return c.mapperId
}

func (c *Cartridge) PrgBanks() uint8 {
	return c.prgBanks
}

func (c *Cartridge) ChrBanks() uint8 {
	return c.chrBanks
}

// SaveRAM writes the $6000-$7FFF region to w.
func (c *Cartridge) SaveRAM(w io.Writer) error {
	_, err := w.Write(c.saveRAM)
	return err
}

// LoadSaveRAM restores the $6000-$7FFF region. A short image is an error
// and leaves the current contents untouched.
func (c *Cartridge) LoadSaveRAM(r io.Reader) error {
	buf := make([]uint8, saveRAMSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("%w: save RAM: %v", ErrTruncated, err)
	}
	copy(c.saveRAM, buf)
	return nil
}
