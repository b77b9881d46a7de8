package bus

import (
	"errors"
	"log"

	"nes-core/cartridge"
	"nes-core/controller"
	"nes-core/cpu"
	"nes-core/ppu"
)

// Processor is a clocked chip. Clock advances it by one of its own cycles.
type Processor interface {
	Clock() error
	Reset()
}

var (
	_ Processor = (*cpu.CPU)(nil)
	_ Processor = (*ppu.PPU)(nil)
)

// Controller is whatever is plugged into a joypad port.
type Controller interface {
	Read() uint8
	Write(data uint8)
}

var ErrBadPort = errors.New("no such controller port")

const (
	ramSize = 2048
	// PPU dots per CPU cycle
	clockRatio = 3
)

// Bus owns the CPU address space and drives both processors from one
// system clock.
type Bus struct {
	systemClockCounter uint64
	cpuRam             [ramSize]uint8

	cpu        *cpu.CPU
	ppu        *ppu.PPU
	ppuOptions []ppu.Option
	cartridge  *cartridge.Cartridge

	controllers [2]Controller

	dmaPage    uint8
	dmaPending bool

	logger  *log.Logger
	verbose bool
	halted  error
}

func New(options ...Option) (*Bus, error) {
	b := &Bus{
		logger:      log.Default(),
		controllers: [2]Controller{controller.NewJoypad(), controller.NewJoypad()},
	}
	if err := b.setOptions(options...); err != nil {
		return nil, err
	}

	p, err := ppu.NewPPU(b.ppuOptions...)
	if err != nil {
		return nil, err
	}
	b.ppu = p
	b.cpu = cpu.NewCPU()
	b.cpu.ConnectBus(b)
	return b, nil
}

func (b *Bus) CPU() *cpu.CPU {
	return b.cpu
}

func (b *Bus) PPU() *ppu.PPU {
	return b.ppu
}

func (b *Bus) Cartridge() *cartridge.Cartridge {
	return b.cartridge
}

func (b *Bus) Controller(port int) Controller {
	return b.controllers[port&1]
}

func (b *Bus) SystemClock() uint64 {
	return b.systemClockCounter
}

func (b *Bus) CpuWrite(addr uint16, data uint8) {
	if b.cartridge != nil && b.cartridge.CpuWrite(addr, data) {
		return
	}

	switch {
	case addr <= 0x1FFF:
		b.cpuRam[addr&0x07FF] = data
	case addr <= 0x3FFF:
		b.ppu.CpuWrite(addr&0x0007, data)
	case addr == 0x4014:
		b.dmaPage = data
		b.dmaPending = true
	case addr == 0x4016:
		// one strobe line feeds both ports
		for _, c := range b.controllers {
			if c != nil {
				c.Write(data)
			}
		}
	}
	// APU and the remaining I/O registers are not wired
}

// CpuRead reads the CPU address space. readOnly reads have no side
// effects on the PPU or the controllers.
func (b *Bus) CpuRead(addr uint16, readOnly bool) uint8 {
	data := uint8(0)
	if b.cartridge != nil && b.cartridge.CpuRead(addr, &data) {
		return data
	}

	switch {
	case addr <= 0x1FFF:
		data = b.cpuRam[addr&0x07FF]
	case addr <= 0x3FFF:
		data = b.ppu.CpuRead(addr&0x0007, readOnly)
	case addr == 0x4016 || addr == 0x4017:
		c := b.controllers[addr&0x0001]
		if c != nil && !readOnly {
			data = c.Read()
		}
	}
	return data
}

// Peek is a side effect free read for debuggers.
func (b *Bus) Peek(addr uint16) uint8 {
	return b.CpuRead(addr, true)
}

// TakeDMA hands a pending $4014 request to the CPU.
func (b *Bus) TakeDMA() (uint8, bool) {
	pending := b.dmaPending
	b.dmaPending = false
	return b.dmaPage, pending
}

func (b *Bus) InsertCartridge(c *cartridge.Cartridge) {
	b.cartridge = c
	b.ppu.ConnectCartridge(c)
	if b.verbose {
		b.logger.Printf("cartridge: mapper %d, %d PRG x 16KB, %d CHR x 8KB, %s mirroring",
			c.MapperId(), c.PrgBanks(), c.ChrBanks(), c.Mirror())
	}
}

func (b *Bus) processors() []Processor {
	return []Processor{b.cpu, b.ppu}
}

// Reset is the console reset button.
func (b *Bus) Reset() {
	if b.cartridge != nil {
		b.cartridge.Reset()
	}
	for _, p := range b.processors() {
		p.Reset()
	}
	b.systemClockCounter = 0
	b.dmaPending = false
	b.halted = nil
	if b.verbose {
		b.logger.Printf("reset: PC=$%04X", b.cpu.PC)
	}
}

// Clock advances the system by one PPU dot, clocking the CPU on every
// third, and forwards the vblank NMI.
func (b *Bus) Clock() error {
	if err := b.ppu.Clock(); err != nil {
		return err
	}
	if b.systemClockCounter%clockRatio == 0 {
		if err := b.cpu.Clock(); err != nil {
			b.halt(err)
			return err
		}
	}

	if b.ppu.TakeNMI() {
		b.cpu.RaiseInterrupt(cpu.InterruptNMI)
	}

	b.systemClockCounter++
	return nil
}

func (b *Bus) halt(err error) {
	if b.halted != nil {
		return
	}
	b.halted = err
	b.logger.Printf("cpu halted: %v", err)
}

// RunFrame clocks the system until the PPU completes a frame.
func (b *Bus) RunFrame() error {
	frame := b.ppu.FrameCount()
	for b.ppu.FrameCount() == frame {
		if err := b.Clock(); err != nil {
			return err
		}
	}
	return nil
}

// StepInstruction clocks the system until the CPU has started one more
// unit of work (an instruction, an interrupt entry or a DMA transfer) and
// paid for it.
func (b *Bus) StepInstruction() error {
	start := b.cpu.CycleCount()
	for b.cpu.CycleCount() == start {
		if err := b.Clock(); err != nil {
			return err
		}
	}
	for !b.cpu.IsComplete() {
		if err := b.Clock(); err != nil {
			return err
		}
	}
	return nil
}
