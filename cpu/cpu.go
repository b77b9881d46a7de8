package cpu

import (
	"errors"
	"fmt"
)

const (
	stackBase   = 0x0100
	vectorNMI   = 0xFFFA
	vectorReset = 0xFFFC
	vectorIRQ   = 0xFFFE

	interruptCycles = 7
	dmaCycles       = 513
)

// Bus is the CPU's view of the address space.
type Bus interface {
	CpuRead(addr uint16, readOnly bool) uint8
	CpuWrite(addr uint16, data uint8)
	// TakeDMA reports a pending OAM DMA request and clears it.
	TakeDMA() (page uint8, pending bool)
}

var ErrUnimplementedOpcode = errors.New("unimplemented opcode")

// UnimplementedOpcodeError halts the CPU at PC until the next Reset.
type UnimplementedOpcodeError struct {
	Opcode uint8
	PC     uint16
}

func (e *UnimplementedOpcodeError) Error() string {
	return fmt.Sprintf("unimplemented opcode $%02X at $%04X", e.Opcode, e.PC)
}

func (e *UnimplementedOpcodeError) Is(target error) bool {
	return target == ErrUnimplementedOpcode
}

type CPUFlag uint8

const (
	C = CPUFlag(1 << 0)
	Z = CPUFlag(1 << 1)
	I = CPUFlag(1 << 2)
	D = CPUFlag(1 << 3)
	B = CPUFlag(1 << 4)
	U = CPUFlag(1 << 5)
	V = CPUFlag(1 << 6)
	N = CPUFlag(1 << 7)
)

// Interrupt values are ordered by priority.
type Interrupt uint8

const (
	InterruptNone Interrupt = iota
	InterruptIRQ
	InterruptNMI
	InterruptReset
)

func (i Interrupt) String() string {
	switch i {
	case InterruptNone:
		return "none"
	case InterruptIRQ:
		return "IRQ"
	case InterruptNMI:
		return "NMI"
	case InterruptReset:
		return "RESET"
	}
	return fmt.Sprintf("interrupt(%d)", uint8(i))
}

type CPU struct {
	A      uint8
	X      uint8
	Y      uint8
	SP     uint8
	PC     uint16
	Status uint8

	fetched uint8
	addrAbs uint16
	addrRel uint16
	opcode  uint8

	// cycles taken by the instruction being executed
	cycles int
	// signed cycle debt paid off one Clock at a time
	debt       int
	cycleCount uint64

	// bit per Interrupt value
	pending uint8
	fault   error

	bus    Bus
	lookup *[256]*Instruction
}

func NewCPU() *CPU {
	return &CPU{
		lookup: &lookup,
	}
}

func (c *CPU) ConnectBus(bus Bus) {
	c.bus = bus
}

func (c *CPU) GetFlag(flag CPUFlag) uint8 {
	if c.Status&uint8(flag) != 0 {
		return 1
	}
	return 0
}

func (c *CPU) SetFlag(flag CPUFlag, v bool) {
	if v {
		c.Status |= uint8(flag)
	} else {
		c.Status &= ^uint8(flag)
	}
}

func (c *CPU) setZN(v uint8) {
	c.SetFlag(Z, v == 0x00)
	c.SetFlag(N, v&0x80 != 0)
}

func (c *CPU) read(addr uint16) uint8 {
	return c.bus.CpuRead(addr, false)
}

func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.read(addr))
	hi := uint16(c.read(addr + 1))
	return (hi << 8) | lo
}

func (c *CPU) write(addr uint16, data uint8) {
	c.bus.CpuWrite(addr, data)
}

// push and pull wrap inside page one; SP is never checked for overflow.
func (c *CPU) push(data uint8) {
	c.write(stackBase+uint16(c.SP), data)
	c.SP--
}

func (c *CPU) pull() uint8 {
	c.SP++
	return c.read(stackBase + uint16(c.SP))
}

func (c *CPU) push16(data uint16) {
	c.push(uint8(data >> 8))
	c.push(uint8(data))
}

func (c *CPU) pull16() uint16 {
	lo := uint16(c.pull())
	hi := uint16(c.pull())
	return (hi << 8) | lo
}

// CycleCount is the total number of cycles consumed since Reset.
func (c *CPU) CycleCount() uint64 {
	return c.cycleCount
}

// IsComplete is true between instructions.
func (c *CPU) IsComplete() bool {
	return c.debt <= 0
}

func (c *CPU) Opcode() uint8 {
	return c.opcode
}

// Fault returns the error that halted the CPU, if any.
func (c *CPU) Fault() error {
	return c.fault
}

// RaiseInterrupt latches an interrupt request; it is serviced at the next
// instruction boundary. IRQ stays latched while the I flag masks it.
func (c *CPU) RaiseInterrupt(kind Interrupt) {
	if kind == InterruptNone {
		return
	}
	c.pending |= 1 << kind
}

func (c *CPU) ClearInterrupt(kind Interrupt) {
	c.pending &^= 1 << kind
}

// Pending returns the highest priority latched interrupt.
func (c *CPU) Pending() Interrupt {
	for kind := InterruptReset; kind > InterruptNone; kind-- {
		if c.pending&(1<<kind) != 0 {
			return kind
		}
	}
	return InterruptNone
}

func (c *CPU) interrupt(vector uint16) {
	c.push16(c.PC)
	c.push((c.Status | uint8(U)) &^ uint8(B))
	c.SetFlag(I, true)
	c.PC = c.read16(vector)
}

func (c *CPU) serviceInterrupt() int {
	kind := c.Pending()
	switch kind {
	case InterruptReset:
		c.ClearInterrupt(kind)
		c.SP -= 3
		c.SetFlag(I, true)
		c.PC = c.read16(vectorReset)
	case InterruptNMI:
		c.ClearInterrupt(kind)
		c.interrupt(vectorNMI)
	case InterruptIRQ:
		if c.GetFlag(I) == 1 {
			return 0
		}
		c.ClearInterrupt(kind)
		c.interrupt(vectorIRQ)
	default:
		return 0
	}
	return interruptCycles
}

func (c *CPU) dma(page uint8) int {
	base := uint16(page) << 8
	for i := uint16(0); i < 256; i++ {
		c.write(0x2004, c.read(base+i))
	}
	cycles := dmaCycles
	if c.cycleCount%2 == 1 {
		cycles++
	}
	return cycles
}

// Step runs one unit of CPU work to completion: an OAM DMA transfer, an
// interrupt entry or one instruction. It returns the cycles consumed.
func (c *CPU) Step() (int, error) {
	if c.fault != nil {
		return 0, c.fault
	}

	cycles := 0
	if page, ok := c.bus.TakeDMA(); ok {
		cycles = c.dma(page)
	} else if n := c.serviceInterrupt(); n > 0 {
		cycles = n
	} else {
		n, err := c.execute()
		if err != nil {
			return 0, err
		}
		cycles = n
	}

	c.cycleCount += uint64(cycles)
	return cycles, nil
}

func (c *CPU) execute() (int, error) {
	c.opcode = c.read(c.PC)
	inst := c.lookup[c.opcode]
	if inst == nil {
		c.fault = &UnimplementedOpcodeError{Opcode: c.opcode, PC: c.PC}
		return 0, c.fault
	}

	c.SetFlag(U, true)
	c.PC++

	c.cycles = int(inst.Cycles)
	additionalCycle1 := addressModes[inst.AddrMode](c)
	additionalCycle2 := inst.operate(c)
	c.cycles += int(additionalCycle1 & additionalCycle2)
	c.SetFlag(U, true)

	return c.cycles, nil
}

// Clock advances the CPU by one cycle. Work happens only when the cycle
// debt of the previous unit has been paid.
func (c *CPU) Clock() error {
	if c.debt <= 0 {
		n, err := c.Step()
		if err != nil {
			return err
		}
		c.debt += n
	}
	c.debt--
	return nil
}

// Reset is a power-on reset: registers cleared, PC loaded from the reset
// vector and any fault or pending interrupt forgotten.
func (c *CPU) Reset() {
	c.PC = c.read16(vectorReset)

	c.A = 0
	c.X = 0
	c.Y = 0
	c.SP = 0xFD
	c.Status = uint8(U) | uint8(I)

	c.addrRel = 0x0000
	c.addrAbs = 0x0000
	c.fetched = 0x00

	c.pending = 0
	c.fault = nil
	c.cycleCount = interruptCycles
	c.debt = interruptCycles
}
