package cpu

import "fmt"

type DisassembledInstruction struct {
	Instruction  string
	NextAddr     uint16
	PreviousAddr uint16
}

// Disassemble decodes [start, stop] through the read-only bus path, keyed
// by instruction address. Unimplemented bytes are shown as "???".
func (c *CPU) Disassemble(start uint16, stop uint16) map[uint16]DisassembledInstruction {
	addr := uint32(start)
	lineAddr := uint16(0)
	lines := make(map[uint16]DisassembledInstruction)

	peek := func() uint8 {
		v := c.bus.CpuRead(uint16(addr), true)
		addr++
		return v
	}

	for addr <= uint32(stop) {
		previousAddr := lineAddr
		lineAddr = uint16(addr)
		opcode := peek()

		inst := c.lookup[opcode]
		var s string
		if inst == nil {
			s = fmt.Sprintf("$%04X: ??? ($%02X)", lineAddr, opcode)
		} else {
			s = fmt.Sprintf("$%04X: %s ", lineAddr, inst.Name)
			switch inst.AddrMode {
			case IMP:
				s += "{IMP}"
			case IMM:
				s += fmt.Sprintf("#$%02X {IMM}", peek())
			case ZP0:
				s += fmt.Sprintf("$%02X {ZP0}", peek())
			case ZPX:
				s += fmt.Sprintf("$%02X, X {ZPX}", peek())
			case ZPY:
				s += fmt.Sprintf("$%02X, Y {ZPY}", peek())
			case IZX:
				s += fmt.Sprintf("($%02X, X) {IZX}", peek())
			case IZY:
				s += fmt.Sprintf("($%02X), Y {IZY}", peek())
			case ABS, ABX, ABY, IND:
				lo := uint16(peek())
				hi := uint16(peek())
				operand := (hi << 8) | lo
				switch inst.AddrMode {
				case ABS:
					s += fmt.Sprintf("$%04X {ABS}", operand)
				case ABX:
					s += fmt.Sprintf("$%04X, X {ABX}", operand)
				case ABY:
					s += fmt.Sprintf("$%04X, Y {ABY}", operand)
				case IND:
					s += fmt.Sprintf("($%04X) {IND}", operand)
				}
			case REL:
				value := peek()
				offset := uint16(value)
				if offset&0x80 != 0 {
					offset |= 0xFF00
				}
				s += fmt.Sprintf("$%02X [$%04X] {REL}", value, uint16(addr)+offset)
			}
		}

		lines[lineAddr] = DisassembledInstruction{
			Instruction:  s,
			PreviousAddr: previousAddr,
			NextAddr:     uint16(addr),
		}
	}
	return lines
}
