package cpu

import "fmt"

// Instruction is one entry of the dispatch table: an opcode byte bound to
// its mnemonic, addressing mode and base cycle cost.
type Instruction struct {
	Opcode   uint8
	Name     string
	AddrMode AddrMode
	Cycles   uint8
	operate  func(*CPU) uint8
}

func (i *Instruction) Bytes() uint8 {
	return i.AddrMode.Bytes()
}

func (i *Instruction) String() string {
	return fmt.Sprintf("%02X %s {%s} %d bytes, %d cycles", i.Opcode, i.Name, i.AddrMode, i.Bytes(), i.Cycles)
}

// Lookup returns the table entry for an opcode, nil when unimplemented.
func Lookup(opcode uint8) *Instruction {
	return lookup[opcode]
}

func buildLookup(instructions []Instruction) [256]*Instruction {
	table := [256]*Instruction{}
	for i := range instructions {
		inst := &instructions[i]
		if table[inst.Opcode] != nil {
			panic(fmt.Sprintf("cpu: opcode %02X defined twice (%s, %s)", inst.Opcode, table[inst.Opcode].Name, inst.Name))
		}
		table[inst.Opcode] = inst
	}
	return table
}

var lookup = buildLookup([]Instruction{
	{0x69, "ADC", IMM, 2, opADC},
	{0x65, "ADC", ZP0, 3, opADC},
	{0x75, "ADC", ZPX, 4, opADC},
	{0x6D, "ADC", ABS, 4, opADC},
	{0x7D, "ADC", ABX, 4, opADC},
	{0x79, "ADC", ABY, 4, opADC},
	{0x61, "ADC", IZX, 6, opADC},
	{0x71, "ADC", IZY, 5, opADC},

	{0x29, "AND", IMM, 2, opAND},
	{0x25, "AND", ZP0, 3, opAND},
	{0x35, "AND", ZPX, 4, opAND},
	{0x2D, "AND", ABS, 4, opAND},
	{0x3D, "AND", ABX, 4, opAND},
	{0x39, "AND", ABY, 4, opAND},
	{0x21, "AND", IZX, 6, opAND},
	{0x31, "AND", IZY, 5, opAND},

	{0x0A, "ASL", IMP, 2, opASL},
	{0x06, "ASL", ZP0, 5, opASL},
	{0x16, "ASL", ZPX, 6, opASL},
	{0x0E, "ASL", ABS, 6, opASL},
	{0x1E, "ASL", ABX, 7, opASL},

	{0x90, "BCC", REL, 2, opBCC},
	{0xB0, "BCS", REL, 2, opBCS},
	{0xF0, "BEQ", REL, 2, opBEQ},
	{0x30, "BMI", REL, 2, opBMI},
	{0xD0, "BNE", REL, 2, opBNE},
	{0x10, "BPL", REL, 2, opBPL},
	{0x50, "BVC", REL, 2, opBVC},
	{0x70, "BVS", REL, 2, opBVS},

	{0x24, "BIT", ZP0, 3, opBIT},
	{0x2C, "BIT", ABS, 4, opBIT},

	{0x00, "BRK", IMP, 7, opBRK},

	{0x18, "CLC", IMP, 2, opCLC},
	{0xD8, "CLD", IMP, 2, opCLD},
	{0x58, "CLI", IMP, 2, opCLI},
	{0xB8, "CLV", IMP, 2, opCLV},

	{0xC9, "CMP", IMM, 2, opCMP},
	{0xC5, "CMP", ZP0, 3, opCMP},
	{0xD5, "CMP", ZPX, 4, opCMP},
	{0xCD, "CMP", ABS, 4, opCMP},
	{0xDD, "CMP", ABX, 4, opCMP},
	{0xD9, "CMP", ABY, 4, opCMP},
	{0xC1, "CMP", IZX, 6, opCMP},
	{0xD1, "CMP", IZY, 5, opCMP},

	{0xE0, "CPX", IMM, 2, opCPX},
	{0xE4, "CPX", ZP0, 3, opCPX},
	{0xEC, "CPX", ABS, 4, opCPX},

	{0xC0, "CPY", IMM, 2, opCPY},
	{0xC4, "CPY", ZP0, 3, opCPY},
	{0xCC, "CPY", ABS, 4, opCPY},

	{0xC6, "DEC", ZP0, 5, opDEC},
	{0xD6, "DEC", ZPX, 6, opDEC},
	{0xCE, "DEC", ABS, 6, opDEC},
	{0xDE, "DEC", ABX, 7, opDEC},

	{0xCA, "DEX", IMP, 2, opDEX},
	{0x88, "DEY", IMP, 2, opDEY},

	{0x49, "EOR", IMM, 2, opEOR},
	{0x45, "EOR", ZP0, 3, opEOR},
	{0x55, "EOR", ZPX, 4, opEOR},
	{0x4D, "EOR", ABS, 4, opEOR},
	{0x5D, "EOR", ABX, 4, opEOR},
	{0x59, "EOR", ABY, 4, opEOR},
	{0x41, "EOR", IZX, 6, opEOR},
	{0x51, "EOR", IZY, 5, opEOR},

	{0xE6, "INC", ZP0, 5, opINC},
	{0xF6, "INC", ZPX, 6, opINC},
	{0xEE, "INC", ABS, 6, opINC},
	{0xFE, "INC", ABX, 7, opINC},

	{0xE8, "INX", IMP, 2, opINX},
	{0xC8, "INY", IMP, 2, opINY},

	{0x4C, "JMP", ABS, 3, opJMP},
	{0x6C, "JMP", IND, 5, opJMP},
	{0x20, "JSR", ABS, 6, opJSR},

	{0xA9, "LDA", IMM, 2, opLDA},
	{0xA5, "LDA", ZP0, 3, opLDA},
	{0xB5, "LDA", ZPX, 4, opLDA},
	{0xAD, "LDA", ABS, 4, opLDA},
	{0xBD, "LDA", ABX, 4, opLDA},
	{0xB9, "LDA", ABY, 4, opLDA},
	{0xA1, "LDA", IZX, 6, opLDA},
	{0xB1, "LDA", IZY, 5, opLDA},

	{0xA2, "LDX", IMM, 2, opLDX},
	{0xA6, "LDX", ZP0, 3, opLDX},
	{0xB6, "LDX", ZPY, 4, opLDX},
	{0xAE, "LDX", ABS, 4, opLDX},
	{0xBE, "LDX", ABY, 4, opLDX},

	{0xA0, "LDY", IMM, 2, opLDY},
	{0xA4, "LDY", ZP0, 3, opLDY},
	{0xB4, "LDY", ZPX, 4, opLDY},
	{0xAC, "LDY", ABS, 4, opLDY},
	{0xBC, "LDY", ABX, 4, opLDY},

	{0x4A, "LSR", IMP, 2, opLSR},
	{0x46, "LSR", ZP0, 5, opLSR},
	{0x56, "LSR", ZPX, 6, opLSR},
	{0x4E, "LSR", ABS, 6, opLSR},
	{0x5E, "LSR", ABX, 7, opLSR},

	{0xEA, "NOP", IMP, 2, opNOP},

	{0x09, "ORA", IMM, 2, opORA},
	{0x05, "ORA", ZP0, 3, opORA},
	{0x15, "ORA", ZPX, 4, opORA},
	{0x0D, "ORA", ABS, 4, opORA},
	{0x1D, "ORA", ABX, 4, opORA},
	{0x19, "ORA", ABY, 4, opORA},
	{0x01, "ORA", IZX, 6, opORA},
	{0x11, "ORA", IZY, 5, opORA},

	{0x48, "PHA", IMP, 3, opPHA},
	{0x08, "PHP", IMP, 3, opPHP},
	{0x68, "PLA", IMP, 4, opPLA},
	{0x28, "PLP", IMP, 4, opPLP},

	{0x2A, "ROL", IMP, 2, opROL},
	{0x26, "ROL", ZP0, 5, opROL},
	{0x36, "ROL", ZPX, 6, opROL},
	{0x2E, "ROL", ABS, 6, opROL},
	{0x3E, "ROL", ABX, 7, opROL},

	{0x6A, "ROR", IMP, 2, opROR},
	{0x66, "ROR", ZP0, 5, opROR},
	{0x76, "ROR", ZPX, 6, opROR},
	{0x6E, "ROR", ABS, 6, opROR},
	{0x7E, "ROR", ABX, 7, opROR},

	{0x40, "RTI", IMP, 6, opRTI},
	{0x60, "RTS", IMP, 6, opRTS},

	{0xE9, "SBC", IMM, 2, opSBC},
	{0xE5, "SBC", ZP0, 3, opSBC},
	{0xF5, "SBC", ZPX, 4, opSBC},
	{0xED, "SBC", ABS, 4, opSBC},
	{0xFD, "SBC", ABX, 4, opSBC},
	{0xF9, "SBC", ABY, 4, opSBC},
	{0xE1, "SBC", IZX, 6, opSBC},
	{0xF1, "SBC", IZY, 5, opSBC},

	{0x38, "SEC", IMP, 2, opSEC},
	{0xF8, "SED", IMP, 2, opSED},
	{0x78, "SEI", IMP, 2, opSEI},

	{0x85, "STA", ZP0, 3, opSTA},
	{0x95, "STA", ZPX, 4, opSTA},
	{0x8D, "STA", ABS, 4, opSTA},
	{0x9D, "STA", ABX, 5, opSTA},
	{0x99, "STA", ABY, 5, opSTA},
	{0x81, "STA", IZX, 6, opSTA},
	{0x91, "STA", IZY, 6, opSTA},

	{0x86, "STX", ZP0, 3, opSTX},
	{0x96, "STX", ZPY, 4, opSTX},
	{0x8E, "STX", ABS, 4, opSTX},

	{0x84, "STY", ZP0, 3, opSTY},
	{0x94, "STY", ZPX, 4, opSTY},
	{0x8C, "STY", ABS, 4, opSTY},

	{0xAA, "TAX", IMP, 2, opTAX},
	{0xA8, "TAY", IMP, 2, opTAY},
	{0xBA, "TSX", IMP, 2, opTSX},
	{0x8A, "TXA", IMP, 2, opTXA},
	{0x9A, "TXS", IMP, 2, opTXS},
	{0x98, "TYA", IMP, 2, opTYA},

	// unofficial
	{0xEB, "SBC", IMM, 2, opSBC},

	{0x1A, "NOP", IMP, 2, opNOP},
	{0x3A, "NOP", IMP, 2, opNOP},
	{0x5A, "NOP", IMP, 2, opNOP},
	{0x7A, "NOP", IMP, 2, opNOP},
	{0xDA, "NOP", IMP, 2, opNOP},
	{0xFA, "NOP", IMP, 2, opNOP},
	{0x80, "NOP", IMM, 2, opNOP},
	{0x82, "NOP", IMM, 2, opNOP},
	{0x89, "NOP", IMM, 2, opNOP},
	{0xC2, "NOP", IMM, 2, opNOP},
	{0xE2, "NOP", IMM, 2, opNOP},
	{0x04, "NOP", ZP0, 3, opNOP},
	{0x44, "NOP", ZP0, 3, opNOP},
	{0x64, "NOP", ZP0, 3, opNOP},
	{0x14, "NOP", ZPX, 4, opNOP},
	{0x34, "NOP", ZPX, 4, opNOP},
	{0x54, "NOP", ZPX, 4, opNOP},
	{0x74, "NOP", ZPX, 4, opNOP},
	{0xD4, "NOP", ZPX, 4, opNOP},
	{0xF4, "NOP", ZPX, 4, opNOP},
	{0x0C, "NOP", ABS, 4, opNOP},
	{0x1C, "NOP", ABX, 4, opNOP},
	{0x3C, "NOP", ABX, 4, opNOP},
	{0x5C, "NOP", ABX, 4, opNOP},
	{0x7C, "NOP", ABX, 4, opNOP},
	{0xDC, "NOP", ABX, 4, opNOP},
	{0xFC, "NOP", ABX, 4, opNOP},
})
