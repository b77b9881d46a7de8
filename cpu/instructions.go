package cpu

// Operations return 1 when they pay the page-crossing penalty reported by
// their addressing mode. Branches add their own cycles.

func (c *CPU) mode() AddrMode {
	return c.lookup[c.opcode].AddrMode
}

func (c *CPU) fetch() uint8 {
	if c.mode() != IMP {
		c.fetched = c.read(c.addrAbs)
	}
	return c.fetched
}

// store writes a shift or rotate result back to A or memory.
func (c *CPU) store(v uint8) {
	if c.mode() == IMP {
		c.A = v
		return
	}
	c.write(c.addrAbs, v)
}

func (c *CPU) branch(taken bool) {
	if !taken {
		return
	}
	c.cycles++
	c.addrAbs = c.PC + c.addrRel
	if c.addrAbs&0xFF00 != c.PC&0xFF00 {
		c.cycles++
	}
	c.PC = c.addrAbs
}

func (c *CPU) compare(reg uint8) {
	c.fetch()
	c.SetFlag(C, reg >= c.fetched)
	c.setZN(reg - c.fetched)
}

// add is shared by ADC and SBC; decimal mode is not wired on this CPU.
func (c *CPU) add(value uint8) {
	temp := uint16(c.A) + uint16(value) + uint16(c.GetFlag(C))
	c.SetFlag(C, temp > 0xFF)
	overflow := ^(uint16(c.A) ^ uint16(value)) & (uint16(c.A) ^ temp) & 0x0080
	c.SetFlag(V, overflow != 0)
	c.A = uint8(temp)
	c.setZN(c.A)
}

func opADC(c *CPU) uint8 {
	c.add(c.fetch())
	return 1
}

func opSBC(c *CPU) uint8 {
	c.add(c.fetch() ^ 0xFF)
	return 1
}

func opAND(c *CPU) uint8 {
	c.A &= c.fetch()
	c.setZN(c.A)
	return 1
}

func opORA(c *CPU) uint8 {
	c.A |= c.fetch()
	c.setZN(c.A)
	return 1
}

func opEOR(c *CPU) uint8 {
	c.A ^= c.fetch()
	c.setZN(c.A)
	return 1
}

func opASL(c *CPU) uint8 {
	c.fetch()
	c.SetFlag(C, c.fetched&0x80 != 0)
	temp := c.fetched << 1
	c.setZN(temp)
	c.store(temp)
	return 0
}

func opLSR(c *CPU) uint8 {
	c.fetch()
	c.SetFlag(C, c.fetched&0x01 != 0)
	temp := c.fetched >> 1
	c.setZN(temp)
	c.store(temp)
	return 0
}

func opROL(c *CPU) uint8 {
	c.fetch()
	temp := (c.fetched << 1) | c.GetFlag(C)
	c.SetFlag(C, c.fetched&0x80 != 0)
	c.setZN(temp)
	c.store(temp)
	return 0
}

func opROR(c *CPU) uint8 {
	c.fetch()
	temp := (c.GetFlag(C) << 7) | (c.fetched >> 1)
	c.SetFlag(C, c.fetched&0x01 != 0)
	c.setZN(temp)
	c.store(temp)
	return 0
}

func opBCC(c *CPU) uint8 {
	c.branch(c.GetFlag(C) == 0)
	return 0
}

func opBCS(c *CPU) uint8 {
	c.branch(c.GetFlag(C) == 1)
	return 0
}

func opBEQ(c *CPU) uint8 {
	c.branch(c.GetFlag(Z) == 1)
	return 0
}

func opBNE(c *CPU) uint8 {
	c.branch(c.GetFlag(Z) == 0)
	return 0
}

func opBMI(c *CPU) uint8 {
	c.branch(c.GetFlag(N) == 1)
	return 0
}

func opBPL(c *CPU) uint8 {
	c.branch(c.GetFlag(N) == 0)
	return 0
}

func opBVC(c *CPU) uint8 {
	c.branch(c.GetFlag(V) == 0)
	return 0
}

func opBVS(c *CPU) uint8 {
	c.branch(c.GetFlag(V) == 1)
	return 0
}

func opBIT(c *CPU) uint8 {
	c.fetch()
	c.SetFlag(Z, c.A&c.fetched == 0x00)
	c.SetFlag(N, c.fetched&(1<<7) != 0)
	c.SetFlag(V, c.fetched&(1<<6) != 0)
	return 0
}

// opBRK skips the padding byte, so the pushed return address is PC+2.
func opBRK(c *CPU) uint8 {
	c.PC++
	c.push16(c.PC)
	c.push(c.Status | uint8(B) | uint8(U))
	c.SetFlag(I, true)
	c.PC = c.read16(vectorIRQ)
	return 0
}

func opCLC(c *CPU) uint8 {
	c.SetFlag(C, false)
	return 0
}

func opCLD(c *CPU) uint8 {
	c.SetFlag(D, false)
	return 0
}

func opCLI(c *CPU) uint8 {
	c.SetFlag(I, false)
	return 0
}

func opCLV(c *CPU) uint8 {
	c.SetFlag(V, false)
	return 0
}

func opSEC(c *CPU) uint8 {
	c.SetFlag(C, true)
	return 0
}

func opSED(c *CPU) uint8 {
	c.SetFlag(D, true)
	return 0
}

func opSEI(c *CPU) uint8 {
	c.SetFlag(I, true)
	return 0
}

func opCMP(c *CPU) uint8 {
	c.compare(c.A)
	return 1
}

func opCPX(c *CPU) uint8 {
	c.compare(c.X)
	return 0
}

func opCPY(c *CPU) uint8 {
	c.compare(c.Y)
	return 0
}

func opDEC(c *CPU) uint8 {
	temp := c.fetch() - 1
	c.write(c.addrAbs, temp)
	c.setZN(temp)
	return 0
}

func opINC(c *CPU) uint8 {
	temp := c.fetch() + 1
	c.write(c.addrAbs, temp)
	c.setZN(temp)
	return 0
}

func opDEX(c *CPU) uint8 {
	c.X--
	c.setZN(c.X)
	return 0
}

func opDEY(c *CPU) uint8 {
	c.Y--
	c.setZN(c.Y)
	return 0
}

func opINX(c *CPU) uint8 {
	c.X++
	c.setZN(c.X)
	return 0
}

func opINY(c *CPU) uint8 {
	c.Y++
	c.setZN(c.Y)
	return 0
}

func opJMP(c *CPU) uint8 {
	c.PC = c.addrAbs
	return 0
}

// opJSR pushes the address of its own last byte; RTS adds the one back.
func opJSR(c *CPU) uint8 {
	c.push16(c.PC - 1)
	c.PC = c.addrAbs
	return 0
}

func opRTS(c *CPU) uint8 {
	c.PC = c.pull16() + 1
	return 0
}

func opRTI(c *CPU) uint8 {
	c.Status = (c.pull() &^ uint8(B)) | uint8(U)
	c.PC = c.pull16()
	return 0
}

func opLDA(c *CPU) uint8 {
	c.A = c.fetch()
	c.setZN(c.A)
	return 1
}

func opLDX(c *CPU) uint8 {
	c.X = c.fetch()
	c.setZN(c.X)
	return 1
}

func opLDY(c *CPU) uint8 {
	c.Y = c.fetch()
	c.setZN(c.Y)
	return 1
}

func opSTA(c *CPU) uint8 {
	c.write(c.addrAbs, c.A)
	return 0
}

func opSTX(c *CPU) uint8 {
	c.write(c.addrAbs, c.X)
	return 0
}

func opSTY(c *CPU) uint8 {
	c.write(c.addrAbs, c.Y)
	return 0
}

// opNOP also covers the unofficial multi-byte NOPs; the abs,X forms pay
// the page-crossing cycle like a read.
func opNOP(c *CPU) uint8 {
	switch c.opcode {
	case 0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC:
		c.fetch()
		return 1
	}
	return 0
}

func opPHA(c *CPU) uint8 {
	c.push(c.A)
	return 0
}

func opPHP(c *CPU) uint8 {
	c.push(c.Status | uint8(B) | uint8(U))
	return 0
}

func opPLA(c *CPU) uint8 {
	c.A = c.pull()
	c.setZN(c.A)
	return 0
}

func opPLP(c *CPU) uint8 {
	c.Status = (c.pull() &^ uint8(B)) | uint8(U)
	return 0
}

func opTAX(c *CPU) uint8 {
	c.X = c.A
	c.setZN(c.X)
	return 0
}

func opTAY(c *CPU) uint8 {
	c.Y = c.A
	c.setZN(c.Y)
	return 0
}

func opTSX(c *CPU) uint8 {
	c.X = c.SP
	c.setZN(c.X)
	return 0
}

func opTXA(c *CPU) uint8 {
	c.A = c.X
	c.setZN(c.A)
	return 0
}

func opTXS(c *CPU) uint8 {
	c.SP = c.X
	return 0
}

func opTYA(c *CPU) uint8 {
	c.A = c.Y
	c.setZN(c.A)
	return 0
}
