package cpu

type AddrMode uint8

const (
	IMP AddrMode = iota
	IMM
	ZP0
	ZPX
	ZPY
	REL
	ABS
	ABX
	ABY
	IND
	IZX
	IZY
)

var addrModeNames = [...]string{
	IMP: "IMP",
	IMM: "IMM",
	ZP0: "ZP0",
	ZPX: "ZPX",
	ZPY: "ZPY",
	REL: "REL",
	ABS: "ABS",
	ABX: "ABX",
	ABY: "ABY",
	IND: "IND",
	IZX: "IZX",
	IZY: "IZY",
}

func (m AddrMode) String() string {
	if int(m) < len(addrModeNames) {
		return addrModeNames[m]
	}
	return "???"
}

// Bytes is the instruction length including the opcode.
func (m AddrMode) Bytes() uint8 {
	switch m {
	case IMP:
		return 1
	case ABS, ABX, ABY, IND:
		return 3
	}
	return 2
}

// Each mode leaves the operand address in addrAbs (or the branch offset in
// addrRel) and returns 1 when the indexed access crossed a page.
var addressModes = [...]func(*CPU) uint8{
	IMP: imp,
	IMM: imm,
	ZP0: zp0,
	ZPX: zpx,
	ZPY: zpy,
	REL: rel,
	ABS: abs,
	ABX: abx,
	ABY: aby,
	IND: ind,
	IZX: izx,
	IZY: izy,
}

func imp(c *CPU) uint8 {
	c.fetched = c.A
	return 0
}

func imm(c *CPU) uint8 {
	c.addrAbs = c.PC
	c.PC++
	return 0
}

func zp0(c *CPU) uint8 {
	c.addrAbs = uint16(c.read(c.PC))
	c.PC++
	return 0
}

func zpx(c *CPU) uint8 {
	c.addrAbs = uint16(c.read(c.PC) + c.X)
	c.PC++
	return 0
}

func zpy(c *CPU) uint8 {
	c.addrAbs = uint16(c.read(c.PC) + c.Y)
	c.PC++
	return 0
}

func rel(c *CPU) uint8 {
	c.addrRel = uint16(c.read(c.PC))
	c.PC++
	if c.addrRel&0x80 != 0 {
		c.addrRel |= 0xFF00
	}
	return 0
}

func abs(c *CPU) uint8 {
	c.addrAbs = c.read16(c.PC)
	c.PC += 2
	return 0
}

func indexed(c *CPU, base uint16, index uint8) uint8 {
	c.addrAbs = base + uint16(index)
	if c.addrAbs&0xFF00 != base&0xFF00 {
		return 1
	}
	return 0
}

func abx(c *CPU) uint8 {
	base := c.read16(c.PC)
	c.PC += 2
	return indexed(c, base, c.X)
}

func aby(c *CPU) uint8 {
	base := c.read16(c.PC)
	c.PC += 2
	return indexed(c, base, c.Y)
}

// ind reproduces the hardware bug: a pointer at $xxFF takes its high byte
// from $xx00 instead of the next page.
func ind(c *CPU) uint8 {
	ptrLo := c.read(c.PC)
	ptrHi := c.read(c.PC + 1)
	c.PC += 2

	ptr := (uint16(ptrHi) << 8) | uint16(ptrLo)
	if ptrLo == 0xFF {
		c.addrAbs = (uint16(c.read(ptr&0xFF00)) << 8) | uint16(c.read(ptr))
		return 0
	}

	c.addrAbs = c.read16(ptr)
	return 0
}

func izx(c *CPU) uint8 {
	t := c.read(c.PC)
	c.PC++

	lo := uint16(c.read(uint16(t + c.X)))
	hi := uint16(c.read(uint16(t + c.X + 1)))
	c.addrAbs = (hi << 8) | lo
	return 0
}

func izy(c *CPU) uint8 {
	t := c.read(c.PC)
	c.PC++

	lo := uint16(c.read(uint16(t)))
	hi := uint16(c.read(uint16(t + 1)))
	return indexed(c, (hi<<8)|lo, c.Y)
}
