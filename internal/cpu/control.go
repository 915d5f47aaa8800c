package cpu

// Branches (jumps/calls/returns/restarts), their conditional forms, and
// the small set of opcodes that toggle CPU-level state (HALT/STOP, EI/DI)
// rather than touching registers or memory.

func (c *CPU) execJPImm() int { // 0xC3
	c.PC = c.fetch16()
	return 16
}

func (c *CPU) execJPHL() int { // 0xE9
	c.PC = c.getHL()
	return 4
}

func (c *CPU) execJRImm() int { // 0x18
	off := int8(c.fetch8())
	c.PC = uint16(int32(c.PC) + int32(off))
	return 12
}

// condTrue evaluates the 2-bit condition field (NZ/Z/NC/C) shared by
// conditional JR, JP, CALL and RET: all four opcode families place it at
// bits 4-3.
func (c *CPU) condTrue(idx byte) bool {
	switch idx {
	case 0:
		return (c.F & flagZ) == 0 // NZ
	case 1:
		return (c.F & flagZ) != 0 // Z
	case 2:
		return (c.F & flagC) == 0 // NC
	default:
		return (c.F & flagC) != 0 // C
	}
}

func (c *CPU) execJRCond(op byte) int {
	idx := (op >> 3) & 3
	off := int8(c.fetch8())
	if c.condTrue(idx) {
		c.PC = uint16(int32(c.PC) + int32(off))
		return 12
	}
	return 8
}

func (c *CPU) execJPCond(op byte) int {
	idx := (op >> 3) & 3
	a := c.fetch16()
	if c.condTrue(idx) {
		c.PC = a
		return 16
	}
	return 12
}

func (c *CPU) execCALLImm() int { // 0xCD
	a := c.fetch16()
	c.push16(c.PC)
	c.PC = a
	return 24
}

func (c *CPU) execCALLCond(op byte) int {
	idx := (op >> 3) & 3
	a := c.fetch16()
	if c.condTrue(idx) {
		c.push16(c.PC)
		c.PC = a
		return 24
	}
	return 12
}

func (c *CPU) execRET() int { // 0xC9
	c.PC = c.pop16()
	return 16
}

func (c *CPU) execRETI() int { // 0xD9
	c.PC = c.pop16()
	c.IME = true
	return 16
}

func (c *CPU) execRETCond(op byte) int {
	idx := (op >> 3) & 3
	if c.condTrue(idx) {
		c.PC = c.pop16()
		return 20
	}
	return 8
}

// execRST covers all eight one-byte RST vectors (0xC7/CF/D7/DF/E7/EF/F7/FF):
// the vector address is simply the opcode's bits 5-3.
func (c *CPU) execRST(op byte) int {
	c.push16(c.PC)
	c.PC = uint16(op & 0x38)
	return 16
}

func (c *CPU) execHalt() int {
	c.halted = true
	return 4
}

func (c *CPU) execStop() int { // 0x10: followed by a mandatory 0x00 byte
	c.fetch8()
	return 4
}

func (c *CPU) execDI() int {
	c.IME = false
	c.eiPending = false
	return 4
}

func (c *CPU) execEI() int { // IME rises after the *next* instruction
	c.eiPending = true
	return 4
}
