package cpu

// 8-bit and 16-bit data movement, the LDH/indirect forms, and the stack
// discipline (§4.2.3: SP decrements before the write on PUSH, increments
// after the read on POP, so CALL's pushed return address always lands
// below the caller's SP at entry).

// execLoadImm8 covers 0x06/0x0E/.../0x3E: LD r,d8 for every register
// including (HL).
func (c *CPU) execLoadImm8(op byte) int {
	idx := regIndex((op >> 3) & 7)
	c.setRegByIndex(idx, c.fetch8())
	if idx == regHLInd {
		return 12
	}
	return 8
}

// execLoadRegToReg covers the 0x40-0x7F block (excluding 0x76, which is
// HALT): LD r,r' for every combination of register and (HL) operand.
func (c *CPU) execLoadRegToReg(op byte) int {
	dst := regIndex((op >> 3) & 7)
	src := regIndex(op & 7)
	c.setRegByIndex(dst, c.regByIndex(src))
	if dst == regHLInd || src == regHLInd {
		return 8
	}
	return 4
}

// execLoadPairImm16 covers 0x01/0x11/0x21/0x31: LD rr,d16.
func (c *CPU) execLoadPairImm16(op byte) int {
	c.setPairSP(pairIndex((op>>4)&3), c.fetch16())
	return 12
}

func (c *CPU) execLoadIndirectSP() int { // 0x08: LD (a16),SP
	a := c.fetch16()
	c.write16(a, c.SP)
	return 20
}

func (c *CPU) execLoadHLImm8() int { // 0x36: LD (HL),d8
	c.write8(c.getHL(), c.fetch8())
	return 12
}

func (c *CPU) execLoadIndirectPairA(op byte) int { // 0x02/0x12: LD (BC/DE),A
	if op == 0x02 {
		c.write8(c.getBC(), c.A)
	} else {
		c.write8(c.getDE(), c.A)
	}
	return 8
}

func (c *CPU) execLoadAIndirectPair(op byte) int { // 0x0A/0x1A: LD A,(BC/DE)
	if op == 0x0A {
		c.A = c.read8(c.getBC())
	} else {
		c.A = c.read8(c.getDE())
	}
	return 8
}

// execLoadHLAutoInc/Dec cover LDI/LDD (0x22/0x2A/0x32/0x3A): move A
// through (HL) and step HL by one in the given direction.
func (c *CPU) execLoadHLAutoInc(op byte) int {
	hl := c.getHL()
	if op == 0x22 { // LD (HL+),A
		c.write8(hl, c.A)
	} else { // LD A,(HL+)
		c.A = c.read8(hl)
	}
	c.setHL(hl + 1)
	return 8
}

func (c *CPU) execLoadHLAutoDec(op byte) int {
	hl := c.getHL()
	if op == 0x32 { // LD (HL-),A
		c.write8(hl, c.A)
	} else { // LD A,(HL-)
		c.A = c.read8(hl)
	}
	c.setHL(hl - 1)
	return 8
}

// execLDH covers the 0xFF00+n and 0xFF00+C I/O-port load forms
// (0xE0/0xF0/0xE2/0xF2).
func (c *CPU) execLDH(op byte) int {
	switch op {
	case 0xE0:
		n := uint16(c.fetch8())
		c.write8(0xFF00+n, c.A)
		return 12
	case 0xF0:
		n := uint16(c.fetch8())
		c.A = c.read8(0xFF00 + n)
		return 12
	case 0xE2:
		c.write8(0xFF00+uint16(c.C), c.A)
		return 8
	default: // 0xF2
		c.A = c.read8(0xFF00 + uint16(c.C))
		return 8
	}
}

func (c *CPU) execLoadIndirect16(op byte) int { // 0xEA/0xFA
	a := c.fetch16()
	if op == 0xEA {
		c.write8(a, c.A)
	} else {
		c.A = c.read8(a)
	}
	return 16
}

func (c *CPU) execLoadSPHL() int { // 0xF9: LD SP,HL
	c.SP = c.getHL()
	return 8
}

// execLoadHLSPOffset covers 0xF8 (LD HL,SP+r8): flags come from the
// 8-bit addition of SP's low byte with the signed offset, same rule as
// ADD SP,r8 below.
func (c *CPU) execLoadHLSPOffset() int {
	off := int8(c.fetch8())
	res := uint16(int32(int16(c.SP)) + int32(off))
	_, _, _, h, cy := c.add8(byte(c.SP&0xFF), byte(off))
	c.setHL(res)
	c.setZNHC(false, false, h, cy)
	return 12
}

func (c *CPU) execAddSPOffset() int { // 0xE8: ADD SP,r8
	off := int8(c.fetch8())
	_, _, _, h, cy := c.add8(byte(c.SP&0xFF), byte(off))
	c.SP = uint16(int32(int16(c.SP)) + int32(off))
	c.setZNHC(false, false, h, cy)
	return 16
}

// pushPairIndex mirrors pairIndex for PUSH/POP, which substitute AF where
// the load/INC/ADD-HL group uses SP.
type pushPairIndex byte

const (
	pushBC pushPairIndex = iota
	pushDE
	pushHL
	pushAF
)

func (c *CPU) getPushPair(idx pushPairIndex) uint16 {
	switch idx {
	case pushBC:
		return c.getBC()
	case pushDE:
		return c.getDE()
	case pushHL:
		return c.getHL()
	default:
		return c.getAF()
	}
}

func (c *CPU) setPushPair(idx pushPairIndex, v uint16) {
	switch idx {
	case pushBC:
		c.setBC(v)
	case pushDE:
		c.setDE(v)
	case pushHL:
		c.setHL(v)
	default:
		c.setAF(v)
	}
}

func (c *CPU) execPush(op byte) int {
	c.push16(c.getPushPair(pushPairIndex((op >> 4) & 3)))
	return 16
}

func (c *CPU) execPop(op byte) int {
	c.setPushPair(pushPairIndex((op>>4)&3), c.pop16())
	return 12
}
