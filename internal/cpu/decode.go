package cpu

// execute is the primary opcode dispatcher: a thin table that routes each
// of the ~256 primary opcodes to the small group-level executor that owns
// its actual semantics (alu.go, loads.go, control.go, cb.go). Opcodes that
// don't fit any of those groups are handled inline here since there's
// nowhere else they'd belong.
func (c *CPU) execute(op byte) int {
	switch op {
	case 0x00: // NOP
		return 4
	case 0x10: // STOP
		return c.execStop()
	case 0x76: // HALT
		return c.execHalt()

	case 0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x3E:
		return c.execLoadImm8(op)
	case 0x36: // LD (HL),d8
		return c.execLoadHLImm8()

	case 0x40, 0x41, 0x42, 0x43, 0x44, 0x45, 0x46, 0x47,
		0x48, 0x49, 0x4A, 0x4B, 0x4C, 0x4D, 0x4E, 0x4F,
		0x50, 0x51, 0x52, 0x53, 0x54, 0x55, 0x56, 0x57,
		0x58, 0x59, 0x5A, 0x5B, 0x5C, 0x5D, 0x5E, 0x5F,
		0x60, 0x61, 0x62, 0x63, 0x64, 0x65, 0x66, 0x67,
		0x68, 0x69, 0x6A, 0x6B, 0x6C, 0x6D, 0x6E, 0x6F,
		0x70, 0x71, 0x72, 0x73, 0x74, 0x75, 0x77,
		0x78, 0x79, 0x7A, 0x7B, 0x7C, 0x7D, 0x7E, 0x7F:
		return c.execLoadRegToReg(op)

	case 0x01, 0x11, 0x21, 0x31:
		return c.execLoadPairImm16(op)
	case 0x08: // LD (a16),SP
		return c.execLoadIndirectSP()

	case 0x02, 0x12:
		return c.execLoadIndirectPairA(op)
	case 0x0A, 0x1A:
		return c.execLoadAIndirectPair(op)

	case 0x22, 0x2A:
		return c.execLoadHLAutoInc(op)
	case 0x32, 0x3A:
		return c.execLoadHLAutoDec(op)

	case 0xE0, 0xF0, 0xE2, 0xF2:
		return c.execLDH(op)
	case 0xEA, 0xFA:
		return c.execLoadIndirect16(op)

	case 0x07, 0x0F, 0x17, 0x1F: // RLCA/RRCA/RLA/RRA
		return c.execAccumulatorRotate(op)
	case 0x27: // DAA
		c.daa()
		return 4
	case 0x2F: // CPL
		c.cpl()
		return 4
	case 0x37: // SCF
		c.scf()
		return 4
	case 0x3F: // CCF
		c.ccf()
		return 4

	case 0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x34, 0x3C:
		return c.execInc8(op)
	case 0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x35, 0x3D:
		return c.execDec8(op)

	case 0x80, 0x81, 0x82, 0x83, 0x84, 0x85, 0x86, 0x87,
		0x88, 0x89, 0x8A, 0x8B, 0x8C, 0x8D, 0x8E, 0x8F,
		0x90, 0x91, 0x92, 0x93, 0x94, 0x95, 0x96, 0x97,
		0x98, 0x99, 0x9A, 0x9B, 0x9C, 0x9D, 0x9E, 0x9F,
		0xA0, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5, 0xA6, 0xA7,
		0xA8, 0xA9, 0xAA, 0xAB, 0xAC, 0xAD, 0xAE, 0xAF,
		0xB0, 0xB1, 0xB2, 0xB3, 0xB4, 0xB5, 0xB6, 0xB7,
		0xB8, 0xB9, 0xBA, 0xBB, 0xBC, 0xBD, 0xBE, 0xBF:
		return c.execALURegisterForm(op)
	case 0xC6, 0xCE, 0xD6, 0xDE, 0xE6, 0xEE, 0xF6, 0xFE:
		return c.execALUImmediateForm(op)

	case 0xC3: // JP a16
		return c.execJPImm()
	case 0xE9: // JP (HL)
		return c.execJPHL()
	case 0x18: // JR r8
		return c.execJRImm()
	case 0x20, 0x28, 0x30, 0x38: // JR cc,r8
		return c.execJRCond(op)
	case 0xC2, 0xCA, 0xD2, 0xDA: // JP cc,a16
		return c.execJPCond(op)

	case 0xCD: // CALL a16
		return c.execCALLImm()
	case 0xC4, 0xCC, 0xD4, 0xDC: // CALL cc,a16
		return c.execCALLCond(op)

	case 0xC9: // RET
		return c.execRET()
	case 0xD9: // RETI
		return c.execRETI()
	case 0xC0, 0xC8, 0xD0, 0xD8: // RET cc
		return c.execRETCond(op)

	case 0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF: // RST
		return c.execRST(op)

	case 0x03, 0x13, 0x23, 0x33: // INC rr
		return c.execInc16(op)
	case 0x0B, 0x1B, 0x2B, 0x3B: // DEC rr
		return c.execDec16(op)
	case 0x09, 0x19, 0x29, 0x39: // ADD HL,rr
		return c.execAddHL(op)

	case 0xF8: // LD HL,SP+r8
		return c.execLoadHLSPOffset()
	case 0xF9: // LD SP,HL
		return c.execLoadSPHL()
	case 0xE8: // ADD SP,r8
		return c.execAddSPOffset()

	case 0xF3: // DI
		return c.execDI()
	case 0xFB: // EI
		return c.execEI()

	case 0xCB: // CB-prefixed table
		return c.execCB()

	case 0xF5, 0xC5, 0xD5, 0xE5: // PUSH rr
		return c.execPush(op)
	case 0xF1, 0xC1, 0xD1, 0xE1: // POP rr
		return c.execPop(op)

	default:
		panic(&UnimplementedOpcodeError{Opcode: op, PC: c.PC - 1})
	}
}
