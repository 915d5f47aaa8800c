package cpu

import (
	"testing"

	"github.com/hollowpeak/dmgcore/internal/bus"
)

func TestScenario_BasicArithmetic(t *testing.T) {
	c := newCPUWithROM([]byte{0x3E, 0xFF, 0xC6, 0x03, 0xD6, 0x01, 0x3D, 0x3D, 0x76})

	c.Step() // LD A,0xFF
	if c.A != 0xFF {
		t.Fatalf("after LD A,0xFF: got %#02x", c.A)
	}

	c.Step() // ADD A,0x03
	if c.A != 0x02 || c.F&(flagH|flagC) != flagH|flagC {
		t.Fatalf("after ADD A,3: A=%#02x F=%#02x want A=02 F has H+C", c.A, c.F)
	}

	c.Step() // SUB 0x01
	if c.A != 0x01 || c.F != flagN {
		t.Fatalf("after SUB 1: A=%#02x F=%#02x want A=01 F=N", c.A, c.F)
	}

	c.Step() // DEC A
	if c.A != 0x00 || c.F != flagZ|flagN {
		t.Fatalf("after DEC A: A=%#02x F=%#02x want A=00 F=Z+N", c.A, c.F)
	}

	c.Step() // DEC A
	if c.A != 0xFF || c.F != flagN|flagH {
		t.Fatalf("after DEC A (wrap): A=%#02x F=%#02x want A=FF F=N+H", c.A, c.F)
	}
}

func TestScenario_RLCARotation(t *testing.T) {
	c := newCPUWithROM([]byte{0x3E, 0x81, 0x07, 0x07, 0x76})
	c.Step() // LD A,0x81
	if c.A != 0x81 {
		t.Fatalf("after LD A,0x81: got %#02x", c.A)
	}
	c.Step() // RLCA
	if c.A != 0x03 || c.F&flagC == 0 || c.F&flagZ != 0 {
		t.Fatalf("after first RLCA: A=%#02x F=%#02x want A=03 C=1 Z=0", c.A, c.F)
	}
	c.Step() // RLCA
	if c.A != 0x06 || c.F&flagC != 0 || c.F&flagZ != 0 {
		t.Fatalf("after second RLCA: A=%#02x F=%#02x want A=06 C=0 Z=0", c.A, c.F)
	}
}

func TestScenario_SubWithBorrowAcrossNibble(t *testing.T) {
	c := newCPUWithROM([]byte{0x95}) // SUB L
	c.setAF(0x0020)
	c.setHL(0x0002)
	c.Step()
	if got := c.getAF(); got != 0xFE70 {
		t.Fatalf("SUB L: AF got %#04x want FE70", got)
	}
}

func TestScenario_CPLeavesAUnchanged(t *testing.T) {
	c := newCPUWithROM([]byte{0xBD}) // CP L
	c.setAF(0x0020)
	c.setHL(0x0002)
	c.Step()
	if got := c.getAF(); got != 0x0070 {
		t.Fatalf("CP L: AF got %#04x want 0070", got)
	}
}

func TestScenario_DAAAfterAdd(t *testing.T) {
	c := newCPUWithROM([]byte{0x27}) // DAA
	c.setAF(0x3C00)
	c.Step()
	if c.A != 0x42 || c.F != 0x00 {
		t.Fatalf("DAA: A=%#02x F=%#02x want A=42 F=00", c.A, c.F)
	}
}

func TestScenario_CallRetRoundTrip(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x0100] = 0xCD
	rom[0x0101] = 0x50
	rom[0x0102] = 0x00
	rom[0x0050] = 0xC9 // RET
	b := bus.New(rom)
	c := New(b)
	c.SP = 0xFFFE
	c.SetPC(0x0100)

	c.Step() // CALL 0x0050
	if c.PC != 0x0050 || c.SP != 0xFFFC {
		t.Fatalf("after CALL: PC=%#04x SP=%#04x want PC=0050 SP=FFFC", c.PC, c.SP)
	}
	c.Step() // RET
	if c.PC != 0x0103 || c.SP != 0xFFFE {
		t.Fatalf("after RET: PC=%#04x SP=%#04x want PC=0103 SP=FFFE", c.PC, c.SP)
	}
}

func TestStepPanicsOnUnimplementedOpcode(t *testing.T) {
	c := newCPUWithROM([]byte{0xD3}) // no such instruction on DMG
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic for opcode 0xD3")
		}
		if _, ok := r.(*UnimplementedOpcodeError); !ok {
			t.Fatalf("expected *UnimplementedOpcodeError, got %T", r)
		}
	}()
	c.Step()
}
