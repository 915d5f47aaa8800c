package cart

import (
	"bytes"
	"encoding/gob"
	"time"
)

// nowUnix is indirected so tests can fake the wall clock.
var nowUnix = func() int64 { return time.Now().Unix() }

// MBC3 implements ROM/RAM banking plus the MBC3 real-time clock.
// Banking behavior:
// - 0000-1FFF: RAM/RTC enable (0x0A in low nibble)
// - 2000-3FFF: ROM bank low 7 bits (0 maps to 1)
// - 4000-5FFF: RAM bank (0-3) or RTC register select (0x08-0x0C)
// - 6000-7FFF: latch clock on a 0->1 write
// - A000-BFFF: selected RAM bank, or the latched RTC register
// ROM: bank 0 fixed at 0000-3FFF; switchable 4000-7FFF uses bank (1..127)
type MBC3 struct {
	rom []byte
	ram []byte

	ramEnabled bool
	romBank    byte // 7 bits (1..127)
	ramBank    byte // 0..3 when selectedReg < 0x08
	selectedReg byte // 0x00-0x03 RAM bank, 0x08-0x0C RTC register

	// Live RTC registers, advanced lazily against wall-clock time.
	rtcSec, rtcMin, rtcHour byte
	rtcDay                  uint16 // 9 bits
	rtcHalt, rtcCarry       bool
	lastRTCWallSec          int64

	// Latched copies, refreshed on a 0->1 write to the latch control register.
	rtcLatchSec, rtcLatchMin, rtcLatchHour byte
	rtcLatchDayLow                         byte
	rtcLatchDayHighFlags                   byte // bit0: day MSB, bit6: halt, bit7: carry
	latchCtrl                              byte
}

func NewMBC3(rom []byte, ramSize int) *MBC3 {
	m := &MBC3{rom: rom}
	if ramSize > 0 {
		m.ram = make([]byte, ramSize)
	}
	m.romBank = 1
	m.lastRTCWallSec = nowUnix()
	return m
}

// advance catches up the live RTC registers to the current wall-clock time.
// It is called on every cartridge Read/Write (ROM and external RAM
// addresses); the wall-clock delta since the previous call is applied at once.
func (m *MBC3) advance() {
	now := nowUnix()
	delta := now - m.lastRTCWallSec
	m.lastRTCWallSec = now
	if delta <= 0 || m.rtcHalt {
		return
	}

	total := int(m.rtcSec) + int(delta)
	m.rtcSec = byte(total % 60)
	minCarry := total / 60

	total = int(m.rtcMin) + minCarry
	m.rtcMin = byte(total % 60)
	hourCarry := total / 60

	total = int(m.rtcHour) + hourCarry
	m.rtcHour = byte(total % 24)
	dayCarry := total / 24

	total = int(m.rtcDay) + dayCarry
	if total >= 512 {
		m.rtcCarry = true
	}
	m.rtcDay = uint16(total % 512)
}

func (m *MBC3) Read(addr uint16) byte {
	m.advance()
	switch {
	case addr < 0x4000:
		if int(addr) < len(m.rom) {
			return m.rom[addr]
		}
		return 0xFF
	case addr < 0x8000:
		bank := int(m.romBank & 0x7F)
		if bank == 0 {
			bank = 1
		}
		off := bank*0x4000 + int(addr-0x4000)
		if off >= 0 && off < len(m.rom) {
			return m.rom[off]
		}
		return 0xFF
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF
		}
		if m.selectedReg >= 0x08 && m.selectedReg <= 0x0C {
			return m.readRTCRegister()
		}
		if len(m.ram) == 0 {
			return 0xFF
		}
		rb := int(m.ramBank & 0x03)
		off := rb*0x2000 + int(addr-0xA000)
		if off >= 0 && off < len(m.ram) {
			return m.ram[off]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (m *MBC3) readRTCRegister() byte {
	switch m.selectedReg {
	case 0x08:
		return m.rtcLatchSec
	case 0x09:
		return m.rtcLatchMin
	case 0x0A:
		return m.rtcLatchHour
	case 0x0B:
		return m.rtcLatchDayLow
	case 0x0C:
		return m.rtcLatchDayHighFlags
	}
	return 0xFF
}

func (m *MBC3) Write(addr uint16, value byte) {
	m.advance()
	switch {
	case addr < 0x2000:
		m.ramEnabled = (value & 0x0F) == 0x0A
	case addr < 0x4000:
		v := value & 0x7F
		if v == 0 {
			v = 1
		}
		m.romBank = v
	case addr < 0x6000:
		if value <= 0x03 {
			m.ramBank = value & 0x03
		}
		m.selectedReg = value
	case addr < 0x8000:
		prev := m.latchCtrl
		m.latchCtrl = value & 0x01
		if prev == 0 && m.latchCtrl == 1 {
			m.latchRTC()
		}
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return
		}
		if m.selectedReg >= 0x08 && m.selectedReg <= 0x0C {
			m.writeRTCRegister(value)
			return
		}
		if len(m.ram) == 0 {
			return
		}
		rb := int(m.ramBank & 0x03)
		off := rb*0x2000 + int(addr-0xA000)
		if off >= 0 && off < len(m.ram) {
			m.ram[off] = value
		}
	}
}

func (m *MBC3) writeRTCRegister(value byte) {
	switch m.selectedReg {
	case 0x08:
		m.rtcSec = value % 60
	case 0x09:
		m.rtcMin = value % 60
	case 0x0A:
		m.rtcHour = value % 24
	case 0x0B:
		m.rtcDay = (m.rtcDay &^ 0xFF) | uint16(value)
	case 0x0C:
		if value&0x01 != 0 {
			m.rtcDay |= 0x100
		} else {
			m.rtcDay &^= 0x100
		}
		m.rtcHalt = value&0x40 != 0
		m.rtcCarry = value&0x80 != 0
	}
}

func (m *MBC3) latchRTC() {
	m.rtcLatchSec = m.rtcSec
	m.rtcLatchMin = m.rtcMin
	m.rtcLatchHour = m.rtcHour
	m.rtcLatchDayLow = byte(m.rtcDay & 0xFF)
	var flags byte
	if m.rtcDay&0x100 != 0 {
		flags |= 0x01
	}
	if m.rtcHalt {
		flags |= 0x40
	}
	if m.rtcCarry {
		flags |= 0x80
	}
	m.rtcLatchDayHighFlags = flags
}

type mbc3RTCState struct {
	Sec, Min, Hour   byte
	Day              uint16
	Halt, Carry      bool
	LastWallSec      int64
	LatchSec, LatchMin, LatchHour byte
	LatchDayLow, LatchDayHighFlags byte
}

// BatteryBacked implementation: external RAM plus RTC register state, since
// both live behind the same battery on real MBC3 cartridges.
func (m *MBC3) SaveRAM() []byte {
	var buf bytes.Buffer
	buf.Write(m.ram)
	enc := gob.NewEncoder(&buf)
	s := mbc3RTCState{
		Sec: m.rtcSec, Min: m.rtcMin, Hour: m.rtcHour, Day: m.rtcDay,
		Halt: m.rtcHalt, Carry: m.rtcCarry, LastWallSec: m.lastRTCWallSec,
		LatchSec: m.rtcLatchSec, LatchMin: m.rtcLatchMin, LatchHour: m.rtcLatchHour,
		LatchDayLow: m.rtcLatchDayLow, LatchDayHighFlags: m.rtcLatchDayHighFlags,
	}
	if err := enc.Encode(s); err != nil {
		return nil
	}
	return buf.Bytes()
}

func (m *MBC3) LoadRAM(data []byte) {
	if len(data) < len(m.ram) {
		return
	}
	copy(m.ram, data[:len(m.ram)])
	rest := data[len(m.ram):]
	if len(rest) == 0 {
		return
	}
	var s mbc3RTCState
	if err := gob.NewDecoder(bytes.NewReader(rest)).Decode(&s); err != nil {
		return
	}
	m.rtcSec, m.rtcMin, m.rtcHour, m.rtcDay = s.Sec, s.Min, s.Hour, s.Day
	m.rtcHalt, m.rtcCarry, m.lastRTCWallSec = s.Halt, s.Carry, s.LastWallSec
	m.rtcLatchSec, m.rtcLatchMin, m.rtcLatchHour = s.LatchSec, s.LatchMin, s.LatchHour
	m.rtcLatchDayLow, m.rtcLatchDayHighFlags = s.LatchDayLow, s.LatchDayHighFlags
}
