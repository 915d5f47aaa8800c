package cart

import "testing"

// withFakeClock swaps nowUnix for the duration of fn and restores it after.
func withFakeClock(t *testing.T, start int64, fn func(set func(int64))) {
	t.Helper()
	prev := nowUnix
	cur := start
	nowUnix = func() int64 { return cur }
	defer func() { nowUnix = prev }()
	fn(func(v int64) { cur = v })
}

func TestMBC3LatchedRTCReadsFreezeUntilRelatched(t *testing.T) {
	withFakeClock(t, 100, func(setClock func(int64)) {
		rom := make([]byte, 0x8000)
		m := NewMBC3(rom, 0x2000)

		m.Write(0x0000, 0x0A) // RAM/RTC enable
		m.rtcSec, m.rtcMin, m.rtcHour, m.rtcDay = 5, 6, 7, 0x101
		m.rtcHalt, m.rtcCarry = false, false
		m.Write(0x6000, 0x01) // latch on 0->1

		m.Write(0x4000, 0x08) // select seconds register
		if got := m.Read(0xA000); got != 5 {
			t.Fatalf("latched seconds: got %d want 5", got)
		}

		m.rtcSec = 30
		if got := m.Read(0xA000); got != 5 {
			t.Fatalf("latched seconds changed after live update: got %d", got)
		}

		m.Write(0x4000, 0x0B)
		if got := m.Read(0xA000); got != byte(0x101&0xFF) {
			t.Fatalf("latched day-low: got %#02x want %#02x", got, byte(0x01))
		}

		m.Write(0x4000, 0x0C)
		flags := m.Read(0xA000)
		if flags&0x01 == 0 {
			t.Fatalf("day-high bit 0 not set")
		}
		if flags&0x40 != 0 {
			t.Fatalf("halt bit unexpectedly set")
		}
	})
}

func TestMBC3RTCAdvancesAndPersistsAcrossSave(t *testing.T) {
	withFakeClock(t, 100, func(setClock func(int64)) {
		rom := make([]byte, 0x8000)
		m := NewMBC3(rom, 0x2000)
		m.rtcSec, m.rtcMin, m.rtcHour, m.rtcDay = 30, 59, 23, 0x1FF
		m.rtcHalt, m.rtcCarry = false, false
		m.lastRTCWallSec = 100

		setClock(120) // +20s: no minute rollover
		_ = m.Read(0x0000)
		if m.rtcSec != 50 || m.rtcMin != 59 {
			t.Fatalf("after +20s: sec=%d min=%d", m.rtcSec, m.rtcMin)
		}

		setClock(180) // +60s more: min/hour/day all roll over, carry sets
		_ = m.Read(0x0001)
		if m.rtcSec != 50 || m.rtcMin != 0 || m.rtcHour != 0 || m.rtcDay != 0 || !m.rtcCarry {
			t.Fatalf("after rollover: %02d:%02d:%02d day=%03d carry=%v",
				m.rtcHour, m.rtcMin, m.rtcSec, m.rtcDay, m.rtcCarry)
		}

		saved := m.SaveRAM()
		reloaded := NewMBC3(rom, 0x2000)
		reloaded.LoadRAM(saved)
		if reloaded.rtcSec != m.rtcSec || reloaded.rtcMin != m.rtcMin ||
			reloaded.rtcHour != m.rtcHour || reloaded.rtcDay != m.rtcDay {
			t.Fatalf("RTC state did not survive save/load: got %02d:%02d:%02d day=%03d want %02d:%02d:%02d day=%03d",
				reloaded.rtcHour, reloaded.rtcMin, reloaded.rtcSec, reloaded.rtcDay,
				m.rtcHour, m.rtcMin, m.rtcSec, m.rtcDay)
		}
	})
}
