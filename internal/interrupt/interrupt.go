// Package interrupt names the IE/IF bits and the fixed dispatch vectors,
// and performs the priority scan spec.md §4.2.4 defines. The CPU's
// dispatch uses it; the bus and PPU set IF bits by their raw numbers.
package interrupt

import "github.com/hollowpeak/dmgcore/internal/addr"

// Bit positions within IE/IF (spec.md §6).
const (
	VBlank = 0
	STAT   = 1
	Timer  = 2
	Serial = 3
	Joypad = 4
)

// vectors lists the five interrupt sources in dispatch-priority order:
// VBlank, LCDC/STAT, Timer, Serial, Joypad (spec.md §4.2.4).
var vectors = [5]uint16{
	VBlank: addr.VecVBlank,
	STAT:   addr.VecSTAT,
	Timer:  addr.VecTimer,
	Serial: addr.VecSerial,
	Joypad: addr.VecJoypad,
}

// Dispatch scans IE&IF in priority order and returns the first enabled,
// pending source's bit and vector address. ok is false when nothing is
// both enabled and pending.
func Dispatch(pending byte) (bit uint, vector uint16, ok bool) {
	for b := uint(0); b < 5; b++ {
		if pending&(1<<b) != 0 {
			return b, vectors[b], true
		}
	}
	return 0, 0, false
}
