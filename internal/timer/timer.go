// Package timer implements the DIV/TIMA/TMA/TAC divider and programmable
// timer (spec.md §4.2.5), factored out of the bus so it owns its own
// accumulators the way the teacher's bus.go embeds them, but matching the
// simpler accumulator model §4.2.5/§8 specify rather than the teacher's
// falling-edge-accurate variant (see DESIGN.md).
package timer

// tacPeriod maps TAC bits 1-0 to the cycle count between TIMA increments.
var tacPeriod = [4]int{1024, 16, 64, 256}

// Timer owns DIV/TIMA/TMA/TAC and the cycle accumulators that drive them.
type Timer struct {
	div  byte // FF04, upper 8 bits of the divider
	tima byte // FF05
	tma  byte // FF06
	tac  byte // FF07, bits 0-1 rate select, bit 2 enable

	divAcc  int // cycles accumulated toward the next DIV increment
	timaAcc int // cycles accumulated toward the next TIMA increment
}

func New() *Timer {
	return &Timer{}
}

func (t *Timer) DIV() byte  { return t.div }
func (t *Timer) TIMA() byte { return t.tima }
func (t *Timer) TMA() byte  { return t.tma }
func (t *Timer) TAC() byte  { return 0xF8 | (t.tac & 0x07) }

func (t *Timer) SetTIMA(v byte) { t.tima = v }
func (t *Timer) SetTMA(v byte)  { t.tma = v }
func (t *Timer) SetTAC(v byte)  { t.tac = v & 0x07 }

// ResetDIV implements the spec'd behavior that any write to DIV resets it
// to zero regardless of the written value.
func (t *Timer) ResetDIV() {
	t.div = 0
	t.divAcc = 0
}

// Tick feeds cycles consumed by the instruction just executed into the
// divider and (when enabled) the programmable timer. It reports whether
// TIMA overflowed 0xFF->0x00 this call, so the caller can raise the TIMER
// interrupt.
func (t *Timer) Tick(cycles int) (overflowed bool) {
	if cycles <= 0 {
		return false
	}

	t.divAcc += cycles
	for t.divAcc >= 256 {
		t.divAcc -= 256
		t.div++
	}

	if t.tac&0x04 == 0 {
		return false
	}

	period := tacPeriod[t.tac&0x03]
	t.timaAcc += cycles
	for t.timaAcc >= period {
		t.timaAcc -= period
		if t.tima == 0xFF {
			t.tima = t.tma
			overflowed = true
		} else {
			t.tima++
		}
	}
	return overflowed
}
