package timer

import "testing"

func TestDIVIncrementsEvery256Cycles(t *testing.T) {
	tm := New()
	tm.Tick(255)
	if tm.DIV() != 0 {
		t.Fatalf("DIV got %d want 0 before 256 cycles", tm.DIV())
	}
	tm.Tick(1)
	if tm.DIV() != 1 {
		t.Fatalf("DIV got %d want 1 after 256 cycles", tm.DIV())
	}
}

func TestDIVWriteResets(t *testing.T) {
	tm := New()
	tm.Tick(256 * 5)
	if tm.DIV() == 0 {
		t.Fatalf("DIV should have advanced")
	}
	tm.ResetDIV()
	if tm.DIV() != 0 {
		t.Fatalf("DIV got %d want 0 after reset", tm.DIV())
	}
}

func TestTIMADisabledByDefault(t *testing.T) {
	tm := New()
	tm.Tick(10000)
	if tm.TIMA() != 0 {
		t.Fatalf("TIMA got %d want 0 when TAC disabled", tm.TIMA())
	}
}

func TestTIMARateSelection(t *testing.T) {
	cases := []struct {
		tac    byte
		period int
	}{
		{0x04, 1024},
		{0x05, 16},
		{0x06, 64},
		{0x07, 256},
	}
	for _, c := range cases {
		tm := New()
		tm.SetTAC(c.tac)
		tm.Tick(c.period - 1)
		if tm.TIMA() != 0 {
			t.Fatalf("TAC=%#02x TIMA got %d want 0 before period", c.tac, tm.TIMA())
		}
		tm.Tick(1)
		if tm.TIMA() != 1 {
			t.Fatalf("TAC=%#02x TIMA got %d want 1 after period", c.tac, tm.TIMA())
		}
	}
}

func TestTIMAOverflowReloadsFromTMAAndReportsOverflow(t *testing.T) {
	tm := New()
	tm.SetTAC(0x05) // enabled, period 16
	tm.SetTMA(0x42)
	tm.SetTIMA(0xFF)
	if overflowed := tm.Tick(16); !overflowed {
		t.Fatalf("expected overflow on TIMA wrap")
	}
	if tm.TIMA() != 0x42 {
		t.Fatalf("TIMA got %#02x want reload from TMA 0x42", tm.TIMA())
	}
}
