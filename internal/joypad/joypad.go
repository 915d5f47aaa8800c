// Package joypad models the DMG button matrix (spec.md §4.4): two 4-bit
// nibbles selected by bits written to JOYP, with Press/Release as the one
// cross-thread surface the core exposes (spec.md §5).
package joypad

import "sync"

// Group selects which nibble a button belongs to.
type Group int

const (
	Action      Group = 0 // A, B, Select, Start
	Directional Group = 1 // Right, Left, Up, Down
)

// Button indexes within a group's nibble, bit 0 is the low bit.
const (
	BitRightOrA    = 0
	BitLeftOrB     = 1
	BitUpOrSelect  = 2
	BitDownOrStart = 3
)

// Matrix holds the two button nibbles and the matrix-select bits most
// recently written to JOYP. A bit value of 0 means pressed, matching DMG
// active-low hardware semantics.
type Matrix struct {
	mu sync.Mutex

	action byte // low 4 bits, active-low
	dpad   byte // low 4 bits, active-low

	selectDirectional bool // true when bit 4 of JOYP selects the d-pad nibble
	selectAction      bool // true when bit 5 of JOYP selects the action nibble

	pendingIRQ bool // set on a 1->0 transition, drained by the bus
}

func New() *Matrix {
	return &Matrix{action: 0x0F, dpad: 0x0F}
}

// Press clears the bit for button in group, setting the JOYP IRQ flag on a
// 1->0 transition (spec.md §4.4, §8).
func (m *Matrix) Press(group Group, button int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	nibble := m.nibble(group)
	mask := byte(1 << uint(button))
	wasPressed := *nibble&mask == 0
	*nibble &^= mask
	if !wasPressed {
		m.pendingIRQ = true
	}
}

// Release sets the bit for button in group (button no longer pressed).
func (m *Matrix) Release(group Group, button int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*m.nibble(group) |= 1 << uint(button)
}

func (m *Matrix) nibble(group Group) *byte {
	if group == Directional {
		return &m.dpad
	}
	return &m.action
}

// WriteSelect stores the matrix-select bits from a JOYP write (spec.md
// §4.1): only bits 4 and 5 are accepted.
func (m *Matrix) WriteSelect(value byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selectDirectional = value&0x10 == 0
	m.selectAction = value&0x20 == 0
}

// Read computes the JOYP byte: upper bits read as 1, bits 5-4 reflect the
// last selection, bits 3-0 are the selected nibble(s) ANDed together.
func (m *Matrix) Read() byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	low := byte(0x0F)
	if m.selectDirectional {
		low &= m.dpad
	}
	if m.selectAction {
		low &= m.action
	}
	selectBits := byte(0x30)
	if m.selectDirectional {
		selectBits &^= 0x10
	}
	if m.selectAction {
		selectBits &^= 0x20
	}
	return 0xC0 | selectBits | low
}

// TakeIRQ reports and clears a pending press-edge interrupt.
func (m *Matrix) TakeIRQ() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.pendingIRQ
	m.pendingIRQ = false
	return v
}
