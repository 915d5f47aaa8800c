package bus

import (
	"io"

	"github.com/hollowpeak/dmgcore/internal/addr"
	"github.com/hollowpeak/dmgcore/internal/cart"
	"github.com/hollowpeak/dmgcore/internal/joypad"
	"github.com/hollowpeak/dmgcore/internal/ppu"
	"github.com/hollowpeak/dmgcore/internal/timer"
)

// Bus wires CPU-visible address space to cartridge, WRAM, HRAM, PPU, the
// timer, and the joypad matrix.
type Bus struct {
	cart cart.Cartridge

	// Work RAM (WRAM) 8 KiB at 0xC000–0xDFFF; Echo 0xE000–0xFDFF mirrors C000–DDFF.
	wram [0x2000]byte

	// High RAM (HRAM) 0xFF80–0xFFFE (127 bytes)
	hram [0x7F]byte

	ppu *ppu.PPU
	tmr *timer.Timer
	pad *joypad.Matrix

	ie    byte // IE at 0xFFFF
	ifReg byte // IF at 0xFF0F (lower 5 bits used)

	// Serial: no link partner and no interrupt. Setting SC bit 7 hands SB to
	// the optional writer sw and completes the transfer at once.
	sb byte
	sc byte
	sw io.Writer

	dma       byte // FF46
	dmaActive bool
	dmaSrc    uint16
	dmaIndex  int
}

// New constructs a Bus with a ROM-only or mapper cartridge chosen from the
// ROM's header.
func New(rom []byte) *Bus {
	return NewWithCartridge(cart.NewCartridge(rom))
}

// NewWithCartridge wires a provided cartridge implementation.
func NewWithCartridge(c cart.Cartridge) *Bus {
	b := &Bus{cart: c, tmr: timer.New(), pad: joypad.New()}
	b.ppu = ppu.New(func(bit int) { b.ifReg |= 1 << bit })
	return b
}

// PPU returns the internal PPU for renderer access.
func (b *Bus) PPU() *ppu.PPU { return b.ppu }

// Cart returns the underlying cartridge for battery-RAM persistence.
func (b *Bus) Cart() cart.Cartridge { return b.cart }

func (b *Bus) Read(addr16 uint16) byte {
	switch {
	case addr16 < 0x8000:
		return b.cart.Read(addr16)
	case addr16 >= 0x8000 && addr16 <= 0x9FFF:
		return b.ppu.CPURead(addr16)
	case addr16 >= 0xA000 && addr16 <= 0xBFFF:
		return b.cart.Read(addr16)
	case addr16 >= 0xC000 && addr16 <= 0xDFFF:
		return b.wram[addr16-0xC000]
	case addr16 >= 0xE000 && addr16 <= 0xFDFF:
		mirror := addr16 - 0x2000
		return b.wram[mirror-0xC000]
	case addr16 >= 0xFF80 && addr16 <= 0xFFFE:
		return b.hram[addr16-0xFF80]
	case addr16 >= 0xFE00 && addr16 <= 0xFE9F:
		if b.dmaActive {
			return 0xFF
		}
		return b.ppu.CPURead(addr16)
	case addr16 == addr.JOYP:
		return b.pad.Read()
	case addr16 == addr.DIV:
		return b.tmr.DIV()
	case addr16 == addr.TIMA:
		return b.tmr.TIMA()
	case addr16 == addr.TMA:
		return b.tmr.TMA()
	case addr16 == addr.TAC:
		return b.tmr.TAC()
	case addr16 == addr.SB:
		return b.sb
	case addr16 == addr.SC:
		return 0x7E | (b.sc & 0x81)
	case addr16 == addr.LCDC, addr16 == addr.STAT, addr16 == addr.SCY, addr16 == addr.SCX,
		addr16 == addr.LY, addr16 == addr.LYC,
		addr16 == addr.BGP, addr16 == addr.OBP0, addr16 == addr.OBP1,
		addr16 == addr.WY, addr16 == addr.WX:
		return b.ppu.CPURead(addr16)
	case addr16 == addr.DMA:
		return b.dma
	case addr16 == addr.IF:
		return 0xE0 | (b.ifReg & 0x1F)
	case addr16 == addr.IE:
		return b.ie
	}
	return 0xFF
}

func (b *Bus) Write(addr16 uint16, value byte) {
	switch {
	case addr16 < 0x8000:
		b.cart.Write(addr16, value)
	case addr16 >= 0x8000 && addr16 <= 0x9FFF:
		b.ppu.CPUWrite(addr16, value)
	case addr16 >= 0xA000 && addr16 <= 0xBFFF:
		b.cart.Write(addr16, value)
	case addr16 >= 0xC000 && addr16 <= 0xDFFF:
		b.wram[addr16-0xC000] = value
	case addr16 >= 0xE000 && addr16 <= 0xFDFF:
		mirror := addr16 - 0x2000
		if mirror >= 0xC000 && mirror <= 0xDDFF {
			b.wram[mirror-0xC000] = value
		}
	case addr16 >= 0xFF80 && addr16 <= 0xFFFE:
		b.hram[addr16-0xFF80] = value
	case addr16 >= 0xFE00 && addr16 <= 0xFE9F:
		if !b.dmaActive {
			b.ppu.CPUWrite(addr16, value)
		}
	case addr16 == addr.JOYP:
		b.pad.WriteSelect(value)
	case addr16 == addr.DIV:
		b.tmr.ResetDIV()
	case addr16 == addr.TIMA:
		b.tmr.SetTIMA(value)
	case addr16 == addr.TMA:
		b.tmr.SetTMA(value)
	case addr16 == addr.TAC:
		b.tmr.SetTAC(value)
	case addr16 == addr.SB:
		b.sb = value
	case addr16 == addr.SC:
		b.sc = value & 0x81
		if b.sc&0x80 != 0 {
			if b.sw != nil {
				_, _ = b.sw.Write([]byte{b.sb})
			}
			b.sc &^= 0x80
		}
	case addr16 == addr.LCDC, addr16 == addr.STAT, addr16 == addr.SCY, addr16 == addr.SCX,
		addr16 == addr.LY, addr16 == addr.LYC,
		addr16 == addr.BGP, addr16 == addr.OBP0, addr16 == addr.OBP1,
		addr16 == addr.WY, addr16 == addr.WX:
		b.ppu.CPUWrite(addr16, value)
	case addr16 == addr.DMA:
		b.dma = value
		b.dmaActive = true
		b.dmaSrc = uint16(value) << 8
		b.dmaIndex = 0
	case addr16 == addr.IF:
		b.ifReg = value & 0x1F
	case addr16 == addr.IE:
		b.ie = value
	}
}

// PressButton routes a button press into the joypad matrix and raises the
// joypad IF bit if this is a 1->0 transition.
func (b *Bus) PressButton(group joypad.Group, button int) {
	b.pad.Press(group, button)
	if b.pad.TakeIRQ() {
		b.ifReg |= 1 << 4
	}
}

// ReleaseButton routes a button release into the joypad matrix.
func (b *Bus) ReleaseButton(group joypad.Group, button int) {
	b.pad.Release(group, button)
}

// SetSerialWriter sets a sink that receives bytes written via the serial port.
func (b *Bus) SetSerialWriter(w io.Writer) { b.sw = w }

// Tick advances the timer, PPU, and OAM DMA by the given number of CPU cycles.
func (b *Bus) Tick(cycles int) {
	if cycles <= 0 {
		return
	}
	for i := 0; i < cycles; i++ {
		if b.tmr.Tick(1) {
			b.ifReg |= 1 << 2
		}
		if b.ppu != nil {
			b.ppu.Tick(1)
		}
		if b.dmaActive {
			if b.dmaIndex < 0xA0 {
				v := b.Read(b.dmaSrc + uint16(b.dmaIndex))
				b.ppu.CPUWrite(addr.OAMStart+uint16(b.dmaIndex), v)
				b.dmaIndex++
			}
			if b.dmaIndex >= 0xA0 {
				b.dmaActive = false
			}
		}
	}
}
