// Package emu gathers CPU, bus, PPU, and joypad into a single owned
// Machine value that every collaborator above it borrows (spec.md §9),
// the way the teacher's cmd/gbemu already assumed a fuller Machine than
// the stub this package started from.
package emu

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hollowpeak/dmgcore/internal/addr"
	"github.com/hollowpeak/dmgcore/internal/bus"
	"github.com/hollowpeak/dmgcore/internal/cart"
	"github.com/hollowpeak/dmgcore/internal/cpu"
	"github.com/hollowpeak/dmgcore/internal/joypad"
)

// Buttons mirrors a single polled input frame from a frontend.
type Buttons struct {
	A, B, Start, Select   bool
	Up, Down, Left, Right bool
}

// Machine is the aggregate emulator: cartridge, bus, CPU, and the derived
// viewport/battery surface a frontend drives.
type Machine struct {
	cfg Config

	cart cart.Cartridge
	bus  *bus.Bus
	cpu  *cpu.CPU

	romPath string

	fatalErr error
}

// New constructs a Machine with no cartridge loaded; LoadROMFromFile or
// LoadCartridge must be called before stepping.
func New(cfg Config) *Machine {
	return &Machine{cfg: cfg}
}

// LoadCartridge wires a freshly parsed cartridge into a new bus/CPU pair
// and resets to DMG post-boot state (spec.md §3 Lifecycles: reset produces
// post-BIOS state directly, there is no boot-ROM stage in this model).
func (m *Machine) LoadCartridge(rom []byte) error {
	c := cart.NewCartridge(rom)
	m.cart = c
	m.bus = bus.NewWithCartridge(c)
	m.cpu = cpu.New(m.bus)
	m.fatalErr = nil
	m.Reset()
	return nil
}

// LoadROMFromFile reads rom from disk, loads it, and remembers the
// (absolute, where resolvable) path for ROMPath.
func (m *Machine) LoadROMFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read rom: %w", err)
	}
	if err := m.LoadCartridge(data); err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		m.romPath = abs
	} else {
		m.romPath = path
	}
	return nil
}

// ROMPath returns the path LoadROMFromFile was given, or "" if the
// cartridge was loaded from raw bytes.
func (m *Machine) ROMPath() string { return m.romPath }

// Reset sets CPU and IO registers to DMG post-boot defaults (the values
// the teacher's cmd/gbemu wrote by hand before handing control to the
// game at 0x0100).
func (m *Machine) Reset() {
	if m.cpu == nil {
		return
	}
	m.cpu.ResetNoBoot()
	m.cpu.SetPC(0x0100)
	m.bus.Write(addr.JOYP, 0xCF)
	m.bus.Write(addr.TIMA, 0x00)
	m.bus.Write(addr.TMA, 0x00)
	m.bus.Write(addr.TAC, 0x00)
	m.bus.Write(addr.LCDC, 0x91)
	m.bus.Write(addr.SCY, 0x00)
	m.bus.Write(addr.SCX, 0x00)
	m.bus.Write(addr.LYC, 0x00)
	m.bus.Write(addr.BGP, 0xFC)
	m.bus.Write(addr.OBP0, 0xFF)
	m.bus.Write(addr.OBP1, 0xFF)
	m.bus.Write(addr.WY, 0x00)
	m.bus.Write(addr.WX, 0x00)
	m.bus.Write(addr.IE, 0x00)
	m.fatalErr = nil
}

// FatalErr returns the *cpu.UnimplementedOpcodeError recovered by the last
// StepFrame/StepFrameNoRender call, or nil.
func (m *Machine) FatalErr() error { return m.fatalErr }

// SetButtons translates a polled input frame into joypad press/release
// edges (spec.md §4.4).
func (m *Machine) SetButtons(b Buttons) {
	press := func(group joypad.Group, bit int, held bool) {
		if held {
			m.bus.PressButton(group, bit)
		} else {
			m.bus.ReleaseButton(group, bit)
		}
	}
	press(joypad.Directional, joypad.BitRightOrA, b.Right)
	press(joypad.Directional, joypad.BitLeftOrB, b.Left)
	press(joypad.Directional, joypad.BitUpOrSelect, b.Up)
	press(joypad.Directional, joypad.BitDownOrStart, b.Down)
	press(joypad.Action, joypad.BitRightOrA, b.A)
	press(joypad.Action, joypad.BitLeftOrB, b.B)
	press(joypad.Action, joypad.BitUpOrSelect, b.Select)
	press(joypad.Action, joypad.BitDownOrStart, b.Start)
}

// runUntilFrame steps the CPU/bus until a full frame has been rendered
// (ppu.FrameReady reports true) or a fatal decode error occurs, in which
// case it is captured in m.fatalErr and stepping halts for this call.
func (m *Machine) runUntilFrame() {
	if m.cpu == nil || m.fatalErr != nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			if uo, ok := r.(*cpu.UnimplementedOpcodeError); ok {
				m.fatalErr = uo
				return
			}
			panic(r)
		}
	}()
	for !m.bus.PPU().FrameReady() {
		pc := m.cpu.PC
		cycles := m.cpu.Step()
		if m.cfg.Trace {
			log.Printf("PC=%04X cyc=%d", pc, cycles)
		}
	}
}

// StepFrame advances emulation by exactly one rendered frame.
func (m *Machine) StepFrame() { m.runUntilFrame() }

// StepFrameNoRender advances one frame's worth of cycles identically to
// StepFrame; frame-skip frontends call this when they intend to discard
// the viewport, since rendering itself (full-frame-at-VBlank) is cheap
// enough that there's no separate fast path to take.
func (m *Machine) StepFrameNoRender() { m.runUntilFrame() }

// Framebuffer returns the current 160x144 viewport as packed RGBA bytes,
// suitable for ebiten.Image.WritePixels.
func (m *Machine) Framebuffer() []byte {
	out := make([]byte, 160*144*4)
	if m.bus == nil {
		return out
	}
	vp := m.bus.PPU().Viewport()
	i := 0
	for y := 0; y < 144; y++ {
		for x := 0; x < 160; x++ {
			r, g, b := rgb565to888(vp[y][x])
			out[i+0] = r
			out[i+1] = g
			out[i+2] = b
			out[i+3] = 0xFF
			i += 4
		}
	}
	return out
}

func rgb565to888(c uint16) (r, g, b byte) {
	r5 := byte(c>>11) & 0x1F
	g6 := byte(c>>5) & 0x3F
	b5 := byte(c) & 0x1F
	r = r5<<3 | r5>>2
	g = g6<<2 | g6>>4
	b = b5<<3 | b5>>2
	return
}

// SaveBattery returns the cartridge's battery-backed RAM (and RTC state,
// for MBC3), or ok=false if the cartridge has no battery-backed storage.
func (m *Machine) SaveBattery() (data []byte, ok bool) {
	if m.cart == nil {
		return nil, false
	}
	bb, ok := m.cart.(cart.BatteryBacked)
	if !ok {
		return nil, false
	}
	return bb.SaveRAM(), true
}

// LoadBattery restores previously saved battery-backed RAM, reporting
// whether the cartridge supports it.
func (m *Machine) LoadBattery(data []byte) bool {
	if m.cart == nil {
		return false
	}
	bb, ok := m.cart.(cart.BatteryBacked)
	if !ok {
		return false
	}
	bb.LoadRAM(data)
	return true
}
