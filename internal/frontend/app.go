// Package frontend is the one windowed collaborator this repository keeps
// in scope (spec.md §4.5/§1): a thin ebiten.Game that polls keys into
// joypad presses, steps the Machine one frame at a time, and blits the
// 160x144 viewport. Everything else the teacher's internal/ui shipped
// (save-state menu, ROM picker, audio) is out of scope and not carried
// here; see DESIGN.md.
package frontend

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/hollowpeak/dmgcore/internal/emu"
)

// Config holds window/presentation settings independent of emulation.
type Config struct {
	Title string
	Scale int
}

func (c *Config) defaults() {
	if c.Title == "" {
		c.Title = "dmgcore"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
}

// App implements ebiten.Game, driving an *emu.Machine.
type App struct {
	cfg Config
	m   *emu.Machine
	tex *ebiten.Image

	paused bool

	lastTime time.Time
	frameAcc float64
}

// NewApp wires the window and returns a ready-to-run App.
func NewApp(cfg Config, m *emu.Machine) *App {
	cfg.defaults()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(160*cfg.Scale, 144*cfg.Scale)
	return &App{cfg: cfg, m: m, lastTime: time.Now()}
}

// Run blocks until the window is closed.
func (a *App) Run() error { return ebiten.RunGame(a) }

func (a *App) pollButtons() emu.Buttons {
	var b emu.Buttons
	b.Right = ebiten.IsKeyPressed(ebiten.KeyRight)
	b.Left = ebiten.IsKeyPressed(ebiten.KeyLeft)
	b.Up = ebiten.IsKeyPressed(ebiten.KeyUp)
	b.Down = ebiten.IsKeyPressed(ebiten.KeyDown)
	b.A = ebiten.IsKeyPressed(ebiten.KeyZ)
	b.B = ebiten.IsKeyPressed(ebiten.KeyX)
	b.Start = ebiten.IsKeyPressed(ebiten.KeyEnter)
	b.Select = ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	return b
}

// gbFPS is the DMG's true frame rate: 4194304 Hz / 70224 cycles-per-frame.
const gbFPS = 4194304.0 / 70224.0

func (a *App) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		a.paused = !a.paused
	}
	if a.paused {
		a.m.SetButtons(emu.Buttons{})
		return nil
	}
	a.m.SetButtons(a.pollButtons())

	now := time.Now()
	dt := now.Sub(a.lastTime).Seconds()
	a.lastTime = now
	if dt < 0 {
		dt = 0
	}
	a.frameAcc += dt * gbFPS
	steps := 0
	for a.frameAcc >= 1.0 && steps < 10 {
		a.m.StepFrame()
		if a.m.FatalErr() != nil {
			return a.m.FatalErr()
		}
		a.frameAcc -= 1.0
		steps++
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(160, 144)
	}
	a.tex.WritePixels(a.m.Framebuffer())
	screen.DrawImage(a.tex, nil)
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) { return 160, 144 }
