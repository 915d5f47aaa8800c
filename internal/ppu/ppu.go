// Package ppu implements the four-mode scanline PPU state machine (OAM
// scan, pixel transfer, HBlank, VBlank), BG/sprite rasterization at VBlank
// entry, and the CPU-facing VRAM/OAM/register surface. The mode-timing
// state machine lives in mode.go, tile/sprite decoding and framebuffer
// production in render.go, and the standalone tile-row fetch primitive
// render.go drives in fetcher.go.
package ppu

// InterruptRequester lets the PPU raise an IF bit (0 = VBlank, 1 = LCD
// STAT) without depending on the interrupt package directly.
type InterruptRequester func(bit int)

// PPU owns VRAM, OAM, the LCDC/STAT/scroll/palette registers, the
// scanline/dot timing state, and the 256x256 render target sampled once
// per frame.
type PPU struct {
	vram [0x2000]byte // 0x8000-0x9FFF
	oam  [0xA0]byte   // 0xFE00-0xFE9F

	lcdc byte // FF40
	stat byte // FF41: bits 0-1 mode, bit 2 LYC coincidence, bits 3-6 enables
	scy  byte // FF42
	scx  byte // FF43
	ly   byte // FF44
	lyc  byte // FF45
	bgp  byte // FF47
	obp0 byte // FF48
	obp1 byte // FF49
	wy   byte // FF4A
	wx   byte // FF4B

	cycleInLine int // dots elapsed in the current scanline, [0,455]

	frame      [256][256]uint16
	frameReady bool

	raiseIRQ InterruptRequester
}

// New constructs a PPU that calls raiseIRQ to set VBlank/STAT IF bits.
func New(raiseIRQ InterruptRequester) *PPU { return &PPU{raiseIRQ: raiseIRQ} }

func (p *PPU) mode() byte { return p.stat & 0x03 }

// vramBlocked reports whether the CPU's view of VRAM/OAM is currently
// opaque to it: VRAM during pixel transfer, OAM during OAM scan and pixel
// transfer.
func (p *PPU) vramBlocked() bool { return p.mode() == 3 }
func (p *PPU) oamBlocked() bool  { m := p.mode(); return m == 2 || m == 3 }

// CPURead serves VRAM, OAM and the PPU's memory-mapped registers; any
// other address reads as 0xFF.
func (p *PPU) CPURead(addr uint16) byte {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		if p.vramBlocked() {
			return 0xFF
		}
		return p.vram[addr-0x8000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if p.oamBlocked() {
			return 0xFF
		}
		return p.oam[addr-0xFE00]
	case addr == 0xFF40:
		return p.lcdc
	case addr == 0xFF41:
		return 0x80 | (p.stat & 0x7F) // bit 7 always reads 1 on DMG
	case addr == 0xFF42:
		return p.scy
	case addr == 0xFF43:
		return p.scx
	case addr == 0xFF44:
		return p.ly
	case addr == 0xFF45:
		return p.lyc
	case addr == 0xFF47:
		return p.bgp
	case addr == 0xFF48:
		return p.obp0
	case addr == 0xFF49:
		return p.obp1
	case addr == 0xFF4A:
		return p.wy
	case addr == 0xFF4B:
		return p.wx
	default:
		return 0xFF
	}
}

// CPUWrite handles writes into VRAM/OAM and the PPU registers. LCDC's
// power bit and LY both carry side effects beyond storing the byte.
func (p *PPU) CPUWrite(addr uint16, value byte) {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		if !p.vramBlocked() {
			p.vram[addr-0x8000] = value
		}
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if !p.oamBlocked() {
			p.oam[addr-0xFE00] = value
		}
	case addr == 0xFF40:
		p.writeLCDC(value)
	case addr == 0xFF41:
		p.stat = (p.stat & 0x07) | (value & 0x78)
	case addr == 0xFF42:
		p.scy = value
	case addr == 0xFF43:
		p.scx = value
	case addr == 0xFF44:
		p.resetLY()
	case addr == 0xFF45:
		p.lyc = value
		p.checkLYC()
	case addr == 0xFF47:
		p.bgp = value
	case addr == 0xFF48:
		p.obp0 = value
	case addr == 0xFF49:
		p.obp1 = value
	case addr == 0xFF4A:
		p.wy = value
	case addr == 0xFF4B:
		p.wx = value
	}
}

// writeLCDC stores the control byte and, on a power transition, restarts
// the scanline counter the way switching the LCD on/off does on hardware.
func (p *PPU) writeLCDC(value byte) {
	wasOn := p.lcdc&0x80 != 0
	p.lcdc = value
	isOn := p.lcdc&0x80 != 0
	switch {
	case wasOn && !isOn:
		p.ly = 0
		p.cycleInLine = 0
		p.transitionTo(0)
		p.checkLYC()
	case !wasOn && isOn:
		p.ly = 0
		p.cycleInLine = 0
		p.transitionTo(2)
		p.checkLYC()
	}
}

// resetLY models the hardware read-only behavior of FF44: any write
// snaps LY back to 0 and restarts OAM scan for the current line.
func (p *PPU) resetLY() {
	p.ly = 0
	p.cycleInLine = 0
	p.checkLYC()
	if p.lcdc&0x80 != 0 {
		p.transitionTo(2)
	}
}

// Register accessors for the renderer (render.go) and test harnesses.
func (p *PPU) BGP() byte  { return p.bgp }
func (p *PPU) OBP0() byte { return p.obp0 }
func (p *PPU) OBP1() byte { return p.obp1 }
func (p *PPU) LCDC() byte { return p.lcdc }
func (p *PPU) SCY() byte  { return p.scy }
func (p *PPU) SCX() byte  { return p.scx }
func (p *PPU) WY() byte   { return p.wy }
func (p *PPU) WX() byte   { return p.wx }
