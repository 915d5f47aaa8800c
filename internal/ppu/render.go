package ppu

// Sprite is one decoded OAM entry (y, x, tile, flags), exposed for tests
// and for the full-frame sprite pass below.
type Sprite struct {
	Y, X, Tile, Attr byte
	OAMIndex         int
}

// shadeRGB565 is the reference 4-entry palette, ordered light to dark;
// the spec leaves the exact 16-bit encoding implementation-defined as
// long as the four shades stay distinguishable and ordered this way.
var shadeRGB565 = [4]uint16{0xFFFF, 0xAD55, 0x52AA, 0x0000}

// shadeForIndex maps a raw 2-bit color index through a BGP/OBP-style
// palette byte to one of the four reference shades.
func shadeForIndex(colorIndex, paletteByte byte) uint16 {
	shade := (paletteByte >> (colorIndex * 2)) & 0x03
	return shadeRGB565[shade]
}

// rawVRAMRead bypasses the CPU-visibility blocking CPURead applies: the
// renderer runs at VBlank entry (outside modes 2/3) but reads the array
// directly regardless so a frame render never observes a 0xFF hole.
func (p *PPU) rawVRAMRead(addr uint16) byte {
	if addr < 0x8000 || addr > 0x9FFF {
		return 0xFF
	}
	return p.vram[addr-0x8000]
}

func (p *PPU) oamEntry(i int) Sprite {
	base := i * 4
	return Sprite{
		Y:        p.oam[base],
		X:        p.oam[base+1],
		Tile:     p.oam[base+2],
		Attr:     p.oam[base+3],
		OAMIndex: i,
	}
}

// RenderFrame draws the 32x32 BG tile map and all 40 OAM sprites into the
// 256x256 internal buffer. Called once per frame at VBlank entry: no
// window layer, no sprite/BG priority, no per-scanline sprite limit, per
// the rendering simplification this core targets.
func (p *PPU) RenderFrame() {
	p.renderBackground()
	p.renderSprites()
	p.frameReady = true
}

func (p *PPU) renderBackground() {
	tileMapAddr := uint16(0x9800)
	if p.lcdc&0x08 != 0 {
		tileMapAddr = 0x9C00
	}
	unsignedTileID := p.lcdc&0x10 != 0

	var queue pixelQueue
	fetcher := newTileRowFetcher(tileMemoryFunc(p.rawVRAMRead), &queue)
	for tileY := 0; tileY < 32; tileY++ {
		for tileX := 0; tileX < 32; tileX++ {
			cellAddr := tileMapAddr + uint16(tileY*32+tileX)
			for row := 0; row < 8; row++ {
				queue.Clear()
				fetcher.SetSource(cellAddr, unsignedTileID, byte(row))
				fetcher.FetchRow()
				for col := 0; col < 8; col++ {
					ci, _ := queue.Pop()
					p.frame[tileY*8+row][tileX*8+col] = shadeForIndex(ci, p.bgp)
				}
			}
		}
	}
}

func (p *PPU) renderSprites() {
	tall := p.lcdc&0x04 != 0
	height := 8
	if tall {
		height = 16
	}
	for i := 0; i < 40; i++ {
		s := p.oamEntry(i)
		if s.X == 0 && s.Y == 0 {
			continue // off-screen sentinel position
		}
		p.blitSprite(s, tall, height)
	}
}

func (p *PPU) blitSprite(s Sprite, tall bool, height int) {
	screenY := int(s.Y) - 16
	screenX := int(s.X) - 8
	baseTile := s.Tile
	if tall {
		baseTile &^= 0x01
	}
	xFlip := s.Attr&0x20 != 0
	yFlip := s.Attr&0x40 != 0
	pal := p.obp0
	if s.Attr&0x10 != 0 {
		pal = p.obp1
	}

	for row := 0; row < height; row++ {
		srcRow := row
		if yFlip {
			srcRow = height - 1 - row
		}
		tile := baseTile
		fineY := srcRow
		if tall && srcRow >= 8 {
			tile = baseTile | 0x01
			fineY = srcRow - 8
		}
		py := screenY + row
		if py < 0 || py >= 256 {
			continue
		}
		rowPixels := p.decodeSpriteRow(tile, byte(fineY))
		for col := 0; col < 8; col++ {
			srcCol := col
			if xFlip {
				srcCol = 7 - col
			}
			ci := rowPixels[srcCol]
			if ci == 0 {
				continue // index 0 is transparent, BG shows through
			}
			px := screenX + col
			if px < 0 || px >= 256 {
				continue
			}
			p.frame[py][px] = shadeForIndex(ci, pal)
		}
	}
}

func (p *PPU) decodeSpriteRow(tile byte, fineY byte) [8]byte {
	base := 0x8000 + uint16(tile)*16 + uint16(fineY)*2
	lo := p.rawVRAMRead(base)
	hi := p.rawVRAMRead(base + 1)
	var out [8]byte
	for px := 0; px < 8; px++ {
		bit := 7 - byte(px)
		out[px] = ((hi>>bit)&1)<<1 | ((lo >> bit) & 1)
	}
	return out
}

// tileMemoryFunc adapts a plain function to the tileMemory interface.
type tileMemoryFunc func(addr uint16) byte

func (f tileMemoryFunc) Read(addr uint16) byte { return f(addr) }

// FrameReady reports and clears whether a new frame has been rendered
// since the last call.
func (p *PPU) FrameReady() bool {
	r := p.frameReady
	p.frameReady = false
	return r
}

// Viewport extracts the 160x144 visible window at (SCX, SCY), wrapping
// within the 256x256 internal buffer.
func (p *PPU) Viewport() [144][160]uint16 {
	var out [144][160]uint16
	for y := 0; y < 144; y++ {
		srcY := (int(p.scy) + y) & 0xFF
		for x := 0; x < 160; x++ {
			srcX := (int(p.scx) + x) & 0xFF
			out[y][x] = p.frame[srcY][srcX]
		}
	}
	return out
}
