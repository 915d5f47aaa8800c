package cart

import (
	"encoding/binary"
	"errors"
	"strings"
)

// Cartridge header field offsets, per the Pan Docs memory map.
const (
	headerLogoStart = 0x0104
	headerTitle     = 0x0134
	headerTitleEnd  = 0x0144
	headerLast      = 0x014F
)

// bootROMLogo is the fixed bitmap the DMG boot ROM compares against before
// handing control to the cartridge; a mismatch halts real hardware.
var bootROMLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E, 0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// Header is a decoded cartridge header (0x0100-0x014F). Geometry fields
// (ROMSizeBytes, ROMBanks, RAMSizeBytes, CartTypeStr) are derived from the
// raw codes for callers that only want the human-readable form.
type Header struct {
	Title          string
	CGBFlag        byte
	NewLicensee    string
	SGBFlag        byte
	CartType       byte
	ROMSizeCode    byte
	RAMSizeCode    byte
	Destination    byte
	OldLicensee    byte
	ROMVersion     byte
	HeaderChecksum byte
	GlobalChecksum uint16
	LogoMatches    bool

	ROMSizeBytes int
	ROMBanks     int
	RAMSizeBytes int
	CartTypeStr  string
}

// ParseHeader decodes the cartridge header out of rom. It does not
// validate the header checksum; use HeaderChecksumOK for that.
func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < headerLast+1 {
		return nil, errors.New("cart: ROM too small to contain a header")
	}

	h := &Header{
		Title:          strings.TrimRight(string(rom[headerTitle:headerTitleEnd]), "\x00"),
		CGBFlag:        rom[0x0143],
		NewLicensee:    string(rom[0x0144:0x0146]),
		SGBFlag:        rom[0x0146],
		CartType:       rom[0x0147],
		ROMSizeCode:    rom[0x0148],
		RAMSizeCode:    rom[0x0149],
		Destination:    rom[0x014A],
		OldLicensee:    rom[0x014B],
		ROMVersion:     rom[0x014C],
		HeaderChecksum: rom[0x014D],
		GlobalChecksum: binary.BigEndian.Uint16(rom[0x014E:0x0150]),
		LogoMatches:    logoMatches(rom),
	}

	h.ROMSizeBytes, h.ROMBanks = romGeometryFor(h.ROMSizeCode)
	h.RAMSizeBytes = ramSizeFor(h.RAMSizeCode)
	h.CartTypeStr = cartTypeLabel(h.CartType)
	return h, nil
}

func logoMatches(rom []byte) bool {
	for i, want := range bootROMLogo {
		if rom[headerLogoStart+i] != want {
			return false
		}
	}
	return true
}

// HeaderChecksumOK recomputes the 0x014D checksum over 0x0134-0x014C and
// reports whether it matches the stored value.
func HeaderChecksumOK(rom []byte) bool {
	if len(rom) < 0x014E {
		return false
	}
	var sum byte
	for addr := headerTitle; addr <= 0x014C; addr++ {
		sum = sum - rom[addr] - 1
	}
	return sum == rom[0x014D]
}

// romSizeEntry pairs a header code with the ROM capacity and bank count it
// implies; table-driven rather than a bare switch so new codes are a
// one-line addition.
type romSizeEntry struct {
	bytes int
	banks int
}

var romSizeTable = map[byte]romSizeEntry{
	0x00: {32 * 1024, 2},
	0x01: {64 * 1024, 4},
	0x02: {128 * 1024, 8},
	0x03: {256 * 1024, 16},
	0x04: {512 * 1024, 32},
	0x05: {1 * 1024 * 1024, 64},
	0x06: {2 * 1024 * 1024, 128},
	0x07: {4 * 1024 * 1024, 256},
	0x08: {8 * 1024 * 1024, 512},
	0x52: {1152 * 1024, 72},
	0x53: {1280 * 1024, 80},
	0x54: {1536 * 1024, 96},
}

func romGeometryFor(code byte) (size, banks int) {
	e := romSizeTable[code]
	return e.bytes, e.banks
}

var ramSizeTable = map[byte]int{
	0x00: 0,
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

func ramSizeFor(code byte) int { return ramSizeTable[code] }

// cartTypeLabel groups the 0x0147 code into the MBC family it implies;
// cart.NewCartridge switches on the raw code directly, this is display-only.
func cartTypeLabel(code byte) string {
	switch {
	case code == 0x00:
		return "ROM ONLY"
	case code >= 0x01 && code <= 0x03:
		return "MBC1 (variants)"
	case code == 0x05 || code == 0x06:
		return "MBC2 (variants)"
	case code >= 0x0F && code <= 0x13:
		return "MBC3 (variants)"
	case code >= 0x19 && code <= 0x1E:
		return "MBC5 (variants)"
	default:
		return "Other/unknown"
	}
}
