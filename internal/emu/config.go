package emu

// Config contains settings that affect emulation behavior, independent
// of any particular frontend.
type Config struct {
	Trace bool // log CPU instructions via internal/emu's logger
}
