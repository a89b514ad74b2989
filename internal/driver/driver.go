// Package driver defines the capability surface a hardware display module
// presents to the core (§4.1), plus centrally synthesised fallback
// primitives used when a loaded driver lacks a given optional capability.
//
// Per design note §9 ("driver-module loading: trait-object + dynamic
// library"), a Driver is a small required interface; every other
// primitive is an *optional* capability obtained by type-asserting the
// Driver value against one of the capability interfaces below. The core
// never calls an absent primitive directly — it always goes through
// TryString/TryVBar/... in fallback.go, which probe the capability and
// fall back to a synthesised implementation.
package driver

import "fmt"

// Driver is the mandatory surface every display module implements.
type Driver interface {
	APIVersion() string
	RequiresForeground() bool
	AllowsMultipleInstances() bool
	SymbolPrefix() string
	Init() error
	Close() error
}

// APIVersion is the capability-negotiation version the core expects.
// A driver whose APIVersion() doesn't match is fatal to load (§4.1).
const APIVersion = "0.1"

// Optional capability interfaces. A Driver implements zero or more of
// these; the core probes with a type assertion before calling.
type (
	Widther interface {
		Width() int
	}
	Heighter interface {
		Height() int
	}
	CellWidther interface {
		CellWidth() int
	}
	CellHeighter interface {
		CellHeight() int
	}
	Clearer interface {
		Clear()
	}
	Flusher interface {
		Flush()
	}
	StringPlotter interface {
		String(x, y int, s string)
	}
	CharPlotter interface {
		Chr(x, y int, c byte)
	}
	// VBarPlotter, HBarPlotter and PBarPlotter cover VBar/HBar/PBar. opts is a driver-specific style
	// hint (e.g. bar style bitmask) and may be ignored.
	VBarPlotter interface {
		VBar(x, y, length, promille, opts int)
	}
	HBarPlotter interface {
		HBar(x, y, length, promille, opts int)
	}
	PBarPlotter interface {
		PBar(x, y, width, promille int, begin, end string)
	}
	NumPlotter interface {
		Num(x, digit int)
	}
	HeartbeatSetter interface {
		Heartbeat(state int)
	}
	// IconPlotter returns false if the icon id is unsupported, signalling
	// the core to fall back to the ASCII icon table.
	IconPlotter interface {
		Icon(x, y, id int) bool
	}
	CursorSetter interface {
		Cursor(x, y, state int)
	}
	Backlighter interface {
		Backlight(state int)
	}
	Outputter interface {
		Output(state int)
	}
	SetCharer interface {
		SetChar(id int, glyph [][]bool)
	}
	FreeCharsGetter interface {
		GetFreeChars() int
	}
	ContrastGetSetter interface {
		GetContrast() int
		SetContrast(int)
	}
	BrightnessGetSetter interface {
		GetBrightness() int
		SetBrightness(int)
	}
	MacroLEDSetter interface {
		SetMacroLEDs(mask int)
	}
	// KeySource yields the next pending key name, or ok=false if none is
	// pending. Implementations must not block (§5).
	KeySource interface {
		GetKey() (name string, ok bool)
	}
	InfoProvider interface {
		GetInfo() string
	}
)

// LoadError reports a driver load failure: a missing required symbol or
// an api_version mismatch (§4.1, §7 DriverError — fatal for that driver).
type LoadError struct {
	Name   string
	Reason string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("driver %q: %s", e.Name, e.Reason)
}
