package driver

import "fmt"

// Constructor builds a Driver instance from its INI section's config
// values (passed through a simple getter so drivers don't need to know
// about internal/config's types — §6 "Driver configuration is accessed
// indirectly through config callbacks that the core supplies").
type Constructor func(cfg ConfigGetter) (Driver, error)

// ConfigGetter reads a single key from a driver's INI section.
type ConfigGetter func(key string) (string, bool)

// registry is the static name -> constructor table populated by each
// driver package's init() (design note §9: "driver-module loading" —
// here, the dynamic-library indirection collapses to Go's own static
// linking, since the spec scopes actual hardware modules out of core).
var registry = map[string]Constructor{}

// Register adds a driver constructor under name. Called from package
// init() functions (see internal/driver/console).
func Register(name string, ctor Constructor) {
	registry[name] = ctor
}

// Load builds the named driver, verifies its APIVersion, and calls Init.
func Load(name string, cfg ConfigGetter) (Driver, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, &LoadError{Name: name, Reason: "no such driver registered"}
	}
	d, err := ctor(cfg)
	if err != nil {
		return nil, &LoadError{Name: name, Reason: err.Error()}
	}
	if d.APIVersion() != APIVersion {
		return nil, &LoadError{Name: name, Reason: fmt.Sprintf("api_version mismatch: got %q want %q", d.APIVersion(), APIVersion)}
	}
	if err := d.Init(); err != nil {
		return nil, &LoadError{Name: name, Reason: fmt.Sprintf("init: %v", err)}
	}
	return d, nil
}

// OutputGeometry probes a loaded driver for Width/Height/CellWidth/
// CellHeight to populate the process-wide DisplayProps (§4.1: "the first
// loaded driver that reports a width/height/output primitive is
// designated the output driver"). ok is false if d reports neither Width
// nor Height, meaning it cannot serve as the output driver.
func OutputGeometry(d Driver) (width, height, cellWidth, cellHeight int, ok bool) {
	w, hasW := d.(Widther)
	h, hasH := d.(Heighter)
	if !hasW && !hasH {
		return 0, 0, 0, 0, false
	}
	if hasW {
		width = w.Width()
	}
	if hasH {
		height = h.Height()
	}
	cellWidth, cellHeight = 1, 1
	if cw, ok := d.(CellWidther); ok {
		cellWidth = cw.CellWidth()
	}
	if ch, ok := d.(CellHeighter); ok {
		cellHeight = ch.CellHeight()
	}
	return width, height, cellWidth, cellHeight, true
}
