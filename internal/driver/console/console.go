// Package console implements the daemon's one built-in, concrete display
// driver. Per-hardware driver modules are out of core scope (spec.md §1);
// this one exists so the daemon is runnable and testable without real
// display hardware, the same role the teacher's virtual-terminal-backed
// overlay plays for a real terminal.
//
// Besides the geometry and info queries (Width, Height, CellWidth,
// CellHeight, GetInfo), it deliberately implements only the bare minimum
// of optional primitives (Chr, Clear, Flush, Backlight, Output, GetKey) so that the
// renderer exercises internal/driver's fallback synthesis for
// String/VBar/HBar/PBar/Num/Icon/Heartbeat/Cursor — the same primitives a
// minimal real hardware module would also be expected to omit.
package console

import (
	"fmt"
	"os"
	"sync"

	"github.com/creack/pty"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/vito/midterm"
	"golang.org/x/term"

	"displayd/internal/driver"
)

func init() {
	driver.Register("console", New)
}

const (
	defaultWidth     = 20
	defaultHeight    = 4
	defaultCellWidth = 1
	defaultCellHeight = 1
)

// Driver is the built-in reference display, backed by a midterm terminal
// grid (grounded on the teacher's virtual-terminal render path) and an
// optional real pty for visual inspection.
type Driver struct {
	mu sync.Mutex

	width, height         int
	cellWidth, cellHeight int
	foreground            bool

	grid *midterm.Terminal

	ptm *os.File // real pty master, only set when Foreground requests visual output
	tty *os.File

	profile  termenv.Profile
	keys     chan string
	closed   chan struct{}
	restore  *term.State
}

// New constructs a console driver from its INI section. Recognised keys:
// Width, Height, CellWidth, CellHeight (all optional, defaulting to a
// 20x4 character display), Foreground (tristate, opens a real pty when
// true so a human can watch frames render).
func New(cfg driver.ConfigGetter) (driver.Driver, error) {
	d := &Driver{
		width:      intOr(cfg, "Width", defaultWidth),
		height:     intOr(cfg, "Height", defaultHeight),
		cellWidth:  intOr(cfg, "CellWidth", defaultCellWidth),
		cellHeight: intOr(cfg, "CellHeight", defaultCellHeight),
	}
	if v, ok := cfg("Foreground"); ok {
		d.foreground = v == "1" || v == "on" || v == "true" || v == "yes"
	}
	return d, nil
}

func intOr(cfg driver.ConfigGetter, key string, def int) int {
	v, ok := cfg(key)
	if !ok {
		return def
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return def
	}
	return n
}

func (d *Driver) APIVersion() string            { return driver.APIVersion }
func (d *Driver) RequiresForeground() bool       { return d.foreground }
func (d *Driver) AllowsMultipleInstances() bool  { return true }
func (d *Driver) SymbolPrefix() string           { return "console_" }

// Init allocates the character grid and, if running in foreground mode,
// a real pty so frames can be watched with `cat` or a terminal emulator
// attached to the pty's slave side.
func (d *Driver) Init() error {
	d.grid = midterm.NewTerminal(d.height, d.width)
	d.keys = make(chan string, 64)
	d.closed = make(chan struct{})

	// Color profile: skip probing entirely when stdout isn't a tty so
	// headless runs (tests, CI) stay deterministic (go-isatty).
	if isatty.IsTerminal(os.Stdout.Fd()) {
		d.profile = termenv.NewOutput(os.Stdout).Profile
	} else {
		d.profile = termenv.Ascii
	}

	if !d.foreground {
		return nil
	}

	ptm, tty, err := pty.Open()
	if err != nil {
		return fmt.Errorf("open pty: %w", err)
	}
	d.ptm, d.tty = ptm, tty
	pty.Setsize(d.ptm, &pty.Winsize{Rows: uint16(d.height), Cols: uint16(d.width)})

	if state, err := term.MakeRaw(int(d.tty.Fd())); err == nil {
		d.restore = state
	}
	go d.readKeys()
	return nil
}

func (d *Driver) Close() error {
	close(d.closed)
	if d.tty != nil && d.restore != nil {
		term.Restore(int(d.tty.Fd()), d.restore)
	}
	if d.ptm != nil {
		d.ptm.Close()
	}
	if d.tty != nil {
		d.tty.Close()
	}
	return nil
}

func (d *Driver) Width() int      { return d.width }
func (d *Driver) Height() int     { return d.height }
func (d *Driver) CellWidth() int  { return d.cellWidth }
func (d *Driver) CellHeight() int { return d.cellHeight }

func (d *Driver) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.grid = midterm.NewTerminal(d.height, d.width)
}

// Chr plots a single byte at 1-based (x,y), matching the wire protocol's
// coordinate convention.
func (d *Driver) Chr(x, y int, c byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if x < 1 || y < 1 || x > d.width || y > d.height {
		return
	}
	fmt.Fprintf(d.grid, "\033[%d;%dH%c", y, x, c)
}

// Backlight and Output are accepted but have no effect for the console
// driver; the value passed is discarded.
func (d *Driver) Backlight(state int) {}
func (d *Driver) Output(state int)    {}

func (d *Driver) GetInfo() string {
	return fmt.Sprintf("console driver (%dx%d cells, cell %dx%d)", d.width, d.height, d.cellWidth, d.cellHeight)
}

// GetKey returns the next pending key name, non-blocking (§4.1, §5:
// "drivers' get_key... are presumed non-blocking").
func (d *Driver) GetKey() (string, bool) {
	select {
	case k := <-d.keys:
		return k, true
	default:
		return "", false
	}
}

// Snapshot returns the current grid content as one string per row, for
// tests and other callers that inspect the screen contents.
func (d *Driver) Snapshot() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	rows := make([]string, 0, d.height)
	for y := 0; y < d.height && y < len(d.grid.Content); y++ {
		rows = append(rows, string(d.grid.Content[y]))
	}
	return rows
}

// Flush writes the current grid to the real pty, if one is open.
func (d *Driver) Flush() {
	if d.ptm == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprint(d.ptm, "\033[H\033[2J")
	for y := 0; y < d.height && y < len(d.grid.Content); y++ {
		fmt.Fprintf(d.ptm, "\033[%d;1H%s", y+1, string(d.grid.Content[y]))
	}
}

func (d *Driver) readKeys() {
	buf := make([]byte, 1)
	for {
		select {
		case <-d.closed:
			return
		default:
		}
		n, err := d.ptm.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}
		if name, ok := keyName(buf[0]); ok {
			select {
			case d.keys <- name:
			default:
			}
		}
	}
}

func keyName(b byte) (string, bool) {
	switch b {
	case '\r', '\n':
		return "Enter", true
	case 0x1B:
		return "Escape", true
	case 'a', 'A':
		return "A", true
	case 'b', 'B':
		return "B", true
	case 'c', 'C':
		return "C", true
	case 'd', 'D':
		return "D", true
	default:
		return "", false
	}
}
