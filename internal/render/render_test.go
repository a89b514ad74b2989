package render

import (
	"strings"
	"testing"

	"displayd/internal/model"
)

// fakeDriver is a minimal Chr-only surface, exercising the fallback
// synthesis path the same way the console driver does for VBar/HBar/Num.
type fakeDriver struct {
	grid [][]byte
}

func newFakeDriver(w, h int) *fakeDriver {
	g := make([][]byte, h)
	for i := range g {
		g[i] = make([]byte, w)
		for j := range g[i] {
			g[i][j] = ' '
		}
	}
	return &fakeDriver{grid: g}
}

func (f *fakeDriver) APIVersion() string           { return "0.1" }
func (f *fakeDriver) RequiresForeground() bool      { return false }
func (f *fakeDriver) AllowsMultipleInstances() bool { return true }
func (f *fakeDriver) SymbolPrefix() string          { return "fake_" }
func (f *fakeDriver) Init() error                   { return nil }
func (f *fakeDriver) Close() error                  { return nil }

func (f *fakeDriver) Chr(x, y int, c byte) {
	if y-1 < 0 || y-1 >= len(f.grid) || x-1 < 0 || x-1 >= len(f.grid[0]) {
		return
	}
	f.grid[y-1][x-1] = c
}

func (f *fakeDriver) row(y int) string {
	return strings.TrimRight(string(f.grid[y-1]), " ")
}

func TestRenderStringWidget(t *testing.T) {
	g := model.NewGraph()
	g.Display = model.DisplayProps{Width: 20, Height: 4, CellWidth: 1, CellHeight: 1}
	s, _ := g.AddScreen(model.NilClient, "s1")
	w, _ := g.AddWidget(s.Handle, "t", model.WidgetString)
	w.X, w.Y, w.Text = 1, 1, "HELLO"

	d := newFakeDriver(20, 4)
	r := &Renderer{Driver: d}
	r.Frame(g, s, 0, 0, "")

	if got := d.row(1); got != "HELLO" {
		t.Fatalf("row 1 = %q, want HELLO", got)
	}
}

func TestRenderHBarFallback(t *testing.T) {
	g := model.NewGraph()
	g.Display = model.DisplayProps{Width: 20, Height: 4, CellWidth: 1, CellHeight: 1}
	s, _ := g.AddScreen(model.NilClient, "s1")
	w, _ := g.AddWidget(s.Handle, "b", model.WidgetHBar)
	w.X, w.Y, w.Length, w.Promille = 1, 2, 10, 500

	d := newFakeDriver(20, 4)
	r := &Renderer{Driver: d}
	r.Frame(g, s, 0, 0, "")

	row := d.row(2)
	if row == "" {
		t.Fatalf("expected hbar fallback to plot something on row 2")
	}
}

func TestRenderClipsStringToScreenWidth(t *testing.T) {
	g := model.NewGraph()
	g.Display = model.DisplayProps{Width: 5, Height: 4, CellWidth: 1, CellHeight: 1}
	s, _ := g.AddScreen(model.NilClient, "s1")
	w, _ := g.AddWidget(s.Handle, "t", model.WidgetString)
	w.X, w.Y, w.Text = 1, 1, "HELLO WORLD"

	d := newFakeDriver(5, 4)
	r := &Renderer{Driver: d}
	r.Frame(g, s, 0, 0, "")

	if got := d.row(1); got != "HELLO" {
		t.Fatalf("row 1 = %q, want clipped to HELLO", got)
	}
}
