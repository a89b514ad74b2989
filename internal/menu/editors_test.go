package menu

import (
	"testing"

	"displayd/internal/model"
)

func newItem(g *model.Graph, kind model.ItemKind) *model.MenuItem {
	item := model.NewMenuItem(0, "x", kind, model.NilClient)
	h := g.Items.Reserve()
	item.Handle = h
	g.Items.Set(h, item)
	return item
}

func TestNumericEditorCommitsWithinRange(t *testing.T) {
	g := model.NewGraph()
	item := newItem(g, model.ItemNumeric)
	item.NumericMin, item.NumericMax, item.NumericValue = 0, 100, 42
	g.ActiveItem = item.Handle

	if _, err := HandleKey(g, KeyUp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ev, err := HandleKey(g, KeyEnter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev == nil || ev.Payload != "43" {
		t.Fatalf("got event %#v", ev)
	}
	if item.NumericValue != 43 {
		t.Fatalf("got value %d", item.NumericValue)
	}
}

func TestNumericEditorRejectsOutOfRange(t *testing.T) {
	g := model.NewGraph()
	item := newItem(g, model.ItemNumeric)
	item.NumericMin, item.NumericMax, item.NumericValue = 0, 9, 9
	item.EditStr = "99"
	item.EditPos = 1
	g.ActiveItem = item.Handle

	if _, err := HandleKey(g, KeyEnter); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ErrorCode != model.ErrOutOfRange {
		t.Fatalf("got error code %v", item.ErrorCode)
	}
	if item.NumericValue != 9 {
		t.Fatalf("value should be unchanged, got %d", item.NumericValue)
	}
}

func TestIPEditorNormalizesLeadingZeroesOnOpen(t *testing.T) {
	g := model.NewGraph()
	item := newItem(g, model.ItemIP)
	item.IPFamily = model.IPv4
	item.IPValue = "010.0.0.01"
	g.ActiveItem = item.Handle

	if _, err := HandleKey(g, KeyRight); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.EditStr != "10.0.0.1" {
		t.Fatalf("got normalized edit buffer %q", item.EditStr)
	}
}

func TestIPEditorRejectsOutOfRangeOctetOnDirectSet(t *testing.T) {
	_, ok := NormalizeIP("10.0.0.256", model.IPv4)
	if ok {
		t.Fatalf("expected 10.0.0.256 to be rejected")
	}
	norm, ok := NormalizeIP("10.0.0.1", model.IPv4)
	if !ok || norm != "10.0.0.1" {
		t.Fatalf("got %q %v", norm, ok)
	}
}

func TestIPEditorUpDownWrapsField(t *testing.T) {
	g := model.NewGraph()
	item := newItem(g, model.ItemIP)
	item.IPFamily = model.IPv4
	item.IPValue = "10.0.0.255"
	g.ActiveItem = item.Handle

	// move cursor to the last field then wrap it past 255 back to 0
	HandleKey(g, KeyRight)
	HandleKey(g, KeyRight)
	HandleKey(g, KeyRight)
	HandleKey(g, KeyUp)
	ev, err := HandleKey(g, KeyEnter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev == nil || ev.Payload != "10.0.0.0" {
		t.Fatalf("got event %#v", ev)
	}
}
