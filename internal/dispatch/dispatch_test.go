package dispatch

import (
	"strings"
	"testing"

	"displayd/internal/model"
)

func newTestCtx() (*Context, model.ClientHandle) {
	g := model.NewGraph()
	g.Display = model.DisplayProps{Width: 20, Height: 4, CellWidth: 1, CellHeight: 1}
	ctx := NewContext(g, nil)
	c := g.AddClient()
	return ctx, c.Handle
}

func TestHelloHandshake(t *testing.T) {
	ctx, ch := newTestCtx()
	resp := Dispatch(ctx, ch, []string{"hello"})
	if !strings.HasPrefix(resp, "connect LCDproc ") {
		t.Fatalf("unexpected hello response: %q", resp)
	}
	if ctx.Graph.Clients.Get(ch).State != model.ClientActive {
		t.Fatalf("client not active after hello")
	}
}

func TestSimpleStatusScreen(t *testing.T) {
	ctx, ch := newTestCtx()
	cmds := [][]string{
		{"hello"},
		{"client_set", "-name", "cpu"},
		{"screen_add", "s1"},
		{"screen_set", "s1", "-name", "CPU", "-priority", "foreground", "-duration", "8"},
		{"widget_add", "s1", "t", "title"},
		{"widget_set", "s1", "t", "CPU Usage"},
		{"widget_add", "s1", "b", "hbar"},
		{"widget_set", "s1", "b", "1", "2", "500"},
	}
	Dispatch(ctx, ch, cmds[0])
	for _, cmd := range cmds[1:] {
		resp := Dispatch(ctx, ch, cmd)
		if resp != "success\n" {
			t.Fatalf("cmd %v: want success, got %q", cmd, resp)
		}
	}

	s := ctx.Graph.FindClientScreen(ch, "s1")
	if s == nil || s.Name != "CPU" || s.Priority != model.PriorityForeground || s.Duration != 8 {
		t.Fatalf("screen not configured as expected: %+v", s)
	}
	title := ctx.Graph.FindWidget(s.Handle, "t")
	if title == nil || title.Text != "CPU Usage" {
		t.Fatalf("title widget not set: %+v", title)
	}
	bar := ctx.Graph.FindWidget(s.Handle, "b")
	if bar == nil || bar.X != 1 || bar.Y != 2 || bar.Promille != 500 {
		t.Fatalf("hbar widget not set: %+v", bar)
	}
}

func TestKeyReservationConflict(t *testing.T) {
	g := model.NewGraph()
	ctxA := NewContext(g, nil)
	a := g.AddClient()
	b := g.AddClient()

	Dispatch(ctxA, a.Handle, []string{"hello"})
	Dispatch(ctxA, b.Handle, []string{"hello"})

	if resp := Dispatch(ctxA, a.Handle, []string{"client_add_key", "-exclusively", "Enter"}); resp != "success\n" {
		t.Fatalf("A reservation should succeed, got %q", resp)
	}
	resp := Dispatch(ctxA, b.Handle, []string{"client_add_key", "Enter"})
	if resp != `huh? Could not reserve key "Enter"`+"\n" {
		t.Fatalf("unexpected conflict response: %q", resp)
	}
	resp = Dispatch(ctxA, b.Handle, []string{"client_add_key", "-exclusively", "Enter"})
	if !strings.HasPrefix(resp, "huh?") {
		t.Fatalf("expected huh? response, got %q", resp)
	}

	g.RemoveClient(a.Handle)
	resp = Dispatch(ctxA, b.Handle, []string{"client_add_key", "Enter"})
	if resp != "success\n" {
		t.Fatalf("B's reservation should succeed after A disconnects, got %q", resp)
	}
}

func TestUnknownCommand(t *testing.T) {
	ctx, ch := newTestCtx()
	resp := Dispatch(ctx, ch, []string{"frobnicate"})
	if !strings.HasPrefix(resp, "huh? unknown command") {
		t.Fatalf("unexpected response: %q", resp)
	}
}

func TestNoop(t *testing.T) {
	ctx, ch := newTestCtx()
	Dispatch(ctx, ch, []string{"hello"})
	if resp := Dispatch(ctx, ch, []string{"noop"}); resp != "noop complete\n" {
		t.Fatalf("unexpected noop response: %q", resp)
	}
}
