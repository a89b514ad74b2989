package model

import (
	"fmt"
	"sort"
)

// Graph is the entire shared data graph: clients, screens, widgets, menu
// items, and key reservations, plus the process-wide display geometry and
// frame counter. It is mutated only from the main loop (§5); there is no
// internal locking.
type Graph struct {
	Clients *Arena[ClientHandle, Client]
	Screens *Arena[ScreenHandle, Screen]
	Widgets *Arena[WidgetHandle, Widget]
	Items   *Arena[ItemHandle, MenuItem]

	// ScreenOrder is the global ordered screen list used for round-robin
	// tie-breaking (§4.6). Joining/leaving it is a side effect of screen
	// creation/destruction.
	ScreenOrder []ScreenHandle

	Reservations []KeyReservation

	Display DisplayProps

	// FrameCounter increments once per render tick; blink/flash/scroll
	// formulas are pure functions of it (design note: deterministic
	// timers).
	FrameCounter uint64

	// MenuRoot is the server-owned main menu root (always kind ItemMenu).
	MenuRoot ItemHandle

	// ActiveItem is the process-wide singleton identifying the item whose
	// editor screen is currently visible (§3). NilItem means the menu is
	// closed.
	ActiveItem ItemHandle

	// OnScreenAdded / OnScreenRemoved let the menu subsystem synthesise
	// and retire a per-screen entry (§3: "menu subsystem is informed of
	// additions and removals").
	OnScreenAdded   func(*Graph, ScreenHandle)
	OnScreenRemoved func(*Graph, ScreenHandle)
}

// DisplayProps is the process-wide geometry populated by the output
// driver at startup (§4.1).
type DisplayProps struct {
	Width, Height         int
	CellWidth, CellHeight int
}

// NewGraph returns an empty Graph with arenas initialized.
func NewGraph() *Graph {
	return &Graph{
		Clients: NewArena[ClientHandle, Client](),
		Screens: NewArena[ScreenHandle, Screen](),
		Widgets: NewArena[WidgetHandle, Widget](),
		Items:   NewArena[ItemHandle, MenuItem](),
	}
}

// AddClient creates a Client in state New and returns it.
func (g *Graph) AddClient() *Client {
	h := g.Clients.Reserve()
	c := NewClient(h)
	g.Clients.Set(h, c)
	return c
}

// RemoveClient destroys a client: releases its screens, all key
// reservations it holds, and the client itself. Menu items the client
// added are not removed here; only the per-screen entries go, through the
// OnScreenRemoved hook when one is set.
func (g *Graph) RemoveClient(ch ClientHandle) {
	c := g.Clients.Get(ch)
	if c == nil {
		return
	}
	for _, sh := range sortedScreenHandles(c.Screens) {
		g.RemoveScreen(sh)
	}
	g.ReleaseKeysForClient(ch)
	g.Clients.Remove(ch)
}

// sortedScreenHandles returns a client's screens in creation order
// (ascending handle) so that teardown is deterministic across runs
// instead of following Go's randomized map iteration.
func sortedScreenHandles(m map[string]ScreenHandle) []ScreenHandle {
	out := make([]ScreenHandle, 0, len(m))
	for _, h := range m {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AddScreen creates a screen owned by owner (NilClient for server-owned
// screens), joins the global screen list, and notifies the menu
// subsystem. Returns an error if id is already used by owner.
func (g *Graph) AddScreen(owner ClientHandle, id string) (*Screen, error) {
	if owner != NilClient {
		c := g.Clients.Get(owner)
		if c == nil {
			return nil, &ErrNotFound{Kind: "client", ID: fmt.Sprintf("%d", owner)}
		}
		if _, dup := c.Screens[id]; dup {
			return nil, fmt.Errorf("screen %q already exists", id)
		}
	}
	h := g.Screens.Reserve()
	s := NewScreen(h, id, owner)
	g.Screens.Set(h, s)
	g.ScreenOrder = append(g.ScreenOrder, h)
	if owner != NilClient {
		g.Clients.Get(owner).Screens[id] = h
	}
	if g.OnScreenAdded != nil {
		g.OnScreenAdded(g, h)
	}
	return s, nil
}

// RemoveScreen destroys a screen, cascading to its widgets (and, for any
// FRAME widget, the widgets of its sub-screen), removes it from the
// owner's screen set and the global order, and notifies the menu
// subsystem.
func (g *Graph) RemoveScreen(h ScreenHandle) {
	s := g.Screens.Get(h)
	if s == nil {
		return
	}
	for _, wh := range append([]WidgetHandle(nil), s.Widgets...) {
		g.RemoveWidget(wh)
	}
	if s.Owner != NilClient {
		if c := g.Clients.Get(s.Owner); c != nil {
			delete(c.Screens, s.ID)
		}
	}
	g.ScreenOrder = removeScreenHandle(g.ScreenOrder, h)
	g.Screens.Remove(h)
	if g.OnScreenRemoved != nil {
		g.OnScreenRemoved(g, h)
	}
}

func removeScreenHandle(list []ScreenHandle, h ScreenHandle) []ScreenHandle {
	out := list[:0]
	for _, v := range list {
		if v != h {
			out = append(out, v)
		}
	}
	return out
}

// AddWidget creates a widget of kind on the screen identified by parent,
// appends it to the screen's widget list, and returns it.
func (g *Graph) AddWidget(parent ScreenHandle, id string, kind WidgetKind) (*Widget, error) {
	s := g.Screens.Get(parent)
	if s == nil {
		return nil, &ErrNotFound{Kind: "screen", ID: fmt.Sprintf("%d", parent)}
	}
	for _, wh := range s.Widgets {
		if w := g.Widgets.Get(wh); w != nil && w.ID == id {
			return nil, fmt.Errorf("widget %q already exists", id)
		}
	}
	h := g.Widgets.Reserve()
	w := NewWidget(h, id, kind, parent)
	g.Widgets.Set(h, w)
	s.Widgets = append(s.Widgets, h)
	if kind == WidgetFrame {
		sub, err := g.AddScreen(NilClient, fmt.Sprintf("__frame_%d", h))
		if err != nil {
			return nil, err
		}
		sub.Priority = PriorityHidden // sub-screens are never independently scheduled
		w.FrameSubScreen = sub.Handle
	}
	return w, nil
}

// RemoveWidget destroys a widget, cascading to its FRAME sub-screen (and
// transitively, that sub-screen's widgets) if present.
func (g *Graph) RemoveWidget(h WidgetHandle) {
	w := g.Widgets.Get(h)
	if w == nil {
		return
	}
	if w.Kind == WidgetFrame && w.FrameSubScreen != NilScreen {
		g.RemoveScreen(w.FrameSubScreen)
	}
	if s := g.Screens.Get(w.Owner); s != nil {
		s.Widgets = removeWidgetHandle(s.Widgets, h)
	}
	g.Widgets.Remove(h)
}

func removeWidgetHandle(list []WidgetHandle, h WidgetHandle) []WidgetHandle {
	out := list[:0]
	for _, v := range list {
		if v != h {
			out = append(out, v)
		}
	}
	return out
}

// FindWidget locates a widget by id within screen sh.
func (g *Graph) FindWidget(sh ScreenHandle, id string) *Widget {
	s := g.Screens.Get(sh)
	if s == nil {
		return nil
	}
	for _, wh := range s.Widgets {
		if w := g.Widgets.Get(wh); w != nil && w.ID == id {
			return w
		}
	}
	return nil
}

// FindClientScreen locates the screen client ch named id.
func (g *Graph) FindClientScreen(ch ClientHandle, id string) *Screen {
	c := g.Clients.Get(ch)
	if c == nil {
		return nil
	}
	h, ok := c.Screens[id]
	if !ok {
		return nil
	}
	return g.Screens.Get(h)
}
