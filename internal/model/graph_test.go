package model

import "testing"

func TestScreenWidgetLifecycle(t *testing.T) {
	g := NewGraph()
	c := g.AddClient()
	c.State = ClientActive

	added, deleted := 0, 0

	s1, err := g.AddScreen(c.Handle, "s1")
	if err != nil {
		t.Fatalf("AddScreen: %v", err)
	}

	for _, id := range []string{"a", "b", "c"} {
		if _, err := g.AddWidget(s1.Handle, id, WidgetString); err != nil {
			t.Fatalf("AddWidget %s: %v", id, err)
		}
		added++
	}

	// A FRAME widget owns a sub-screen; destroying it cascades to any
	// widgets placed inside that sub-screen.
	frame, err := g.AddWidget(s1.Handle, "f", WidgetFrame)
	if err != nil {
		t.Fatalf("AddWidget frame: %v", err)
	}
	added++
	if _, err := g.AddWidget(frame.FrameSubScreen, "inner", WidgetString); err != nil {
		t.Fatalf("AddWidget inner: %v", err)
	}
	added++

	w := g.FindWidget(s1.Handle, "b")
	if w == nil {
		t.Fatal("expected to find widget b")
	}
	g.RemoveWidget(w.Handle)
	deleted++

	g.RemoveWidget(frame.Handle)
	deleted++ // the frame itself
	deleted++ // cascaded "inner"

	if err := g.CheckInvariants(); err != nil {
		t.Fatalf("invariants violated: %v", err)
	}

	live := g.Widgets.Len()
	if live != added-deleted {
		t.Fatalf("live widgets = %d, want %d (added=%d deleted=%d)", live, added-deleted, added, deleted)
	}
}

func TestScreenAddDuplicateID(t *testing.T) {
	g := NewGraph()
	c := g.AddClient()
	if _, err := g.AddScreen(c.Handle, "s1"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddScreen(c.Handle, "s1"); err == nil {
		t.Fatal("expected duplicate screen id to be rejected")
	}
}

func TestClientDestructionReleasesEverything(t *testing.T) {
	g := NewGraph()
	c := g.AddClient()
	s, _ := g.AddScreen(c.Handle, "s1")
	g.AddWidget(s.Handle, "w1", WidgetString)
	if err := g.ReserveKey(c.Handle, "Enter", true); err != nil {
		t.Fatal(err)
	}

	g.RemoveClient(c.Handle)

	if g.Screens.Len() != 0 {
		t.Fatalf("expected 0 screens after client destruction, got %d", g.Screens.Len())
	}
	if g.Widgets.Len() != 0 {
		t.Fatalf("expected 0 widgets after client destruction, got %d", g.Widgets.Len())
	}
	if len(g.Reservations) != 0 {
		t.Fatalf("expected reservations released, got %d", len(g.Reservations))
	}
	if err := g.CheckInvariants(); err != nil {
		t.Fatalf("invariants violated: %v", err)
	}
}

func TestKeyReservationExclusivity(t *testing.T) {
	g := NewGraph()
	a := g.AddClient()
	b := g.AddClient()

	if err := g.ReserveKey(a.Handle, "Enter", true); err != nil {
		t.Fatalf("exclusive reserve by a: %v", err)
	}
	if err := g.ReserveKey(b.Handle, "Enter", false); err == nil {
		t.Fatal("expected shared reserve to fail against existing exclusive")
	}
	if err := g.ReserveKey(b.Handle, "Enter", true); err == nil {
		t.Fatal("expected exclusive reserve to fail against existing exclusive")
	}

	g.RemoveClient(a.Handle)

	if err := g.ReserveKey(b.Handle, "Enter", false); err != nil {
		t.Fatalf("expected reserve to succeed after owner disconnect: %v", err)
	}
	if err := g.CheckInvariants(); err != nil {
		t.Fatalf("invariants violated: %v", err)
	}
}

func TestKeyReservationSharedThenExclusiveRejected(t *testing.T) {
	g := NewGraph()
	a := g.AddClient()
	b := g.AddClient()

	if err := g.ReserveKey(a.Handle, "F1", false); err != nil {
		t.Fatal(err)
	}
	if err := g.ReserveKey(b.Handle, "F1", true); err == nil {
		t.Fatal("expected exclusive reserve to fail while a shared reservation exists")
	}
}
