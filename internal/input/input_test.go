package input

import (
	"testing"

	"displayd/internal/model"
)

func TestScreenReservedKeyWinsOverGlobal(t *testing.T) {
	g := model.NewGraph()
	owner := g.AddClient()
	other := g.AddClient()
	s, _ := g.AddScreen(owner.Handle, "s1")
	s.ReservedKeys = []string{"Enter"}
	_ = g.ReserveKey(other.Handle, "Enter", true)

	var got model.ClientHandle
	var line string
	Route(g, s, "Enter", Config{}, Actions{}, func(ch model.ClientHandle, l string) {
		got, line = ch, l
	})
	if got != owner.Handle {
		t.Fatalf("want screen owner to receive key, got %v want %v", got, owner.Handle)
	}
	if line == "" {
		t.Fatalf("expected a delivered line")
	}
}

func TestGlobalExclusiveReservationWins(t *testing.T) {
	g := model.NewGraph()
	owner := g.AddClient()
	holder := g.AddClient()
	s, _ := g.AddScreen(owner.Handle, "s1")
	_ = g.ReserveKey(holder.Handle, "Enter", true)

	var got model.ClientHandle
	Route(g, s, "Enter", Config{}, Actions{}, func(ch model.ClientHandle, l string) {
		got = ch
	})
	if got != holder.Handle {
		t.Fatalf("want exclusive holder to receive key, got %v want %v", got, holder.Handle)
	}
}

func TestServerNavigationKeyFallthrough(t *testing.T) {
	g := model.NewGraph()
	owner := g.AddClient()
	s, _ := g.AddScreen(owner.Handle, "s1")

	called := false
	cfg := Config{NextScreenKey: "F2"}
	act := Actions{NextScreen: func() { called = true }}
	Route(g, s, "F2", cfg, act, func(model.ClientHandle, string) {})
	if !called {
		t.Fatalf("expected NextScreen action to fire")
	}
}
