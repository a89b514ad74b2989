package scheduler

import (
	"testing"

	"displayd/internal/model"
)

func TestHiddenScreensNeverSelected(t *testing.T) {
	g := model.NewGraph()
	s, _ := g.AddScreen(model.NilClient, "hidden")
	s.Priority = model.PriorityHidden
	sched := New()
	if got := sched.Tick(g, true); got != model.NilScreen {
		t.Fatalf("hidden screen must never be selected, got %v", got)
	}
}

func TestInputPreemptsOthers(t *testing.T) {
	g := model.NewGraph()
	bg, _ := g.AddScreen(model.NilClient, "bg")
	bg.Priority = model.PriorityBackground
	in, _ := g.AddScreen(model.NilClient, "input")
	in.Priority = model.PriorityInput

	sched := New()
	got := sched.Tick(g, true)
	if got != in.Handle {
		t.Fatalf("want INPUT screen selected, got handle %v want %v", got, in.Handle)
	}
}

func TestHoldWhenAutoRotateOff(t *testing.T) {
	g := model.NewGraph()
	a, _ := g.AddScreen(model.NilClient, "a")
	a.Priority = model.PriorityInfo
	b, _ := g.AddScreen(model.NilClient, "b")
	b.Priority = model.PriorityInfo

	sched := New()
	first := sched.Tick(g, true)
	for i := 0; i < 5; i++ {
		got := sched.Tick(g, false)
		if got != first {
			t.Fatalf("autorotate off must hold screen %v, got %v", first, got)
		}
	}
}
