// Package scheduler selects which screen is active each render tick, by
// priority class, duration/timeout rotation, and round-robin
// tie-breaking within a class (§4.6). It mutates only the scheduling
// bookkeeping fields already carried on model.Screen
// (TicksSinceSelected, TicksShown); it holds no state of its own beyond
// the currently-selected handle, a round-robin cursor and any pending
// toast message, mirroring
// the teacher's small stateful-selector style (priority_test.go).
package scheduler

import "displayd/internal/model"

// Toast is a short transition message the input router may post (e.g.
// "Next", "Prev", "Rotate", "Hold"); it occupies the bottom-right corner
// for ToastTicks render ticks (§4.6).
const ToastTicks = 8

type Scheduler struct {
	current model.ScreenHandle
	roundRobinCursor int

	Toast      string
	ToastTicks int
}

func New() *Scheduler {
	return &Scheduler{current: model.NilScreen}
}

// Current returns the handle last selected by Tick.
func (s *Scheduler) Current() model.ScreenHandle { return s.current }

// PostToast arms a transition message to show for ToastTicks render ticks.
func (s *Scheduler) PostToast(msg string) {
	s.Toast = msg
	s.ToastTicks = ToastTicks
}

// Tick advances one render tick: it counts down any pending toast and
// returns the screen to show. When autoRotate is false the current screen
// is held (§4.6 rule 1: "if autorotate is off, hold the current screen").
func (s *Scheduler) Tick(g *model.Graph, autoRotate bool) model.ScreenHandle {
	if s.ToastTicks > 0 {
		s.ToastTicks--
	} else {
		s.Toast = ""
	}

	eligible := s.eligibleScreens(g)
	if len(eligible) == 0 {
		s.current = model.NilScreen
		return s.current
	}

	if cur := g.Screens.Get(s.current); cur != nil {
		cur.TicksSinceSelected = 0
		cur.TicksShown++
	}

	if !autoRotate && g.Screens.Get(s.current) != nil && isEligible(g.Screens.Get(s.current)) {
		return s.current
	}

	best := highestClass(eligible)
	group := filterClass(eligible, best)

	if cur := g.Screens.Get(s.current); cur != nil && cur.Priority == best && cur.TicksShown < cur.Duration {
		s.current = cur.Handle
		return s.current
	}

	next := s.roundRobinNext(group)
	s.current = next
	if nc := g.Screens.Get(next); nc != nil {
		nc.TicksShown = 0
	}
	return s.current
}

func (s *Scheduler) eligibleScreens(g *model.Graph) []*model.Screen {
	var out []*model.Screen
	for _, h := range g.ScreenOrder {
		sc := g.Screens.Get(h)
		if sc == nil {
			continue
		}
		sc.TicksSinceSelected++
		if sc.Timeout > 0 && sc.TicksSinceSelected > sc.Timeout {
			continue
		}
		if isEligible(sc) {
			out = append(out, sc)
		}
	}
	return out
}

func isEligible(sc *model.Screen) bool {
	return sc.Priority != model.PriorityHidden
}

func highestClass(screens []*model.Screen) model.Priority {
	best := model.PriorityHidden
	for _, sc := range screens {
		if sc.Priority == model.PriorityInput {
			return model.PriorityInput // INPUT preempts everything (§4.6 rule 3)
		}
		if sc.Priority > best {
			best = sc.Priority
		}
	}
	return best
}

func filterClass(screens []*model.Screen, class model.Priority) []*model.Screen {
	var out []*model.Screen
	for _, sc := range screens {
		if sc.Priority == class {
			out = append(out, sc)
		}
	}
	return out
}

func (s *Scheduler) roundRobinNext(group []*model.Screen) model.ScreenHandle {
	if len(group) == 0 {
		return model.NilScreen
	}
	s.roundRobinCursor = (s.roundRobinCursor + 1) % len(group)
	return group[s.roundRobinCursor].Handle
}
