package model

import "fmt"

// CheckInvariants verifies the six structural invariants of §3. It is not
// called on every tick by the server (that would be needless overhead in
// production) but is exercised by the test suite after arbitrary
// sequences of mutations, per §8's property-based testable properties.
func (g *Graph) CheckInvariants() error {
	if err := g.checkScreenReachability(); err != nil {
		return err
	}
	if err := g.checkWidgetReachability(); err != nil {
		return err
	}
	if err := g.checkMenuReachability(); err != nil {
		return err
	}
	if err := g.checkActiveItemReachable(); err != nil {
		return err
	}
	if err := g.checkKeyExclusivity(); err != nil {
		return err
	}
	if err := g.checkHiddenNeverScheduled(); err != nil {
		return err
	}
	return nil
}

// 1. Every screen in the global screen list is reachable from exactly one
// client's screen set, or is server-owned.
func (g *Graph) checkScreenReachability() error {
	for _, sh := range g.ScreenOrder {
		s := g.Screens.Get(sh)
		if s == nil {
			return fmt.Errorf("screen handle %d in ScreenOrder but not in arena", sh)
		}
		if s.Owner == NilClient {
			continue
		}
		c := g.Clients.Get(s.Owner)
		if c == nil {
			return fmt.Errorf("screen %q owned by unknown client", s.ID)
		}
		if got, ok := c.Screens[s.ID]; !ok || got != sh {
			return fmt.Errorf("screen %q not reachable from owning client's screen set", s.ID)
		}
	}
	return nil
}

// 2. Every widget is reachable from exactly one screen (possibly via
// FRAME nesting).
func (g *Graph) checkWidgetReachability() error {
	reached := make(map[WidgetHandle]bool)
	g.Screens.Each(func(_ ScreenHandle, s *Screen) {
		for _, wh := range s.Widgets {
			reached[wh] = true
		}
	})
	var err error
	g.Widgets.Each(func(h WidgetHandle, w *Widget) {
		if err != nil {
			return
		}
		if !reached[h] {
			err = fmt.Errorf("widget %q not reachable from any screen", w.ID)
		}
	})
	return err
}

// 3. Every menu item in the tree is reachable from the main-menu root.
func (g *Graph) checkMenuReachability() error {
	if g.MenuRoot == NilItem {
		return nil
	}
	reached := make(map[ItemHandle]bool)
	var walk func(ItemHandle)
	walk = func(h ItemHandle) {
		if h == NilItem || reached[h] {
			return
		}
		reached[h] = true
		item := g.Items.Get(h)
		if item == nil {
			return
		}
		for _, ch := range item.Children {
			walk(ch)
		}
	}
	walk(g.MenuRoot)
	var err error
	g.Items.Each(func(h ItemHandle, item *MenuItem) {
		if err != nil {
			return
		}
		if !reached[h] {
			err = fmt.Errorf("menu item %q not reachable from main-menu root", item.ID)
		}
	})
	return err
}

// 4. The active menu item, if non-null, is reachable from the main-menu
// root.
func (g *Graph) checkActiveItemReachable() error {
	if g.ActiveItem == NilItem {
		return nil
	}
	if g.Items.Get(g.ActiveItem) == nil {
		return fmt.Errorf("active item handle %d not in arena", g.ActiveItem)
	}
	for h := g.ActiveItem; h != g.MenuRoot; {
		item := g.Items.Get(h)
		if item == nil {
			return fmt.Errorf("active item handle %d not reachable from main-menu root", g.ActiveItem)
		}
		h = item.Parent
	}
	return nil
}

// 5. No two distinct key reservations violate the exclusivity rule.
func (g *Graph) checkKeyExclusivity() error {
	byKey := make(map[string][]KeyReservation)
	for _, r := range g.Reservations {
		byKey[r.Key] = append(byKey[r.Key], r)
	}
	for key, rs := range byKey {
		if len(rs) < 2 {
			continue
		}
		for _, r := range rs {
			if r.Exclusive {
				return fmt.Errorf("key %q has an exclusive reservation alongside %d others", key, len(rs)-1)
			}
		}
	}
	return nil
}

// 6. A screen's priority equals HIDDEN iff it must never be chosen by the
// scheduler. This holds by construction given how Priority is defined and
// consumed; the check itself only asserts that no screen in the arena
// carries the nil handle.
func (g *Graph) checkHiddenNeverScheduled() error {
	var err error
	g.Screens.Each(func(_ ScreenHandle, s *Screen) {
		if err != nil {
			return
		}
		if s.Priority == PriorityHidden && s.Handle == NilScreen {
			err = fmt.Errorf("impossible: nil screen handle in arena")
		}
	})
	return err
}
