package model

import "fmt"

// ReserveKey grants client ch a reservation on key, honoring the
// exclusivity invariant (§3, §4.7): a request fails if an existing
// reservation for key is exclusive, or if the new request is exclusive
// and any reservation for key already exists.
func (g *Graph) ReserveKey(ch ClientHandle, key string, exclusive bool) error {
	for _, r := range g.Reservations {
		if r.Key != key {
			continue
		}
		if r.Exclusive || exclusive {
			return fmt.Errorf("could not reserve key %q", key)
		}
	}
	g.Reservations = append(g.Reservations, KeyReservation{Key: key, Exclusive: exclusive, Client: ch})
	if c := g.Clients.Get(ch); c != nil {
		c.ReservedKeys = append(c.ReservedKeys, key)
	}
	return nil
}

// ReleaseKey releases client ch's reservation on key, if any.
func (g *Graph) ReleaseKey(ch ClientHandle, key string) {
	out := g.Reservations[:0]
	for _, r := range g.Reservations {
		if r.Client == ch && r.Key == key {
			continue
		}
		out = append(out, r)
	}
	g.Reservations = out
	if c := g.Clients.Get(ch); c != nil {
		filtered := c.ReservedKeys[:0]
		for _, k := range c.ReservedKeys {
			if k != key {
				filtered = append(filtered, k)
			}
		}
		c.ReservedKeys = filtered
	}
}

// ReleaseKeysForClient releases every reservation held by ch, e.g. on
// client destruction (§4.7).
func (g *Graph) ReleaseKeysForClient(ch ClientHandle) {
	out := g.Reservations[:0]
	for _, r := range g.Reservations {
		if r.Client != ch {
			out = append(out, r)
		}
	}
	g.Reservations = out
	if c := g.Clients.Get(ch); c != nil {
		c.ReservedKeys = nil
	}
}

// FindReservation returns the reservation for key that matches owner
// (exclusive, or shared and held by the owner of the current screen), and
// reports whether one was found. Used by the input router's cascade
// step 2 (§4.7).
func (g *Graph) FindReservation(key string, currentScreenOwner ClientHandle) (KeyReservation, bool) {
	for _, r := range g.Reservations {
		if r.Key != key {
			continue
		}
		if r.Exclusive || r.Client == currentScreenOwner {
			return r, true
		}
	}
	return KeyReservation{}, false
}
