// Package input implements the key-routing priority cascade: a key
// pulled from any input-capable driver is offered to the current
// screen's reservation, then the global reservation list, then server
// navigation/menu handling (§4.7).
package input

import (
	"displayd/internal/menu"
	"displayd/internal/model"
	"displayd/internal/protocol"
)

// Config names the server-navigation keys recognised outside the menu
// (§4.7, §6 server keys).
type Config struct {
	MenuKey         string
	ToggleRotateKey string
	PrevScreenKey   string
	NextScreenKey   string
	ScrollUpKey     string
	ScrollDownKey   string
}

// Actions is the set of server-navigation side effects Route can
// trigger; the caller (server package) supplies closures so this
// package doesn't need to import scheduler directly.
type Actions struct {
	ToggleRotate func()
	PrevScreen   func()
	NextScreen   func()
}

// Outbound is how Route delivers a wire line to a specific client; the
// caller supplies the actual socket write.
type Outbound func(ch model.ClientHandle, line string)

// Route applies the §4.7 cascade for one key press against the
// currently rendered screen.
func Route(g *model.Graph, current *model.Screen, key string, cfg Config, act Actions, out Outbound) {
	if current != nil {
		for _, k := range current.ReservedKeys {
			if k == key {
				out(current.Owner, protocol.FormatArgs("key", key, current.ID)+"\n")
				return
			}
		}
	}

	owner := model.NilClient
	if current != nil {
		owner = current.Owner
	}
	if r, ok := g.FindReservation(key, owner); ok {
		out(r.Client, protocol.Key(key))
		return
	}

	menuActive := g.ActiveItem != model.NilItem
	if (cfg.MenuKey != "" && key == cfg.MenuKey) || menuActive {
		routeMenu(g, key, out)
		return
	}

	switch key {
	case cfg.ToggleRotateKey:
		if act.ToggleRotate != nil {
			act.ToggleRotate()
		}
	case cfg.PrevScreenKey:
		if act.PrevScreen != nil {
			act.PrevScreen()
		}
	case cfg.NextScreenKey:
		if act.NextScreen != nil {
			act.NextScreen()
		}
	case cfg.ScrollUpKey, cfg.ScrollDownKey:
		// Declared but no effect in the source this spec is drawn from;
		// left as recognized no-ops (§9 open question).
	}
}

func routeMenu(g *model.Graph, key string, out Outbound) {
	mk := menuKeyName(key)
	if mk == "" {
		return
	}
	ev, err := menu.HandleKey(g, mk)
	if err != nil || ev == nil {
		return
	}
	if ev.Payload == "" {
		out(ev.Client, protocol.MenuEvent(ev.Kind, ev.ItemID))
		return
	}
	out(ev.Client, protocol.MenuEvent(ev.Kind, ev.ItemID, ev.Payload))
}

// menuKeyName maps a driver-reported key name to the menu package's
// navigation key constants. Only the handful of keys the menu state
// machines recognise are translated; anything else is inert.
func menuKeyName(key string) string {
	switch key {
	case "Up", "A":
		return menu.KeyUp
	case "Down", "B":
		return menu.KeyDown
	case "Left", "C":
		return menu.KeyLeft
	case "Right", "D":
		return menu.KeyRight
	case "Enter":
		return menu.KeyEnter
	case "Escape":
		return menu.KeyEscape
	case "Menu":
		return menu.KeyMenu
	default:
		return ""
	}
}
