package model

// ClientState is the lifecycle state of an accepted connection.
type ClientState int

const (
	ClientNew ClientState = iota
	ClientActive
	ClientGone
)

func (s ClientState) String() string {
	switch s {
	case ClientNew:
		return "new"
	case ClientActive:
		return "active"
	case ClientGone:
		return "gone"
	default:
		return "unknown"
	}
}

// BacklightMode and HeartbeatMode mirror the driver primitives of the same
// name: a small enum of {off, on, toggle, blink, flash} style preferences
// cascaded server → client → screen → fallback (§4.5).
type BacklightMode int

const (
	BacklightUnset BacklightMode = iota
	BacklightOff
	BacklightOn
	BacklightToggle
	BacklightBlink
	BacklightFlash
)

type HeartbeatMode int

const (
	HeartbeatUnset HeartbeatMode = iota
	HeartbeatOff
	HeartbeatOn
)

// Client is an accepted TCP connection. It owns a set of screens (keyed
// by the client-assigned id, unique per client), an optional client-rooted
// menu subtree, and the key reservations it holds.
type Client struct {
	Handle ClientHandle
	State  ClientState
	Name   string // display name, set by client_set -name; empty until then

	Backlight BacklightMode
	Heartbeat HeartbeatMode

	// Inbound holds complete command lines not yet dispatched. The socket
	// listener appends; the dispatcher drains in arrival order (§5
	// ordering guarantee).
	Inbound []string

	// Screens maps the client-assigned screen id to its handle. Screen
	// ids are unique per client, not globally.
	Screens map[string]ScreenHandle

	// MenuRoot is this client's subtree root under the main menu, or
	// NilItem if the client has not yet called menu_add_item.
	MenuRoot ItemHandle

	// ReservedKeys lists the keys this client holds (shared or
	// exclusive); the authoritative record is the server's global
	// KeyReservation list, but a client tracks its own for fast release
	// on destruction.
	ReservedKeys []string
}

// NewClient returns a Client in state New with its maps initialized.
func NewClient(h ClientHandle) *Client {
	return &Client{
		Handle:  h,
		State:   ClientNew,
		Screens: make(map[string]ScreenHandle),
	}
}

// KeyReservation is a claim on a key name by a client, shared or
// exclusive. Invariant: no two reservations for the same key may both be
// exclusive, nor may an exclusive reservation be granted while any shared
// reservation for that key exists (§3, invariant 5).
type KeyReservation struct {
	Key       string
	Exclusive bool
	Client    ClientHandle
}
