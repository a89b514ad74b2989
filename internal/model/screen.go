package model

// Priority is a screen's scheduling class (§3, §4.6). HIDDEN screens are
// never chosen by the scheduler (invariant 6); INPUT screens preempt
// everything else and are used by the menu subsystem while visible.
type Priority int

const (
	PriorityHidden Priority = iota
	PriorityBackground
	PriorityInfo
	PriorityForeground
	PriorityAlert
	PriorityInput
)

// ParsePriority maps a screen_set -priority argument to a Priority.
func ParsePriority(s string) (Priority, bool) {
	switch s {
	case "hidden":
		return PriorityHidden, true
	case "background":
		return PriorityBackground, true
	case "info":
		return PriorityInfo, true
	case "foreground":
		return PriorityForeground, true
	case "alert":
		return PriorityAlert, true
	case "input":
		return PriorityInput, true
	default:
		return 0, false
	}
}

func (p Priority) String() string {
	switch p {
	case PriorityHidden:
		return "hidden"
	case PriorityBackground:
		return "background"
	case PriorityInfo:
		return "info"
	case PriorityForeground:
		return "foreground"
	case PriorityAlert:
		return "alert"
	case PriorityInput:
		return "input"
	default:
		return "unknown"
	}
}

// CursorKind is a screen's cursor rendering style.
type CursorKind int

const (
	CursorNone CursorKind = iota
	CursorBlock
	CursorUnderscore
)

// DefaultScreenDuration is the duration (in render ticks) newly created
// screens hold before yielding to a rotation peer (§4.4 screen_add).
const DefaultScreenDuration = 8

// Screen is a named visual layout owned by exactly one client, or by the
// server for server-internal screens (ClientOwner == NilClient).
type Screen struct {
	Handle ScreenHandle
	ID     string // unique within its owner
	Owner  ClientHandle
	Name   string

	Width, Height int // 0 means "use display geometry"

	Duration int // render ticks before yielding to a rotation peer
	Timeout  int // ticks since last selection before removal from rotation; 0 = no timeout

	Priority Priority

	Backlight BacklightMode
	Heartbeat HeartbeatMode

	Cursor  CursorKind
	CursorX int
	CursorY int

	ReservedKeys []string

	// Widgets is the ordered list of top-level widgets on this screen
	// (or, for a FRAME's sub-screen, the widgets nested inside it).
	Widgets []WidgetHandle

	// scheduler bookkeeping
	TicksSinceSelected int // ticks since this screen was last the active one
	TicksShown         int // ticks the screen has been continuously active, for Duration rotation
}

// NewScreen returns a Screen with spec-mandated defaults: priority INFO,
// default duration, no timeout.
func NewScreen(h ScreenHandle, id string, owner ClientHandle) *Screen {
	return &Screen{
		Handle:   h,
		ID:       id,
		Owner:    owner,
		Priority: PriorityInfo,
		Duration: DefaultScreenDuration,
	}
}
