package model

// WidgetKind discriminates the tagged-variant Widget payload (design note
// §9: "polymorphism of widgets... tagged variants").
type WidgetKind int

const (
	WidgetString WidgetKind = iota
	WidgetHBar
	WidgetVBar
	WidgetPBar
	WidgetIcon
	WidgetTitle
	WidgetScroller
	WidgetFrame
	WidgetNum
)

func (k WidgetKind) String() string {
	switch k {
	case WidgetString:
		return "string"
	case WidgetHBar:
		return "hbar"
	case WidgetVBar:
		return "vbar"
	case WidgetPBar:
		return "pbar"
	case WidgetIcon:
		return "icon"
	case WidgetTitle:
		return "title"
	case WidgetScroller:
		return "scroller"
	case WidgetFrame:
		return "frame"
	case WidgetNum:
		return "num"
	default:
		return "unknown"
	}
}

// ParseWidgetKind maps a widget_add type token to a WidgetKind.
func ParseWidgetKind(s string) (WidgetKind, bool) {
	switch s {
	case "string":
		return WidgetString, true
	case "hbar":
		return WidgetHBar, true
	case "vbar":
		return WidgetVBar, true
	case "pbar":
		return WidgetPBar, true
	case "icon":
		return WidgetIcon, true
	case "title":
		return WidgetTitle, true
	case "scroller":
		return WidgetScroller, true
	case "frame":
		return WidgetFrame, true
	case "num":
		return WidgetNum, true
	default:
		return 0, false
	}
}

// ScrollerMode is the SCROLLER widget's submode (§4.5).
type ScrollerMode int

const (
	ScrollMarquee ScrollerMode = iota // 'm'
	ScrollHoriz                       // 'h'
	ScrollVert                        // 'v'
)

// FrameScroll is a FRAME widget's scroll axis.
type FrameScroll int

const (
	FrameScrollNone FrameScroll = iota
	FrameScrollVertical
	FrameScrollHorizontal // declared but unimplemented, see render package
)

// Widget is one positioned display primitive within a screen (or within a
// FRAME's sub-screen). Shared fields are always valid; kind-specific
// fields are documented per-kind below and are zero-valued when unused.
type Widget struct {
	Handle WidgetHandle
	ID     string // unique within the screen that owns it
	Kind   WidgetKind
	Owner  ScreenHandle

	X, Y int // 1-based position

	// Bounding box, all zero if unset (renderer falls back to the owning
	// screen/frame's bounds).
	Left, Top, Right, Bottom int

	Length  int // HBAR/VBAR bar length in character cells
	Width   int
	Height  int
	Speed   int // SCROLLER ticks-per-char (>0) or chars-per-tick (<0); not used by TITLE
	Promille int // 0-1000 fill level for bar widgets

	Text        string
	BeginLabel  string // PBAR begin label, default "["
	EndLabel    string // PBAR end label, default "]"

	IconID int // ICON widget's icon identifier

	ScrollerMode ScrollerMode

	// FRAME-only: the nested sub-screen owning this frame's children.
	FrameSubScreen ScreenHandle
	FrameScroll    FrameScroll
	FrameScrollSpeed int // fspeed: ticks per scroll step
}

// NewWidget returns a Widget of the given kind with spec defaults
// (PBAR default labels; all else zero).
func NewWidget(h WidgetHandle, id string, kind WidgetKind, owner ScreenHandle) *Widget {
	w := &Widget{Handle: h, ID: id, Kind: kind, Owner: owner, X: 1, Y: 1}
	if kind == WidgetPBar {
		w.BeginLabel = "["
		w.EndLabel = "]"
	}
	return w
}
