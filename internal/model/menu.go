package model

// ItemKind discriminates the eight menu item kinds (§4.8).
type ItemKind int

const (
	ItemMenu ItemKind = iota
	ItemAction
	ItemCheckbox
	ItemRing
	ItemSlider
	ItemNumeric
	ItemAlpha
	ItemIP
)

func (k ItemKind) String() string {
	switch k {
	case ItemMenu:
		return "menu"
	case ItemAction:
		return "action"
	case ItemCheckbox:
		return "checkbox"
	case ItemRing:
		return "ring"
	case ItemSlider:
		return "slider"
	case ItemNumeric:
		return "numeric"
	case ItemAlpha:
		return "alpha"
	case ItemIP:
		return "ip"
	default:
		return "unknown"
	}
}

// ParseItemKind maps a menu_add_item kind token to an ItemKind.
func ParseItemKind(s string) (ItemKind, bool) {
	switch s {
	case "menu":
		return ItemMenu, true
	case "action":
		return ItemAction, true
	case "checkbox":
		return ItemCheckbox, true
	case "ring":
		return ItemRing, true
	case "slider":
		return ItemSlider, true
	case "numeric":
		return ItemNumeric, true
	case "alpha":
		return ItemAlpha, true
	case "ip":
		return ItemIP, true
	default:
		return 0, false
	}
}

// CheckboxValue is the CHECKBOX item's tri-state value.
type CheckboxValue int

const (
	CheckboxOff CheckboxValue = iota
	CheckboxOn
	CheckboxGray
)

// Navigation sentinels for predecessor_id/successor_id (§4.8).
const (
	NavQuit  = "_quit_"
	NavClose = "_close_"
	NavNone  = "_none_"
)

// IPFamily distinguishes the IP item's v4/v6 field layout.
type IPFamily int

const (
	IPv4 IPFamily = iota
	IPv6
)

// ErrorCode is a menu editor's last validation failure, rendered on the
// error row rather than sent as a protocol message (§7: ValueOutOfRange).
type ErrorCode int

const (
	ErrNone ErrorCode = iota
	ErrOutOfRange
	ErrInvalidAddress
	ErrInvalidLength
)

// MenuItem is one node of the menu tree. A Menu is itself a MenuItem of
// kind ItemMenu holding an ordered list of Children. Each non-menu item
// may declare Predecessor/Successor wizard targets (an id, or one of the
// Nav* sentinels).
type MenuItem struct {
	Handle ItemHandle
	ID     string
	Kind   ItemKind
	Text   string

	Parent ItemHandle
	Owner  ClientHandle // owning client; NilClient for server-owned items

	Predecessor string
	Successor   string
	IsHidden    bool

	// ItemMenu
	Children []ItemHandle

	// ItemCheckbox
	CheckboxValue   CheckboxValue
	CheckboxAllowGray bool

	// ItemRing
	RingOptions []string
	RingIndex   int

	// ItemSlider
	SliderMin, SliderMax, SliderStep, SliderValue int

	// ItemNumeric
	NumericMin, NumericMax, NumericValue int
	EditStr   string // digit-by-digit work buffer
	EditPos   int    // cursor position within EditStr
	EditOffs  int    // horizontal scroll offset

	// ItemAlpha
	AlphaValue                                        string
	AlphaMinLength, AlphaMaxLength                    int
	AlphaAllowCaps, AlphaAllowNonCaps, AlphaAllowNums bool
	AlphaAllowedExtra                                 string
	AlphaPassword                                     bool

	// ItemIP
	IPFamily IPFamily
	IPValue  string // normalised dotted/colon form

	ErrorCode ErrorCode
}

// NewMenuItem returns a bare MenuItem of the given kind with navigation
// sentinels defaulted to "stay put" / "close one level".
func NewMenuItem(h ItemHandle, id string, kind ItemKind, owner ClientHandle) *MenuItem {
	return &MenuItem{
		Handle:      h,
		ID:          id,
		Kind:        kind,
		Owner:       owner,
		Parent:      NilItem,
		Predecessor: NavClose,
		Successor:   NavNone,
	}
}
