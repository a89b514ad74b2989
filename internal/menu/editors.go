package menu

import (
	"strconv"
	"strings"

	"displayd/internal/model"
)

// Key names the input router recognises for menu navigation (§4.8).
const (
	KeyUp     = "Up"
	KeyDown   = "Down"
	KeyLeft   = "Left"
	KeyRight  = "Right"
	KeyEnter  = "Enter"
	KeyMenu   = "Menu"
	KeyEscape = "Escape"
)

// HandleKey processes one key press against the currently active item
// (or the menu root if none is active), returning any menuevent to
// deliver and an error only for programmer-error conditions (unknown
// active handle).
func HandleKey(g *model.Graph, key string) (*Event, error) {
	if g.ActiveItem == model.NilItem {
		if g.MenuRoot == model.NilItem {
			return nil, nil
		}
		g.ActiveItem = g.MenuRoot
	}
	item := g.Items.Get(g.ActiveItem)
	if item == nil {
		g.ActiveItem = model.NilItem
		return nil, nil
	}
	switch item.Kind {
	case model.ItemMenu:
		return handleMenuKey(g, item, key)
	case model.ItemAction:
		return handleActionKey(g, item, key)
	case model.ItemCheckbox:
		return handleCheckboxKey(g, item, key)
	case model.ItemRing:
		return handleRingKey(g, item, key)
	case model.ItemSlider:
		return handleSliderKey(g, item, key)
	case model.ItemNumeric:
		return handleNumericKey(g, item, key)
	case model.ItemAlpha:
		return handleAlphaKey(g, item, key)
	case model.ItemIP:
		return handleIPKey(g, item, key)
	}
	return nil, nil
}

func visibleChildren(g *model.Graph, item *model.MenuItem) []*model.MenuItem {
	var out []*model.MenuItem
	for _, h := range item.Children {
		if c := g.Items.Get(h); c != nil && !c.IsHidden {
			out = append(out, c)
		}
	}
	return out
}

func handleMenuKey(g *model.Graph, item *model.MenuItem, key string) (*Event, error) {
	kids := visibleChildren(g, item)
	switch key {
	case KeyUp, KeyDown:
		if len(kids) == 0 {
			return nil, nil
		}
		idx := selectorIndex(g, item, kids)
		if key == KeyUp {
			idx = (idx - 1 + len(kids)) % len(kids)
		} else {
			idx = (idx + 1) % len(kids)
		}
		g.ActiveItem = kids[idx].Handle
		undoSelect(g, item, kids[idx])
		return nil, nil
	case KeyEnter:
		if len(kids) == 0 {
			return nil, nil
		}
		idx := selectorIndex(g, item, kids)
		g.ActiveItem = kids[idx].Handle
		return nil, nil
	case KeyMenu, KeyEscape:
		return navigate(g, item, item.Predecessor)
	}
	return nil, nil
}

// selectorIndex/undoSelect approximate a selector cursor without adding
// a dedicated field to MenuItem: the cursor is just "whichever child is
// active"; entering a MENU for the first time selects its first child.
func selectorIndex(g *model.Graph, parent *model.MenuItem, kids []*model.MenuItem) int {
	for i, k := range kids {
		if k.Handle == g.ActiveItem {
			return i
		}
	}
	return 0
}

func undoSelect(g *model.Graph, parent, selected *model.MenuItem) {}

func handleActionKey(g *model.Graph, item *model.MenuItem, key string) (*Event, error) {
	if key != KeyEnter {
		return nil, nil
	}
	ev := &Event{Client: item.Owner, Kind: "select", ItemID: item.ID}
	return navigateEvent(g, item, item.Successor, ev)
}

func handleCheckboxKey(g *model.Graph, item *model.MenuItem, key string) (*Event, error) {
	switch key {
	case KeyEnter, KeyRight:
		item.CheckboxValue = cycleCheckbox(item, 1)
	case KeyLeft:
		item.CheckboxValue = cycleCheckbox(item, -1)
	default:
		return nil, nil
	}
	return &Event{Client: item.Owner, Kind: "update", ItemID: item.ID, Payload: checkboxPayload(item.CheckboxValue)}, nil
}

func cycleCheckbox(item *model.MenuItem, dir int) model.CheckboxValue {
	n := 2
	if item.CheckboxAllowGray {
		n = 3
	}
	v := int(item.CheckboxValue) + dir
	return model.CheckboxValue((v%n + n) % n)
}

func checkboxPayload(v model.CheckboxValue) string {
	switch v {
	case model.CheckboxOn:
		return "on"
	case model.CheckboxGray:
		return "gray"
	default:
		return "off"
	}
}

func handleRingKey(g *model.Graph, item *model.MenuItem, key string) (*Event, error) {
	n := len(item.RingOptions)
	if n == 0 {
		return nil, nil
	}
	switch key {
	case KeyEnter, KeyRight:
		item.RingIndex = (item.RingIndex + 1) % n
	case KeyLeft:
		item.RingIndex = (item.RingIndex - 1 + n) % n
	default:
		return nil, nil
	}
	return &Event{Client: item.Owner, Kind: "update", ItemID: item.ID, Payload: strconv.Itoa(item.RingIndex)}, nil
}

func handleSliderKey(g *model.Graph, item *model.MenuItem, key string) (*Event, error) {
	switch key {
	case KeyUp, KeyRight:
		v := item.SliderValue + item.SliderStep
		if v > item.SliderMax {
			v = item.SliderMax
		}
		item.SliderValue = v
		return &Event{Client: item.Owner, Kind: "plus", ItemID: item.ID, Payload: strconv.Itoa(v)}, nil
	case KeyDown, KeyLeft:
		v := item.SliderValue - item.SliderStep
		if v < item.SliderMin {
			v = item.SliderMin
		}
		item.SliderValue = v
		return &Event{Client: item.Owner, Kind: "minus", ItemID: item.ID, Payload: strconv.Itoa(v)}, nil
	case KeyEnter:
		return navigate(g, item, item.Successor)
	}
	return nil, nil
}

func digitSet() string { return "0123456789" }

func handleNumericKey(g *model.Graph, item *model.MenuItem, key string) (*Event, error) {
	if item.EditStr == "" {
		item.EditStr = strconv.Itoa(item.NumericValue)
		item.EditPos = len(item.EditStr) - 1
	}
	switch key {
	case KeyRight:
		if item.EditPos < len(item.EditStr)-1 {
			item.EditPos++
		} else {
			item.EditStr += "0"
			item.EditPos++
		}
		return nil, nil
	case KeyLeft:
		if item.EditPos > 0 {
			item.EditPos--
		}
		return nil, nil
	case KeyUp, KeyDown:
		cycleDigitAt(item, key == KeyUp)
		return nil, nil
	case KeyEnter:
		v, err := strconv.Atoi(item.EditStr)
		if err != nil || v < item.NumericMin || v > item.NumericMax {
			item.ErrorCode = model.ErrOutOfRange
			return nil, nil
		}
		item.NumericValue = v
		item.ErrorCode = model.ErrNone
		item.EditStr = ""
		ev := &Event{Client: item.Owner, Kind: "update", ItemID: item.ID, Payload: strconv.Itoa(v)}
		return navigateEvent(g, item, item.Successor, ev)
	}
	return nil, nil
}

func cycleDigitAt(item *model.MenuItem, up bool) {
	if item.EditPos == 0 && item.NumericMin < 0 {
		if strings.HasPrefix(item.EditStr, "-") {
			item.EditStr = item.EditStr[1:]
		} else {
			item.EditStr = "-" + item.EditStr
		}
		return
	}
	runes := []rune(item.EditStr)
	if item.EditPos >= len(runes) {
		return
	}
	digits := digitSet()
	idx := strings.IndexRune(digits, runes[item.EditPos])
	if idx < 0 {
		idx = 0
	}
	if up {
		idx = (idx + 1) % len(digits)
	} else {
		idx = (idx - 1 + len(digits)) % len(digits)
	}
	runes[item.EditPos] = rune(digits[idx])
	item.EditStr = string(runes)
}

func alphaCharset(item *model.MenuItem) string {
	var b strings.Builder
	if item.AlphaAllowCaps {
		b.WriteString("ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	}
	if item.AlphaAllowNonCaps {
		b.WriteString("abcdefghijklmnopqrstuvwxyz")
	}
	if item.AlphaAllowNums {
		b.WriteString("0123456789")
	}
	b.WriteString(item.AlphaAllowedExtra)
	if b.Len() == 0 {
		b.WriteString(" ")
	}
	return b.String()
}

func handleAlphaKey(g *model.Graph, item *model.MenuItem, key string) (*Event, error) {
	charset := alphaCharset(item)
	switch key {
	case KeyRight:
		if item.EditPos < len(item.AlphaValue) && item.EditPos < item.AlphaMaxLength-1 {
			item.EditPos++
		} else if len(item.AlphaValue) < item.AlphaMaxLength {
			item.AlphaValue += string(charset[0])
			item.EditPos = len(item.AlphaValue) - 1
		}
		return nil, nil
	case KeyLeft:
		if item.EditPos > 0 {
			item.EditPos--
		}
		return nil, nil
	case KeyUp, KeyDown:
		cycleAlphaCharAt(item, charset, key == KeyUp)
		return nil, nil
	case KeyEnter:
		if len(item.AlphaValue) < item.AlphaMinLength || len(item.AlphaValue) > item.AlphaMaxLength {
			item.ErrorCode = model.ErrOutOfRange
			return nil, nil
		}
		item.ErrorCode = model.ErrNone
		payload := item.AlphaValue
		if item.AlphaPassword {
			payload = strings.Repeat("*", len(payload))
		}
		ev := &Event{Client: item.Owner, Kind: "update", ItemID: item.ID, Payload: payload}
		return navigateEvent(g, item, item.Successor, ev)
	}
	return nil, nil
}

func cycleAlphaCharAt(item *model.MenuItem, charset string, up bool) {
	runes := []rune(item.AlphaValue)
	if item.EditPos >= len(runes) {
		return
	}
	idx := strings.IndexRune(charset, runes[item.EditPos])
	if idx < 0 {
		idx = 0
	}
	if up {
		idx = (idx + 1) % len(charset)
	} else {
		idx = (idx - 1 + len(charset)) % len(charset)
	}
	runes[item.EditPos] = rune(charset[idx])
	item.AlphaValue = string(runes)
}

func navigate(g *model.Graph, item *model.MenuItem, target string) (*Event, error) {
	return navigateEvent(g, item, target, nil)
}

func navigateEvent(g *model.Graph, item *model.MenuItem, target string, ev *Event) (*Event, error) {
	if err := Goto(g, normalizeTarget(item, target)); err != nil {
		return ev, err
	}
	return ev, nil
}

func normalizeTarget(item *model.MenuItem, target string) string {
	if target == "" {
		return model.NavNone
	}
	return target
}

func ipSeparator(family model.IPFamily) string {
	if family == model.IPv6 {
		return ":"
	}
	return "."
}

func ipFieldCount(family model.IPFamily) int {
	if family == model.IPv6 {
		return 8
	}
	return 4
}

func ipFieldMax(family model.IPFamily) int {
	if family == model.IPv6 {
		return 0xFFFF
	}
	return 255
}

// parseIPFields parses s as family's dotted/colon field layout, base 16
// for v6 and base 10 for v4. It rejects the wrong field count or any
// field outside [0, ipFieldMax].
func parseIPFields(s string, family model.IPFamily) ([]int, bool) {
	parts := strings.Split(s, ipSeparator(family))
	if len(parts) != ipFieldCount(family) {
		return nil, false
	}
	base := 10
	if family == model.IPv6 {
		base = 16
	}
	max := ipFieldMax(family)
	fields := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseInt(p, base, 32)
		if err != nil || n < 0 || int(n) > max {
			return nil, false
		}
		fields[i] = int(n)
	}
	return fields, true
}

func formatIPFields(fields []int, family model.IPFamily) string {
	parts := make([]string, len(fields))
	for i, n := range fields {
		if family == model.IPv6 {
			parts[i] = strconv.FormatInt(int64(n), 16)
		} else {
			parts[i] = strconv.Itoa(n)
		}
	}
	return strings.Join(parts, ipSeparator(family))
}

func ipDefaultFields(family model.IPFamily) []int {
	return make([]int, ipFieldCount(family))
}

// NormalizeIP parses and re-formats an address string in family's layout
// (stripping e.g. leading zeroes), reporting ok=false if it isn't a
// well-formed address for that family (§4.8: menu_set_item -value on an
// IP item rejects an out-of-range address, leaving the prior value in
// place with error_code INVALID_ADDRESS).
func NormalizeIP(s string, family model.IPFamily) (string, bool) {
	fields, ok := parseIPFields(s, family)
	if !ok {
		return "", false
	}
	return formatIPFields(fields, family), true
}

// handleIPKey implements the field-by-field address editor: LEFT/RIGHT
// move the cursor between fields, UP/DOWN increment or decrement the
// field under the cursor (wrapping at its width), ENTER commits. The
// work-in-progress value always parses, since every field is built by
// wrapping arithmetic over a parsed start value; an IPValue that does not
// parse (such as the empty initial value) is replaced by a dummy zero
// address on first entry into the editor.
func handleIPKey(g *model.Graph, item *model.MenuItem, key string) (*Event, error) {
	if item.EditStr == "" {
		fields, ok := parseIPFields(item.IPValue, item.IPFamily)
		if !ok {
			fields = ipDefaultFields(item.IPFamily)
		}
		item.EditStr = formatIPFields(fields, item.IPFamily)
		item.EditPos = 0
	}
	fields, ok := parseIPFields(item.EditStr, item.IPFamily)
	if !ok {
		fields = ipDefaultFields(item.IPFamily)
	}
	switch key {
	case KeyRight:
		if item.EditPos < ipFieldCount(item.IPFamily)-1 {
			item.EditPos++
		}
		return nil, nil
	case KeyLeft:
		if item.EditPos > 0 {
			item.EditPos--
		}
		return nil, nil
	case KeyUp, KeyDown:
		max := ipFieldMax(item.IPFamily)
		delta := 1
		if key == KeyDown {
			delta = -1
		}
		fields[item.EditPos] = (fields[item.EditPos] + delta + max + 1) % (max + 1)
		item.EditStr = formatIPFields(fields, item.IPFamily)
		return nil, nil
	case KeyEnter:
		joined := formatIPFields(fields, item.IPFamily)
		item.IPValue = joined
		item.ErrorCode = model.ErrNone
		item.EditStr = ""
		ev := &Event{Client: item.Owner, Kind: "update", ItemID: item.ID, Payload: joined}
		return navigateEvent(g, item, item.Successor, ev)
	}
	return nil, nil
}

