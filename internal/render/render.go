// Package render walks a selected screen's widget tree once per render
// tick and emits driver primitives (through internal/driver's Try*
// fallback dispatchers), clipping to frame bounds and animating
// scrollers/titles/frames from the graph's free-running frame counter
// (§4.5, design note "timer-based effects").
package render

import (
	"displayd/internal/driver"
	"displayd/internal/model"
)

// Renderer holds no state across ticks beyond its output driver; all
// animation phase is a pure
// function of model.Graph.FrameCounter, per design note §9.
type Renderer struct {
	Driver driver.Driver
}

// rect is an inclusive clipping rectangle in screen-local 1-based
// coordinates.
type rect struct{ left, top, right, bottom int }

func fullRect(g *model.Graph, s *model.Screen) rect {
	w, h := s.Width, s.Height
	if w == 0 {
		w = g.Display.Width
	}
	if h == 0 {
		h = g.Display.Height
	}
	return rect{left: 1, top: 1, right: w, bottom: h}
}

func (r rect) clip(left, top, right, bottom int) rect {
	out := r
	if left > 0 && left > out.left {
		out.left = left
	}
	if top > 0 && top > out.top {
		out.top = top
	}
	if right > 0 && right < out.right {
		out.right = right
	}
	if bottom > 0 && bottom < out.bottom {
		out.bottom = bottom
	}
	return out
}

func (r rect) contains(x, y int) bool {
	return x >= r.left && x <= r.right && y >= r.top && y <= r.bottom
}

// Frame renders one selected screen: backlight/heartbeat cascade, the
// widget walk, cursor, and the scheduler's toast message if any.
func (r *Renderer) Frame(g *model.Graph, s *model.Screen, globalBacklight, globalHeartbeat int, toast string) {
	if r.Driver == nil || s == nil {
		return
	}
	if c, ok := r.Driver.(driver.Clearer); ok {
		c.Clear()
	}

	r.renderBacklight(g, s, globalBacklight)
	r.renderHeartbeat(g, s, globalHeartbeat)
	r.walkScreen(g, s, fullRect(g, s), 0, 0)

	if s.Cursor != model.CursorNone {
		kind := 0
		if s.Cursor == model.CursorBlock {
			kind = 1
		} else if s.Cursor == model.CursorUnderscore {
			kind = 2
		}
		driver.TryCursor(r.Driver, s.CursorX, s.CursorY, kind, g.FrameCounter)
	}

	if toast != "" {
		bounds := fullRect(g, s)
		x := bounds.right - len(toast) + 1
		if x < bounds.left {
			x = bounds.left
		}
		driver.TryString(r.Driver, x, bounds.bottom, toast)
	}

	if f, ok := r.Driver.(driver.Flusher); ok {
		f.Flush()
	}
}

// renderBacklight applies the cascade server -> client -> screen ->
// fallback (§4.5); screen-level override wins if set, else the client's
// preference, else the server global, with BLINK/FLASH modifiers
// resolved against frame-counter subharmonics (bit-7, bit-14).
func (r *Renderer) renderBacklight(g *model.Graph, s *model.Screen, serverDefault int) {
	bs, ok := r.Driver.(driver.Backlighter)
	if !ok {
		return
	}
	mode := s.Backlight
	if mode == model.BacklightUnset {
		if c := g.Clients.Get(s.Owner); c != nil {
			mode = c.Backlight
		}
	}
	on := serverDefault != 0
	switch mode {
	case model.BacklightOff:
		on = false
	case model.BacklightOn:
		on = true
	case model.BacklightBlink:
		on = g.FrameCounter&(1<<7) != 0
	case model.BacklightFlash:
		on = g.FrameCounter&(1<<14) != 0
	}
	state := 0
	if on {
		state = 1
	}
	bs.Backlight(state)
}

func (r *Renderer) renderHeartbeat(g *model.Graph, s *model.Screen, serverDefault int) {
	mode := s.Heartbeat
	if mode == model.HeartbeatUnset {
		if c := g.Clients.Get(s.Owner); c != nil {
			mode = c.Heartbeat
		}
	}
	state := serverDefault
	if mode == model.HeartbeatOff {
		state = 0
	} else if mode == model.HeartbeatOn {
		state = 1
	}
	if state == 0 {
		return
	}
	bounds := fullRect(g, s)
	driver.TryHeartbeat(r.Driver, bounds.right, bounds.top, state, g.FrameCounter)
}

func (r *Renderer) walkScreen(g *model.Graph, s *model.Screen, bounds rect, offX, offY int) {
	for _, wh := range s.Widgets {
		w := g.Widgets.Get(wh)
		if w == nil {
			continue
		}
		clipped := bounds.clip(w.Left, w.Top, w.Right, w.Bottom)
		r.renderWidget(g, w, clipped, offX, offY)
	}
}

func (r *Renderer) renderWidget(g *model.Graph, w *model.Widget, bounds rect, offX, offY int) {
	x, y := w.X+offX, w.Y+offY
	switch w.Kind {
	case model.WidgetString:
		r.renderString(bounds, x, y, w.Text)

	case model.WidgetTitle:
		r.renderTitle(g, bounds, w)

	case model.WidgetIcon:
		if bounds.contains(x, y) {
			driver.TryIcon(r.Driver, x, y, driver.IconID(w.IconID))
		}

	case model.WidgetHBar:
		if bounds.contains(x, y) {
			driver.TryHBar(r.Driver, x, y, w.Length, w.Promille)
		}

	case model.WidgetVBar:
		if bounds.contains(x, y) {
			driver.TryVBar(r.Driver, x, y, w.Length, w.Promille)
		}

	case model.WidgetPBar:
		if bounds.contains(x, y) {
			driver.TryPBar(r.Driver, x, y, w.Width, w.Promille, w.BeginLabel, w.EndLabel)
		}

	case model.WidgetNum:
		if bounds.contains(x, y) {
			driver.TryNum(r.Driver, x, w.Y+offY, w.IconID)
		}

	case model.WidgetScroller:
		r.renderScroller(g, bounds, w, x, y)

	case model.WidgetFrame:
		r.renderFrame(g, bounds, w, offX, offY)
	}
}

func (r *Renderer) renderString(bounds rect, x, y int, text string) {
	if y < bounds.top || y > bounds.bottom {
		return
	}
	maxLen := bounds.right - x + 1
	if maxLen <= 0 {
		return
	}
	if len(text) > maxLen {
		text = text[:maxLen]
	}
	driver.TryString(r.Driver, x, y, text)
}

// renderTitle fills the margins with the filled-block icon and scrolls
// the text back and forth when it overflows (§4.5). The scroll moves one
// column per render tick; the configured title speed is not consulted.
func (r *Renderer) renderTitle(g *model.Graph, bounds rect, w *model.Widget) {
	width := bounds.right - bounds.left + 1
	if width <= 0 {
		return
	}
	driver.TryIcon(r.Driver, bounds.left, bounds.top, driver.IconBlockFilled)
	driver.TryIcon(r.Driver, bounds.right, bounds.top, driver.IconBlockFilled)
	inner := width - 2
	if inner <= 0 {
		return
	}
	text := w.Text
	if len(text) <= inner {
		r.renderString(bounds, bounds.left+1, bounds.top, text)
		return
	}
	period := uint64(2 * (len(text) - inner))
	if period == 0 {
		period = 1
	}
	phase := int(g.FrameCounter % period)
	if phase >= len(text)-inner {
		phase = 2*(len(text)-inner) - phase
	}
	r.renderString(bounds, bounds.left+1, bounds.top, text[phase:phase+inner])
}

// renderScroller implements the three submodes of §4.5: marquee
// (continuous with a half-width gap), horizontal ping-pong across the
// widget's row, and vertical paged-then-scrolling across its box
// height — a distinct wrap-into-lines-and-page motion, not a vertical
// reskin of the horizontal ping-pong.
func (r *Renderer) renderScroller(g *model.Graph, bounds rect, w *model.Widget, x, y int) {
	width := w.Right - w.Left + 1
	if width <= 0 {
		width = bounds.right - x + 1
	}
	if width <= 0 {
		return
	}

	if w.ScrollerMode == model.ScrollVert {
		r.renderScrollerVertical(g, bounds, w, x, y, width)
		return
	}

	text := w.Text
	if len(text) <= width {
		r.renderString(bounds, x, y, text)
		return
	}

	speed := w.Speed
	if speed == 0 {
		r.renderString(bounds, x, y, text[:width])
		return
	}

	var step int
	if speed > 0 {
		step = int(g.FrameCounter / uint64(speed))
	} else {
		step = int(g.FrameCounter) * (-speed)
	}

	switch w.ScrollerMode {
	case model.ScrollMarquee:
		gap := width / 2
		if gap < 1 {
			gap = 1
		}
		period := len(text) + gap
		offset := step % period
		windowed := (text + repeat(" ", gap) + text)[offset:]
		if len(windowed) > width {
			windowed = windowed[:width]
		}
		r.renderString(bounds, x, y, windowed)

	default: // model.ScrollHoriz: ping-pong across the text
		span := len(text) - width
		pos := step % (2 * span)
		if pos > span {
			pos = 2*span - pos
		}
		r.renderString(bounds, x, y, text[pos:pos+width])
	}
}

// renderScrollerVertical wraps the widget's text into width-wide lines
// and pages through them top-to-bottom across the box's height, one
// line per speed ticks (the 'v' submode of §4.5), rather than sliding a
// single row horizontally like 'h' does. A page that already fits the
// box is rendered statically.
func (r *Renderer) renderScrollerVertical(g *model.Graph, bounds rect, w *model.Widget, x, y, width int) {
	height := w.Bottom - w.Top + 1
	if height <= 0 {
		height = 1
	}
	lines := wrapLines(w.Text, width)
	if len(lines) <= height {
		for i, line := range lines {
			r.renderString(bounds, x, y+i, line)
		}
		return
	}

	speed := w.Speed
	var step int
	if speed > 0 {
		step = int(g.FrameCounter / uint64(speed))
	} else if speed < 0 {
		step = int(g.FrameCounter) * (-speed)
	}

	period := len(lines)
	start := step % period
	for row := 0; row < height; row++ {
		r.renderString(bounds, x, y+row, lines[(start+row)%period])
	}
}

// wrapLines splits text into fixed-width chunks, matching the renderer's
// other byte-oriented (not word-aware) truncation.
func wrapLines(text string, width int) []string {
	if width <= 0 || text == "" {
		return []string{text}
	}
	var lines []string
	for len(text) > width {
		lines = append(lines, text[:width])
		text = text[width:]
	}
	lines = append(lines, text)
	return lines
}

func repeat(s string, n int) string {
	out := make([]byte, 0, len(s)*n)
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}

// renderFrame clips to the frame's box and renders its sub-screen's
// widgets with a vertical scroll offset when content overflows and
// fscroll='v' (§4.5). A frame with fscroll='h' is rendered with no
// scroll offset.
func (r *Renderer) renderFrame(g *model.Graph, bounds rect, w *model.Widget, offX, offY int) {
	inner := bounds.clip(w.Left, w.Top, w.Right, w.Bottom)
	sub := g.Screens.Get(w.FrameSubScreen)
	if sub == nil {
		return
	}

	subOffY := 0
	if w.FrameScroll == model.FrameScrollVertical {
		boxHeight := inner.bottom - inner.top + 1
		overflow := contentHeight(g, sub) - boxHeight
		if overflow > 0 {
			speed := w.FrameScrollSpeed
			if speed <= 0 {
				speed = 1
			}
			subOffY = -(int(g.FrameCounter/uint64(speed)) % (overflow + 1))
		}
	}
	// FrameScrollHorizontal: no offset is applied.

	r.walkScreen(g, sub, inner, offX+w.Left-1, offY+w.Top-1+subOffY)
}

func contentHeight(g *model.Graph, s *model.Screen) int {
	max := 0
	for _, wh := range s.Widgets {
		if w := g.Widgets.Get(wh); w != nil && w.Y > max {
			max = w.Y
		}
	}
	return max
}
