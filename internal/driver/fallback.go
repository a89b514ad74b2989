package driver

// Surface is the minimal set of required-or-commonly-present primitives
// fallback implementations draw on. The core passes whatever Driver value
// it has; fallback functions only ever call Chr, which every console-style
// driver is expected to provide (our built-in reference driver always
// does).
type Surface interface {
	Chr(x, y int, c byte)
}

// FallbackVBar fills a vertical bar of len cells, bottom-up, using '|' for
// filled cells, synthesised when the driver lacks a native VBar (§4.1):
// "iterate character cells, emit chr with '|' or '-' until filled to
// 2*i < promille*len/500 + 1".
func FallbackVBar(s Surface, x, y, length, promille int) {
	for i := 0; i < length; i++ {
		filled := 2*i < promille*length/500+1
		c := byte(' ')
		if filled {
			c = '|'
		}
		s.Chr(x, y-i, c)
	}
}

// FallbackHBar fills a horizontal bar of len cells, left-to-right, using
// '-' for filled cells, with the same fill formula as FallbackVBar.
func FallbackHBar(s Surface, x, y, length, promille int) {
	for i := 0; i < length; i++ {
		filled := 2*i < promille*length/500+1
		c := byte(' ')
		if filled {
			c = '-'
		}
		s.Chr(x+i, y, c)
	}
}

// FallbackPBar delegates to FallbackHBar with default "[" "]" labels when
// the caller supplies none (§4.1 "fallback pbar... delegates to hbar with
// default [ ] labels when no labels provided").
func FallbackPBar(s Surface, x, y, width, promille int, begin, end string) {
	if begin == "" {
		begin = "["
	}
	if end == "" {
		end = "]"
	}
	for i, c := range begin {
		s.Chr(x+i, y, byte(c))
	}
	innerX := x + len([]rune(begin))
	innerWidth := width - len([]rune(begin)) - len([]rune(end))
	if innerWidth < 0 {
		innerWidth = 0
	}
	FallbackHBar(s, innerX, y, innerWidth, promille)
	for i, c := range end {
		s.Chr(x+len([]rune(begin))+innerWidth+i, y, byte(c))
	}
}

// FallbackNum writes a 4-row x 3-column glyph from the fixed 11-glyph
// table at column x, rows y..y+3 (§4.1 "fallback num").
func FallbackNum(s Surface, x, y, digit int) {
	glyph := NumGlyph(digit)
	for row, line := range glyph {
		for col, c := range []byte(line) {
			s.Chr(x+col, y+row, c)
		}
	}
}

// FallbackHeartbeat returns which of two icon ids to show this frame,
// alternating on a free-running frame counter (§4.1 "fallback heartbeat").
func FallbackHeartbeat(frame uint64) IconID {
	if frame%16 < 8 {
		return IconHeartOpen
	}
	return IconHeartFilled
}

// FallbackCursor draws a block or underscore cursor glyph, blinking by
// the frame counter (§4.1 "fallback cursor"). It returns the byte to
// plot, or 0 if the cursor should be blanked this frame.
func FallbackCursor(kind int, frame uint64) byte {
	const (
		cursorNone = iota
		cursorBlock
		cursorUnderscore
	)
	visible := frame%32 < 16
	if !visible {
		return 0
	}
	switch kind {
	case cursorBlock:
		return 0xDB // block
	case cursorUnderscore:
		return '_'
	default:
		return 0
	}
}

// TryString calls d.String if supported, else falls back to plotting
// individual characters via Chr.
func TryString(d Driver, x, y int, text string) {
	if sp, ok := d.(StringPlotter); ok {
		sp.String(x, y, text)
		return
	}
	if s, ok := d.(Surface); ok {
		for i, c := range []byte(text) {
			s.Chr(x+i, y, c)
		}
	}
}

// TryVBar calls d.VBar if supported, else FallbackVBar.
func TryVBar(d Driver, x, y, length, promille int) {
	if vp, ok := d.(VBarPlotter); ok {
		vp.VBar(x, y, length, promille, 0)
		return
	}
	if s, ok := d.(Surface); ok {
		FallbackVBar(s, x, y, length, promille)
	}
}

// TryHBar calls d.HBar if supported, else FallbackHBar.
func TryHBar(d Driver, x, y, length, promille int) {
	if hp, ok := d.(HBarPlotter); ok {
		hp.HBar(x, y, length, promille, 0)
		return
	}
	if s, ok := d.(Surface); ok {
		FallbackHBar(s, x, y, length, promille)
	}
}

// TryPBar calls d.PBar if supported, else FallbackPBar.
func TryPBar(d Driver, x, y, width, promille int, begin, end string) {
	if pp, ok := d.(PBarPlotter); ok {
		pp.PBar(x, y, width, promille, begin, end)
		return
	}
	if s, ok := d.(Surface); ok {
		FallbackPBar(s, x, y, width, promille, begin, end)
	}
}

// TryNum calls d.Num if supported, else FallbackNum.
func TryNum(d Driver, x, y, digit int) {
	if np, ok := d.(NumPlotter); ok {
		np.Num(x, digit)
		return
	}
	if s, ok := d.(Surface); ok {
		FallbackNum(s, x, y, digit)
	}
}

// TryIcon calls d.Icon if supported and the driver recognises id, else
// plots the ASCII fallback glyph via Chr.
func TryIcon(d Driver, x, y int, id IconID) {
	if ip, ok := d.(IconPlotter); ok {
		if ip.Icon(x, y, int(id)) {
			return
		}
	}
	if s, ok := d.(Surface); ok {
		for i, c := range []byte(FallbackIconGlyph(id)) {
			s.Chr(x+i, y, c)
		}
	}
}

// TryHeartbeat calls d.Heartbeat if supported, else plots the fallback
// alternating icon at (x,y).
func TryHeartbeat(d Driver, x, y int, state int, frame uint64) {
	if hs, ok := d.(HeartbeatSetter); ok {
		hs.Heartbeat(state)
		return
	}
	TryIcon(d, x, y, FallbackHeartbeat(frame))
}

// TryCursor calls d.Cursor if supported, else plots the fallback cursor
// glyph (or blanks it, on the off phase of the blink).
func TryCursor(d Driver, x, y, kind int, frame uint64) {
	if cs, ok := d.(CursorSetter); ok {
		cs.Cursor(x, y, kind)
		return
	}
	if s, ok := d.(Surface); ok {
		if c := FallbackCursor(kind, frame); c != 0 {
			s.Chr(x, y, c)
		}
	}
}
