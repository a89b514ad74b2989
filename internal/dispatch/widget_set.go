package dispatch

import (
	"strconv"

	"displayd/internal/model"
	"displayd/internal/protocol"
)

// hWidgetSet applies the type-specific `widget_set` argument grammar
// (§4.4, §4.5). Each widget kind accepts a fixed positional shape after
// (sid, wid); unlike screen_set/client_set there are no -flag options.
func hWidgetSet(ctx *Context, ch model.ClientHandle, args []string) (string, error) {
	if _, err := requireActive(ctx, ch); err != nil {
		return "", err
	}
	if len(args) < 2 {
		return "", protoErr("widget_set requires a screen id and widget id")
	}
	s := ctx.Graph.FindClientScreen(ch, args[0])
	if s == nil {
		return "", notFound("unknown screen %q", args[0])
	}
	w := ctx.Graph.FindWidget(s.Handle, args[1])
	if w == nil {
		return "", notFound("unknown widget %q", args[1])
	}
	rest := args[2:]

	atoi := func(s string) (int, error) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, protoErr("bad coordinate %q", s)
		}
		return n, nil
	}

	switch w.Kind {
	case model.WidgetString:
		if len(rest) < 3 {
			return "", protoErr("string widget requires x y text")
		}
		x, err := atoi(rest[0])
		if err != nil {
			return "", err
		}
		y, err := atoi(rest[1])
		if err != nil {
			return "", err
		}
		w.X, w.Y, w.Text = x, y, rest[2]

	case model.WidgetTitle:
		if len(rest) < 1 {
			return "", protoErr("title widget requires text")
		}
		w.Text = rest[0]

	case model.WidgetIcon:
		if len(rest) < 3 {
			return "", protoErr("icon widget requires x y icon-id")
		}
		x, err := atoi(rest[0])
		if err != nil {
			return "", err
		}
		y, err := atoi(rest[1])
		if err != nil {
			return "", err
		}
		id, err := atoi(rest[2])
		if err != nil {
			return "", err
		}
		w.X, w.Y, w.IconID = x, y, id

	case model.WidgetHBar, model.WidgetVBar:
		if len(rest) < 3 {
			return "", protoErr("bar widget requires x y promille")
		}
		x, err := atoi(rest[0])
		if err != nil {
			return "", err
		}
		y, err := atoi(rest[1])
		if err != nil {
			return "", err
		}
		promille, err := atoi(rest[2])
		if err != nil {
			return "", err
		}
		w.X, w.Y, w.Promille = x, y, promille
		if len(rest) >= 4 {
			length, err := atoi(rest[3])
			if err != nil {
				return "", err
			}
			w.Length = length
		}

	case model.WidgetPBar:
		if len(rest) < 4 {
			return "", protoErr("pbar widget requires x y width promille")
		}
		x, err := atoi(rest[0])
		if err != nil {
			return "", err
		}
		y, err := atoi(rest[1])
		if err != nil {
			return "", err
		}
		width, err := atoi(rest[2])
		if err != nil {
			return "", err
		}
		promille, err := atoi(rest[3])
		if err != nil {
			return "", err
		}
		w.X, w.Y, w.Width, w.Promille = x, y, width, promille
		if len(rest) >= 5 {
			w.BeginLabel = rest[4]
		}
		if len(rest) >= 6 {
			w.EndLabel = rest[5]
		}

	case model.WidgetNum:
		if len(rest) < 2 {
			return "", protoErr("num widget requires x digit")
		}
		x, err := atoi(rest[0])
		if err != nil {
			return "", err
		}
		digit, err := atoi(rest[1])
		if err != nil {
			return "", err
		}
		w.X, w.IconID = x, digit

	case model.WidgetScroller:
		if len(rest) < 5 {
			return "", protoErr("scroller widget requires left top right bottom direction speed text")
		}
		left, err := atoi(rest[0])
		if err != nil {
			return "", err
		}
		top, err := atoi(rest[1])
		if err != nil {
			return "", err
		}
		right, err := atoi(rest[2])
		if err != nil {
			return "", err
		}
		bottom, err := atoi(rest[3])
		if err != nil {
			return "", err
		}
		w.Left, w.Top, w.Right, w.Bottom = left, top, right, bottom
		idx := 4
		switch rest[idx] {
		case "m":
			w.ScrollerMode = model.ScrollMarquee
		case "h":
			w.ScrollerMode = model.ScrollHoriz
		case "v":
			w.ScrollerMode = model.ScrollVert
		default:
			return "", protoErr("bad scroller direction %q", rest[idx])
		}
		idx++
		if idx < len(rest) {
			speed, err := atoi(rest[idx])
			if err != nil {
				return "", err
			}
			w.Speed = speed
			idx++
		}
		if idx < len(rest) {
			w.Text = rest[idx]
		}

	case model.WidgetFrame:
		if len(rest) < 4 {
			return "", protoErr("frame widget requires left top right bottom")
		}
		left, err := atoi(rest[0])
		if err != nil {
			return "", err
		}
		top, err := atoi(rest[1])
		if err != nil {
			return "", err
		}
		right, err := atoi(rest[2])
		if err != nil {
			return "", err
		}
		bottom, err := atoi(rest[3])
		if err != nil {
			return "", err
		}
		w.Left, w.Top, w.Right, w.Bottom = left, top, right, bottom
		if len(rest) >= 6 {
			switch rest[4] {
			case "h":
				w.FrameScroll = model.FrameScrollHorizontal
			case "v":
				w.FrameScroll = model.FrameScrollVertical
			default:
				return "", protoErr("bad frame scroll direction %q", rest[4])
			}
			speed, err := atoi(rest[5])
			if err != nil {
				return "", err
			}
			w.FrameScrollSpeed = speed
		}
	}
	return protocol.Ack(), nil
}
