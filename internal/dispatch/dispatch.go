package dispatch

import (
	"fmt"
	"strconv"

	"displayd/internal/driver"
	"displayd/internal/model"
	"displayd/internal/protocol"
)

// Handler processes one already-tokenized command line for client ch.
// It returns the exact response text to write back (including the
// trailing newline), or an error, which the caller renders as
// `huh? <message>\n` (§4.3, §7).
type Handler func(ctx *Context, ch model.ClientHandle, args []string) (string, error)

// table is the static keyword lookup (§4.3: "linear scan is sufficient,
// ≤~25 entries"); a map here since Go's map is no slower and the point
// ("don't build a trie for 25 keywords") is the same.
var table = map[string]Handler{
	"hello":          hHello,
	"bye":            hBye,
	"client_set":     hClientSet,
	"client_add_key": hClientAddKey,
	"client_del_key": hClientDelKey,
	"screen_add":     hScreenAdd,
	"screen_del":     hScreenDel,
	"screen_set":     hScreenSet,
	"key_add":        hKeyAdd,
	"key_del":        hKeyDel,
	"widget_add":     hWidgetAdd,
	"widget_del":     hWidgetDel,
	"widget_set":     hWidgetSet,
	"menu_add_item":  hMenuAddItem,
	"menu_del_item":  hMenuDelItem,
	"menu_set_item":  hMenuSetItem,
	"menu_goto":      hMenuGoto,
	"menu_set_main":  hMenuSetMain,
	"backlight":      hBacklight,
	"output":         hOutput,
	"info":           hInfo,
	"noop":           hNoop,
}

// Dispatch looks up argv[0] and invokes its handler, translating a miss
// or handler error into the `huh?` wire form. Unknown-client-state
// bookkeeping (ACTIVE preconditions) is each handler's own concern,
// matching the per-command precondition column of §4.4.
func Dispatch(ctx *Context, ch model.ClientHandle, argv []string) string {
	if len(argv) == 0 {
		return protocol.Huh("empty command")
	}
	h, ok := table[argv[0]]
	if !ok {
		return protocol.Huh("unknown command %q", argv[0])
	}
	resp, err := h(ctx, ch, argv[1:])
	if err != nil {
		return protocol.Huh("%s", err.Error())
	}
	return resp
}

func requireActive(ctx *Context, ch model.ClientHandle) (*model.Client, error) {
	c := ctx.Graph.Clients.Get(ch)
	if c == nil || c.State != model.ClientActive {
		return nil, protoErr("client is not active")
	}
	return c, nil
}

func hHello(ctx *Context, ch model.ClientHandle, args []string) (string, error) {
	c := ctx.Graph.Clients.Get(ch)
	if c == nil {
		return "", protoErr("unknown client")
	}
	c.State = model.ClientActive
	d := ctx.Graph.Display
	return fmt.Sprintf("connect LCDproc %s protocol %s lcd wid %d hgt %d cellwid %d cellhgt %d\n",
		ServerVersion, ProtocolVersion, d.Width, d.Height, d.CellWidth, d.CellHeight), nil
}

func hBye(ctx *Context, ch model.ClientHandle, args []string) (string, error) {
	if c := ctx.Graph.Clients.Get(ch); c != nil {
		c.State = model.ClientGone
	}
	return protocol.Ack(), nil
}

func hClientSet(ctx *Context, ch model.ClientHandle, args []string) (string, error) {
	c, err := requireActive(ctx, ch)
	if err != nil {
		return "", err
	}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-name":
			if i+1 >= len(args) {
				return "", protoErr("-name requires a value")
			}
			i++
			c.Name = args[i]
		default:
			return "", protoErr("unknown option %q", args[i])
		}
	}
	return protocol.Ack(), nil
}

func hClientAddKey(ctx *Context, ch model.ClientHandle, args []string) (string, error) {
	if _, err := requireActive(ctx, ch); err != nil {
		return "", err
	}
	exclusive := false
	keys := args
	if len(args) > 0 && (args[0] == "-exclusively" || args[0] == "-shared") {
		exclusive = args[0] == "-exclusively"
		keys = args[1:]
	}
	if len(keys) == 0 {
		return "", protoErr("client_add_key requires at least one key")
	}
	for _, k := range keys {
		if err := ctx.Graph.ReserveKey(ch, k, exclusive); err != nil {
			return "", conflict("Could not reserve key %q", k)
		}
	}
	return protocol.Ack(), nil
}

func hClientDelKey(ctx *Context, ch model.ClientHandle, args []string) (string, error) {
	if _, err := requireActive(ctx, ch); err != nil {
		return "", err
	}
	for _, k := range args {
		ctx.Graph.ReleaseKey(ch, k)
	}
	return protocol.Ack(), nil
}

func hScreenAdd(ctx *Context, ch model.ClientHandle, args []string) (string, error) {
	if _, err := requireActive(ctx, ch); err != nil {
		return "", err
	}
	if len(args) < 1 {
		return "", protoErr("screen_add requires a screen id")
	}
	if _, err := ctx.Graph.AddScreen(ch, args[0]); err != nil {
		return "", conflict("%s", err.Error())
	}
	return protocol.Ack(), nil
}

func hScreenDel(ctx *Context, ch model.ClientHandle, args []string) (string, error) {
	if _, err := requireActive(ctx, ch); err != nil {
		return "", err
	}
	if len(args) < 1 {
		return "", protoErr("screen_del requires a screen id")
	}
	s := ctx.Graph.FindClientScreen(ch, args[0])
	if s == nil {
		return "", notFound("unknown screen %q", args[0])
	}
	ctx.Graph.RemoveScreen(s.Handle)
	return protocol.Ack(), nil
}

func hScreenSet(ctx *Context, ch model.ClientHandle, args []string) (string, error) {
	if _, err := requireActive(ctx, ch); err != nil {
		return "", err
	}
	if len(args) < 1 {
		return "", protoErr("screen_set requires a screen id")
	}
	s := ctx.Graph.FindClientScreen(ch, args[0])
	if s == nil {
		return "", notFound("unknown screen %q", args[0])
	}
	opts := args[1:]
	for i := 0; i < len(opts); i++ {
		opt := opts[i]
		val := func() (string, error) {
			if i+1 >= len(opts) {
				return "", protoErr("%s requires a value", opt)
			}
			i++
			return opts[i], nil
		}
		switch opt {
		case "-name":
			v, err := val()
			if err != nil {
				return "", err
			}
			s.Name = v
		case "-wid":
			v, err := val()
			if err != nil {
				return "", err
			}
			n, perr := strconv.Atoi(v)
			if perr != nil {
				return "", protoErr("bad -wid value %q", v)
			}
			s.Width = n
		case "-hgt":
			v, err := val()
			if err != nil {
				return "", err
			}
			n, perr := strconv.Atoi(v)
			if perr != nil {
				return "", protoErr("bad -hgt value %q", v)
			}
			s.Height = n
		case "-priority":
			v, err := val()
			if err != nil {
				return "", err
			}
			p, ok := model.ParsePriority(v)
			if !ok {
				return "", protoErr("bad -priority value %q", v)
			}
			s.Priority = p
		case "-duration":
			v, err := val()
			if err != nil {
				return "", err
			}
			n, perr := strconv.Atoi(v)
			if perr != nil {
				return "", protoErr("bad -duration value %q", v)
			}
			s.Duration = n
		case "-timeout":
			v, err := val()
			if err != nil {
				return "", err
			}
			n, perr := strconv.Atoi(v)
			if perr != nil {
				return "", protoErr("bad -timeout value %q", v)
			}
			s.Timeout = n
		case "-backlight":
			v, err := val()
			if err != nil {
				return "", err
			}
			m, ok := parseBacklight(v)
			if !ok {
				return "", protoErr("bad -backlight value %q", v)
			}
			s.Backlight = m
		case "-heartbeat":
			v, err := val()
			if err != nil {
				return "", err
			}
			m, ok := parseHeartbeat(v)
			if !ok {
				return "", protoErr("bad -heartbeat value %q", v)
			}
			s.Heartbeat = m
		case "-cursor":
			v, err := val()
			if err != nil {
				return "", err
			}
			switch v {
			case "off", "none":
				s.Cursor = model.CursorNone
			case "block":
				s.Cursor = model.CursorBlock
			case "underline", "underscore":
				s.Cursor = model.CursorUnderscore
			default:
				return "", protoErr("bad -cursor value %q", v)
			}
		case "-cursor_x":
			v, err := val()
			if err != nil {
				return "", err
			}
			n, perr := strconv.Atoi(v)
			if perr != nil {
				return "", protoErr("bad -cursor_x value %q", v)
			}
			s.CursorX = n
		case "-cursor_y":
			v, err := val()
			if err != nil {
				return "", err
			}
			n, perr := strconv.Atoi(v)
			if perr != nil {
				return "", protoErr("bad -cursor_y value %q", v)
			}
			s.CursorY = n
		default:
			return "", protoErr("unknown option %q", opt)
		}
	}
	return protocol.Ack(), nil
}

func parseBacklight(v string) (model.BacklightMode, bool) {
	switch v {
	case "off":
		return model.BacklightOff, true
	case "on":
		return model.BacklightOn, true
	case "toggle":
		return model.BacklightToggle, true
	case "blink":
		return model.BacklightBlink, true
	case "flash":
		return model.BacklightFlash, true
	default:
		return 0, false
	}
}

func parseHeartbeat(v string) (model.HeartbeatMode, bool) {
	switch v {
	case "off":
		return model.HeartbeatOff, true
	case "on":
		return model.HeartbeatOn, true
	default:
		return 0, false
	}
}

func hKeyAdd(ctx *Context, ch model.ClientHandle, args []string) (string, error) {
	if _, err := requireActive(ctx, ch); err != nil {
		return "", err
	}
	if len(args) < 2 {
		return "", protoErr("key_add requires a screen id and a key")
	}
	s := ctx.Graph.FindClientScreen(ch, args[0])
	if s == nil {
		return "", notFound("unknown screen %q", args[0])
	}
	s.ReservedKeys = append(s.ReservedKeys, args[1])
	return protocol.Ack(), nil
}

func hKeyDel(ctx *Context, ch model.ClientHandle, args []string) (string, error) {
	if _, err := requireActive(ctx, ch); err != nil {
		return "", err
	}
	if len(args) < 2 {
		return "", protoErr("key_del requires a screen id and a key")
	}
	s := ctx.Graph.FindClientScreen(ch, args[0])
	if s == nil {
		return "", notFound("unknown screen %q", args[0])
	}
	filtered := s.ReservedKeys[:0]
	for _, k := range s.ReservedKeys {
		if k != args[1] {
			filtered = append(filtered, k)
		}
	}
	s.ReservedKeys = filtered
	return protocol.Ack(), nil
}

func hWidgetAdd(ctx *Context, ch model.ClientHandle, args []string) (string, error) {
	if _, err := requireActive(ctx, ch); err != nil {
		return "", err
	}
	if len(args) < 3 {
		return "", protoErr("widget_add requires a screen id, widget id and type")
	}
	s := ctx.Graph.FindClientScreen(ch, args[0])
	if s == nil {
		return "", notFound("unknown screen %q", args[0])
	}
	kind, ok := model.ParseWidgetKind(args[2])
	if !ok {
		return "", protoErr("bad widget type %q", args[2])
	}
	target := s.Handle
	rest := args[3:]
	if len(rest) >= 2 && rest[0] == "-in" {
		frameID := rest[1]
		frame := ctx.Graph.FindWidget(s.Handle, frameID)
		if frame == nil || frame.Kind != model.WidgetFrame {
			return "", notFound("unknown frame %q", frameID)
		}
		target = frame.FrameSubScreen
	}
	if _, err := ctx.Graph.AddWidget(target, args[1], kind); err != nil {
		return "", conflict("%s", err.Error())
	}
	return protocol.Ack(), nil
}

func hWidgetDel(ctx *Context, ch model.ClientHandle, args []string) (string, error) {
	if _, err := requireActive(ctx, ch); err != nil {
		return "", err
	}
	if len(args) < 2 {
		return "", protoErr("widget_del requires a screen id and widget id")
	}
	s := ctx.Graph.FindClientScreen(ch, args[0])
	if s == nil {
		return "", notFound("unknown screen %q", args[0])
	}
	w := ctx.Graph.FindWidget(s.Handle, args[1])
	if w == nil {
		return "", notFound("unknown widget %q", args[1])
	}
	ctx.Graph.RemoveWidget(w.Handle)
	return protocol.Ack(), nil
}

func hBacklight(ctx *Context, ch model.ClientHandle, args []string) (string, error) {
	c, err := requireActive(ctx, ch)
	if err != nil {
		return "", err
	}
	if len(args) < 1 {
		return "", protoErr("backlight requires a value")
	}
	m, ok := parseBacklight(args[0])
	if !ok {
		return "", protoErr("bad backlight value %q", args[0])
	}
	c.Backlight = m
	return protocol.Ack(), nil
}

func hOutput(ctx *Context, ch model.ClientHandle, args []string) (string, error) {
	if _, err := requireActive(ctx, ch); err != nil {
		return "", err
	}
	if len(args) < 1 {
		return "", protoErr("output requires a value")
	}
	switch args[0] {
	case "on":
		ctx.GlobalOutput = 1
	case "off":
		ctx.GlobalOutput = 0
	default:
		n, perr := strconv.Atoi(args[0])
		if perr != nil {
			return "", protoErr("non-integer output value %q", args[0])
		}
		ctx.GlobalOutput = n
	}
	if o, ok := ctx.OutputDriver.(driver.Outputter); ok {
		o.Output(ctx.GlobalOutput)
	}
	return protocol.Ack(), nil
}

func hInfo(ctx *Context, ch model.ClientHandle, args []string) (string, error) {
	if _, err := requireActive(ctx, ch); err != nil {
		return "", err
	}
	info := "no driver info available"
	if ip, ok := ctx.OutputDriver.(driver.InfoProvider); ok {
		info = ip.GetInfo()
	}
	return info + "\n", nil
}

func hNoop(ctx *Context, ch model.ClientHandle, args []string) (string, error) {
	return "noop complete\n", nil
}
