package dispatch

import (
	"strconv"

	"displayd/internal/menu"
	"displayd/internal/model"
	"displayd/internal/protocol"
)

func hMenuAddItem(ctx *Context, ch model.ClientHandle, args []string) (string, error) {
	c, err := requireActive(ctx, ch)
	if err != nil {
		return "", err
	}
	if c.Name == "" {
		return "", protoErr("client must call client_set -name before menu_add_item")
	}
	if len(args) < 3 {
		return "", protoErr("menu_add_item requires menuid, newid, kind")
	}
	kind, ok := model.ParseItemKind(args[2])
	if !ok {
		return "", protoErr("bad menu item kind %q", args[2])
	}
	text := args[1]
	if len(args) >= 4 && args[3][0] != '-' {
		text = args[3]
	}
	item, merr := menu.AddItem(ctx.Graph, ch, args[0], args[1], kind, text)
	if merr != nil {
		return "", conflict("%s", merr.Error())
	}
	rest := args[3:]
	if len(rest) > 0 && rest[0][0] != '-' {
		rest = rest[1:]
	}
	if len(rest) > 0 {
		return applyMenuSetOptions(item, rest)
	}
	return protocol.Ack(), nil
}

func hMenuDelItem(ctx *Context, ch model.ClientHandle, args []string) (string, error) {
	if _, err := requireActive(ctx, ch); err != nil {
		return "", err
	}
	if len(args) < 1 {
		return "", protoErr("menu_del_item requires an item id")
	}
	id := args[len(args)-1]
	if err := menu.DelItem(ctx.Graph, id); err != nil {
		return "", notFound("%s", err.Error())
	}
	return protocol.Ack(), nil
}

func hMenuSetItem(ctx *Context, ch model.ClientHandle, args []string) (string, error) {
	if _, err := requireActive(ctx, ch); err != nil {
		return "", err
	}
	if len(args) < 2 {
		return "", protoErr("menu_set_item requires an item id")
	}
	item := findItem(ctx, args[1])
	if item == nil {
		return "", notFound("unknown menu id %q", args[1])
	}
	return applyMenuSetOptions(item, args[2:])
}

func hMenuGoto(ctx *Context, ch model.ClientHandle, args []string) (string, error) {
	if _, err := requireActive(ctx, ch); err != nil {
		return "", err
	}
	if len(args) < 1 {
		return "", protoErr("menu_goto requires a menu id")
	}
	target := args[0]
	if len(args) >= 2 {
		target = args[1]
	}
	if err := menu.Goto(ctx.Graph, target); err != nil {
		return "", notFound("%s", err.Error())
	}
	return protocol.Ack(), nil
}

func hMenuSetMain(ctx *Context, ch model.ClientHandle, args []string) (string, error) {
	c, err := requireActive(ctx, ch)
	if err != nil {
		return "", err
	}
	if len(args) < 1 {
		return "", protoErr("menu_set_main requires a menu id")
	}
	item := findItem(ctx, args[0])
	if item == nil {
		return "", notFound("unknown menu id %q", args[0])
	}
	c.MenuRoot = item.Handle
	return protocol.Ack(), nil
}

func findItem(ctx *Context, id string) *model.MenuItem {
	var found *model.MenuItem
	ctx.Graph.Items.Each(func(h model.ItemHandle, v *model.MenuItem) {
		if v.ID == id {
			found = v
		}
	})
	return found
}

// applyMenuSetOptions mutates item per its kind's typed option table
// (§4.8). An option name missing from the table is a protocol error.
// Only -value is checked against the item's kind; every other option in
// the table is accepted for any kind.
func applyMenuSetOptions(item *model.MenuItem, opts []string) (string, error) {
	for i := 0; i < len(opts); i++ {
		opt := opts[i]
		next := func() (string, error) {
			if i+1 >= len(opts) {
				return "", protoErr("%s requires a value", opt)
			}
			i++
			return opts[i], nil
		}
		switch opt {
		case "-text":
			v, err := next()
			if err != nil {
				return "", err
			}
			item.Text = v
		case "-predecessor":
			v, err := next()
			if err != nil {
				return "", err
			}
			item.Predecessor = v
		case "-successor":
			v, err := next()
			if err != nil {
				return "", err
			}
			item.Successor = v
		case "-is_hidden":
			v, err := next()
			if err != nil {
				return "", err
			}
			item.IsHidden = v == "1" || v == "true" || v == "yes"
		case "-value":
			v, err := next()
			if err != nil {
				return "", err
			}
			if item.Kind == model.ItemIP {
				if norm, ok := menu.NormalizeIP(v, item.IPFamily); ok {
					item.IPValue = norm
					item.ErrorCode = model.ErrNone
				} else {
					item.ErrorCode = model.ErrInvalidAddress
				}
				break
			}
			n, perr := strconv.Atoi(v)
			if perr != nil {
				return "", protoErr("bad -value %q", v)
			}
			switch item.Kind {
			case model.ItemSlider:
				item.SliderValue = n
			case model.ItemNumeric:
				item.NumericValue = n
			default:
				return "", protoErr("-value not applicable to %s", item.Kind)
			}
		case "-minvalue":
			v, err := next()
			if err != nil {
				return "", err
			}
			n, perr := strconv.Atoi(v)
			if perr != nil {
				return "", protoErr("bad -minvalue %q", v)
			}
			if item.Kind == model.ItemSlider {
				item.SliderMin = n
			} else {
				item.NumericMin = n
			}
		case "-maxvalue":
			v, err := next()
			if err != nil {
				return "", err
			}
			n, perr := strconv.Atoi(v)
			if perr != nil {
				return "", protoErr("bad -maxvalue %q", v)
			}
			if item.Kind == model.ItemSlider {
				item.SliderMax = n
			} else {
				item.NumericMax = n
			}
		case "-stepsize":
			v, err := next()
			if err != nil {
				return "", err
			}
			n, perr := strconv.Atoi(v)
			if perr != nil {
				return "", protoErr("bad -stepsize %q", v)
			}
			item.SliderStep = n
		case "-value_name", "-options":
			v, err := next()
			if err != nil {
				return "", err
			}
			item.RingOptions = append(item.RingOptions, v)
		case "-allow_gray":
			v, err := next()
			if err != nil {
				return "", err
			}
			item.CheckboxAllowGray = v == "1" || v == "true"
		case "-minlength":
			v, err := next()
			if err != nil {
				return "", err
			}
			n, perr := strconv.Atoi(v)
			if perr != nil {
				return "", protoErr("bad -minlength %q", v)
			}
			item.AlphaMinLength = n
		case "-maxlength":
			v, err := next()
			if err != nil {
				return "", err
			}
			n, perr := strconv.Atoi(v)
			if perr != nil {
				return "", protoErr("bad -maxlength %q", v)
			}
			item.AlphaMaxLength = n
		case "-allow_caps":
			v, err := next()
			if err != nil {
				return "", err
			}
			item.AlphaAllowCaps = v == "1" || v == "true"
		case "-allow_noncaps":
			v, err := next()
			if err != nil {
				return "", err
			}
			item.AlphaAllowNonCaps = v == "1" || v == "true"
		case "-allow_numbers":
			v, err := next()
			if err != nil {
				return "", err
			}
			item.AlphaAllowNums = v == "1" || v == "true"
		case "-allowed_extra":
			v, err := next()
			if err != nil {
				return "", err
			}
			item.AlphaAllowedExtra = v
		case "-password_char":
			_, err := next()
			if err != nil {
				return "", err
			}
			item.AlphaPassword = true
		default:
			return "", protoErr("unknown option %q", opt)
		}
	}
	return protocol.Ack(), nil
}
