// Package menu implements the hierarchical menu tree: item creation,
// per-kind edit state machines, wizard navigation, and event emission
// (§4.8). It mutates an *model.Graph directly, the same way the
// teacher's overlay mutates its own in-process menu selector state
// (internal/overlay/input.go's HandleMenuBytes).
package menu

import (
	"fmt"

	"github.com/google/uuid"

	"displayd/internal/model"
)

// Event is one outbound `menuevent <type> <id> [<payload>]` notification
// that the caller (dispatch) is responsible for writing to the owning
// client's socket.
type Event struct {
	Client  model.ClientHandle
	Kind    string
	ItemID  string
	Payload string
}

// EnsureClientRoot returns the client's menu subtree root, creating it
// (grafted under the server's main-menu root) on first use (§4.4
// menu_add_item: "creates client's menu root on first call").
func EnsureClientRoot(g *model.Graph, owner model.ClientHandle) (*model.MenuItem, error) {
	c := g.Clients.Get(owner)
	if c == nil {
		return nil, fmt.Errorf("unknown client")
	}
	if c.MenuRoot != model.NilItem {
		return g.Items.Get(c.MenuRoot), nil
	}
	if g.MenuRoot == model.NilItem {
		root := model.NewMenuItem(0, "_root_", model.ItemMenu, model.NilClient)
		h := g.Items.Reserve()
		root.Handle = h
		g.Items.Set(h, root)
		g.MenuRoot = h
	}
	sub := model.NewMenuItem(0, uuid.NewString(), model.ItemMenu, owner)
	h := g.Items.Reserve()
	sub.Handle = h
	sub.Parent = g.MenuRoot
	g.Items.Set(h, sub)
	root := g.Items.Get(g.MenuRoot)
	root.Children = append(root.Children, h)
	c.MenuRoot = h
	return sub, nil
}

// AddItem creates a new item of kind under parentID (within owner's
// subtree, or under the synthesized client root when parentID is "").
func AddItem(g *model.Graph, owner model.ClientHandle, parentID, id string, kind model.ItemKind, text string) (*model.MenuItem, error) {
	var parent *model.MenuItem
	if parentID == "" {
		var err error
		parent, err = EnsureClientRoot(g, owner)
		if err != nil {
			return nil, err
		}
	} else {
		parent = findByID(g, parentID)
		if parent == nil {
			return nil, fmt.Errorf("unknown menu id %q", parentID)
		}
	}
	if findByID(g, id) != nil {
		return nil, fmt.Errorf("duplicate menu id %q", id)
	}
	item := model.NewMenuItem(0, id, kind, owner)
	item.Text = text
	item.Parent = parent.Handle
	h := g.Items.Reserve()
	item.Handle = h
	g.Items.Set(h, item)
	parent.Children = append(parent.Children, h)
	return item, nil
}

// DelItem removes an item and, per §4.8, moves ActiveItem up to the
// nearest surviving ancestor if the destroyed item was on the active
// chain.
func DelItem(g *model.Graph, id string) error {
	item := findByID(g, id)
	if item == nil {
		return fmt.Errorf("unknown menu id %q", id)
	}
	return delItemHandle(g, item.Handle)
}

func delItemHandle(g *model.Graph, h model.ItemHandle) error {
	item := g.Items.Get(h)
	if item == nil {
		return nil
	}
	if onActiveChain(g, h) {
		if parent := g.Items.Get(item.Parent); parent != nil {
			g.ActiveItem = parent.Handle
		} else {
			g.ActiveItem = model.NilItem
		}
	}
	for _, childH := range append([]model.ItemHandle(nil), item.Children...) {
		_ = delItemHandle(g, childH)
	}
	if parent := g.Items.Get(item.Parent); parent != nil {
		parent.Children = removeHandle(parent.Children, h)
	}
	if client := g.Clients.Get(item.Owner); client != nil && client.MenuRoot == h {
		client.MenuRoot = model.NilItem
	}
	g.Items.Remove(h)
	detachEmptyClientRoot(g, item.Owner)
	return nil
}

// detachEmptyClientRoot implements §4.8's menu_del_item contract: once a
// deletion leaves a client's menu subtree with no children, the root
// itself is removed from the main tree, not just left as an empty node.
func detachEmptyClientRoot(g *model.Graph, owner model.ClientHandle) {
	client := g.Clients.Get(owner)
	if client == nil || client.MenuRoot == model.NilItem {
		return
	}
	root := g.Items.Get(client.MenuRoot)
	if root == nil || len(root.Children) > 0 {
		return
	}
	if mainRoot := g.Items.Get(g.MenuRoot); mainRoot != nil {
		mainRoot.Children = removeHandle(mainRoot.Children, client.MenuRoot)
	}
	if g.ActiveItem == client.MenuRoot {
		g.ActiveItem = g.MenuRoot
	}
	g.Items.Remove(client.MenuRoot)
	client.MenuRoot = model.NilItem
}

func onActiveChain(g *model.Graph, h model.ItemHandle) bool {
	cur := g.ActiveItem
	for cur != model.NilItem {
		if cur == h {
			return true
		}
		item := g.Items.Get(cur)
		if item == nil {
			return false
		}
		cur = item.Parent
	}
	return false
}

func findByID(g *model.Graph, id string) *model.MenuItem {
	var found *model.MenuItem
	g.Items.Each(func(h model.ItemHandle, v *model.MenuItem) {
		if v.ID == id {
			found = v
		}
	})
	return found
}

func removeHandle(list []model.ItemHandle, h model.ItemHandle) []model.ItemHandle {
	out := list[:0]
	for _, v := range list {
		if v != h {
			out = append(out, v)
		}
	}
	return out
}

// Goto switches the active item to the named target, or to its
// predecessor/parent on the navigation sentinels (§4.8).
func Goto(g *model.Graph, id string) error {
	switch id {
	case model.NavQuit:
		g.ActiveItem = model.NilItem
		return nil
	case model.NavClose:
		if cur := g.Items.Get(g.ActiveItem); cur != nil {
			if p := g.Items.Get(cur.Parent); p != nil {
				g.ActiveItem = p.Handle
				return nil
			}
		}
		g.ActiveItem = model.NilItem
		return nil
	case model.NavNone:
		return nil
	}
	item := findByID(g, id)
	if item == nil {
		return fmt.Errorf("unknown menu id %q", id)
	}
	g.ActiveItem = item.Handle
	return nil
}
