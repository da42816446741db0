package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Lock style modifiers are stripped before binding lookup and grabbed in
// every combination so that CapsLock/NumLock do not break bindings.
const lockMasks = uint16(xproto.ModMaskLock | xproto.ModMask2)

// rootEventMask is what we select on the root window in order to act as the
// window manager. Selecting SubstructureRedirect fails if another manager is
// already running.
const rootEventMask = xproto.EventMaskSubstructureRedirect |
	xproto.EventMaskSubstructureNotify |
	xproto.EventMaskEnterWindow |
	xproto.EventMaskLeaveWindow |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskButtonPress |
	xproto.EventMaskPropertyChange

// XConn is the live X11 implementation of Conn on top of xgb/xgbutil.
type XConn struct {
	xu   *xgbutil.XUtil
	root xproto.Window
}

var _ Conn = (*XConn)(nil)

// NewConn connects to the X server, claims window manager duties on the root
// window and initializes the RandR extension for screen change notification.
func NewConn() (*XConn, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}

	c := &XConn{xu: xu, root: xu.RootWin()}

	// Required for keysym -> keycode resolution when parsing bindings.
	keybind.Initialize(xu)

	err = xproto.ChangeWindowAttributesChecked(
		xu.Conn(), c.root, xproto.CwEventMask, []uint32{uint32(rootEventMask)},
	).Check()
	if err != nil {
		return nil, fmt.Errorf("unable to select events on root (is another WM running?): %w", err)
	}

	if err := randr.Init(xu.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}
	err = randr.SelectInputChecked(xu.Conn(), c.root, randr.NotifyMaskScreenChange).Check()
	if err != nil {
		return nil, fmt.Errorf("failed to select randr events: %w", err)
	}

	return c, nil
}

// Close disconnects from the X server.
func (c *XConn) Close() {
	c.xu.Conn().Close()
}

// Root returns the root window of the managed screen.
func (c *XConn) Root() Xid {
	return Xid(c.root)
}

// Flush pushes buffered requests out to the server.
func (c *XConn) Flush() {
	c.xu.Sync()
}

// NextEvent blocks until an event we react to arrives.
func (c *XConn) NextEvent() (Event, error) {
	for {
		ev, xerr := c.xu.Conn().WaitForEvent()
		if ev == nil && xerr == nil {
			return nil, fmt.Errorf("X connection closed")
		}
		if xerr != nil {
			// X protocol errors arrive in the event stream. They are per
			// request, not fatal, so surface them and keep the loop alive.
			return nil, fmt.Errorf("X error: %s", xerr.Error())
		}
		if out := c.translate(ev); out != nil {
			return out, nil
		}
	}
}

// translate maps a raw xgb event onto the Event union, or nil for events we
// deliberately drop (grab mode focus changes, unknown extensions, ...).
func (c *XConn) translate(ev xgb.Event) Event {
	switch e := ev.(type) {
	case xproto.ClientMessageEvent:
		name, err := xprop.AtomName(c.xu, e.Type)
		if err != nil {
			return nil
		}
		var data [5]uint32
		if e.Format == 32 {
			copy(data[:], e.Data.Data32)
		}
		var stateAtoms []string
		if name == AtomNetWmState {
			// data[1] and data[2] are the (up to two) property atoms.
			for _, raw := range data[1:3] {
				if raw == 0 {
					continue
				}
				if n, err := xprop.AtomName(c.xu, xproto.Atom(raw)); err == nil {
					stateAtoms = append(stateAtoms, n)
				}
			}
		}
		return ClientMessageEvent{ID: Xid(e.Window), Atom: name, Data: data, StateAtoms: stateAtoms}

	case xproto.ConfigureNotifyEvent:
		return ConfigureNotifyEvent{
			ID:     Xid(e.Window),
			R:      Rect{X: int(e.X), Y: int(e.Y), Width: int(e.Width), Height: int(e.Height)},
			IsRoot: e.Window == c.root,
		}

	case xproto.ConfigureRequestEvent:
		return ConfigureRequestEvent{
			ID: Xid(e.Window),
			R:  Rect{X: int(e.X), Y: int(e.Y), Width: int(e.Width), Height: int(e.Height)},
		}

	case xproto.EnterNotifyEvent:
		return EnterEvent{P: PointerChange{
			ID:  Xid(e.Event),
			Abs: Point{X: int(e.RootX), Y: int(e.RootY)},
		}}

	case xproto.LeaveNotifyEvent:
		return LeaveEvent{P: PointerChange{
			ID:  Xid(e.Event),
			Abs: Point{X: int(e.RootX), Y: int(e.RootY)},
		}}

	case xproto.ExposeEvent:
		return ExposeEvent{ID: Xid(e.Window)}

	case xproto.FocusInEvent:
		if e.Mode != xproto.NotifyModeNormal && e.Mode != xproto.NotifyModeWhileGrabbed {
			return nil
		}
		return FocusInEvent{ID: Xid(e.Event)}

	case xproto.DestroyNotifyEvent:
		return DestroyEvent{ID: Xid(e.Window)}

	case xproto.KeyPressEvent:
		return KeyPressEvent{Key: KeyCode{
			Mask: uint16(e.State) &^ lockMasks,
			Code: uint8(e.Detail),
		}}

	case xproto.ButtonPressEvent:
		return MouseEvent{
			ID:    buttonTarget(e.Child, e.Event),
			EventKind: MousePress,
			State: MouseState{Button: MouseButton(e.Detail), Mask: uint16(e.State) &^ lockMasks},
			Abs:   Point{X: int(e.RootX), Y: int(e.RootY)},
		}

	case xproto.ButtonReleaseEvent:
		return MouseEvent{
			ID:    buttonTarget(e.Child, e.Event),
			EventKind: MouseRelease,
			State: MouseState{Button: MouseButton(e.Detail), Mask: uint16(e.State) &^ lockMasks},
			Abs:   Point{X: int(e.RootX), Y: int(e.RootY)},
		}

	case xproto.MotionNotifyEvent:
		return MouseEvent{
			ID:    buttonTarget(e.Child, e.Event),
			EventKind: MouseMotion,
			State: MouseState{Mask: uint16(e.State) &^ lockMasks},
			Abs:   Point{X: int(e.RootX), Y: int(e.RootY)},
		}

	case xproto.PropertyNotifyEvent:
		name, err := xprop.AtomName(c.xu, e.Atom)
		if err != nil {
			return nil
		}
		return PropertyNotifyEvent{ID: Xid(e.Window), Atom: name}

	case xproto.MappingNotifyEvent:
		return MappingNotifyEvent{}

	case xproto.MapRequestEvent:
		return MapRequestEvent{ID: Xid(e.Window)}

	case xproto.UnmapNotifyEvent:
		return UnmapNotifyEvent{ID: Xid(e.Window)}

	case randr.ScreenChangeNotifyEvent:
		return RandrNotifyEvent{}
	}

	return nil
}

func buttonTarget(child, event xproto.Window) Xid {
	if child != xproto.WindowNone {
		return Xid(child)
	}
	return Xid(event)
}

// Prop queries a single property on a window as a typed value.
func (c *XConn) Prop(id Xid, name string) (Prop, error) {
	win := xproto.Window(id)

	switch name {
	case AtomWmHints:
		hints, err := icccm.WmHintsGet(c.xu, win)
		if err != nil {
			return nil, fmt.Errorf("failed to read WM_HINTS for %s: %w", id, err)
		}
		accepts := true
		if hints.Flags&icccm.HintInput > 0 {
			accepts = hints.Input == 1
		}
		return WmHintsProp{
			AcceptsInput: accepts,
			Urgent:       hints.Flags&icccm.HintUrgency > 0,
		}, nil

	case AtomWmNormalHints:
		nh, err := icccm.WmNormalHintsGet(c.xu, win)
		if err != nil {
			return nil, fmt.Errorf("failed to read WM_NORMAL_HINTS for %s: %w", id, err)
		}
		return WmNormalHintsProp{
			HasPosition: nh.Flags&(icccm.SizeHintUSPosition|icccm.SizeHintPPosition) > 0,
			HasSize:     nh.Flags&(icccm.SizeHintUSSize|icccm.SizeHintPSize) > 0,
			R: Rect{
				X: nh.X, Y: nh.Y,
				Width: int(nh.Width), Height: int(nh.Height),
			},
		}, nil

	case AtomWmClass:
		cls, err := icccm.WmClassGet(c.xu, win)
		if err != nil {
			return nil, fmt.Errorf("failed to read WM_CLASS for %s: %w", id, err)
		}
		return UTF8StringProp{cls.Class, cls.Instance}, nil

	case AtomNetWmWindowType:
		types, err := ewmh.WmWindowTypeGet(c.xu, win)
		if err != nil {
			return nil, fmt.Errorf("failed to read window type for %s: %w", id, err)
		}
		return AtomProp(types), nil

	case AtomNetWmDesktop:
		desktop, err := ewmh.WmDesktopGet(c.xu, win)
		if err != nil {
			return nil, fmt.Errorf("failed to read desktop for %s: %w", id, err)
		}
		return CardinalProp{uint32(desktop)}, nil
	}

	// Anything else is fetched raw and decoded by reply type.
	reply, err := xprop.GetProperty(c.xu, win, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s for %s: %w", name, id, err)
	}

	typeName, err := xprop.AtomName(c.xu, reply.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve property type for %s: %w", name, err)
	}

	switch typeName {
	case "ATOM":
		atoms, err := xprop.PropValAtoms(c.xu, reply, nil)
		if err != nil {
			return nil, err
		}
		return AtomProp(atoms), nil
	case "CARDINAL":
		nums, err := xprop.PropValNums(reply, nil)
		if err != nil {
			return nil, err
		}
		vals := make(CardinalProp, len(nums))
		for i, n := range nums {
			vals[i] = uint32(n)
		}
		return vals, nil
	case "WINDOW":
		wins, err := xprop.PropValWindows(reply, nil)
		if err != nil {
			return nil, err
		}
		ids := make(WindowProp, len(wins))
		for i, w := range wins {
			ids[i] = Xid(w)
		}
		return ids, nil
	case "UTF8_STRING", "STRING", "COMPOUND_TEXT":
		strs, err := xprop.PropValStrs(reply, nil)
		if err != nil {
			return nil, err
		}
		return UTF8StringProp(strs), nil
	}

	return nil, fmt.Errorf("unhandled property type %q for %s", typeName, name)
}

// WindowName prefers _NET_WM_NAME and falls back to the ICCCM WM_NAME.
func (c *XConn) WindowName(id Xid) (string, error) {
	name, err := ewmh.WmNameGet(c.xu, xproto.Window(id))
	if err != nil || name == "" {
		name, err = icccm.WmNameGet(c.xu, xproto.Window(id))
		if err != nil {
			return "", fmt.Errorf("failed to read name for %s: %w", id, err)
		}
	}
	return name, nil
}

// WindowAttributes fetches the attributes for a window.
func (c *XConn) WindowAttributes(id Xid) (WindowAttributes, error) {
	attr, err := xproto.GetWindowAttributes(c.xu.Conn(), xproto.Window(id)).Reply()
	if err != nil {
		return WindowAttributes{}, fmt.Errorf("failed to get attributes for %s: %w", id, err)
	}
	return WindowAttributes{
		OverrideRedirect: attr.OverrideRedirect,
		Mapped:           attr.MapState == xproto.MapStateViewable,
	}, nil
}

// ExistingClients lists the current top level windows under the root.
func (c *XConn) ExistingClients() ([]Xid, error) {
	tree, err := xproto.QueryTree(c.xu.Conn(), c.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to query window tree: %w", err)
	}
	ids := make([]Xid, 0, len(tree.Children))
	for _, w := range tree.Children {
		ids = append(ids, Xid(w))
	}
	return ids, nil
}

// CursorPosition returns the pointer location in root coordinates.
func (c *XConn) CursorPosition() (Point, error) {
	pointer, err := xproto.QueryPointer(c.xu.Conn(), c.root).Reply()
	if err != nil {
		return Point{}, fmt.Errorf("failed to query pointer: %w", err)
	}
	return Point{X: int(pointer.RootX), Y: int(pointer.RootY)}, nil
}

// ShouldFloat reports whether a window must be given a floating position
// rather than tiled: either its WM_CLASS matches the configured floating
// classes, or its window type marks it as a transient surface.
func (c *XConn) ShouldFloat(id Xid, floatingClasses []string) bool {
	if cls, err := icccm.WmClassGet(c.xu, xproto.Window(id)); err == nil {
		for _, fc := range floatingClasses {
			if strings.EqualFold(cls.Class, fc) || strings.EqualFold(cls.Instance, fc) {
				return true
			}
		}
	}

	types, err := ewmh.WmWindowTypeGet(c.xu, xproto.Window(id))
	if err != nil {
		return false
	}
	for _, t := range types {
		switch t {
		case AtomWindowTypeDialog, AtomWindowTypeSplash, AtomWindowTypeUtility:
			return true
		}
	}
	return false
}

// Grab registers key and mouse bindings on the root window. Each binding is
// grabbed with every combination of the lock modifiers so CapsLock/NumLock
// do not mask it.
func (c *XConn) Grab(keys []KeyCode, mouse []MouseState) error {
	lockVariants := []uint16{0, xproto.ModMaskLock, xproto.ModMask2, xproto.ModMaskLock | xproto.ModMask2}

	for _, k := range keys {
		for _, lock := range lockVariants {
			err := xproto.GrabKeyChecked(
				c.xu.Conn(), false, c.root, k.Mask|lock, xproto.Keycode(k.Code),
				xproto.GrabModeAsync, xproto.GrabModeAsync,
			).Check()
			if err != nil {
				return fmt.Errorf("failed to grab key %d/%d: %w", k.Code, k.Mask, err)
			}
		}
	}

	const buttonMask = xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease | xproto.EventMaskButtonMotion

	for _, m := range mouse {
		for _, lock := range lockVariants {
			err := xproto.GrabButtonChecked(
				c.xu.Conn(), false, c.root, buttonMask,
				xproto.GrabModeAsync, xproto.GrabModeAsync,
				xproto.WindowNone, xproto.CursorNone,
				byte(m.Button), m.Mask|lock,
			).Check()
			if err != nil {
				return fmt.Errorf("failed to grab button %d/%d: %w", m.Button, m.Mask, err)
			}
		}
	}

	return nil
}

// MapWindow maps a window onto the screen.
func (c *XConn) MapWindow(id Xid) error {
	return xproto.MapWindowChecked(c.xu.Conn(), xproto.Window(id)).Check()
}

// UnmapWindow removes a window from the screen.
func (c *XConn) UnmapWindow(id Xid) error {
	return xproto.UnmapWindowChecked(c.xu.Conn(), xproto.Window(id)).Check()
}

// MoveResizeWindow positions a window at the given region.
func (c *XConn) MoveResizeWindow(id Xid, r Rect) error {
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	vals := []uint32{uint32(r.X), uint32(r.Y), uint32(r.Width), uint32(r.Height)}
	return xproto.ConfigureWindowChecked(c.xu.Conn(), xproto.Window(id), mask, vals).Check()
}

// SetWindowBorderColor sets the border pixel of a window.
func (c *XConn) SetWindowBorderColor(id Xid, pixel uint32) error {
	return xproto.ChangeWindowAttributesChecked(
		c.xu.Conn(), xproto.Window(id), xproto.CwBorderPixel, []uint32{pixel},
	).Check()
}

// SetWindowBorderWidth sets the border width of a window in pixels.
func (c *XConn) SetWindowBorderWidth(id Xid, width uint32) error {
	return xproto.ConfigureWindowChecked(
		c.xu.Conn(), xproto.Window(id), xproto.ConfigWindowBorderWidth, []uint32{width},
	).Check()
}

// SetFocus gives input focus to a window and advertises it via EWMH.
func (c *XConn) SetFocus(id Xid) error {
	err := xproto.SetInputFocusChecked(
		c.xu.Conn(), xproto.InputFocusPointerRoot, xproto.Window(id), xproto.TimeCurrentTime,
	).Check()
	if err != nil {
		return fmt.Errorf("failed to focus %s: %w", id, err)
	}
	// Advertising _NET_ACTIVE_WINDOW is best effort.
	_ = ewmh.ActiveWindowSet(c.xu, xproto.Window(id))
	return nil
}

// KillWindow asks a window to close via WM_DELETE_WINDOW when supported and
// falls back to killing the owning client.
func (c *XConn) KillWindow(id Xid) error {
	win := xproto.Window(id)

	if protocols, err := icccm.WmProtocolsGet(c.xu, win); err == nil {
		for _, p := range protocols {
			if p != "WM_DELETE_WINDOW" {
				continue
			}
			wmProtocols, err := xprop.Atm(c.xu, "WM_PROTOCOLS")
			if err != nil {
				break
			}
			deleteWindow, err := xprop.Atm(c.xu, "WM_DELETE_WINDOW")
			if err != nil {
				break
			}
			ev := xproto.ClientMessageEvent{
				Format: 32,
				Window: win,
				Type:   wmProtocols,
				Data: xproto.ClientMessageDataUnionData32New(
					[]uint32{uint32(deleteWindow), uint32(xproto.TimeCurrentTime), 0, 0, 0},
				),
			}
			return xproto.SendEventChecked(
				c.xu.Conn(), false, win, xproto.EventMaskNoEvent, string(ev.Bytes()),
			).Check()
		}
	}

	return xproto.KillClientChecked(c.xu.Conn(), uint32(win)).Check()
}
