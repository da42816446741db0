package wm

import (
	"fmt"

	"github.com/perchwm/perch/internal/x11"
)

// fakeConn is an in-memory Conn for tests: property queries answer from maps
// and every window manipulation is recorded instead of sent anywhere.
type fakeConn struct {
	root    x11.Xid
	screens []x11.Rect
	events  []x11.Event

	props    map[x11.Xid]map[string]x11.Prop
	names    map[x11.Xid]string
	attrs    map[x11.Xid]x11.WindowAttributes
	existing []x11.Xid
	floating map[x11.Xid]bool
	cursor   x11.Point

	mapped    []x11.Xid
	unmapped  []x11.Xid
	moved     map[x11.Xid]x11.Rect
	focused   []x11.Xid
	killed    []x11.Xid
	grabCalls int
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		root:     1,
		screens:  []x11.Rect{{X: 0, Y: 0, Width: 800, Height: 600}},
		props:    make(map[x11.Xid]map[string]x11.Prop),
		names:    make(map[x11.Xid]string),
		attrs:    make(map[x11.Xid]x11.WindowAttributes),
		floating: make(map[x11.Xid]bool),
		moved:    make(map[x11.Xid]x11.Rect),
	}
}

func (f *fakeConn) setProp(id x11.Xid, name string, p x11.Prop) {
	if f.props[id] == nil {
		f.props[id] = make(map[string]x11.Prop)
	}
	f.props[id][name] = p
}

// addWindow registers a plain, mappable window.
func (f *fakeConn) addWindow(id x11.Xid) {
	f.attrs[id] = x11.WindowAttributes{}
}

func (f *fakeConn) Root() x11.Xid { return f.root }

func (f *fakeConn) NextEvent() (x11.Event, error) {
	if len(f.events) == 0 {
		return nil, fmt.Errorf("no more events")
	}
	ev := f.events[0]
	f.events = f.events[1:]
	return ev, nil
}

func (f *fakeConn) Flush() {}

func (f *fakeConn) Prop(id x11.Xid, name string) (x11.Prop, error) {
	if p, ok := f.props[id][name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("no property %s on %s", name, id)
}

func (f *fakeConn) WindowName(id x11.Xid) (string, error) {
	if name, ok := f.names[id]; ok {
		return name, nil
	}
	return "", fmt.Errorf("no name for %s", id)
}

func (f *fakeConn) WindowAttributes(id x11.Xid) (x11.WindowAttributes, error) {
	if attrs, ok := f.attrs[id]; ok {
		return attrs, nil
	}
	return x11.WindowAttributes{}, fmt.Errorf("no attributes for %s", id)
}

func (f *fakeConn) ExistingClients() ([]x11.Xid, error) {
	return f.existing, nil
}

func (f *fakeConn) ScreenDetails() ([]x11.Rect, error) {
	return f.screens, nil
}

func (f *fakeConn) CursorPosition() (x11.Point, error) {
	return f.cursor, nil
}

func (f *fakeConn) ShouldFloat(id x11.Xid, floatingClasses []string) bool {
	return f.floating[id]
}

func (f *fakeConn) Grab(keys []x11.KeyCode, mouse []x11.MouseState) error {
	f.grabCalls++
	return nil
}

func (f *fakeConn) MapWindow(id x11.Xid) error {
	f.mapped = append(f.mapped, id)
	return nil
}

func (f *fakeConn) UnmapWindow(id x11.Xid) error {
	f.unmapped = append(f.unmapped, id)
	return nil
}

func (f *fakeConn) MoveResizeWindow(id x11.Xid, r x11.Rect) error {
	f.moved[id] = r
	return nil
}

func (f *fakeConn) SetWindowBorderColor(id x11.Xid, pixel uint32) error { return nil }

func (f *fakeConn) SetWindowBorderWidth(id x11.Xid, width uint32) error { return nil }

func (f *fakeConn) SetFocus(id x11.Xid) error {
	f.focused = append(f.focused, id)
	return nil
}

func (f *fakeConn) KillWindow(id x11.Xid) error {
	f.killed = append(f.killed, id)
	return nil
}
