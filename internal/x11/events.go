package x11

// KeyCode is a grabbed key press: the X keycode plus the active modifier mask.
type KeyCode struct {
	Mask uint16
	Code uint8
}

// MouseButton is a physical mouse button number as reported by the server.
type MouseButton uint8

const (
	ButtonLeft    MouseButton = 1
	ButtonMiddle  MouseButton = 2
	ButtonRight   MouseButton = 3
	ButtonScrollU MouseButton = 4
	ButtonScrollD MouseButton = 5
)

// MouseState is a mouse button plus the modifier mask held with it.
type MouseState struct {
	Button MouseButton
	Mask   uint16
}

// MouseEventKind distinguishes the phases of a mouse interaction.
type MouseEventKind int

const (
	MousePress MouseEventKind = iota
	MouseRelease
	MouseMotion
)

func (k MouseEventKind) String() string {
	switch k {
	case MousePress:
		return "press"
	case MouseRelease:
		return "release"
	default:
		return "motion"
	}
}

// PointerChange describes the pointer crossing into or out of a window.
type PointerChange struct {
	ID  Xid
	Abs Point
}

// Event is one X event in the subset the window manager reacts to.
//
// The set of kinds is closed: the reactor dispatches on concrete type and
// anything the backend cannot translate is dropped before it gets here.
type Event interface {
	// Kind is a stable human readable name used for log context.
	Kind() string
}

// ClientMessageEvent is a message sent by another client (EWMH requests etc).
type ClientMessageEvent struct {
	ID   Xid
	Atom string
	Data [5]uint32
	// StateAtoms carries the resolved names of the property atoms in Data
	// for _NET_WM_STATE messages, where the raw values are atom ids.
	StateAtoms []string
}

// ConfigureNotifyEvent reports a completed geometry change.
type ConfigureNotifyEvent struct {
	ID     Xid
	R      Rect
	IsRoot bool
}

// ConfigureRequestEvent is a client asking for a geometry change.
type ConfigureRequestEvent struct {
	ID Xid
	R  Rect
}

// EnterEvent fires when the pointer enters a window.
type EnterEvent struct {
	P PointerChange
}

// LeaveEvent fires when the pointer leaves a window.
type LeaveEvent struct {
	P PointerChange
}

// ExposeEvent reports a region of a window needing a redraw.
type ExposeEvent struct {
	ID Xid
}

// FocusInEvent reports the input focus landing on a window.
type FocusInEvent struct {
	ID Xid
}

// DestroyEvent reports a window being destroyed.
type DestroyEvent struct {
	ID Xid
}

// KeyPressEvent is a grabbed key combination being pressed.
type KeyPressEvent struct {
	Key KeyCode
}

// MappingNotifyEvent reports a keyboard mapping change.
type MappingNotifyEvent struct{}

// MapRequestEvent is a client asking to be mapped onto the screen.
type MapRequestEvent struct {
	ID Xid
}

// MouseEvent is a grabbed button press/release or drag motion.
type MouseEvent struct {
	ID    Xid
	State MouseState
	EventKind MouseEventKind
	Abs   Point
}

// PropertyNotifyEvent reports a property change on a window.
type PropertyNotifyEvent struct {
	ID   Xid
	Atom string
}

// RandrNotifyEvent reports a RandR screen configuration change.
type RandrNotifyEvent struct{}

// ScreenChangeEvent reports the active screen changing under the pointer.
type ScreenChangeEvent struct{}

// UnmapNotifyEvent reports a window being unmapped.
type UnmapNotifyEvent struct {
	ID Xid
}

func (ClientMessageEvent) Kind() string   { return "client-message" }
func (ConfigureNotifyEvent) Kind() string { return "configure-notify" }
func (ConfigureRequestEvent) Kind() string {
	return "configure-request"
}
func (EnterEvent) Kind() string          { return "enter" }
func (LeaveEvent) Kind() string          { return "leave" }
func (ExposeEvent) Kind() string         { return "expose" }
func (FocusInEvent) Kind() string        { return "focus-in" }
func (DestroyEvent) Kind() string        { return "destroy" }
func (KeyPressEvent) Kind() string       { return "key-press" }
func (MappingNotifyEvent) Kind() string  { return "mapping-notify" }
func (MapRequestEvent) Kind() string     { return "map-request" }
func (MouseEvent) Kind() string          { return "mouse-event" }
func (PropertyNotifyEvent) Kind() string { return "property-notify" }
func (RandrNotifyEvent) Kind() string    { return "randr-notify" }
func (ScreenChangeEvent) Kind() string   { return "screen-change" }
func (UnmapNotifyEvent) Kind() string    { return "unmap-notify" }
