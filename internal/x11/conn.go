package x11

// Conn is the surface of the X server the window manager is written against.
//
// The reactor owns exactly one Conn and threads it, together with the runtime
// state, into every hook and handler. Implementations are not required to be
// safe for concurrent use: the reactor is single threaded and nothing else
// may touch the connection.
type Conn interface {
	// Root returns the id of the root window of the managed screen.
	Root() Xid

	// NextEvent blocks until the next event arrives and translates it into
	// the Event union. Events the manager does not react to are skipped
	// internally, so a successful return is always dispatchable.
	NextEvent() (Event, error)

	// Flush pushes any buffered requests out to the server.
	Flush()

	// Prop queries a single property on a window, returning a typed value.
	Prop(id Xid, name string) (Prop, error)

	// WindowName returns a human readable name for a window, preferring
	// _NET_WM_NAME and falling back to WM_NAME.
	WindowName(id Xid) (string, error)

	// WindowAttributes fetches the attributes for a window.
	WindowAttributes(id Xid) (WindowAttributes, error)

	// ExistingClients lists the current top level windows under the root.
	ExistingClients() ([]Xid, error)

	// ScreenDetails returns the geometry of each active screen.
	ScreenDetails() ([]Rect, error)

	// CursorPosition returns the pointer location in root coordinates.
	CursorPosition() (Point, error)

	// ShouldFloat applies the floating classification rule: windows whose
	// WM_CLASS matches one of floatingClasses, or whose window type marks
	// them as dialogs and similar transient surfaces, are never tiled.
	ShouldFloat(id Xid, floatingClasses []string) bool

	// Grab registers the given key and mouse bindings on the root window.
	Grab(keys []KeyCode, mouse []MouseState) error

	// Window manipulation used by refresh and the default handlers.
	MapWindow(id Xid) error
	UnmapWindow(id Xid) error
	MoveResizeWindow(id Xid, r Rect) error
	SetWindowBorderColor(id Xid, pixel uint32) error
	SetWindowBorderWidth(id Xid, width uint32) error
	SetFocus(id Xid) error
	KillWindow(id Xid) error
}
