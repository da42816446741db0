package x11

// Atom names the window manager reads or writes. Interning and caching is the
// backend's problem; everywhere else they are plain strings.
const (
	AtomWmHints              = "WM_HINTS"
	AtomWmNormalHints        = "WM_NORMAL_HINTS"
	AtomWmClass              = "WM_CLASS"
	AtomNetWmWindowType      = "_NET_WM_WINDOW_TYPE"
	AtomNetWmDesktop         = "_NET_WM_DESKTOP"
	AtomNetWmState           = "_NET_WM_STATE"
	AtomNetWmStateFullscreen = "_NET_WM_STATE_FULLSCREEN"
	AtomNetActiveWindow      = "_NET_ACTIVE_WINDOW"
	AtomWindowTypeDialog     = "_NET_WM_WINDOW_TYPE_DIALOG"
	AtomWindowTypeSplash     = "_NET_WM_WINDOW_TYPE_SPLASH"
	AtomWindowTypeUtility    = "_NET_WM_WINDOW_TYPE_UTILITY"
)

// Prop is a typed X property value. Queries return one of the concrete
// variants below; callers type switch and fall back to defaults when the
// variant is not the one they expected.
type Prop interface {
	prop()
}

// CardinalProp is a list of 32-bit cardinal values.
type CardinalProp []uint32

// UTF8StringProp is a list of strings (UTF8_STRING or STRING/COMPOUND_TEXT).
type UTF8StringProp []string

// AtomProp is a list of atoms resolved to their names.
type AtomProp []string

// WindowProp is a list of window ids.
type WindowProp []Xid

// WmHintsProp is the subset of ICCCM WM_HINTS the manager cares about.
type WmHintsProp struct {
	AcceptsInput bool
	Urgent       bool
}

// WmNormalHintsProp is the subset of ICCCM WM_NORMAL_HINTS the manager
// cares about: the user/program specified position and size, if any.
type WmNormalHintsProp struct {
	HasPosition bool
	HasSize     bool
	R           Rect
}

// RequestedPosition returns the region the client asked for, if it asked.
func (h WmNormalHintsProp) RequestedPosition() (Rect, bool) {
	if h.HasPosition && h.HasSize && h.R.Width > 0 && h.R.Height > 0 {
		return h.R, true
	}
	return Rect{}, false
}

func (CardinalProp) prop()      {}
func (UTF8StringProp) prop()    {}
func (AtomProp) prop()          {}
func (WindowProp) prop()        {}
func (WmHintsProp) prop()       {}
func (WmNormalHintsProp) prop() {}

// WindowAttributes is the subset of a GetWindowAttributes reply the manager
// consults when deciding whether to manage a window.
type WindowAttributes struct {
	OverrideRedirect bool
	Mapped           bool
}
