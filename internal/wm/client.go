package wm

import "github.com/perchwm/perch/internal/x11"

// Client is the metadata we track for a window we are managing: identifying
// properties captured when the window first became managed, plus the state
// flags used to decide how (and whether) it is shown.
type Client struct {
	id         x11.Xid
	name       string
	class      string
	windowType string
	workspace  int
	geom       x11.Rect

	// state flags
	acceptsFocus bool
	floating     bool
	fullscreen   bool
	mapped       bool
	urgent       bool
	wmManaged    bool
}

// newClient builds the metadata record for a window from a batch of property
// queries. A failed or missing property never aborts construction: every
// field has a documented fallback.
func newClient(x x11.Conn, id x11.Xid, workspace int, floatingClasses []string) *Client {
	acceptsFocus := true
	urgent := false
	if p, err := x.Prop(id, x11.AtomWmHints); err == nil {
		if hints, ok := p.(x11.WmHintsProp); ok {
			acceptsFocus = hints.AcceptsInput
			urgent = hints.Urgent
		}
	}

	var geom x11.Rect
	if p, err := x.Prop(id, x11.AtomWmNormalHints); err == nil {
		if nh, ok := p.(x11.WmNormalHintsProp); ok {
			if r, ok := nh.RequestedPosition(); ok {
				geom = r
			}
		}
	}

	name, err := x.WindowName(id)
	if err != nil {
		name = "unknown"
	}

	class := ""
	if p, err := x.Prop(id, x11.AtomWmClass); err == nil {
		if strs, ok := p.(x11.UTF8StringProp); ok && len(strs) > 0 {
			class = strs[0]
		}
	}

	windowType := ""
	if p, err := x.Prop(id, x11.AtomNetWmWindowType); err == nil {
		if atoms, ok := p.(x11.AtomProp); ok && len(atoms) > 0 {
			windowType = atoms[0]
		}
	}

	return &Client{
		id:           id,
		name:         name,
		class:        class,
		windowType:   windowType,
		workspace:    workspace,
		geom:         geom,
		acceptsFocus: acceptsFocus,
		floating:     x.ShouldFloat(id, floatingClasses),
		fullscreen:   false,
		mapped:       false,
		urgent:       urgent,
		wmManaged:    true,
	}
}

// ID returns the X window id of this client. It never changes.
func (c *Client) ID() x11.Xid {
	return c.id
}

// Name returns the window name captured at manage time or updated since.
func (c *Client) Name() string {
	return c.name
}

// Class returns the WM_CLASS of the window this client is tracking.
func (c *Client) Class() string {
	return c.class
}

// WindowType returns the EWMH window type, or "" if the window has none.
func (c *Client) WindowType() string {
	return c.windowType
}

// Workspace returns the index of the workspace this client is on.
func (c *Client) Workspace() int {
	return c.workspace
}

// Geometry returns the region the client requested at manage time.
func (c *Client) Geometry() x11.Rect {
	return c.geom
}

// AcceptsFocus reports whether the window accepts input focus.
func (c *Client) AcceptsFocus() bool {
	return c.acceptsFocus
}

// IsFloating reports whether the client is positioned rather than tiled.
func (c *Client) IsFloating() bool {
	return c.floating
}

// IsFullscreen reports whether the client currently covers its screen.
func (c *Client) IsFullscreen() bool {
	return c.fullscreen
}

// IsMapped reports whether the client is currently shown on screen.
func (c *Client) IsMapped() bool {
	return c.mapped
}

// IsUrgent reports whether the client has the urgency hint set.
func (c *Client) IsUrgent() bool {
	return c.urgent
}

// IsManaged reports whether we drive this client's geometry and focus. An
// unmanaged client is still tracked for bookkeeping.
func (c *Client) IsManaged() bool {
	return c.wmManaged
}

// SetWorkspace marks this client as being on a new workspace.
func (c *Client) SetWorkspace(workspace int) {
	c.workspace = workspace
}

// SetFloating sets the floating state of this client.
func (c *Client) SetFloating(floating bool) {
	c.floating = floating
}

// SetFullscreen sets the fullscreen state of this client.
func (c *Client) SetFullscreen(fullscreen bool) {
	c.fullscreen = fullscreen
}

// SetName updates the display name, e.g. after a title change.
func (c *Client) SetName(name string) {
	c.name = name
}

// ExternallyManaged marks this client as not being driven by the window
// manager directly.
func (c *Client) ExternallyManaged() {
	c.wmManaged = false
}

// InternallyManaged marks this client as being driven by the window manager.
func (c *Client) InternallyManaged() {
	c.wmManaged = true
}
