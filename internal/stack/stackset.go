package stack

import (
	"fmt"

	"github.com/perchwm/perch/internal/layout"
	"github.com/perchwm/perch/internal/x11"
)

// Workspace is one tagged collection of clients sharing a layout stack.
type Workspace struct {
	// ID is the stable integer index of the workspace. Indices are assigned
	// at construction in tag order and never reused, so they are not
	// guaranteed to stay contiguous if workspaces are ever removed.
	ID  int
	Tag string

	Layouts *layout.Stack
	Clients Stack
}

// Screen is a physical display showing one workspace.
type Screen struct {
	Index int
	R     x11.Rect

	ws *Workspace
}

// Workspace returns the workspace currently shown on the screen.
func (s *Screen) Workspace() *Workspace {
	return s.ws
}

// StackSet is the pure arrangement state: which workspace is on which screen,
// which clients are on which workspace, and where focus sits. Screens keep
// their index order; the focused screen is tracked separately.
type StackSet struct {
	screens []*Screen
	hidden  []*Workspace
	tags    []string
	current int // index into screens of the focused screen
}

// New builds a StackSet from a default layout stack, ordered workspace tags
// and the active screen geometries. Every screen shows one workspace, the
// remaining tags start hidden. It is an error to have no tags, no screens,
// or fewer tags than screens.
func New(layouts *layout.Stack, tags []string, screens []x11.Rect) (*StackSet, error) {
	if len(tags) == 0 {
		return nil, fmt.Errorf("no workspace tags provided")
	}
	if len(screens) == 0 {
		return nil, fmt.Errorf("no screens detected")
	}
	if len(tags) < len(screens) {
		return nil, fmt.Errorf("%d tags for %d screens: every screen needs a workspace", len(tags), len(screens))
	}

	workspaces := make([]*Workspace, len(tags))
	for i, tag := range tags {
		workspaces[i] = &Workspace{ID: i, Tag: tag, Layouts: layouts.Clone()}
	}

	ss := &StackSet{tags: append([]string(nil), tags...)}
	for i, r := range screens {
		ss.screens = append(ss.screens, &Screen{Index: i, R: r, ws: workspaces[i]})
	}
	ss.hidden = workspaces[len(screens):]

	return ss, nil
}

// OrderedTags returns the workspace tags in their configured order.
func (ss *StackSet) OrderedTags() []string {
	return append([]string(nil), ss.tags...)
}

// Workspaces returns every workspace, visible first (screen order) then
// hidden, in a stable order.
func (ss *StackSet) Workspaces() []*Workspace {
	out := make([]*Workspace, 0, len(ss.screens)+len(ss.hidden))
	for _, s := range ss.screens {
		out = append(out, s.ws)
	}
	out = append(out, ss.hidden...)
	return out
}

// Screens returns the screens in index order.
func (ss *StackSet) Screens() []*Screen {
	return append([]*Screen(nil), ss.screens...)
}

// CurrentScreen returns the focused screen.
func (ss *StackSet) CurrentScreen() *Screen {
	return ss.screens[ss.current]
}

// CurrentWorkspace returns the workspace on the focused screen.
func (ss *StackSet) CurrentWorkspace() *Workspace {
	return ss.screens[ss.current].ws
}

// CurrentTag returns the tag shown on the focused screen.
func (ss *StackSet) CurrentTag() string {
	return ss.CurrentWorkspace().Tag
}

// FocusedClient returns the focused client of the focused workspace.
func (ss *StackSet) FocusedClient() (x11.Xid, bool) {
	return ss.CurrentWorkspace().Clients.Focused()
}

// Contains reports whether id is tracked on any workspace.
func (ss *StackSet) Contains(id x11.Xid) bool {
	for _, ws := range ss.Workspaces() {
		if ws.Clients.Contains(id) {
			return true
		}
	}
	return false
}

// WorkspaceForTag returns the workspace with the given tag.
func (ss *StackSet) WorkspaceForTag(tag string) (*Workspace, bool) {
	for _, ws := range ss.Workspaces() {
		if ws.Tag == tag {
			return ws, true
		}
	}
	return nil, false
}

// WorkspaceForClient returns the workspace holding id.
func (ss *StackSet) WorkspaceForClient(id x11.Xid) (*Workspace, bool) {
	for _, ws := range ss.Workspaces() {
		if ws.Clients.Contains(id) {
			return ws, true
		}
	}
	return nil, false
}

// Insert adds id to the workspace with the given tag and focuses it there.
// Inserting an id that is already tracked is a no-op beyond focusing it.
func (ss *StackSet) Insert(id x11.Xid, tag string) error {
	ws, ok := ss.WorkspaceForTag(tag)
	if !ok {
		return fmt.Errorf("unknown workspace tag %q", tag)
	}
	if other, ok := ss.WorkspaceForClient(id); ok && other != ws {
		other.Clients.Remove(id)
	}
	ws.Clients.Insert(id)
	return nil
}

// Remove deletes id from whatever workspace holds it.
func (ss *StackSet) Remove(id x11.Xid) bool {
	for _, ws := range ss.Workspaces() {
		if ws.Clients.Remove(id) {
			return true
		}
	}
	return false
}

// FocusClient moves focus to id: the screen showing its workspace becomes
// current, or the workspace is pulled onto the current screen if hidden.
func (ss *StackSet) FocusClient(id x11.Xid) {
	ws, ok := ss.WorkspaceForClient(id)
	if !ok {
		return
	}
	for i, s := range ss.screens {
		if s.ws == ws {
			ss.current = i
			ws.Clients.FocusOn(id)
			return
		}
	}
	ss.FocusTag(ws.Tag)
	ws.Clients.FocusOn(id)
}

// FocusTag shows the workspace with the given tag on the current screen. If
// another screen already shows it, the two screens swap workspaces.
func (ss *StackSet) FocusTag(tag string) {
	ws, ok := ss.WorkspaceForTag(tag)
	if !ok {
		return
	}

	cur := ss.screens[ss.current]
	if cur.ws == ws {
		return
	}

	for _, s := range ss.screens {
		if s.ws == ws {
			s.ws, cur.ws = cur.ws, s.ws
			return
		}
	}

	for i, h := range ss.hidden {
		if h == ws {
			ss.hidden[i] = cur.ws
			cur.ws = ws
			return
		}
	}
}

// FocusScreen makes the screen with the given index current.
func (ss *StackSet) FocusScreen(index int) {
	for i, s := range ss.screens {
		if s.Index == index {
			ss.current = i
			return
		}
	}
}

// MoveClientToTag sends id to the workspace with the given tag without
// changing which workspaces are visible.
func (ss *StackSet) MoveClientToTag(id x11.Xid, tag string) error {
	ws, ok := ss.WorkspaceForTag(tag)
	if !ok {
		return fmt.Errorf("unknown workspace tag %q", tag)
	}
	if !ss.Remove(id) {
		return fmt.Errorf("client %s is not tracked", id)
	}
	ws.Clients.Insert(id)
	return nil
}

// UpdateScreens replaces the screen list after a RandR change, preserving
// visible workspaces where possible and hiding those whose screen went away.
func (ss *StackSet) UpdateScreens(rects []x11.Rect) error {
	if len(rects) == 0 {
		return fmt.Errorf("no screens detected")
	}

	visible := make([]*Workspace, 0, len(ss.screens))
	for _, s := range ss.screens {
		visible = append(visible, s.ws)
	}

	screens := make([]*Screen, 0, len(rects))
	for i, r := range rects {
		var ws *Workspace
		if i < len(visible) {
			ws = visible[i]
		} else if len(ss.hidden) > 0 {
			ws, ss.hidden = ss.hidden[0], ss.hidden[1:]
		} else {
			return fmt.Errorf("%d screens but only %d workspaces", len(rects), len(ss.tags))
		}
		screens = append(screens, &Screen{Index: i, R: r, ws: ws})
	}

	// Workspaces that lost their screen become hidden.
	for i := len(rects); i < len(visible); i++ {
		ss.hidden = append(ss.hidden, visible[i])
	}

	ss.screens = screens
	if ss.current >= len(ss.screens) {
		ss.current = 0
	}
	return nil
}

// ScreenForPoint returns the screen containing p, if any.
func (ss *StackSet) ScreenForPoint(p x11.Point) (*Screen, bool) {
	for _, s := range ss.screens {
		if s.R.Contains(p) {
			return s, true
		}
	}
	return nil, false
}

// VisibleClients returns the clients of every visible workspace.
func (ss *StackSet) VisibleClients() []x11.Xid {
	var out []x11.Xid
	for _, s := range ss.screens {
		out = append(out, s.ws.Clients.Slice()...)
	}
	return out
}

// HiddenClients returns the clients of every hidden workspace.
func (ss *StackSet) HiddenClients() []x11.Xid {
	var out []x11.Xid
	for _, ws := range ss.hidden {
		out = append(out, ws.Clients.Slice()...)
	}
	return out
}
