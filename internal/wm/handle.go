package wm

import (
	"fmt"

	"github.com/perchwm/perch/internal/layout"
	"github.com/perchwm/perch/internal/stack"
	"github.com/perchwm/perch/internal/x11"
)

// Default event handlers. Each one takes the event payload, the mutable
// runtime state and the X connection; side effects are confined to those two.

func handleClientMessage(e x11.ClientMessageEvent, s *State, x x11.Conn) error {
	switch e.Atom {
	case x11.AtomNetActiveWindow:
		if s.ClientSet.Contains(e.ID) {
			s.ClientSet.FocusClient(e.ID)
			return refresh(s, x)
		}
		return nil

	case x11.AtomNetWmState:
		for _, atom := range e.StateAtoms {
			if atom == x11.AtomNetWmStateFullscreen {
				return setFullscreen(e.ID, e.Data[0], s, x)
			}
		}
		return nil
	}

	s.Logger().Debug("unhandled client message", "atom", e.Atom, "id", e.ID)
	return nil
}

// _NET_WM_STATE client message actions.
const (
	netWmStateRemove = 0
	netWmStateAdd    = 1
	netWmStateToggle = 2
)

func setFullscreen(id x11.Xid, action uint32, s *State, x x11.Conn) error {
	client, ok := s.clients[id]
	if !ok {
		return nil
	}

	switch action {
	case netWmStateRemove:
		client.SetFullscreen(false)
	case netWmStateAdd:
		client.SetFullscreen(true)
	case netWmStateToggle:
		client.SetFullscreen(!client.IsFullscreen())
	default:
		return nil
	}

	return refresh(s, x)
}

// detectScreens re-reads the screen geometry after the root window or the
// RandR configuration changed and rebuilds the screen list.
func detectScreens(s *State, x x11.Conn) error {
	rects, err := x.ScreenDetails()
	if err != nil {
		return fmt.Errorf("failed to detect screens: %w", err)
	}
	if err := s.ClientSet.UpdateScreens(rects); err != nil {
		return fmt.Errorf("failed to update screens: %w", err)
	}
	return refresh(s, x)
}

func handleEnter(p x11.PointerChange, s *State, x x11.Conn) error {
	if !s.Config.FocusFollowMouse || !s.ClientSet.Contains(p.ID) {
		return nil
	}
	if client, ok := s.clients[p.ID]; ok && !client.AcceptsFocus() {
		return nil
	}
	s.ClientSet.FocusClient(p.ID)
	return refresh(s, x)
}

func handleLeave(p x11.PointerChange, s *State, x x11.Conn) error {
	if !s.Config.FocusFollowMouse || !s.ClientSet.Contains(p.ID) {
		return nil
	}
	return x.SetWindowBorderColor(p.ID, s.Config.NormalBorder)
}

func handleFocusIn(id x11.Xid, s *State, x x11.Conn) error {
	if s.ClientSet.Contains(id) {
		s.ClientSet.FocusClient(id)
		return refresh(s, x)
	}

	// Something we do not manage took focus: put it back.
	if focused, ok := s.ClientSet.FocusedClient(); ok {
		return x.SetFocus(focused)
	}
	return x.SetFocus(s.root)
}

func handleDestroy(id x11.Xid, s *State, x x11.Conn) error {
	if !s.ClientSet.Contains(id) {
		return nil
	}
	return unmanage(id, s, x)
}

func handleKeyPress(key x11.KeyCode, bindings KeyBindings, s *State, x x11.Conn) error {
	if fn, ok := bindings[key]; ok {
		return fn(s, x)
	}
	return nil
}

func handleMapRequest(id x11.Xid, s *State, x x11.Conn) error {
	attrs, err := x.WindowAttributes(id)
	if err != nil {
		return fmt.Errorf("failed to get attributes for %s: %w", id, err)
	}
	// Override-redirect windows place themselves; tracked windows are
	// already where the arrangement wants them.
	if attrs.OverrideRedirect || s.ClientSet.Contains(id) {
		return nil
	}
	return manage(id, s, x)
}

func handleMouseEvent(e x11.MouseEvent, bindings MouseBindings, s *State, x x11.Conn) error {
	if e.EventKind != x11.MousePress {
		return nil
	}
	if fn, ok := bindings[e.State]; ok {
		return fn(e, s, x)
	}
	return nil
}

func handleScreenChange(s *State, x x11.Conn) error {
	p, err := x.CursorPosition()
	if err != nil {
		return fmt.Errorf("failed to locate pointer: %w", err)
	}
	if screen, ok := s.ClientSet.ScreenForPoint(p); ok {
		s.ClientSet.FocusScreen(screen.Index)
		return refresh(s, x)
	}
	return nil
}

func handleUnmapNotify(id x11.Xid, s *State, x x11.Conn) error {
	// Unmaps we initiated ourselves (hiding a workspace) are counted in
	// pendingUnmap; those must not withdraw the client.
	if count, ok := s.pendingUnmap[id]; ok {
		if count <= 1 {
			delete(s.pendingUnmap, id)
		} else {
			s.pendingUnmap[id] = count - 1
		}
		return nil
	}

	if s.ClientSet.Contains(id) {
		return unmanage(id, s, x)
	}
	return nil
}

// manage adopts a new window onto the current workspace and refreshes.
func manage(id x11.Xid, s *State, x x11.Conn) error {
	if err := manageWithoutRefresh(id, "", s, x); err != nil {
		return err
	}
	return refresh(s, x)
}

// manageWithoutRefresh adopts a new window onto the workspace with the given
// tag (the current workspace when tag is empty) without triggering a
// refresh. Callers batching multiple adoptions refresh once at the end.
func manageWithoutRefresh(id x11.Xid, tag string, s *State, x x11.Conn) error {
	if tag == "" {
		tag = s.ClientSet.CurrentTag()
	}
	ws, ok := s.ClientSet.WorkspaceForTag(tag)
	if !ok {
		return fmt.Errorf("unknown workspace tag %q", tag)
	}

	client := newClient(x, id, ws.ID, s.Config.FloatingClasses)
	s.clients[id] = client
	if err := s.ClientSet.Insert(id, tag); err != nil {
		delete(s.clients, id)
		return err
	}

	if h := s.Config.ManageHook; h != nil {
		s.Logger().Debug("running user manage hook", "id", id)
		if err := h.Call(id, s, x); err != nil {
			s.Logger().Error("error returned from user manage hook", "id", id, "error", err)
		}
	}
	return nil
}

// unmanage drops all state for a window and refreshes.
func unmanage(id x11.Xid, s *State, x x11.Conn) error {
	delete(s.clients, id)
	delete(s.mapped, id)
	delete(s.pendingUnmap, id)
	s.ClientSet.Remove(id)
	return refresh(s, x)
}

// refresh recomputes the on screen state from the arrangement model and
// applies the minimal set of updates: position visible clients, map the
// newly visible, unmap the newly hidden, repaint borders and set focus.
// The resulting snapshot diff is stored on the state for hooks to inspect.
func refresh(s *State, x x11.Conn) error {
	log := s.Logger()
	positions := visiblePositions(s)
	after := s.ClientSet.Snapshot(positions)
	diff := stack.NewDiff(s.diff.After, after)
	s.diff = diff

	for _, p := range positions {
		if client, ok := s.clients[p.ID]; ok && !client.IsManaged() {
			continue
		}
		if err := x.MoveResizeWindow(p.ID, p.R); err != nil {
			log.Error("failed to position window", "id", p.ID, "rect", p.R, "error", err)
		}
	}

	for _, id := range diff.NewlyVisible() {
		if s.mapped[id] {
			continue
		}
		if err := x.MapWindow(id); err != nil {
			log.Error("failed to map window", "id", id, "error", err)
			continue
		}
		s.mapped[id] = true
		if client, ok := s.clients[id]; ok {
			client.mapped = true
		}
	}

	for _, id := range diff.NewlyHidden() {
		if !s.mapped[id] {
			continue
		}
		// Count the unmap so the notify handler knows we initiated it.
		s.pendingUnmap[id]++
		if err := x.UnmapWindow(id); err != nil {
			log.Error("failed to unmap window", "id", id, "error", err)
		}
		delete(s.mapped, id)
		if client, ok := s.clients[id]; ok {
			client.mapped = false
		}
	}

	cfg := s.Config
	for _, id := range after.Visible {
		if client, ok := s.clients[id]; ok && !client.IsManaged() {
			continue
		}
		color := cfg.NormalBorder
		if id == after.Focused {
			color = cfg.FocusedBorder
		}
		if err := x.SetWindowBorderWidth(id, cfg.BorderWidth); err != nil {
			log.Debug("failed to set border width", "id", id, "error", err)
		}
		if err := x.SetWindowBorderColor(id, color); err != nil {
			log.Debug("failed to set border color", "id", id, "error", err)
		}
	}

	focusTarget := s.root
	if after.Focused != 0 {
		if client, ok := s.clients[after.Focused]; !ok || client.AcceptsFocus() {
			focusTarget = after.Focused
		}
	}
	if err := x.SetFocus(focusTarget); err != nil {
		log.Error("failed to set focus", "id", focusTarget, "error", err)
	}

	if h := cfg.RefreshHook; h != nil {
		log.Debug("running user refresh hook")
		if err := h.Call(s, x); err != nil {
			log.Error("error returned from user refresh hook", "error", err)
		}
	}
	return nil
}

// visiblePositions computes the placement of every client on a visible
// workspace: fullscreen clients cover their screen, floating clients keep
// their requested geometry, the rest are handed to the workspace layout.
func visiblePositions(s *State) []layout.Placement {
	var out []layout.Placement

	for _, screen := range s.ClientSet.Screens() {
		ws := screen.Workspace()
		var tiled []x11.Xid

		for _, id := range ws.Clients.Slice() {
			client, ok := s.clients[id]
			switch {
			case ok && !client.IsManaged():
				// Tracked for bookkeeping only: geometry is not ours.
			case ok && client.IsFullscreen():
				out = append(out, layout.Placement{ID: id, R: screen.R})
			case ok && client.IsFloating():
				out = append(out, layout.Placement{ID: id, R: floatingRect(client, screen.R)})
			default:
				tiled = append(tiled, id)
			}
		}

		out = append(out, ws.Layouts.Current().Arrange(tiled, screen.R)...)
	}

	return out
}

// floatingRect returns the region for a floating client: its requested
// geometry when it gave one, otherwise a centered region on its screen.
func floatingRect(c *Client, screen x11.Rect) x11.Rect {
	r := c.Geometry()
	if r.Width > 0 && r.Height > 0 {
		return r
	}
	return x11.Rect{
		X:      screen.X + screen.Width/4,
		Y:      screen.Y + screen.Height/4,
		Width:  screen.Width / 2,
		Height: screen.Height / 2,
	}
}
