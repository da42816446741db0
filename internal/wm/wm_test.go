package wm

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/perchwm/perch/internal/x11"
)

func newTestWM(t *testing.T, conn *fakeConn) *WindowManager {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Tags = []string{"1", "2", "3"}
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	manager, err := New(cfg, nil, nil, conn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return manager
}

func TestManageExistingClientsAdoptsByDesktopProperty(t *testing.T) {
	conn := newFakeConn()
	conn.addWindow(10)
	conn.setProp(10, x11.AtomNetWmDesktop, x11.CardinalProp{1})
	conn.addWindow(11) // no desktop property: defaults to index 0
	conn.addWindow(12)
	conn.setProp(12, x11.AtomNetWmDesktop, x11.CardinalProp{9}) // unknown index
	conn.attrs[13] = x11.WindowAttributes{OverrideRedirect: true}
	// 14 has no readable attributes at all.
	conn.existing = []x11.Xid{10, 11, 12, 13, 14}

	manager := newTestWM(t, conn)
	if err := manager.manageExistingClients(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := manager.State
	wantTags := map[x11.Xid]string{10: "2", 11: "1", 12: "1"}
	for id, tag := range wantTags {
		ws, ok := s.ClientSet.WorkspaceForClient(id)
		if !ok {
			t.Fatalf("expected %v to be managed", id)
		}
		if ws.Tag != tag {
			t.Fatalf("expected %v on tag %q, got %q", id, tag, ws.Tag)
		}
	}
	if s.ClientSet.Contains(13) {
		t.Fatalf("expected override-redirect window to be skipped")
	}
	if s.ClientSet.Contains(14) {
		t.Fatalf("expected window with unreadable attributes to be skipped")
	}
}

func TestManageExistingClientsSkipsPreManaged(t *testing.T) {
	conn := newFakeConn()
	conn.addWindow(10)
	conn.existing = []x11.Xid{10}

	manager := newTestWM(t, conn)
	// Simulate a startup hook having already placed the window on tag 3.
	if err := manageWithoutRefresh(10, "3", manager.State, conn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := manager.manageExistingClients(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ws, _ := manager.State.ClientSet.WorkspaceForClient(10)
	if ws.Tag != "3" {
		t.Fatalf("expected pre-managed placement preserved, got tag %q", ws.Tag)
	}
}

func TestHandleMapRequestManagesAndMaps(t *testing.T) {
	conn := newFakeConn()
	conn.addWindow(10)
	manager := newTestWM(t, conn)

	if err := manager.handleEvent(x11.MapRequestEvent{ID: 10}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := manager.State
	if !s.ClientSet.Contains(10) {
		t.Fatalf("expected window to be managed")
	}
	if len(conn.mapped) != 1 || conn.mapped[0] != 10 {
		t.Fatalf("expected window mapped, got %v", conn.mapped)
	}
	if _, ok := conn.moved[10]; !ok {
		t.Fatalf("expected window to be positioned")
	}
	if client, ok := s.Client(10); !ok || !client.IsMapped() {
		t.Fatalf("expected client record to be marked mapped")
	}
}

func TestHandleMapRequestIgnoresOverrideRedirect(t *testing.T) {
	conn := newFakeConn()
	conn.attrs[10] = x11.WindowAttributes{OverrideRedirect: true}
	manager := newTestWM(t, conn)

	if err := manager.handleEvent(x11.MapRequestEvent{ID: 10}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if manager.State.ClientSet.Contains(10) {
		t.Fatalf("expected override-redirect window to stay unmanaged")
	}
}

func TestEventHookVetoSuppressesDefaultHandling(t *testing.T) {
	conn := newFakeConn()
	conn.addWindow(10)
	manager := newTestWM(t, conn)
	if err := manager.handleEvent(x11.MapRequestEvent{ID: 10}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	manager.State.Config.ComposeOrSetEventHook(
		EventHookFunc(func(ev x11.Event, s *State, x x11.Conn) (bool, error) {
			return false, nil
		}))

	if err := manager.handleEvent(x11.DestroyEvent{ID: 10}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !manager.State.ClientSet.Contains(10) {
		t.Fatalf("expected vetoed destroy to leave the client managed")
	}

	manager.State.Config.EventHook = nil
	if err := manager.handleEvent(x11.DestroyEvent{ID: 10}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if manager.State.ClientSet.Contains(10) {
		t.Fatalf("expected destroy to withdraw the client")
	}
}

func TestSelfInitiatedUnmapDoesNotWithdraw(t *testing.T) {
	conn := newFakeConn()
	conn.addWindow(10)
	manager := newTestWM(t, conn)
	s := manager.State

	if err := manager.handleEvent(x11.MapRequestEvent{ID: 10}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Switching workspaces unmaps the window; that unmap is ours.
	if err := FocusWorkspace("2")(s, conn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conn.unmapped) != 1 {
		t.Fatalf("expected one unmap request, got %v", conn.unmapped)
	}

	if err := manager.handleEvent(x11.UnmapNotifyEvent{ID: 10}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.ClientSet.Contains(10) {
		t.Fatalf("expected self-initiated unmap to keep the client")
	}

	// A second notify has no pending count behind it: the client withdrew.
	if err := manager.handleEvent(x11.UnmapNotifyEvent{ID: 10}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ClientSet.Contains(10) {
		t.Fatalf("expected external unmap to withdraw the client")
	}
}

func TestFullscreenClientMessage(t *testing.T) {
	conn := newFakeConn()
	conn.addWindow(10)
	manager := newTestWM(t, conn)
	s := manager.State

	if err := manager.handleEvent(x11.MapRequestEvent{ID: 10}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := x11.ClientMessageEvent{
		ID:         10,
		Atom:       x11.AtomNetWmState,
		Data:       [5]uint32{netWmStateAdd},
		StateAtoms: []string{x11.AtomNetWmStateFullscreen},
	}
	if err := manager.handleEvent(msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	client, _ := s.Client(10)
	if !client.IsFullscreen() {
		t.Fatalf("expected client to be fullscreen")
	}
	if got := conn.moved[10]; got != conn.screens[0] {
		t.Fatalf("expected fullscreen geometry %v, got %v", conn.screens[0], got)
	}

	msg.Data[0] = netWmStateToggle
	if err := manager.handleEvent(msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.IsFullscreen() {
		t.Fatalf("expected toggle to leave fullscreen")
	}
}

func TestFocusInUnknownWindowRevertsFocus(t *testing.T) {
	conn := newFakeConn()
	manager := newTestWM(t, conn)

	if err := manager.handleEvent(x11.FocusInEvent{ID: 99}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conn.focused) == 0 || conn.focused[len(conn.focused)-1] != conn.root {
		t.Fatalf("expected focus reverted to root, got %v", conn.focused)
	}
}

func TestKeyPressDispatchesBoundHandler(t *testing.T) {
	conn := newFakeConn()
	key := x11.KeyCode{Mask: 0x40, Code: 44}

	var calls int
	keys := KeyBindings{
		key: func(s *State, x x11.Conn) error {
			calls++
			return nil
		},
	}

	cfg := DefaultConfig()
	cfg.Tags = []string{"1"}
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	manager, err := New(cfg, keys, nil, conn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := manager.handleEvent(x11.KeyPressEvent{Key: key}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected bound handler to run once, got %d", calls)
	}

	// Unbound keys are silently dropped.
	if err := manager.handleEvent(x11.KeyPressEvent{Key: x11.KeyCode{Code: 99}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected unbound key to be ignored")
	}
}

func TestExitActionSurfacesErrExit(t *testing.T) {
	conn := newFakeConn()
	manager := newTestWM(t, conn)

	err := Exit()(manager.State, conn)
	if !errors.Is(err, ErrExit) {
		t.Fatalf("expected ErrExit, got %v", err)
	}
}

func TestRandrNotifyRebuildsScreens(t *testing.T) {
	conn := newFakeConn()
	manager := newTestWM(t, conn)

	conn.screens = []x11.Rect{
		{Width: 800, Height: 600},
		{X: 800, Width: 800, Height: 600},
	}
	if err := manager.handleEvent(x11.RandrNotifyEvent{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(manager.State.ClientSet.Screens()); got != 2 {
		t.Fatalf("expected 2 screens after change, got %d", got)
	}
}

func TestIgnoredEventKindsAreNoOps(t *testing.T) {
	conn := newFakeConn()
	manager := newTestWM(t, conn)

	ignored := []x11.Event{
		x11.ConfigureNotifyEvent{ID: 10},
		x11.ConfigureRequestEvent{ID: 10},
		x11.ExposeEvent{ID: 10},
		x11.MappingNotifyEvent{},
		x11.PropertyNotifyEvent{ID: 10, Atom: "WM_NAME"},
	}
	for _, ev := range ignored {
		if err := manager.handleEvent(ev); err != nil {
			t.Fatalf("expected %s to be a no-op, got error %v", ev.Kind(), err)
		}
	}
	if len(conn.mapped) != 0 || len(conn.unmapped) != 0 || len(conn.moved) != 0 {
		t.Fatalf("expected no side effects from ignored events")
	}
}
