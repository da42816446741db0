// Package wm is the control core of the window manager: one single threaded
// reactor pulls X events, routes them through user composed hook chains and
// dispatches them to handlers that mutate the shared runtime state.
package wm

import (
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"reflect"
	"syscall"

	"github.com/perchwm/perch/internal/stack"
	"github.com/perchwm/perch/internal/x11"
)

// WindowManager holds everything required to run as an X11 window manager:
// the connection, the binding tables and the mutable runtime State. Final
// configuration (extensions, hook composition) happens between New and Run.
type WindowManager struct {
	x x11.Conn
	// State is the mutable runtime state of the window manager.
	State *State

	keyBindings   KeyBindings
	mouseBindings MouseBindings
	logger        *slog.Logger
}

// New constructs a WindowManager from a config, binding tables and an X
// connection. The initial workspace arrangement is built from the configured
// layouts and tags against the live screen geometry; failure here is fatal
// since there is no valid state to run with.
func New(cfg *Config, keys KeyBindings, mouse MouseBindings, x x11.Conn) (*WindowManager, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	screens, err := x.ScreenDetails()
	if err != nil {
		return nil, fmt.Errorf("failed to detect screens: %w", err)
	}

	clientSet, err := stack.New(cfg.DefaultLayouts, cfg.Tags, screens)
	if err != nil {
		return nil, fmt.Errorf("failed to build initial workspace state: %w", err)
	}

	snapshot := clientSet.Snapshot(nil)
	state := &State{
		Config:       cfg,
		ClientSet:    clientSet,
		clients:      make(map[x11.Xid]*Client),
		extensions:   make(map[reflect.Type]*cell),
		root:         x.Root(),
		mapped:       make(map[x11.Xid]bool),
		pendingUnmap: make(map[x11.Xid]int),
		diff:         stack.NewDiff(snapshot, snapshot),
	}

	return &WindowManager{
		x:             x,
		State:         state,
		keyBindings:   keys,
		mouseBindings: mouse,
		logger:        cfg.Logger,
	}, nil
}

// Run starts the window manager and runs it until a handler or hook requests
// shutdown by returning ErrExit.
//
// The startup sequence is: ignore SIGCHLD (process wide, so spawned programs
// never need reaping), grab the binding tables, run the startup hook chain,
// adopt pre-existing clients. Only then does the event loop begin. Errors
// before the loop are fatal; once the loop is running every error is logged
// and the loop continues.
func (wm *WindowManager) Run() error {
	wm.logger.Info("installing SIGCHLD disposition")
	signal.Ignore(syscall.SIGCHLD)

	if err := wm.grab(); err != nil {
		return fmt.Errorf("failed to grab bindings: %w", err)
	}

	if h := wm.State.Config.StartupHook; h != nil {
		wm.logger.Debug("running user startup hook")
		if err := h.Call(wm.State, wm.x); err != nil {
			wm.logger.Error("error returned from user startup hook", "error", err)
		}
	}

	if err := wm.manageExistingClients(); err != nil {
		return fmt.Errorf("failed to manage existing clients: %w", err)
	}

	for {
		event, err := wm.x.NextEvent()
		if err != nil {
			wm.logger.Error("error pulling next X event", "error", err)
			continue
		}

		wm.State.currentEvent = event
		if err := wm.handleEvent(event); err != nil {
			if errors.Is(err, ErrExit) {
				wm.logger.Info("exit requested, shutting down")
				return nil
			}
			wm.logger.Error("error handling event", "event", event.Kind(), "error", err)
		}
		wm.x.Flush()
		wm.State.currentEvent = nil
	}
}

// ErrExit, returned from a handler or hook, shuts the event loop down
// cleanly instead of being logged as a failure.
var ErrExit = errors.New("exit requested")

// grab registers all configured key and mouse bindings with the X server.
func (wm *WindowManager) grab() error {
	wm.logger.Debug("grabbing key and mouse bindings",
		"keys", len(wm.keyBindings), "buttons", len(wm.mouseBindings))

	keys := make([]x11.KeyCode, 0, len(wm.keyBindings))
	for k := range wm.keyBindings {
		keys = append(keys, k)
	}
	mouse := make([]x11.MouseState, 0, len(wm.mouseBindings))
	for m := range wm.mouseBindings {
		mouse = append(mouse, m)
	}

	return wm.x.Grab(keys, mouse)
}

// handleEvent runs the event hook chain and then dispatches the event to
// exactly one handler, selected by kind. Several kinds are deliberately
// ignored.
func (wm *WindowManager) handleEvent(event x11.Event) error {
	s, x := wm.State, wm.x

	if h := s.Config.EventHook; h != nil {
		wm.logger.Debug("running user event hook", "event", event.Kind())
		if !runEventHook(h, event, s, x) {
			wm.logger.Debug("user event hook vetoed default handling", "event", event.Kind())
			return nil
		}
	}

	switch e := event.(type) {
	case x11.ClientMessageEvent:
		return handleClientMessage(e, s, x)
	case x11.ConfigureNotifyEvent:
		if e.IsRoot {
			return detectScreens(s, x)
		}
		return nil // not currently handled
	case x11.ConfigureRequestEvent:
		return nil // not currently handled
	case x11.EnterEvent:
		return handleEnter(e.P, s, x)
	case x11.LeaveEvent:
		return handleLeave(e.P, s, x)
	case x11.ExposeEvent:
		return nil // not currently handled
	case x11.FocusInEvent:
		return handleFocusIn(e.ID, s, x)
	case x11.DestroyEvent:
		return handleDestroy(e.ID, s, x)
	case x11.KeyPressEvent:
		return handleKeyPress(e.Key, wm.keyBindings, s, x)
	case x11.MappingNotifyEvent:
		return nil // not currently handled
	case x11.MapRequestEvent:
		return handleMapRequest(e.ID, s, x)
	case x11.MouseEvent:
		return handleMouseEvent(e, wm.mouseBindings, s, x)
	case x11.PropertyNotifyEvent:
		return nil // not currently handled
	case x11.RandrNotifyEvent:
		return detectScreens(s, x)
	case x11.ScreenChangeEvent:
		return handleScreenChange(s, x)
	case x11.UnmapNotifyEvent:
		return handleUnmapNotify(e.ID, s, x)
	}

	return nil
}

// manageExistingClients is a best effort attempt, at startup only, to adopt
// windows that existed before we started managing the display (e.g. after a
// manager restart) onto the workspaces they were on previously. Stacking
// order and visibility from the prior session are not preserved.
//
// Clients already present in the client set are skipped in case a startup
// hook pre-managed them: we must not stomp on anything it set up.
func (wm *WindowManager) manageExistingClients() error {
	s, x := wm.State, wm.x
	wm.logger.Info("managing existing clients")

	// Workspace indices are not guaranteed to stay continuous from 0..n, so
	// map indices to tags explicitly instead of indexing.
	wsMap := make(map[int]string)
	for _, ws := range s.ClientSet.Workspaces() {
		wsMap[ws.ID] = ws.Tag
	}
	firstTag := s.ClientSet.OrderedTags()[0]

	ids, err := x.ExistingClients()
	if err != nil {
		return fmt.Errorf("failed to list existing clients: %w", err)
	}

	for _, id := range ids {
		if s.ClientSet.Contains(id) {
			continue
		}
		attrs, err := x.WindowAttributes(id)
		if err != nil {
			// The window may already be gone; adoption is best effort.
			wm.logger.Debug("skipping window with unreadable attributes", "id", id, "error", err)
			continue
		}
		if attrs.OverrideRedirect {
			continue
		}

		wm.logger.Info("attempting to manage existing client", "id", id)

		workspaceID := 0
		if p, err := x.Prop(id, x11.AtomNetWmDesktop); err == nil {
			if cards, ok := p.(x11.CardinalProp); ok && len(cards) > 0 {
				workspaceID = int(cards[0])
			}
		}

		tag, ok := wsMap[workspaceID]
		if !ok {
			tag = firstTag
		}
		if err := manageWithoutRefresh(id, tag, s, x); err != nil {
			return err
		}
	}

	wm.logger.Info("triggering refresh")
	return refresh(s, x)
}
