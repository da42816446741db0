package wm

import (
	"errors"

	"github.com/perchwm/perch/internal/x11"
)

// StateHook is a user callback run at a lifecycle point that has no event or
// window attached: startup and refresh.
type StateHook interface {
	Call(s *State, x x11.Conn) error
}

// StateHookFunc adapts a plain function to the StateHook interface.
type StateHookFunc func(s *State, x x11.Conn) error

// Call implements StateHook.
func (f StateHookFunc) Call(s *State, x x11.Conn) error {
	return f(s, x)
}

// EventHook is a user callback run before the default handling of every
// event. Returning false vetoes default handling for that event only. An
// error is logged and treated as "run normally".
type EventHook interface {
	Call(ev x11.Event, s *State, x x11.Conn) (bool, error)
}

// EventHookFunc adapts a plain function to the EventHook interface.
type EventHookFunc func(ev x11.Event, s *State, x x11.Conn) (bool, error)

// Call implements EventHook.
func (f EventHookFunc) Call(ev x11.Event, s *State, x x11.Conn) (bool, error) {
	return f(ev, s, x)
}

// ManageHook is a user callback run after a new window becomes managed.
type ManageHook interface {
	Call(id x11.Xid, s *State, x x11.Conn) error
}

// ManageHookFunc adapts a plain function to the ManageHook interface.
type ManageHookFunc func(id x11.Xid, s *State, x x11.Conn) error

// Call implements ManageHook.
func (f ManageHookFunc) Call(id x11.Xid, s *State, x x11.Conn) error {
	return f(id, s, x)
}

// Hook chains are built by nesting: composing h onto an existing chain makes
// h run first, then the previous chain. Every hook in a chain runs exactly
// once per invocation, even when an earlier hook fails.

type composedStateHook struct {
	first, then StateHook
}

func (c composedStateHook) Call(s *State, x x11.Conn) error {
	return errors.Join(c.first.Call(s, x), c.then.Call(s, x))
}

type composedManageHook struct {
	first, then ManageHook
}

func (c composedManageHook) Call(id x11.Xid, s *State, x x11.Conn) error {
	return errors.Join(c.first.Call(id, s, x), c.then.Call(id, s, x))
}

type composedEventHook struct {
	first, then EventHook
}

func (c composedEventHook) Call(ev x11.Event, s *State, x x11.Conn) (bool, error) {
	// Both hooks always run; a failing hook contributes "run normally".
	a := runEventHook(c.first, ev, s, x)
	b := runEventHook(c.then, ev, s, x)
	return a && b, nil
}

// runEventHook invokes one event hook, folding an error into the documented
// "logged and treated as true" behavior.
func runEventHook(h EventHook, ev x11.Event, s *State, x x11.Conn) bool {
	ok, err := h.Call(ev, s, x)
	if err != nil {
		s.Logger().Error("error returned from user event hook", "event", ev.Kind(), "error", err)
		return true
	}
	return ok
}
