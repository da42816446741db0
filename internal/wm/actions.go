package wm

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/perchwm/perch/internal/stack"
	"github.com/perchwm/perch/internal/x11"
)

// Actions usable as key binding handlers. Most of them funnel through
// Modify: mutate the arrangement, then refresh the screen to match.

// Modify applies fn to the client set and refreshes.
func Modify(fn func(cs *stack.StackSet), s *State, x x11.Conn) error {
	fn(s.ClientSet)
	return refresh(s, x)
}

// FocusNextClient moves focus to the next client on the current workspace.
func FocusNextClient(s *State, x x11.Conn) error {
	return Modify(func(cs *stack.StackSet) {
		cs.CurrentWorkspace().Clients.FocusNext()
	}, s, x)
}

// FocusPrevClient moves focus to the previous client on the current workspace.
func FocusPrevClient(s *State, x x11.Conn) error {
	return Modify(func(cs *stack.StackSet) {
		cs.CurrentWorkspace().Clients.FocusPrev()
	}, s, x)
}

// SwapFocusedWithMain swaps the focused client with the head of the stack,
// which the main-and-stack layout places in the main pane.
func SwapFocusedWithMain(s *State, x x11.Conn) error {
	return Modify(func(cs *stack.StackSet) {
		cs.CurrentWorkspace().Clients.SwapFocusedWithHead()
	}, s, x)
}

// NextLayout cycles the current workspace to its next layout.
func NextLayout(s *State, x x11.Conn) error {
	return Modify(func(cs *stack.StackSet) {
		cs.CurrentWorkspace().Layouts.Next()
	}, s, x)
}

// FocusWorkspace returns a handler that shows the tagged workspace on the
// current screen.
func FocusWorkspace(tag string) KeyHandler {
	return func(s *State, x x11.Conn) error {
		return Modify(func(cs *stack.StackSet) {
			cs.FocusTag(tag)
		}, s, x)
	}
}

// MoveFocusedToWorkspace returns a handler that sends the focused client to
// the tagged workspace.
func MoveFocusedToWorkspace(tag string) KeyHandler {
	return func(s *State, x x11.Conn) error {
		id, ok := s.ClientSet.FocusedClient()
		if !ok {
			return nil
		}
		if err := s.ClientSet.MoveClientToTag(id, tag); err != nil {
			return err
		}
		if client, ok := s.Client(id); ok {
			if ws, found := s.ClientSet.WorkspaceForTag(tag); found {
				client.SetWorkspace(ws.ID)
			}
		}
		return refresh(s, x)
	}
}

// ToggleFloating toggles the focused client between floating and tiled.
func ToggleFloating(s *State, x x11.Conn) error {
	id, ok := s.ClientSet.FocusedClient()
	if !ok {
		return nil
	}
	if client, ok := s.Client(id); ok {
		client.SetFloating(!client.IsFloating())
	}
	return refresh(s, x)
}

// ToggleFullscreen toggles the focused client in and out of fullscreen.
func ToggleFullscreen(s *State, x x11.Conn) error {
	id, ok := s.ClientSet.FocusedClient()
	if !ok {
		return nil
	}
	return setFullscreen(id, netWmStateToggle, s, x)
}

// KillFocused asks the focused client to close.
func KillFocused(s *State, x x11.Conn) error {
	id, ok := s.ClientSet.FocusedClient()
	if !ok {
		return nil
	}
	return x.KillWindow(id)
}

// Spawn returns a handler that starts the given command line detached from
// the manager. The SIGCHLD disposition installed at startup means the child
// never needs reaping.
func Spawn(cmdline string) KeyHandler {
	return func(s *State, x x11.Conn) error {
		parts := strings.Fields(cmdline)
		if len(parts) == 0 {
			return fmt.Errorf("empty spawn command")
		}
		cmd := exec.Command(parts[0], parts[1:]...)
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("failed to spawn %q: %w", cmdline, err)
		}
		s.Logger().Debug("spawned process", "command", cmdline, "pid", cmd.Process.Pid)
		return nil
	}
}

// Exit returns a handler that stops the event loop by returning ErrExit.
func Exit() KeyHandler {
	return func(s *State, x x11.Conn) error {
		return ErrExit
	}
}
