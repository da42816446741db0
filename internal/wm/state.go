package wm

import (
	"log/slog"
	"reflect"

	"github.com/perchwm/perch/internal/stack"
	"github.com/perchwm/perch/internal/x11"
)

// State is the mutable runtime state of the window manager. It is owned by
// the reactor and threaded by pointer into every hook and handler; the
// extension registry is the only part offering shared access.
type State struct {
	// Config holds the user defined options for the running manager.
	Config *Config
	// ClientSet is the pure arrangement state for all managed clients.
	ClientSet *stack.StackSet

	clients      map[x11.Xid]*Client
	extensions   map[reflect.Type]*cell
	root         x11.Xid
	mapped       map[x11.Xid]bool
	pendingUnmap map[x11.Xid]int
	currentEvent x11.Event
	diff         stack.Diff
}

// Root returns the Xid of the root window.
func (s *State) Root() x11.Xid {
	return s.root
}

// Client returns the metadata record for a tracked window.
func (s *State) Client(id x11.Xid) (*Client, bool) {
	c, ok := s.clients[id]
	return c, ok
}

// MappedClients returns the ids of all client windows currently mapped to a
// screen.
func (s *State) MappedClients() []x11.Xid {
	out := make([]x11.Xid, 0, len(s.mapped))
	for id := range s.mapped {
		out = append(out, id)
	}
	return out
}

// CurrentEvent returns the event presently being processed, or nil between
// events.
func (s *State) CurrentEvent() x11.Event {
	return s.currentEvent
}

// Diff returns the delta between the previous and current arrangement
// snapshots, as computed by the last refresh.
func (s *State) Diff() stack.Diff {
	return s.diff
}

// Logger returns the configured logger, falling back to slog.Default().
func (s *State) Logger() *slog.Logger {
	if s.Config != nil && s.Config.Logger != nil {
		return s.Config.Logger
	}
	return slog.Default()
}
