package stack

import (
	"github.com/perchwm/perch/internal/layout"
	"github.com/perchwm/perch/internal/x11"
)

// Snapshot is a point-in-time capture of the arrangement: what is visible,
// what is hidden, where focus sits, and where visible clients are placed.
type Snapshot struct {
	Focused   x11.Xid // zero when nothing is focused
	Visible   []x11.Xid
	Hidden    []x11.Xid
	Positions []layout.Placement
}

// Snapshot captures the current arrangement. positions is the set of
// placements computed for the visible workspaces (floating clients included).
func (ss *StackSet) Snapshot(positions []layout.Placement) Snapshot {
	var focused x11.Xid
	if id, ok := ss.FocusedClient(); ok {
		focused = id
	}
	return Snapshot{
		Focused:   focused,
		Visible:   ss.VisibleClients(),
		Hidden:    ss.HiddenClients(),
		Positions: positions,
	}
}

// Diff is the delta between two arrangement snapshots. Refresh logic uses it
// to issue the minimal set of map/unmap/position/focus updates.
type Diff struct {
	Before Snapshot
	After  Snapshot
}

// NewDiff pairs two snapshots.
func NewDiff(before, after Snapshot) Diff {
	return Diff{Before: before, After: after}
}

// NewlyVisible returns the clients visible now that were not visible before.
func (d Diff) NewlyVisible() []x11.Xid {
	return subtract(d.After.Visible, d.Before.Visible)
}

// NewlyHidden returns the clients visible before that are hidden now.
func (d Diff) NewlyHidden() []x11.Xid {
	before := subtract(d.Before.Visible, d.After.Visible)
	out := before[:0]
	after := toSet(d.After.Hidden)
	for _, id := range before {
		if after[id] {
			out = append(out, id)
		}
	}
	return out
}

// Withdrawn returns the clients tracked before that are gone entirely now.
func (d Diff) Withdrawn() []x11.Xid {
	tracked := toSet(d.After.Visible)
	for _, id := range d.After.Hidden {
		tracked[id] = true
	}
	var out []x11.Xid
	for _, id := range append(append([]x11.Xid(nil), d.Before.Visible...), d.Before.Hidden...) {
		if !tracked[id] {
			out = append(out, id)
		}
	}
	return out
}

// FocusChanged reports whether the focused client differs between snapshots.
func (d Diff) FocusChanged() bool {
	return d.Before.Focused != d.After.Focused
}

func toSet(ids []x11.Xid) map[x11.Xid]bool {
	set := make(map[x11.Xid]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func subtract(a, b []x11.Xid) []x11.Xid {
	drop := toSet(b)
	var out []x11.Xid
	for _, id := range a {
		if !drop[id] {
			out = append(out, id)
		}
	}
	return out
}
