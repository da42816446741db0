package stack

import (
	"testing"

	"github.com/perchwm/perch/internal/x11"
)

func TestDiffNewlyVisibleAndHidden(t *testing.T) {
	before := Snapshot{
		Focused: 1,
		Visible: []x11.Xid{1, 2},
		Hidden:  []x11.Xid{3},
	}
	after := Snapshot{
		Focused: 3,
		Visible: []x11.Xid{1, 3},
		Hidden:  []x11.Xid{2},
	}
	d := NewDiff(before, after)

	nv := d.NewlyVisible()
	if len(nv) != 1 || nv[0] != 3 {
		t.Fatalf("expected newly visible [3], got %v", nv)
	}
	nh := d.NewlyHidden()
	if len(nh) != 1 || nh[0] != 2 {
		t.Fatalf("expected newly hidden [2], got %v", nh)
	}
	if !d.FocusChanged() {
		t.Fatalf("expected focus change to be reported")
	}
}

func TestDiffWithdrawnExcludesHidden(t *testing.T) {
	before := Snapshot{Visible: []x11.Xid{1, 2}, Hidden: []x11.Xid{3}}
	after := Snapshot{Visible: []x11.Xid{1}, Hidden: []x11.Xid{3}}
	d := NewDiff(before, after)

	// 2 is gone entirely; it must not appear as newly hidden.
	w := d.Withdrawn()
	if len(w) != 1 || w[0] != 2 {
		t.Fatalf("expected withdrawn [2], got %v", w)
	}
	if nh := d.NewlyHidden(); len(nh) != 0 {
		t.Fatalf("expected no newly hidden clients, got %v", nh)
	}
}

func TestSnapshotCapturesFocusAndVisibility(t *testing.T) {
	ss := testSet(t, []string{"1", "2"}, 1)
	if err := ss.Insert(10, "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ss.Insert(20, "2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := ss.Snapshot(nil)
	if snap.Focused != 10 {
		t.Fatalf("expected focused 10, got %v", snap.Focused)
	}
	if len(snap.Visible) != 1 || snap.Visible[0] != 10 {
		t.Fatalf("expected visible [10], got %v", snap.Visible)
	}
	if len(snap.Hidden) != 1 || snap.Hidden[0] != 20 {
		t.Fatalf("expected hidden [20], got %v", snap.Hidden)
	}
}
