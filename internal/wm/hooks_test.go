package wm

import (
	"fmt"
	"testing"

	"github.com/perchwm/perch/internal/x11"
)

func recordingHook(order *[]string, name string) StateHook {
	return StateHookFunc(func(s *State, x x11.Conn) error {
		*order = append(*order, name)
		return nil
	})
}

func TestComposedHooksRunNewestFirst(t *testing.T) {
	var order []string
	cfg := &Config{}
	cfg.ComposeOrSetStartupHook(recordingHook(&order, "a"))
	cfg.ComposeOrSetStartupHook(recordingHook(&order, "b"))
	cfg.ComposeOrSetStartupHook(recordingHook(&order, "c"))

	if err := cfg.StartupHook.Call(&State{}, newFakeConn()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"c", "b", "a"}
	if len(order) != len(want) {
		t.Fatalf("expected %d hook runs, got %v", len(want), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestComposedHooksAllRunDespiteErrors(t *testing.T) {
	var order []string
	failing := StateHookFunc(func(s *State, x x11.Conn) error {
		order = append(order, "failing")
		return fmt.Errorf("boom")
	})

	cfg := &Config{}
	cfg.ComposeOrSetRefreshHook(recordingHook(&order, "a"))
	cfg.ComposeOrSetRefreshHook(failing)
	cfg.ComposeOrSetRefreshHook(recordingHook(&order, "b"))

	err := cfg.RefreshHook.Call(&State{}, newFakeConn())
	if err == nil {
		t.Fatalf("expected the composed error to surface")
	}
	if len(order) != 3 {
		t.Fatalf("expected every hook to run exactly once, got %v", order)
	}
}

func TestComposedManageHooksAllRun(t *testing.T) {
	var calls int
	hook := ManageHookFunc(func(id x11.Xid, s *State, x x11.Conn) error {
		calls++
		return fmt.Errorf("fail %d", calls)
	})

	cfg := &Config{}
	cfg.ComposeOrSetManageHook(hook)
	cfg.ComposeOrSetManageHook(hook)

	if err := cfg.ManageHook.Call(42, &State{}, newFakeConn()); err == nil {
		t.Fatalf("expected joined errors")
	}
	if calls != 2 {
		t.Fatalf("expected both manage hooks to run, got %d calls", calls)
	}
}

func TestComposedEventHookVetoWins(t *testing.T) {
	allow := EventHookFunc(func(ev x11.Event, s *State, x x11.Conn) (bool, error) {
		return true, nil
	})
	veto := EventHookFunc(func(ev x11.Event, s *State, x x11.Conn) (bool, error) {
		return false, nil
	})

	cfg := &Config{}
	cfg.ComposeOrSetEventHook(allow)
	cfg.ComposeOrSetEventHook(veto)
	cfg.ComposeOrSetEventHook(allow)

	ok, err := cfg.EventHook.Call(x11.ExposeEvent{}, &State{}, newFakeConn())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected a single veto to suppress default handling")
	}
}

func TestEventHookErrorMeansRunNormally(t *testing.T) {
	failing := EventHookFunc(func(ev x11.Event, s *State, x x11.Conn) (bool, error) {
		return false, fmt.Errorf("boom")
	})

	if !runEventHook(failing, x11.ExposeEvent{}, &State{}, newFakeConn()) {
		t.Fatalf("expected a failing event hook to be treated as true")
	}
}

func TestComposedEventHookBothRunAfterVeto(t *testing.T) {
	var calls int
	counting := EventHookFunc(func(ev x11.Event, s *State, x x11.Conn) (bool, error) {
		calls++
		return false, nil
	})

	cfg := &Config{}
	cfg.ComposeOrSetEventHook(counting)
	cfg.ComposeOrSetEventHook(counting)

	if _, err := cfg.EventHook.Call(x11.ExposeEvent{}, &State{}, newFakeConn()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected both event hooks to run even after a veto, got %d", calls)
	}
}
