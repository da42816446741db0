// Package stack is the pure client arrangement model: workspaces, screens and
// focus order, with no connection to the X server. Everything here is plain
// data manipulated synchronously by the window manager core.
package stack

import "github.com/perchwm/perch/internal/x11"

// Stack is an ordered set of window ids with one focused element. The zero
// value is an empty stack.
type Stack struct {
	ids   []x11.Xid
	focus int
}

// Len returns the number of ids in the stack.
func (s *Stack) Len() int {
	return len(s.ids)
}

// Slice returns the ids in stack order. The returned slice is a copy.
func (s *Stack) Slice() []x11.Xid {
	out := make([]x11.Xid, len(s.ids))
	copy(out, s.ids)
	return out
}

// Focused returns the focused id, if any.
func (s *Stack) Focused() (x11.Xid, bool) {
	if len(s.ids) == 0 {
		return 0, false
	}
	return s.ids[s.focus], true
}

// Contains reports whether id is in the stack.
func (s *Stack) Contains(id x11.Xid) bool {
	for _, x := range s.ids {
		if x == id {
			return true
		}
	}
	return false
}

// Insert adds id directly after the current focus position and focuses it.
// Inserting an id already present only moves focus to it.
func (s *Stack) Insert(id x11.Xid) {
	if s.FocusOn(id) {
		return
	}
	if len(s.ids) == 0 {
		s.ids = []x11.Xid{id}
		s.focus = 0
		return
	}
	at := s.focus + 1
	s.ids = append(s.ids[:at], append([]x11.Xid{id}, s.ids[at:]...)...)
	s.focus = at
}

// Remove deletes id from the stack, reporting whether it was present. Focus
// moves to the previous element when the focused id is removed.
func (s *Stack) Remove(id x11.Xid) bool {
	for i, x := range s.ids {
		if x != id {
			continue
		}
		s.ids = append(s.ids[:i], s.ids[i+1:]...)
		if s.focus >= i && s.focus > 0 {
			s.focus--
		}
		return true
	}
	return false
}

// FocusOn moves focus to id, reporting whether it was present.
func (s *Stack) FocusOn(id x11.Xid) bool {
	for i, x := range s.ids {
		if x == id {
			s.focus = i
			return true
		}
	}
	return false
}

// FocusNext advances focus to the following id, wrapping at the end.
func (s *Stack) FocusNext() {
	if len(s.ids) > 0 {
		s.focus = (s.focus + 1) % len(s.ids)
	}
}

// FocusPrev moves focus to the preceding id, wrapping at the start.
func (s *Stack) FocusPrev() {
	if len(s.ids) > 0 {
		s.focus = (s.focus - 1 + len(s.ids)) % len(s.ids)
	}
}

// SwapFocusedWithHead exchanges the focused id with the head of the stack
// (the master position for layouts that treat the head specially).
func (s *Stack) SwapFocusedWithHead() {
	if len(s.ids) < 2 {
		return
	}
	s.ids[0], s.ids[s.focus] = s.ids[s.focus], s.ids[0]
	s.focus = 0
}
