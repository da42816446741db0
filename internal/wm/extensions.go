package wm

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
)

// ErrUnknownExtension is returned when no extension of the requested type has
// been added to the state.
var ErrUnknownExtension = errors.New("unknown state extension")

// cell is one registered extension value. Handles share the cell, so a
// mutation through any handle is visible through all of them. refs counts
// the registry's own reference plus every handle not yet released.
type cell struct {
	mu   sync.Mutex
	refs atomic.Int32
	val  any
}

// Shared is a handle onto a state extension of type E. Handles are cheap and
// may be held by independent subsystems; the underlying value is shared.
//
// Access through a handle is runtime checked: reading or updating while
// another update is in progress panics rather than silently interleaving.
// Call Release when a handle is no longer needed so that RemoveExtension can
// detach the value.
type Shared[E any] struct {
	c *cell
}

// Get returns a copy of the current value.
func (s *Shared[E]) Get() E {
	if !s.c.mu.TryLock() {
		panic("state extension accessed while an update is in progress")
	}
	defer s.c.mu.Unlock()
	return s.c.val.(E)
}

// Set replaces the value, observable through every handle to this extension.
func (s *Shared[E]) Set(v E) {
	if !s.c.mu.TryLock() {
		panic("state extension mutated while an update is in progress")
	}
	defer s.c.mu.Unlock()
	s.c.val = v
}

// Update applies fn to the current value, storing the result. Calling Get,
// Set or Update from within fn panics: updates are exclusive.
func (s *Shared[E]) Update(fn func(E) E) {
	if !s.c.mu.TryLock() {
		panic("state extension mutated while an update is in progress")
	}
	defer s.c.mu.Unlock()
	s.c.val = fn(s.c.val.(E))
}

// Release drops this handle's claim on the extension. Using the handle after
// releasing it is a bug; Release exists so RemoveExtension can tell whether
// anyone else is still holding on to the value.
func (s *Shared[E]) Release() {
	s.c.refs.Add(-1)
}

func extensionType[E any]() reflect.Type {
	return reflect.TypeOf((*E)(nil)).Elem()
}

// AddExtension adds (or replaces) the typed state extension of type E,
// wrapped in a fresh shared cell. Handles onto a replaced extension keep the
// old value.
func AddExtension[E any](s *State, v E) {
	c := &cell{val: v}
	c.refs.Store(1) // the registry's own reference
	s.extensions[extensionType[E]()] = c
}

// Extension returns a shared handle onto the state extension of type E, or
// ErrUnknownExtension if none was added.
func Extension[E any](s *State) (*Shared[E], error) {
	c, ok := s.extensions[extensionType[E]()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownExtension, extensionType[E]())
	}
	c.refs.Add(1)
	return &Shared[E]{c: c}, nil
}

// ExtensionOrDefault returns a shared handle onto the state extension of
// type E, first inserting E's zero value if no instance exists. It never
// fails and never constructs more than one default.
func ExtensionOrDefault[E any](s *State) *Shared[E] {
	if _, ok := s.extensions[extensionType[E]()]; !ok {
		var zero E
		AddExtension(s, zero)
	}
	h, err := Extension[E](s)
	if err != nil {
		// Unreachable: the extension was just inserted.
		panic(err)
	}
	return h
}

// RemoveExtension detaches and returns the extension of type E. It succeeds
// only when the registry holds the sole remaining reference: if any handle
// is still outstanding the value stays registered and ok is false.
func RemoveExtension[E any](s *State) (v E, ok bool) {
	t := extensionType[E]()
	c, present := s.extensions[t]
	if !present {
		return v, false
	}

	delete(s.extensions, t)
	if c.refs.Load() != 1 {
		s.extensions[t] = c
		return v, false
	}
	return c.val.(E), true
}
