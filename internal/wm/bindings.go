package wm

import "github.com/perchwm/perch/internal/x11"

// KeyHandler runs in response to a grabbed key press.
type KeyHandler func(s *State, x x11.Conn) error

// MouseHandler runs in response to a grabbed mouse interaction.
type MouseHandler func(ev x11.MouseEvent, s *State, x x11.Conn) error

// KeyBindings maps grabbed key presses to their handlers. The table is built
// before startup and grabbed on the root window as part of Run.
type KeyBindings map[x11.KeyCode]KeyHandler

// MouseBindings maps grabbed button states to their handlers. Handlers fire
// on button press; release and motion events are delivered but unbound
// states are ignored.
type MouseBindings map[x11.MouseState]MouseHandler
