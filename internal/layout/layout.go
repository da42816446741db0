// Package layout holds the pure geometry algorithms that position tiled
// windows within a screen. Layouts never talk to the X server: they map an
// ordered set of window ids onto screen regions and nothing else.
package layout

import (
	"fmt"
	"math"

	"github.com/perchwm/perch/internal/x11"
)

// Placement assigns one window a region on screen.
type Placement struct {
	ID x11.Xid
	R  x11.Rect
}

// Layout computes placements for the windows of one workspace.
type Layout interface {
	// Name identifies the layout in logs and status output.
	Name() string
	// Arrange positions ids (focus order, focused first) within screen.
	Arrange(ids []x11.Xid, screen x11.Rect) []Placement
}

// Grid tiles windows into a near square grid with a uniform gap.
type Grid struct {
	Gap int
}

// Name implements Layout.
func (g Grid) Name() string { return "grid" }

// Arrange implements Layout.
func (g Grid) Arrange(ids []x11.Xid, screen x11.Rect) []Placement {
	n := len(ids)
	if n == 0 {
		return nil
	}

	// Columns first (ceiling of square root), then the rows needed.
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := int(math.Ceil(float64(n) / float64(cols)))

	cellWidth := (screen.Width - (cols+1)*g.Gap) / cols
	cellHeight := (screen.Height - (rows+1)*g.Gap) / rows
	if cellWidth < 1 {
		cellWidth = 1
	}
	if cellHeight < 1 {
		cellHeight = 1
	}

	placements := make([]Placement, n)
	for i, id := range ids {
		row := i / cols
		col := i % cols
		placements[i] = Placement{
			ID: id,
			R: x11.Rect{
				X:      screen.X + g.Gap + col*(cellWidth+g.Gap),
				Y:      screen.Y + g.Gap + row*(cellHeight+g.Gap),
				Width:  cellWidth,
				Height: cellHeight,
			},
		}
	}

	return placements
}

// MainAndStack gives the focused window a master pane on the left and stacks
// the remaining windows in a single column on the right.
type MainAndStack struct {
	// MainPercent is the width of the master pane as a percentage of the
	// screen. Values outside (0,100) fall back to 60.
	MainPercent int
	Gap         int
}

// Name implements Layout.
func (m MainAndStack) Name() string { return "main-stack" }

// Arrange implements Layout.
func (m MainAndStack) Arrange(ids []x11.Xid, screen x11.Rect) []Placement {
	n := len(ids)
	if n == 0 {
		return nil
	}

	percent := m.MainPercent
	if percent <= 0 || percent >= 100 {
		percent = 60
	}

	mainWidth := screen.Width*percent/100 - m.Gap
	if n == 1 {
		mainWidth = screen.Width - 2*m.Gap
	}

	placements := make([]Placement, 0, n)
	placements = append(placements, Placement{
		ID: ids[0],
		R: x11.Rect{
			X:      screen.X + m.Gap,
			Y:      screen.Y + m.Gap,
			Width:  clampDim(mainWidth),
			Height: clampDim(screen.Height - 2*m.Gap),
		},
	})
	if n == 1 {
		return placements
	}

	stackX := screen.X + mainWidth + 2*m.Gap
	stackWidth := screen.Width - mainWidth - 3*m.Gap
	stackCount := n - 1
	cellHeight := (screen.Height - (stackCount+1)*m.Gap) / stackCount

	for i, id := range ids[1:] {
		placements = append(placements, Placement{
			ID: id,
			R: x11.Rect{
				X:      stackX,
				Y:      screen.Y + m.Gap + i*(cellHeight+m.Gap),
				Width:  clampDim(stackWidth),
				Height: clampDim(cellHeight),
			},
		})
	}

	return placements
}

func clampDim(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

// Stack is an ordered set of layouts with one current selection. Each
// workspace owns its own Stack so layouts can be switched per workspace.
type Stack struct {
	layouts []Layout
	current int
}

// NewStack builds a layout stack from one or more layouts.
func NewStack(layouts ...Layout) (*Stack, error) {
	if len(layouts) == 0 {
		return nil, fmt.Errorf("a layout stack requires at least one layout")
	}
	return &Stack{layouts: layouts}, nil
}

// Current returns the active layout.
func (s *Stack) Current() Layout {
	return s.layouts[s.current]
}

// Next rotates to the following layout and returns it.
func (s *Stack) Next() Layout {
	s.current = (s.current + 1) % len(s.layouts)
	return s.layouts[s.current]
}

// Clone returns an independent copy sharing the (stateless) layout values.
func (s *Stack) Clone() *Stack {
	layouts := make([]Layout, len(s.layouts))
	copy(layouts, s.layouts)
	return &Stack{layouts: layouts, current: s.current}
}
