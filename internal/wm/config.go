package wm

import (
	"log/slog"

	"github.com/perchwm/perch/internal/layout"
)

// Config holds the user specified options for how the window manager should
// run. It is fixed for the lifetime of a Run call; the hook slots are the
// extension points for behavior that changes at runtime.
type Config struct {
	// NormalBorder is the border pixel for unfocused windows.
	NormalBorder uint32
	// FocusedBorder is the border pixel for the focused window.
	FocusedBorder uint32
	// BorderWidth is the window border width in pixels.
	BorderWidth uint32
	// FocusFollowMouse makes the pointer entering a window set focus.
	FocusFollowMouse bool
	// DefaultLayouts is the layout stack each workspace starts with.
	DefaultLayouts *layout.Stack
	// Tags is the ordered set of workspace tags to use on startup.
	Tags []string
	// FloatingClasses are window classes always given floating positions.
	FloatingClasses []string

	// StartupHook runs once before entering the main event loop.
	StartupHook StateHook
	// EventHook runs before the default handling of every event.
	EventHook EventHook
	// ManageHook runs after each new window becomes managed.
	ManageHook ManageHook
	// RefreshHook runs every time the on screen state is refreshed.
	RefreshHook StateHook

	// Logger receives structured log output. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a workable configuration: nine workspaces, a
// main-and-stack / grid layout rotation and gruvbox-ish borders.
func DefaultConfig() *Config {
	layouts, err := layout.NewStack(
		layout.MainAndStack{MainPercent: 60, Gap: 4},
		layout.Grid{Gap: 4},
	)
	if err != nil {
		// Unreachable: the stack is built from two layouts.
		panic(err)
	}

	return &Config{
		NormalBorder:     0x3c3836,
		FocusedBorder:    0xcc241d,
		BorderWidth:      2,
		FocusFollowMouse: true,
		DefaultLayouts:   layouts,
		Tags:             []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"},
		FloatingClasses:  []string{"dmenu", "dunst"},
		Logger:           slog.Default(),
	}
}

// ComposeOrSetStartupHook sets the startup hook or composes it with what is
// already set. The new hook runs before what was there before.
func (c *Config) ComposeOrSetStartupHook(h StateHook) {
	if c.StartupHook == nil {
		c.StartupHook = h
		return
	}
	c.StartupHook = composedStateHook{first: h, then: c.StartupHook}
}

// ComposeOrSetEventHook sets the event hook or composes it with what is
// already set. The new hook runs before what was there before.
func (c *Config) ComposeOrSetEventHook(h EventHook) {
	if c.EventHook == nil {
		c.EventHook = h
		return
	}
	c.EventHook = composedEventHook{first: h, then: c.EventHook}
}

// ComposeOrSetManageHook sets the manage hook or composes it with what is
// already set. The new hook runs before what was there before.
func (c *Config) ComposeOrSetManageHook(h ManageHook) {
	if c.ManageHook == nil {
		c.ManageHook = h
		return
	}
	c.ManageHook = composedManageHook{first: h, then: c.ManageHook}
}

// ComposeOrSetRefreshHook sets the refresh hook or composes it with what is
// already set. The new hook runs before what was there before.
func (c *Config) ComposeOrSetRefreshHook(h StateHook) {
	if c.RefreshHook == nil {
		c.RefreshHook = h
		return
	}
	c.RefreshHook = composedStateHook{first: h, then: c.RefreshHook}
}
