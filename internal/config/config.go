// Package config loads the user configuration file and turns it into the
// runtime options the window manager core consumes.
package config

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/perchwm/perch/internal/layout"
	"github.com/perchwm/perch/internal/wm"
)

// LayoutMode selects which layout heads the per-workspace layout stack.
type LayoutMode string

const (
	LayoutModeMainStack LayoutMode = "main-stack"
	LayoutModeGrid      LayoutMode = "grid"
)

// Config is the on-disk configuration shape.
type Config struct {
	Tags             []string `yaml:"tags"`
	FloatingClasses  []string `yaml:"floating_classes"`
	FocusFollowMouse *bool    `yaml:"focus_follow_mouse"`

	Border Border `yaml:"border"`
	Layout Layout `yaml:"layout"`
}

// Border configures window border appearance. Colors are hex strings.
type Border struct {
	Width   int    `yaml:"width"`
	Normal  string `yaml:"normal"`
	Focused string `yaml:"focused"`
}

// Layout configures the default layout stack.
type Layout struct {
	Mode        LayoutMode `yaml:"mode"`
	MainPercent int        `yaml:"main_percent"`
	Gap         int        `yaml:"gap"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	followMouse := true
	return &Config{
		Tags:             []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"},
		FloatingClasses:  []string{"dmenu", "dunst"},
		FocusFollowMouse: &followMouse,
		Border: Border{
			Width:   2,
			Normal:  "#3c3836",
			Focused: "#cc241d",
		},
		Layout: Layout{
			Mode:        LayoutModeMainStack,
			MainPercent: 60,
			Gap:         4,
		},
	}
}

// Validate checks the configuration for values the manager cannot run with.
func (c *Config) Validate() error {
	if len(c.Tags) == 0 {
		return fmt.Errorf("at least one workspace tag is required")
	}
	seen := make(map[string]bool, len(c.Tags))
	for _, tag := range c.Tags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("workspace tags must not be empty")
		}
		if seen[tag] {
			return fmt.Errorf("duplicate workspace tag %q", tag)
		}
		seen[tag] = true
	}

	if c.Border.Width < 0 {
		return fmt.Errorf("border width must not be negative")
	}
	if _, err := parsePixel(c.Border.Normal); err != nil {
		return fmt.Errorf("invalid normal border color: %w", err)
	}
	if _, err := parsePixel(c.Border.Focused); err != nil {
		return fmt.Errorf("invalid focused border color: %w", err)
	}

	switch c.Layout.Mode {
	case LayoutModeMainStack, LayoutModeGrid:
	default:
		return fmt.Errorf("unsupported layout mode: %q", c.Layout.Mode)
	}
	if c.Layout.MainPercent < 0 || c.Layout.MainPercent > 100 {
		return fmt.Errorf("main_percent must be between 0 and 100")
	}
	if c.Layout.Gap < 0 {
		return fmt.Errorf("gap must not be negative")
	}

	return nil
}

// WMConfig converts the file configuration into the options consumed by the
// window manager core, leaving the hook slots empty for the caller to
// compose.
func (c *Config) WMConfig() (*wm.Config, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	normal, err := parsePixel(c.Border.Normal)
	if err != nil {
		return nil, err
	}
	focused, err := parsePixel(c.Border.Focused)
	if err != nil {
		return nil, err
	}

	layouts, err := layoutStack(c.Layout)
	if err != nil {
		return nil, err
	}

	cfg := wm.DefaultConfig()
	cfg.Tags = append([]string(nil), c.Tags...)
	cfg.FloatingClasses = append([]string(nil), c.FloatingClasses...)
	cfg.NormalBorder = normal
	cfg.FocusedBorder = focused
	cfg.BorderWidth = uint32(c.Border.Width)
	cfg.DefaultLayouts = layouts
	if c.FocusFollowMouse != nil {
		cfg.FocusFollowMouse = *c.FocusFollowMouse
	}

	return cfg, nil
}

// layoutStack builds the default layout stack with the configured mode
// first, so switching layouts at runtime still reaches the others.
func layoutStack(l Layout) (*layout.Stack, error) {
	mainStack := layout.MainAndStack{MainPercent: l.MainPercent, Gap: l.Gap}
	grid := layout.Grid{Gap: l.Gap}

	if l.Mode == LayoutModeGrid {
		return layout.NewStack(grid, mainStack)
	}
	return layout.NewStack(mainStack, grid)
}

// parsePixel turns a hex color string into an X11 border pixel value.
func parsePixel(hex string) (uint32, error) {
	col, err := colorful.Hex(strings.TrimSpace(hex))
	if err != nil {
		return 0, fmt.Errorf("failed to parse color %q: %w", hex, err)
	}
	r, g, b := col.RGB255()
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b), nil
}
