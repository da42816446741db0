package main

import (
	"fmt"

	"github.com/perchwm/perch/internal/wm"
	"github.com/perchwm/perch/internal/x11"
)

// defaultKeyBindings builds the built-in binding table. Mod4 (Super) is the
// modifier; the first nine tags get focus and move bindings on the number
// row.
func defaultKeyBindings(conn *x11.XConn, tags []string) (wm.KeyBindings, error) {
	specs := map[string]wm.KeyHandler{
		"Mod4-j":            wm.FocusNextClient,
		"Mod4-k":            wm.FocusPrevClient,
		"Mod4-Return":       wm.SwapFocusedWithMain,
		"Mod4-space":        wm.NextLayout,
		"Mod4-f":            wm.ToggleFullscreen,
		"Mod4-Shift-f":      wm.ToggleFloating,
		"Mod4-Shift-q":      wm.KillFocused,
		"Mod4-Shift-Return": wm.Spawn("xterm"),
		"Mod4-p":            wm.Spawn("dmenu_run"),
		"Mod4-Shift-e":      wm.Exit(),
	}

	for i, tag := range tags {
		if i >= 9 {
			break
		}
		specs[fmt.Sprintf("Mod4-%d", i+1)] = wm.FocusWorkspace(tag)
		specs[fmt.Sprintf("Mod4-Shift-%d", i+1)] = wm.MoveFocusedToWorkspace(tag)
	}

	bindings := make(wm.KeyBindings, len(specs))
	for spec, handler := range specs {
		key, err := conn.ParseKey(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid key binding %q: %w", spec, err)
		}
		bindings[key] = handler
	}
	return bindings, nil
}
