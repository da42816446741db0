package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"
)

var modifierMasks = map[string]uint16{
	"shift":   xproto.ModMaskShift,
	"control": xproto.ModMaskControl,
	"ctrl":    xproto.ModMaskControl,
	"mod1":    xproto.ModMask1,
	"alt":     xproto.ModMask1,
	"mod2":    xproto.ModMask2,
	"mod3":    xproto.ModMask3,
	"mod4":    xproto.ModMask4,
	"super":   xproto.ModMask4,
	"mod5":    xproto.ModMask5,
}

// ParseKey resolves a binding spec like "Mod4-Shift-j" into the modifier mask
// and keycode the server reports on key press. The last dash separated part
// is the keysym name, everything before it a modifier.
func (c *XConn) ParseKey(spec string) (KeyCode, error) {
	parts := strings.Split(spec, "-")
	keysym := parts[len(parts)-1]
	if keysym == "" {
		return KeyCode{}, fmt.Errorf("empty keysym in binding %q", spec)
	}

	var mask uint16
	for _, part := range parts[:len(parts)-1] {
		m, ok := modifierMasks[strings.ToLower(part)]
		if !ok {
			return KeyCode{}, fmt.Errorf("unknown modifier %q in binding %q", part, spec)
		}
		mask |= m
	}

	codes := keybind.StrToKeycodes(c.xu, keysym)
	if len(codes) == 0 {
		return KeyCode{}, fmt.Errorf("no keycode mapped for %q", keysym)
	}
	return KeyCode{Mask: mask, Code: uint8(codes[0])}, nil
}
