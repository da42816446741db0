package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// ScreenDetails returns the geometry of each active screen using XRandR,
// falling back to the root window geometry when RandR reports nothing
// usable (e.g. under a bare Xvfb).
func (c *XConn) ScreenDetails() ([]Rect, error) {
	resources, err := randr.GetScreenResources(c.xu.Conn(), c.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var screens []Rect

	// Query each CRTC for active screens.
	for _, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.xu.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs.
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		screens = append(screens, Rect{
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}

	if len(screens) == 0 {
		geom, err := xproto.GetGeometry(c.xu.Conn(), xproto.Drawable(c.root)).Reply()
		if err != nil {
			return nil, fmt.Errorf("no active screens and root geometry unavailable: %w", err)
		}
		screens = append(screens, Rect{
			Width:  int(geom.Width),
			Height: int(geom.Height),
		})
	}

	return screens, nil
}
