package x11

import "fmt"

// Xid is an X11 ID for a given resource (window, root, ...).
//
// It is a plain value: copyable, comparable and usable as a map key. The zero
// value is never a valid resource and doubles as "no window".
type Xid uint32

// String renders the raw numeric id, matching how X tools print resources.
func (x Xid) String() string {
	return fmt.Sprintf("%d", uint32(x))
}
