package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WindowClass is the role a client window requests through
// _NET_WM_WINDOW_TYPE.
type WindowClass int

const (
	ClassNormal WindowClass = iota
	ClassDock
	ClassDesktop
	ClassNotification
)

// Geometry is a window rectangle in root coordinates.
type Geometry struct {
	X, Y          int
	Width, Height int
}

// Clients returns the EWMH client list.
func (c *Connection) Clients() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}
	return clients, nil
}

// ClassifyWindow maps a window's EWMH type to a WindowClass. The second
// result is false for transient roles such as menus, splashes and dialogs.
func (c *Connection) ClassifyWindow(windowID xproto.Window) (WindowClass, bool) {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil || len(types) == 0 {
		// If we can't determine type, assume it's normal
		return ClassNormal, true
	}

	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			return ClassNormal, true
		case "_NET_WM_WINDOW_TYPE_DOCK":
			return ClassDock, true
		case "_NET_WM_WINDOW_TYPE_DESKTOP":
			return ClassDesktop, true
		case "_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return ClassNotification, true
		}
	}
	return ClassNormal, false
}

// WindowGeometry returns a window's rectangle translated to root coordinates.
func (c *Connection) WindowGeometry(windowID xproto.Window) (Geometry, bool) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return Geometry{}, false
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return Geometry{}, false
	}

	return Geometry{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, true
}

// WindowPID returns _NET_WM_PID, or 0 when unset.
func (c *Connection) WindowPID(windowID xproto.Window) int {
	pid, err := ewmh.WmPidGet(c.XUtil, windowID)
	if err != nil {
		return 0
	}
	return int(pid)
}

// WindowAppID returns the WM_CLASS class name.
func (c *Connection) WindowAppID(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

// WindowTitle prefers _NET_WM_NAME and falls back to WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// MoveResizeWindow moves and resizes a window to the specified geometry
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// A maximized window ignores move-resize requests on most WMs.
	c.unmaximizeWindow(windowID)

	// Use EWMH MoveResize for better WM compatibility
	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height); err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, windowID).MoveResize(x, y, width, height)
	}
	return nil
}

// unmaximizeWindow removes maximized state from a window
func (c *Connection) unmaximizeWindow(windowID xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return err
	}

	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT":
			ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateRemove, state)
		}
	}
	return nil
}

// Restack asks the window manager to order windows bottom to top using
// _NET_RESTACK_WINDOW, each window placed directly above its predecessor.
func (c *Connection) Restack(order []xproto.Window) error {
	const sourceIndication = 2 // pager/direct action
	for i := 1; i < len(order); i++ {
		err := c.sendRootMessage(order[i], "_NET_RESTACK_WINDOW",
			sourceIndication, uint32(order[i-1]), xproto.StackModeAbove)
		if err != nil {
			return fmt.Errorf("failed to restack window %d: %w", order[i], err)
		}
	}
	return nil
}

// MapWindow maps a window. For an iconified client this is the ICCCM
// transition back to the normal state.
func (c *Connection) MapWindow(windowID xproto.Window) error {
	return xproto.MapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// IconifyWindow requests the iconic state via WM_CHANGE_STATE.
func (c *Connection) IconifyWindow(windowID xproto.Window) error {
	return c.sendRootMessage(windowID, "WM_CHANGE_STATE", icccm.StateIconic)
}

// FocusWindow activates and raises a window using _NET_ACTIVE_WINDOW.
func (c *Connection) FocusWindow(windowID xproto.Window) error {
	const sourceIndication = 2 // pager/direct action
	return c.sendRootMessage(windowID, "_NET_ACTIVE_WINDOW", sourceIndication)
}

// WarpPointer moves the pointer to root coordinates (x, y).
func (c *Connection) WarpPointer(x, y int) error {
	return xproto.WarpPointerChecked(c.XUtil.Conn(), 0, c.Root, 0, 0, 0, 0, int16(x), int16(y)).Check()
}
