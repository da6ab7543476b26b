//go:build linux

package platform

import (
	"fmt"
	"sort"

	"github.com/1broseidon/tileshell/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay opens a fresh X11 connection to display. An
// empty display uses $DISPLAY.
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// StopEventLoop makes EventLoop return.
func (b *LinuxBackend) StopEventLoop() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m))
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})

	return displays, nil
}

// Windows lists every client window the backend can manage. Each window is
// assigned to the monitor containing its centre; docks carry the strut they
// reserve on that monitor.
func (b *LinuxBackend) Windows() ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	clients, err := conn.Clients()
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, len(clients))
	for _, windowID := range clients {
		class, ok := conn.ClassifyWindow(windowID)
		if !ok {
			continue
		}
		geom, ok := conn.WindowGeometry(windowID)
		if !ok {
			continue
		}

		w := Window{
			ID:     WindowID(windowID),
			PID:    conn.WindowPID(windowID),
			AppID:  conn.WindowAppID(windowID),
			Title:  conn.WindowTitle(windowID),
			Kind:   kindFromClass(class),
			Bounds: rectFromGeometry(geom),
		}

		cx, cy := w.Bounds.X+w.Bounds.Width/2, w.Bounds.Y+w.Bounds.Height/2
		for i := range monitors {
			m := &monitors[i]
			if !displayFromMonitor(*m).Bounds.Contains(cx, cy) {
				continue
			}
			w.Display = m.Name
			if w.Kind == KindDock {
				if s, ok := conn.MonitorStrut(windowID, m); ok {
					w.Strut = Strut{Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom}
				}
			}
			break
		}

		windows = append(windows, w)
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].ID < windows[j].ID
	})

	return windows, nil
}

// MoveResize moves and resizes a window to the specified bounds.
func (b *LinuxBackend) MoveResize(windowID WindowID, bounds Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	return conn.MoveResizeWindow(
		xproto.Window(windowID),
		bounds.X,
		bounds.Y,
		bounds.Width,
		bounds.Height,
	)
}

// Restack orders windows bottom to top.
func (b *LinuxBackend) Restack(order []WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	wins := make([]xproto.Window, len(order))
	for i, id := range order {
		wins[i] = xproto.Window(id)
	}
	return conn.Restack(wins)
}

// Show maps a window, moving an iconified client back to the normal state.
func (b *LinuxBackend) Show(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MapWindow(xproto.Window(windowID))
}

// Hide iconifies a window via WM_CHANGE_STATE.
func (b *LinuxBackend) Hide(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.IconifyWindow(xproto.Window(windowID))
}

// Focus activates a window using _NET_ACTIVE_WINDOW.
func (b *LinuxBackend) Focus(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.FocusWindow(xproto.Window(windowID))
}

// WarpPointer moves the pointer to root coordinates (x, y).
func (b *LinuxBackend) WarpPointer(x, y int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.WarpPointer(x, y)
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func displayFromMonitor(m x11.Monitor) Display {
	return Display{
		ID:   m.ID,
		Name: m.Name,
		Bounds: Rect{
			X:      m.X,
			Y:      m.Y,
			Width:  m.Width,
			Height: m.Height,
		},
	}
}

func rectFromGeometry(g x11.Geometry) Rect {
	return Rect{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}
}

func kindFromClass(c x11.WindowClass) WindowKind {
	switch c {
	case x11.ClassDock:
		return KindDock
	case x11.ClassDesktop:
		return KindDesktop
	case x11.ClassNotification:
		return KindNotification
	default:
		return KindNormal
	}
}
