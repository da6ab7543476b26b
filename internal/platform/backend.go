package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Display describes a physical display.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
}

// WindowKind classifies a top-level window by the role it asks for.
type WindowKind int

const (
	KindNormal WindowKind = iota
	KindDock
	KindDesktop
	KindNotification
)

func (k WindowKind) String() string {
	switch k {
	case KindDock:
		return "dock"
	case KindDesktop:
		return "desktop"
	case KindNotification:
		return "notification"
	default:
		return "normal"
	}
}

// Strut is the space a dock reserves along each edge of its display.
type Strut struct {
	Left   int
	Right  int
	Top    int
	Bottom int
}

// Empty reports whether the strut reserves nothing.
func (s Strut) Empty() bool {
	return s.Left == 0 && s.Right == 0 && s.Top == 0 && s.Bottom == 0
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID      WindowID
	PID     int
	AppID   string
	Title   string
	Kind    WindowKind
	Bounds  Rect
	Display string
	Strut   Strut
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	Displays() ([]Display, error)
	// Windows lists managed top-level windows, including hidden ones.
	Windows() ([]Window, error)
	MoveResize(windowID WindowID, bounds Rect) error
	// Restack orders windows bottom to top.
	Restack(order []WindowID) error
	Show(windowID WindowID) error
	Hide(windowID WindowID) error
	Focus(windowID WindowID) error
	WarpPointer(x, y int) error
}
