package daemon

import (
	"context"
	"sync"
	"testing"

	"github.com/1broseidon/tileshell/internal/config"
	"github.com/1broseidon/tileshell/internal/platform"
)

type fakeBackend struct {
	mu       sync.Mutex
	displays []platform.Display
	windows  []platform.Window

	moves    map[platform.WindowID]platform.Rect
	visible  map[platform.WindowID]bool
	restacks [][]platform.WindowID
	focused  []platform.WindowID
	warps    [][2]int
}

func newFakeBackend(displays ...platform.Display) *fakeBackend {
	return &fakeBackend{
		displays: displays,
		moves:    make(map[platform.WindowID]platform.Rect),
		visible:  make(map[platform.WindowID]bool),
	}
}

func (b *fakeBackend) setWindows(ws ...platform.Window) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.windows = ws
}

func (b *fakeBackend) Displays() ([]platform.Display, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]platform.Display(nil), b.displays...), nil
}

func (b *fakeBackend) Windows() ([]platform.Window, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]platform.Window(nil), b.windows...), nil
}

func (b *fakeBackend) MoveResize(id platform.WindowID, r platform.Rect) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.moves[id] = r
	return nil
}

func (b *fakeBackend) Restack(order []platform.WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.restacks = append(b.restacks, append([]platform.WindowID(nil), order...))
	return nil
}

func (b *fakeBackend) Show(id platform.WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.visible[id] = true
	return nil
}

func (b *fakeBackend) Hide(id platform.WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.visible[id] = false
	return nil
}

func (b *fakeBackend) Focus(id platform.WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.focused = append(b.focused, id)
	return nil
}

func (b *fakeBackend) WarpPointer(x, y int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.warps = append(b.warps, [2]int{x, y})
	return nil
}

func (b *fakeBackend) moved(id platform.WindowID) (platform.Rect, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.moves[id]
	return r, ok
}

func (b *fakeBackend) isVisible(id platform.WindowID) (visible, known bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	visible, known = b.visible[id]
	return visible, known
}

func (b *fakeBackend) lastRestack() []platform.WindowID {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.restacks) == 0 {
		return nil
	}
	return b.restacks[len(b.restacks)-1]
}

// startDaemon runs the daemon's loop without the polling ticker; tests
// drive reconcile passes explicitly.
func startDaemon(t *testing.T, opts Options) *Daemon {
	t.Helper()
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	d := New(opts)
	ctx, cancel := context.WithCancel(context.Background())
	go d.loop.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-d.loop.done
	})
	return d
}

var dp1 = platform.Display{ID: 0, Name: "DP-1", Bounds: platform.Rect{Width: 1920, Height: 1080}}

func normalWindow(id platform.WindowID, display string) platform.Window {
	return platform.Window{
		ID:      id,
		AppID:   "XTerm",
		Kind:    platform.KindNormal,
		Bounds:  platform.Rect{X: 100, Y: 100, Width: 800, Height: 600},
		Display: display,
	}
}

func topDock(id platform.WindowID, height int) platform.Window {
	return platform.Window{
		ID:      id,
		AppID:   "Polybar",
		Kind:    platform.KindDock,
		Bounds:  platform.Rect{Width: 1920, Height: height},
		Display: "DP-1",
		Strut:   platform.Strut{Top: height},
	}
}
