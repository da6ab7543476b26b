package daemon

import (
	"log/slog"

	"github.com/1broseidon/tileshell/internal/platform"
	"github.com/1broseidon/tileshell/internal/shell"
)

// placed remembers the last root rect a window was moved to.
type placed struct {
	rect platform.Rect
	ok   bool
}

// needs reports whether the window must move to target.
func (p *placed) needs(target platform.Rect) bool {
	if p.ok && p.rect == target {
		return false
	}
	p.rect, p.ok = target, true
	return true
}

// windowView is a normal client window managed as a shell view. Maximize
// only records the tile rect; the realizer moves the window on flush.
type windowView struct {
	id   platform.WindowID
	rect shell.Rect
	at   placed
}

func (v *windowView) ID() shell.ViewID { return shell.ViewID(v.id) }

func (v *windowView) Maximize(r shell.Rect) { v.rect = r }

// windowPanel is a dock, desktop or notification window placed by the
// layer arranger.
type windowPanel struct {
	id        platform.WindowID
	display   string
	state     shell.PanelState
	placement shell.Placement
	at        placed
}

func (p *windowPanel) Configure(pl shell.Placement) { p.placement = pl }

type tileFocus struct {
	output    string
	workspace int
	tile      shell.TileID
	centre    shell.Point
}

// realizer mirrors shell state onto real windows: geometry of views and
// panels, the flattened stacking order, visibility and tile focus. It is
// only touched from the loop goroutine.
type realizer struct {
	backend platform.Backend
	logger  *slog.Logger

	views    map[platform.WindowID]*windowView
	panels   map[platform.WindowID]*windowPanel
	displays map[string]platform.Rect

	flushed bool
	version uint64
	visible map[uint32]bool
	focus   *tileFocus
}

func newRealizer(backend platform.Backend, logger *slog.Logger) *realizer {
	return &realizer{
		backend:  backend,
		logger:   logger,
		views:    make(map[platform.WindowID]*windowView),
		panels:   make(map[platform.WindowID]*windowPanel),
		displays: make(map[string]platform.Rect),
		visible:  make(map[uint32]bool),
	}
}

// TileFocused records the focus change; flush applies it.
func (r *realizer) TileFocused(output string, workspace int, tile shell.TileID, centre shell.Point) {
	r.logger.Info("current tile", "output", output, "workspace", workspace, "tile", tile, "x", centre.X, "y", centre.Y)
	r.focus = &tileFocus{output: output, workspace: workspace, tile: tile, centre: centre}
}

// toRoot translates an output-local rect to root coordinates.
func (r *realizer) toRoot(output string, rect shell.Rect) platform.Rect {
	off := r.displays[output]
	return platform.Rect{X: off.X + rect.X, Y: off.Y + rect.Y, Width: rect.Width, Height: rect.Height}
}

func (r *realizer) flush(sh *shell.Shell) {
	r.flushGeometry(sh)
	r.flushStacking(sh.Scene())
	r.flushFocus(sh)
}

func (r *realizer) flushGeometry(sh *shell.Shell) {
	st := sh.State()
	for _, o := range st.Outputs {
		for _, ws := range o.Workspaces {
			for _, t := range ws.Tiles {
				v, ok := r.views[platform.WindowID(t.View)]
				if !ok {
					continue
				}
				target := r.toRoot(o.Name, v.rect)
				if !v.at.needs(target) {
					continue
				}
				if err := r.backend.MoveResize(v.id, target); err != nil {
					r.logger.Warn("failed to move view", "window", v.id, "error", err)
				}
			}
		}
		for _, info := range o.Panels {
			p, ok := r.panels[platform.WindowID(info.ID)]
			if !ok || info.Box == nil {
				continue
			}
			target := r.toRoot(o.Name, *info.Box)
			if !p.at.needs(target) {
				continue
			}
			if err := r.backend.MoveResize(p.id, target); err != nil {
				r.logger.Warn("failed to place panel", "window", p.id, "error", err)
			}
		}
	}
}

func (r *realizer) flushStacking(scene *shell.Scene) {
	if scene == nil || (r.flushed && scene.Version() == r.version) {
		return
	}
	r.flushed = true
	r.version = scene.Version()

	entries := scene.Flatten()
	order := make([]platform.WindowID, 0, len(entries))
	seen := make(map[uint32]bool, len(entries))
	for _, e := range entries {
		seen[e.Payload] = true
		if e.Visible {
			order = append(order, platform.WindowID(e.Payload))
		}
		if was, known := r.visible[e.Payload]; known && was == e.Visible {
			continue
		}
		r.visible[e.Payload] = e.Visible
		id := platform.WindowID(e.Payload)
		var err error
		if e.Visible {
			err = r.backend.Show(id)
		} else {
			err = r.backend.Hide(id)
		}
		if err != nil {
			r.logger.Warn("failed to change window visibility", "window", id, "visible", e.Visible, "error", err)
		}
	}
	for id := range r.visible {
		if !seen[id] {
			delete(r.visible, id)
		}
	}
	if err := r.backend.Restack(order); err != nil {
		r.logger.Warn("failed to restack windows", "error", err)
	}
}

func (r *realizer) flushFocus(sh *shell.Shell) {
	f := r.focus
	if f == nil {
		return
	}
	r.focus = nil

	o, err := sh.Output(f.output)
	if err != nil {
		return
	}
	// Hidden workspaces keep their focus; only the visible one drives X.
	if f.workspace != o.CurrentIndex() {
		return
	}
	ws, err := o.Workspace(f.workspace)
	if err != nil {
		return
	}

	p := r.toRoot(f.output, shell.Rect{X: f.centre.X, Y: f.centre.Y})
	if err := r.backend.WarpPointer(p.X, p.Y); err != nil {
		r.logger.Warn("failed to warp pointer", "error", err)
	}
	if v, ok := ws.ViewAt(f.tile); ok {
		if err := r.backend.Focus(platform.WindowID(v.ID())); err != nil {
			r.logger.Warn("failed to focus view", "view", v.ID(), "error", err)
		}
	}
}
