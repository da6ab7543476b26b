package daemon

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/1broseidon/tileshell/internal/config"
	"github.com/1broseidon/tileshell/internal/platform"
	"github.com/1broseidon/tileshell/internal/shell"
)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically polls the backend and turns differences between
// the real displays and windows and the shell into shell events.
type Reconciler struct {
	interval time.Duration
	backend  platform.Backend
	loop     *Loop
	realizer *realizer
	config   func() *config.Config
	logger   *slog.Logger
}

// NewReconciler creates a new reconciler with the given configuration.
// cfg is consulted on every pass so reloads take effect.
func NewReconciler(rc ReconcilerConfig, backend platform.Backend, loop *Loop, rz *realizer, cfg func() *config.Config) *Reconciler {
	interval := rc.Interval
	if interval <= 0 {
		interval = time.Duration(config.DefaultReconcileIntervalMS) * time.Millisecond
	}
	logger := rc.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Reconciler{
		interval: interval,
		backend:  backend,
		loop:     loop,
		realizer: rz,
		config:   cfg,
		logger:   logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile()
		}
	}
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow() {
	r.reconcile()
}

// reconcile performs a single reconciliation pass.
func (r *Reconciler) reconcile() {
	displays, err := r.backend.Displays()
	if err != nil {
		r.logger.Error("reconciler: failed to list displays", "error", err)
		return
	}
	windows, err := r.backend.Windows()
	if err != nil {
		r.logger.Error("reconciler: failed to list windows", "error", err)
		return
	}

	err = r.loop.Do(func(sh *shell.Shell) error {
		r.apply(sh, displays, windows)
		return nil
	})
	if err != nil && !errors.Is(err, ErrStopped) {
		r.logger.Error("reconciler: pass failed", "error", err)
	}
}

// apply runs on the loop goroutine.
func (r *Reconciler) apply(sh *shell.Shell, displays []platform.Display, windows []platform.Window) {
	cfg := r.config()

	present := make(map[string]bool, len(displays))
	bounds := make(map[string]platform.Rect, len(displays))
	for _, d := range displays {
		bounds[d.Name] = d.Bounds
	}
	r.realizer.displays = bounds

	for _, d := range displays {
		oc, enabled := cfg.OutputConfig(d.Name)
		o, err := sh.Output(d.Name)
		exists := err == nil
		switch {
		case !enabled:
			if exists {
				r.handle(sh, shell.OutputRemoved{Name: d.Name})
			}
			continue
		case !exists:
			r.handle(sh, shell.OutputAdded{Config: oc, Width: d.Bounds.Width, Height: d.Bounds.Height})
		default:
			if w, h := o.Size(); w != d.Bounds.Width || h != d.Bounds.Height {
				r.handle(sh, shell.OutputResized{Name: d.Name, Width: d.Bounds.Width, Height: d.Bounds.Height})
			}
			if o.Config() != oc {
				r.handle(sh, shell.OutputReconfigured{Name: d.Name, Config: oc})
			}
		}
		present[d.Name] = true
	}

	r.applyWindows(sh, cfg, windows)

	for _, o := range sh.Outputs() {
		if !present[o.Name()] {
			r.handle(sh, shell.OutputRemoved{Name: o.Name()})
		}
	}
}

func (r *Reconciler) applyWindows(sh *shell.Shell, cfg *config.Config, windows []platform.Window) {
	current := make(map[platform.WindowID]bool, len(windows))
	for _, w := range windows {
		current[w.ID] = true
	}
	for id := range r.realizer.views {
		if !current[id] {
			r.dropView(sh, id)
		}
	}
	for id := range r.realizer.panels {
		if !current[id] {
			r.dropPanel(sh, id)
		}
	}

	for _, w := range windows {
		layer, isPanel := defaultLayer(w.Kind)
		if ruled, ok := cfg.LayerFor(w.AppID); ok {
			layer, isPanel = ruled, true
		}

		if !isPanel {
			if _, ok := r.realizer.panels[w.ID]; ok {
				r.dropPanel(sh, w.ID)
			}
			if _, ok := r.realizer.views[w.ID]; !ok {
				v := &windowView{id: w.ID}
				if r.handle(sh, shell.ViewMapped{View: v}) {
					r.realizer.views[w.ID] = v
				}
			}
			continue
		}

		if _, ok := r.realizer.views[w.ID]; ok {
			r.dropView(sh, w.ID)
		}
		r.syncPanel(sh, w, layer)
	}
}

func (r *Reconciler) syncPanel(sh *shell.Shell, w platform.Window, layer shell.Layer) {
	display := w.Display
	if _, err := sh.Output(display); err != nil {
		display = ""
	}
	state := panelState(w, layer, r.realizer.displays[w.Display])
	id := shell.PanelID(w.ID)

	p, tracked := r.realizer.panels[w.ID]
	if tracked {
		if _, err := sh.Panel(id); err != nil || p.display != display {
			// Dropped with its output, or moved to another one.
			r.dropPanel(sh, w.ID)
			tracked = false
		}
	}

	if !tracked {
		p = &windowPanel{id: w.ID, display: display}
		spec := shell.PanelSpec{ID: id, Output: display, Namespace: w.AppID, Surface: p, Layer: layer}
		if !r.handle(sh, shell.PanelAttached{Spec: spec}) {
			return
		}
		r.realizer.panels[w.ID] = p
		p.state = state
		r.handle(sh, shell.PanelCommitted{ID: id, State: state})
		r.handle(sh, shell.PanelMapped{ID: id})
		return
	}

	if p.state != state {
		p.state = state
		r.handle(sh, shell.PanelCommitted{ID: id, State: state})
	}
}

func (r *Reconciler) dropView(sh *shell.Shell, id platform.WindowID) {
	delete(r.realizer.views, id)
	r.handle(sh, shell.ViewUnmapped{ID: shell.ViewID(id)})
}

func (r *Reconciler) dropPanel(sh *shell.Shell, id platform.WindowID) {
	delete(r.realizer.panels, id)
	if _, err := sh.Panel(shell.PanelID(id)); err == nil {
		r.handle(sh, shell.PanelDestroyed{ID: shell.PanelID(id)})
	}
}

// handle applies ev and reports whether it succeeded. Failures are logged;
// the next pass retries whatever is still out of sync.
func (r *Reconciler) handle(sh *shell.Shell, ev shell.Event) bool {
	if err := sh.Handle(ev); err != nil {
		r.logger.Warn("reconciler: event rejected", "event", ev, "error", err)
		return false
	}
	r.logger.Debug("reconciler: event applied", "event", ev)
	return true
}
