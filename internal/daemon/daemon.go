package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/1broseidon/tileshell/internal/config"
	"github.com/1broseidon/tileshell/internal/platform"
	"github.com/1broseidon/tileshell/internal/shell"
)

// Options configures a Daemon.
type Options struct {
	Config *config.Config
	// ConfigPath is re-read on Reload. Empty means the default location.
	ConfigPath string
	Backend    platform.Backend
	Logger     *slog.Logger
}

// Daemon ties the shell to a window-system backend: a Loop owns the shell,
// the reconciler feeds it events and the realizer mirrors its state back.
type Daemon struct {
	cfgPath    string
	cfg        atomic.Pointer[config.Config]
	loop       *Loop
	realizer   *realizer
	reconciler *Reconciler
	logger     *slog.Logger

	mu       sync.Mutex
	onReload []func(*config.Config)
}

// New builds a daemon. Nothing talks to the backend until Run.
func New(opts Options) *Daemon {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	d := &Daemon{
		cfgPath: opts.ConfigPath,
		logger:  logger,
	}
	d.cfg.Store(cfg)

	d.realizer = newRealizer(opts.Backend, logger)
	sh := shell.New(shell.Options{
		Notifier:             d.realizer,
		Logger:               logger.With("component", "shell"),
		MaxTilesPerWorkspace: cfg.MaxTilesPerWorkspace,
		Gap:                  cfg.GapSize,
	})
	d.loop = NewLoop(sh, d.realizer.flush, logger)
	d.reconciler = NewReconciler(ReconcilerConfig{
		Interval: cfg.ReconcileInterval(),
		Logger:   logger.With("component", "reconciler"),
	}, opts.Backend, d.loop, d.realizer, d.Config)
	return d
}

// Config returns the active configuration.
func (d *Daemon) Config() *config.Config {
	return d.cfg.Load()
}

// Do runs fn against the shell on the owner goroutine.
func (d *Daemon) Do(fn func(*shell.Shell) error) error {
	return d.loop.Do(fn)
}

// Exec runs one shell command line, e.g. from a keybinding.
func (d *Daemon) Exec(line string) error {
	return d.Do(func(sh *shell.Shell) error {
		return sh.ExecLine(line)
	})
}

// OnReload registers fn to run after every successful reload.
func (d *Daemon) OnReload(fn func(*config.Config)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onReload = append(d.onReload, fn)
}

// Reload re-reads the configuration file and applies it. Output overrides
// take effect through an immediate reconcile pass. A changed tile limit or
// reconcile interval applies after restart.
func (d *Daemon) Reload() error {
	path := d.cfgPath
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			return err
		}
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return fmt.Errorf("reload %s: %w", path, err)
	}
	cfg := res.Config
	d.cfg.Store(cfg)

	if err := d.Do(func(sh *shell.Shell) error {
		sh.SetGap(cfg.GapSize)
		return nil
	}); err != nil {
		return err
	}
	d.reconciler.ReconcileNow()

	d.mu.Lock()
	hooks := append([]func(*config.Config){}, d.onReload...)
	d.mu.Unlock()
	for _, fn := range hooks {
		fn(cfg)
	}
	d.logger.Info("configuration reloaded", "path", path)
	return nil
}

// Run serves the shell until ctx is cancelled. The first reconcile pass
// happens before Run starts polling.
func (d *Daemon) Run(ctx context.Context) {
	go d.loop.Run(ctx)
	d.reconciler.ReconcileNow()
	d.reconciler.Run(ctx)
	<-d.loop.done
}
