package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/tileshell/internal/config"
	"github.com/1broseidon/tileshell/internal/daemon"
	"github.com/1broseidon/tileshell/internal/hotkeys"
	"github.com/1broseidon/tileshell/internal/ipc"
	"github.com/1broseidon/tileshell/internal/platform"
	"github.com/1broseidon/tileshell/internal/runtimepath"
)

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/tileshell/config.yaml)")
	level := fs.String("log-level", "", "Override log_level (debug, info, warn, error)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tileshell daemon [--path PATH] [--log-level LEVEL]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the shell in the foreground. SIGHUP reloads the config.")
	}
	if code, ok := parseNoArgs(fs, args); !ok {
		return code
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	logLevel := cfg.LogLevel
	if *level != "" {
		logLevel = *level
	}
	logger := daemon.NewLogger(os.Stderr, logLevel)
	logger.Info("configuration loaded",
		"workspaces", cfg.Workspaces, "gap", cfg.GapSize, "keybindings", len(cfg.Keybindings))

	if cfg.XAuthority != "" {
		os.Setenv("XAUTHORITY", cfg.XAuthority)
	}
	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display)
	if err != nil {
		logger.Error("failed to connect to display", "display", cfg.Display, "err", err)
		return 1
	}
	defer backend.Disconnect()

	d := daemon.New(daemon.Options{
		Config:     cfg,
		ConfigPath: *path,
		Backend:    backend,
		Logger:     logger,
	})

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		logger.Error("failed to resolve IPC socket path", "err", err)
		return 1
	}
	ipcServer := ipc.NewServer(socketPath, d, logger.With("component", "ipc"))
	if err := ipcServer.Start(); err != nil {
		logger.Error("failed to start IPC server", "err", err)
		return 1
	}
	defer ipcServer.Stop()

	hkLogger := logger.With("component", "hotkeys")
	hk := hotkeys.NewHandler(backend, d.Exec, hkLogger)
	bindHotkeys(hk, cfg, false, hkLogger)
	d.OnReload(func(c *config.Config) {
		bindHotkeys(hk, c, true, hkLogger)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigCh:
				if sig == syscall.SIGHUP {
					logger.Info("received SIGHUP, reloading config")
					if err := d.Reload(); err != nil {
						logger.Error("config reload failed", "err", err)
					}
					continue
				}
				logger.Info("shutting down", "signal", sig.String())
				cancel()
				backend.StopEventLoop()
				return
			}
		}
	}()

	go backend.EventLoop()
	logger.Info("tileshell daemon started", "socket", ipcServer.SocketPath())
	d.Run(ctx)
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	res, err := loadConfigResult(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

func loadConfigResult(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}
