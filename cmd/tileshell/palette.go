package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/1broseidon/tileshell/internal/config"
	"github.com/1broseidon/tileshell/internal/hotkeys"
	"github.com/1broseidon/tileshell/internal/ipc"
	"github.com/1broseidon/tileshell/internal/palette"
)

func runPalette(args []string) int {
	fs := flag.NewFlagSet("palette", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	backendName := fs.String("backend", "", "Launcher: auto, rofi, fuzzel, wofi, dmenu (default: palette_backend)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tileshell palette [--backend NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Pick a workspace, tile or command from a launcher menu.")
	}
	if code, ok := parseNoArgs(fs, args); !ok {
		return code
	}

	name := *backendName
	if name == "" {
		cfg, err := loadConfig("")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		name = cfg.PaletteBackend
	}
	backend, err := palette.NewBackend(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := palette.Open(ipc.NewClient(), backend); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// bindHotkeys grabs the configured keybindings plus the palette hotkey.
// With rebind set, existing grabs are dropped first.
func bindHotkeys(hk *hotkeys.Handler, cfg *config.Config, rebind bool, logger *slog.Logger) {
	var err error
	if rebind {
		err = hk.Rebind(cfg.Keybindings)
	} else {
		err = hk.Bind(cfg.Keybindings)
	}
	if err != nil {
		logger.Warn("some keybindings were not registered", "err", err)
	}
	if cfg.PaletteHotkey == "" {
		return
	}
	err = hk.RegisterFunc(cfg.PaletteHotkey, func() {
		exe, err := os.Executable()
		if err != nil {
			logger.Error("palette: failed to find executable", "err", err)
			return
		}
		cmd := exec.Command(exe, "palette")
		cmd.Stderr = os.Stderr
		if err := cmd.Start(); err != nil {
			logger.Error("palette: failed to launch", "err", err)
			return
		}
		go func() {
			var exitErr *exec.ExitError
			if err := cmd.Wait(); err != nil && !errors.As(err, &exitErr) {
				logger.Warn("palette: wait failed", "err", err)
			}
		}()
	})
	if err != nil {
		logger.Warn("failed to register palette hotkey", "key", cfg.PaletteHotkey, "err", err)
		return
	}
	logger.Info("palette hotkey registered", "key", cfg.PaletteHotkey)
}
