package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/1broseidon/tileshell/internal/config"
	"github.com/1broseidon/tileshell/internal/platform"
	"github.com/1broseidon/tileshell/internal/shell"
)

func TestReconcileMapsWindowsAndPanels(t *testing.T) {
	fb := newFakeBackend(dp1)
	fb.setWindows(topDock(10, 30), normalWindow(101, "DP-1"), normalWindow(102, "DP-1"))
	d := startDaemon(t, Options{Backend: fb})

	d.reconciler.ReconcileNow()

	err := d.Do(func(sh *shell.Shell) error {
		o, err := sh.Output("DP-1")
		if err != nil {
			return err
		}
		if o.WorkspaceCount() != config.DefaultWorkspaces {
			t.Fatalf("workspaces = %d, want %d", o.WorkspaceCount(), config.DefaultWorkspaces)
		}
		if got, want := o.UsableArea(), (shell.Rect{Y: 30, Width: 1920, Height: 1050}); got != want {
			t.Fatalf("usable = %v, want %v", got, want)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	if got, _ := fb.moved(10); got != (platform.Rect{Width: 1920, Height: 30}) {
		t.Fatalf("dock placed at %+v", got)
	}
	if got, _ := fb.moved(102); got != (platform.Rect{Width: 1920, Height: 1080}) {
		t.Fatalf("view 102 placed at %+v", got)
	}
	if v, _ := fb.isVisible(101); v {
		t.Fatalf("view 101 should be hidden behind 102")
	}
	if v, _ := fb.isVisible(102); !v {
		t.Fatalf("view 102 should be shown")
	}
	if got := fb.lastRestack(); !slices.Equal(got, []platform.WindowID{102, 10}) {
		t.Fatalf("restack order = %v, want [102 10]", got)
	}

	// Closing the visible window brings the hidden one back into the tile.
	fb.setWindows(topDock(10, 30), normalWindow(101, "DP-1"))
	d.reconciler.ReconcileNow()
	if v, _ := fb.isVisible(101); !v {
		t.Fatalf("view 101 not shown after 102 closed")
	}
	if got, _ := fb.moved(101); got != (platform.Rect{Width: 1920, Height: 1080}) {
		t.Fatalf("view 101 placed at %+v", got)
	}

	// A closed dock gives its band back.
	fb.setWindows(normalWindow(101, "DP-1"))
	d.reconciler.ReconcileNow()
	d.Do(func(sh *shell.Shell) error {
		o, _ := sh.Output("DP-1")
		if got := o.UsableArea(); got.Y != 0 || o.Layers().Len() != 0 {
			t.Fatalf("usable after dock closed = %v, %d panels", got, o.Layers().Len())
		}
		return nil
	})
}

func TestExecMovesViewsAndFocus(t *testing.T) {
	fb := newFakeBackend(dp1)
	fb.setWindows(normalWindow(101, "DP-1"))
	d := startDaemon(t, Options{Backend: fb})
	d.reconciler.ReconcileNow()

	if err := d.Exec("tile split vertical"); err != nil {
		t.Fatalf("split: %v", err)
	}
	if got, _ := fb.moved(101); got != (platform.Rect{Width: 960, Height: 1080}) {
		t.Fatalf("view after split = %+v", got)
	}

	if err := d.Exec("tile next"); err != nil {
		t.Fatalf("tile next: %v", err)
	}
	if err := d.Exec("tile prev"); err != nil {
		t.Fatalf("tile prev: %v", err)
	}

	fb.mu.Lock()
	warps := slices.Clone(fb.warps)
	focused := slices.Clone(fb.focused)
	fb.mu.Unlock()
	if want := [][2]int{{1440, 540}, {480, 540}}; !slices.Equal(warps, want) {
		t.Fatalf("pointer warps = %v, want %v", warps, want)
	}
	if !slices.Equal(focused, []platform.WindowID{101}) {
		t.Fatalf("focused windows = %v, want [101]", focused)
	}

	if err := d.Exec("workspace focus 9"); !errors.Is(err, shell.ErrOutOfRange) {
		t.Fatalf("workspace focus 9: got %v", err)
	}
}

func TestFocusOnHiddenWorkspaceLeavesPointer(t *testing.T) {
	fb := newFakeBackend(dp1)
	fb.setWindows(normalWindow(101, "DP-1"))
	d := startDaemon(t, Options{Backend: fb})
	d.reconciler.ReconcileNow()

	var hidden shell.TileID
	err := d.Do(func(sh *shell.Shell) error {
		if err := sh.FocusWorkspace("DP-1", 1); err != nil {
			return err
		}
		id, err := sh.SplitTile(shell.SplitVertical)
		if err != nil {
			return err
		}
		hidden = id
		return sh.FocusWorkspace("DP-1", 0)
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	fb.mu.Lock()
	warps, focused := len(fb.warps), len(fb.focused)
	fb.mu.Unlock()

	// Removing the focused tile of workspace 1 moves its focus while the
	// workspace stays hidden.
	err = d.Do(func(sh *shell.Shell) error {
		o, _ := sh.Output("DP-1")
		ws, _ := o.Workspace(1)
		return sh.RemoveTile(ws.Focused())
	})
	if err != nil {
		t.Fatalf("RemoveTile: %v", err)
	}
	fb.mu.Lock()
	gotWarps, gotFocused := len(fb.warps), len(fb.focused)
	fb.mu.Unlock()
	if gotWarps != warps || gotFocused != focused {
		t.Fatalf("hidden focus change touched X: warps %d -> %d, focus %d -> %d", warps, gotWarps, focused, gotFocused)
	}

	if err := d.Exec(fmt.Sprintf("tile focus %d", hidden)); err != nil {
		t.Fatalf("tile focus: %v", err)
	}
	d.Do(func(sh *shell.Shell) error {
		o, _ := sh.Output("DP-1")
		if o.CurrentIndex() != 1 {
			t.Fatalf("current workspace = %d, want 1", o.CurrentIndex())
		}
		return nil
	})
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if len(fb.warps) != warps+1 {
		t.Fatalf("focusing tile %d made %d warps, want 1", hidden, len(fb.warps)-warps)
	}
	if v := fb.visible[101]; v {
		t.Fatalf("view 101 shown on a hidden workspace")
	}
}

func TestViewsTranslateToDisplayOrigin(t *testing.T) {
	dp2 := platform.Display{ID: 1, Name: "DP-2", Bounds: platform.Rect{X: 1920, Width: 1280, Height: 1024}}
	fb := newFakeBackend(dp2)
	fb.setWindows(normalWindow(201, "DP-2"))
	d := startDaemon(t, Options{Backend: fb})
	d.reconciler.ReconcileNow()

	if got, _ := fb.moved(201); got != (platform.Rect{X: 1920, Width: 1280, Height: 1024}) {
		t.Fatalf("view on DP-2 placed at %+v", got)
	}
}

func TestLayerRulesTurnWindowsIntoPanels(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LayerRules = map[string]string{"conky": "background"}
	fb := newFakeBackend(dp1)
	w := normalWindow(300, "DP-1")
	w.AppID = "Conky"
	w.Bounds = platform.Rect{X: 10, Y: 10, Width: 300, Height: 400}
	fb.setWindows(w)

	d := startDaemon(t, Options{Config: cfg, Backend: fb})
	d.reconciler.ReconcileNow()

	d.Do(func(sh *shell.Shell) error {
		if _, ok := sh.View(300); ok {
			t.Fatalf("ruled window was mapped as a view")
		}
		p, err := sh.Panel(300)
		if err != nil {
			t.Fatalf("Panel: %v", err)
		}
		if p.State().Layer != shell.LayerBackground {
			t.Fatalf("layer = %v", p.State().Layer)
		}
		return nil
	})
	if got, _ := fb.moved(300); got != (platform.Rect{X: 810, Y: 340, Width: 300, Height: 400}) {
		t.Fatalf("ruled panel placed at %+v", got)
	}
}

func TestReloadDisablesOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("gap_size: 4\noutputs:\n  DP-1:\n    disabled: true\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	fb := newFakeBackend(dp1)
	fb.setWindows(normalWindow(101, "DP-1"))
	d := startDaemon(t, Options{ConfigPath: path, Backend: fb})
	d.reconciler.ReconcileNow()

	var reloaded *config.Config
	d.OnReload(func(c *config.Config) { reloaded = c })
	if err := d.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if reloaded == nil || reloaded.GapSize != 4 || d.Config().GapSize != 4 {
		t.Fatalf("reload hook did not see the new config")
	}
	d.Do(func(sh *shell.Shell) error {
		if n := len(sh.Outputs()); n != 0 {
			t.Fatalf("%d outputs after disabling DP-1", n)
		}
		if _, ok := sh.View(101); !ok {
			t.Fatalf("view dropped with its output")
		}
		return nil
	})
}

func TestReloadRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("workspaces: 0\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	d := startDaemon(t, Options{ConfigPath: path, Backend: newFakeBackend(dp1)})
	before := d.Config()
	if err := d.Reload(); err == nil {
		t.Fatalf("expected reload error")
	}
	if d.Config() != before {
		t.Fatalf("failed reload replaced the config")
	}
}

func TestRemovedDisplayMovesViews(t *testing.T) {
	dp2 := platform.Display{ID: 1, Name: "DP-2", Bounds: platform.Rect{X: 1920, Width: 1920, Height: 1080}}
	fb := newFakeBackend(dp1, dp2)
	fb.setWindows(normalWindow(101, "DP-1"))
	d := startDaemon(t, Options{Backend: fb})
	d.reconciler.ReconcileNow()

	fb.mu.Lock()
	fb.displays = []platform.Display{dp2}
	fb.mu.Unlock()
	d.reconciler.ReconcileNow()

	d.Do(func(sh *shell.Shell) error {
		if _, err := sh.Output("DP-1"); !errors.Is(err, shell.ErrUnknownOutput) {
			t.Fatalf("DP-1 still present: %v", err)
		}
		return nil
	})
	if got, _ := fb.moved(101); got.X != 1920 {
		t.Fatalf("view not moved onto DP-2: %+v", got)
	}
}
