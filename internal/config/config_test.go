package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.Keybindings["Mod4-1"] != "workspace focus 0" {
		t.Fatalf("expected Mod4-1 to focus workspace 0, got %q", cfg.Keybindings["Mod4-1"])
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Workspaces != DefaultWorkspaces || len(res.Files) != 0 {
		t.Fatalf("expected defaults, got %+v", res.Config)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.MaxTilesPerWorkspace != DefaultMaxTilesPerWorkspace {
		t.Fatalf("expected max_tiles_per_workspace %d, got %d", DefaultMaxTilesPerWorkspace, res.Config.MaxTilesPerWorkspace)
	}
}

func TestLoadFromPath_OutputsAndExplain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"workspaces: 6",
		"gap_size: 4",
		"outputs:",
		"  HDMI-1:",
		"    workspaces: 2",
		"    priority: 10",
		"  eDP-1:",
		"    disabled: true",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	hdmi, enabled := res.Config.OutputConfig("HDMI-1")
	if !enabled || hdmi.Workspaces != 2 || hdmi.Priority != 10 {
		t.Fatalf("HDMI-1 = %+v enabled=%v", hdmi, enabled)
	}
	if _, enabled := res.Config.OutputConfig("eDP-1"); enabled {
		t.Fatalf("expected eDP-1 disabled")
	}
	other, _ := res.Config.OutputConfig("DP-3")
	if other.Workspaces != 6 {
		t.Fatalf("expected unlisted output to inherit 6 workspaces, got %d", other.Workspaces)
	}

	val, src, err := Explain(res, "outputs.HDMI-1.priority")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 10 || src.Kind != SourceFile || src.Line != 6 {
		t.Fatalf("explain = %v from %+v", val, src)
	}
	val, src, err = Explain(res, "log_level")
	if err != nil || val != "info" || src.Kind != SourceDefault {
		t.Fatalf("explain log_level = %v %+v %v", val, src, err)
	}
	if _, _, err := Explain(res, "gap_size.top"); err == nil {
		t.Fatalf("expected error for path below a scalar")
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "workspace: 3\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "workspace") {
		t.Fatalf("expected error to mention the key, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "gap_size: 2\nworkspaces: 40\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "workspaces" || verr.Source.Line != 2 {
		t.Fatalf("unexpected validation error %+v", verr)
	}
	if !strings.Contains(err.Error(), "config.yaml:2:") {
		t.Fatalf("expected file:line context, got %q", err.Error())
	}
}

func TestLoadFromPath_KeybindingsMergeAndValidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"keybindings:",
		"  Mod4-Return: \"tile split vertical\"",
		"  Mod4-q: \"\"",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Keybindings["Mod4-Return"] != "tile split vertical" {
		t.Fatalf("expected new binding")
	}
	if _, ok := res.Config.Keybindings["Mod4-q"]; ok {
		t.Fatalf("expected empty command to remove binding")
	}
	if res.Config.Keybindings["Mod4-j"] != "tile next" {
		t.Fatalf("expected default bindings kept")
	}

	writeFile(t, path, "keybindings:\n  Mod4-x: \"launch browser\"\n")
	_, err = LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path != "keybindings.Mod4-x" {
		t.Fatalf("expected keybinding validation error, got %v", err)
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "conf.d", "10-a.yaml"), "gap_size: 3\nworkspaces: 2\n")
	writeFile(t, filepath.Join(dir, "conf.d", "20-b.yaml"), "gap_size: 5\n")
	writeFile(t, filepath.Join(dir, "conf.d", "notes.txt"), "ignored")
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "include: conf.d\nworkspaces: 8\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.GapSize != 5 {
		t.Fatalf("expected later include to win, gap_size=%d", res.Config.GapSize)
	}
	if res.Config.Workspaces != 8 {
		t.Fatalf("expected main file to win, workspaces=%d", res.Config.Workspaces)
	}
	if len(res.Files) != 3 || filepath.Base(res.Files[2]) != "config.yaml" {
		t.Fatalf("unexpected load order %v", res.Files)
	}
	_, src, _ := Explain(res, "gap_size")
	if filepath.Base(src.File) != "20-b.yaml" {
		t.Fatalf("expected gap_size from 20-b.yaml, got %+v", src)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), "include: b.yaml\n")
	writeFile(t, filepath.Join(dir, "b.yaml"), "include: a.yaml\n")

	_, err := LoadFromPath(filepath.Join(dir, "a.yaml"))
	if err == nil || !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected include cycle error, got %v", err)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "include: missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil || !strings.Contains(err.Error(), `include "missing.yaml"`) {
		t.Fatalf("expected include context, got %v", err)
	}
}

func TestLayerRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "layer_rules:\n  Conky: background\n  polybar: top\n")
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if l, ok := res.Config.LayerFor("conky"); !ok || l.String() != "background" {
		t.Fatalf("conky layer = %v %v", l, ok)
	}
	if _, ok := res.Config.LayerFor("xterm"); ok {
		t.Fatalf("expected no rule for xterm")
	}

	writeFile(t, path, "layer_rules:\n  dunst: ceiling\n")
	if _, err := LoadFromPath(path); err == nil {
		t.Fatalf("expected invalid layer error")
	}
}

func TestReconcileInterval(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.ReconcileInterval(); got != 500*time.Millisecond {
		t.Fatalf("default interval = %v", got)
	}
	cfg.ReconcileIntervalMS = 10
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected too-small interval to be rejected")
	}
}

func TestSaveToRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "config.yaml")
	cfg := DefaultConfig()
	cfg.GapSize = 7
	cfg.Outputs["DP-1"] = OutputOverride{Workspaces: 3, Priority: 1}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if res.Config.GapSize != 7 || res.Config.Outputs["DP-1"].Workspaces != 3 {
		t.Fatalf("reloaded config = %+v", res.Config)
	}
}

func TestDefaultConfigPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if path != "/tmp/xdg-test/tileshell/config.yaml" {
		t.Fatalf("path = %q", path)
	}
}

func TestLoadFromPath_Palette(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "palette_backend: Rofi\npalette_hotkey: Mod4-space\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.PaletteBackend != "rofi" || res.Config.PaletteHotkey != "Mod4-space" {
		t.Fatalf("unexpected palette config: %q %q", res.Config.PaletteBackend, res.Config.PaletteHotkey)
	}
	value, src, err := Explain(res, "palette_hotkey")
	if err != nil || value != "Mod4-space" || src.Line != 2 {
		t.Fatalf("explain palette_hotkey = %v %+v %v", value, src, err)
	}

	writeFile(t, path, "palette_backend: kitty\n")
	_, err = LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path != "palette_backend" {
		t.Fatalf("expected palette_backend validation error, got %v", err)
	}
}
