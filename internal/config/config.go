package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/1broseidon/tileshell/internal/shell"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWorkspaces           = 4
	DefaultMaxTilesPerWorkspace = 64
	DefaultReconcileIntervalMS  = 500
)

// OutputOverride adjusts how one named output is configured.
type OutputOverride struct {
	// Workspaces overrides the global workspace count (0 = inherit).
	Workspaces int `yaml:"workspaces,omitempty"`
	// Disabled outputs are never configured.
	Disabled bool `yaml:"disabled,omitempty"`
	// Priority orders outputs; the highest receives panels that name no
	// output.
	Priority int `yaml:"priority,omitempty"`
}

// Config is the effective daemon configuration.
type Config struct {
	Display              string                    `yaml:"display,omitempty"`
	XAuthority           string                    `yaml:"xauthority,omitempty"`
	Workspaces           int                       `yaml:"workspaces"`
	Outputs              map[string]OutputOverride `yaml:"outputs,omitempty"`
	GapSize              int                       `yaml:"gap_size"`
	MaxTilesPerWorkspace int                       `yaml:"max_tiles_per_workspace"`
	LogLevel             string                    `yaml:"log_level"`
	ReconcileIntervalMS  int                       `yaml:"reconcile_interval_ms"`

	// Keybindings maps an X key sequence (e.g. "Mod4-s") to a shell command.
	Keybindings map[string]string `yaml:"keybindings"`

	// LayerRules maps a WM_CLASS to the panel layer its windows go on.
	LayerRules map[string]string `yaml:"layer_rules,omitempty"`

	// PaletteBackend picks the launcher used by "tileshell palette".
	PaletteBackend string `yaml:"palette_backend"`
	// PaletteHotkey opens the palette from the daemon (empty = unbound).
	PaletteHotkey string `yaml:"palette_hotkey,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Workspaces:           DefaultWorkspaces,
		Outputs:              map[string]OutputOverride{},
		GapSize:              0,
		MaxTilesPerWorkspace: DefaultMaxTilesPerWorkspace,
		LogLevel:             "info",
		ReconcileIntervalMS:  DefaultReconcileIntervalMS,
		Keybindings:          defaultKeybindings(),
		LayerRules:           map[string]string{},
		PaletteBackend:       "auto",
	}
}

func defaultKeybindings() map[string]string {
	kb := map[string]string{
		"Mod4-Tab":       "workspace next",
		"Mod4-Shift-Tab": "workspace prev",
		"Mod4-j":         "tile next",
		"Mod4-k":         "tile prev",
		"Mod4-s":         "tile split horizontal",
		"Mod4-v":         "tile split vertical",
		"Mod4-q":         "tile remove",
		"Mod4-Shift-j":   "tile swap next",
		"Mod4-Shift-k":   "tile swap prev",
		"Mod4-r":         "arrange",
	}
	for i := 1; i <= DefaultWorkspaces; i++ {
		kb[fmt.Sprintf("Mod4-%d", i)] = fmt.Sprintf("workspace focus %d", i-1)
	}
	return kb
}

// OutputConfig returns the shell configuration for the named output and
// whether the output is enabled.
func (c *Config) OutputConfig(name string) (shell.OutputConfig, bool) {
	out := shell.OutputConfig{Name: name, Workspaces: c.Workspaces}
	ov, ok := c.Outputs[name]
	if !ok {
		return out, true
	}
	if ov.Workspaces > 0 {
		out.Workspaces = ov.Workspaces
	}
	out.Priority = ov.Priority
	return out, !ov.Disabled
}

// ReconcileInterval returns the X11 poll interval.
func (c *Config) ReconcileInterval() time.Duration {
	if c == nil || c.ReconcileIntervalMS <= 0 {
		return DefaultReconcileIntervalMS * time.Millisecond
	}
	return time.Duration(c.ReconcileIntervalMS) * time.Millisecond
}

// LayerFor returns the panel layer configured for a window class.
func (c *Config) LayerFor(class string) (shell.Layer, bool) {
	for rule, name := range c.LayerRules {
		if strings.EqualFold(rule, class) {
			l, err := shell.ParseLayer(name)
			return l, err == nil
		}
	}
	return 0, false
}

// SaveTo writes the configuration to path.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.Workspaces < 1 || c.Workspaces > shell.MaxWorkspaces {
		return &ValidationError{Path: "workspaces", Err: fmt.Errorf("workspaces must be between 1 and %d", shell.MaxWorkspaces)}
	}
	for _, name := range sortedKeys(c.Outputs) {
		ov := c.Outputs[name]
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Path: "outputs", Err: fmt.Errorf("outputs contains an empty name")}
		}
		if ov.Workspaces < 0 || ov.Workspaces > shell.MaxWorkspaces {
			return &ValidationError{Path: "outputs." + name + ".workspaces", Err: fmt.Errorf("workspaces must be between 0 (inherit) and %d", shell.MaxWorkspaces)}
		}
	}
	if c.GapSize < 0 {
		return &ValidationError{Path: "gap_size", Err: fmt.Errorf("gap_size must be >= 0")}
	}
	if c.MaxTilesPerWorkspace < 0 {
		return &ValidationError{Path: "max_tiles_per_workspace", Err: fmt.Errorf("max_tiles_per_workspace must be >= 0")}
	}
	if c.ReconcileIntervalMS < 50 {
		return &ValidationError{Path: "reconcile_interval_ms", Err: fmt.Errorf("reconcile_interval_ms must be >= 50")}
	}
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	switch c.PaletteBackend {
	case "auto", "rofi", "fuzzel", "wofi", "dmenu":
	default:
		return &ValidationError{Path: "palette_backend", Err: fmt.Errorf("palette_backend must be one of: auto, rofi, fuzzel, wofi, dmenu")}
	}
	if c.Keybindings == nil {
		return &ValidationError{Path: "keybindings", Err: fmt.Errorf("keybindings must not be null")}
	}
	for _, key := range sortedKeys(c.Keybindings) {
		if strings.TrimSpace(key) == "" {
			return &ValidationError{Path: "keybindings", Err: fmt.Errorf("keybindings contains an empty key sequence")}
		}
		if _, err := shell.ParseCommand(c.Keybindings[key]); err != nil {
			return &ValidationError{Path: "keybindings." + key, Err: err}
		}
	}
	for _, class := range sortedKeys(c.LayerRules) {
		if _, err := shell.ParseLayer(c.LayerRules[class]); err != nil {
			return &ValidationError{Path: "layer_rules." + class, Err: err}
		}
	}
	return nil
}
