package config

import (
	"fmt"
	"sort"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildEffectiveConfig applies raw on top of DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.XAuthority != nil {
		cfg.XAuthority = *raw.XAuthority
	}
	if raw.Workspaces != nil {
		cfg.Workspaces = *raw.Workspaces
	}
	if raw.GapSize != nil {
		cfg.GapSize = *raw.GapSize
	}
	if raw.MaxTilesPerWorkspace != nil {
		cfg.MaxTilesPerWorkspace = *raw.MaxTilesPerWorkspace
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}
	if raw.ReconcileIntervalMS != nil {
		cfg.ReconcileIntervalMS = *raw.ReconcileIntervalMS
	}
	if raw.PaletteBackend != nil {
		cfg.PaletteBackend = strings.ToLower(strings.TrimSpace(*raw.PaletteBackend))
	}
	if raw.PaletteHotkey != nil {
		cfg.PaletteHotkey = strings.TrimSpace(*raw.PaletteHotkey)
	}

	for _, name := range sortedKeys(raw.Outputs) {
		o := raw.Outputs[name]
		if strings.TrimSpace(name) == "" {
			return nil, &ValidationError{Path: "outputs", Err: fmt.Errorf("output name must not be empty")}
		}
		cfg.Outputs[name] = OutputOverride{
			Workspaces: derefInt(o.Workspaces, 0),
			Disabled:   o.Disabled != nil && *o.Disabled,
			Priority:   derefInt(o.Priority, 0),
		}
	}

	for key, cmd := range raw.Keybindings {
		if strings.TrimSpace(cmd) == "" {
			delete(cfg.Keybindings, key)
			continue
		}
		cfg.Keybindings[key] = cmd
	}
	for class, layer := range raw.LayerRules {
		cfg.LayerRules[class] = layer
	}

	return cfg, nil
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
