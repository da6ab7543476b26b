package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawOutput struct {
	Workspaces *int  `yaml:"workspaces"`
	Disabled   *bool `yaml:"disabled"`
	Priority   *int  `yaml:"priority"`
}

// RawConfig mirrors one YAML file. Nil means "not set here".
type RawConfig struct {
	Include              IncludeList          `yaml:"include"`
	Display              *string              `yaml:"display"`
	XAuthority           *string              `yaml:"xauthority"`
	Workspaces           *int                 `yaml:"workspaces"`
	Outputs              map[string]RawOutput `yaml:"outputs"`
	GapSize              *int                 `yaml:"gap_size"`
	MaxTilesPerWorkspace *int                 `yaml:"max_tiles_per_workspace"`
	LogLevel             *string              `yaml:"log_level"`
	ReconcileIntervalMS  *int                 `yaml:"reconcile_interval_ms"`
	Keybindings          map[string]string    `yaml:"keybindings"`
	LayerRules           map[string]string    `yaml:"layer_rules"`
	PaletteBackend       *string              `yaml:"palette_backend"`
	PaletteHotkey        *string              `yaml:"palette_hotkey"`
}

// merge layers overlay on top of c. Maps merge per key; a key bound to an
// empty command in overlay removes the binding.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.XAuthority != nil {
		out.XAuthority = overlay.XAuthority
	}
	if overlay.Workspaces != nil {
		out.Workspaces = overlay.Workspaces
	}
	if overlay.GapSize != nil {
		out.GapSize = overlay.GapSize
	}
	if overlay.MaxTilesPerWorkspace != nil {
		out.MaxTilesPerWorkspace = overlay.MaxTilesPerWorkspace
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.ReconcileIntervalMS != nil {
		out.ReconcileIntervalMS = overlay.ReconcileIntervalMS
	}
	if overlay.PaletteBackend != nil {
		out.PaletteBackend = overlay.PaletteBackend
	}
	if overlay.PaletteHotkey != nil {
		out.PaletteHotkey = overlay.PaletteHotkey
	}

	if overlay.Outputs != nil {
		merged := make(map[string]RawOutput, len(c.Outputs)+len(overlay.Outputs))
		for name, o := range c.Outputs {
			merged[name] = o
		}
		for name, o := range overlay.Outputs {
			merged[name] = mergeRawOutput(merged[name], o)
		}
		out.Outputs = merged
	}
	out.Keybindings = mergeStringMap(c.Keybindings, overlay.Keybindings)
	out.LayerRules = mergeStringMap(c.LayerRules, overlay.LayerRules)
	return out
}

func mergeRawOutput(base, overlay RawOutput) RawOutput {
	out := base
	if overlay.Workspaces != nil {
		out.Workspaces = overlay.Workspaces
	}
	if overlay.Disabled != nil {
		out.Disabled = overlay.Disabled
	}
	if overlay.Priority != nil {
		out.Priority = overlay.Priority
	}
	return out
}

func mergeStringMap(base, overlay map[string]string) map[string]string {
	if overlay == nil {
		return base
	}
	out := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}
