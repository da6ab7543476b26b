package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at a dotted YAML path and where it came
// from.
//
// Supported paths:
//
//	display, xauthority, workspaces, gap_size, max_tiles_per_workspace,
//	log_level, reconcile_interval_ms, palette_backend, palette_hotkey
//	outputs.<name>.workspaces|disabled|priority
//	keybindings.<sequence>
//	layer_rules.<WM_CLASS>
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}
	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.SplitN(path, ".", 2)
	rest := ""
	if len(parts) == 2 {
		rest = parts[1]
	}
	scalar := func(v any) (any, error) {
		if rest != "" {
			return nil, fmt.Errorf("%s is not a mapping", parts[0])
		}
		return v, nil
	}

	switch parts[0] {
	case "display":
		return scalar(cfg.Display)
	case "xauthority":
		return scalar(cfg.XAuthority)
	case "workspaces":
		return scalar(cfg.Workspaces)
	case "gap_size":
		return scalar(cfg.GapSize)
	case "max_tiles_per_workspace":
		return scalar(cfg.MaxTilesPerWorkspace)
	case "log_level":
		return scalar(cfg.LogLevel)
	case "reconcile_interval_ms":
		return scalar(cfg.ReconcileIntervalMS)
	case "palette_backend":
		return scalar(cfg.PaletteBackend)
	case "palette_hotkey":
		return scalar(cfg.PaletteHotkey)
	case "keybindings":
		if rest == "" {
			return cfg.Keybindings, nil
		}
		cmd, ok := cfg.Keybindings[rest]
		if !ok {
			return nil, fmt.Errorf("no keybinding %q", rest)
		}
		return cmd, nil
	case "layer_rules":
		if rest == "" {
			return cfg.LayerRules, nil
		}
		layer, ok := cfg.LayerRules[rest]
		if !ok {
			return nil, fmt.Errorf("no layer rule for %q", rest)
		}
		return layer, nil
	case "outputs":
		if rest == "" {
			return cfg.Outputs, nil
		}
		name, field, _ := strings.Cut(rest, ".")
		ov, ok := cfg.Outputs[name]
		if !ok {
			return nil, fmt.Errorf("no output override %q", name)
		}
		switch field {
		case "":
			return ov, nil
		case "workspaces":
			return ov.Workspaces, nil
		case "disabled":
			return ov.Disabled, nil
		case "priority":
			return ov.Priority, nil
		}
		return nil, fmt.Errorf("unknown output field %q", field)
	}
	return nil, fmt.Errorf("unknown config path %q", path)
}
