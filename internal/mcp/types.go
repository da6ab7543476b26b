package mcp

import "github.com/1broseidon/tileshell/internal/shell"

// GetLayoutInput is the input for the get_layout tool.
type GetLayoutInput struct {
	Output string `json:"output,omitempty" jsonschema:"Only report this output (default: all outputs)"`
}

// GetLayoutOutput is the output for the get_layout tool.
type GetLayoutOutput struct {
	FocusedOutput string              `json:"focused_output,omitempty"`
	Outputs       []shell.OutputState `json:"outputs"`
	DetachedViews []shell.ViewID      `json:"detached_views,omitempty"`
}

// FocusWorkspaceInput is the input for the focus_workspace tool.
type FocusWorkspaceInput struct {
	Output string `json:"output,omitempty" jsonschema:"Output name (default: focused output)"`
	Index  int    `json:"index" jsonschema:"required,Zero-based workspace index"`
}

// FocusTileInput is the input for the focus_tile tool.
type FocusTileInput struct {
	Tile uint32 `json:"tile" jsonschema:"required,Tile id as reported by get_layout"`
}

// SplitTileInput is the input for the split_tile tool.
type SplitTileInput struct {
	Orientation string `json:"orientation" jsonschema:"required,vertical or horizontal"`
}

// SplitTileOutput is the output for the split_tile tool.
type SplitTileOutput struct {
	Tile uint32 `json:"tile"`
}

// RemoveTileInput is the input for the remove_tile tool.
type RemoveTileInput struct {
	Tile uint32 `json:"tile,omitempty" jsonschema:"Tile id to remove (default: focused tile)"`
}

// ArrangeInput is the input for the arrange tool.
type ArrangeInput struct {
	Output string `json:"output,omitempty" jsonschema:"Output name (default: every output)"`
}

// RunCommandInput is the input for the run_command tool.
type RunCommandInput struct {
	Command string `json:"command" jsonschema:"required,Command line, e.g. tile split vertical"`
}

// AckOutput is returned by tools that only change state.
type AckOutput struct {
	OK bool `json:"ok"`
}
