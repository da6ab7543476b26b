package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleGetLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args GetLayoutInput) (*mcpsdk.CallToolResult, GetLayoutOutput, error) {
	state, err := s.daemon.GetState()
	if err != nil {
		return nil, GetLayoutOutput{}, fmt.Errorf("failed to read layout: %w", err)
	}
	out := GetLayoutOutput{
		FocusedOutput: state.FocusedOutput,
		DetachedViews: state.DetachedViews,
	}
	if args.Output == "" {
		out.Outputs = state.Outputs
		return nil, out, nil
	}
	for _, o := range state.Outputs {
		if o.Name == args.Output {
			out.Outputs = append(out.Outputs, o)
			return nil, out, nil
		}
	}
	return nil, GetLayoutOutput{}, fmt.Errorf("unknown output %q", args.Output)
}

func (s *Server) handleFocusWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args FocusWorkspaceInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if args.Index < 0 {
		return nil, AckOutput{}, fmt.Errorf("index must be >= 0, got %d", args.Index)
	}
	s.logger.Debug("mcp focus workspace", "output", args.Output, "index", args.Index)
	if err := s.daemon.FocusWorkspace(args.Output, args.Index); err != nil {
		return nil, AckOutput{}, err
	}
	return nil, AckOutput{OK: true}, nil
}

func (s *Server) handleFocusTile(_ context.Context, _ *mcpsdk.CallToolRequest, args FocusTileInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if args.Tile == 0 {
		return nil, AckOutput{}, fmt.Errorf("tile is required")
	}
	s.logger.Debug("mcp focus tile", "tile", args.Tile)
	if err := s.daemon.FocusTile(args.Tile); err != nil {
		return nil, AckOutput{}, err
	}
	return nil, AckOutput{OK: true}, nil
}

func (s *Server) handleSplitTile(_ context.Context, _ *mcpsdk.CallToolRequest, args SplitTileInput) (*mcpsdk.CallToolResult, SplitTileOutput, error) {
	orientation := strings.ToLower(strings.TrimSpace(args.Orientation))
	switch orientation {
	case "vertical", "horizontal":
	default:
		return nil, SplitTileOutput{}, fmt.Errorf("orientation must be vertical or horizontal, got %q", args.Orientation)
	}
	s.logger.Debug("mcp split tile", "orientation", orientation)
	id, err := s.daemon.SplitTile(orientation)
	if err != nil {
		return nil, SplitTileOutput{}, err
	}
	return nil, SplitTileOutput{Tile: id}, nil
}

func (s *Server) handleRemoveTile(_ context.Context, _ *mcpsdk.CallToolRequest, args RemoveTileInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	s.logger.Debug("mcp remove tile", "tile", args.Tile)
	if err := s.daemon.RemoveTile(args.Tile); err != nil {
		return nil, AckOutput{}, err
	}
	return nil, AckOutput{OK: true}, nil
}

func (s *Server) handleArrange(_ context.Context, _ *mcpsdk.CallToolRequest, args ArrangeInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := s.daemon.Arrange(args.Output); err != nil {
		return nil, AckOutput{}, err
	}
	return nil, AckOutput{OK: true}, nil
}

func (s *Server) handleRunCommand(_ context.Context, _ *mcpsdk.CallToolRequest, args RunCommandInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	line := strings.TrimSpace(args.Command)
	if line == "" {
		return nil, AckOutput{}, fmt.Errorf("command is required")
	}
	s.logger.Debug("mcp run command", "command", line)
	if err := s.daemon.Exec(line); err != nil {
		return nil, AckOutput{}, err
	}
	return nil, AckOutput{OK: true}, nil
}
