package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tileshell/internal/shell"
)

const (
	ServerName    = "tileshell"
	ServerVersion = "0.1.0"
)

// Daemon is the slice of the IPC client the tools drive. *ipc.Client
// satisfies it.
type Daemon interface {
	GetState() (*shell.State, error)
	FocusWorkspace(output string, index int) error
	FocusTile(tile uint32) error
	SplitTile(orientation string) (uint32, error)
	RemoveTile(tile uint32) error
	Arrange(output string) error
	Exec(command string) error
}

// Server exposes the running shell's layout and tile commands as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    *slog.Logger
}

// NewServer creates an MCP server that forwards tool calls to d.
func NewServer(d Daemon, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		mcpServer: mcpsdk.NewServer(&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		}, nil),
		daemon: d,
		logger: logger,
	}
	s.registerTools()
	return s
}

// Run serves over stdin/stdout until the client disconnects or ctx ends.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_layout",
		Description: "Return the current layout: every output with its usable area, workspaces, tiles and the views bound to them, plus mapped panels per layer.",
	}, s.handleGetLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_workspace",
		Description: "Make a workspace visible on an output. Index is zero-based; output defaults to the focused output.",
	}, s.handleFocusWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_tile",
		Description: "Focus a tile by id. The pointer is warped to the tile centre and the view in it is activated.",
	}, s.handleFocusTile)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "split_tile",
		Description: "Split the focused tile into two halves (vertical puts the new tile on the right, horizontal below). Returns the new tile id.",
	}, s.handleSplitTile)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "remove_tile",
		Description: "Remove a tile and give its space to a neighbour. Tile 0 removes the focused tile. The last tile of a workspace cannot be removed.",
	}, s.handleRemoveTile)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "arrange",
		Description: "Re-run panel arrangement for an output, or for every output when output is empty.",
	}, s.handleArrange)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "run_command",
		Description: "Run a shell command line such as \"tile next\", \"workspace focus 2\" or \"tile swap next\".",
	}, s.handleRunCommand)
}
