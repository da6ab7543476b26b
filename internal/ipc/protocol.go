package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload         CommandType = "RELOAD"
	CommandGetStatus      CommandType = "GET_STATUS"
	CommandGetState       CommandType = "GET_STATE"
	CommandFocusWorkspace CommandType = "FOCUS_WORKSPACE"
	CommandFocusTile      CommandType = "FOCUS_TILE"
	CommandSplitTile      CommandType = "SPLIT_TILE"
	CommandRemoveTile     CommandType = "REMOVE_TILE"
	CommandArrange        CommandType = "ARRANGE"
	CommandExec           CommandType = "EXEC"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Outputs          int    `json:"outputs"`
	FocusedOutput    string `json:"focused_output,omitempty"`
	CurrentWorkspace int    `json:"current_workspace"`
	Tiles            int    `json:"tiles"`
	Views            int    `json:"views"`
	UptimeSeconds    int64  `json:"uptime_seconds"`
	DaemonRunning    bool   `json:"daemon_running"`
}

// FocusWorkspacePayload selects a workspace. An empty output means the
// focused one.
type FocusWorkspacePayload struct {
	Output string `json:"output,omitempty"`
	Index  int    `json:"index"`
}

type FocusTilePayload struct {
	Tile uint32 `json:"tile"`
}

type SplitTilePayload struct {
	Orientation string `json:"orientation"` // "horizontal" or "vertical"
}

// SplitTileData is returned by SPLIT_TILE.
type SplitTileData struct {
	Tile uint32 `json:"tile"`
}

// RemoveTilePayload names the tile to remove; 0 means the focused tile.
type RemoveTilePayload struct {
	Tile uint32 `json:"tile,omitempty"`
}

type ArrangePayload struct {
	Output string `json:"output,omitempty"`
}

type ExecPayload struct {
	Command string `json:"command"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
