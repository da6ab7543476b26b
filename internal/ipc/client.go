package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/tileshell/internal/runtimepath"
	"github.com/1broseidon/tileshell/internal/shell"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for an explicit socket path.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(command CommandType, payload any) (*Response, error) {
	req := &Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = data
	}

	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	if _, err := conn.Write(append(reqData, '\n')); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	respData, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

func decodeData[T any](resp *Response, what string) (*T, error) {
	var out T
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse %s data: %w", what, err)
	}
	return &out, nil
}

// Reload asks the daemon to re-read its configuration.
func (c *Client) Reload() error {
	_, err := c.sendRequest(CommandReload, nil)
	return err
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(CommandGetStatus, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[StatusData](resp, "status")
}

// GetState retrieves the full layout snapshot.
func (c *Client) GetState() (*shell.State, error) {
	resp, err := c.sendRequest(CommandGetState, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[shell.State](resp, "state")
}

// FocusWorkspace switches the visible workspace of output (empty = focused).
func (c *Client) FocusWorkspace(output string, index int) error {
	_, err := c.sendRequest(CommandFocusWorkspace, FocusWorkspacePayload{Output: output, Index: index})
	return err
}

// FocusTile focuses a tile by id.
func (c *Client) FocusTile(tile uint32) error {
	_, err := c.sendRequest(CommandFocusTile, FocusTilePayload{Tile: tile})
	return err
}

// SplitTile splits the focused tile and returns the new tile's id.
func (c *Client) SplitTile(orientation string) (uint32, error) {
	resp, err := c.sendRequest(CommandSplitTile, SplitTilePayload{Orientation: orientation})
	if err != nil {
		return 0, err
	}
	data, err := decodeData[SplitTileData](resp, "split")
	if err != nil {
		return 0, err
	}
	return data.Tile, nil
}

// RemoveTile removes a tile; 0 removes the focused one.
func (c *Client) RemoveTile(tile uint32) error {
	_, err := c.sendRequest(CommandRemoveTile, RemoveTilePayload{Tile: tile})
	return err
}

// Arrange re-arranges panels on output, or every output when empty.
func (c *Client) Arrange(output string) error {
	_, err := c.sendRequest(CommandArrange, ArrangePayload{Output: output})
	return err
}

// Exec runs a shell command line such as "tile split vertical".
func (c *Client) Exec(command string) error {
	_, err := c.sendRequest(CommandExec, ExecPayload{Command: command})
	return err
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
