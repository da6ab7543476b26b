package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/1broseidon/tileshell/internal/shell"
)

// Controller is the daemon side the server drives. Do runs fn on the
// goroutine that owns the shell and returns its error.
type Controller interface {
	Do(fn func(*shell.Shell) error) error
	Reload() error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	ctl          Controller
	logger       *slog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a new IPC server bound to socketPath once started.
func NewServer(socketPath string, ctl Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		socketPath: socketPath,
		ctl:        ctl,
		logger:     logger,
		startTime:  time.Now(),
	}
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	// Remove a stale socket left by a crashed daemon.
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)
	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			done := s.shuttingDown
			s.shutdownMu.Unlock()
			if done {
				return
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(10 * time.Second))

	data, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.writeResponse(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}
	s.logger.Debug("IPC request", "command", req.Command)
	s.writeResponse(conn, s.handleCommand(req))
}

func (s *Server) writeResponse(conn net.Conn, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}
	if _, err := conn.Write(append(data, '\n')); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetState:
		return s.handleGetState()
	case CommandFocusWorkspace:
		var p FocusWorkspacePayload
		return s.withPayload(req.Payload, &p, func(sh *shell.Shell) (any, error) {
			return nil, sh.FocusWorkspace(p.Output, p.Index)
		})
	case CommandFocusTile:
		var p FocusTilePayload
		return s.withPayload(req.Payload, &p, func(sh *shell.Shell) (any, error) {
			return nil, sh.FocusTile(shell.TileID(p.Tile))
		})
	case CommandSplitTile:
		var p SplitTilePayload
		return s.withPayload(req.Payload, &p, func(sh *shell.Shell) (any, error) {
			c, err := shell.ParseCommand("tile split " + p.Orientation)
			if err != nil {
				return nil, err
			}
			id, err := sh.SplitTile(c.Orientation)
			if err != nil {
				return nil, err
			}
			return SplitTileData{Tile: uint32(id)}, nil
		})
	case CommandRemoveTile:
		var p RemoveTilePayload
		return s.withPayload(req.Payload, &p, func(sh *shell.Shell) (any, error) {
			if p.Tile == 0 {
				return nil, sh.Exec(shell.Command{Kind: shell.CmdRemoveTile})
			}
			return nil, sh.RemoveTile(shell.TileID(p.Tile))
		})
	case CommandArrange:
		var p ArrangePayload
		return s.withPayload(req.Payload, &p, func(sh *shell.Shell) (any, error) {
			if p.Output == "" {
				sh.ArrangeAll()
				return nil, nil
			}
			if _, err := sh.Output(p.Output); err != nil {
				return nil, err
			}
			sh.Arrange(p.Output)
			return nil, nil
		})
	case CommandExec:
		var p ExecPayload
		return s.withPayload(req.Payload, &p, func(sh *shell.Shell) (any, error) {
			if strings.TrimSpace(p.Command) == "" {
				return nil, fmt.Errorf("command is required")
			}
			return nil, sh.ExecLine(p.Command)
		})
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// withPayload decodes an optional payload into dst, then runs fn on the
// shell owner goroutine.
func (s *Server) withPayload(payload json.RawMessage, dst any, fn func(*shell.Shell) (any, error)) *Response {
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, dst); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
		}
	}
	var data any
	err := s.ctl.Do(func(sh *shell.Shell) error {
		var err error
		data, err = fn(sh)
		return err
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleReload() *Response {
	s.logger.Info("IPC: reload requested")
	if err := s.ctl.Reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleGetStatus() *Response {
	status := StatusData{
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}
	err := s.ctl.Do(func(sh *shell.Shell) error {
		st := sh.State()
		status.Outputs = len(st.Outputs)
		status.FocusedOutput = st.FocusedOutput
		status.Views = len(st.DetachedViews)
		for _, o := range st.Outputs {
			if o.Name == st.FocusedOutput {
				status.CurrentWorkspace = o.CurrentWorkspace
			}
			for _, ws := range o.Workspaces {
				status.Tiles += len(ws.Tiles)
				status.Views += len(ws.Hidden)
				for _, t := range ws.Tiles {
					if t.View != 0 {
						status.Views++
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleGetState() *Response {
	var st shell.State
	if err := s.ctl.Do(func(sh *shell.Shell) error {
		st = sh.State()
		return nil
	}); err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, err := NewOKResponse(st)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
		s.wg.Wait()
	}
	os.Remove(s.socketPath)
}
