package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/tileshell/internal/shell"
)

// ErrStopped is returned by Do once the loop has exited.
var ErrStopped = errors.New("daemon loop stopped")

type request struct {
	fn    func(*shell.Shell) error
	reply chan error
}

// Loop owns a shell on a single goroutine. Every other goroutine reaches
// the shell through Do, so shell calls never interleave.
type Loop struct {
	sh     *shell.Shell
	after  func(*shell.Shell)
	reqs   chan request
	done   chan struct{}
	logger *slog.Logger
}

// NewLoop creates a loop for sh. after, when set, runs on the loop
// goroutine following every submitted function.
func NewLoop(sh *shell.Shell, after func(*shell.Shell), logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loop{
		sh:     sh,
		after:  after,
		reqs:   make(chan request),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Do runs fn on the loop goroutine and waits for its result.
func (l *Loop) Do(fn func(*shell.Shell) error) error {
	req := request{fn: fn, reply: make(chan error, 1)}
	select {
	case l.reqs <- req:
	case <-l.done:
		return ErrStopped
	}
	select {
	case err := <-req.reply:
		return err
	case <-l.done:
		select {
		case err := <-req.reply:
			return err
		default:
			return ErrStopped
		}
	}
}

// Run serves Do calls until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-l.reqs:
			req.reply <- l.exec(req.fn)
		}
	}
}

func (l *Loop) exec(fn func(*shell.Shell) error) (err error) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("shell panic recovered", "panic", r)
			err = fmt.Errorf("shell panic: %v", r)
		}
	}()
	err = fn(l.sh)
	if l.after != nil {
		l.after(l.sh)
	}
	return err
}
