package daemon

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/1broseidon/tileshell/internal/shell"
)

func TestLoopRunsFunctionsInOrder(t *testing.T) {
	flushes := 0
	l := NewLoop(shell.New(shell.Options{}), func(*shell.Shell) { flushes++ }, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	defer func() {
		cancel()
		<-l.done
	}()

	var got []int
	for i := range 3 {
		if err := l.Do(func(*shell.Shell) error {
			got = append(got, i)
			return nil
		}); err != nil {
			t.Fatalf("Do: %v", err)
		}
	}
	if len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Fatalf("ran %v", got)
	}
	if flushes != 3 {
		t.Fatalf("after hook ran %d times, want 3", flushes)
	}

	want := errors.New("boom")
	if err := l.Do(func(*shell.Shell) error { return want }); !errors.Is(err, want) {
		t.Fatalf("Do error = %v", err)
	}
}

func TestLoopRecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoop(shell.New(shell.Options{}), nil, NewLogger(&buf, "debug"))
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	defer func() {
		cancel()
		<-l.done
	}()

	err := l.Do(func(*shell.Shell) error { panic("bad state") })
	if err == nil || !strings.Contains(err.Error(), "bad state") {
		t.Fatalf("Do after panic = %v", err)
	}
	if !strings.Contains(buf.String(), "shell panic recovered") {
		t.Fatalf("panic not logged: %q", buf.String())
	}
	if err := l.Do(func(*shell.Shell) error { return nil }); err != nil {
		t.Fatalf("loop unusable after panic: %v", err)
	}
}

func TestLoopStopped(t *testing.T) {
	l := NewLoop(shell.New(shell.Options{}), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l.Run(ctx)

	if err := l.Do(func(*shell.Shell) error { return nil }); !errors.Is(err, ErrStopped) {
		t.Fatalf("Do on stopped loop = %v", err)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warning")
	logger.Info("quiet")
	logger.Warn("loud", "output", "DP-1")
	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Fatalf("info logged at warning level: %q", out)
	}
	if !strings.Contains(out, "loud") || !strings.Contains(out, "DP-1") {
		t.Fatalf("warning missing: %q", out)
	}

	if parseLevel("nonsense") != parseLevel("info") {
		t.Fatalf("unknown level should fall back to info")
	}
}
