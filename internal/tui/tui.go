package tui

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/tileshell/internal/shell"
)

// DefaultRefresh is how often the viewer polls the daemon for a new layout.
const DefaultRefresh = 500 * time.Millisecond

// Client is what the viewer needs from the daemon. *ipc.Client satisfies it.
type Client interface {
	GetState() (*shell.State, error)
	FocusWorkspace(output string, index int) error
	Exec(command string) error
}

// Run starts the layout viewer and blocks until the user quits.
func Run(client Client, refresh time.Duration) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	if refresh <= 0 {
		refresh = DefaultRefresh
	}
	p := tea.NewProgram(newModel(client, refresh), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(model); ok && m.fatal != nil {
		return m.fatal
	}
	return nil
}
