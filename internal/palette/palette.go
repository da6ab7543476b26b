// Package palette shows the shell's workspaces, tiles and commands in an
// external dmenu-style launcher and runs the chosen entry.
package palette

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/1broseidon/tileshell/internal/shell"
)

// ErrCancelled is returned when the user closes the palette without selecting an item.
var ErrCancelled = errors.New("palette cancelled")

// Client is what the palette needs from the daemon. *ipc.Client satisfies it.
type Client interface {
	GetState() (*shell.State, error)
	FocusWorkspace(output string, index int) error
	Exec(command string) error
}

// Action is what selecting an item does.
type Action struct {
	// Line is a command line run against the focused output.
	Line string
	// Output, when set, shows Workspace on that output instead of running Line.
	Output    string
	Workspace int
}

// Run performs the action against c.
func (a Action) Run(c Client) error {
	if a.Output != "" {
		return c.FocusWorkspace(a.Output, a.Workspace)
	}
	if a.Line == "" {
		return nil
	}
	return c.Exec(a.Line)
}

// Item is a single selectable entry in a palette menu.
type Item struct {
	Label    string
	Action   Action
	IsHeader bool // Non-selectable section header
	IsActive bool // Current workspace or focused tile
}

// Backend shows a palette to the user and returns the selected item.
type Backend interface {
	Show(prompt string, items []Item) (Item, error)
}

// launchers lists supported launchers in auto-detect priority order.
var launchers = []string{"rofi", "fuzzel", "wofi", "dmenu"}

// NewBackend creates a backend by name. "auto" or "" picks the first
// launcher found in PATH.
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		for _, l := range launchers {
			if _, err := exec.LookPath(l); err == nil {
				return newLauncher(l), nil
			}
		}
		return nil, fmt.Errorf("no palette backend found in PATH (looked for: %s)", strings.Join(launchers, ", "))
	}
	for _, l := range launchers {
		if l != name {
			continue
		}
		if _, err := exec.LookPath(l); err != nil {
			return nil, fmt.Errorf("palette backend %q not found in PATH", l)
		}
		return newLauncher(l), nil
	}
	return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, %s)", name, strings.Join(launchers, ", "))
}

// Open fetches the layout, shows it in b and runs the selection. Closing the
// palette is not an error.
func Open(c Client, b Backend) error {
	state, err := c.GetState()
	if err != nil {
		return err
	}
	item, err := b.Show("tileshell", BuildItems(state))
	if errors.Is(err, ErrCancelled) {
		return nil
	}
	if err != nil {
		return err
	}
	return item.Action.Run(c)
}
