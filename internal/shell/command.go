package shell

import (
	"fmt"
	"strconv"
	"strings"
)

// CommandKind names a tiling command.
type CommandKind string

const (
	CmdFocusWorkspace CommandKind = "workspace focus"
	CmdNextWorkspace  CommandKind = "workspace next"
	CmdPrevWorkspace  CommandKind = "workspace prev"
	CmdNextTile       CommandKind = "tile next"
	CmdPrevTile       CommandKind = "tile prev"
	CmdFocusTile      CommandKind = "tile focus"
	CmdSplitTile      CommandKind = "tile split"
	CmdRemoveTile     CommandKind = "tile remove"
	CmdSwapNext       CommandKind = "tile swap next"
	CmdSwapPrev       CommandKind = "tile swap prev"
	CmdArrange        CommandKind = "arrange"
)

// Command is a parsed tiling command, as typed in keybindings or sent over
// IPC.
type Command struct {
	Kind        CommandKind
	Workspace   int
	Tile        TileID
	Orientation Orientation
}

func (c Command) String() string {
	switch c.Kind {
	case CmdFocusWorkspace:
		return fmt.Sprintf("%s %d", c.Kind, c.Workspace)
	case CmdFocusTile:
		return fmt.Sprintf("%s %d", c.Kind, c.Tile)
	case CmdSplitTile:
		return fmt.Sprintf("%s %s", c.Kind, c.Orientation)
	}
	return string(c.Kind)
}

// ParseCommand parses a command line such as "workspace focus 2" or
// "tile split vertical". Workspace numbers are zero based.
func ParseCommand(line string) (Command, error) {
	f := strings.Fields(strings.ToLower(line))
	if len(f) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	bad := func() (Command, error) {
		return Command{}, fmt.Errorf("unknown command %q", line)
	}

	switch f[0] {
	case "arrange":
		if len(f) != 1 {
			return bad()
		}
		return Command{Kind: CmdArrange}, nil
	case "workspace":
		if len(f) < 2 {
			return bad()
		}
		switch {
		case f[1] == "next" && len(f) == 2:
			return Command{Kind: CmdNextWorkspace}, nil
		case f[1] == "prev" && len(f) == 2:
			return Command{Kind: CmdPrevWorkspace}, nil
		case f[1] == "focus" && len(f) == 3:
			n, err := strconv.Atoi(f[2])
			if err != nil {
				return Command{}, fmt.Errorf("workspace index %q: %w", f[2], err)
			}
			return Command{Kind: CmdFocusWorkspace, Workspace: n}, nil
		}
	case "tile":
		if len(f) < 2 {
			return bad()
		}
		switch {
		case f[1] == "next" && len(f) == 2:
			return Command{Kind: CmdNextTile}, nil
		case f[1] == "prev" && len(f) == 2:
			return Command{Kind: CmdPrevTile}, nil
		case f[1] == "remove" && len(f) == 2:
			return Command{Kind: CmdRemoveTile}, nil
		case f[1] == "focus" && len(f) == 3:
			n, err := strconv.ParseUint(f[2], 10, 32)
			if err != nil {
				return Command{}, fmt.Errorf("tile id %q: %w", f[2], err)
			}
			return Command{Kind: CmdFocusTile, Tile: TileID(n)}, nil
		case f[1] == "split" && len(f) == 3:
			switch f[2] {
			case "horizontal", "h":
				return Command{Kind: CmdSplitTile, Orientation: SplitHorizontal}, nil
			case "vertical", "v":
				return Command{Kind: CmdSplitTile, Orientation: SplitVertical}, nil
			}
			return Command{}, fmt.Errorf("split orientation %q: want horizontal or vertical", f[2])
		case f[1] == "swap" && len(f) == 3:
			switch f[2] {
			case "next":
				return Command{Kind: CmdSwapNext}, nil
			case "prev":
				return Command{Kind: CmdSwapPrev}, nil
			}
		}
	}
	return bad()
}

// Exec runs a command against the focused output.
func (s *Shell) Exec(c Command) error {
	switch c.Kind {
	case CmdFocusWorkspace:
		return s.FocusWorkspace("", c.Workspace)
	case CmdNextWorkspace:
		return s.CycleWorkspace(1)
	case CmdPrevWorkspace:
		return s.CycleWorkspace(-1)
	case CmdNextTile:
		return s.FocusNextTile()
	case CmdPrevTile:
		return s.FocusPrevTile()
	case CmdFocusTile:
		return s.FocusTile(c.Tile)
	case CmdSplitTile:
		_, err := s.SplitTile(c.Orientation)
		return err
	case CmdRemoveTile:
		_, tile, err := s.focusedTile()
		if err != nil {
			return err
		}
		return s.RemoveTile(tile)
	case CmdSwapNext:
		return s.SwapTile(true)
	case CmdSwapPrev:
		return s.SwapTile(false)
	case CmdArrange:
		s.ArrangeAll()
		return nil
	}
	return fmt.Errorf("unknown command kind %q", c.Kind)
}

// ExecLine parses and runs a command line.
func (s *Shell) ExecLine(line string) error {
	c, err := ParseCommand(line)
	if err != nil {
		return err
	}
	return s.Exec(c)
}
