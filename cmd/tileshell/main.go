package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/1broseidon/tileshell/internal/ipc"
	"github.com/1broseidon/tileshell/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "state":
		os.Exit(runState(os.Args[2:]))
	case "workspace":
		os.Exit(runExecCommand("workspace", os.Args[2:], workspaceCommand))
	case "tile":
		os.Exit(runTile(os.Args[2:]))
	case "arrange":
		os.Exit(runArrange(os.Args[2:]))
	case "exec":
		os.Exit(runExec(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "palette":
		os.Exit(runPalette(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tileshell <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the tileshell daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  state               Print the current layout")
	fmt.Fprintln(w, "  reload              Reload the daemon configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  workspace focus N   Show workspace N (zero based) on an output")
	fmt.Fprintln(w, "  workspace next      Cycle to the next workspace")
	fmt.Fprintln(w, "  workspace prev      Cycle to the previous workspace")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tile next|prev      Move focus around the tile ring")
	fmt.Fprintln(w, "  tile focus ID       Focus a tile by id")
	fmt.Fprintln(w, "  tile split DIR      Split the focused tile (vertical|horizontal)")
	fmt.Fprintln(w, "  tile remove [ID]    Remove a tile (default: focused)")
	fmt.Fprintln(w, "  tile swap next|prev Swap the focused view with a neighbour")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  arrange [OUTPUT]    Re-run panel arrangement")
	fmt.Fprintln(w, "  exec LINE...        Run a raw command line")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  palette             Open the launcher menu (rofi, fuzzel, wofi, dmenu)")
	fmt.Fprintln(w, "  tui                 Open the interactive layout viewer")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'tileshell <command> --help' for command-specific options.")
}

// parseNoArgs parses a flag set that takes no positional arguments. ok is
// false when the caller should exit with code.
func parseNoArgs(fs *flag.FlagSet, args []string) (code int, ok bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0, false
		}
		return 2, false
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", fs.Name())
		fs.Usage()
		return 2, false
	}
	return 0, true
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tileshell status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if code, ok := parseNoArgs(fs, args); !ok {
		return code
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running:    %v\n", status.DaemonRunning)
	fmt.Printf("outputs:           %d\n", status.Outputs)
	fmt.Printf("focused_output:    %s\n", status.FocusedOutput)
	fmt.Printf("current_workspace: %d\n", status.CurrentWorkspace)
	fmt.Printf("tiles:             %d\n", status.Tiles)
	fmt.Printf("views:             %d\n", status.Views)
	fmt.Printf("uptime_seconds:    %d\n", status.UptimeSeconds)
	return 0
}

func runState(args []string) int {
	fs := flag.NewFlagSet("state", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print the raw JSON snapshot")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tileshell state [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Print outputs, workspaces, tiles and panels.")
	}
	if code, ok := parseNoArgs(fs, args); !ok {
		return code
	}

	state, err := ipc.NewClient().GetState()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(state); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	for _, o := range state.Outputs {
		marker := " "
		if o.Name == state.FocusedOutput {
			marker = "*"
		}
		fmt.Printf("%s %s %dx%d usable %dx%d+%d+%d\n", marker, o.Name, o.Width, o.Height,
			o.Usable.Width, o.Usable.Height, o.Usable.X, o.Usable.Y)
		for _, ws := range o.Workspaces {
			if ws.Index != o.CurrentWorkspace {
				continue
			}
			fmt.Printf("    workspace %d (%d of %d)\n", ws.Index, ws.Index+1, len(o.Workspaces))
			for _, t := range ws.Tiles {
				focus := " "
				if t.ID == ws.Focused {
					focus = ">"
				}
				view := "-"
				if t.View != 0 {
					view = strconv.FormatUint(uint64(t.View), 10)
				}
				fmt.Printf("    %s tile %-4d %dx%d+%d+%d view %s\n", focus, t.ID,
					t.Rect.Width, t.Rect.Height, t.Rect.X, t.Rect.Y, view)
			}
		}
		for _, p := range o.Panels {
			fmt.Printf("    panel %-4d %-10s %-8s anchor=%s zone=%d mapped=%v\n",
				p.ID, p.Layer, p.Namespace, p.Anchor, p.ExclusiveZone, p.Mapped)
		}
	}
	if len(state.DetachedViews) > 0 {
		fmt.Printf("detached views: %v\n", state.DetachedViews)
	}
	return 0
}

// workspaceCommand turns "workspace" CLI arguments into a command line.
func workspaceCommand(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("workspace requires a subcommand (focus N, next, prev)")
	}
	switch args[0] {
	case "next", "prev":
		if len(args) != 1 {
			return "", fmt.Errorf("workspace %s takes no arguments", args[0])
		}
		return "workspace " + args[0], nil
	case "focus":
		if len(args) != 2 {
			return "", fmt.Errorf("usage: workspace focus N")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 {
			return "", fmt.Errorf("invalid workspace index %q", args[1])
		}
		return fmt.Sprintf("workspace focus %d", n), nil
	}
	return "", fmt.Errorf("unknown workspace command: %s", args[0])
}

// tileCommand turns "tile" CLI arguments into a command line.
func tileCommand(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("tile requires a subcommand (next, prev, focus, split, remove, swap)")
	}
	switch args[0] {
	case "next", "prev":
		if len(args) == 1 {
			return "tile " + args[0], nil
		}
	case "remove":
		if len(args) == 1 {
			return "tile remove", nil
		}
	case "focus":
		if len(args) == 2 {
			if _, err := strconv.ParseUint(args[1], 10, 32); err != nil {
				return "", fmt.Errorf("invalid tile id %q", args[1])
			}
			return "tile focus " + args[1], nil
		}
	case "split":
		if len(args) == 2 {
			switch args[1] {
			case "vertical", "v", "horizontal", "h":
				return "tile split " + args[1], nil
			}
			return "", fmt.Errorf("split orientation must be vertical or horizontal, got %q", args[1])
		}
	case "swap":
		if len(args) == 2 && (args[1] == "next" || args[1] == "prev") {
			return "tile swap " + args[1], nil
		}
	default:
		return "", fmt.Errorf("unknown tile command: %s", args[0])
	}
	return "", fmt.Errorf("invalid arguments for tile %s", args[0])
}

func runExecCommand(name string, args []string, build func([]string) (string, error)) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		printMainUsage(os.Stdout)
		return 0
	}
	line, err := build(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if err := ipc.NewClient().Exec(line); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runTile(args []string) int {
	if len(args) == 2 && args[0] == "remove" {
		id, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil || id == 0 {
			fmt.Fprintf(os.Stderr, "invalid tile id %q\n", args[1])
			return 2
		}
		if err := ipc.NewClient().RemoveTile(uint32(id)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	if len(args) == 2 && args[0] == "split" {
		if _, err := tileCommand(args); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		id, err := ipc.NewClient().SplitTile(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(id)
		return 0
	}
	return runExecCommand("tile", args, tileCommand)
}

func runArrange(args []string) int {
	fs := flag.NewFlagSet("arrange", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tileshell arrange [OUTPUT]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Re-run panel arrangement on OUTPUT, or on every output.")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return 2
	}
	if err := ipc.NewClient().Arrange(fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runExec(args []string) int {
	line := strings.TrimSpace(strings.Join(args, " "))
	if line == "" || line == "--help" || line == "-h" {
		fmt.Fprintln(os.Stderr, "Usage: tileshell exec <command line>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Example: tileshell exec tile split vertical")
		if line == "" {
			return 2
		}
		return 0
	}
	if err := ipc.NewClient().Exec(line); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runReload(args []string) int {
	fs := flag.NewFlagSet("reload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tileshell reload")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Ask the daemon to re-read its configuration.")
	}
	if code, ok := parseNoArgs(fs, args); !ok {
		return code
	}
	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("config reloaded")
	return 0
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	refresh := fs.Duration("refresh", tui.DefaultRefresh, "Layout poll interval")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tileshell tui [--refresh 500ms]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Live view of the daemon's outputs, tiles and panels.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  tab/shift+tab  Switch output")
		fmt.Fprintln(os.Stderr, "  h/l, ←/→       Previous/next tile")
		fmt.Fprintln(os.Stderr, "  [ ]            Previous/next workspace")
		fmt.Fprintln(os.Stderr, "  1-9            Show workspace on the viewed output")
		fmt.Fprintln(os.Stderr, "  v, s           Split vertical, horizontal")
		fmt.Fprintln(os.Stderr, "  x              Remove focused tile")
		fmt.Fprintln(os.Stderr, "  < >            Swap view with previous/next tile")
		fmt.Fprintln(os.Stderr, "  a              Arrange panels")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C      Quit")
	}
	if code, ok := parseNoArgs(fs, args); !ok {
		return code
	}

	if err := tui.Run(ipc.NewClient(), *refresh); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
