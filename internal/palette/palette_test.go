package palette

import (
	"errors"
	"strings"
	"testing"

	"github.com/1broseidon/tileshell/internal/shell"
)

type fakeClient struct {
	state      *shell.State
	execs      []string
	workspaces []string
}

func (f *fakeClient) GetState() (*shell.State, error) { return f.state, nil }

func (f *fakeClient) FocusWorkspace(output string, index int) error {
	f.workspaces = append(f.workspaces, output)
	return nil
}

func (f *fakeClient) Exec(command string) error {
	f.execs = append(f.execs, command)
	return nil
}

type fakeBackend struct {
	pick  func(items []Item) (Item, error)
	shown []Item
}

func (b *fakeBackend) Show(prompt string, items []Item) (Item, error) {
	b.shown = items
	return b.pick(items)
}

func testState() *shell.State {
	return &shell.State{
		FocusedOutput: "DP-1",
		Outputs: []shell.OutputState{{
			Name: "DP-1", Width: 1920, Height: 1080, CurrentWorkspace: 1,
			Workspaces: []shell.WorkspaceState{
				{Index: 0, Focused: 1, Tiles: []shell.TileState{{ID: 1}}},
				{Index: 1, Focused: 3, Tiles: []shell.TileState{
					{ID: 2, Rect: shell.Rect{Width: 960, Height: 1080}, View: 40},
					{ID: 3, Rect: shell.Rect{X: 960, Width: 960, Height: 1080}},
				}},
			},
		}},
	}
}

func findItem(t *testing.T, items []Item, prefix string) Item {
	t.Helper()
	for _, it := range items {
		if strings.HasPrefix(strings.TrimSpace(it.Label), prefix) {
			return it
		}
	}
	t.Fatalf("no item starting with %q", prefix)
	return Item{}
}

func TestBuildItems(t *testing.T) {
	items := BuildItems(testState())
	if !items[0].IsHeader || !strings.HasPrefix(items[0].Label, "DP-1") {
		t.Fatalf("first item = %+v, want DP-1 header", items[0])
	}

	ws2 := findItem(t, items, "Workspace 2")
	if !ws2.IsActive || ws2.Action.Output != "DP-1" || ws2.Action.Workspace != 1 {
		t.Fatalf("workspace 2 item = %+v", ws2)
	}
	if findItem(t, items, "Workspace 1").IsActive {
		t.Fatalf("hidden workspace marked active")
	}

	tile := findItem(t, items, "Tile 2")
	if tile.Action.Line != "tile focus 2" || !strings.Contains(tile.Label, "window 40") || tile.IsActive {
		t.Fatalf("tile 2 item = %+v", tile)
	}
	if !findItem(t, items, "Tile 3").IsActive {
		t.Fatalf("focused tile not marked active")
	}
	for _, it := range items {
		if strings.Contains(it.Label, "Tile 1 ") {
			t.Fatalf("tile of hidden workspace listed: %q", it.Label)
		}
	}
	if got := findItem(t, items, "Arrange").Action.Line; got != "arrange" {
		t.Fatalf("arrange command = %q", got)
	}
}

func TestOpenRunsSelection(t *testing.T) {
	c := &fakeClient{state: testState()}
	b := &fakeBackend{pick: func(items []Item) (Item, error) {
		for _, it := range items {
			if it.Action.Line == "tile split vertical" {
				return it, nil
			}
		}
		return Item{}, errors.New("missing")
	}}
	if err := Open(c, b); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(c.execs) != 1 || c.execs[0] != "tile split vertical" {
		t.Fatalf("execs = %v", c.execs)
	}

	b.pick = func(items []Item) (Item, error) { return findItem(t, items, "Workspace 1"), nil }
	if err := Open(c, b); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(c.workspaces) != 1 || c.workspaces[0] != "DP-1" {
		t.Fatalf("workspace focus = %v", c.workspaces)
	}
}

func TestOpenCancelIsNotAnError(t *testing.T) {
	c := &fakeClient{state: testState()}
	b := &fakeBackend{pick: func([]Item) (Item, error) { return Item{}, ErrCancelled }}
	if err := Open(c, b); err != nil {
		t.Fatalf("cancel returned %v", err)
	}
	if len(c.execs)+len(c.workspaces) != 0 {
		t.Fatalf("cancel ran an action")
	}
}

func TestLauncherRows(t *testing.T) {
	items := []Item{
		{Label: "DP-1 <main>", IsHeader: true},
		{Label: "Same"},
		{Label: "Same"},
	}

	rofi := newLauncher("rofi")
	rows := rofi.rows(items)
	if rows[0] != "<b>DP-1 &lt;main&gt;</b>\x00nonselectable\x1ftrue" {
		t.Fatalf("rofi header row = %q", rows[0])
	}
	if rows[1] != "Same" || rows[2] != "Same" {
		t.Fatalf("index launchers should not rename duplicates: %q", rows)
	}

	dmenu := newLauncher("dmenu")
	rows = dmenu.rows(items)
	if rows[2] != "Same (2)" {
		t.Fatalf("duplicate label not disambiguated: %q", rows)
	}
	got, err := dmenu.parseSelection("Same (2)", items, rows)
	if err != nil || got.Label != "Same" {
		t.Fatalf("parseSelection = %+v, %v", got, err)
	}
}

func TestLauncherParseIndex(t *testing.T) {
	items := []Item{{Label: "a"}, {Label: "b", Action: Action{Line: "arrange"}}}
	l := newLauncher("fuzzel")
	rows := l.rows(items)
	got, err := l.parseSelection("1", items, rows)
	if err != nil || got.Action.Line != "arrange" {
		t.Fatalf("parseSelection(1) = %+v, %v", got, err)
	}
	if _, err := l.parseSelection("5", items, rows); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestNewBackendRejectsUnknown(t *testing.T) {
	if _, err := NewBackend("kitty"); err == nil || !strings.Contains(err.Error(), "unknown palette backend") {
		t.Fatalf("NewBackend(kitty) = %v", err)
	}
}
