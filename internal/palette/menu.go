package palette

import (
	"fmt"

	"github.com/1broseidon/tileshell/internal/shell"
)

var commandItems = []Item{
	{Label: "Split tile vertically", Action: Action{Line: "tile split vertical"}},
	{Label: "Split tile horizontally", Action: Action{Line: "tile split horizontal"}},
	{Label: "Remove focused tile", Action: Action{Line: "tile remove"}},
	{Label: "Swap with next tile", Action: Action{Line: "tile swap next"}},
	{Label: "Swap with previous tile", Action: Action{Line: "tile swap prev"}},
	{Label: "Next workspace", Action: Action{Line: "workspace next"}},
	{Label: "Previous workspace", Action: Action{Line: "workspace prev"}},
	{Label: "Arrange panels", Action: Action{Line: "arrange"}},
}

// BuildItems lists, per output, its workspaces and the tiles of its visible
// workspace, followed by the fixed tile commands.
func BuildItems(state *shell.State) []Item {
	var items []Item
	if state != nil {
		for _, o := range state.Outputs {
			items = append(items, Item{Label: fmt.Sprintf("%s  %dx%d", o.Name, o.Width, o.Height), IsHeader: true})
			for _, ws := range o.Workspaces {
				label := fmt.Sprintf("Workspace %d", ws.Index+1)
				if n := len(ws.Tiles); n > 1 {
					label += fmt.Sprintf("  (%d tiles)", n)
				}
				items = append(items, Item{
					Label:    label,
					Action:   Action{Output: o.Name, Workspace: ws.Index},
					IsActive: ws.Index == o.CurrentWorkspace,
				})
				if ws.Index != o.CurrentWorkspace {
					continue
				}
				for _, t := range ws.Tiles {
					label := fmt.Sprintf("    Tile %d  %dx%d+%d+%d", t.ID, t.Rect.Width, t.Rect.Height, t.Rect.X, t.Rect.Y)
					if t.View != 0 {
						label += fmt.Sprintf("  window %d", t.View)
					}
					items = append(items, Item{
						Label:    label,
						Action:   Action{Line: fmt.Sprintf("tile focus %d", t.ID)},
						IsActive: t.ID == ws.Focused && o.Name == state.FocusedOutput,
					})
				}
			}
		}
	}
	items = append(items, Item{Label: "Commands", IsHeader: true})
	return append(items, commandItems...)
}
