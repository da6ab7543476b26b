package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tileshell/internal/shell"
)

type boxRunes struct {
	h, v, tl, tr, bl, br rune
}

var (
	tileRunes    = boxRunes{'─', '│', '┌', '┐', '└', '┘'}
	focusedRunes = boxRunes{'━', '┃', '┏', '┓', '┗', '┛'}
)

const panelFill = '░'

// renderOutput draws the visible workspace of out, scaled into a
// width x height block, with a one-line summary on top.
func renderOutput(out shell.OutputState, width, height int) string {
	ws := currentWorkspace(out)
	header := fmt.Sprintf(" %s %dx%d  workspace %d/%d  usable %dx%d+%d+%d",
		out.Name, out.Width, out.Height, out.CurrentWorkspace+1, len(out.Workspaces),
		out.Usable.Width, out.Usable.Height, out.Usable.X, out.Usable.Y)
	if ws != nil {
		header += fmt.Sprintf("  %d tiles", len(ws.Tiles))
		if len(ws.Hidden) > 0 {
			header += fmt.Sprintf("  %d hidden", len(ws.Hidden))
		}
	}

	lines := renderCanvas(out, ws, width, height-1)
	var b strings.Builder
	b.WriteString(dimStyle.Render(header))
	for _, line := range lines {
		b.WriteByte('\n')
		b.WriteString(line)
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func currentWorkspace(out shell.OutputState) *shell.WorkspaceState {
	for i := range out.Workspaces {
		if out.Workspaces[i].Index == out.CurrentWorkspace {
			return &out.Workspaces[i]
		}
	}
	return nil
}

// renderCanvas returns height lines of width runes. Panels are shaded,
// tiles are boxed, and the focused tile uses heavy lines. Top and overlay
// panels are painted over the tiles.
func renderCanvas(out shell.OutputState, ws *shell.WorkspaceState, width, height int) []string {
	if width < 5 || height < 3 || out.Width <= 0 || out.Height <= 0 {
		return emptyCanvas(max(width, 0), max(height, 0))
	}
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}
	drawBorder(canvas, width, height)

	scale := func(r shell.Rect) (x1, y1, x2, y2 int) {
		innerW, innerH := width-2, height-2
		x1 = 1 + r.X*innerW/out.Width
		y1 = 1 + r.Y*innerH/out.Height
		x2 = (r.X + r.Width) * innerW / out.Width
		y2 = (r.Y + r.Height) * innerH / out.Height
		return x1, y1, min(x2, width-2), min(y2, height-2)
	}

	drawPanels := func(above bool) {
		for _, p := range out.Panels {
			if !p.Mapped || p.Box == nil || (p.Layer == "top" || p.Layer == "overlay") != above {
				continue
			}
			x1, y1, x2, y2 := scale(*p.Box)
			for y := y1; y <= max(y2, y1); y++ {
				for x := x1; x <= max(x2, x1); x++ {
					canvas[y][x] = panelFill
				}
			}
		}
	}

	drawPanels(false)
	if ws != nil {
		// The focused tile is drawn last so its heavy border wins shared edges.
		var focused *shell.TileState
		for i, tile := range ws.Tiles {
			if tile.ID == ws.Focused {
				focused = &ws.Tiles[i]
				continue
			}
			x1, y1, x2, y2 := scale(tile.Rect)
			drawTile(canvas, x1, y1, x2, y2, tileRunes, tileLabel(tile))
		}
		if focused != nil {
			x1, y1, x2, y2 := scale(focused.Rect)
			drawTile(canvas, x1, y1, x2, y2, focusedRunes, tileLabel(*focused))
		}
	}

	drawPanels(true)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func tileLabel(tile shell.TileState) string {
	if tile.View == 0 {
		return fmt.Sprintf("#%d", tile.ID)
	}
	return fmt.Sprintf("#%d v%d", tile.ID, tile.View)
}

func drawTile(canvas [][]rune, x1, y1, x2, y2 int, r boxRunes, label string) {
	if x2 <= x1 || y2 <= y1 {
		return
	}
	for x := x1; x <= x2; x++ {
		canvas[y1][x] = r.h
		canvas[y2][x] = r.h
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = r.v
		canvas[y][x2] = r.v
	}
	canvas[y1][x1] = r.tl
	canvas[y1][x2] = r.tr
	canvas[y2][x1] = r.bl
	canvas[y2][x2] = r.br

	centerY := (y1 + y2) / 2
	if centerY <= y1 || centerY >= y2 {
		return
	}
	labelRunes := []rune(label)
	if len(labelRunes) > x2-x1-1 {
		labelRunes = labelRunes[:max(x2-x1-1, 0)]
	}
	startX := (x1+x2)/2 - len(labelRunes)/2
	for i, c := range labelRunes {
		if x := startX + i; x > x1 && x < x2 {
			canvas[centerY][x] = c
		}
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func emptyCanvas(width, height int) []string {
	lines := make([]string, height)
	empty := strings.Repeat(" ", width)
	for i := range lines {
		lines[i] = empty
	}
	return lines
}
