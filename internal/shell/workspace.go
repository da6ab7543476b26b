package shell

import (
	"fmt"
	"slices"
)

// ViewID identifies a tiled application surface.
type ViewID uint32

// View is an externally managed application surface that can be bound to a
// tile. Maximize is called whenever the tile geometry or binding changes.
type View interface {
	ID() ViewID
	Maximize(r Rect)
}

// boundView is the shell's record of a mapped view.
type boundView struct {
	view View
	node NodeID
	ws   *Workspace
	tile TileID
}

// Workspace is one selectable full-output arrangement of tiles.
type Workspace struct {
	index   int
	output  *Output
	ring    *Ring
	focused TileID
	node    NodeID
}

func newWorkspace(o *Output, index int) (*Workspace, error) {
	sh := o.shell
	node, err := sh.stacker.CreateNode(o.node, 0)
	if err != nil {
		return nil, fmt.Errorf("workspace %d stacking node: %w", index, err)
	}
	ws := &Workspace{
		index:  index,
		output: o,
		ring:   NewRing(&sh.ids, sh.maxTiles),
		node:   node,
	}
	id, err := ws.ring.InsertInitial(Rect{Width: o.width, Height: o.height})
	if err != nil {
		sh.stacker.DestroyNode(node)
		return nil, fmt.Errorf("workspace %d initial tile: %w", index, err)
	}
	ws.focused = id
	return ws, nil
}

// Index returns the workspace's slot on its output.
func (ws *Workspace) Index() int { return ws.index }

// Output returns the owning output.
func (ws *Workspace) Output() *Output { return ws.output }

// Ring exposes the workspace's tile ring.
func (ws *Workspace) Ring() *Ring { return ws.ring }

// Node returns the workspace's stacking handle.
func (ws *Workspace) Node() NodeID { return ws.node }

// Focused returns the focused tile, or 0 when none is focused.
func (ws *Workspace) Focused() TileID { return ws.focused }

// FocusTile makes tile the focused tile. Membership is the caller's
// responsibility. The notifier is told where the tile is.
func (ws *Workspace) FocusTile(tile TileID) {
	ws.focused = tile
	rect, err := ws.ring.Rect(tile)
	if err != nil {
		return
	}
	ws.output.shell.notifier.TileFocused(ws.output.name, ws.index, tile, rect.Center())
}

// ViewAt returns the view bound to tile, if any.
func (ws *Workspace) ViewAt(tile TileID) (View, bool) {
	bv := ws.ring.view(tile)
	if bv == nil {
		return nil, false
	}
	return bv.view, true
}

// bindView binds bv (or nothing) to tile. The previously bound view is hidden
// but stays mapped; the new one is maximized to the tile and shown.
func (ws *Workspace) bindView(tile TileID, bv *boundView) error {
	if bv != nil && bv.ws == ws && bv.tile == tile {
		ws.maximize(tile, bv)
		return nil
	}
	if !ws.ring.Contains(tile) {
		return fmt.Errorf("bind on workspace %d: tile %d: %w", ws.index, tile, ErrUnknownTile)
	}
	if bv != nil && bv.tile != 0 && bv.ws != nil {
		// A view sits in at most one tile.
		if _, err := bv.ws.ring.Bind(bv.tile, nil); err == nil {
			bv.tile = 0
		}
	}
	prev, err := ws.ring.Bind(tile, bv)
	if err != nil {
		return err
	}
	st := ws.output.shell.stacker
	if prev != nil {
		prev.tile = 0
		st.SetEnabled(prev.node, false)
	}
	if bv != nil {
		bv.tile = tile
		bv.ws = ws
		ws.maximize(tile, bv)
		st.SetEnabled(bv.node, true)
	}
	return nil
}

func (ws *Workspace) maximize(tile TileID, bv *boundView) {
	rect, err := ws.ring.Rect(tile)
	if err != nil || bv == nil || bv.view == nil {
		return
	}
	bv.view.Maximize(rect.Inset(ws.output.shell.gap))
}

// reclaim hands the area of a removed tile to the tiles along one of its
// sides. A side qualifies when the tiles touching it lie within that side and
// together cover it exactly; each of them is stretched across the hole. Sides
// holding a tile from prefer win, in prefer order. It reports false when no
// side qualifies.
func (ws *Workspace) reclaim(hole Rect, prefer ...TileID) bool {
	rows := func(r Rect) (int, int) { return r.Y, r.Y + r.Height }
	cols := func(r Rect) (int, int) { return r.X, r.X + r.Width }
	sides := []struct {
		touches func(Rect) bool
		span    func(Rect) (int, int)
		grow    func(Rect) Rect
	}{
		{
			touches: func(r Rect) bool { return r.X+r.Width == hole.X },
			span:    rows,
			grow:    func(r Rect) Rect { r.Width += hole.Width; return r },
		},
		{
			touches: func(r Rect) bool { return r.X == hole.X+hole.Width },
			span:    rows,
			grow:    func(r Rect) Rect { r.X = hole.X; r.Width += hole.Width; return r },
		},
		{
			touches: func(r Rect) bool { return r.Y+r.Height == hole.Y },
			span:    cols,
			grow:    func(r Rect) Rect { r.Height += hole.Height; return r },
		},
		{
			touches: func(r Rect) bool { return r.Y == hole.Y+hole.Height },
			span:    cols,
			grow:    func(r Rect) Rect { r.Y = hole.Y; r.Height += hole.Height; return r },
		},
	}

	type candidate struct {
		tiles []TileID
		grow  func(Rect) Rect
	}
	var found []candidate
	for _, side := range sides {
		lo, hi := side.span(hole)
		var tiles []TileID
		covered := 0
		for _, id := range ws.ring.Tiles() {
			r, _ := ws.ring.Rect(id)
			if !side.touches(r) {
				continue
			}
			a, b := side.span(r)
			if b <= lo || a >= hi {
				continue
			}
			if a < lo || b > hi {
				tiles = nil
				break
			}
			covered += b - a
			tiles = append(tiles, id)
		}
		if len(tiles) > 0 && covered == hi-lo {
			found = append(found, candidate{tiles: tiles, grow: side.grow})
		}
	}
	if len(found) == 0 {
		return false
	}

	pick := found[0]
pref:
	for _, want := range prefer {
		for _, c := range found {
			if slices.Contains(c.tiles, want) {
				pick = c
				break pref
			}
		}
	}
	for _, id := range pick.tiles {
		r, _ := ws.ring.Rect(id)
		_ = ws.ring.SetRect(id, pick.grow(r))
		if bv := ws.ring.view(id); bv != nil {
			ws.maximize(id, bv)
		}
	}
	return true
}

// remaximizeAll pushes current tile geometry to every bound view.
func (ws *Workspace) remaximizeAll() {
	for _, id := range ws.ring.Tiles() {
		if bv := ws.ring.view(id); bv != nil {
			ws.maximize(id, bv)
		}
	}
}

// removeTile unlinks tile from the ring and hides its view. If it was the
// focused tile, focus drops to none; picking a new one is up to the caller.
func (ws *Workspace) removeTile(tile TileID) (*boundView, error) {
	bv, err := ws.ring.Remove(tile)
	if err != nil {
		return nil, err
	}
	if ws.focused == tile {
		ws.focused = 0
	}
	if bv != nil {
		bv.tile = 0
		ws.output.shell.stacker.SetEnabled(bv.node, false)
	}
	return bv, nil
}

// free tears the workspace down: every tile first, then the stacking node.
// Views that lived here are returned detached, without a node.
func (ws *Workspace) free() []*boundView {
	ws.ring.FreeAll()
	ws.focused = 0

	var orphans []*boundView
	for _, bv := range ws.output.shell.viewsIn(ws) {
		bv.tile = 0
		bv.ws = nil
		bv.node = 0
		orphans = append(orphans, bv)
	}
	ws.output.shell.stacker.DestroyNode(ws.node)
	ws.node = 0
	return orphans
}
