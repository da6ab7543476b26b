package shell

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
)

// Notifier receives user-facing notices from the shell.
type Notifier interface {
	TileFocused(output string, workspace int, tile TileID, centre Point)
}

type nopNotifier struct{}

func (nopNotifier) TileFocused(string, int, TileID, Point) {}

// Options configures a Shell.
type Options struct {
	// Stacker realizes stacking order. A fresh Scene is used when nil.
	Stacker Stacker
	// Root is the parent node for outputs. Ignored when Stacker is nil.
	Root NodeID

	Notifier Notifier
	Logger   *slog.Logger

	// MaxTilesPerWorkspace caps every ring. 0 means unlimited.
	MaxTilesPerWorkspace int
	// Gap is the inset applied when a view is maximized into its tile.
	Gap int
}

// Shell owns every output, workspace, view and panel binding. It is not safe
// for concurrent use; callers serialize access.
type Shell struct {
	stacker  Stacker
	scene    *Scene
	root     NodeID
	notifier Notifier
	logger   *slog.Logger
	maxTiles int
	gap      int

	ids     IDSource
	outputs []*Output
	focused *Output
	views   map[ViewID]*boundView
	panels  map[PanelID]*Panel
}

// New creates an empty shell.
func New(opts Options) *Shell {
	s := &Shell{
		stacker:  opts.Stacker,
		root:     opts.Root,
		notifier: opts.Notifier,
		logger:   opts.Logger,
		maxTiles: opts.MaxTilesPerWorkspace,
		gap:      max(opts.Gap, 0),
		views:    make(map[ViewID]*boundView),
		panels:   make(map[PanelID]*Panel),
	}
	if s.stacker == nil {
		s.scene = NewScene()
		s.stacker = s.scene
		s.root = s.scene.Root()
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// Scene returns the built-in scene, or nil when an external Stacker was
// supplied.
func (s *Shell) Scene() *Scene { return s.scene }

// SetGap changes the view inset and re-maximizes every bound view.
func (s *Shell) SetGap(gap int) {
	gap = max(gap, 0)
	if gap == s.gap {
		return
	}
	s.gap = gap
	for _, o := range s.outputs {
		for _, ws := range o.workspaces {
			ws.remaximizeAll()
		}
	}
}

// Outputs returns the outputs ordered by priority (highest first), then name.
func (s *Shell) Outputs() []*Output {
	return slices.Clone(s.outputs)
}

// Output looks an output up by name.
func (s *Shell) Output(name string) (*Output, error) {
	for _, o := range s.outputs {
		if o.name == name {
			return o, nil
		}
	}
	return nil, fmt.Errorf("output %q: %w", name, ErrUnknownOutput)
}

// FocusedOutput returns the output commands apply to, or nil when there is
// none.
func (s *Shell) FocusedOutput() *Output { return s.focused }

// FocusOutput makes name the output commands apply to.
func (s *Shell) FocusOutput(name string) error {
	o, err := s.Output(name)
	if err != nil {
		return err
	}
	s.focused = o
	return nil
}

func compareOutputs(a, b *Output) int {
	if c := cmp.Compare(b.cfg.Priority, a.cfg.Priority); c != 0 {
		return c
	}
	return cmp.Compare(a.name, b.name)
}

// AddOutput configures a new output with cfg.Workspaces workspaces.
func (s *Shell) AddOutput(cfg OutputConfig, width, height int) (*Output, error) {
	if _, err := s.Output(cfg.Name); err == nil {
		return nil, fmt.Errorf("add output %q: already configured: %w", cfg.Name, ErrInvalidState)
	}
	o, err := newOutput(s, cfg, width, height)
	if err != nil {
		return nil, err
	}
	s.outputs = append(s.outputs, o)
	slices.SortStableFunc(s.outputs, compareOutputs)
	if s.focused == nil {
		s.focused = o
	}
	s.adoptOrphans(o.Current())
	s.logger.Info("output added", "output", o.name, "workspaces", len(o.workspaces), "size", Rect{Width: width, Height: height}.String())
	return o, nil
}

// RemoveOutput tears an output down. Its panels are dropped; its views move,
// hidden, to the next output if there is one.
func (s *Shell) RemoveOutput(name string) error {
	o, err := s.Output(name)
	if err != nil {
		return err
	}
	orphans, panels := o.destroy()
	for _, p := range panels {
		delete(s.panels, p.id)
	}
	s.outputs = slices.DeleteFunc(s.outputs, func(x *Output) bool { return x == o })
	if s.focused == o {
		s.focused = nil
		if len(s.outputs) > 0 {
			s.focused = s.outputs[0]
		}
	}
	if s.focused != nil {
		s.adoptOrphans(s.focused.Current())
	}
	s.logger.Info("output removed", "output", name, "views", len(orphans), "panels", len(panels))
	return nil
}

// ReconfigureOutput rebuilds an output's workspaces from cfg. On failure the
// output is unchanged.
func (s *Shell) ReconfigureOutput(name string, cfg OutputConfig) error {
	o, err := s.Output(name)
	if err != nil {
		return err
	}
	if _, err := o.reconfigure(cfg); err != nil {
		return err
	}
	slices.SortStableFunc(s.outputs, compareOutputs)
	s.adoptOrphans(o.Current())
	return nil
}

// SetOutputGeometry resizes an output. Tiles are rescaled proportionally and
// panels re-arranged.
func (s *Shell) SetOutputGeometry(name string, width, height int) error {
	o, err := s.Output(name)
	if err != nil {
		return err
	}
	if err := checkSize(name, width, height); err != nil {
		return err
	}
	o.setGeometry(width, height)
	return nil
}

// Arrange re-arranges the panels of the named output. Unknown outputs are
// ignored.
func (s *Shell) Arrange(name string) {
	o, err := s.Output(name)
	if err != nil {
		s.logger.Debug("arrange skipped", "output", name)
		return
	}
	o.Arrange()
}

// ArrangeAll re-arranges every output.
func (s *Shell) ArrangeAll() {
	for _, o := range s.outputs {
		o.Arrange()
	}
}

// FocusWorkspace switches the visible workspace of an output. An empty name
// means the focused output.
func (s *Shell) FocusWorkspace(output string, index int) error {
	o, err := s.resolveOutput(output)
	if err != nil {
		return err
	}
	if err := o.FocusWorkspace(index); err != nil {
		return err
	}
	s.focused = o
	s.logger.Debug("workspace focused", "output", o.name, "workspace", index)
	return nil
}

// CycleWorkspace moves the focused output's visible workspace by delta,
// wrapping around.
func (s *Shell) CycleWorkspace(delta int) error {
	o, err := s.resolveOutput("")
	if err != nil {
		return err
	}
	n := len(o.workspaces)
	return o.FocusWorkspace(((o.current+delta)%n + n) % n)
}

func (s *Shell) resolveOutput(name string) (*Output, error) {
	if name != "" {
		return s.Output(name)
	}
	if s.focused == nil {
		return nil, fmt.Errorf("no output configured: %w", ErrInvalidState)
	}
	return s.focused, nil
}

// CurrentWorkspace returns the visible workspace of the focused output.
func (s *Shell) CurrentWorkspace() (*Workspace, error) {
	o, err := s.resolveOutput("")
	if err != nil {
		return nil, err
	}
	return o.Current(), nil
}

func (s *Shell) workspaceOf(tile TileID) (*Workspace, error) {
	for _, o := range s.outputs {
		if ws := o.workspaceOf(tile); ws != nil {
			return ws, nil
		}
	}
	return nil, fmt.Errorf("tile %d: %w", tile, ErrUnknownTile)
}

// focusedTile returns the focused workspace's focused tile, falling back to
// the ring head when nothing is focused.
func (s *Shell) focusedTile() (*Workspace, TileID, error) {
	ws, err := s.CurrentWorkspace()
	if err != nil {
		return nil, 0, err
	}
	if ws.focused != 0 {
		return ws, ws.focused, nil
	}
	head, ok := ws.ring.Head()
	if !ok {
		return nil, 0, fmt.Errorf("workspace %d has no tiles: %w", ws.index, ErrInvalidState)
	}
	return ws, head, nil
}

// FocusTile focuses tile on whichever workspace holds it, making that
// workspace the visible one of its output.
func (s *Shell) FocusTile(tile TileID) error {
	ws, err := s.workspaceOf(tile)
	if err != nil {
		return err
	}
	if o := ws.output; o.current != ws.index {
		if err := o.FocusWorkspace(ws.index); err != nil {
			return err
		}
	}
	ws.FocusTile(tile)
	s.focused = ws.output
	return nil
}

// FocusNextTile focuses the tile after the focused one.
func (s *Shell) FocusNextTile() error {
	return s.stepFocus((*Ring).Next)
}

// FocusPrevTile focuses the tile before the focused one.
func (s *Shell) FocusPrevTile() error {
	return s.stepFocus((*Ring).Prev)
}

func (s *Shell) stepFocus(step func(*Ring, TileID) (TileID, error)) error {
	ws, cur, err := s.focusedTile()
	if err != nil {
		return err
	}
	next, err := step(ws.ring, cur)
	if err != nil {
		return err
	}
	ws.FocusTile(next)
	return nil
}

// SplitTile splits the focused tile. The focused tile keeps its view and
// focus; the new tile is returned empty.
func (s *Shell) SplitTile(o Orientation) (TileID, error) {
	ws, cur, err := s.focusedTile()
	if err != nil {
		return 0, err
	}
	id, err := ws.ring.Split(cur, o)
	if err != nil {
		return 0, err
	}
	if bv := ws.ring.view(cur); bv != nil {
		ws.maximize(cur, bv)
	}
	s.logger.Debug("tile split", "tile", cur, "new", id, "orientation", o.String())
	return id, nil
}

// RemoveTile removes tile from its workspace. The tiles along one of its sides
// take over its area, and if it was focused the previous tile gets focus.
func (s *Shell) RemoveTile(tile TileID) error {
	ws, err := s.workspaceOf(tile)
	if err != nil {
		return err
	}
	rect, _ := ws.ring.Rect(tile)
	prev, _ := ws.ring.Prev(tile)
	next, _ := ws.ring.Next(tile)
	if _, err := ws.removeTile(tile); err != nil {
		return err
	}
	if !ws.reclaim(rect, prev, next) {
		s.logger.Warn("removed tile area not reclaimed", "tile", tile, "rect", rect.String())
	}
	if ws.focused == 0 {
		ws.FocusTile(prev)
	}
	return nil
}

// SwapTile exchanges the focused tile's view with its neighbour's (next when
// forward is true). Focus follows the view.
func (s *Shell) SwapTile(forward bool) error {
	ws, cur, err := s.focusedTile()
	if err != nil {
		return err
	}
	step := ws.ring.Prev
	if forward {
		step = ws.ring.Next
	}
	other, err := step(cur)
	if err != nil {
		return err
	}
	if other == cur {
		return nil
	}
	if err := ws.ring.Swap(cur, other); err != nil {
		return err
	}
	for _, id := range []TileID{cur, other} {
		if bv := ws.ring.view(id); bv != nil {
			bv.tile = id
			ws.maximize(id, bv)
		}
	}
	ws.FocusTile(other)
	return nil
}

// MapView starts managing v and binds it to the focused tile of the focused
// output. With no output, the view is kept detached until one appears.
func (s *Shell) MapView(v View) error {
	id := v.ID()
	if id == 0 {
		return fmt.Errorf("map view: zero id: %w", ErrInvalidState)
	}
	if _, ok := s.views[id]; ok {
		return fmt.Errorf("map view %d: already mapped: %w", id, ErrInvalidState)
	}
	bv := &boundView{view: v}
	ws, tile, err := s.focusedTile()
	if err != nil {
		s.views[id] = bv
		s.logger.Debug("view detached", "view", id)
		return nil
	}
	if err := s.attachNode(bv, ws); err != nil {
		return err
	}
	s.views[id] = bv
	return ws.bindView(tile, bv)
}

// UnmapView stops managing a view. If it filled a tile, a hidden view from
// the same workspace takes its place.
func (s *Shell) UnmapView(id ViewID) error {
	bv, ok := s.views[id]
	if !ok {
		return fmt.Errorf("unmap view %d: %w", id, ErrUnknownView)
	}
	ws, tile := bv.ws, bv.tile
	if ws != nil && tile != 0 {
		_, _ = ws.ring.Bind(tile, nil)
	}
	if bv.node != 0 {
		s.stacker.DestroyNode(bv.node)
	}
	delete(s.views, id)
	if ws != nil && tile != 0 {
		for _, cand := range s.viewsIn(ws) {
			if cand.tile == 0 {
				return ws.bindView(tile, cand)
			}
		}
	}
	return nil
}

// BindView binds a mapped view to tile, moving it between workspaces when
// needed. view 0 clears the tile.
func (s *Shell) BindView(tile TileID, view ViewID) error {
	ws, err := s.workspaceOf(tile)
	if err != nil {
		return err
	}
	if view == 0 {
		return ws.bindView(tile, nil)
	}
	bv, ok := s.views[view]
	if !ok {
		return fmt.Errorf("bind view %d: %w", view, ErrUnknownView)
	}
	if bv.ws != ws {
		if bv.ws != nil && bv.tile != 0 {
			_, _ = bv.ws.ring.Bind(bv.tile, nil)
			bv.tile = 0
		}
		if err := s.attachNode(bv, ws); err != nil {
			return err
		}
	}
	return ws.bindView(tile, bv)
}

// attachNode gives bv a hidden stacking node under ws, replacing any node it
// had elsewhere. On failure bv is untouched.
func (s *Shell) attachNode(bv *boundView, ws *Workspace) error {
	node, err := s.stacker.CreateNode(ws.node, uint32(bv.view.ID()))
	if err != nil {
		return fmt.Errorf("view %d stacking node: %w", bv.view.ID(), err)
	}
	s.stacker.SetEnabled(node, false)
	if bv.node != 0 {
		s.stacker.DestroyNode(bv.node)
	}
	bv.node = node
	bv.ws = ws
	return nil
}

// adoptOrphans attaches every detached view to ws, hidden, filling its
// focused tile if empty.
func (s *Shell) adoptOrphans(ws *Workspace) {
	for _, bv := range s.sortedViews() {
		if bv.ws != nil {
			continue
		}
		if err := s.attachNode(bv, ws); err != nil {
			s.logger.Warn("view left detached", "view", bv.view.ID(), "error", err)
			continue
		}
		if ws.focused != 0 && ws.ring.view(ws.focused) == nil {
			_ = ws.bindView(ws.focused, bv)
		}
	}
}

// View returns a mapped view.
func (s *Shell) View(id ViewID) (View, bool) {
	bv, ok := s.views[id]
	if !ok {
		return nil, false
	}
	return bv.view, true
}

func (s *Shell) sortedViews() []*boundView {
	out := make([]*boundView, 0, len(s.views))
	for _, bv := range s.views {
		out = append(out, bv)
	}
	slices.SortFunc(out, func(a, b *boundView) int { return cmp.Compare(a.view.ID(), b.view.ID()) })
	return out
}

func (s *Shell) viewsIn(ws *Workspace) []*boundView {
	var out []*boundView
	for _, bv := range s.sortedViews() {
		if bv.ws == ws {
			out = append(out, bv)
		}
	}
	return out
}
