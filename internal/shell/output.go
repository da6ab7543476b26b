package shell

import (
	"cmp"
	"fmt"
	"slices"
)

// MaxWorkspaces bounds the workspace count an output may be configured with.
const MaxWorkspaces = 32

// OutputConfig is fixed for an output's lifetime; changing it goes through
// ReconfigureOutput, which rebuilds the workspaces.
type OutputConfig struct {
	Name       string
	Workspaces int
	Priority   int
}

func (c OutputConfig) validate() error {
	if c.Name == "" {
		return fmt.Errorf("output name is required")
	}
	if c.Workspaces < 1 || c.Workspaces > MaxWorkspaces {
		return fmt.Errorf("output %s: workspace count %d not in 1..%d: %w", c.Name, c.Workspaces, MaxWorkspaces, ErrOutOfRange)
	}
	return nil
}

func checkSize(name string, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("output %s: size %dx%d: %w", name, width, height, ErrOutOfRange)
	}
	return nil
}

// Output is one physical display: a layer stack, a fixed array of
// workspaces and the index of the visible one.
type Output struct {
	shell  *Shell
	name   string
	cfg    OutputConfig
	width  int
	height int

	node       NodeID
	backdrop   NodeID
	layerNodes [layerCount]NodeID
	layers     *LayerStack

	workspaces []*Workspace
	current    int
	usable     Rect

	arranging bool
	rearrange bool
}

func newOutput(sh *Shell, cfg OutputConfig, width, height int) (*Output, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := checkSize(cfg.Name, width, height); err != nil {
		return nil, err
	}
	o := &Output{
		shell:  sh,
		name:   cfg.Name,
		cfg:    cfg,
		width:  width,
		height: height,
		layers: &LayerStack{},
		usable: Rect{Width: width, Height: height},
	}

	node, err := sh.stacker.CreateNode(sh.root, 0)
	if err != nil {
		return nil, fmt.Errorf("output %s stacking node: %w", cfg.Name, err)
	}
	o.node = node
	fail := func(err error) (*Output, error) {
		for _, ws := range o.workspaces {
			ws.ring.FreeAll()
		}
		sh.stacker.DestroyNode(o.node)
		return nil, fmt.Errorf("configure output %s: %w", cfg.Name, err)
	}

	if o.backdrop, err = sh.stacker.CreateNode(o.node, 0); err != nil {
		return fail(err)
	}
	if o.workspaces, err = o.buildWorkspaces(cfg.Workspaces); err != nil {
		return fail(err)
	}
	for l := range o.layerNodes {
		if o.layerNodes[l], err = sh.stacker.CreateNode(o.node, 0); err != nil {
			return fail(err)
		}
	}
	o.restack(0)
	return o, nil
}

func (o *Output) buildWorkspaces(n int) ([]*Workspace, error) {
	out := make([]*Workspace, 0, n)
	for i := 0; i < n; i++ {
		ws, err := newWorkspace(o, i)
		if err != nil {
			for _, made := range out {
				made.ring.FreeAll()
				o.shell.stacker.DestroyNode(made.node)
			}
			return nil, err
		}
		out = append(out, ws)
	}
	return out, nil
}

// Name returns the output's name.
func (o *Output) Name() string { return o.name }

// Config returns the configuration the output was built with.
func (o *Output) Config() OutputConfig { return o.cfg }

// Size returns the output's pixel geometry.
func (o *Output) Size() (int, int) { return o.width, o.height }

// UsableArea returns the area left after exclusive zones, as of the last
// arrange.
func (o *Output) UsableArea() Rect { return o.usable }

// Layers returns the output's layer stack.
func (o *Output) Layers() *LayerStack { return o.layers }

// LayerNode returns the stacking handle of one layer.
func (o *Output) LayerNode(l Layer) NodeID {
	if !l.valid() {
		return 0
	}
	return o.layerNodes[l]
}

// Backdrop returns the node separating inactive workspaces from the rest.
func (o *Output) Backdrop() NodeID { return o.backdrop }

// WorkspaceCount returns the configured number of workspaces.
func (o *Output) WorkspaceCount() int { return len(o.workspaces) }

// Workspace returns workspace i.
func (o *Output) Workspace(i int) (*Workspace, error) {
	if i < 0 || i >= len(o.workspaces) {
		return nil, fmt.Errorf("output %s: workspace %d of %d: %w", o.name, i, len(o.workspaces), ErrOutOfRange)
	}
	return o.workspaces[i], nil
}

// CurrentIndex returns the index of the visible workspace.
func (o *Output) CurrentIndex() int { return o.current }

// Current returns the visible workspace.
func (o *Output) Current() *Workspace { return o.workspaces[o.current] }

// FocusWorkspace makes workspace index the visible one. Out of range indices
// are rejected without touching any state.
func (o *Output) FocusWorkspace(index int) error {
	if index < 0 || index >= len(o.workspaces) {
		return fmt.Errorf("output %s: focus workspace %d, only %d available: %w", o.name, index, len(o.workspaces), ErrOutOfRange)
	}
	o.restack(index)
	return nil
}

// restack reasserts, bottom to top: inactive workspaces, backdrop,
// background, bottom, active workspace, top, overlay.
func (o *Output) restack(index int) {
	st := o.shell.stacker
	next := o.workspaces[index]
	for _, ws := range o.workspaces {
		if ws == next {
			continue
		}
		st.PlaceBelow(ws.node, o.backdrop)
		st.SetEnabled(ws.node, false)
	}
	st.PlaceAbove(next.node, o.backdrop)
	st.SetEnabled(next.node, true)

	st.PlaceBelow(o.layerNodes[LayerBackground], next.node)
	st.PlaceBelow(o.layerNodes[LayerBottom], next.node)
	st.PlaceAbove(o.layerNodes[LayerTop], next.node)
	st.PlaceAbove(o.layerNodes[LayerOverlay], o.layerNodes[LayerTop])

	o.current = index
}

// workspaceOf finds the workspace holding tile.
func (o *Output) workspaceOf(tile TileID) *Workspace {
	for _, ws := range o.workspaces {
		if ws.ring.Contains(tile) {
			return ws
		}
	}
	return nil
}

// setGeometry rescales every tile to the new size and re-arranges panels.
func (o *Output) setGeometry(width, height int) {
	if width == o.width && height == o.height {
		return
	}
	for _, ws := range o.workspaces {
		ws.ring.scale(o.width, o.height, width, height)
		ws.remaximizeAll()
	}
	o.width, o.height = width, height
	o.Arrange()
}

// reconfigure swaps the workspace array for one built from cfg. The new set
// is built before the old one is freed, so a failure leaves the output as it
// was. Views from freed workspaces are returned detached.
func (o *Output) reconfigure(cfg OutputConfig) ([]*boundView, error) {
	cfg.Name = o.name
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	fresh, err := o.buildWorkspaces(cfg.Workspaces)
	if err != nil {
		return nil, fmt.Errorf("reconfigure output %s: %w", o.name, err)
	}
	var orphans []*boundView
	for _, ws := range o.workspaces {
		orphans = append(orphans, ws.free()...)
	}
	o.workspaces = fresh
	o.cfg = cfg
	current := o.current
	if current >= len(fresh) {
		current = 0
	}
	o.restack(current)
	return orphans, nil
}

// destroy frees every workspace and drops the layer stack.
func (o *Output) destroy() ([]*boundView, []*Panel) {
	var orphans []*boundView
	for _, ws := range o.workspaces {
		orphans = append(orphans, ws.free()...)
	}
	o.workspaces = nil

	var panels []*Panel
	for l := range o.layers.layers {
		panels = append(panels, o.layers.layers[l]...)
	}
	o.layers = nil
	o.shell.stacker.DestroyNode(o.node)
	o.node = 0
	return orphans, panels
}

func (o *Output) panelsSorted() []*Panel {
	var out []*Panel
	for l := range o.layers.layers {
		out = append(out, o.layers.layers[l]...)
	}
	slices.SortStableFunc(out, func(a, b *Panel) int { return cmp.Compare(a.id, b.id) })
	return out
}
