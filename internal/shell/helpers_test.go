package shell

import "testing"

type fakeView struct {
	id    ViewID
	rects []Rect
}

func (v *fakeView) ID() ViewID      { return v.id }
func (v *fakeView) Maximize(r Rect) { v.rects = append(v.rects, r) }

func (v *fakeView) last() (Rect, bool) {
	if len(v.rects) == 0 {
		return Rect{}, false
	}
	return v.rects[len(v.rects)-1], true
}

type fakeSurface struct {
	configured  []Placement
	onConfigure func(Placement)
}

func (f *fakeSurface) Configure(p Placement) {
	f.configured = append(f.configured, p)
	if f.onConfigure != nil {
		f.onConfigure(p)
	}
}

type focusNotice struct {
	output    string
	workspace int
	tile      TileID
	centre    Point
}

type fakeNotifier struct {
	notices []focusNotice
}

func (n *fakeNotifier) TileFocused(output string, workspace int, tile TileID, centre Point) {
	n.notices = append(n.notices, focusNotice{output, workspace, tile, centre})
}

func newTestShell(t *testing.T, opts Options) (*Shell, *fakeNotifier) {
	t.Helper()
	n := &fakeNotifier{}
	if opts.Notifier == nil {
		opts.Notifier = n
	}
	return New(opts), n
}

func addOutput(t *testing.T, s *Shell, name string, workspaces, w, h int) *Output {
	t.Helper()
	o, err := s.AddOutput(OutputConfig{Name: name, Workspaces: workspaces}, w, h)
	if err != nil {
		t.Fatalf("AddOutput(%s): %v", name, err)
	}
	return o
}

// topBar attaches, commits and maps a full-width bar reserving height px at
// the top of the output.
func topBar(t *testing.T, s *Shell, id PanelID, output string, layer Layer, height int) *fakeSurface {
	t.Helper()
	surf := &fakeSurface{}
	if _, err := s.AttachPanel(PanelSpec{ID: id, Output: output, Namespace: "bar", Surface: surf, Layer: layer}); err != nil {
		t.Fatalf("AttachPanel: %v", err)
	}
	state := PanelState{
		Layer:         layer,
		Anchor:        AnchorTop | AnchorLeft | AnchorRight,
		ExclusiveZone: height,
		DesiredHeight: height,
	}
	if err := s.CommitPanel(id, state); err != nil {
		t.Fatalf("CommitPanel: %v", err)
	}
	if err := s.MapPanel(id); err != nil {
		t.Fatalf("MapPanel: %v", err)
	}
	return surf
}
