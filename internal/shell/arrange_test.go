package shell

import (
	"testing"
)

func TestArrangeReservesTopBar(t *testing.T) {
	s, _ := newTestShell(t, Options{})
	o := addOutput(t, s, "HDMI-1", 4, 1920, 1080)
	surf := topBar(t, s, 1, "HDMI-1", LayerTop, 30)

	if got, want := o.UsableArea(), (Rect{X: 0, Y: 30, Width: 1920, Height: 1050}); got != want {
		t.Fatalf("usable = %v, want %v", got, want)
	}
	if len(surf.configured) == 0 {
		t.Fatalf("bar was never configured")
	}
	p := surf.configured[len(surf.configured)-1]
	if p.Full != (Rect{Width: 1920, Height: 1080}) {
		t.Fatalf("reference rect = %v, want 1920x1080+0+0", p.Full)
	}
	if p.Box != (Rect{Width: 1920, Height: 30}) {
		t.Fatalf("bar box = %v, want 1920x30+0+0", p.Box)
	}
}

func TestArrangeIsIdempotent(t *testing.T) {
	s, _ := newTestShell(t, Options{})
	o := addOutput(t, s, "DP-1", 2, 1920, 1080)
	bar := topBar(t, s, 1, "DP-1", LayerTop, 30)
	side := &fakeSurface{}
	s.AttachPanel(PanelSpec{ID: 2, Output: "DP-1", Surface: side, Layer: LayerOverlay})
	s.CommitPanel(2, PanelState{Layer: LayerOverlay, Anchor: AnchorRight, DesiredWidth: 300, DesiredHeight: 200})
	s.MapPanel(2)

	o.Arrange()
	usable := o.UsableArea()
	barPlace := bar.configured[len(bar.configured)-1]
	sidePlace := side.configured[len(side.configured)-1]

	o.Arrange()
	if o.UsableArea() != usable {
		t.Fatalf("usable changed on second arrange: %v -> %v", usable, o.UsableArea())
	}
	if got := bar.configured[len(bar.configured)-1]; got != barPlace {
		t.Fatalf("bar placement changed: %+v -> %+v", barPlace, got)
	}
	if got := side.configured[len(side.configured)-1]; got != sidePlace {
		t.Fatalf("side placement changed: %+v -> %+v", sidePlace, got)
	}
}

func TestArrangeOtherPanelsNeverGetReservedBand(t *testing.T) {
	s, _ := newTestShell(t, Options{})
	addOutput(t, s, "DP-1", 1, 1920, 1080)
	topBar(t, s, 1, "DP-1", LayerTop, 30)
	band := Rect{Width: 1920, Height: 30}

	var others []*fakeSurface
	for i, layer := range []Layer{LayerBackground, LayerBottom, LayerTop, LayerOverlay} {
		surf := &fakeSurface{}
		id := PanelID(10 + i)
		s.AttachPanel(PanelSpec{ID: id, Output: "DP-1", Surface: surf, Layer: layer})
		s.CommitPanel(id, PanelState{Layer: layer, Anchor: AnchorTop, DesiredWidth: 400, DesiredHeight: 50})
		s.MapPanel(id)
		others = append(others, surf)
	}
	for i, surf := range others {
		p := surf.configured[len(surf.configured)-1]
		if p.Usable.Overlaps(band) {
			t.Fatalf("panel %d given usable %v overlapping reserved band %v", i, p.Usable, band)
		}
		if p.Box.Overlaps(band) {
			t.Fatalf("panel %d placed at %v inside reserved band", i, p.Box)
		}
	}
}

func TestArrangePassOrderOverlayFirst(t *testing.T) {
	s, _ := newTestShell(t, Options{})
	o := addOutput(t, s, "DP-1", 1, 1000, 800)
	bg := topBar(t, s, 1, "DP-1", LayerBackground, 10)
	ov := topBar(t, s, 2, "DP-1", LayerOverlay, 20)

	if got := ov.configured[len(ov.configured)-1].Box.Y; got != 0 {
		t.Fatalf("overlay bar y = %d, want 0", got)
	}
	if got := bg.configured[len(bg.configured)-1].Box.Y; got != 20 {
		t.Fatalf("background bar y = %d, want 20", got)
	}
	if got := o.UsableArea(); got != (Rect{Y: 30, Width: 1000, Height: 770}) {
		t.Fatalf("usable = %v", got)
	}
}

func TestArrangeBottomAndSideZones(t *testing.T) {
	s, _ := newTestShell(t, Options{})
	o := addOutput(t, s, "DP-1", 1, 1920, 1080)

	dock := &fakeSurface{}
	s.AttachPanel(PanelSpec{ID: 1, Output: "DP-1", Surface: dock, Layer: LayerTop})
	s.CommitPanel(1, PanelState{
		Layer:         LayerTop,
		Anchor:        AnchorBottom | AnchorLeft | AnchorRight,
		ExclusiveZone: 40,
		DesiredHeight: 40,
		Margins:       Margins{Bottom: 5},
	})
	s.MapPanel(1)

	side := &fakeSurface{}
	s.AttachPanel(PanelSpec{ID: 2, Output: "DP-1", Surface: side, Layer: LayerBottom})
	s.CommitPanel(2, PanelState{
		Layer:         LayerBottom,
		Anchor:        AnchorLeft | AnchorTop | AnchorBottom,
		ExclusiveZone: 64,
		DesiredWidth:  64,
	})
	s.MapPanel(2)

	if got := dock.configured[len(dock.configured)-1].Box; got != (Rect{Y: 1035, Width: 1920, Height: 40}) {
		t.Fatalf("dock box = %v", got)
	}
	if got := side.configured[len(side.configured)-1].Box; got != (Rect{Width: 64, Height: 1035}) {
		t.Fatalf("side box = %v", got)
	}
	if got := o.UsableArea(); got != (Rect{X: 64, Width: 1856, Height: 1035}) {
		t.Fatalf("usable = %v", got)
	}
}

func TestArrangeIgnoresFullAreaPanels(t *testing.T) {
	s, _ := newTestShell(t, Options{})
	addOutput(t, s, "DP-1", 1, 1920, 1080)
	topBar(t, s, 1, "DP-1", LayerTop, 30)

	lock := &fakeSurface{}
	s.AttachPanel(PanelSpec{ID: 2, Output: "DP-1", Surface: lock, Layer: LayerOverlay})
	s.CommitPanel(2, PanelState{
		Layer:         LayerOverlay,
		Anchor:        AnchorTop | AnchorBottom | AnchorLeft | AnchorRight,
		ExclusiveZone: -1,
	})
	if got := lock.configured[len(lock.configured)-1].Box; got != (Rect{Width: 1920, Height: 1080}) {
		t.Fatalf("full-area panel box = %v, want whole output", got)
	}
}

func TestArrangeUnmappedPanelReservesNothing(t *testing.T) {
	s, _ := newTestShell(t, Options{})
	o := addOutput(t, s, "DP-1", 1, 1920, 1080)
	topBar(t, s, 1, "DP-1", LayerTop, 30)

	if err := s.UnmapPanel(1); err != nil {
		t.Fatalf("UnmapPanel: %v", err)
	}
	if got := o.UsableArea(); got != (Rect{Width: 1920, Height: 1080}) {
		t.Fatalf("usable after unmap = %v", got)
	}
	if err := s.MapPanel(1); err != nil {
		t.Fatalf("MapPanel: %v", err)
	}
	if got := o.UsableArea(); got.Y != 30 {
		t.Fatalf("usable after remap = %v", got)
	}
	if err := s.DestroyPanel(1); err != nil {
		t.Fatalf("DestroyPanel: %v", err)
	}
	if got := o.UsableArea(); got.Y != 0 || o.Layers().Len() != 0 {
		t.Fatalf("usable after destroy = %v, %d panels", got, o.Layers().Len())
	}
}

func TestArrangeSkipsUncommittedPanels(t *testing.T) {
	s, _ := newTestShell(t, Options{})
	addOutput(t, s, "DP-1", 1, 1920, 1080)
	surf := &fakeSurface{}
	p, err := s.AttachPanel(PanelSpec{ID: 1, Output: "DP-1", Surface: surf, Layer: LayerTop})
	if err != nil {
		t.Fatalf("AttachPanel: %v", err)
	}
	s.Arrange("DP-1")
	if len(surf.configured) != 0 {
		t.Fatalf("uncommitted panel configured %d times", len(surf.configured))
	}
	if _, placed := p.Placement(); placed {
		t.Fatalf("uncommitted panel has a placement")
	}
}

func TestArrangeDefaultPanelSize(t *testing.T) {
	s, _ := newTestShell(t, Options{})
	addOutput(t, s, "DP-1", 1, 1920, 1080)
	surf := &fakeSurface{}
	s.AttachPanel(PanelSpec{ID: 1, Output: "DP-1", Surface: surf, Layer: LayerOverlay})
	s.CommitPanel(1, PanelState{Layer: LayerOverlay, Anchor: AnchorTop | AnchorRight})

	box := surf.configured[len(surf.configured)-1].Box
	if box != (Rect{X: 1820, Width: DefaultPanelSize, Height: DefaultPanelSize}) {
		t.Fatalf("default-size box = %v", box)
	}
}

func TestArrangeDefersReentrantCalls(t *testing.T) {
	s, _ := newTestShell(t, Options{})
	o := addOutput(t, s, "DP-1", 1, 1920, 1080)

	surf := &fakeSurface{}
	reentered := false
	surf.onConfigure = func(Placement) {
		if !reentered {
			reentered = true
			if !o.arranging {
				t.Errorf("Configure called outside an arrange")
			}
			s.Arrange("DP-1")
		}
	}
	s.AttachPanel(PanelSpec{ID: 1, Output: "DP-1", Surface: surf, Layer: LayerTop})
	s.CommitPanel(1, PanelState{Layer: LayerTop, Anchor: AnchorTop, DesiredWidth: 10, DesiredHeight: 10})

	if len(surf.configured) != 2 {
		t.Fatalf("configured %d times, want 2 (arrange plus one deferred)", len(surf.configured))
	}
	if o.arranging || o.rearrange {
		t.Fatalf("arrange flags left set")
	}
}

func TestArrangeMissingLayerStackIsNoop(t *testing.T) {
	var nilOutput *Output
	nilOutput.Arrange()
	(&Output{}).Arrange()
}

func TestPanelLayerChangeMovesBinding(t *testing.T) {
	s, _ := newTestShell(t, Options{})
	o := addOutput(t, s, "DP-1", 1, 800, 600)
	topBar(t, s, 1, "DP-1", LayerTop, 20)

	if err := s.CommitPanel(1, PanelState{Layer: LayerOverlay, Anchor: AnchorTop, ExclusiveZone: 20, DesiredHeight: 20}); err != nil {
		t.Fatalf("CommitPanel: %v", err)
	}
	if n := len(o.Layers().Panels(LayerTop)); n != 0 {
		t.Fatalf("%d panels left on top layer", n)
	}
	if n := len(o.Layers().Panels(LayerOverlay)); n != 1 {
		t.Fatalf("%d panels on overlay layer, want 1", n)
	}
	p, _ := s.Panel(1)
	if kids := s.Scene().Children(o.LayerNode(LayerOverlay)); len(kids) != 1 || kids[0] != p.node {
		t.Fatalf("panel node not moved under overlay layer: %v", kids)
	}
	if !s.Scene().Enabled(p.node) {
		t.Fatalf("mapped panel lost visibility on layer change")
	}
}
