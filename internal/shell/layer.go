package shell

import (
	"fmt"
	"slices"
	"strings"
)

// Layer is one of the four fixed panel categories, lowest priority first.
type Layer int

const (
	LayerBackground Layer = iota
	LayerBottom
	LayerTop
	LayerOverlay

	layerCount = 4
)

// DefaultPanelSize is used on an axis a panel leaves at 0 without being
// anchored to both of its edges.
const DefaultPanelSize = 100

func (l Layer) String() string {
	switch l {
	case LayerBackground:
		return "background"
	case LayerBottom:
		return "bottom"
	case LayerTop:
		return "top"
	case LayerOverlay:
		return "overlay"
	default:
		return fmt.Sprintf("layer(%d)", int(l))
	}
}

func (l Layer) valid() bool {
	return l >= LayerBackground && l <= LayerOverlay
}

// ParseLayer parses a layer name.
func ParseLayer(s string) (Layer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "background":
		return LayerBackground, nil
	case "bottom":
		return LayerBottom, nil
	case "top":
		return LayerTop, nil
	case "overlay":
		return LayerOverlay, nil
	}
	return 0, fmt.Errorf("unknown layer %q", s)
}

// Anchor is a set of output edges a panel is attached to.
type Anchor uint8

const (
	AnchorTop Anchor = 1 << iota
	AnchorBottom
	AnchorLeft
	AnchorRight
)

func (a Anchor) has(edge Anchor) bool {
	return a&edge == edge
}

func (a Anchor) String() string {
	if a == 0 {
		return "none"
	}
	var parts []string
	for _, e := range []struct {
		a    Anchor
		name string
	}{{AnchorTop, "top"}, {AnchorBottom, "bottom"}, {AnchorLeft, "left"}, {AnchorRight, "right"}} {
		if a.has(e.a) {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, "|")
}

// Margins are distances kept between a panel and its anchored edges.
type Margins struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// PanelID identifies a panel binding. The collaborator chooses it.
type PanelID uint32

// PanelState is what a panel asks for.
type PanelState struct {
	Layer         Layer
	Anchor        Anchor
	ExclusiveZone int
	Margins       Margins
	DesiredWidth  int
	DesiredHeight int
}

// exclusiveEdge returns the edge an exclusive zone is reserved from: the one
// anchored edge, or the edge anchored together with both perpendicular ones.
func (s PanelState) exclusiveEdge() (Anchor, bool) {
	switch s.Anchor {
	case AnchorTop, AnchorTop | AnchorLeft | AnchorRight:
		return AnchorTop, true
	case AnchorBottom, AnchorBottom | AnchorLeft | AnchorRight:
		return AnchorBottom, true
	case AnchorLeft, AnchorLeft | AnchorTop | AnchorBottom:
		return AnchorLeft, true
	case AnchorRight, AnchorRight | AnchorTop | AnchorBottom:
		return AnchorRight, true
	}
	return 0, false
}

// committedSize resolves the size a commit settles on.
func (s PanelState) committedSize() (int, int) {
	w, h := s.DesiredWidth, s.DesiredHeight
	if w <= 0 {
		w = 0
		if !s.Anchor.has(AnchorLeft | AnchorRight) {
			w = DefaultPanelSize
		}
	}
	if h <= 0 {
		h = 0
		if !s.Anchor.has(AnchorTop | AnchorBottom) {
			h = DefaultPanelSize
		}
	}
	return w, h
}

// Placement is what the arranger hands a panel: the full output rectangle it
// is referenced against, the usable area at the time it was placed, and the
// box it should occupy.
type Placement struct {
	Full   Rect `json:"full"`
	Usable Rect `json:"usable"`
	Box    Rect `json:"box"`
}

// PanelSurface is the externally owned panel the shell places.
type PanelSurface interface {
	Configure(p Placement)
}

// Panel binds one panel surface into an output's layer stack.
type Panel struct {
	id        PanelID
	namespace string
	surface   PanelSurface
	node      NodeID
	output    *Output

	state     PanelState
	committed bool
	width     int
	height    int
	mapped    bool

	placement Placement
	placed    bool
}

// ID returns the panel's id.
func (p *Panel) ID() PanelID { return p.id }

// Namespace returns the namespace the panel was attached with.
func (p *Panel) Namespace() string { return p.namespace }

// Mapped reports whether the panel is shown.
func (p *Panel) Mapped() bool { return p.mapped }

// Committed reports whether the panel has committed a state yet.
func (p *Panel) Committed() bool { return p.committed }

// Size returns the size settled on by the last commit.
func (p *Panel) Size() (int, int) { return p.width, p.height }

// State returns the last committed panel state.
func (p *Panel) State() PanelState { return p.state }

// Placement returns the last computed placement and whether one exists.
func (p *Panel) Placement() (Placement, bool) { return p.placement, p.placed }

// LayerStack holds an output's panels in four ordered lists.
type LayerStack struct {
	layers [layerCount][]*Panel
}

func (ls *LayerStack) add(p *Panel) {
	ls.layers[p.state.Layer] = append(ls.layers[p.state.Layer], p)
}

func (ls *LayerStack) remove(p *Panel) {
	for l := range ls.layers {
		ls.layers[l] = slices.DeleteFunc(ls.layers[l], func(q *Panel) bool { return q == p })
	}
}

// Panels returns the panels of one layer in attach order.
func (ls *LayerStack) Panels(l Layer) []*Panel {
	if ls == nil || !l.valid() {
		return nil
	}
	return slices.Clone(ls.layers[l])
}

// Len returns the number of panels across all layers.
func (ls *LayerStack) Len() int {
	if ls == nil {
		return 0
	}
	n := 0
	for _, l := range ls.layers {
		n += len(l)
	}
	return n
}
