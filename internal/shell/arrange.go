package shell

// arrangeOrder is the fixed priority order both passes walk: overlay panels
// are placed before anything lower can claim space.
var arrangeOrder = [layerCount]Layer{LayerOverlay, LayerTop, LayerBottom, LayerBackground}

// maxDeferredArranges bounds how often a deferred arrange is replayed after
// the running one finishes.
const maxDeferredArranges = 8

// Arrange recomputes every panel placement of the output and its usable area.
// It is idempotent. A call made while the output is already arranging (from
// a panel's Configure) is deferred until the running arrange completes.
func (o *Output) Arrange() {
	if o == nil || o.layers == nil {
		return
	}
	if o.arranging {
		o.rearrange = true
		return
	}
	o.arranging = true
	defer func() { o.arranging = false }()

	for i := 0; i < maxDeferredArranges; i++ {
		o.rearrange = false
		o.arrangeOnce()
		if !o.rearrange {
			return
		}
	}
	o.shell.logger.Warn("deferred arrange limit reached", "output", o.name)
}

func (o *Output) arrangeOnce() {
	full := Rect{Width: o.width, Height: o.height}
	usable := full

	var placed []*Panel
	for _, exclusive := range []bool{true, false} {
		for _, layer := range arrangeOrder {
			for _, p := range o.layers.layers[layer] {
				if !p.committed {
					continue
				}
				if (p.state.ExclusiveZone > 0) != exclusive {
					continue
				}
				p.placement = Placement{Full: full, Usable: usable, Box: panelBox(p, full, usable)}
				p.placed = true
				if exclusive && p.mapped {
					usable = reserveExclusive(usable, p.state)
				}
				placed = append(placed, p)
			}
		}
	}
	o.usable = usable

	for _, p := range placed {
		if p.surface != nil {
			p.surface.Configure(p.placement)
		}
	}
	o.shell.logger.Debug("arranged layers", "output", o.name, "panels", len(placed), "usable", usable.String())
}

// panelBox positions a panel inside its bounds: the full area when it asks
// not to be moved by other panels (exclusive zone -1), the usable area
// otherwise.
func panelBox(p *Panel, full, usable Rect) Rect {
	bounds := usable
	if p.state.ExclusiveZone == -1 {
		bounds = full
	}
	a := p.state.Anchor
	m := p.state.Margins
	box := Rect{Width: p.width, Height: p.height}

	switch {
	case box.Width == 0:
		box.X = bounds.X + m.Left
		box.Width = bounds.Width - m.Left - m.Right
	case a.has(AnchorLeft | AnchorRight):
		box.X = bounds.X + bounds.Width/2 - box.Width/2
	case a.has(AnchorLeft):
		box.X = bounds.X + m.Left
	case a.has(AnchorRight):
		box.X = bounds.X + bounds.Width - box.Width - m.Right
	default:
		box.X = bounds.X + bounds.Width/2 - box.Width/2
	}

	switch {
	case box.Height == 0:
		box.Y = bounds.Y + m.Top
		box.Height = bounds.Height - m.Top - m.Bottom
	case a.has(AnchorTop | AnchorBottom):
		box.Y = bounds.Y + bounds.Height/2 - box.Height/2
	case a.has(AnchorTop):
		box.Y = bounds.Y + m.Top
	case a.has(AnchorBottom):
		box.Y = bounds.Y + bounds.Height - box.Height - m.Bottom
	default:
		box.Y = bounds.Y + bounds.Height/2 - box.Height/2
	}

	if box.Width < 0 {
		box.Width = 0
	}
	if box.Height < 0 {
		box.Height = 0
	}
	return box
}

// reserveExclusive removes a panel's exclusive zone plus its margin on the
// exclusive edge from usable.
func reserveExclusive(usable Rect, s PanelState) Rect {
	edge, ok := s.exclusiveEdge()
	if !ok {
		return usable
	}
	zone := s.ExclusiveZone
	switch edge {
	case AnchorTop:
		usable.Y += zone + s.Margins.Top
		usable.Height -= zone + s.Margins.Top
	case AnchorBottom:
		usable.Height -= zone + s.Margins.Bottom
	case AnchorLeft:
		usable.X += zone + s.Margins.Left
		usable.Width -= zone + s.Margins.Left
	case AnchorRight:
		usable.Width -= zone + s.Margins.Right
	}
	if usable.Width < 0 {
		usable.Width = 0
	}
	if usable.Height < 0 {
		usable.Height = 0
	}
	return usable
}
