package shell

import "fmt"

// PanelSpec describes a panel surface being attached.
type PanelSpec struct {
	ID        PanelID
	Output    string // empty binds to the first output
	Namespace string
	Surface   PanelSurface
	Layer     Layer
}

// AttachPanel binds a new panel surface into an output's layer stack. The
// panel takes no space and is not placed until its first commit.
func (s *Shell) AttachPanel(spec PanelSpec) (*Panel, error) {
	if spec.ID == 0 {
		return nil, fmt.Errorf("attach panel: zero id: %w", ErrInvalidState)
	}
	if _, ok := s.panels[spec.ID]; ok {
		return nil, fmt.Errorf("attach panel %d: already attached: %w", spec.ID, ErrInvalidState)
	}
	if !spec.Layer.valid() {
		return nil, fmt.Errorf("attach panel %d: %s: %w", spec.ID, spec.Layer, ErrOutOfRange)
	}
	var o *Output
	if spec.Output != "" {
		var err error
		if o, err = s.Output(spec.Output); err != nil {
			return nil, err
		}
	} else if len(s.outputs) > 0 {
		o = s.outputs[0]
	} else {
		return nil, fmt.Errorf("attach panel %d: no output: %w", spec.ID, ErrUnknownOutput)
	}

	node, err := s.stacker.CreateNode(o.layerNodes[spec.Layer], uint32(spec.ID))
	if err != nil {
		return nil, fmt.Errorf("panel %d stacking node: %w", spec.ID, err)
	}
	s.stacker.SetEnabled(node, false)
	p := &Panel{
		id:        spec.ID,
		namespace: spec.Namespace,
		surface:   spec.Surface,
		node:      node,
		output:    o,
		state:     PanelState{Layer: spec.Layer},
	}
	o.layers.add(p)
	s.panels[p.id] = p
	s.logger.Debug("panel attached", "panel", p.id, "namespace", p.namespace, "output", o.name, "layer", spec.Layer.String())
	return p, nil
}

// Panel returns an attached panel.
func (s *Shell) Panel(id PanelID) (*Panel, error) {
	p, ok := s.panels[id]
	if !ok {
		return nil, fmt.Errorf("panel %d: %w", id, ErrUnknownPanel)
	}
	return p, nil
}

// CommitPanel applies a panel's new requested state and re-arranges its
// output. A layer change moves the panel between layer lists.
func (s *Shell) CommitPanel(id PanelID, state PanelState) error {
	p, err := s.Panel(id)
	if err != nil {
		return err
	}
	if !state.Layer.valid() {
		return fmt.Errorf("commit panel %d: %s: %w", id, state.Layer, ErrOutOfRange)
	}
	o := p.output
	if state.Layer != p.state.Layer {
		node, err := s.stacker.CreateNode(o.layerNodes[state.Layer], uint32(id))
		if err != nil {
			return fmt.Errorf("panel %d stacking node: %w", id, err)
		}
		s.stacker.SetEnabled(node, p.mapped)
		s.stacker.DestroyNode(p.node)
		p.node = node
		o.layers.remove(p)
		p.state.Layer = state.Layer
		o.layers.add(p)
	}
	p.state = state
	p.width, p.height = state.committedSize()
	p.committed = true
	o.Arrange()
	return nil
}

// MapPanel shows a panel. Only mapped panels reserve exclusive zones.
func (s *Shell) MapPanel(id PanelID) error {
	return s.setPanelMapped(id, true)
}

// UnmapPanel hides a panel and releases its exclusive zone.
func (s *Shell) UnmapPanel(id PanelID) error {
	return s.setPanelMapped(id, false)
}

func (s *Shell) setPanelMapped(id PanelID, mapped bool) error {
	p, err := s.Panel(id)
	if err != nil {
		return err
	}
	if p.mapped == mapped {
		return nil
	}
	p.mapped = mapped
	s.stacker.SetEnabled(p.node, mapped)
	p.output.Arrange()
	return nil
}

// DestroyPanel drops a panel binding and re-arranges its output.
func (s *Shell) DestroyPanel(id PanelID) error {
	p, err := s.Panel(id)
	if err != nil {
		return err
	}
	o := p.output
	o.layers.remove(p)
	s.stacker.DestroyNode(p.node)
	delete(s.panels, id)
	s.logger.Debug("panel destroyed", "panel", id, "output", o.name)
	o.Arrange()
	return nil
}
