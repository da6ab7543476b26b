package shell

// State is a read-only snapshot of the shell, shaped for JSON.
type State struct {
	FocusedOutput string        `json:"focused_output,omitempty"`
	Outputs       []OutputState `json:"outputs"`
	DetachedViews []ViewID      `json:"detached_views,omitempty"`
}

type OutputState struct {
	Name             string           `json:"name"`
	Priority         int              `json:"priority"`
	Width            int              `json:"width"`
	Height           int              `json:"height"`
	Usable           Rect             `json:"usable"`
	CurrentWorkspace int              `json:"current_workspace"`
	Workspaces       []WorkspaceState `json:"workspaces"`
	Panels           []PanelInfo      `json:"panels,omitempty"`
}

type WorkspaceState struct {
	Index   int         `json:"index"`
	Focused TileID      `json:"focused,omitempty"`
	Tiles   []TileState `json:"tiles"`
	Hidden  []ViewID    `json:"hidden_views,omitempty"`
}

type TileState struct {
	ID   TileID `json:"id"`
	Rect Rect   `json:"rect"`
	View ViewID `json:"view,omitempty"`
}

type PanelInfo struct {
	ID            PanelID `json:"id"`
	Namespace     string  `json:"namespace,omitempty"`
	Layer         string  `json:"layer"`
	Anchor        string  `json:"anchor"`
	ExclusiveZone int     `json:"exclusive_zone"`
	Mapped        bool    `json:"mapped"`
	Box           *Rect   `json:"box,omitempty"`
}

// State captures the current layout.
func (s *Shell) State() State {
	var st State
	if s.focused != nil {
		st.FocusedOutput = s.focused.name
	}
	for _, o := range s.outputs {
		ost := OutputState{
			Name:             o.name,
			Priority:         o.cfg.Priority,
			Width:            o.width,
			Height:           o.height,
			Usable:           o.usable,
			CurrentWorkspace: o.current,
		}
		for _, ws := range o.workspaces {
			wst := WorkspaceState{Index: ws.index, Focused: ws.focused, Tiles: []TileState{}}
			for _, id := range ws.ring.Tiles() {
				rect, _ := ws.ring.Rect(id)
				ts := TileState{ID: id, Rect: rect}
				if bv := ws.ring.view(id); bv != nil {
					ts.View = bv.view.ID()
				}
				wst.Tiles = append(wst.Tiles, ts)
			}
			for _, bv := range s.viewsIn(ws) {
				if bv.tile == 0 {
					wst.Hidden = append(wst.Hidden, bv.view.ID())
				}
			}
			ost.Workspaces = append(ost.Workspaces, wst)
		}
		for _, p := range o.panelsSorted() {
			info := PanelInfo{
				ID:            p.id,
				Namespace:     p.namespace,
				Layer:         p.state.Layer.String(),
				Anchor:        p.state.Anchor.String(),
				ExclusiveZone: p.state.ExclusiveZone,
				Mapped:        p.mapped,
			}
			if p.placed {
				box := p.placement.Box
				info.Box = &box
			}
			ost.Panels = append(ost.Panels, info)
		}
		st.Outputs = append(st.Outputs, ost)
	}
	for _, bv := range s.sortedViews() {
		if bv.ws == nil {
			st.DetachedViews = append(st.DetachedViews, bv.view.ID())
		}
	}
	return st
}
