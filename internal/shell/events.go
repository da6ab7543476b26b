package shell

import "fmt"

// Event is something the display side reports to the shell.
type Event interface {
	isEvent()
}

type (
	OutputAdded struct {
		Config        OutputConfig
		Width, Height int
	}
	OutputRemoved struct {
		Name string
	}
	OutputResized struct {
		Name          string
		Width, Height int
	}
	OutputReconfigured struct {
		Name   string
		Config OutputConfig
	}
	ViewMapped struct {
		View View
	}
	ViewUnmapped struct {
		ID ViewID
	}
	PanelAttached struct {
		Spec PanelSpec
	}
	PanelCommitted struct {
		ID    PanelID
		State PanelState
	}
	PanelMapped struct {
		ID PanelID
	}
	PanelUnmapped struct {
		ID PanelID
	}
	PanelDestroyed struct {
		ID PanelID
	}
	CommandIssued struct {
		Command Command
	}
)

func (OutputAdded) isEvent()        {}
func (OutputRemoved) isEvent()      {}
func (OutputResized) isEvent()      {}
func (OutputReconfigured) isEvent() {}
func (ViewMapped) isEvent()         {}
func (ViewUnmapped) isEvent()       {}
func (PanelAttached) isEvent()      {}
func (PanelCommitted) isEvent()     {}
func (PanelMapped) isEvent()        {}
func (PanelUnmapped) isEvent()      {}
func (PanelDestroyed) isEvent()     {}
func (CommandIssued) isEvent()      {}

// Handle dispatches ev to the matching operation.
func (s *Shell) Handle(ev Event) error {
	switch e := ev.(type) {
	case OutputAdded:
		_, err := s.AddOutput(e.Config, e.Width, e.Height)
		return err
	case OutputRemoved:
		return s.RemoveOutput(e.Name)
	case OutputResized:
		return s.SetOutputGeometry(e.Name, e.Width, e.Height)
	case OutputReconfigured:
		return s.ReconfigureOutput(e.Name, e.Config)
	case ViewMapped:
		return s.MapView(e.View)
	case ViewUnmapped:
		return s.UnmapView(e.ID)
	case PanelAttached:
		_, err := s.AttachPanel(e.Spec)
		return err
	case PanelCommitted:
		return s.CommitPanel(e.ID, e.State)
	case PanelMapped:
		return s.MapPanel(e.ID)
	case PanelUnmapped:
		return s.UnmapPanel(e.ID)
	case PanelDestroyed:
		return s.DestroyPanel(e.ID)
	case CommandIssued:
		return s.Exec(e.Command)
	default:
		return fmt.Errorf("unhandled event %T", ev)
	}
}
