package daemon

import (
	"github.com/1broseidon/tileshell/internal/platform"
	"github.com/1broseidon/tileshell/internal/shell"
)

// defaultLayer is the layer a window kind lands on when no layer rule
// matches its class. Normal windows are views, not panels.
func defaultLayer(kind platform.WindowKind) (shell.Layer, bool) {
	switch kind {
	case platform.KindDock:
		return shell.LayerTop, true
	case platform.KindDesktop:
		return shell.LayerBackground, true
	case platform.KindNotification:
		return shell.LayerOverlay, true
	default:
		return 0, false
	}
}

// panelState derives what a panel window asks of the arranger. A dock's
// strut becomes an exclusive zone on the matching edge; desktop windows
// cover the whole output.
func panelState(w platform.Window, layer shell.Layer, display platform.Rect) shell.PanelState {
	st := shell.PanelState{Layer: layer}
	width, height := w.Bounds.Width, w.Bounds.Height
	spansX := display.Width > 0 && width >= display.Width
	spansY := display.Height > 0 && height >= display.Height

	switch {
	case w.Kind == platform.KindDesktop:
		st.Anchor = shell.AnchorTop | shell.AnchorBottom | shell.AnchorLeft | shell.AnchorRight
		st.ExclusiveZone = -1
	case w.Strut.Top > 0:
		st.Anchor = shell.AnchorTop
		st.ExclusiveZone = w.Strut.Top
		st.DesiredHeight = height
		st.DesiredWidth, st.Anchor = stretch(width, spansX, st.Anchor, shell.AnchorLeft|shell.AnchorRight)
	case w.Strut.Bottom > 0:
		st.Anchor = shell.AnchorBottom
		st.ExclusiveZone = w.Strut.Bottom
		st.DesiredHeight = height
		st.DesiredWidth, st.Anchor = stretch(width, spansX, st.Anchor, shell.AnchorLeft|shell.AnchorRight)
	case w.Strut.Left > 0:
		st.Anchor = shell.AnchorLeft
		st.ExclusiveZone = w.Strut.Left
		st.DesiredWidth = width
		st.DesiredHeight, st.Anchor = stretch(height, spansY, st.Anchor, shell.AnchorTop|shell.AnchorBottom)
	case w.Strut.Right > 0:
		st.Anchor = shell.AnchorRight
		st.ExclusiveZone = w.Strut.Right
		st.DesiredWidth = width
		st.DesiredHeight, st.Anchor = stretch(height, spansY, st.Anchor, shell.AnchorTop|shell.AnchorBottom)
	case w.Kind == platform.KindDock:
		// No strut: keep to the nearer horizontal edge without reserving.
		st.Anchor = shell.AnchorTop
		if w.Bounds.Y+height/2 >= display.Y+display.Height/2 {
			st.Anchor = shell.AnchorBottom
		}
		st.DesiredHeight = height
		st.DesiredWidth, st.Anchor = stretch(width, spansX, st.Anchor, shell.AnchorLeft|shell.AnchorRight)
	case w.Kind == platform.KindNotification:
		st.Anchor = shell.AnchorTop | shell.AnchorRight
		st.DesiredWidth, st.DesiredHeight = width, height
	default:
		st.DesiredWidth, st.DesiredHeight = width, height
	}
	return st
}

// stretch returns the desired size along an axis, and the anchor widened
// to both sides of that axis when the window spans the display.
func stretch(size int, spans bool, anchor, sides shell.Anchor) (int, shell.Anchor) {
	if spans {
		return 0, anchor | sides
	}
	return size, anchor
}
