package daemon

import (
	"testing"

	"github.com/1broseidon/tileshell/internal/platform"
	"github.com/1broseidon/tileshell/internal/shell"
)

func TestPanelState(t *testing.T) {
	display := platform.Rect{Width: 1920, Height: 1080}
	full := shell.AnchorTop | shell.AnchorBottom | shell.AnchorLeft | shell.AnchorRight

	tests := []struct {
		name string
		win  platform.Window
		want shell.PanelState
	}{
		{
			name: "full width top bar",
			win:  platform.Window{Kind: platform.KindDock, Bounds: platform.Rect{Width: 1920, Height: 30}, Strut: platform.Strut{Top: 30}},
			want: shell.PanelState{Anchor: shell.AnchorTop | shell.AnchorLeft | shell.AnchorRight, ExclusiveZone: 30, DesiredHeight: 30},
		},
		{
			name: "centred bottom dock",
			win:  platform.Window{Kind: platform.KindDock, Bounds: platform.Rect{X: 560, Y: 1032, Width: 800, Height: 48}, Strut: platform.Strut{Bottom: 48}},
			want: shell.PanelState{Anchor: shell.AnchorBottom, ExclusiveZone: 48, DesiredWidth: 800, DesiredHeight: 48},
		},
		{
			name: "full height left panel",
			win:  platform.Window{Kind: platform.KindDock, Bounds: platform.Rect{Width: 64, Height: 1080}, Strut: platform.Strut{Left: 64}},
			want: shell.PanelState{Anchor: shell.AnchorLeft | shell.AnchorTop | shell.AnchorBottom, ExclusiveZone: 64, DesiredWidth: 64},
		},
		{
			name: "dock without strut near the bottom",
			win:  platform.Window{Kind: platform.KindDock, Bounds: platform.Rect{Y: 1000, Width: 1920, Height: 40}},
			want: shell.PanelState{Anchor: shell.AnchorBottom | shell.AnchorLeft | shell.AnchorRight, DesiredHeight: 40},
		},
		{
			name: "desktop covers the output",
			win:  platform.Window{Kind: platform.KindDesktop, Bounds: platform.Rect{Width: 1920, Height: 1080}},
			want: shell.PanelState{Anchor: full, ExclusiveZone: -1},
		},
		{
			name: "notification in the corner",
			win:  platform.Window{Kind: platform.KindNotification, Bounds: platform.Rect{Width: 300, Height: 80}},
			want: shell.PanelState{Anchor: shell.AnchorTop | shell.AnchorRight, DesiredWidth: 300, DesiredHeight: 80},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := panelState(tt.win, shell.LayerTop, display)
			tt.want.Layer = shell.LayerTop
			if got != tt.want {
				t.Fatalf("panelState = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDefaultLayer(t *testing.T) {
	if _, ok := defaultLayer(platform.KindNormal); ok {
		t.Fatalf("normal windows are views")
	}
	for kind, want := range map[platform.WindowKind]shell.Layer{
		platform.KindDock:         shell.LayerTop,
		platform.KindDesktop:      shell.LayerBackground,
		platform.KindNotification: shell.LayerOverlay,
	} {
		if got, ok := defaultLayer(kind); !ok || got != want {
			t.Fatalf("defaultLayer(%v) = %v, %v", kind, got, ok)
		}
	}
}
