package x11

import (
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"
)

func TestStrutOnMonitor(t *testing.T) {
	// Two 1920x1080 monitors side by side; root is 3840x1080.
	left := &Monitor{Name: "DP-1", Width: 1920, Height: 1080}
	right := &Monitor{Name: "DP-2", X: 1920, Width: 1920, Height: 1080}

	tests := []struct {
		name string
		sp   ewmh.WmStrutPartial
		mon  *Monitor
		want Strut
	}{
		{
			name: "top bar on left monitor",
			sp:   ewmh.WmStrutPartial{Top: 30, TopStartX: 0, TopEndX: 1919},
			mon:  left,
			want: Strut{Top: 30},
		},
		{
			name: "top bar on left monitor does not touch right",
			sp:   ewmh.WmStrutPartial{Top: 30, TopStartX: 0, TopEndX: 1919},
			mon:  right,
			want: Strut{},
		},
		{
			name: "bottom dock spanning both",
			sp:   ewmh.WmStrutPartial{Bottom: 40, BottomStartX: 0, BottomEndX: 3839},
			mon:  right,
			want: Strut{Bottom: 40},
		},
		{
			name: "right edge panel only reaches right monitor",
			sp:   ewmh.WmStrutPartial{Right: 64, RightStartY: 0, RightEndY: 1079},
			mon:  right,
			want: Strut{Right: 64},
		},
		{
			name: "left panel",
			sp:   ewmh.WmStrutPartial{Left: 48, LeftStartY: 100, LeftEndY: 599},
			mon:  left,
			want: Strut{Left: 48},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Strut
			strutOnMonitor(tt.mon, 3840, 1080, &tt.sp, &got)
			if got != tt.want {
				t.Fatalf("strut = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBoxIntersect(t *testing.T) {
	a := box{0, 0, 100, 100}
	if got := a.intersect(box{50, 50, 150, 150}); got != (extent{w: 50, h: 50}) {
		t.Fatalf("overlap = %+v", got)
	}
	if got := a.intersect(box{100, 0, 200, 100}); got != (extent{}) {
		t.Fatalf("touching boxes intersect: %+v", got)
	}
}
