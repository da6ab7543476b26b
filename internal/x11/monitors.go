package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// Strut is the space a dock reserves along each monitor edge.
type Strut struct {
	Left   int
	Right  int
	Top    int
	Bottom int
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	// Initialize RandR if not already done
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   outputName,
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		})
	}

	return monitors, nil
}

// MonitorStrut returns the part of a dock's strut that falls on monitor.
// Docks that only set _NET_WM_STRUT are treated as spanning the whole root.
func (c *Connection) MonitorStrut(windowID xproto.Window, monitor *Monitor) (Strut, bool) {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return Strut{}, false
	}
	rootWidth := int(rootGeom.Width)
	rootHeight := int(rootGeom.Height)

	sp, err := ewmh.WmStrutPartialGet(c.XUtil, windowID)
	if err != nil {
		s, err := ewmh.WmStrutGet(c.XUtil, windowID)
		if err != nil {
			return Strut{}, false
		}
		sp = &ewmh.WmStrutPartial{
			Left:       s.Left,
			Right:      s.Right,
			Top:        s.Top,
			Bottom:     s.Bottom,
			LeftEndY:   uint(rootHeight - 1),
			RightEndY:  uint(rootHeight - 1),
			TopEndX:    uint(rootWidth - 1),
			BottomEndX: uint(rootWidth - 1),
		}
	}

	var acc Strut
	strutOnMonitor(monitor, rootWidth, rootHeight, sp, &acc)
	return acc, acc != Strut{}
}

func strutOnMonitor(monitor *Monitor, rootWidth, rootHeight int, sp *ewmh.WmStrutPartial, acc *Strut) {
	mon := box{monitor.X, monitor.Y, monitor.X + monitor.Width, monitor.Y + monitor.Height}

	// Top strut: y=[0,Top), x=[TopStartX,TopEndX]
	if sp.Top > 0 {
		b := box{int(sp.TopStartX), 0, int(sp.TopEndX) + 1, int(sp.Top)}
		acc.Top = max(acc.Top, mon.intersect(b).h)
	}

	// Bottom strut: y=[rootHeight-Bottom,rootHeight), x=[BottomStartX,BottomEndX]
	if sp.Bottom > 0 {
		b := box{int(sp.BottomStartX), rootHeight - int(sp.Bottom), int(sp.BottomEndX) + 1, rootHeight}
		acc.Bottom = max(acc.Bottom, mon.intersect(b).h)
	}

	// Left strut: x=[0,Left), y=[LeftStartY,LeftEndY]
	if sp.Left > 0 {
		b := box{0, int(sp.LeftStartY), int(sp.Left), int(sp.LeftEndY) + 1}
		acc.Left = max(acc.Left, mon.intersect(b).w)
	}

	// Right strut: x=[rootWidth-Right,rootWidth), y=[RightStartY,RightEndY]
	if sp.Right > 0 {
		b := box{rootWidth - int(sp.Right), int(sp.RightStartY), rootWidth, int(sp.RightEndY) + 1}
		acc.Right = max(acc.Right, mon.intersect(b).w)
	}
}

// box is a half-open rectangle [x1,x2) x [y1,y2).
type box struct {
	x1, y1, x2, y2 int
}

type extent struct {
	w int
	h int
}

func (a box) intersect(b box) extent {
	x1 := max(a.x1, b.x1)
	y1 := max(a.y1, b.y1)
	x2 := min(a.x2, b.x2)
	y2 := min(a.y2, b.y2)

	if x2 <= x1 || y2 <= y1 {
		return extent{}
	}
	return extent{w: x2 - x1, h: y2 - y1}
}
