package shell

import "fmt"

// Rect is a rectangle in output-local pixel coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Point is a pixel position in output-local coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Center returns the middle point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Intersect returns the overlapping area of r and o (zero Rect if disjoint).
func (r Rect) Intersect(o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.X+r.Width, o.X+o.Width)
	y2 := min(r.Y+r.Height, o.Y+o.Height)
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Overlaps reports whether r and o share any area.
func (r Rect) Overlaps(o Rect) bool {
	return !r.Intersect(o).Empty()
}

// Inset shrinks the rectangle by n pixels on every side, never below 1x1.
func (r Rect) Inset(n int) Rect {
	if n <= 0 {
		return r
	}
	out := Rect{X: r.X + n, Y: r.Y + n, Width: r.Width - 2*n, Height: r.Height - 2*n}
	if out.Width < 1 {
		out.Width = 1
	}
	if out.Height < 1 {
		out.Height = 1
	}
	return out
}

// scale maps r from an oldW x oldH space into newW x newH. Edges are scaled
// rather than sizes so that adjacent rectangles stay adjacent.
func (r Rect) scale(oldW, oldH, newW, newH int) Rect {
	if oldW <= 0 || oldH <= 0 {
		return Rect{Width: newW, Height: newH}
	}
	x1 := r.X * newW / oldW
	y1 := r.Y * newH / oldH
	x2 := (r.X + r.Width) * newW / oldW
	y2 := (r.Y + r.Height) * newH / oldH
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}
