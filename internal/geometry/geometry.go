package geometry

import "strings"

const (
	// MinWidth is the hard floor for the overlay width
	MinWidth = 100
	// MinHeight is the hard floor for the overlay height
	MinHeight = 50
)

// Point is a position in display coordinates
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Sub returns p - o
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Size holds width and height
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Rect is a window or monitor rectangle in display coordinates
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Size returns the width and height of r
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Origin returns the top-left corner of r
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Contains reports whether p lies inside r (right and bottom edges excluded)
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Empty reports whether r has no area
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// WithOrigin returns r moved to p, keeping its size
func (r Rect) WithOrigin(p Point) Rect {
	r.X, r.Y = p.X, p.Y
	return r
}

// DistanceSq returns the squared distance from p to the closest point of r.
// It is zero when r contains p.
func (r Rect) DistanceSq(p Point) int {
	dx := 0
	switch {
	case p.X < r.X:
		dx = r.X - p.X
	case p.X >= r.X+r.Width:
		dx = p.X - (r.X + r.Width - 1)
	}
	dy := 0
	switch {
	case p.Y < r.Y:
		dy = r.Y - p.Y
	case p.Y >= r.Y+r.Height:
		dy = p.Y - (r.Y + r.Height - 1)
	}
	return dx*dx + dy*dy
}

// EnforceMinimum raises width and height to the floor without moving the origin
func EnforceMinimum(r Rect) Rect {
	if r.Width < MinWidth {
		r.Width = MinWidth
	}
	if r.Height < MinHeight {
		r.Height = MinHeight
	}
	return r
}

// ClampToMonitor keeps the whole rectangle of r inside monitor.
// Right/bottom are clamped first so that a window larger than the monitor
// ends up aligned to the monitor origin.
func ClampToMonitor(r Rect, monitor Rect) Rect {
	if monitor.Empty() {
		return r
	}
	if maxX := monitor.X + monitor.Width - r.Width; r.X > maxX {
		r.X = maxX
	}
	if maxY := monitor.Y + monitor.Height - r.Height; r.Y > maxY {
		r.Y = maxY
	}
	if r.X < monitor.X {
		r.X = monitor.X
	}
	if r.Y < monitor.Y {
		r.Y = monitor.Y
	}
	return r
}

// Drag returns the start rectangle translated by the pointer displacement.
// Size is held fixed.
func Drag(start Rect, startPointer, pointer Point) Rect {
	d := pointer.Sub(startPointer)
	start.X += d.X
	start.Y += d.Y
	return start
}

// Direction is the set of edges taking part in a resize gesture
type Direction uint8

const (
	Top Direction = 1 << iota
	Bottom
	Left
	Right
)

// Has reports whether all edges of e are part of d
func (d Direction) Has(e Direction) bool {
	return d&e == e
}

// String returns the tag form of d, e.g. "top-left"
func (d Direction) String() string {
	var parts []string
	if d.Has(Top) {
		parts = append(parts, "top")
	} else if d.Has(Bottom) {
		parts = append(parts, "bottom")
	}
	if d.Has(Left) {
		parts = append(parts, "left")
	} else if d.Has(Right) {
		parts = append(parts, "right")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "-")
}

// Resize computes the rectangle produced by dragging the edges in dir from
// startPointer to pointer. Top wins over Bottom and Left over Right.
// When the floor kicks in on an origin edge (top or left) the opposite edge
// stays where it was at gesture start.
func Resize(start Rect, dir Direction, startPointer, pointer Point) Rect {
	d := pointer.Sub(startPointer)
	r := start

	if dir.Has(Top) {
		r.Y = start.Y + d.Y
		r.Height = start.Height - d.Y
	} else if dir.Has(Bottom) {
		r.Height = start.Height + d.Y
	}

	if dir.Has(Left) {
		r.X = start.X + d.X
		r.Width = start.Width - d.X
	} else if dir.Has(Right) {
		r.Width = start.Width + d.X
	}

	if r.Width < MinWidth {
		if dir.Has(Left) {
			r.X = start.X + (start.Width - MinWidth)
		}
		r.Width = MinWidth
	}
	if r.Height < MinHeight {
		if dir.Has(Top) {
			r.Y = start.Y + (start.Height - MinHeight)
		}
		r.Height = MinHeight
	}
	return r
}
