package overlay

import "github.com/genricoloni/lyrical/internal/geometry"

const (
	// EdgeSize is the width of the resize band along each window edge
	EdgeSize = 6
	// ToolbarHeight is the height of the button row at the top
	ToolbarHeight = 22
	// ButtonWidth is the width of a single toolbar button
	ButtonWidth = 26
)

// Button is a toolbar button laid out in window coordinates
type Button struct {
	Kind   TargetKind
	Bounds geometry.Rect
}

var toolbarOrder = []TargetKind{
	TargetShowMain,
	TargetPrev,
	TargetPlayPause,
	TargetNext,
	TargetLock,
	TargetClose,
}

// Toolbar lays out the buttons centred at the top of a window of the given size
func Toolbar(size geometry.Size) []Button {
	total := len(toolbarOrder) * ButtonWidth
	x := (size.Width - total) / 2
	buttons := make([]Button, len(toolbarOrder))
	for i, kind := range toolbarOrder {
		buttons[i] = Button{
			Kind: kind,
			Bounds: geometry.Rect{
				X:      x + i*ButtonWidth,
				Y:      EdgeSize,
				Width:  ButtonWidth,
				Height: ToolbarHeight,
			},
		}
	}
	return buttons
}

// HitTest returns the element under p, given in window coordinates.
// Edges win over the toolbar so the window can always be resized.
func HitTest(size geometry.Size, p geometry.Point) Target {
	if p.X < 0 || p.Y < 0 || p.X >= size.Width || p.Y >= size.Height {
		return Target{}
	}

	var dir geometry.Direction
	switch {
	case p.Y < EdgeSize:
		dir |= geometry.Top
	case p.Y >= size.Height-EdgeSize:
		dir |= geometry.Bottom
	}
	switch {
	case p.X < EdgeSize:
		dir |= geometry.Left
	case p.X >= size.Width-EdgeSize:
		dir |= geometry.Right
	}
	if dir != 0 {
		return Target{Kind: TargetEdge, Direction: dir}
	}

	for _, b := range Toolbar(size) {
		if b.Bounds.Contains(p) {
			return Target{Kind: b.Kind}
		}
	}
	return Target{Kind: TargetBody}
}
