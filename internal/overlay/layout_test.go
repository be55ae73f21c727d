package overlay

import (
	"testing"

	"github.com/genricoloni/lyrical/internal/geometry"
)

func TestHitTest(t *testing.T) {
	size := geometry.Size{Width: 800, Height: 100}
	toolbar := Toolbar(size)

	tests := []struct {
		name     string
		point    geometry.Point
		expected Target
	}{
		{"Outside", geometry.Point{X: -1, Y: 10}, Target{}},
		{"Top Left Corner", geometry.Point{X: 2, Y: 2}, Target{Kind: TargetEdge, Direction: geometry.Top | geometry.Left}},
		{"Bottom Right Corner", geometry.Point{X: 799, Y: 99}, Target{Kind: TargetEdge, Direction: geometry.Bottom | geometry.Right}},
		{"Left Edge", geometry.Point{X: 0, Y: 50}, Target{Kind: TargetEdge, Direction: geometry.Left}},
		{"Bottom Edge", geometry.Point{X: 400, Y: 96}, Target{Kind: TargetEdge, Direction: geometry.Bottom}},
		{"Body", geometry.Point{X: 400, Y: 70}, Target{Kind: TargetBody}},
		{"First Button", toolbar[0].Bounds.Origin(), Target{Kind: TargetShowMain}},
		{"Lock Button", geometry.Point{X: toolbar[4].Bounds.X + 3, Y: toolbar[4].Bounds.Y + 3}, Target{Kind: TargetLock}},
		{"Beside Toolbar", geometry.Point{X: toolbar[0].Bounds.X - 1, Y: EdgeSize + 1}, Target{Kind: TargetBody}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HitTest(size, tt.point); got != tt.expected {
				t.Errorf("want %+v, got %+v", tt.expected, got)
			}
		})
	}
}

func TestToolbarIsCentred(t *testing.T) {
	size := geometry.Size{Width: 400, Height: 100}
	buttons := Toolbar(size)

	left := buttons[0].Bounds.X
	last := buttons[len(buttons)-1].Bounds
	right := size.Width - (last.X + last.Width)
	if left != right {
		t.Errorf("toolbar not centred: %d left, %d right", left, right)
	}
}
