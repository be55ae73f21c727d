// Package display answers monitor topology questions for the overlay.
package display

import (
	"image"

	"github.com/genricoloni/lyrical/internal/geometry"
	"github.com/kbinani/screenshot"
	"go.uber.org/zap"
)

var fallbackBounds = geometry.Rect{Width: 1920, Height: 1080}

// ScreenTopology queries the active displays on every call
type ScreenTopology struct {
	logger *zap.Logger
	// displays lists the bounds of active displays, primary first
	displays func() []image.Rectangle
}

// NewScreenTopology creates a topology backed by the platform display list
func NewScreenTopology(logger *zap.Logger) *ScreenTopology {
	t := &ScreenTopology{logger: logger, displays: activeDisplays}

	primary := t.Primary()
	logger.Info("Primary display detected",
		zap.Int("displays", len(t.displays())),
		zap.Int("width", primary.Width),
		zap.Int("height", primary.Height))

	return t
}

func activeDisplays() []image.Rectangle {
	n := screenshot.NumActiveDisplays()
	out := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, screenshot.GetDisplayBounds(i))
	}
	return out
}

// Primary returns the bounds of display 0
func (t *ScreenTopology) Primary() geometry.Rect {
	ds := t.displays()
	if len(ds) == 0 {
		t.logger.Warn("No active displays detected, falling back to 1920x1080")
		return fallbackBounds
	}
	return toRect(ds[0])
}

// DisplayAt returns the display containing p, or the nearest one
func (t *ScreenTopology) DisplayAt(p geometry.Point) geometry.Rect {
	ds := t.displays()
	if len(ds) == 0 {
		return fallbackBounds
	}

	best := toRect(ds[0])
	bestDist := best.DistanceSq(p)
	for _, d := range ds[1:] {
		r := toRect(d)
		if dist := r.DistanceSq(p); dist < bestDist {
			best, bestDist = r, dist
		}
	}
	return best
}

func toRect(r image.Rectangle) geometry.Rect {
	return geometry.Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}
