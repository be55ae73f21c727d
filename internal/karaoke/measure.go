package karaoke

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Measurer returns the rendered width of a piece of text in pixels
type Measurer interface {
	Measure(s string) float64
}

// FaceMeasurer measures text with a font face
type FaceMeasurer struct {
	face  font.Face
	scale float64
}

// NewFaceMeasurer creates a measurer for face drawn at the given scale.
// A nil face falls back to basicfont.Face7x13.
func NewFaceMeasurer(face font.Face, scale float64) *FaceMeasurer {
	if face == nil {
		face = basicfont.Face7x13
	}
	if scale <= 0 {
		scale = 1
	}
	return &FaceMeasurer{face: face, scale: scale}
}

// Measure returns the advance width of s
func (m *FaceMeasurer) Measure(s string) float64 {
	adv := font.MeasureString(m.face, s)
	return float64(adv) / 64 * m.scale
}

// Face returns the underlying font face
func (m *FaceMeasurer) Face() font.Face {
	return m.face
}

// Scale returns the drawing scale
func (m *FaceMeasurer) Scale() float64 {
	return m.scale
}

// Ascent returns the distance from the top of a line to its baseline
func (m *FaceMeasurer) Ascent() float64 {
	return float64(m.face.Metrics().Ascent) / 64 * m.scale
}

// LineHeight returns the recommended distance between two baselines
func (m *FaceMeasurer) LineHeight() float64 {
	return float64(m.face.Metrics().Height) / 64 * m.scale
}
