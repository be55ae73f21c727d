// Package karaoke turns word-level timing data into reveal instructions for
// a single lyric line.
package karaoke

import (
	"math"
	"strconv"
	"strings"

	"github.com/genricoloni/lyrical/internal/domain"
	"go.uber.org/zap"
)

const (
	// Unrevealed is the highlight coordinate of a line with no progress
	Unrevealed = 100.0
	// Revealed is the highlight coordinate of a fully sung line
	Revealed = 0.0
)

// Segment is one measured piece of the rendered line
type Segment struct {
	Content string
	Width   float64
}

// Frame is the set of visual instructions for the current line
type Frame struct {
	// Text is the line as drawn. With timings it is the concatenated segment
	// contents, so that TextWidth and the reveal match what is on screen.
	Text string
	// Segments is the per-timing layout; nil when no timings were given
	Segments []Segment
	// Translation is shown below the line
	Translation string
	// Karaoke is true when the highlight is active
	Karaoke bool
	// Reveal is the highlight coordinate in [Revealed, Unrevealed]
	Reveal float64
	// Offset is the horizontal translation applied to the line, in pixels
	Offset float64
	// Transition is true when Reveal and Offset should animate towards their new values
	Transition bool
	// TextWidth is the measured width of the whole line
	TextWidth float64
}

// RevealState is the renderer-local state between updates
type RevealState struct {
	Signature string
	Offset    float64
	Animating bool
}

// Renderer keeps the currently rendered line and produces a Frame per update.
// It is not safe for concurrent use; the overlay drives it from a single loop.
type Renderer struct {
	logger         *zap.Logger
	measurer       Measurer
	containerWidth float64

	layout []Segment
	state  RevealState
	frame  Frame

	// pending holds the timings of a line change waiting for the next Tick
	pending []domain.WordTiming
}

// NewRenderer creates a renderer measuring text with m
func NewRenderer(logger *zap.Logger, m Measurer) *Renderer {
	return &Renderer{
		logger:         logger,
		measurer:       m,
		containerWidth: 1,
		state:          RevealState{Animating: true},
	}
}

// SetContainerWidth updates the visible width used for centering
func (r *Renderer) SetContainerWidth(w float64) {
	if w <= 0 {
		w = 1
	}
	r.containerWidth = w
}

// State returns the current reveal state
func (r *Renderer) State() RevealState {
	return r.state
}

// Frame returns the last produced frame
func (r *Renderer) Frame() Frame {
	return r.frame
}

// Render computes the frame for line. Calling it repeatedly with the same
// arguments is harmless.
func (r *Renderer) Render(line, translation string, timings []domain.WordTiming) Frame {
	if len(timings) == 0 {
		r.layout = nil
		r.pending = nil
		r.state.Signature = ""
		r.state.Offset = 0
		r.frame = Frame{
			Text:        line,
			Translation: translation,
			Reveal:      Unrevealed,
			Transition:  r.state.Animating,
		}
		return r.frame
	}

	signature := markup(timings)
	if signature != r.state.Signature {
		return r.startLine(line, translation, signature, timings)
	}

	if r.pending != nil {
		// the line is still in its non-animated frame; the next Tick applies these
		r.pending = timings
		r.frame.Translation = translation
		return r.frame
	}

	percent := Progress(r.layout, timings)
	textWidth := totalWidth(r.layout)
	r.state.Animating = true
	r.state.Offset = CenterOffset(textWidth, r.containerWidth, percent)
	r.frame = Frame{
		Text:        r.frame.Text,
		Segments:    r.frame.Segments,
		Translation: translation,
		Karaoke:     true,
		Reveal:      RevealCoordinate(percent),
		Offset:      r.state.Offset,
		Transition:  true,
		TextWidth:   textWidth,
	}
	return r.frame
}

// startLine swaps in a new layout and emits the single non-animated frame
func (r *Renderer) startLine(line, translation, signature string, timings []domain.WordTiming) Frame {
	r.layout = r.measure(timings)
	r.state = RevealState{Signature: signature, Animating: false}
	r.pending = timings

	textWidth := totalWidth(r.layout)
	r.state.Offset = CenterOffset(textWidth, r.containerWidth, 0)

	segments := make([]Segment, len(r.layout))
	copy(segments, r.layout)

	r.frame = Frame{
		Text:        joined(segments),
		Segments:    segments,
		Translation: translation,
		Karaoke:     true,
		Reveal:      Unrevealed,
		Offset:      r.state.Offset,
		Transition:  false,
		TextWidth:   textWidth,
	}

	r.logger.Debug("Lyric line changed",
		zap.String("line", line),
		zap.Int("segments", len(segments)),
		zap.Float64("width", textWidth))

	return r.frame
}

// Tick completes a pending line change: animation is re-enabled and the real
// coordinate is applied. It reports false when nothing was pending.
func (r *Renderer) Tick() (Frame, bool) {
	if r.pending == nil {
		return r.frame, false
	}
	timings := r.pending
	r.pending = nil

	percent := Progress(r.layout, timings)
	r.state.Animating = true
	r.state.Offset = CenterOffset(r.frame.TextWidth, r.containerWidth, percent)
	r.frame.Reveal = RevealCoordinate(percent)
	r.frame.Offset = r.state.Offset
	r.frame.Transition = true
	return r.frame, true
}

func (r *Renderer) measure(timings []domain.WordTiming) []Segment {
	layout := make([]Segment, len(timings))
	for i, t := range timings {
		layout[i] = Segment{Content: t.Content, Width: r.measurer.Measure(t.Content)}
	}
	return layout
}

// Progress returns the width-weighted completion of a line in [0,1].
// A layout whose segment count differs from timings yields 0.
func Progress(layout []Segment, timings []domain.WordTiming) float64 {
	if len(layout) == 0 || len(layout) != len(timings) {
		return 0
	}
	lineWidth := totalWidth(layout)
	if lineWidth <= 0 {
		lineWidth = 1
	}
	percent := 0.0
	for i, seg := range layout {
		percent += seg.Width / lineWidth * timings[i].Percent
	}
	return clamp(percent, 0, 1)
}

// RevealCoordinate maps progress to the highlight coordinate.
// 0 progress gives Unrevealed, full progress gives Revealed.
func RevealCoordinate(percent float64) float64 {
	v := math.Max(0, (1-clamp(percent, 0, 1))*100)
	return math.Round(v*100) / 100
}

// CenterOffset returns the translation keeping the progress point centred in
// the container. It is 0 when the text fits.
func CenterOffset(textWidth, containerWidth, percent float64) float64 {
	if containerWidth <= 0 {
		containerWidth = 1
	}
	if textWidth <= containerWidth {
		return 0
	}
	startLeft := (containerWidth - textWidth) / 2
	return clamp(textWidth*(0.5-percent), startLeft, -startLeft)
}

func markup(timings []domain.WordTiming) string {
	var b strings.Builder
	for i, t := range timings {
		b.WriteString(strconv.Itoa(i))
		b.WriteByte(0x1f)
		b.WriteString(t.Content)
		b.WriteByte(0x1e)
	}
	return b.String()
}

func joined(layout []Segment) string {
	var b strings.Builder
	for _, s := range layout {
		b.WriteString(s.Content)
	}
	return b.String()
}

func totalWidth(layout []Segment) float64 {
	w := 0.0
	for _, s := range layout {
		w += s.Width
	}
	return w
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
