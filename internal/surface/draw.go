package surface

import (
	"image"
	"image/color"

	"github.com/genricoloni/lyrical/internal/geometry"
	"github.com/genricoloni/lyrical/internal/karaoke"
	"github.com/genricoloni/lyrical/internal/overlay"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
)

const (
	padding = 12
	// translationGap separates the lyric line from its translation
	translationGap = 4
)

var (
	backgroundColor = color.NRGBA{R: 16, G: 16, B: 24, A: 150}
	lockedColor     = color.NRGBA{R: 16, G: 16, B: 24, A: 40}
	sungColor       = color.NRGBA{R: 255, G: 196, B: 64, A: 255}
	unsungColor     = color.NRGBA{R: 235, G: 235, B: 235, A: 255}
	dimColor        = color.NRGBA{R: 170, G: 170, B: 170, A: 255}
	buttonColor     = color.NRGBA{R: 255, G: 255, B: 255, A: 40}
)

// lineLayout is where the lyric line and its translation go in the window
type lineLayout struct {
	X, Baseline   float64
	TextWidth     float64
	Sung          float64
	TransX        float64
	TransBaseline float64
}

// layoutLine places frame in a window of the given size. offset and reveal
// are the animated values of the frame.
func layoutLine(size geometry.Size, frame karaoke.Frame, faces Faces, offset, reveal float64) lineLayout {
	textWidth := frame.TextWidth
	if !frame.Karaoke {
		textWidth = faces.Lyric.Measure(frame.Text)
	}

	bottom := float64(size.Height) - padding
	baseline := bottom
	if frame.Translation != "" {
		baseline = bottom - faces.Small.LineHeight() - translationGap
	}

	l := lineLayout{
		X:         (float64(size.Width)-textWidth)/2 + offset,
		Baseline:  baseline,
		TextWidth: textWidth,
	}
	if frame.Karaoke {
		l.Sung = textWidth * (1 - reveal/100)
	}
	if frame.Translation != "" {
		l.TransX = (float64(size.Width) - faces.Small.Measure(frame.Translation)) / 2
		l.TransBaseline = bottom
	}
	return l
}

// Draw implements ebiten.Game
func (w *Window) Draw(screen *ebiten.Image) {
	v := w.overlay.View()
	bounds := screen.Bounds()
	size := geometry.Size{Width: bounds.Dx(), Height: bounds.Dy()}

	if v.Locked {
		screen.Fill(fade(lockedColor, v.Opacity))
	} else {
		screen.Fill(fade(backgroundColor, v.Opacity))
	}
	w.drawToolbar(screen, size, v)

	if v.Title != "" && !v.Locked {
		top := float64(overlay.EdgeSize + overlay.ToolbarHeight)
		drawText(screen, v.Title, padding, top+w.faces.Small.Ascent(), w.faces.Small, fade(dimColor, v.Opacity))
	}

	w.drawLine(screen, size, v)
}

// drawToolbar draws the buttons. A locked overlay only shows the lock button.
func (w *Window) drawToolbar(screen *ebiten.Image, size geometry.Size, v overlay.View) {
	for _, b := range overlay.Toolbar(size) {
		if v.Locked && b.Kind != overlay.TargetLock {
			continue
		}
		r := image.Rect(b.Bounds.X+2, b.Bounds.Y+2, b.Bounds.X+b.Bounds.Width-2, b.Bounds.Y+b.Bounds.Height-2)
		screen.SubImage(r).(*ebiten.Image).Fill(fade(buttonColor, v.Opacity))

		label := buttonLabel(b.Kind, v)
		x := float64(b.Bounds.X) + (float64(b.Bounds.Width)-w.faces.Small.Measure(label))/2
		y := float64(b.Bounds.Y) + (float64(b.Bounds.Height)+w.faces.Small.Ascent())/2
		drawText(screen, label, x, y, w.faces.Small, fade(unsungColor, v.Opacity))
	}
}

func buttonLabel(kind overlay.TargetKind, v overlay.View) string {
	switch kind {
	case overlay.TargetShowMain:
		return "="
	case overlay.TargetPrev:
		return "<<"
	case overlay.TargetPlayPause:
		if v.Playing {
			return "||"
		}
		return ">"
	case overlay.TargetNext:
		return ">>"
	case overlay.TargetLock:
		if v.Locked {
			return "U"
		}
		return "L"
	case overlay.TargetClose:
		return "x"
	}
	return ""
}

// drawLine draws the lyric line with its sung part highlighted, and the
// translation below it
func (w *Window) drawLine(screen *ebiten.Image, size geometry.Size, v overlay.View) {
	frame := v.Frame
	l := layoutLine(size, frame, w.faces, w.offset, w.reveal)

	drawText(screen, frame.Text, l.X, l.Baseline, w.faces.Lyric, fade(unsungColor, v.Opacity))
	if l.Sung > 0 {
		clip := image.Rect(int(l.X), 0, int(l.X+l.Sung+0.5), size.Height)
		dst := screen.SubImage(clip).(*ebiten.Image)
		drawText(dst, frame.Text, l.X, l.Baseline, w.faces.Lyric, fade(sungColor, v.Opacity))
	}

	if frame.Translation != "" {
		drawText(screen, frame.Translation, l.TransX, l.TransBaseline, w.faces.Small, fade(dimColor, v.Opacity))
	}
}

// drawText draws s with its baseline at y
func drawText(dst *ebiten.Image, s string, x, y float64, m *karaoke.FaceMeasurer, c color.Color) {
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(m.Scale(), m.Scale())
	opts.GeoM.Translate(x, y)
	opts.ColorScale.ScaleWithColor(c)
	text.DrawWithOptions(dst, s, m.Face(), opts)
}

func fade(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = uint8(float64(c.A) * opacity)
	return c
}
