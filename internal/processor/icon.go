// Package processor builds tray icons from album artwork
package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // JPEG format support
	_ "image/png"  // PNG format support

	"github.com/disintegration/imaging"
	"github.com/genricoloni/lyrical/internal/domain"
	"go.uber.org/zap"
)

const (
	defaultBlurRadius = 2.0
	dimBrightness     = -35.0
)

var (
	defaultBackground = color.NRGBA{R: 40, G: 40, B: 56, A: 255}
	defaultAccent     = color.NRGBA{R: 255, G: 196, B: 64, A: 255}
)

// IconProcessor turns album art into a square tray icon: the cover is fitted
// over a blurred fill of itself, so covers that are not square keep their
// aspect ratio
type IconProcessor struct {
	logger     *zap.Logger
	size       int
	blurRadius float64
}

// NewIconProcessor creates a processor producing icons of cfg.GetIconSize() pixels
func NewIconProcessor(logger *zap.Logger, cfg domain.Config) *IconProcessor {
	return &IconProcessor{
		logger:     logger,
		size:       cfg.GetIconSize(),
		blurRadius: defaultBlurRadius,
	}
}

// Icon implements domain.IconProcessor
func (p *IconProcessor) Icon(ctx context.Context, imageData []byte, dimmed bool) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dy() == 0 || bounds.Dx() == 0 {
		return nil, fmt.Errorf("invalid image dimensions: %dx%d", bounds.Dx(), bounds.Dy())
	}

	background := imaging.Fill(img, p.size, p.size, imaging.Center, imaging.Lanczos)
	background = imaging.Blur(background, p.blurRadius)

	cover := imaging.Fit(img, p.size, p.size, imaging.Lanczos)
	offset := image.Pt((p.size-cover.Bounds().Dx())/2, (p.size-cover.Bounds().Dy())/2)
	result := imaging.Paste(background, cover, offset)

	if dimmed {
		result = imaging.AdjustBrightness(imaging.Grayscale(result), dimBrightness)
	}

	p.logger.Debug("Icon generated",
		zap.Int("sourceWidth", bounds.Dx()),
		zap.Int("sourceHeight", bounds.Dy()),
		zap.Bool("dimmed", dimmed))
	return encode(result)
}

// Default implements domain.IconProcessor
func (p *IconProcessor) Default() ([]byte, error) {
	icon := imaging.New(p.size, p.size, defaultBackground)
	inner := p.size / 2
	dot := imaging.New(inner, inner, defaultAccent)
	icon = imaging.Paste(icon, dot, image.Pt((p.size-inner)/2, (p.size-inner)/2))
	return encode(icon)
}

func encode(img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode icon: %w", err)
	}
	return buf.Bytes(), nil
}
