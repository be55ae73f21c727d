package surface

import (
	"errors"
	"fmt"
	"os"

	"github.com/genricoloni/lyrical/internal/karaoke"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const (
	lyricFontSize = 26
	smallFontSize = 13
)

// cjkFonts are tried in order when no font is configured
var cjkFonts = []string{
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/google-noto-cjk/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/wqy/wqy-microhei.ttc",
	"/usr/share/fonts/wenquanyi/wqy-microhei/wqy-microhei.ttc",
	"/System/Library/Fonts/PingFang.ttc",
	`C:\Windows\Fonts\msyh.ttc`,
}

// Faces are the measurers the window draws with. Measuring and drawing share
// the same face so that the highlight matches the glyphs.
type Faces struct {
	Lyric *karaoke.FaceMeasurer
	Small *karaoke.FaceMeasurer
}

// LoadFaces loads the font at path, or the first CJK font found when path is
// empty. Without any usable file it falls back to the built-in Go font.
func LoadFaces(logger *zap.Logger, path string) Faces {
	candidates := cjkFonts
	if path != "" {
		candidates = []string{path}
	}

	for _, p := range candidates {
		data, err := os.ReadFile(p)
		if err != nil {
			if path != "" {
				logger.Warn("Configured font unreadable", zap.String("path", p), zap.Error(err))
			}
			continue
		}
		faces, err := facesFrom(data)
		if err != nil {
			logger.Warn("Font file rejected", zap.String("path", p), zap.Error(err))
			continue
		}
		logger.Info("Lyric font loaded", zap.String("path", p))
		return faces
	}

	faces, err := facesFrom(goregular.TTF)
	if err != nil {
		// goregular is compiled in; this only happens on a broken build
		logger.Error("Built-in font unusable, using bitmap font", zap.Error(err))
		return Faces{
			Lyric: karaoke.NewFaceMeasurer(nil, 2),
			Small: karaoke.NewFaceMeasurer(nil, 1),
		}
	}
	logger.Info("No CJK font found, using the built-in font")
	return faces
}

// facesFrom builds both faces from TTF, OTF or TTC data
func facesFrom(data []byte) (Faces, error) {
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return Faces{}, fmt.Errorf("failed to parse font: %w", err)
	}
	if coll.NumFonts() == 0 {
		return Faces{}, errors.New("font collection is empty")
	}
	f, err := coll.Font(0)
	if err != nil {
		return Faces{}, fmt.Errorf("failed to read font: %w", err)
	}

	lyric, err := newFace(f, lyricFontSize)
	if err != nil {
		return Faces{}, err
	}
	small, err := newFace(f, smallFontSize)
	if err != nil {
		return Faces{}, err
	}
	return Faces{
		Lyric: karaoke.NewFaceMeasurer(lyric, 1),
		Small: karaoke.NewFaceMeasurer(small, 1),
	}, nil
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %vpt face: %w", size, err)
	}
	return face, nil
}
