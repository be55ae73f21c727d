// Package surface is the platform window of the lyrics overlay, built on
// ebiten. The window runs on the main goroutine and is opened the first
// time the host asks for it.
package surface

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/genricoloni/lyrical/internal/domain"
	"github.com/genricoloni/lyrical/internal/geometry"
	"github.com/genricoloni/lyrical/internal/karaoke"
	"github.com/genricoloni/lyrical/internal/metrics"
	"github.com/genricoloni/lyrical/internal/overlay"
	"go.uber.org/zap"
)

// ErrSurfaceExists is returned when a second window is requested.
// The platform loop can only be started once per process.
var ErrSurfaceExists = errors.New("overlay window already created")

// Factory implements domain.SurfaceFactory and owns the main-thread loop
type Factory struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
	faces   Faces

	requests chan *Window
	created  atomic.Bool
}

// NewFactory creates the window factory drawing with faces
func NewFactory(logger *zap.Logger, met *metrics.Metrics, faces Faces) *Factory {
	return &Factory{
		logger:   logger,
		metrics:  met,
		faces:    faces,
		requests: make(chan *Window, 1),
	}
}

// Create prepares the window at bounds. It is opened by Run.
func (f *Factory) Create(bounds geometry.Rect, owner domain.SurfaceOwner) (domain.Surface, error) {
	if !f.created.CompareAndSwap(false, true) {
		return nil, ErrSurfaceExists
	}

	renderer := karaoke.NewRenderer(f.logger, f.faces.Lyric)
	ov := overlay.New(f.logger, owner, renderer, f.metrics)
	w := newWindow(f.logger, owner, ov, f.faces, bounds)

	f.requests <- w
	return w, nil
}

// Run blocks until ctx is done. It must be called from the main goroutine.
// When the host asks for a window, the platform loop runs here until ctx
// ends or the loop fails.
func (f *Factory) Run(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	case w := <-f.requests:
		stop := context.AfterFunc(ctx, w.terminate)
		defer stop()

		f.logger.Info("Opening overlay window")
		err := w.run()
		w.owner.SurfaceClosed()
		if err != nil {
			f.logger.Error("Overlay window stopped with an error", zap.Error(err))
		}
		return err
	}
}
