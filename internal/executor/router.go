// Package executor forwards playback commands to the player feeding the overlay
package executor

import (
	"context"
	"fmt"
	"sync"

	"github.com/genricoloni/lyrical/internal/domain"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// PlayerSelector reports the MPRIS player that is currently followed
type PlayerSelector interface {
	ActivePlayer() string
}

// SongSink receives song pushes tagged with their source
type SongSink interface {
	Push(source string, patch domain.SongPatch)
}

// Router sends playback commands to the controller of the source that
// pushed song state last. Until a known source has pushed, the fallback
// source is used.
type Router struct {
	logger   *zap.Logger
	fallback string

	mu          sync.RWMutex
	controllers map[string]domain.PlaybackController
	last        string
}

// NewRouter creates an empty router
func NewRouter(logger *zap.Logger, fallback string) *Router {
	return &Router{
		logger:      logger,
		fallback:    fallback,
		controllers: make(map[string]domain.PlaybackController),
	}
}

// Register sets the controller for source. A nil controller removes it.
func (r *Router) Register(source string, c domain.PlaybackController) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c == nil {
		delete(r.controllers, source)
		return
	}
	r.controllers[source] = c
}

// Track wraps sink so that every push updates the routing source
func (r *Router) Track(sink SongSink) SongSink {
	return trackingSink{router: r, sink: sink}
}

// Source returns the source commands currently go to
func (r *Router) Source() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.controllers[r.last]; ok {
		return r.last
	}
	return r.fallback
}

// Control forwards action to the current source. If that fails the fallback
// source is tried and both errors are reported.
func (r *Router) Control(ctx context.Context, action domain.Action) error {
	if !action.Allowed() {
		return fmt.Errorf("%w: %s", domain.ErrActionNotAllowed, action)
	}
	return r.each(func(c domain.PlaybackController) error {
		return c.Control(ctx, action)
	})
}

// Raise raises the player of the current source, falling back like Control
func (r *Router) Raise(ctx context.Context) error {
	return r.each(func(c domain.PlaybackController) error {
		return c.Raise(ctx)
	})
}

func (r *Router) each(call func(domain.PlaybackController) error) error {
	source := r.Source()
	candidates := []string{source}
	if source != r.fallback {
		candidates = append(candidates, r.fallback)
	}

	var errs error
	for _, s := range candidates {
		r.mu.RLock()
		c, ok := r.controllers[s]
		r.mu.RUnlock()
		if !ok {
			continue
		}
		err := call(c)
		if err == nil {
			return nil
		}
		r.logger.Debug("Player controller failed", zap.String("source", s), zap.Error(err))
		errs = multierr.Append(errs, fmt.Errorf("%s: %w", s, err))
	}
	if errs == nil {
		return domain.ErrNoPlayer
	}
	return errs
}

func (r *Router) observe(source string) {
	r.mu.Lock()
	r.last = source
	r.mu.Unlock()
}

type trackingSink struct {
	router *Router
	sink   SongSink
}

func (t trackingSink) Push(source string, patch domain.SongPatch) {
	t.router.observe(source)
	t.sink.Push(source, patch)
}
