// Package engine feeds desktop player events into the host and keeps the
// tray icon in sync with the album art
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/genricoloni/lyrical/internal/domain"
	"go.uber.org/zap"
)

const (
	// Source tags pushes made by the engine
	Source = "mpris"

	defaultDebounce = 500 * time.Millisecond
)

// SongSink receives song pushes
type SongSink interface {
	Push(source string, patch domain.SongPatch)
}

// IconSink shows a tray icon
type IconSink interface {
	SetIcon(png []byte)
}

// Engine forwards every monitor event to the sink at once. Icon updates are
// debounced so that skipping through tracks does not download every cover.
type Engine struct {
	logger    *zap.Logger
	monitor   domain.Monitor
	fetcher   domain.Fetcher
	processor domain.IconProcessor
	sink      SongSink
	icons     IconSink
	debounce  time.Duration

	wg     sync.WaitGroup
	cancel context.CancelFunc

	// loop-owned
	track     string
	artURL    string
	artwork   []byte
	iconState iconKey
}

// iconKey identifies the icon currently shown
type iconKey struct {
	artURL string
	dimmed bool
}

// NewEngine creates a new orchestration engine
func NewEngine(
	logger *zap.Logger,
	mon domain.Monitor,
	fetch domain.Fetcher,
	proc domain.IconProcessor,
	sink SongSink,
	icons IconSink,
) *Engine {
	return &Engine{
		logger:    logger,
		monitor:   mon,
		fetcher:   fetch,
		processor: proc,
		sink:      sink,
		icons:     icons,
		debounce:  defaultDebounce,
	}
}

// Start shows the default icon and launches the event loop.
// It returns immediately (non-blocking).
func (e *Engine) Start(_ context.Context) error {
	e.logger.Info("Engine starting...")
	e.showDefault()

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel

	e.wg.Add(1)
	go e.runLoop(ctx)
	return nil
}

// Stop ends the event loop
func (e *Engine) Stop(_ context.Context) error {
	e.logger.Info("Engine stopping...")
	if e.cancel != nil {
		e.cancel()
	}
	e.wg.Wait()
	return nil
}

func (e *Engine) runLoop(ctx context.Context) {
	defer e.wg.Done()
	events := e.monitor.Events()

	timer := time.NewTimer(e.debounce)
	timer.Stop()

	var pendingMeta *domain.MediaMetadata

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			e.logger.Info("Engine loop stopped")
			return

		case meta, ok := <-events:
			if !ok {
				e.logger.Info("Monitor events channel closed")
				return
			}
			e.sink.Push(Source, e.patch(meta))

			pendingMeta = &meta
			timer.Reset(e.debounce)

		case <-timer.C:
			if pendingMeta != nil {
				e.updateIcon(ctx, *pendingMeta)
				pendingMeta = nil
			}
		}
	}
}

// patch converts meta into a push. A new track clears the lyric fields,
// since MPRIS carries no lyrics and the old line would be wrong.
func (e *Engine) patch(meta domain.MediaMetadata) domain.SongPatch {
	p := domain.PatchFromMetadata(meta)

	track := meta.Title + "\x00" + meta.Artist
	if track != e.track {
		e.track = track
		empty := ""
		p.LyricText = &empty
		p.LyricTrans = &empty
		p.HasTimings = true

		e.logger.Debug("Track changed",
			zap.String("title", meta.Title),
			zap.String("artist", meta.Artist))
	}
	return p
}

// updateIcon shows the cover of meta, greyed out unless playing
func (e *Engine) updateIcon(ctx context.Context, meta domain.MediaMetadata) {
	key := iconKey{artURL: meta.ArtUrl, dimmed: meta.Status != domain.StatusPlaying}
	if key == e.iconState {
		return
	}

	if meta.ArtUrl == "" {
		e.logger.Debug("No artwork URL found", zap.String("track", meta.Title))
		e.artURL, e.artwork = "", nil
		e.showDefault()
		e.iconState = key
		return
	}

	if meta.ArtUrl != e.artURL {
		data, err := e.fetcher.Fetch(ctx, meta.ArtUrl)
		if err != nil {
			e.logger.Warn("Failed to fetch artwork", zap.String("url", meta.ArtUrl), zap.Error(err))
			return
		}
		e.artURL, e.artwork = meta.ArtUrl, data
	}

	icon, err := e.processor.Icon(ctx, e.artwork, key.dimmed)
	if err != nil {
		e.logger.Warn("Failed to generate icon", zap.Error(err))
		return
	}
	e.icons.SetIcon(icon)
	e.iconState = key

	e.logger.Info("Tray icon updated",
		zap.String("track", meta.Title),
		zap.String("album", meta.Album),
		zap.Bool("dimmed", key.dimmed))
}

func (e *Engine) showDefault() {
	icon, err := e.processor.Default()
	if err != nil {
		e.logger.Warn("Failed to generate default icon", zap.Error(err))
		return
	}
	e.icons.SetIcon(icon)
}
