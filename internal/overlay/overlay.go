// Package overlay is the render-side actor of the lyrics window. It turns
// host notifications into karaoke frames and pointer gestures into host
// requests. It never changes window geometry itself.
package overlay

import (
	"sync"
	"time"

	"github.com/genricoloni/lyrical/internal/domain"
	"github.com/genricoloni/lyrical/internal/geometry"
	"github.com/genricoloni/lyrical/internal/karaoke"
	"github.com/genricoloni/lyrical/internal/metrics"
	"go.uber.org/zap"
)

const (
	// backlogWarning is the queue length that triggers a slow-loop warning
	backlogWarning = 256

	// PausedOpacity dims the overlay while playback is paused
	PausedOpacity = 0.3
)

// Phase is the gesture state of the overlay
type Phase int

const (
	Idle Phase = iota
	// AwaitingBounds means a gesture started and the host's bounds are in flight
	AwaitingBounds
	Dragging
	Resizing
)

func (p Phase) String() string {
	switch p {
	case AwaitingBounds:
		return "awaiting-bounds"
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	}
	return "idle"
}

// View is everything the surface needs to draw one frame
type View struct {
	Title   string
	Frame   karaoke.Frame
	Playing bool
	Locked  bool
	Opacity float64
	Phase   Phase
}

// Overlay is driven from a single loop: Notify may be called from any
// goroutine, everything else only from the loop that calls Update.
type Overlay struct {
	logger    *zap.Logger
	requester domain.Requester
	renderer  *karaoke.Renderer
	metrics   *metrics.Metrics

	// inbox is unbounded so that no host notification is lost
	inboxMu         sync.Mutex
	inbox           []domain.Notification
	lastBacklogWarning time.Time

	title   string
	playing bool
	locked  bool
	screen  geometry.Size

	seq         uint64
	phase       Phase
	target      Target
	startPtr    geometry.Point
	lastPtr     geometry.Point
	startBounds geometry.Rect
}

// New creates an overlay sending its requests to requester
func New(logger *zap.Logger, requester domain.Requester, renderer *karaoke.Renderer, met *metrics.Metrics) *Overlay {
	return &Overlay{
		logger:    logger,
		requester: requester,
		renderer:  renderer,
		metrics:   met,
		playing:   true,
	}
}

// Init asks the host for the values the overlay caches between gestures
func (o *Overlay) Init() {
	o.seq++
	o.requester.Request(domain.ScreenSizeQuery{Seq: o.seq})
}

// Notify queues a host notification. It never blocks and never drops;
// notifications are applied in send order by the next Update.
func (o *Overlay) Notify(n domain.Notification) {
	o.inboxMu.Lock()
	defer o.inboxMu.Unlock()

	o.inbox = append(o.inbox, n)
	if len(o.inbox) >= backlogWarning {
		o.logBacklogWarning(len(o.inbox))
	}
}

// logBacklogWarning must be called with inboxMu held
func (o *Overlay) logBacklogWarning(n int) {
	const warningInterval = 5 * time.Second
	now := time.Now()
	if now.Sub(o.lastBacklogWarning) >= warningInterval {
		o.logger.Warn("Overlay loop is falling behind", zap.Int("queued", n))
		o.lastBacklogWarning = now
	}
}

func (o *Overlay) drain() []domain.Notification {
	o.inboxMu.Lock()
	defer o.inboxMu.Unlock()
	queued := o.inbox
	o.inbox = nil
	return queued
}

// SetContainerWidth updates the width the lyric line is centred in
func (o *Overlay) SetContainerWidth(w float64) {
	o.renderer.SetContainerWidth(w)
}

// Update commits a pending line change from the previous update, then
// applies all queued notifications
func (o *Overlay) Update() {
	o.renderer.Tick()

	queued := o.drain()
	o.metrics.ObserveOverlayBacklog(len(queued))
	for _, n := range queued {
		o.apply(n)
	}
}

func (o *Overlay) apply(n domain.Notification) {
	switch m := n.(type) {
	case domain.SongChanged:
		o.title = m.Title
	case domain.LyricChanged:
		o.renderer.Render(m.Text, m.Trans, m.Timings)
	case domain.PlayStatusChanged:
		o.playing = m.Playing
	case domain.LockChanged:
		o.locked = m.Locked
		if m.Locked && o.phase != Idle {
			o.endGesture()
		}
	case domain.BoundsReply:
		o.startGesture(m)
	case domain.ScreenSizeReply:
		o.screen = m.Size
	case domain.TranslationReply:
		// translation text is already stripped by the host
	default:
		o.logger.Warn("Unknown notification", zap.Any("notification", n))
	}
}

// View returns the drawing state of the current frame
func (o *Overlay) View() View {
	opacity := 1.0
	if !o.playing {
		opacity = PausedOpacity
	}
	return View{
		Title:   o.title,
		Frame:   o.renderer.Frame(),
		Playing: o.playing,
		Locked:  o.locked,
		Opacity: opacity,
		Phase:   o.phase,
	}
}

// Phase returns the gesture state
func (o *Overlay) Phase() Phase {
	return o.phase
}
