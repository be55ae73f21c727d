// Package host owns the authoritative overlay state: geometry, lock and
// translation flags and the latest song snapshot. All mutation happens on a
// single loop goroutine fed by an inbox channel.
package host

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/genricoloni/lyrical/internal/domain"
	"github.com/genricoloni/lyrical/internal/geometry"
	"github.com/genricoloni/lyrical/internal/metrics"
	"github.com/genricoloni/lyrical/internal/settings"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	defaultGuardDelay = 100 * time.Millisecond
	controlTimeout    = 2 * time.Second
	inboxSize         = 64
)

// StateStore loads and saves the persisted part of the state
type StateStore interface {
	Load() (settings.State, error)
	Save(settings.State) error
}

// Options configures a Host
type Options struct {
	// GuardDelay is how long a self-initiated resize suppresses drift correction
	GuardDelay time.Duration
	// ShowOnStart creates and shows the surface when the loop starts
	ShowOnStart bool
	// DefaultSize is used when no saved bounds exist
	DefaultSize geometry.Size
}

// Host is the controlling side of the overlay
type Host struct {
	logger     *zap.Logger
	display    domain.Display
	factory    domain.SurfaceFactory
	controller domain.PlaybackController
	store      StateStore
	metrics    *metrics.Metrics
	opts       Options

	observersMu sync.Mutex
	observers   []domain.StateObserver

	inbox   chan any
	done    chan struct{}
	stopped chan struct{}
	cancel  context.CancelFunc
	ctx     context.Context
	calls   sync.WaitGroup

	playerMu    sync.Mutex
	playerQueue []func(ctx context.Context)
	playerBusy  bool

	// after schedules f after d; replaced in tests
	after func(d time.Duration, f func())

	state    State
	surface  domain.Surface
	snapshot atomic.Pointer[domain.HostSnapshot]
}

// New creates a host. factory may be nil when running without an overlay surface.
func New(
	logger *zap.Logger,
	display domain.Display,
	factory domain.SurfaceFactory,
	controller domain.PlaybackController,
	store StateStore,
	met *metrics.Metrics,
	opts Options,
) *Host {
	if opts.GuardDelay <= 0 {
		opts.GuardDelay = defaultGuardDelay
	}
	if opts.DefaultSize.Width == 0 || opts.DefaultSize.Height == 0 {
		opts.DefaultSize = geometry.Size{Width: 800, Height: 100}
	}

	saved, err := store.Load()
	if err != nil {
		logger.Warn("Could not load saved overlay state, using defaults", zap.Error(err))
	}

	h := &Host{
		logger:     logger,
		display:    display,
		factory:    factory,
		controller: controller,
		store:      store,
		metrics:    met,
		opts:       opts,
		inbox:      make(chan any, inboxSize),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
		ctx:        context.Background(),
		after: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		state: newState(saved),
	}
	h.publish()
	return h
}

// Subscribe registers an observer called after every state mutation.
// Observers run on the host loop and must not block.
func (h *Host) Subscribe(o domain.StateObserver) {
	h.observersMu.Lock()
	h.observers = append(h.observers, o)
	h.observersMu.Unlock()
	o.StateChanged(h.Snapshot())
}

// Snapshot returns the latest published state
func (h *Host) Snapshot() domain.HostSnapshot {
	return *h.snapshot.Load()
}

// Start launches the host loop in a goroutine. It returns immediately.
func (h *Host) Start(_ context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	h.ctx = ctx
	h.cancel = cancel

	h.logger.Info("Host starting",
		zap.Int("x", h.state.Bounds.X),
		zap.Int("y", h.state.Bounds.Y),
		zap.Int("width", h.state.Bounds.Width),
		zap.Int("height", h.state.Bounds.Height))

	if h.opts.ShowOnStart {
		h.inbox <- showOverlayMsg{}
	}

	go h.run(ctx)
	return nil
}

// Stop ends the loop, waits for in-flight player commands and saves the state
func (h *Host) Stop(ctx context.Context) error {
	h.logger.Info("Host stopping...")
	if h.cancel != nil {
		h.cancel()
		select {
		case <-h.stopped:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	h.calls.Wait()

	var err error
	if saveErr := h.store.Save(h.state.persisted()); saveErr != nil {
		err = multierr.Append(err, saveErr)
	}
	if h.surface != nil {
		h.surface.Hide()
	}
	return err
}

func (h *Host) run(ctx context.Context) {
	defer close(h.stopped)
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("Host loop stopped")
			return
		case msg := <-h.inbox:
			h.handle(msg)
		}
	}
}

// post enqueues msg for the loop. Messages posted after shutdown are dropped.
func (h *Host) post(msg any) {
	select {
	case h.inbox <- msg:
	case <-h.done:
		h.logger.Debug("Host stopped, message dropped")
	}
}

type pushMsg struct {
	patch  domain.SongPatch
	source string
}

type requestMsg struct {
	req domain.Request
}

type resizedMsg struct {
	size geometry.Size
}

type visibilityMsg struct {
	visible bool
}

type guardExpiredMsg struct {
	gen uint64
}

type closedMsg struct{}

type showOverlayMsg struct{}

type toggleOverlayMsg struct{}

type toggleTransMsg struct{}

type toggleLockMsg struct{}

type showMainMsg struct{}

type quitMsg struct{}

// Push merges a song state push from source
func (h *Host) Push(source string, patch domain.SongPatch) {
	h.post(pushMsg{patch: patch, source: source})
}

// Request implements domain.Requester for the overlay
func (h *Host) Request(req domain.Request) {
	h.post(requestMsg{req: req})
}

// SurfaceResized implements domain.SurfaceEvents
func (h *Host) SurfaceResized(size geometry.Size) {
	h.post(resizedMsg{size: size})
}

// SurfaceVisibility implements domain.SurfaceEvents
func (h *Host) SurfaceVisibility(visible bool) {
	h.post(visibilityMsg{visible: visible})
}

// SurfaceClosed implements domain.SurfaceEvents
func (h *Host) SurfaceClosed() {
	h.post(closedMsg{})
}

// ShowOverlay creates the surface if needed and shows it
func (h *Host) ShowOverlay() {
	h.post(showOverlayMsg{})
}

// ToggleOverlay flips overlay visibility
func (h *Host) ToggleOverlay() {
	h.post(toggleOverlayMsg{})
}

// ToggleTranslation flips translation visibility
func (h *Host) ToggleTranslation() {
	h.post(toggleTransMsg{})
}

// ToggleLock flips the lock state
func (h *Host) ToggleLock() {
	h.post(toggleLockMsg{})
}

// ShowMain raises the player window
func (h *Host) ShowMain() {
	h.post(showMainMsg{})
}

// BeginQuit marks shutdown as in progress; later song pushes are ignored
func (h *Host) BeginQuit() {
	h.post(quitMsg{})
}
