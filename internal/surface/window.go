package surface

import (
	"sync"
	"time"

	"github.com/genricoloni/lyrical/internal/domain"
	"github.com/genricoloni/lyrical/internal/geometry"
	"github.com/genricoloni/lyrical/internal/karaoke"
	"github.com/genricoloni/lyrical/internal/overlay"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"
)

// Window is the ebiten game showing the overlay. Its domain.Surface methods
// may be called from any goroutine; they are queued and applied on the
// next Update.
type Window struct {
	logger   *zap.Logger
	owner    domain.SurfaceOwner
	overlay  *overlay.Overlay
	faces    Faces
	animator *karaoke.Animator

	mu          sync.Mutex
	commands    []func()
	terminating bool

	// fields below are only touched by the ebiten loop
	initial     geometry.Rect
	observed    geometry.Size
	locked      bool
	passthrough bool
	frame       karaoke.Frame
	reveal      float64
	offset      float64
	lastTick    time.Time
}

func newWindow(logger *zap.Logger, owner domain.SurfaceOwner, ov *overlay.Overlay, faces Faces, bounds geometry.Rect) *Window {
	return &Window{
		logger:   logger,
		owner:    owner,
		overlay:  ov,
		faces:    faces,
		animator: karaoke.NewAnimator(),
		initial:  bounds,
		observed: bounds.Size(),
		reveal:   karaoke.Unrevealed,
	}
}

// SetBounds moves and resizes the window
func (w *Window) SetBounds(r geometry.Rect) {
	w.enqueue(func() {
		ebiten.SetWindowPosition(r.X, r.Y)
		ebiten.SetWindowSize(r.Width, r.Height)
		w.observed = r.Size()
	})
}

// SetIgnoreMouseEvents toggles pointer pass-through. The lock button keeps
// receiving the pointer so that it can unlock the overlay.
func (w *Window) SetIgnoreMouseEvents(ignore bool) {
	w.enqueue(func() {
		w.locked = ignore
	})
}

// Show restores the window
func (w *Window) Show() {
	w.enqueue(func() {
		ebiten.RestoreWindow()
		w.owner.SurfaceVisibility(true)
	})
}

// Hide minimizes the window. The platform loop keeps running.
func (w *Window) Hide() {
	w.enqueue(func() {
		ebiten.MinimizeWindow()
		w.owner.SurfaceVisibility(false)
	})
}

// Send hands a notification to the overlay
func (w *Window) Send(n domain.Notification) {
	w.overlay.Notify(n)
}

func (w *Window) enqueue(cmd func()) {
	w.mu.Lock()
	w.commands = append(w.commands, cmd)
	w.mu.Unlock()
}

func (w *Window) drain() ([]func(), bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	cmds := w.commands
	w.commands = nil
	return cmds, w.terminating
}

func (w *Window) terminate() {
	w.mu.Lock()
	w.terminating = true
	w.mu.Unlock()
}

// run opens the window and blocks until the loop ends
func (w *Window) run() error {
	b := w.initial
	ebiten.SetWindowTitle("lyrical")
	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowFloating(true)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(geometry.MinWidth, geometry.MinHeight, -1, -1)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetWindowSize(b.Width, b.Height)
	ebiten.SetWindowPosition(b.X, b.Y)

	w.overlay.Init()

	return ebiten.RunGameWithOptions(w, &ebiten.RunGameOptions{
		ScreenTransparent: true,
		SkipTaskbar:       true,
		InitUnfocused:     true,
	})
}

// Update implements ebiten.Game
func (w *Window) Update() error {
	// cursor positions are relative to where the window was this frame
	origin := pointFrom(ebiten.WindowPosition())

	cmds, terminating := w.drain()
	for _, cmd := range cmds {
		cmd()
	}
	if terminating {
		return ebiten.Termination
	}

	if ebiten.IsWindowBeingClosed() {
		// closing only hides; the window lives as long as the process
		w.owner.Request(domain.HideOverlay{})
	}

	w.observeSize()
	cursor := pointFrom(ebiten.CursorPosition())
	w.updatePassthrough(cursor)
	w.handlePointer(origin, cursor)

	w.overlay.Update()
	w.animate()
	return nil
}

// observeSize reports size changes the platform made on its own
func (w *Window) observeSize() {
	width, height := ebiten.WindowSize()
	w.noteSize(geometry.Size{Width: width, Height: height})
}

func (w *Window) noteSize(size geometry.Size) {
	if size == w.observed {
		return
	}
	w.observed = size
	w.owner.SurfaceResized(size)
}

func (w *Window) updatePassthrough(cursor geometry.Point) {
	want := passthroughFor(w.locked, w.observed, cursor)
	if want == w.passthrough {
		return
	}
	w.passthrough = want
	ebiten.SetWindowMousePassthrough(want)
}

// passthroughFor reports whether the pointer should fall through the window.
// A locked window lets everything through except the lock button.
func passthroughFor(locked bool, size geometry.Size, cursor geometry.Point) bool {
	return locked && overlay.HitTest(size, cursor).Kind != overlay.TargetLock
}

func pointFrom(x, y int) geometry.Point {
	return geometry.Point{X: x, Y: y}
}

func (w *Window) handlePointer(origin, local geometry.Point) {
	screen := geometry.Point{X: origin.X + local.X, Y: origin.Y + local.Y}

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		w.overlay.PointerDown(overlay.HitTest(w.observed, local), screen)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		w.overlay.PointerUp()
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		w.overlay.PointerMove(screen)
	}
}

func (w *Window) animate() {
	now := time.Now()
	var dt time.Duration
	if !w.lastTick.IsZero() {
		dt = now.Sub(w.lastTick)
	}
	w.lastTick = now

	frame := w.overlay.View().Frame
	if !sameFrame(frame, w.frame) {
		w.animator.Set(frame)
		w.frame = frame
	}
	w.reveal, w.offset = w.animator.Advance(dt)
}

func sameFrame(a, b karaoke.Frame) bool {
	return a.Text == b.Text &&
		a.Reveal == b.Reveal &&
		a.Offset == b.Offset &&
		a.Transition == b.Transition &&
		a.Karaoke == b.Karaoke
}

// Layout implements ebiten.Game
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	w.overlay.SetContainerWidth(float64(outsideWidth - 2*padding))
	return outsideWidth, outsideHeight
}
