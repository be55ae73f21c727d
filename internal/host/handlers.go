package host

import (
	"context"

	"github.com/genricoloni/lyrical/internal/domain"
	"github.com/genricoloni/lyrical/internal/geometry"
	"go.uber.org/zap"
)

// handle dispatches one inbox message. It is only called from the loop
// (or directly by tests).
func (h *Host) handle(msg any) {
	switch m := msg.(type) {
	case pushMsg:
		h.handlePush(m)
	case requestMsg:
		h.handleRequest(m.req)
	case resizedMsg:
		h.handleResized(m.size)
	case visibilityMsg:
		h.state.OverlayVisible = m.visible
		h.publish()
	case closedMsg:
		h.logger.Info("Overlay surface closed")
		h.surface = nil
		h.state.OverlayVisible = false
		h.publish()
	case guardExpiredMsg:
		if m.gen == h.state.guardGen {
			h.state.selfResizing = false
		}
	case showOverlayMsg:
		h.showOverlay()
	case toggleOverlayMsg:
		if h.state.OverlayVisible && h.surface != nil {
			h.hideOverlay()
		} else {
			h.showOverlay()
		}
	case toggleTransMsg:
		h.state.ShowTranslation = !h.state.ShowTranslation
		h.logger.Info("Translation visibility changed", zap.Bool("visible", h.state.ShowTranslation))
		h.send(h.state.lyricNotification())
		h.publish()
	case toggleLockMsg:
		if !h.ensureSurface() {
			return
		}
		h.setLocked(!h.state.Locked)
	case showMainMsg:
		h.raise()
	case quitMsg:
		h.state.Quitting = true
		h.publish()
	default:
		h.logger.Warn("Unknown host message", zap.Any("message", msg))
	}
}

func (h *Host) handlePush(m pushMsg) {
	if h.state.Quitting {
		h.logger.Debug("Shutdown in progress, song push ignored", zap.String("source", m.source))
		h.metrics.IncDroppedPushes()
		return
	}
	h.metrics.IncPushes(m.source)

	h.state.Song = m.patch.Apply(h.state.Song)
	h.publish()

	if h.surface == nil {
		return
	}
	h.send(domain.SongChanged{Title: h.state.Song.DisplayTitle()})
	h.send(h.state.lyricNotification())
	h.send(domain.PlayStatusChanged{Playing: h.state.Song.IsPlaying})
}

func (h *Host) handleRequest(req domain.Request) {
	switch r := req.(type) {
	case domain.ShowMain:
		h.raise()
	case domain.PlayPrev:
		h.forward(domain.ActionPlayPrev)
	case domain.PlayNext:
		h.forward(domain.ActionPlayNext)
	case domain.PlayOrPause:
		if h.state.Song.IsPlaying {
			h.forward(domain.ActionPause)
		} else {
			h.forward(domain.ActionPlay)
		}
	case domain.HideOverlay:
		h.hideOverlay()
	case domain.ToggleLock:
		if h.surface == nil {
			return
		}
		h.setLocked(r.Locked)
	case domain.MoveRequest:
		h.move(r)
	case domain.ResizeRequest:
		h.resize(r)
	case domain.BoundsQuery:
		h.send(domain.BoundsReply{Seq: r.Seq, Bounds: h.state.Bounds})
	case domain.ScreenSizeQuery:
		h.send(domain.ScreenSizeReply{Seq: r.Seq, Size: h.display.Primary().Size()})
	case domain.TranslationQuery:
		h.send(domain.TranslationReply{Seq: r.Seq, Visible: h.state.ShowTranslation})
	default:
		h.logger.Warn("Unknown overlay request", zap.Any("request", req))
	}
}

// move clamps the requested position into the monitor under the pointer
func (h *Host) move(r domain.MoveRequest) {
	if h.surface == nil {
		h.logger.Debug("Move request without surface ignored")
		return
	}
	requested := h.state.Bounds.WithOrigin(geometry.Point{X: r.X, Y: r.Y})
	monitor := h.display.DisplayAt(r.Pointer)
	committed := geometry.ClampToMonitor(requested, monitor)

	h.state.Bounds = committed
	h.surface.SetBounds(committed)
	h.metrics.IncGeometryCommits("move")
	h.publish()
}

// resize commits new bounds and arms the self-initiated guard so the
// resulting platform resize event is not treated as drift
func (h *Host) resize(r domain.ResizeRequest) {
	if h.surface == nil {
		h.logger.Debug("Resize request without surface ignored")
		return
	}
	committed := geometry.EnforceMinimum(r.Bounds)

	h.state.guardGen++
	h.state.selfResizing = true
	gen := h.state.guardGen
	h.after(h.opts.GuardDelay, func() {
		h.post(guardExpiredMsg{gen: gen})
	})

	h.state.Bounds = committed
	h.surface.SetBounds(committed)
	h.metrics.IncGeometryCommits("resize")
	h.publish()
}

// handleResized restores the committed size after a resize nobody asked for
func (h *Host) handleResized(size geometry.Size) {
	if h.surface == nil || h.state.selfResizing {
		return
	}
	if size == h.state.Bounds.Size() {
		return
	}
	h.logger.Info("Restoring overlay size after external resize",
		zap.Int("observedWidth", size.Width),
		zap.Int("observedHeight", size.Height),
		zap.Int("width", h.state.Bounds.Width),
		zap.Int("height", h.state.Bounds.Height))
	h.surface.SetBounds(h.state.Bounds)
	h.metrics.IncDriftCorrections()
}

func (h *Host) setLocked(locked bool) {
	h.state.Locked = locked
	if h.surface != nil {
		h.surface.SetIgnoreMouseEvents(locked)
	}
	h.send(domain.LockChanged{Locked: locked})
	h.publish()
}

// ensureSurface creates the surface on first use. It reports whether a surface exists.
func (h *Host) ensureSurface() bool {
	if h.surface != nil {
		return true
	}
	if h.factory == nil {
		h.logger.Warn("No overlay surface available in this mode")
		return false
	}

	if h.state.Bounds.Empty() {
		h.state.Bounds = h.defaultBounds()
	}
	s, err := h.factory.Create(h.state.Bounds, h)
	if err != nil {
		h.logger.Error("Failed to create overlay surface", zap.Error(err))
		return false
	}
	h.surface = s

	// bring the new surface up to date
	s.SetIgnoreMouseEvents(h.state.Locked)
	h.send(domain.LockChanged{Locked: h.state.Locked})
	h.send(domain.SongChanged{Title: h.state.Song.DisplayTitle()})
	h.send(h.state.lyricNotification())
	h.send(domain.PlayStatusChanged{Playing: h.state.Song.IsPlaying})

	h.logger.Info("Overlay surface created")
	return true
}

// defaultBounds places the overlay near the top right of the primary display
func (h *Host) defaultBounds() geometry.Rect {
	primary := h.display.Primary()
	size := h.opts.DefaultSize
	r := geometry.EnforceMinimum(geometry.Rect{
		X:      primary.X + primary.Width - 620,
		Y:      primary.Y + 50,
		Width:  size.Width,
		Height: size.Height,
	})
	return geometry.ClampToMonitor(r, primary)
}

func (h *Host) showOverlay() {
	if !h.ensureSurface() {
		return
	}
	h.surface.Show()
	h.state.OverlayVisible = true
	h.publish()
}

func (h *Host) hideOverlay() {
	if h.surface == nil {
		return
	}
	h.surface.Hide()
	h.state.OverlayVisible = false
	h.publish()
}

// send delivers n to the overlay. Without a surface it is dropped.
func (h *Host) send(n domain.Notification) {
	if h.surface == nil {
		return
	}
	h.surface.Send(n)
}

// forward sends a whitelisted action to the player without blocking the loop
func (h *Host) forward(action domain.Action) {
	if !action.Allowed() {
		h.logger.Warn("Playback action rejected", zap.String("action", string(action)))
		return
	}
	if h.controller == nil {
		return
	}
	h.metrics.IncForwardedActions(string(action))

	h.player(func(ctx context.Context) {
		if err := h.controller.Control(ctx, action); err != nil {
			h.logger.Warn("Failed to forward playback action",
				zap.String("action", string(action)),
				zap.Error(err))
		}
	})
}

func (h *Host) raise() {
	if h.controller == nil {
		return
	}
	h.player(func(ctx context.Context) {
		if err := h.controller.Raise(ctx); err != nil {
			h.logger.Warn("Failed to raise player", zap.Error(err))
		}
	})
}

// player queues a call to the controller. Calls run one at a time in the
// order they were queued, off the host loop.
func (h *Host) player(call func(ctx context.Context)) {
	h.playerMu.Lock()
	defer h.playerMu.Unlock()
	h.playerQueue = append(h.playerQueue, call)
	if h.playerBusy {
		return
	}
	h.playerBusy = true
	h.calls.Add(1)
	go h.drainPlayer()
}

func (h *Host) drainPlayer() {
	defer h.calls.Done()
	for {
		h.playerMu.Lock()
		if len(h.playerQueue) == 0 {
			h.playerBusy = false
			h.playerMu.Unlock()
			return
		}
		call := h.playerQueue[0]
		h.playerQueue = h.playerQueue[1:]
		h.playerMu.Unlock()

		ctx, cancel := context.WithTimeout(h.ctx, controlTimeout)
		call(ctx)
		cancel()
	}
}

// publish stores a fresh snapshot and notifies observers
func (h *Host) publish() {
	snap := h.state.snapshot()
	h.snapshot.Store(&snap)

	h.observersMu.Lock()
	observers := append([]domain.StateObserver(nil), h.observers...)
	h.observersMu.Unlock()

	for _, o := range observers {
		o.StateChanged(snap)
	}
}
