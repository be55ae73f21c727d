package overlay

import (
	"github.com/genricoloni/lyrical/internal/domain"
	"github.com/genricoloni/lyrical/internal/geometry"
	"go.uber.org/zap"
)

// TargetKind is the kind of element under the pointer
type TargetKind int

const (
	TargetNone TargetKind = iota
	// TargetBody starts a drag
	TargetBody
	// TargetEdge starts a resize in Target.Direction
	TargetEdge
	TargetShowMain
	TargetPrev
	TargetPlayPause
	TargetNext
	TargetLock
	TargetClose
)

// Target is the element a pointer press landed on
type Target struct {
	Kind      TargetKind
	Direction geometry.Direction
}

// PointerDown handles a press at p in display coordinates
func (o *Overlay) PointerDown(t Target, p geometry.Point) {
	switch t.Kind {
	case TargetLock:
		// the lock control keeps working while locked
		o.locked = !o.locked
		o.requester.Request(domain.ToggleLock{Locked: o.locked})
		return
	case TargetNone:
		return
	}

	if o.locked {
		return
	}

	switch t.Kind {
	case TargetShowMain:
		o.requester.Request(domain.ShowMain{})
	case TargetPrev:
		o.requester.Request(domain.PlayPrev{})
	case TargetPlayPause:
		o.requester.Request(domain.PlayOrPause{})
	case TargetNext:
		o.requester.Request(domain.PlayNext{})
	case TargetClose:
		o.requester.Request(domain.HideOverlay{})
	case TargetBody, TargetEdge:
		if o.phase != Idle {
			return
		}
		o.seq++
		o.phase = AwaitingBounds
		o.target = t
		o.startPtr = p
		o.lastPtr = p
		o.requester.Request(domain.BoundsQuery{Seq: o.seq})
	}
}

// startGesture begins dragging or resizing once the host's canonical bounds arrive
func (o *Overlay) startGesture(reply domain.BoundsReply) {
	if o.phase != AwaitingBounds || reply.Seq != o.seq {
		return
	}
	o.startBounds = reply.Bounds
	if o.target.Kind == TargetEdge {
		o.phase = Resizing
	} else {
		o.phase = Dragging
	}
	o.logger.Debug("Gesture started",
		zap.Stringer("phase", o.phase),
		zap.Stringer("direction", o.target.Direction))

	if o.lastPtr != o.startPtr {
		o.step()
	}
}

// PointerMove handles pointer motion at p in display coordinates
func (o *Overlay) PointerMove(p geometry.Point) {
	if o.phase == Idle || p == o.lastPtr {
		return
	}
	o.lastPtr = p
	o.step()
}

// step sends the request for the current pointer position. Positions are
// always rebuilt from the gesture start, never accumulated.
func (o *Overlay) step() {
	switch o.phase {
	case Dragging:
		r := geometry.Drag(o.startBounds, o.startPtr, o.lastPtr)
		o.requester.Request(domain.MoveRequest{X: r.X, Y: r.Y, Pointer: o.lastPtr})
	case Resizing:
		r := geometry.Resize(o.startBounds, o.target.Direction, o.startPtr, o.lastPtr)
		r = o.capToScreen(r)
		o.requester.Request(domain.ResizeRequest{Bounds: r, Pointer: o.lastPtr})
	}
}

// capToScreen keeps a resize from growing past the primary display
func (o *Overlay) capToScreen(r geometry.Rect) geometry.Rect {
	if o.screen.Width > 0 && r.Width > o.screen.Width {
		if o.target.Direction.Has(geometry.Left) {
			r.X += r.Width - o.screen.Width
		}
		r.Width = o.screen.Width
	}
	if o.screen.Height > 0 && r.Height > o.screen.Height {
		if o.target.Direction.Has(geometry.Top) {
			r.Y += r.Height - o.screen.Height
		}
		r.Height = o.screen.Height
	}
	return r
}

// PointerUp ends the current gesture
func (o *Overlay) PointerUp() {
	if o.phase != Idle {
		o.endGesture()
	}
}

func (o *Overlay) endGesture() {
	o.logger.Debug("Gesture ended", zap.Stringer("phase", o.phase))
	o.phase = Idle
	o.target = Target{}
}
