package karaoke

import "time"

// TransitionDuration is how long an animated frame takes to settle
const TransitionDuration = 250 * time.Millisecond

// Animator eases the displayed reveal coordinate and offset towards the
// latest frame. Non-animated frames are applied immediately.
type Animator struct {
	reveal tween
	offset tween
}

// NewAnimator starts fully unrevealed with no offset
func NewAnimator() *Animator {
	return &Animator{
		reveal: tween{from: Unrevealed, to: Unrevealed, value: Unrevealed},
	}
}

// Set retargets the animation to f
func (a *Animator) Set(f Frame) {
	a.reveal.set(f.Reveal, f.Transition)
	a.offset.set(f.Offset, f.Transition)
}

// Advance moves time forward by dt and returns the displayed reveal and offset
func (a *Animator) Advance(dt time.Duration) (reveal, offset float64) {
	return a.reveal.advance(dt), a.offset.advance(dt)
}

type tween struct {
	from, to, value float64
	elapsed         time.Duration
}

func (t *tween) set(target float64, animate bool) {
	if target == t.to && animate {
		return
	}
	if !animate {
		t.from, t.to, t.value = target, target, target
		t.elapsed = TransitionDuration
		return
	}
	t.from = t.value
	t.to = target
	t.elapsed = 0
}

func (t *tween) advance(dt time.Duration) float64 {
	if t.elapsed >= TransitionDuration {
		t.value = t.to
		return t.value
	}
	t.elapsed += dt
	if t.elapsed > TransitionDuration {
		t.elapsed = TransitionDuration
	}
	k := float64(t.elapsed) / float64(TransitionDuration)
	t.value = t.from + (t.to-t.from)*k
	return t.value
}
