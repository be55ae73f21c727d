package domain

import "github.com/genricoloni/lyrical/internal/geometry"

// Request is a message sent by the overlay to the host
type Request interface {
	isRequest()
}

// Notification is a message sent by the host to the overlay
type Notification interface {
	isNotification()
}

// ShowMain asks the host to bring the player window forward
type ShowMain struct{}

// PlayPrev asks the host to skip to the previous track
type PlayPrev struct{}

// PlayNext asks the host to skip to the next track
type PlayNext struct{}

// PlayOrPause asks the host to flip the playback state
type PlayOrPause struct{}

// HideOverlay asks the host to hide the overlay surface
type HideOverlay struct{}

// ToggleLock sets the lock (mouse pass-through) state
type ToggleLock struct {
	Locked bool
}

// MoveRequest asks the host to move the overlay to (X, Y).
// Pointer is the pointer position in display coordinates at the time of the request.
type MoveRequest struct {
	X, Y    int
	Pointer geometry.Point
}

// ResizeRequest asks the host to commit new bounds for the overlay
type ResizeRequest struct {
	Bounds  geometry.Rect
	Pointer geometry.Point
}

// BoundsQuery asks for the host's canonical overlay bounds.
// The answer arrives as a BoundsReply with the same Seq.
type BoundsQuery struct {
	Seq uint64
}

// ScreenSizeQuery asks for the primary display size
type ScreenSizeQuery struct {
	Seq uint64
}

// TranslationQuery asks whether translations are currently shown
type TranslationQuery struct {
	Seq uint64
}

func (ShowMain) isRequest()         {}
func (PlayPrev) isRequest()         {}
func (PlayNext) isRequest()         {}
func (PlayOrPause) isRequest()      {}
func (HideOverlay) isRequest()      {}
func (ToggleLock) isRequest()       {}
func (MoveRequest) isRequest()      {}
func (ResizeRequest) isRequest()    {}
func (BoundsQuery) isRequest()      {}
func (ScreenSizeQuery) isRequest()  {}
func (TranslationQuery) isRequest() {}

// SongChanged carries the "name - artist" title of the current song
type SongChanged struct {
	Title string
}

// LyricChanged carries the current lyric line.
// Trans is empty when the host hides translations.
type LyricChanged struct {
	Text    string
	Trans   string
	Timings []WordTiming
}

// PlayStatusChanged carries the playing flag
type PlayStatusChanged struct {
	Playing bool
}

// LockChanged mirrors the host lock state
type LockChanged struct {
	Locked bool
}

// BoundsReply answers a BoundsQuery
type BoundsReply struct {
	Seq    uint64
	Bounds geometry.Rect
}

// ScreenSizeReply answers a ScreenSizeQuery
type ScreenSizeReply struct {
	Seq  uint64
	Size geometry.Size
}

// TranslationReply answers a TranslationQuery
type TranslationReply struct {
	Seq     uint64
	Visible bool
}

func (SongChanged) isNotification()       {}
func (LyricChanged) isNotification()      {}
func (PlayStatusChanged) isNotification() {}
func (LockChanged) isNotification()       {}
func (BoundsReply) isNotification()       {}
func (ScreenSizeReply) isNotification()   {}
func (TranslationReply) isNotification()  {}

// Action is a playback command forwarded to the player
type Action string

const (
	ActionPlay     Action = "play"
	ActionPause    Action = "pause"
	ActionPlayPrev Action = "playPrev"
	ActionPlayNext Action = "playNext"
)

// Allowed reports whether a is on the forwarding whitelist
func (a Action) Allowed() bool {
	switch a {
	case ActionPlay, ActionPause, ActionPlayPrev, ActionPlayNext:
		return true
	}
	return false
}
