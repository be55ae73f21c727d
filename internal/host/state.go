package host

import (
	"github.com/genricoloni/lyrical/internal/domain"
	"github.com/genricoloni/lyrical/internal/geometry"
	"github.com/genricoloni/lyrical/internal/settings"
)

// State is everything the host owns. Only the host loop touches it.
type State struct {
	Song            domain.SongState
	Bounds          geometry.Rect
	Locked          bool
	ShowTranslation bool
	OverlayVisible  bool
	Quitting        bool

	// selfResizing suppresses drift correction right after a resize commit
	selfResizing bool
	guardGen     uint64
}

// newState builds the startup state from persisted settings
func newState(saved settings.State) State {
	bounds := saved.Bounds
	if !bounds.Empty() {
		bounds = geometry.EnforceMinimum(bounds)
	}
	return State{
		Bounds:          bounds,
		Locked:          saved.Locked,
		ShowTranslation: saved.ShowTranslation,
	}
}

func (s State) snapshot() domain.HostSnapshot {
	song := s.Song
	song.Timings = append([]domain.WordTiming(nil), s.Song.Timings...)
	return domain.HostSnapshot{
		Song:            song,
		Bounds:          s.Bounds,
		OverlayVisible:  s.OverlayVisible,
		ShowTranslation: s.ShowTranslation,
		Locked:          s.Locked,
	}
}

func (s State) persisted() settings.State {
	return settings.State{
		Bounds:          s.Bounds,
		Locked:          s.Locked,
		ShowTranslation: s.ShowTranslation,
	}
}

// lyricNotification strips the translation when it is switched off
func (s State) lyricNotification() domain.LyricChanged {
	n := domain.LyricChanged{
		Text:    s.Song.LyricText,
		Timings: append([]domain.WordTiming(nil), s.Song.Timings...),
	}
	if s.ShowTranslation {
		n.Trans = s.Song.LyricTrans
	}
	return n
}
