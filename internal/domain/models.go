package domain

import (
	"encoding/json"
	"fmt"
)

// PlayerStatus represents the current state of the media player
type PlayerStatus string

const (
	// StatusPlaying indicates the media is currently playing
	StatusPlaying PlayerStatus = "Playing"
	// StatusPaused indicates the media is paused
	StatusPaused PlayerStatus = "Paused"
	// StatusStopped indicates the media is stopped
	StatusStopped PlayerStatus = "Stopped"
)

// MediaMetadata contains information about the currently playing media
// as reported by a desktop player over MPRIS
type MediaMetadata struct {
	// Title of the currently playing track
	Title string
	// Artist name
	Artist string
	// Album name
	Album string
	// ArtUrl is the URL or local path to the album artwork
	ArtUrl string
	// Status is the current playback status
	Status PlayerStatus
	// Length of the track in seconds, zero when unknown
	Length float64
	// Position in seconds, zero when unknown
	Position float64
}

// WordTiming is one karaoke segment of a lyric line.
// Percent is how much of this segment has been sung, in [0,1].
type WordTiming struct {
	Content string  `json:"content"`
	Percent float64 `json:"percent"`
}

// SongState is the latest now-playing snapshot held by the host
type SongState struct {
	Title       string       `json:"songName"`
	Artist      string       `json:"songArtist"`
	CurrentTime float64      `json:"currentTime"`
	Duration    float64      `json:"duration"`
	IsPlaying   bool         `json:"isPlaying"`
	LyricText   string       `json:"lyricText"`
	LyricTrans  string       `json:"lyricTrans"`
	Timings     []WordTiming `json:"lyricData"`
	CoverURL    string       `json:"coverUrl"`
}

// DisplayTitle returns the "name - artist" form sent to the overlay
func (s SongState) DisplayTitle() string {
	return fmt.Sprintf("%s - %s", s.Title, s.Artist)
}

// SongPatch is a partial SongState push. Nil fields are left unchanged.
type SongPatch struct {
	Title       *string      `json:"songName,omitempty"`
	Artist      *string      `json:"songArtist,omitempty"`
	CurrentTime *float64     `json:"currentTime,omitempty"`
	Duration    *float64     `json:"duration,omitempty"`
	IsPlaying   *bool        `json:"isPlaying,omitempty"`
	LyricText   *string      `json:"lyricText,omitempty"`
	LyricTrans  *string      `json:"lyricTrans,omitempty"`
	Timings     []WordTiming `json:"lyricData,omitempty"`
	CoverURL    *string      `json:"coverUrl,omitempty"`

	// HasTimings distinguishes an absent lyricData from an explicit empty one
	HasTimings bool `json:"-"`
}

// Apply merges p into s and returns the result. s is not modified.
func (p SongPatch) Apply(s SongState) SongState {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Artist != nil {
		s.Artist = *p.Artist
	}
	if p.CurrentTime != nil {
		s.CurrentTime = *p.CurrentTime
	}
	if p.Duration != nil {
		s.Duration = *p.Duration
	}
	if p.IsPlaying != nil {
		s.IsPlaying = *p.IsPlaying
	}
	if p.LyricText != nil {
		s.LyricText = *p.LyricText
	}
	if p.LyricTrans != nil {
		s.LyricTrans = *p.LyricTrans
	}
	if p.HasTimings || p.Timings != nil {
		s.Timings = append([]WordTiming(nil), p.Timings...)
	}
	if p.CoverURL != nil {
		s.CoverURL = *p.CoverURL
	}
	return s
}

// PatchFromMetadata converts an MPRIS metadata event into a song push.
// Lyric fields are left untouched since MPRIS carries none.
func PatchFromMetadata(meta MediaMetadata) SongPatch {
	playing := meta.Status == StatusPlaying
	p := SongPatch{
		Title:     &meta.Title,
		Artist:    &meta.Artist,
		IsPlaying: &playing,
		CoverURL:  &meta.ArtUrl,
	}
	if meta.Length > 0 {
		p.Duration = &meta.Length
	}
	if meta.Position > 0 {
		p.CurrentTime = &meta.Position
	}
	return p
}

// UnmarshalJSON records whether lyricData was present, so that an explicit
// null clears the timings while an absent key keeps them.
func (p *SongPatch) UnmarshalJSON(data []byte) error {
	type plain SongPatch
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, decoded.HasTimings = keys["lyricData"]
	*p = SongPatch(decoded)
	return nil
}
