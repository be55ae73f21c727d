package domain

import (
	"encoding/json"
	"testing"
)

func TestSongPatch_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectTimings  bool
		expectTitle    string
		expectSegments int
	}{
		{"Absent Lyric Data", `{"songName":"a"}`, false, "a", 0},
		{"Null Lyric Data", `{"lyricData":null}`, true, "", 0},
		{"Empty Lyric Data", `{"lyricData":[]}`, true, "", 0},
		{"With Lyric Data", `{"lyricData":[{"content":"hi ","percent":1},{"content":"there","percent":0.5}]}`, true, "", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p SongPatch
			if err := json.Unmarshal([]byte(tt.body), &p); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if p.HasTimings != tt.expectTimings {
				t.Errorf("HasTimings: want %v, got %v", tt.expectTimings, p.HasTimings)
			}
			if len(p.Timings) != tt.expectSegments {
				t.Errorf("want %d timings, got %d", tt.expectSegments, len(p.Timings))
			}
			if tt.expectTitle != "" && (p.Title == nil || *p.Title != tt.expectTitle) {
				t.Errorf("title: want %q, got %v", tt.expectTitle, p.Title)
			}
		})
	}
}

func TestSongPatch_UnmarshalJSON_Invalid(t *testing.T) {
	var p SongPatch
	if err := json.Unmarshal([]byte(`{"currentTime":"soon"}`), &p); err == nil {
		t.Error("expected an error for a mistyped field")
	}
}

func TestSongPatch_Apply(t *testing.T) {
	base := SongState{
		Title:     "old",
		Artist:    "artist",
		LyricText: "line",
		Timings:   []WordTiming{{Content: "line", Percent: 0.5}},
	}

	var cleared SongPatch
	if err := json.Unmarshal([]byte(`{"lyricData":null}`), &cleared); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	title := "new"

	tests := []struct {
		name          string
		patch         SongPatch
		expectTitle   string
		expectTimings int
	}{
		{"Empty Patch Keeps Everything", SongPatch{}, "old", 1},
		{"Title Only", SongPatch{Title: &title}, "new", 1},
		{"Explicit Null Clears Timings", cleared, "old", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.patch.Apply(base)
			if got.Title != tt.expectTitle {
				t.Errorf("title: want %q, got %q", tt.expectTitle, got.Title)
			}
			if len(got.Timings) != tt.expectTimings {
				t.Errorf("want %d timings, got %d", tt.expectTimings, len(got.Timings))
			}
			if got.Artist != "artist" || got.LyricText != "line" {
				t.Errorf("untouched fields changed: %+v", got)
			}
		})
	}
}

func TestSongPatch_ApplyCopiesTimings(t *testing.T) {
	timings := []WordTiming{{Content: "a", Percent: 1}}
	got := SongPatch{Timings: timings}.Apply(SongState{})

	timings[0].Percent = 0
	if got.Timings[0].Percent != 1 {
		t.Error("applied state must not share the patch's slice")
	}
}

func TestPatchFromMetadata(t *testing.T) {
	meta := MediaMetadata{
		Title:  "Song",
		Artist: "Band",
		ArtUrl: "file:///tmp/cover.png",
		Status: StatusPaused,
		Length: 200,
	}
	got := PatchFromMetadata(meta).Apply(SongState{CurrentTime: 42, LyricText: "kept"})

	if got.Title != "Song" || got.Artist != "Band" || got.CoverURL != meta.ArtUrl {
		t.Errorf("unexpected song: %+v", got)
	}
	if got.IsPlaying {
		t.Error("paused metadata must not report playing")
	}
	if got.Duration != 200 {
		t.Errorf("duration: want 200, got %v", got.Duration)
	}
	if got.CurrentTime != 42 {
		t.Errorf("unknown position must keep the current time, got %v", got.CurrentTime)
	}
	if got.LyricText != "kept" {
		t.Errorf("metadata must not touch the lyric, got %q", got.LyricText)
	}
}

func TestSongState_DisplayTitle(t *testing.T) {
	s := SongState{Title: "Tiny Dancer", Artist: "Elton John"}
	if got := s.DisplayTitle(); got != "Tiny Dancer - Elton John" {
		t.Errorf("got %q", got)
	}
}

func TestAction_Allowed(t *testing.T) {
	tests := []struct {
		action   Action
		expected bool
	}{
		{ActionPlay, true},
		{ActionPause, true},
		{ActionPlayPrev, true},
		{ActionPlayNext, true},
		{Action("seek"), false},
		{Action(""), false},
	}
	for _, tt := range tests {
		if got := tt.action.Allowed(); got != tt.expected {
			t.Errorf("%q: want %v, got %v", tt.action, tt.expected, got)
		}
	}
}
