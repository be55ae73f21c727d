package mpd

import (
	"context"
	"errors"
	"testing"

	"github.com/fhs/gompd/mpd"
	"github.com/genricoloni/lyrical/internal/domain"
	"go.uber.org/zap"
)

type fakeConn struct {
	status    mpd.Attrs
	song      mpd.Attrs
	statusErr error
	calls     []string
	closed    int
}

func (c *fakeConn) Status() (mpd.Attrs, error)      { return c.status, c.statusErr }
func (c *fakeConn) CurrentSong() (mpd.Attrs, error) { return c.song, nil }
func (c *fakeConn) Play(pos int) error              { c.calls = append(c.calls, "play"); return nil }
func (c *fakeConn) Pause(pause bool) error          { c.calls = append(c.calls, "pause"); return nil }
func (c *fakeConn) Next() error                     { c.calls = append(c.calls, "next"); return nil }
func (c *fakeConn) Previous() error                 { c.calls = append(c.calls, "previous"); return nil }
func (c *fakeConn) Close() error                    { c.closed++; return nil }

type recordingSink struct {
	patches []domain.SongPatch
}

func (s *recordingSink) Push(source string, patch domain.SongPatch) {
	if source != Source {
		panic("unexpected source " + source)
	}
	s.patches = append(s.patches, patch)
}

func newTestPlayer(conn *fakeConn) (*Player, *recordingSink) {
	sink := &recordingSink{}
	p := New(zap.NewNop(), "localhost:6600", "", sink)
	p.dial = func() (Conn, error) {
		if conn == nil {
			return nil, errors.New("connection refused")
		}
		return conn, nil
	}
	return p, sink
}

func TestPoll_PushesState(t *testing.T) {
	conn := &fakeConn{
		status: mpd.Attrs{"state": "play", "elapsed": "12.5", "duration": "200.1"},
		song:   mpd.Attrs{"Title": "Heroes", "Artist": "David Bowie"},
	}
	p, sink := newTestPlayer(conn)

	p.poll()

	if len(sink.patches) != 1 {
		t.Fatalf("expected one push, got %d", len(sink.patches))
	}
	got := sink.patches[0].Apply(domain.SongState{LyricText: "stale"})
	want := domain.SongState{Title: "Heroes", Artist: "David Bowie", IsPlaying: true, CurrentTime: 12.5, Duration: 200.1}
	if got.Title != want.Title || got.Artist != want.Artist || got.IsPlaying != want.IsPlaying ||
		got.CurrentTime != want.CurrentTime || got.Duration != want.Duration {
		t.Errorf("want %+v, got %+v", want, got)
	}
	if got.LyricText != "" {
		t.Error("new track must clear the lyric")
	}
}

func TestPoll_QuietWhilePaused(t *testing.T) {
	conn := &fakeConn{
		status: mpd.Attrs{"state": "pause", "elapsed": "5", "time": "5:180"},
		song:   mpd.Attrs{"file": "music/track.flac"},
	}
	p, sink := newTestPlayer(conn)

	p.poll()
	p.poll()

	if len(sink.patches) != 1 {
		t.Fatalf("unchanged paused state must be pushed once, got %d", len(sink.patches))
	}
	patch := sink.patches[0]
	if *patch.Title != "music/track.flac" {
		t.Errorf("file must stand in for a missing title, got %q", *patch.Title)
	}
	if patch.Duration == nil || *patch.Duration != 180 {
		t.Errorf("duration from time attribute: got %v", patch.Duration)
	}

	conn.status = mpd.Attrs{"state": "play", "elapsed": "5"}
	p.poll()
	p.poll()
	if len(sink.patches) != 3 {
		t.Errorf("playing state must be pushed every poll, got %d", len(sink.patches))
	}
	if sink.patches[2].LyricText != nil {
		t.Error("same track must keep the lyric")
	}
}

func TestPoll_ReconnectsAfterFailure(t *testing.T) {
	conn := &fakeConn{statusErr: errors.New("broken pipe")}
	p, sink := newTestPlayer(conn)

	p.poll()

	if conn.closed != 1 || p.conn != nil {
		t.Errorf("failed connection must be dropped, closed=%d", conn.closed)
	}
	if len(sink.patches) != 0 {
		t.Errorf("no push expected, got %d", len(sink.patches))
	}
}

func TestControl(t *testing.T) {
	tests := []struct {
		action   domain.Action
		expected string
	}{
		{domain.ActionPlay, "play"},
		{domain.ActionPause, "pause"},
		{domain.ActionPlayPrev, "previous"},
		{domain.ActionPlayNext, "next"},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			conn := &fakeConn{}
			p, _ := newTestPlayer(conn)
			if err := p.Control(context.Background(), tt.action); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(conn.calls) != 1 || conn.calls[0] != tt.expected {
				t.Errorf("expected %s, got %v", tt.expected, conn.calls)
			}
		})
	}
}

func TestControl_Errors(t *testing.T) {
	p, _ := newTestPlayer(&fakeConn{})
	if err := p.Control(context.Background(), domain.Action("shuffle")); !errors.Is(err, domain.ErrActionNotAllowed) {
		t.Errorf("expected ErrActionNotAllowed, got %v", err)
	}
	if err := p.Raise(context.Background()); !errors.Is(err, domain.ErrNoPlayer) {
		t.Errorf("expected ErrNoPlayer, got %v", err)
	}

	disabled := New(zap.NewNop(), "", "", &recordingSink{})
	if err := disabled.Control(context.Background(), domain.ActionPlay); !errors.Is(err, domain.ErrNoPlayer) {
		t.Errorf("disabled player: expected ErrNoPlayer, got %v", err)
	}

	unreachable, _ := newTestPlayer(nil)
	if err := unreachable.Control(context.Background(), domain.ActionPlay); err == nil {
		t.Error("unreachable player must fail")
	}
}

func TestStartStop(t *testing.T) {
	disabled := New(zap.NewNop(), "", "", &recordingSink{})
	if err := disabled.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := disabled.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}

	conn := &fakeConn{status: mpd.Attrs{"state": "stop"}, song: mpd.Attrs{}}
	p, _ := newTestPlayer(conn)
	if err := p.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := p.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}
	if conn.closed != 1 {
		t.Errorf("stop must close the connection, closed=%d", conn.closed)
	}
}
