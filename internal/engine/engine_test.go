package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/genricoloni/lyrical/internal/domain"
	"go.uber.org/zap"
)

type fakeMonitor struct {
	events chan domain.MediaMetadata
}

func (m *fakeMonitor) Start(ctx context.Context) error     { <-ctx.Done(); return ctx.Err() }
func (m *fakeMonitor) Stop(context.Context) error          { return nil }
func (m *fakeMonitor) Events() <-chan domain.MediaMetadata { return m.events }

type recorder struct {
	mu      sync.Mutex
	pushes  []domain.SongPatch
	fetched []string
	icons   [][]byte
	dimmed  []bool
	failURL string
}

func (r *recorder) Push(source string, patch domain.SongPatch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if source != Source {
		panic("unexpected source " + source)
	}
	r.pushes = append(r.pushes, patch)
}

func (r *recorder) Fetch(_ context.Context, url string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetched = append(r.fetched, url)
	if url == r.failURL {
		return nil, errors.New("404")
	}
	return []byte(url), nil
}

func (r *recorder) Icon(_ context.Context, data []byte, dimmed bool) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dimmed = append(r.dimmed, dimmed)
	return append([]byte("icon:"), data...), nil
}

func (r *recorder) Default() ([]byte, error) {
	return []byte("default"), nil
}

func (r *recorder) SetIcon(png []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.icons = append(r.icons, png)
}

func (r *recorder) snapshot() (pushes int, fetched []string, icons []string, dimmed []bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.icons {
		icons = append(icons, string(i))
	}
	return len(r.pushes), append([]string(nil), r.fetched...), icons, append([]bool(nil), r.dimmed...)
}

func newTestEngine(t *testing.T) (*Engine, *fakeMonitor, *recorder) {
	t.Helper()
	mon := &fakeMonitor{events: make(chan domain.MediaMetadata, 10)}
	rec := &recorder{}
	e := NewEngine(zap.NewNop(), mon, rec, rec, rec, rec)
	e.debounce = 50 * time.Millisecond
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	t.Cleanup(func() { _ = e.Stop(context.Background()) })
	return e, mon, rec
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestEngine_PatchClearsLyricsOnTrackChange(t *testing.T) {
	e := NewEngine(zap.NewNop(), nil, nil, nil, nil, nil)

	first := e.patch(domain.MediaMetadata{Title: "a", Artist: "x", Status: domain.StatusPlaying, Position: 3})
	if first.LyricText == nil || *first.LyricText != "" || !first.HasTimings {
		t.Errorf("new track must clear lyrics, got %+v", first)
	}
	if first.CurrentTime == nil || *first.CurrentTime != 3 {
		t.Errorf("position must be pushed, got %+v", first.CurrentTime)
	}

	again := e.patch(domain.MediaMetadata{Title: "a", Artist: "x", Status: domain.StatusPaused})
	if again.LyricText != nil || again.HasTimings {
		t.Errorf("same track must keep lyrics, got %+v", again)
	}
	if again.IsPlaying == nil || *again.IsPlaying {
		t.Error("paused status must be pushed")
	}
}

func TestEngine_PushesImmediatelyAndDebouncesIcon(t *testing.T) {
	_, mon, rec := newTestEngine(t)

	for _, art := range []string{"http://a/1.jpg", "http://a/2.jpg", "http://a/3.jpg"} {
		mon.events <- domain.MediaMetadata{Title: art, ArtUrl: art, Status: domain.StatusPlaying}
	}

	eventually(t, func() bool {
		_, _, icons, _ := rec.snapshot()
		return len(icons) == 2
	})

	pushes, fetched, icons, _ := rec.snapshot()
	if pushes != 3 {
		t.Errorf("every event must be pushed, got %d", pushes)
	}
	if len(fetched) != 1 || fetched[0] != "http://a/3.jpg" {
		t.Errorf("only the last cover must be fetched, got %v", fetched)
	}
	if icons[0] != "default" || icons[1] != "icon:http://a/3.jpg" {
		t.Errorf("unexpected icons %v", icons)
	}
}

func TestEngine_PauseDimsWithoutRefetch(t *testing.T) {
	_, mon, rec := newTestEngine(t)

	mon.events <- domain.MediaMetadata{Title: "a", ArtUrl: "http://a/1.jpg", Status: domain.StatusPlaying}
	eventually(t, func() bool { _, _, icons, _ := rec.snapshot(); return len(icons) == 2 })

	mon.events <- domain.MediaMetadata{Title: "a", ArtUrl: "http://a/1.jpg", Status: domain.StatusPaused}
	eventually(t, func() bool { _, _, icons, _ := rec.snapshot(); return len(icons) == 3 })

	_, fetched, _, dimmed := rec.snapshot()
	if len(fetched) != 1 {
		t.Errorf("artwork must be cached, fetched %v", fetched)
	}
	if len(dimmed) != 2 || dimmed[0] || !dimmed[1] {
		t.Errorf("expected [false true], got %v", dimmed)
	}
}

func TestEngine_FetchFailureKeepsIcon(t *testing.T) {
	_, mon, rec := newTestEngine(t)
	rec.mu.Lock()
	rec.failURL = "http://a/broken.jpg"
	rec.mu.Unlock()

	mon.events <- domain.MediaMetadata{Title: "a", ArtUrl: "http://a/broken.jpg", Status: domain.StatusPlaying}
	eventually(t, func() bool { _, fetched, _, _ := rec.snapshot(); return len(fetched) == 1 })
	time.Sleep(80 * time.Millisecond)

	if _, _, icons, _ := rec.snapshot(); len(icons) != 1 {
		t.Errorf("failed fetch must keep the current icon, got %v", icons)
	}
}

func TestEngine_StopsWhenEventsClose(t *testing.T) {
	mon := &fakeMonitor{events: make(chan domain.MediaMetadata)}
	rec := &recorder{}
	e := NewEngine(zap.NewNop(), mon, rec, rec, rec, rec)
	if err := e.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	close(mon.events)

	done := make(chan struct{})
	go func() {
		_ = e.Stop(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("engine did not stop")
	}
}
