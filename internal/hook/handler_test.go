package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/genricoloni/lyrical/internal/domain"
	"github.com/genricoloni/lyrical/internal/metrics"
	"go.uber.org/zap"
)

type recordingSink struct {
	sources []string
	patches []domain.SongPatch
}

func (s *recordingSink) Push(source string, patch domain.SongPatch) {
	s.sources = append(s.sources, source)
	s.patches = append(s.patches, patch)
}

func newTestRouter() (http.Handler, *recordingSink, *ActionQueue, *metrics.Metrics) {
	sink := &recordingSink{}
	queue := NewActionQueue()
	met := metrics.New()
	h := NewHandler(zap.NewNop(), sink, queue)
	return NewRouter(zap.NewNop(), h, met), sink, queue, met
}

func TestHandler_PostHook(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		expectedCode int
		check        func(t *testing.T, p domain.SongPatch)
	}{
		{
			name:         "Partial Push",
			body:         `{"songName":"Tiny Dancer","isPlaying":true}`,
			expectedCode: http.StatusNoContent,
			check: func(t *testing.T, p domain.SongPatch) {
				if p.Title == nil || *p.Title != "Tiny Dancer" {
					t.Errorf("title not decoded: %+v", p)
				}
				if p.Artist != nil || p.HasTimings {
					t.Errorf("absent fields must stay unset: %+v", p)
				}
			},
		},
		{
			name:         "Lyric Data",
			body:         `{"lyricText":"hold me","lyricData":[{"content":"hold ","percent":1},{"content":"me","percent":0.25}]}`,
			expectedCode: http.StatusNoContent,
			check: func(t *testing.T, p domain.SongPatch) {
				if !p.HasTimings || len(p.Timings) != 2 || p.Timings[1].Percent != 0.25 {
					t.Errorf("timings not decoded: %+v", p)
				}
			},
		},
		{
			name:         "Explicit Null Clears Timings",
			body:         `{"lyricData":null}`,
			expectedCode: http.StatusNoContent,
			check: func(t *testing.T, p domain.SongPatch) {
				if !p.HasTimings || p.Timings != nil {
					t.Errorf("null lyricData must be recorded: %+v", p)
				}
			},
		},
		{
			name:         "Malformed",
			body:         `not json`,
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, sink, _, _ := newTestRouter()

			req := httptest.NewRequest(http.MethodPost, "/hook", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.expectedCode {
				t.Fatalf("want %d, got %d", tt.expectedCode, rec.Code)
			}
			if tt.check == nil {
				if len(sink.patches) != 0 {
					t.Error("malformed body must not be pushed")
				}
				return
			}
			if len(sink.patches) != 1 || sink.sources[0] != "hook" {
				t.Fatalf("expected one push from hook, got %v", sink.sources)
			}
			tt.check(t, sink.patches[0])
		})
	}
}

func TestHandler_GetControlDrainsQueue(t *testing.T) {
	router, _, queue, _ := newTestRouter()
	ctx := context.Background()

	if err := queue.Control(ctx, domain.ActionPlayNext); err != nil {
		t.Fatal(err)
	}
	if err := queue.Control(ctx, domain.ActionPause); err != nil {
		t.Fatal(err)
	}
	if err := queue.Raise(ctx); err != nil {
		t.Fatal(err)
	}

	get := func() ControlResponse {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/control", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("want 200, got %d", rec.Code)
		}
		var resp ControlResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return resp
	}

	first := get()
	if len(first.Actions) != 2 || first.Actions[0] != domain.ActionPlayNext || !first.Raise {
		t.Errorf("unexpected first poll: %+v", first)
	}
	second := get()
	if len(second.Actions) != 0 || second.Raise {
		t.Errorf("queue not drained: %+v", second)
	}
}

func TestActionQueue_RejectsUnknownActions(t *testing.T) {
	q := NewActionQueue()
	err := q.Control(context.Background(), domain.Action("volumeUp"))
	if !errors.Is(err, domain.ErrActionNotAllowed) {
		t.Errorf("want ErrActionNotAllowed, got %v", err)
	}
	if actions, _ := q.Drain(); len(actions) != 0 {
		t.Errorf("rejected action was queued: %v", actions)
	}
}

func TestActionQueue_Bounded(t *testing.T) {
	q := NewActionQueue()
	for i := 0; i < queueSize+5; i++ {
		_ = q.Control(context.Background(), domain.ActionPlay)
	}
	_ = q.Control(context.Background(), domain.ActionPlayNext)

	actions, _ := q.Drain()
	if len(actions) != queueSize {
		t.Fatalf("want %d actions, got %d", queueSize, len(actions))
	}
	if actions[len(actions)-1] != domain.ActionPlayNext {
		t.Error("newest action must be kept")
	}
}

func TestRouter_PreflightAndMetrics(t *testing.T) {
	router, _, _, _ := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/hook", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight: want 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}

	bad := httptest.NewRecorder()
	router.ServeHTTP(bad, httptest.NewRequest(http.MethodPost, "/hook", bytes.NewReader([]byte("{"))))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, "lyrical_hook_errors_total 1") {
		t.Errorf("hook error not counted:\n%s", body)
	}
}

func TestServer_StartStop(t *testing.T) {
	router, _, _, _ := newTestRouter()
	srv := NewServer(zap.NewNop(), "127.0.0.1:0", router)

	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := srv.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}

	disabled := NewServer(zap.NewNop(), "", router)
	if err := disabled.Start(context.Background()); err != nil {
		t.Fatalf("disabled start: %v", err)
	}
	if err := disabled.Stop(context.Background()); err != nil {
		t.Fatalf("disabled stop: %v", err)
	}
}
