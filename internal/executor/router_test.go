package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/genricoloni/lyrical/internal/domain"
	"github.com/genricoloni/lyrical/internal/domain/mocks"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type sinkFunc func(source string, patch domain.SongPatch)

func (f sinkFunc) Push(source string, patch domain.SongPatch) { f(source, patch) }

func TestRouter_RoutesToLastSource(t *testing.T) {
	ctrl := gomock.NewController(t)
	mpris := mocks.NewMockPlaybackController(ctrl)
	web := mocks.NewMockPlaybackController(ctrl)

	r := NewRouter(zap.NewNop(), "mpris")
	r.Register("mpris", mpris)
	r.Register("hook", web)

	var pushed []string
	sink := r.Track(sinkFunc(func(source string, _ domain.SongPatch) {
		pushed = append(pushed, source)
	}))

	mpris.EXPECT().Control(gomock.Any(), domain.ActionPlayNext).Return(nil)
	if err := r.Control(context.Background(), domain.ActionPlayNext); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sink.Push("hook", domain.SongPatch{})
	if got := r.Source(); got != "hook" {
		t.Fatalf("expected hook source, got %q", got)
	}
	web.EXPECT().Control(gomock.Any(), domain.ActionPause).Return(nil)
	if err := r.Control(context.Background(), domain.ActionPause); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pushed) != 1 || pushed[0] != "hook" {
		t.Errorf("push must reach the wrapped sink, got %v", pushed)
	}
}

func TestRouter_UnknownSourceUsesFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	mpris := mocks.NewMockPlaybackController(ctrl)

	r := NewRouter(zap.NewNop(), "mpris")
	r.Register("mpris", mpris)
	r.Track(sinkFunc(func(string, domain.SongPatch) {})).Push("test", domain.SongPatch{})

	if got := r.Source(); got != "mpris" {
		t.Errorf("expected fallback source, got %q", got)
	}
	mpris.EXPECT().Raise(gomock.Any()).Return(nil)
	if err := r.Raise(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRouter_FallsBackOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mpris := mocks.NewMockPlaybackController(ctrl)
	web := mocks.NewMockPlaybackController(ctrl)

	r := NewRouter(zap.NewNop(), "mpris")
	r.Register("mpris", mpris)
	r.Register("hook", web)
	r.observe("hook")

	web.EXPECT().Raise(gomock.Any()).Return(errors.New("tab gone"))
	mpris.EXPECT().Raise(gomock.Any()).Return(nil)
	if err := r.Raise(context.Background()); err != nil {
		t.Errorf("fallback success must hide the first failure, got %v", err)
	}

	web.EXPECT().Control(gomock.Any(), domain.ActionPlay).Return(errors.New("tab gone"))
	mpris.EXPECT().Control(gomock.Any(), domain.ActionPlay).Return(domain.ErrNoPlayer)
	err := r.Control(context.Background(), domain.ActionPlay)
	if !errors.Is(err, domain.ErrNoPlayer) {
		t.Errorf("expected combined error to contain ErrNoPlayer, got %v", err)
	}
}

func TestRouter_Errors(t *testing.T) {
	r := NewRouter(zap.NewNop(), "mpris")

	if err := r.Control(context.Background(), domain.ActionPlay); !errors.Is(err, domain.ErrNoPlayer) {
		t.Errorf("no controllers: expected ErrNoPlayer, got %v", err)
	}
	if err := r.Control(context.Background(), domain.Action("volumeUp")); !errors.Is(err, domain.ErrActionNotAllowed) {
		t.Errorf("expected ErrActionNotAllowed, got %v", err)
	}

	ctrl := gomock.NewController(t)
	r.Register("mpris", mocks.NewMockPlaybackController(ctrl))
	r.Register("mpris", nil)
	if err := r.Raise(context.Background()); !errors.Is(err, domain.ErrNoPlayer) {
		t.Errorf("removed controller: expected ErrNoPlayer, got %v", err)
	}
}
