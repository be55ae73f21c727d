// Package mpd follows a Music Player Daemon by polling its status, and
// forwards playback commands to it
package mpd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fhs/gompd/mpd"
	"github.com/genricoloni/lyrical/internal/domain"
	"go.uber.org/zap"
)

const (
	// Source tags pushes made by the MPD player
	Source = "mpd"

	defaultPollInterval = time.Second
)

// Conn is the part of an MPD connection the player uses
type Conn interface {
	Status() (mpd.Attrs, error)
	CurrentSong() (mpd.Attrs, error)
	Play(pos int) error
	Pause(pause bool) error
	Next() error
	Previous() error
	Close() error
}

// SongSink receives song pushes
type SongSink interface {
	Push(source string, patch domain.SongPatch)
}

// state is what a poll observed; pushes happen when it changes or while playing
type state struct {
	title   string
	artist  string
	playing bool
	elapsed float64
}

// Player polls MPD and implements domain.PlaybackController
type Player struct {
	logger   *zap.Logger
	address  string
	sink     SongSink
	interval time.Duration
	dial     func() (Conn, error)

	mu   sync.Mutex
	conn Conn
	last state

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a player for the MPD at address. An empty address disables it.
func New(logger *zap.Logger, address, password string, sink SongSink) *Player {
	return &Player{
		logger:   logger,
		address:  address,
		sink:     sink,
		interval: defaultPollInterval,
		dial: func() (Conn, error) {
			if password != "" {
				return mpd.DialAuthenticated("tcp", address, password)
			}
			return mpd.Dial("tcp", address)
		},
	}
}

// Enabled reports whether an address is configured
func (p *Player) Enabled() bool {
	return p.address != ""
}

// Start launches polling in the background. It returns immediately.
func (p *Player) Start(_ context.Context) error {
	if !p.Enabled() {
		p.logger.Info("MPD player disabled")
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	p.logger.Info("MPD player starting", zap.String("address", p.address))
	p.wg.Add(1)
	go p.loop(ctx)
	return nil
}

// Stop ends polling and closes the connection
func (p *Player) Stop(_ context.Context) error {
	if p.cancel == nil {
		return nil
	}
	p.cancel()
	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.disconnect()
	return nil
}

func (p *Player) loop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.poll()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// poll reads the MPD status once and pushes it when relevant
func (p *Player) poll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := p.connect()
	if err != nil {
		p.logger.Debug("MPD unreachable", zap.Error(err))
		return
	}

	status, err := conn.Status()
	if err != nil {
		p.logger.Debug("MPD status failed, reconnecting", zap.Error(err))
		p.disconnect()
		return
	}
	song, err := conn.CurrentSong()
	if err != nil {
		p.logger.Debug("MPD current song failed, reconnecting", zap.Error(err))
		p.disconnect()
		return
	}

	cur := state{
		title:   song["Title"],
		artist:  song["Artist"],
		playing: status["state"] == "play",
		elapsed: parseSeconds(status["elapsed"]),
	}
	if cur.title == "" {
		cur.title = song["file"]
	}
	if cur == p.last && !cur.playing {
		return
	}

	patch := domain.SongPatch{
		Title:       &cur.title,
		Artist:      &cur.artist,
		IsPlaying:   &cur.playing,
		CurrentTime: &cur.elapsed,
	}
	if d := duration(status); d > 0 {
		patch.Duration = &d
	}
	if cur.title != p.last.title || cur.artist != p.last.artist {
		empty := ""
		patch.LyricText = &empty
		patch.LyricTrans = &empty
		patch.HasTimings = true
	}

	p.last = cur
	p.sink.Push(Source, patch)
}

// connect returns the open connection, dialing when there is none.
// The caller holds mu.
func (p *Player) connect() (Conn, error) {
	if p.conn != nil {
		return p.conn, nil
	}
	conn, err := p.dial()
	if err != nil {
		return nil, fmt.Errorf("failed to dial mpd at %s: %w", p.address, err)
	}
	p.conn = conn
	return conn, nil
}

// disconnect drops the connection. The caller holds mu.
func (p *Player) disconnect() {
	if p.conn == nil {
		return
	}
	if err := p.conn.Close(); err != nil {
		p.logger.Debug("Failed to close MPD connection", zap.Error(err))
	}
	p.conn = nil
}

// Control sends a whitelisted action to MPD
func (p *Player) Control(_ context.Context, action domain.Action) error {
	if !action.Allowed() {
		return fmt.Errorf("%w: %s", domain.ErrActionNotAllowed, action)
	}
	if !p.Enabled() {
		return domain.ErrNoPlayer
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := p.connect()
	if err != nil {
		return err
	}

	switch action {
	case domain.ActionPlay:
		err = conn.Play(-1)
	case domain.ActionPause:
		err = conn.Pause(true)
	case domain.ActionPlayPrev:
		err = conn.Previous()
	case domain.ActionPlayNext:
		err = conn.Next()
	}
	if err != nil {
		p.disconnect()
		return fmt.Errorf("mpd %s failed: %w", action, err)
	}
	return nil
}

// Raise always fails: MPD has no window
func (p *Player) Raise(_ context.Context) error {
	return fmt.Errorf("mpd has no window: %w", domain.ErrNoPlayer)
}

// duration reads the track length from "duration", or from the older
// "time" attribute formatted as elapsed:total
func duration(status mpd.Attrs) float64 {
	if d := parseSeconds(status["duration"]); d > 0 {
		return d
	}
	if _, total, ok := strings.Cut(status["time"], ":"); ok {
		return parseSeconds(total)
	}
	return 0
}

func parseSeconds(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
