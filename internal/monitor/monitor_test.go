//go:build linux

package monitor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/genricoloni/lyrical/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

func propertiesChanged(sender string, props map[string]dbus.Variant) *dbus.Signal {
	return &dbus.Signal{
		Name:   "org.freedesktop.DBus.Properties.PropertiesChanged",
		Sender: sender,
		Body:   []interface{}{PlayerInterface, props, []string{}},
	}
}

func newTestMonitor() *MprisMonitor {
	mon := NewMprisMonitor(zap.NewNop())
	mon.conn = &noopBus{}
	mon.running = true
	return mon
}

func expectEvent(t *testing.T, mon *MprisMonitor) domain.MediaMetadata {
	t.Helper()
	select {
	case event := <-mon.Events():
		return event
	case <-time.After(time.Second):
		t.Fatal("Timeout: event was not emitted")
	}
	return domain.MediaMetadata{}
}

func expectNoEvent(t *testing.T, mon *MprisMonitor) {
	t.Helper()
	select {
	case event := <-mon.Events():
		t.Errorf("Should NOT emit event, got %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHandleSignal_HappyPath(t *testing.T) {
	mon := newTestMonitor()
	mon.players = map[string]string{":1.100": "org.mpris.MediaPlayer2.spotify"}

	mon.handleSignal(propertiesChanged(":1.100", map[string]dbus.Variant{
		"Metadata": dbus.MakeVariant(map[string]dbus.Variant{
			"xesam:title":  dbus.MakeVariant("Bohemian Rhapsody"),
			"xesam:artist": dbus.MakeVariant([]string{"Queen"}),
			"mpris:artUrl": dbus.MakeVariant("https://example.com/cover.jpg"),
			"mpris:length": dbus.MakeVariant(int64(354_000_000)),
		}),
		"PlaybackStatus": dbus.MakeVariant("Playing"),
	}))

	event := expectEvent(t, mon)
	if event.Title != "Bohemian Rhapsody" || event.Artist != "Queen" {
		t.Errorf("unexpected track %q by %q", event.Title, event.Artist)
	}
	if event.Status != domain.StatusPlaying {
		t.Errorf("Status: expected Playing, got %v", event.Status)
	}
	if event.Length != 354 {
		t.Errorf("Length: expected 354s, got %v", event.Length)
	}
	if got := mon.ActivePlayer(); got != "org.mpris.MediaPlayer2.spotify" {
		t.Errorf("active player: expected spotify, got %q", got)
	}
}

func TestHandleSignal_EdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		signal *dbus.Signal
	}{
		{
			name:   "Wrong Signal Name",
			signal: &dbus.Signal{Name: "org.freedesktop.DBus.SomeOtherSignal", Body: []interface{}{}},
		},
		{
			name: "Wrong Interface",
			signal: &dbus.Signal{
				Name: "org.freedesktop.DBus.Properties.PropertiesChanged",
				Body: []interface{}{RootInterface, map[string]dbus.Variant{}, []string{}},
			},
		},
		{
			name: "Short Body",
			signal: &dbus.Signal{
				Name: "org.freedesktop.DBus.Properties.PropertiesChanged",
				Body: []interface{}{PlayerInterface},
			},
		},
		{
			name:   "Unrelated Property",
			signal: propertiesChanged(":1.5", map[string]dbus.Variant{"Volume": dbus.MakeVariant(0.5)}),
		},
		{
			name:   "Invalid Metadata Type",
			signal: propertiesChanged(":1.5", map[string]dbus.Variant{"Metadata": dbus.MakeVariant(12345)}),
		},
		{
			name: "Invalid PlaybackStatus Type",
			signal: propertiesChanged(":1.5", map[string]dbus.Variant{
				"PlaybackStatus": dbus.MakeVariant([]string{"Playing"}),
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mon := newTestMonitor()
			mon.handleSignal(tt.signal)
			expectNoEvent(t, mon)
		})
	}
}

func TestHandleSignal_DataVariations(t *testing.T) {
	tests := []struct {
		name  string
		props map[string]dbus.Variant
		check func(*testing.T, domain.MediaMetadata)
	}{
		{
			name: "Artist as String",
			props: map[string]dbus.Variant{
				"Metadata": dbus.MakeVariant(map[string]dbus.Variant{
					"xesam:artist": dbus.MakeVariant("Single Artist"),
				}),
				"PlaybackStatus": dbus.MakeVariant("Playing"),
			},
			check: func(t *testing.T, e domain.MediaMetadata) {
				if e.Artist != "Single Artist" {
					t.Errorf("Expected 'Single Artist', got '%s'", e.Artist)
				}
			},
		},
		{
			name: "Several Artists",
			props: map[string]dbus.Variant{
				"Metadata": dbus.MakeVariant(map[string]dbus.Variant{
					"xesam:artist": dbus.MakeVariant([]string{"Simon", "Garfunkel"}),
				}),
				"PlaybackStatus": dbus.MakeVariant("Playing"),
			},
			check: func(t *testing.T, e domain.MediaMetadata) {
				if e.Artist != "Simon, Garfunkel" {
					t.Errorf("Expected joined artists, got '%s'", e.Artist)
				}
			},
		},
		{
			name: "Unsigned Length",
			props: map[string]dbus.Variant{
				"Metadata": dbus.MakeVariant(map[string]dbus.Variant{
					"mpris:length": dbus.MakeVariant(uint64(90_500_000)),
				}),
				"PlaybackStatus": dbus.MakeVariant("Playing"),
			},
			check: func(t *testing.T, e domain.MediaMetadata) {
				if e.Length != 90.5 {
					t.Errorf("Expected 90.5s, got %v", e.Length)
				}
			},
		},
		{
			name:  "Status Paused",
			props: map[string]dbus.Variant{"PlaybackStatus": dbus.MakeVariant("Paused")},
			check: func(t *testing.T, e domain.MediaMetadata) {
				if e.Status != domain.StatusPaused {
					t.Errorf("Expected Paused, got %v", e.Status)
				}
			},
		},
		{
			name:  "Status Stopped",
			props: map[string]dbus.Variant{"PlaybackStatus": dbus.MakeVariant("Stopped")},
			check: func(t *testing.T, e domain.MediaMetadata) {
				if e.Status != domain.StatusStopped {
					t.Errorf("Expected Stopped, got %v", e.Status)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mon := newTestMonitor()
			mon.handleSignal(propertiesChanged(":1.99", tt.props))
			tt.check(t, expectEvent(t, mon))
		})
	}
}

func TestHandleSignal_FollowsPlayingPlayer(t *testing.T) {
	mon := newTestMonitor()
	mon.players = map[string]string{
		":1.1": "org.mpris.MediaPlayer2.spotify",
		":1.2": "org.mpris.MediaPlayer2.vlc",
	}

	mon.handleSignal(propertiesChanged(":1.1", map[string]dbus.Variant{"PlaybackStatus": dbus.MakeVariant("Playing")}))
	expectEvent(t, mon)

	// A paused background player must not steal the display
	mon.handleSignal(propertiesChanged(":1.2", map[string]dbus.Variant{"PlaybackStatus": dbus.MakeVariant("Paused")}))
	expectNoEvent(t, mon)
	if got := mon.ActivePlayer(); got != "org.mpris.MediaPlayer2.spotify" {
		t.Fatalf("expected spotify to stay active, got %q", got)
	}

	mon.handleSignal(propertiesChanged(":1.2", map[string]dbus.Variant{"PlaybackStatus": dbus.MakeVariant("Playing")}))
	expectEvent(t, mon)
	if got := mon.ActivePlayer(); got != "org.mpris.MediaPlayer2.vlc" {
		t.Errorf("expected vlc to become active, got %q", got)
	}
}

func TestHandleNameOwnerChanged(t *testing.T) {
	tests := []struct {
		name         string
		signalBody   []interface{}
		unique       string
		expectMapped bool
	}{
		{
			name:         "New Player Appears",
			signalBody:   []interface{}{"org.mpris.MediaPlayer2.spotify", "", ":1.50"},
			unique:       ":1.50",
			expectMapped: true,
		},
		{
			name:       "Player Disappears",
			signalBody: []interface{}{"org.mpris.MediaPlayer2.spotify", ":1.50", ""},
			unique:     ":1.50",
		},
		{
			name:       "Non-MPRIS Service Ignored",
			signalBody: []interface{}{"com.example.service", "", ":1.99"},
			unique:     ":1.99",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mon := newTestMonitor()
			if !tt.expectMapped {
				mon.players[":1.50"] = "org.mpris.MediaPlayer2.spotify"
				mon.active = "org.mpris.MediaPlayer2.spotify"
			}

			mon.handleNameOwnerChanged(&dbus.Signal{
				Name: "org.freedesktop.DBus.NameOwnerChanged",
				Body: tt.signalBody,
			})

			mon.mu.RLock()
			_, exists := mon.players[tt.unique]
			active := mon.active
			mon.mu.RUnlock()

			if exists != tt.expectMapped {
				t.Errorf("mapping for %s: expected %v, got %v", tt.unique, tt.expectMapped, exists)
			}
			if tt.name == "Player Disappears" && active != "" {
				t.Errorf("removed player must not stay active, got %q", active)
			}
		})
	}
}

func TestPlayerName(t *testing.T) {
	mon := NewMprisMonitor(zap.NewNop())
	mon.players = map[string]string{":1.100": "org.mpris.MediaPlayer2.spotify"}

	tests := []struct {
		input    string
		expected string
	}{
		{":1.100", "org.mpris.MediaPlayer2.spotify"},
		{":1.999", ":1.999"},
	}
	for _, tt := range tests {
		if got := mon.playerName(tt.input); got != tt.expected {
			t.Errorf("playerName(%s): expected %s, got %s", tt.input, tt.expected, got)
		}
	}
}

func TestMicroseconds(t *testing.T) {
	tests := []struct {
		in       any
		expected float64
	}{
		{int64(1_500_000), 1.5},
		{uint64(2_000_000), 2},
		{int32(500_000), 0.5},
		{"nope", 0},
		{nil, 0},
	}
	for _, tt := range tests {
		if got := microseconds(tt.in); got != tt.expected {
			t.Errorf("microseconds(%v): expected %v, got %v", tt.in, tt.expected, got)
		}
	}
}

func TestEmit_DropsWhenFull(t *testing.T) {
	mon := newTestMonitor()
	for i := 0; i < cap(mon.events)+5; i++ {
		mon.emit(domain.MediaMetadata{Title: fmt.Sprint(i)})
	}
	if len(mon.events) != cap(mon.events) {
		t.Errorf("expected a full channel, got %d", len(mon.events))
	}
}

// noopBus fails every property read, like a player that has just gone away
type noopBus struct{}

func (n *noopBus) Close() error                              { return nil }
func (n *noopBus) AddMatchSignal(...dbus.MatchOption) error  { return nil }
func (n *noopBus) Signal(chan<- *dbus.Signal)                {}
func (n *noopBus) ListNames() ([]string, error)              { return []string{}, nil }
func (n *noopBus) GetNameOwner(string) (string, error)       { return "", fmt.Errorf("noop") }
func (n *noopBus) Call(_ context.Context, _, _ string) error { return fmt.Errorf("noop") }
func (n *noopBus) GetProperty(string, string) (dbus.Variant, error) {
	return dbus.MakeVariant(""), fmt.Errorf("noop")
}
