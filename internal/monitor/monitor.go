//go:build linux

package monitor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/genricoloni/lyrical/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const (
	propMetadata = PlayerInterface + ".Metadata"
	propStatus   = PlayerInterface + ".PlaybackStatus"
	propPosition = PlayerInterface + ".Position"

	defaultPollInterval = time.Second
)

// MprisMonitor follows the active MPRIS player on the session bus.
// The active player is the one that most recently reported Playing; updates
// from other players are ignored while it exists.
type MprisMonitor struct {
	logger *zap.Logger
	events chan domain.MediaMetadata
	dial   func() (Bus, error)

	mu              sync.RWMutex
	running         bool
	cancel          context.CancelFunc
	conn            Bus
	lastDropWarning time.Time
	wg              sync.WaitGroup
	players         map[string]string // unique bus name -> well-known name
	active          string            // well-known name of the followed player
	pollInterval    time.Duration
}

// NewMprisMonitor creates a monitor. Nothing is connected until Start.
func NewMprisMonitor(logger *zap.Logger) *MprisMonitor {
	return &MprisMonitor{
		logger: logger,
		events: make(chan domain.MediaMetadata, 10),
		dial: func() (Bus, error) {
			return NewSessionBus()
		},
		players:      make(map[string]string),
		pollInterval: defaultPollInterval,
	}
}

// Start connects to the session bus and follows players until ctx is done
// or Stop is called. It blocks.
func (m *MprisMonitor) Start(ctx context.Context) error {
	runCtx, ok := m.begin(ctx)
	if !ok {
		return nil
	}

	conn, err := m.attach(runCtx)
	if err != nil {
		return err
	}

	// a missing NameOwnerChanged match only loses player appearance tracking
	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(ObjectPath),
		dbus.WithMatchInterface("org.freedesktop.DBus.Properties"),
		dbus.WithMatchMember("PropertiesChanged"),
	); err != nil {
		return fmt.Errorf("failed to watch player properties: %w", err)
	}
	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
	); err != nil {
		m.logger.Warn("Player appearance will not be tracked", zap.Error(err))
	}

	if !m.track(2) {
		return runCtx.Err()
	}
	go m.monitorSignals(runCtx)
	go m.pollPosition(runCtx)

	m.logger.Info("Following MPRIS players", zap.String("active", m.ActivePlayer()))
	<-runCtx.Done()
	m.logger.Info("No longer following MPRIS players")
	return runCtx.Err()
}

// begin marks the monitor as running. It reports false when it already is.
func (m *MprisMonitor) begin(ctx context.Context) (context.Context, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return nil, false
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.running = true
	m.cancel = cancel
	return runCtx, true
}

// attach dials the bus and maps the players already on it
func (m *MprisMonitor) attach(ctx context.Context) (Bus, error) {
	conn, err := m.dial()
	if err != nil {
		m.mu.Lock()
		m.cancel()
		m.running, m.cancel = false, nil
		m.mu.Unlock()
		return nil, fmt.Errorf("session bus connection failed: %w", err)
	}

	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		m.closeBus(conn)
		return nil, context.Canceled
	}
	m.conn = conn
	m.wg.Add(1)
	m.mu.Unlock()

	defer m.wg.Done()
	if err := m.detectExistingPlayers(); err != nil {
		m.logger.Warn("Failed to detect existing players", zap.Error(err))
	}
	return conn, nil
}

// track registers n workers with Stop. It reports false once Stop has begun.
func (m *MprisMonitor) track(n int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return false
	}
	m.wg.Add(n)
	return true
}

// Stop ends monitoring and closes the events channel
func (m *MprisMonitor) Stop(_ context.Context) error {
	m.mu.Lock()
	wasRunning := m.running
	if wasRunning {
		m.cancel()
		m.running = false
	}
	m.mu.Unlock()
	if !wasRunning {
		return nil
	}

	m.wg.Wait()
	close(m.events)

	m.mu.Lock()
	conn := m.conn
	m.conn = nil
	m.mu.Unlock()
	if conn != nil {
		m.closeBus(conn)
	}

	m.logger.Info("MPRIS monitor shutdown complete")
	return nil
}

func (m *MprisMonitor) closeBus(conn Bus) {
	if err := conn.Close(); err != nil {
		m.logger.Warn("Failed to close session bus", zap.Error(err))
	}
}

// Events returns the metadata of the active player as it changes
func (m *MprisMonitor) Events() <-chan domain.MediaMetadata {
	return m.events
}

// ActivePlayer returns the well-known bus name of the followed player, or
// "" when none is known
func (m *MprisMonitor) ActivePlayer() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// detectExistingPlayers maps the players already on the bus and follows
// the first one that is playing, or the first one found
func (m *MprisMonitor) detectExistingPlayers() error {
	names, err := m.conn.ListNames()
	if err != nil {
		return fmt.Errorf("failed to list bus names: %w", err)
	}

	var first string
	var playing *domain.MediaMetadata
	var playingName string
	for _, name := range names {
		if !strings.HasPrefix(name, BusPrefix) {
			continue
		}
		if owner, err := m.conn.GetNameOwner(name); err == nil {
			m.mu.Lock()
			m.players[owner] = name
			m.mu.Unlock()
		}
		if first == "" {
			first = name
		}
		if playing != nil {
			continue
		}
		meta, ok, err := m.readPlayer(name)
		if err != nil {
			m.logger.Warn("Failed to read player", zap.String("player", name), zap.Error(err))
			continue
		}
		if ok && meta.Status == domain.StatusPlaying {
			playing = &meta
			playingName = name
		}
	}

	switch {
	case playing != nil:
		m.setActive(playingName)
		m.emit(*playing)
	case first != "":
		m.setActive(first)
		if meta, ok, err := m.readPlayer(first); err == nil && ok {
			m.emit(meta)
		}
	}

	m.logger.Info("Player detection complete", zap.String("active", m.ActivePlayer()))
	return nil
}

// readPlayer reads metadata, status and position of a player. ok is false
// when the player exposes no usable metadata.
func (m *MprisMonitor) readPlayer(dest string) (domain.MediaMetadata, bool, error) {
	variant, err := m.conn.GetProperty(dest, propMetadata)
	if err != nil {
		return domain.MediaMetadata{}, false, fmt.Errorf("failed to get metadata: %w", err)
	}
	metadata, ok := variant.Value().(map[string]dbus.Variant)
	if !ok {
		return domain.MediaMetadata{}, false, nil
	}

	statusVariant, err := m.conn.GetProperty(dest, propStatus)
	if err != nil {
		return domain.MediaMetadata{}, false, fmt.Errorf("failed to get playback status: %w", err)
	}
	status, ok := statusVariant.Value().(string)
	if !ok {
		return domain.MediaMetadata{}, false, fmt.Errorf("invalid playback status format")
	}

	meta := m.parseMetadata(metadata, status)
	meta.Position = m.readPosition(dest)
	return meta, true, nil
}

// readPosition returns the playback position in seconds, zero when unknown
func (m *MprisMonitor) readPosition(dest string) float64 {
	variant, err := m.conn.GetProperty(dest, propPosition)
	if err != nil {
		return 0
	}
	return microseconds(variant.Value())
}

func (m *MprisMonitor) monitorSignals(ctx context.Context) {
	defer m.wg.Done()

	signals := make(chan *dbus.Signal, 10)
	m.conn.Signal(signals)

	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-signals:
			if sig == nil {
				continue
			}
			if sig.Name == "org.freedesktop.DBus.NameOwnerChanged" {
				m.handleNameOwnerChanged(sig)
			} else {
				m.handleSignal(sig)
			}
		}
	}
}

// pollPosition refreshes the active player while it plays. MPRIS does not
// signal position changes.
func (m *MprisMonitor) pollPosition(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.refreshActive()
		}
	}
}

func (m *MprisMonitor) refreshActive() {
	active := m.ActivePlayer()
	if active == "" {
		return
	}
	meta, ok, err := m.readPlayer(active)
	if err != nil {
		m.logger.Debug("Failed to refresh player", zap.String("player", active), zap.Error(err))
		return
	}
	if ok && meta.Status == domain.StatusPlaying {
		m.emit(meta)
	}
}

func (m *MprisMonitor) handleNameOwnerChanged(sig *dbus.Signal) {
	if len(sig.Body) < 3 {
		return
	}
	name, ok := sig.Body[0].(string)
	if !ok || !strings.HasPrefix(name, BusPrefix) {
		return
	}
	oldOwner, _ := sig.Body[1].(string)
	newOwner, _ := sig.Body[2].(string)

	m.mu.Lock()
	defer m.mu.Unlock()

	if oldOwner != "" {
		delete(m.players, oldOwner)
	}
	if newOwner != "" {
		m.players[newOwner] = name
		m.logger.Info("MPRIS player appeared", zap.String("player", name))
		return
	}

	m.logger.Info("MPRIS player removed", zap.String("player", name))
	if m.active == name {
		m.active = ""
	}
}

// handleSignal processes PropertiesChanged from a player
func (m *MprisMonitor) handleSignal(sig *dbus.Signal) {
	if sig.Name != "org.freedesktop.DBus.Properties.PropertiesChanged" || len(sig.Body) < 2 {
		return
	}
	if iface, ok := sig.Body[0].(string); !ok || iface != PlayerInterface {
		return
	}
	changed, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return
	}

	metadataVariant, hasMetadata := changed["Metadata"]
	statusVariant, hasStatus := changed["PlaybackStatus"]
	if !hasMetadata && !hasStatus {
		return
	}

	var metadata map[string]dbus.Variant
	if hasMetadata {
		if metadata, ok = metadataVariant.Value().(map[string]dbus.Variant); !ok {
			m.logger.Warn("Invalid metadata format in signal, ignoring")
			return
		}
	}

	var status string
	if hasStatus {
		if status, ok = statusVariant.Value().(string); !ok {
			m.logger.Warn("Invalid playback status format in signal, ignoring")
			return
		}
	} else if v, err := m.conn.GetProperty(sig.Sender, propStatus); err == nil {
		status, _ = v.Value().(string)
	}

	player := m.playerName(sig.Sender)
	active := m.ActivePlayer()
	switch {
	case status == "Playing":
		if player != active {
			m.logger.Info("Following player", zap.String("player", player))
		}
		m.setActive(player)
	case active != "" && player != active:
		return
	case active == "":
		m.setActive(player)
	}

	if !hasMetadata {
		if v, err := m.conn.GetProperty(sig.Sender, propMetadata); err == nil {
			metadata, _ = v.Value().(map[string]dbus.Variant)
		}
	}

	meta := m.parseMetadata(metadata, status)
	meta.Position = m.readPosition(sig.Sender)
	m.emit(meta)
}

// parseMetadata converts MPRIS metadata to the domain model
func (m *MprisMonitor) parseMetadata(metadata map[string]dbus.Variant, status string) domain.MediaMetadata {
	var meta domain.MediaMetadata

	switch status {
	case "Playing":
		meta.Status = domain.StatusPlaying
	case "Paused":
		meta.Status = domain.StatusPaused
	default:
		meta.Status = domain.StatusStopped
	}

	if metadata == nil {
		return meta
	}

	if v, ok := metadata["xesam:title"]; ok {
		meta.Title, _ = v.Value().(string)
	}
	if v, ok := metadata["xesam:artist"]; ok {
		switch artists := v.Value().(type) {
		case []string:
			meta.Artist = strings.Join(artists, ", ")
		case string:
			meta.Artist = artists
		default:
			m.logger.Debug("Unexpected artist type in metadata",
				zap.String("type", fmt.Sprintf("%T", v.Value())))
		}
	}
	if v, ok := metadata["xesam:album"]; ok {
		meta.Album, _ = v.Value().(string)
	}
	if v, ok := metadata["mpris:artUrl"]; ok {
		meta.ArtUrl, _ = v.Value().(string)
	}
	if v, ok := metadata["mpris:length"]; ok {
		meta.Length = microseconds(v.Value())
	}
	return meta
}

// microseconds converts an MPRIS time value to seconds. Players disagree
// on the integer type.
func microseconds(v any) float64 {
	switch us := v.(type) {
	case int64:
		return float64(us) / 1e6
	case uint64:
		return float64(us) / 1e6
	case int32:
		return float64(us) / 1e6
	case uint32:
		return float64(us) / 1e6
	case float64:
		return us / 1e6
	}
	return 0
}

func (m *MprisMonitor) setActive(name string) {
	m.mu.Lock()
	m.active = name
	m.mu.Unlock()
}

// playerName returns the well-known name for a unique bus name
func (m *MprisMonitor) playerName(unique string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if name, ok := m.players[unique]; ok {
		return name
	}
	return unique
}

// emit sends meta without blocking. Dropped events are replaced by the next
// poll, so losing one is harmless.
func (m *MprisMonitor) emit(meta domain.MediaMetadata) {
	select {
	case m.events <- meta:
		m.logger.Debug("Media update",
			zap.String("title", meta.Title),
			zap.String("status", string(meta.Status)),
			zap.Float64("position", meta.Position))
	default:
		m.logChannelFullWarning()
	}
}

// logChannelFullWarning is rate limited to avoid log spam while skipping tracks
func (m *MprisMonitor) logChannelFullWarning() {
	m.mu.Lock()
	defer m.mu.Unlock()

	const warningInterval = 5 * time.Second
	now := time.Now()
	if now.Sub(m.lastDropWarning) >= warningInterval {
		m.logger.Warn("Events channel full, dropping metadata")
		m.lastDropWarning = now
	}
}
