//go:build linux
// +build linux

package executor

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/genricoloni/lyrical/internal/domain"
	"github.com/genricoloni/lyrical/internal/monitor"
	"go.uber.org/zap"
)

// FallbackCommand is a command line player controller used when the
// session bus cannot be reached
type FallbackCommand struct {
	Name   string
	Binary string
	Verbs  map[domain.Action]string
}

var (
	// Ordered list of fallback commands to try (highest priority first)
	fallbackCommands = []FallbackCommand{
		{Name: "playerctl", Binary: "playerctl", Verbs: map[domain.Action]string{
			domain.ActionPlay:     "play",
			domain.ActionPause:    "pause",
			domain.ActionPlayPrev: "previous",
			domain.ActionPlayNext: "next",
		}},
	}

	methods = map[domain.Action]string{
		domain.ActionPlay:     monitor.PlayerInterface + ".Play",
		domain.ActionPause:    monitor.PlayerInterface + ".Pause",
		domain.ActionPlayPrev: monitor.PlayerInterface + ".Previous",
		domain.ActionPlayNext: monitor.PlayerInterface + ".Next",
	}
)

// MprisExecutor forwards playback commands to an MPRIS player
type MprisExecutor struct {
	logger    *zap.Logger
	selector  PlayerSelector
	preferred string
	dial      func() (monitor.Bus, error)
	command   FallbackCommand

	mu  sync.Mutex
	bus monitor.Bus
}

// NewExecutor creates the MPRIS executor. preferred is the short player name
// (e.g. "spotify") used when no player is active.
func NewExecutor(logger *zap.Logger, selector PlayerSelector, preferred string) (*MprisExecutor, error) {
	cmd := detectCommand()
	if cmd.Binary != "" {
		logger.Info("Fallback player controller detected", zap.String("name", cmd.Name))
	}

	return &MprisExecutor{
		logger:    logger,
		selector:  selector,
		preferred: preferred,
		dial: func() (monitor.Bus, error) {
			return monitor.NewSessionBus()
		},
		command: cmd,
	}, nil
}

// detectCommand returns the first fallback command found in PATH
func detectCommand() FallbackCommand {
	for _, cmd := range fallbackCommands {
		if commandExists(cmd.Binary) {
			return cmd
		}
	}
	return FallbackCommand{}
}

// commandExists checks if a binary exists in PATH
func commandExists(binary string) bool {
	_, err := exec.LookPath(binary)
	return err == nil
}

// Control sends a whitelisted action to the player
func (e *MprisExecutor) Control(ctx context.Context, action domain.Action) error {
	method, ok := methods[action]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrActionNotAllowed, action)
	}

	bus, err := e.connect()
	if err != nil {
		e.logger.Debug("Session bus unavailable, trying fallback", zap.Error(err))
		return e.runFallback(ctx, action)
	}

	player, err := e.resolve(bus)
	if err != nil {
		return err
	}

	e.logger.Debug("Forwarding playback action",
		zap.String("player", player),
		zap.String("method", method))

	if err := bus.Call(ctx, player, method); err != nil {
		return fmt.Errorf("failed to call %s on %s: %w", method, player, err)
	}
	return nil
}

// Raise brings the player window to the front
func (e *MprisExecutor) Raise(ctx context.Context) error {
	bus, err := e.connect()
	if err != nil {
		return fmt.Errorf("session bus connection failed: %w", err)
	}
	player, err := e.resolve(bus)
	if err != nil {
		return err
	}
	if err := bus.Call(ctx, player, monitor.RootInterface+".Raise"); err != nil {
		return fmt.Errorf("failed to raise %s: %w", player, err)
	}
	return nil
}

// Close releases the bus connection
func (e *MprisExecutor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.bus == nil {
		return nil
	}
	err := e.bus.Close()
	e.bus = nil
	return err
}

// connect dials the session bus on first use
func (e *MprisExecutor) connect() (monitor.Bus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.bus != nil {
		return e.bus, nil
	}
	bus, err := e.dial()
	if err != nil {
		return nil, err
	}
	e.bus = bus
	return bus, nil
}

// resolve picks the player to command: the one the monitor follows, then
// the preferred one, then the first on the bus
func (e *MprisExecutor) resolve(bus monitor.Bus) (string, error) {
	if e.selector != nil {
		if player := e.selector.ActivePlayer(); player != "" {
			return player, nil
		}
	}

	names, err := bus.ListNames()
	if err != nil {
		return "", fmt.Errorf("failed to list bus names: %w", err)
	}

	var first string
	for _, name := range names {
		if !strings.HasPrefix(name, monitor.BusPrefix) {
			continue
		}
		if e.preferred != "" && strings.TrimPrefix(name, monitor.BusPrefix) == e.preferred {
			return name, nil
		}
		if first == "" {
			first = name
		}
	}
	if first == "" {
		return "", domain.ErrNoPlayer
	}
	return first, nil
}

func (e *MprisExecutor) runFallback(ctx context.Context, action domain.Action) error {
	if e.command.Binary == "" {
		return domain.ErrNoPlayer
	}
	args := []string{e.command.Verbs[action]}
	if e.preferred != "" {
		args = append([]string{"--player=" + e.preferred}, args...)
	}

	cmd := exec.CommandContext(ctx, e.command.Binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to run %s: %w (output: %s)",
			e.command.Name, err, string(output))
	}
	return nil
}
