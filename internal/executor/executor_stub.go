//go:build !linux
// +build !linux

package executor

import (
	"context"
	"fmt"

	"github.com/genricoloni/lyrical/internal/domain"
	"go.uber.org/zap"
)

// StubExecutor is a placeholder for platforms without MPRIS
type StubExecutor struct {
	logger *zap.Logger
}

// NewExecutor creates a stub executor for unsupported platforms
func NewExecutor(logger *zap.Logger, _ PlayerSelector, _ string) (*StubExecutor, error) {
	logger.Warn("Desktop player control is not implemented for this platform")
	return &StubExecutor{logger: logger}, nil
}

// Control returns domain.ErrNoPlayer for whitelisted actions
func (e *StubExecutor) Control(ctx context.Context, action domain.Action) error {
	if !action.Allowed() {
		return fmt.Errorf("%w: %s", domain.ErrActionNotAllowed, action)
	}
	return domain.ErrNoPlayer
}

// Raise returns domain.ErrNoPlayer
func (e *StubExecutor) Raise(ctx context.Context) error {
	return domain.ErrNoPlayer
}

// Close is a no-op
func (e *StubExecutor) Close() error {
	return nil
}
