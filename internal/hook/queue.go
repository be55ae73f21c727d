package hook

import (
	"context"
	"fmt"
	"sync"

	"github.com/genricoloni/lyrical/internal/domain"
)

// queueSize bounds the pending actions kept for a web player that stopped polling
const queueSize = 32

// ActionQueue is the playback controller of a web player. Actions are queued
// until the player polls GET /control.
type ActionQueue struct {
	mu      sync.Mutex
	actions []domain.Action
	raise   bool
}

// NewActionQueue creates an empty queue
func NewActionQueue() *ActionQueue {
	return &ActionQueue{}
}

// Control queues a whitelisted action. The oldest action is dropped when the queue is full.
func (q *ActionQueue) Control(_ context.Context, action domain.Action) error {
	if !action.Allowed() {
		return fmt.Errorf("queue %q: %w", action, domain.ErrActionNotAllowed)
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.actions) == queueSize {
		q.actions = q.actions[1:]
	}
	q.actions = append(q.actions, action)
	return nil
}

// Raise asks the web player to bring its window forward on the next poll
func (q *ActionQueue) Raise(_ context.Context) error {
	q.mu.Lock()
	q.raise = true
	q.mu.Unlock()
	return nil
}

// Drain returns and clears everything queued so far
func (q *ActionQueue) Drain() ([]domain.Action, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	actions := q.actions
	raise := q.raise
	q.actions = nil
	q.raise = false
	return actions, raise
}
