package domain

import "errors"

var (
	// ErrActionNotAllowed is returned for playback actions outside the whitelist
	ErrActionNotAllowed = errors.New("playback action not allowed")
	// ErrNoPlayer is returned when no media player is available to receive a command
	ErrNoPlayer = errors.New("no media player available")
	// ErrHostStopped is returned when a message is posted to a host that is no longer running
	ErrHostStopped = errors.New("host stopped")
)
