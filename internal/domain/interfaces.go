package domain

import (
	"context"
	"time"

	"github.com/genricoloni/lyrical/internal/geometry"
)

// Monitor defines the interface for monitoring media playback events
// Implementations should handle D-Bus/MPRIS communication
type Monitor interface {
	// Start begins monitoring for media events
	// It should block until context is cancelled or an error occurs
	Start(ctx context.Context) error

	// Stop gracefully stops the monitor
	Stop(ctx context.Context) error

	// Events returns a read-only channel that emits MediaMetadata
	// when media playback state changes
	Events() <-chan MediaMetadata
}

// Fetcher defines the interface for retrieving album artwork
type Fetcher interface {
	// Fetch downloads or reads image data from a URL or local path
	// Returns the raw image bytes or an error
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// IconProcessor turns album artwork into a tray icon
type IconProcessor interface {
	// Icon returns PNG bytes of a square icon built from imageData.
	// A dimmed icon is greyed out for paused playback.
	Icon(ctx context.Context, imageData []byte, dimmed bool) ([]byte, error)

	// Default returns the icon shown when no artwork is available
	Default() ([]byte, error)
}

// PlaybackController forwards playback commands to the player
type PlaybackController interface {
	// Control sends a whitelisted action to the player
	Control(ctx context.Context, action Action) error

	// Raise brings the player window to the front
	Raise(ctx context.Context) error
}

// Display answers display topology questions.
// Answers are never cached by callers beyond a single gesture step.
type Display interface {
	// DisplayAt returns the bounds of the monitor containing p.
	// When no monitor contains p the nearest one is returned.
	DisplayAt(p geometry.Point) geometry.Rect

	// Primary returns the bounds of the primary monitor
	Primary() geometry.Rect
}

// Surface is the platform window showing the overlay.
// Only the host calls its setters.
//
//go:generate mockgen -destination=mocks/surface_mock.go -package=mocks github.com/genricoloni/lyrical/internal/domain Surface,SurfaceFactory,Display,PlaybackController
type Surface interface {
	// SetBounds moves and resizes the window
	SetBounds(r geometry.Rect)

	// SetIgnoreMouseEvents toggles pointer pass-through
	SetIgnoreMouseEvents(ignore bool)

	// Show makes the window visible
	Show()

	// Hide hides the window without destroying it
	Hide()

	// Send delivers a notification to the overlay running inside the window
	Send(n Notification)
}

// SurfaceEvents receives platform events from a surface
type SurfaceEvents interface {
	// SurfaceResized reports the size the platform observed
	SurfaceResized(size geometry.Size)

	// SurfaceVisibility reports show/hide transitions
	SurfaceVisibility(visible bool)

	// SurfaceClosed reports that the window was destroyed
	SurfaceClosed()
}

// Requester accepts overlay requests
type Requester interface {
	Request(req Request)
}

// SurfaceOwner is the side that owns a surface: it receives platform events
// and the overlay's requests
type SurfaceOwner interface {
	SurfaceEvents
	Requester
}

// SurfaceFactory creates the overlay surface on demand
type SurfaceFactory interface {
	Create(bounds geometry.Rect, owner SurfaceOwner) (Surface, error)
}

// HostSnapshot is a read-only copy of the host state
type HostSnapshot struct {
	Song            SongState
	Bounds          geometry.Rect
	OverlayVisible  bool
	ShowTranslation bool
	Locked          bool
}

// StateObserver is notified after every host state mutation
type StateObserver interface {
	StateChanged(snap HostSnapshot)
}

// Config defines the interface for application configuration
type Config interface {
	// GetListenAddr returns the address of the web-player hook server
	GetListenAddr() string

	// GetStateFile returns the path of the persisted overlay state
	GetStateFile() string

	// GetGuardDelay returns how long a self-initiated resize suppresses drift correction
	GetGuardDelay() time.Duration

	// GetOverlaySize returns the default overlay size
	GetOverlaySize() geometry.Size

	// GetIconSize returns the tray icon edge in pixels
	GetIconSize() int

	// ShowOnStart reports whether the overlay is shown at startup
	ShowOnStart() bool

	// MprisEnabled reports whether desktop players are followed over D-Bus
	MprisEnabled() bool

	// GetPreferredPlayer returns the player commanded when none is active
	GetPreferredPlayer() string
}
