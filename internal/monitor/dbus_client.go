package monitor

import (
	"context"

	"github.com/godbus/dbus/v5"
)

const (
	// BusPrefix is the well-known name prefix of every MPRIS player
	BusPrefix = "org.mpris.MediaPlayer2."
	// ObjectPath is where MPRIS players export their interfaces
	ObjectPath = "/org/mpris/MediaPlayer2"
	// PlayerInterface is the MPRIS playback interface
	PlayerInterface = "org.mpris.MediaPlayer2.Player"
	// RootInterface is the MPRIS application interface (Raise, Quit)
	RootInterface = "org.mpris.MediaPlayer2"
)

// Bus is the slice of D-Bus the MPRIS monitor and controller need.
// It exists so tests can replace the session bus.
//
//go:generate mockgen -destination=mocks/bus_mock.go -package=mocks github.com/genricoloni/lyrical/internal/monitor Bus
type Bus interface {
	// Close closes the connection
	Close() error

	// AddMatchSignal adds a signal match rule
	AddMatchSignal(options ...dbus.MatchOption) error

	// Signal registers a channel to receive signals
	Signal(ch chan<- *dbus.Signal)

	// ListNames returns all names on the bus
	ListNames() ([]string, error)

	// GetNameOwner returns the unique name owning a well-known name
	GetNameOwner(name string) (string, error)

	// GetProperty reads a property of the MPRIS object of dest,
	// e.g. "org.mpris.MediaPlayer2.Player.Metadata"
	GetProperty(dest, prop string) (dbus.Variant, error)

	// Call invokes a method without arguments on the MPRIS object of dest
	Call(ctx context.Context, dest, method string) error
}

// SessionBus is a private connection to the session bus
type SessionBus struct {
	conn *dbus.Conn
}

// NewSessionBus opens a private session bus connection, so that closing it
// does not affect other users of the shared one
func NewSessionBus() (*SessionBus, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	return &SessionBus{conn: conn}, nil
}

// Close closes the connection
func (b *SessionBus) Close() error {
	return b.conn.Close()
}

// AddMatchSignal adds a signal match rule
func (b *SessionBus) AddMatchSignal(options ...dbus.MatchOption) error {
	return b.conn.AddMatchSignal(options...)
}

// Signal registers a channel to receive signals
func (b *SessionBus) Signal(ch chan<- *dbus.Signal) {
	b.conn.Signal(ch)
}

// ListNames returns all names on the bus
func (b *SessionBus) ListNames() ([]string, error) {
	var names []string
	err := b.conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names)
	return names, err
}

// GetNameOwner returns the unique name owning a well-known name
func (b *SessionBus) GetNameOwner(name string) (string, error) {
	var owner string
	err := b.conn.BusObject().Call("org.freedesktop.DBus.GetNameOwner", 0, name).Store(&owner)
	return owner, err
}

// GetProperty reads a property of the MPRIS object of dest
func (b *SessionBus) GetProperty(dest, prop string) (dbus.Variant, error) {
	return b.conn.Object(dest, ObjectPath).GetProperty(prop)
}

// Call invokes a method on the MPRIS object of dest
func (b *SessionBus) Call(ctx context.Context, dest, method string) error {
	return b.conn.Object(dest, ObjectPath).CallWithContext(ctx, method, 0).Err
}
