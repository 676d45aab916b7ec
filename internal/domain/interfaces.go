package domain

import (
	"context"
	"time"
)

// Monitor defines the interface for monitoring the remote player
// Implementations should handle D-Bus/MPRIS communication
type Monitor interface {
	// Start begins monitoring for player events
	// It should block until context is cancelled or an error occurs
	Start(ctx context.Context) error

	// Stop gracefully stops the monitor
	Stop(ctx context.Context) error

	// Events returns a read-only channel that emits a Status snapshot
	// whenever the player state changes
	Events() <-chan Status
}

// CommandClient issues playback commands to the remote player.
// Every method returns immediately; delivery failures are not reported.
//
//go:generate mockgen -destination=mocks/command_client_mock.go -package=mocks github.com/genricoloni/remotectl/internal/domain CommandClient
type CommandClient interface {
	ToggleRandom()
	ToggleLoop()
	ToggleRepeat()
	// Seek moves the playback position by a signed offset
	Seek(offset time.Duration)
}

// Subscription is a scoped registration on a StatusDistributor.
// It must be closed when the consumer stops handling snapshots.
type Subscription interface {
	// Statuses delivers snapshots; the channel is closed after Close
	Statuses() <-chan Status

	// Close releases the subscription, it is safe to call more than once
	Close() error
}

// StatusDistributor delivers status snapshots to interested consumers
type StatusDistributor interface {
	Subscribe() (Subscription, error)
}

// ModeView receives playback mode refreshes
type ModeView interface {
	ShowMode(ModeIndicator)
}

// MediaView receives media display refreshes
type MediaView interface {
	ShowMedia(DisplayText)
}

// Config defines the interface for application configuration
type Config interface {
	// SeekIncrement returns the configured seek step
	SeekIncrement() time.Duration

	// PlayerName returns the MPRIS bus name to follow, empty for any player
	PlayerName() string
}
