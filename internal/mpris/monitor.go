package mpris

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/genricoloni/remotectl/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

// Monitor turns MPRIS player signals into domain.Status snapshots
type Monitor struct {
	logger          *zap.Logger
	cfg             domain.Config
	events          chan domain.Status
	mu              sync.RWMutex
	running         bool
	cancel          context.CancelFunc
	dial            func() (DBusClient, error)
	conn            DBusClient        // Interface for testability
	lastDropWarning time.Time         // Rate limiting for "channel full" warnings
	wg              sync.WaitGroup    // Tracks active producer goroutines
	playerNames     map[string]string // Maps unique bus names (:1.45) to well-known names (org.mpris.MediaPlayer2.vlc)
}

// NewMonitor creates a new MPRIS monitor instance
func NewMonitor(logger *zap.Logger, cfg domain.Config) *Monitor {
	return &Monitor{
		logger:      logger,
		cfg:         cfg,
		events:      make(chan domain.Status, 10),
		dial:        func() (DBusClient, error) { return NewStdDBusClient() },
		playerNames: make(map[string]string),
	}
}

// Start begins monitoring the player. It blocks until ctx is cancelled or Stop is called.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = true

	monitorCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.mu.Unlock()

	m.logger.Info("MPRIS monitor started", zap.String("player", m.cfg.PlayerName()))

	// Connect to Session Bus (this may block)
	conn, err := m.dial()
	if err != nil {
		m.logger.Error("Failed to connect to session bus", zap.Error(err))
		// Reset running state on failure
		m.mu.Lock()
		defer m.mu.Unlock()
		m.running = false
		m.cancel = nil
		cancel()
		return fmt.Errorf("session bus connection failed: %w", err)
	}

	// Check if we were stopped while connecting to D-Bus
	select {
	case <-monitorCtx.Done():
		m.logger.Info("Monitor stopped during D-Bus connection")
		if err := conn.Close(); err != nil {
			m.logger.Warn("Failed to close D-Bus connection", zap.Error(err))
		}
		return monitorCtx.Err()
	default:
	}

	// Protect connection assignment with mutex to avoid race with Stop()
	m.mu.Lock()
	m.conn = conn
	m.mu.Unlock()

	// Subscribe before the initial scan so no change between the two is lost
	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(objectPath),
		dbus.WithMatchInterface("org.freedesktop.DBus.Properties"),
		dbus.WithMatchMember("PropertiesChanged"),
	); err != nil {
		m.logger.Error("Failed to add match signal", zap.Error(err))
		return fmt.Errorf("failed to add match signal: %w", err)
	}

	// Track new/removed players dynamically
	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
	); err != nil {
		m.logger.Warn("Failed to add NameOwnerChanged match signal", zap.Error(err))
	} else {
		m.logger.Info("Dynamic player tracking enabled via NameOwnerChanged")
	}

	// Stop closes the events channel once wg drains, so producers must be
	// registered under the lock and only while still running
	m.mu.Lock()
	if err := monitorCtx.Err(); err != nil {
		m.mu.Unlock()
		m.logger.Info("Monitor stopped before player detection")
		return err
	}
	m.wg.Add(2)
	m.mu.Unlock()

	func() {
		defer m.wg.Done()
		if err := m.detectExistingPlayers(); err != nil {
			m.logger.Warn("Failed to detect existing players", zap.Error(err))
		}
	}()

	go m.monitorSignals(monitorCtx)

	<-monitorCtx.Done()

	m.logger.Info("MPRIS monitor stopped")
	return monitorCtx.Err()
}

// Stop gracefully stops the monitor and closes the events channel
func (m *Monitor) Stop(ctx context.Context) error {
	m.mu.Lock()

	if !m.running {
		m.mu.Unlock()
		return nil
	}

	if m.cancel != nil {
		m.cancel()
	}

	m.running = false
	m.mu.Unlock()

	// Producers must be gone before the channel is closed
	m.logger.Debug("Waiting for monitoring goroutines to finish")
	m.wg.Wait()

	close(m.events)

	m.mu.Lock()
	if m.conn != nil {
		if err := m.conn.Close(); err != nil {
			m.logger.Warn("Failed to close D-Bus connection", zap.Error(err))
		}
	}
	m.mu.Unlock()

	m.logger.Info("MPRIS monitor shutdown complete")
	return nil
}

// Events returns a read-only channel of status snapshots
func (m *Monitor) Events() <-chan domain.Status {
	return m.events
}

// follows reports whether snapshots from the given well-known name are wanted
func (m *Monitor) follows(player string) bool {
	return matchesPlayer(m.cfg.PlayerName(), player)
}

// matchesPlayer accepts "vlc" or "org.mpris.MediaPlayer2.vlc" for
// org.mpris.MediaPlayer2.vlc and its instance names (org.mpris.MediaPlayer2.vlc.instance42).
func matchesPlayer(want, player string) bool {
	if want == "" {
		return true
	}
	if !strings.HasPrefix(want, busPrefix) {
		want = busPrefix + want
	}
	return player == want || strings.HasPrefix(player, want+".")
}

// detectExistingPlayers queries D-Bus for currently running MPRIS players
func (m *Monitor) detectExistingPlayers() error {
	names, err := m.conn.ListNames()
	if err != nil {
		return fmt.Errorf("failed to list bus names: %w", err)
	}

	playerCount := 0
	for _, name := range names {
		if !strings.HasPrefix(name, busPrefix) || !m.follows(name) {
			continue
		}
		playerCount++
		m.logger.Info("Detected MPRIS player", zap.String("name", name))

		uniqueName, err := m.conn.GetNameOwner(name)
		if err == nil {
			m.mu.Lock()
			m.playerNames[uniqueName] = name
			m.mu.Unlock()
			m.logger.Debug("Mapped player name",
				zap.String("unique", uniqueName),
				zap.String("wellKnown", name))
		}

		if err := m.fetchPlayerStatus(name); err != nil {
			m.logger.Warn("Failed to fetch initial status",
				zap.String("player", name),
				zap.Error(err))
		}
	}

	m.logger.Info("Player detection complete", zap.Int("count", playerCount))
	return nil
}

// fetchPlayerStatus reads a full snapshot from a player and emits it
func (m *Monitor) fetchPlayerStatus(playerName string) error {
	props := make(map[string]dbus.Variant, len(statusProps))

	variant, err := m.conn.GetProperty(playerName, objectPath, qualified(propMetadata))
	if err != nil {
		return fmt.Errorf("failed to get metadata: %w", err)
	}
	// Some players return an empty variant when nothing is loaded
	if _, ok := variant.Value().(map[string]dbus.Variant); !ok {
		m.logger.Debug("Metadata variant is not a map, skipping", zap.String("player", playerName))
		return nil
	}
	props[propMetadata] = variant

	statusVariant, err := m.conn.GetProperty(playerName, objectPath, qualified(propPlaybackStatus))
	if err != nil {
		return fmt.Errorf("failed to get playback status: %w", err)
	}
	if _, ok := statusVariant.Value().(string); !ok {
		return fmt.Errorf("invalid playback status format")
	}
	props[propPlaybackStatus] = statusVariant

	// Shuffle and LoopStatus are optional in MPRIS
	m.fetchMissing(playerName, props)

	m.emit(m.parseStatus(props, playerName))
	return nil
}

// fetchMissing completes props with the status properties it lacks.
// Properties the player does not implement are left out.
func (m *Monitor) fetchMissing(sender string, props map[string]dbus.Variant) {
	for _, prop := range statusProps {
		if _, ok := props[prop]; ok {
			continue
		}
		variant, err := m.conn.GetProperty(sender, objectPath, qualified(prop))
		if err != nil {
			m.logger.Debug("Property unavailable",
				zap.String("player", sender),
				zap.String("property", prop),
				zap.Error(err))
			continue
		}
		props[prop] = variant
	}
}

// monitorSignals listens for D-Bus signals and processes them
func (m *Monitor) monitorSignals(ctx context.Context) {
	defer m.wg.Done()

	signals := make(chan *dbus.Signal, 10)
	m.conn.Signal(signals)

	m.logger.Info("Signal monitoring goroutine started")

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Signal monitoring goroutine stopped")
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

// handleNameOwnerChanged processes NameOwnerChanged signals to track player lifecycle
func (m *Monitor) handleNameOwnerChanged(sig *dbus.Signal) {
	if len(sig.Body) < 3 {
		return
	}

	name, ok := sig.Body[0].(string)
	if !ok || !strings.HasPrefix(name, busPrefix) || !m.follows(name) {
		return
	}

	oldOwner, _ := sig.Body[1].(string)
	newOwner, _ := sig.Body[2].(string)

	switch {
	case newOwner != "" && oldOwner == "":
		m.mu.Lock()
		m.playerNames[newOwner] = name
		m.mu.Unlock()

		m.logger.Info("New MPRIS player detected",
			zap.String("player", name),
			zap.String("unique", newOwner))

		if err := m.fetchPlayerStatus(name); err != nil {
			m.logger.Warn("Failed to fetch status from new player",
				zap.String("player", name),
				zap.Error(err))
		}
	case newOwner == "" && oldOwner != "":
		m.mu.Lock()
		delete(m.playerNames, oldOwner)
		m.mu.Unlock()

		m.logger.Info("MPRIS player removed",
			zap.String("player", name),
			zap.String("unique", oldOwner))
	case newOwner != "" && oldOwner != "":
		m.mu.Lock()
		delete(m.playerNames, oldOwner)
		m.playerNames[newOwner] = name
		m.mu.Unlock()

		m.logger.Debug("MPRIS player ownership changed",
			zap.String("player", name),
			zap.String("oldUnique", oldOwner),
			zap.String("newUnique", newOwner))
	}
}

// handleSignal processes a PropertiesChanged signal.
// Body: interface name, changed properties, invalidated properties.
func (m *Monitor) handleSignal(sig *dbus.Signal) {
	if sig.Name != "org.freedesktop.DBus.Properties.PropertiesChanged" {
		return
	}

	if len(sig.Body) < 2 {
		return
	}

	interfaceName, ok := sig.Body[0].(string)
	if !ok || interfaceName != playerInterface {
		return
	}

	changedProps, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return
	}

	playerName := m.getPlayerName(sig.Sender)
	if !m.follows(playerName) {
		m.logger.Debug("Ignoring signal from unfollowed player", zap.String("player", playerName))
		return
	}

	m.logger.Debug("Received PropertiesChanged signal",
		zap.String("sender", sig.Sender),
		zap.String("player", playerName),
		zap.Int("properties", len(changedProps)))

	props := make(map[string]dbus.Variant, len(statusProps))
	for _, prop := range statusProps {
		if v, ok := changedProps[prop]; ok {
			props[prop] = v
		}
	}
	if len(props) == 0 {
		return
	}

	if v, ok := props[propMetadata]; ok {
		if _, ok := v.Value().(map[string]dbus.Variant); !ok {
			m.logger.Warn("Invalid metadata format in signal, ignoring")
			return
		}
	}
	if v, ok := props[propPlaybackStatus]; ok {
		if _, ok := v.Value().(string); !ok {
			m.logger.Warn("Invalid playback status format in signal, ignoring")
			return
		}
	}

	// A snapshot is always complete: read whatever did not change
	m.fetchMissing(sig.Sender, props)

	status := m.parseStatus(props, playerName)
	if m.emit(status) {
		m.logger.Info("Player change detected",
			zap.String("player", playerName),
			zap.String("track", status.Track.Name),
			zap.String("state", string(status.State)),
			zap.Bool("random", status.Random),
			zap.Bool("loop", status.Loop),
			zap.Bool("repeat", status.Repeat))
	}
}

// emit sends without blocking; consumers only care about the latest snapshot
func (m *Monitor) emit(status domain.Status) bool {
	select {
	case m.events <- status:
		return true
	default:
		m.logChannelFullWarning()
		return false
	}
}

// getPlayerName returns the well-known player name for a unique bus name
// Falls back to the unique name if no mapping exists
func (m *Monitor) getPlayerName(uniqueName string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if wellKnown, ok := m.playerNames[uniqueName]; ok {
		return wellKnown
	}
	return uniqueName
}

// logChannelFullWarning logs a warning about channel being full, but rate-limited
// to avoid log spam during rapid changes (e.g., fast skipping)
func (m *Monitor) logChannelFullWarning() {
	m.mu.Lock()
	defer m.mu.Unlock()

	const warningInterval = 5 * time.Second
	now := time.Now()

	if now.Sub(m.lastDropWarning) >= warningInterval {
		m.logger.Warn("Events channel full, dropping status",
			zap.String("note", "Expected during rapid track skipping; the next snapshot supersedes it."))
		m.lastDropWarning = now
	}
}
