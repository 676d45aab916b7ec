package mpris

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/genricoloni/remotectl/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const commandQueueSize = 16

var errNoPlayer = errors.New("no MPRIS player available")

type command struct {
	name string
	run  func(conn DBusClient, player string) error
}

// Commander sends playback commands to the player. Calls return at once;
// a single worker delivers them in order and only logs failures.
type Commander struct {
	logger *zap.Logger
	cfg    domain.Config
	dial   func() (DBusClient, error)
	queue  chan command
	wg     sync.WaitGroup

	mu      sync.Mutex
	stopped bool
	conn    DBusClient // owned by the worker once started
}

// NewCommander creates a command client. Commands queue until Start is called.
func NewCommander(logger *zap.Logger, cfg domain.Config) *Commander {
	return &Commander{
		logger: logger,
		cfg:    cfg,
		dial:   func() (DBusClient, error) { return NewStdDBusClient() },
		queue:  make(chan command, commandQueueSize),
	}
}

// Start launches the delivery worker
func (c *Commander) Start(ctx context.Context) error {
	c.wg.Add(1)
	go c.work()
	c.logger.Info("Command client started")
	return nil
}

// Stop drains queued commands and closes the D-Bus connection
func (c *Commander) Stop(ctx context.Context) error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return nil
	}
	c.stopped = true
	close(c.queue)
	c.mu.Unlock()

	c.wg.Wait()

	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			return fmt.Errorf("failed to close D-Bus connection: %w", err)
		}
	}
	c.logger.Info("Command client stopped")
	return nil
}

// ToggleRandom flips the player's Shuffle property
func (c *Commander) ToggleRandom() {
	c.enqueue(command{name: "toggle-random", run: toggleShuffle})
}

// ToggleLoop switches LoopStatus between Playlist and None
func (c *Commander) ToggleLoop() {
	c.enqueue(command{name: "toggle-loop", run: toggleLoopStatus(loopPlaylist)})
}

// ToggleRepeat switches LoopStatus between Track and None
func (c *Commander) ToggleRepeat() {
	c.enqueue(command{name: "toggle-repeat", run: toggleLoopStatus(loopTrack)})
}

// Seek moves the playback position by offset, negative values seek backwards
func (c *Commander) Seek(offset time.Duration) {
	c.enqueue(command{
		name: "seek",
		run: func(conn DBusClient, player string) error {
			return conn.CallNoReply(player, objectPath, qualified("Seek"), offset.Microseconds())
		},
	})
}

func (c *Commander) enqueue(cmd command) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		c.logger.Debug("Command client stopped, dropping command", zap.String("command", cmd.name))
		return
	}
	select {
	case c.queue <- cmd:
	default:
		c.logger.Warn("Command queue full, dropping command", zap.String("command", cmd.name))
	}
}

func (c *Commander) work() {
	defer c.wg.Done()

	for cmd := range c.queue {
		if err := c.deliver(cmd); err != nil {
			c.logger.Error("Command failed", zap.String("command", cmd.name), zap.Error(err))
			continue
		}
		c.logger.Debug("Command sent", zap.String("command", cmd.name))
	}
}

func (c *Commander) deliver(cmd command) error {
	if c.conn == nil {
		conn, err := c.dial()
		if err != nil {
			return fmt.Errorf("session bus connection failed: %w", err)
		}
		c.conn = conn
	}

	player, err := c.target()
	if err != nil {
		// The bus daemon always answers ListNames on a live connection
		if !errors.Is(err, errNoPlayer) {
			c.dropConn()
		}
		return err
	}
	if err := cmd.run(c.conn, player); err != nil {
		if errors.Is(err, dbus.ErrClosed) {
			c.dropConn()
		}
		return err
	}
	return nil
}

// dropConn discards a broken connection; the next command dials again.
func (c *Commander) dropConn() {
	if err := c.conn.Close(); err != nil {
		c.logger.Debug("Failed to close broken D-Bus connection", zap.Error(err))
	}
	c.conn = nil
	c.logger.Warn("D-Bus connection lost, reconnecting on next command")
}

// target resolves the configured player, or the first MPRIS player on the bus.
func (c *Commander) target() (string, error) {
	names, err := c.conn.ListNames()
	if err != nil {
		return "", fmt.Errorf("failed to list bus names: %w", err)
	}
	want := c.cfg.PlayerName()
	for _, name := range names {
		if strings.HasPrefix(name, busPrefix) && matchesPlayer(want, name) {
			return name, nil
		}
	}
	return "", errNoPlayer
}

func toggleShuffle(conn DBusClient, player string) error {
	v, err := conn.GetProperty(player, objectPath, qualified(propShuffle))
	if err != nil {
		return fmt.Errorf("failed to get shuffle: %w", err)
	}
	current, ok := v.Value().(bool)
	if !ok {
		return fmt.Errorf("invalid shuffle format: %T", v.Value())
	}
	return conn.SetProperty(player, objectPath, qualified(propShuffle), dbus.MakeVariant(!current))
}

// toggleLoopStatus switches LoopStatus to on, or back to None when it already is on.
func toggleLoopStatus(on string) func(DBusClient, string) error {
	return func(conn DBusClient, player string) error {
		v, err := conn.GetProperty(player, objectPath, qualified(propLoopStatus))
		if err != nil {
			return fmt.Errorf("failed to get loop status: %w", err)
		}
		next := on
		if current, _ := v.Value().(string); current == on {
			next = loopNone
		}
		return conn.SetProperty(player, objectPath, qualified(propLoopStatus), dbus.MakeVariant(next))
	}
}
