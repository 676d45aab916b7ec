package playback

import (
	"github.com/genricoloni/remotectl/internal/domain"
	"go.uber.org/zap"
)

// Controller keeps the local shuffle and repeat/loop state in sync with user
// toggles and player snapshots. Commands are sent optimistically and never
// awaited; the next snapshot corrects any divergence.
//
// A Controller is not safe for concurrent use. It is meant to be driven from
// a single event loop (see engine.Engine).
type Controller struct {
	logger *zap.Logger
	client domain.CommandClient
	cfg    domain.Config
	view   domain.ModeView
	state  domain.PlaybackModeState
}

// NewController creates a controller in the initial state (Normal, no shuffle).
// view may be nil, in which case refreshes are dropped.
func NewController(logger *zap.Logger, client domain.CommandClient, cfg domain.Config, view domain.ModeView) *Controller {
	return &Controller{
		logger: logger,
		client: client,
		cfg:    cfg,
		view:   view,
	}
}

// State returns the current local state
func (c *Controller) State() domain.PlaybackModeState {
	return c.state
}

// ToggleShuffle sends toggle-random and flips the local flag right away.
func (c *Controller) ToggleShuffle() {
	c.client.ToggleRandom()
	c.state.Random = !c.state.Random

	c.logger.Debug("Shuffle toggled", zap.Bool("random", c.state.Random))
	c.refresh()
}

// CycleRepeatMode advances Normal -> Loop -> Repeat -> Normal, sending the one
// remote toggle that matches the transition.
func (c *Controller) CycleRepeatMode() {
	from := c.state.Mode
	t := cycleToggles[from]
	switch t {
	case toggleLoop:
		c.client.ToggleLoop()
	case toggleRepeat:
		c.client.ToggleRepeat()
	}
	c.state.Mode = from.Next()

	c.logger.Debug("Repeat mode cycled",
		zap.Stringer("from", from),
		zap.Stringer("to", c.state.Mode),
		zap.Stringer("command", t))
	c.refresh()
}

// ApplySnapshot overwrites the local state from an authoritative snapshot.
func (c *Controller) ApplySnapshot(status domain.Status) {
	mode, conflict := ModeFromFlags(status.Loop, status.Repeat)
	if conflict {
		c.logger.Warn("Snapshot reports loop and repeat together, using repeat",
			zap.String("player", status.Player))
	}
	c.state = domain.PlaybackModeState{
		Random: status.Random,
		Mode:   mode,
	}
	c.refresh()
}

// SeekForward moves playback forward by the configured increment
func (c *Controller) SeekForward() {
	c.client.Seek(c.cfg.SeekIncrement())
}

// SeekBackward moves playback back by the configured increment
func (c *Controller) SeekBackward() {
	c.client.Seek(-c.cfg.SeekIncrement())
}

func (c *Controller) refresh() {
	if c.view == nil {
		return
	}
	c.view.ShowMode(Indicator(c.state))
}
