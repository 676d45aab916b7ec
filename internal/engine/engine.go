package engine

import (
	"context"
	"fmt"

	"github.com/genricoloni/remotectl/internal/display"
	"github.com/genricoloni/remotectl/internal/domain"
	"github.com/genricoloni/remotectl/internal/playback"
	"go.uber.org/zap"
)

// Intent is a user action on the remote
type Intent int

const (
	IntentShuffle Intent = iota
	IntentRepeat
	IntentSeekForward
	IntentSeekBackward
)

func (i Intent) String() string {
	switch i {
	case IntentShuffle:
		return "shuffle"
	case IntentRepeat:
		return "repeat"
	case IntentSeekForward:
		return "seek-forward"
	case IntentSeekBackward:
		return "seek-backward"
	default:
		return fmt.Sprintf("intent(%d)", int(i))
	}
}

const intentBuffer = 16

// Engine is the session's single event loop. User intents and status
// snapshots are handled one at a time, in arrival order, so the playback
// controller never needs locking.
type Engine struct {
	logger      *zap.Logger
	distributor domain.StatusDistributor
	controller  *playback.Controller
	resolver    *display.Resolver
	media       domain.MediaView
	intents     chan Intent
	cancel      context.CancelFunc
	done        chan struct{}
}

// NewEngine creates a new session engine. media may be nil.
func NewEngine(
	logger *zap.Logger,
	dist domain.StatusDistributor,
	controller *playback.Controller,
	resolver *display.Resolver,
	media domain.MediaView,
) *Engine {
	return &Engine{
		logger:      logger,
		distributor: dist,
		controller:  controller,
		resolver:    resolver,
		media:       media,
		intents:     make(chan Intent, intentBuffer),
	}
}

// Start subscribes to status updates and launches the event loop.
// It returns immediately (non-blocking).
func (e *Engine) Start(ctx context.Context) error {
	e.logger.Info("Engine starting...")

	sub, err := e.distributor.Subscribe()
	if err != nil {
		return fmt.Errorf("failed to subscribe to status updates: %w", err)
	}

	// The loop outlives ctx, which only bounds startup
	loopCtx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.done = make(chan struct{})

	go e.runLoop(loopCtx, sub)
	return nil
}

// Post queues a user intent without blocking the caller.
// It reports false when the intent was dropped.
func (e *Engine) Post(intent Intent) bool {
	select {
	case e.intents <- intent:
		return true
	default:
		e.logger.Warn("Intent queue full, dropping intent", zap.Stringer("intent", intent))
		return false
	}
}

// runLoop is the only goroutine that touches the controller.
// The subscription is released on every exit path.
func (e *Engine) runLoop(ctx context.Context, sub domain.Subscription) {
	defer close(e.done)
	defer func() {
		if err := sub.Close(); err != nil {
			e.logger.Warn("Failed to release status subscription", zap.Error(err))
		}
	}()

	statuses := sub.Statuses()
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Engine loop stopped")
			return

		case intent := <-e.intents:
			e.safely("intent", func() { e.handleIntent(intent) })

		case status, ok := <-statuses:
			if !ok {
				e.logger.Info("Status feed closed")
				return
			}
			e.safely("status", func() { e.handleStatus(status) })
		}
	}
}

// safely runs one event handler, so a panicking view or client costs the
// event and not the loop.
func (e *Engine) safely(event string, handle func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Event handler panicked", zap.String("event", event), zap.Any("panic", r))
		}
	}()
	handle()
}

func (e *Engine) handleIntent(intent Intent) {
	e.logger.Debug("Intent received", zap.Stringer("intent", intent))

	switch intent {
	case IntentShuffle:
		e.controller.ToggleShuffle()
	case IntentRepeat:
		e.controller.CycleRepeatMode()
	case IntentSeekForward:
		e.controller.SeekForward()
	case IntentSeekBackward:
		e.controller.SeekBackward()
	default:
		e.logger.Warn("Unknown intent", zap.Stringer("intent", intent))
	}
}

// handleStatus reconciles the modes and recomputes the media labels
func (e *Engine) handleStatus(status domain.Status) {
	e.controller.ApplySnapshot(status)

	res := e.resolver.Resolve(status.Track)
	e.logger.Debug("Media resolved",
		zap.String("track", status.Track.Name),
		zap.Stringer("kind", res.Kind))

	if e.media != nil {
		e.media.ShowMedia(res.Text())
	}
}

// Stop ends the event loop and waits for the subscription to be released
func (e *Engine) Stop(ctx context.Context) error {
	e.logger.Info("Engine stopping...")

	if e.cancel == nil {
		return nil
	}
	e.cancel()

	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("engine did not stop: %w", ctx.Err())
	}
}
