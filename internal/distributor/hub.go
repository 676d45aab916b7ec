package distributor

import (
	"context"
	"sync"
	"time"

	"github.com/genricoloni/remotectl/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	subscriberBuffer = 8
	dropWarnInterval = 5 * time.Second
)

// Hub fans status snapshots out to subscribers.
// Delivery is at-most-once: a subscriber whose buffer is full misses the snapshot.
// A new subscriber first receives the latest snapshot, if any was published.
type Hub struct {
	logger *zap.Logger

	mu       sync.Mutex
	subs     map[string]*subscription
	last     *domain.Status
	closed   bool
	lastDrop time.Time
}

// NewHub creates an empty hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger: logger,
		subs:   make(map[string]*subscription),
	}
}

// Subscribe registers a new consumer. The returned subscription must be closed.
func (h *Hub) Subscribe() (domain.Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := &subscription{
		id:  uuid.NewString(),
		hub: h,
		ch:  make(chan domain.Status, subscriberBuffer),
	}
	if h.closed {
		close(s.ch)
		s.done = true
		return s, nil
	}
	h.subs[s.id] = s
	if h.last != nil {
		s.ch <- *h.last
	}

	h.logger.Debug("Subscriber added", zap.String("id", s.id), zap.Int("subscribers", len(h.subs)))
	return s, nil
}

// Publish delivers a snapshot to every live subscriber without blocking.
func (h *Hub) Publish(status domain.Status) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = &status
	for id, s := range h.subs {
		select {
		case s.ch <- status:
		default:
			h.logDrop(id)
		}
	}
}

// Run publishes everything read from src until ctx is done or src is closed,
// then closes all subscriptions.
func (h *Hub) Run(ctx context.Context, src <-chan domain.Status) {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return
		case status, ok := <-src:
			if !ok {
				h.logger.Info("Status source closed")
				return
			}
			h.Publish(status)
		}
	}
}

// Len returns the number of live subscribers
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for id, s := range h.subs {
		s.done = true
		close(s.ch)
		delete(h.subs, id)
	}
}

func (h *Hub) remove(s *subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s.done {
		return
	}
	s.done = true
	close(s.ch)
	delete(h.subs, s.id)

	h.logger.Debug("Subscriber removed", zap.String("id", s.id), zap.Int("subscribers", len(h.subs)))
}

// logDrop is rate limited to avoid log spam when a consumer stalls.
// Caller must hold h.mu.
func (h *Hub) logDrop(id string) {
	now := time.Now()
	if now.Sub(h.lastDrop) < dropWarnInterval {
		return
	}
	h.lastDrop = now
	h.logger.Warn("Subscriber buffer full, dropping status", zap.String("id", id))
}

type subscription struct {
	id   string
	hub  *Hub
	ch   chan domain.Status
	done bool // guarded by hub.mu
}

func (s *subscription) Statuses() <-chan domain.Status {
	return s.ch
}

func (s *subscription) Close() error {
	s.hub.remove(s)
	return nil
}
