package realtime

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"sosdesk/internal/domain"
	"sosdesk/pkg/metrics"

	"github.com/google/uuid"
)

// FeedTopic carries every alert state change; per-alert topics also carry chat.
const FeedTopic = "alerts:feed"

const defaultBuffer = 64

func AlertTopic(id uuid.UUID) string {
	return "alert:" + id.String()
}

// Subscriber receives events for one topic. A subscriber that falls behind by
// more than its buffer is dropped and its channel closed.
type Subscriber struct {
	topic   string
	ch      chan domain.Event
	once    sync.Once
	dropped atomic.Bool
}

func (s *Subscriber) Events() <-chan domain.Event { return s.ch }

func (s *Subscriber) Topic() string { return s.topic }

// Dropped reports whether the hub cut this subscriber off for being slow.
func (s *Subscriber) Dropped() bool { return s.dropped.Load() }

func (s *Subscriber) close() {
	s.once.Do(func() { close(s.ch) })
}

type Hub struct {
	mu     sync.Mutex
	topics map[string]map[*Subscriber]struct{}
	buffer int
	logger *slog.Logger
}

func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		topics: make(map[string]map[*Subscriber]struct{}),
		buffer: buffer,
		logger: logger,
	}
}

func (h *Hub) Subscribe(topic string) *Subscriber {
	sub := &Subscriber{topic: topic, ch: make(chan domain.Event, h.buffer)}

	h.mu.Lock()
	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[*Subscriber]struct{})
		h.topics[topic] = subs
	}
	subs[sub] = struct{}{}
	h.mu.Unlock()

	metrics.RealtimeSubscribers.Inc()
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	removed := h.remove(sub)
	h.mu.Unlock()

	if removed {
		sub.close()
		metrics.RealtimeSubscribers.Dec()
	}
}

// remove must be called with h.mu held.
func (h *Hub) remove(sub *Subscriber) bool {
	subs, ok := h.topics[sub.topic]
	if !ok {
		return false
	}
	if _, ok := subs[sub]; !ok {
		return false
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.topics, sub.topic)
	}
	return true
}

// Publish delivers ev to the alert topic and, for alert state changes, to the feed.
// It never blocks on a subscriber.
func (h *Hub) Publish(_ context.Context, ev domain.Event) error {
	topics := []string{AlertTopic(ev.AlertID)}
	if ev.IsAlertEvent() {
		topics = append(topics, FeedTopic)
	}

	var slow []*Subscriber

	h.mu.Lock()
	for _, topic := range topics {
		for sub := range h.topics[topic] {
			select {
			case sub.ch <- ev:
			default:
				slow = append(slow, sub)
			}
		}
	}
	for _, sub := range slow {
		h.remove(sub)
	}
	h.mu.Unlock()

	for _, sub := range slow {
		sub.dropped.Store(true)
		sub.close()
		metrics.RealtimeSubscribers.Dec()
		metrics.RealtimeDropped.Inc()
		h.logger.Warn("realtime subscriber dropped", slog.String("topic", sub.topic))
	}
	return nil
}

func (h *Hub) Subscribers(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[topic])
}
