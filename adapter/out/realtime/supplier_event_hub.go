// Package realtime broadcasts supplier lifecycle events to stream clients.
package realtime

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"supplier_server/core/domain"
	"supplier_server/core/port/out"
)

// EventHub fans supplier lifecycle events out to all subscribed stream
// clients. Slow clients drop events instead of blocking the publisher.
type EventHub struct {
	subscribers map[chan domain.SupplierEvent]struct{}
	mu          sync.RWMutex
	log         zerolog.Logger

	seqCounter    int64
	eventsSent    int64
	eventsDropped int64

	heartbeatInterval time.Duration
}

func NewEventHub(log zerolog.Logger) *EventHub {
	return &EventHub{
		subscribers:       make(map[chan domain.SupplierEvent]struct{}),
		log:               log.With().Str("component", "event_hub").Logger(),
		heartbeatInterval: 30 * time.Second,
	}
}

// Subscribe registers a new stream client. The returned channel is closed by
// Unsubscribe.
func (h *EventHub) Subscribe() <-chan domain.SupplierEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan domain.SupplierEvent, 64)
	h.subscribers[ch] = struct{}{}

	h.log.Debug().Int("subscribers", len(h.subscribers)).Msg("stream client subscribed")
	return ch
}

// Unsubscribe removes a stream client and closes its channel.
func (h *EventHub) Unsubscribe(ch <-chan domain.SupplierEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.subscribers {
		if c == ch {
			delete(h.subscribers, c)
			close(c)
			break
		}
	}

	h.log.Debug().Int("subscribers", len(h.subscribers)).Msg("stream client unsubscribed")
}

// Publish assigns the event its sequence number and delivers it to every
// subscriber. Full buffers drop the event for that subscriber. The read lock
// is held across the sends so Unsubscribe cannot close a channel mid-delivery;
// the non-blocking sends keep the critical section short.
func (h *EventHub) Publish(event domain.SupplierEvent) {
	event.Seq = atomic.AddInt64(&h.seqCounter, 1)

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- event:
			atomic.AddInt64(&h.eventsSent, 1)
		default:
			atomic.AddInt64(&h.eventsDropped, 1)
			h.log.Warn().
				Str("event_type", string(event.Type)).
				Int64("seq", event.Seq).
				Msg("dropped event due to full buffer")
		}
	}
}

// SubscriberCount returns the number of connected stream clients.
func (h *EventHub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// HeartbeatInterval returns the keep-alive interval for stream handlers.
func (h *EventHub) HeartbeatInterval() time.Duration {
	return h.heartbeatInterval
}

// SerializeEvent converts an event into its SSE data payload.
func SerializeEvent(event domain.SupplierEvent) ([]byte, error) {
	return json.Marshal(event)
}

var _ out.EventBus = (*EventHub)(nil)
