package pubsub

import (
	"sync"

	"github.com/statlive/matchview-ui/internal/logger"
)

// Event is one screen event (banner show/hide, view update, bet toggle).
// Session carries the owning screen session id so SSE streams can filter;
// an empty Session means the event is for every connected screen.
type Event struct {
	Type    string                 `json:"type"`
	Session string                 `json:"session,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Upstream is an interface for upstream publishers (e.g., NATS)
type Upstream interface {
	Publish(Event)
	Subscribe() chan Event
	Unsubscribe(chan Event)
}

// PubSub implements a simple publish-subscribe system
type PubSub struct {
	mu          sync.RWMutex
	subscribers []chan Event
	upstream    Upstream // Optional upstream publisher (e.g., NATS)
}

// New creates a new PubSub instance
func New() *PubSub {
	return &PubSub{
		subscribers: []chan Event{},
	}
}

// NewWithUpstream creates a PubSub that bridges to an upstream publisher.
// Publishes go to the upstream, which broadcasts to every instance; events
// arriving from the upstream are forwarded to local subscribers.
func NewWithUpstream(upstream Upstream) *PubSub {
	ps := &PubSub{
		subscribers: []chan Event{},
		upstream:    upstream,
	}

	go func() {
		ch := upstream.Subscribe()
		for event := range ch {
			ps.publishLocal(event)
		}
		logger.Debug("PubSub: Upstream channel closed")
	}()

	return ps
}

// Subscribe adds a new subscriber and returns a channel for receiving events
func (ps *PubSub) Subscribe() chan Event {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ch := make(chan Event, 10)
	ps.subscribers = append(ps.subscribers, ch)
	logger.Debug("PubSub: New subscriber added", "total_subscribers", len(ps.subscribers))
	return ch
}

// Unsubscribe removes a subscriber
func (ps *PubSub) Unsubscribe(ch chan Event) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	for i, sub := range ps.subscribers {
		if sub == ch {
			close(ch)
			ps.subscribers = append(ps.subscribers[:i], ps.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers. With an upstream configured
// the event goes there first and comes back via the subscription, so every
// instance (including this one) sees it.
func (ps *PubSub) Publish(event Event) {
	if ps.upstream != nil {
		ps.upstream.Publish(event)
	} else {
		ps.publishLocal(event)
	}
}

// publishLocal sends an event to local subscribers only
func (ps *PubSub) publishLocal(event Event) {
	ps.mu.RLock()
	subs := make([]chan Event, len(ps.subscribers))
	copy(subs, ps.subscribers)
	ps.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
			// Skip if channel is full
		}
	}
}
