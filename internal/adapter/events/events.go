// Package events broadcasts domain events to live subscribers.
package events

import (
	"sync"
	"time"

	"biometrics/internal/domain"

	"github.com/google/uuid"
	"github.com/moby/pubsub"
)

const (
	eventsLimit    = 256
	bufferSize     = 1024
	publishTimeout = 100 * time.Millisecond
)

// Message is the envelope delivered to subscribers.
type Message struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Time    time.Time    `json:"time"`
	Payload domain.Event `json:"payload"`
}

// Events keeps a bounded backlog of recent messages and fans new ones out
// to subscribers.
type Events struct {
	mu     sync.Mutex
	events []Message
	pub    *pubsub.Publisher
	now    func() time.Time
}

var _ domain.Publisher = (*Events)(nil)

// New returns a new *Events instance.
func New() *Events {
	return &Events{
		events: make([]Message, 0, eventsLimit),
		pub:    pubsub.NewPublisher(publishTimeout, bufferSize),
		now:    time.Now,
	}
}

// Subscribe returns the backlog and a channel receiving every new message.
func (e *Events) Subscribe() ([]Message, chan interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	current := make([]Message, len(e.events))
	copy(current, e.events)
	return current, e.pub.Subscribe()
}

// SubscribeTopic is like Subscribe but filters both the backlog and the
// live stream to the given event names. No names means every event.
func (e *Events) SubscribeTopic(names ...string) ([]Message, chan interface{}) {
	match := func(name string) bool {
		if len(names) == 0 {
			return true
		}
		for _, n := range names {
			if n == name {
				return true
			}
		}
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	var current []Message
	for _, m := range e.events {
		if match(m.Name) {
			current = append(current, m)
		}
	}
	ch := e.pub.SubscribeTopic(func(v interface{}) bool {
		m, ok := v.(Message)
		return ok && match(m.Name)
	})
	return current, ch
}

// Evict removes the subscriber and closes its channel.
func (e *Events) Evict(l chan interface{}) {
	e.pub.Evict(l)
}

// SubscribersCount returns the number of live subscribers.
func (e *Events) SubscribersCount() int {
	return e.pub.Len()
}

// Publish wraps ev in an envelope, records it and broadcasts it.
func (e *Events) Publish(ev domain.Event) {
	m := Message{
		ID:      uuid.NewString(),
		Name:    ev.EventName(),
		Time:    e.now().UTC(),
		Payload: ev,
	}

	e.mu.Lock()
	if len(e.events) == cap(e.events) {
		// discard oldest event
		copy(e.events, e.events[1:])
		e.events[len(e.events)-1] = m
	} else {
		e.events = append(e.events, m)
	}
	e.mu.Unlock()
	e.pub.Publish(m)
}

// Close closes every subscriber channel.
func (e *Events) Close() {
	e.pub.Close()
}
