// Package eventbus carries solve progress events from the matching
// engine to interested observers (CLI progress display, tests). The
// solver publishes one event per placement, move and pass; delivery is
// non-blocking so a slow observer can never stall a solve.
package eventbus

import "sync"

// Event is an arbitrary solve progress event.
type Event interface{}

// EventBus is a publish/subscribe bus for solve events.
type EventBus interface {
	Publish(Event)
	Subscribe() <-chan Event
	Unsubscribe(<-chan Event)
	Close()
}

// Bus is the default EventBus implementation using fan-out channels.
type Bus struct {
	mu     sync.RWMutex
	subs   []chan Event
	closed bool
}

// New creates a new Bus.
func New() *Bus { return &Bus{} }

// Publish sends the event to all subscribers. Subscribers with a full
// buffer miss the event rather than blocking the solver.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a new subscriber and returns its channel. The
// buffer holds a burst of per-placement events.
func (b *Bus) Subscribe() <-chan Event {
	ch := make(chan Event, 64)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subs = append(b.subs, ch)
	}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *Bus) Unsubscribe(sub <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.subs {
		if ch == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			if !b.closed {
				close(ch)
			}
			return
		}
	}
}

// Close closes all subscriber channels and clears the list.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
	b.mu.Unlock()
}

// Drain consumes every event currently buffered on the subscription
// and returns them. Useful for tests and batch observers.
func Drain(sub <-chan Event) []Event {
	var out []Event
	for {
		select {
		case e, ok := <-sub:
			if !ok {
				return out
			}
			out = append(out, e)
		default:
			return out
		}
	}
}
