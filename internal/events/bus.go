package events

import (
	"sync"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// DefaultBufferSize is the per-subscriber channel capacity used when none is given.
const DefaultBufferSize = 16

// Bus delivers published events to every live subscription.
type Bus struct {
	// subs holds live subscriptions.
	subs map[*Subscription]struct{}
	// closed is set once Close has been called.
	closed bool
	// mu protects subs and closed.
	mu sync.Mutex
}

// Subscription is a single subscriber's view of the bus.
type Subscription struct {
	bus  *Bus
	ch   chan domain.Event
	once sync.Once
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[*Subscription]struct{}),
	}
}

// Subscribe registers a subscriber with the given buffer size.
// Subscribing to a closed bus returns an already closed subscription.
func (b *Bus) Subscribe(buffer int) *Subscription {
	if buffer <= 0 {
		buffer = DefaultBufferSize
	}

	sub := &Subscription{
		bus: b,
		ch:  make(chan domain.Event, buffer),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		sub.closeChannel()
		return sub
	}

	b.subs[sub] = struct{}{}

	return sub
}

// Publish hands event to every subscriber without blocking.
// Subscribers with a full buffer are dropped.
func (b *Bus) Publish(event domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subs {
		select {
		case sub.ch <- event:
		default:
			delete(b.subs, sub)
			sub.closeChannel()
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.subs)
}

// Close closes every subscription. Later publishes are discarded.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true

	for sub := range b.subs {
		delete(b.subs, sub)
		sub.closeChannel()
	}
}

// C returns the event channel. It is closed when the subscription ends.
func (s *Subscription) C() <-chan domain.Event {
	return s.ch
}

// Close ends the subscription. It is safe to call more than once.
func (s *Subscription) Close() error {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	delete(s.bus.subs, s)
	s.closeChannel()

	return nil
}

// closeChannel closes the channel exactly once.
func (s *Subscription) closeChannel() {
	s.once.Do(func() {
		close(s.ch)
	})
}
