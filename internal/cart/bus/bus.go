package bus

import (
	"sync"

	"github.com/google/uuid"
)

// EventCartUpdated names the broadcast signal fired after every cart mutation
const EventCartUpdated = "cart-updated"

// Bus is an in-process, payload-less broadcast signal. Subscribers re-query
// the cart projections on each signal instead of trusting data riding on the
// event, so no observer can ever act on a stale payload.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]chan struct{}
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{subs: make(map[string]chan struct{})}
}

// Subscribe registers an observer and returns its token and signal channel.
// The channel has capacity one: signals arriving while one is pending
// coalesce, which is safe because the signal carries no data.
func (b *Bus) Subscribe() (string, <-chan struct{}) {
	token := uuid.NewString()
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	b.subs[token] = ch
	b.mu.Unlock()

	return token, ch
}

// Unsubscribe removes an observer. Observers must call this on teardown so
// subscriptions do not leak across component lifecycles.
func (b *Bus) Unsubscribe(token string) {
	b.mu.Lock()
	if ch, ok := b.subs[token]; ok {
		delete(b.subs, token)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish signals every subscriber without blocking. Fired after the
// corresponding write completes; no ordering guarantee beyond that.
func (b *Bus) Publish() {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
			// A signal is already pending for this subscriber
		}
	}
}

// Subscribers returns the current observer count
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
