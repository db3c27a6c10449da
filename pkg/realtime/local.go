package realtime

import (
	"context"
	"sync"
)

// LocalBroker keeps events inside the process.
type LocalBroker struct {
	events chan Event
	once   sync.Once
	mu     sync.RWMutex
	closed bool
}

// NewLocalBroker constructs a broker buffering up to size events.
func NewLocalBroker(size int) *LocalBroker {
	if size <= 0 {
		size = 256
	}
	return &LocalBroker{events: make(chan Event, size)}
}

// Publish enqueues evt without blocking.
func (b *LocalBroker) Publish(ctx context.Context, evt Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}
	select {
	case b.events <- evt:
		return nil
	default:
		return ErrBrokerFull
	}
}

// Events returns the delivery channel.
func (b *LocalBroker) Events() <-chan Event {
	return b.events
}

// Close stops delivery.
func (b *LocalBroker) Close() error {
	b.once.Do(func() {
		b.mu.Lock()
		b.closed = true
		close(b.events)
		b.mu.Unlock()
	})
	return nil
}
