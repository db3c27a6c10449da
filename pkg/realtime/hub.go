package realtime

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type subscription struct {
	filter Filter
	fn     func(Event)
	kick   chan Event
	done   chan struct{}
	once   sync.Once
}

func (s *subscription) stop() {
	s.once.Do(func() { close(s.done) })
}

// Hub dispatches broker events to subscribers. Each subscriber runs its
// callback on its own goroutine, one call at a time, and bursts of events
// collapse into a single pending call.
type Hub struct {
	broker Broker
	logger *zap.Logger

	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]*subscription
	wg     sync.WaitGroup
}

// NewHub constructs a hub on top of broker.
func NewHub(broker Broker, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{broker: broker, logger: logger, subs: make(map[uint64]*subscription)}
}

// Publish hands evt to the broker.
func (h *Hub) Publish(ctx context.Context, evt Event) error {
	return h.broker.Publish(ctx, evt)
}

// Subscribe registers fn for events matching filter. The returned function
// stops delivery and releases the subscriber goroutine; it is safe to call
// more than once and from inside fn.
func (h *Hub) Subscribe(filter Filter, fn func(Event)) (unsubscribe func()) {
	return h.subscribe(filter, fn, false)
}

func (h *Hub) subscribe(filter Filter, fn func(Event), initial bool) func() {
	sub := &subscription{
		filter: filter,
		fn:     fn,
		kick:   make(chan Event, 1),
		done:   make(chan struct{}),
	}
	if initial {
		sub.kick <- Event{Topic: filter.Topic, ClassID: filter.ClassID, Action: "snapshot"}
	}

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subs[id] = sub
	h.mu.Unlock()

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		for {
			select {
			case <-sub.done:
				return
			case evt := <-sub.kick:
				sub.fn(evt)
			}
		}
	}()

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
		sub.stop()
	}
}

// Len returns the number of live subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Run dispatches events until ctx is cancelled or the broker closes.
func (h *Hub) Run(ctx context.Context) {
	events := h.broker.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			h.dispatch(evt)
		}
	}
}

func (h *Hub) dispatch(evt Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subs {
		if !sub.filter.Matches(evt) {
			continue
		}
		select {
		case sub.kick <- evt:
		default:
			// a reload is already queued for this subscriber
		}
	}
}

// Close unsubscribes everyone, waits for their goroutines and closes the broker.
func (h *Hub) Close() error {
	h.mu.Lock()
	for id, sub := range h.subs {
		delete(h.subs, id)
		sub.stop()
	}
	h.mu.Unlock()
	h.wg.Wait()
	return h.broker.Close()
}
