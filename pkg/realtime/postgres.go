package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresBroker publishes with pg_notify and receives through a dedicated
// LISTEN connection.
type PostgresBroker struct {
	db       *sqlx.DB
	listener *pq.Listener
	channel  string
	events   chan Event
	done     chan struct{}
	once     sync.Once
	logger   *zap.Logger
}

// NewPostgresBroker opens the LISTEN connection on channel.
func NewPostgresBroker(db *sqlx.DB, dsn, channel string, logger *zap.Logger) (*PostgresBroker, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	listener := pq.NewListener(dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.Warn("realtime listener event", zap.Int("event", int(ev)), zap.Error(err))
		}
	})
	if err := listener.Listen(channel); err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("listen %s: %w", channel, err)
	}

	b := &PostgresBroker{
		db:       db,
		listener: listener,
		channel:  channel,
		events:   make(chan Event, 256),
		done:     make(chan struct{}),
		logger:   logger,
	}
	go b.loop()
	return b, nil
}

func (b *PostgresBroker) loop() {
	defer close(b.events)
	ping := time.NewTicker(90 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-b.done:
			return
		case n, ok := <-b.listener.Notify:
			if !ok {
				return
			}
			// nil after a reconnect: anything sent meanwhile is lost.
			evt := Event{Topic: TopicAll, Action: "resync"}
			if n != nil {
				if err := json.Unmarshal([]byte(n.Extra), &evt); err != nil {
					b.logger.Warn("realtime payload decode failed", zap.Error(err))
					continue
				}
			}
			b.deliver(evt)
		case <-ping.C:
			go func() {
				if err := b.listener.Ping(); err != nil {
					b.logger.Warn("realtime listener ping failed", zap.Error(err))
				}
			}()
		}
	}
}

func (b *PostgresBroker) deliver(evt Event) {
	select {
	case b.events <- evt:
	default:
		b.logger.Warn("realtime event dropped", zap.String("topic", evt.Topic))
	}
}

// Publish notifies every listening instance, including this one.
func (b *PostgresBroker) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if _, err := b.db.ExecContext(ctx, "SELECT pg_notify($1, $2)", b.channel, string(payload)); err != nil {
		return fmt.Errorf("notify %s: %w", b.channel, err)
	}
	return nil
}

// Events returns the delivery channel.
func (b *PostgresBroker) Events() <-chan Event {
	return b.events
}

// Close releases the LISTEN connection.
func (b *PostgresBroker) Close() error {
	var err error
	b.once.Do(func() {
		close(b.done)
		if b.listener != nil {
			err = b.listener.Close()
		}
	})
	return err
}
