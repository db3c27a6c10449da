package realtime

import (
	"context"

	"go.uber.org/zap"
)

// Loader returns the full current record set for a view.
type Loader[T any] func(ctx context.Context) ([]T, error)

// Watch pushes the record set selected by filter to push: once right away
// and again after every matching change. Calls to push never overlap.
// Load failures are logged and skipped; the next change retries.
func Watch[T any](ctx context.Context, h *Hub, filter Filter, load Loader[T], push func([]T)) (unsubscribe func()) {
	return h.subscribe(filter, func(evt Event) {
		if ctx.Err() != nil {
			return
		}
		items, err := load(ctx)
		if err != nil {
			h.logger.Warn("realtime reload failed",
				zap.String("topic", filter.Topic),
				zap.String("class_id", filter.ClassID),
				zap.Error(err))
			return
		}
		push(items)
	}, true)
}
