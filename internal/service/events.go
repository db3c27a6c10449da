package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/pkg/middleware/requestid"
	"github.com/noah-isme/school-portal-api/pkg/realtime"
)

// eventPublisher fans change notifications out to realtime subscribers.
type eventPublisher interface {
	Publish(ctx context.Context, evt realtime.Event) error
}

// notify publishes evt; delivery failures never fail the write that caused them.
func notify(ctx context.Context, p eventPublisher, logger *zap.Logger, evt realtime.Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, evt); err != nil {
		logger.Warn("realtime publish failed",
			zap.String("topic", evt.Topic),
			zap.String("class_id", evt.ClassID),
			zap.String("request_id", requestid.FromContext(ctx)),
			zap.Error(err))
	}
}
