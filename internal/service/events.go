// internal/service/events.go
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/omer1kenan/backend/internal/events"
)

const publishTimeout = 5 * time.Second

// publish sends event after the database work is committed. Failures are only logged.
func publish(ctx context.Context, p events.Publisher, logger *zap.Logger, event events.Event) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish event",
			zap.String("type", event.Type),
			zap.String("key", event.Key),
			zap.Error(err))
	}
}
