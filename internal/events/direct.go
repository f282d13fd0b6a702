package events

import (
	"context"

	"go.uber.org/zap"
)

// DirectPublisher delivers events to in-process handlers. It is used when
// no broker is configured.
type DirectPublisher struct {
	handlers []Handler
	log      *zap.Logger
}

func NewDirectPublisher(log *zap.Logger, handlers ...Handler) *DirectPublisher {
	return &DirectPublisher{handlers: handlers, log: log}
}

// Publish runs every handler; a failing handler is logged and does not stop
// the rest.
func (p *DirectPublisher) Publish(ctx context.Context, e Event) error {
	for _, h := range p.handlers {
		if err := h(ctx, e); err != nil {
			p.log.Warn("event handler failed",
				zap.String("type", string(e.Type)),
				zap.Int64("queue_id", e.QueueID),
				zap.Error(err))
		}
	}
	return nil
}
