package events

import (
	"context"
	"time"

	"github.com/josepguedes/Projeto-2/pkg/logger"
)

// LocalBus delivers events to a handler inside the same process. It is used
// when no NATS server is configured.
type LocalBus struct {
	handler Handler
	timeout time.Duration
}

func NewLocalBus(handler Handler) *LocalBus {
	return &LocalBus{handler: handler, timeout: 10 * time.Second}
}

// Publish hands the event to the handler on its own goroutine so a slow
// consumer never holds up the request that produced it.
func (b *LocalBus) Publish(_ context.Context, e Event) error {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()

		if err := b.handler.Handle(ctx, e); err != nil {
			logger.Error("Failed to handle event", "event_id", e.ID, "type", e.Type, "error", err)
		}
	}()
	return nil
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
