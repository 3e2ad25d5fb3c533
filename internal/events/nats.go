package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/josepguedes/Projeto-2/pkg/logger"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

type NATSPublisher struct {
	conn *nats.Conn
}

func Connect(url, name string) (*nats.Conn, error) {
	conn, err := nats.Connect(url, nats.Name(name), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return conn, nil
}

func NewNATSPublisher(conn *nats.Conn) *NATSPublisher {
	return &NATSPublisher{conn: conn}
}

func (p *NATSPublisher) Publish(_ context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.conn.Publish(e.Subject(), data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", e.Type, err)
	}
	return nil
}

// NATSConsumer feeds every domain event to a handler. Workers share a queue
// group so each event is handled once.
type NATSConsumer struct {
	conn    *nats.Conn
	sub     *nats.Subscription
	handler Handler
	queue   string
	log     *zap.SugaredLogger
}

func NewNATSConsumer(conn *nats.Conn, queue string, handler Handler) *NATSConsumer {
	return &NATSConsumer{conn: conn, handler: handler, queue: queue, log: logger.Named("events")}
}

// Start subscribes and blocks until ctx is cancelled.
func (c *NATSConsumer) Start(ctx context.Context) error {
	sub, err := c.conn.QueueSubscribe(SubjectPrefix+">", c.queue, func(msg *nats.Msg) {
		c.handleMessage(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	c.sub = sub
	c.log.Infow("Subscribed to NATS subject", "subject", SubjectPrefix+">", "queue", c.queue)

	<-ctx.Done()
	return nil
}

func (c *NATSConsumer) handleMessage(ctx context.Context, msg *nats.Msg) {
	var e Event
	if err := json.Unmarshal(msg.Data, &e); err != nil {
		c.log.Warnw("Dropping malformed event", "subject", msg.Subject, "error", err)
		return
	}

	hctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := c.handler.Handle(hctx, e); err != nil {
		c.log.Errorw("Failed to handle event", "event_id", e.ID, "type", e.Type, "error", err)
		return
	}
	c.log.Debugw("Handled event", "event_id", e.ID, "type", e.Type)
}

func (c *NATSConsumer) Close() error {
	if c.sub != nil {
		return c.sub.Unsubscribe()
	}
	return nil
}
