// Package jetstream wires the work queue onto NATS JetStream. The stream is
// the durable hand-off between the ingestion path and the delivery worker:
// explicit acks, a visibility timeout (AckWait) and a bounded redelivery
// count (MaxDeliver) give at-least-once delivery with an exclusive lease.
package jetstream

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/whalewatch/whale-alert/internal/adapter"
	"github.com/whalewatch/whale-alert/internal/domain"
	"github.com/whalewatch/whale-alert/internal/logger"
	"github.com/whalewatch/whale-alert/internal/messaging"
)

// Config holds the NATS JetStream connection configuration
type Config struct {
	URL            string
	StreamName     string
	Subject        string
	ConsumerName   string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	AckWait        time.Duration
	MaxDeliver     int
}

func connectOptions(cfg Config) []nats.Option {
	return []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}
}

type publisher struct {
	nc      adapter.NatsConn
	js      adapter.JetStream
	subject string
	json    adapter.JSON
}

// NewPublisher connects to NATS, ensures the alert stream exists and
// returns the work queue producer.
func NewPublisher(ctx context.Context, cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (messaging.Publisher, error) {
	nc, js, err := natsJS.Connect(cfg.URL, connectOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %v", domain.ErrQueueUnavailable, err)
	}

	if err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      cfg.StreamName,
		Subjects:  []string{cfg.Subject},
		Retention: jetstream.WorkQueuePolicy,
		// Broker-side duplicate suppression window for Nats-Msg-Id headers;
		// a second defense behind the dedup store
		Duplicates: 2 * time.Minute,
	}); err != nil {
		nc.Close()
		return nil, fmt.Errorf("%w: ensure stream: %v", domain.ErrQueueUnavailable, err)
	}

	return &publisher{
		nc:      nc,
		js:      js,
		subject: cfg.Subject,
		json:    jsonAdapter,
	}, nil
}

// PublishAlert enqueues an alert job. The message id is the transaction
// signature so the broker drops accidental double publishes inside the
// duplicate window.
func (p *publisher) PublishAlert(ctx context.Context, job *domain.AlertJob) error {
	data, err := p.json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal alert job: %w", err)
	}

	_, err = p.js.Publish(ctx, p.subject, data, jetstream.WithMsgID(job.Signature.String()))
	if err != nil {
		return fmt.Errorf("%w: publish %s: %v", domain.ErrQueueUnavailable, job.Signature, err)
	}

	logger.Debug("Alert job enqueued",
		zap.String("job_id", job.ID),
		zap.String("signature", job.Signature.String()),
	)
	return nil
}

// Close closes the NATS connection
func (p *publisher) Close() {
	if p.nc == nil {
		return
	}
	p.nc.Close()
}

// Consumer is the work-queue consumer side: a durable pull consumer with an
// exclusive lease per message.
type Consumer struct {
	nc  adapter.NatsConn
	js  adapter.JetStream
	cfg Config
}

// NewConsumer connects to NATS for the delivery worker
func NewConsumer(cfg Config, natsJS adapter.NatsJetStream) (*Consumer, error) {
	nc, js, err := natsJS.Connect(cfg.URL, connectOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %v", domain.ErrQueueUnavailable, err)
	}
	return &Consumer{nc: nc, js: js, cfg: cfg}, nil
}

// Consume creates or updates the durable consumer and starts delivering
// messages to the handler. A message not acked within AckWait becomes
// re-deliverable; after MaxDeliver deliveries the broker stops redelivering.
func (c *Consumer) Consume(ctx context.Context, handler adapter.MessageHandler) (adapter.ConsumeContext, error) {
	consumer, err := c.js.CreateOrUpdateConsumer(ctx, c.cfg.StreamName, jetstream.ConsumerConfig{
		Durable:       c.cfg.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       c.cfg.AckWait,
		MaxDeliver:    c.cfg.MaxDeliver,
		FilterSubject: c.cfg.Subject,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: ensure consumer: %v", domain.ErrQueueUnavailable, err)
	}

	info, err := consumer.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: consumer info: %v", domain.ErrQueueUnavailable, err)
	}
	logger.Info("Queue consumer ready",
		zap.String("stream", c.cfg.StreamName),
		zap.String("consumer", info.Name),
	)

	return consumer.Consume(handler)
}

// Close closes the NATS connection
func (c *Consumer) Close() {
	if c.nc == nil {
		return
	}
	c.nc.Close()
}
