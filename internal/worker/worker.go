// Package worker implements the delivery worker: it consumes alert jobs
// from the work queue, renders the message and calls the notification
// channel, driving each job through an explicit state machine
//
//	Claimed → Rendering → Sending → {Delivered | RetryScheduled | DeadLettered}
//
// so that failure is an observable terminal state, not a log line.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/whalewatch/whale-alert/internal/adapter"
	"github.com/whalewatch/whale-alert/internal/domain"
	"github.com/whalewatch/whale-alert/internal/logger"
	"github.com/whalewatch/whale-alert/internal/notify"
	"github.com/whalewatch/whale-alert/internal/ratelimit"
	"github.com/whalewatch/whale-alert/internal/render"
	"github.com/whalewatch/whale-alert/internal/store"
	"github.com/whalewatch/whale-alert/internal/store/schema"
)

const (
	retryBaseDelay = 5 * time.Second
	retryMaxDelay  = 5 * time.Minute
	sendTimeout    = 15 * time.Second
)

// QueueSource starts message delivery into a handler. Implemented by the
// jetstream consumer.
//
//go:generate mockgen -source=worker.go -destination=../mocks/queue_source.go -package=mocks -mock_names=QueueSource=MockQueueSource
type QueueSource interface {
	Consume(ctx context.Context, handler adapter.MessageHandler) (adapter.ConsumeContext, error)
}

// Config holds delivery worker configuration
type Config struct {
	// MaxDeliver is the queue's redelivery ceiling; the attempt at this
	// count is the last one before dead-lettering
	MaxDeliver int
	// PoolSize bounds concurrent deliveries
	PoolSize int
	// QueueSize bounds the pool's pending task buffer
	QueueSize int
}

// Worker consumes and delivers alert jobs
type Worker struct {
	cfg      Config
	source   QueueSource
	notifier notify.Notifier
	renderer *render.Renderer
	limiter  ratelimit.SendLimiter
	audit    store.Store
	pool     pond.Pool
}

// New creates a delivery worker
func New(
	cfg Config,
	source QueueSource,
	notifier notify.Notifier,
	renderer *render.Renderer,
	limiter ratelimit.SendLimiter,
	audit store.Store,
) *Worker {
	if cfg.MaxDeliver <= 0 {
		cfg.MaxDeliver = 5
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}

	return &Worker{
		cfg:      cfg,
		source:   source,
		notifier: notifier,
		renderer: renderer,
		limiter:  limiter,
		audit:    audit,
		pool:     pond.NewPool(cfg.PoolSize, pond.WithQueueSize(cfg.QueueSize)),
	}
}

// Run consumes until the context is canceled, then drains in-flight
// deliveries. Jobs still unacked at shutdown become re-deliverable after
// the queue's visibility timeout.
func (w *Worker) Run(ctx context.Context) error {
	consumeCtx, err := w.source.Consume(ctx, func(msg adapter.Message) {
		w.pool.Submit(func() {
			w.HandleMessage(ctx, msg)
		})
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	logger.Info("Delivery worker started",
		zap.Int("pool_size", w.cfg.PoolSize),
		zap.Int("max_deliver", w.cfg.MaxDeliver),
	)

	select {
	case <-ctx.Done():
	case <-consumeCtx.Closed():
		return fmt.Errorf("%w: consume context closed", domain.ErrQueueUnavailable)
	}

	logger.Info("Shutting down delivery worker")
	consumeCtx.Stop()
	w.pool.StopAndWait()
	return ctx.Err()
}

// HandleMessage drives one claimed queue message through the job state
// machine. Exported for tests; Run feeds it from the worker pool.
func (w *Worker) HandleMessage(ctx context.Context, msg adapter.Message) {
	attempt := 1
	if md, err := msg.Metadata(); err == nil && md != nil {
		attempt = int(md.NumDelivered)
	}

	// Claimed: the message is leased to this worker until ack or AckWait
	var job domain.AlertJob
	if err := json.Unmarshal(msg.Data(), &job); err != nil {
		// Poison message: no amount of redelivery will fix the payload
		logger.Error(err, zap.String("state", string(domain.JobStateDeadLettered)))
		w.deadLetter(ctx, msg, nil, attempt, fmt.Sprintf("unparseable payload: %v", err))
		return
	}

	log := logger.Default().With(
		zap.String("job_id", job.ID),
		zap.String("signature", job.Signature.String()),
		zap.Int("attempt", attempt),
	)
	log.Info("Job claimed", zap.String("state", string(domain.JobStateClaimed)))

	// Rendering is deterministic given the job fields
	log.Debug("Rendering message", zap.String("state", string(domain.JobStateRendering)))
	text := w.renderer.Message(&job)

	auditRow, auditErr := w.audit.RecordAttempt(ctx, job.ID, job.Signature.String(), attempt)
	if auditErr != nil {
		// The audit log is an observability aid, not a correctness
		// dependency; delivery proceeds without it
		log.Warn("Failed to record delivery attempt", zap.Error(auditErr))
	}

	log.Info("Sending alert", zap.String("state", string(domain.JobStateSending)))
	sendErr := w.send(ctx, text)
	if sendErr == nil {
		w.finalizeAudit(ctx, auditRow, schema.AlertDeliveryStatusSuccess, "")
		if err := msg.Ack(); err != nil {
			log.Warn("Failed to ack delivered job", zap.Error(err))
		}
		log.Info("Alert delivered", zap.String("state", string(domain.JobStateDelivered)))
		return
	}

	w.finalizeAudit(ctx, auditRow, schema.AlertDeliveryStatusFailed, sendErr.Error())

	if attempt >= w.cfg.MaxDeliver {
		log.Warn("Attempt ceiling reached",
			zap.String("state", string(domain.JobStateDeadLettered)),
			zap.Error(sendErr),
		)
		w.deadLetter(ctx, msg, &job, attempt, sendErr.Error())
		return
	}

	delay := backoffDelay(attempt)
	log.Warn("Delivery failed, retry scheduled",
		zap.String("state", string(domain.JobStateRetryScheduled)),
		zap.Duration("delay", delay),
		zap.Error(sendErr),
	)
	if err := msg.NakWithDelay(delay); err != nil {
		log.Warn("Failed to nak job", zap.Error(err))
	}
}

// send paces the outbound call against the shared budget and bounds it
// with its own timeout so a hung channel call never blocks the lease
func (w *Worker) send(ctx context.Context, text string) error {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := w.limiter.Wait(sendCtx); err != nil {
		return fmt.Errorf("%w: awaiting send budget: %v", domain.ErrDeliveryFailed, err)
	}
	return w.notifier.Send(sendCtx, text)
}

// deadLetter records the job in the dead-letter table and terminates the
// message so it leaves the live queue without being delivered
func (w *Worker) deadLetter(ctx context.Context, msg adapter.Message, job *domain.AlertJob, attempts int, reason string) {
	dl := &schema.DeadLetter{
		Payload:  msg.Data(),
		Attempts: attempts,
		Reason:   reason,
	}
	if job != nil {
		dl.JobID = job.ID
		dl.Signature = job.Signature.String()
	}

	if err := w.audit.SaveDeadLetter(ctx, dl); err != nil {
		// Leave the message unacked: it stays redeliverable until either
		// the dead-letter row can be written or the queue's own MaxDeliver
		// stops redelivery
		logger.Error(err, zap.String("job_id", dl.JobID))
		if nakErr := msg.Nak(); nakErr != nil && !errors.Is(nakErr, context.Canceled) {
			logger.Warn("Failed to nak dead-letter candidate", zap.Error(nakErr))
		}
		return
	}

	if err := msg.Term(); err != nil {
		logger.Warn("Failed to terminate dead-lettered job",
			zap.String("job_id", dl.JobID),
			zap.Error(err),
		)
	}
}

func (w *Worker) finalizeAudit(ctx context.Context, row *schema.AlertDelivery, status schema.AlertDeliveryStatus, errMsg string) {
	if row == nil {
		return
	}
	if err := w.audit.FinalizeAttempt(ctx, row.ID, status, errMsg); err != nil {
		logger.Warn("Failed to finalize delivery attempt",
			zap.Uint64("attempt_row", row.ID),
			zap.Error(err),
		)
	}
}

// backoffDelay returns base * 2^(attempt-1), capped
func backoffDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := retryBaseDelay << uint(attempt-1)
	if delay > retryMaxDelay || delay <= 0 {
		return retryMaxDelay
	}
	return delay
}
