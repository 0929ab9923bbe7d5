// Package ingest orchestrates the webhook ingestion path: admission,
// normalization, dedup check-and-set, and the hand-off to the work queue.
//
// Per signature the order is fixed: the dedup check-and-set happens before
// the enqueue, which happens before any delivery attempt. No cross-signature
// ordering is guaranteed or required.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/whalewatch/whale-alert/internal/adapter"
	"github.com/whalewatch/whale-alert/internal/admission"
	"github.com/whalewatch/whale-alert/internal/dedup"
	"github.com/whalewatch/whale-alert/internal/domain"
	"github.com/whalewatch/whale-alert/internal/logger"
	"github.com/whalewatch/whale-alert/internal/messaging"
	"github.com/whalewatch/whale-alert/internal/normalizer"
	"github.com/whalewatch/whale-alert/internal/render"
)

// Status classifies a successfully acknowledged webhook
type Status string

const (
	// StatusAccepted means a new alert job was enqueued
	StatusAccepted Status = "accepted"
	// StatusDuplicate means the signature was already processed
	StatusDuplicate Status = "duplicate"
	// StatusNoMatch means no transfer qualified for alerting
	StatusNoMatch Status = "no_match"
)

// Result describes the outcome of one webhook delivery
type Result struct {
	Status    Status
	Signature domain.TransactionSignature
	JobID     string
}

// Ingestor processes raw webhook payloads
//
//go:generate mockgen -source=ingestor.go -destination=../mocks/ingestor.go -package=mocks -mock_names=Ingestor=MockIngestor
type Ingestor interface {
	// Process runs the full ingestion path for one webhook delivery.
	// Errors are drawn from the domain taxonomy: ErrMalformedPayload,
	// ErrRateLimited, ErrStoreUnavailable, ErrQueueUnavailable.
	Process(ctx context.Context, payload []byte) (*Result, error)
}

// Config holds the alert filtering rule
type Config struct {
	Threshold uint64
	Mint      string
}

type ingestor struct {
	cfg       Config
	limiter   admission.Limiter
	store     dedup.Store
	publisher messaging.Publisher
	renderer  *render.Renderer
	clock     adapter.Clock
}

// NewIngestor creates the ingestion orchestrator
func NewIngestor(
	cfg Config,
	limiter admission.Limiter,
	store dedup.Store,
	publisher messaging.Publisher,
	renderer *render.Renderer,
	clock adapter.Clock,
) Ingestor {
	return &ingestor{
		cfg:       cfg,
		limiter:   limiter,
		store:     store,
		publisher: publisher,
		renderer:  renderer,
		clock:     clock,
	}
}

// Process gates, normalizes and filters the payload, then claims the
// signature in the dedup store before enqueueing exactly one alert job.
func (i *ingestor) Process(ctx context.Context, payload []byte) (*Result, error) {
	// Normalization is pure and side-effect free, so it runs before
	// admission: the limiter is keyed by transaction signature
	event, err := normalizer.Normalize(payload)
	if err != nil {
		return nil, err
	}

	if !i.limiter.TryConsume(event.Signature.String()) {
		// No store or queue side effects past this point
		return nil, fmt.Errorf("%w: signature %s", domain.ErrRateLimited, event.Signature)
	}

	qualifying := normalizer.Filter(event.Transfers, i.cfg.Threshold, i.cfg.Mint)
	if len(qualifying) == 0 {
		return &Result{Status: StatusNoMatch, Signature: event.Signature}, nil
	}
	if len(qualifying) > 1 {
		// One alert per transaction: the dedup key is the signature, so
		// only the first qualifying transfer produces a job
		logger.Warn("Multiple qualifying transfers in one transaction, alerting on the first",
			zap.String("signature", event.Signature.String()),
			zap.Int("qualifying", len(qualifying)),
		)
	}
	transfer := qualifying[0]

	job := &domain.AlertJob{
		ID:          ulid.Make().String(),
		Signature:   event.Signature,
		Amount:      transfer.Amount,
		FromAccount: transfer.FromAccount,
		ToAccount:   transfer.ToAccount,
		Mint:        transfer.Mint,
		EnqueuedAt:  i.clock.Now(),
	}

	// Claim the signature before enqueueing. The stored value is the
	// rendered message, so a duplicate delivery can be answered without
	// recomputation.
	first, err := i.store.MarkSeen(ctx, event.Signature, i.renderer.Message(job))
	if err != nil {
		// Store unavailable: nothing was enqueued, the sender may retry
		return nil, err
	}
	if !first {
		logger.Debug("Webhook already processed",
			zap.String("signature", event.Signature.String()),
		)
		return &Result{Status: StatusDuplicate, Signature: event.Signature}, nil
	}

	if err := i.publisher.PublishAlert(ctx, job); err != nil {
		// The dedup record is already written but no job exists. Roll the
		// record back so the upstream retry can re-enqueue; if the rollback
		// fails too, the signature stays marked and the alert is lost
		// rather than duplicated.
		if forgetErr := i.store.Forget(ctx, event.Signature); forgetErr != nil {
			logger.Error(errors.Join(err, forgetErr),
				zap.String("signature", event.Signature.String()),
				zap.String("job_id", job.ID),
			)
		}
		return nil, err
	}

	logger.Info("Alert job enqueued",
		zap.String("signature", event.Signature.String()),
		zap.String("job_id", job.ID),
		zap.Uint64("amount", job.Amount),
	)

	return &Result{Status: StatusAccepted, Signature: event.Signature, JobID: job.ID}, nil
}
