package store

import (
	"context"

	"github.com/whalewatch/whale-alert/internal/store/schema"
)

// Store is the delivery audit and dead-letter store shared by worker
// instances
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// RecordAttempt inserts one delivery attempt row (status pending)
	// and returns it for later finalization
	RecordAttempt(ctx context.Context, jobID string, signature string, attempt int) (*schema.AlertDelivery, error)

	// FinalizeAttempt sets the terminal status of an attempt row
	FinalizeAttempt(ctx context.Context, id uint64, status schema.AlertDeliveryStatus, errorMessage string) error

	// SaveDeadLetter moves a job into the dead-letter table
	SaveDeadLetter(ctx context.Context, dl *schema.DeadLetter) error
}
