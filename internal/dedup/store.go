// Package dedup provides the durable dedup store: a Redis-backed record of
// which transaction signatures have already produced an alert.
package dedup

import (
	"context"

	"github.com/whalewatch/whale-alert/internal/domain"
)

// Store records which transaction signatures have already been alerted on.
// MarkSeen is a check-and-set: two concurrent webhook deliveries for the
// same signature cannot both win.
//
//go:generate mockgen -source=store.go -destination=../mocks/dedup.go -package=mocks -mock_names=Store=MockDedupStore
type Store interface {
	// MarkSeen records the signature with the given payload if it has not
	// been seen before. Returns true when this call was the first sighting.
	MarkSeen(ctx context.Context, sig domain.TransactionSignature, payload string) (bool, error)

	// SeenBefore reports whether the signature has already been recorded
	SeenBefore(ctx context.Context, sig domain.TransactionSignature) (bool, error)

	// Forget removes the signature record. Used to roll back a MarkSeen
	// whose follow-up enqueue failed, so the upstream retry can try again.
	Forget(ctx context.Context, sig domain.TransactionSignature) error

	// Ping checks store availability
	Ping(ctx context.Context) error

	// Close releases the underlying connection
	Close() error
}
