package messaging

import (
	"context"

	"github.com/whalewatch/whale-alert/internal/domain"
)

// Publisher defines the interface for handing alert jobs to the work queue
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishAlert enqueues an alert job. The job becomes visible to exactly
	// one consumer at a time once the broker acknowledges the write.
	PublishAlert(ctx context.Context, job *domain.AlertJob) error

	// Close closes the connection
	Close()
}
