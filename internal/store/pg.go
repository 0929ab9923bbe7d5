package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/whalewatch/whale-alert/internal/store/schema"
)

// PGStore implements Store on Postgres via gorm
type PGStore struct {
	db *gorm.DB
}

// NewPGStore creates a new Postgres-backed store
func NewPGStore(db *gorm.DB) *PGStore {
	return &PGStore{db: db}
}

// Migrate creates or updates the audit and dead-letter tables
func (s *PGStore) Migrate() error {
	return s.db.AutoMigrate(
		&schema.AlertDelivery{},
		&schema.DeadLetter{},
	)
}

// RecordAttempt inserts one delivery attempt row with status pending
func (s *PGStore) RecordAttempt(ctx context.Context, jobID string, signature string, attempt int) (*schema.AlertDelivery, error) {
	row := &schema.AlertDelivery{
		JobID:     jobID,
		Signature: signature,
		Attempt:   attempt,
		Status:    schema.AlertDeliveryStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to record delivery attempt: %w", err)
	}
	return row, nil
}

// FinalizeAttempt sets the terminal status of an attempt row
func (s *PGStore) FinalizeAttempt(ctx context.Context, id uint64, status schema.AlertDeliveryStatus, errorMessage string) error {
	err := s.db.WithContext(ctx).
		Model(&schema.AlertDelivery{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        status,
			"error_message": errorMessage,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to finalize delivery attempt %d: %w", id, err)
	}
	return nil
}

// SaveDeadLetter moves a job into the dead-letter table
func (s *PGStore) SaveDeadLetter(ctx context.Context, dl *schema.DeadLetter) error {
	if err := s.db.WithContext(ctx).Create(dl).Error; err != nil {
		return fmt.Errorf("failed to save dead letter: %w", err)
	}
	return nil
}
