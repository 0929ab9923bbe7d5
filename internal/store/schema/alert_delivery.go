package schema

import (
	"time"
)

// AlertDeliveryStatus is the status of an alert delivery attempt
type AlertDeliveryStatus string

const (
	// AlertDeliveryStatusPending means the send is in flight
	AlertDeliveryStatusPending AlertDeliveryStatus = "pending"
	// AlertDeliveryStatusSuccess means the notification channel accepted the message
	AlertDeliveryStatusSuccess AlertDeliveryStatus = "success"
	// AlertDeliveryStatusFailed means the attempt failed and may be retried
	AlertDeliveryStatusFailed AlertDeliveryStatus = "failed"
)

// AlertDelivery represents the alert_deliveries table - audit log of
// delivery attempts, one row per attempt
type AlertDelivery struct {
	// ID is an auto-incrementing sequence number
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// JobID is the alert job this attempt belongs to
	JobID string `gorm:"column:job_id;not null;type:varchar(26);index"`
	// Signature is the transaction signature, for correlation with logs
	Signature string `gorm:"column:signature;not null;type:varchar(128);index"`
	// Attempt is the delivery count reported by the queue (1-based)
	Attempt int `gorm:"column:attempt;not null"`
	// Status indicates the attempt outcome: pending, success, failed
	Status AlertDeliveryStatus `gorm:"column:status;not null;default:pending"`
	// ErrorMessage contains error details if the attempt failed
	ErrorMessage string `gorm:"column:error_message;type:text"`
	// CreatedAt is when this attempt row was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is when this attempt row was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the AlertDelivery model
func (AlertDelivery) TableName() string {
	return "alert_deliveries"
}
