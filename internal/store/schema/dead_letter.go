package schema

import (
	"time"

	"gorm.io/datatypes"
)

// DeadLetter represents the dead_letters table - the terminal destination
// for jobs that exhausted their retry attempts. Rows here are out of the
// live retry path for good.
type DeadLetter struct {
	// ID is an auto-incrementing sequence number
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// JobID is the alert job id, when the payload could be decoded
	JobID string `gorm:"column:job_id;type:varchar(26);index"`
	// Signature is the transaction signature, when known
	Signature string `gorm:"column:signature;type:varchar(128);index"`
	// Payload is the full job payload as received from the queue
	Payload datatypes.JSON `gorm:"column:payload;not null;type:jsonb"`
	// Attempts is the number of delivery attempts made before dead-lettering
	Attempts int `gorm:"column:attempts;not null"`
	// Reason describes why the job was dead-lettered
	Reason string `gorm:"column:reason;not null;type:text"`
	// CreatedAt is when the job was dead-lettered
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the DeadLetter model
func (DeadLetter) TableName() string {
	return "dead_letters"
}
