package domain

import (
	"time"
)

// TransactionSignature is the unique identifier of a Solana transaction.
// It is the natural deduplication key: the upstream sender delivers at most
// one webhook per transaction, possibly many times.
type TransactionSignature string

func (s TransactionSignature) String() string {
	return string(s)
}

// Valid reports whether the signature is usable as a dedup key
func (s TransactionSignature) Valid() bool {
	return s != ""
}

// TransferEvent is a single token movement inside a transaction,
// derived purely from the inbound webhook payload.
type TransferEvent struct {
	// Amount is the transferred amount in the token's smallest unit
	Amount uint64 `json:"amount"`
	// Mint is the asset identifier (SPL token mint address)
	Mint string `json:"mint"`
	// FromAccount is the sending user account
	FromAccount string `json:"from_account"`
	// ToAccount is the receiving user account
	ToAccount string `json:"to_account"`
}

// WebhookEvent is the normalized form of one inbound webhook delivery:
// the transaction signature plus every token transfer it carried.
type WebhookEvent struct {
	Signature TransactionSignature
	Transfers []TransferEvent
}

// AlertJob is the unit of work handed from the ingestion path to the
// delivery worker. Fields are immutable after creation; retry state lives
// in queue metadata, never in the job itself.
type AlertJob struct {
	// ID is a ULID assigned at enqueue time (time-sortable uniqueness)
	ID string `json:"id"`
	// Signature is the transaction that triggered the alert
	Signature TransactionSignature `json:"signature"`
	// Amount is the qualifying transfer amount
	Amount uint64 `json:"amount"`
	// FromAccount is the sending user account
	FromAccount string `json:"from_account"`
	// ToAccount is the receiving user account
	ToAccount string `json:"to_account"`
	// Mint is the asset identifier of the transfer
	Mint string `json:"mint"`
	// EnqueuedAt is when the ingestion path created the job
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// JobState is the delivery worker's per-job state machine.
type JobState string

const (
	// JobStateClaimed means the job has been leased by exactly one worker
	JobStateClaimed JobState = "claimed"
	// JobStateRendering means the alert message is being rendered
	JobStateRendering JobState = "rendering"
	// JobStateSending means the notification channel call is in flight
	JobStateSending JobState = "sending"
	// JobStateDelivered is the successful terminal state
	JobStateDelivered JobState = "delivered"
	// JobStateRetryScheduled means the job will be redelivered after a backoff delay
	JobStateRetryScheduled JobState = "retry_scheduled"
	// JobStateDeadLettered is the terminal state for jobs that exhausted retries
	JobStateDeadLettered JobState = "dead_lettered"
)
