package domain

import "errors"

var (
	// ErrMalformedPayload is returned when a webhook payload is missing the
	// signature or transfers field, or is of the wrong shape. Such payloads
	// are acknowledged to the sender (to stop redelivery) and dropped.
	ErrMalformedPayload = errors.New("malformed webhook payload")

	// ErrRateLimited is returned when the admission controller rejects an
	// ingestion attempt. A rejected request has no side effects.
	ErrRateLimited = errors.New("rate limited")

	// ErrStoreUnavailable is returned when the dedup store cannot be reached.
	// The ingestion path surfaces this as a transient failure so the sender
	// retries later.
	ErrStoreUnavailable = errors.New("dedup store unavailable")

	// ErrQueueUnavailable is returned when the work queue cannot accept a job.
	ErrQueueUnavailable = errors.New("work queue unavailable")

	// ErrDeliveryFailed is returned when the notification channel rejects a
	// send. The delivery worker retries within its attempt ceiling.
	ErrDeliveryFailed = errors.New("alert delivery failed")
)
