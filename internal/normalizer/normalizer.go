// Package normalizer turns raw webhook payloads into normalized whale-alert
// events. Pure functions, no I/O.
package normalizer

import (
	"encoding/json"
	"fmt"

	"github.com/whalewatch/whale-alert/internal/domain"
)

// rawTransaction mirrors the upstream webhook element shape
type rawTransaction struct {
	Signature      *string        `json:"signature"`
	TokenTransfers []*rawTransfer `json:"tokenTransfers"`
}

type rawTransfer struct {
	TokenAmount     uint64 `json:"tokenAmount"`
	Mint            string `json:"mint"`
	FromUserAccount string `json:"fromUserAccount"`
	ToUserAccount   string `json:"toUserAccount"`
}

// Normalize extracts the transaction signature and token transfers from a
// raw webhook payload. The payload is an outer array; only element zero is
// consulted, since the upstream sends one webhook per transaction. Payloads
// with more elements are not aggregated.
//
// Returns domain.ErrMalformedPayload when the outer array is empty or the
// signature or transfers field is absent or of the wrong shape.
func Normalize(payload []byte) (*domain.WebhookEvent, error) {
	var outer []json.RawMessage
	if err := json.Unmarshal(payload, &outer); err != nil {
		return nil, fmt.Errorf("%w: not a JSON array: %v", domain.ErrMalformedPayload, err)
	}
	if len(outer) == 0 {
		return nil, fmt.Errorf("%w: empty payload array", domain.ErrMalformedPayload)
	}

	var tx rawTransaction
	if err := json.Unmarshal(outer[0], &tx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	if tx.Signature == nil || *tx.Signature == "" {
		return nil, fmt.Errorf("%w: missing signature", domain.ErrMalformedPayload)
	}
	if tx.TokenTransfers == nil {
		return nil, fmt.Errorf("%w: missing tokenTransfers", domain.ErrMalformedPayload)
	}

	transfers := make([]domain.TransferEvent, 0, len(tx.TokenTransfers))
	for _, t := range tx.TokenTransfers {
		if t == nil {
			return nil, fmt.Errorf("%w: null transfer entry", domain.ErrMalformedPayload)
		}
		transfers = append(transfers, domain.TransferEvent{
			Amount:      t.TokenAmount,
			Mint:        t.Mint,
			FromAccount: t.FromUserAccount,
			ToAccount:   t.ToUserAccount,
		})
	}

	return &domain.WebhookEvent{
		Signature: domain.TransactionSignature(*tx.Signature),
		Transfers: transfers,
	}, nil
}

// Filter returns the transfers that qualify for alerting: amount strictly
// greater than the threshold AND an exact match on the target mint. A
// transfer at exactly the threshold does not qualify.
func Filter(transfers []domain.TransferEvent, threshold uint64, mint string) []domain.TransferEvent {
	var qualifying []domain.TransferEvent
	for _, t := range transfers {
		if t.Amount > threshold && t.Mint == mint {
			qualifying = append(qualifying, t)
		}
	}
	return qualifying
}
