package ports

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/reconciliation"
)

// ErrProbeFailed is returned by a PaymentProbe attempt that produced no usable answer.
var ErrProbeFailed = errors.New("payment probe failed")

// PaymentProbe asks the payment provider whether the payment behind link was completed.
// One call is one attempt; retries are the caller's concern.
type PaymentProbe interface {
	// Probe returns reconciliation.Done or reconciliation.NotDone, or an error wrapping
	// ErrProbeFailed.
	Probe(ctx context.Context, link string) (reconciliation.Completion, error)
}
