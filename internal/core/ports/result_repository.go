package ports

import (
	"context"

	"orderflow/internal/core/domain/model/result"
)

// ResultRepository stores the materialized profit record of each order.
type ResultRepository interface {
	// Get returns the record for orderID or an errs.ObjectNotFoundError.
	Get(ctx context.Context, orderID string) (*result.Result, error)

	// Upsert creates or replaces the record keyed by its order id.
	Upsert(ctx context.Context, aggregate *result.Result) error
}
