// Package ports defines the contracts between the order engines and the infrastructure
// they run on: stores, the team directory, the payment probe and token revocation.
package ports

import (
	"context"

	"orderflow/internal/core/domain/model/order"
)

// AddManyResult reports the outcome of an unordered bulk insert.
type AddManyResult struct {
	Inserted   int
	Duplicates []string
}

// OrderRepository defines the persistence contract for order aggregates.
//
// Every call reads current state from the store; implementations must not cache orders
// between calls.
type OrderRepository interface {
	// AddMany inserts new orders without stopping at duplicates. Orders whose id already
	// exists are reported in Duplicates and do not fail the call.
	AddMany(ctx context.Context, orders []*order.Order) (AddManyResult, error)

	// Get returns the order with orderID or an errs.ObjectNotFoundError.
	Get(ctx context.Context, orderID string) (*order.Order, error)

	// Find returns up to limit orders matching filter, oldest first. A limit of zero
	// or less means no limit.
	Find(ctx context.Context, filter order.Filter, limit int) ([]*order.Order, error)

	// UpdateMany applies change to every order whose id is in ids and which still
	// matches filter at write time. It returns the ids it actually changed.
	//
	// Example:
	//
	//	candidates, _ := repo.Find(ctx, filter, quantity)
	//	claimed, err := repo.UpdateMany(ctx, idsOf(candidates), filter, change)
	//	// len(claimed) <= len(candidates): rivals may have claimed the rest.
	UpdateMany(ctx context.Context, ids []string, filter order.Filter, change order.BulkChange) ([]string, error)

	// Update persists aggregate only when the stored status still equals expected.
	// A changed status yields an errs.VersionIsInvalidError; a missing order an
	// errs.ObjectNotFoundError.
	Update(ctx context.Context, aggregate *order.Order, expected order.Status) error
}
