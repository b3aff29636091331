package queries

import (
	"context"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
)

// OrderFinder is the read side of the order repository.
type OrderFinder interface {
	Find(ctx context.Context, filter order.Filter, limit int) ([]*order.Order, error)
}

// GetReconciliationCandidatesQueryHandler selects candidates with the Selection Policy,
// oldest first.
//
// Example:
//
//	handler := NewGetReconciliationCandidatesQueryHandler(orderRepo)
//	ids, err := handler.Handle(ctx, query)
type GetReconciliationCandidatesQueryHandler struct {
	finder OrderFinder
	policy services.SelectionPolicy
}

func NewGetReconciliationCandidatesQueryHandler(finder OrderFinder) GetReconciliationCandidatesQueryHandler {
	return GetReconciliationCandidatesQueryHandler{finder: finder, policy: services.NewSelectionPolicy()}
}

// Handle returns the candidate order ids. An empty store yields an empty, non-nil slice.
func (h GetReconciliationCandidatesQueryHandler) Handle(
	ctx context.Context,
	query GetReconciliationCandidatesQuery,
) ([]string, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.finder.Find(ctx, h.policy.ForReconciliation(query.Since()), query.Limit())
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID())
	}
	return ids, nil
}
