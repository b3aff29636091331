// Package queries contains read operations over the order store.
package queries

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// MaxCandidates bounds the ids returned by one candidate query.
const MaxCandidates = 1000

var (
	ErrGetReconciliationCandidatesQueryIsNotConstructed = errors.New(
		"GetReconciliationCandidatesQuery must be created via NewGetReconciliationCandidatesQuery constructor",
	)
)

// GetReconciliationCandidatesQuery lists orders whose payment should be checked: orders
// with a link that are Assigned, Completed or Verified and were created at or after since.
//
// Example:
//
//	query, err := NewGetReconciliationCandidatesQuery(time.Now().AddDate(0, 0, -7), 500)
//	if err != nil {
//	    return err
//	}
//
//	ids, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to list candidates: %w", err)
//	}
type GetReconciliationCandidatesQuery struct {
	since time.Time
	limit int

	guard guard.ConstructorGuard
}

func NewGetReconciliationCandidatesQuery(since time.Time, limit int) (GetReconciliationCandidatesQuery, error) {
	var sinceErr, limitErr error
	if since.IsZero() {
		sinceErr = errs.NewValueIsRequiredError("since")
	}
	if limit <= 0 || limit > MaxCandidates {
		limitErr = errs.NewValueIsOutOfRangeErrorWithCause("limit", limit, 1, MaxCandidates,
			fmt.Errorf("limit must be between 1 and %d", MaxCandidates))
	}
	if err := errors.Join(sinceErr, limitErr); err != nil {
		return GetReconciliationCandidatesQuery{}, err
	}

	return GetReconciliationCandidatesQuery{since: since, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetReconciliationCandidatesQuery) Validate() error {
	return q.guard.Validate(ErrGetReconciliationCandidatesQueryIsNotConstructed)
}

func (q GetReconciliationCandidatesQuery) Since() time.Time {
	return q.since
}

func (q GetReconciliationCandidatesQuery) Limit() int {
	return q.limit
}
