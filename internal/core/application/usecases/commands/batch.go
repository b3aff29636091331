package commands

import (
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
)

const (
	// MaxBatchSize bounds the number of requests of one allocation or unallocation call.
	MaxBatchSize = 500

	// MaxReconcileBatch bounds the number of orders of one reconciliation call.
	MaxReconcileBatch = 1000

	// MaxImportBatch bounds the number of orders of one import call.
	MaxImportBatch = 5000
)

var (
	ErrBatchIsEmpty    = errors.New("batch must contain at least one request")
	ErrBatchIsTooLarge = errors.New("batch is too large")
	ErrUnauthorized    = errors.New("actor is not allowed to perform this operation")
)

// Level tells which hierarchy level a batch worked on.
type Level int

const (
	LevelUnknown Level = iota
	LevelTeam
	LevelMember
)

func (l Level) String() string {
	switch l {
	case LevelTeam:
		return "team"
	case LevelMember:
		return "member"
	default:
		return "unknown"
	}
}

// Outcome classifies the result of one request of a batch.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeAllocated
	OutcomeUnallocated
	OutcomeNoneAvailable
	OutcomeTargetNotFound
	OutcomeUnauthorized
	OutcomeValidationError
	OutcomeStoreError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAllocated:
		return "Allocated"
	case OutcomeUnallocated:
		return "Unallocated"
	case OutcomeNoneAvailable:
		return "NoneAvailable"
	case OutcomeTargetNotFound:
		return "TargetNotFound"
	case OutcomeUnauthorized:
		return "Unauthorized"
	case OutcomeValidationError:
		return "ValidationError"
	case OutcomeStoreError:
		return "StoreError"
	default:
		return "Unknown"
	}
}

// IsFailure reports whether the request was rejected or failed.
// NoneAvailable is informational.
func (o Outcome) IsFailure() bool {
	switch o {
	case OutcomeTargetNotFound, OutcomeUnauthorized, OutcomeValidationError, OutcomeStoreError:
		return true
	default:
		return false
	}
}

// RequestResult is the report line of one batch request.
//
// Requested is zero for unbounded unallocation requests, in which case Shortfall is
// zero as well.
type RequestResult struct {
	Index     int
	TeamID    string
	MemberID  string
	OrderType int
	Outcome   Outcome
	Requested int
	Changed   int
	Shortfall int
	OrderIDs  []string
	Reason    string
}

func (r *RequestResult) changed(ids []string) {
	r.OrderIDs = ids
	r.Changed = len(ids)
	if r.Requested > r.Changed {
		r.Shortfall = r.Requested - r.Changed
	}
}

func (r *RequestResult) fail(outcome Outcome, err error) {
	r.Outcome = outcome
	if err != nil {
		r.Reason = err.Error()
	}
}

// BatchReport collects the results of an allocation or unallocation batch in
// request order.
type BatchReport struct {
	Level   Level
	Results []RequestResult
}

// Changed sums the orders changed across all requests.
func (r BatchReport) Changed() int {
	total := 0
	for _, res := range r.Results {
		total += res.Changed
	}
	return total
}

// Failures counts the failed requests.
func (r BatchReport) Failures() int {
	total := 0
	for _, res := range r.Results {
		if res.Outcome.IsFailure() {
			total++
		}
	}
	return total
}

func validateBatchSize(n, maxSize int) error {
	if n == 0 {
		return ErrBatchIsEmpty
	}
	if n > maxSize {
		return fmt.Errorf("%w: %d requests, at most %d allowed", ErrBatchIsTooLarge, n, maxSize)
	}
	return nil
}

// levelFor maps the actor's role to the level a batch works on.
func levelFor(actor kernel.Actor) (Level, error) {
	if err := actor.Validate(); err != nil {
		return LevelUnknown, err
	}
	switch actor.Role() {
	case kernel.RoleAdmin:
		return LevelTeam, nil
	case kernel.RoleTeamLeader:
		return LevelMember, nil
	default:
		return LevelUnknown, fmt.Errorf("%w: role %s", ErrUnauthorized, actor.Role())
	}
}

func orderIDs[T interface{ ID() string }](items []T) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID())
	}
	return ids
}
