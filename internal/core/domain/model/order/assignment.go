package order

import (
	"errors"
	"time"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrAssignmentIsNotConstructed = errors.New("Assignment must be created via NewAssignment constructor")

// Assignment records who holds an order at one level of the hierarchy (team or member).
// The holder's name is denormalized onto the order for downstream reads.
type Assignment struct {
	id          string
	name        string
	allocatedAt time.Time
	completedAt *time.Time
	guard       guard.ConstructorGuard
}

// NewAssignment creates a fresh assignment; id and name are required.
func NewAssignment(id, name string, allocatedAt time.Time) (Assignment, error) {
	if id == "" {
		return Assignment{}, errs.NewValueIsRequiredError("assignee id")
	}
	if name == "" {
		return Assignment{}, errs.NewValueIsRequiredError("assignee name")
	}
	if allocatedAt.IsZero() {
		return Assignment{}, errs.NewValueIsRequiredError("allocatedAt")
	}
	return Assignment{id: id, name: name, allocatedAt: allocatedAt, guard: guard.NewConstructorGuard()}, nil
}

// RestoreAssignment rebuilds a persisted assignment. Records written before names were
// stamped may carry an empty name, so only the id is required here.
func RestoreAssignment(id, name string, allocatedAt time.Time, completedAt *time.Time) (Assignment, error) {
	if id == "" {
		return Assignment{}, errs.NewValueIsRequiredError("assignee id")
	}
	return Assignment{
		id:          id,
		name:        name,
		allocatedAt: allocatedAt,
		completedAt: completedAt,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (a Assignment) Validate() error {
	return a.guard.Validate(ErrAssignmentIsNotConstructed)
}

func (a Assignment) ID() string {
	return a.id
}

func (a Assignment) Name() string {
	return a.name
}

func (a Assignment) AllocatedAt() time.Time {
	return a.allocatedAt
}

// CompletedAt returns nil until the order is completed.
func (a Assignment) CompletedAt() *time.Time {
	if a.completedAt == nil {
		return nil
	}
	t := *a.completedAt
	return &t
}

func (a Assignment) IsCompleted() bool {
	return a.completedAt != nil
}

func (a Assignment) completed(at time.Time) Assignment {
	a.completedAt = &at
	return a
}

func (a Assignment) reopened() Assignment {
	a.completedAt = nil
	return a
}
