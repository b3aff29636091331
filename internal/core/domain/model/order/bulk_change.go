package order

import (
	"errors"
	"fmt"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrBulkChangeIsNotConstructed = errors.New("BulkChange must be created via one of its constructors")

// ChangeKind names the transition a BulkChange applies.
type ChangeKind int

const (
	ChangeUnknown ChangeKind = iota
	ChangeAllocateTeam
	ChangeAssignMember
	ChangeReleaseTeam
	ChangeReleaseMember
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAllocateTeam:
		return "AllocateTeam"
	case ChangeAssignMember:
		return "AssignMember"
	case ChangeReleaseTeam:
		return "ReleaseTeam"
	case ChangeReleaseMember:
		return "ReleaseMember"
	default:
		return "Unknown"
	}
}

// BulkChange is the write half of a conditional claim: the same transition applied to
// every order of a captured id set that still matches the selecting Filter.
type BulkChange struct {
	kind       ChangeKind
	assignment Assignment
	guard      guard.ConstructorGuard
}

// AllocateTeamChange stamps team and moves New orders to Allocated.
func AllocateTeamChange(team Assignment) (BulkChange, error) {
	if err := team.Validate(); err != nil {
		return BulkChange{}, err
	}
	return BulkChange{kind: ChangeAllocateTeam, assignment: team, guard: guard.NewConstructorGuard()}, nil
}

// AssignMemberChange stamps member and moves Allocated orders to Assigned.
func AssignMemberChange(member Assignment) (BulkChange, error) {
	if err := member.Validate(); err != nil {
		return BulkChange{}, err
	}
	return BulkChange{kind: ChangeAssignMember, assignment: member, guard: guard.NewConstructorGuard()}, nil
}

// ReleaseTeamChange clears team and member and moves orders to New.
func ReleaseTeamChange() BulkChange {
	return BulkChange{kind: ChangeReleaseTeam, guard: guard.NewConstructorGuard()}
}

// ReleaseMemberChange clears member and moves orders to Allocated.
func ReleaseMemberChange() BulkChange {
	return BulkChange{kind: ChangeReleaseMember, guard: guard.NewConstructorGuard()}
}

func (c BulkChange) Validate() error {
	return c.guard.Validate(ErrBulkChangeIsNotConstructed)
}

func (c BulkChange) Kind() ChangeKind {
	return c.kind
}

// Assignment returns the stamped sub-record for AllocateTeam and AssignMember changes.
func (c BulkChange) Assignment() (Assignment, bool) {
	if c.kind == ChangeAllocateTeam || c.kind == ChangeAssignMember {
		return c.assignment, true
	}
	return Assignment{}, false
}

// TargetStatus is the status every claimed order ends in.
func (c BulkChange) TargetStatus() Status {
	switch c.kind {
	case ChangeAllocateTeam:
		return Allocated
	case ChangeAssignMember:
		return Assigned
	case ChangeReleaseTeam:
		return New
	case ChangeReleaseMember:
		return Allocated
	default:
		return Unknown
	}
}

// Apply runs the change on a single aggregate through its domain methods.
func (c BulkChange) Apply(o *Order) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := o.Validate(); err != nil {
		return err
	}

	switch c.kind {
	case ChangeAllocateTeam:
		return o.AllocateToTeam(c.assignment)
	case ChangeAssignMember:
		return o.AssignToMember(c.assignment)
	case ChangeReleaseTeam:
		return o.ReleaseFromTeam()
	case ChangeReleaseMember:
		return o.ReleaseFromMember()
	default:
		return errs.NewValueIsInvalidErrorWithCause("change", fmt.Errorf("%s is not applicable", c.kind))
	}
}
