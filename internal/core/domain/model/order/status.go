package order

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// Forward transitions:
//
//	New -> Allocated -> Assigned -> Completed -> Verified
//
// Backward transitions:
//
//	Allocated, Assigned -> New        (team released)
//	Assigned            -> Allocated  (member released)
//	Completed           -> Assigned   (completion reverted)
//	Completed, Verified -> Assigned   (payment reversed by reconciliation)
//
// Completed and Verified are terminal for unallocation.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// New is the state of an imported order that no team holds yet.
	New

	// Allocated means a team holds the order but no member works on it.
	Allocated

	// Assigned means a member of the holding team works on the order.
	Assigned

	// Completed means the member finished the order and profit was computed.
	Completed

	// Verified means an administrator confirmed the completion.
	Verified
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		New:       "New",
		Allocated: "Allocated",
		Assigned:  "Assigned",
		Completed: "Completed",
		Verified:  "Verified",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		New:       "New",
		Allocated: "Allocated",
		Assigned:  "Assigned",
		Completed: "Completed",
		Verified:  "Verified",
	}
}

// ParseStatus converts a persisted status name back to a Status.
// The legacy name "Assign" written by earlier importers is accepted as Assigned.
func ParseStatus(value string) (Status, error) {
	if value == "Assign" {
		return Assigned, nil
	}
	for status, name := range getValidStatusStrings() {
		if name == value {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", value))
}

// Validate checks if the Status value is one of the five lifecycle states.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// It is safe to call on invalid values, which render as "Unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status is locked against unallocation.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Verified
}

// PaymentStatus derives the paid projection of the status.
func (s Status) PaymentStatus() PaymentStatus {
	if s.IsTerminal() {
		return Paid
	}
	return Unpaid
}

// Allocate transitions New -> Allocated.
func (s Status) Allocate() (Status, error) {
	if s != New {
		return 0, transitionError(s, "allocate")
	}
	return Allocated, nil
}

// Assign transitions Allocated -> Assigned.
func (s Status) Assign() (Status, error) {
	if s != Allocated {
		return 0, transitionError(s, "assign")
	}
	return Assigned, nil
}

// Complete transitions Assigned -> Completed.
func (s Status) Complete() (Status, error) {
	if s != Assigned {
		return 0, transitionError(s, "complete")
	}
	return Completed, nil
}

// Verify transitions Completed -> Verified.
func (s Status) Verify() (Status, error) {
	if s != Completed {
		return 0, transitionError(s, "verify")
	}
	return Verified, nil
}

// ReleaseTeam transitions Allocated or Assigned -> New.
func (s Status) ReleaseTeam() (Status, error) {
	if s != Allocated && s != Assigned {
		return 0, transitionError(s, "release from team")
	}
	return New, nil
}

// ReleaseMember transitions Assigned -> Allocated.
func (s Status) ReleaseMember() (Status, error) {
	if s != Assigned {
		return 0, transitionError(s, "release from member")
	}
	return Allocated, nil
}

// RevertCompletion transitions Completed -> Assigned.
// Verified orders cannot be reverted by their worker.
func (s Status) RevertCompletion() (Status, error) {
	if s != Completed {
		return 0, transitionError(s, "revert")
	}
	return Assigned, nil
}

// ReversePayment transitions Completed or Verified -> Assigned.
func (s Status) ReversePayment() (Status, error) {
	if !s.IsTerminal() {
		return 0, transitionError(s, "reverse payment")
	}
	return Assigned, nil
}

func transitionError(s Status, action string) error {
	return errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%s is not a valid status to %s", s.String(), action),
	)
}

// PaymentStatus is the paid/unpaid projection of an order's lifecycle state.
type PaymentStatus int

const (
	Unpaid PaymentStatus = iota
	Paid
)

func (p PaymentStatus) String() string {
	if p == Paid {
		return "Paid"
	}
	return "Unpaid"
}

// ParsePaymentStatus converts a persisted payment status name.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	switch value {
	case "Paid":
		return Paid, nil
	case "Unpaid":
		return Unpaid, nil
	default:
		return Unpaid, errs.NewValueIsInvalidErrorWithCause(
			"payment status is invalid", fmt.Errorf("%q is not a valid payment status", value))
	}
}
