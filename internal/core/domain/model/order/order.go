package order

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/pkg/errs"
)

const (
	// TypeWithCoupon is the order type of imported orders that carry a coupon.
	TypeWithCoupon = 149

	// TypeWithoutCoupon is the order type of imported orders without a coupon.
	TypeWithoutCoupon = 299

	// CouponNotGiven is stored when an imported order has no coupon.
	CouponNotGiven = "not given"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrAlreadyCompleted signals a completion request for an order that is already
	// Completed or Verified. The order is left unchanged.
	ErrAlreadyCompleted = errors.New("order is already completed")

	// ErrNotCompleted signals a revert request for an order that is not Completed.
	// The order is left unchanged.
	ErrNotCompleted = errors.New("order is not completed")
)

// Details carries the importer supplied attributes that the engines do not interpret.
type Details struct {
	CustomerID string
	Source     string
	Coupon     string
	Link       string
}

// Order is the unit of distributable work. It is the aggregate root that moves through
// allocation to a team, assignment to a member, completion and verification.
//
// Order follows these invariants:
//   - orderID is required and unique; it is assigned by the importer
//   - a member is set only when a team is set
//   - Assigned holds exactly when a member is set and the order is not completed
//   - Completed and Verified orders carry profit; all other states carry none
//   - every method either applies its whole change or returns an error and changes nothing
type Order struct {
	orderID   string
	orderType int
	status    Status
	createdAt time.Time

	team   *Assignment
	member *Assignment
	profit *Profit

	details Details

	isConstructed bool
}

// NewOrder creates an imported order in New state.
//
// Example:
//
//	o, err := order.NewOrder("ORD-1", order.TypeWithCoupon, time.Now(), order.Details{
//	    Coupon: "WELCOME",
//	    Link:   "https://pay.example.com/ORD-1",
//	})
func NewOrder(orderID string, orderType int, createdAt time.Time, details Details) (*Order, error) {
	o := &Order{
		status:        New,
		details:       details,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setOrderID(orderID),
		o.setOrderType(orderType),
		o.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	if o.details.Coupon == "" {
		o.details.Coupon = CouponNotGiven
	}

	return o, nil
}

// RestoreOrder rebuilds an order from persistence and rejects records that break
// an invariant.
func RestoreOrder(
	orderID string,
	orderType int,
	status Status,
	createdAt time.Time,
	team *Assignment,
	member *Assignment,
	profit *Profit,
	details Details,
) (*Order, error) {
	o := &Order{
		status:        status,
		team:          team,
		member:        member,
		profit:        profit,
		details:       details,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setOrderID(orderID),
		o.setOrderType(orderType),
		o.setCreatedAt(createdAt),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	if err := o.validateState(); err != nil {
		return nil, err
	}

	return o, nil
}

// TypeForCoupon derives the order type of an imported order from its coupon.
func TypeForCoupon(coupon string) int {
	if coupon != "" && coupon != CouponNotGiven {
		return TypeWithCoupon
	}
	return TypeWithoutCoupon
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() string {
	return o.orderID
}

func (o *Order) Type() int {
	return o.orderType
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) Details() Details {
	return o.details
}

func (o *Order) Link() string {
	return o.details.Link
}

// Team returns a copy of the team assignment, or nil when no team holds the order.
func (o *Order) Team() *Assignment {
	if o.team == nil {
		return nil
	}
	t := *o.team
	return &t
}

// Member returns a copy of the member assignment, or nil when no member works on the order.
func (o *Order) Member() *Assignment {
	if o.member == nil {
		return nil
	}
	m := *o.member
	return &m
}

// Profit returns a copy of the computed profit, or nil before completion.
func (o *Order) Profit() *Profit {
	if o.profit == nil {
		return nil
	}
	p := *o.profit
	return &p
}

// PaymentStatus is Paid exactly when the order is Completed or Verified.
func (o *Order) PaymentStatus() PaymentStatus {
	return o.status.PaymentStatus()
}

// AllocateToTeam hands a New order to a team and moves it to Allocated.
func (o *Order) AllocateToTeam(team Assignment) error {
	if err := team.Validate(); err != nil {
		return err
	}
	if o.team != nil {
		return errs.NewValueIsInvalidErrorWithCause(
			"team", fmt.Errorf("order %s is already allocated to team %s", o.orderID, o.team.ID()))
	}

	newStatus, err := o.status.Allocate()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.team = &team
	return nil
}

// AssignToMember hands an Allocated order to a member of its team and moves it to Assigned.
func (o *Order) AssignToMember(member Assignment) error {
	if err := member.Validate(); err != nil {
		return err
	}
	if o.team == nil {
		return errs.NewValueIsInvalidErrorWithCause(
			"member", fmt.Errorf("order %s has no team to assign from", o.orderID))
	}
	if o.member != nil {
		return errs.NewValueIsInvalidErrorWithCause(
			"member", fmt.Errorf("order %s is already assigned to member %s", o.orderID, o.member.ID()))
	}

	newStatus, err := o.status.Assign()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.member = &member
	return nil
}

// ReleaseFromTeam clears both assignments of a non-terminal order and moves it back to New.
func (o *Order) ReleaseFromTeam() error {
	if o.team == nil {
		return errs.NewValueIsInvalidErrorWithCause(
			"team", fmt.Errorf("order %s is not allocated to a team", o.orderID))
	}

	newStatus, err := o.status.ReleaseTeam()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.team = nil
	o.member = nil
	return nil
}

// ReleaseFromMember clears the member of a non-terminal order and moves it back to Allocated.
// The team assignment is kept.
func (o *Order) ReleaseFromMember() error {
	if o.member == nil {
		return errs.NewValueIsInvalidErrorWithCause(
			"member", fmt.Errorf("order %s is not assigned to a member", o.orderID))
	}

	newStatus, err := o.status.ReleaseMember()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.member = nil
	return nil
}

// Complete marks an Assigned order as Completed, stamps both assignments with at and
// records profit. A Completed or Verified order returns ErrAlreadyCompleted unchanged.
func (o *Order) Complete(profit Profit, at time.Time) error {
	if o.status.IsTerminal() {
		return ErrAlreadyCompleted
	}
	if err := profit.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Complete()
	if err != nil {
		return err
	}

	team := o.team.completed(at)
	member := o.member.completed(at)

	o.status = newStatus
	o.team = &team
	o.member = &member
	o.profit = &profit
	return nil
}

// RevertCompletion moves a Completed order back to Assigned and unsets its profit.
// Any other state returns ErrNotCompleted unchanged.
func (o *Order) RevertCompletion() error {
	newStatus, err := o.status.RevertCompletion()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotCompleted, err)
	}

	o.reopen(newStatus)
	return nil
}

// Verify confirms a Completed order.
func (o *Order) Verify() error {
	newStatus, err := o.status.Verify()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// ReversePayment moves a Completed or Verified order whose payment could not be
// confirmed back to Assigned. The order's own profit is unset; the materialized
// result record keeps zeroed amounts instead.
func (o *Order) ReversePayment() error {
	newStatus, err := o.status.ReversePayment()
	if err != nil {
		return err
	}

	o.reopen(newStatus)
	return nil
}

func (o *Order) reopen(status Status) {
	team := o.team.reopened()
	member := o.member.reopened()

	o.status = status
	o.team = &team
	o.member = &member
	o.profit = nil
}

func (o *Order) setOrderID(orderID string) error {
	if orderID == "" {
		return errs.NewValueIsRequiredError("orderID")
	}
	o.orderID = orderID
	return nil
}

func (o *Order) setOrderType(orderType int) error {
	if orderType <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("orderType", fmt.Errorf("%d is not greater than 0", orderType))
	}
	o.orderType = orderType
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	o.createdAt = createdAt
	return nil
}

// validateState checks the assignment and profit invariants for the current status.
func (o *Order) validateState() error {
	if o.member != nil && o.team == nil {
		return stateError(o, "a member without a team")
	}

	switch o.status {
	case New:
		if o.team != nil {
			return stateError(o, "a team")
		}
	case Allocated:
		if o.team == nil {
			return stateError(o, "no team")
		}
		if o.member != nil {
			return stateError(o, "a member")
		}
	case Assigned:
		if o.member == nil {
			return stateError(o, "no member")
		}
		if o.member.IsCompleted() {
			return stateError(o, "a completed member")
		}
	case Completed, Verified:
		if o.member == nil {
			return stateError(o, "no member")
		}
		if o.profit == nil {
			return stateError(o, "no profit")
		}
		return nil
	case Unknown:
		return o.status.Validate()
	}

	if o.profit != nil {
		return stateError(o, "profit")
	}
	return nil
}

func stateError(o *Order, what string) error {
	return errs.NewValueIsInvalidErrorWithCause(
		"order state",
		fmt.Errorf("order %s in status %s cannot have %s", o.orderID, o.status, what),
	)
}
