package result

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

var ErrResultIsNotConstructed = errors.New("Result must be created via NewResultForCompletion constructor")

// Result is the per-order profit record.
//
// Profit fields are pointers: nil means unset (after a revert), zero means the amounts
// were zeroed by a reconciliation correction.
type Result struct {
	orderID       string
	teamID        string
	memberID      string
	link          string
	paymentStatus order.PaymentStatus

	commission        *int64
	profitBehindOrder *int64
	membersProfit     *int64

	updatedAt time.Time

	isConstructed bool
}

// NewResultForCompletion copies the payment state and profit of a completed order.
func NewResultForCompletion(o *order.Order, at time.Time) (*Result, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	profit := o.Profit()
	if profit == nil || o.PaymentStatus() != order.Paid {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"order", fmt.Errorf("order %s in status %s has no profit to record", o.ID(), o.Status()))
	}

	r := &Result{
		orderID:       o.ID(),
		link:          o.Link(),
		paymentStatus: order.Paid,
		updatedAt:     at,
		isConstructed: true,
	}
	if team := o.Team(); team != nil {
		r.teamID = team.ID()
	}
	if member := o.Member(); member != nil {
		r.memberID = member.ID()
	}
	r.setProfit(*profit)

	return r, nil
}

// RestoreResult rebuilds a persisted record.
func RestoreResult(
	orderID, teamID, memberID, link string,
	paymentStatus order.PaymentStatus,
	commission, profitBehindOrder, membersProfit *int64,
	updatedAt time.Time,
) (*Result, error) {
	if orderID == "" {
		return nil, errs.NewValueIsRequiredError("orderID")
	}
	return &Result{
		orderID:           orderID,
		teamID:            teamID,
		memberID:          memberID,
		link:              link,
		paymentStatus:     paymentStatus,
		commission:        commission,
		profitBehindOrder: profitBehindOrder,
		membersProfit:     membersProfit,
		updatedAt:         updatedAt,
		isConstructed:     true,
	}, nil
}

func (r *Result) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrResultIsNotConstructed
	}
	return nil
}

func (r *Result) OrderID() string                    { return r.orderID }
func (r *Result) TeamID() string                     { return r.teamID }
func (r *Result) MemberID() string                   { return r.memberID }
func (r *Result) Link() string                       { return r.link }
func (r *Result) PaymentStatus() order.PaymentStatus { return r.paymentStatus }
func (r *Result) UpdatedAt() time.Time               { return r.updatedAt }
func (r *Result) Commission() *int64                 { return copyAmount(r.commission) }
func (r *Result) ProfitBehindOrder() *int64          { return copyAmount(r.profitBehindOrder) }
func (r *Result) MembersProfit() *int64              { return copyAmount(r.membersProfit) }

// RecordCompletion refreshes the copy after the order was completed again.
func (r *Result) RecordCompletion(o *order.Order, at time.Time) error {
	fresh, err := NewResultForCompletion(o, at)
	if err != nil {
		return err
	}
	*r = *fresh
	return nil
}

// ClearProfit marks the record unpaid and unsets every amount.
func (r *Result) ClearProfit(at time.Time) {
	r.paymentStatus = order.Unpaid
	r.commission = nil
	r.profitBehindOrder = nil
	r.membersProfit = nil
	r.updatedAt = at
}

// ZeroProfit marks the record unpaid after a failed payment check. The amounts owed are
// zeroed; commission is kept.
func (r *Result) ZeroProfit(at time.Time) {
	behind, members := int64(0), int64(0)

	r.paymentStatus = order.Unpaid
	r.profitBehindOrder = &behind
	r.membersProfit = &members
	r.updatedAt = at
}

// MarkPaid marks the record paid without touching the amounts.
func (r *Result) MarkPaid(at time.Time) {
	r.paymentStatus = order.Paid
	r.updatedAt = at
}

func (r *Result) setProfit(p order.Profit) {
	commission, behind, members := p.Commission(), p.ProfitBehindOrder(), p.MembersProfit()
	r.commission = &commission
	r.profitBehindOrder = &behind
	r.membersProfit = &members
}

func copyAmount(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
