//go:build property
// +build property

package order_test

import (
	"testing"
	"time"

	"orderflow/internal/core/domain/model/order"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// operation indices drawn by the generator.
const (
	opAllocate = iota
	opAssign
	opReleaseTeam
	opReleaseMember
	opComplete
	opRevert
	opVerify
	opReversePayment
	opCount
)

func applyOperation(o *order.Order, op int, at time.Time) {
	team, _ := order.NewAssignment("T1", "Falcons", at)
	member, _ := order.NewAssignment("M1", "Asha", at)
	p, _ := order.NewProfit(10, 30, 15)

	switch op {
	case opAllocate:
		_ = o.AllocateToTeam(team)
	case opAssign:
		_ = o.AssignToMember(member)
	case opReleaseTeam:
		_ = o.ReleaseFromTeam()
	case opReleaseMember:
		_ = o.ReleaseFromMember()
	case opComplete:
		_ = o.Complete(p, at)
	case opRevert:
		_ = o.RevertCompletion()
	case opVerify:
		_ = o.Verify()
	case opReversePayment:
		_ = o.ReversePayment()
	}
}

// invariantsHold re-runs the persistence checks against the current state.
func invariantsHold(o *order.Order) bool {
	_, err := order.RestoreOrder(
		o.ID(), o.Type(), o.Status(), o.CreatedAt(), o.Team(), o.Member(), o.Profit(), o.Details(),
	)
	if err != nil {
		return false
	}

	assigned := o.Status() == order.Assigned
	working := o.Member() != nil && o.Team() != nil && !o.Member().IsCompleted()
	if assigned != working {
		return false
	}

	paid := o.PaymentStatus() == order.Paid
	return paid == (o.Profit() != nil)
}

func TestOrderInvariantsUnderRandomTransitions(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("every reachable state keeps the order invariants", prop.ForAll(
		func(ops []int) bool {
			at := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
			o, err := order.NewOrder("ORD-1", order.TypeWithCoupon, at, order.Details{})
			if err != nil {
				return false
			}
			for i, op := range ops {
				applyOperation(o, op, at.Add(time.Duration(i)*time.Minute))
				if !invariantsHold(o) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, opCount-1)),
	))

	properties.Property("completing twice never changes profit", prop.ForAll(
		func(commission, behind, members int64) bool {
			at := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
			o, _ := order.NewOrder("ORD-1", order.TypeWithCoupon, at, order.Details{})
			applyOperation(o, opAllocate, at)
			applyOperation(o, opAssign, at)

			first, _ := order.NewProfit(commission, behind, members)
			second, _ := order.NewProfit(commission+1, behind+1, members+1)
			if err := o.Complete(first, at); err != nil {
				return false
			}
			if err := o.Complete(second, at); err == nil {
				return false
			}
			return *o.Profit() == first
		},
		gen.Int64Range(0, 1000),
		gen.Int64Range(0, 1000),
		gen.Int64Range(0, 1000),
	))

	properties.TestingRun(t)
}
