package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

// ErrQuantityIsInvalid is returned when a selection asks for zero or fewer orders.
var ErrQuantityIsInvalid = errors.New("quantity must be greater than 0")

// terminalStatuses are never selected for release.
var terminalStatuses = []order.Status{order.Completed, order.Verified}

// SelectionPolicy translates an allocation or release request into an order.Filter.
//
// Allocation filters use the full date window. Release filters apply only the lower
// bound of the window and always exclude terminal orders.
//
// Example usage:
//
//	policy := services.NewSelectionPolicy()
//	window, _ := kernel.NewDateWindow(date, nil, time.UTC)
//	filter, err := policy.ForTeamAllocation(window, order.TypeWithCoupon, 5)
//	if err != nil {
//	    return err
//	}
//	candidates, err := repo.Find(ctx, filter, 5)
type SelectionPolicy struct{}

func NewSelectionPolicy() SelectionPolicy {
	return SelectionPolicy{}
}

// ForTeamAllocation selects New orders without a team.
func (SelectionPolicy) ForTeamAllocation(window kernel.DateWindow, orderType, quantity int) (order.Filter, error) {
	if err := errors.Join(window.Validate(), validateOrderType(orderType), validateQuantity(quantity)); err != nil {
		return order.Filter{}, err
	}

	to := window.To()
	return order.Filter{
		Statuses:    []order.Status{order.New},
		OrderType:   orderType,
		Team:        order.PresenceAbsent,
		CreatedFrom: window.From(),
		CreatedTo:   &to,
	}, nil
}

// ForMemberAssignment selects Allocated orders of teamID that no member holds yet.
func (SelectionPolicy) ForMemberAssignment(
	window kernel.DateWindow,
	teamID string,
	orderType, quantity int,
) (order.Filter, error) {
	if err := errors.Join(
		window.Validate(),
		validateTeamID(teamID),
		validateOrderType(orderType),
		validateQuantity(quantity),
	); err != nil {
		return order.Filter{}, err
	}

	to := window.To()
	return order.Filter{
		Statuses:    []order.Status{order.Allocated},
		OrderType:   orderType,
		TeamID:      teamID,
		Member:      order.PresenceAbsent,
		CreatedFrom: window.From(),
		CreatedTo:   &to,
	}, nil
}

// ForTeamRelease selects every non-terminal order of teamID created on or after the
// start of the window.
func (SelectionPolicy) ForTeamRelease(window kernel.DateWindow, teamID string, orderType int) (order.Filter, error) {
	if err := errors.Join(window.Validate(), validateTeamID(teamID), validateOrderType(orderType)); err != nil {
		return order.Filter{}, err
	}

	return order.Filter{
		ExcludedStatuses: terminalStatuses,
		OrderType:        orderType,
		TeamID:           teamID,
		CreatedFrom:      window.From(),
	}, nil
}

// ForMemberRelease is ForTeamRelease restricted to orders a member holds.
func (p SelectionPolicy) ForMemberRelease(window kernel.DateWindow, teamID string, orderType int) (order.Filter, error) {
	f, err := p.ForTeamRelease(window, teamID, orderType)
	if err != nil {
		return order.Filter{}, err
	}
	f.Member = order.PresencePresent
	return f, nil
}

// ForReconciliation selects orders with a link that are, or have been, worked on.
func (SelectionPolicy) ForReconciliation(since time.Time) order.Filter {
	return order.Filter{
		Statuses:    []order.Status{order.Assigned, order.Completed, order.Verified},
		CreatedFrom: since,
		LinkPresent: true,
	}
}

// ValidateQuantity rejects non-positive quantities with ErrQuantityIsInvalid.
func ValidateQuantity(quantity int) error {
	return validateQuantity(quantity)
}

func validateQuantity(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: %w", ErrQuantityIsInvalid,
			errs.NewValueIsOutOfRangeError("quantity", quantity, 1, math.MaxInt32))
	}
	return nil
}

func validateOrderType(orderType int) error {
	if orderType <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("orderType", fmt.Errorf("%d is not greater than 0", orderType))
	}
	return nil
}

func validateTeamID(teamID string) error {
	if teamID == "" {
		return errs.NewValueIsRequiredError("teamID")
	}
	return nil
}
