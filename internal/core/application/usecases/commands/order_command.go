package commands

import (
	"context"
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/result"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// LifecycleOutcome reports what a single-order transition did.
type LifecycleOutcome int

const (
	LifecycleUnknown LifecycleOutcome = iota
	LifecycleCompleted
	LifecycleAlreadyCompleted
	LifecycleReverted
	LifecycleNotCompleted
	LifecycleVerified
	LifecycleNotApplicable
)

func (o LifecycleOutcome) String() string {
	switch o {
	case LifecycleCompleted:
		return "Completed"
	case LifecycleAlreadyCompleted:
		return "AlreadyCompleted"
	case LifecycleReverted:
		return "Reverted"
	case LifecycleNotCompleted:
		return "NotCompleted"
	case LifecycleVerified:
		return "Verified"
	case LifecycleNotApplicable:
		return "NotApplicable"
	default:
		return "Unknown"
	}
}

// LifecycleResult is returned by the single-order commands. Status is the order's
// status after the command; Profit is set while the order carries one.
type LifecycleResult struct {
	OrderID string
	Outcome LifecycleOutcome
	Status  order.Status
	Profit  *order.Profit
}

func lifecycleResult(o *order.Order, outcome LifecycleOutcome) LifecycleResult {
	return LifecycleResult{OrderID: o.ID(), Outcome: outcome, Status: o.Status(), Profit: o.Profit()}
}

// orderCommand carries the fields shared by the single-order commands.
type orderCommand struct {
	actor   kernel.Actor
	orderID string
	guard   guard.ConstructorGuard
}

func newOrderCommand(actor kernel.Actor, orderID string) (orderCommand, error) {
	var idErr error
	if orderID == "" {
		idErr = errs.NewValueIsRequiredError("orderID")
	}
	if err := errors.Join(actor.Validate(), idErr); err != nil {
		return orderCommand{}, err
	}
	return orderCommand{actor: actor, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c orderCommand) Actor() kernel.Actor {
	return c.actor
}

func (c orderCommand) OrderID() string {
	return c.orderID
}

// authorizeWorker allows the member holding the order, the leader of the holding team
// and administrators.
func authorizeWorker(ctx context.Context, directory ports.TeamDirectory, actor kernel.Actor, o *order.Order) error {
	if actor.IsAdmin() {
		return nil
	}

	if member := o.Member(); member != nil && member.ID() == actor.ID() {
		return nil
	}

	if actor.IsTeamLeader() {
		if holder := o.Team(); holder != nil {
			tm, err := directory.GetTeam(ctx, holder.ID())
			if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
				return err
			}
			if err == nil && tm.IsLedBy(actor.ID()) {
				return nil
			}
		}
	}

	return fmt.Errorf("%w: %s may not change order %s", ErrUnauthorized, actor.ID(), o.ID())
}

// loadResult returns the stored result of an order, or nil when there is none yet.
func loadResult(ctx context.Context, repo ports.ResultRepository, orderID string) (*result.Result, error) {
	r, err := repo.Get(ctx, orderID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	return r, err
}
