package commands

import (
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrReconcileOrdersCommandIsNotConstructed = errors.New(
	"ReconcileOrdersCommand must be created via NewReconcileOrdersCommand constructor",
)

// ReconcileOrdersCommand checks the payment of each listed order against the payment
// provider. Duplicate ids are reconciled once.
type ReconcileOrdersCommand struct {
	actor    kernel.Actor
	orderIDs []string

	guard guard.ConstructorGuard
}

func NewReconcileOrdersCommand(actor kernel.Actor, orderIDs []string) (ReconcileOrdersCommand, error) {
	if err := actor.Validate(); err != nil {
		return ReconcileOrdersCommand{}, err
	}
	if !actor.IsAdmin() {
		return ReconcileOrdersCommand{}, fmt.Errorf("%w: only administrators reconcile orders", ErrUnauthorized)
	}

	seen := make(map[string]struct{}, len(orderIDs))
	unique := make([]string, 0, len(orderIDs))
	for _, id := range orderIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	if err := validateBatchSize(len(unique), MaxReconcileBatch); err != nil {
		return ReconcileOrdersCommand{}, err
	}

	return ReconcileOrdersCommand{actor: actor, orderIDs: unique, guard: guard.NewConstructorGuard()}, nil
}

func (c ReconcileOrdersCommand) Validate() error {
	return c.guard.Validate(ErrReconcileOrdersCommandIsNotConstructed)
}

func (c ReconcileOrdersCommand) Actor() kernel.Actor {
	return c.actor
}

func (c ReconcileOrdersCommand) OrderIDs() []string {
	return append([]string(nil), c.orderIDs...)
}
