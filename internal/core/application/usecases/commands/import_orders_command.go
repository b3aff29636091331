package commands

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrImportOrdersCommandIsNotConstructed = errors.New(
	"ImportOrdersCommand must be created via NewImportOrdersCommand constructor",
)

// ImportItem is one order delivered by the importer. A zero CreatedAt is stamped with
// the import time.
type ImportItem struct {
	OrderID    string
	CustomerID string
	Source     string
	Coupon     string
	Link       string
	CreatedAt  time.Time
}

// ImportOrdersCommand creates New orders in bulk. Only administrators import.
type ImportOrdersCommand struct {
	actor kernel.Actor
	items []ImportItem

	guard guard.ConstructorGuard
}

func NewImportOrdersCommand(actor kernel.Actor, items []ImportItem) (ImportOrdersCommand, error) {
	if err := actor.Validate(); err != nil {
		return ImportOrdersCommand{}, err
	}
	if !actor.IsAdmin() {
		return ImportOrdersCommand{}, fmt.Errorf("%w: only administrators import orders", ErrUnauthorized)
	}
	if err := validateBatchSize(len(items), MaxImportBatch); err != nil {
		return ImportOrdersCommand{}, err
	}

	return ImportOrdersCommand{
		actor: actor,
		items: append([]ImportItem(nil), items...),
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c ImportOrdersCommand) Validate() error {
	return c.guard.Validate(ErrImportOrdersCommandIsNotConstructed)
}

func (c ImportOrdersCommand) Actor() kernel.Actor {
	return c.actor
}

func (c ImportOrdersCommand) Items() []ImportItem {
	return append([]ImportItem(nil), c.items...)
}
