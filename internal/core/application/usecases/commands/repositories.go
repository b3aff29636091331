// Package commands contains the operations that change order state: import,
// allocation and unallocation batches, lifecycle transitions and reconciliation.
// Every command follows the same pattern: a validated command value, a handler, and a
// unit of work around the writes.
package commands

import (
	"context"

	"orderflow/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// ResultRepoFactory provides access to the result repository within a transaction.
	ResultRepoFactory interface {
		ResultRepository() ports.ResultRepository
	}

	// TeamDirectoryFactory provides access to the team directory within a transaction.
	TeamDirectoryFactory interface {
		TeamDirectory() ports.TeamDirectory
	}

	// OrderUoW manages transactions for order-only operations such as import.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// AllocationUoW is used by allocation and unallocation: orders are claimed after the
	// target team or member was resolved from the directory.
	AllocationUoW interface {
		TxManager
		OrderRepoFactory
		TeamDirectoryFactory
	}

	// AllocationUoWFactory creates new allocation unit of work instances.
	AllocationUoWFactory interface {
		Create() AllocationUoW
	}

	// UoW manages transactions that keep an order and its result record in step.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().Get(ctx, orderID)
	//   // ... transition o, then
	//   err = uow.OrderRepository().Update(ctx, o, expected)
	//   err = uow.ResultRepository().Upsert(ctx, r)
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		ResultRepoFactory
		TeamDirectoryFactory
	}

	// UoWFactory creates new unit of work instances for lifecycle and reconciliation.
	UoWFactory interface {
		Create() UoW
	}
)
