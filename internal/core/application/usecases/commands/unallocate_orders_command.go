package commands

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrUnallocateOrdersCommandIsNotConstructed = errors.New(
	"UnallocateOrdersCommand must be created via NewUnallocateOrdersCommand constructor",
)

// UnallocationRequest releases up to Quantity non-terminal orders of TeamID created on
// or after Date. A zero Quantity releases every matching order.
type UnallocationRequest struct {
	Date      time.Time
	TeamID    string
	OrderType int
	Quantity  int
}

// UnallocateOrdersCommand is a batch of independent release requests. Admin releases
// orders from teams (back to New); TeamLeader releases them from members of their own
// team (back to Allocated).
type UnallocateOrdersCommand struct {
	actor    kernel.Actor
	level    Level
	requests []UnallocationRequest

	guard guard.ConstructorGuard
}

func NewUnallocateOrdersCommand(actor kernel.Actor, requests []UnallocationRequest) (UnallocateOrdersCommand, error) {
	level, err := levelFor(actor)
	if err != nil {
		return UnallocateOrdersCommand{}, err
	}
	if err = validateBatchSize(len(requests), MaxBatchSize); err != nil {
		return UnallocateOrdersCommand{}, err
	}

	return UnallocateOrdersCommand{
		actor:    actor,
		level:    level,
		requests: append([]UnallocationRequest(nil), requests...),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c UnallocateOrdersCommand) Validate() error {
	return c.guard.Validate(ErrUnallocateOrdersCommandIsNotConstructed)
}

func (c UnallocateOrdersCommand) Actor() kernel.Actor {
	return c.actor
}

func (c UnallocateOrdersCommand) Level() Level {
	return c.level
}

func (c UnallocateOrdersCommand) Requests() []UnallocationRequest {
	return append([]UnallocationRequest(nil), c.requests...)
}
