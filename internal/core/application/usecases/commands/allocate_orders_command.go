package commands

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrAllocateOrdersCommandIsNotConstructed = errors.New(
	"AllocateOrdersCommand must be created via NewAllocateOrdersCommand constructor",
)

// AllocationRequest asks for Quantity orders of OrderType created inside
// [Date, EndDate] (EndDate defaults to Date) to be handed to a team or member.
//
// Admin requests name TeamID. TeamLeader requests name MemberID of their own team;
// TeamID may be left empty.
type AllocationRequest struct {
	Date      time.Time
	EndDate   *time.Time
	TeamID    string
	MemberID  string
	OrderType int
	Quantity  int
}

// AllocateOrdersCommand is a batch of independent allocation requests. The actor's
// role decides the level: Admin allocates to teams, TeamLeader assigns to members.
//
// Example:
//
//	actor, _ := kernel.NewActor("admin-1", kernel.RoleAdmin)
//	cmd, err := commands.NewAllocateOrdersCommand(actor, []commands.AllocationRequest{
//	    {Date: day, TeamID: "T1", OrderType: 149, Quantity: 5},
//	})
//	if err != nil {
//	    return err
//	}
//	report, err := handler.Handle(ctx, cmd)
type AllocateOrdersCommand struct {
	actor    kernel.Actor
	level    Level
	requests []AllocationRequest

	guard guard.ConstructorGuard
}

// NewAllocateOrdersCommand checks the batch envelope. Per-request fields are validated
// by the handler so one bad request does not reject its siblings.
func NewAllocateOrdersCommand(actor kernel.Actor, requests []AllocationRequest) (AllocateOrdersCommand, error) {
	level, err := levelFor(actor)
	if err != nil {
		return AllocateOrdersCommand{}, err
	}
	if err = validateBatchSize(len(requests), MaxBatchSize); err != nil {
		return AllocateOrdersCommand{}, err
	}

	return AllocateOrdersCommand{
		actor:    actor,
		level:    level,
		requests: append([]AllocationRequest(nil), requests...),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c AllocateOrdersCommand) Validate() error {
	return c.guard.Validate(ErrAllocateOrdersCommandIsNotConstructed)
}

func (c AllocateOrdersCommand) Actor() kernel.Actor {
	return c.actor
}

func (c AllocateOrdersCommand) Level() Level {
	return c.level
}

func (c AllocateOrdersCommand) Requests() []AllocationRequest {
	return append([]AllocationRequest(nil), c.requests...)
}
