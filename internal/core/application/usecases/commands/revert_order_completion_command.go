package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
)

var ErrRevertOrderCompletionCommandIsNotConstructed = errors.New(
	"RevertOrderCompletionCommand must be created via NewRevertOrderCompletionCommand constructor",
)

// RevertOrderCompletionCommand moves a Completed order back to Assigned.
type RevertOrderCompletionCommand struct {
	orderCommand
}

func NewRevertOrderCompletionCommand(actor kernel.Actor, orderID string) (RevertOrderCompletionCommand, error) {
	base, err := newOrderCommand(actor, orderID)
	if err != nil {
		return RevertOrderCompletionCommand{}, err
	}
	return RevertOrderCompletionCommand{orderCommand: base}, nil
}

func (c RevertOrderCompletionCommand) Validate() error {
	return c.guard.Validate(ErrRevertOrderCompletionCommandIsNotConstructed)
}
