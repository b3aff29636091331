package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
)

var ErrCompleteOrderCommandIsNotConstructed = errors.New(
	"CompleteOrderCommand must be created via NewCompleteOrderCommand constructor",
)

// CompleteOrderCommand marks an Assigned order as Completed and credits its profit.
type CompleteOrderCommand struct {
	orderCommand
}

func NewCompleteOrderCommand(actor kernel.Actor, orderID string) (CompleteOrderCommand, error) {
	base, err := newOrderCommand(actor, orderID)
	if err != nil {
		return CompleteOrderCommand{}, err
	}
	return CompleteOrderCommand{orderCommand: base}, nil
}

func (c CompleteOrderCommand) Validate() error {
	return c.guard.Validate(ErrCompleteOrderCommandIsNotConstructed)
}
