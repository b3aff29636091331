package commands

import (
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
)

var ErrVerifyOrderCommandIsNotConstructed = errors.New(
	"VerifyOrderCommand must be created via NewVerifyOrderCommand constructor",
)

// VerifyOrderCommand confirms a Completed order. Only administrators may verify.
type VerifyOrderCommand struct {
	orderCommand
}

func NewVerifyOrderCommand(actor kernel.Actor, orderID string) (VerifyOrderCommand, error) {
	base, err := newOrderCommand(actor, orderID)
	if err != nil {
		return VerifyOrderCommand{}, err
	}
	if !actor.IsAdmin() {
		return VerifyOrderCommand{}, fmt.Errorf("%w: only administrators verify orders", ErrUnauthorized)
	}
	return VerifyOrderCommand{orderCommand: base}, nil
}

func (c VerifyOrderCommand) Validate() error {
	return c.guard.Validate(ErrVerifyOrderCommandIsNotConstructed)
}
