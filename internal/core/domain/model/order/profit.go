package order

import (
	"errors"
	"fmt"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrProfitIsNotConstructed = errors.New("Profit must be created via NewProfit constructor")

// Profit holds the amounts derived when an order is completed.
// Amounts are whole currency units and never negative.
type Profit struct {
	commission        int64
	profitBehindOrder int64
	membersProfit     int64
	guard             guard.ConstructorGuard
}

func NewProfit(commission, profitBehindOrder, membersProfit int64) (Profit, error) {
	if err := errors.Join(
		nonNegative("commission", commission),
		nonNegative("profitBehindOrder", profitBehindOrder),
		nonNegative("membersProfit", membersProfit),
	); err != nil {
		return Profit{}, err
	}

	return Profit{
		commission:        commission,
		profitBehindOrder: profitBehindOrder,
		membersProfit:     membersProfit,
		guard:             guard.NewConstructorGuard(),
	}, nil
}

func (p Profit) Validate() error {
	return p.guard.Validate(ErrProfitIsNotConstructed)
}

func (p Profit) Commission() int64 {
	return p.commission
}

func (p Profit) ProfitBehindOrder() int64 {
	return p.profitBehindOrder
}

func (p Profit) MembersProfit() int64 {
	return p.membersProfit
}

func nonNegative(name string, v int64) error {
	if v < 0 {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%d is negative", v))
	}
	return nil
}
