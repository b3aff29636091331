package services

import (
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/order"
)

// ErrPricingNotConfigured is returned for an order type missing from the pricing table.
var ErrPricingNotConfigured = errors.New("pricing is not configured for order type")

// PricingTable holds the amounts credited when an order is completed. Commission and
// MembersProfit are flat; ProfitBehindOrder depends on the order type.
type PricingTable struct {
	Commission        int64
	MembersProfit     int64
	ProfitBehindOrder map[int]int64
}

// DefaultPricingTable is used when no pricing file is configured.
func DefaultPricingTable() PricingTable {
	return PricingTable{
		Commission:    10,
		MembersProfit: 15,
		ProfitBehindOrder: map[int]int64{
			order.TypeWithCoupon:    30,
			order.TypeWithoutCoupon: 60,
		},
	}
}

// ProfitCalculator computes order.Profit values from a PricingTable.
type ProfitCalculator struct {
	table PricingTable
}

// NewProfitCalculator copies table so later changes to the caller's map have no effect.
func NewProfitCalculator(table PricingTable) (*ProfitCalculator, error) {
	if table.Commission < 0 || table.MembersProfit < 0 {
		return nil, errors.New("pricing amounts must not be negative")
	}

	byType := make(map[int]int64, len(table.ProfitBehindOrder))
	for orderType, amount := range table.ProfitBehindOrder {
		if orderType <= 0 || amount < 0 {
			return nil, fmt.Errorf("invalid pricing entry %d: %d", orderType, amount)
		}
		byType[orderType] = amount
	}
	table.ProfitBehindOrder = byType

	return &ProfitCalculator{table: table}, nil
}

// ProfitFor returns the profit credited for completing an order of orderType.
func (c *ProfitCalculator) ProfitFor(orderType int) (order.Profit, error) {
	behind, ok := c.table.ProfitBehindOrder[orderType]
	if !ok {
		return order.Profit{}, fmt.Errorf("%w %d", ErrPricingNotConfigured, orderType)
	}
	return order.NewProfit(c.table.Commission, behind, c.table.MembersProfit)
}
