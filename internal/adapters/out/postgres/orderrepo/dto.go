// Package orderrepo maps the order aggregate onto the orders table.
package orderrepo

import (
	"time"

	"orderflow/internal/core/domain/model/order"
)

// OrderDTO is the row of the orders table. Status and payment status are stored by name.
// The selection index covers the columns every allocation filter constrains.
type OrderDTO struct {
	ID            string        `gorm:"type:varchar(64);primaryKey"`
	OrderType     int           `gorm:"not null;index:idx_orders_selection,priority:2"`
	Status        string        `gorm:"type:varchar(16);not null;index:idx_orders_selection,priority:1"`
	PaymentStatus string        `gorm:"type:varchar(16);not null"`
	CreatedAt     time.Time     `gorm:"not null;autoCreateTime:false;index:idx_orders_selection,priority:3"`
	CustomerID    string        `gorm:"type:varchar(64)"`
	Source        string        `gorm:"type:varchar(64)"`
	Coupon        string        `gorm:"type:varchar(64)"`
	Link          string        `gorm:"type:text"`
	Team          AssignmentDTO `gorm:"embedded;embeddedPrefix:team_"`
	Member        AssignmentDTO `gorm:"embedded;embeddedPrefix:member_"`

	Commission        *int64
	ProfitBehindOrder *int64
	MembersProfit     *int64
}

func (OrderDTO) TableName() string {
	return "orders"
}

// AssignmentDTO is embedded twice, once per hierarchy level. A NULL id means the level
// holds no assignment.
type AssignmentDTO struct {
	ID          *string `gorm:"type:varchar(64);index"`
	Name        *string `gorm:"type:varchar(255)"`
	AllocatedAt *time.Time
	CompletedAt *time.Time
}

func fromDomain(o *order.Order) OrderDTO {
	d := o.Details()
	dto := OrderDTO{
		ID:            o.ID(),
		OrderType:     o.Type(),
		Status:        o.Status().String(),
		PaymentStatus: o.PaymentStatus().String(),
		CreatedAt:     o.CreatedAt(),
		CustomerID:    d.CustomerID,
		Source:        d.Source,
		Coupon:        d.Coupon,
		Link:          d.Link,
		Team:          assignmentFromDomain(o.Team()),
		Member:        assignmentFromDomain(o.Member()),
	}
	if p := o.Profit(); p != nil {
		commission, behind, members := p.Commission(), p.ProfitBehindOrder(), p.MembersProfit()
		dto.Commission = &commission
		dto.ProfitBehindOrder = &behind
		dto.MembersProfit = &members
	}
	return dto
}

func assignmentFromDomain(a *order.Assignment) AssignmentDTO {
	if a == nil {
		return AssignmentDTO{}
	}
	id, name, allocatedAt := a.ID(), a.Name(), a.AllocatedAt()
	return AssignmentDTO{
		ID:          &id,
		Name:        &name,
		AllocatedAt: &allocatedAt,
		CompletedAt: a.CompletedAt(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	team, err := assignmentToDomain(dto.Team)
	if err != nil {
		return nil, err
	}
	member, err := assignmentToDomain(dto.Member)
	if err != nil {
		return nil, err
	}

	var profit *order.Profit
	if dto.ProfitBehindOrder != nil {
		p, profitErr := order.NewProfit(
			valueOrZero(dto.Commission), *dto.ProfitBehindOrder, valueOrZero(dto.MembersProfit))
		if profitErr != nil {
			return nil, profitErr
		}
		profit = &p
	}

	return order.RestoreOrder(dto.ID, dto.OrderType, status, dto.CreatedAt.UTC(), team, member, profit, order.Details{
		CustomerID: dto.CustomerID,
		Source:     dto.Source,
		Coupon:     dto.Coupon,
		Link:       dto.Link,
	})
}

func assignmentToDomain(dto AssignmentDTO) (*order.Assignment, error) {
	if dto.ID == nil {
		return nil, nil
	}
	var name string
	if dto.Name != nil {
		name = *dto.Name
	}
	var allocatedAt time.Time
	if dto.AllocatedAt != nil {
		allocatedAt = dto.AllocatedAt.UTC()
	}
	var completedAt *time.Time
	if dto.CompletedAt != nil {
		c := dto.CompletedAt.UTC()
		completedAt = &c
	}

	a, err := order.RestoreAssignment(*dto.ID, name, allocatedAt, completedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func valueOrZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func statusNames(statuses []order.Status) []string {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.String())
	}
	return names
}
