// Package resultrepo persists the per-order result records in the results table.
package resultrepo

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/result"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ResultDTO is the row of the results table. NULL amounts mean "not computed".
type ResultDTO struct {
	OrderID           string `gorm:"type:varchar(64);primaryKey"`
	TeamID            string `gorm:"type:varchar(64);index"`
	MemberID          string `gorm:"type:varchar(64);index"`
	Link              string `gorm:"type:text"`
	PaymentStatus     string `gorm:"type:varchar(16);not null"`
	Commission        *int64
	ProfitBehindOrder *int64
	MembersProfit     *int64
	UpdatedAt         time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (ResultDTO) TableName() string {
	return "results"
}

// GormResultRepository implements ports.ResultRepository using GORM.
type GormResultRepository struct {
	db *gorm.DB
}

var _ ports.ResultRepository = (*GormResultRepository)(nil)

func NewGormResultRepository(db *gorm.DB) *GormResultRepository {
	return &GormResultRepository{db: db}
}

func (r *GormResultRepository) Get(ctx context.Context, orderID string) (*result.Result, error) {
	var dto ResultDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("result", orderID)
		}
		return nil, err
	}

	paymentStatus, err := order.ParsePaymentStatus(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}

	return result.RestoreResult(
		dto.OrderID, dto.TeamID, dto.MemberID, dto.Link, paymentStatus,
		dto.Commission, dto.ProfitBehindOrder, dto.MembersProfit, dto.UpdatedAt.UTC(),
	)
}

// Upsert writes every column of the record, NULL amounts included.
func (r *GormResultRepository) Upsert(ctx context.Context, aggregate *result.Result) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := ResultDTO{
		OrderID:           aggregate.OrderID(),
		TeamID:            aggregate.TeamID(),
		MemberID:          aggregate.MemberID(),
		Link:              aggregate.Link(),
		PaymentStatus:     aggregate.PaymentStatus().String(),
		Commission:        aggregate.Commission(),
		ProfitBehindOrder: aggregate.ProfitBehindOrder(),
		MembersProfit:     aggregate.MembersProfit(),
		UpdatedAt:         aggregate.UpdatedAt(),
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "order_id"}}, UpdateAll: true}).
		Create(&dto).Error
}
