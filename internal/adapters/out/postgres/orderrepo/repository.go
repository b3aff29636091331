package orderrepo

import (
	"context"
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

var _ ports.OrderRepository = (*GormOrderRepository)(nil)

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// AddMany inserts orders and skips ids that already exist.
func (r *GormOrderRepository) AddMany(ctx context.Context, orders []*order.Order) (ports.AddManyResult, error) {
	if len(orders) == 0 {
		return ports.AddManyResult{}, nil
	}

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return ports.AddManyResult{}, err
		}
		ids = append(ids, o.ID())
	}

	var existing []string
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id IN ?", ids).Pluck("id", &existing).Error; err != nil {
		return ports.AddManyResult{}, err
	}
	known := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		known[id] = struct{}{}
	}

	result := ports.AddManyResult{Duplicates: existing}
	dtos := make([]OrderDTO, 0, len(orders))
	for _, o := range orders {
		if _, ok := known[o.ID()]; ok {
			continue
		}
		dtos = append(dtos, fromDomain(o))
	}
	if len(dtos) == 0 {
		return result, nil
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		CreateInBatches(&dtos, 500)
	if res.Error != nil {
		return ports.AddManyResult{}, res.Error
	}
	result.Inserted = int(res.RowsAffected)
	return result, nil
}

// Get retrieves an order by id.
func (r *GormOrderRepository) Get(ctx context.Context, orderID string) (*order.Order, error) {
	if orderID == "" {
		return nil, errs.NewValueIsRequiredError("orderID")
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", orderID)
		}
		return nil, err
	}

	return toDomain(dto)
}

// Find returns orders matching filter, oldest first. A non-positive limit returns all.
func (r *GormOrderRepository) Find(ctx context.Context, filter order.Filter, limit int) ([]*order.Order, error) {
	q := r.db.WithContext(ctx).Scopes(filterScope(filter)).Order("created_at, id")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var dtos []OrderDTO
	if err := q.Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// UpdateMany applies change in one statement to the rows of ids that still match filter
// and returns the ids actually updated.
func (r *GormOrderRepository) UpdateMany(
	ctx context.Context,
	ids []string,
	filter order.Filter,
	change order.BulkChange,
) ([]string, error) {
	if err := change.Validate(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []string{}, nil
	}

	columns, err := changeColumns(change)
	if err != nil {
		return nil, err
	}

	var updated []OrderDTO
	res := r.db.WithContext(ctx).
		Model(&updated).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).
		Where("id IN ?", ids).
		Scopes(filterScope(filter)).
		Updates(columns)
	if res.Error != nil {
		return nil, res.Error
	}

	changed := make([]string, 0, len(updated))
	for _, dto := range updated {
		changed = append(changed, dto.ID)
	}
	return changed, nil
}

// Update overwrites the stored order when its status still equals expected.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order, expected order.Status) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	res := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ?", dto.ID, expected.String()).
		Select("*").
		Omit("id", "created_at").
		Updates(&dto)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("order", dto.ID)
		}
		return errs.NewVersionIsInvalidErrorWithCause("order",
			fmt.Errorf("order %s is no longer %s", dto.ID, expected))
	}

	return nil
}

func filterScope(f order.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(f.Statuses) > 0 {
			db = db.Where("status IN ?", statusNames(f.Statuses))
		}
		if len(f.ExcludedStatuses) > 0 {
			db = db.Where("status NOT IN ?", statusNames(f.ExcludedStatuses))
		}
		if f.OrderType > 0 {
			db = db.Where("order_type = ?", f.OrderType)
		}
		switch f.TeamPresence() {
		case order.PresenceAbsent:
			db = db.Where("team_id IS NULL")
		case order.PresencePresent:
			db = db.Where("team_id IS NOT NULL")
		}
		if f.TeamID != "" {
			db = db.Where("team_id = ?", f.TeamID)
		}
		switch f.Member {
		case order.PresenceAbsent:
			db = db.Where("member_id IS NULL")
		case order.PresencePresent:
			db = db.Where("member_id IS NOT NULL")
		}
		if !f.CreatedFrom.IsZero() {
			db = db.Where("created_at >= ?", f.CreatedFrom)
		}
		if f.CreatedTo != nil {
			db = db.Where("created_at <= ?", *f.CreatedTo)
		}
		if f.LinkPresent {
			db = db.Where("link <> ''")
		}
		return db
	}
}

func changeColumns(change order.BulkChange) (map[string]any, error) {
	columns := map[string]any{
		"status":         change.TargetStatus().String(),
		"payment_status": order.Unpaid.String(),
	}

	switch change.Kind() {
	case order.ChangeAllocateTeam:
		a, _ := change.Assignment()
		columns["team_id"] = a.ID()
		columns["team_name"] = a.Name()
		columns["team_allocated_at"] = a.AllocatedAt()
		columns["team_completed_at"] = nil
	case order.ChangeAssignMember:
		a, _ := change.Assignment()
		columns["member_id"] = a.ID()
		columns["member_name"] = a.Name()
		columns["member_allocated_at"] = a.AllocatedAt()
		columns["member_completed_at"] = nil
	case order.ChangeReleaseTeam:
		clearLevel(columns, "team_")
		clearLevel(columns, "member_")
	case order.ChangeReleaseMember:
		clearLevel(columns, "member_")
	default:
		return nil, errs.NewValueIsInvalidErrorWithCause("change", fmt.Errorf("%s is not applicable", change.Kind()))
	}
	return columns, nil
}

func clearLevel(columns map[string]any, prefix string) {
	for _, c := range []string{"id", "name", "allocated_at", "completed_at"} {
		columns[prefix+c] = nil
	}
}
