package commands

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"go.uber.org/zap"
)

// ImportRejection names an item that could not be turned into an order.
type ImportRejection struct {
	Index   int
	OrderID string
	Reason  string
}

// ImportReport summarizes an import. Duplicates are ids that already existed, or that
// appeared more than once in the same batch.
type ImportReport struct {
	Imported   int
	Duplicates []string
	Rejected   []ImportRejection
}

// ImportOrdersCommandHandler inserts imported orders without stopping at duplicates.
// The order type is derived from the coupon.
type ImportOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      kernel.Clock
	logger     *zap.Logger
}

func NewImportOrdersCommandHandler(uowFactory OrderUoWFactory, clock kernel.Clock, logger *zap.Logger) ImportOrdersCommandHandler {
	return ImportOrdersCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		logger:     logger.With(zap.String("component", "import-orders")),
	}
}

func (h ImportOrdersCommandHandler) Handle(ctx context.Context, cmd ImportOrdersCommand) (ImportReport, error) {
	if err := cmd.Validate(); err != nil {
		return ImportReport{}, err
	}

	now := h.clock.Now()
	report := ImportReport{}
	orders := make([]*order.Order, 0, len(cmd.items))
	seen := make(map[string]struct{}, len(cmd.items))

	for i, item := range cmd.items {
		if _, ok := seen[item.OrderID]; ok && item.OrderID != "" {
			report.Duplicates = append(report.Duplicates, item.OrderID)
			continue
		}

		createdAt := item.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}

		o, err := order.NewOrder(item.OrderID, order.TypeForCoupon(item.Coupon), createdAt, order.Details{
			CustomerID: item.CustomerID,
			Source:     item.Source,
			Coupon:     item.Coupon,
			Link:       item.Link,
		})
		if err != nil {
			report.Rejected = append(report.Rejected, ImportRejection{Index: i, OrderID: item.OrderID, Reason: err.Error()})
			continue
		}

		seen[item.OrderID] = struct{}{}
		orders = append(orders, o)
	}

	if len(orders) == 0 {
		return report, nil
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ImportReport{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	added, err := uow.OrderRepository().AddMany(ctx, orders)
	if err != nil {
		return ImportReport{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ImportReport{}, err
	}

	report.Imported = added.Inserted
	report.Duplicates = append(report.Duplicates, added.Duplicates...)

	h.logger.Info("orders imported",
		zap.String("actor", cmd.actor.ID()),
		zap.Int("imported", report.Imported),
		zap.Int("duplicates", len(report.Duplicates)),
		zap.Int("rejected", len(report.Rejected)))

	return report, nil
}
