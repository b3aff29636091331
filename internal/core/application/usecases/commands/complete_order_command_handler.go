package commands

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/result"

	"go.uber.org/zap"
)

// ProfitCalculator prices a completed order.
type ProfitCalculator interface {
	ProfitFor(orderType int) (order.Profit, error)
}

// CompleteOrderCommandHandler completes one order.
//
// Completing an order that is already Completed or Verified is reported as
// LifecycleAlreadyCompleted and writes nothing, so replays never credit profit twice.
// The order update is guarded by its previous status and the result record is written
// in the same unit of work.
type CompleteOrderCommandHandler struct {
	uowFactory UoWFactory
	pricing    ProfitCalculator
	clock      kernel.Clock
	logger     *zap.Logger
}

func NewCompleteOrderCommandHandler(
	uowFactory UoWFactory,
	pricing ProfitCalculator,
	clock kernel.Clock,
	logger *zap.Logger,
) CompleteOrderCommandHandler {
	return CompleteOrderCommandHandler{
		uowFactory: uowFactory,
		pricing:    pricing,
		clock:      clock,
		logger:     logger.With(zap.String("component", "complete-order")),
	}
}

func (h CompleteOrderCommandHandler) Handle(ctx context.Context, cmd CompleteOrderCommand) (LifecycleResult, error) {
	if err := cmd.Validate(); err != nil {
		return LifecycleResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return LifecycleResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return LifecycleResult{}, err
	}

	if err = authorizeWorker(ctx, uow.TeamDirectory(), cmd.Actor(), o); err != nil {
		return LifecycleResult{}, err
	}

	if o.Status().IsTerminal() {
		return lifecycleResult(o, LifecycleAlreadyCompleted), nil
	}
	if o.Status() != order.Assigned {
		return lifecycleResult(o, LifecycleNotApplicable), nil
	}

	profit, err := h.pricing.ProfitFor(o.Type())
	if err != nil {
		return LifecycleResult{}, err
	}

	now := h.clock.Now()
	expected := o.Status()
	if err = o.Complete(profit, now); err != nil {
		return LifecycleResult{}, err
	}
	if err = orderRepo.Update(ctx, o, expected); err != nil {
		return LifecycleResult{}, err
	}

	resultRepo := uow.ResultRepository()
	record, err := loadResult(ctx, resultRepo, o.ID())
	if err != nil {
		return LifecycleResult{}, err
	}
	if record == nil {
		record, err = result.NewResultForCompletion(o, now)
	} else {
		err = record.RecordCompletion(o, now)
	}
	if err != nil {
		return LifecycleResult{}, err
	}
	if err = resultRepo.Upsert(ctx, record); err != nil {
		return LifecycleResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return LifecycleResult{}, err
	}

	h.logger.Info("order completed",
		zap.String("orderID", o.ID()),
		zap.String("actor", cmd.Actor().ID()),
		zap.Int64("profitBehindOrder", profit.ProfitBehindOrder()))

	return lifecycleResult(o, LifecycleCompleted), nil
}
