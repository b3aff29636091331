package commands

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"go.uber.org/zap"
)

// RevertOrderCompletionCommandHandler undoes a completion. Profit is unset on the order
// and on its result record, not zeroed. Orders that are not Completed are reported as
// LifecycleNotCompleted and left alone.
type RevertOrderCompletionCommandHandler struct {
	uowFactory UoWFactory
	clock      kernel.Clock
	logger     *zap.Logger
}

func NewRevertOrderCompletionCommandHandler(
	uowFactory UoWFactory,
	clock kernel.Clock,
	logger *zap.Logger,
) RevertOrderCompletionCommandHandler {
	return RevertOrderCompletionCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		logger:     logger.With(zap.String("component", "revert-order-completion")),
	}
}

func (h RevertOrderCompletionCommandHandler) Handle(
	ctx context.Context,
	cmd RevertOrderCompletionCommand,
) (LifecycleResult, error) {
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

	if o.Status() != order.Completed {
		return lifecycleResult(o, LifecycleNotCompleted), nil
	}

	expected := o.Status()
	if err = o.RevertCompletion(); err != nil {
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
	if record != nil {
		record.ClearProfit(h.clock.Now())
		if err = resultRepo.Upsert(ctx, record); err != nil {
			return LifecycleResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return LifecycleResult{}, err
	}

	h.logger.Info("order completion reverted",
		zap.String("orderID", o.ID()),
		zap.String("actor", cmd.Actor().ID()))

	return lifecycleResult(o, LifecycleReverted), nil
}
