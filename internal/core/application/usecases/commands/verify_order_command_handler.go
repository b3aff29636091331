package commands

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/result"

	"go.uber.org/zap"
)

// VerifyOrderCommandHandler moves Completed orders to Verified and keeps the result
// record marked paid.
type VerifyOrderCommandHandler struct {
	uowFactory UoWFactory
	clock      kernel.Clock
	logger     *zap.Logger
}

func NewVerifyOrderCommandHandler(uowFactory UoWFactory, clock kernel.Clock, logger *zap.Logger) VerifyOrderCommandHandler {
	return VerifyOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		logger:     logger.With(zap.String("component", "verify-order")),
	}
}

func (h VerifyOrderCommandHandler) Handle(ctx context.Context, cmd VerifyOrderCommand) (LifecycleResult, error) {
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

	if o.Status() != order.Completed {
		return lifecycleResult(o, LifecycleNotApplicable), nil
	}

	now := h.clock.Now()
	expected := o.Status()
	if err = o.Verify(); err != nil {
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
		if record, err = result.NewResultForCompletion(o, now); err != nil {
			return LifecycleResult{}, err
		}
	}
	record.MarkPaid(now)
	if err = resultRepo.Upsert(ctx, record); err != nil {
		return LifecycleResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return LifecycleResult{}, err
	}

	h.logger.Info("order verified", zap.String("orderID", o.ID()), zap.String("actor", cmd.Actor().ID()))

	return lifecycleResult(o, LifecycleVerified), nil
}
