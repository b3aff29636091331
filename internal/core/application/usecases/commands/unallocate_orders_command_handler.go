package commands

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/pkg/errs"

	"go.uber.org/zap"
)

// UnallocateOrdersCommandHandler runs release batches. Only the lower bound of the
// request date is applied. Completed and Verified orders are excluded by the filter,
// and the claim repeats the filter so an order completed in between stays untouched.
type UnallocateOrdersCommandHandler struct {
	uowFactory AllocationUoWFactory
	policy     services.SelectionPolicy
	location   *time.Location
	logger     *zap.Logger
}

func NewUnallocateOrdersCommandHandler(
	uowFactory AllocationUoWFactory,
	location *time.Location,
	logger *zap.Logger,
) UnallocateOrdersCommandHandler {
	if location == nil {
		location = time.UTC
	}
	return UnallocateOrdersCommandHandler{
		uowFactory: uowFactory,
		policy:     services.NewSelectionPolicy(),
		location:   location,
		logger:     logger.With(zap.String("component", "unallocate-orders")),
	}
}

func (h UnallocateOrdersCommandHandler) Handle(ctx context.Context, cmd UnallocateOrdersCommand) (BatchReport, error) {
	if err := cmd.Validate(); err != nil {
		return BatchReport{}, err
	}

	report := BatchReport{Level: cmd.Level(), Results: make([]RequestResult, 0, len(cmd.requests))}
	for i, req := range cmd.requests {
		res := h.handleRequest(ctx, cmd.actor, cmd.level, i, req)
		if res.Outcome.IsFailure() {
			h.logger.Warn("unallocation request failed",
				zap.Int("index", i),
				zap.String("outcome", res.Outcome.String()),
				zap.String("reason", res.Reason))
		}
		report.Results = append(report.Results, res)
	}

	h.logger.Info("unallocation batch processed",
		zap.String("actor", cmd.actor.ID()),
		zap.String("level", report.Level.String()),
		zap.Int("requests", len(report.Results)),
		zap.Int("released", report.Changed()),
		zap.Int("failed", report.Failures()))

	return report, nil
}

func (h UnallocateOrdersCommandHandler) handleRequest(
	ctx context.Context,
	actor kernel.Actor,
	level Level,
	index int,
	req UnallocationRequest,
) RequestResult {
	res := RequestResult{
		Index:     index,
		TeamID:    req.TeamID,
		OrderType: req.OrderType,
		Requested: req.Quantity,
	}

	window, err := h.validateRequest(level, req)
	if err != nil {
		res.fail(OutcomeValidationError, err)
		return res
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		res.fail(OutcomeStoreError, err)
		return res
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	var (
		filter order.Filter
		change order.BulkChange
	)

	switch level {
	case LevelTeam:
		filter, err = h.policy.ForTeamRelease(window, req.TeamID, req.OrderType)
		change = order.ReleaseTeamChange()
	case LevelMember:
		tm, outcome, resolveErr := resolveLedTeam(ctx, uow.TeamDirectory(), actor, req.TeamID)
		if resolveErr != nil {
			res.fail(outcome, resolveErr)
			return res
		}
		res.TeamID = tm.ID()
		filter, err = h.policy.ForMemberRelease(window, tm.ID(), req.OrderType)
		change = order.ReleaseMemberChange()
	default:
		err = fmt.Errorf("%w: level %s", ErrUnauthorized, level)
	}
	if err != nil {
		res.fail(OutcomeValidationError, err)
		return res
	}

	released, err := claim(ctx, uow.OrderRepository(), filter, req.Quantity, change)
	if err != nil {
		res.fail(OutcomeStoreError, err)
		return res
	}
	if len(released) == 0 {
		res.Outcome = OutcomeNoneAvailable
		res.Shortfall = req.Quantity
		return res
	}

	if err = uow.Commit(ctx); err != nil {
		res.fail(OutcomeStoreError, err)
		return res
	}

	res.Outcome = OutcomeUnallocated
	res.changed(released)
	return res
}

func (h UnallocateOrdersCommandHandler) validateRequest(level Level, req UnallocationRequest) (kernel.DateWindow, error) {
	var errList []error
	if level == LevelTeam && req.TeamID == "" {
		errList = append(errList, errs.NewValueIsRequiredError("teamID"))
	}
	if req.OrderType <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"orderType", fmt.Errorf("%d is not greater than 0", req.OrderType)))
	}
	if req.Quantity < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("quantity", req.Quantity, 0, math.MaxInt32))
	}

	window, err := kernel.NewDateWindow(req.Date, nil, h.location)
	errList = append(errList, err)

	if err = errors.Join(errList...); err != nil {
		return kernel.DateWindow{}, err
	}
	return window, nil
}
