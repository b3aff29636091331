package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/team"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/pkg/errs"

	"go.uber.org/zap"
)

// AllocateOrdersCommandHandler runs allocation batches.
//
// Each request gets its own unit of work: candidates are selected with the Selection
// Policy and claimed with a conditional bulk update that repeats the selecting filter,
// so orders taken by a concurrent allocator in between are skipped instead of being
// reserved twice.
type AllocateOrdersCommandHandler struct {
	uowFactory AllocationUoWFactory
	policy     services.SelectionPolicy
	clock      kernel.Clock
	location   *time.Location
	logger     *zap.Logger
}

func NewAllocateOrdersCommandHandler(
	uowFactory AllocationUoWFactory,
	clock kernel.Clock,
	location *time.Location,
	logger *zap.Logger,
) AllocateOrdersCommandHandler {
	if location == nil {
		location = time.UTC
	}
	return AllocateOrdersCommandHandler{
		uowFactory: uowFactory,
		policy:     services.NewSelectionPolicy(),
		clock:      clock,
		location:   location,
		logger:     logger.With(zap.String("component", "allocate-orders")),
	}
}

// Handle processes every request of the batch and never stops at a failed one.
func (h AllocateOrdersCommandHandler) Handle(ctx context.Context, cmd AllocateOrdersCommand) (BatchReport, error) {
	if err := cmd.Validate(); err != nil {
		return BatchReport{}, err
	}

	report := BatchReport{Level: cmd.Level(), Results: make([]RequestResult, 0, len(cmd.requests))}
	for i, req := range cmd.requests {
		res := h.handleRequest(ctx, cmd.actor, cmd.level, i, req)
		if res.Outcome.IsFailure() {
			h.logger.Warn("allocation request failed",
				zap.Int("index", i),
				zap.String("outcome", res.Outcome.String()),
				zap.String("reason", res.Reason))
		}
		report.Results = append(report.Results, res)
	}

	h.logger.Info("allocation batch processed",
		zap.String("actor", cmd.actor.ID()),
		zap.String("level", report.Level.String()),
		zap.Int("requests", len(report.Results)),
		zap.Int("allocated", report.Changed()),
		zap.Int("failed", report.Failures()))

	return report, nil
}

func (h AllocateOrdersCommandHandler) handleRequest(
	ctx context.Context,
	actor kernel.Actor,
	level Level,
	index int,
	req AllocationRequest,
) RequestResult {
	res := RequestResult{
		Index:     index,
		TeamID:    req.TeamID,
		MemberID:  req.MemberID,
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
	now := h.clock.Now()

	switch level {
	case LevelTeam:
		tm, outcome, resolveErr := resolveTeam(ctx, uow.TeamDirectory(), req.TeamID)
		if resolveErr != nil {
			res.fail(outcome, resolveErr)
			return res
		}
		filter, change, err = h.teamClaim(window, tm, req, now)
	case LevelMember:
		tm, outcome, resolveErr := resolveLedTeam(ctx, uow.TeamDirectory(), actor, req.TeamID)
		if resolveErr != nil {
			res.fail(outcome, resolveErr)
			return res
		}
		res.TeamID = tm.ID()
		member, ok := tm.Member(req.MemberID)
		if !ok || member.Name() == "" {
			res.fail(OutcomeTargetNotFound, errs.NewObjectNotFoundError("member", req.MemberID))
			return res
		}
		filter, change, err = h.memberClaim(window, tm, member, req, now)
	default:
		err = fmt.Errorf("%w: level %s", ErrUnauthorized, level)
	}
	if err != nil {
		res.fail(OutcomeValidationError, err)
		return res
	}

	claimed, err := claim(ctx, uow.OrderRepository(), filter, req.Quantity, change)
	if err != nil {
		res.fail(OutcomeStoreError, err)
		return res
	}
	if len(claimed) == 0 {
		res.Outcome = OutcomeNoneAvailable
		res.Shortfall = req.Quantity
		return res
	}

	if err = uow.Commit(ctx); err != nil {
		res.fail(OutcomeStoreError, err)
		return res
	}

	res.Outcome = OutcomeAllocated
	res.changed(claimed)
	return res
}

func (h AllocateOrdersCommandHandler) validateRequest(level Level, req AllocationRequest) (kernel.DateWindow, error) {
	var fieldErr error
	switch level {
	case LevelTeam:
		if req.TeamID == "" {
			fieldErr = errs.NewValueIsRequiredError("teamID")
		}
	case LevelMember:
		if req.MemberID == "" {
			fieldErr = errs.NewValueIsRequiredError("memberID")
		}
	}

	window, windowErr := kernel.NewDateWindow(req.Date, req.EndDate, h.location)
	if err := errors.Join(fieldErr, windowErr, services.ValidateQuantity(req.Quantity)); err != nil {
		return kernel.DateWindow{}, err
	}
	if req.OrderType <= 0 {
		return kernel.DateWindow{}, errs.NewValueIsInvalidErrorWithCause(
			"orderType", fmt.Errorf("%d is not greater than 0", req.OrderType))
	}
	return window, nil
}

func (h AllocateOrdersCommandHandler) teamClaim(
	window kernel.DateWindow,
	tm *team.Team,
	req AllocationRequest,
	now time.Time,
) (order.Filter, order.BulkChange, error) {
	filter, err := h.policy.ForTeamAllocation(window, req.OrderType, req.Quantity)
	if err != nil {
		return order.Filter{}, order.BulkChange{}, err
	}
	assignment, err := order.NewAssignment(tm.ID(), tm.Name(), now)
	if err != nil {
		return order.Filter{}, order.BulkChange{}, err
	}
	change, err := order.AllocateTeamChange(assignment)
	return filter, change, err
}

func (h AllocateOrdersCommandHandler) memberClaim(
	window kernel.DateWindow,
	tm *team.Team,
	member team.Member,
	req AllocationRequest,
	now time.Time,
) (order.Filter, order.BulkChange, error) {
	filter, err := h.policy.ForMemberAssignment(window, tm.ID(), req.OrderType, req.Quantity)
	if err != nil {
		return order.Filter{}, order.BulkChange{}, err
	}
	assignment, err := order.NewAssignment(member.UserID(), member.Name(), now)
	if err != nil {
		return order.Filter{}, order.BulkChange{}, err
	}
	change, err := order.AssignMemberChange(assignment)
	return filter, change, err
}
