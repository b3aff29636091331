package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/reconciliation"
	"orderflow/internal/core/domain/model/result"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// ProbeAttempts is the total number of probe calls per order, timed-out calls included.
	ProbeAttempts = 3

	defaultProbeTimeout     = 10 * time.Second
	defaultReconcileWorkers = 4
)

// ReconcileOptions tunes probing and fan-out. Zero values fall back to defaults.
type ReconcileOptions struct {
	// RetryDelay is the constant pause between attempts.
	RetryDelay time.Duration

	// AttemptTimeout bounds each attempt; a timed-out attempt counts toward ProbeAttempts.
	AttemptTimeout time.Duration

	// Concurrency bounds how many orders are reconciled at once.
	Concurrency int
}

func (o ReconcileOptions) withDefaults() ReconcileOptions {
	if o.AttemptTimeout <= 0 {
		o.AttemptTimeout = defaultProbeTimeout
	}
	if o.Concurrency <= 0 {
		o.Concurrency = defaultReconcileWorkers
	}
	if o.RetryDelay < 0 {
		o.RetryDelay = 0
	}
	return o
}

// ReconciliationReport lists one record per reconciled order, in command order.
type ReconciliationReport struct {
	RunID      uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time
	Records    []reconciliation.Record
}

// Count returns how many records ended with status.
func (r ReconciliationReport) Count(status reconciliation.CompletionStatus) int {
	n := 0
	for _, rec := range r.Records {
		if rec.CompletionStatus == status {
			n++
		}
	}
	return n
}

// Corrected returns how many orders were reversed to unpaid.
func (r ReconciliationReport) Corrected() int {
	return len(r.CorrectedOrderIDs())
}

// CorrectedOrderIDs lists the orders whose reversal was committed, in command order.
func (r ReconciliationReport) CorrectedOrderIDs() []string {
	ids := make([]string, 0)
	for _, rec := range r.Records {
		if rec.Corrected {
			ids = append(ids, rec.OrderID)
		}
	}
	return ids
}

// ReconcileOrdersCommandHandler compares each order's payment status with the probe
// and reverses paid orders whose payment did not go through.
//
// Orders are re-read from the store for every run. Workers write only their own
// report slot and hold no lock across store or probe calls.
type ReconcileOrdersCommandHandler struct {
	uowFactory UoWFactory
	probe      ports.PaymentProbe
	classifier services.ReconciliationClassifier
	options    ReconcileOptions
	clock      kernel.Clock
	logger     *zap.Logger
}

func NewReconcileOrdersCommandHandler(
	uowFactory UoWFactory,
	probe ports.PaymentProbe,
	options ReconcileOptions,
	clock kernel.Clock,
	logger *zap.Logger,
) ReconcileOrdersCommandHandler {
	return ReconcileOrdersCommandHandler{
		uowFactory: uowFactory,
		probe:      probe,
		classifier: services.NewReconciliationClassifier(),
		options:    options.withDefaults(),
		clock:      clock,
		logger:     logger.With(zap.String("component", "reconcile-orders")),
	}
}

func (h ReconcileOrdersCommandHandler) Handle(
	ctx context.Context,
	cmd ReconcileOrdersCommand,
) (ReconciliationReport, error) {
	if err := cmd.Validate(); err != nil {
		return ReconciliationReport{}, err
	}

	report := ReconciliationReport{
		RunID:     uuid.New(),
		StartedAt: h.clock.Now(),
		Records:   make([]reconciliation.Record, len(cmd.orderIDs)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.options.Concurrency)
	for i, id := range cmd.orderIDs {
		g.Go(func() error {
			report.Records[i] = h.reconcileOne(gctx, id)
			return nil
		})
	}
	_ = g.Wait()

	report.FinishedAt = h.clock.Now()

	if err := ctx.Err(); err != nil {
		h.logger.Warn("reconciliation run interrupted",
			zap.String("runID", report.RunID.String()),
			zap.Strings("correctedOrderIDs", report.CorrectedOrderIDs()),
			zap.Error(err))
		return report, err
	}

	h.logger.Info("reconciliation run finished",
		zap.String("runID", report.RunID.String()),
		zap.String("actor", cmd.actor.ID()),
		zap.Int("orders", len(report.Records)),
		zap.Int("verifiedDone", report.Count(reconciliation.VerifiedDone)),
		zap.Int("verifiedNotDone", report.Count(reconciliation.VerifiedNotDone)),
		zap.Int("unattempted", report.Count(reconciliation.Unattempted)),
		zap.Int("errors", report.Count(reconciliation.StatusError)),
		zap.Int("corrected", report.Corrected()))

	return report, nil
}

func (h ReconcileOrdersCommandHandler) reconcileOne(ctx context.Context, orderID string) reconciliation.Record {
	if ctx.Err() != nil {
		return reconciliation.Failed(orderID, runEndedReason(ctx))
	}

	o, err := h.uowFactory.Create().OrderRepository().Get(ctx, orderID)
	if err != nil {
		reason := err.Error()
		if errors.Is(err, errs.ErrObjectNotFound) {
			reason = "order not found"
		}
		h.logger.Warn("order could not be read", zap.String("orderID", orderID), zap.Error(err))
		return reconciliation.Failed(orderID, reason)
	}

	rec := reconciliation.NewRecord(o)
	if o.Link() == "" {
		rec.Completion = reconciliation.NoLink
		rec.CompletionStatus = reconciliation.StatusError
		return rec
	}

	completion, attempts, err := h.probeWithRetry(ctx, o.Link())
	rec.Attempts = attempts
	if err != nil {
		h.logger.Warn("payment probe exhausted",
			zap.String("orderID", orderID),
			zap.Int("attempts", attempts),
			zap.Error(err))
		rec.Completion = reconciliation.Error
		rec.CompletionStatus = reconciliation.StatusError
		rec.Reason = err.Error()
		if ctx.Err() != nil {
			rec.Reason = runEndedReason(ctx)
		}
		return rec
	}

	rec.Completion = completion
	rec.CompletionStatus = h.classifier.Classify(rec.PaymentStatus, completion)

	if rec.CompletionStatus.NeedsCorrection() {
		if err = h.correct(ctx, orderID); err != nil {
			h.logger.Warn("payment correction failed", zap.String("orderID", orderID), zap.Error(err))
			rec.Reason = err.Error()
			return rec
		}
		rec.MarkCorrected()
	}

	return rec
}

// probeWithRetry runs up to ProbeAttempts probe calls, each bounded by AttemptTimeout.
func (h ReconcileOrdersCommandHandler) probeWithRetry(
	ctx context.Context,
	link string,
) (reconciliation.Completion, int, error) {
	attempts := 0
	operation := func() (reconciliation.Completion, error) {
		attempts++
		attemptCtx, cancel := context.WithTimeout(ctx, h.options.AttemptTimeout)
		defer cancel()

		completion, err := h.probe.Probe(attemptCtx, link)
		if err != nil {
			return reconciliation.CompletionUnknown, err
		}
		if !completion.IsConclusive() {
			return reconciliation.CompletionUnknown, fmt.Errorf("%w: inconclusive answer %s", ports.ErrProbeFailed, completion)
		}
		return completion, nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(h.options.RetryDelay), uint64(ProbeAttempts-1)),
		ctx,
	)

	completion, err := backoff.RetryWithData(operation, policy)
	return completion, attempts, err
}

// correct reverses the payment of an order the probe found unpaid. The order is read
// again inside the unit of work; if it is no longer paid there is nothing to undo.
func (h ReconcileOrdersCommandHandler) correct(ctx context.Context, orderID string) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if o.PaymentStatus() != order.Paid {
		return fmt.Errorf("order %s is no longer paid (status %s)", orderID, o.Status())
	}

	now := h.clock.Now()
	resultRepo := uow.ResultRepository()
	record, err := loadResult(ctx, resultRepo, orderID)
	if err != nil {
		return err
	}
	if record == nil {
		if record, err = result.NewResultForCompletion(o, now); err != nil {
			return err
		}
	}

	expected := o.Status()
	if err = o.ReversePayment(); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, o, expected); err != nil {
		return err
	}

	record.ZeroProfit(now)
	if err = resultRepo.Upsert(ctx, record); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// Reasons for records the run could not finish.
const (
	ReasonRunTimeout   = "run timeout"
	ReasonRunCancelled = "run cancelled"
)

func runEndedReason(ctx context.Context) string {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ReasonRunTimeout
	}
	return ReasonRunCancelled
}
