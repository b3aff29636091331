package jobs

import (
	"context"
	"fmt"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/reconciliation"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	DefaultReconcileSchedule = "0 */15 * * * *"
	defaultLookback          = 7 * 24 * time.Hour
	defaultBatchLimit        = 100
	defaultRunTimeout        = 14 * time.Minute
)

// CandidateLister lists the orders a run should reconcile.
type CandidateLister interface {
	Handle(ctx context.Context, query queries.GetReconciliationCandidatesQuery) ([]string, error)
}

// Reconciler reconciles a batch of orders.
type Reconciler interface {
	Handle(ctx context.Context, cmd commands.ReconcileOrdersCommand) (commands.ReconciliationReport, error)
}

// ReconciliationJobConfig tunes the scheduled reconciliation. Zero values fall back to
// defaults.
type ReconciliationJobConfig struct {
	// Schedule is a cron expression with a seconds field.
	Schedule string

	// Lookback bounds candidate creation times to now minus Lookback.
	Lookback time.Duration

	// BatchLimit is the most orders reconciled per run.
	BatchLimit int

	// RunTimeout bounds one run.
	RunTimeout time.Duration
}

func (c ReconciliationJobConfig) withDefaults() ReconciliationJobConfig {
	if c.Schedule == "" {
		c.Schedule = DefaultReconcileSchedule
	}
	if c.Lookback <= 0 {
		c.Lookback = defaultLookback
	}
	if c.BatchLimit <= 0 {
		c.BatchLimit = defaultBatchLimit
	}
	if c.RunTimeout <= 0 {
		c.RunTimeout = defaultRunTimeout
	}
	return c
}

// ReconciliationJob periodically checks the payment of recent orders as the system
// actor. A run that is still going when the next one is due makes the next one skip.
type ReconciliationJob struct {
	candidates CandidateLister
	reconciler Reconciler
	config     ReconciliationJobConfig
	clock      kernel.Clock
	cron       *cron.Cron
	logger     *zap.Logger
}

func NewReconciliationJob(
	candidates CandidateLister,
	reconciler Reconciler,
	config ReconciliationJobConfig,
	clock kernel.Clock,
	logger *zap.Logger,
) *ReconciliationJob {
	logger = logger.With(zap.String("component", "reconciliation_job"))
	return &ReconciliationJob{
		candidates: candidates,
		reconciler: reconciler,
		config:     config.withDefaults(),
		clock:      clock,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cronLogger{logger}), cron.SkipIfStillRunning(cronLogger{logger})),
		),
		logger: logger,
	}
}

// Start schedules the job.
func (j *ReconciliationJob) Start() error {
	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.config.RunTimeout)
		defer cancel()

		if err := j.RunOnce(ctx); err != nil {
			j.logger.Error("reconciliation run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reconciliation schedule %q: %w", j.config.Schedule, err)
	}

	j.cron.Start()
	j.logger.Info("reconciliation job started", zap.String("schedule", j.config.Schedule))
	return nil
}

// Stop unschedules the job and waits for a running reconciliation to finish.
func (j *ReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("reconciliation job stopped")
}

// RunOnce reconciles the current candidates.
func (j *ReconciliationJob) RunOnce(ctx context.Context) error {
	since := j.clock.Now().Add(-j.config.Lookback)
	query, err := queries.NewGetReconciliationCandidatesQuery(since, j.config.BatchLimit)
	if err != nil {
		return err
	}

	ids, err := j.candidates.Handle(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to list reconciliation candidates: %w", err)
	}
	if len(ids) == 0 {
		j.logger.Debug("no reconciliation candidates", zap.Time("since", since))
		return nil
	}

	cmd, err := commands.NewReconcileOrdersCommand(kernel.NewSystemActor(), ids)
	if err != nil {
		return err
	}

	report, err := j.reconciler.Handle(ctx, cmd)
	if err != nil {
		return fmt.Errorf("failed to reconcile orders: %w", err)
	}

	j.logger.Info("reconciliation run finished",
		zap.String("runID", report.RunID.String()),
		zap.Int("orders", len(report.Records)),
		zap.Int("verifiedDone", report.Count(reconciliation.VerifiedDone)),
		zap.Int("verifiedNotDone", report.Count(reconciliation.VerifiedNotDone)),
		zap.Int("errors", report.Count(reconciliation.StatusError)),
		zap.Int("corrected", report.Corrected()),
		zap.Duration("took", report.FinishedAt.Sub(report.StartedAt)))
	return nil
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Sugar().Infow(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
