package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/reconciliation"
	"orderflow/internal/jobs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	now   = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	clock = kernel.ClockFunc(func() time.Time { return now })
)

type MockCandidateLister struct{ mock.Mock }

func (m *MockCandidateLister) Handle(ctx context.Context, query queries.GetReconciliationCandidatesQuery) ([]string, error) {
	args := m.Called(ctx, query)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

type MockReconciler struct{ mock.Mock }

func (m *MockReconciler) Handle(ctx context.Context, cmd commands.ReconcileOrdersCommand) (commands.ReconciliationReport, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.ReconciliationReport), args.Error(1)
}

func newJob(lister *MockCandidateLister, reconciler *MockReconciler, cfg jobs.ReconciliationJobConfig) *jobs.ReconciliationJob {
	return jobs.NewReconciliationJob(lister, reconciler, cfg, clock, zap.NewNop())
}

func TestReconciliationJob_RunOnce(t *testing.T) {
	t.Run("should reconcile candidates from the lookback window as system actor", func(t *testing.T) {
		lister := &MockCandidateLister{}
		reconciler := &MockReconciler{}
		lister.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetReconciliationCandidatesQuery) bool {
			return q.Since().Equal(now.Add(-48*time.Hour)) && q.Limit() == 20
		})).Return([]string{"A", "B"}, nil).Once()
		reconciler.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ReconcileOrdersCommand) bool {
			return cmd.Actor().ID() == kernel.SystemActorID && assert.ObjectsAreEqual([]string{"A", "B"}, cmd.OrderIDs())
		})).Return(commands.ReconciliationReport{
			RunID: uuid.New(),
			Records: []reconciliation.Record{
				{OrderID: "A", CompletionStatus: reconciliation.VerifiedDone},
				{OrderID: "B", CompletionStatus: reconciliation.VerifiedNotDone, Corrected: true},
			},
		}, nil).Once()

		job := newJob(lister, reconciler, jobs.ReconciliationJobConfig{Lookback: 48 * time.Hour, BatchLimit: 20})

		require.NoError(t, job.RunOnce(t.Context()))
		lister.AssertExpectations(t)
		reconciler.AssertExpectations(t)
	})

	t.Run("should skip reconciliation without candidates", func(t *testing.T) {
		lister := &MockCandidateLister{}
		reconciler := &MockReconciler{}
		lister.On("Handle", mock.Anything, mock.Anything).Return([]string{}, nil).Once()

		job := newJob(lister, reconciler, jobs.ReconciliationJobConfig{})

		require.NoError(t, job.RunOnce(t.Context()))
		reconciler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("should wrap listing errors", func(t *testing.T) {
		lister := &MockCandidateLister{}
		reconciler := &MockReconciler{}
		boom := errors.New("store unavailable")
		lister.On("Handle", mock.Anything, mock.Anything).Return(nil, boom).Once()

		job := newJob(lister, reconciler, jobs.ReconciliationJobConfig{})

		err := job.RunOnce(t.Context())
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "candidates")
	})

	t.Run("should wrap reconcile errors", func(t *testing.T) {
		lister := &MockCandidateLister{}
		reconciler := &MockReconciler{}
		boom := errors.New("probe misconfigured")
		lister.On("Handle", mock.Anything, mock.Anything).Return([]string{"A"}, nil).Once()
		reconciler.On("Handle", mock.Anything, mock.Anything).Return(commands.ReconciliationReport{}, boom).Once()

		job := newJob(lister, reconciler, jobs.ReconciliationJobConfig{})

		require.ErrorIs(t, job.RunOnce(t.Context()), boom)
	})

	t.Run("should reject a batch limit above the candidate maximum", func(t *testing.T) {
		lister := &MockCandidateLister{}
		reconciler := &MockReconciler{}

		job := newJob(lister, reconciler, jobs.ReconciliationJobConfig{BatchLimit: queries.MaxCandidates + 1})

		require.Error(t, job.RunOnce(t.Context()))
		lister.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})
}

func TestReconciliationJob_StartStop(t *testing.T) {
	t.Run("should reject invalid schedule", func(t *testing.T) {
		job := newJob(&MockCandidateLister{}, &MockReconciler{}, jobs.ReconciliationJobConfig{Schedule: "every minute"})

		require.Error(t, job.Start())
	})

	t.Run("should run on schedule until stopped", func(t *testing.T) {
		lister := &MockCandidateLister{}
		called := make(chan struct{}, 10)
		lister.On("Handle", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { called <- struct{}{} }).
			Return([]string{}, nil)

		manager := jobs.NewJobManager(newJob(lister, &MockReconciler{}, jobs.ReconciliationJobConfig{Schedule: "* * * * * *"}))
		require.NoError(t, manager.StartAll())

		select {
		case <-called:
		case <-time.After(3 * time.Second):
			t.Fatal("job did not run")
		}
		manager.StopAll()
	})
}
