package commands_test

import (
	"testing"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/testutil/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func unallocate(
	t *testing.T,
	s *memstore.Store,
	who kernel.Actor,
	requests ...commands.UnallocationRequest,
) commands.BatchReport {
	t.Helper()
	cmd, err := commands.NewUnallocateOrdersCommand(who, requests)
	require.NoError(t, err)

	h := commands.NewUnallocateOrdersCommandHandler(s.AllocationUoWFactory(), time.UTC, zap.NewNop())
	report, err := h.Handle(t.Context(), cmd)
	require.NoError(t, err)
	require.Len(t, report.Results, len(requests))
	return report
}

func TestUnallocateOrdersCommandHandler_TeamLevel(t *testing.T) {
	t.Run("should release non-terminal orders and never touch completed ones", func(t *testing.T) {
		s := newStore(t)
		seedAllocated(t, s, "ORD-ALLOCATED", 149, at(9))
		seedAssigned(t, s, "ORD-ASSIGNED", 149, at(10))
		seedCompleted(t, s, "ORD-COMPLETED", 149, at(11))

		report := unallocate(t, s, admin(t), commands.UnallocationRequest{Date: day, TeamID: "T1", OrderType: 149})

		res := report.Results[0]
		assert.Equal(t, commands.OutcomeUnallocated, res.Outcome)
		assert.ElementsMatch(t, []string{"ORD-ALLOCATED", "ORD-ASSIGNED"}, res.OrderIDs)
		assert.Zero(t, res.Shortfall)

		for _, id := range res.OrderIDs {
			o := s.Order(id)
			assert.Equal(t, order.New, o.Status())
			assert.Nil(t, o.Team())
			assert.Nil(t, o.Member())
		}
		completed := s.Order("ORD-COMPLETED")
		assert.Equal(t, order.Completed, completed.Status())
		assert.Equal(t, "T1", completed.Team().ID())
		assert.NotNil(t, completed.Profit())
	})

	t.Run("should apply only the lower date bound", func(t *testing.T) {
		s := newStore(t)
		seedAllocated(t, s, "ORD-BEFORE", 149, at(-2))
		seedAllocated(t, s, "ORD-LATER", 149, at(24*5))

		report := unallocate(t, s, admin(t), commands.UnallocationRequest{Date: day, TeamID: "T1", OrderType: 149})

		assert.Equal(t, []string{"ORD-LATER"}, report.Results[0].OrderIDs)
		assert.Equal(t, order.Allocated, s.Order("ORD-BEFORE").Status())
	})

	t.Run("should cap releases at quantity", func(t *testing.T) {
		s := newStore(t)
		seedAllocated(t, s, "ORD-1", 149, at(1))
		seedAllocated(t, s, "ORD-2", 149, at(2))

		report := unallocate(t, s, admin(t), commands.UnallocationRequest{Date: day, TeamID: "T1", OrderType: 149, Quantity: 1})

		assert.Equal(t, []string{"ORD-1"}, report.Results[0].OrderIDs)
		assert.Equal(t, order.Allocated, s.Order("ORD-2").Status())
	})

	t.Run("should report nothing to release", func(t *testing.T) {
		s := newStore(t)
		seedCompleted(t, s, "ORD-COMPLETED", 149, at(1))

		report := unallocate(t, s, admin(t),
			commands.UnallocationRequest{Date: day, TeamID: "T1", OrderType: 149, Quantity: 3},
			commands.UnallocationRequest{Date: day, TeamID: "T9", OrderType: 149},
		)

		assert.Equal(t, commands.OutcomeNoneAvailable, report.Results[0].Outcome)
		assert.Equal(t, 3, report.Results[0].Shortfall)
		assert.Equal(t, commands.OutcomeNoneAvailable, report.Results[1].Outcome)
		assert.Zero(t, report.Failures())
	})

	t.Run("should reject invalid requests", func(t *testing.T) {
		s := newStore(t)

		report := unallocate(t, s, admin(t),
			commands.UnallocationRequest{Date: day, OrderType: 149},
			commands.UnallocationRequest{Date: day, TeamID: "T1", OrderType: 149, Quantity: -1},
			commands.UnallocationRequest{TeamID: "T1", OrderType: 149},
			commands.UnallocationRequest{Date: day, TeamID: "T1"},
		)

		for _, res := range report.Results {
			assert.Equal(t, commands.OutcomeValidationError, res.Outcome)
		}
	})
}

func TestUnallocateOrdersCommandHandler_MemberLevel(t *testing.T) {
	t.Run("should release members of the led team and keep the team", func(t *testing.T) {
		s := newStore(t)
		seedAssigned(t, s, "ORD-ASSIGNED", 149, at(1))
		seedAllocated(t, s, "ORD-ALLOCATED", 149, at(2))
		seedCompleted(t, s, "ORD-COMPLETED", 149, at(3))

		report := unallocate(t, s, leader(t), commands.UnallocationRequest{Date: day, OrderType: 149})

		res := report.Results[0]
		assert.Equal(t, commands.LevelMember, report.Level)
		assert.Equal(t, "T1", res.TeamID)
		assert.Equal(t, []string{"ORD-ASSIGNED"}, res.OrderIDs)

		released := s.Order("ORD-ASSIGNED")
		assert.Equal(t, order.Allocated, released.Status())
		assert.Equal(t, "T1", released.Team().ID())
		assert.Nil(t, released.Member())
		assert.Equal(t, order.Completed, s.Order("ORD-COMPLETED").Status())
	})

	t.Run("should refuse other teams", func(t *testing.T) {
		s := newStore(t)
		seedAssigned(t, s, "ORD-1", 149, at(1))

		report := unallocate(t, s, leader(t), commands.UnallocationRequest{Date: day, TeamID: "T2", OrderType: 149})

		assert.Equal(t, commands.OutcomeUnauthorized, report.Results[0].Outcome)
		assert.Equal(t, order.Assigned, s.Order("ORD-1").Status())
	})
}

func TestNewUnallocateOrdersCommand(t *testing.T) {
	t.Run("should reject members and empty batches", func(t *testing.T) {
		_, err := commands.NewUnallocateOrdersCommand(actor(t, "M1", kernel.RoleMember),
			[]commands.UnallocationRequest{{Date: day, TeamID: "T1", OrderType: 149}})
		require.ErrorIs(t, err, commands.ErrUnauthorized)

		_, err = commands.NewUnallocateOrdersCommand(admin(t), nil)
		require.ErrorIs(t, err, commands.ErrBatchIsEmpty)
	})

	t.Run("should reject unconstructed command", func(t *testing.T) {
		h := commands.NewUnallocateOrdersCommandHandler(new(MockAllocationUoWFactory), time.UTC, zap.NewNop())

		_, err := h.Handle(t.Context(), commands.UnallocateOrdersCommand{})

		require.ErrorIs(t, err, commands.ErrUnallocateOrdersCommandIsNotConstructed)
	})
}
