package commands_test

import (
	"errors"
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/result"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/testutil/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func pricing(t *testing.T) *services.ProfitCalculator {
	t.Helper()
	c, err := services.NewProfitCalculator(services.DefaultPricingTable())
	require.NoError(t, err)
	return c
}

func complete(t *testing.T, s *memstore.Store, who kernel.Actor, orderID string) (commands.LifecycleResult, error) {
	t.Helper()
	cmd, err := commands.NewCompleteOrderCommand(who, orderID)
	require.NoError(t, err)
	h := commands.NewCompleteOrderCommandHandler(s.UoWFactory(), pricing(t), clock, zap.NewNop())
	return h.Handle(t.Context(), cmd)
}

func revert(t *testing.T, s *memstore.Store, who kernel.Actor, orderID string) (commands.LifecycleResult, error) {
	t.Helper()
	cmd, err := commands.NewRevertOrderCompletionCommand(who, orderID)
	require.NoError(t, err)
	h := commands.NewRevertOrderCompletionCommandHandler(s.UoWFactory(), clock, zap.NewNop())
	return h.Handle(t.Context(), cmd)
}

func verify(t *testing.T, s *memstore.Store, orderID string) (commands.LifecycleResult, error) {
	t.Helper()
	cmd, err := commands.NewVerifyOrderCommand(admin(t), orderID)
	require.NoError(t, err)
	h := commands.NewVerifyOrderCommandHandler(s.UoWFactory(), clock, zap.NewNop())
	return h.Handle(t.Context(), cmd)
}

func member(t *testing.T) kernel.Actor { return actor(t, "M1", kernel.RoleMember) }

func TestCompleteOrderCommandHandler(t *testing.T) {
	t.Run("should complete and credit profit by order type", func(t *testing.T) {
		s := newStore(t)
		seedAssigned(t, s, "ORD-1", 299, at(10))

		res, err := complete(t, s, member(t), "ORD-1")

		require.NoError(t, err)
		assert.Equal(t, commands.LifecycleCompleted, res.Outcome)
		assert.Equal(t, order.Completed, res.Status)
		require.NotNil(t, res.Profit)
		assert.Equal(t, int64(60), res.Profit.ProfitBehindOrder())

		o := s.Order("ORD-1")
		assert.Equal(t, order.Paid, o.PaymentStatus())
		assert.Equal(t, now, *o.Member().CompletedAt())

		r := s.Result("ORD-1")
		require.NotNil(t, r)
		assert.Equal(t, order.Paid, r.PaymentStatus())
		assert.Equal(t, int64(10), *r.Commission())
		assert.Equal(t, int64(60), *r.ProfitBehindOrder())
		assert.Equal(t, int64(15), *r.MembersProfit())
		assert.Equal(t, "T1", r.TeamID())
		assert.Equal(t, "M1", r.MemberID())
	})

	t.Run("should be idempotent", func(t *testing.T) {
		s := newStore(t)
		seedAssigned(t, s, "ORD-1", 149, at(10))

		first, err := complete(t, s, member(t), "ORD-1")
		require.NoError(t, err)
		second, err := complete(t, s, admin(t), "ORD-1")
		require.NoError(t, err)

		assert.Equal(t, commands.LifecycleAlreadyCompleted, second.Outcome)
		assert.Equal(t, first.Profit, second.Profit)
		assert.Equal(t, int64(30), *s.Result("ORD-1").ProfitBehindOrder())
	})

	t.Run("should allow the leader of the holding team", func(t *testing.T) {
		s := newStore(t)
		seedAssigned(t, s, "ORD-1", 149, at(10))

		res, err := complete(t, s, leader(t), "ORD-1")

		require.NoError(t, err)
		assert.Equal(t, commands.LifecycleCompleted, res.Outcome)
	})

	t.Run("should refuse other members and leaders", func(t *testing.T) {
		s := newStore(t)
		seedAssigned(t, s, "ORD-1", 149, at(10))

		_, err := complete(t, s, actor(t, "M2", kernel.RoleMember), "ORD-1")
		require.ErrorIs(t, err, commands.ErrUnauthorized)

		_, err = complete(t, s, actor(t, "L2", kernel.RoleTeamLeader), "ORD-1")
		require.ErrorIs(t, err, commands.ErrUnauthorized)

		assert.Equal(t, order.Assigned, s.Order("ORD-1").Status())
		assert.Nil(t, s.Result("ORD-1"))
	})

	t.Run("should not complete unassigned orders", func(t *testing.T) {
		s := newStore(t)
		seedAllocated(t, s, "ORD-1", 149, at(10))

		res, err := complete(t, s, admin(t), "ORD-1")

		require.NoError(t, err)
		assert.Equal(t, commands.LifecycleNotApplicable, res.Outcome)
		assert.Equal(t, order.Allocated, s.Order("ORD-1").Status())
	})

	t.Run("should fail for unpriced order types", func(t *testing.T) {
		s := newStore(t)
		seedAssigned(t, s, "ORD-1", 999, at(10))

		_, err := complete(t, s, admin(t), "ORD-1")

		require.ErrorIs(t, err, services.ErrPricingNotConfigured)
		assert.Equal(t, order.Assigned, s.Order("ORD-1").Status())
	})

	t.Run("should report missing orders", func(t *testing.T) {
		_, err := complete(t, newStore(t), admin(t), "ORD-404")

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should update the order and result in one unit of work", func(t *testing.T) {
		ctx := t.Context()
		assigned, err := order.RestoreOrder("ORD-1", 149, order.New, at(10), nil, nil, nil, order.Details{})
		require.NoError(t, err)
		teamA, err := order.NewAssignment("T1", "Falcons", at(10))
		require.NoError(t, err)
		memberA, err := order.NewAssignment("M1", "Asha", at(10))
		require.NoError(t, err)
		require.NoError(t, assigned.AllocateToTeam(teamA))
		require.NoError(t, assigned.AssignToMember(memberA))

		orders := new(MockOrderRepository)
		results := new(MockResultRepository)
		uow := new(MockUoW)
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OrderRepository").Return(orders).Once(),
			orders.On("Get", ctx, "ORD-1").Return(assigned, nil).Once(),
			uow.On("TeamDirectory").Return(new(MockTeamDirectory)).Once(),
			orders.On("Update", ctx, mock.AnythingOfType("*order.Order"), order.Assigned).Return(nil).Once(),
			uow.On("ResultRepository").Return(results).Once(),
			results.On("Get", ctx, "ORD-1").Return(nil, errs.NewObjectNotFoundError("result", "ORD-1")).Once(),
			results.On("Upsert", ctx, mock.MatchedBy(func(r *result.Result) bool {
				return r.OrderID() == "ORD-1" && r.PaymentStatus() == order.Paid
			})).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)
		factory := new(MockUoWFactory)
		factory.On("Create").Return(uow).Once()

		cmd, err := commands.NewCompleteOrderCommand(admin(t), "ORD-1")
		require.NoError(t, err)
		h := commands.NewCompleteOrderCommandHandler(factory, pricing(t), clock, zap.NewNop())

		res, err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, commands.LifecycleCompleted, res.Outcome)
		orders.AssertExpectations(t)
		results.AssertExpectations(t)
		uow.AssertExpectations(t)
	})

	t.Run("should not commit when the guarded update loses", func(t *testing.T) {
		ctx := t.Context()
		s := newStore(t)
		assigned := seedAssigned(t, s, "ORD-1", 149, at(10))

		orders := new(MockOrderRepository)
		uow := new(MockUoW)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("OrderRepository").Return(orders).Once()
		uow.On("TeamDirectory").Return(new(MockTeamDirectory)).Once()
		orders.On("Get", ctx, "ORD-1").Return(assigned, nil).Once()
		orders.On("Update", ctx, mock.Anything, order.Assigned).
			Return(errs.NewVersionIsInvalidError("order")).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
		factory := new(MockUoWFactory)
		factory.On("Create").Return(uow).Once()

		cmd, err := commands.NewCompleteOrderCommand(admin(t), "ORD-1")
		require.NoError(t, err)
		h := commands.NewCompleteOrderCommandHandler(factory, pricing(t), clock, zap.NewNop())

		_, err = h.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrVersionIsInvalid)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
		uow.AssertExpectations(t)
	})
}

func TestRevertOrderCompletionCommandHandler(t *testing.T) {
	t.Run("should unset profit on the order and its result", func(t *testing.T) {
		s := newStore(t)
		seedCompleted(t, s, "ORD-1", 149, at(10))

		res, err := revert(t, s, member(t), "ORD-1")

		require.NoError(t, err)
		assert.Equal(t, commands.LifecycleReverted, res.Outcome)
		assert.Equal(t, order.Assigned, res.Status)
		assert.Nil(t, res.Profit)

		o := s.Order("ORD-1")
		assert.Nil(t, o.Profit())
		assert.Nil(t, o.Member().CompletedAt())
		assert.Equal(t, "M1", o.Member().ID())

		r := s.Result("ORD-1")
		require.NotNil(t, r)
		assert.Equal(t, order.Unpaid, r.PaymentStatus())
		assert.Nil(t, r.Commission())
		assert.Nil(t, r.ProfitBehindOrder())
		assert.Nil(t, r.MembersProfit())
	})

	t.Run("should allow completing again after revert", func(t *testing.T) {
		s := newStore(t)
		seedCompleted(t, s, "ORD-1", 149, at(10))

		_, err := revert(t, s, member(t), "ORD-1")
		require.NoError(t, err)
		res, err := complete(t, s, member(t), "ORD-1")

		require.NoError(t, err)
		assert.Equal(t, commands.LifecycleCompleted, res.Outcome)
		assert.Equal(t, int64(30), *s.Result("ORD-1").ProfitBehindOrder())
	})

	t.Run("should leave orders that are not completed alone", func(t *testing.T) {
		s := newStore(t)
		seedAssigned(t, s, "ORD-ASSIGNED", 149, at(10))
		seedCompleted(t, s, "ORD-VERIFIED", 149, at(10))
		_, err := verify(t, s, "ORD-VERIFIED")
		require.NoError(t, err)

		for _, id := range []string{"ORD-ASSIGNED", "ORD-VERIFIED"} {
			res, err := revert(t, s, admin(t), id)

			require.NoError(t, err)
			assert.Equal(t, commands.LifecycleNotCompleted, res.Outcome)
		}
		assert.Equal(t, order.Verified, s.Order("ORD-VERIFIED").Status())
		assert.NotNil(t, s.Result("ORD-VERIFIED").Commission())
	})

	t.Run("should write no result when none exists", func(t *testing.T) {
		s := newStore(t)
		o := seedAssigned(t, s, "ORD-1", 149, at(10))
		p, err := order.NewProfit(10, 30, 15)
		require.NoError(t, err)
		require.NoError(t, o.Complete(p, at(11)))
		s.PutOrder(o)

		_, err = revert(t, s, admin(t), "ORD-1")

		require.NoError(t, err)
		assert.Nil(t, s.Result("ORD-1"))
	})

	t.Run("should refuse unrelated members", func(t *testing.T) {
		s := newStore(t)
		seedCompleted(t, s, "ORD-1", 149, at(10))

		_, err := revert(t, s, actor(t, "M2", kernel.RoleMember), "ORD-1")

		require.ErrorIs(t, err, commands.ErrUnauthorized)
		assert.Equal(t, order.Completed, s.Order("ORD-1").Status())
	})
}

func TestVerifyOrderCommandHandler(t *testing.T) {
	t.Run("should verify completed orders", func(t *testing.T) {
		s := newStore(t)
		seedCompleted(t, s, "ORD-1", 149, at(10))

		res, err := verify(t, s, "ORD-1")

		require.NoError(t, err)
		assert.Equal(t, commands.LifecycleVerified, res.Outcome)
		assert.Equal(t, order.Verified, s.Order("ORD-1").Status())
		assert.Equal(t, order.Paid, s.Result("ORD-1").PaymentStatus())
	})

	t.Run("should create a missing result", func(t *testing.T) {
		s := newStore(t)
		o := seedAssigned(t, s, "ORD-1", 149, at(10))
		p, err := order.NewProfit(10, 30, 15)
		require.NoError(t, err)
		require.NoError(t, o.Complete(p, at(11)))
		s.PutOrder(o)

		_, err = verify(t, s, "ORD-1")

		require.NoError(t, err)
		require.NotNil(t, s.Result("ORD-1"))
		assert.Equal(t, int64(30), *s.Result("ORD-1").ProfitBehindOrder())
	})

	t.Run("should not apply to other statuses", func(t *testing.T) {
		s := newStore(t)
		seedAssigned(t, s, "ORD-1", 149, at(10))

		res, err := verify(t, s, "ORD-1")

		require.NoError(t, err)
		assert.Equal(t, commands.LifecycleNotApplicable, res.Outcome)
		assert.Equal(t, order.Assigned, s.Order("ORD-1").Status())
	})

	t.Run("should be reserved to administrators", func(t *testing.T) {
		_, err := commands.NewVerifyOrderCommand(leader(t), "ORD-1")

		require.ErrorIs(t, err, commands.ErrUnauthorized)
	})

	t.Run("should surface store failures", func(t *testing.T) {
		s := newStore(t)
		s.FailWith = errors.New("connection refused")

		_, err := verify(t, s, "ORD-1")

		require.Error(t, err)
	})
}

func TestNewOrderCommands(t *testing.T) {
	t.Run("should require order id and actor", func(t *testing.T) {
		_, err := commands.NewCompleteOrderCommand(admin(t), "")
		require.ErrorIs(t, err, errs.ErrValueIsRequired)

		_, err = commands.NewRevertOrderCompletionCommand(kernel.Actor{}, "ORD-1")
		require.ErrorIs(t, err, kernel.ErrActorIsNotConstructed)
	})

	t.Run("should reject unconstructed commands", func(t *testing.T) {
		require.ErrorIs(t, commands.CompleteOrderCommand{}.Validate(), commands.ErrCompleteOrderCommandIsNotConstructed)
		require.ErrorIs(t, commands.RevertOrderCompletionCommand{}.Validate(),
			commands.ErrRevertOrderCompletionCommandIsNotConstructed)
		require.ErrorIs(t, commands.VerifyOrderCommand{}.Validate(), commands.ErrVerifyOrderCommandIsNotConstructed)
	})
}
