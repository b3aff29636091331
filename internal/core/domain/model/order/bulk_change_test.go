package order_test

import (
	"testing"

	"orderflow/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkChange(t *testing.T) {
	t.Run("should allocate through Apply", func(t *testing.T) {
		change, err := order.AllocateTeamChange(teamAssignment(t))
		require.NoError(t, err)
		o := newOrder(t)

		require.NoError(t, change.Apply(o))

		assert.Equal(t, order.ChangeAllocateTeam, change.Kind())
		assert.Equal(t, change.TargetStatus(), o.Status())
		a, ok := change.Assignment()
		assert.True(t, ok)
		assert.Equal(t, "T1", a.ID())
	})

	t.Run("should assign through Apply", func(t *testing.T) {
		change, err := order.AssignMemberChange(memberAssignment(t))
		require.NoError(t, err)
		o := newOrder(t)
		require.NoError(t, o.AllocateToTeam(teamAssignment(t)))

		require.NoError(t, change.Apply(o))
		assert.Equal(t, order.Assigned, o.Status())
	})

	t.Run("should release through Apply", func(t *testing.T) {
		o := newAssignedOrder(t)

		require.NoError(t, order.ReleaseMemberChange().Apply(o))
		assert.Equal(t, order.Allocated, o.Status())

		require.NoError(t, order.ReleaseTeamChange().Apply(o))
		assert.Equal(t, order.New, o.Status())

		_, ok := order.ReleaseTeamChange().Assignment()
		assert.False(t, ok)
	})

	t.Run("should refuse terminal orders", func(t *testing.T) {
		o := newCompletedOrder(t)

		require.Error(t, order.ReleaseTeamChange().Apply(o))
		assert.Equal(t, order.Completed, o.Status())
	})

	t.Run("should reject unconstructed values", func(t *testing.T) {
		_, err := order.AllocateTeamChange(order.Assignment{})
		require.ErrorIs(t, err, order.ErrAssignmentIsNotConstructed)

		require.ErrorIs(t, order.BulkChange{}.Apply(newOrder(t)), order.ErrBulkChangeIsNotConstructed)
		assert.Equal(t, order.Unknown, order.BulkChange{}.TargetStatus())
	})
}
