package order_test

import (
	"testing"
	"time"

	"orderflow/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Matches(t *testing.T) {
	dayEnd := time.Date(2024, 1, 5, 23, 59, 59, 0, time.UTC)
	dayStart := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	t.Run("should match team allocation candidates", func(t *testing.T) {
		f := order.Filter{
			Statuses:    []order.Status{order.New},
			OrderType:   order.TypeWithCoupon,
			Team:        order.PresenceAbsent,
			CreatedFrom: dayStart,
			CreatedTo:   &dayEnd,
		}

		assert.True(t, f.Matches(newOrder(t)))
		assert.False(t, f.Matches(newAssignedOrder(t)))
	})

	t.Run("should reject other order types and dates", func(t *testing.T) {
		o := newOrder(t)
		before := dayStart.Add(-time.Second)

		assert.False(t, order.Filter{OrderType: order.TypeWithoutCoupon}.Matches(o))
		assert.False(t, order.Filter{CreatedTo: &before}.Matches(o))
		assert.False(t, order.Filter{CreatedFrom: dayEnd}.Matches(o))
	})

	t.Run("should treat TeamID as required presence", func(t *testing.T) {
		f := order.Filter{TeamID: "T1"}

		assert.Equal(t, order.PresencePresent, f.TeamPresence())
		assert.False(t, f.Matches(newOrder(t)))
		assert.True(t, f.Matches(newAssignedOrder(t)))
		assert.False(t, order.Filter{TeamID: "T2"}.Matches(newAssignedOrder(t)))
	})

	t.Run("should exclude terminal statuses", func(t *testing.T) {
		f := order.Filter{TeamID: "T1", ExcludedStatuses: []order.Status{order.Completed, order.Verified}}

		assert.True(t, f.Matches(newAssignedOrder(t)))
		assert.False(t, f.Matches(newCompletedOrder(t)))
	})

	t.Run("should check member presence and link", func(t *testing.T) {
		noLink, err := order.NewOrder("ORD-2", 299, created, order.Details{})
		if assert.NoError(t, err) {
			assert.False(t, order.Filter{LinkPresent: true}.Matches(noLink))
		}
		assert.True(t, order.Filter{Member: order.PresencePresent}.Matches(newAssignedOrder(t)))
		assert.False(t, order.Filter{Member: order.PresenceAbsent}.Matches(newAssignedOrder(t)))
	})

	t.Run("should not match nil", func(t *testing.T) {
		assert.False(t, order.Filter{}.Matches(nil))
	})
}
