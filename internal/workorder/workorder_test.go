package workorder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkOrder_Validate(t *testing.T) {
	t.Run("Should accept a valid work order", func(t *testing.T) {
		wo := &WorkOrder{ID: "wo-1", WorkCenterID: "wc-1", DurationMinutes: 60}
		assert.NoError(t, wo.Validate())
	})

	t.Run("Should reject a missing id", func(t *testing.T) {
		wo := &WorkOrder{WorkCenterID: "wc-1", DurationMinutes: 60}
		require.Error(t, wo.Validate())
	})

	t.Run("Should reject a missing work center id", func(t *testing.T) {
		wo := &WorkOrder{ID: "wo-1", DurationMinutes: 60}
		require.Error(t, wo.Validate())
	})

	t.Run("Should reject a negative duration", func(t *testing.T) {
		wo := &WorkOrder{ID: "wo-1", WorkCenterID: "wc-1", DurationMinutes: -1}
		require.Error(t, wo.Validate())
	})

	t.Run("Should accept a zero-duration order", func(t *testing.T) {
		wo := &WorkOrder{ID: "wo-1", WorkCenterID: "wc-1", DurationMinutes: 0}
		assert.NoError(t, wo.Validate())
	})
}

func TestWorkOrder_Duration(t *testing.T) {
	t.Run("Should convert duration minutes to time.Duration", func(t *testing.T) {
		wo := &WorkOrder{DurationMinutes: 90}
		assert.Equal(t, 90*time.Minute, wo.Duration())
	})
}

func TestByID(t *testing.T) {
	t.Run("Should index work orders by id", func(t *testing.T) {
		a := &WorkOrder{ID: "a"}
		b := &WorkOrder{ID: "b"}
		index := ByID([]*WorkOrder{a, b})
		assert.Same(t, a, index["a"])
		assert.Same(t, b, index["b"])
	})

	t.Run("Should return an empty map for no input", func(t *testing.T) {
		assert.Empty(t, ByID(nil))
	})
}
