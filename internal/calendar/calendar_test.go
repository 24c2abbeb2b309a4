package calendar

import (
	"testing"
	"time"

	"github.com/flowforge/reflow-engine/internal/workcenter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Jan 5, 2026 is a Monday; Jan 6 a Tuesday; Jan 10 a Saturday.
func mondayAt(hour, minute int) time.Time {
	return time.Date(2026, 1, 5, hour, minute, 0, 0, time.UTC)
}

func tuesdayAt(hour, minute int) time.Time {
	return time.Date(2026, 1, 6, hour, minute, 0, 0, time.UTC)
}

func weekdayShiftCenter() *workcenter.WorkCenter {
	return &workcenter.WorkCenter{
		ID: "wc-1",
		Shifts: []workcenter.Shift{
			{DayOfWeek: 1, StartHour: 8, EndHour: 16},
			{DayOfWeek: 2, StartHour: 8, EndHour: 16},
			{DayOfWeek: 3, StartHour: 8, EndHour: 16},
			{DayOfWeek: 4, StartHour: 8, EndHour: 16},
			{DayOfWeek: 5, StartHour: 8, EndHour: 16},
		},
	}
}

func TestShiftForWeekday(t *testing.T) {
	wc := weekdayShiftCenter()
	t.Run("Should return the shift for a working weekday", func(t *testing.T) {
		shift, ok := ShiftForWeekday(1, wc)
		require.True(t, ok)
		assert.Equal(t, 8, shift.StartHour)
		assert.Equal(t, 16, shift.EndHour)
	})
	t.Run("Should return false for a weekday with no shift", func(t *testing.T) {
		_, ok := ShiftForWeekday(6, wc)
		assert.False(t, ok)
	})
}

func TestInMaintenance(t *testing.T) {
	wc := weekdayShiftCenter()
	wc.MaintenanceWindows = []workcenter.MaintenanceWindow{
		{Start: mondayAt(10, 0), End: mondayAt(11, 0)},
	}
	t.Run("Should report true inside the window", func(t *testing.T) {
		assert.True(t, InMaintenance(mondayAt(10, 30), wc))
	})
	t.Run("Should report true at the window start (half-open)", func(t *testing.T) {
		assert.True(t, InMaintenance(mondayAt(10, 0), wc))
	})
	t.Run("Should report false at the window end (half-open)", func(t *testing.T) {
		assert.False(t, InMaintenance(mondayAt(11, 0), wc))
	})
	t.Run("Should report false outside any window", func(t *testing.T) {
		assert.False(t, InMaintenance(mondayAt(9, 0), wc))
	})
}

func TestNextAvailable(t *testing.T) {
	wc := weekdayShiftCenter()

	t.Run("Should return the instant unchanged when already within a shift", func(t *testing.T) {
		got, err := NextAvailable(mondayAt(15, 0), wc)
		require.NoError(t, err)
		assert.Equal(t, mondayAt(15, 0), got)
	})

	t.Run("Should not consider whether the instant is past shift end", func(t *testing.T) {
		got, err := NextAvailable(mondayAt(23, 0), wc)
		require.NoError(t, err)
		assert.Equal(t, mondayAt(23, 0), got)
	})

	t.Run("Should advance to the shift start when too early", func(t *testing.T) {
		got, err := NextAvailable(mondayAt(6, 0), wc)
		require.NoError(t, err)
		assert.Equal(t, mondayAt(8, 0), got)
	})

	t.Run("Should skip a weekday with no shift", func(t *testing.T) {
		saturday := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
		got, err := NextAvailable(saturday, wc)
		require.NoError(t, err)
		assert.Equal(t, mondayAt(8, 0).AddDate(0, 0, 7), got)
	})

	t.Run("Should advance past a maintenance window", func(t *testing.T) {
		wc := weekdayShiftCenter()
		wc.MaintenanceWindows = []workcenter.MaintenanceWindow{
			{Start: mondayAt(9, 0), End: mondayAt(10, 0)},
		}
		got, err := NextAvailable(mondayAt(9, 30), wc)
		require.NoError(t, err)
		assert.Equal(t, mondayAt(10, 0), got)
	})

	t.Run("Should error when no working day is ever found", func(t *testing.T) {
		empty := &workcenter.WorkCenter{ID: "wc-empty"}
		_, err := NextAvailable(mondayAt(9, 0), empty)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "iterations")
	})
}

func TestProjectEnd(t *testing.T) {
	t.Run("Should project entirely within one shift", func(t *testing.T) {
		wc := weekdayShiftCenter()
		end, err := ProjectEnd(mondayAt(9, 0), 120, wc)
		require.NoError(t, err)
		assert.Equal(t, mondayAt(11, 0), end)
	})

	t.Run("Should spill over into the next working day", func(t *testing.T) {
		wc := weekdayShiftCenter()
		end, err := ProjectEnd(mondayAt(15, 0), 120, wc)
		require.NoError(t, err)
		assert.Equal(t, tuesdayAt(9, 0), end)
	})

	t.Run("Should split a span around a maintenance window inside the shift", func(t *testing.T) {
		wc := weekdayShiftCenter()
		wc.MaintenanceWindows = []workcenter.MaintenanceWindow{
			{Start: mondayAt(10, 0), End: mondayAt(11, 0)},
		}
		end, err := ProjectEnd(mondayAt(9, 0), 120, wc)
		require.NoError(t, err)
		assert.Equal(t, mondayAt(12, 0), end)
	})

	t.Run("Should treat a zero-duration order as ending at the next available instant", func(t *testing.T) {
		wc := weekdayShiftCenter()
		end, err := ProjectEnd(mondayAt(6, 0), 0, wc)
		require.NoError(t, err)
		want, err := NextAvailable(mondayAt(6, 0), wc)
		require.NoError(t, err)
		assert.Equal(t, want, end)
	})

	t.Run("Should advance to the next day when starting exactly at shift end", func(t *testing.T) {
		wc := weekdayShiftCenter()
		end, err := ProjectEnd(mondayAt(16, 0), 60, wc)
		require.NoError(t, err)
		assert.Equal(t, tuesdayAt(9, 0), end)
	})

	t.Run("Should error when the iteration bound is exceeded", func(t *testing.T) {
		empty := &workcenter.WorkCenter{ID: "wc-empty"}
		_, err := ProjectEnd(mondayAt(9, 0), 60, empty)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "iterations")
	})
}
