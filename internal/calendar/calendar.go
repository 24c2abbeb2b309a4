// Package calendar implements pure calendar arithmetic over a work
// center's weekly shift pattern and maintenance windows: locating the
// shift for a weekday, testing maintenance overlap, and advancing an
// instant forward to the next working time.
package calendar

import (
	"fmt"
	"time"

	"github.com/flowforge/reflow-engine/internal/workcenter"
)

const (
	// maxNextAvailableIterations bounds NextAvailable: at most 7 weekday
	// jumps to find a working day, plus slack for interleaved maintenance
	// jumps.
	maxNextAvailableIterations = 30
	// maxProjectEndIterations bounds ProjectEnd's shift/maintenance walk.
	maxProjectEndIterations = 10000
)

// ShiftForWeekday returns the shift whose DayOfWeek matches day, if any.
// day follows time.Weekday (Sunday=0, ..., Saturday=6).
func ShiftForWeekday(day int, wc *workcenter.WorkCenter) (workcenter.Shift, bool) {
	for _, s := range wc.Shifts {
		if s.DayOfWeek == day {
			return s, true
		}
	}
	return workcenter.Shift{}, false
}

// InMaintenance reports whether t falls inside any of wc's maintenance
// windows.
func InMaintenance(t time.Time, wc *workcenter.WorkCenter) bool {
	_, ok := maintenanceWindowAt(t, wc)
	return ok
}

func maintenanceWindowAt(t time.Time, wc *workcenter.WorkCenter) (workcenter.MaintenanceWindow, bool) {
	for _, w := range wc.MaintenanceWindows {
		if !t.Before(w.Start) && t.Before(w.End) {
			return w, true
		}
	}
	return workcenter.MaintenanceWindow{}, false
}

// nextMaintenanceStart returns the earliest maintenance window whose Start
// lies in (after, before), i.e. strictly after the given instant and
// strictly before the given bound.
func nextMaintenanceStart(after, before time.Time, wc *workcenter.WorkCenter) (workcenter.MaintenanceWindow, bool) {
	var found workcenter.MaintenanceWindow
	ok := false
	for _, w := range wc.MaintenanceWindows {
		if w.Start.After(after) && w.Start.Before(before) {
			if !ok || w.Start.Before(found.Start) {
				found = w
				ok = true
			}
		}
	}
	return found, ok
}

func atHour(t time.Time, hour int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func startOfNextDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC)
}

// NextAvailable returns the earliest instant t' >= t that falls within a
// shift and outside every maintenance window. It does not consider
// whether t is past that shift's end; callers that care (ProjectEnd) make
// that check themselves.
func NextAvailable(t time.Time, wc *workcenter.WorkCenter) (time.Time, error) {
	current := t.UTC()
	for i := 0; i < maxNextAvailableIterations; i++ {
		if w, ok := maintenanceWindowAt(current, wc); ok {
			current = w.End
			continue
		}
		shift, ok := ShiftForWeekday(int(current.Weekday()), wc)
		if !ok {
			current = startOfNextDay(current)
			continue
		}
		shiftStart := atHour(current, shift.StartHour)
		if current.Before(shiftStart) {
			current = shiftStart
			continue
		}
		return current, nil
	}
	return time.Time{}, fmt.Errorf(
		"next available instant not found within %d iterations for work center %q",
		maxNextAvailableIterations, wc.ID,
	)
}

// ProjectEnd returns the instant reached by accumulating durationMinutes
// of in-shift, non-maintenance time starting at start. A maintenance
// window that begins inside the current shift segment truncates that
// segment, so a work span straddling it is correctly split across the
// window rather than silently overlapping it.
func ProjectEnd(start time.Time, durationMinutes int, wc *workcenter.WorkCenter) (time.Time, error) {
	current, err := NextAvailable(start.UTC(), wc)
	if err != nil {
		return time.Time{}, err
	}
	remaining := durationMinutes
	for iterations := 0; remaining > 0; iterations++ {
		if iterations >= maxProjectEndIterations {
			return time.Time{}, fmt.Errorf(
				"project end exceeded %d iterations for work center %q",
				maxProjectEndIterations, wc.ID,
			)
		}
		if w, ok := maintenanceWindowAt(current, wc); ok {
			current = w.End
			continue
		}
		shift, ok := ShiftForWeekday(int(current.Weekday()), wc)
		if !ok {
			current = startOfNextDay(current)
			continue
		}
		shiftStart := atHour(current, shift.StartHour)
		shiftEnd := atHour(current, shift.EndHour)
		if current.Before(shiftStart) {
			current = shiftStart
			continue
		}
		if !current.Before(shiftEnd) {
			current = startOfNextDay(current)
			continue
		}
		segmentEnd := shiftEnd
		if w, ok := nextMaintenanceStart(current, shiftEnd, wc); ok && w.Start.Before(segmentEnd) {
			segmentEnd = w.Start
		}
		available := segmentEnd.Sub(current)
		consume := time.Duration(remaining) * time.Minute
		if consume > available {
			consume = available
		}
		current = current.Add(consume)
		remaining -= int(consume / time.Minute)
	}
	return current, nil
}
