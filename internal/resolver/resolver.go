// Package resolver implements the single-machine conflict resolver: given
// a proposed start for a work order, push it forward past any already
// placed order it would overlap, snapping through the calendar each step.
package resolver

import (
	"fmt"
	"time"

	"github.com/flowforge/reflow-engine/internal/calendar"
	"github.com/flowforge/reflow-engine/internal/constraint"
	"github.com/flowforge/reflow-engine/internal/workcenter"
	"github.com/flowforge/reflow-engine/internal/workorder"
)

// maxResolveIterations bounds the push-forward loop.
const maxResolveIterations = 100

// Resolve finds a start time at or after candidateStart such that order,
// if placed there, does not overlap any order already in placed (all
// assumed to be on workCenter). It returns the resolved start; the
// caller is responsible for projecting the matching end.
func Resolve(
	candidateStart time.Time,
	order *workorder.WorkOrder,
	workCenter *workcenter.WorkCenter,
	placed []*workorder.WorkOrder,
) (time.Time, error) {
	start := candidateStart
	for i := 0; i < maxResolveIterations; i++ {
		end, err := calendar.ProjectEnd(start, order.DurationMinutes, workCenter)
		if err != nil {
			return time.Time{}, fmt.Errorf("resolving conflicts for work order %q: %w", order.ID, err)
		}
		candidate := &workorder.WorkOrder{
			ID: order.ID, WorkCenterID: order.WorkCenterID, Start: start, End: end,
		}
		var latestEnd time.Time
		found := false
		for _, p := range placed {
			if p.ID == order.ID {
				continue
			}
			if constraint.MachineOverlap(candidate, p) {
				if !found || p.End.After(latestEnd) {
					latestEnd = p.End
				}
				found = true
			}
		}
		if !found {
			return start, nil
		}
		next, err := calendar.NextAvailable(latestEnd, workCenter)
		if err != nil {
			return time.Time{}, fmt.Errorf("resolving conflicts for work order %q: %w", order.ID, err)
		}
		start = next
	}
	return time.Time{}, fmt.Errorf(
		"conflict resolution exceeded %d iterations for work order %q", maxResolveIterations, order.ID,
	)
}
