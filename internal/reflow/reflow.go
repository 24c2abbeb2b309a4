// Package reflow implements the worklist-based reflow driver: it orders
// work by dependency, computes each order's earliest valid start, projects
// its end across the calendar, and emits a result with an audit log of
// every change it made.
package reflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/flowforge/reflow-engine/internal/calendar"
	"github.com/flowforge/reflow-engine/internal/constraint"
	"github.com/flowforge/reflow-engine/internal/core"
	"github.com/flowforge/reflow-engine/internal/resolver"
	"github.com/flowforge/reflow-engine/internal/workcenter"
	"github.com/flowforge/reflow-engine/internal/workorder"
	"github.com/flowforge/reflow-engine/pkg/logger"
)

// Schedule maps a work-center id to its placed work orders, in placement
// order (not sorted).
type Schedule map[string][]*workorder.WorkOrder

// Result is the outcome of a Reflow invocation.
type Result struct {
	RunID             string             `json:"runId"`
	Success           bool               `json:"success"`
	UpdatedWorkOrders Schedule           `json:"updatedWorkOrders"`
	Changes           []workorder.Change `json:"changes"`
	Explanation       string             `json:"explanation"`
	Errors            []string           `json:"errors"`
}

type options struct {
	maxIterationsPerOrder int
}

func defaultOptions() *options {
	return &options{maxIterationsPerOrder: 100}
}

// Option configures a Reflow invocation.
type Option func(*options)

// WithMaxIterationsPerOrder overrides the per-order worklist safety
// multiplier (the driver bound is len(workOrders) * n). Values <= 0 are
// ignored.
func WithMaxIterationsPerOrder(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxIterationsPerOrder = n
		}
	}
}

// Reflow recomputes start/end times for workOrders so that, on success,
// every invariant of the data model holds: no machine overlap, every
// dependency satisfied, no maintenance intersection, and an acyclic
// dependency graph. It mutates workOrders' Start/End fields in place.
func Reflow(
	ctx context.Context,
	workCenters []*workcenter.WorkCenter,
	workOrders []*workorder.WorkOrder,
	opts ...Option,
) *Result {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(cfg)
	}

	runID, err := core.NewID()
	if err != nil {
		runID = core.ID("unknown")
	}
	ctx = core.WithRunID(ctx, runID)
	log := logger.FromContext(ctx).With("component", "reflow", "run_id", runID.String())

	result := &Result{RunID: runID.String(), UpdatedWorkOrders: Schedule{}}

	if len(workOrders) == 0 {
		result.Explanation = "no work orders"
		log.Info("reflow completed", "success", false, "reason", "no work orders")
		return result
	}

	if cycles := constraint.DetectCycles(workOrders); len(cycles) > 0 {
		result.Errors = cycles
		result.Explanation = strings.Join(cycles, "; ")
		log.Warn("reflow aborted: cyclic dependencies", "cycle_count", len(cycles))
		return result
	}

	centersByID := workcenter.ByID(workCenters)
	originalByID := workorder.ByID(workOrders)

	schedule := make(Schedule)
	placedByID := make(map[string]*workorder.WorkOrder, len(workOrders))
	placed := make(map[string]bool, len(workOrders))
	var changes []workorder.Change

	queue := make([]*workorder.WorkOrder, len(workOrders))
	copy(queue, workOrders)

	maxIterations := len(workOrders) * cfg.maxIterationsPerOrder

	for iterations := 0; len(queue) > 0; iterations++ {
		if err := ctx.Err(); err != nil {
			result.Explanation = fmt.Sprintf("reflow canceled: %s", err)
			result.Errors = append(result.Errors, result.Explanation)
			log.Warn("reflow canceled", "err", err)
			return result
		}
		if iterations >= maxIterations {
			result.Explanation = fmt.Sprintf("worklist exceeded %d iterations", maxIterations)
			result.Errors = append(result.Errors, result.Explanation)
			log.Error("reflow aborted: worklist iteration bound exceeded", "max_iterations", maxIterations)
			return result
		}

		o := queue[0]
		queue = queue[1:]

		if placed[o.ID] {
			continue
		}

		wc, ok := centersByID[o.WorkCenterID]
		if !ok {
			result.Explanation = fmt.Sprintf("work order %s references unknown machine %s", o.ID, o.WorkCenterID)
			result.Errors = append(result.Errors, result.Explanation)
			log.Error("reflow aborted: unknown machine", "work_order", o.ID, "machine", o.WorkCenterID)
			return result
		}

		unplacedDeps, missing := unplacedDependencies(o, placed, originalByID)
		if missing != "" {
			result.Explanation = fmt.Sprintf("work order %s depends on unresolvable id %s", o.ID, missing)
			result.Errors = append(result.Errors, result.Explanation)
			log.Error("reflow aborted: unresolvable dependency", "work_order", o.ID, "dependency", missing)
			return result
		}
		if len(unplacedDeps) > 0 {
			next := make([]*workorder.WorkOrder, 0, len(unplacedDeps)+len(queue)+1)
			next = append(next, unplacedDeps...)
			next = append(next, queue...)
			next = append(next, o)
			queue = next
			continue
		}

		if o.IsMaintenance {
			schedule[o.WorkCenterID] = append(schedule[o.WorkCenterID], o)
			placedByID[o.ID] = o
			placed[o.ID] = true
			continue
		}

		oldStart, oldEnd := o.Start, o.End
		base := oldStart
		for _, depID := range o.DependsOn {
			if dep, ok := placedByID[depID]; ok && dep.End.After(base) {
				base = dep.End
			}
		}

		candidate, err := calendar.NextAvailable(base, wc)
		if err != nil {
			return boundExceeded(result, log, o.ID, err)
		}
		resolvedStart, err := resolver.Resolve(candidate, o, wc, schedule[o.WorkCenterID])
		if err != nil {
			return boundExceeded(result, log, o.ID, err)
		}
		newEnd, err := calendar.ProjectEnd(resolvedStart, o.DurationMinutes, wc)
		if err != nil {
			return boundExceeded(result, log, o.ID, err)
		}

		hadMachineNeighbor := len(schedule[o.WorkCenterID]) > 0
		o.Start = resolvedStart
		o.End = newEnd
		schedule[o.WorkCenterID] = append(schedule[o.WorkCenterID], o)
		placedByID[o.ID] = o
		placed[o.ID] = true

		if !resolvedStart.Equal(oldStart) || !newEnd.Equal(oldEnd) {
			changes = append(changes, buildChange(o, oldStart, oldEnd, resolvedStart, newEnd, placedByID, hadMachineNeighbor))
		}
	}

	valid, errs := constraint.Validate(schedule, centersByID)
	result.UpdatedWorkOrders = schedule
	result.Changes = changes
	result.Success = valid
	result.Errors = errs
	result.Explanation = explain(valid, errs, changes)

	log.Info("reflow completed", "success", result.Success, "changes", len(changes))
	return result
}

func unplacedDependencies(
	o *workorder.WorkOrder,
	placed map[string]bool,
	originalByID map[string]*workorder.WorkOrder,
) ([]*workorder.WorkOrder, string) {
	var deps []*workorder.WorkOrder
	for _, depID := range o.DependsOn {
		if placed[depID] {
			continue
		}
		dep, ok := originalByID[depID]
		if !ok {
			return nil, depID
		}
		deps = append(deps, dep)
	}
	return deps, ""
}

func buildChange(
	o *workorder.WorkOrder,
	oldStart, oldEnd, newStart, newEnd time.Time,
	placedByID map[string]*workorder.WorkOrder,
	hadMachineNeighbor bool,
) workorder.Change {
	delay := int(newEnd.Sub(oldEnd).Minutes())
	if delay < 0 {
		delay = 0
	}
	return workorder.Change{
		WorkOrderID:     o.ID,
		WorkOrderNumber: o.Number,
		OldStart:        oldStart,
		OldEnd:          oldEnd,
		NewStart:        newStart,
		NewEnd:          newEnd,
		DelayMinutes:    delay,
		Reason:          changeReason(o, oldStart, placedByID, hadMachineNeighbor),
	}
}

// changeReason determines why a placement differed from its original
// values. The dependency-delay check compares each dependency's current
// (post-placement) end against the order's original start, not its
// resolved start — this asymmetry is carried over deliberately.
func changeReason(
	o *workorder.WorkOrder,
	originalStart time.Time,
	placedByID map[string]*workorder.WorkOrder,
	hadMachineNeighbor bool,
) string {
	for _, depID := range o.DependsOn {
		if dep, ok := placedByID[depID]; ok && dep.End.After(originalStart) {
			return fmt.Sprintf("Dependency delay: work order %s ends after the original start", dep.ID)
		}
	}
	if hadMachineNeighbor {
		return fmt.Sprintf("Machine conflict on %s", o.WorkCenterID)
	}
	return "Shift or maintenance constraint"
}

func explain(valid bool, errs []string, changes []workorder.Change) string {
	if !valid {
		return strings.Join(errs, "; ")
	}
	if len(changes) == 0 {
		return "no changes required"
	}
	totalDelay := 0
	for _, c := range changes {
		totalDelay += c.DelayMinutes
	}
	return fmt.Sprintf("Rescheduled %d work order(s) with total delay of %d minutes", len(changes), totalDelay)
}

func boundExceeded(result *Result, log logger.Logger, workOrderID string, err error) *Result {
	result.Explanation = err.Error()
	result.Errors = append(result.Errors, err.Error())
	log.Error("reflow aborted: bound exceeded", "work_order", workOrderID, "err", err)
	return result
}
