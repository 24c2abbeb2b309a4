// Package constraint implements the schedule's invariants: per-machine
// overlap, dependency satisfaction, maintenance-window intersection, and
// dependency-graph cycle detection.
package constraint

import (
	"fmt"
	"strings"
	"time"

	"github.com/flowforge/reflow-engine/internal/workcenter"
	"github.com/flowforge/reflow-engine/internal/workorder"
)

// MachineOverlap reports whether a and b are on the same machine and
// their [start, end) intervals overlap.
func MachineOverlap(a, b *workorder.WorkOrder) bool {
	return a.WorkCenterID == b.WorkCenterID && a.Start.Before(b.End) && a.End.After(b.Start)
}

// DependenciesSatisfied reports whether every id in wo.DependsOn resolves
// to an order in pool whose End is at or before wo.Start.
func DependenciesSatisfied(wo *workorder.WorkOrder, pool map[string]*workorder.WorkOrder) bool {
	for _, id := range wo.DependsOn {
		dep, ok := pool[id]
		if !ok {
			return false
		}
		if dep.End.After(wo.Start) {
			return false
		}
	}
	return true
}

type dfsFrame struct {
	id   string
	next int
}

// DetectCycles runs an iterative DFS over orders' dependency edges with an
// explicit recursion-stack set. On re-entering a node already on the
// stack, it emits one error string naming the cycle. A dependency id with
// no matching order is silently ignored here; the driver is responsible
// for reporting unresolvable dependency ids.
func DetectCycles(orders []*workorder.WorkOrder) []string {
	byID := workorder.ByID(orders)
	visited := make(map[string]bool, len(orders))
	var errs []string
	for _, wo := range orders {
		if visited[wo.ID] {
			continue
		}
		errs = append(errs, dfsDetectCycle(wo.ID, byID, visited)...)
	}
	return errs
}

func dfsDetectCycle(start string, byID map[string]*workorder.WorkOrder, visited map[string]bool) []string {
	var errs []string
	onStack := make(map[string]bool)
	path := []string{start}
	onStack[start] = true
	visited[start] = true
	stack := []dfsFrame{{id: start}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		wo, ok := byID[top.id]
		if !ok || top.next >= len(wo.DependsOn) {
			onStack[top.id] = false
			path = path[:len(path)-1]
			stack = stack[:len(stack)-1]
			continue
		}
		dep := wo.DependsOn[top.next]
		top.next++
		if _, exists := byID[dep]; !exists {
			continue
		}
		if onStack[dep] {
			errs = append(errs, formatCycle(path, dep))
			continue
		}
		if visited[dep] {
			continue
		}
		visited[dep] = true
		onStack[dep] = true
		path = append(path, dep)
		stack = append(stack, dfsFrame{id: dep})
	}
	return errs
}

func formatCycle(path []string, closingNode string) string {
	start := 0
	for i, id := range path {
		if id == closingNode {
			start = i
			break
		}
	}
	cycle := make([]string, 0, len(path)-start+1)
	cycle = append(cycle, path[start:]...)
	cycle = append(cycle, closingNode)
	return fmt.Sprintf("Circular dependency detected: %s", strings.Join(cycle, " → "))
}

func overlapsWindow(start, end time.Time, w workcenter.MaintenanceWindow) bool {
	return start.Before(w.End) && end.After(w.Start)
}

// Validate checks the whole-schedule invariants: cycle freedom and
// dependency satisfaction against every placed order across every machine
// (a dependency may sit on a different machine than its dependent), plus
// per-machine pairwise overlap and maintenance-window intersection. It
// accumulates human-readable errors rather than failing fast.
func Validate(
	schedule map[string][]*workorder.WorkOrder,
	workCenters map[string]*workcenter.WorkCenter,
) (bool, []string) {
	var all []*workorder.WorkOrder
	for _, orders := range schedule {
		all = append(all, orders...)
	}
	pool := workorder.ByID(all)

	var errs []string
	errs = append(errs, DetectCycles(all)...)

	for machineID, orders := range schedule {
		wc := workCenters[machineID]

		for i, o := range orders {
			if !DependenciesSatisfied(o, pool) {
				errs = append(errs, fmt.Sprintf(
					"work order %s (%s): dependency not satisfied", o.ID, o.Number,
				))
			}
			for j := i + 1; j < len(orders); j++ {
				if MachineOverlap(o, orders[j]) {
					errs = append(errs, fmt.Sprintf(
						"work orders %s and %s overlap on machine %s", o.ID, orders[j].ID, machineID,
					))
				}
			}
			if wc == nil {
				continue
			}
			for _, w := range wc.MaintenanceWindows {
				if overlapsWindow(o.Start, o.End, w) {
					errs = append(errs, fmt.Sprintf(
						"work order %s intersects maintenance window on machine %s", o.ID, machineID,
					))
				}
			}
		}
	}
	return len(errs) == 0, errs
}
