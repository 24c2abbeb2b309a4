// Package workorder defines the unit-of-work side of the data model: a
// WorkOrder's schedule, duration, machine assignment, and dependencies.
package workorder

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// WorkOrder is a unit of manufacturing work assigned to a WorkCenter.
// DependsOn lists the ids of work orders that must finish before this one
// starts. IsMaintenance pins Start/End as authoritative: the driver never
// moves a maintenance order.
type WorkOrder struct {
	ID              string    `json:"id"                        validate:"required"`
	Number          string    `json:"number"`
	WorkCenterID    string    `json:"workCenterId"               validate:"required"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"durationMinutes"            validate:"gte=0"`
	IsMaintenance   bool      `json:"isMaintenance"`
	DependsOn       []string  `json:"dependsOn,omitempty"`
}

// Validate checks structural invariants on a single work order. It does
// not check dependency resolvability or cross-order constraints; those
// belong to internal/constraint.
func (wo *WorkOrder) Validate() error {
	if err := validate.Struct(wo); err != nil {
		return fmt.Errorf("work order %q: %w", wo.ID, err)
	}
	return nil
}

// Duration returns the order's duration as a time.Duration.
func (wo *WorkOrder) Duration() time.Duration {
	return time.Duration(wo.DurationMinutes) * time.Minute
}

// Change records a single start/end rewrite the driver made to a work
// order, for the reflow result's audit log.
type Change struct {
	WorkOrderID     string `json:"workOrderId"`
	WorkOrderNumber string `json:"workOrderNumber"`
	OldStart        time.Time `json:"oldStart"`
	OldEnd          time.Time `json:"oldEnd"`
	NewStart        time.Time `json:"newStart"`
	NewEnd          time.Time `json:"newEnd"`
	DelayMinutes    int    `json:"delayMinutes" validate:"gte=0"`
	Reason          string `json:"reason"`
}

// ByID indexes a slice of work orders by ID for O(1) lookup.
func ByID(orders []*WorkOrder) map[string]*WorkOrder {
	index := make(map[string]*WorkOrder, len(orders))
	for _, wo := range orders {
		index[wo.ID] = wo
	}
	return index
}
