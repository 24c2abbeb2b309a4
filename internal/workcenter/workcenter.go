// Package workcenter defines the machine/calendar side of the data model:
// a WorkCenter's weekly shift pattern and maintenance windows.
package workcenter

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Shift is a half-open working-hours interval on a single weekday.
// DayOfWeek follows time.Weekday: Sunday=0, Monday=1, ..., Saturday=6.
type Shift struct {
	DayOfWeek int `json:"dayOfWeek" validate:"gte=0,lte=6"`
	StartHour int `json:"startHour" validate:"gte=0,lte=24"`
	EndHour   int `json:"endHour"   validate:"gte=0,lte=24"`
}

// MaintenanceWindow is a half-open blocked interval [Start, End) on a
// machine. It may cross day boundaries.
type MaintenanceWindow struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Reason string    `json:"reason,omitempty"`
}

// WorkCenter is a machine with a weekly shift calendar and a set of
// maintenance windows. Identity is by ID; a WorkCenter is immutable during
// a reflow invocation.
type WorkCenter struct {
	ID                 string              `json:"id" validate:"required"`
	Name               string              `json:"name"`
	Shifts             []Shift             `json:"shifts"`
	MaintenanceWindows []MaintenanceWindow `json:"maintenanceWindows"`
}

// Validate checks structural invariants: required fields, Shift ranges,
// and at most one shift per weekday.
func (wc *WorkCenter) Validate() error {
	if err := validate.Struct(wc); err != nil {
		return fmt.Errorf("work center %q: %w", wc.ID, err)
	}
	seen := make(map[int]bool, len(wc.Shifts))
	for _, s := range wc.Shifts {
		if err := validate.Struct(s); err != nil {
			return fmt.Errorf("work center %q: invalid shift: %w", wc.ID, err)
		}
		if seen[s.DayOfWeek] {
			return fmt.Errorf("work center %q: duplicate shift for weekday %d", wc.ID, s.DayOfWeek)
		}
		seen[s.DayOfWeek] = true
	}
	return nil
}

// ByID indexes a slice of work centers by ID for O(1) lookup.
func ByID(centers []*WorkCenter) map[string]*WorkCenter {
	index := make(map[string]*WorkCenter, len(centers))
	for _, wc := range centers {
		index[wc.ID] = wc
	}
	return index
}
