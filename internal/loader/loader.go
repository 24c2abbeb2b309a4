// Package loader reads external JSON documents (a docId/docType/data
// envelope) and turns them into the in-process []WorkCenter/[]WorkOrder
// reflow.Reflow consumes, plus an optional reflowOptions document that lets
// the same input directory carry engine knobs instead of only CLI flags.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/flowforge/reflow-engine/internal/core"
	"github.com/flowforge/reflow-engine/internal/workcenter"
	"github.com/flowforge/reflow-engine/internal/workorder"
	"github.com/flowforge/reflow-engine/pkg/rconfig"
)

type envelope struct {
	DocID   string          `json:"docId"`
	DocType string          `json:"docType"`
	Data    json.RawMessage `json:"data"`
}

type shiftDoc struct {
	DayOfWeek int `json:"dayOfWeek"`
	StartHour int `json:"startHour"`
	EndHour   int `json:"endHour"`
}

type maintenanceWindowDoc struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason,omitempty"`
}

type workCenterDoc struct {
	Name               string                 `json:"name"`
	Shifts             []shiftDoc             `json:"shifts"`
	MaintenanceWindows []maintenanceWindowDoc `json:"maintenanceWindows"`
}

type workOrderDoc struct {
	WorkOrderNumber       string   `json:"workOrderNumber"`
	ManufacturingOrderID  string   `json:"manufacturingOrderId"`
	WorkCenterID          string   `json:"workCenterId"`
	StartDate             string   `json:"startDate"`
	EndDate               string   `json:"endDate"`
	DurationMinutes       int      `json:"durationMinutes"`
	IsMaintenance         bool     `json:"isMaintenance"`
	DependsOnWorkOrderIDs []string `json:"dependsOnWorkOrderIds"`
}

// Result is the decoded, domain-typed content of one or more input
// documents.
type Result struct {
	WorkCenters   []*workcenter.WorkCenter
	WorkOrders    []*workorder.WorkOrder
	ReflowOptions *rconfig.ReflowOptionsDoc
}

// Load reads every document reachable from paths — a file is read
// directly, a directory is globbed with pattern — decodes its envelope,
// and merges the result. An empty pattern defaults to DefaultGlob.
func Load(paths []string, pattern string) (*Result, error) {
	if pattern == "" {
		pattern = DefaultGlob
	}
	result := &Result{}
	for _, path := range paths {
		files, err := filesUnder(path, pattern)
		if err != nil {
			return nil, fmt.Errorf("discovering input files under %q: %w", path, err)
		}
		for _, file := range files {
			if err := loadFile(file, result); err != nil {
				return nil, fmt.Errorf("loading %q: %w", file, err)
			}
		}
	}
	return result, nil
}

func filesUnder(path, pattern string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %q: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	return discoverFiles(path, pattern)
}

func loadFile(path string, result *Result) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decoding document envelope: %w", err)
	}
	switch env.DocType {
	case "workCenter":
		wc, err := decodeWorkCenter(env.DocID, env.Data)
		if err != nil {
			return err
		}
		result.WorkCenters = append(result.WorkCenters, wc)
	case "workOrder":
		wo, err := decodeWorkOrder(env.DocID, env.Data)
		if err != nil {
			return err
		}
		result.WorkOrders = append(result.WorkOrders, wo)
	case "reflowOptions":
		opts, err := decodeReflowOptions(env.Data)
		if err != nil {
			return err
		}
		result.ReflowOptions = opts
	default:
		return core.NewError(nil, "UNKNOWN_DOC_TYPE", map[string]any{
			"docId":   env.DocID,
			"docType": env.DocType,
			"file":    filepath.Base(path),
		})
	}
	return nil
}

func decodeWorkCenter(docID string, data json.RawMessage) (*workcenter.WorkCenter, error) {
	var doc workCenterDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding work center %q: %w", docID, err)
	}
	wc := &workcenter.WorkCenter{
		ID:   docID,
		Name: doc.Name,
	}
	for _, s := range doc.Shifts {
		wc.Shifts = append(wc.Shifts, workcenter.Shift{
			DayOfWeek: s.DayOfWeek, StartHour: s.StartHour, EndHour: s.EndHour,
		})
	}
	for _, w := range doc.MaintenanceWindows {
		start, err := time.Parse(time.RFC3339, w.StartDate)
		if err != nil {
			return nil, fmt.Errorf("work center %q maintenance window start: %w", docID, err)
		}
		end, err := time.Parse(time.RFC3339, w.EndDate)
		if err != nil {
			return nil, fmt.Errorf("work center %q maintenance window end: %w", docID, err)
		}
		wc.MaintenanceWindows = append(wc.MaintenanceWindows, workcenter.MaintenanceWindow{
			Start: start, End: end, Reason: w.Reason,
		})
	}
	if err := wc.Validate(); err != nil {
		return nil, err
	}
	return wc, nil
}

func decodeWorkOrder(docID string, data json.RawMessage) (*workorder.WorkOrder, error) {
	var doc workOrderDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding work order %q: %w", docID, err)
	}
	start, err := time.Parse(time.RFC3339, doc.StartDate)
	if err != nil {
		return nil, fmt.Errorf("work order %q start: %w", docID, err)
	}
	end, err := time.Parse(time.RFC3339, doc.EndDate)
	if err != nil {
		return nil, fmt.Errorf("work order %q end: %w", docID, err)
	}
	wo := &workorder.WorkOrder{
		ID:              docID,
		Number:          doc.WorkOrderNumber,
		WorkCenterID:    doc.WorkCenterID,
		Start:           start,
		End:             end,
		DurationMinutes: doc.DurationMinutes,
		IsMaintenance:   doc.IsMaintenance,
		DependsOn:       doc.DependsOnWorkOrderIDs,
	}
	if err := wo.Validate(); err != nil {
		return nil, err
	}
	return wo, nil
}

func decodeReflowOptions(data json.RawMessage) (*rconfig.ReflowOptionsDoc, error) {
	var opts rconfig.ReflowOptionsDoc
	if err := json.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("decoding reflow options: %w", err)
	}
	return &opts, nil
}
