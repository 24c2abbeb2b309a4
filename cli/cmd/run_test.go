package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/flowforge/reflow-engine/cli/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWorkCenterJSON = `{
  "docId": "wc-1",
  "docType": "workCenter",
  "data": {
    "name": "Press 1",
    "shifts": [
      {"dayOfWeek": 1, "startHour": 8, "endHour": 16},
      {"dayOfWeek": 2, "startHour": 8, "endHour": 16}
    ]
  }
}`

const testWorkOrderJSON = `{
  "docId": "wo-1",
  "docType": "workOrder",
  "data": {
    "workOrderNumber": "WO-1",
    "workCenterId": "wc-1",
    "startDate": "2026-01-05T09:00:00Z",
    "endDate": "2026-01-05T11:00:00Z",
    "durationMinutes": 120,
    "dependsOnWorkOrderIds": []
  }
}`

func TestRunCommand(t *testing.T) {
	t.Run("Should print a successful reflow result as JSON", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "wc.json"), []byte(testWorkCenterJSON), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "wo.json"), []byte(testWorkOrderJSON), 0o600))

		command := NewRunCommand()
		out := &bytes.Buffer{}
		command.SetOut(out)
		command.SetErr(out)
		command.SetArgs([]string{"--input", dir, "--format", "json"})

		require.NoError(t, command.Execute())

		var response helpers.JSONResponse
		require.NoError(t, json.Unmarshal(out.Bytes(), &response))
		assert.True(t, response.Success)
	})

	t.Run("Should fail with a structured error for an unreadable input path", func(t *testing.T) {
		command := NewRunCommand()
		out := &bytes.Buffer{}
		command.SetOut(out)
		command.SetErr(out)
		command.SetArgs([]string{"--input", "/does/not/exist", "--format", "json"})

		err := command.Execute()
		require.Error(t, err)
	})
}
