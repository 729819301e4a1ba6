package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/sensordash/internal/dashboard"
	"github.com/rileyhilliard/sensordash/internal/errors"
	"github.com/rileyhilliard/sensordash/internal/sensor"
	"github.com/rileyhilliard/sensordash/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotRecords(values ...float64) []sensor.Record {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	records := make([]sensor.Record, len(values))
	for i, v := range values {
		records[i] = sensor.Record{
			ID:        sensor.ID(fmt.Sprintf("%d", i+1)),
			Value:     v,
			Timestamp: sensor.NewTimestamp(base.Add(time.Duration(i) * 15 * time.Second)),
		}
	}
	return records
}

func restoreMachineMode(t *testing.T) {
	t.Helper()
	old := machineMode
	t.Cleanup(func() { machineMode = old })
}

func TestRenderSnapshot(t *testing.T) {
	v := dashboard.Derive(dashboard.State{
		Records:   snapshotRecords(310, 150),
		Page:      1,
		PageSize:  15,
		Threshold: 300,
	})

	out := stripANSI(RenderSnapshot(v, 300))

	assert.Contains(t, out, "Sensor Data")
	assert.Contains(t, out, "Total records")
	assert.Contains(t, out, "230.00 cm")
	assert.Contains(t, out, "50.00%")
	assert.Contains(t, out, "Value (cm)")
	assert.Contains(t, out, "310")
	assert.Contains(t, out, "● On")
	assert.Contains(t, out, "● Off")
	assert.Contains(t, out, "◀ Previous  Page 1 of 1  Next ▶")
}

func TestRenderSnapshot_ColorsStatus(t *testing.T) {
	defer lipgloss.SetColorProfile(lipgloss.ColorProfile())
	lipgloss.SetColorProfile(termenv.TrueColor)

	v := dashboard.Derive(dashboard.State{
		Records:   snapshotRecords(310, 150, 300),
		Page:      1,
		PageSize:  15,
		Threshold: 300,
	})
	out := RenderSnapshot(v, 300)

	assert.Contains(t, out, ui.RenderLEDLabel(true))
	assert.Contains(t, out, ui.RenderLEDLabel(false))
	assert.Equal(t, 2, strings.Count(out, ui.RenderLEDLabel(true)))

	// Column alignment comes from the plain labels.
	plain := stripANSI(out)
	assert.Equal(t, 2, strings.Count(plain, "● On"))
	assert.Equal(t, 1, strings.Count(plain, "● Off"))
}

func TestRenderSnapshot_Empty(t *testing.T) {
	v := dashboard.Derive(dashboard.State{Page: 1, PageSize: 15, Threshold: 300})

	out := stripANSI(RenderSnapshot(v, 300))

	assert.Contains(t, out, "0.00 cm")
	assert.Contains(t, out, "No records")
	assert.NotContains(t, out, "Value (cm)")
}

func TestRenderSnapshot_PastLastPage(t *testing.T) {
	v := dashboard.Derive(dashboard.State{
		Records:   snapshotRecords(1, 2, 3),
		Page:      4,
		PageSize:  2,
		Threshold: 300,
	})

	out := stripANSI(RenderSnapshot(v, 300))
	assert.Contains(t, out, "No records on this page")
	assert.Contains(t, out, "Page 4 of 2")
}

func TestSnapshotCommand_Text(t *testing.T) {
	isolateConfig(t)
	restoreMachineMode(t)
	srv := sensorServer(t, http.StatusOK, sampleReadings)

	var flags DashboardFlags
	cmd := dashboardCmd(t, &flags, "--endpoint", srv.URL)
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	err := snapshotCommand(cmd, &flags, SnapshotOptions{Page: 1})
	require.NoError(t, err)

	out := stripANSI(buf.String())
	assert.Contains(t, out, "230.00 cm")
	assert.Contains(t, out, "● On")
}

func TestSnapshotCommand_JSON(t *testing.T) {
	isolateConfig(t)
	restoreMachineMode(t)
	srv := sensorServer(t, http.StatusOK, sampleReadings)

	var flags DashboardFlags
	cmd := dashboardCmd(t, &flags, "--endpoint", srv.URL, "--threshold", "100")
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	err := snapshotCommand(cmd, &flags, SnapshotOptions{Page: 1, JSON: true})
	require.NoError(t, err)
	assert.True(t, MachineMode())

	var env struct {
		Success bool           `json:"success"`
		Data    SnapshotOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))

	assert.True(t, env.Success)
	assert.Equal(t, srv.URL, env.Data.Endpoint)
	assert.Equal(t, 100.0, env.Data.Threshold)
	assert.Equal(t, 2, env.Data.View.Summary.TotalRecords)
	assert.Equal(t, 2, env.Data.View.Summary.TotalAboveThreshold)
	assert.Len(t, env.Data.View.Rows, 2)
	assert.Equal(t, []float64{310, 150}, env.Data.View.Series.Values)

	// Statuses are written as text.
	assert.True(t, strings.Contains(buf.String(), `"status": "On"`))
}

func TestSnapshotCommand_FetchFailure(t *testing.T) {
	isolateConfig(t)
	restoreMachineMode(t)
	srv := sensorServer(t, http.StatusInternalServerError, `{"error":"down"}`)

	var flags DashboardFlags
	cmd := dashboardCmd(t, &flags, "--endpoint", srv.URL)
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	err := snapshotCommand(cmd, &flags, SnapshotOptions{Page: 1})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrFetch))
	assert.Empty(t, buf.String())
}

func TestSnapshotCommand_BadPage(t *testing.T) {
	restoreMachineMode(t)

	var flags DashboardFlags
	cmd := dashboardCmd(t, &flags)

	err := snapshotCommand(cmd, &flags, SnapshotOptions{Page: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--page must be at least 1")
}
