package cli

import (
	"testing"
	"time"

	"github.com/rileyhilliard/sensordash/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDurationFlag(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "empty is zero", input: "", want: 0},
		{name: "seconds", input: "15s", want: 15 * time.Second},
		{name: "minutes", input: "2m", want: 2 * time.Minute},
		{name: "zero", input: "0", want: 0},
		{name: "garbage", input: "soon", wantErr: true},
		{name: "missing unit", input: "15", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDurationFlag("interval", tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "--interval")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDashboardFlags_ApplyOnlyChanged(t *testing.T) {
	var flags DashboardFlags
	cmd := dashboardCmd(t, &flags,
		"--endpoint", "http://localhost:9999/data",
		"--timeout", "3s",
		"--ordering", "Completion",
		"--threshold", "0",
		"--metrics-addr", ":9090",
	)

	cfg := config.DefaultConfig()
	cfg.Interval = time.Minute
	cfg.PageSize = 7

	require.NoError(t, flags.Apply(cmd, cfg))

	assert.Equal(t, "http://localhost:9999/data", cfg.Endpoint)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, config.OrderingCompletion, cfg.Ordering)
	assert.Equal(t, 0.0, cfg.Threshold, "an explicit zero still overrides")
	assert.Equal(t, ":9090", cfg.Metrics.Addr)

	assert.Equal(t, time.Minute, cfg.Interval)
	assert.Equal(t, 7, cfg.PageSize)
}

func TestDashboardFlags_ApplyBadDuration(t *testing.T) {
	var flags DashboardFlags
	cmd := dashboardCmd(t, &flags, "--interval", "fast")

	err := flags.Apply(cmd, config.DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'fast' doesn't look like a valid --interval")
}
