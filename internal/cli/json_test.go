package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/rileyhilliard/sensordash/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachineMode(t *testing.T) {
	oldMode := machineMode
	defer func() { machineMode = oldMode }()

	machineMode = false
	assert.False(t, MachineMode())

	machineMode = true
	assert.True(t, MachineMode())
}

func TestWriteJSONSuccess(t *testing.T) {
	var buf bytes.Buffer

	err := WriteJSONSuccess(&buf, map[string]int{"total_records": 2})
	require.NoError(t, err)

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))

	assert.True(t, env.Success)
	assert.Nil(t, env.Error)
	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), data["total_records"])
}

func TestWriteJSONFromError(t *testing.T) {
	var buf bytes.Buffer

	cause := fmt.Errorf("dial tcp: connection refused")
	err := WriteJSONFromError(&buf, errors.WrapWithCode(cause, errors.ErrFetch,
		"Couldn't reach the sensor endpoint", "Check the URL"))
	require.NoError(t, err)

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))

	assert.False(t, env.Success)
	assert.Nil(t, env.Data)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeFetchFailed, env.Error.Code)
	assert.Equal(t, "Couldn't reach the sensor endpoint", env.Error.Message)
	assert.Equal(t, "Check the URL", env.Error.Suggestion)
	assert.Equal(t, "dial tcp: connection refused", env.Error.Cause)
}

func TestErrorToJSON(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "config not found",
			err:      errors.New(errors.ErrConfig, "Config file not found", ""),
			wantCode: ErrCodeConfigNotFound,
		},
		{
			name:     "config invalid",
			err:      errors.New(errors.ErrConfig, "page_size must be at least 1, got 0", ""),
			wantCode: ErrCodeConfigInvalid,
		},
		{
			name:     "fetch",
			err:      errors.New(errors.ErrFetch, "Sensor endpoint returned 500", ""),
			wantCode: ErrCodeFetchFailed,
		},
		{
			name:     "render",
			err:      errors.New(errors.ErrRender, "The dashboard stopped unexpectedly", ""),
			wantCode: ErrCodeRenderFailed,
		},
		{
			name:     "wrapped structured error",
			err:      fmt.Errorf("snapshot: %w", errors.New(errors.ErrFetch, "boom", "")),
			wantCode: ErrCodeFetchFailed,
		},
		{
			name:     "plain error",
			err:      fmt.Errorf("something else"),
			wantCode: ErrCodeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ErrorToJSON(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}

	assert.Nil(t, ErrorToJSON(nil))
}
