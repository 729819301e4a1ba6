package sensor

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_UnmarshalJSON(t *testing.T) {
	body := `[
		{"id": 1, "value": 310, "timestamp": "2024-05-01T10:00:00Z"},
		{"id": "abc-2", "value": 150.5, "timestamp": 1714557600000},
		{"id": 3, "value": -4, "timestamp": "not a date"}
	]`

	var records []Record
	require.NoError(t, json.Unmarshal([]byte(body), &records))
	require.Len(t, records, 3)

	assert.Equal(t, ID("1"), records[0].ID)
	assert.Equal(t, 310.0, records[0].Value)
	assert.True(t, records[0].Timestamp.Valid)
	assert.True(t, records[0].Timestamp.Time.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))

	assert.Equal(t, ID("abc-2"), records[1].ID)
	assert.Equal(t, 150.5, records[1].Value)
	assert.True(t, records[1].Timestamp.Valid)
	assert.Equal(t, int64(1714557600000), records[1].Timestamp.Time.UnixMilli())

	assert.Equal(t, -4.0, records[2].Value)
	assert.False(t, records[2].Timestamp.Valid)
	assert.Equal(t, InvalidDate, records[2].Timestamp.Display())
}

func TestRecord_NonNumericValueFails(t *testing.T) {
	var records []Record
	err := json.Unmarshal([]byte(`[{"id":1,"value":"tall","timestamp":"2024-05-01"}]`), &records)
	assert.Error(t, err)
}

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input string
		want  ID
	}{
		{`42`, "42"},
		{`"42"`, "42"},
		{`4.5`, "4.5"},
		{`"uuid-like"`, "uuid-like"},
		{`null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var id ID
			require.NoError(t, json.Unmarshal([]byte(tt.input), &id))
			assert.Equal(t, tt.want, id)
		})
	}

	var id ID
	assert.Error(t, json.Unmarshal([]byte(`{"nested":true}`), &id))
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"rfc3339", "2024-05-01T10:00:00Z", true},
		{"rfc3339 with offset", "2024-05-01T10:00:00-03:00", true},
		{"fractional seconds", "2024-05-01T10:00:00.123Z", true},
		{"no zone", "2024-05-01T10:00:00", true},
		{"space separated", "2024-05-01 10:00:00", true},
		{"date only", "2024-05-01", true},
		{"epoch millis string", "1714557600000", true},
		{"garbage", "yesterday-ish", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := ParseTimestamp(tt.input)
			assert.Equal(t, tt.valid, ts.Valid)
			assert.Equal(t, tt.input, ts.Raw)
		})
	}
}

func TestParseTimestamp_DateOnlyIsUTC(t *testing.T) {
	ts := ParseTimestamp("2024-05-01")
	require.True(t, ts.Valid)
	assert.Equal(t, time.UTC, ts.Time.Location())
	assert.Equal(t, int64(1714521600000), ts.Time.UnixMilli())

	// Date-times without a zone stay local.
	local := ParseTimestamp("2024-05-01T10:00:00")
	assert.Equal(t, time.Local, local.Time.Location())
}

func TestTimestamp_EpochOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"typical", `1714557600000`, true},
		{"upper bound", `8640000000000000`, true},
		{"lower bound", `-8640000000000000`, true},
		{"past upper bound", `8640000000000001`, false},
		{"huge", `1e20`, false},
		{"huge negative", `-1e20`, false},
		{"huge string", `"100000000000000000"`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ts))
			assert.Equal(t, tt.valid, ts.Valid)
			if !tt.valid {
				assert.Equal(t, InvalidDate, ts.Display())
				assert.NotEmpty(t, ts.Raw)
			}
		})
	}
}

func TestTimestamp_Display(t *testing.T) {
	ts := NewTimestamp(time.Date(2024, 5, 1, 10, 30, 15, 0, time.Local))
	assert.Equal(t, "2024-05-01 10:30:15", ts.Display())

	assert.Equal(t, InvalidDate, Timestamp{Raw: "??"}.Display())
}

func TestTimestamp_MarshalJSON(t *testing.T) {
	ts := NewTimestamp(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	out, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-05-01T10:00:00Z"`, string(out))

	out, err = json.Marshal(Timestamp{Raw: "garbage"})
	require.NoError(t, err)
	assert.Equal(t, `"garbage"`, string(out))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "310", FormatValue(310))
	assert.Equal(t, "150.5", FormatValue(150.5))
	assert.Equal(t, "-4", FormatValue(-4))
	assert.Equal(t, "300.0001", FormatValue(300.0001))
}
