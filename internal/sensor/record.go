// Package sensor holds the reading data model and the HTTP client that
// fetches the full record set from the remote sensor endpoint.
package sensor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// InvalidDate is shown for timestamps that could not be parsed.
const InvalidDate = "Invalid Date"

// DisplayLayout is the layout used for human-readable timestamps.
const DisplayLayout = "2006-01-02 15:04:05"

// Record is one sensor reading.
type Record struct {
	ID        ID        `json:"id"`
	Value     float64   `json:"value"`
	Timestamp Timestamp `json:"timestamp"`
}

// ID is an opaque record identifier. The endpoint may send numbers or
// strings; both are kept in their textual form.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: expected string or number, got %s", data)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes the id back as a JSON string.
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// String returns the identifier text.
func (id ID) String() string {
	return string(id)
}

// timestampLayouts are tried in order for string timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	dateOnlyLayout,
}

// Date-only strings name a UTC day; everything else without a zone is local.
const dateOnlyLayout = "2006-01-02"

// maxEpochMillis bounds numeric timestamps to ±100,000,000 days around the
// epoch. Anything outside is kept as an invalid date.
const maxEpochMillis = 8.64e15

// Timestamp is the instant a reading was taken. Unparseable input is kept
// as Raw with Valid=false so one bad row does not fail the whole fetch.
type Timestamp struct {
	Time  time.Time
	Raw   string
	Valid bool
}

// NewTimestamp returns a valid Timestamp for t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t, Raw: t.Format(time.RFC3339Nano), Valid: true}
}

// UnmarshalJSON accepts a date/time string or a number of epoch milliseconds.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*ts = Timestamp{}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*ts = ParseTimestamp(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("timestamp: expected string or number, got %s", data)
	}
	ms, err := n.Float64()
	if err != nil {
		ts.Raw = n.String()
		return nil
	}
	*ts = fromEpochMillis(ms, n.String())
	return nil
}

func fromEpochMillis(ms float64, raw string) Timestamp {
	if math.IsNaN(ms) || math.Abs(ms) > maxEpochMillis {
		return Timestamp{Raw: raw}
	}
	return Timestamp{Time: time.UnixMilli(int64(ms)), Raw: raw, Valid: true}
}

// MarshalJSON writes valid timestamps as RFC 3339 and invalid ones as their raw text.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.Valid {
		return json.Marshal(ts.Time.Format(time.RFC3339Nano))
	}
	return json.Marshal(ts.Raw)
}

// ParseTimestamp parses a date/time string. Date-only strings are read as
// UTC midnight; other strings without a zone are read in local time.
func ParseTimestamp(s string) Timestamp {
	trimmed := strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		loc := time.Local
		if layout == dateOnlyLayout {
			loc = time.UTC
		}
		if t, err := time.ParseInLocation(layout, trimmed, loc); err == nil {
			return Timestamp{Time: t, Raw: s, Valid: true}
		}
	}
	// Numeric strings are epoch milliseconds.
	if ms, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return fromEpochMillis(float64(ms), s)
	}
	return Timestamp{Raw: s}
}

// Display renders the timestamp in local time, or InvalidDate.
func (ts Timestamp) Display() string {
	if !ts.Valid {
		return InvalidDate
	}
	return ts.Time.Local().Format(DisplayLayout)
}

// FormatValue renders a reading value with the shortest exact representation.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
