package dashboard

import (
	"strconv"

	"github.com/rileyhilliard/sensordash/internal/sensor"
)

// DefaultThreshold is the On/Off boundary in centimeters.
const DefaultThreshold = 300.0

// Summary aggregates the full record set (not just the visible page).
type Summary struct {
	TotalRecords             int     `json:"total_records"`
	TotalAboveThreshold      int     `json:"total_above_threshold"`
	AverageHeight            float64 `json:"average_height"`
	PercentageAboveThreshold float64 `json:"percentage_above_threshold"`
}

// Summarize computes the summary metrics. Empty input yields zeros rather
// than NaN.
func Summarize(records []sensor.Record, threshold float64) Summary {
	s := Summary{TotalRecords: len(records)}
	if s.TotalRecords == 0 {
		return s
	}

	var sum float64
	for _, r := range records {
		sum += r.Value
		if r.Value >= threshold {
			s.TotalAboveThreshold++
		}
	}

	s.AverageHeight = sum / float64(s.TotalRecords)
	s.PercentageAboveThreshold = 100 * float64(s.TotalAboveThreshold) / float64(s.TotalRecords)
	return s
}

// FormatFixed2 renders v with exactly two decimals.
func FormatFixed2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
