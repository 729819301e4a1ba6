package dashboard

import "github.com/rileyhilliard/sensordash/internal/sensor"

// ChartSeries is the line series handed to chart renderers: one point per
// record, in source order, with no smoothing or resampling.
type ChartSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Len returns the number of points.
func (s ChartSeries) Len() int {
	return len(s.Values)
}

// Series projects the whole record set onto the chart series.
func Series(records []sensor.Record) ChartSeries {
	s := ChartSeries{
		Labels: make([]string, len(records)),
		Values: make([]float64, len(records)),
	}
	for i, r := range records {
		s.Labels[i] = r.Timestamp.Display()
		s.Values[i] = r.Value
	}
	return s
}
