package dashboard

import "github.com/rileyhilliard/sensordash/internal/sensor"

// State is the input to Derive.
type State struct {
	Records   []sensor.Record
	Page      int
	PageSize  int
	Threshold float64
}

// Row is one visible table row.
type Row struct {
	Record sensor.Record `json:"record"`
	Status LEDStatus     `json:"status"`
}

// View is everything a renderer needs for one frame.
type View struct {
	Summary     Summary     `json:"summary"`
	Rows        []Row       `json:"rows"`
	Page        int         `json:"page"`
	TotalPages  int         `json:"total_pages"`
	CanPrevious bool        `json:"can_previous"`
	CanNext     bool        `json:"can_next"`
	Series      ChartSeries `json:"series"`
}

// Derive computes the view for the given state.
func Derive(s State) View {
	size := s.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	total := TotalPages(len(s.Records), size)
	slice := PageSlice(s.Records, s.Page, size)

	rows := make([]Row, len(slice))
	for i, r := range slice {
		rows[i] = Row{Record: r, Status: Status(r.Value, s.Threshold)}
	}

	return View{
		Summary:     Summarize(s.Records, s.Threshold),
		Rows:        rows,
		Page:        s.Page,
		TotalPages:  total,
		CanPrevious: CanPrevious(s.Page),
		CanNext:     CanNext(s.Page, total),
		Series:      Series(s.Records),
	}
}
