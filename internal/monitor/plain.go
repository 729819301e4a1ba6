package monitor

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rileyhilliard/sensordash/internal/dashboard"
	"github.com/rileyhilliard/sensordash/internal/errors"
	"github.com/rileyhilliard/sensordash/internal/poller"
	"github.com/rileyhilliard/sensordash/internal/sensor"
)

// PlainOptions configures RunPlain.
type PlainOptions struct {
	Threshold float64
	PageSize  int
	// Settings, when set, is read before every line so reloaded
	// settings take effect without a restart.
	Settings func() SettingsMsg
}

func (o PlainOptions) current() PlainOptions {
	if o.Settings == nil {
		return o
	}
	s := o.Settings()
	o.Threshold = s.Threshold
	if s.PageSize > 0 {
		o.PageSize = s.PageSize
	}
	return o
}

// RunPlain is the non-interactive dashboard: it writes one line per result
// until ctx is cancelled or the results channel closes. Failed fetches are
// reported but keep the previous records, as in the TUI.
func RunPlain(ctx context.Context, results <-chan poller.Result, w io.Writer, opts PlainOptions) error {
	var records []sensor.Record
	loaded := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case r, ok := <-results:
			if !ok {
				return nil
			}

			if r.Err != nil {
				line := fmt.Sprintf("%s tick=%d error=%q", r.Finished.Format(time.RFC3339), r.Tick, errors.Summarize(r.Err))
				if loaded {
					line += fmt.Sprintf(" kept=%d", len(records))
				}
				if _, err := fmt.Fprintln(w, line); err != nil {
					return err
				}
				continue
			}

			records = r.Records
			loaded = true
			if _, err := fmt.Fprintln(w, PlainLine(r, records, opts.current())); err != nil {
				return err
			}
		}
	}
}

// PlainLine formats one successful result as a single summary line.
func PlainLine(r poller.Result, records []sensor.Record, opts PlainOptions) string {
	v := dashboard.Derive(dashboard.State{
		Records:   records,
		Page:      1,
		PageSize:  opts.PageSize,
		Threshold: opts.Threshold,
	})
	s := v.Summary

	latest := "-"
	if n := len(records); n > 0 {
		last := records[n-1]
		latest = fmt.Sprintf("%s@%s(%s)", sensor.FormatValue(last.Value), last.Timestamp.Display(), dashboard.Status(last.Value, opts.Threshold))
	}

	return fmt.Sprintf("%s tick=%d records=%d above=%d avg=%s pct=%s pages=%d latest=%s",
		r.Finished.Format(time.RFC3339),
		r.Tick,
		s.TotalRecords,
		s.TotalAboveThreshold,
		dashboard.FormatFixed2(s.AverageHeight),
		dashboard.FormatFixed2(s.PercentageAboveThreshold),
		v.TotalPages,
		latest,
	)
}
