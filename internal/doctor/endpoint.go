package doctor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rileyhilliard/sensordash/internal/errors"
	"github.com/rileyhilliard/sensordash/internal/sensor"
)

// sharedFetch fetches from the endpoint once and shares the outcome between the
// ENDPOINT checks.
type sharedFetch struct {
	client  *sensor.Client
	timeout time.Duration

	once    sync.Once
	records []sensor.Record
	err     error
	elapsed time.Duration
}

func (p *sharedFetch) run(ctx context.Context) ([]sensor.Record, time.Duration, error) {
	p.once.Do(func() {
		start := time.Now()
		p.records, p.err = sensor.FetchOnce(ctx, p.client, p.timeout)
		p.elapsed = time.Since(start)
	})
	return p.records, p.elapsed, p.err
}

// NewEndpointChecks returns the ENDPOINT checks for one endpoint. A fetch
// slower than interval is reported as a warning.
func NewEndpointChecks(endpoint string, timeout, interval time.Duration) []Check {
	p := &sharedFetch{client: sensor.NewClient(endpoint), timeout: timeout}
	return []Check{
		&EndpointReachableCheck{Endpoint: endpoint, Interval: interval, fetch: p},
		&PayloadCheck{fetch: p},
	}
}

// EndpointReachableCheck fetches the readings and times the request.
type EndpointReachableCheck struct {
	Endpoint string
	Interval time.Duration
	fetch    *sharedFetch
}

func (c *EndpointReachableCheck) Name() string     { return "endpoint_reachable" }
func (c *EndpointReachableCheck) Category() string { return CategoryEndpoint }

func (c *EndpointReachableCheck) Run(ctx context.Context) CheckResult {
	_, elapsed, err := c.fetch.run(ctx)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s: %s", c.Endpoint, errors.Summarize(err)),
			Suggestion: "Check the endpoint URL and that the sensor service is up",
		}
	}

	took := elapsed.Round(time.Millisecond)
	if c.Interval > 0 && elapsed > c.Interval {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusWarn,
			Message: fmt.Sprintf("%s responded in %s, slower than the %s refresh interval", c.Endpoint, took, c.Interval),
			Suggestion: "Fetches will overlap; raise interval, or set timeout so slow fetches are abandoned.\n" +
				"With ordering: latest, superseded results are dropped.",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s responded in %s", c.Endpoint, took),
	}
}

func (c *EndpointReachableCheck) Fix() error { return nil }

// PayloadCheck inspects the decoded readings for rows that will display badly.
type PayloadCheck struct {
	fetch *sharedFetch
}

func (c *PayloadCheck) Name() string     { return "endpoint_payload" }
func (c *PayloadCheck) Category() string { return CategoryEndpoint }

func (c *PayloadCheck) Run(ctx context.Context) CheckResult {
	records, _, err := c.fetch.run(ctx)
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusFail,
			Message: "Cannot inspect readings: fetch failed",
		}
	}

	if len(records) == 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "Endpoint returned no readings",
			Suggestion: "The dashboard will show empty metrics until readings arrive",
		}
	}

	badTimes, missingIDs := 0, 0
	for _, r := range records {
		if !r.Timestamp.Valid {
			badTimes++
		}
		if r.ID == "" {
			missingIDs++
		}
	}

	if badTimes > 0 || missingIDs > 0 {
		msg := fmt.Sprintf("%d reading%s", len(records), pluralize(len(records)))
		if badTimes > 0 {
			msg += fmt.Sprintf(", %d with unparseable timestamps", badTimes)
		}
		if missingIDs > 0 {
			msg += fmt.Sprintf(", %d without an id", missingIDs)
		}
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    msg,
			Suggestion: fmt.Sprintf("Unparseable timestamps are shown as %q", sensor.InvalidDate),
		}
	}

	latest := records[len(records)-1]
	return CheckResult{
		Name:   c.Name(),
		Status: StatusPass,
		Message: fmt.Sprintf("%d reading%s, last %s cm at %s", len(records), pluralize(len(records)),
			sensor.FormatValue(latest.Value), latest.Timestamp.Display()),
	}
}

func (c *PayloadCheck) Fix() error { return nil }
