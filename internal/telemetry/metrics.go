// Package telemetry exposes poller activity as Prometheus metrics and serves
// them, with a health check and a websocket feed of updates, over HTTP.
package telemetry

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names.
const (
	MetricFetchTotal    = "sensordash_fetch_total"
	MetricFetchDuration = "sensordash_fetch_duration_seconds"
	MetricDroppedTotal  = "sensordash_stale_results_dropped_total"
	MetricRecords       = "sensordash_records"
	MetricLastSuccess   = "sensordash_last_success_timestamp_seconds"
)

// Result label values for MetricFetchTotal.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics records fetch outcomes. It satisfies poller.Observer.
type Metrics struct {
	registry    *prometheus.Registry
	fetches     *prometheus.CounterVec
	duration    prometheus.Histogram
	dropped     prometheus.Counter
	records     prometheus.Gauge
	lastSuccess prometheus.Gauge

	mu        sync.RWMutex
	lastOK    time.Time
	lastCount int
}

// NewMetrics creates the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricFetchTotal,
			Help: "Sensor endpoint fetches by result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricFetchDuration,
			Help:    "Time taken by each sensor endpoint fetch.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricDroppedTotal,
			Help: "Fetch results discarded because a newer tick had already been applied.",
		}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricRecords,
			Help: "Records returned by the last successful fetch.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricLastSuccess,
			Help: "Unix time of the last successful fetch.",
		}),
	}

	m.registry.MustRegister(m.fetches, m.duration, m.dropped, m.records, m.lastSuccess)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// FetchSucceeded records a successful fetch.
func (m *Metrics) FetchSucceeded(records int, d time.Duration) {
	now := time.Now()
	m.fetches.WithLabelValues(ResultSuccess).Inc()
	m.duration.Observe(d.Seconds())
	m.records.Set(float64(records))
	m.lastSuccess.Set(float64(now.Unix()))

	m.mu.Lock()
	m.lastOK = now
	m.lastCount = records
	m.mu.Unlock()
}

// FetchFailed records a failed fetch.
func (m *Metrics) FetchFailed(d time.Duration) {
	m.fetches.WithLabelValues(ResultFailure).Inc()
	m.duration.Observe(d.Seconds())
}

// ResultDropped records a superseded result.
func (m *Metrics) ResultDropped() {
	m.dropped.Inc()
}

// LastSuccess returns when the last successful fetch finished and how many
// records it returned. The time is zero before the first success.
func (m *Metrics) LastSuccess() (time.Time, int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastOK, m.lastCount
}
