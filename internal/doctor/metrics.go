package doctor

import (
	"context"
	"fmt"
	"net"
)

// MetricsAddrCheck verifies the metrics listener address can be bound.
type MetricsAddrCheck struct {
	Addr string
}

func (c *MetricsAddrCheck) Name() string     { return "metrics_addr" }
func (c *MetricsAddrCheck) Category() string { return CategoryMetrics }

func (c *MetricsAddrCheck) Run(ctx context.Context) CheckResult {
	if c.Addr == "" {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "Metrics server disabled",
		}
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", c.Addr)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Can't listen on %s: %v", c.Addr, err),
			Suggestion: "Pick a free port for metrics.addr, or leave it empty to disable metrics",
		}
	}
	_ = ln.Close()

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s is free for /metrics and /healthz", c.Addr),
	}
}

func (c *MetricsAddrCheck) Fix() error { return nil }
