package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/rileyhilliard/sensordash/internal/config"
	"github.com/rileyhilliard/sensordash/internal/errors"
	"github.com/spf13/cobra"
)

// DashboardFlags holds the per-run overrides shared by monitor and snapshot.
// Only flags the user actually set are applied over the config file.
type DashboardFlags struct {
	Endpoint    string
	Interval    string
	Timeout     string
	Ordering    string
	Threshold   float64
	PageSize    int
	MetricsAddr string
}

// AddDashboardFlags registers the dashboard flags on a command.
func AddDashboardFlags(cmd *cobra.Command, flags *DashboardFlags) {
	cmd.Flags().StringVar(&flags.Endpoint, "endpoint", "", "sensor data URL")
	cmd.Flags().StringVar(&flags.Interval, "interval", "", "refresh interval (e.g., 15s, 1m)")
	cmd.Flags().StringVar(&flags.Timeout, "timeout", "", "per-fetch timeout, 0 for none (e.g., 10s)")
	cmd.Flags().StringVar(&flags.Ordering, "ordering", "", "late result policy: latest or completion")
	cmd.Flags().Float64Var(&flags.Threshold, "threshold", 0, "height in cm at or above which the LED is On")
	cmd.Flags().IntVar(&flags.PageSize, "page-size", 0, "rows per table page")
	cmd.Flags().StringVar(&flags.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g., :9090)")
}

// Apply copies the flags the user set onto cfg.
func (f *DashboardFlags) Apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}

	if changed("endpoint") {
		cfg.Endpoint = f.Endpoint
	}
	if changed("interval") {
		d, err := ParseDurationFlag("interval", f.Interval)
		if err != nil {
			return err
		}
		cfg.Interval = d
	}
	if changed("timeout") {
		d, err := ParseDurationFlag("timeout", f.Timeout)
		if err != nil {
			return err
		}
		cfg.Timeout = d
	}
	if changed("ordering") {
		cfg.Ordering = strings.ToLower(strings.TrimSpace(f.Ordering))
	}
	if changed("threshold") {
		cfg.Threshold = f.Threshold
	}
	if changed("page-size") {
		cfg.PageSize = f.PageSize
	}
	if changed("metrics-addr") {
		cfg.Metrics.Addr = f.MetricsAddr
	}
	return nil
}

// ParseDurationFlag parses a duration flag value. Empty means zero.
func ParseDurationFlag(name, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid --%s", value, name),
			"Try something like 15s, 2m, or 500ms.")
	}
	return d, nil
}
