package config

import (
	"fmt"
	"math"
	"net"
	"net/url"

	"github.com/rileyhilliard/sensordash/internal/errors"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but sensordash only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade sensordash or lower the version field")
	}

	if err := validateEndpoint(cfg.Endpoint); err != nil {
		return err
	}

	if cfg.Interval <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("interval must be positive, got %s", cfg.Interval),
			"Use a duration like 15s or 1m")
	}

	if cfg.Timeout < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("timeout can't be negative, got %s", cfg.Timeout),
			"Use 0 to disable the timeout, or a duration like 10s")
	}

	switch cfg.Ordering {
	case OrderingLatest, OrderingCompletion:
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown ordering %q", cfg.Ordering),
			"Use 'latest' to drop superseded results or 'completion' to apply them as they finish")
	}

	if math.IsNaN(cfg.Threshold) || math.IsInf(cfg.Threshold, 0) {
		return errors.New(errors.ErrConfig,
			"threshold must be a finite number",
			"Set threshold to a height in cm, e.g. 300")
	}

	if cfg.PageSize < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("page_size must be at least 1, got %d", cfg.PageSize),
			"The default is 15 rows per page")
	}

	if cfg.Metrics.Addr != "" {
		if _, _, err := net.SplitHostPort(cfg.Metrics.Addr); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Invalid metrics address %q", cfg.Metrics.Addr),
				"Use host:port or :port, e.g. :9090")
		}
	}

	switch cfg.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown output.color %q", cfg.Output.Color),
			"Use auto, always or never")
	}

	return nil
}

func validateEndpoint(endpoint string) error {
	if endpoint == "" {
		return errors.New(errors.ErrConfig,
			"No sensor endpoint configured",
			"Set endpoint in .sensordash.yaml or pass --endpoint")
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid endpoint %q", endpoint),
			"Use a full URL like https://example.com/data")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Endpoint %q must use http or https", endpoint),
			"Use a full URL like https://example.com/data")
	}
	if u.Host == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Endpoint %q has no host", endpoint),
			"Use a full URL like https://example.com/data")
	}
	return nil
}
