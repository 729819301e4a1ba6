package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rileyhilliard/sensordash/internal/dashboard"
	"github.com/rileyhilliard/sensordash/internal/sensor"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// DefaultInterval is the refresh period between scheduled fetches.
const DefaultInterval = 15 * time.Second

// Ordering values accepted by the poller.
const (
	OrderingLatest     = "latest"
	OrderingCompletion = "completion"
)

// Color modes for terminal output.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents the complete .sensordash.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Endpoint is the URL returning the JSON array of readings.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`

	// Interval between scheduled fetches.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// Timeout bounds a single fetch. Zero disables it.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Ordering is "latest" (drop superseded results) or "completion"
	// (apply results as they finish).
	Ordering string `yaml:"ordering" mapstructure:"ordering"`

	// Threshold in cm at or above which the LED is On.
	Threshold float64 `yaml:"threshold" mapstructure:"threshold"`

	// PageSize is the number of rows per table page.
	PageSize int `yaml:"page_size" mapstructure:"page_size"`

	// ClampPage pulls the current page back into range after a refresh
	// shrinks the record set.
	ClampPage bool `yaml:"clamp_page" mapstructure:"clamp_page"`

	// LogFile receives diagnostics while the dashboard owns the terminal.
	// Supports a leading ~.
	LogFile string `yaml:"log_file" mapstructure:"log_file"`

	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
}

// MetricsConfig controls the optional Prometheus endpoint.
type MetricsConfig struct {
	// Addr to listen on, e.g. ":9090". Empty disables the server.
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// OutputConfig controls terminal output.
type OutputConfig struct {
	// Color is auto, always or never.
	Color string `yaml:"color" mapstructure:"color"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:   CurrentConfigVersion,
		Endpoint:  sensor.DefaultEndpoint,
		Interval:  DefaultInterval,
		Timeout:   0,
		Ordering:  OrderingLatest,
		Threshold: dashboard.DefaultThreshold,
		PageSize:  dashboard.DefaultPageSize,
		ClampPage: false,
		Output: OutputConfig{
			Color: ColorAuto,
		},
	}
}

// LogFilePath returns LogFile with ~ expanded.
func (c *Config) LogFilePath() string {
	return ExpandTilde(c.LogFile)
}

// DefaultLogFile is where the dashboard logs when log_file is unset:
// sensordash/sensordash.log under the user cache directory, or the temp
// directory when there is none.
func DefaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		return filepath.Join(os.TempDir(), "sensordash.log")
	}
	return filepath.Join(dir, "sensordash", "sensordash.log")
}
