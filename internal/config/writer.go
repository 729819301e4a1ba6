package config

import (
	"fmt"
	"os"

	"github.com/rileyhilliard/sensordash/internal/errors"
	"gopkg.in/yaml.v3"
)

// fileHeader is written above generated config files.
const fileHeader = `# sensordash configuration
# Run 'sensordash' to open the live dashboard, or 'sensordash snapshot' for a one-off report.
# Every key is optional; environment variables like SENSORDASH_ENDPOINT override it.

`

// fileConfig is the on-disk shape. Durations are written as strings so the
// file reads "15s" rather than nanoseconds.
type fileConfig struct {
	Version   int           `yaml:"version"`
	Endpoint  string        `yaml:"endpoint"`
	Interval  string        `yaml:"interval"`
	Timeout   string        `yaml:"timeout"`
	Ordering  string        `yaml:"ordering"`
	Threshold float64       `yaml:"threshold"`
	PageSize  int           `yaml:"page_size"`
	ClampPage bool          `yaml:"clamp_page"`
	LogFile   string        `yaml:"log_file,omitempty"`
	Metrics   MetricsConfig `yaml:"metrics,omitempty"`
	Output    OutputConfig  `yaml:"output"`
}

// Marshal renders cfg as YAML with the standard header.
func Marshal(cfg *Config) ([]byte, error) {
	fc := fileConfig{
		Version:   cfg.Version,
		Endpoint:  cfg.Endpoint,
		Interval:  cfg.Interval.String(),
		Timeout:   cfg.Timeout.String(),
		Ordering:  cfg.Ordering,
		Threshold: cfg.Threshold,
		PageSize:  cfg.PageSize,
		ClampPage: cfg.ClampPage,
		LogFile:   cfg.LogFile,
		Metrics:   cfg.Metrics,
		Output:    cfg.Output,
	}

	data, err := yaml.Marshal(fc)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to generate config",
			"This shouldn't happen - please report this bug")
	}
	return append([]byte(fileHeader), data...), nil
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", path),
			"Check directory permissions")
	}
	return nil
}
