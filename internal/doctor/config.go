package doctor

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rileyhilliard/sensordash/internal/config"
	"github.com/rileyhilliard/sensordash/internal/errors"
)

// NewConfigChecks returns the CONFIG checks. dir is where --fix writes a new
// config file.
func NewConfigChecks(configPath, dir string) []Check {
	return []Check{
		&ConfigFileCheck{ConfigPath: configPath, Dir: dir},
		&ConfigSchemaCheck{ConfigPath: configPath},
	}
}

// ConfigFileCheck reports which config file is in use. Running on defaults
// is allowed, so a missing file is only a warning.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search
	Dir        string // Where Fix writes the default config
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return CategoryConfig }

func (c *ConfigFileCheck) Run(ctx context.Context) CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Error finding config: %s", errors.Summarize(err)),
			Suggestion: "Check the --config path or run 'sensordash init' to create a config",
		}
	}

	if path == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No config file found, using built-in defaults",
			Suggestion: "Run 'sensordash init' (or doctor --fix) to create " + config.ConfigFileName,
			Fixable:    true,
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Config file: %s", path),
	}
}

// Fix writes the default config when none exists.
func (c *ConfigFileCheck) Fix() error {
	if path, err := config.Find(c.ConfigPath); err != nil || path != "" {
		return nil
	}
	dir := c.Dir
	if dir == "" {
		dir = "."
	}
	return config.Save(filepath.Join(dir, config.ConfigFileName), config.DefaultConfig())
}

// ConfigSchemaCheck loads the effective config (file plus environment) and
// validates it.
type ConfigSchemaCheck struct {
	ConfigPath string
}

func (c *ConfigSchemaCheck) Name() string     { return "config_schema" }
func (c *ConfigSchemaCheck) Category() string { return CategoryConfig }

func (c *ConfigSchemaCheck) Run(ctx context.Context) CheckResult {
	cfg, path, err := config.LoadOrDefault(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Failed to load config: %s", errors.Summarize(err)),
			Suggestion: "Check the YAML syntax and SENSORDASH_* environment variables",
		}
	}

	if err := config.Validate(cfg); err != nil {
		where := "your " + config.ConfigFileName
		if path == "" {
			where = "your SENSORDASH_* environment variables"
		}
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Schema error: %s", errors.Summarize(err)),
			Suggestion: "Fix the configuration errors in " + where,
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Schema valid (endpoint %s, every %s)", cfg.Endpoint, cfg.Interval),
	}
}

func (c *ConfigSchemaCheck) Fix() error {
	return nil // Schema issues require manual intervention
}
