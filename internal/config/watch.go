package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/rileyhilliard/sensordash/internal/errors"
)

// Watch re-reads the config file at path whenever it is written and hands
// the result to onChange. Edits that fail to parse or validate go to
// onError and the previous settings stay in effect. Watching lasts for the
// life of the process.
func Watch(path string, onChange func(*Config), onError func(error)) error {
	if path == "" {
		return errors.New(errors.ErrConfig,
			"No config file to watch",
			"Create one with 'sensordash init' to enable live reload")
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := parseConfig(v, path)
		if err == nil {
			err = Validate(cfg)
		}
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// Reloadable are the settings the running dashboard picks up without a
// restart.
type Reloadable struct {
	Threshold float64
	PageSize  int
	ClampPage bool
}

// ReloadableOf extracts the live-reloadable settings from cfg.
func ReloadableOf(cfg *Config) Reloadable {
	return Reloadable{
		Threshold: cfg.Threshold,
		PageSize:  cfg.PageSize,
		ClampPage: cfg.ClampPage,
	}
}

// RestartRequired lists keys that differ between old and cur but only take
// effect after a restart.
func RestartRequired(old, cur *Config) []string {
	var keys []string
	if old.Endpoint != cur.Endpoint {
		keys = append(keys, "endpoint")
	}
	if old.Interval != cur.Interval {
		keys = append(keys, "interval")
	}
	if old.Timeout != cur.Timeout {
		keys = append(keys, "timeout")
	}
	if old.Ordering != cur.Ordering {
		keys = append(keys, "ordering")
	}
	if old.Metrics.Addr != cur.Metrics.Addr {
		keys = append(keys, "metrics.addr")
	}
	return keys
}
