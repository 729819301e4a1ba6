package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/sensordash/internal/config"
	"github.com/rileyhilliard/sensordash/internal/errors"
	"github.com/rileyhilliard/sensordash/internal/sensor"
	"github.com/rileyhilliard/sensordash/internal/ui"
	"golang.org/x/term"
)

// checkTimeout bounds the endpoint check during init.
const checkTimeout = 10 * time.Second

// InitOptions holds options for the init command.
type InitOptions struct {
	Endpoint       string    // Pre-specified endpoint URL
	Dir            string    // Directory to write into (default: current)
	Overwrite      bool      // Overwrite existing config without asking
	NonInteractive bool      // Skip prompts, use defaults
	SkipCheck      bool      // Don't test the endpoint before saving
	Out            io.Writer // Where progress is printed (default: stdout)
}

// initDefaults are values picked up from the environment before prompting.
type initDefaults struct {
	Endpoint       string
	NonInteractive bool
}

// getInitDefaults reads SENSORDASH_ENDPOINT and the non-interactive switches
// (SENSORDASH_NON_INTERACTIVE, CI).
func getInitDefaults() initDefaults {
	d := initDefaults{
		Endpoint: os.Getenv(config.EnvPrefix + "_ENDPOINT"),
	}
	if isTruthy(os.Getenv(config.EnvPrefix+"_NON_INTERACTIVE")) || isTruthy(os.Getenv("CI")) {
		d.NonInteractive = true
	}
	return d
}

func isTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Init creates a new .sensordash.yaml configuration file.
func Init(opts InitOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	configPath := filepath.Join(dir, config.ConfigFileName)

	// Check for existing config
	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if opts.Endpoint != "" {
		cfg.Endpoint = opts.Endpoint
	}

	if !opts.NonInteractive {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	if !opts.SkipCheck {
		if err := checkEndpoint(cfg.Endpoint, opts.NonInteractive, out); err != nil {
			return err
		}
	}

	if err := config.Save(configPath, cfg); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s Created %s\n\n", ui.SymbolSuccess, configPath)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  sensordash            - Open the live dashboard")
	fmt.Fprintln(out, "  sensordash snapshot   - Print one report and exit")

	return nil
}

// promptConfig asks for the common settings, prefilled from cfg.
func promptConfig(cfg *config.Config) error {
	endpoint := cfg.Endpoint
	interval := cfg.Interval.String()
	threshold := strconv.FormatFloat(cfg.Threshold, 'f', -1, 64)
	pageSize := strconv.Itoa(cfg.PageSize)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Sensor endpoint").
				Description("URL returning a JSON array of {id, value, timestamp} readings").
				Placeholder(sensor.DefaultEndpoint).
				Value(&endpoint).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("endpoint is required")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Refresh interval").
				Description("How often to fetch new readings").
				Placeholder("15s").
				Value(&interval).
				Validate(validateInterval),
			huh.NewInput().
				Title("Threshold (cm)").
				Description("Readings at or above this turn the LED On").
				Placeholder("300").
				Value(&threshold).
				Validate(validateThreshold),
			huh.NewInput().
				Title("Rows per page").
				Placeholder("15").
				Value(&pageSize).
				Validate(validatePageSize),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility or set SENSORDASH_NON_INTERACTIVE=1")
	}

	// The validators already accepted these values.
	cfg.Endpoint = strings.TrimSpace(endpoint)
	cfg.Interval, _ = time.ParseDuration(strings.TrimSpace(interval))
	cfg.Threshold, _ = strconv.ParseFloat(strings.TrimSpace(threshold), 64)
	cfg.PageSize, _ = strconv.Atoi(strings.TrimSpace(pageSize))
	return nil
}

func validateInterval(s string) error {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("use a duration like 15s or 1m")
	}
	if d <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	return nil
}

func validateThreshold(s string) error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
		return fmt.Errorf("threshold must be a number")
	}
	return nil
}

func validatePageSize(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fmt.Errorf("rows per page must be a whole number of at least 1")
	}
	return nil
}

// checkEndpoint fetches once so a typo shows up before the file is written.
// Interactive users may save anyway.
func checkEndpoint(endpoint string, nonInteractive bool, out io.Writer) error {
	fmt.Fprintln(out)
	spinner := ui.NewSpinner("Testing "+endpoint, out)
	spinner.Start()

	records, err := sensor.FetchOnce(context.Background(), sensor.NewClient(endpoint), checkTimeout)
	if err == nil {
		spinner.Success()
		fmt.Fprintf(out, "  %d readings available\n\n", len(records))
		return nil
	}
	spinner.Fail()

	failed := errors.WrapWithCode(err, errors.ErrFetch,
		fmt.Sprintf("Couldn't fetch readings from %s", endpoint),
		"Check the URL, or rerun with --no-check to save it anyway")

	if nonInteractive {
		return failed
	}

	fmt.Fprintf(out, "\n%s %s\n\n", ui.SymbolFail, errors.Summarize(err))

	var saveAnyway bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save config anyway? (You can fix the endpoint later)").
				Value(&saveAnyway),
		),
	)
	if formErr := form.Run(); formErr != nil || !saveAnyway {
		return failed
	}
	return nil
}

// initCommand is the implementation called by the cobra command.
func initCommand(endpointFlag string, force, noCheck bool) error {
	defaults := getInitDefaults()

	endpoint := endpointFlag
	if endpoint == "" {
		endpoint = defaults.Endpoint
	}

	return Init(InitOptions{
		Endpoint:       endpoint,
		Overwrite:      force,
		NonInteractive: defaults.NonInteractive || !term.IsTerminal(int(os.Stdin.Fd())),
		SkipCheck:      noCheck,
	})
}
