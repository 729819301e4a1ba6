package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/sensordash/internal/config"
	"github.com/rileyhilliard/sensordash/internal/logger"
	"github.com/rileyhilliard/sensordash/internal/ui"
	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile     string
	verboseFlag bool
	noColorFlag bool
	logFileFlag string
)

// rootFlags backs the dashboard flags on the bare root command.
var rootFlags DashboardFlags

// rootCmd opens the dashboard when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "sensordash",
	Short: "Live terminal dashboard for a polled height sensor",
	Long: `sensordash polls a sensor endpoint for readings and shows them as a live
dashboard: summary metrics, a chart, an On/Off indicator per reading and a
paginated table.

Running sensordash with no subcommand is the same as 'sensordash monitor'.

Examples:
  sensordash
  sensordash --endpoint http://localhost:8080/data --interval 5s
  sensordash snapshot --json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetVerbose(verboseFlag)
		if noColorFlag || os.Getenv("NO_COLOR") != "" {
			ui.DisableColors()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand(cmd, &rootFlags)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .sensordash.yaml, searched upwards)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "write diagnostics to this file while the dashboard is open (default: sensordash.log in the user cache dir)")

	AddDashboardFlags(rootCmd, &rootFlags)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if MachineMode() {
			_ = WriteJSONFromError(os.Stdout, err)
			os.Exit(1)
		}

		if isUnknownCommandError(err) {
			fmt.Fprintf(os.Stderr, "%s %s\n", ui.SymbolFail, err)
			if name := extractUnknownCommand(err); name != "" {
				fmt.Fprintf(os.Stderr, "\n  '%s' isn't a sensordash command. Run 'sensordash --help' to see what is.\n", name)
			}
			os.Exit(1)
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig finds the config, applies flag overrides and validates the result.
func loadConfig(cmd *cobra.Command, flags *DashboardFlags) (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, "", err
	}

	if flags != nil {
		if err := flags.Apply(cmd, cfg); err != nil {
			return nil, "", err
		}
	}
	if logFileFlag != "" {
		cfg.LogFile = logFileFlag
	}

	if err := config.Validate(cfg); err != nil {
		return nil, "", err
	}

	applyColorMode(cfg.Output.Color)
	return cfg, path, nil
}

// applyColorMode honors output.color. --no-color and NO_COLOR win over it.
func applyColorMode(mode string) {
	if noColorFlag || os.Getenv("NO_COLOR") != "" {
		return
	}
	switch mode {
	case config.ColorNever:
		ui.DisableColors()
	case config.ColorAlways:
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}

// isUnknownCommandError reports whether cobra rejected the command line.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// extractUnknownCommand pulls the quoted command name out of cobra's
// `unknown command "foo" for "sensordash"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start == -1 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end == -1 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
