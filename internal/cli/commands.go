package cli

import (
	"os"

	"github.com/rileyhilliard/sensordash/internal/errors"
	"github.com/spf13/cobra"
)

// Command-specific flags
var (
	monitorFlags  DashboardFlags
	snapshotFlags DashboardFlags
	snapshotPage  int
	snapshotJSON  bool
	initEndpoint  string
	initForce     bool
	initSkipCheck bool
)

// monitorCmd starts the live dashboard
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live sensor dashboard",
	Long: `Poll the sensor endpoint and show the readings as a live dashboard.

The first fetch happens immediately, then every interval (15s by default).
A failed fetch keeps the last good readings on screen and shows the error.

When stdout isn't a terminal, one summary line is printed per fetch instead.

Keyboard shortcuts:
  left/h/p    Previous page
  right/l/n   Next page
  r           Refresh now
  m           Toggle metrics
  c           Toggle chart
  ?           Show help
  q / Ctrl+C  Quit

Examples:
  sensordash monitor
  sensordash monitor --interval 5s --threshold 250
  sensordash monitor --metrics-addr :9090
  sensordash monitor | tee readings.log`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand(cmd, &monitorFlags)
	},
}

// snapshotCmd fetches once and prints the dashboard as text or JSON
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch once and print the dashboard",
	Long: `Fetch the readings once and print the metrics, a sparkline, one page of
the table and the navigation state. Exits non-zero if the fetch fails.

Examples:
  sensordash snapshot
  sensordash snapshot --page 2
  sensordash snapshot --json | jq .data.view.summary`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return snapshotCommand(cmd, &snapshotFlags, SnapshotOptions{
			Page: snapshotPage,
			JSON: snapshotJSON,
		})
	},
}

// initCmd creates a new .sensordash.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .sensordash.yaml configuration",
	Long: `Create a .sensordash.yaml file in the current directory.

Prompts for the endpoint, refresh interval, threshold and page size, then
checks the endpoint responds before saving. Set SENSORDASH_NON_INTERACTIVE=1
(or CI=true) to skip the prompts and use defaults.

Examples:
  sensordash init
  sensordash init --endpoint http://localhost:8080/data
  sensordash init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initEndpoint, initForce, initSkipCheck)
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for sensordash.

Examples:
  # Bash
  sensordash completion bash > /etc/bash_completion.d/sensordash

  # Zsh
  sensordash completion zsh > "${fpath[1]}/_sensordash"

  # Fish
  sensordash completion fish > ~/.config/fish/completions/sensordash.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeCompletion(rootCmd, args[0])
	},
}

func writeCompletion(root *cobra.Command, shell string) error {
	out := os.Stdout
	switch shell {
	case "bash":
		return root.GenBashCompletion(out)
	case "zsh":
		return root.GenZshCompletion(out)
	case "fish":
		return root.GenFishCompletion(out, true)
	case "powershell":
		return root.GenPowerShellCompletion(out)
	default:
		return errors.New(errors.ErrConfig,
			"Unknown shell: "+shell,
			"Supported shells: bash, zsh, fish, powershell")
	}
}

func init() {
	AddDashboardFlags(monitorCmd, &monitorFlags)

	AddDashboardFlags(snapshotCmd, &snapshotFlags)
	snapshotCmd.Flags().IntVar(&snapshotPage, "page", 1, "table page to print")
	snapshotCmd.Flags().BoolVar(&snapshotJSON, "json", false, "output as JSON")

	initCmd.Flags().StringVar(&initEndpoint, "endpoint", "", "pre-specify the sensor endpoint")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initSkipCheck, "no-check", false, "save without testing the endpoint")

	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
}
