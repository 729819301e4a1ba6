package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/sensordash/internal/config"
	"github.com/rileyhilliard/sensordash/internal/doctor"
	"github.com/rileyhilliard/sensordash/internal/ui"
	"github.com/spf13/cobra"
)

var (
	doctorJSON bool
	doctorFix  bool
)

// doctorCmd diagnoses config and endpoint problems
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose config and endpoint issues",
	Long: `Run diagnostic checks to find common problems.

Checks:
  - Config file discovery and validity
  - Endpoint reachability and response time
  - Reading payload (ids, timestamps)
  - Metrics listen address

Examples:
  sensordash doctor
  sensordash doctor --fix
  sensordash doctor --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if doctorJSON {
			machineMode = true
		}
		return doctorCommand(cmd.Context(), cmd.OutOrStdout(), doctorJSON, doctorFix)
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "attempt automatic fixes where possible")
	rootCmd.AddCommand(doctorCmd)
}

// DoctorOutput represents the JSON output for doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput represents a category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	Fixable  int  `json:"fixable"`
	AllClear bool `json:"all_clear"`
}

// doctorCommand implements the doctor command logic.
func doctorCommand(ctx context.Context, out io.Writer, asJSON, fix bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	checks := collectChecks(cfgFile)
	results := doctor.RunAll(ctx, checks)

	if fix {
		results = attemptFixes(ctx, checks, results)
	}

	if asJSON {
		return WriteJSONSuccess(out, buildDoctorOutput(checks, results))
	}
	renderDoctorText(out, checks, results, fix)
	return nil
}

// collectChecks gathers the checks. Endpoint and metrics checks need a
// loadable config; when it isn't, the CONFIG checks explain why.
func collectChecks(cfgPath string) []doctor.Check {
	checks := doctor.NewConfigChecks(cfgPath, ".")

	cfg, _, err := config.LoadOrDefault(cfgPath)
	if err != nil || config.Validate(cfg) != nil {
		return checks
	}

	checks = append(checks, doctor.NewEndpointChecks(cfg.Endpoint, checkTimeoutFor(cfg), cfg.Interval)...)
	checks = append(checks, &doctor.MetricsAddrCheck{Addr: cfg.Metrics.Addr})
	return checks
}

// checkTimeoutFor uses the configured fetch timeout, capped at checkTimeout.
func checkTimeoutFor(cfg *config.Config) time.Duration {
	if cfg.Timeout > 0 && cfg.Timeout < checkTimeout {
		return cfg.Timeout
	}
	return checkTimeout
}

// attemptFixes tries to fix issues where possible.
func attemptFixes(ctx context.Context, checks []doctor.Check, results []doctor.CheckResult) []doctor.CheckResult {
	for i, result := range results {
		if result.Fixable && (result.Status == doctor.StatusFail || result.Status == doctor.StatusWarn) {
			if err := checks[i].Fix(); err == nil {
				// Re-run the check to see if it's fixed
				results[i] = checks[i].Run(ctx)
			}
		}
	}
	return results
}

func buildDoctorOutput(checks []doctor.Check, results []doctor.CheckResult) DoctorOutput {
	grouped := doctor.GroupByCategory(checks)

	output := DoctorOutput{Categories: []CategoryOutput{}}
	for _, cat := range doctor.CategoryOrder {
		indices := grouped[cat]
		if len(indices) == 0 {
			continue
		}
		co := CategoryOutput{Name: cat}
		for _, idx := range indices {
			co.Results = append(co.Results, results[idx])
		}
		output.Categories = append(output.Categories, co)
	}

	counts := doctor.CountByStatus(results)
	output.Summary = SummaryOutput{
		Pass:     counts[doctor.StatusPass],
		Warn:     counts[doctor.StatusWarn],
		Fail:     counts[doctor.StatusFail],
		Fixable:  doctor.FixableCount(results),
		AllClear: !doctor.HasIssues(results),
	}
	return output
}

// renderDoctorText writes the human-readable report.
func renderDoctorText(out io.Writer, checks []doctor.Check, results []doctor.CheckResult, fixed bool) {
	headerStyle := lipgloss.NewStyle().Bold(true)

	fmt.Fprintln(out)
	fmt.Fprintln(out, headerStyle.Render("sensordash Diagnostic Report"))
	fmt.Fprintln(out)

	grouped := doctor.GroupByCategory(checks)
	for _, category := range doctor.CategoryOrder {
		indices := grouped[category]
		if len(indices) == 0 {
			continue
		}

		fmt.Fprintln(out, headerStyle.Render(category))
		for _, idx := range indices {
			renderCheckResult(out, results[idx])
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, strings.Repeat("━", 60))
	fmt.Fprintln(out)

	if !doctor.HasIssues(results) {
		fmt.Fprintf(out, "%s %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), doctor.Summary(results))
	} else {
		fmt.Fprintf(out, "%s %s\n", ui.ErrorStyle().Render(ui.SymbolFail), doctor.Summary(results))

		if doctor.FixableCount(results) > 0 && !fixed {
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  Run with %s to attempt automatic fixes where possible.\n",
				ui.MutedStyle().Render("--fix"))
		}
	}
	fmt.Fprintln(out)
}

// renderCheckResult renders a single check result.
func renderCheckResult(out io.Writer, result doctor.CheckResult) {
	var symbol string
	var style lipgloss.Style

	switch result.Status {
	case doctor.StatusPass:
		symbol = ui.SymbolComplete
		style = ui.SuccessStyle()
	case doctor.StatusWarn:
		symbol = ui.SymbolWarning
		style = ui.WarningStyle()
	default:
		symbol = ui.SymbolFail
		style = ui.ErrorStyle()
	}

	fmt.Fprintf(out, "  %s %s\n", style.Render(symbol), result.Message)

	if result.Suggestion != "" && result.Status != doctor.StatusPass {
		for _, line := range strings.Split(result.Suggestion, "\n") {
			fmt.Fprintf(out, "    %s\n", ui.MutedStyle().Render(line))
		}
	}
}
