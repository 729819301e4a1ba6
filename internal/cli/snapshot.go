package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rileyhilliard/sensordash/internal/dashboard"
	"github.com/rileyhilliard/sensordash/internal/errors"
	"github.com/rileyhilliard/sensordash/internal/sensor"
	"github.com/rileyhilliard/sensordash/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// defaultSnapshotTimeout applies when the config sets no timeout, since a
// one-shot command shouldn't hang forever.
const defaultSnapshotTimeout = 30 * time.Second

// snapshotSparkWidth is the sparkline width in snapshot output.
const snapshotSparkWidth = 60

// SnapshotOptions holds options for the snapshot command.
type SnapshotOptions struct {
	Page int
	JSON bool
}

// SnapshotOutput is the data payload of `snapshot --json`.
type SnapshotOutput struct {
	Endpoint  string         `json:"endpoint"`
	FetchedAt time.Time      `json:"fetched_at"`
	Threshold float64        `json:"threshold"`
	PageSize  int            `json:"page_size"`
	View      dashboard.View `json:"view"`
}

func snapshotCommand(cmd *cobra.Command, flags *DashboardFlags, opts SnapshotOptions) error {
	if opts.JSON {
		machineMode = true
	}

	if opts.Page < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("--page must be at least 1, got %d", opts.Page),
			"Pages are numbered from 1")
	}

	cfg, _, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultSnapshotTimeout
	}

	var spinner *ui.Spinner
	if !opts.JSON && term.IsTerminal(int(os.Stderr.Fd())) {
		spinner = ui.NewSpinner("Fetching "+cfg.Endpoint, os.Stderr)
		spinner.Start()
	}

	records, err := sensor.FetchOnce(context.Background(), sensor.NewClient(cfg.Endpoint), timeout)
	if err != nil {
		if spinner != nil {
			spinner.Fail()
		}
		return err
	}
	if spinner != nil {
		spinner.Success()
	}

	view := dashboard.Derive(dashboard.State{
		Records:   records,
		Page:      opts.Page,
		PageSize:  cfg.PageSize,
		Threshold: cfg.Threshold,
	})

	out := cmd.OutOrStdout()
	if opts.JSON {
		return WriteJSONSuccess(out, SnapshotOutput{
			Endpoint:  cfg.Endpoint,
			FetchedAt: time.Now(),
			Threshold: cfg.Threshold,
			PageSize:  cfg.PageSize,
			View:      view,
		})
	}

	if view.TotalPages > 0 && opts.Page > view.TotalPages {
		ui.PrintWarning(fmt.Sprintf("Page %d is past the last page (%d)", opts.Page, view.TotalPages))
	}

	_, err = io.WriteString(out, RenderSnapshot(view, cfg.Threshold))
	return err
}

// RenderSnapshot renders a derived view as plain terminal output.
func RenderSnapshot(v dashboard.View, threshold float64) string {
	var b strings.Builder

	b.WriteString(ui.AccentStyle().Render("Sensor Data"))
	b.WriteString("\n\n")

	b.WriteString(ui.RenderKeyValues([][2]string{
		{"Total records", fmt.Sprintf("%d", v.Summary.TotalRecords)},
		{"Above threshold", fmt.Sprintf("%d", v.Summary.TotalAboveThreshold)},
		{"Average height", dashboard.FormatFixed2(v.Summary.AverageHeight) + " cm"},
		{"Above threshold %", dashboard.FormatFixed2(v.Summary.PercentageAboveThreshold) + "%"},
	}))
	b.WriteString("\n")

	if v.Series.Len() > 0 {
		b.WriteString(ui.RenderSparkline(v.Series.Values, snapshotSparkWidth, threshold))
		b.WriteString("\n\n")
	}

	if v.Summary.TotalRecords == 0 {
		b.WriteString(ui.MutedStyle().Render("No records"))
		b.WriteString("\n")
		return b.String()
	}

	rows := make([][]string, len(v.Rows))
	for i, row := range v.Rows {
		rows[i] = []string{
			row.Record.ID.String(),
			sensor.FormatValue(row.Record.Value),
			row.Record.Timestamp.Display(),
			ui.SymbolLED + " " + row.Status.String(),
		}
	}

	if table := ui.RenderSimpleTable(snapshotColumns(v.Rows), rows); table != "" {
		b.WriteString(colorStatuses(table, v.Rows))
		b.WriteString("\n")
	} else {
		b.WriteString(ui.MutedStyle().Render("No records on this page"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderNav(v))
	b.WriteString("\n")
	return b.String()
}

// colorStatuses paints each row's status label green or red. The table pads
// cells by rune width, so labels go in plain and get styled afterwards.
func colorStatuses(table string, rows []dashboard.Row) string {
	lines := strings.Split(table, "\n")
	next := 0
	for _, row := range rows {
		plain := ui.SymbolLED + " " + row.Status.String()
		for ; next < len(lines); next++ {
			line := lines[next]
			if at := strings.LastIndex(line, plain); at >= 0 {
				lines[next] = line[:at] + ui.RenderLEDLabel(bool(row.Status)) + line[at+len(plain):]
				next++
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}

func snapshotColumns(rows []dashboard.Row) []ui.TableColumn {
	idWidth := len("ID")
	for _, row := range rows {
		if w := len(row.Record.ID.String()); w > idWidth {
			idWidth = w
		}
	}
	return []ui.TableColumn{
		{Title: "ID", Width: idWidth},
		{Title: "Value (cm)", Width: 12},
		{Title: "Timestamp", Width: 21},
		{Title: "Status", Width: 6},
	}
}

// renderNav shows the page position and which controls would be enabled.
func renderNav(v dashboard.View) string {
	control := func(label string, enabled bool) string {
		if enabled {
			return ui.InfoStyle().Render(label)
		}
		return ui.MutedStyle().Render(label)
	}
	return fmt.Sprintf("%s  Page %d of %d  %s",
		control(ui.SymbolPrevious+" Previous", v.CanPrevious),
		v.Page, v.TotalPages,
		control("Next "+ui.SymbolNext, v.CanNext))
}
