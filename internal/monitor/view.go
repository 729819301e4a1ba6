package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/rileyhilliard/sensordash/internal/dashboard"
	"github.com/rileyhilliard/sensordash/internal/sensor"
	"github.com/rileyhilliard/sensordash/internal/ui"
)

// Title shown at the top of the dashboard.
const Title = "Sensor Data"

// Table column widths
const (
	colValueWidth     = 12
	colTimestampWidth = 21
	colStatusWidth    = 8
	minIDWidth        = 4
	maxIDWidth        = 24
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	v := m.Derive()
	width := m.contentWidth()

	sections := []string{m.renderHeader(v)}

	if m.showMetrics {
		sections = append(sections, m.renderMetrics(v, width))
	}
	if m.chartVisible() {
		sections = append(sections, m.renderChart(v, width))
	}

	sections = append(sections,
		m.renderTable(v, width),
		m.renderNav(v),
		m.renderFooter(),
	)

	return strings.Join(sections, "\n")
}

// renderHeader renders the title and summary stats.
func (m Model) renderHeader(v dashboard.View) string {
	var stats string
	if m.loaded {
		stats = fmt.Sprintf(" | %d records | page %s | updated %s",
			v.Summary.TotalRecords, pageLabel(v), humanize.Time(m.lastUpdate))
	} else {
		stats = " | waiting for first reading"
		if m.endpoint != "" {
			stats += " from " + m.endpoint
		}
	}

	header := TitleStyle.Render(Title) + LabelStyle.Render(stats)
	if m.Fetching() {
		header += " " + m.spinner.View() + MutedStyle.Render(" fetching")
	}
	if m.closed {
		header += MutedStyle.Render(" | stopped")
	}

	return HeaderStyle.Render(header)
}

func pageLabel(v dashboard.View) string {
	return fmt.Sprintf("%d/%d", v.Page, v.TotalPages)
}

// renderMetrics renders the summary panel.
func (m Model) renderMetrics(v dashboard.View, width int) string {
	s := v.Summary
	pairs := [][2]string{
		{"Total records", ValueStyle.Render(fmt.Sprintf("%d", s.TotalRecords))},
		{"Average height", ValueStyle.Render(dashboard.FormatFixed2(s.AverageHeight) + " cm")},
		{"Above threshold", ValueStyle.Render(fmt.Sprintf("%d", s.TotalAboveThreshold))},
		{"Percentage above threshold", ValueStyle.Render(dashboard.FormatFixed2(s.PercentageAboveThreshold) + "%")},
	}

	lines := strings.Split(strings.TrimRight(ui.RenderKeyValues(pairs), "\n"), "\n")
	return RenderSection("Metrics", fmt.Sprintf("threshold %s cm", sensor.FormatValue(m.threshold)), lines, width)
}

// renderChart renders the line chart panel.
func (m Model) renderChart(v dashboard.View, width int) string {
	if v.Series.Len() == 0 {
		return RenderSection("Chart", "", []string{MutedStyle.Render("No data to chart")}, width)
	}

	chart := RenderLineChart(v.Series, width-4, chartHeight, m.threshold)

	value := fmt.Sprintf("%d points", chart.Total)
	if chart.Truncated() {
		value = fmt.Sprintf("last %d of %d points", chart.Shown, chart.Total)
	}
	return RenderSection("Chart", value, chart.Lines, width)
}

// renderTable renders the current page of records.
func (m Model) renderTable(v dashboard.View, width int) string {
	value := "page " + pageLabel(v)

	if len(v.Rows) == 0 {
		msg := "No records"
		if !m.loaded {
			msg = "Waiting for data"
		} else if v.Summary.TotalRecords > 0 {
			msg = "No records on this page"
		}
		return RenderSection("Records", value, []string{MutedStyle.Render(msg)}, width)
	}

	idWidth := minIDWidth
	for _, r := range v.Rows {
		if w := lipgloss.Width(r.Record.ID.String()); w > idWidth {
			idWidth = w
		}
	}
	if idWidth > maxIDWidth {
		idWidth = maxIDWidth
	}

	lines := []string{
		TableHeaderStyle.Render(
			cell("ID", idWidth) +
				cell("Value (cm)", colValueWidth) +
				cell("Timestamp", colTimestampWidth) +
				"Status"),
	}
	for _, r := range v.Rows {
		on := bool(r.Status)
		lines = append(lines,
			cell(truncate(r.Record.ID.String(), idWidth-1), idWidth)+
				cell(sensor.FormatValue(r.Record.Value), colValueWidth)+
				cell(r.Record.Timestamp.Display(), colTimestampWidth)+
				LEDStyle(on).Render(ui.SymbolLED+" "+r.Status.String()))
	}

	return RenderSection("Records", value, lines, width)
}

// renderNav renders the previous/next controls, muted when disabled.
func (m Model) renderNav(v dashboard.View) string {
	prevStyle, nextStyle := NavDisabledStyle, NavDisabledStyle
	if v.CanPrevious {
		prevStyle = NavEnabledStyle
	}
	if v.CanNext {
		nextStyle = NavEnabledStyle
	}

	return " " + prevStyle.Render(ui.SymbolPrevious+" Previous") +
		"   " + MutedStyle.Render(pageLabel(v)) + "   " +
		nextStyle.Render("Next "+ui.SymbolNext)
}

// renderFooter renders the short key help.
func (m Model) renderFooter() string {
	return FooterStyle.Render(m.help.View(m.keys))
}

// cell pads s to width.
func cell(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// truncate shortens s to at most width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width || width < 1 {
		return s
	}
	return string(r[:width-1]) + "…"
}
