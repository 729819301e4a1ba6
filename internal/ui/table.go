package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// TableStyles returns the bubbles table styles used across the CLI and dashboard.
func TableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorGlassBorder).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorNeonCyan)
	s.Cell = s.Cell.
		Foreground(ColorPrimary)
	// Tables are read-only, so the selected row renders like any other.
	s.Selected = s.Cell
	return s
}

// NewTable creates an unfocused bubbles table sized to fit its rows.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	t := table.New(
		table.WithColumns(Columns(columns)),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1),
	)
	t.SetStyles(TableStyles())
	return t
}

// Columns converts column specs to bubbles columns.
func Columns(columns []TableColumn) []table.Column {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{Title: c.Title, Width: c.Width}
	}
	return cols
}

// RenderSimpleTable renders a non-interactive table string for CLI output.
// It returns "" when there are no rows.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	return NewTable(columns, tableRows).View()
}

// RenderKeyValues renders aligned "label  value" lines.
func RenderKeyValues(pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		if w := lipgloss.Width(p[0]); w > width {
			width = w
		}
	}

	labelStyle := MutedStyle()
	var b strings.Builder
	for _, p := range pairs {
		b.WriteString(labelStyle.Render(padRight(p[0], width+2)))
		b.WriteString(p[1])
		b.WriteString("\n")
	}
	return b.String()
}

// RenderLED renders the indicator dot, green when on and red when off.
func RenderLED(on bool) string {
	color := ColorLEDOff
	if on {
		color = ColorLEDOn
	}
	return lipgloss.NewStyle().Foreground(color).Render(SymbolLED)
}

// RenderLEDLabel renders the dot followed by "On" or "Off".
func RenderLEDLabel(on bool) string {
	label := "Off"
	if on {
		label = "On"
	}
	return RenderLED(on) + " " + label
}

// padRight pads a string to the specified visible width.
func padRight(s string, width int) string {
	visibleLen := lipgloss.Width(s)
	if visibleLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visibleLen)
}
