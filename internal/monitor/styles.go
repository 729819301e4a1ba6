package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/sensordash/internal/ui"
)

// Dashboard color palette
const (
	ColorDarkBg    = ui.ColorDeepVoid
	ColorSurfaceBg = ui.ColorDarkSurface
	ColorBorder    = ui.ColorGlassBorder

	ColorOn     = ui.ColorLEDOn
	ColorOff    = ui.ColorLEDOff
	ColorMarker = ui.ColorNeonAmber

	ColorTextPrimary   = ui.ColorPrimary
	ColorTextSecondary = ui.ColorSecondary
	ColorTextMuted     = ui.ColorMuted

	ColorAccent    = ui.ColorNeonPink
	ColorAccentDim = ui.ColorNeonPurple
	ColorGraph     = ui.ColorNeonCyan
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorGraph).
				Bold(true)

	NavEnabledStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	NavDisabledStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Faint(true)

	StatusOnStyle = lipgloss.NewStyle().
			Foreground(ColorOn)

	StatusOffStyle = lipgloss.NewStyle().
			Foreground(ColorOff)
)

// LEDStyle returns the style for an indicator in the given state.
func LEDStyle(on bool) lipgloss.Style {
	if on {
		return StatusOnStyle
	}
	return StatusOffStyle
}

// SectionHeader renders the top border of a panel.
// Format: ╭─ Title ────────────────────────────────────── Value ╮
func SectionHeader(title, value string, width int) string {
	if width < 10 {
		width = 10
	}

	leftWidth := 3 + lipgloss.Width(title) + 1
	rightWidth := 1 + lipgloss.Width(value) + 2

	fillWidth := width - leftWidth - rightWidth
	if fillWidth < 1 {
		fillWidth = 1
	}

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	valueStyle := lipgloss.NewStyle().Foreground(ColorGraph).Bold(true)

	return borderStyle.Render("╭─ ") +
		TitleStyle.Render(title) +
		borderStyle.Render(" "+strings.Repeat("─", fillWidth)+" ") +
		valueStyle.Render(value) +
		borderStyle.Render(" ╮")
}

// SectionFooter renders the bottom border of a panel.
func SectionFooter(width int) string {
	if width < 2 {
		width = 2
	}
	return lipgloss.NewStyle().Foreground(ColorBorder).Render("╰" + strings.Repeat("─", width-2) + "╯")
}

// SectionContentLine renders one bordered content line padded to width.
// Format: │ content                                              │
func SectionContentLine(content string, width int) string {
	if width < 4 {
		width = 4
	}

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)

	padding := width - 4 - lipgloss.Width(content)
	if padding < 0 {
		padding = 0
	}

	return borderStyle.Render("│") + " " + content + strings.Repeat(" ", padding) + " " + borderStyle.Render("│")
}

// RenderSection wraps content lines in a titled panel.
func RenderSection(title, value string, lines []string, width int) string {
	out := make([]string, 0, len(lines)+2)
	out = append(out, SectionHeader(title, value, width))
	for _, l := range lines {
		out = append(out, SectionContentLine(l, width))
	}
	out = append(out, SectionFooter(width))
	return strings.Join(out, "\n")
}
