package monitor

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/sensordash/internal/dashboard"
)

// Braille character rendering for high-resolution terminal graphs.
//
// Braille patterns use a 2x4 dot matrix per character:
//
//	  Col 0  Col 1
//	Row 0:   ⠁      ⠈     (dots 1, 4)
//	Row 1:   ⠂      ⠐     (dots 2, 5)
//	Row 2:   ⠄      ⠠     (dots 3, 6)
//	Row 3:   ⡀      ⢀     (dots 7, 8)
//
// Unicode braille starts at U+2800 (empty) and uses bit patterns:
// bit 0 = dot 1, bit 1 = dot 2, bit 2 = dot 3, bit 3 = dot 4,
// bit 4 = dot 5, bit 5 = dot 6, bit 6 = dot 7, bit 7 = dot 8

const brailleBase = '\u2800'

// thresholdMarker fills empty cells on the threshold row.
const thresholdMarker = "┄"

// brailleDots maps [row][col] to the bit offset for a braille dot.
var brailleDots = [4][2]uint8{
	{0, 3},
	{1, 4},
	{2, 5},
	{6, 7},
}

// findMinMax returns the minimum and maximum values in a slice.
func findMinMax(data []float64) (minVal, maxVal float64) {
	if len(data) == 0 {
		return 0, 0
	}
	minVal, maxVal = data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

// normalizeValue converts a value to 0-1 range given min/max bounds.
func normalizeValue(val, minVal, maxVal float64) float64 {
	if maxVal > minVal {
		return (val - minVal) / (maxVal - minVal)
	}
	return 0.5
}

// clampInt clamps an integer to a range [0, maxVal].
func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// formatAxis formats a y-axis label.
func formatAxis(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// LineChart is a rendered braille line chart.
type LineChart struct {
	Lines []string
	// Shown is the number of points drawn, Total the number in the series.
	Shown int
	Total int
}

// Truncated reports whether older points were left out to fit the width.
func (c LineChart) Truncated() bool {
	return c.Shown < c.Total
}

// String joins the chart lines.
func (c LineChart) String() string {
	return strings.Join(c.Lines, "\n")
}

// RenderLineChart draws series as a braille line chart that is width cells
// wide (including the y-axis gutter) and height rows tall, plus one row of
// x-axis labels. Each braille cell holds two points. When the series has more
// points than fit, only the most recent ones are drawn; values are never
// resampled. Columns are colored by whether their highest point reaches the
// threshold, and a dashed marker is drawn on the threshold row when the
// threshold lies inside the plotted range.
func RenderLineChart(series dashboard.ChartSeries, width, height int, threshold float64) LineChart {
	chart := LineChart{Total: series.Len()}
	if series.Len() == 0 || width <= 0 || height <= 0 {
		return chart
	}

	// The gutter is sized from the full series range so it stays put as the
	// visible window moves.
	minAll, maxAll := findMinMax(series.Values)
	labelWidth := max(len(formatAxis(minAll)), len(formatAxis(maxAll)), len(formatAxis(threshold)))
	gutter := labelWidth + 2

	plotWidth := width - gutter
	if plotWidth < 1 {
		return chart
	}

	values, labels := series.Values, series.Labels
	if capacity := plotWidth * 2; len(values) > capacity {
		values = values[len(values)-capacity:]
		labels = labels[len(labels)-capacity:]
	}
	chart.Shown = len(values)

	minVal, maxVal := findMinMax(values)
	if minVal == maxVal {
		minVal--
		maxVal++
	}

	totalDots := height * 4
	dotY := func(v float64) int {
		n := normalizeValue(v, minVal, maxVal)
		return clampInt(int(math.Round(n*float64(totalDots-1))), totalDots-1)
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, plotWidth)
		for j := range grid[i] {
			grid[i][j] = brailleBase
		}
	}
	colOn := make([]bool, plotWidth)

	setDot := func(x, y int) {
		row := height - 1 - y/4
		subRow := 3 - y%4
		grid[row][x/2] |= rune(1 << brailleDots[subRow][x%2])
	}

	prevY := -1
	for x, v := range values {
		y := dotY(v)
		if prevY >= 0 {
			// Connect to the previous point with a vertical run.
			lo, hi := prevY, y
			if lo > hi {
				lo, hi = hi, lo
			}
			for d := lo; d <= hi; d++ {
				setDot(x, d)
			}
		} else {
			setDot(x, y)
		}
		prevY = y

		if v >= threshold {
			colOn[x/2] = true
		}
	}

	markerRow := -1
	if threshold >= minVal && threshold <= maxVal {
		markerRow = height - 1 - dotY(threshold)/4
	}

	axisStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	markerStyle := lipgloss.NewStyle().Foreground(ColorMarker)

	for r := 0; r < height; r++ {
		label := ""
		switch {
		case r == 0:
			label = formatAxis(maxVal)
		case r == height-1:
			label = formatAxis(minVal)
		case r == markerRow:
			label = formatAxis(threshold)
		}

		var b strings.Builder
		b.WriteString(MutedStyle.Render(fmt.Sprintf("%*s ", labelWidth, label)))
		if label != "" {
			b.WriteString(axisStyle.Render("┤"))
		} else {
			b.WriteString(axisStyle.Render("│"))
		}

		for c, ch := range grid[r] {
			switch {
			case ch != brailleBase:
				b.WriteString(LEDStyle(colOn[c]).Render(string(ch)))
			case r == markerRow:
				b.WriteString(markerStyle.Render(thresholdMarker))
			default:
				b.WriteString(" ")
			}
		}
		chart.Lines = append(chart.Lines, b.String())
	}

	chart.Lines = append(chart.Lines, strings.Repeat(" ", gutter)+xAxisLabels(labels, (len(values)+1)/2, plotWidth))
	return chart
}

// xAxisLabels places the first label at the left edge and the last label at
// the right edge of the drawn columns, pushing it right when the labels would
// touch. The last label is dropped if it does not fit in maxWidth.
func xAxisLabels(labels []string, cols, maxWidth int) string {
	if len(labels) == 0 {
		return ""
	}
	first := labels[0]
	if len(labels) == 1 {
		return MutedStyle.Render(first)
	}
	last := labels[len(labels)-1]

	gap := cols - lipgloss.Width(first) - lipgloss.Width(last)
	if gap < 2 {
		gap = 2
	}
	if lipgloss.Width(first)+gap+lipgloss.Width(last) > maxWidth {
		return MutedStyle.Render(first)
	}
	return MutedStyle.Render(first + strings.Repeat(" ", gap) + last)
}
