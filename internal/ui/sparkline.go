package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline block characters representing 8 vertical levels (lowest to highest).
const sparklineBlocks = "▁▂▃▄▅▆▇█"

var sparklineBlockRunes = []rune(sparklineBlocks)

// RenderSparkline renders the most recent width values as a single row of
// block characters scaled to the min/max of those values. Each block is
// colored by comparing its value to threshold, so readings that would light
// the LED show green.
func RenderSparkline(data []float64, width int, threshold float64) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	if len(data) > width {
		data = data[len(data)-width:]
	}

	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	numLevels := len(sparklineBlockRunes)
	valueRange := maxVal - minVal

	onStyle := lipgloss.NewStyle().Foreground(ColorLEDOn)
	offStyle := lipgloss.NewStyle().Foreground(ColorLEDOff)

	var sb strings.Builder
	for _, v := range data {
		level := numLevels / 2
		if valueRange != 0 {
			level = int((v - minVal) / valueRange * float64(numLevels-1))
			if level < 0 {
				level = 0
			} else if level >= numLevels {
				level = numLevels - 1
			}
		}

		style := offStyle
		if v >= threshold {
			style = onStyle
		}
		sb.WriteString(style.Render(string(sparklineBlockRunes[level])))
	}

	return sb.String()
}
