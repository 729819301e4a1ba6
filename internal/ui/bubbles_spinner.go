package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// SpinnerFrames is the braille scan animation used inside Bubble Tea programs,
// matching the CLI Spinner.
var SpinnerFrames = spinner.Spinner{
	Frames: spinnerFrames,
	FPS:    time.Second / 12,
}

// NewBubbleSpinner returns a bubbles spinner using SpinnerFrames.
func NewBubbleSpinner() spinner.Model {
	return spinner.New(
		spinner.WithSpinner(SpinnerFrames),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(ColorNeonCyan)),
	)
}
