// Package ui provides terminal rendering helpers shared by sensordash's CLI
// commands and the live dashboard.
//
// # Components
//
//	Spinner          - Animated status line for one-shot fetches
//	NewBubbleSpinner - The same animation as a bubbles spinner for Bubble Tea
//	RenderSimpleTable, NewTable - Record tables built on bubbles/table
//	RenderSparkline  - Single-row block chart colored against the threshold
//	RenderLED        - The On/Off indicator dot
//
// # Color Scheme
//
// The neon palette is shared with the dashboard. ColorLEDOn and ColorLEDOff
// mark readings at or above and below the threshold.
//
// Use DisableColors() to switch to monochrome output (for --no-color flag).
package ui
