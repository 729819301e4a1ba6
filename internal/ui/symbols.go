package ui

// Status glyphs.
const (
	SymbolSuccess  = "✓"
	SymbolFail     = "✗"
	SymbolWarning  = "⚠"
	SymbolPending  = "○"
	SymbolProgress = "◐"
	SymbolComplete = "●"
)

// SymbolLED is the indicator dot drawn in the status column and LED panel.
const SymbolLED = "●"

// Pagination arrows.
const (
	SymbolPrevious = "◀"
	SymbolNext     = "▶"
)
