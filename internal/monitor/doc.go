// Package monitor implements the live terminal dashboard for sensor readings.
//
// The dashboard shows the latest record set fetched by the poller as a
// paginated table, a metrics panel, a braille line chart and an On/Off
// indicator per row.
//
// # Architecture
//
// The package uses the Bubble Tea framework (Model-Update-View):
//
//   - Model: holds the records, current page, panel toggles and fetch status
//   - Update: applies poller results, key presses and clock ticks
//   - View: renders dashboard.Derive output for the current state
//
// # Message Flow
//
//  1. The poller fetches immediately and then every interval
//  2. waitForResult blocks on the poller's results channel and emits resultMsg
//  3. Update replaces the records on success, or records the error and keeps
//     the previous records on failure, then re-arms waitForResult
//  4. View re-renders
//
// SettingsMsg swaps threshold, page size and clamping at runtime.
//
// Only Update mutates dashboard state, so no locking is needed.
//
// # Keyboard Shortcuts
//
//	←/h/p       - Previous page
//	→/l/n       - Next page
//	r           - Refresh now
//	m           - Toggle metrics panel
//	c           - Toggle chart panel
//	?           - Toggle help overlay
//	q, Ctrl+C   - Quit
//
// When stdout is not a terminal, RunPlain prints one line per result instead.
package monitor
