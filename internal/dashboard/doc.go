// Package dashboard derives everything the sensor views display from the
// current record set: summary metrics, the visible page, LED status per row
// and the chart series.
//
// All functions are pure. Renderers call Derive on every redraw instead of
// caching derived values, so the output always matches the current records.
package dashboard
