package dashboard

import "github.com/rileyhilliard/sensordash/internal/sensor"

// DefaultPageSize is the number of rows per page.
const DefaultPageSize = 15

// TotalPages returns ceil(n/size). Zero records means zero pages.
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// PageSlice returns records[(page-1)*size : page*size] clipped to the data.
// Pages outside the data range yield an empty slice, never a panic.
func PageSlice(records []sensor.Record, page, size int) []sensor.Record {
	if page < 1 || size <= 0 {
		return []sensor.Record{}
	}
	start := (page - 1) * size
	if start >= len(records) {
		return []sensor.Record{}
	}
	end := start + size
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

// NextPage advances one page only while page < total.
func NextPage(page, total int) int {
	if page < total {
		return page + 1
	}
	return page
}

// PreviousPage goes back one page only while page > 1.
func PreviousPage(page int) int {
	if page > 1 {
		return page - 1
	}
	return page
}

// CanPrevious reports whether the previous control is operative.
func CanPrevious(page int) bool {
	return page != 1
}

// CanNext reports whether the next control is enabled. It is disabled on the
// last page and when there are no pages at all.
func CanNext(page, total int) bool {
	return total != 0 && page != total
}

// ClampPage pulls page back into [1, max(1,total)].
func ClampPage(page, total int) int {
	upper := total
	if upper < 1 {
		upper = 1
	}
	if page > upper {
		return upper
	}
	if page < 1 {
		return 1
	}
	return page
}
