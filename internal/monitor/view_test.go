package monitor

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/sensordash/internal/sensor"
	"github.com/stretchr/testify/assert"
)

func TestView_BeforeFirstResult(t *testing.T) {
	m := newTestModel(newFakeSource())
	out := stripANSI(m.View())

	assert.Contains(t, out, Title)
	assert.Contains(t, out, "waiting for first reading from http://sensors.test/data")
	assert.Contains(t, out, "Waiting for data")
	assert.Contains(t, out, "No data to chart")
}

func TestView_EndToEnd(t *testing.T) {
	m := newTestModel(newFakeSource())
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 60})
	m, _ = update(m, success(1, []sensor.Record{rec("1", 310), rec("2", 150)}))

	out := stripANSI(m.View())

	assert.Contains(t, out, "2 records")
	assert.Contains(t, out, "page 1/1")
	assert.Contains(t, out, "230.00 cm")
	assert.Contains(t, out, "50.00%")
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Value (cm)")
	assert.Contains(t, out, "Timestamp")
	assert.Contains(t, out, "Status")
	assert.Contains(t, out, "2024-03-01 10:00:00")
	assert.Contains(t, out, "● On")
	assert.Contains(t, out, "● Off")
	assert.Contains(t, out, "◀ Previous")
	assert.Contains(t, out, "Next ▶")
	assert.Contains(t, out, "2 points")

	// On precedes Off, matching record order.
	assert.Less(t, strings.Index(out, "● On"), strings.Index(out, "● Off"))
}

func TestView_PanelsToggle(t *testing.T) {
	m := newTestModel(newFakeSource())
	m, _ = update(m, success(1, makeN(3)))

	out := stripANSI(m.View())
	assert.Contains(t, out, "Metrics")
	assert.Contains(t, out, "Chart")

	m, _ = update(m, keyRune('m'))
	m, _ = update(m, keyRune('c'))
	out = stripANSI(m.View())
	assert.NotContains(t, out, "Average height")
	assert.NotContains(t, out, "points")
	assert.Contains(t, out, "Records")
}

func TestView_FailedFetchLeavesScreenUnchanged(t *testing.T) {
	m := newTestModel(newFakeSource())
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 60})
	m, _ = update(m, success(1, makeN(2)))
	before := m.View()

	m, _ = update(m, failure(2, errors.New("connection refused")))
	assert.Equal(t, before, m.View())

	m, _ = update(m, failure(3, errors.New("connection refused")))
	assert.Equal(t, before, m.View())
	assert.NotContains(t, stripANSI(m.View()), "connection refused")
}

func TestView_FailureBeforeFirstResult(t *testing.T) {
	m := newTestModel(newFakeSource())
	before := m.View()

	m, _ = update(m, failure(1, errors.New("connection refused")))
	assert.Equal(t, before, m.View())
	assert.Contains(t, stripANSI(m.View()), "Waiting for data")
}

func TestView_OutOfRangePage(t *testing.T) {
	m := newTestModel(newFakeSource())
	m, _ = update(m, success(1, makeN(32)))
	m, _ = update(m, keyRune('n'))
	m, _ = update(m, keyRune('n'))
	m, _ = update(m, success(2, makeN(4)))

	out := stripANSI(m.View())
	assert.Contains(t, out, "No records on this page")
	assert.Contains(t, out, "page 3/1")
}

func TestView_LongIDsAreTruncated(t *testing.T) {
	long := strings.Repeat("z", 40)
	m := newTestModel(newFakeSource())
	m, _ = update(m, success(1, []sensor.Record{rec(long, 10)}))

	out := stripANSI(m.View())
	assert.NotContains(t, out, long)
	assert.Contains(t, out, "…")
}

func TestCell(t *testing.T) {
	assert.Equal(t, "ab   ", cell("ab", 5))
	assert.Equal(t, "abcdef", cell("abcdef", 3))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "abc", truncate("abc", 0))
}
