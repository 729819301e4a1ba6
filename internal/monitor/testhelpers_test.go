package monitor

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/sensordash/internal/poller"
	"github.com/rileyhilliard/sensordash/internal/sensor"
)

// fakeSource is a Source driven by the test.
type fakeSource struct {
	mu        sync.Mutex
	results   chan poller.Result
	refreshes int
	stops     int
	inFlight  int
}

func newFakeSource() *fakeSource {
	return &fakeSource{results: make(chan poller.Result, 4)}
}

func (f *fakeSource) Results() <-chan poller.Result { return f.results }

func (f *fakeSource) Refresh() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
}

func (f *fakeSource) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
}

func (f *fakeSource) InFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

func newTestModel(src *fakeSource) Model {
	return NewModel(Options{
		Source:    src,
		Endpoint:  "http://sensors.test/data",
		Interval:  15 * time.Second,
		Threshold: 300,
	})
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func rec(id string, value float64) sensor.Record {
	return sensor.Record{
		ID:        sensor.ID(id),
		Value:     value,
		Timestamp: sensor.NewTimestamp(time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)),
	}
}

func makeN(n int) []sensor.Record {
	out := make([]sensor.Record, n)
	for i := range out {
		out[i] = rec(string(rune('a'+i%26))+strings.Repeat("x", i/26), float64(100+i*10))
	}
	return out
}

func success(tick uint64, records []sensor.Record) resultMsg {
	now := time.Now()
	return resultMsg(poller.Result{Tick: tick, Records: records, Started: now, Finished: now})
}

func failure(tick uint64, err error) resultMsg {
	now := time.Now()
	return resultMsg(poller.Result{Tick: tick, Err: err, Started: now, Finished: now})
}

func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		if r == '\033' {
			inEscape = true
			continue
		}
		if inEscape {
			if r == 'm' {
				inEscape = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
