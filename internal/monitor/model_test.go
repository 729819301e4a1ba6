package monitor

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/sensordash/internal/dashboard"
	"github.com/rileyhilliard/sensordash/internal/poller"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModel(t *testing.T) {
	src := newFakeSource()
	m := newTestModel(src)

	assert.Equal(t, 1, m.Page())
	assert.Equal(t, dashboard.DefaultPageSize, m.pageSize)
	assert.Empty(t, m.Records())
	assert.NotNil(t, m.Records())
	assert.True(t, m.showMetrics)
	assert.True(t, m.showChart)
	assert.False(t, m.loaded)
	assert.Nil(t, m.LastError())
}

func TestModel_Init(t *testing.T) {
	m := newTestModel(newFakeSource())
	assert.NotNil(t, m.Init())
}

func TestModel_SuccessReplacesRecords(t *testing.T) {
	src := newFakeSource()
	m := newTestModel(src)

	m, cmd := update(m, success(1, makeN(3)))
	assert.NotNil(t, cmd, "should re-arm the results listener")
	assert.Len(t, m.Records(), 3)
	assert.True(t, m.loaded)

	m, _ = update(m, success(2, makeN(5)))
	assert.Len(t, m.Records(), 5)
}

func TestModel_FailedFetchKeepsState(t *testing.T) {
	src := newFakeSource()
	m := newTestModel(src)

	m, _ = update(m, success(1, makeN(20)))
	m, _ = update(m, keyRune('n'))
	before := m.Derive()

	boom := errors.New("connection refused")
	m, cmd := update(m, failure(2, boom))
	assert.NotNil(t, cmd)

	assert.Equal(t, before, m.Derive(), "a failed fetch must not change derived output")
	assert.Equal(t, 2, m.Page())
	assert.ErrorIs(t, m.LastError(), boom)
	assert.Equal(t, 1, m.failures)

	m, _ = update(m, failure(3, boom))
	assert.Equal(t, 2, m.failures)

	m, _ = update(m, success(4, makeN(20)))
	assert.Nil(t, m.LastError())
	assert.Zero(t, m.failures)
}

func TestModel_Pagination(t *testing.T) {
	m := newTestModel(newFakeSource())
	m, _ = update(m, success(1, makeN(32)))

	v := m.Derive()
	assert.Equal(t, 3, v.TotalPages)
	assert.Len(t, v.Rows, 15)
	assert.False(t, v.CanPrevious)

	// previous on page 1 is a no-op
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 1, m.Page())

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 2, m.Page())
	m, _ = update(m, keyRune('l'))
	assert.Equal(t, 3, m.Page())
	assert.Len(t, m.Derive().Rows, 2)
	assert.False(t, m.Derive().CanNext)

	// next on the last page is a no-op
	m, _ = update(m, keyRune('n'))
	assert.Equal(t, 3, m.Page())

	m, _ = update(m, keyRune('h'))
	assert.Equal(t, 2, m.Page())
	m, _ = update(m, keyRune('p'))
	assert.Equal(t, 1, m.Page())
}

func TestModel_NextWithNoData(t *testing.T) {
	m := newTestModel(newFakeSource())
	m, _ = update(m, keyRune('n'))
	assert.Equal(t, 1, m.Page())
	assert.False(t, m.Derive().CanNext)
}

func TestModel_ShrinkingRecords(t *testing.T) {
	tests := []struct {
		name      string
		clamp     bool
		wantPage  int
		wantEmpty bool
	}{
		{name: "page kept without clamping", clamp: false, wantPage: 3, wantEmpty: true},
		{name: "page clamped when enabled", clamp: true, wantPage: 1, wantEmpty: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel(Options{Source: newFakeSource(), Threshold: 300, ClampPage: tt.clamp})
			m, _ = update(m, success(1, makeN(32)))
			m, _ = update(m, keyRune('n'))
			m, _ = update(m, keyRune('n'))
			require.Equal(t, 3, m.Page())

			m, _ = update(m, success(2, makeN(5)))
			assert.Equal(t, tt.wantPage, m.Page())
			assert.Equal(t, tt.wantEmpty, len(m.Derive().Rows) == 0)
		})
	}
}

func TestModel_RefreshKey(t *testing.T) {
	src := newFakeSource()
	m := newTestModel(src)

	m, cmd := update(m, keyRune('r'))
	assert.Nil(t, cmd)
	assert.Equal(t, 1, src.refreshes)
}

func TestModel_Toggles(t *testing.T) {
	m := newTestModel(newFakeSource())

	m, _ = update(m, keyRune('m'))
	assert.False(t, m.showMetrics)
	m, _ = update(m, keyRune('c'))
	assert.False(t, m.showChart)
	m, _ = update(m, keyRune('m'))
	assert.True(t, m.showMetrics)

	m, _ = update(m, keyRune('?'))
	assert.True(t, m.showHelp)
	assert.Contains(t, stripANSI(m.View()), "Keyboard Shortcuts")

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showHelp)
}

func TestModel_QuitStopsSourceOnce(t *testing.T) {
	src := newFakeSource()
	m := newTestModel(src)

	m, cmd := update(m, keyRune('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Equal(t, 1, src.stops)
}

func TestModel_ResultsClosed(t *testing.T) {
	src := newFakeSource()
	m := newTestModel(src)

	close(src.results)
	msg := waitForResult(m.results)()
	assert.IsType(t, resultsClosedMsg{}, msg)

	m, cmd := update(m, msg)
	assert.Nil(t, cmd)
	assert.True(t, m.closed)
}

func TestWaitForResult(t *testing.T) {
	src := newFakeSource()
	src.results <- poller.Result{Tick: 7, Records: makeN(2)}

	msg := waitForResult(src.Results())()
	r, ok := msg.(resultMsg)
	require.True(t, ok)
	assert.Equal(t, uint64(7), r.Tick)
	assert.Len(t, r.Records, 2)
}

func TestModel_WindowSize(t *testing.T) {
	m := newTestModel(newFakeSource())
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 50})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 50, m.height)
	assert.True(t, m.chartVisible())

	m, _ = update(m, tea.WindowSizeMsg{Width: 30, Height: 50})
	assert.False(t, m.chartVisible())

	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 20})
	assert.False(t, m.chartVisible())
}

func TestModel_Fetching(t *testing.T) {
	src := newFakeSource()
	m := newTestModel(src)
	assert.False(t, m.Fetching())

	src.inFlight = 1
	assert.True(t, m.Fetching())
	assert.Contains(t, stripANSI(m.View()), "fetching")
}

func TestModel_SettingsReload(t *testing.T) {
	src := newFakeSource()
	m := newTestModel(src)
	m, _ = update(m, success(1, makeN(40)))
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, 2, m.Page())

	t.Run("threshold keeps the page", func(t *testing.T) {
		next, cmd := update(m, SettingsMsg{Threshold: 1000, PageSize: dashboard.DefaultPageSize})
		assert.Nil(t, cmd)
		assert.Equal(t, 2, next.Page())
		assert.Equal(t, 0, next.Derive().Summary.TotalAboveThreshold)
	})

	t.Run("page size resets to first page", func(t *testing.T) {
		next, _ := update(m, SettingsMsg{Threshold: 300, PageSize: 10})
		assert.Equal(t, 1, next.Page())
		assert.Equal(t, 4, next.Derive().TotalPages)
		assert.Len(t, next.Derive().Rows, 10)
	})

	t.Run("zero page size is ignored", func(t *testing.T) {
		next, _ := update(m, SettingsMsg{Threshold: 300})
		assert.Equal(t, 2, next.Page())
		assert.Equal(t, dashboard.DefaultPageSize, next.pageSize)
	})

	t.Run("enabling clamp pulls the page into range", func(t *testing.T) {
		small, _ := update(m, success(2, makeN(3)))
		require.Equal(t, 2, small.Page())
		next, _ := update(small, SettingsMsg{Threshold: 300, PageSize: dashboard.DefaultPageSize, ClampPage: true})
		assert.Equal(t, 1, next.Page())
	})
}

func TestModel_HelpShowsLogPath(t *testing.T) {
	m := NewModel(Options{
		Source:    newFakeSource(),
		Threshold: 300,
		LogPath:   "/tmp/sensordash/sensordash.log",
	})

	m, _ = update(m, keyRune('?'))
	assert.Contains(t, stripANSI(m.View()), "/tmp/sensordash/sensordash.log")

	plain := newTestModel(newFakeSource())
	plain, _ = update(plain, keyRune('?'))
	assert.NotContains(t, stripANSI(plain.View()), "logs")
}
