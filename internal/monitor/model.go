package monitor

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/sensordash/internal/dashboard"
	"github.com/rileyhilliard/sensordash/internal/logger"
	"github.com/rileyhilliard/sensordash/internal/poller"
	"github.com/rileyhilliard/sensordash/internal/sensor"
	"github.com/rileyhilliard/sensordash/internal/ui"
)

// Source feeds the model with fetch results. *poller.Poller satisfies it.
type Source interface {
	Results() <-chan poller.Result
	Refresh()
	Stop()
	InFlight() int
}

// Layout breakpoints
const (
	// Below this width the chart is hidden regardless of the toggle.
	MinChartWidth = 40
	// Below this height the chart is hidden regardless of the toggle.
	MinChartHeight = 30

	defaultWidth = 100
	chartHeight  = 8
)

// clockInterval drives the "last update" label between results.
const clockInterval = time.Second

// Options configures a Model.
type Options struct {
	Source    Source
	Endpoint  string
	Interval  time.Duration
	Threshold float64
	PageSize  int
	// ClampPage pulls the current page back into range when a refresh
	// shrinks the record set.
	ClampPage bool
	// LogPath is shown in the help overlay so failures can be looked up.
	LogPath   string
	Logger    logger.Logger
}

// Model is the Bubble Tea model for the sensor dashboard. All dashboard
// state lives here and is only mutated from Update.
type Model struct {
	source  Source
	results <-chan poller.Result

	endpoint  string
	interval  time.Duration
	threshold float64
	pageSize  int
	clampPage bool
	logPath   string

	records    []sensor.Record
	page       int
	loaded     bool
	lastUpdate time.Time

	lastErr  error
	failures int

	showMetrics bool
	showChart   bool
	showHelp    bool

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	width    int
	height   int
	quitting bool
	closed   bool

	log logger.Logger
}

// resultMsg carries one delivered poller result.
type resultMsg poller.Result

// resultsClosedMsg signals that the poller has shut down.
type resultsClosedMsg struct{}

// clockMsg re-renders relative timestamps.
type clockMsg time.Time

// SettingsMsg swaps the live display settings, typically after the config
// file changed on disk.
type SettingsMsg struct {
	Threshold float64
	PageSize  int
	ClampPage bool
}

// NewModel creates a dashboard model reading from opts.Source.
func NewModel(opts Options) Model {
	if opts.PageSize <= 0 {
		opts.PageSize = dashboard.DefaultPageSize
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}

	h := help.New()
	h.Styles.ShortKey = LabelStyle
	h.Styles.ShortDesc = MutedStyle
	h.Styles.ShortSeparator = MutedStyle

	return Model{
		source:      opts.Source,
		results:     opts.Source.Results(),
		endpoint:    opts.Endpoint,
		interval:    opts.Interval,
		threshold:   opts.Threshold,
		pageSize:    opts.PageSize,
		clampPage:   opts.ClampPage,
		logPath:     opts.LogPath,
		records:     []sensor.Record{},
		page:        1,
		showMetrics: true,
		showChart:   true,
		keys:        defaultKeyMap(),
		help:        h,
		spinner:     ui.NewBubbleSpinner(),
		log:         opts.Logger,
	}
}

// Init starts listening for results and the animation clocks.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForResult(m.results),
		m.spinner.Tick,
		clockCmd(),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.HandleKeyMsg(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case resultMsg:
		m.applyResult(poller.Result(msg))
		return m, waitForResult(m.results)

	case resultsClosedMsg:
		m.closed = true

	case SettingsMsg:
		m.applySettings(msg)

	case clockMsg:
		return m, clockCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

// waitForResult blocks on the results channel and re-arms from Update after
// each message, so results are applied in delivery order.
func waitForResult(results <-chan poller.Result) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-results
		if !ok {
			return resultsClosedMsg{}
		}
		return resultMsg(r)
	}
}

func clockCmd() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

// applyResult replaces the record set on success. A failure is kept for
// diagnostics only and leaves everything on screen untouched.
func (m *Model) applyResult(r poller.Result) {
	if r.Err != nil {
		m.lastErr = r.Err
		m.failures++
		m.log.Debug("tick %d failed (%d in a row), keeping previous records", r.Tick, m.failures)
		return
	}

	m.records = r.Records
	if m.records == nil {
		m.records = []sensor.Record{}
	}
	m.loaded = true
	m.lastUpdate = r.Finished
	m.lastErr = nil
	m.failures = 0

	if m.clampPage {
		m.page = dashboard.ClampPage(m.page, m.totalPages())
	}
}

// applySettings takes new display settings. A page size change starts over
// at page 1 since the old page number no longer points at the same rows.
func (m *Model) applySettings(s SettingsMsg) {
	m.threshold = s.Threshold
	m.clampPage = s.ClampPage
	if s.PageSize > 0 && s.PageSize != m.pageSize {
		m.pageSize = s.PageSize
		m.page = 1
	}
	if m.clampPage {
		m.page = dashboard.ClampPage(m.page, m.totalPages())
	}
	m.log.Info("settings reloaded: threshold %s cm, %d rows per page", dashboard.FormatFixed2(m.threshold), m.pageSize)
}

// quit stops the source and marks the model as done. Safe to call repeatedly.
func (m *Model) quit() {
	if m.quitting {
		return
	}
	m.quitting = true
	m.source.Stop()
}

// Derive returns the derived view for the current state.
func (m Model) Derive() dashboard.View {
	return dashboard.Derive(dashboard.State{
		Records:   m.records,
		Page:      m.page,
		PageSize:  m.pageSize,
		Threshold: m.threshold,
	})
}

func (m Model) totalPages() int {
	return dashboard.TotalPages(len(m.records), m.pageSize)
}

// Page returns the current page number.
func (m Model) Page() int {
	return m.page
}

// Records returns the records currently displayed.
func (m Model) Records() []sensor.Record {
	return m.records
}

// LastError returns the most recent fetch error, or nil after a success.
func (m Model) LastError() error {
	return m.lastErr
}

// Fetching reports whether a fetch is in flight.
func (m Model) Fetching() bool {
	return m.source.InFlight() > 0
}

// chartVisible reports whether the chart fits and is toggled on.
func (m Model) chartVisible() bool {
	if !m.showChart {
		return false
	}
	if m.width != 0 && m.width < MinChartWidth {
		return false
	}
	if m.height != 0 && m.height < MinChartHeight {
		return false
	}
	return true
}

func (m Model) contentWidth() int {
	if m.width == 0 {
		return defaultWidth
	}
	return m.width
}
