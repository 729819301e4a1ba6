package monitor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/sensordash/internal/dashboard"
)

// keyMap holds the dashboard key bindings. It implements help.KeyMap.
type keyMap struct {
	Previous key.Binding
	Next     key.Binding
	Refresh  key.Binding
	Metrics  key.Binding
	Chart    key.Binding
	Help     key.Binding
	Close    key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Previous: key.NewBinding(
			key.WithKeys("left", "h", "p"),
			key.WithHelp("←/h/p", "previous page"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l", "n"),
			key.WithHelp("→/l/n", "next page"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh now"),
		),
		Metrics: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "toggle metrics"),
		),
		Chart: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "toggle chart"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp is shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Previous, k.Next, k.Refresh, k.Help, k.Quit}
}

// FullHelp is shown in the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Previous, k.Next},
		{k.Refresh, k.Metrics, k.Chart},
		{k.Help, k.Close, k.Quit},
	}
}

// HandleKeyMsg processes keyboard input. It returns true if the key was handled.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	// Help toggle takes priority
	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if m.showHelp && key.Matches(msg, m.keys.Close) {
		m.showHelp = false
		return true, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quit()
		return true, tea.Quit

	case key.Matches(msg, m.keys.Previous):
		m.page = dashboard.PreviousPage(m.page)
		return true, nil

	case key.Matches(msg, m.keys.Next):
		m.page = dashboard.NextPage(m.page, m.totalPages())
		return true, nil

	case key.Matches(msg, m.keys.Refresh):
		m.log.Debug("manual refresh requested")
		m.source.Refresh()
		return true, nil

	case key.Matches(msg, m.keys.Metrics):
		m.showMetrics = !m.showMetrics
		return true, nil

	case key.Matches(msg, m.keys.Chart):
		m.showChart = !m.showChart
		return true, nil
	}

	return false, nil
}
