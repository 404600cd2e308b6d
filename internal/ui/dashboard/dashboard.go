// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dashboard is the dashboard screen: four summary panels and the
// system log.
package dashboard

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kouponize121/Jarvis-AI/internal/api"
	core "github.com/kouponize121/Jarvis-AI/internal/dashboard"
	"github.com/kouponize121/Jarvis-AI/internal/model"
	"github.com/kouponize121/Jarvis-AI/internal/ui/components"
	"github.com/kouponize121/Jarvis-AI/internal/ui/styles"
)

const logWidth = 44

// KeyMap defines the dashboard bindings.
type KeyMap struct {
	Refresh  key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

// DefaultKeyMap returns the default dashboard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Refresh:  key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "refresh")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "scroll up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "scroll down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("PgUp", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", " "), key.WithHelp("PgDn", "page down")),
	}
}

type loadedMsg struct {
	snap *core.Snapshot
	err  error
}

// Model is the dashboard screen.
type Model struct {
	theme  *styles.Theme
	client core.Client
	keys   KeyMap
	ctx    context.Context

	user     string
	showLogs bool

	snap    *core.Snapshot
	logs    []model.LogEntry
	loading bool
	banner  components.Banner
	spinner components.Spinner

	viewport viewport.Model
	width    int
	height   int
}

// New creates the dashboard for user. showLogs adds the system log column
// on wide terminals.
func New(theme *styles.Theme, client core.Client, user string, showLogs bool) Model {
	return Model{
		theme:    theme,
		client:   client,
		keys:     DefaultKeyMap(),
		ctx:      context.Background(),
		user:     user,
		showLogs: showLogs,
		spinner:  components.NewSpinner(theme, "Loading dashboard..."),
		viewport: viewport.New(80, 20),
		width:    80,
		height:   20,
	}
}

// WithContext sets the context used for requests.
func (m Model) WithContext(ctx context.Context) Model {
	m.ctx = ctx
	return m
}

// Loading reports whether a fetch is in flight.
func (m Model) Loading() bool {
	return m.loading
}

// Snapshot returns the last loaded snapshot, or nil.
func (m Model) Snapshot() *core.Snapshot {
	return m.snap
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	m.viewport.Width = width
	m.viewport.Height = height - 2 // banner/status line
	if m.viewport.Height < 3 {
		m.viewport.Height = 3
	}
	m.refreshContent()
}

// Init loads the dashboard.
func (m *Model) Init() tea.Cmd {
	return m.Refresh()
}

// Refresh starts a fetch unless one is running.
func (m *Model) Refresh() tea.Cmd {
	if m.loading {
		return nil
	}
	m.loading = true
	m.banner = components.Banner{}
	client, ctx := m.client, m.ctx
	return tea.Batch(m.spinner.Start(), func() tea.Msg {
		snap, err := core.Fetch(ctx, client)
		return loadedMsg{snap: snap, err: err}
	})
}

// Update handles key presses and fetch results.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		m.spinner.Stop()
		if msg.err != nil {
			m.banner = components.ErrorBanner("Failed to load dashboard: " + api.Detail(msg.err))
			m.logs = append(m.logs, model.NewLogEntry("Dashboard load failed"))
		} else {
			m.snap = msg.snap
			m.logs = msg.snap.Logs(m.user)
		}
		m.refreshContent()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Refresh):
			return m, m.Refresh()
		case key.Matches(msg, m.keys.Up):
			m.viewport.LineUp(1)
		case key.Matches(msg, m.keys.Down):
			m.viewport.LineDown(1)
		case key.Matches(msg, m.keys.PageUp):
			m.viewport.HalfViewUp()
		case key.Matches(msg, m.keys.PageDown):
			m.viewport.HalfViewDown()
		}
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

// refreshContent lays the panels out into the viewport.
func (m *Model) refreshContent() {
	if m.snap == nil {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(m.layout())
}

func (m *Model) layout() string {
	panels := m.snap.Panels()
	width := m.width
	withLogs := m.showLogs && width >= 110
	if withLogs {
		width -= logWidth + 1
	}

	var body string
	if width >= 80 {
		half := width / 2
		rows := []string{
			lipgloss.JoinHorizontal(lipgloss.Top,
				components.DashboardPanel(m.theme, panels[0], half, 0),
				components.DashboardPanel(m.theme, panels[1], width-half, 0)),
			lipgloss.JoinHorizontal(lipgloss.Top,
				components.DashboardPanel(m.theme, panels[2], half, 0),
				components.DashboardPanel(m.theme, panels[3], width-half, 0)),
		}
		body = lipgloss.JoinVertical(lipgloss.Left, rows...)
	} else {
		views := make([]string, len(panels))
		for i, p := range panels {
			views[i] = components.DashboardPanel(m.theme, p, width, 0)
		}
		body = lipgloss.JoinVertical(lipgloss.Left, views...)
	}

	if withLogs {
		logs := components.LogPanel(m.theme, "System Logs", m.logs, logWidth, lipgloss.Height(body))
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", logs)
	}
	return body
}

// View renders the screen.
func (m Model) View() string {
	t := m.theme
	var sb strings.Builder

	if b := m.banner.View(t, m.width); b != "" {
		sb.WriteString(b + "\n")
	}
	if m.snap == nil {
		if m.loading {
			sb.WriteString(m.spinner.View())
		} else {
			sb.WriteString(t.Hint.Render("No dashboard data. Press r to retry."))
		}
		return sb.String()
	}

	sb.WriteString(m.viewport.View() + "\n")
	status := t.Hint.Render("Updated " + m.snap.LoadedAt.Format(core.TimeLayout))
	if m.loading {
		status = m.spinner.View()
	}
	sb.WriteString(status + "  " + t.Shortcut("r", "refresh", "j/k", "scroll"))
	return sb.String()
}
