// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the root Bubble Tea model. It restores the session, shows
// the login screen or the tabbed main view, and returns to login whenever
// the session ends.
package app

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/kouponize121/Jarvis-AI/internal/api"
	"github.com/kouponize121/Jarvis-AI/internal/assistant"
	"github.com/kouponize121/Jarvis-AI/internal/model"
	"github.com/kouponize121/Jarvis-AI/internal/session"
	"github.com/kouponize121/Jarvis-AI/internal/ui/chat"
	"github.com/kouponize121/Jarvis-AI/internal/ui/components"
	dashui "github.com/kouponize121/Jarvis-AI/internal/ui/dashboard"
	"github.com/kouponize121/Jarvis-AI/internal/ui/login"
	"github.com/kouponize121/Jarvis-AI/internal/ui/styles"
	sysui "github.com/kouponize121/Jarvis-AI/internal/ui/system"
)

// =============================================================================
// STATE
// =============================================================================

// State is the top-level screen.
type State int

const (
	StateLoading State = iota // restoring the stored session
	StateOffline              // restore failed on the network
	StateLogin
	StateMain
)

// Tab is a page of the main view.
type Tab int

const (
	TabDashboard Tab = iota
	TabChat
	TabSystem
)

var tabNames = []string{"Dashboard", "Chat", "System"}

// String returns the tab title.
func (t Tab) String() string {
	if t < 0 || int(t) >= len(tabNames) {
		return "Unknown"
	}
	return tabNames[t]
}

// Options wires the shell to its collaborators.
type Options struct {
	Client  *api.Client
	Session *session.Manager
	// History records chat transcripts; nil disables recording.
	History assistant.Recorder
	Logger  *zap.Logger

	ShowLogs bool
	Markdown bool
	// Watch follows the credential file for logins and logouts made by
	// other jarvis processes.
	Watch bool
}

type (
	restoredMsg struct {
		user *api.User
		err  error
	}
	sessionEndedMsg struct {
		reason session.Reason
	}
	watchFailedMsg struct {
		err error
	}
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the root model.
type Model struct {
	theme  *styles.Theme
	opts   Options
	keys   KeyMap
	ctx    context.Context
	logger *zap.Logger

	state      State
	tab        Tab
	user       *api.User
	restoreErr error
	visited    map[Tab]bool

	// ended receives session ends from the manager's callback, which may
	// run on any goroutine.
	ended chan session.Reason

	header    *components.Header
	spinner   components.Spinner
	login     login.Model
	dashboard dashui.Model
	chat      chat.Model
	system    sysui.Model

	width  int
	height int
}

// New creates the shell and registers it for session ends.
func New(ctx context.Context, theme *styles.Theme, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Model{
		theme:   theme,
		opts:    opts,
		keys:    DefaultKeyMap(),
		ctx:     ctx,
		logger:  logger.Named("tui"),
		state:   StateLoading,
		visited: make(map[Tab]bool),
		ended:   make(chan session.Reason, 1),
		header:  components.NewHeader(theme, tabNames...),
		spinner: components.NewSpinner(theme, "Initializing Jarvis AI..."),
		width:   80,
		height:  24,
	}
	m.login = login.New(theme, opts.Session).WithContext(ctx)

	ended := m.ended
	opts.Session.OnLogout(func(r session.Reason) {
		select {
		case ended <- r:
		default:
		}
	})
	return m
}

// State returns the active top-level screen.
func (m *Model) State() State {
	return m.state
}

// Tab returns the active tab of the main view.
func (m *Model) Tab() Tab {
	return m.tab
}

// =============================================================================
// COMMANDS
// =============================================================================

// Init restores the session and starts listening for session ends.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Start(), m.restore(), m.waitForEnd()}
	if m.opts.Watch {
		cmds = append(cmds, m.watch())
	}
	return tea.Batch(cmds...)
}

func (m *Model) restore() tea.Cmd {
	mgr, ctx := m.opts.Session, m.ctx
	return func() tea.Msg {
		user, err := mgr.Restore(ctx)
		return restoredMsg{user: user, err: err}
	}
}

func (m *Model) waitForEnd() tea.Cmd {
	ch, ctx := m.ended, m.ctx
	return func() tea.Msg {
		select {
		case r := <-ch:
			return sessionEndedMsg{reason: r}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *Model) watch() tea.Cmd {
	mgr, ctx := m.opts.Session, m.ctx
	return func() tea.Msg {
		if err := mgr.Watch(ctx); err != nil {
			return watchFailedMsg{err: err}
		}
		return nil
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages for the whole application.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.resize()
		return m, nil

	case restoredMsg:
		return m.handleRestored(msg)

	case components.LoggedInMsg:
		user := msg.User
		return m, m.enterMain(&user)

	case sessionEndedMsg:
		m.logger.Info("session ended", zap.Stringer("reason", msg.reason))
		if m.state == StateMain {
			m.leaveMain("Session ended: " + msg.reason.String())
		}
		return m, m.waitForEnd()

	case watchFailedMsg:
		m.logger.Warn("credential watcher not running", zap.Error(msg.err))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, m.forward(msg)
}

// forward hands a background message to the screens that may own it.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	switch m.state {
	case StateLoading:
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	case StateLogin:
		m.login, cmd = m.login.Update(msg)
		cmds = append(cmds, cmd)
	case StateMain:
		// Results can arrive for a tab that is not shown.
		m.dashboard, cmd = m.dashboard.Update(msg)
		cmds = append(cmds, cmd)
		m.chat, cmd = m.chat.Update(msg)
		cmds = append(cmds, cmd)
		m.system, cmd = m.system.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleRestored(msg restoredMsg) (tea.Model, tea.Cmd) {
	m.spinner.Stop()
	switch {
	case msg.err == nil:
		return m, m.enterMain(msg.user)
	case errors.Is(msg.err, session.ErrNotLoggedIn):
		m.state = StateLogin
	case errors.Is(msg.err, session.ErrTokenExpired):
		m.state = StateLogin
		m.login = m.login.WithNotice("Session expired, please log in again")
	default:
		m.logger.Warn("session restore failed", zap.Error(msg.err))
		m.state = StateOffline
		m.restoreErr = msg.err
		return m, nil
	}
	return m, m.login.Init()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	switch m.state {
	case StateOffline:
		switch {
		case key.Matches(msg, m.keys.Retry):
			m.state = StateLoading
			m.restoreErr = nil
			return m, tea.Batch(m.spinner.Start(), m.restore())
		case key.Matches(msg, m.keys.ToLogin):
			m.state = StateLogin
			return m, m.login.Init()
		}
		return m, nil

	case StateLogin:
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		return m, cmd

	case StateMain:
		return m.handleMainKey(msg)
	}
	return m, nil
}

func (m *Model) handleMainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Logout):
		if err := m.opts.Session.Logout(); err != nil {
			m.logger.Warn("failed to clear session file", zap.Error(err))
		}
		return m, nil
	case key.Matches(msg, m.keys.Dashboard):
		return m, m.switchTab(TabDashboard)
	case key.Matches(msg, m.keys.Chat):
		return m, m.switchTab(TabChat)
	case key.Matches(msg, m.keys.System):
		return m, m.switchTab(TabSystem)
	case key.Matches(msg, m.keys.NextTab):
		return m, m.switchTab((m.tab + 1) % Tab(len(tabNames)))
	case key.Matches(msg, m.keys.PrevTab):
		return m, m.switchTab((m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames)))
	}

	var cmd tea.Cmd
	switch m.tab {
	case TabDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case TabChat:
		m.chat, cmd = m.chat.Update(msg)
	case TabSystem:
		m.system, cmd = m.system.Update(msg)
	}
	return m, cmd
}

// =============================================================================
// SESSION TRANSITIONS
// =============================================================================

// enterMain builds fresh screens for user and opens the dashboard.
func (m *Model) enterMain(user *api.User) tea.Cmd {
	m.state = StateMain
	m.user = user
	m.visited = make(map[Tab]bool)
	m.header.User = user.Name
	m.logger.Info("signed in", zap.Int("user_id", user.ID))

	transcript := model.NewTranscript()
	transcript.UserEmail = user.Email
	a := assistant.New(m.opts.Client).
		WithLogger(m.logger).
		WithTranscript(transcript)
	if m.opts.History != nil {
		a = a.WithRecorder(m.opts.History)
	}

	m.dashboard = dashui.New(m.theme, m.opts.Client, user.Name, m.opts.ShowLogs).WithContext(m.ctx)
	m.chat = chat.New(m.theme, a, m.opts.ShowLogs).WithContext(m.ctx).WithMarkdown(m.opts.Markdown)
	m.system = sysui.New(m.theme, m.opts.Client).WithContext(m.ctx)
	m.resize()

	m.tab = -1
	return m.switchTab(TabDashboard)
}

// leaveMain drops the signed-in screens and shows the login form.
func (m *Model) leaveMain(notice string) {
	m.state = StateLogin
	m.user = nil
	m.header.User = ""
	m.login = login.New(m.theme, m.opts.Session).WithContext(m.ctx).WithNotice(notice)
	m.login.SetSize(m.width, m.height)
}

// switchTab shows tab. The dashboard reloads on every visit; chat and
// system load once per session.
func (m *Model) switchTab(tab Tab) tea.Cmd {
	if tab == m.tab {
		return nil
	}
	m.tab = tab
	m.header.Active = int(tab)
	first := !m.visited[tab]
	m.visited[tab] = true

	switch tab {
	case TabDashboard:
		return m.dashboard.Refresh()
	case TabChat:
		return m.chat.Init()
	case TabSystem:
		if first {
			return m.system.Init()
		}
	}
	return nil
}

func (m *Model) contentHeight() int {
	h := m.height - lipgloss.Height(m.header.View())
	if h < 5 {
		h = 5
	}
	return h
}

func (m *Model) resize() {
	m.header.SetWidth(m.width)
	m.login.SetSize(m.width, m.height)
	if m.state != StateMain {
		return
	}
	h := m.contentHeight()
	m.dashboard.SetSize(m.width, h)
	m.chat.SetSize(m.width, h)
	m.system.SetSize(m.width, h)
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the active screen.
func (m *Model) View() string {
	switch m.state {
	case StateLoading:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.spinner.View())
	case StateOffline:
		return m.offlineView()
	case StateLogin:
		return m.login.View()
	}

	var body string
	switch m.tab {
	case TabChat:
		body = m.chat.View()
	case TabSystem:
		body = m.system.View()
	default:
		body = m.dashboard.View()
	}
	return m.header.View() + "\n" + body
}

func (m *Model) offlineView() string {
	t := m.theme
	var sb strings.Builder
	sb.WriteString(t.Brand.Render("JARVIS") + "\n\n")
	sb.WriteString(t.ErrorStyle.Render("Could not reach the Jarvis server") + "\n")
	if m.restoreErr != nil {
		sb.WriteString(t.Hint.Render(api.Detail(m.restoreErr)) + "\n")
	}
	sb.WriteString("\n" + t.Shortcut("r", "retry", "l", "login", "C-c", "quit"))
	box := t.Panel.Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
