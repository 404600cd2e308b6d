// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package system is the settings screen: connection status, the OpenAI and
// SMTP form, and the setup guide.
package system

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kouponize121/Jarvis-AI/internal/api"
	core "github.com/kouponize121/Jarvis-AI/internal/system"
	"github.com/kouponize121/Jarvis-AI/internal/ui/components"
	"github.com/kouponize121/Jarvis-AI/internal/ui/styles"
)

// recheckDelay is how long after a save the status is checked again.
const recheckDelay = time.Second

const (
	guideWidth  = 40
	storedHint  = "Stored on the server. Re-enter it before saving to keep it."
	statusTitle = "System Status"
)

// KeyMap defines the settings bindings.
type KeyMap struct {
	Save     key.Binding
	Check    key.Binding
	ForceChk key.Binding
	Next     key.Binding
	Prev     key.Binding
	Submit   key.Binding
	Blur     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

// DefaultKeyMap returns the default settings bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("C-s", "save")),
		Check:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "check status")),
		ForceChk: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("C-r", "check status")),
		Next:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("Tab", "next field")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("S-Tab", "previous field")),
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "next/save")),
		Blur:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "leave form")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("PgUp", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("PgDn", "page down")),
	}
}

type (
	loadedMsg struct {
		status *api.SystemStatus
		form   core.Form
		err    error
	}
	statusMsg struct {
		status *api.SystemStatus
		err    error
	}
	savedMsg struct {
		res *api.ConfigUpdateResult
		err error
	}
	recheckMsg struct{}
)

// Model is the settings screen.
type Model struct {
	theme  *styles.Theme
	client core.Client
	keys   KeyMap
	ctx    context.Context

	status         *api.SystemStatus
	form           components.Form
	openAIStored   bool
	smtpPassStored bool

	loading  bool
	checking bool
	saving   bool
	banner   components.Banner
	spinner  components.Spinner

	viewport viewport.Model
	width    int
	height   int
}

// New creates the settings screen.
func New(theme *styles.Theme, client core.Client) Model {
	m := Model{
		theme:    theme,
		client:   client,
		keys:     DefaultKeyMap(),
		ctx:      context.Background(),
		form:     newForm(),
		spinner:  components.NewSpinner(theme, "Checking system..."),
		viewport: viewport.New(80, 20),
		width:    80,
		height:   24,
	}
	m.form.Blur()
	return m
}

func newForm() components.Form {
	return components.NewForm(
		components.NewField("openai_key", "OpenAI API Key", "sk-...", true),
		components.NewField("smtp_host", "SMTP Host", "smtp.gmail.com", false),
		components.NewField("smtp_port", "SMTP Port", strconv.Itoa(core.DefaultSMTPPort), false),
		components.NewField("smtp_user", "SMTP User", "your-email@gmail.com", false),
		components.NewField("smtp_pass", "SMTP Password", "App password", true),
	)
}

// WithContext sets the context used for requests.
func (m Model) WithContext(ctx context.Context) Model {
	m.ctx = ctx
	return m
}

// Busy reports whether a request is in flight.
func (m Model) Busy() bool {
	return m.loading || m.checking || m.saving
}

// Status returns the last fetched status, or nil.
func (m Model) Status() *api.SystemStatus {
	return m.status
}

// Editing reports whether a form field has focus. The shell leaves plain
// letter keys to the screen while it does.
func (m Model) Editing() bool {
	return m.form.Focused() >= 0
}

// Form returns the form as currently typed.
func (m Model) Form() core.Form {
	return core.Form{
		OpenAIKey:       m.form.Raw("openai_key"),
		SMTPHost:        m.form.Raw("smtp_host"),
		SMTPPort:        m.form.Raw("smtp_port"),
		SMTPUser:        m.form.Raw("smtp_user"),
		SMTPPass:        m.form.Raw("smtp_pass"),
		OpenAIKeyStored: m.openAIStored,
		SMTPPassStored:  m.smtpPassStored,
	}
}

func (m *Model) setForm(f core.Form) {
	m.form.SetValue("openai_key", f.OpenAIKey)
	m.form.SetValue("smtp_host", f.SMTPHost)
	m.form.SetValue("smtp_port", f.SMTPPort)
	m.form.SetValue("smtp_user", f.SMTPUser)
	m.form.SetValue("smtp_pass", f.SMTPPass)
	m.openAIStored = f.OpenAIKeyStored
	m.smtpPassStored = f.SMTPPassStored
	m.form.Fields[0].Hint = ""
	m.form.Fields[4].Hint = ""
	if f.OpenAIKeyStored {
		m.form.Fields[0].Hint = storedHint
	}
	if f.SMTPPassStored {
		m.form.Fields[4].Hint = storedHint
	}
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	m.viewport.Width = width
	m.viewport.Height = height - 1 // status line
	if m.viewport.Height < 3 {
		m.viewport.Height = 3
	}
	m.form.SetWidth(m.formWidth())
}

func (m Model) guideVisible() bool {
	return m.width >= 100
}

func (m Model) formWidth() int {
	w := m.width
	if m.guideVisible() {
		w -= guideWidth + 1
	}
	if w > 72 {
		w = 72
	}
	if w < 24 {
		w = 24
	}
	return w
}

// =============================================================================
// COMMANDS
// =============================================================================

// Init loads status and config.
func (m *Model) Init() tea.Cmd {
	if m.loading {
		return nil
	}
	m.loading = true
	m.spinner.SetMessage("Loading configuration...")
	client, ctx := m.client, m.ctx
	return tea.Batch(m.spinner.Start(), func() tea.Msg {
		st, f, err := core.Load(ctx, client)
		return loadedMsg{status: st, form: f, err: err}
	})
}

// Check re-runs the status check without touching the form.
func (m *Model) Check() tea.Cmd {
	if m.Busy() {
		return nil
	}
	m.checking = true
	m.spinner.SetMessage("Checking system...")
	client, ctx := m.client, m.ctx
	return tea.Batch(m.spinner.Start(), func() tea.Msg {
		st, err := client.SystemStatus(ctx)
		return statusMsg{status: st, err: err}
	})
}

func (m *Model) save() tea.Cmd {
	if m.Busy() {
		return nil
	}
	m.banner = components.Banner{}
	f := m.Form()
	if err := f.Validate(); err != nil {
		m.showError(err)
		return nil
	}
	m.form.ClearErrors()
	m.saving = true
	m.spinner.SetMessage("Saving configuration...")
	client, ctx := m.client, m.ctx
	return tea.Batch(m.spinner.Start(), func() tea.Msg {
		res, err := core.Save(ctx, client, f)
		return savedMsg{res: res, err: err}
	})
}

func (m *Model) showError(err error) {
	text := core.SaveFailure(err)
	if rest := m.form.SetErrors(err); rest != "" {
		text = "Failed to save configuration: " + rest
	} else if m.form.HasErrors() {
		text = "Please fix the highlighted fields"
	}
	m.banner = components.ErrorBanner(text)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles key presses and request results.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		m.spinner.Stop()
		if msg.status != nil {
			m.status = msg.status
		}
		m.setForm(msg.form)
		if msg.err != nil {
			m.banner = components.ErrorBanner("Failed to load configuration: " + api.Detail(msg.err))
		}
		return m, nil

	case statusMsg:
		m.checking = false
		m.spinner.Stop()
		if msg.err != nil {
			m.banner = components.ErrorBanner("Status check failed: " + api.Detail(msg.err))
			return m, nil
		}
		m.status = msg.status
		return m, nil

	case savedMsg:
		m.saving = false
		m.spinner.Stop()
		if msg.err != nil {
			m.showError(msg.err)
			return m, nil
		}
		m.banner = components.SuccessBanner(msg.res.Message, 0)
		return m, tea.Tick(recheckDelay, func(time.Time) tea.Msg { return recheckMsg{} })

	case recheckMsg:
		return m, m.Init()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)
	m.form, cmd = m.form.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save):
		return m, m.save()
	case key.Matches(msg, m.keys.ForceChk):
		return m, m.Check()
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	case key.Matches(msg, m.keys.Next):
		return m, m.form.Next()
	case key.Matches(msg, m.keys.Prev):
		return m, m.form.Prev()
	}

	if !m.Editing() {
		switch {
		case key.Matches(msg, m.keys.Check):
			return m, m.Check()
		case key.Matches(msg, m.keys.Submit):
			return m, m.form.FocusIndex(0)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Blur):
		m.form.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		if m.form.Last() {
			return m, m.save()
		}
		return m, m.form.Next()
	}

	if m.saving {
		return m, nil
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the screen.
func (m Model) View() string {
	t := m.theme
	fw := m.formWidth()

	var sb strings.Builder
	if b := m.banner.View(t, fw); b != "" {
		sb.WriteString(b + "\n\n")
	}
	sb.WriteString(m.renderStatus(fw) + "\n\n")
	sb.WriteString(t.Title.Render("Configuration") + "\n")
	sb.WriteString(m.form.View(t, fw))
	for _, w := range m.Form().Warnings() {
		sb.WriteString("\n" + t.WarningStyle.Width(fw).Render("! "+w))
	}
	body := sb.String()
	if m.guideVisible() {
		guide := components.Box(t, "Setup Guide", strings.Split(core.SetupGuide, "\n"), guideWidth, 0)
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", guide)
	}

	vp := m.viewport
	vp.SetContent(body)

	var status string
	switch {
	case m.Busy():
		status = m.spinner.View()
	case m.Editing():
		status = t.Shortcut("Tab", "next field", "C-s", "save", "Esc", "leave form", "C-r", "check")
	default:
		status = t.Shortcut("Enter", "edit", "C-s", "save", "r", "check status")
	}
	return vp.View() + "\n" + status
}

func (m Model) renderStatus(width int) string {
	t := m.theme
	var lines []string
	for _, c := range core.Checks(m.status) {
		style := t.ErrorStyle
		if c.OK {
			style = t.SuccessStyle
		}
		lines = append(lines, t.RowTitle.Render(padRight(c.Name+":", 12))+style.Render(c.Label()))
	}
	if m.status != nil && strings.TrimSpace(m.status.Message) != "" {
		lines = append(lines, "")
		for _, l := range strings.Split(m.status.Message, "\n") {
			lines = append(lines, t.RowDetail.Render(l))
		}
	}
	if m.status == nil {
		lines = append(lines, t.Hint.Render("Status not checked yet. Press r to check."))
	}
	return t.Panel.Width(width - 2).Render(t.PanelTitle.Render(statusTitle) + "\n" + strings.Join(lines, "\n"))
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s + " "
	}
	return s + strings.Repeat(" ", n-len(s))
}
