// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login is the sign-in and registration screen.
package login

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kouponize121/Jarvis-AI/internal/api"
	"github.com/kouponize121/Jarvis-AI/internal/ui/components"
	"github.com/kouponize121/Jarvis-AI/internal/ui/styles"
	"github.com/kouponize121/Jarvis-AI/internal/validate"
)

// Authenticator signs users in. *session.Manager implements it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*api.User, error)
	Register(ctx context.Context, req api.RegisterRequest) (string, error)
}

// Mode selects the login or registration form.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

const fallbackError = "An error occurred"

// features is the welcome column shown beside the form on wide terminals.
var features = [][2]string{
	{"AI-Powered Assistant", "Chat with Jarvis to get tasks done"},
	{"Meeting Management", "Take notes and generate Minutes of Meeting"},
	{"Task & Todo Management", "Assign and track work with email notifications"},
	{"Email Automation", "Draft and send emails over SMTP"},
	{"System Integration", "Connect the OpenAI API and your mail server"},
	{"Dashboard & Analytics", "Meetings, tasks, todos and emails at a glance"},
}

// Messages carrying request results back into Update.
type (
	loginDoneMsg struct {
		user *api.User
		err  error
	}
	registerDoneMsg struct {
		email   string
		message string
		err     error
	}
)

// Model is the login screen.
type Model struct {
	theme *styles.Theme
	auth  Authenticator
	keys  KeyMap
	ctx   context.Context

	mode       Mode
	login      components.Form
	register   components.Form
	banner     components.Banner
	spinner    components.Spinner
	processing bool

	width  int
	height int
}

// New creates the login screen in login mode.
func New(theme *styles.Theme, auth Authenticator) Model {
	return Model{
		theme:    theme,
		auth:     auth,
		keys:     DefaultKeyMap(),
		ctx:      context.Background(),
		login:    newLoginForm(),
		register: newRegisterForm(),
		spinner:  components.NewSpinner(theme, "Processing..."),
		width:    80,
		height:   24,
	}
}

func newLoginForm() components.Form {
	return components.NewForm(
		components.NewField("email", "Email", "Enter your email", false),
		components.NewField("password", "Password", "Enter your password", true),
	)
}

func newRegisterForm() components.Form {
	return components.NewForm(
		components.NewField("name", "Name", "Enter your name", false),
		components.NewField("email", "Email", "Enter your email", false),
		components.NewField("password", "Password", "Enter your password", true),
		components.NewField("security_question", "Security Question", "What's your favorite color?", false).
			WithHint("Optional, used to reset a forgotten password"),
		components.NewField("security_answer", "Security Answer", "Enter your answer", false),
	)
}

// WithContext sets the context used for requests.
func (m Model) WithContext(ctx context.Context) Model {
	m.ctx = ctx
	return m
}

// WithNotice shows an info banner, for example why the last session ended.
func (m Model) WithNotice(text string) Model {
	if text != "" {
		m.banner = components.InfoBanner(text)
	}
	return m
}

// Mode returns the active form.
func (m Model) Mode() Mode {
	return m.mode
}

// Processing reports whether a request is in flight.
func (m Model) Processing() bool {
	return m.processing
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	w := formWidth(width)
	m.login.SetWidth(w)
	m.register.SetWidth(w)
}

func formWidth(width int) int {
	w := width - 8
	if w > 60 {
		w = 60
	}
	if w < 24 {
		w = 24
	}
	return w
}

func (m *Model) form() *components.Form {
	if m.mode == ModeRegister {
		return &m.register
	}
	return &m.login
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses and request results.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case loginDoneMsg:
		m.processing = false
		m.spinner.Stop()
		if msg.err != nil {
			m.showError(msg.err)
			return m, nil
		}
		user := *msg.user
		m.login.Reset()
		m.banner = components.Banner{}
		return m, func() tea.Msg { return components.LoggedInMsg{User: user} }

	case registerDoneMsg:
		m.processing = false
		m.spinner.Stop()
		if msg.err != nil {
			m.showError(msg.err)
			return m, nil
		}
		m.register.Reset()
		m.login.Reset()
		m.login.SetValue("email", msg.email)
		m.mode = ModeLogin
		m.banner = components.SuccessBanner(msg.message, 0)
		return m, m.login.FocusIndex(1)

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.processing {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Toggle):
		return m.toggle()
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Next):
		return m, m.form().Next()
	case key.Matches(msg, m.keys.Prev):
		return m, m.form().Prev()
	}

	var cmd tea.Cmd
	if m.mode == ModeRegister {
		m.register, cmd = m.register.Update(msg)
	} else {
		m.login, cmd = m.login.Update(msg)
	}
	return m, cmd
}

// toggle switches forms and clears both.
func (m Model) toggle() (Model, tea.Cmd) {
	if m.mode == ModeLogin {
		m.mode = ModeRegister
	} else {
		m.mode = ModeLogin
	}
	m.banner = components.Banner{}
	m.login.Reset()
	m.register.Reset()
	return m, m.form().FocusIndex(0)
}

func (m *Model) showError(err error) {
	text := api.Detail(err)
	if rest := m.form().SetErrors(err); rest != "" {
		text = rest
	} else if m.form().HasErrors() {
		text = "Please fix the highlighted fields"
	}
	if strings.TrimSpace(text) == "" {
		text = fallbackError
	}
	m.banner = components.ErrorBanner(text)
}

func (m Model) submit() (Model, tea.Cmd) {
	m.banner = components.Banner{}
	m.form().ClearErrors()

	if m.mode == ModeLogin {
		req := api.LoginRequest{
			Email:    m.login.Value("email"),
			Password: m.login.Raw("password"),
		}
		if err := validate.Struct(req); err != nil {
			m.showError(err)
			return m, nil
		}
		m.processing = true
		auth, ctx := m.auth, m.ctx
		return m, tea.Batch(m.spinner.Start(), func() tea.Msg {
			user, err := auth.Login(ctx, req.Email, req.Password)
			return loginDoneMsg{user: user, err: err}
		})
	}

	req := api.RegisterRequest{
		Name:             m.register.Value("name"),
		Email:            m.register.Value("email"),
		Password:         m.register.Raw("password"),
		SecurityQuestion: m.register.Value("security_question"),
		SecurityAnswer:   m.register.Value("security_answer"),
	}
	if err := validate.Struct(req); err != nil {
		m.showError(err)
		return m, nil
	}
	m.processing = true
	auth, ctx := m.auth, m.ctx
	return m, tea.Batch(m.spinner.Start(), func() tea.Msg {
		text, err := auth.Register(ctx, req)
		return registerDoneMsg{email: req.Email, message: text, err: err}
	})
}

// View renders the centered form.
func (m Model) View() string {
	w := formWidth(m.width)
	t := m.theme

	title := "JARVIS LOGIN"
	button := "LOGIN"
	toggle := "Need an account? Register here"
	if m.mode == ModeRegister {
		title = "JARVIS REGISTER"
		button = "REGISTER"
		toggle = "Already have an account? Login here"
	}

	var sb strings.Builder
	sb.WriteString(t.Title.Render(title) + "\n\n")
	if b := m.banner.View(t, w); b != "" {
		sb.WriteString(b + "\n\n")
	}
	f := m.login
	if m.mode == ModeRegister {
		f = m.register
	}
	sb.WriteString(f.View(t, w) + "\n")
	if m.processing {
		sb.WriteString(m.spinner.View())
	} else {
		sb.WriteString(t.ButtonActive.Render(button))
	}
	sb.WriteString("\n\n" + t.Shortcut("Enter", button, "Tab", "next field", "C-r", toggle))

	box := t.Panel.Width(w + 2).Render(sb.String())
	if m.width >= w+4+42 {
		box = lipgloss.JoinHorizontal(lipgloss.Center, m.welcome(38), "  ", box)
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) welcome(width int) string {
	t := m.theme
	var sb strings.Builder
	sb.WriteString(t.Brand.Render("JARVIS") + "\n")
	sb.WriteString(t.Greeting.Render("Your AI-powered productivity assistant") + "\n")
	for _, f := range features {
		sb.WriteString("\n" + t.RowTitle.Render("> "+f[0]) + "\n")
		sb.WriteString(t.RowDetail.Render("  "+f[1]) + "\n")
	}
	return lipgloss.NewStyle().Width(width).Render(sb.String())
}
