// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strconv"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/kouponize121/Jarvis-AI/internal/assistant"
	"github.com/kouponize121/Jarvis-AI/internal/model"
	"github.com/kouponize121/Jarvis-AI/internal/ui/components"
	"github.com/kouponize121/Jarvis-AI/internal/ui/styles"
)

// pollInterval is how often the screen re-reads the assistant while a
// command runs, so intermediate messages and status changes show up.
const pollInterval = 150 * time.Millisecond

// sideWidth is the width of the activity and log column.
const sideWidth = 40

// =============================================================================
// MESSAGES
// =============================================================================

// doneMsg reports that Init or Submit returned.
type doneMsg struct {
	err error
}

// pollMsg triggers a snapshot refresh while busy.
type pollMsg struct{}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	theme     *styles.Theme
	assistant *assistant.Assistant
	keys      KeyMap
	ctx       context.Context

	// View state
	snap      assistant.Snapshot
	running   bool
	showLogs  bool
	markdown  bool
	statusMsg string

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  components.Spinner

	// Markdown rendering, cached per message ID at the current width.
	renderer      *glamour.TermRenderer
	rendererWidth int
	rendered      map[string]string

	// copy writes to the system clipboard.
	copy func(string) error

	width  int
	height int
}

// New creates the chat screen over a.
func New(theme *styles.Theme, a *assistant.Assistant, showLogs bool) Model {
	input := textinput.New()
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.CharLimit = 4000
	input.Focus()

	m := Model{
		theme:     theme,
		assistant: a,
		keys:      DefaultKeyMap(),
		ctx:       context.Background(),
		snap:      a.Snapshot(),
		showLogs:  showLogs,
		markdown:  true,
		viewport:  viewport.New(80, 20),
		input:     input,
		spinner:   components.NewSpinner(theme, "Jarvis is thinking..."),
		rendered:  make(map[string]string),
		copy:      clipboard.WriteAll,
		width:     80,
		height:    24,
	}
	m.input.Placeholder = m.snap.Placeholder
	return m
}

// WithContext sets the context passed to the assistant.
func (m Model) WithContext(ctx context.Context) Model {
	m.ctx = ctx
	return m
}

// WithMarkdown turns glamour rendering of multi-line replies on or off.
func (m Model) WithMarkdown(on bool) Model {
	m.markdown = on
	m.rendered = make(map[string]string)
	m.updateViewport()
	return m
}

// Assistant returns the assistant behind the screen.
func (m Model) Assistant() *assistant.Assistant {
	return m.assistant
}

// Running reports whether a command is in flight.
func (m Model) Running() bool {
	return m.running
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	w := m.mainWidth()
	m.viewport.Width = w
	// pills (3) + input box (3) + status line (1)
	m.viewport.Height = height - 7
	if m.viewport.Height < 3 {
		m.viewport.Height = 3
	}
	m.input.Width = w - 6
	if w != m.rendererWidth {
		m.renderer = nil
		m.rendered = make(map[string]string)
	}
	m.updateViewport()
}

func (m Model) sideVisible() bool {
	return m.showLogs && m.width >= 100
}

func (m Model) mainWidth() int {
	if m.sideVisible() {
		return m.width - sideWidth - 1
	}
	return m.width
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init runs the assistant's startup check unless it already ran.
func (m *Model) Init() tea.Cmd {
	if m.snap.Initialized || m.running {
		return textinput.Blink
	}
	a, ctx := m.assistant, m.ctx
	return tea.Batch(textinput.Blink, m.start(func() error {
		return a.Init(ctx)
	}))
}

// start marks the screen busy and runs fn in a command.
func (m *Model) start(fn func() error) tea.Cmd {
	m.running = true
	m.statusMsg = ""
	return tea.Batch(
		m.spinner.Start(),
		func() tea.Msg { return doneMsg{err: fn()} },
		poll(),
	)
}

func poll() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return pollMsg{} })
}

// Update handles messages for the chat screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.running = false
		m.spinner.Stop()
		if msg.err != nil {
			m.statusMsg = msg.err.Error()
		}
		m.sync()
		return m, nil

	case pollMsg:
		if !m.running {
			return m, nil
		}
		m.sync()
		return m, poll()

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
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	case key.Matches(msg, m.keys.Home):
		m.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.End):
		m.viewport.GotoBottom()
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		return m.copyLastReply(), nil
	case key.Matches(msg, m.keys.ToggleLogs):
		m.showLogs = !m.showLogs
		m.SetSize(m.width, m.height)
		return m, nil
	}

	// The input is disabled while Jarvis works.
	if m.running {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Clear):
		m.input.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit hands the input line to the assistant.
func (m Model) submit() (Model, tea.Cmd) {
	text := m.input.Value()
	if text == "" {
		return m, nil
	}
	m.input.Reset()
	a, ctx := m.assistant, m.ctx
	cmd := m.start(func() error {
		return a.Submit(ctx, text)
	})
	return m, cmd
}

// sync reads a fresh snapshot and redraws.
func (m *Model) sync() {
	m.snap = m.assistant.Snapshot()
	m.input.Placeholder = m.snap.Placeholder
	m.updateViewport()
}

// copyLastReply copies the newest Jarvis message to the clipboard.
func (m Model) copyLastReply() Model {
	var last *model.Message
	for i := len(m.snap.Messages) - 1; i >= 0; i-- {
		if m.snap.Messages[i].Kind == model.KindJarvis {
			last = m.snap.Messages[i]
			break
		}
	}
	if last == nil || last.Content == "" {
		m.statusMsg = "No response to copy"
		return m
	}
	if err := m.copy(last.Content); err != nil {
		m.statusMsg = "Failed to copy to clipboard: " + err.Error()
		return m
	}
	m.statusMsg = "Copied " + strconv.Itoa(len([]rune(last.Content))) + " chars"
	return m
}
