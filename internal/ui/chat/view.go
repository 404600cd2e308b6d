// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/kouponize121/Jarvis-AI/internal/assistant"
	"github.com/kouponize121/Jarvis-AI/internal/model"
	"github.com/kouponize121/Jarvis-AI/internal/ui/components"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat screen.
func (m Model) View() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.renderPills(),
		m.renderInput(),
		m.renderStatusBar(),
	)
	if !m.sideVisible() {
		return body
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, body, " ", m.renderSide())
}

// updateViewport re-renders the transcript and keeps the newest message in
// view.
func (m *Model) updateViewport() {
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

func (m *Model) renderMessages() string {
	if len(m.snap.Messages) == 0 {
		return m.theme.Hint.Render("Say \"start meeting\" to begin a meeting, or \"help\" for commands.")
	}
	parts := make([]string, 0, len(m.snap.Messages))
	for _, msg := range m.snap.Messages {
		parts = append(parts, m.renderMessage(msg))
	}
	return strings.Join(parts, "\n\n")
}

// renderMessage renders one message with its timestamp and sender.
func (m *Model) renderMessage(msg *model.Message) string {
	t := m.theme
	style := t.SystemMessage
	switch msg.Kind {
	case model.KindUser:
		style = t.UserMessage
	case model.KindJarvis:
		style = t.JarvisMessage
	}

	header := t.Timestamp.Render("["+msg.TimeLabel()+"]") + " " +
		t.Sender.Inherit(style).Render(msg.Kind.DisplayName())

	width := m.viewport.Width - 2
	if width < 10 {
		width = 10
	}
	var body string
	if m.markdown && msg.Kind == model.KindJarvis && msg.IsMultiline() {
		body = m.renderMarkdown(msg, width)
	} else {
		body = style.Width(width).Render(msg.Content)
	}
	return header + "\n" + lipgloss.NewStyle().MarginLeft(2).Render(body)
}

// renderMarkdown renders multi-line Jarvis replies such as minutes of
// meeting. Plain styling is used if glamour fails.
func (m *Model) renderMarkdown(msg *model.Message, width int) string {
	if out, ok := m.rendered[msg.ID]; ok {
		return out
	}
	if m.renderer == nil || m.rendererWidth != m.viewport.Width {
		// The style is picked from the theme; auto detection would query
		// the terminal while Bubble Tea owns it.
		style := "light"
		switch {
		case m.theme.ColorProfile == termenv.Ascii:
			style = "notty"
		case m.theme.IsDark:
			style = "dark"
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return m.theme.JarvisMessage.Width(width).Render(msg.Content)
		}
		m.renderer = r
		m.rendererWidth = m.viewport.Width
	}
	out, err := m.renderer.Render(msg.Content)
	if err != nil {
		return m.theme.JarvisMessage.Width(width).Render(msg.Content)
	}
	out = strings.Trim(out, "\n")
	m.rendered[msg.ID] = out
	return out
}

// renderPills shows the meeting flow, quick meeting and AI status.
func (m Model) renderPills() string {
	var pills []components.Pill
	if m.snap.FlowState.Active() {
		pills = append(pills, components.Pill{
			Label: "Meeting Flow",
			Value: m.snap.FlowState.String(),
			Kind:  components.PillActive,
		})
	}
	if m.snap.QuickMeetingID != 0 {
		pills = append(pills, components.Pill{
			Label: "Active Meeting",
			Value: "ID " + strconv.Itoa(m.snap.QuickMeetingID),
			Kind:  components.PillWarn,
		})
	}
	ai := components.Pill{Label: "AI Status", Value: "Configure API", Kind: components.PillWarn}
	if m.snap.Ready {
		ai = components.Pill{Label: "AI Status", Value: "Ready", Kind: components.PillActive}
	}
	pills = append(pills, ai)
	return components.Pills(m.theme, pills...)
}

func (m Model) renderInput() string {
	box := m.theme.InputBoxFocused
	if m.running {
		box = m.theme.InputBox
	}
	return box.Width(m.mainWidth() - 2).Render(m.input.View())
}

func (m Model) renderStatusBar() string {
	t := m.theme
	var left string
	switch {
	case m.running:
		left = m.spinner.View()
	case m.statusMsg != "":
		left = t.WarningStyle.Render(m.statusMsg)
	default:
		left = t.Shortcut("Enter", "send", "PgUp/PgDn", "scroll", "C-y", "copy", "C-o", "logs")
	}
	return t.StatusBar.Width(m.mainWidth()).Render(left)
}

// renderSide shows the activity indicator and the system log.
func (m Model) renderSide() string {
	t := m.theme
	indicator := t.Hint
	switch m.snap.Activity {
	case assistant.ActivityActive:
		indicator = t.SuccessStyle
	case assistant.ActivityThinking, assistant.ActivityProcessing:
		indicator = t.InfoStyle
	}
	status := indicator.Render("● " + m.snap.Activity.String() + "  " + m.snap.StatusText)
	activity := t.Panel.Width(sideWidth - 2).Render(
		t.PanelTitle.Render("Neural Activity") + "\n" + status)

	logHeight := m.height - lipgloss.Height(activity)
	logs := components.LogPanel(t, "System Logs", m.snap.Logs, sideWidth, logHeight)
	return lipgloss.JoinVertical(lipgloss.Left, activity, logs)
}
