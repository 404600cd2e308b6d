// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Formatting shared by the list commands.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/kouponize121/Jarvis-AI/internal/api"
	"github.com/kouponize121/Jarvis-AI/internal/dashboard"
	"github.com/kouponize121/Jarvis-AI/internal/util"
)

// cellWidth caps free-text table columns.
const cellWidth = 40

// formatDuration formats a time.Duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}

// meetingLength is the time between start and end, "-" while running.
func meetingLength(m api.Meeting) string {
	if m.CreatedAt.IsZero() || m.EndedAt.IsZero() || m.EndedAt.Before(m.CreatedAt.Time) {
		return "-"
	}
	return formatDuration(m.EndedAt.Sub(m.CreatedAt.Time))
}

// cell flattens text to one table cell.
func cell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "-"
	}
	return util.TruncateWidth(s, cellWidth)
}

func dateCell(t api.Time) string {
	return dashboard.FormatDate(t)
}

// renderMarkdown renders text for the terminal when colors and markdown
// are both on, and returns it unchanged otherwise.
func (e *Env) renderMarkdown(text string) string {
	if !e.color || !e.Config.UI.Markdown {
		return text
	}
	style := "dark"
	if !HasDarkBackground() {
		style = "light"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(GetTerminalWidth()-4),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return out
}
