// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kouponize121/Jarvis-AI/internal/dashboard"
	"github.com/kouponize121/Jarvis-AI/internal/model"
	"github.com/kouponize121/Jarvis-AI/internal/ui/styles"
	"github.com/kouponize121/Jarvis-AI/internal/util"
)

// =============================================================================
// PANELS
// =============================================================================

// Box draws a bordered box of the given outer width with a title line.
// body is plain text; long lines are truncated. height limits the number of
// lines; zero means unlimited.
func Box(theme *styles.Theme, title string, body []string, width, height int) string {
	inner := width - 4 // border + padding
	if inner < 10 {
		inner = 10
	}
	lines := []string{theme.PanelTitle.Render(util.TruncateWidth(title, inner))}
	for _, l := range body {
		lines = append(lines, theme.RowDetail.Render(util.TruncateWidth(l, inner)))
	}
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	return theme.Panel.Width(inner + 2).Render(strings.Join(lines, "\n"))
}

// DashboardPanel renders one dashboard panel with its row count badge.
func DashboardPanel(theme *styles.Theme, p dashboard.Panel, width, height int) string {
	inner := width - 4
	if inner < 10 {
		inner = 10
	}
	title := theme.PanelTitle.Render(p.Title) + " " + theme.PanelCount.Render(strconv.Itoa(p.Count()))

	var body []string
	if p.Count() == 0 {
		body = append(body, theme.PanelEmpty.Render(p.Empty))
	}
	for i, r := range p.Rows {
		if i > 0 {
			body = append(body, "")
		}
		head := theme.RowTitle.Render(util.TruncateWidth(r.Title, inner-lipgloss.Width(r.Badge)-1))
		if r.Badge != "" {
			gap := inner - lipgloss.Width(head) - lipgloss.Width(r.Badge)
			if gap < 1 {
				gap = 1
			}
			head += strings.Repeat(" ", gap) + theme.Badge.Render(r.Badge)
		}
		body = append(body, head)
		for _, d := range r.Detail {
			body = append(body, theme.RowDetail.Render(util.TruncateWidth(d, inner)))
		}
	}

	lines := append([]string{title}, body...)
	if height > 0 && len(lines) > height {
		lines = append(lines[:height-1], theme.Hint.Render("..."))
	}
	return theme.Panel.Width(inner + 2).Render(strings.Join(lines, "\n"))
}

// LogPanel renders the newest log entries that fit in height lines.
func LogPanel(theme *styles.Theme, title string, logs []model.LogEntry, width, height int) string {
	inner := width - 2
	if inner < 10 {
		inner = 10
	}
	lines := []string{theme.PanelTitle.Render(title)}
	room := height - 1
	start := 0
	if room > 0 && len(logs) > room {
		start = len(logs) - room
	}
	for _, entry := range logs[start:] {
		lines = append(lines, theme.LogEntry.Render(util.TruncateWidth(entry.String(), inner)))
	}
	return theme.LogPanel.Width(inner).Render(strings.Join(lines, "\n"))
}
