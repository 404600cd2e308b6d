// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared styling for all jarvis commands.
//
// Colors are disabled for non-TTY output and when NO_COLOR is set;
// FORCE_COLOR overrides detection.
package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kouponize121/Jarvis-AI/internal/util"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

var (
	// TitleStyle is used for command titles and headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // Cyan

	// SectionStyle is used for section headers within commands
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255"))

	// LabelStyle is used for field labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(16)

	// SuccessStyle is used for success messages
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	// ErrorStyle is used for error messages and failures
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	// WarningStyle is used for warnings
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	// DimStyle is used for secondary information and hints
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	// SeparatorStyle is used for visual separators
	SeparatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// JarvisStyle prefixes replies in the chat REPL.
	JarvisStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("141")).
			Bold(true)
)

// RenderSeparator renders a horizontal separator line of the given width,
// 60 by default.
func RenderSeparator(width ...int) string {
	w := 60
	if len(width) > 0 && width[0] > 0 {
		w = width[0]
	}
	return SeparatorStyle.Render(strings.Repeat("─", w))
}

// RenderCheck renders a connection indicator.
func RenderCheck(ok bool) string {
	if ok {
		return SuccessStyle.Render("[OK]")
	}
	return ErrorStyle.Render("[FAIL]")
}

// RenderLabel renders a label with consistent width.
func RenderLabel(label string) string {
	return LabelStyle.Render(label)
}

// RenderTable lays rows out in columns sized to the widest cell. The
// last column is not padded. Widths are display widths, so emoji and CJK
// titles line up.
func RenderTable(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = util.StringWidth(h)
	}
	for _, row := range rows {
		for i := range header {
			if i < len(row) {
				if w := util.StringWidth(row[i]); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	line := func(cells []string) string {
		var sb strings.Builder
		for i := range header {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if i == len(header)-1 {
				sb.WriteString(cell)
				break
			}
			sb.WriteString(util.PadRight(cell, widths[i]) + "  ")
		}
		return strings.TrimRight(sb.String(), " ")
	}

	var sb strings.Builder
	sb.WriteString(SectionStyle.Render(line(header)) + "\n")
	for _, row := range rows {
		sb.WriteString(line(row) + "\n")
	}
	return sb.String()
}
