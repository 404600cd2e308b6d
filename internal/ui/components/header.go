// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kouponize121/Jarvis-AI/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar: brand, tab strip and the signed-in user.
type Header struct {
	Title  string
	User   string
	Tabs   []string
	Active int
	Width  int
	theme  *styles.Theme
}

// NewHeader creates a header with the default title.
func NewHeader(theme *styles.Theme, tabs ...string) *Header {
	return &Header{
		Title: "JARVIS",
		Tabs:  tabs,
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// View renders the header.
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		width = 40
	}

	brand := h.theme.Brand.Render("> " + h.Title)

	tabs := make([]string, len(h.Tabs))
	for i, tab := range h.Tabs {
		label := string(rune('1'+i)) + " " + tab
		if i == h.Active {
			tabs[i] = h.theme.TabActive.Render(label)
		} else {
			tabs[i] = h.theme.Tab.Render(label)
		}
	}
	left := brand
	if len(tabs) > 0 {
		left += "  " + strings.Join(tabs, "")
	}

	right := ""
	if h.User != "" {
		right = h.theme.Greeting.Render("Hello, " + h.User)
	}

	inner := width - 2 // header padding
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Too narrow for the greeting.
		right, gap = "", inner-lipgloss.Width(left)
		if gap < 0 {
			gap = 0
		}
	}
	return h.theme.Header.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
