// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kouponize121/Jarvis-AI/internal/ui/styles"
)

// PillKind selects a pill's color.
type PillKind int

const (
	PillNeutral PillKind = iota
	PillActive
	PillWarn
)

// Pill is a small labelled status value.
type Pill struct {
	Label string
	Value string
	Kind  PillKind
}

// Pills renders pills side by side.
func Pills(theme *styles.Theme, pills ...Pill) string {
	views := make([]string, len(pills))
	for i, p := range pills {
		style := theme.Pill
		switch p.Kind {
		case PillActive:
			style = theme.PillActive
		case PillWarn:
			style = theme.PillWarn
		}
		views[i] = style.Render(p.Label + ": " + p.Value)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, views...)
}
