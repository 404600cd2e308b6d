// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Green - Brand color, prompts, connected states
var Green = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#00FF00"}

// GreenDeep - Darker green for backgrounds and borders
var GreenDeep = lipgloss.AdaptiveColor{Light: "#166534", Dark: "#003300"}

// Cyan - Jarvis replies, info, active tab
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors, disconnected states
var Rose = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#FF4444"}

// RoseDeep - Background of error banners
var RoseDeep = lipgloss.AdaptiveColor{Light: "#FEE2E2", Dark: "#110000"}

// Amber - Warnings, system messages, meeting flow pill
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// GreenWash - Background of success banners
var GreenWash = lipgloss.AdaptiveColor{Light: "#DCFCE7", Dark: "#001100"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#000000"}

// SurfaceDim - Header and status bar background
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#0A0A0A"}

// Overlay - Borders and separators
var Overlay = lipgloss.AdaptiveColor{Light: "#D4D4D4", Dark: "#1F3F1F"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E5E5E5"}

// TextSecondary - Labels
var TextSecondary = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#A3A3A3"}

// TextMuted - Hints, timestamps
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#666666"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#000000"}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicatorSet holds text markers shown next to colored states so they
// read without color.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
}

// StatusIndicators are ASCII so they render in any terminal.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
}

// RenderSuccess renders message in green with the success marker.
func RenderSuccess(message string) string {
	return lipgloss.NewStyle().Foreground(Green).Bold(true).
		Render(StatusIndicators.Success + " " + message)
}

// RenderError renders message in red with the error marker.
func RenderError(message string) string {
	return lipgloss.NewStyle().Foreground(Rose).Bold(true).
		Render(StatusIndicators.Error + " " + message)
}

// RenderWarning renders message in amber with the warning marker.
func RenderWarning(message string) string {
	return lipgloss.NewStyle().Foreground(Amber).Bold(true).
		Render(StatusIndicators.Warning + " " + message)
}

// RenderStatus picks RenderSuccess or RenderError.
func RenderStatus(ok bool, message string) string {
	if ok {
		return RenderSuccess(message)
	}
	return RenderError(message)
}
