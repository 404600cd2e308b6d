// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme names accepted by NewTheme.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
	ThemeMono  = "mono"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER AND TABS
	// ==========================================================================

	Header    lipgloss.Style
	Brand     lipgloss.Style
	Greeting  lipgloss.Style
	Tab       lipgloss.Style
	TabActive lipgloss.Style
	Title     lipgloss.Style

	// ==========================================================================
	// CHAT MESSAGES
	// ==========================================================================

	UserMessage   lipgloss.Style
	JarvisMessage lipgloss.Style
	SystemMessage lipgloss.Style
	Sender        lipgloss.Style
	Timestamp     lipgloss.Style

	// ==========================================================================
	// PANELS
	// ==========================================================================

	Panel      lipgloss.Style
	PanelTitle lipgloss.Style
	PanelCount lipgloss.Style
	PanelEmpty lipgloss.Style
	RowTitle   lipgloss.Style
	RowDetail  lipgloss.Style
	Badge      lipgloss.Style

	// ==========================================================================
	// STATUS PILLS
	// ==========================================================================

	Pill       lipgloss.Style
	PillActive lipgloss.Style
	PillWarn   lipgloss.Style

	// ==========================================================================
	// FORMS AND INPUT
	// ==========================================================================

	InputBox        lipgloss.Style
	InputBoxFocused lipgloss.Style
	InputPrompt     lipgloss.Style
	Label           lipgloss.Style
	FieldError      lipgloss.Style
	Hint            lipgloss.Style
	Button          lipgloss.Style
	ButtonActive    lipgloss.Style

	// ==========================================================================
	// BANNERS
	// ==========================================================================

	BannerError   lipgloss.Style
	BannerSuccess lipgloss.Style
	BannerInfo    lipgloss.Style

	// ==========================================================================
	// LOGS, SPINNER, STATUS BAR
	// ==========================================================================

	LogPanel     lipgloss.Style
	LogEntry     lipgloss.Style
	Thinking     lipgloss.Style
	Spinner      lipgloss.Style
	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
}

// NewTheme creates a theme. name is one of ThemeAuto, ThemeDark,
// ThemeLight or ThemeMono; anything else is treated as auto.
func NewTheme(name string) *Theme {
	colorProfile := termenv.ColorProfile()
	isDark := termenv.HasDarkBackground()

	switch strings.ToLower(name) {
	case ThemeDark:
		isDark = true
		lipgloss.SetHasDarkBackground(true)
	case ThemeLight:
		isDark = false
		lipgloss.SetHasDarkBackground(false)
	case ThemeMono:
		colorProfile = termenv.Ascii
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.Brand = lipgloss.NewStyle().Bold(true).Foreground(Green)
	t.Greeting = lipgloss.NewStyle().Foreground(TextSecondary)
	t.Tab = lipgloss.NewStyle().Foreground(TextMuted).Padding(0, 1)
	t.TabActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Green).
		Bold(true).
		Padding(0, 1)
	t.Title = lipgloss.NewStyle().Bold(true).Foreground(Green)

	// Chat messages
	t.UserMessage = lipgloss.NewStyle().Foreground(Green)
	t.JarvisMessage = lipgloss.NewStyle().Foreground(Cyan)
	t.SystemMessage = lipgloss.NewStyle().Foreground(Amber)
	t.Sender = lipgloss.NewStyle().Bold(true)
	t.Timestamp = lipgloss.NewStyle().Foreground(TextMuted)

	// Panels
	t.Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.PanelTitle = lipgloss.NewStyle().Bold(true).Foreground(Green)
	t.PanelCount = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(GreenDeep).
		Padding(0, 1)
	t.PanelEmpty = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)
	t.RowTitle = lipgloss.NewStyle().Foreground(TextPrimary).Bold(true)
	t.RowDetail = lipgloss.NewStyle().Foreground(TextSecondary)
	t.Badge = lipgloss.NewStyle().Foreground(Amber)

	// Pills
	t.Pill = lipgloss.NewStyle().
		Foreground(TextSecondary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.PillActive = t.Pill.Foreground(Green).BorderForeground(Green)
	t.PillWarn = t.Pill.Foreground(Amber).BorderForeground(Amber)

	// Forms
	t.InputBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.InputBoxFocused = t.InputBox.BorderForeground(Green)
	t.InputPrompt = lipgloss.NewStyle().Foreground(Green).Bold(true)
	t.Label = lipgloss.NewStyle().Foreground(TextSecondary)
	t.FieldError = lipgloss.NewStyle().Foreground(Rose)
	t.Hint = lipgloss.NewStyle().Foreground(TextMuted)
	t.Button = lipgloss.NewStyle().
		Foreground(Green).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Overlay).
		Padding(0, 2)
	t.ButtonActive = t.Button.
		Foreground(TextInverse).
		Background(Green).
		BorderForeground(Green)

	// Banners
	t.BannerError = lipgloss.NewStyle().
		Foreground(Rose).
		Background(RoseDeep).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Rose).
		Padding(0, 1)
	t.BannerSuccess = lipgloss.NewStyle().
		Foreground(Green).
		Background(GreenWash).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Green).
		Padding(0, 1)
	t.BannerInfo = lipgloss.NewStyle().
		Foreground(Cyan).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Cyan).
		Padding(0, 1)

	// Logs, spinner, status bar
	t.LogPanel = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Overlay).
		PaddingLeft(1)
	t.LogEntry = lipgloss.NewStyle().Foreground(TextMuted)
	t.Thinking = lipgloss.NewStyle().Foreground(Cyan).Italic(true)
	t.Spinner = lipgloss.NewStyle().Foreground(Green)
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)
	t.ShortcutKey = lipgloss.NewStyle().Foreground(Green).Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(TextMuted)

	t.SuccessStyle = lipgloss.NewStyle().Foreground(Green).Bold(true)
	t.ErrorStyle = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.WarningStyle = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	t.InfoStyle = lipgloss.NewStyle().Foreground(Cyan)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)

// Shortcut renders "key desc" pairs for a status bar, separated by two
// spaces. pairs alternates key and description.
func (t *Theme) Shortcut(pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, t.ShortcutKey.Render(pairs[i])+" "+t.ShortcutDesc.Render(pairs[i+1]))
	}
	return strings.Join(parts, "  ")
}
