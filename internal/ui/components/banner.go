// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kouponize121/Jarvis-AI/internal/ui/styles"
)

// =============================================================================
// BANNER
// =============================================================================

// BannerKind selects the banner style.
type BannerKind int

const (
	BannerError BannerKind = iota
	BannerSuccess
	BannerInfo
)

// Banner is a one-message notice shown above a form or screen. A zero
// Banner renders nothing.
type Banner struct {
	Kind    BannerKind
	Text    string
	ShownAt time.Time
	// TTL hides the banner after the given duration; zero keeps it.
	TTL time.Duration
}

// ErrorBanner creates a sticky error banner.
func ErrorBanner(text string) Banner {
	return Banner{Kind: BannerError, Text: text, ShownAt: time.Now()}
}

// SuccessBanner creates a success banner that hides itself after ttl.
func SuccessBanner(text string, ttl time.Duration) Banner {
	return Banner{Kind: BannerSuccess, Text: text, ShownAt: time.Now(), TTL: ttl}
}

// InfoBanner creates a sticky info banner.
func InfoBanner(text string) Banner {
	return Banner{Kind: BannerInfo, Text: text, ShownAt: time.Now()}
}

// Visible reports whether the banner should be drawn at now.
func (b Banner) Visible(now time.Time) bool {
	if b.Text == "" {
		return false
	}
	return b.TTL == 0 || now.Sub(b.ShownAt) < b.TTL
}

// View renders the banner at width, or "" when not visible.
func (b Banner) View(theme *styles.Theme, width int) string {
	if !b.Visible(time.Now()) {
		return ""
	}
	style := theme.BannerError
	switch b.Kind {
	case BannerSuccess:
		style = theme.BannerSuccess
	case BannerInfo:
		style = theme.BannerInfo
	}
	if width > 4 {
		style = style.Width(width - 2)
	}
	return style.Render(b.Text)
}

// BannerExpiredMsg asks the owner to redraw once a banner's TTL has passed.
type BannerExpiredMsg struct {
	ShownAt time.Time
}

// ExpireCmd fires BannerExpiredMsg when b's TTL runs out, or returns nil for
// a sticky banner.
func (b Banner) ExpireCmd() tea.Cmd {
	if b.TTL == 0 || b.Text == "" {
		return nil
	}
	shown := b.ShownAt
	return tea.Tick(b.TTL, func(time.Time) tea.Msg {
		return BannerExpiredMsg{ShownAt: shown}
	})
}
