// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the jarvis TUI.

Colors are Lip Gloss AdaptiveColor values, so every style adapts to light and
dark terminals. The palette keeps the green-on-black terminal look: Green is
the brand and user color, Cyan marks Jarvis, Amber marks system messages and
warnings, Rose marks errors.

The Theme struct carries the styles for each screen:

	theme := styles.NewTheme(cfg.UI.Theme)
	header := theme.Header.Width(width).Render(theme.Brand.Render("JARVIS"))

Status helpers pair color with an ASCII marker:

	styles.RenderStatus(ok, "SMTP")
*/
package styles
