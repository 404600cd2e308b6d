// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kouponize121/Jarvis-AI/internal/ui/styles"
)

// =============================================================================
// SPINNER MODEL
// =============================================================================

// Spinner is a loading spinner with a message and elapsed timer.
type Spinner struct {
	spinner   spinner.Model
	theme     *styles.Theme
	message   string
	startTime time.Time
	isActive  bool
	showTimer bool
}

// NewSpinner creates a spinner with ASCII frames.
func NewSpinner(theme *styles.Theme, message string) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	return Spinner{
		spinner:   s,
		theme:     theme,
		message:   message,
		showTimer: true,
	}
}

// SetMessage changes the text shown next to the spinner.
func (s *Spinner) SetMessage(msg string) {
	s.message = msg
}

// Start activates the spinner and records the start time.
func (s *Spinner) Start() tea.Cmd {
	if s.isActive {
		return nil
	}
	s.isActive = true
	s.startTime = time.Now()
	return s.spinner.Tick
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.isActive = false
}

// IsActive returns whether the spinner is running.
func (s *Spinner) IsActive() bool {
	return s.isActive
}

// Elapsed returns the time since Start.
func (s *Spinner) Elapsed() time.Duration {
	if s.startTime.IsZero() {
		return 0
	}
	return time.Since(s.startTime)
}

// Update advances the animation while active.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.isActive {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the spinner, or "" when stopped.
func (s Spinner) View() string {
	if !s.isActive {
		return ""
	}
	out := s.theme.Spinner.Render(s.spinner.View()) + " " + s.theme.Thinking.Render(s.message)
	if s.showTimer && !s.startTime.IsZero() {
		out += s.theme.Timestamp.Render(" (" + FormatElapsed(s.Elapsed()) + ")")
	}
	return out
}

// FormatElapsed formats a duration as "12s" or "1m 5s".
func FormatElapsed(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 60 {
		return strconv.Itoa(seconds) + "s"
	}
	return strconv.Itoa(seconds/60) + "m " + strconv.Itoa(seconds%60) + "s"
}
