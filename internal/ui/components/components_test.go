// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/kouponize121/Jarvis-AI/internal/dashboard"
	"github.com/kouponize121/Jarvis-AI/internal/model"
	"github.com/kouponize121/Jarvis-AI/internal/ui/styles"
	"github.com/kouponize121/Jarvis-AI/internal/validate"
)

func testTheme() *styles.Theme {
	return styles.NewTheme(styles.ThemeMono)
}

func TestHeader_View(t *testing.T) {
	h := NewHeader(testTheme(), "Dashboard", "Chat", "System")
	h.User = "Ada"
	h.SetWidth(100)

	view := h.View()
	for _, want := range []string{"> JARVIS", "1 Dashboard", "2 Chat", "3 System", "Hello, Ada"} {
		if !strings.Contains(view, want) {
			t.Errorf("header view missing %q:\n%s", want, view)
		}
	}
}

func TestHeader_NarrowDropsGreeting(t *testing.T) {
	h := NewHeader(testTheme(), "Dashboard", "Chat", "System")
	h.User = "Someone With A Long Name"
	h.SetWidth(40)

	if view := h.View(); strings.Contains(view, "Hello,") {
		t.Errorf("narrow header should drop the greeting:\n%s", view)
	}
}

func TestBanner_Visible(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name   string
		banner Banner
		at     time.Time
		want   bool
	}{
		{"zero", Banner{}, now, false},
		{"sticky", Banner{Text: "x", ShownAt: now.Add(-time.Hour)}, now, true},
		{"within ttl", Banner{Text: "x", ShownAt: now, TTL: time.Second}, now.Add(500 * time.Millisecond), true},
		{"expired", Banner{Text: "x", ShownAt: now, TTL: time.Second}, now.Add(2 * time.Second), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.banner.Visible(tt.at); got != tt.want {
				t.Errorf("Visible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBanner_View(t *testing.T) {
	theme := testTheme()
	if got := (Banner{}).View(theme, 80); got != "" {
		t.Errorf("zero banner View() = %q, want empty", got)
	}
	if got := ErrorBanner("Invalid credentials").View(theme, 80); !strings.Contains(got, "Invalid credentials") {
		t.Errorf("error banner View() = %q", got)
	}
	if got := InfoBanner("Registered").View(theme, 80); !strings.Contains(got, "Registered") {
		t.Errorf("info banner View() = %q", got)
	}
}

func TestBanner_ExpireCmd(t *testing.T) {
	if ErrorBanner("sticky").ExpireCmd() != nil {
		t.Error("sticky banner should not schedule expiry")
	}
	if (Banner{TTL: time.Second}).ExpireCmd() != nil {
		t.Error("empty banner should not schedule expiry")
	}
	if SuccessBanner("saved", time.Millisecond).ExpireCmd() == nil {
		t.Error("timed banner should schedule expiry")
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{12 * time.Second, "12s"},
		{59*time.Second + 900*time.Millisecond, "59s"},
		{65 * time.Second, "1m 5s"},
		{10 * time.Minute, "10m 0s"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.d); got != tt.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestSpinner_StartStop(t *testing.T) {
	s := NewSpinner(testTheme(), "Loading dashboard...")
	if s.View() != "" {
		t.Error("inactive spinner should render nothing")
	}
	if cmd := s.Start(); cmd == nil {
		t.Error("Start() should return a tick command")
	}
	if cmd := s.Start(); cmd != nil {
		t.Error("second Start() should return nil")
	}
	if !s.IsActive() {
		t.Fatal("spinner should be active")
	}
	if view := s.View(); !strings.Contains(view, "Loading dashboard...") {
		t.Errorf("View() = %q, want message", view)
	}
	s.SetMessage("Jarvis is thinking...")
	if view := s.View(); !strings.Contains(view, "Jarvis is thinking...") {
		t.Errorf("View() = %q, want new message", view)
	}
	s.Stop()
	if s.IsActive() || s.View() != "" {
		t.Error("stopped spinner should be inactive and render nothing")
	}
}

func TestPills(t *testing.T) {
	view := Pills(testTheme(),
		Pill{Label: "Meeting Flow", Value: "Idle"},
		Pill{Label: "AI Status", Value: "Ready", Kind: PillActive},
	)
	for _, want := range []string{"Meeting Flow: Idle", "AI Status: Ready"} {
		if !strings.Contains(view, want) {
			t.Errorf("pills missing %q:\n%s", want, view)
		}
	}
}

func TestDashboardPanel(t *testing.T) {
	theme := testTheme()

	empty := DashboardPanel(theme, dashboard.Panel{Title: "Active Tasks", Empty: "No active tasks"}, 40, 0)
	if !strings.Contains(empty, "No active tasks") {
		t.Errorf("empty panel missing placeholder:\n%s", empty)
	}

	p := dashboard.Panel{
		Title: "Recent Meetings",
		Empty: "No recent meetings",
		Rows: []dashboard.Row{
			{Title: "Standup", Detail: []string{"1/2/2025 • 9:00:00 AM"}, Badge: "completed"},
			{Title: "Retro", Detail: []string{"Attendees: Bob"}},
		},
	}
	view := DashboardPanel(theme, p, 50, 0)
	for _, want := range []string{"Recent Meetings", "2", "Standup", "completed", "Attendees: Bob"} {
		if !strings.Contains(view, want) {
			t.Errorf("panel missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "No recent meetings") {
		t.Error("non-empty panel should not show the placeholder")
	}

	for _, line := range strings.Split(view, "\n") {
		if w := lipgloss.Width(line); w > 50 {
			t.Errorf("line width %d exceeds panel width: %q", w, line)
		}
	}
}

func TestDashboardPanel_Height(t *testing.T) {
	p := dashboard.Panel{Title: "Pending To-Dos"}
	for i := 0; i < 10; i++ {
		p.Rows = append(p.Rows, dashboard.Row{Title: "todo", Detail: []string{"Created: 1/1/2025"}})
	}
	view := DashboardPanel(testTheme(), p, 40, 5)
	if !strings.Contains(view, "...") {
		t.Errorf("clipped panel should end with an ellipsis:\n%s", view)
	}
}

func TestLogPanel_NewestEntries(t *testing.T) {
	base := time.Date(2025, 1, 2, 9, 0, 0, 0, time.Local)
	var logs []model.LogEntry
	for i := 0; i < 5; i++ {
		logs = append(logs, model.LogEntry{Timestamp: base.Add(time.Duration(i) * time.Second), Message: "entry " + string(rune('a'+i))})
	}

	view := LogPanel(testTheme(), "System Logs", logs, 40, 3)
	if !strings.Contains(view, "System Logs") {
		t.Errorf("log panel missing title:\n%s", view)
	}
	for _, want := range []string{"entry d", "entry e"} {
		if !strings.Contains(view, want) {
			t.Errorf("log panel missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "entry a") {
		t.Errorf("log panel should drop the oldest entries:\n%s", view)
	}
}

func TestBox(t *testing.T) {
	view := Box(testTheme(), "Setup Guide", []string{"line one", "line two", "line three"}, 30, 3)
	if !strings.Contains(view, "Setup Guide") || !strings.Contains(view, "line two") {
		t.Errorf("box missing content:\n%s", view)
	}
	if strings.Contains(view, "line three") {
		t.Errorf("box should respect height:\n%s", view)
	}
}

func TestForm_FocusAndValues(t *testing.T) {
	f := NewForm(
		NewField("email", "Email", "you@example.com", false),
		NewField("password", "Password", "", true),
	)
	if f.Focused() != 0 {
		t.Fatalf("Focused() = %d, want 0", f.Focused())
	}
	f.Next()
	if f.Focused() != 1 || !f.Last() {
		t.Errorf("after Next: Focused() = %d, Last() = %v", f.Focused(), f.Last())
	}
	f.Next()
	if f.Focused() != 0 {
		t.Errorf("Next should wrap, Focused() = %d", f.Focused())
	}
	f.Prev()
	if f.Focused() != 1 {
		t.Errorf("Prev should wrap, Focused() = %d", f.Focused())
	}

	f.SetValue("email", "  tony@stark.io ")
	if got := f.Value("email"); got != "tony@stark.io" {
		t.Errorf("Value(email) = %q", got)
	}
	if got := f.Value("missing"); got != "" {
		t.Errorf("Value(missing) = %q, want empty", got)
	}

	f.Reset()
	if f.Value("email") != "" {
		t.Error("Reset should clear values")
	}
}

func TestForm_SetErrors(t *testing.T) {
	f := NewForm(
		NewField("email", "Email", "", false),
		NewField("password", "Password", "", true),
	)
	rest := f.SetErrors(validate.Errors{
		{Field: "email", Message: "email must be a valid email"},
		{Field: "other", Message: "other is required"},
	})
	if rest != "other is required" {
		t.Errorf("unmatched = %q", rest)
	}
	if f.Fields[0].Err != "email must be a valid email" || f.Fields[1].Err != "" {
		t.Errorf("field errors = %q, %q", f.Fields[0].Err, f.Fields[1].Err)
	}
	if !f.HasErrors() {
		t.Error("HasErrors() = false")
	}
	if view := f.View(testTheme(), 60); !strings.Contains(view, "email must be a valid email") {
		t.Errorf("view missing field error:\n%s", view)
	}

	if got := f.SetErrors(errors.New("boom")); got != "" || f.HasErrors() {
		t.Errorf("plain error should clear field errors, got %q", got)
	}
}

func TestForm_SecretFieldMasksInput(t *testing.T) {
	f := NewForm(NewField("password", "Password", "", true))
	f.SetValue("password", "hunter2")
	if view := f.View(testTheme(), 60); strings.Contains(view, "hunter2") {
		t.Errorf("secret field shows its value:\n%s", view)
	}
}
