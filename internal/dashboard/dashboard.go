// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dashboard turns the server's dashboard snapshot into display
// panels shared by the TUI screen and the CLI command.
package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kouponize121/Jarvis-AI/internal/api"
	"github.com/kouponize121/Jarvis-AI/internal/model"
)

// Client is the part of the API the dashboard needs.
type Client interface {
	Dashboard(ctx context.Context) (*api.Dashboard, error)
}

// Date and time layouts used for every timestamp on the dashboard.
const (
	DateLayout = "1/2/2006"
	TimeLayout = "3:04:05 PM"
)

// Row is one entry in a panel.
type Row struct {
	Title  string
	Detail []string
	Badge  string
}

// Panel is one titled list on the dashboard.
type Panel struct {
	Title string
	Empty string
	Rows  []Row
}

// Count returns the number of rows.
func (p Panel) Count() int { return len(p.Rows) }

// Snapshot is a fetched dashboard plus the time it was loaded.
type Snapshot struct {
	Data     api.Dashboard
	LoadedAt time.Time
}

// Fetch loads a snapshot. Nil lists from the server become empty.
func Fetch(ctx context.Context, c Client) (*Snapshot, error) {
	d, err := c.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Data: *d, LoadedAt: time.Now()}, nil
}

// Panels builds the four dashboard panels in display order.
func (s *Snapshot) Panels() []Panel {
	return []Panel{
		MeetingsPanel(s.Data.RecentMeetings),
		TasksPanel(s.Data.ActiveTasks),
		TodosPanel(s.Data.PendingTodos),
		EmailsPanel(s.Data.RecentEmails),
	}
}

// Logs returns the system log lines shown beside the panels.
func (s *Snapshot) Logs(user string) []model.LogEntry {
	lines := []string{
		"Dashboard loaded successfully",
		"User authenticated: " + user,
		"Meetings: " + strconv.Itoa(len(s.Data.RecentMeetings)),
		"Active tasks: " + strconv.Itoa(len(s.Data.ActiveTasks)),
		"Pending todos: " + strconv.Itoa(len(s.Data.PendingTodos)),
		"Recent emails: " + strconv.Itoa(len(s.Data.RecentEmails)),
	}
	out := make([]model.LogEntry, len(lines))
	for i, l := range lines {
		out[i] = model.LogEntry{Timestamp: s.LoadedAt, Message: l}
	}
	return out
}

// MeetingsPanel lists recent meetings.
func MeetingsPanel(meetings []api.Meeting) Panel {
	p := Panel{Title: "Recent Meetings", Empty: "No recent meetings"}
	for _, m := range meetings {
		title := m.Title
		if title == "" {
			title = fmt.Sprintf("Meeting %d", m.ID)
		}
		row := Row{
			Title:  title,
			Detail: []string{FormatDate(m.CreatedAt) + " • " + FormatTime(m.CreatedAt)},
			Badge:  m.Status,
		}
		if m.Attendees != "" {
			row.Detail = append(row.Detail, "Attendees: "+m.Attendees)
		}
		p.Rows = append(p.Rows, row)
	}
	return p
}

// TasksPanel lists active tasks.
func TasksPanel(tasks []api.Task) Panel {
	p := Panel{Title: "Active Tasks", Empty: "No active tasks"}
	for _, t := range tasks {
		row := Row{
			Title:  t.Title,
			Detail: []string{"Priority: " + t.Priority + " • Created: " + FormatDate(t.CreatedAt)},
			Badge:  t.Status,
		}
		if t.Assignee != "" {
			row.Detail = append(row.Detail, "Assigned to: "+t.Assignee)
		}
		if !t.DueDate.IsZero() {
			row.Detail = append(row.Detail, "Due: "+FormatDate(t.DueDate))
		}
		p.Rows = append(p.Rows, row)
	}
	return p
}

// TodosPanel lists pending to-dos.
func TodosPanel(todos []api.Todo) Panel {
	p := Panel{Title: "Pending To-Dos", Empty: "No pending todos"}
	for _, t := range todos {
		row := Row{
			Title:  t.Title,
			Detail: []string{"Created: " + FormatDate(t.CreatedAt)},
		}
		if t.Description != "" {
			row.Detail = append(row.Detail, t.Description)
		}
		p.Rows = append(p.Rows, row)
	}
	return p
}

// EmailsPanel lists recently sent emails.
func EmailsPanel(emails []api.Email) Panel {
	p := Panel{Title: "Recent Emails", Empty: "No recent emails"}
	for _, e := range emails {
		row := Row{
			Title:  e.Subject,
			Detail: []string{"To: " + e.Recipient + " • " + FormatDate(e.SentAt)},
		}
		if e.EmailType != "" {
			row.Detail = append(row.Detail, "Type: "+e.EmailType)
		}
		p.Rows = append(p.Rows, row)
	}
	return p
}

// FormatDate renders t as a local date, or "-" when unset.
func FormatDate(t api.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(DateLayout)
}

// FormatTime renders t as a local wall-clock time, or "-" when unset.
func FormatTime(t api.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(TimeLayout)
}

// Text renders panels as plain text for non-interactive output.
func Text(panels []Panel) string {
	var sb strings.Builder
	for i, p := range panels {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s (%d)\n", p.Title, p.Count())
		if p.Count() == 0 {
			sb.WriteString("  " + p.Empty + "\n")
			continue
		}
		for _, r := range p.Rows {
			line := "  - " + r.Title
			if r.Badge != "" {
				line += " [" + r.Badge + "]"
			}
			sb.WriteString(line + "\n")
			for _, d := range r.Detail {
				sb.WriteString("      " + d + "\n")
			}
		}
	}
	return sb.String()
}
