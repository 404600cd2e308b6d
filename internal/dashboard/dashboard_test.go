// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kouponize121/Jarvis-AI/internal/api"
	"github.com/kouponize121/Jarvis-AI/internal/dashboard"
	"github.com/kouponize121/Jarvis-AI/internal/jarvistest"
)

func at(s string) api.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return api.Time{Time: t}
}

func TestPanels_Empty(t *testing.T) {
	snap := &dashboard.Snapshot{}
	panels := snap.Panels()
	require.Len(t, panels, 4)

	want := []struct{ title, empty string }{
		{"Recent Meetings", "No recent meetings"},
		{"Active Tasks", "No active tasks"},
		{"Pending To-Dos", "No pending todos"},
		{"Recent Emails", "No recent emails"},
	}
	for i, w := range want {
		if panels[i].Title != w.title {
			t.Errorf("panels[%d].Title = %q, want %q", i, panels[i].Title, w.title)
		}
		if panels[i].Empty != w.empty {
			t.Errorf("panels[%d].Empty = %q, want %q", i, panels[i].Empty, w.empty)
		}
		if panels[i].Count() != 0 {
			t.Errorf("panels[%d].Count() = %d, want 0", i, panels[i].Count())
		}
	}

	text := dashboard.Text(panels)
	assert.Contains(t, text, "Recent Meetings (0)\n  No recent meetings\n")
}

func TestMeetingsPanel(t *testing.T) {
	created := at("2025-01-15T10:30:00Z")
	p := dashboard.MeetingsPanel([]api.Meeting{
		{ID: 7, Status: "completed", CreatedAt: created, Attendees: "John, Sarah"},
		{ID: 8, Title: "Standup", Status: "active", CreatedAt: created},
	})
	require.Equal(t, 2, p.Count())

	assert.Equal(t, "Meeting 7", p.Rows[0].Title)
	assert.Equal(t, "completed", p.Rows[0].Badge)
	local := created.Local()
	assert.Equal(t, local.Format("1/2/2006")+" • "+local.Format("3:04:05 PM"), p.Rows[0].Detail[0])
	assert.Equal(t, "Attendees: John, Sarah", p.Rows[0].Detail[1])

	assert.Equal(t, "Standup", p.Rows[1].Title)
	assert.Len(t, p.Rows[1].Detail, 1, "no attendee line when empty")
}

func TestTasksTodosEmailsPanels(t *testing.T) {
	created := at("2025-02-01T08:00:00Z")
	date := created.Local().Format("1/2/2006")

	tasks := dashboard.TasksPanel([]api.Task{
		{Title: "Ship it", Priority: "high", Status: "pending", CreatedAt: created, Assignee: "Sarah", DueDate: created},
		{Title: "Review", Priority: "medium", Status: "pending", CreatedAt: created},
	})
	assert.Equal(t, []string{
		"Priority: high • Created: " + date,
		"Assigned to: Sarah",
		"Due: " + date,
	}, tasks.Rows[0].Detail)
	assert.Len(t, tasks.Rows[1].Detail, 1)

	todos := dashboard.TodosPanel([]api.Todo{{Title: "Buy milk", Description: "2 litres", CreatedAt: created}})
	assert.Equal(t, []string{"Created: " + date, "2 litres"}, todos.Rows[0].Detail)

	emails := dashboard.EmailsPanel([]api.Email{{Subject: "MoM", Recipient: "a@x.com", SentAt: created, EmailType: "mom"}})
	assert.Equal(t, "MoM", emails.Rows[0].Title)
	assert.Equal(t, []string{"To: a@x.com • " + date, "Type: mom"}, emails.Rows[0].Detail)
}

func TestFormat_ZeroTime(t *testing.T) {
	if got := dashboard.FormatDate(api.Time{}); got != "-" {
		t.Errorf("FormatDate(zero) = %q, want %q", got, "-")
	}
	if got := dashboard.FormatTime(api.Time{}); got != "-" {
		t.Errorf("FormatTime(zero) = %q, want %q", got, "-")
	}
}

func TestFetch(t *testing.T) {
	srv := jarvistest.New(t)
	uid := srv.AddUser("John", "john@example.com", "secret1")
	client := api.NewClient(srv.APIURL())
	client.SetToken(srv.Token(uid, time.Hour))
	ctx := context.Background()

	_, err := client.CreateTodo(ctx, api.TodoRequest{Title: "Buy milk"})
	require.NoError(t, err)
	_, err = client.CreateTask(ctx, api.TaskRequest{Title: "Ship release"})
	require.NoError(t, err)

	snap, err := dashboard.Fetch(ctx, client)
	require.NoError(t, err)

	panels := snap.Panels()
	assert.Equal(t, 1, panels[1].Count())
	assert.Equal(t, "Ship release", panels[1].Rows[0].Title)
	assert.Equal(t, 1, panels[2].Count())
	assert.Equal(t, "Buy milk", panels[2].Rows[0].Title)

	logs := snap.Logs("John")
	require.Len(t, logs, 6)
	assert.Equal(t, "Dashboard loaded successfully", logs[0].Message)
	assert.Equal(t, "User authenticated: John", logs[1].Message)
	assert.Equal(t, "Active tasks: 1", logs[3].Message)

	text := dashboard.Text(panels)
	assert.True(t, strings.Contains(text, "Active Tasks (1)\n  - Ship release [pending]\n"), text)
}

func TestFetch_Error(t *testing.T) {
	srv := jarvistest.New(t)
	uid := srv.AddUser("John", "john@example.com", "secret1")
	client := api.NewClient(srv.APIURL())
	client.SetToken(srv.Token(uid, time.Hour))
	srv.FailNext(http.MethodGet, "/api/dashboard", http.StatusInternalServerError, "boom")

	_, err := dashboard.Fetch(context.Background(), client)
	require.Error(t, err)
	assert.Equal(t, "boom", api.Detail(err))
}
