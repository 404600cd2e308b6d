// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kouponize121/Jarvis-AI/internal/api"
	"github.com/kouponize121/Jarvis-AI/internal/jarvistest"
	"github.com/kouponize121/Jarvis-AI/internal/ui/styles"
)

type fakeClient struct {
	calls int
	data  api.Dashboard
	err   error
}

func (f *fakeClient) Dashboard(context.Context) (*api.Dashboard, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	d := f.data
	return &d, nil
}

// load runs the fetch started by cmd and feeds the result back.
func load(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	msgs := []tea.Msg{cmd()}
	if batch, ok := msgs[0].(tea.BatchMsg); ok {
		msgs = msgs[:0]
		for _, c := range batch {
			msgs = append(msgs, c())
		}
	}
	for _, msg := range msgs {
		if res, ok := msg.(loadedMsg); ok {
			m, _ = m.Update(res)
			return m
		}
	}
	t.Fatal("no fetch result")
	return m
}

func newModel(c *fakeClient, width int) Model {
	m := New(styles.NewTheme(styles.ThemeMono), c, "Tony", true)
	m.SetSize(width, 60)
	return m
}

func TestLoad_EmptyPanels(t *testing.T) {
	c := &fakeClient{}
	m := newModel(c, 120)
	cmd := m.Init()
	assert.True(t, m.Loading())
	assert.Contains(t, m.View(), "Loading dashboard...")

	m = load(t, m, cmd)
	assert.False(t, m.Loading())
	view := m.View()
	for _, want := range []string{
		"Recent Meetings", "No recent meetings",
		"Active Tasks", "No active tasks",
		"Pending To-Dos", "No pending todos",
		"Recent Emails", "No recent emails",
		"System Logs", "Dashboard loaded successfully",
	} {
		assert.Contains(t, view, want)
	}
}

func TestLoad_Rows(t *testing.T) {
	created := api.Time{Time: time.Date(2025, 3, 4, 15, 4, 5, 0, time.Local)}
	c := &fakeClient{data: api.Dashboard{
		RecentMeetings: []api.Meeting{{ID: 1, Title: "Standup", Status: "completed", CreatedAt: created}},
		ActiveTasks:    []api.Task{{ID: 2, Title: "Ship release", Priority: "high", Status: "pending", CreatedAt: created}},
	}}
	m := newModel(c, 120)
	m = load(t, m, m.Init())

	view := m.View()
	assert.Contains(t, view, "Standup")
	assert.Contains(t, view, "Ship release")
	assert.Contains(t, view, "3/4/2025")
	assert.NotContains(t, view, "No active tasks")
	require.NotNil(t, m.Snapshot())
	assert.Len(t, m.Snapshot().Data.ActiveTasks, 1)
}

func TestLoad_NarrowHidesLogs(t *testing.T) {
	m := newModel(&fakeClient{}, 60)
	m = load(t, m, m.Init())
	view := m.View()
	assert.Contains(t, view, "Recent Emails")
	assert.NotContains(t, view, "System Logs")
}

func TestLoad_ErrorShowsBanner(t *testing.T) {
	c := &fakeClient{err: &api.APIError{Status: 500, Detail: "database offline"}}
	m := newModel(c, 120)
	m = load(t, m, m.Init())

	view := m.View()
	assert.Contains(t, view, "Failed to load dashboard: database offline")
	assert.Contains(t, view, "Press r to retry")
}

func TestRefresh_KeepsOldDataOnError(t *testing.T) {
	c := &fakeClient{data: api.Dashboard{PendingTodos: []api.Todo{{ID: 1, Title: "Buy milk"}}}}
	m := newModel(c, 120)
	m = load(t, m, m.Init())

	c.err = errors.New("connection refused")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = load(t, m, cmd)

	assert.Equal(t, 2, c.calls)
	view := m.View()
	assert.Contains(t, view, "Buy milk")
	assert.Contains(t, view, "connection refused")
}

func TestRefresh_IgnoredWhileLoading(t *testing.T) {
	m := newModel(&fakeClient{}, 120)
	require.NotNil(t, m.Init())
	assert.Nil(t, m.Refresh())
}

func TestAgainstServer(t *testing.T) {
	srv := jarvistest.New(t)
	uid := srv.AddUser("Tony", "tony@stark.io", "ironman")
	client := api.NewClient(srv.APIURL())
	client.SetToken(srv.Token(uid, time.Hour))
	_, err := client.CreateTodo(context.Background(), api.TodoRequest{Title: "Buy milk"})
	require.NoError(t, err)

	m := New(styles.NewTheme(styles.ThemeMono), client, "Tony", true)
	m.SetSize(120, 60)
	m = load(t, m, m.Init())
	assert.Contains(t, m.View(), "Buy milk")
	assert.Contains(t, m.View(), "Pending todos: 1")

	srv.FailNext(http.MethodGet, "/api/dashboard", http.StatusInternalServerError, "boom")
	m = load(t, m, m.Refresh())
	assert.Contains(t, m.View(), "Failed to load dashboard: boom")
}
