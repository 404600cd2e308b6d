// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package system

import (
	"net/http"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kouponize121/Jarvis-AI/internal/api"
	"github.com/kouponize121/Jarvis-AI/internal/jarvistest"
	"github.com/kouponize121/Jarvis-AI/internal/ui/styles"
)

type fixture struct {
	srv *jarvistest.Server
	uid int
	m   Model
}

func newFixture(t *testing.T, width int) *fixture {
	t.Helper()
	srv := jarvistest.New(t)
	uid := srv.AddUser("Tony", "tony@stark.io", "ironman")
	client := api.NewClient(srv.APIURL())
	client.SetToken(srv.Token(uid, time.Hour))
	m := New(styles.NewTheme(styles.ThemeMono), client)
	m.SetSize(width, 80)
	return &fixture{srv: srv, uid: uid, m: m}
}

// run executes cmd and feeds request results back into the model.
func (f *fixture) run(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	msgs := []tea.Msg{cmd()}
	if batch, ok := msgs[0].(tea.BatchMsg); ok {
		msgs = msgs[:0]
		for _, c := range batch {
			if c != nil {
				msgs = append(msgs, c())
			}
		}
	}
	for _, msg := range msgs {
		switch msg.(type) {
		case loadedMsg, statusMsg, savedMsg:
			f.m, _ = f.m.Update(msg)
			return
		}
	}
	t.Fatal("no request result")
}

func (f *fixture) key(k tea.KeyType) tea.Cmd {
	var cmd tea.Cmd
	f.m, cmd = f.m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func (f *fixture) typeText(s string) {
	f.m, _ = f.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestInit_LoadsStatusAndForm(t *testing.T) {
	f := newFixture(t, 120)
	f.srv.SetOpenAI(true)

	cmd := f.m.Init()
	assert.True(t, f.m.Busy())
	assert.Contains(t, f.m.View(), "Loading configuration...")
	f.run(t, cmd)
	assert.False(t, f.m.Busy())

	view := f.m.View()
	assert.Contains(t, view, "System Status")
	assert.Contains(t, view, "✅ Connected")
	assert.Contains(t, view, "❌ Disconnected")
	assert.Contains(t, view, "AI ready. Email configuration needed.")
	assert.Contains(t, view, "Setup Guide")
	assert.Contains(t, view, "smtp.office365.com")
	assert.Equal(t, "587", f.m.Form().SMTPPort)
	assert.False(t, f.m.Editing())
}

func TestInit_NarrowHidesGuide(t *testing.T) {
	f := newFixture(t, 70)
	f.run(t, f.m.Init())
	assert.NotContains(t, f.m.View(), "Setup Guide")
}

func TestSave_StoresConfigAndRechecks(t *testing.T) {
	f := newFixture(t, 120)
	f.srv.SetOpenAI(true)
	f.srv.SetSMTP(true)
	f.run(t, f.m.Init())

	f.key(tea.KeyEnter)
	require.True(t, f.m.Editing())
	f.typeText("sk-live")
	f.key(tea.KeyTab)
	f.typeText("smtp.gmail.com")
	f.key(tea.KeyTab)
	f.key(tea.KeyTab)
	f.typeText("me@gmail.com")
	f.key(tea.KeyTab)
	f.typeText("app-pw")

	cmd := f.key(tea.KeyCtrlS)
	assert.True(t, f.m.Busy())
	f.run(t, cmd)

	assert.Contains(t, f.m.View(), "Configuration saved successfully!")
	assert.Contains(t, f.m.View(), "OpenAI API: Connected successfully")
	cfg := f.srv.StoredConfig(f.uid)
	assert.Equal(t, "sk-live", cfg["openai_key"])
	assert.Equal(t, "me@gmail.com", cfg["smtp_user"])
	assert.EqualValues(t, 587, cfg["smtp_port"])

	// The delayed recheck reloads the form with secrets stored.
	var reload tea.Cmd
	f.m, reload = f.m.Update(recheckMsg{})
	f.run(t, reload)
	form := f.m.Form()
	assert.True(t, form.OpenAIKeyStored)
	assert.True(t, form.SMTPPassStored)
	assert.Empty(t, form.OpenAIKey)
	assert.Contains(t, f.m.View(), "Stored on the server")
	assert.Contains(t, f.m.View(), "A stored OpenAI API key will be cleared")
}

func TestSave_ValidationErrors(t *testing.T) {
	f := newFixture(t, 120)
	f.run(t, f.m.Init())

	f.key(tea.KeyEnter)
	f.key(tea.KeyTab)
	f.key(tea.KeyTab)
	f.typeText("x")
	f.key(tea.KeyTab)
	f.typeText("not-an-email")

	assert.Nil(t, f.key(tea.KeyCtrlS), "invalid forms are not sent")
	view := f.m.View()
	assert.Contains(t, view, "SMTP port must be a number between 1 and 65535")
	assert.Contains(t, view, "SMTP user must be a valid email address")
	assert.Contains(t, view, "Please fix the highlighted fields")
	assert.Equal(t, 0, f.srv.Calls(http.MethodPost, "/api/config"))
}

func TestSave_ServerError(t *testing.T) {
	f := newFixture(t, 120)
	f.run(t, f.m.Init())
	f.srv.FailNext(http.MethodPost, "/api/config", http.StatusInternalServerError, "disk full")

	f.run(t, f.key(tea.KeyCtrlS))
	assert.Contains(t, f.m.View(), "Failed to save configuration: disk full")
}

func TestLoad_ErrorKeepsDefaults(t *testing.T) {
	f := newFixture(t, 120)
	f.srv.FailNext(http.MethodGet, "/api/config", http.StatusInternalServerError, "db locked")
	f.run(t, f.m.Init())

	assert.Contains(t, f.m.View(), "Failed to load configuration: db locked")
	assert.Equal(t, "587", f.m.Form().SMTPPort)
	require.NotNil(t, f.m.Status(), "status still loads")
}

func TestCheck_Keys(t *testing.T) {
	f := newFixture(t, 120)
	f.run(t, f.m.Init())
	f.srv.SetOpenAI(true)
	f.srv.SetSMTP(true)

	f.run(t, f.key(tea.KeyCtrlR))
	assert.True(t, f.m.Status().OpenAIConnected)
	assert.Contains(t, f.m.View(), "All systems online")

	// Plain r types into a focused field instead of checking.
	f.key(tea.KeyEnter)
	f.typeText("r")
	assert.False(t, f.m.Busy())
	assert.Equal(t, "r", f.m.Form().OpenAIKey)

	f.key(tea.KeyEsc)
	assert.False(t, f.m.Editing())
	var cmd tea.Cmd
	f.m, cmd = f.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.NotNil(t, cmd)
	assert.True(t, f.m.Busy())
	assert.Nil(t, f.m.Check(), "one request at a time")
	f.run(t, cmd)
	assert.False(t, f.m.Busy())
}

func TestCheck_Error(t *testing.T) {
	f := newFixture(t, 120)
	f.run(t, f.m.Init())
	f.srv.FailNext(http.MethodGet, "/api/system/status", http.StatusBadGateway, "upstream down")
	f.run(t, f.m.Check())
	assert.Contains(t, f.m.View(), "Status check failed: upstream down")
}

func TestView_MasksSecrets(t *testing.T) {
	f := newFixture(t, 120)
	f.run(t, f.m.Init())
	f.key(tea.KeyEnter)
	f.typeText("sk-secret-value")
	assert.False(t, strings.Contains(f.m.View(), "sk-secret-value"))
	assert.Equal(t, "sk-secret-value", f.m.Form().OpenAIKey)
}
