// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kouponize121/Jarvis-AI/internal/api"
	"github.com/kouponize121/Jarvis-AI/internal/config"
	"github.com/kouponize121/Jarvis-AI/internal/jarvistest"
	"github.com/kouponize121/Jarvis-AI/internal/model"
	"github.com/kouponize121/Jarvis-AI/internal/session"
	"github.com/kouponize121/Jarvis-AI/internal/storage"
)

type cliFixture struct {
	srv *jarvistest.Server
	cfg *config.Config
	uid int
}

func newCLIFixture(t *testing.T) *cliFixture {
	t.Helper()
	dir := t.TempDir()
	srv := jarvistest.New(t)

	cfg := config.Default()
	cfg.Server.URL = srv.URL
	cfg.Server.RateLimit = 0
	cfg.Session.Path = filepath.Join(dir, "session.json")
	cfg.Session.Watch = false
	cfg.History.Path = filepath.Join(dir, "history.db")
	cfg.History.ReplHistoryFile = filepath.Join(dir, "chat_history")

	return &cliFixture{
		srv: srv,
		cfg: cfg,
		uid: srv.AddUser("Tony", "tony@stark.io", "ironman"),
	}
}

// login stores a valid session without going through the login command.
func (f *cliFixture) login(t *testing.T) {
	t.Helper()
	require.NoError(t, session.NewStore(f.cfg.Session.Path).Save(session.Credentials{
		Token: f.srv.Token(f.uid, time.Hour),
		User:  api.User{ID: f.uid, Name: "Tony", Email: "tony@stark.io"},
	}))
}

// run executes argv with input as stdin and returns stdout and stderr.
func (f *cliFixture) run(t *testing.T, input string, argv ...string) (string, string, error) {
	t.Helper()
	cmd, args := ParseArgs(argv)
	e, err := newEnv(f.cfg, args, nil)
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	e.Out, e.Err = &out, &errOut
	e.SetInput(strings.NewReader(input))

	err = Run(context.Background(), e, cmd)
	return out.String(), errOut.String(), err
}

// runJSON runs argv with --json and decodes the envelope's data into v.
func (f *cliFixture) runJSON(t *testing.T, v interface{}, argv ...string) {
	t.Helper()
	out, _, err := f.run(t, "", append([]string{"--json"}, argv...)...)
	require.NoError(t, err)

	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	require.True(t, resp.Success)
	if v != nil {
		require.NoError(t, json.Unmarshal(resp.Data, v))
	}
}

// =============================================================================
// ACCOUNT
// =============================================================================

func TestLogin_PromptsForPassword(t *testing.T) {
	f := newCLIFixture(t)

	out, prompts, err := f.run(t, "ironman\n", "login", "tony@stark.io")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as Tony <tony@stark.io>")
	assert.Contains(t, prompts, "Password: ")

	creds, err := session.NewStore(f.cfg.Session.Path).Load()
	require.NoError(t, err)
	assert.Equal(t, "tony@stark.io", creds.User.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newCLIFixture(t)

	_, _, err := f.run(t, "nope\n", "login", "tony@stark.io")
	require.Error(t, err)
	assert.Equal(t, ExitAuthError, GetExitCode(err))
	assert.Equal(t, "Invalid credentials", api.Detail(err))
}

func TestLogin_NoInput(t *testing.T) {
	f := newCLIFixture(t)

	_, _, err := f.run(t, "", "login", "tony@stark.io")
	var ttyErr *TTYRequiredError
	require.ErrorAs(t, err, &ttyErr)
	assert.Equal(t, "read password", ttyErr.Operation)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestRegisterThenLogin(t *testing.T) {
	f := newCLIFixture(t)

	out, _, err := f.run(t, "secret1\n", "register", "--name", "Pepper", "--email", "pepper@stark.io",
		"--question", "First car?", "--answer", "Hot rod")
	require.NoError(t, err)
	assert.Contains(t, out, session.RegisteredMessage)

	// Registration does not sign in.
	_, err = session.NewStore(f.cfg.Session.Path).Load()
	assert.ErrorIs(t, err, session.ErrNotLoggedIn)

	out, _, err = f.run(t, "secret1\n", "login", "pepper@stark.io")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as Pepper")
}

func TestWhoami(t *testing.T) {
	f := newCLIFixture(t)

	_, _, err := f.run(t, "", "whoami")
	require.Error(t, err)
	assert.Equal(t, ExitAuthError, GetExitCode(err))
	assert.Contains(t, err.Error(), "jarvis login")

	f.login(t)
	var user api.User
	f.runJSON(t, &user, "whoami")
	assert.Equal(t, "Tony", user.Name)
	assert.Equal(t, f.uid, user.ID)
}

func TestWhoami_RevokedTokenIsCleared(t *testing.T) {
	f := newCLIFixture(t)
	f.login(t)
	creds, err := session.NewStore(f.cfg.Session.Path).Load()
	require.NoError(t, err)
	f.srv.Revoke(creds.Token)

	_, _, err = f.run(t, "", "whoami")
	assert.ErrorIs(t, err, session.ErrTokenExpired)
	assert.Equal(t, ExitAuthError, GetExitCode(err))

	_, err = session.NewStore(f.cfg.Session.Path).Load()
	assert.ErrorIs(t, err, session.ErrNotLoggedIn)
}

func TestLogout(t *testing.T) {
	f := newCLIFixture(t)
	f.login(t)

	out, _, err := f.run(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	_, err = session.NewStore(f.cfg.Session.Path).Load()
	assert.ErrorIs(t, err, session.ErrNotLoggedIn)

	// A second logout is harmless.
	_, _, err = f.run(t, "", "logout")
	assert.NoError(t, err)
}

func TestForgotPassword(t *testing.T) {
	f := newCLIFixture(t)
	f.srv.SetSecurityQuestion(f.uid, "First car?", "Hot rod")

	out, prompts, err := f.run(t, "Hot rod\nnewsecret\n", "forgot-password", "tony@stark.io")
	require.NoError(t, err)
	assert.Contains(t, prompts, "First car?")
	assert.Contains(t, out, "Password reset successfully")

	_, _, err = f.run(t, "newsecret\n", "login", "tony@stark.io")
	assert.NoError(t, err)
}

func TestForgotPassword_WrongAnswer(t *testing.T) {
	f := newCLIFixture(t)
	f.srv.SetSecurityQuestion(f.uid, "First car?", "Hot rod")

	_, _, err := f.run(t, "Sedan\nnewsecret\n", "forgot-password", "tony@stark.io")
	require.Error(t, err)
	assert.Equal(t, "Invalid security answer", api.Detail(err))
}

func TestForgotPassword_NoQuestion(t *testing.T) {
	f := newCLIFixture(t)

	_, _, err := f.run(t, "", "forgot-password", "tony@stark.io")
	require.Error(t, err)
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))
}

// =============================================================================
// SERVER
// =============================================================================

func TestStatus(t *testing.T) {
	f := newCLIFixture(t)
	f.srv.SetOpenAI(true)
	f.login(t)

	out, _, err := f.run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "OpenAI API")
	assert.Contains(t, out, "✅ Connected")
	assert.Contains(t, out, "❌ Disconnected")
	assert.Contains(t, out, "AI ready. Email configuration needed.")

	var st api.SystemStatus
	f.runJSON(t, &st, "status")
	assert.True(t, st.OpenAIConnected)
	assert.False(t, st.SMTPConnected)
	assert.True(t, st.DatabaseConnected)
}

func TestServerConfig_SetAndShow(t *testing.T) {
	f := newCLIFixture(t)
	f.srv.SetOpenAI(true)
	f.login(t)

	out, _, err := f.run(t, "", "server-config", "set", "--openai-key", "sk-test")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration saved successfully!")
	assert.Equal(t, "sk-test", f.srv.StoredConfig(f.uid)["openai_key"])

	var data ServerConfigData
	f.runJSON(t, &data, "server-config", "show")
	assert.True(t, data.OpenAIKeySet)
	assert.Equal(t, "587", data.SMTPPort)
	assert.NotContains(t, data.SMTPHost, api.Masked)
}

func TestServerConfig_ClearingStoredSecretNeedsConfirmation(t *testing.T) {
	f := newCLIFixture(t)
	f.srv.SetOpenAI(true)
	f.login(t)
	_, _, err := f.run(t, "", "server-config", "set", "--openai-key", "sk-test")
	require.NoError(t, err)

	// The key is stored masked; saving without it would clear it.
	_, prompts, err := f.run(t, "", "server-config", "set", "--smtp-host", "smtp.example.com")
	var confirmErr *ConfirmationRequiredError
	require.ErrorAs(t, err, &confirmErr)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
	assert.Contains(t, prompts, "OpenAI API key will be cleared")
	assert.Equal(t, "sk-test", f.srv.StoredConfig(f.uid)["openai_key"])

	_, _, err = f.run(t, "n\n", "server-config", "set", "--smtp-host", "smtp.example.com")
	assert.ErrorIs(t, err, errCancelled)

	_, _, err = f.run(t, "", "server-config", "set", "--smtp-host", "smtp.example.com", "--yes")
	require.NoError(t, err)
	stored := f.srv.StoredConfig(f.uid)
	assert.Equal(t, "smtp.example.com", stored["smtp_host"])
	assert.Nil(t, stored["openai_key"])
}

func TestServerConfig_InvalidPort(t *testing.T) {
	f := newCLIFixture(t)
	f.login(t)

	_, _, err := f.run(t, "", "server-config", "set", "--smtp-port", "99999")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
	assert.Zero(t, f.srv.Calls("POST", "/api/config"))
}

// =============================================================================
// WORKSPACE
// =============================================================================

func TestDashboard(t *testing.T) {
	f := newCLIFixture(t)
	f.login(t)
	_, _, err := f.run(t, "", "todos", "add", "Buy", "milk")
	require.NoError(t, err)

	out, _, err := f.run(t, "", "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome back, Tony")
	assert.Contains(t, out, "Buy milk")
}

func TestMeetings_StartNoteEnd(t *testing.T) {
	f := newCLIFixture(t)
	f.login(t)

	var started MessageData
	f.runJSON(t, &started, "meetings", "start", "Sprint review", "--attendees", "Pepper, Happy")
	require.NotZero(t, started.ID)
	id := strconv.Itoa(started.ID)

	out, _, err := f.run(t, "", "meetings", "note", id, "Ship", "on", "Friday")
	require.NoError(t, err)
	assert.Contains(t, out, "Note added successfully")

	var ended MeetingEndData
	f.runJSON(t, &ended, "meetings", "end", id)
	assert.Equal(t, started.ID, ended.MeetingID)
	assert.True(t, strings.HasPrefix(ended.MoM, "# Minutes of Meeting: Sprint review"), ended.MoM)
	assert.Contains(t, ended.MoM, "Ship on Friday")

	out, _, err = f.run(t, "", "meetings")
	require.NoError(t, err)
	assert.Contains(t, out, "Sprint review")
	assert.Contains(t, out, "completed")

	_, _, err = f.run(t, "", "meetings", "end", id)
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))
}

func TestMeetings_BadID(t *testing.T) {
	f := newCLIFixture(t)
	f.login(t)

	_, _, err := f.run(t, "", "meetings", "end", "abc")
	assert.Equal(t, ExitUsageError, GetExitCode(err))
	assert.Zero(t, f.srv.Calls("POST", "/api/meetings/abc/end"))
}

func TestTasks_AddListDone(t *testing.T) {
	f := newCLIFixture(t)
	f.srv.SetSMTP(true)
	f.login(t)

	var created MessageData
	f.runJSON(t, &created, "tasks", "add", "Write report", "--priority", "high",
		"--due", "2025-07-01", "--assignee", "Pepper", "--email", "pepper@stark.io")
	assert.Equal(t, "Task created successfully", created.Message)

	var tasks []api.Task
	f.runJSON(t, &tasks, "tasks", "list")
	require.Len(t, tasks, 1)
	assert.Equal(t, "Write report", tasks[0].Title)
	assert.Equal(t, api.PriorityHigh, tasks[0].Priority)
	assert.Equal(t, "Pepper", tasks[0].Assignee)
	assert.Len(t, f.srv.SentEmails(f.uid), 1, "assignee is notified")

	out, _, err := f.run(t, "", "tasks", "done", strconv.Itoa(created.ID))
	require.NoError(t, err)
	assert.Contains(t, out, "Task marked as completed")

	f.runJSON(t, &tasks, "tasks")
	assert.Equal(t, "completed", tasks[0].Status)
}

func TestTasks_Validation(t *testing.T) {
	f := newCLIFixture(t)
	f.login(t)

	tests := []struct {
		name string
		argv []string
	}{
		{"bad priority", []string{"tasks", "add", "Report", "--priority", "urgent"}},
		{"bad email", []string{"tasks", "add", "Report", "--email", "pepper"}},
		{"bad date", []string{"tasks", "add", "Report", "--due", "tomorrow"}},
		{"unknown subcommand", []string{"tasks", "archive"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.run(t, "", tt.argv...)
			require.Error(t, err)
			assert.Equal(t, ExitUsageError, GetExitCode(err))
		})
	}
	assert.Zero(t, f.srv.Calls("POST", "/api/tasks"))
}

func TestTodos_AddPromptsForTitle(t *testing.T) {
	f := newCLIFixture(t)
	f.login(t)

	out, prompts, err := f.run(t, "Buy milk\n", "todos", "add")
	require.NoError(t, err)
	assert.Contains(t, prompts, "Title: ")
	assert.Contains(t, out, "Todo created successfully")

	var todos []api.Todo
	f.runJSON(t, &todos, "todos")
	require.Len(t, todos, 1)
	assert.Equal(t, "Buy milk", todos[0].Title)

	_, _, err = f.run(t, "", "todos", "done", strconv.Itoa(todos[0].ID))
	require.NoError(t, err)
	f.runJSON(t, &todos, "todos")
	assert.Equal(t, "completed", todos[0].Status)
	assert.False(t, todos[0].CompletedAt.IsZero())
}

func TestTodos_JSONModeNeverPrompts(t *testing.T) {
	f := newCLIFixture(t)
	f.login(t)

	_, prompts, err := f.run(t, "Buy milk\n", "--json", "todos", "add")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
	assert.Empty(t, prompts)
}

func TestEmails_Send(t *testing.T) {
	f := newCLIFixture(t)
	f.login(t)
	args := []string{"emails", "send", "--to", "pepper@stark.io", "--subject", "Hi", "--body", "See you soon"}

	_, _, err := f.run(t, "", args...)
	require.Error(t, err)
	assert.Equal(t, ExitServerError, GetExitCode(err))
	assert.Equal(t, "Failed to send email", api.Detail(err))

	f.srv.SetSMTP(true)
	out, _, err := f.run(t, "", args...)
	require.NoError(t, err)
	assert.Contains(t, out, "Email sent successfully")

	sent := f.srv.SentEmails(f.uid)
	require.Len(t, sent, 1)
	assert.Equal(t, "See you soon", sent[0].Body)

	var emails []api.Email
	f.runJSON(t, &emails, "emails")
	require.Len(t, emails, 1)
	assert.Equal(t, "Hi", emails[0].Subject)
}

func TestEmails_Draft(t *testing.T) {
	f := newCLIFixture(t)
	f.login(t)

	_, _, err := f.run(t, "", "emails", "draft", "--to", "Pepper", "--context", "thanks for the demo")
	assert.Equal(t, ExitServerError, GetExitCode(err))

	f.srv.SetOpenAI(true)
	var draft api.EmailDraft
	f.runJSON(t, &draft, "emails", "draft", "--to", "Pepper", "--context", "thanks for the demo")
	assert.Equal(t, "Regarding: thanks for the demo", draft.Subject)
	assert.Contains(t, draft.Body, "Hello Pepper")
}

func TestContacts(t *testing.T) {
	f := newCLIFixture(t)
	f.login(t)

	out, _, err := f.run(t, "", "contacts")
	require.NoError(t, err)
	assert.Contains(t, out, "No contacts yet.")

	out, _, err = f.run(t, "", "contacts", "add", "Pepper", "pepper@stark.io")
	require.NoError(t, err)
	assert.Contains(t, out, "Contact created successfully")

	var contacts []api.Contact
	f.runJSON(t, &contacts, "contacts", "list")
	require.Len(t, contacts, 1)
	assert.Equal(t, "pepper@stark.io", contacts[0].Email)

	_, _, err = f.run(t, "", "contacts", "add", "Happy", "not-an-email")
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestServerDown(t *testing.T) {
	f := newCLIFixture(t)
	f.login(t)
	f.srv.Close()

	_, _, err := f.run(t, "", "dashboard")
	require.Error(t, err)
	assert.Equal(t, ExitNetworkError, GetExitCode(err))

	// The token survives a transport failure.
	_, err = session.NewStore(f.cfg.Session.Path).Load()
	assert.NoError(t, err)
}

// =============================================================================
// LOCAL
// =============================================================================

func seedHistory(t *testing.T, path string, texts ...string) []string {
	t.Helper()
	store, err := storage.Open(path, 0)
	require.NoError(t, err)
	defer store.Close()

	var ids []string
	for _, text := range texts {
		tr := model.NewTranscript()
		tr.UserEmail = "tony@stark.io"
		require.NoError(t, store.RecordMessage(tr, tr.Add(model.KindUser, text)))
		require.NoError(t, store.RecordMessage(tr, tr.Add(model.KindJarvis, "Noted: "+text)))
		ids = append(ids, tr.ID)
	}
	return ids
}

func TestHistory(t *testing.T) {
	f := newCLIFixture(t)
	ids := seedHistory(t, f.cfg.History.Path, "plan the offsite", "quarterly numbers")

	out, _, err := f.run(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "plan the offsite")
	assert.Contains(t, out, "quarterly numbers")

	var metas []model.TranscriptMeta
	f.runJSON(t, &metas, "history", "list", "--search", "offsite")
	require.Len(t, metas, 1)
	assert.Equal(t, ids[0], metas[0].ID)

	out, _, err = f.run(t, "", "history", "show", ids[0][:8])
	require.NoError(t, err)
	assert.Contains(t, out, "Noted: plan the offsite")

	_, _, err = f.run(t, "", "history", "show", "ffffffff")
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))

	_, _, err = f.run(t, "", "history", "delete", ids[0])
	require.NoError(t, err)
	f.runJSON(t, &metas, "history")
	assert.Len(t, metas, 1)
}

func TestHistory_ClearNeedsYes(t *testing.T) {
	f := newCLIFixture(t)
	seedHistory(t, f.cfg.History.Path, "one", "two")

	_, _, err := f.run(t, "", "history", "clear")
	var confirmErr *ConfirmationRequiredError
	require.ErrorAs(t, err, &confirmErr)

	out, _, err := f.run(t, "", "history", "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 2 saved chats")

	var metas []model.TranscriptMeta
	f.runJSON(t, &metas, "history")
	assert.Empty(t, metas)
}

func TestHistory_Disabled(t *testing.T) {
	f := newCLIFixture(t)
	f.cfg.History.Enabled = false

	_, _, err := f.run(t, "", "history")
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestChat_Scripted(t *testing.T) {
	f := newCLIFixture(t)
	f.srv.SetOpenAI(true)
	f.login(t)

	out, _, err := f.run(t, "hello\n\nexit\n", "chat")
	require.NoError(t, err)
	assert.Contains(t, out, "Jarvis AI Assistant initialized.")
	assert.Contains(t, out, "jarvis> I am Jarvis. You said: hello")
	assert.NotContains(t, out, "> hello\n", "the user's own line is not echoed")
	assert.Equal(t, 1, f.srv.Calls("POST", "/api/chat"))

	store, err := storage.Open(f.cfg.History.Path, 0)
	require.NoError(t, err)
	defer store.Close()
	metas, err := store.List(context.Background(), storage.ListOptions{UserEmail: "tony@stark.io"})
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Contains(t, metas[0].Title, "hello")
}

func TestChat_QuickMeeting(t *testing.T) {
	f := newCLIFixture(t)
	f.srv.SetOpenAI(true)
	f.login(t)

	out, _, err := f.run(t, "/quick-meeting start Standup\n/quick-meeting note ship it\n/quick-meeting end\n", "chat")
	require.NoError(t, err)
	assert.Contains(t, out, "Minutes of Meeting")

	meetings := f.srv.Meetings(f.uid)
	require.Len(t, meetings, 1)
	assert.Equal(t, "completed", meetings[0].Status)
}

func TestChat_SessionEndsMidREPL(t *testing.T) {
	f := newCLIFixture(t)
	f.srv.SetOpenAI(true)
	f.login(t)
	creds, err := session.NewStore(f.cfg.Session.Path).Load()
	require.NoError(t, err)
	f.srv.SetChatReply(func(message, _ string) string {
		if message == "first" {
			f.srv.Revoke(creds.Token)
		}
		return "ok: " + message
	})

	out, errOut, err := f.run(t, "first\nsecond\nthird\n", "chat")
	require.Error(t, err)
	assert.Equal(t, ExitAuthError, GetExitCode(err))
	assert.ErrorIs(t, err, session.ErrTokenExpired)
	assert.Contains(t, out, "ok: first")
	assert.Contains(t, errOut, "Session ended: session expired")
	assert.Equal(t, 2, f.srv.Calls("POST", "/api/chat"), "input after the session ended is not sent")

	_, err = session.NewStore(f.cfg.Session.Path).Load()
	assert.ErrorIs(t, err, session.ErrNotLoggedIn)
}

func TestChat_RequiresLogin(t *testing.T) {
	f := newCLIFixture(t)

	_, _, err := f.run(t, "hello\n", "chat")
	assert.Equal(t, ExitAuthError, GetExitCode(err))
	assert.Zero(t, f.srv.Calls("POST", "/api/chat"))
}

func TestConfigCommand(t *testing.T) {
	t.Setenv("JARVIS_HOME", t.TempDir())
	f := newCLIFixture(t)

	out, _, err := f.run(t, "", "config", "set", "ui.theme", "light")
	require.NoError(t, err)
	assert.Contains(t, out, "ui.theme = light")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.UI.Theme)

	_, _, err = f.run(t, "", "config", "set", "server.nope", "1")
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	_, _, err = f.run(t, "", "config", "set", "server.url", "not a url")
	assert.Equal(t, ExitConfigError, GetExitCode(err))

	out, _, err = f.run(t, "", "config", "keys")
	require.NoError(t, err)
	assert.Contains(t, out, "history.max_sessions")

	out, _, err = f.run(t, "", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.Getenv("JARVIS_HOME"), "config.toml"), strings.TrimSpace(out))
}

func TestVersionJSON(t *testing.T) {
	f := newCLIFixture(t)

	var v VersionData
	f.runJSON(t, &v, "version")
	assert.Equal(t, Version, v.Version)
	assert.NotEmpty(t, v.GoVersion)
}

func TestRun_Unknown(t *testing.T) {
	f := newCLIFixture(t)

	_, _, err := f.run(t, "", "meetngs")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "jarvis meetings", verr.Example)
}
