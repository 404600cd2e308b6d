// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/kouponize121/Jarvis-AI/internal/api"
	"github.com/kouponize121/Jarvis-AI/internal/config"
	"github.com/kouponize121/Jarvis-AI/internal/session"
	"github.com/kouponize121/Jarvis-AI/internal/storage"
	"github.com/kouponize121/Jarvis-AI/internal/validate"
)

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantSub  string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name:    "simple subcommand",
			args:    []string{"list"},
			wantSub: "list",
		},
		{
			name:    "subcommand with flag",
			args:    []string{"list", "--limit", "50"},
			wantSub: "list",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("limit") != "50" {
					t.Errorf("Flag(limit) = %q, want %q", p.Flag("limit"), "50")
				}
			},
		},
		{
			name:    "flag with equals",
			args:    []string{"add", "Report", "--due=2025-01-31"},
			wantSub: "add",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("due") != "2025-01-31" {
					t.Errorf("Flag(due) = %q, want %q", p.Flag("due"), "2025-01-31")
				}
			},
		},
		{
			name:    "boolean flag at end",
			args:    []string{"clear", "--yes"},
			wantSub: "clear",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("yes") {
					t.Error("BoolFlag(yes) should be true")
				}
			},
		},
		{
			name:    "multiple positional args",
			args:    []string{"add", "buy", "oat", "milk"},
			wantSub: "add",
			validate: func(t *testing.T, p *ArgParser) {
				if p.PositionalCount() != 4 {
					t.Errorf("PositionalCount() = %d, want 4", p.PositionalCount())
				}
				if got := JoinPositionalArgs(p, 1); got != "buy oat milk" {
					t.Errorf("JoinPositionalArgs(1) = %q, want %q", got, "buy oat milk")
				}
			},
		},
		{
			name:    "mixed flags and positional",
			args:    []string{"start", "--attendees", "Pepper, Happy", "Sprint", "review"},
			wantSub: "start",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("attendees") != "Pepper, Happy" {
					t.Errorf("Flag(attendees) = %q, want %q", p.Flag("attendees"), "Pepper, Happy")
				}
				if p.Positional(1) != "Sprint" {
					t.Errorf("Positional(1) = %q, want %q", p.Positional(1), "Sprint")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewArgParser(tt.args)
			if parser.Subcommand() != tt.wantSub {
				t.Errorf("Subcommand() = %q, want %q", parser.Subcommand(), tt.wantSub)
			}
			if tt.validate != nil {
				tt.validate(t, parser)
			}
		})
	}
}

func TestArgParser_SwitchesNeverTakeValues(t *testing.T) {
	p := NewArgParser([]string{"done", "--yes", "7"}, "yes")
	if !p.BoolFlag("yes") {
		t.Error("BoolFlag(yes) should be true")
	}
	if p.Positional(1) != "7" {
		t.Errorf("Positional(1) = %q, want %q", p.Positional(1), "7")
	}

	// Without the switch list the value is swallowed.
	p = NewArgParser([]string{"done", "--yes", "7"})
	if p.Flag("yes") != "7" {
		t.Errorf("Flag(yes) = %q, want %q", p.Flag("yes"), "7")
	}
}

func TestArgParser_BoolFlagAliases(t *testing.T) {
	p := NewArgParser([]string{"clear", "-y"}, switches...)
	if !p.BoolFlag("yes", "y") {
		t.Error("BoolFlag(yes, y) should accept -y")
	}
	if p.BoolFlag("all") {
		t.Error("BoolFlag(all) should be false")
	}
}

func TestArgParser_FlagIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		flagName   string
		defaultVal int
		want       int
	}{
		{"flag present", []string{"list", "--limit", "10"}, "limit", 20, 10},
		{"flag missing uses default", []string{"list"}, "limit", 20, 20},
		{"invalid int uses default", []string{"list", "--limit", "abc"}, "limit", 20, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewArgParser(tt.args).FlagIntOrDefault(tt.flagName, tt.defaultVal)
			if got != tt.want {
				t.Errorf("FlagIntOrDefault(%q, %d) = %d, want %d", tt.flagName, tt.defaultVal, got, tt.want)
			}
		})
	}
}

func TestArgParser_HasFlag(t *testing.T) {
	parser := NewArgParser([]string{"set", "--smtp-pass=", "--openai-key", "sk"})

	if !parser.HasFlag("smtp-pass") {
		t.Error("HasFlag(smtp-pass) should be true for an empty value")
	}
	if !parser.HasFlag("--openai-key") {
		t.Error("HasFlag(--openai-key) should be true")
	}
	if parser.HasFlag("smtp-host") {
		t.Error("HasFlag(smtp-host) should be false")
	}
}

func TestArgParser_EmptyArgs(t *testing.T) {
	parser := NewArgParser(nil)
	if parser.Subcommand() != "" {
		t.Errorf("Subcommand() = %q, want empty", parser.Subcommand())
	}
	if parser.Positional(0) != "" || parser.Positional(-1) != "" {
		t.Error("Positional out of range should be empty")
	}
	if len(parser.PositionalFrom(3)) != 0 {
		t.Error("PositionalFrom out of range should be empty")
	}
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{"true", true, false},
		{"YES", true, false},
		{" y ", true, false},
		{"on", true, false},
		{"false", false, false},
		{"n", false, false},
		{"0", false, false},
		{"maybe", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBoolString(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBoolString(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"7", 7, false},
		{"", 0, true},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseID(tt.input, "task id")
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseID(%q) = %d, want %d", tt.input, got, tt.want)
			}
			if err != nil && GetExitCode(err) != ExitUsageError {
				t.Errorf("ParseID(%q) exit code = %d, want %d", tt.input, GetExitCode(err), ExitUsageError)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-07-01", "due date")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if got.Year() != 2025 || got.Month() != 7 || got.Day() != 1 {
		t.Errorf("ParseDate() = %v", got)
	}
	if _, err := ParseDate("07/01/2025", "due date"); err == nil {
		t.Error("ParseDate should reject non ISO dates")
	}
}

// =============================================================================
// COMMAND LINE TESTS (cli.go)
// =============================================================================

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		wantCmd Command
		check   func(*testing.T, Args)
	}{
		{
			name:    "no args starts the TUI",
			argv:    nil,
			wantCmd: CmdTUI,
		},
		{
			name:    "global flags only",
			argv:    []string{"--server", "http://jarvis:8001"},
			wantCmd: CmdTUI,
			check: func(t *testing.T, a Args) {
				if a.Server != "http://jarvis:8001" {
					t.Errorf("Server = %q", a.Server)
				}
			},
		},
		{
			name:    "alias",
			argv:    []string{"s"},
			wantCmd: CmdStatus,
		},
		{
			name:    "global flags anywhere",
			argv:    []string{"tasks", "--json", "add", "Report", "-q", "--server=http://x"},
			wantCmd: CmdTasks,
			check: func(t *testing.T, a Args) {
				if !a.JSON || !a.Quiet || a.Server != "http://x" {
					t.Errorf("globals = %+v", a)
				}
				if strings.Join(a.Raw, " ") != "add Report" {
					t.Errorf("Raw = %v", a.Raw)
				}
			},
		},
		{
			name:    "case insensitive",
			argv:    []string{"Dashboard"},
			wantCmd: CmdDashboard,
		},
		{
			name:    "double dash passes flags through",
			argv:    []string{"todos", "add", "--", "--json"},
			wantCmd: CmdTodos,
			check: func(t *testing.T, a Args) {
				if a.JSON {
					t.Error("--json after -- must not be global")
				}
			},
		},
		{
			name:    "unknown command",
			argv:    []string{"dashbaord"},
			wantCmd: CmdUnknown,
			check: func(t *testing.T, a Args) {
				if a.Name != "dashbaord" {
					t.Errorf("Name = %q", a.Name)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := ParseArgs(tt.argv)
			if cmd != tt.wantCmd {
				t.Errorf("ParseArgs(%v) = %v, want %v", tt.argv, cmd, tt.wantCmd)
			}
			if tt.check != nil {
				tt.check(t, args)
			}
		})
	}
}

func TestSuggestCommand(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"dashbaord", "dashboard"},
		{"hepl", "help"},
		{"statsu", "status"},
		{"logn", "login"},
		{"login", ""},
		{"x", ""},
		{"completely-different", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SuggestCommand(tt.input); got != tt.want {
				t.Errorf("SuggestCommand(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestUnknownCommandSuggests(t *testing.T) {
	err := unknownCommand("dashbaord")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("unknownCommand() = %T, want *ValidationError", err)
	}
	if verr.Example != "jarvis dashboard" {
		t.Errorf("Example = %q, want %q", verr.Example, "jarvis dashboard")
	}
	if GetExitCode(err) != ExitUsageError {
		t.Errorf("exit code = %d, want %d", GetExitCode(err), ExitUsageError)
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"tasks", "tasks", 0},
		{"todo", "todos", 1},
		{"café", "cafe", 1},
	}
	for _, tt := range tests {
		if got := levenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

// =============================================================================
// ERROR TESTS (errors.go)
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", errors.New("boom"), ExitGeneralError},
		{"validation", &ValidationError{Field: "id", Reason: "bad"}, ExitUsageError},
		{"field errors", validate.Errors{{Field: "email", Message: "invalid"}}, ExitUsageError},
		{"no tty", &TTYRequiredError{Operation: "read password"}, ExitUsageError},
		{"confirmation", &ConfirmationRequiredError{Action: "clear"}, ExitUsageError},
		{"not found", &NotFoundError{Resource: "chat", ID: "abc"}, ExitNotFoundError},
		{"transcript not found", fmt.Errorf("load: %w", storage.ErrNotFound), ExitNotFoundError},
		{"config", config.ValidateErrors{{Field: "server.url", Message: "bad"}}, ExitConfigError},
		{"not logged in", fmt.Errorf("%w (run 'jarvis login')", session.ErrNotLoggedIn), ExitAuthError},
		{"expired", session.ErrTokenExpired, ExitAuthError},
		{"401", &api.APIError{Status: 401, Detail: "Invalid token"}, ExitAuthError},
		{"403", &api.APIError{Status: 403}, ExitAuthError},
		{"404", &api.APIError{Status: 404, Detail: "Meeting not found"}, ExitNotFoundError},
		{"422", &api.APIError{Status: 422}, ExitUsageError},
		{"500", &api.APIError{Status: 500, Detail: "Failed to send email"}, ExitServerError},
		{"breaker open", api.ErrServerUnavailable, ExitNetworkError},
		{"connection refused", &url.Error{Op: "Get", URL: "http://x", Err: errors.New("connection refused")}, ExitNetworkError},
		{"deadline", fmt.Errorf("chat: %w", context.DeadlineExceeded), ExitTimeoutError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestCommandError_UsesServerDetail(t *testing.T) {
	err := NewCommandError("emails", "send", "delivery failed", &api.APIError{Status: 500, Detail: "Failed to send email"})
	want := "emails send failed: delivery failed: Failed to send email"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if GetExitCode(err) != ExitServerError {
		t.Errorf("exit code = %d, want %d", GetExitCode(err), ExitServerError)
	}
}

func TestDisplayError(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		DisplayError(&buf, &NotFoundError{Resource: "chat", ID: "abc"}, "history", false)
		if !strings.Contains(buf.String(), "[ERROR] chat not found: abc") {
			t.Errorf("output = %q", buf.String())
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		DisplayError(&buf, session.ErrNotLoggedIn, "whoami", true)

		var resp JSONResponse
		if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
		}
		if resp.Success {
			t.Error("Success should be false")
		}
		if resp.Error == nil || *resp.Error != session.ErrNotLoggedIn.Error() {
			t.Errorf("Error = %v", resp.Error)
		}
		if resp.ErrorType != "auth_error" {
			t.Errorf("ErrorType = %q, want auth_error", resp.ErrorType)
		}
		if resp.Command != "whoami" {
			t.Errorf("Command = %q", resp.Command)
		}
	})

	t.Run("nil", func(t *testing.T) {
		var buf bytes.Buffer
		DisplayError(&buf, nil, "x", false)
		if buf.Len() != 0 {
			t.Errorf("output = %q, want empty", buf.String())
		}
	})
}

// =============================================================================
// OUTPUT TESTS
// =============================================================================

func TestJSONResponse_Print(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONResponse("todos", MessageData{Message: "Todo created successfully", ID: 3}).Print(&buf, false); err != nil {
		t.Fatalf("Print() error = %v", err)
	}

	var got struct {
		Success bool        `json:"success"`
		Data    MessageData `json:"data"`
		Error   *string     `json:"error"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if !got.Success || got.Error != nil || got.Data.ID != 3 {
		t.Errorf("decoded = %+v", got)
	}
}

func TestRenderTable_AlignsWideRunes(t *testing.T) {
	out := RenderTable([]string{"ID", "TITLE", "STATUS"}, [][]string{
		{"1", "会議", "active"},
		{"22", "Sync", "completed"},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	// STATUS starts in the same column on every row.
	col := strings.Index(lines[0], "STATUS")
	for _, line := range lines[1:] {
		prefix := line[:strings.LastIndex(line, "  ")+2]
		if w := displayWidth(prefix); w != col {
			t.Errorf("row %q: status column at %d, want %d", line, w, col)
		}
	}
}

func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x1100 {
			n += 2
		} else {
			n++
		}
	}
	return n
}
