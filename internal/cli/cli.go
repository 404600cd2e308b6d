// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command line parsing and dispatch for jarvis.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdRegister
	CmdLogout
	CmdWhoami
	CmdForgotPassword
	CmdDashboard
	CmdStatus
	CmdServerConfig
	CmdChat
	CmdMeetings
	CmdTasks
	CmdTodos
	CmdEmails
	CmdContacts
	CmdHistory
	CmdConfig
	CmdVersion
	CmdHelp
	CmdUnknown
)

// commandNames maps every accepted spelling to its command.
var commandNames = map[string]Command{
	"tui":             CmdTUI,
	"login":           CmdLogin,
	"register":        CmdRegister,
	"signup":          CmdRegister,
	"logout":          CmdLogout,
	"whoami":          CmdWhoami,
	"forgot-password": CmdForgotPassword,
	"reset-password":  CmdForgotPassword,
	"dashboard":       CmdDashboard,
	"dash":            CmdDashboard,
	"status":          CmdStatus,
	"s":               CmdStatus,
	"server-config":   CmdServerConfig,
	"chat":            CmdChat,
	"meetings":        CmdMeetings,
	"meeting":         CmdMeetings,
	"tasks":           CmdTasks,
	"task":            CmdTasks,
	"todos":           CmdTodos,
	"todo":            CmdTodos,
	"emails":          CmdEmails,
	"email":           CmdEmails,
	"contacts":        CmdContacts,
	"contact":         CmdContacts,
	"history":         CmdHistory,
	"config":          CmdConfig,
	"version":         CmdVersion,
	"--version":       CmdVersion,
	"help":            CmdHelp,
	"-h":              CmdHelp,
	"--help":          CmdHelp,
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Server  string // --server URL, overrides server.url
	JSON    bool
	Quiet   bool
	Verbose bool

	// Name is the command as typed.
	Name string

	// Raw args after the command name, global flags removed.
	Raw []string
}

// switches never take a value.
var switches = []string{"yes", "y", "all"}

// Parser returns an ArgParser over the command's own arguments.
func (a Args) Parser() *ArgParser {
	return NewArgParser(a.Raw, switches...)
}

const usageText = `jarvis - terminal client for the Jarvis AI assistant

Usage:
  jarvis                          Start the terminal UI (default)
  jarvis login [email]            Sign in and store the session
  jarvis register                 Create an account
  jarvis logout                   Forget the stored session
  jarvis whoami                   Show the signed-in user
  jarvis forgot-password [email]  Reset a password with the security question
  jarvis dashboard                Show meetings, tasks, to-dos and emails
  jarvis status, s                Check OpenAI, SMTP and database connections
  jarvis server-config [show|set|guide]
                                  View or change the server integrations
  jarvis chat                     Interactive chat with Jarvis
  jarvis meetings [list|start|note|end]
  jarvis tasks [list|add|done]
  jarvis todos [list|add|done]
  jarvis emails [list|send|draft]
  jarvis contacts [list|add]
  jarvis history [list|show|export|delete|clear]
  jarvis config [show|get|set|reset|path|keys]
  jarvis version
  jarvis help

Account:
  jarvis login tony@stark.io              Prompts for the password
  jarvis register --name Tony --email tony@stark.io
    --question "First car?" --answer "Hot rod"
                                          Optional security question
  jarvis forgot-password tony@stark.io    Shows the question, prompts for
                                          the answer and a new password

Server configuration:
  jarvis server-config show
  jarvis server-config set --openai-key sk-... --smtp-host smtp.gmail.com
    --smtp-port 587 --smtp-user me@gmail.com --smtp-pass app-password
    --yes                                 Allow clearing stored secrets

Meetings:
  jarvis meetings list
  jarvis meetings start "Sprint review" --attendees "Pepper, Happy"
  jarvis meetings note 12 "Ship on Friday"
  jarvis meetings end 12                  Prints the minutes of meeting

Tasks and to-dos:
  jarvis tasks add "Write report" --assignee Pepper --email pepper@stark.io
    --priority high --due 2025-07-01 --description "Q3 numbers"
  jarvis tasks done 7
  jarvis todos add "Buy milk"
  jarvis todos done 8

Email and contacts:
  jarvis emails send --to pepper@stark.io --subject Hi --body "See you soon"
  jarvis emails draft --to Pepper --context "thank her for the demo"
  jarvis contacts add Pepper pepper@stark.io

Local chat history:
  jarvis history list [--limit N] [--search TEXT] [--user EMAIL]
  jarvis history show <id>                Id prefixes are accepted
  jarvis history delete <id>
  jarvis history clear --yes

Client configuration (~/.jarvis/config.toml):
  jarvis config show
  jarvis config set server.url https://jarvis.example.com
  jarvis config path
  jarvis config keys

Global Flags:
  --server URL    Jarvis server origin (default from config)
  --json          Output in JSON format
  -q, --quiet     Minimal output
  -v, --verbose   Debug logging on stderr

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "jarvis version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
}

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses argv without the program name. Global flags may appear
// anywhere.
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsed := parseGlobalFlags(argv)
	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	parsed.Name = strings.ToLower(remaining[0])
	parsed.Raw = remaining[1:]
	if cmd, ok := commandNames[parsed.Name]; ok {
		return cmd, parsed
	}
	return CmdUnknown, parsed
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
// Everything after a bare "--" is passed through untouched.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsed Args

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			remaining = append(remaining, args[i:]...)
			return remaining, parsed
		case arg == "--json":
			parsed.JSON = true
		case arg == "-q", arg == "--quiet":
			parsed.Quiet = true
		case arg == "-v", arg == "--verbose":
			parsed.Verbose = true
		case arg == "--server":
			if i+1 < len(args) {
				i++
				parsed.Server = args[i]
			}
		case strings.HasPrefix(arg, "--server="):
			parsed.Server = strings.TrimPrefix(arg, "--server=")
		default:
			remaining = append(remaining, arg)
		}
	}
	return remaining, parsed
}

// =============================================================================
// DISPATCH
// =============================================================================

// Run executes a non-TUI command.
func Run(ctx context.Context, e *Env, cmd Command) error {
	switch cmd {
	case CmdLogin:
		return HandleLogin(ctx, e)
	case CmdRegister:
		return HandleRegister(ctx, e)
	case CmdLogout:
		return HandleLogout(ctx, e)
	case CmdWhoami:
		return HandleWhoami(ctx, e)
	case CmdForgotPassword:
		return HandleForgotPassword(ctx, e)
	case CmdDashboard:
		return HandleDashboard(ctx, e)
	case CmdStatus:
		return HandleStatus(ctx, e)
	case CmdServerConfig:
		return HandleServerConfig(ctx, e)
	case CmdChat:
		return HandleChat(ctx, e)
	case CmdMeetings:
		return HandleMeetings(ctx, e)
	case CmdTasks:
		return HandleTasks(ctx, e)
	case CmdTodos:
		return HandleTodos(ctx, e)
	case CmdEmails:
		return HandleEmails(ctx, e)
	case CmdContacts:
		return HandleContacts(ctx, e)
	case CmdHistory:
		return HandleHistory(ctx, e)
	case CmdConfig:
		return HandleConfig(e)
	case CmdVersion:
		return HandleVersion(e)
	case CmdHelp:
		PrintUsage(e.Out)
		return nil
	default:
		return unknownCommand(e.Args.Name)
	}
}

func unknownCommand(name string) error {
	err := &ValidationError{Field: "command", Value: name, Reason: "unknown command"}
	if s := SuggestCommand(name); s != "" {
		err.Example = "jarvis " + s
	} else {
		err.Example = "jarvis help"
	}
	return err
}

// HandleVersion handles the "version" command with JSON output support.
func HandleVersion(e *Env) error {
	if e.Args.JSON {
		return e.printJSON("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		})
	}
	PrintVersion(e.Out)
	return nil
}
