// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat with Jarvis in the terminal.
//
// The REPL feeds each line to the same assistant the TUI uses, so
// commands, the meeting flow and quick meetings behave identically.
// Arrow keys recall earlier input, which is kept across runs.
//
// Exit with "exit", "quit", Ctrl+D or Ctrl+C at the prompt. Ctrl+C while a
// command is running cancels only that command.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/kouponize121/Jarvis-AI/internal/assistant"
	"github.com/kouponize121/Jarvis-AI/internal/model"
	"github.com/kouponize121/Jarvis-AI/internal/session"
	"github.com/kouponize121/Jarvis-AI/internal/util"
)

// =============================================================================
// INPUT
// =============================================================================

// lineReader is the REPL's input source.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// linerReader adds line editing and persistent history on a terminal.
type linerReader struct {
	*liner.State
	historyFile string
	logger      *zap.Logger
}

func newLinerReader(historyFile string, logger *zap.Logger) *linerReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	r := &linerReader{State: line, historyFile: historyFile, logger: logger}
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	return r
}

// Close saves history with owner-only permissions and restores the terminal.
func (r *linerReader) Close() error {
	if err := r.saveHistory(); err != nil {
		r.logger.Warn("failed to save chat input history", zap.Error(err))
	}
	return r.State.Close()
}

func (r *linerReader) saveHistory() error {
	if err := os.MkdirAll(filepath.Dir(r.historyFile), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = r.WriteHistory(f)
	return err
}

// pipeReader reads plain lines, for scripted input.
type pipeReader struct {
	in *bufio.Reader
}

func (r *pipeReader) Prompt(string) (string, error) {
	line, err := r.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (r *pipeReader) AppendHistory(string) {}

func (r *pipeReader) Close() error { return nil }

// =============================================================================
// REPL
// =============================================================================

// HandleChat runs the chat REPL for the signed-in user.
func HandleChat(ctx context.Context, e *Env) error {
	if e.Args.JSON {
		return &ValidationError{Field: "--json", Reason: "chat is interactive", Example: "jarvis chat"}
	}
	user, err := e.requireLogin(ctx)
	if err != nil {
		return err
	}

	store, err := e.OpenHistory()
	if err != nil {
		e.Logger.Warn("chat history unavailable", zap.Error(err))
	}
	if store != nil {
		defer store.Close()
	}

	transcript := model.NewTranscript()
	transcript.UserEmail = user.Email
	a := assistant.New(e.Client).WithLogger(e.Logger).WithTranscript(transcript)
	if store != nil {
		a = a.WithRecorder(store)
	}

	ended := make(chan session.Reason, 1)
	e.Session.OnLogout(func(r session.Reason) {
		select {
		case ended <- r:
		default:
		}
	})

	if e.Config.Session.Watch {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		if err := e.Session.Watch(watchCtx); err != nil {
			e.Logger.Warn("session watch unavailable", zap.Error(err))
		}
	}

	var input lineReader = &pipeReader{in: e.in}
	if e.interactive {
		path, err := e.Config.ReplHistoryPath()
		if err != nil {
			return err
		}
		input = newLinerReader(path, e.Logger)
	}
	defer input.Close()

	r := &repl{env: e, assistant: a, input: input, ended: ended}
	return r.run(ctx, user.Name)
}

type repl struct {
	env       *Env
	assistant *assistant.Assistant
	input     lineReader
	ended     <-chan session.Reason

	// printed counts transcript messages already written out.
	printed int
}

func (r *repl) run(ctx context.Context, name string) error {
	e := r.env
	if !e.Args.Quiet {
		fmt.Fprintln(e.Out, TitleStyle.Render("Jarvis chat")+" "+DimStyle.Render("signed in as "+name))
		fmt.Fprintln(e.Out, DimStyle.Render(`Type /help for commands, "exit" to leave.`))
		fmt.Fprintln(e.Out)
	}

	if err := r.assistant.Init(ctx); err != nil {
		return err
	}
	r.flush()

	for {
		if err := r.sessionEnded(); err != nil {
			return err
		}

		line, err := r.input.Prompt("you> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(e.Out)
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.input.AppendHistory(line)
		if isExit(line) {
			return nil
		}

		r.submit(ctx, line)
		r.flush()
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// submit runs one command; Ctrl+C cancels it without leaving the REPL.
func (r *repl) submit(ctx context.Context, line string) {
	cmdCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if err := r.assistant.Submit(cmdCtx, line); err != nil {
		fmt.Fprintf(r.env.Err, "%s %v\n", ErrorStyle.Render("[ERROR]"), err)
		return
	}
	if cmdCtx.Err() != nil && ctx.Err() == nil {
		fmt.Fprintln(r.env.Err, WarningStyle.Render("[Cancelled]"))
	}
}

// flush prints messages added since the last call. The user's own lines are
// already on screen.
func (r *repl) flush() {
	msgs := r.assistant.Snapshot().Messages
	for _, msg := range msgs[r.printed:] {
		switch msg.Kind {
		case model.KindUser:
		case model.KindJarvis:
			content := msg.Content
			if strings.HasPrefix(content, "#") {
				content = strings.TrimRight(r.env.renderMarkdown(content), "\n")
			}
			fmt.Fprintf(r.env.Out, "%s %s\n", JarvisStyle.Render("jarvis>"), content)
		default:
			fmt.Fprintln(r.env.Out, DimStyle.Render(msg.Content))
		}
	}
	r.printed = len(msgs)
}

// sessionEnded reports a logout or rejected token seen since the last prompt.
func (r *repl) sessionEnded() error {
	select {
	case reason := <-r.ended:
		fmt.Fprintln(r.env.Err, WarningStyle.Render("Session ended: "+reason.String()))
		return fmt.Errorf("%w (run 'jarvis login')", session.ErrTokenExpired)
	default:
		return nil
	}
}

func isExit(line string) bool {
	return util.EqualsPhrase(line, "exit", "quit", "/exit", "/quit")
}
