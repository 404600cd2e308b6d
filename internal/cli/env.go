// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/kouponize121/Jarvis-AI/internal/api"
	"github.com/kouponize121/Jarvis-AI/internal/config"
	"github.com/kouponize121/Jarvis-AI/internal/logging"
	"github.com/kouponize121/Jarvis-AI/internal/session"
	"github.com/kouponize121/Jarvis-AI/internal/storage"
)

// Env is everything a command needs: parsed arguments, the loaded config,
// the API client with its session, and the streams to talk to the user.
type Env struct {
	Args    Args
	Config  *config.Config
	Client  *api.Client
	Session *session.Manager
	Logger  *zap.Logger

	Out io.Writer
	Err io.Writer
	in  *bufio.Reader

	// interactive is set when stdin is a terminal; secrets are then read
	// without echo.
	interactive bool
	// color enables ANSI output such as highlighted JSON.
	color bool
}

// NewEnv loads the config, applies --server and builds the logger, client
// and session manager. The caller must Sync the logger before exit.
func NewEnv(args Args) (*Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if args.Server != "" {
		cfg.Server.URL = strings.TrimRight(args.Server, "/")
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	config.SetGlobal(cfg)

	logger, err := newLogger(cfg, args)
	if err != nil {
		return nil, err
	}

	e, err := newEnv(cfg, args, logger)
	if err != nil {
		return nil, err
	}
	e.interactive = IsTTY()
	e.color = ColorsEnabled()
	return e, nil
}

func newLogger(cfg *config.Config, args Args) (*zap.Logger, error) {
	if args.Verbose {
		return logging.New(logging.Options{Level: "debug", Stderr: true})
	}
	path, err := cfg.LogPath()
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Options{Level: cfg.Logging.Level, Path: path})
}

// newEnv wires a client and session manager for cfg.
func newEnv(cfg *config.Config, args Args, logger *zap.Logger) (*Env, error) {
	logger = logging.OrNop(logger)
	client := api.NewClient(cfg.APIBaseURL()).
		WithTimeout(cfg.Timeout()).
		WithRateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst).
		WithBreaker(cfg.Server.BreakerFailures, cfg.BreakerCooldown()).
		WithMaxResponseSize(int64(cfg.Server.MaxResponseMB) << 20).
		WithLogger(logger)

	path, err := cfg.SessionPath()
	if err != nil {
		return nil, err
	}
	mgr := session.NewManager(client, session.NewStore(path), logger)

	return &Env{
		Args:    args,
		Config:  cfg,
		Client:  client,
		Session: mgr,
		Logger:  logger,
		Out:     os.Stdout,
		Err:     os.Stderr,
		in:      bufio.NewReader(os.Stdin),
	}, nil
}

// SetInput replaces stdin.
func (e *Env) SetInput(r io.Reader) {
	e.in = bufio.NewReader(r)
	e.interactive = false
}

// =============================================================================
// SESSION
// =============================================================================

// requireLogin restores the stored session or explains how to get one.
func (e *Env) requireLogin(ctx context.Context) (*api.User, error) {
	user, err := e.Session.Restore(ctx)
	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, session.ErrNotLoggedIn), errors.Is(err, session.ErrTokenExpired):
		return nil, fmt.Errorf("%w (run 'jarvis login')", err)
	default:
		return nil, err
	}
}

// OpenHistory opens the transcript store, or returns nil when history is off.
func (e *Env) OpenHistory() (*storage.Store, error) {
	if !e.Config.History.Enabled {
		return nil, nil
	}
	path, err := e.Config.HistoryPath()
	if err != nil {
		return nil, err
	}
	return storage.Open(path, e.Config.History.MaxSessions)
}

// =============================================================================
// PROMPTS
// =============================================================================

// readLine prompts on stderr and reads one trimmed line.
func (e *Env) readLine(label string) (string, error) {
	fmt.Fprint(e.Err, label)
	line, err := e.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", &TTYRequiredError{Operation: "read " + strings.ToLower(strings.TrimRight(label, ": "))}
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readSecret reads a value without echo when attached to a terminal.
func (e *Env) readSecret(label string) (string, error) {
	if !e.interactive {
		return e.readLine(label)
	}
	fmt.Fprint(e.Err, label)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(e.Err)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// valueOrPrompt returns the flag value or asks for it.
func (e *Env) valueOrPrompt(value, label string) (string, error) {
	if value != "" {
		return value, nil
	}
	if e.Args.JSON {
		return "", ErrMissingArgument(strings.ToLower(label), "jarvis help")
	}
	return e.readLine(label + ": ")
}

// =============================================================================
// OUTPUT
// =============================================================================

// printJSON writes a success envelope for command.
func (e *Env) printJSON(command string, data interface{}) error {
	return NewJSONResponse(command, data).Print(e.Out, e.color)
}

// emit prints data as JSON in --json mode, otherwise runs human.
func (e *Env) emit(command string, data interface{}, human func(w io.Writer)) error {
	if e.Args.JSON {
		return e.printJSON(command, data)
	}
	human(e.Out)
	return nil
}

// say prints an informational line unless --quiet or --json is set.
func (e *Env) say(format string, args ...interface{}) {
	if e.Args.Quiet || e.Args.JSON {
		return
	}
	fmt.Fprintf(e.Out, format+"\n", args...)
}
