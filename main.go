// jarvis - A terminal client for the Jarvis AI executive assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/kouponize121/Jarvis-AI/internal/cli"
	"github.com/kouponize121/Jarvis-AI/internal/ui/app"
	"github.com/kouponize121/Jarvis-AI/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run())
}

func run() int {
	cmd, args := cli.Parse()

	e, err := cli.NewEnv(args)
	if err != nil {
		cli.DisplayError(os.Stderr, err, args.Name, false)
		return cli.ExitConfigError
	}
	defer e.Logger.Sync() //nolint:errcheck

	if cmd == cli.CmdTUI {
		if err := runTUI(e); err != nil {
			fmt.Fprintf(os.Stderr, "Error running jarvis: %v\n", err)
			return cli.ExitGeneralError
		}
		return cli.ExitSuccess
	}

	// The chat REPL handles Ctrl+C itself so it can cancel one request
	// without leaving.
	ctx := context.Background()
	if cmd != cli.CmdChat {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
	}

	if err := cli.Run(ctx, e, cmd); err != nil {
		e.Logger.Debug("command failed", zap.String("command", args.Name), zap.Error(err))
		if args.JSON {
			cli.DisplayError(e.Out, err, args.Name, true)
		} else {
			cli.DisplayError(e.Err, err, args.Name, false)
		}
		return cli.GetExitCode(err)
	}
	return cli.ExitSuccess
}

// runTUI starts the full-screen client.
func runTUI(e *cli.Env) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := app.Options{
		Client:   e.Client,
		Session:  e.Session,
		Logger:   e.Logger,
		ShowLogs: e.Config.UI.ShowLogs,
		Markdown: e.Config.UI.Markdown,
		Watch:    e.Config.Session.Watch,
	}

	store, err := e.OpenHistory()
	if err != nil {
		e.Logger.Warn("chat history disabled", zap.Error(err))
	}
	if store != nil {
		defer store.Close()
		opts.History = store
	}

	m := app.New(ctx, styles.NewTheme(e.Config.UI.Theme), opts)
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err = p.Run()
	return err
}
