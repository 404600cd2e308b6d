// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the jarvis command line.
//
// Running jarvis without a command starts the terminal UI; every other
// command talks to the Jarvis server once and exits, which makes them
// usable from scripts.
//
// # Usage
//
//	cmd, args := cli.Parse()
//	env, err := cli.NewEnv(args)
//	if err != nil { ... }
//	if err := cli.Run(ctx, env, cmd); err != nil {
//	    cli.DisplayError(os.Stderr, err, args.Name, args.JSON)
//	    os.Exit(cli.GetExitCode(err))
//	}
//
// # Commands
//
// Account: login, register, logout, whoami, forgot-password.
//
// Workspace: dashboard, meetings, tasks, todos, emails, contacts.
//
// Server: status, server-config.
//
// Local: chat, history, config, version, help.
//
// # Output
//
// --json wraps every result in a JSONResponse envelope; errors are
// enveloped too, with an error_type. Exit codes are listed in errors.go.
// Colors follow NO_COLOR and FORCE_COLOR.
package cli
