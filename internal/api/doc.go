// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the Jarvis REST API.
//
// Every endpoint the terminal client uses lives here: authentication, the
// dashboard, system status and configuration, chat, quick meetings, the
// guided meeting flow, contacts, tasks, todos and emails.
//
// # Errors
//
// Non-2xx replies become *APIError carrying the status and the server's
// "detail" text. A 401 wraps ErrUnauthorized, and when the request carried
// a token the hook registered with OnUnauthorized runs so the session can
// be torn down. While the circuit breaker is open, calls fail immediately
// with ErrServerUnavailable.
//
// # Usage
//
//	client := api.NewClient(cfg.APIBaseURL()).
//		WithTimeout(cfg.Timeout()).
//		WithLogger(logger)
//	client.SetToken(sess.Token)
//	status, err := client.SystemStatus(ctx)
package api
