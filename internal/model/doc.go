// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the chat transcript types shared by the TUI, the
// chat REPL and the history store.
//
// # Key Types
//
//   - Message: one chat line from the user, Jarvis or the system
//   - LogEntry: one line of the side log of chat events
//   - Transcript: a chat session with its messages and log
//
// # Usage
//
//	tr := model.NewTranscript()
//	tr.Add(model.KindUser, "> start meeting")
//	tr.Log("User command: start meeting")
package model
