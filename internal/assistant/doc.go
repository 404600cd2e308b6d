// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assistant is the Jarvis chat engine shared by the TUI chat screen
// and the chat REPL.
//
// Input is routed in this order:
//
//  1. an active meeting flow takes every line
//  2. /commands (help, quick meetings)
//  3. structured "create task:", "create todo:" and "send email to" forms
//  4. "end meeting" / "meeting end"
//  5. anything mentioning "meeting" starts a meeting flow
//  6. "system check"
//  7. "who created you"
//  8. everything else goes to the AI endpoint when it is configured
//
// Replies are appended to a model.Transcript. Front ends poll Snapshot to
// render it.
package assistant
