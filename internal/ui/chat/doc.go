// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the chat screen of the Jarvis TUI.

The screen is a thin Bubble Tea front end over an assistant.Assistant:

  - Input is handed to Assistant.Submit on a background command while a
    spinner shows "Jarvis is thinking...".
  - The view renders Assistant.Snapshot: the transcript, the meeting flow
    state, the active quick meeting and the AI status.
  - Multi-line replies from Jarvis, such as meeting summaries and minutes,
    are rendered as Markdown with glamour.

# Key Bindings

  - Enter: send
  - Up/Down, PgUp/PgDn: scroll
  - Ctrl+Y: copy the last Jarvis reply
  - Ctrl+O: show or hide the activity and log panel
  - Esc: clear the input
*/
package chat
