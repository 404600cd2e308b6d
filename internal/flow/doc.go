// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package flow implements the chat-driven meeting flow.
//
// A meeting flow walks the user from a list of attendee names to emailed
// minutes:
//
//	none → waiting_for_attendees → collecting_emails → collecting_notes
//	     → confirming_summary → sending_emails → none
//
// collecting_emails is skipped when every attendee is already a contact.
// Each step takes one line of free text and calls the matching
// /api/meetings/flow endpoint. A failed call leaves the step unchanged.
//
// # Usage
//
//	m := flow.New(client)
//	res := m.Begin()
//	res, err = m.Handle(ctx, "Pepper, Happy")
//	m.Placeholder() // "Enter email for Happy..."
package flow
