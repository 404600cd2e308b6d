// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package flow

// =============================================================================
// FLOW STATE
// =============================================================================

// State is a step of the meeting flow. The values match the server's
// flow_state strings.
type State string

const (
	// StateNone - no meeting flow is running
	StateNone State = "none"

	// StateWaitingForAttendees - asked for the attendee names, nothing on the server yet
	StateWaitingForAttendees State = "waiting_for_attendees"

	// StateCollectingEmails - asking for emails of attendees not in contacts
	StateCollectingEmails State = "collecting_emails"

	// StateCollectingNotes - recording meeting notes
	StateCollectingNotes State = "collecting_notes"

	// StateConfirmingSummary - waiting for the user to approve the summary
	StateConfirmingSummary State = "confirming_summary"

	// StateSendingEmails - minutes generated, waiting for "send emails"
	StateSendingEmails State = "sending_emails"

	// StateCompleted - emails sent; the server's terminal state
	StateCompleted State = "completed"
)

// String returns the state as the server spells it.
func (s State) String() string {
	return string(s)
}

// Active reports whether s is a step of a running flow.
func (s State) Active() bool {
	switch s {
	case StateWaitingForAttendees, StateCollectingEmails, StateCollectingNotes,
		StateConfirmingSummary, StateSendingEmails:
		return true
	}
	return false
}

// Label returns a short human readable name for status lines.
func (s State) Label() string {
	switch s {
	case StateWaitingForAttendees:
		return "Waiting for attendees"
	case StateCollectingEmails:
		return "Collecting emails"
	case StateCollectingNotes:
		return "Collecting notes"
	case StateConfirmingSummary:
		return "Confirming summary"
	case StateSendingEmails:
		return "Sending emails"
	case StateCompleted:
		return "Completed"
	default:
		return "None"
	}
}

// ParseState maps a server flow_state to a State. Unknown values map to
// StateNone.
func ParseState(s string) State {
	switch st := State(s); st {
	case StateWaitingForAttendees, StateCollectingEmails, StateCollectingNotes,
		StateConfirmingSummary, StateSendingEmails, StateCompleted:
		return st
	}
	return StateNone
}
