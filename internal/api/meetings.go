// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
)

// =============================================================================
// QUICK MEETINGS
// =============================================================================

// StartMeeting opens a single meeting record without the guided flow.
func (c *Client) StartMeeting(ctx context.Context, req StartMeetingRequest) (*StartMeetingResponse, error) {
	var resp StartMeetingResponse
	if err := c.post(ctx, "/meetings/start", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddMeetingNote appends a note to an active meeting.
func (c *Client) AddMeetingNote(ctx context.Context, meetingID int, note string) (string, error) {
	var resp MessageResponse
	path := fmt.Sprintf("/meetings/%d/notes", meetingID)
	if err := c.post(ctx, path, MeetingNoteRequest{MeetingID: meetingID, Note: note}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// EndMeeting closes a meeting and returns the generated minutes.
func (c *Client) EndMeeting(ctx context.Context, meetingID int) (*EndMeetingResponse, error) {
	var resp EndMeetingResponse
	if err := c.post(ctx, fmt.Sprintf("/meetings/%d/end", meetingID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Meetings lists the user's meetings, newest first.
func (c *Client) Meetings(ctx context.Context) ([]Meeting, error) {
	var meetings []Meeting
	if err := c.get(ctx, "/meetings", &meetings); err != nil {
		return nil, err
	}
	return meetings, nil
}

// =============================================================================
// MEETING FLOW
// =============================================================================

// FlowStart begins a guided meeting with the given attendee names.
func (c *Client) FlowStart(ctx context.Context, attendees []string) (*FlowStartResponse, error) {
	var resp FlowStartResponse
	if err := c.post(ctx, "/meetings/flow/start", FlowStartRequest{Attendees: attendees}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FlowAddEmail records the email of an attendee the server did not know.
func (c *Client) FlowAddEmail(ctx context.Context, name, email string) (*FlowAddEmailResponse, error) {
	var resp FlowAddEmailResponse
	if err := c.post(ctx, "/meetings/flow/add-email", FlowAddEmailRequest{Name: name, Email: email}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FlowAddNote records one meeting note.
func (c *Client) FlowAddNote(ctx context.Context, note string) (*FlowAddNoteResponse, error) {
	var resp FlowAddNoteResponse
	if err := c.post(ctx, "/meetings/flow/add-note", FlowAddNoteRequest{Note: note}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FlowEnd stops note collection and returns the bullet summary for review.
func (c *Client) FlowEnd(ctx context.Context) (*FlowEndResponse, error) {
	var resp FlowEndResponse
	if err := c.post(ctx, "/meetings/flow/end", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FlowConfirmSummary approves or rejects the summary. Approval creates the
// meeting record and generates the minutes.
func (c *Client) FlowConfirmSummary(ctx context.Context, approved bool) (*FlowConfirmResponse, error) {
	var resp FlowConfirmResponse
	if err := c.post(ctx, "/meetings/flow/confirm-summary", FlowConfirmRequest{Approved: approved}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FlowSendEmails mails the minutes to the attendees and completes the flow.
func (c *Client) FlowSendEmails(ctx context.Context, meetingID int, attendees []string) (*FlowSendEmailsResponse, error) {
	if attendees == nil {
		attendees = []string{}
	}
	var resp FlowSendEmailsResponse
	req := FlowSendEmailsRequest{MeetingID: meetingID, Attendees: attendees}
	if err := c.post(ctx, "/meetings/flow/send-emails", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FlowStatus returns the user's active flow, or flow_state "none".
func (c *Client) FlowStatus(ctx context.Context) (*FlowStatus, error) {
	var st FlowStatus
	if err := c.get(ctx, "/meetings/flow/status", &st); err != nil {
		return nil, err
	}
	return &st, nil
}
