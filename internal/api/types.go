// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// TIMESTAMPS
// =============================================================================

// Time accepts the timestamp shapes the Jarvis server emits: RFC 3339 and
// the naive "YYYY-MM-DDTHH:MM:SS[.ffffff]" or space separated forms that
// sqlite CURRENT_TIMESTAMP produces. Naive values are taken as UTC.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognized format %q", s)
}

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// =============================================================================
// AUTH
// =============================================================================

// User is the profile returned by /me and /login.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by POST /login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Name             string `json:"name" validate:"required,max=100"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=6"`
	SecurityQuestion string `json:"security_question,omitempty" validate:"required_with=SecurityAnswer"`
	SecurityAnswer   string `json:"security_answer,omitempty" validate:"required_with=SecurityQuestion"`
}

// RegisterResponse is returned by POST /register.
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  int    `json:"user_id"`
}

// PasswordResetRequest is the body of POST /forgot-password/reset.
type PasswordResetRequest struct {
	Email          string `json:"email" validate:"required,email"`
	SecurityAnswer string `json:"security_answer" validate:"required"`
	NewPassword    string `json:"new_password" validate:"required,min=6"`
}

// MessageResponse is the generic {"message": ...} reply.
type MessageResponse struct {
	Message string `json:"message"`
}

// =============================================================================
// SYSTEM
// =============================================================================

// SystemStatus is returned by GET /system/status.
type SystemStatus struct {
	OpenAIConnected   bool   `json:"openai_connected"`
	SMTPConnected     bool   `json:"smtp_connected"`
	DatabaseConnected bool   `json:"database_connected"`
	Message           string `json:"message"`
}

// Masked is the placeholder the server returns in place of stored secrets.
const Masked = "***"

// SystemConfig is read from GET /config and written to POST /config.
// Pointer fields distinguish "not set" from empty.
type SystemConfig struct {
	OpenAIKey *string `json:"openai_key"`
	SMTPHost  *string `json:"smtp_host"`
	SMTPPort  *int    `json:"smtp_port"`
	SMTPUser  *string `json:"smtp_user"`
	SMTPPass  *string `json:"smtp_pass"`
}

// HasMaskedSecret reports whether any field still carries the Masked
// placeholder. Such a config must not be posted back.
func (c SystemConfig) HasMaskedSecret() bool {
	for _, p := range []*string{c.OpenAIKey, c.SMTPHost, c.SMTPUser, c.SMTPPass} {
		if p != nil && *p == Masked {
			return true
		}
	}
	return false
}

// ConfigUpdateResult is returned by POST /config.
type ConfigUpdateResult struct {
	Message         string `json:"message"`
	OpenAIConnected bool   `json:"openai_connected"`
	SMTPConnected   bool   `json:"smtp_connected"`
	OpenAIError     string `json:"openai_error"`
	SMTPError       string `json:"smtp_error"`
}

// =============================================================================
// CHAT
// =============================================================================

// Commands the server may detect in a chat message.
const (
	CommandStartMeeting = "start_meeting"
	CommandEndMeeting   = "end_meeting"
	CommandCreateTask   = "create_task"
	CommandCreateTodo   = "create_todo"
	CommandSendEmail    = "send_email"
	CommandSystemCheck  = "system_check"
)

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
	Context string `json:"context"`
}

// ChatResponse is returned by POST /chat.
type ChatResponse struct {
	Response        string `json:"response"`
	CommandDetected string `json:"command_detected"`
	ActionRequired  string `json:"action_required"`
}

// =============================================================================
// MEETINGS
// =============================================================================

// Meeting is a stored meeting record.
type Meeting struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Attendees string `json:"attendees"`
	Notes     string `json:"notes"`
	MoM       string `json:"mom"`
	Status    string `json:"status"`
	CreatedAt Time   `json:"created_at"`
	EndedAt   Time   `json:"ended_at"`
}

// AttendeeNames splits the comma separated attendee column.
func (m Meeting) AttendeeNames() []string {
	var out []string
	for _, a := range strings.Split(m.Attendees, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// StartMeetingRequest is the body of POST /meetings/start.
type StartMeetingRequest struct {
	Title     string `json:"title,omitempty"`
	Attendees string `json:"attendees,omitempty"`
}

// StartMeetingResponse is returned by POST /meetings/start.
type StartMeetingResponse struct {
	MeetingID int    `json:"meeting_id"`
	Message   string `json:"message"`
}

// MeetingNoteRequest is the body of POST /meetings/{id}/notes.
type MeetingNoteRequest struct {
	MeetingID int    `json:"meeting_id"`
	Note      string `json:"note"`
}

// EndMeetingResponse is returned by POST /meetings/{id}/end.
type EndMeetingResponse struct {
	Message   string `json:"message"`
	MoM       string `json:"mom"`
	MeetingID int    `json:"meeting_id"`
}

// =============================================================================
// MEETING FLOW
// =============================================================================

// Attendee is a name with a known email.
type Attendee struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// FlowStartRequest is the body of POST /meetings/flow/start.
type FlowStartRequest struct {
	Attendees []string `json:"attendees"`
}

// FlowStartResponse is returned by POST /meetings/flow/start.
type FlowStartResponse struct {
	FlowID              int        `json:"flow_id"`
	FlowState           string     `json:"flow_state"`
	AttendeesWithEmails []Attendee `json:"attendees_with_emails"`
	MissingEmails       []string   `json:"missing_emails"`
	Message             string     `json:"message"`
}

// FlowAddEmailRequest is the body of POST /meetings/flow/add-email.
type FlowAddEmailRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// FlowAddEmailResponse is returned by POST /meetings/flow/add-email.
type FlowAddEmailResponse struct {
	Message          string   `json:"message"`
	FlowState        string   `json:"flow_state"`
	RemainingMissing []string `json:"remaining_missing"`
}

// FlowAddNoteRequest is the body of POST /meetings/flow/add-note.
type FlowAddNoteRequest struct {
	Note string `json:"note"`
}

// FlowAddNoteResponse is returned by POST /meetings/flow/add-note.
type FlowAddNoteResponse struct {
	Message    string `json:"message"`
	TotalNotes int    `json:"total_notes"`
}

// FlowEndResponse is returned by POST /meetings/flow/end.
type FlowEndResponse struct {
	FlowState string `json:"flow_state"`
	Summary   string `json:"summary"`
	Message   string `json:"message"`
}

// FlowConfirmRequest is the body of POST /meetings/flow/confirm-summary.
type FlowConfirmRequest struct {
	Approved bool `json:"approved"`
}

// FlowConfirmResponse is returned by POST /meetings/flow/confirm-summary.
// A rejected summary only carries Message.
type FlowConfirmResponse struct {
	FlowState string     `json:"flow_state"`
	MeetingID int        `json:"meeting_id"`
	MoM       string     `json:"mom"`
	Attendees []Attendee `json:"attendees"`
	Message   string     `json:"message"`
}

// FlowSendEmailsRequest is the body of POST /meetings/flow/send-emails.
type FlowSendEmailsRequest struct {
	MeetingID int      `json:"meeting_id"`
	Attendees []string `json:"attendees"`
}

// FlowSendEmailsResponse is returned by POST /meetings/flow/send-emails.
type FlowSendEmailsResponse struct {
	FlowState    string   `json:"flow_state"`
	SentEmails   []string `json:"sent_emails"`
	FailedEmails []string `json:"failed_emails"`
	Message      string   `json:"message"`
}

// FlowStatus is returned by GET /meetings/flow/status.
type FlowStatus struct {
	FlowState string `json:"flow_state"`
	FlowID    int    `json:"flow_id"`
	MeetingID int    `json:"meeting_id"`
	Message   string `json:"message"`
}

// =============================================================================
// CONTACTS, TASKS, TODOS, EMAILS
// =============================================================================

// Contact is a stored name/email pair.
type Contact struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ContactRequest is the body of POST /contacts.
type ContactRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type contactsResponse struct {
	Contacts []Contact `json:"contacts"`
}

// Task priorities accepted by the server.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task is a stored task.
type Task struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Assignee      string `json:"assignee"`
	AssigneeEmail string `json:"assignee_email"`
	Priority      string `json:"priority"`
	Status        string `json:"status"`
	CreatedAt     Time   `json:"created_at"`
	DueDate       Time   `json:"due_date"`
	LastFollowup  Time   `json:"last_followup"`
}

// TaskRequest is the body of POST /tasks.
type TaskRequest struct {
	Title         string `json:"title" validate:"required"`
	Description   string `json:"description,omitempty"`
	Assignee      string `json:"assignee,omitempty"`
	AssigneeEmail string `json:"assignee_email,omitempty" validate:"omitempty,email"`
	Priority      string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	DueDate       *Time  `json:"due_date,omitempty"`
}

// TaskCreated is returned by POST /tasks.
type TaskCreated struct {
	TaskID  int    `json:"task_id"`
	Message string `json:"message"`
}

// Todo is a stored to-do item.
type Todo struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatedAt   Time   `json:"created_at"`
	CompletedAt Time   `json:"completed_at"`
}

// TodoRequest is the body of POST /todos.
type TodoRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
}

// TodoCreated is returned by POST /todos.
type TodoCreated struct {
	TodoID  int    `json:"todo_id"`
	Message string `json:"message"`
}

// Email is a sent email record.
type Email struct {
	ID        int    `json:"id"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	SentAt    Time   `json:"sent_at"`
	EmailType string `json:"email_type"`
}

// SendEmailRequest is the body of POST /emails/send.
type SendEmailRequest struct {
	Recipient string `json:"recipient" validate:"required,email"`
	Subject   string `json:"subject" validate:"required"`
	Body      string `json:"body" validate:"required"`
	EmailType string `json:"email_type,omitempty"`
}

// DraftEmailRequest is the body of POST /emails/draft.
type DraftEmailRequest struct {
	Recipient string `json:"recipient" validate:"required"`
	Context   string `json:"context" validate:"required"`
	EmailType string `json:"email_type,omitempty"`
}

// EmailDraft is returned by POST /emails/draft.
type EmailDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Dashboard is returned by GET /dashboard.
type Dashboard struct {
	RecentMeetings []Meeting `json:"recent_meetings"`
	ActiveTasks    []Task    `json:"active_tasks"`
	PendingTodos   []Todo    `json:"pending_todos"`
	RecentEmails   []Email   `json:"recent_emails"`
}
