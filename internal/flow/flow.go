// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package flow

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kouponize121/Jarvis-AI/internal/api"
	"github.com/kouponize121/Jarvis-AI/internal/model"
	"github.com/kouponize121/Jarvis-AI/internal/util"
	"github.com/kouponize121/Jarvis-AI/internal/validate"
)

// ErrNoActiveFlow is returned when input reaches a machine with no flow.
var ErrNoActiveFlow = errors.New("no active meeting flow")

// conflictDetail is the server's reply to a second flow start.
const conflictDetail = "There's already an active meeting flow"

// Client is the set of flow endpoints the machine drives.
type Client interface {
	FlowStart(ctx context.Context, attendees []string) (*api.FlowStartResponse, error)
	FlowAddEmail(ctx context.Context, name, email string) (*api.FlowAddEmailResponse, error)
	FlowAddNote(ctx context.Context, note string) (*api.FlowAddNoteResponse, error)
	FlowEnd(ctx context.Context) (*api.FlowEndResponse, error)
	FlowConfirmSummary(ctx context.Context, approved bool) (*api.FlowConfirmResponse, error)
	FlowSendEmails(ctx context.Context, meetingID int, attendees []string) (*api.FlowSendEmailsResponse, error)
	FlowStatus(ctx context.Context) (*api.FlowStatus, error)
}

// =============================================================================
// RESULT
// =============================================================================

// Line is one chat message produced by a step.
type Line struct {
	Kind model.Kind
	Text string
}

// Result is what one step wants shown: chat lines in order and side-log
// entries.
type Result struct {
	Lines []Line
	Logs  []string

	// Completed is set when the step finished the flow.
	Completed bool
}

func (r *Result) say(format string, args ...interface{}) {
	r.Lines = append(r.Lines, Line{Kind: model.KindJarvis, Text: fmt.Sprintf(format, args...)})
}

// raw adds text as is. Empty text adds nothing.
func (r *Result) raw(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	r.Lines = append(r.Lines, Line{Kind: model.KindJarvis, Text: text})
}

func (r *Result) log(format string, args ...interface{}) {
	r.Logs = append(r.Logs, fmt.Sprintf(format, args...))
}

// =============================================================================
// MACHINE
// =============================================================================

// Status is a snapshot of the machine for status lines.
type Status struct {
	State     State
	FlowID    int
	MeetingID int
	Current   string
	Missing   []string
}

// Machine is the client half of the meeting flow. The server keeps the
// authoritative flow; the machine tracks which prompt the user is answering
// and turns free text into the matching flow call.
//
// A Machine is owned by one event loop and is not safe for concurrent use.
type Machine struct {
	client Client

	state     State
	flowID    int
	meetingID int
	missing   []string
	current   string
	attendees []api.Attendee
}

// New returns a machine with no active flow.
func New(client Client) *Machine {
	return &Machine{client: client, state: StateNone}
}

// State returns the current step.
func (m *Machine) State() State {
	return m.state
}

// Active reports whether a flow is running.
func (m *Machine) Active() bool {
	return m.state.Active()
}

// MeetingID returns the meeting created by an approved summary, or 0.
func (m *Machine) MeetingID() int {
	return m.meetingID
}

// Status returns a snapshot of the machine.
func (m *Machine) Status() Status {
	return Status{
		State:     m.state,
		FlowID:    m.flowID,
		MeetingID: m.meetingID,
		Current:   m.current,
		Missing:   append([]string(nil), m.missing...),
	}
}

// Reset forgets the flow locally.
func (m *Machine) Reset() {
	*m = Machine{client: m.client, state: StateNone}
}

// Begin starts collecting attendee names.
func (m *Machine) Begin() Result {
	m.Reset()
	m.state = StateWaitingForAttendees
	var r Result
	r.say("> Please provide the names of the attendees (comma-separated):")
	r.log("Collecting attendee names")
	return r
}

// Resume adopts a flow the server reports as active, for example one left
// over from an earlier session. Inactive states reset the machine.
func (m *Machine) Resume(st api.FlowStatus) Result {
	state := ParseState(st.FlowState)
	if !state.Active() {
		m.Reset()
		return Result{}
	}
	m.Reset()
	m.state = state
	m.flowID = st.FlowID
	m.meetingID = st.MeetingID

	var r Result
	r.say("> Resuming your meeting flow (%s).", state.Label())
	r.raw(m.prompt())
	r.log("Resumed meeting flow in %s state", state)
	return r
}

// Placeholder returns the input hint for the current step, or "" when no
// flow is active.
func (m *Machine) Placeholder() string {
	switch m.state {
	case StateWaitingForAttendees:
		return "Enter attendee names (comma-separated)..."
	case StateCollectingEmails:
		if m.current == "" {
			return "Enter attendee as 'Name, email'..."
		}
		return fmt.Sprintf("Enter email for %s...", m.current)
	case StateCollectingNotes:
		return "Add meeting note or say 'meeting end'..."
	case StateConfirmingSummary:
		return "Approve summary (yes/no) or provide feedback..."
	case StateSendingEmails:
		return "Say 'send emails' to send MoM to attendees..."
	}
	return ""
}

// prompt repeats the question of the current step.
func (m *Machine) prompt() string {
	switch m.state {
	case StateWaitingForAttendees:
		return "> Please provide the names of the attendees (comma-separated):"
	case StateCollectingEmails:
		if m.current == "" {
			return "> Please provide the next attendee's name and email as \"Name, email\":"
		}
		return fmt.Sprintf("> Please provide the email for %s:", m.current)
	case StateCollectingNotes:
		return "> Please share the meeting notes:"
	case StateConfirmingSummary:
		return "> Please review and confirm this summary (say \"yes\" to approve or provide feedback)."
	case StateSendingEmails:
		return "> Ready to send emails to attendees. Say \"send emails\" to proceed."
	}
	return ""
}

// IsEndCommand reports whether input asks to end the meeting.
func IsEndCommand(input string) bool {
	return util.HasWords(input, "end meeting", "meeting end")
}

// IsRestartCommand reports whether input asks to abandon the flow.
func IsRestartCommand(input string) bool {
	return util.HasWords(input, "restart meeting", "cancel meeting")
}

// Approves reports whether input approves the summary. Any negation
// rejects it, so "no, I don't approve" is feedback.
func Approves(input string) bool {
	if util.HasWords(input, "no", "not", "don't", "don’t", "dont", "never") {
		return false
	}
	return util.HasWords(input, "yes", "approve", "approved", "confirm", "confirmed")
}

// Handle feeds one line of user input to the current step. On error the
// state is unchanged and the caller reports the error.
func (m *Machine) Handle(ctx context.Context, input string) (Result, error) {
	if !m.Active() {
		return Result{}, ErrNoActiveFlow
	}
	input = strings.TrimSpace(input)

	if IsRestartCommand(input) {
		m.Reset()
		var r Result
		r.say("> Meeting flow reset. Say \"start meeting\" to begin again.")
		r.log("Meeting flow reset")
		return r, nil
	}

	switch m.state {
	case StateWaitingForAttendees:
		return m.start(ctx, input)
	case StateCollectingEmails:
		return m.addEmail(ctx, input)
	case StateCollectingNotes:
		if IsEndCommand(input) {
			return m.End(ctx)
		}
		return m.addNote(ctx, input)
	case StateConfirmingSummary:
		return m.confirm(ctx, input)
	case StateSendingEmails:
		return m.send(ctx, input)
	}
	return Result{}, ErrNoActiveFlow
}

func (m *Machine) start(ctx context.Context, input string) (Result, error) {
	var r Result
	names := util.SplitList(input)
	if len(names) == 0 {
		r.say("> Please provide at least one attendee name.")
		return r, nil
	}

	resp, err := m.client.FlowStart(ctx, names)
	if err != nil {
		if api.StatusCode(err) == http.StatusBadRequest && api.Detail(err) == conflictDetail {
			return m.resumeExisting(ctx)
		}
		return Result{}, err
	}

	m.flowID = resp.FlowID
	m.attendees = append([]api.Attendee(nil), resp.AttendeesWithEmails...)
	m.missing = append([]string(nil), resp.MissingEmails...)
	r.log("Meeting flow started with %d attendees", len(names))

	if len(m.missing) > 0 {
		if len(m.attendees) > 0 {
			r.say("> I found emails for: %s", strings.Join(attendeeNames(m.attendees), ", "))
		}
		r.say("> Please provide email addresses for: %s", strings.Join(m.missing, ", "))
		m.current = m.missing[0]
		m.state = StateCollectingEmails
		r.say("> Please provide the email for %s:", m.current)
		return r, nil
	}

	m.state = StateCollectingNotes
	r.say("> All attendees found in contacts. Meeting flow started.")
	r.say("> Please share the meeting notes:")
	return r, nil
}

// resumeExisting adopts the server's flow after a start conflict.
func (m *Machine) resumeExisting(ctx context.Context) (Result, error) {
	st, err := m.client.FlowStatus(ctx)
	if err != nil {
		return Result{}, err
	}
	if !ParseState(st.FlowState).Active() {
		return Result{}, &api.APIError{Status: http.StatusBadRequest, Detail: conflictDetail}
	}
	r := m.Resume(*st)
	r.Lines = append([]Line{{Kind: model.KindSystem, Text: "> A meeting flow is already in progress on the server."}}, r.Lines...)
	return r, nil
}

func (m *Machine) addEmail(ctx context.Context, input string) (Result, error) {
	var r Result
	name, email := m.current, input
	if name == "" {
		var ok bool
		name, email, ok = splitNameEmail(input)
		if !ok {
			r.say("> Please provide the attendee as \"Name, email\".")
			return r, nil
		}
	}
	if err := validate.Var("email", email, "required,email"); err != nil {
		r.say("> %q is not a valid email address. Please provide the email for %s:", email, name)
		return r, nil
	}

	resp, err := m.client.FlowAddEmail(ctx, name, email)
	if err != nil {
		return Result{}, err
	}
	m.attendees = append(m.attendees, api.Attendee{Name: name, Email: email})
	m.missing = append([]string(nil), resp.RemainingMissing...)
	r.say("> Email added for %s", name)
	r.log("Email added for %s", name)

	if len(m.missing) > 0 {
		m.current = m.missing[0]
		r.say("> Please provide the email for %s:", m.current)
		return r, nil
	}
	m.current = ""
	m.state = StateCollectingNotes
	r.say("> All attendees confirmed. Please share the meeting notes:")
	return r, nil
}

func (m *Machine) addNote(ctx context.Context, note string) (Result, error) {
	var r Result
	if note == "" {
		return r, nil
	}
	resp, err := m.client.FlowAddNote(ctx, note)
	if err != nil {
		return Result{}, err
	}
	r.say("> Note recorded: \"%s\"", note)
	r.say("> Continue sharing notes or say \"meeting end\" to finish.")
	r.log("Meeting note added (%d total)", resp.TotalNotes)
	return r, nil
}

// End finishes note collection and shows the summary for approval.
func (m *Machine) End(ctx context.Context) (Result, error) {
	if m.state != StateCollectingNotes {
		return Result{}, ErrNoActiveFlow
	}
	resp, err := m.client.FlowEnd(ctx)
	if err != nil {
		return Result{}, err
	}
	m.state = StateConfirmingSummary

	var r Result
	r.say("> Meeting ended. Here's the summary:")
	r.raw(resp.Summary)
	r.raw(m.prompt())
	r.log("Meeting ended, awaiting summary approval")
	return r, nil
}

func (m *Machine) confirm(ctx context.Context, input string) (Result, error) {
	var r Result
	if !Approves(input) {
		r.say("> Summary not approved. Please provide feedback or say \"restart meeting\" to start over.")
		return r, nil
	}

	resp, err := m.client.FlowConfirmSummary(ctx, true)
	if err != nil {
		return Result{}, err
	}
	m.state = StateSendingEmails
	m.meetingID = resp.MeetingID
	if len(resp.Attendees) > 0 {
		m.attendees = append([]api.Attendee(nil), resp.Attendees...)
	}

	r.say("> MoM generated successfully!")
	r.raw(resp.MoM)
	r.raw(m.prompt())
	r.log("Minutes generated for meeting %d", resp.MeetingID)
	return r, nil
}

func (m *Machine) send(ctx context.Context, input string) (Result, error) {
	var r Result
	if !util.ContainsPhrase(input, "send email") {
		r.say("> Say \"send emails\" to send the MoM to all attendees.")
		return r, nil
	}

	emails := make([]string, 0, len(m.attendees))
	for _, a := range m.attendees {
		emails = append(emails, a.Email)
	}
	resp, err := m.client.FlowSendEmails(ctx, m.meetingID, emails)
	if err != nil {
		return Result{}, err
	}

	r.say("> %s", resp.Message)
	if len(resp.SentEmails) > 0 {
		r.say("> Emails sent to: %s", strings.Join(resp.SentEmails, ", "))
	}
	if len(resp.FailedEmails) > 0 {
		r.say("> Failed to send emails to: %s", strings.Join(resp.FailedEmails, ", "))
	}
	r.log("Meeting flow completed")
	r.Completed = true
	m.Reset()
	return r, nil
}

func attendeeNames(list []api.Attendee) []string {
	names := make([]string, len(list))
	for i, a := range list {
		names[i] = a.Name
	}
	return names
}

// splitNameEmail parses "Name, email". The last comma separates the two so
// names may contain commas.
func splitNameEmail(input string) (name, email string, ok bool) {
	i := strings.LastIndex(input, ",")
	if i < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(input[:i])
	email = strings.TrimSpace(input[i+1:])
	return name, email, name != "" && email != ""
}
