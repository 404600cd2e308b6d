// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kouponize121/Jarvis-AI/internal/api"
	"github.com/kouponize121/Jarvis-AI/internal/util"
)

// =============================================================================
// STRUCTURED COMMANDS
// =============================================================================

// The forms suggested by the command hints.
var (
	createTaskPattern = regexp.MustCompile(`(?is)^create task:\s*(.+)$`)
	createTodoPattern = regexp.MustCompile(`(?is)^create todo:\s*(.+)$`)
	sendEmailPattern  = regexp.MustCompile(`(?is)^send email to\s+([^:\s]+)\s*:\s*(.+)$`)
)

func isStructured(text string) bool {
	return createTaskPattern.MatchString(text) ||
		createTodoPattern.MatchString(text) ||
		sendEmailPattern.MatchString(text)
}

// splitFields splits "a - b - c" into at most n trimmed parts; the last part
// keeps any further separators.
func splitFields(s string, n int) []string {
	parts := strings.SplitN(s, " - ", n)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func field(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}

func (a *Assistant) runStructured(ctx context.Context, text string) error {
	if m := createTaskPattern.FindStringSubmatch(text); m != nil {
		parts := splitFields(m[1], 3)
		resp, err := a.client.CreateTask(ctx, api.TaskRequest{
			Title:         field(parts, 0),
			Description:   field(parts, 1),
			AssigneeEmail: field(parts, 2),
		})
		if err != nil {
			return err
		}
		a.jarvis(fmt.Sprintf("> Task created (ID: %d): %s", resp.TaskID, field(parts, 0)))
		a.log(fmt.Sprintf("Task created: %d", resp.TaskID))
		return nil
	}

	if m := createTodoPattern.FindStringSubmatch(text); m != nil {
		parts := splitFields(m[1], 2)
		resp, err := a.client.CreateTodo(ctx, api.TodoRequest{
			Title:       field(parts, 0),
			Description: field(parts, 1),
		})
		if err != nil {
			return err
		}
		a.jarvis(fmt.Sprintf("> To-do created (ID: %d): %s", resp.TodoID, field(parts, 0)))
		a.log(fmt.Sprintf("To-do created: %d", resp.TodoID))
		return nil
	}

	if m := sendEmailPattern.FindStringSubmatch(text); m != nil {
		parts := splitFields(m[2], 2)
		req := api.SendEmailRequest{Recipient: m[1], Subject: field(parts, 0), Body: field(parts, 1)}
		if req.Body == "" {
			req.Body = req.Subject
		}
		if _, err := a.client.SendEmail(ctx, req); err != nil {
			return err
		}
		a.jarvis(fmt.Sprintf("> Email sent to %s.", req.Recipient))
		a.log("Email sent to " + req.Recipient)
	}
	return nil
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// HelpText lists the commands the assistant understands.
const HelpText = `> Commands:
>   start meeting                  walk through attendees, notes, minutes and emails
>   meeting end                    finish note collection and review the summary
>   restart meeting                abandon the current meeting flow
>   system check                   check the OpenAI and SMTP connections
>   create task: title - description - assignee_email
>   create todo: title - description
>   send email to someone@example.com: subject - message
>   /quick-meeting start [title]   open a meeting without the guided flow
>   /quick-meeting note <text>     add a note to the open meeting
>   /quick-meeting end             close it and generate minutes
>   /help                          show this list`

func (a *Assistant) handleSlash(ctx context.Context, text string) error {
	fields := strings.Fields(text)
	cmd := util.Fold(fields[0])

	switch cmd {
	case "/help", "/?":
		a.jarvis(HelpText)
		return nil

	case "/quick-meeting", "/qm":
		sub := ""
		if len(fields) > 1 {
			sub = util.Fold(fields[1])
		}
		rest := ""
		if len(fields) > 2 {
			rest = strings.Join(fields[2:], " ")
		}
		switch sub {
		case "start":
			return a.quickStart(ctx, rest)
		case "note":
			return a.quickNote(ctx, rest)
		case "end":
			return a.quickEnd(ctx)
		}
		a.jarvis("> Usage: /quick-meeting start [title] | note <text> | end")
		return nil
	}

	a.jarvis(fmt.Sprintf("> Unknown command: %s. Type /help for the list of commands.", fields[0]))
	return nil
}

// =============================================================================
// QUICK MEETINGS
// =============================================================================

func (a *Assistant) quickStart(ctx context.Context, title string) error {
	if a.quickMeetingID != 0 {
		a.jarvis(fmt.Sprintf("> Meeting %d is already open. Say \"end meeting\" to close it first.", a.quickMeetingID))
		return nil
	}
	if title == "" {
		title = "Meeting " + time.Now().Format("1/2/2006, 3:04:05 PM")
	}
	resp, err := a.client.StartMeeting(ctx, api.StartMeetingRequest{Title: title})
	if err != nil {
		if api.IsUnauthorized(err) {
			return err
		}
		a.system("> Failed to start meeting: " + api.Detail(err))
		return nil
	}
	a.quickMeetingID = resp.MeetingID
	a.jarvis(fmt.Sprintf("> Meeting started (ID: %d). You can now add notes or say \"end meeting\" to generate MoM.", resp.MeetingID))
	a.log(fmt.Sprintf("Meeting started: %d", resp.MeetingID))
	return nil
}

func (a *Assistant) quickNote(ctx context.Context, note string) error {
	if a.quickMeetingID == 0 {
		a.jarvis("> No active meeting. Use /quick-meeting start first.")
		return nil
	}
	if note == "" {
		a.jarvis("> Usage: /quick-meeting note <text>")
		return nil
	}
	if _, err := a.client.AddMeetingNote(ctx, a.quickMeetingID, note); err != nil {
		if api.IsUnauthorized(err) {
			return err
		}
		a.system("> Failed to add note: " + api.Detail(err))
		return nil
	}
	a.jarvis(fmt.Sprintf("> Note added to meeting %d.", a.quickMeetingID))
	a.log(fmt.Sprintf("Note added to meeting %d", a.quickMeetingID))
	return nil
}

func (a *Assistant) quickEnd(ctx context.Context) error {
	id := a.quickMeetingID
	if id == 0 {
		a.jarvis("> No active meeting to end.")
		return nil
	}
	if !a.ready {
		a.quickMeetingID = 0
		a.system("> Cannot generate Meeting Minutes - OpenAI API not configured. Meeting ended without MoM generation.")
		a.log(fmt.Sprintf("Meeting ended without MoM: %d", id))
		return nil
	}

	a.setActivity(ActivityProcessing, StatusGeneratingMoM)
	resp, err := a.client.EndMeeting(ctx, id)
	if err != nil {
		if api.IsUnauthorized(err) {
			return err
		}
		a.system("> Failed to end meeting: " + api.Detail(err))
		return nil
	}
	a.quickMeetingID = 0
	a.jarvis("> Meeting ended. Minutes of Meeting generated:")
	a.jarvis(resp.MoM)
	a.log(fmt.Sprintf("Meeting ended with MoM: %d", id))
	return nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
