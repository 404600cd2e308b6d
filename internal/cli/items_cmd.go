// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// items_cmd.go - Meetings, tasks, to-dos, emails and contacts.
//
// Every command defaults to "list". Changes print the server's message.
package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kouponize121/Jarvis-AI/internal/api"
)

// =============================================================================
// MEETINGS
// =============================================================================

// HandleMeetings handles "jarvis meetings [list|start|note|end]".
func HandleMeetings(ctx context.Context, e *Env) error {
	if _, err := e.requireLogin(ctx); err != nil {
		return err
	}
	p := e.Args.Parser()
	switch sub := p.Subcommand(); sub {
	case "", "list", "ls":
		meetings, err := e.Client.Meetings(ctx)
		if err != nil {
			return err
		}
		return e.emit("meetings", meetings, func(w io.Writer) {
			rows := make([][]string, 0, len(meetings))
			for _, m := range meetings {
				rows = append(rows, []string{
					strconv.Itoa(m.ID), cell(m.Title), m.Status,
					dateCell(m.CreatedAt), meetingLength(m), cell(strings.Join(m.AttendeeNames(), ", ")),
				})
			}
			printTable(w, "No meetings yet.", []string{"ID", "TITLE", "STATUS", "DATE", "LENGTH", "ATTENDEES"}, rows)
		})

	case "start":
		res, err := e.Client.StartMeeting(ctx, api.StartMeetingRequest{
			Title:     JoinPositionalArgs(p, 1),
			Attendees: p.Flag("attendees"),
		})
		if err != nil {
			return err
		}
		return e.emit("meetings", MessageData{Message: res.Message, ID: res.MeetingID}, func(w io.Writer) {
			fmt.Fprintf(w, "%s %s\n", SuccessStyle.Render(res.Message), DimStyle.Render(fmt.Sprintf("(id %d)", res.MeetingID)))
		})

	case "note":
		id, err := ParseID(p.Positional(1), "meeting id")
		if err != nil {
			return err
		}
		note, err := e.valueOrPrompt(JoinPositionalArgs(p, 2), "Note")
		if err != nil {
			return err
		}
		msg, err := e.Client.AddMeetingNote(ctx, id, note)
		if err != nil {
			return err
		}
		return e.emitMessage("meetings", msg, id)

	case "end":
		id, err := ParseID(p.Positional(1), "meeting id")
		if err != nil {
			return err
		}
		res, err := e.Client.EndMeeting(ctx, id)
		if err != nil {
			return err
		}
		data := MeetingEndData{MeetingID: res.MeetingID, Message: res.Message, MoM: res.MoM}
		return e.emit("meetings", data, func(w io.Writer) {
			fmt.Fprintln(w, SuccessStyle.Render(res.Message))
			if res.MoM != "" {
				fmt.Fprintln(w)
				fmt.Fprint(w, e.renderMarkdown(res.MoM))
				fmt.Fprintln(w)
			}
		})

	default:
		return ErrUnknownSubcommand("meetings", sub)
	}
}

// =============================================================================
// TASKS
// =============================================================================

// HandleTasks handles "jarvis tasks [list|add|done]".
func HandleTasks(ctx context.Context, e *Env) error {
	if _, err := e.requireLogin(ctx); err != nil {
		return err
	}
	p := e.Args.Parser()
	switch sub := p.Subcommand(); sub {
	case "", "list", "ls":
		tasks, err := e.Client.Tasks(ctx)
		if err != nil {
			return err
		}
		return e.emit("tasks", tasks, func(w io.Writer) {
			rows := make([][]string, 0, len(tasks))
			for _, t := range tasks {
				rows = append(rows, []string{
					strconv.Itoa(t.ID), cell(t.Title), cell(t.Assignee),
					t.Priority, t.Status, dateCell(t.DueDate),
				})
			}
			printTable(w, "No tasks yet.", []string{"ID", "TITLE", "ASSIGNEE", "PRIORITY", "STATUS", "DUE"}, rows)
		})

	case "add", "create":
		title, err := e.valueOrPrompt(JoinPositionalArgs(p, 1), "Title")
		if err != nil {
			return err
		}
		req := api.TaskRequest{
			Title:         title,
			Description:   p.Flag("description"),
			Assignee:      p.Flag("assignee"),
			AssigneeEmail: p.Flag("email"),
			Priority:      p.FlagOrDefault("priority", api.PriorityMedium),
		}
		if due := p.Flag("due"); due != "" {
			t, err := ParseDate(due, "due date")
			if err != nil {
				return err
			}
			req.DueDate = &api.Time{Time: t}
		}
		res, err := e.Client.CreateTask(ctx, req)
		if err != nil {
			return err
		}
		return e.emitMessage("tasks", res.Message, res.TaskID)

	case "done", "complete":
		id, err := ParseID(p.Positional(1), "task id")
		if err != nil {
			return err
		}
		msg, err := e.Client.CompleteTask(ctx, id)
		if err != nil {
			return err
		}
		return e.emitMessage("tasks", msg, id)

	default:
		return ErrUnknownSubcommand("tasks", sub)
	}
}

// =============================================================================
// TODOS
// =============================================================================

// HandleTodos handles "jarvis todos [list|add|done]".
func HandleTodos(ctx context.Context, e *Env) error {
	if _, err := e.requireLogin(ctx); err != nil {
		return err
	}
	p := e.Args.Parser()
	switch sub := p.Subcommand(); sub {
	case "", "list", "ls":
		todos, err := e.Client.Todos(ctx)
		if err != nil {
			return err
		}
		return e.emit("todos", todos, func(w io.Writer) {
			rows := make([][]string, 0, len(todos))
			for _, t := range todos {
				rows = append(rows, []string{
					strconv.Itoa(t.ID), cell(t.Title), t.Status,
					dateCell(t.CreatedAt), dateCell(t.CompletedAt),
				})
			}
			printTable(w, "No to-dos yet.", []string{"ID", "TITLE", "STATUS", "CREATED", "COMPLETED"}, rows)
		})

	case "add", "create":
		title, err := e.valueOrPrompt(JoinPositionalArgs(p, 1), "Title")
		if err != nil {
			return err
		}
		res, err := e.Client.CreateTodo(ctx, api.TodoRequest{Title: title, Description: p.Flag("description")})
		if err != nil {
			return err
		}
		return e.emitMessage("todos", res.Message, res.TodoID)

	case "done", "complete":
		id, err := ParseID(p.Positional(1), "todo id")
		if err != nil {
			return err
		}
		msg, err := e.Client.CompleteTodo(ctx, id)
		if err != nil {
			return err
		}
		return e.emitMessage("todos", msg, id)

	default:
		return ErrUnknownSubcommand("todos", sub)
	}
}

// =============================================================================
// EMAILS
// =============================================================================

// HandleEmails handles "jarvis emails [list|send|draft]".
func HandleEmails(ctx context.Context, e *Env) error {
	if _, err := e.requireLogin(ctx); err != nil {
		return err
	}
	p := e.Args.Parser()
	switch sub := p.Subcommand(); sub {
	case "", "list", "ls":
		emails, err := e.Client.Emails(ctx)
		if err != nil {
			return err
		}
		return e.emit("emails", emails, func(w io.Writer) {
			rows := make([][]string, 0, len(emails))
			for _, m := range emails {
				rows = append(rows, []string{
					strconv.Itoa(m.ID), cell(m.Recipient), cell(m.Subject),
					orDash(m.EmailType), dateCell(m.SentAt),
				})
			}
			printTable(w, "No emails sent yet.", []string{"ID", "TO", "SUBJECT", "TYPE", "SENT"}, rows)
		})

	case "send":
		to, err := e.valueOrPrompt(p.Flag("to"), "To")
		if err != nil {
			return err
		}
		subject, err := e.valueOrPrompt(p.Flag("subject"), "Subject")
		if err != nil {
			return err
		}
		body, err := e.valueOrPrompt(p.Flag("body"), "Body")
		if err != nil {
			return err
		}
		msg, err := e.Client.SendEmail(ctx, api.SendEmailRequest{
			Recipient: to,
			Subject:   subject,
			Body:      body,
			EmailType: p.FlagOrDefault("type", "general"),
		})
		if err != nil {
			return NewCommandError("emails", "send", "delivery to "+to+" failed", err)
		}
		return e.emitMessage("emails", msg, 0)

	case "draft":
		to, err := e.valueOrPrompt(p.Flag("to"), "To")
		if err != nil {
			return err
		}
		about, err := e.valueOrPrompt(firstNonEmpty(p.Flag("context"), JoinPositionalArgs(p, 1)), "Context")
		if err != nil {
			return err
		}
		draft, err := e.Client.DraftEmail(ctx, api.DraftEmailRequest{
			Recipient: to,
			Context:   about,
			EmailType: p.FlagOrDefault("type", "general"),
		})
		if err != nil {
			return err
		}
		return e.emit("emails", draft, func(w io.Writer) {
			fmt.Fprintf(w, "%s %s\n\n%s\n", RenderLabel("Subject:"), draft.Subject, draft.Body)
		})

	default:
		return ErrUnknownSubcommand("emails", sub)
	}
}

// =============================================================================
// CONTACTS
// =============================================================================

// HandleContacts handles "jarvis contacts [list|add]".
func HandleContacts(ctx context.Context, e *Env) error {
	if _, err := e.requireLogin(ctx); err != nil {
		return err
	}
	p := e.Args.Parser()
	switch sub := p.Subcommand(); sub {
	case "", "list", "ls":
		contacts, err := e.Client.Contacts(ctx)
		if err != nil {
			return err
		}
		return e.emit("contacts", contacts, func(w io.Writer) {
			rows := make([][]string, 0, len(contacts))
			for _, c := range contacts {
				rows = append(rows, []string{strconv.Itoa(c.ID), cell(c.Name), c.Email})
			}
			printTable(w, "No contacts yet.", []string{"ID", "NAME", "EMAIL"}, rows)
		})

	case "add", "create":
		name, err := e.valueOrPrompt(firstNonEmpty(p.Positional(1), p.Flag("name")), "Name")
		if err != nil {
			return err
		}
		email, err := e.valueOrPrompt(firstNonEmpty(p.Positional(2), p.Flag("email")), "Email")
		if err != nil {
			return err
		}
		msg, err := e.Client.CreateContact(ctx, api.ContactRequest{Name: name, Email: email})
		if err != nil {
			return err
		}
		return e.emitMessage("contacts", msg, 0)

	default:
		return ErrUnknownSubcommand("contacts", sub)
	}
}

// =============================================================================
// OUTPUT
// =============================================================================

// emitMessage prints a server message, with the record id in JSON mode.
func (e *Env) emitMessage(command, msg string, id int) error {
	return e.emit(command, MessageData{Message: msg, ID: id}, func(w io.Writer) {
		fmt.Fprintln(w, SuccessStyle.Render(msg))
	})
}

func printTable(w io.Writer, empty string, header []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, DimStyle.Render(empty))
		return
	}
	fmt.Fprint(w, RenderTable(header, rows))
}
