// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"

	"github.com/kouponize121/Jarvis-AI/internal/validate"
)

// =============================================================================
// CONTACTS
// =============================================================================

// Contacts lists the user's address book.
func (c *Client) Contacts(ctx context.Context) ([]Contact, error) {
	var resp contactsResponse
	if err := c.get(ctx, "/contacts", &resp); err != nil {
		return nil, err
	}
	return resp.Contacts, nil
}

// CreateContact adds or renames a contact keyed by email.
func (c *Client) CreateContact(ctx context.Context, req ContactRequest) (string, error) {
	if err := validate.Struct(req); err != nil {
		return "", err
	}
	var resp MessageResponse
	if err := c.post(ctx, "/contacts", req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// =============================================================================
// TASKS
// =============================================================================

// Tasks lists the user's tasks, newest first.
func (c *Client) Tasks(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := c.get(ctx, "/tasks", &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask adds a task. With an assignee email the server also mails the assignee.
func (c *Client) CreateTask(ctx context.Context, req TaskRequest) (*TaskCreated, error) {
	if req.Priority == "" {
		req.Priority = PriorityMedium
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var resp TaskCreated
	if err := c.post(ctx, "/tasks", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CompleteTask marks a task completed.
func (c *Client) CompleteTask(ctx context.Context, id int) (string, error) {
	var resp MessageResponse
	if err := c.put(ctx, fmt.Sprintf("/tasks/%d/complete", id), nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// =============================================================================
// TODOS
// =============================================================================

// Todos lists the user's to-do items.
func (c *Client) Todos(ctx context.Context) ([]Todo, error) {
	var todos []Todo
	if err := c.get(ctx, "/todos", &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// CreateTodo adds a to-do item.
func (c *Client) CreateTodo(ctx context.Context, req TodoRequest) (*TodoCreated, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var resp TodoCreated
	if err := c.post(ctx, "/todos", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CompleteTodo marks a to-do item completed.
func (c *Client) CompleteTodo(ctx context.Context, id int) (string, error) {
	var resp MessageResponse
	if err := c.put(ctx, fmt.Sprintf("/todos/%d/complete", id), nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// =============================================================================
// EMAILS
// =============================================================================

// Emails lists the most recent sent emails.
func (c *Client) Emails(ctx context.Context) ([]Email, error) {
	var emails []Email
	if err := c.get(ctx, "/emails", &emails); err != nil {
		return nil, err
	}
	return emails, nil
}

// SendEmail sends an email through the server's SMTP account.
func (c *Client) SendEmail(ctx context.Context, req SendEmailRequest) (string, error) {
	if req.EmailType == "" {
		req.EmailType = "general"
	}
	if err := validate.Struct(req); err != nil {
		return "", err
	}
	var resp MessageResponse
	if err := c.post(ctx, "/emails/send", req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// DraftEmail asks the assistant to write an email without sending it.
func (c *Client) DraftEmail(ctx context.Context, req DraftEmailRequest) (*EmailDraft, error) {
	if req.EmailType == "" {
		req.EmailType = "general"
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var draft EmailDraft
	if err := c.post(ctx, "/emails/draft", req, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}
