// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"strings"

	"github.com/kouponize121/Jarvis-AI/internal/validate"
)

// Login exchanges credentials for a bearer token. It does not store the
// token on the client; the session manager decides that.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var resp LoginResponse
	if err := c.post(ctx, "/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account. The caller logs in separately.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var resp RegisterResponse
	if err := c.post(ctx, "/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SecurityQuestion returns the recovery question stored for email.
func (c *Client) SecurityQuestion(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if err := validate.Var("email", email, "required,email"); err != nil {
		return "", err
	}
	var resp struct {
		SecurityQuestion string `json:"security_question"`
	}
	if err := c.post(ctx, "/forgot-password/verify", map[string]string{"email": email}, &resp); err != nil {
		return "", err
	}
	return resp.SecurityQuestion, nil
}

// ResetPassword sets a new password after answering the security question.
func (c *Client) ResetPassword(ctx context.Context, req PasswordResetRequest) (string, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(req); err != nil {
		return "", err
	}
	var resp MessageResponse
	if err := c.post(ctx, "/forgot-password/reset", req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Me returns the profile of the token's owner.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}
