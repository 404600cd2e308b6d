// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
)

// errMaskedConfig guards against posting the masked placeholder back.
var errMaskedConfig = errors.New("config still contains the masked \"***\" placeholder")

// SystemStatus reports which server integrations are working.
func (c *Client) SystemStatus(ctx context.Context) (*SystemStatus, error) {
	var st SystemStatus
	if err := c.get(ctx, "/system/status", &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// GetConfig returns the stored system config with secrets masked.
func (c *Client) GetConfig(ctx context.Context) (*SystemConfig, error) {
	var cfg SystemConfig
	if err := c.get(ctx, "/config", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UpdateConfig stores cfg and returns the server's connection test results.
// Nil fields are sent as null and left unchanged by the server.
func (c *Client) UpdateConfig(ctx context.Context, cfg SystemConfig) (*ConfigUpdateResult, error) {
	if cfg.HasMaskedSecret() {
		return nil, errMaskedConfig
	}
	var res ConfigUpdateResult
	if err := c.post(ctx, "/config", cfg, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Dashboard returns the recent meetings, active tasks, pending todos and
// recent emails in one call.
func (c *Client) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	if err := c.get(ctx, "/dashboard", &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Chat sends a message to the assistant. chatContext is free text the
// server passes to the model, such as "Current meeting: 12".
func (c *Client) Chat(ctx context.Context, message, chatContext string) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.post(ctx, "/chat", ChatRequest{Message: message, Context: chatContext}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
