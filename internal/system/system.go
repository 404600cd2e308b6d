// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package system loads, validates and saves the server-side integration
// settings (OpenAI key and SMTP account) and summarizes connection status.
package system

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/kouponize121/Jarvis-AI/internal/api"
	"github.com/kouponize121/Jarvis-AI/internal/validate"
)

// DefaultSMTPPort is shown when the server has no port stored.
const DefaultSMTPPort = 587

// SavedMessage is shown when the server accepts a config without a message.
const SavedMessage = "Configuration saved successfully!"

// SetupGuide lists where to find each credential.
const SetupGuide = `OpenAI API Key:
  Get from platform.openai.com

Gmail SMTP:
  Host: smtp.gmail.com
  Port: 587
  Use app password

Outlook SMTP:
  Host: smtp.office365.com
  Port: 587`

// Client is the part of the API the system screen needs.
type Client interface {
	SystemStatus(ctx context.Context) (*api.SystemStatus, error)
	GetConfig(ctx context.Context) (*api.SystemConfig, error)
	UpdateConfig(ctx context.Context, cfg api.SystemConfig) (*api.ConfigUpdateResult, error)
}

// =============================================================================
// STATUS
// =============================================================================

// Check is one connection indicator.
type Check struct {
	Name string
	OK   bool
}

// Label returns the indicator text.
func (c Check) Label() string {
	if c.OK {
		return "✅ Connected"
	}
	return "❌ Disconnected"
}

// Checks returns the three connection indicators of st.
func Checks(st *api.SystemStatus) []Check {
	if st == nil {
		st = &api.SystemStatus{}
	}
	return []Check{
		{Name: "OpenAI API", OK: st.OpenAIConnected},
		{Name: "SMTP", OK: st.SMTPConnected},
		{Name: "Database", OK: st.DatabaseConnected},
	}
}

// =============================================================================
// FORM
// =============================================================================

// Form holds the editable settings as typed by the user. Secrets the server
// has stored come back masked; they are shown blank with the Stored flag set.
type Form struct {
	OpenAIKey string
	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string

	OpenAIKeyStored bool
	SMTPPassStored  bool
}

// formRules carries the validation tags; field names match the JSON keys.
type formRules struct {
	OpenAIKey string `json:"openai_key" validate:"omitempty,notmasked"`
	SMTPHost  string `json:"smtp_host" validate:"required_with=SMTPUser SMTPPass"`
	SMTPPort  int    `json:"smtp_port" validate:"gte=1,lte=65535"`
	SMTPUser  string `json:"smtp_user" validate:"omitempty,email"`
	SMTPPass  string `json:"smtp_pass" validate:"omitempty,notmasked"`
}

var fieldMessages = map[string]string{
	"openai_key": "OpenAI API key cannot be the masked placeholder",
	"smtp_host":  "SMTP host is required when an SMTP user or password is set",
	"smtp_port":  "SMTP port must be a number between 1 and 65535",
	"smtp_user":  "SMTP user must be a valid email address",
	"smtp_pass":  "SMTP password cannot be the masked placeholder",
}

// FormFromConfig fills a form from a fetched config.
func FormFromConfig(cfg *api.SystemConfig) Form {
	f := Form{SMTPPort: strconv.Itoa(DefaultSMTPPort)}
	if cfg == nil {
		return f
	}
	f.SMTPHost = deref(cfg.SMTPHost)
	f.SMTPUser = deref(cfg.SMTPUser)
	if cfg.SMTPPort != nil && *cfg.SMTPPort != 0 {
		f.SMTPPort = strconv.Itoa(*cfg.SMTPPort)
	}
	if key := deref(cfg.OpenAIKey); key == api.Masked {
		f.OpenAIKeyStored = true
	} else {
		f.OpenAIKey = key
	}
	if pass := deref(cfg.SMTPPass); pass == api.Masked {
		f.SMTPPassStored = true
	} else {
		f.SMTPPass = pass
	}
	return f
}

func (f Form) trimmed() Form {
	f.OpenAIKey = strings.TrimSpace(f.OpenAIKey)
	f.SMTPHost = strings.TrimSpace(f.SMTPHost)
	f.SMTPPort = strings.TrimSpace(f.SMTPPort)
	f.SMTPUser = strings.TrimSpace(f.SMTPUser)
	return f
}

// port parses SMTPPort; blank means the default.
func (f Form) port() (int, bool) {
	if f.SMTPPort == "" {
		return DefaultSMTPPort, true
	}
	n, err := strconv.Atoi(f.SMTPPort)
	return n, err == nil
}

// Validate checks the form. It returns validate.Errors keyed by JSON field
// name when any rule fails.
func (f Form) Validate() error {
	f = f.trimmed()
	port, ok := f.port()
	if !ok {
		port = 0
	}
	err := validate.Struct(formRules{
		OpenAIKey: f.OpenAIKey,
		SMTPHost:  f.SMTPHost,
		SMTPPort:  port,
		SMTPUser:  f.SMTPUser,
		SMTPPass:  f.SMTPPass,
	})
	var verrs validate.Errors
	if !errors.As(err, &verrs) {
		return err
	}
	for i := range verrs {
		if msg, ok := fieldMessages[verrs[i].Field]; ok {
			verrs[i].Message = msg
		}
	}
	return verrs
}

// Config validates the form and converts it to the request body. Blank
// fields are sent as null, so the masked placeholder is never echoed back.
func (f Form) Config() (api.SystemConfig, error) {
	if err := f.Validate(); err != nil {
		return api.SystemConfig{}, err
	}
	f = f.trimmed()
	port, _ := f.port()
	return api.SystemConfig{
		OpenAIKey: optional(f.OpenAIKey),
		SMTPHost:  optional(f.SMTPHost),
		SMTPPort:  &port,
		SMTPUser:  optional(f.SMTPUser),
		SMTPPass:  optional(f.SMTPPass),
	}, nil
}

// Warnings lists stored secrets that saving the form as-is would clear.
func (f Form) Warnings() []string {
	var out []string
	if f.OpenAIKeyStored && strings.TrimSpace(f.OpenAIKey) == "" {
		out = append(out, "A stored OpenAI API key will be cleared unless you re-enter it.")
	}
	if f.SMTPPassStored && f.SMTPPass == "" {
		out = append(out, "A stored SMTP password will be cleared unless you re-enter it.")
	}
	return out
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Load fetches status and config. Both are attempted; the first error is
// returned alongside whatever did load.
func Load(ctx context.Context, c Client) (*api.SystemStatus, Form, error) {
	st, statusErr := c.SystemStatus(ctx)
	cfg, cfgErr := c.GetConfig(ctx)
	form := FormFromConfig(cfg)
	if statusErr != nil {
		return st, form, statusErr
	}
	return st, form, cfgErr
}

// Save validates and stores the form. It returns the server's message.
func Save(ctx context.Context, c Client, f Form) (*api.ConfigUpdateResult, error) {
	cfg, err := f.Config()
	if err != nil {
		return nil, err
	}
	res, err := c.UpdateConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(res.Message) == "" {
		res.Message = SavedMessage
	}
	return res, nil
}

// SaveFailure formats a failed save for display.
func SaveFailure(err error) string {
	var verrs validate.Errors
	if errors.As(err, &verrs) {
		return "Failed to save configuration: " + verrs.Error()
	}
	return "Failed to save configuration: " + api.Detail(err)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
