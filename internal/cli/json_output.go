// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - Machine readable output for scripting jarvis.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/kouponize121/Jarvis-AI/internal/api"
	"github.com/kouponize121/Jarvis-AI/internal/model"
)

// JSONResponse is the envelope every --json command prints.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data interface{} `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// ErrorType classifies a failure (auth_error, network_error, ...)
	ErrorType string `json:"error_type,omitempty"`

	// Timestamp is the ISO8601 timestamp when the response was generated
	Timestamp string `json:"timestamp"`

	// Command is the command that was executed
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := api.Detail(err)
	return &JSONResponse{
		Success:   false,
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print writes the response as indented JSON. With color set the output
// is syntax highlighted for a terminal.
func (r *JSONResponse) Print(w io.Writer, color bool) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	if color {
		if err := quick.Highlight(w, string(data)+"\n", "json", "terminal256", "monokai"); err == nil {
			return nil
		}
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// String returns the JSON response as a string.
func (r *JSONResponse) String() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":"failed to marshal response: %s","timestamp":"%s"}`,
			err.Error(), time.Now().UTC().Format(time.RFC3339))
	}
	return string(data)
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// VersionData represents the data returned by the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version,omitempty"`
}

// MessageData is the reply of commands that only report a server message.
type MessageData struct {
	Message string `json:"message"`
	ID      int    `json:"id,omitempty"`
}

// ServerConfigData describes the server integrations without secrets.
type ServerConfigData struct {
	OpenAIKeySet bool   `json:"openai_key_configured"`
	SMTPHost     string `json:"smtp_host"`
	SMTPPort     string `json:"smtp_port"`
	SMTPUser     string `json:"smtp_user"`
	SMTPPassSet  bool   `json:"smtp_pass_configured"`
}

// MeetingEndData is returned by "meetings end".
type MeetingEndData struct {
	MeetingID int    `json:"meeting_id"`
	Message   string `json:"message"`
	MoM       string `json:"mom"`
}

// HistoryShowData is returned by "history show".
type HistoryShowData struct {
	Transcript *model.Transcript `json:"transcript"`
}
