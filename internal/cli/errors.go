// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error types, display and exit codes for jarvis commands.
//
// Handlers always return errors and never print them; main displays the
// error once and exits with the code from GetExitCode.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/kouponize121/Jarvis-AI/internal/api"
	"github.com/kouponize121/Jarvis-AI/internal/config"
	"github.com/kouponize121/Jarvis-AI/internal/session"
	"github.com/kouponize121/Jarvis-AI/internal/storage"
	"github.com/kouponize121/Jarvis-AI/internal/validate"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitAuthError indicates a missing, expired or rejected session
	ExitAuthError = 4
	// ExitNetworkError indicates the server could not be reached
	ExitNetworkError = 5
	// ExitServerError indicates the server answered with a failure
	ExitServerError = 6
	// ExitNotFoundError indicates a resource was not found
	ExitNotFoundError = 7
	// ExitTimeoutError indicates an operation timed out
	ExitTimeoutError = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "tasks", "meetings")
	Action  string // Action being performed (e.g., "add", "end")
	Reason  string // Human-readable reason
	Err     error  // Underlying error (if any)
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %s", e.Command, e.Action, e.Reason, api.Detail(e.Err))
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure for user input.
type ValidationError struct {
	Field   string // Field that failed validation
	Value   string // Value that was provided
	Reason  string // Why validation failed
	Example string // Example of valid value (optional)
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// NotFoundError represents a resource not found error.
type NotFoundError struct {
	Resource string // Type of resource (e.g., "transcript", "meeting")
	ID       string // Identifier that was not found
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// =============================================================================
// ERROR CONSTRUCTION HELPERS
// =============================================================================

// NewCommandError creates a new command error.
func NewCommandError(command, action, reason string, err error) error {
	return &CommandError{Command: command, Action: action, Reason: reason, Err: err}
}

// ErrMissingArgument creates an error for missing required arguments.
func ErrMissingArgument(argName, usage string) error {
	return &ValidationError{Field: argName, Reason: "required argument missing", Example: usage}
}

// ErrInvalidFormat creates an error for invalid format.
func ErrInvalidFormat(field, value, expected string) error {
	return &ValidationError{Field: field, Value: value, Reason: "invalid format", Example: expected}
}

// ErrUnknownSubcommand reports a subcommand the command does not have.
func ErrUnknownSubcommand(command, sub string) error {
	return &ValidationError{
		Field:   command + " subcommand",
		Value:   sub,
		Reason:  "unknown subcommand",
		Example: "jarvis help",
	}
}

// =============================================================================
// ERROR DISPLAY
// =============================================================================

// DisplayError writes err in a consistent format. In JSON mode the error
// goes to w as an envelope so scripts always get parseable output.
func DisplayError(w io.Writer, err error, command string, jsonMode bool) {
	if err == nil {
		return
	}
	if jsonMode {
		resp := NewJSONErrorResponse(command, err)
		resp.ErrorType = errorType(err)
		resp.Print(w, false)
		return
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("[ERROR]"), err.Error())
}

func errorType(err error) string {
	var (
		cmdErr      *CommandError
		validErr    *ValidationError
		notFoundErr *NotFoundError
		fieldErrs   validate.Errors
	)
	switch {
	case errors.As(err, &validErr), errors.As(err, &fieldErrs):
		return "validation_error"
	case errors.As(err, &notFoundErr):
		return "not_found_error"
	case errors.As(err, &cmdErr):
		return "command_error"
	}
	switch GetExitCode(err) {
	case ExitAuthError:
		return "auth_error"
	case ExitNetworkError, ExitTimeoutError:
		return "network_error"
	case ExitServerError:
		return "server_error"
	case ExitConfigError:
		return "config_error"
	}
	return "generic_error"
}

// GetExitCode determines the appropriate exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		validationErr *ValidationError
		fieldErrs     validate.Errors
		ttyErr        *TTYRequiredError
		confirmErr    *ConfirmationRequiredError
		notFoundErr   *NotFoundError
		cfgErrs       config.ValidateErrors
		cfgErr        config.ValidationError
		netErr        net.Error
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &fieldErrs), errors.As(err, &ttyErr),
		errors.As(err, &confirmErr):
		return ExitUsageError
	case errors.As(err, &notFoundErr), errors.Is(err, storage.ErrNotFound):
		return ExitNotFoundError
	case errors.As(err, &cfgErrs), errors.As(err, &cfgErr):
		return ExitConfigError
	case errors.Is(err, session.ErrNotLoggedIn),
		errors.Is(err, session.ErrTokenExpired),
		errors.Is(err, api.ErrUnauthorized):
		return ExitAuthError
	case errors.Is(err, context.DeadlineExceeded):
		return ExitTimeoutError
	case errors.As(err, &netErr) && netErr.Timeout():
		return ExitTimeoutError
	case errors.Is(err, api.ErrServerUnavailable), errors.As(err, &netErr):
		return ExitNetworkError
	}

	switch status := api.StatusCode(err); {
	case status == http.StatusForbidden:
		return ExitAuthError
	case status == http.StatusNotFound:
		return ExitNotFoundError
	case status >= 500:
		return ExitServerError
	case status >= 400:
		return ExitUsageError
	}
	return ExitGeneralError
}

