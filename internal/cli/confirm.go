// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - Confirmation for commands that destroy data.
//
// Every destructive command follows one pattern:
//  1. With --yes, proceed without prompting
//  2. With --json, --yes is required (no interactive prompts in JSON mode)
//  3. Otherwise ask on stderr and read the answer from stdin; end of input
//     means --yes is required
package cli

import (
	"errors"
	"fmt"
	"strings"
)

// errCancelled is returned when the user answers no.
var errCancelled = errors.New("cancelled")

// ConfirmationRequiredError is returned when a prompt is needed but
// cannot be shown.
type ConfirmationRequiredError struct {
	Action string
}

func (e *ConfirmationRequiredError) Error() string {
	return fmt.Sprintf("confirmation required to %s: pass --yes", e.Action)
}

// Confirm asks before a destructive action. message may span several
// lines and is shown as a warning above the prompt.
func (e *Env) Confirm(message string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	action := firstLineLower(message)
	if e.Args.JSON {
		return false, &ConfirmationRequiredError{Action: action}
	}

	fmt.Fprintln(e.Err)
	for _, line := range strings.Split(message, "\n") {
		fmt.Fprintln(e.Err, WarningStyle.Render(line))
	}
	answer, err := e.readLine("Continue? [y/N]: ")
	if err != nil {
		var ttyErr *TTYRequiredError
		if errors.As(err, &ttyErr) {
			return false, &ConfirmationRequiredError{Action: action}
		}
		return false, err
	}
	ok, err := ParseBoolString(answer)
	return err == nil && ok, nil
}

func firstLineLower(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(line)), ".")
}
