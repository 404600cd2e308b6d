// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error variables for conditions callers branch on.
var (
	// ErrUnauthorized is wrapped by every 401 response. The session is gone
	// and the user has to log in again.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrServerUnavailable is returned while the circuit breaker is open.
	ErrServerUnavailable = errors.New("jarvis server unavailable")

	// ErrResponseTooLarge is returned when a body exceeds the size limit.
	ErrResponseTooLarge = errors.New("response too large")
)

// APIError is a non-2xx reply from the Jarvis server.
type APIError struct {
	Status int
	// Detail is the server's human readable explanation, from the
	// {"detail": ...} body when present.
	Detail string
	Method string
	Path   string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("%s %s: HTTP %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

// Unwrap lets errors.Is(err, ErrUnauthorized) match 401 replies.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// IsUnauthorized reports whether err came from a 401 reply.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Detail returns the text to show a user for err: the server's detail when
// there is one, otherwise the error message.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return err.Error()
}

// validationItem is one entry of a FastAPI 422 detail list.
type validationItem struct {
	Loc []interface{} `json:"loc"`
	Msg string        `json:"msg"`
}

// parseDetail extracts the detail text from an error body. FastAPI sends
// either {"detail": "text"} or {"detail": [{"loc": [...], "msg": "..."}]}.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return strings.TrimSpace(string(body))
	}

	if len(envelope.Detail) > 0 {
		var text string
		if err := json.Unmarshal(envelope.Detail, &text); err == nil {
			return text
		}
		var items []validationItem
		if err := json.Unmarshal(envelope.Detail, &items); err == nil {
			parts := make([]string, 0, len(items))
			for _, it := range items {
				if field := lastLoc(it.Loc); field != "" {
					parts = append(parts, field+": "+it.Msg)
				} else {
					parts = append(parts, it.Msg)
				}
			}
			return strings.Join(parts, "; ")
		}
		return string(envelope.Detail)
	}
	return envelope.Message
}

func lastLoc(loc []interface{}) string {
	if len(loc) == 0 {
		return ""
	}
	if s, ok := loc[len(loc)-1].(string); ok && s != "body" {
		return s
	}
	return ""
}
