// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kouponize121/Jarvis-AI/internal/util"
)

// =============================================================================
// KIND TYPE
// =============================================================================

// Kind identifies who a chat message is from.
type Kind string

const (
	KindUser   Kind = "user"
	KindJarvis Kind = "jarvis"
	KindSystem Kind = "system"
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// DisplayName returns the label shown next to messages of this kind.
func (k Kind) DisplayName() string {
	switch k {
	case KindUser:
		return "You"
	case KindJarvis:
		return "Jarvis"
	case KindSystem:
		return "System"
	default:
		return string(k)
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindUser, KindJarvis, KindSystem:
		return true
	}
	return false
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is one entry of the chat transcript.
type Message struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message stamped with the current time.
func NewMessage(kind Kind, content string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Kind:      kind,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a message echoing user input.
func NewUserMessage(content string) *Message {
	return NewMessage(KindUser, content)
}

// NewJarvisMessage creates a reply from the assistant.
func NewJarvisMessage(content string) *Message {
	return NewMessage(KindJarvis, content)
}

// TimeLabel formats the timestamp the way the chat view shows it.
func (m *Message) TimeLabel() string {
	return m.Timestamp.Local().Format("15:04:05")
}

// Preview returns the first line of the content, cut to maxLen display columns.
func (m *Message) Preview(maxLen int) string {
	return util.TruncateWidth(util.FirstLine(strings.TrimSpace(m.Content)), maxLen)
}

// IsMultiline reports whether the content spans several lines, such as a
// meeting summary or minutes.
func (m *Message) IsMultiline() bool {
	return strings.Contains(strings.TrimRight(m.Content, "\n"), "\n")
}

// =============================================================================
// SYSTEM LOG
// =============================================================================

// LogEntry is one line of the chat's side log.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// NewLogEntry creates a log entry stamped with the current time.
func NewLogEntry(message string) LogEntry {
	return LogEntry{Timestamp: time.Now(), Message: message}
}

// String renders the entry as "[HH:MM:SS] message".
func (e LogEntry) String() string {
	return "[" + e.Timestamp.Local().Format("15:04:05") + "] " + e.Message
}
