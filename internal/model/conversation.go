// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// MaxMessages is the maximum number of messages kept in memory.
// When exceeded, the oldest messages are pruned.
const MaxMessages = 1000

// MaxLogs caps the side log the same way.
const MaxLogs = 500

// =============================================================================
// TRANSCRIPT TYPE
// =============================================================================

// Transcript is one chat session: the messages shown to the user and the
// system log kept beside them. It is owned by a single event loop and is
// not safe for concurrent use.
type Transcript struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UserEmail string    `json:"user_email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []*Message `json:"messages"`
	Logs     []LogEntry `json:"logs"`
}

// NewTranscript creates an empty transcript with a generated ID.
func NewTranscript() *Transcript {
	now := time.Now()
	return &Transcript{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]*Message, 0),
		Logs:      make([]LogEntry, 0),
	}
}

// Add appends a message of the given kind and returns it.
func (t *Transcript) Add(kind Kind, content string) *Message {
	msg := NewMessage(kind, content)
	t.AddMessage(msg)
	return msg
}

// AddMessage appends msg.
func (t *Transcript) AddMessage(msg *Message) {
	t.Messages = append(t.Messages, msg)
	t.UpdatedAt = msg.Timestamp
	if t.Title == "" && msg.Kind == KindUser {
		t.Title = msg.Preview(50)
	}
	if len(t.Messages) > MaxMessages {
		t.Messages = t.Messages[len(t.Messages)-MaxMessages:]
	}
}

// Log appends a side-log entry and returns it.
func (t *Transcript) Log(message string) LogEntry {
	entry := NewLogEntry(message)
	t.Logs = append(t.Logs, entry)
	if len(t.Logs) > MaxLogs {
		t.Logs = t.Logs[len(t.Logs)-MaxLogs:]
	}
	return entry
}

// Last returns the newest message of kind, or nil.
func (t *Transcript) Last(kind Kind) *Message {
	for i := len(t.Messages) - 1; i >= 0; i-- {
		if t.Messages[i].Kind == kind {
			return t.Messages[i]
		}
	}
	return nil
}

// MessageCount returns the number of messages.
func (t *Transcript) MessageCount() int {
	return len(t.Messages)
}

// IsEmpty reports whether the user has said anything yet.
func (t *Transcript) IsEmpty() bool {
	return t.Last(KindUser) == nil
}

// GetTitle returns the title or a placeholder.
func (t *Transcript) GetTitle() string {
	if t.Title != "" {
		return t.Title
	}
	return "New chat"
}

// Preview returns a short preview of the transcript.
func (t *Transcript) Preview() string {
	if msg := t.Last(KindUser); msg != nil {
		return msg.Preview(100)
	}
	if len(t.Messages) > 0 {
		return t.Messages[0].Preview(100)
	}
	return "Empty chat"
}

// Meta returns the listing metadata of the transcript.
func (t *Transcript) Meta() TranscriptMeta {
	return TranscriptMeta{
		ID:           t.ID,
		Title:        t.GetTitle(),
		UserEmail:    t.UserEmail,
		MessageCount: len(t.Messages),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		Preview:      t.Preview(),
	}
}

// TranscriptMeta holds lightweight metadata for listing.
type TranscriptMeta struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	UserEmail    string    `json:"user_email,omitempty"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Preview      string    `json:"preview"`
}

// Clone creates a deep copy of the transcript.
func (t *Transcript) Clone() *Transcript {
	clone := *t
	clone.Messages = make([]*Message, len(t.Messages))
	for i, msg := range t.Messages {
		msgCopy := *msg
		clone.Messages[i] = &msgCopy
	}
	clone.Logs = append([]LogEntry(nil), t.Logs...)
	return &clone
}
