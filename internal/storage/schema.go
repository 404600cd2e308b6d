// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

// schemaVersion is bumped whenever Schema changes incompatibly.
const schemaVersion = 1

// Schema creates the transcript tables. Timestamps are unix nanoseconds.
const Schema = `
CREATE TABLE IF NOT EXISTS transcripts (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL DEFAULT '',
	user_email TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id            TEXT PRIMARY KEY,
	transcript_id TEXT NOT NULL REFERENCES transcripts(id) ON DELETE CASCADE,
	seq           INTEGER NOT NULL,
	kind          TEXT NOT NULL,
	content       TEXT NOT NULL,
	ts            INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS logs (
	transcript_id TEXT NOT NULL REFERENCES transcripts(id) ON DELETE CASCADE,
	seq           INTEGER NOT NULL,
	message       TEXT NOT NULL,
	ts            INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_transcript ON messages(transcript_id, seq);
CREATE INDEX IF NOT EXISTS idx_logs_transcript ON logs(transcript_id, seq);
CREATE INDEX IF NOT EXISTS idx_transcripts_updated ON transcripts(updated_at DESC);
CREATE INDEX IF NOT EXISTS idx_transcripts_user ON transcripts(user_email);

CREATE TABLE IF NOT EXISTS metadata (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`
