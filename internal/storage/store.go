// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/kouponize121/Jarvis-AI/internal/model"
)

// DefaultMaxSessions is used when Open is given a non-positive limit.
const DefaultMaxSessions = 200

var (
	ErrNotFound = errors.New("transcript not found")
	ErrClosed   = errors.New("transcript store closed")
)

// Store persists transcripts in SQLite. It is safe for concurrent use.
type Store struct {
	mu          sync.Mutex
	db          *sql.DB
	path        string
	maxSessions int
	closed      bool
}

// ListOptions filters List.
type ListOptions struct {
	// Limit caps the result; zero means no limit.
	Limit int
	// UserEmail keeps only transcripts recorded for that account.
	UserEmail string
	// Query matches titles and message content, case-insensitively.
	Query string
}

// Open opens (creating if needed) the database at path and applies the
// schema. At most maxSessions transcripts are kept; older ones are pruned.
func Open(path string, maxSessions int) (*Store, error) {
	if path == "" {
		return nil, errors.New("database path cannot be empty")
	}
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{db: db, path: path, maxSessions: maxSessions}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return err
	}
	var version string
	err := s.db.QueryRow(`SELECT value FROM metadata WHERE key = 'schema_version'`).Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = s.db.Exec(`INSERT INTO metadata(key, value) VALUES ('schema_version', ?)`,
			strconv.Itoa(schemaVersion))
		return err
	case err != nil:
		return err
	}
	if v, _ := strconv.Atoi(version); v > schemaVersion {
		return fmt.Errorf("database schema version %s is newer than supported version %d", version, schemaVersion)
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the database. Further calls return ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// =============================================================================
// RECORDING
// =============================================================================

// RecordMessage appends msg to transcript t, creating the transcript row the
// first time it is seen.
func (s *Store) RecordMessage(t *model.Transcript, msg *model.Message) error {
	return s.write(context.Background(), t, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO messages (id, transcript_id, seq, kind, content, ts)
			VALUES (?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM messages WHERE transcript_id = ?), ?, ?, ?)`,
			msg.ID, t.ID, t.ID, string(msg.Kind), msg.Content, msg.Timestamp.UnixNano())
		if err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
		_, err = tx.Exec(`
			DELETE FROM messages WHERE transcript_id = ? AND seq <= (
				SELECT MAX(seq) FROM messages WHERE transcript_id = ?) - ?`,
			t.ID, t.ID, model.MaxMessages)
		return err
	})
}

// RecordLog appends a side-log entry to transcript t.
func (s *Store) RecordLog(t *model.Transcript, entry model.LogEntry) error {
	return s.write(context.Background(), t, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO logs (transcript_id, seq, message, ts)
			VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM logs WHERE transcript_id = ?), ?, ?)`,
			t.ID, t.ID, entry.Message, entry.Timestamp.UnixNano())
		if err != nil {
			return fmt.Errorf("insert log: %w", err)
		}
		_, err = tx.Exec(`
			DELETE FROM logs WHERE transcript_id = ? AND seq <= (
				SELECT MAX(seq) FROM logs WHERE transcript_id = ?) - ?`,
			t.ID, t.ID, model.MaxLogs)
		return err
	})
}

// Save writes a whole transcript, replacing any stored copy.
func (s *Store) Save(ctx context.Context, t *model.Transcript) error {
	return s.write(ctx, t, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE transcript_id = ?`, t.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM logs WHERE transcript_id = ?`, t.ID); err != nil {
			return err
		}
		for i, msg := range t.Messages {
			_, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO messages (id, transcript_id, seq, kind, content, ts)
				VALUES (?, ?, ?, ?, ?, ?)`,
				msg.ID, t.ID, i+1, string(msg.Kind), msg.Content, msg.Timestamp.UnixNano())
			if err != nil {
				return fmt.Errorf("insert message: %w", err)
			}
		}
		for i, entry := range t.Logs {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO logs (transcript_id, seq, message, ts) VALUES (?, ?, ?, ?)`,
				t.ID, i+1, entry.Message, entry.Timestamp.UnixNano())
			if err != nil {
				return fmt.Errorf("insert log: %w", err)
			}
		}
		return nil
	})
}

// write upserts the transcript row, runs fn in the same transaction and
// prunes old transcripts when a new one was created.
func (s *Store) write(ctx context.Context, t *model.Transcript, fn func(tx *sql.Tx) error) error {
	if t == nil || t.ID == "" {
		return errors.New("transcript has no ID")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO transcripts (id, title, user_email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.UserEmail, t.CreatedAt.UnixNano(), t.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("insert transcript: %w", err)
	}
	created, _ := res.RowsAffected()
	if created == 0 {
		_, err = tx.ExecContext(ctx, `
			UPDATE transcripts SET title = ?, user_email = ?, updated_at = ? WHERE id = ?`,
			t.Title, t.UserEmail, t.UpdatedAt.UnixNano(), t.ID)
		if err != nil {
			return fmt.Errorf("update transcript: %w", err)
		}
	}

	if err := fn(tx); err != nil {
		return err
	}
	if created > 0 {
		if err := s.enforceLimit(ctx, tx); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// enforceLimit deletes the least recently updated transcripts beyond
// maxSessions.
func (s *Store) enforceLimit(ctx context.Context, tx *sql.Tx) error {
	const stale = `SELECT id FROM transcripts ORDER BY updated_at DESC LIMIT -1 OFFSET ?`
	for _, table := range []string{"messages", "logs"} {
		q := `DELETE FROM ` + table + ` WHERE transcript_id IN (` + stale + `)`
		if _, err := tx.ExecContext(ctx, q, s.maxSessions); err != nil {
			return fmt.Errorf("prune %s: %w", table, err)
		}
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM transcripts WHERE id IN (`+stale+`)`, s.maxSessions)
	if err != nil {
		return fmt.Errorf("prune transcripts: %w", err)
	}
	return nil
}

// =============================================================================
// QUERIES
// =============================================================================

// List returns transcript metadata, most recently updated first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]model.TranscriptMeta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}
	pattern := ""
	if q := strings.TrimSpace(opts.Query); q != "" {
		pattern = "%" + escapeLike(strings.ToLower(q)) + "%"
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.title, t.user_email, t.created_at, t.updated_at,
			(SELECT COUNT(*) FROM messages m WHERE m.transcript_id = t.id),
			COALESCE((SELECT content FROM messages m WHERE m.transcript_id = t.id AND m.kind = 'user'
				ORDER BY m.seq DESC LIMIT 1), ''),
			COALESCE((SELECT content FROM messages m WHERE m.transcript_id = t.id
				ORDER BY m.seq ASC LIMIT 1), '')
		FROM transcripts t
		WHERE (? = '' OR t.user_email = ?)
		  AND (? = '' OR LOWER(t.title) LIKE ? ESCAPE '\'
		       OR EXISTS (SELECT 1 FROM messages m WHERE m.transcript_id = t.id
		                  AND LOWER(m.content) LIKE ? ESCAPE '\'))
		ORDER BY t.updated_at DESC
		LIMIT ?`,
		opts.UserEmail, opts.UserEmail, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	defer rows.Close()

	metas := make([]model.TranscriptMeta, 0)
	for rows.Next() {
		var (
			meta               model.TranscriptMeta
			created, updated   int64
			lastUser, firstMsg string
		)
		if err := rows.Scan(&meta.ID, &meta.Title, &meta.UserEmail, &created, &updated,
			&meta.MessageCount, &lastUser, &firstMsg); err != nil {
			return nil, err
		}
		meta.CreatedAt = time.Unix(0, created)
		meta.UpdatedAt = time.Unix(0, updated)
		if meta.Title == "" {
			meta.Title = "New chat"
		}
		switch {
		case lastUser != "":
			meta.Preview = (&model.Message{Content: lastUser}).Preview(100)
		case firstMsg != "":
			meta.Preview = (&model.Message{Content: firstMsg}).Preview(100)
		default:
			meta.Preview = "Empty chat"
		}
		metas = append(metas, meta)
	}
	return metas, rows.Err()
}

// Load reads a full transcript by ID. A unique ID prefix is also accepted.
func (s *Store) Load(ctx context.Context, id string) (*model.Transcript, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	id, err := s.resolveID(ctx, id)
	if err != nil {
		return nil, err
	}

	t := &model.Transcript{ID: id}
	var created, updated int64
	err = s.db.QueryRowContext(ctx, `
		SELECT title, user_email, created_at, updated_at FROM transcripts WHERE id = ?`, id).
		Scan(&t.Title, &t.UserEmail, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	t.CreatedAt = time.Unix(0, created)
	t.UpdatedAt = time.Unix(0, updated)

	if t.Messages, err = s.loadMessages(ctx, id); err != nil {
		return nil, err
	}
	if t.Logs, err = s.loadLogs(ctx, id); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) loadMessages(ctx context.Context, id string) ([]*model.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, content, ts FROM messages WHERE transcript_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	defer rows.Close()

	msgs := make([]*model.Message, 0)
	for rows.Next() {
		var (
			msg  model.Message
			kind string
			ts   int64
		)
		if err := rows.Scan(&msg.ID, &kind, &msg.Content, &ts); err != nil {
			return nil, err
		}
		msg.Kind = model.Kind(kind)
		msg.Timestamp = time.Unix(0, ts)
		msgs = append(msgs, &msg)
	}
	return msgs, rows.Err()
}

func (s *Store) loadLogs(ctx context.Context, id string) ([]model.LogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT message, ts FROM logs WHERE transcript_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("load logs: %w", err)
	}
	defer rows.Close()

	logs := make([]model.LogEntry, 0)
	for rows.Next() {
		var (
			entry model.LogEntry
			ts    int64
		)
		if err := rows.Scan(&entry.Message, &ts); err != nil {
			return nil, err
		}
		entry.Timestamp = time.Unix(0, ts)
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

// resolveID expands a unique ID prefix into the full ID.
func (s *Store) resolveID(ctx context.Context, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", ErrNotFound
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM transcripts WHERE id = ? OR id LIKE ? ESCAPE '\' LIMIT 2`,
		prefix, escapeLike(prefix)+"%")
	if err != nil {
		return "", fmt.Errorf("resolve transcript: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		if id == prefix {
			return id, nil
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", ErrNotFound
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("transcript ID prefix %q is ambiguous", prefix)
	}
}

// Delete removes a transcript and its messages. A unique ID prefix is
// accepted.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	id, err := s.resolveID(ctx, id)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM messages WHERE transcript_id = ?`,
		`DELETE FROM logs WHERE transcript_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM transcripts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// Clear removes every transcript.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	for _, table := range []string{"messages", "logs", "transcripts"} {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// Count returns the number of stored transcripts.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transcripts`).Scan(&n)
	return n, err
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
