// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kouponize121/Jarvis-AI/internal/api"
	"github.com/kouponize121/Jarvis-AI/internal/util"
)

// Error variables for session state.
var (
	// ErrNotLoggedIn means there is no stored credential.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrTokenExpired means the stored token can no longer be used.
	ErrTokenExpired = errors.New("session expired, please log in again")
)

// Credentials is the content of the credential file.
type Credentials struct {
	Token   string    `json:"token"`
	User    api.User  `json:"user"`
	SavedAt time.Time `json:"saved_at"`
}

// Store persists Credentials to a single file.
type Store struct {
	path string
}

// NewStore returns a store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the credential file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the stored credentials. A missing or empty file yields
// ErrNotLoggedIn.
func (s *Store) Load() (*Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrNotLoggedIn
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse session file %s: %w", s.path, err)
	}
	if creds.Token == "" {
		return nil, ErrNotLoggedIn
	}
	return &creds, nil
}

// Save writes creds with owner-only permissions.
// SECURITY: The token grants full account access.
func (s *Store) Save(creds Credentials) error {
	if creds.SavedAt.IsZero() {
		creds.SavedAt = time.Now()
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := util.AtomicWriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear removes the credential file. Clearing an absent file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// TokenExpiry returns the exp claim of a JWT without verifying its
// signature. Only the server can verify; the client uses this to skip a
// round trip with a token that is already dead. ok is false when the token
// carries no exp claim.
func TokenExpiry(token string) (exp time.Time, ok bool, err error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false, fmt.Errorf("malformed token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false, nil
	}
	return claims.ExpiresAt.Time, true, nil
}

// Expired reports whether token's exp claim is before now. Tokens that
// cannot be parsed count as expired.
func Expired(token string, now time.Time) bool {
	exp, ok, err := TokenExpiry(token)
	if err != nil {
		return true
	}
	return ok && !now.Before(exp)
}
