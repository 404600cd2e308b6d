// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kouponize121/Jarvis-AI/internal/api"
)

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Client is the part of the API client the manager drives.
type Client interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error)
	Me(ctx context.Context) (*api.User, error)
	SetToken(token string)
	OnUnauthorized(fn func())
}

// Reason says why a session ended.
type Reason int

const (
	// ReasonLogout is an explicit logout by the user.
	ReasonLogout Reason = iota
	// ReasonUnauthorized is a 401 from the server.
	ReasonUnauthorized
	// ReasonExternal is a logout by another jarvis process.
	ReasonExternal
)

// String returns the reason as shown to the user.
func (r Reason) String() string {
	switch r {
	case ReasonUnauthorized:
		return "session expired"
	case ReasonExternal:
		return "logged out elsewhere"
	default:
		return "logged out"
	}
}

// RegisteredMessage is shown after a successful registration. Registration
// does not sign the user in.
const RegisteredMessage = "Registration successful! Please login."

// Manager tracks the signed-in user. It is safe for concurrent use.
type Manager struct {
	mu sync.Mutex

	client Client
	store  *Store
	logger *zap.Logger
	now    func() time.Time

	creds *Credentials

	// Callbacks
	onLogout func(Reason)
}

// NewManager creates a manager and registers it as the client's 401 hook.
func NewManager(client Client, store *Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		client: client,
		store:  store,
		logger: logger.Named("session"),
		now:    time.Now,
	}
	client.OnUnauthorized(m.HandleUnauthorized)
	return m
}

// OnLogout sets the function called whenever the session ends. It runs on
// the goroutine that ended the session, outside the manager's lock.
func (m *Manager) OnLogout(fn func(Reason)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLogout = fn
}

// =============================================================================
// SESSION STATE
// =============================================================================

// Current returns the signed-in user, or nil.
func (m *Manager) Current() *api.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.creds == nil {
		return nil
	}
	u := m.creds.User
	return &u
}

// Authenticated reports whether a user is signed in.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds != nil
}

// Store returns the credential store.
func (m *Manager) Store() *Store {
	return m.store
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Restore signs in with the stored token. The token is checked locally for
// expiry and then confirmed with GET /me. A rejected or expired token is
// cleared; a transport failure keeps it for the next attempt.
func (m *Manager) Restore(ctx context.Context) (*api.User, error) {
	creds, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	if Expired(creds.Token, m.now()) {
		m.logger.Info("stored token expired")
		m.clearStore()
		return nil, ErrTokenExpired
	}

	m.client.SetToken(creds.Token)
	user, err := m.client.Me(ctx)
	if err != nil {
		m.client.SetToken("")
		if api.IsUnauthorized(err) || api.StatusCode(err) == http.StatusForbidden {
			m.clearStore()
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("failed to verify session: %w", err)
	}

	creds.User = *user
	m.mu.Lock()
	m.creds = creds
	m.mu.Unlock()
	m.logger.Debug("session restored", zap.Int("user_id", user.ID))
	return user, nil
}

// Login exchanges credentials for a token and stores it.
func (m *Manager) Login(ctx context.Context, email, password string) (*api.User, error) {
	resp, err := m.client.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, errors.New("server returned no access token")
	}

	creds := Credentials{Token: resp.AccessToken, User: resp.User, SavedAt: m.now()}
	if err := m.store.Save(creds); err != nil {
		return nil, err
	}
	m.client.SetToken(creds.Token)

	m.mu.Lock()
	m.creds = &creds
	m.mu.Unlock()
	m.logger.Info("logged in", zap.Int("user_id", resp.User.ID))
	return &creds.User, nil
}

// Register creates an account without signing in and returns the message
// to show.
func (m *Manager) Register(ctx context.Context, req api.RegisterRequest) (string, error) {
	if _, err := m.client.Register(ctx, req); err != nil {
		return "", err
	}
	m.logger.Info("registered account")
	return RegisteredMessage, nil
}

// Logout clears the stored token and fires the logout callback.
func (m *Manager) Logout() error {
	err := m.store.Clear()
	m.end(ReasonLogout)
	return err
}

// HandleUnauthorized tears the session down after a 401.
func (m *Manager) HandleUnauthorized() {
	m.logger.Warn("server rejected token")
	m.clearStore()
	m.end(ReasonUnauthorized)
}

// end drops the in-memory session and notifies once per session.
func (m *Manager) end(reason Reason) {
	m.client.SetToken("")
	m.mu.Lock()
	wasActive := m.creds != nil
	m.creds = nil
	fn := m.onLogout
	m.mu.Unlock()

	if wasActive {
		m.logger.Info("session ended", zap.Stringer("reason", reason))
		if fn != nil {
			fn(reason)
		}
	}
}

func (m *Manager) clearStore() {
	if err := m.store.Clear(); err != nil {
		m.logger.Warn("failed to clear session file", zap.Error(err))
	}
}

// sync reconciles memory with the credential file after an external change.
func (m *Manager) sync() {
	creds, err := m.store.Load()
	if err != nil {
		if errors.Is(err, ErrNotLoggedIn) {
			m.end(ReasonExternal)
			return
		}
		m.logger.Warn("failed to reload session", zap.Error(err))
		return
	}

	m.mu.Lock()
	changed := m.creds != nil && m.creds.Token != creds.Token
	if changed {
		m.creds = creds
	}
	m.mu.Unlock()
	if changed {
		m.client.SetToken(creds.Token)
		m.logger.Info("session replaced by another process", zap.Int("user_id", creds.User.ID))
	}
}
