// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kouponize121/Jarvis-AI/internal/api"
	"github.com/kouponize121/Jarvis-AI/internal/jarvistest"
)

type fixture struct {
	srv    *jarvistest.Server
	client *api.Client
	store  *Store
	mgr    *Manager
	userID int

	mu      sync.Mutex
	reasons []Reason
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{srv: jarvistest.New(t)}
	f.userID = f.srv.AddUser("Tony", "tony@stark.io", "ironman")
	f.client = api.NewClient(f.srv.APIURL())
	f.store = NewStore(filepath.Join(t.TempDir(), "session.json"))
	f.mgr = NewManager(f.client, f.store, nil)
	f.mgr.OnLogout(func(r Reason) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.reasons = append(f.reasons, r)
	})
	return f
}

func (f *fixture) logoutReasons() []Reason {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Reason(nil), f.reasons...)
}

// =============================================================================
// STORE TESTS
// =============================================================================

func TestStore_RoundTrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nested", "session.json"))

	_, err := s.Load()
	assert.True(t, errors.Is(err, ErrNotLoggedIn))

	require.NoError(t, s.Save(Credentials{Token: "abc", User: api.User{ID: 7, Name: "Tony"}}))
	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	if info.Mode().Perm() != 0600 && os.PathSeparator == '/' {
		t.Errorf("session file mode = %v, want 0600", info.Mode().Perm())
	}

	creds, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", creds.Token)
	assert.Equal(t, 7, creds.User.ID)
	assert.False(t, creds.SavedAt.IsZero())

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
	_, err = s.Load()
	assert.True(t, errors.Is(err, ErrNotLoggedIn))
}

func TestStore_EmptyAndCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewStore(path)

	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0600))
	_, err := s.Load()
	assert.True(t, errors.Is(err, ErrNotLoggedIn))

	require.NoError(t, os.WriteFile(path, []byte(`{"token":""}`), 0600))
	_, err = s.Load()
	assert.True(t, errors.Is(err, ErrNotLoggedIn))

	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0600))
	_, err = s.Load()
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotLoggedIn))
}

func TestExpired(t *testing.T) {
	srv := jarvistest.New(t)
	now := time.Now()

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"fresh", srv.Token(1, time.Hour), false},
		{"expired", srv.Token(1, -time.Minute), true},
		{"garbage", "not-a-jwt", true},
	}
	for _, tt := range tests {
		if got := Expired(tt.token, now); got != tt.want {
			t.Errorf("Expired(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// =============================================================================
// MANAGER TESTS
// =============================================================================

func TestLogin_StoresToken(t *testing.T) {
	f := newFixture(t)

	user, err := f.mgr.Login(context.Background(), "tony@stark.io", "ironman")
	require.NoError(t, err)
	assert.Equal(t, "Tony", user.Name)
	assert.True(t, f.mgr.Authenticated())
	assert.NotEmpty(t, f.client.Token())

	creds, err := f.store.Load()
	require.NoError(t, err)
	assert.Equal(t, f.client.Token(), creds.Token)
}

func TestLogin_BadPassword(t *testing.T) {
	f := newFixture(t)

	_, err := f.mgr.Login(context.Background(), "tony@stark.io", "nope")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", api.Detail(err))
	assert.False(t, f.mgr.Authenticated())
	assert.Empty(t, f.logoutReasons())
}

func TestRegister_DoesNotSignIn(t *testing.T) {
	f := newFixture(t)

	msg, err := f.mgr.Register(context.Background(), api.RegisterRequest{Name: "Pepper", Email: "pepper@stark.io", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, RegisteredMessage, msg)
	assert.False(t, f.mgr.Authenticated())
}

func TestRestore(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Save(Credentials{Token: f.srv.Token(f.userID, time.Hour)}))

	user, err := f.mgr.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tony@stark.io", user.Email)
	assert.Equal(t, "Tony", f.mgr.Current().Name)
}

func TestRestore_NoSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.mgr.Restore(context.Background())
	assert.True(t, errors.Is(err, ErrNotLoggedIn))
}

func TestRestore_ExpiredTokenSkipsServer(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Save(Credentials{Token: f.srv.Token(f.userID, -time.Minute)}))

	_, err := f.mgr.Restore(context.Background())
	assert.True(t, errors.Is(err, ErrTokenExpired))
	assert.Equal(t, 0, f.srv.Calls("GET", "/api/me"))
	_, err = f.store.Load()
	assert.True(t, errors.Is(err, ErrNotLoggedIn))
}

func TestRestore_RevokedToken(t *testing.T) {
	f := newFixture(t)
	token := f.srv.Token(f.userID, time.Hour)
	f.srv.Revoke(token)
	require.NoError(t, f.store.Save(Credentials{Token: token}))

	_, err := f.mgr.Restore(context.Background())
	assert.True(t, errors.Is(err, ErrTokenExpired))
	assert.False(t, f.mgr.Authenticated())
	assert.Empty(t, f.client.Token())
	assert.False(t, fileExists(f.store.Path()))
}

func TestRestore_ServerDownKeepsToken(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Save(Credentials{Token: f.srv.Token(f.userID, time.Hour)}))
	f.srv.FailNext("GET", "/api/me", 502, "bad gateway")

	_, err := f.mgr.Restore(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrTokenExpired))
	assert.True(t, fileExists(f.store.Path()))
}

func TestUnauthorizedTearsDown(t *testing.T) {
	f := newFixture(t)
	_, err := f.mgr.Login(context.Background(), "tony@stark.io", "ironman")
	require.NoError(t, err)

	f.srv.Revoke(f.client.Token())
	_, err = f.client.Dashboard(context.Background())
	require.True(t, api.IsUnauthorized(err))

	assert.False(t, f.mgr.Authenticated())
	assert.False(t, fileExists(f.store.Path()))
	assert.Equal(t, []Reason{ReasonUnauthorized}, f.logoutReasons())
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	_, err := f.mgr.Login(context.Background(), "tony@stark.io", "ironman")
	require.NoError(t, err)

	require.NoError(t, f.mgr.Logout())
	require.NoError(t, f.mgr.Logout())

	assert.Nil(t, f.mgr.Current())
	assert.Empty(t, f.client.Token())
	assert.Equal(t, []Reason{ReasonLogout}, f.logoutReasons())
}

func TestWatch_ExternalLogout(t *testing.T) {
	f := newFixture(t)
	_, err := f.mgr.Login(context.Background(), "tony@stark.io", "ironman")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, f.mgr.Watch(ctx))

	require.NoError(t, os.Remove(f.store.Path()))

	require.Eventually(t, func() bool { return !f.mgr.Authenticated() }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []Reason{ReasonExternal}, f.logoutReasons())
}

func TestWatch_TokenReplaced(t *testing.T) {
	f := newFixture(t)
	_, err := f.mgr.Login(context.Background(), "tony@stark.io", "ironman")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, f.mgr.Watch(ctx))

	fresh := f.srv.Token(f.userID, 2*time.Hour)
	require.NoError(t, f.store.Save(Credentials{Token: fresh, User: api.User{ID: f.userID, Name: "Tony"}}))

	require.Eventually(t, func() bool { return f.client.Token() == fresh }, 2*time.Second, 10*time.Millisecond)
	assert.True(t, f.mgr.Authenticated())
	assert.Empty(t, f.logoutReasons())
}

func TestReasonString(t *testing.T) {
	tests := []struct {
		r    Reason
		want string
	}{
		{ReasonLogout, "logged out"},
		{ReasonUnauthorized, "session expired"},
		{ReasonExternal, "logged out elsewhere"},
	}
	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Errorf("Reason(%d).String() = %q, want %q", tt.r, got, tt.want)
		}
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
