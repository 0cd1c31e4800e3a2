package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/matheus3301/shlokadmin/internal/api"
	"github.com/matheus3301/shlokadmin/internal/bus"
	"github.com/matheus3301/shlokadmin/internal/model"
	"github.com/matheus3301/shlokadmin/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const key = "adminToken"

type fakeAuth struct {
	mu             sync.Mutex
	loginRes       *api.LoginResult
	loginErr       error
	me             *model.Principal
	meErr          error
	meCalls        int
	meSawToken     string
	duringMe       func()
	creds          api.CredentialSource
	onUnauthorized func()
}

func (f *fakeAuth) Login(_ context.Context, _, _ string) (*api.LoginResult, error) {
	return f.loginRes, f.loginErr
}

func (f *fakeAuth) Me(context.Context) (*model.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meCalls++
	if f.creds != nil {
		f.meSawToken = f.creds.Credential()
	}
	if f.duringMe != nil {
		f.duringMe()
	}
	return f.me, f.meErr
}

func (f *fakeAuth) UseCredentials(src api.CredentialSource) { f.creds = src }
func (f *fakeAuth) OnUnauthorized(fn func())                 { f.onUnauthorized = fn }

func testDB(t *testing.T) *store.DB {
	t.Helper()
	db, _, err := store.OpenMigrated(filepath.Join(t.TempDir(), "console.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "a1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

var admin = model.Principal{ID: "a1", Name: "Admin", Email: "admin@example.com", Role: "admin"}

func TestLoginSuccessPersistsAndAuthenticates(t *testing.T) {
	db := testDB(t)
	auth := &fakeAuth{loginRes: &api.LoginResult{Principal: admin, Token: "T1"}}
	b := bus.New()
	events, unsub := b.Subscribe("session.login", 1)
	defer unsub()
	s := New(db, auth, key, b, nil)

	res := s.Login(context.Background(), "admin@example.com", "secret")
	require.True(t, res.OK)
	assert.Empty(t, res.Error)

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, Authenticated, s.Status())
	assert.Equal(t, "T1", s.Credential())
	assert.Equal(t, "T1", auth.creds.Credential())
	assert.Equal(t, "Admin", s.Principal().Name)

	stored, err := db.LoadCredential(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, "T1", stored)

	select {
	case evt := <-events:
		assert.Equal(t, admin, evt.Payload)
	case <-time.After(time.Second):
		t.Fatal("no session.login event")
	}
}

func TestLoginRejectedReportsServerMessage(t *testing.T) {
	db := testDB(t)
	auth := &fakeAuth{loginErr: &api.RejectedError{Op: "POST /auth/login", Status: 400, Message: "Invalid credentials"}}
	s := New(db, auth, key, nil, nil)

	res := s.Login(context.Background(), "admin@example.com", "wrong")
	assert.False(t, res.OK)
	assert.Equal(t, "Invalid credentials", res.Error)
	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, Unauthenticated, s.Status())

	_, err := db.LoadCredential(context.Background(), key)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLoginFallbackMessage(t *testing.T) {
	tests := []struct {
		name string
		auth *fakeAuth
	}{
		{"network failure", &fakeAuth{loginErr: &api.NetworkError{Op: "POST /auth/login", Err: errors.New("connection refused")}}},
		{"rejection without message", &fakeAuth{loginErr: &api.RejectedError{Status: 500}}},
		{"success without token", &fakeAuth{loginRes: &api.LoginResult{Principal: admin}}},
		{"success without operator", &fakeAuth{loginRes: &api.LoginResult{Token: "T1"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testDB(t)
			s := New(db, tt.auth, key, nil, nil)
			res := s.Login(context.Background(), "a", "b")
			assert.False(t, res.OK)
			assert.Equal(t, "Login failed", res.Error)
			assert.False(t, s.IsAuthenticated())
			assert.Nil(t, s.Principal())
			assert.Empty(t, s.Credential())
			_, err := db.LoadCredential(context.Background(), key)
			assert.ErrorIs(t, err, store.ErrNotFound)
		})
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	db := testDB(t)
	auth := &fakeAuth{loginRes: &api.LoginResult{Principal: admin, Token: "T1"}}
	b := bus.New()
	events, unsub := b.Subscribe("session.logout", 4)
	defer unsub()
	s := New(db, auth, key, b, nil)
	require.True(t, s.Login(context.Background(), "a", "b").OK)

	s.Logout()
	s.Logout()

	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.Principal())
	assert.Empty(t, s.Credential())
	assert.Equal(t, Unauthenticated, s.Status())
	_, err := db.LoadCredential(context.Background(), key)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.Len(t, events, 1, "second logout must not emit")
}

func TestRestoreWithoutCredential(t *testing.T) {
	auth := &fakeAuth{me: &admin}
	s := New(testDB(t), auth, key, nil, nil)

	ok, err := s.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, auth.meCalls)
	assert.Equal(t, Unauthenticated, s.Status())
}

func TestRestoreVerifiesPersistedCredential(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.SaveCredential(context.Background(), key, "T1"))
	auth := &fakeAuth{me: &admin}
	s := New(db, auth, key, nil, nil)

	ok, err := s.Restore(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "T1", auth.meSawToken, "verification call must carry the persisted credential")
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, Authenticated, s.Status())
	assert.Equal(t, "admin@example.com", s.Principal().Email)
}

func TestRestoreFailureDiscardsCredential(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.SaveCredential(context.Background(), key, "T1"))
	auth := &fakeAuth{meErr: &api.RejectedError{Status: 401, Message: "Invalid token"}}
	s := New(db, auth, key, nil, nil)

	ok, err := s.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Credential())
	assert.Equal(t, Unauthenticated, s.Status())

	_, err = db.LoadCredential(context.Background(), key)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRestoreYieldsToSessionChange(t *testing.T) {
	other := model.Principal{ID: "a2", Name: "Other", Email: "other@example.com"}
	tests := []struct {
		name     string
		change   func(s *Store)
		wantAuth bool
		wantCred string
	}{
		{"logout", func(s *Store) { s.Logout() }, false, ""},
		{"fresh login", func(s *Store) {
			require.True(t, s.Login(context.Background(), "other@example.com", "pw").OK)
		}, true, "T2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testDB(t)
			require.NoError(t, db.SaveCredential(context.Background(), key, "T1"))
			auth := &fakeAuth{me: &admin, loginRes: &api.LoginResult{Principal: other, Token: "T2"}}
			s := New(db, auth, key, nil, nil)
			auth.duringMe = func() { tt.change(s) }

			ok, err := s.Restore(context.Background())
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Equal(t, tt.wantAuth, s.IsAuthenticated())
			assert.Equal(t, tt.wantCred, s.Credential())
			if tt.wantAuth {
				assert.Equal(t, "other@example.com", s.Principal().Email)
				assert.Equal(t, Authenticated, s.Status())
				stored, err := db.LoadCredential(context.Background(), key)
				require.NoError(t, err)
				assert.Equal(t, "T2", stored)
			} else {
				assert.Nil(t, s.Principal())
				assert.Equal(t, Unauthenticated, s.Status())
			}
		})
	}
}

func TestRestoreRunsOnce(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.SaveCredential(context.Background(), key, "T1"))
	auth := &fakeAuth{me: &admin}
	s := New(db, auth, key, nil, nil)

	ok, err := s.Restore(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Restore(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyRestored)
	assert.True(t, ok)
	assert.Equal(t, 1, auth.meCalls)
}

func TestRestoreExpiredTokenSkipsVerification(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.SaveCredential(context.Background(), key, signed(t, time.Now().Add(-time.Hour))))
	auth := &fakeAuth{me: &admin}
	s := New(db, auth, key, nil, nil)

	ok, err := s.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, auth.meCalls)
	_, err = db.LoadCredential(context.Background(), key)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	got, ok := TokenExpiry(signed(t, exp))
	require.True(t, ok)
	assert.True(t, got.Equal(exp))

	_, ok = TokenExpiry("opaque-token")
	assert.False(t, ok)
}

func TestUnauthorizedResponseLogsOut(t *testing.T) {
	db := testDB(t)
	auth := &fakeAuth{loginRes: &api.LoginResult{Principal: admin, Token: "T1"}}
	s := New(db, auth, key, nil, nil)
	require.True(t, s.Login(context.Background(), "a", "b").OK)
	require.NotNil(t, auth.onUnauthorized)

	auth.onUnauthorized()

	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, Unauthenticated, s.Status())
	_, err := db.LoadCredential(context.Background(), key)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
