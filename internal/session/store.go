// Package session owns the operator's credential and principal. A Store is
// created once per process and handed to the api client as its credential
// source; nothing in the package is global.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matheus3301/shlokadmin/internal/api"
	"github.com/matheus3301/shlokadmin/internal/bus"
	"github.com/matheus3301/shlokadmin/internal/model"
	"github.com/matheus3301/shlokadmin/internal/state"
	"github.com/matheus3301/shlokadmin/internal/store"
	"go.uber.org/zap"
)

// Status is the session lifecycle state.
type Status string

const (
	Unauthenticated Status = "UNAUTHENTICATED"
	Restoring       Status = "RESTORING"
	Authenticated   Status = "AUTHENTICATED"
)

var transitions = state.Table[Status]{
	Unauthenticated: {Restoring, Authenticated},
	Restoring:       {Authenticated, Unauthenticated},
	Authenticated:   {Authenticated, Unauthenticated},
}

const loginFallback = "Login failed"

// ErrAlreadyRestored is returned by a second call to Restore.
var ErrAlreadyRestored = errors.New("session already restored")

// CredentialRepository persists the credential under a fixed key.
type CredentialRepository interface {
	LoadCredential(ctx context.Context, key string) (string, error)
	SaveCredential(ctx context.Context, key, value string) error
	DeleteCredential(ctx context.Context, key string) error
}

// Authenticator is the subset of the api client the store drives.
type Authenticator interface {
	Login(ctx context.Context, identifier, secret string) (*api.LoginResult, error)
	Me(ctx context.Context) (*model.Principal, error)
	UseCredentials(src api.CredentialSource)
	OnUnauthorized(fn func())
}

// Result is the outcome of Login. Error holds a user-facing message.
type Result struct {
	OK    bool
	Error string
}

// Store holds the current credential and principal.
type Store struct {
	repo    CredentialRepository
	key     string
	auth    Authenticator
	machine *state.Machine[Status]
	bus     *bus.Bus
	logger  *zap.Logger
	now     func() time.Time

	mu        sync.RWMutex
	token     string
	principal *model.Principal

	restored atomic.Bool
}

// New creates a store persisting under storageKey and attaches it to auth as
// the credential source. Any 401 seen by auth logs the session out.
func New(repo CredentialRepository, auth Authenticator, storageKey string, b *bus.Bus, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		repo:    repo,
		key:     storageKey,
		auth:    auth,
		machine: state.NewMachine(Unauthenticated, transitions, b, "session"),
		bus:     b,
		logger:  logger.Named("session"),
		now:     time.Now,
	}
	auth.UseCredentials(s)
	auth.OnUnauthorized(s.handleUnauthorized)
	return s
}

// Credential implements api.CredentialSource.
func (s *Store) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Principal returns a copy of the authenticated operator, or nil.
func (s *Store) Principal() *model.Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal == nil {
		return nil
	}
	p := *s.principal
	return &p
}

// IsAuthenticated reports whether a principal is set and a credential attached.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.principal != nil && s.token != ""
}

// Status returns the lifecycle state.
func (s *Store) Status() Status {
	return s.machine.Current()
}

// Restore verifies a persisted credential, once per Store. Any failure
// discards the credential and leaves the session unauthenticated; only a
// repeated call returns an error.
func (s *Store) Restore(ctx context.Context) (bool, error) {
	if !s.restored.CompareAndSwap(false, true) {
		return s.IsAuthenticated(), ErrAlreadyRestored
	}

	token, err := s.repo.LoadCredential(ctx, s.key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("read persisted credential", zap.Error(err))
		}
		return false, nil
	}
	if token == "" {
		s.Logout()
		return false, nil
	}
	if exp, ok := TokenExpiry(token); ok && !exp.After(s.now()) {
		s.logger.Info("persisted credential expired", zap.Time("expired_at", exp))
		s.Logout()
		return false, nil
	}

	if err := s.machine.Transition(Restoring); err != nil {
		s.logger.Warn("restore from unexpected state", zap.Error(err))
		return false, nil
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	p, err := s.auth.Me(ctx)
	verified := err == nil && !blank(p)
	s.mu.Lock()
	current := s.token == token
	if current && verified {
		s.principal = p
	}
	s.mu.Unlock()
	if !current {
		s.logger.Info("session changed during verification, discarding result")
		return false, nil
	}
	if !verified {
		s.logger.Info("credential verification failed, logging out", zap.Error(err))
		s.Logout()
		return false, nil
	}
	s.transition(Authenticated)
	s.bus.Emit("session.restored", *p)
	s.logger.Info("session restored", zap.String("principal", p.ID))
	return true, nil
}

// Login performs one authentication call. It never returns an error: failures
// are reported in Result with the server message or a generic fallback.
func (s *Store) Login(ctx context.Context, identifier, secret string) Result {
	res, err := s.auth.Login(ctx, identifier, secret)
	if err != nil {
		s.logger.Info("login rejected", zap.String("identifier", identifier), zap.Error(err))
		return Result{Error: api.Message(err, loginFallback)}
	}
	if res == nil || res.Token == "" || blank(&res.Principal) {
		s.logger.Info("login response incomplete", zap.String("identifier", identifier))
		return Result{Error: loginFallback}
	}

	if err := s.repo.SaveCredential(ctx, s.key, res.Token); err != nil {
		s.logger.Error("persist credential", zap.Error(err))
		return Result{Error: loginFallback + ": could not store session"}
	}

	p := res.Principal
	s.mu.Lock()
	s.token = res.Token
	s.principal = &p
	s.mu.Unlock()
	s.transition(Authenticated)
	s.bus.Emit("session.login", p)
	s.logger.Info("logged in", zap.String("principal", p.ID))
	return Result{OK: true}
}

// Logout clears the persisted credential, detaches it and clears the
// principal. It makes no network call and is idempotent.
func (s *Store) Logout() {
	s.mu.Lock()
	had := s.token != "" || s.principal != nil
	s.token = ""
	s.principal = nil
	s.mu.Unlock()

	if err := s.repo.DeleteCredential(context.Background(), s.key); err != nil {
		s.logger.Warn("delete persisted credential", zap.Error(err))
	}
	if s.machine.Current() != Unauthenticated {
		s.transition(Unauthenticated)
	}
	if had {
		s.bus.Emit("session.logout", nil)
		s.logger.Info("logged out")
	}
}

// blank reports whether the backend returned no usable operator.
func blank(p *model.Principal) bool {
	return p == nil || (p.ID == "" && p.Name == "" && p.Email == "")
}

func (s *Store) handleUnauthorized() {
	s.logger.Info("credential rejected by server")
	s.Logout()
}

func (s *Store) transition(to Status) {
	if err := s.machine.Transition(to); err != nil {
		s.logger.Warn("session transition", zap.Error(err))
	}
}
