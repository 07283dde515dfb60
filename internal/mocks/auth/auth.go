// Package auth provides hand-written doubles for the auth ports.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/target/jobboard/internal/domain/auth"
	"github.com/target/jobboard/internal/ports"
)

var (
	_ ports.AuthProvider = (*Provider)(nil)
	_ ports.SessionStore = (*SessionStore)(nil)
	_ ports.RoleMapper   = FixedRoleMapper{}
	_ ports.RoleMapper   = FuncRoleMapper(nil)
)

// ErrSessionNotFound is returned by SessionStore.Get for unknown IDs.
var ErrSessionNotFound = errors.New("session not found")

// Provider is a scripted identity provider. Begin hands out numbered state and
// nonce values; Exchange returns Identity with a fresh one-hour expiry unless
// the identity already carries one.
type Provider struct {
	AuthURL     string
	Identity    domainauth.Identity
	BeginErr    error
	ExchangeErr error

	mu        sync.Mutex
	begins    int
	exchanges []ports.ExchangeInput
}

// NewProvider returns a Provider that logs in a job seeker.
func NewProvider() *Provider {
	return &Provider{
		AuthURL: "https://idp.example.com/authorize",
		Identity: domainauth.Identity{
			UserID:    "seeker-1",
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			RawRole:   domainauth.RawRoleString("job_seeker"),
		},
	}
}

func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if p.BeginErr != nil {
		return "", "", "", p.BeginErr
	}
	p.mu.Lock()
	p.begins++
	n := p.begins
	p.mu.Unlock()
	return p.AuthURL + "?redirect_uri=" + in.RedirectURL, fmt.Sprintf("state-%d", n), fmt.Sprintf("nonce-%d", n), nil
}

func (p *Provider) Exchange(_ context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	p.mu.Lock()
	p.exchanges = append(p.exchanges, in)
	p.mu.Unlock()
	if p.ExchangeErr != nil {
		return domainauth.Identity{}, p.ExchangeErr
	}
	id := p.Identity
	if id.ExpiresAt.IsZero() {
		id.ExpiresAt = time.Now().Add(time.Hour)
	}
	return id, nil
}

// Exchanges returns the inputs Exchange has been called with.
func (p *Provider) Exchanges() []ports.ExchangeInput {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ports.ExchangeInput(nil), p.exchanges...)
}

// SessionStore keeps sessions in memory. The Err fields, when set, fail the
// matching operation without touching the store.
type SessionStore struct {
	SaveErr   error
	GetErr    error
	DeleteErr error

	mu       sync.RWMutex
	sessions map[string]domainauth.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domainauth.Session)}
}

func (s *SessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	if sess.ID == "" {
		return errors.New("session ID is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if s.GetErr != nil {
		return domainauth.Session{}, s.GetErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len reports how many sessions are stored.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// FixedRoleMapper maps every claim to Role.
type FixedRoleMapper struct {
	Role domainauth.Role
}

func (m FixedRoleMapper) Map(domainauth.RawRole) domainauth.Role { return m.Role }

// FuncRoleMapper adapts a function to ports.RoleMapper.
type FuncRoleMapper func(domainauth.RawRole) domainauth.Role

func (f FuncRoleMapper) Map(raw domainauth.RawRole) domainauth.Role { return f(raw) }
