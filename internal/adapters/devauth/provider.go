// Package devauth signs every login in as one configured identity. It exists
// for local development and demos where no identity provider is running.
package devauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/target/jobboard/internal/adapters/authroles"
	domainauth "github.com/target/jobboard/internal/domain/auth"
	"github.com/target/jobboard/internal/ports"
)

// CallbackPath is where Begin sends the browser, skipping any login screen.
const CallbackPath = "/auth/callback"

const (
	defaultLifetime = 8 * time.Hour
	devCode         = "dev"
)

var _ ports.AuthProvider = (*Provider)(nil)

// Config is the identity every login receives. Role is the raw claim, either
// JSON (`{"name":"Admin"}`, `["employer"]`) or a bare string. An empty Role
// means no claim at all, which resolves to an unrecognized role.
type Config struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
	Role      string
	// SessionDuration defaults to 8h.
	SessionDuration time.Duration
}

type Provider struct {
	identity domainauth.Identity
	lifetime time.Duration
	now      func() time.Time
}

func NewProvider(cfg Config) (*Provider, error) {
	switch {
	case cfg.UserID == "":
		return nil, errors.New("dev auth: UserID is required")
	case cfg.Email == "":
		return nil, errors.New("dev auth: Email is required")
	}
	lifetime := cfg.SessionDuration
	if lifetime <= 0 {
		lifetime = defaultLifetime
	}
	return &Provider{
		identity: domainauth.Identity{
			UserID:    cfg.UserID,
			Email:     cfg.Email,
			FirstName: cfg.FirstName,
			LastName:  cfg.LastName,
			RawRole:   authroles.ParseString(cfg.Role),
		},
		lifetime: lifetime,
		now:      time.Now,
	}, nil
}

// Begin points straight at the local callback with a fixed code and a fresh
// state, so the handler's state and nonce checks still run.
func (p *Provider) Begin(context.Context, ports.BeginInput) (string, string, string, error) {
	state, err := randomToken()
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomToken()
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	q := url.Values{"code": {devCode}, "state": {state}}
	return CallbackPath + "?" + q.Encode(), state, nonce, nil
}

// Exchange returns the configured identity with an expiry counted from now.
func (p *Provider) Exchange(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
	id := p.identity
	id.ExpiresAt = p.now().Add(p.lifetime)
	return id, nil
}

func randomToken() (string, error) {
	b := make([]byte, 18)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
