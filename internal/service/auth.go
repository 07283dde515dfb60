package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/target/jobboard/internal/domain/auth"
	"github.com/target/jobboard/internal/ports"
)

// ErrSessionExpired is returned by GetSession once a session is past its expiry.
var ErrSessionExpired = errors.New("session expired")

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Sessions ports.SessionStore
	Roles    ports.RoleMapper
	// SessionTTL caps session lifetime below the IdP token expiry. Zero keeps the token expiry.
	SessionTTL time.Duration
	Logger     *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// AuthService turns an IdP login into a persisted session carrying a normalized role.
type AuthService struct {
	provider   ports.AuthProvider
	sessions   ports.SessionStore
	roles      ports.RoleMapper
	sessionTTL time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		provider:   opts.Provider,
		sessions:   opts.Sessions,
		roles:      opts.Roles,
		sessionTTL: opts.SessionTTL,
		logger:     logger.With("component", "auth_service"),
		now:        now,
	}
}

type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin asks the provider for an authorization URL plus the state and
// nonce the callback must echo back.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}
	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

type CompleteLoginResult struct {
	Session domainauth.Session
}

// CompleteLogin exchanges the authorization code, resolves the role claim once
// and saves the session. An unrecognized role still logs in; every
// role-restricted route will deny it.
func (s *AuthService) CompleteLogin(ctx context.Context, in CompleteLoginInput) (*CompleteLoginResult, error) {
	switch {
	case in.Code == "":
		return nil, errors.New("authorization code is required")
	case in.State == "":
		return nil, errors.New("state parameter is required")
	case in.Nonce == "":
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput(in))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	role := s.roles.Map(identity.RawRole)
	if !role.Recognized() {
		s.logger.WarnContext(ctx, "login resolved to unrecognized role",
			"user_id", identity.UserID,
			"raw_role", identity.RawRole.GoString(),
		)
	}

	sess := domainauth.Session{
		ID:        uuid.NewString(),
		UserID:    identity.UserID,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Email:     identity.Email,
		Role:      role,
		ExpiresAt: s.sessionExpiry(identity.ExpiresAt),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &CompleteLoginResult{Session: sess}, nil
}

// sessionExpiry is the earlier of the token expiry and now+TTL.
func (s *AuthService) sessionExpiry(tokenExpiry time.Time) time.Time {
	if s.sessionTTL <= 0 {
		return tokenExpiry
	}
	capped := s.now().Add(s.sessionTTL)
	if tokenExpiry.IsZero() || tokenExpiry.After(capped) {
		return capped
	}
	return tokenExpiry
}

// GetSession loads a session and deletes it if it has expired.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if s.now().After(sess.ExpiresAt) {
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			return nil, errors.Join(ErrSessionExpired, fmt.Errorf("delete session: %w", err))
		}
		return nil, ErrSessionExpired
	}
	return &sess, nil
}

// Logout deletes the session. An empty ID is a no-op.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
