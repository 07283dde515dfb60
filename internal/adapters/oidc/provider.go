// Package oidc logs users in against an OpenID Connect identity provider and
// extracts the role claim for the job board.
package oidc

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	jmespath "github.com/jmespath-community/go-jmespath"
	"golang.org/x/oauth2"

	domainauth "github.com/target/jobboard/internal/domain/auth"
	"github.com/target/jobboard/internal/ports"
)

// DefaultRoleClaim is the JMESPath expression used when none is configured.
const DefaultRoleClaim = "role"

const (
	discoverySuffix    = "/.well-known/openid-configuration"
	defaultHTTPTimeout = 30 * time.Second
	// fallbackTokenLife applies when the token response omits expires_in.
	fallbackTokenLife = time.Hour
	// tokenBytes of entropy encode to 32 URL-safe characters.
	tokenBytes = 24
)

var _ ports.AuthProvider = (*Provider)(nil)

// Config describes the relying party registration.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Scope is space separated. Without "openid" no ID token is requested and
	// every claim comes from the userinfo endpoint.
	Scope        string
	DiscoveryURL string
	LogoutURL    string
	// RoleClaim is a JMESPath expression selecting the role value from the
	// claims, e.g. "role", "realm_access.roles" or "app_metadata.role".
	RoleClaim  string
	HTTPClient *http.Client
}

func (c Config) validate() error {
	switch {
	case c.ClientID == "":
		return errors.New("client ID is required")
	case c.ClientSecret == "":
		return errors.New("client secret is required")
	case c.RedirectURL == "":
		return errors.New("redirect URL is required")
	case c.DiscoveryURL == "":
		return errors.New("discovery URL is required")
	}
	return nil
}

// Provider implements ports.AuthProvider with the authorization code flow.
type Provider struct {
	oauth     *oauth2.Config
	idp       *gooidc.Provider
	verifier  *gooidc.IDTokenVerifier
	client    *http.Client
	roleClaim string
	logoutURL string
}

// ValidateRoleClaim reports whether expr is a usable JMESPath expression.
func ValidateRoleClaim(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return errors.New("role claim expression is empty")
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return fmt.Errorf("compile role claim %q: %w", expr, err)
	}
	return nil
}

// NewProvider fetches the discovery document once and builds the OAuth2
// client and ID token verifier from it.
func NewProvider(cfg Config) (*Provider, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.RoleClaim == "" {
		cfg.RoleClaim = DefaultRoleClaim
	}
	if err := ValidateRoleClaim(cfg.RoleClaim); err != nil {
		return nil, err
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: defaultHTTPTimeout}
	}

	issuer := strings.TrimSuffix(strings.TrimSuffix(cfg.DiscoveryURL, "/"), discoverySuffix)
	idp, err := gooidc.NewProvider(gooidc.ClientContext(context.Background(), cfg.HTTPClient), issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	return &Provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       strings.Fields(cfg.Scope),
			Endpoint:     idp.Endpoint(),
		},
		idp:       idp,
		verifier:  idp.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
		client:    cfg.HTTPClient,
		roleClaim: cfg.RoleClaim,
		logoutURL: cfg.LogoutURL,
	}, nil
}

// LogoutURL returns the IdP end-session URL, if configured.
func (p *Provider) LogoutURL() string { return p.logoutURL }

// Begin returns the authorization URL with fresh state and nonce values.
// The redirect_uri sent is always the registered one, so in.RedirectURL only
// has to be present.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}
	state, err := randomToken()
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomToken()
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	authURL := p.oauth.AuthCodeURL(state,
		gooidc.Nonce(nonce),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
	return authURL, state, nonce, nil
}

// Exchange trades the code for tokens and builds the identity from the ID
// token claims, topped up from userinfo when the subject, email or role is
// missing.
func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	switch {
	case in.Code == "":
		return domainauth.Identity{}, errors.New("authorization code is required")
	case in.State == "":
		return domainauth.Identity{}, errors.New("state is required")
	case in.Nonce == "":
		return domainauth.Identity{}, errors.New("nonce is required")
	}

	ctx = gooidc.ClientContext(ctx, p.client)
	tok, err := p.oauth.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	var id profile
	if slices.Contains(p.oauth.Scopes, gooidc.ScopeOpenID) {
		idClaims, err := p.verifyIDToken(ctx, tok, in.Nonce)
		if err != nil {
			return domainauth.Identity{}, err
		}
		id = p.profileFrom(idClaims)
	}
	if id.incomplete() {
		uiClaims, err := p.userInfo(ctx, tok)
		if err != nil {
			return domainauth.Identity{}, err
		}
		id = id.merge(p.profileFrom(uiClaims))
	}

	expiresAt := tok.Expiry
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(fallbackTokenLife)
	}
	return domainauth.Identity{
		UserID:    id.subject,
		FirstName: id.givenName,
		LastName:  id.familyName,
		Email:     id.email,
		RawRole:   id.role,
		ExpiresAt: expiresAt,
	}, nil
}

func (p *Provider) verifyIDToken(ctx context.Context, tok *oauth2.Token, nonce string) (claims, error) {
	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return nil, errors.New("token response has no id_token")
	}
	idTok, err := p.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("verify id_token: %w", err)
	}
	if idTok.Nonce != nonce {
		return nil, errors.New("id_token nonce mismatch")
	}
	var c claims
	if err := idTok.Claims(&c); err != nil {
		return nil, fmt.Errorf("decode id_token claims: %w", err)
	}
	return c, nil
}

func (p *Provider) userInfo(ctx context.Context, tok *oauth2.Token) (claims, error) {
	ui, err := p.idp.UserInfo(ctx, oauth2.StaticTokenSource(tok))
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	var c claims
	if err := ui.Claims(&c); err != nil {
		return nil, fmt.Errorf("decode userinfo claims: %w", err)
	}
	return c, nil
}

// claims is a decoded ID token or userinfo payload.
type claims map[string]any

func (c claims) first(keys ...string) string {
	for _, k := range keys {
		if s, ok := c[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// profile is the subset of claims the job board keeps.
type profile struct {
	subject    string
	email      string
	givenName  string
	familyName string
	role       domainauth.RawRole
}

func (p *Provider) profileFrom(c claims) profile {
	return profile{
		subject:    c.first("sub", "preferred_username"),
		email:      c.first("email"),
		givenName:  c.first("given_name"),
		familyName: c.first("family_name"),
		role:       selectRole(p.roleClaim, c),
	}
}

func (f profile) incomplete() bool {
	return f.subject == "" || f.email == "" || f.role.Kind() == domainauth.RawAbsent
}

// merge keeps f's values and takes the rest from other.
func (f profile) merge(other profile) profile {
	pick := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}
	out := profile{
		subject:    pick(f.subject, other.subject),
		email:      pick(f.email, other.email),
		givenName:  pick(f.givenName, other.givenName),
		familyName: pick(f.familyName, other.familyName),
		role:       f.role,
	}
	if out.role.Kind() == domainauth.RawAbsent {
		out.role = other.role
	}
	return out
}

// selectRole evaluates expr against c. Evaluation errors and missing values
// yield an absent role, which resolves to RoleUnrecognized.
func selectRole(expr string, c claims) domainauth.RawRole {
	v, err := jmespath.Search(expr, map[string]any(c))
	if err != nil || v == nil {
		return domainauth.RawRole{}
	}
	return domainauth.RawRoleFromValue(v)
}

func randomToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
