package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/jobboard/internal/domain/auth"
	"github.com/target/jobboard/internal/ports"
)

func TestProvider(t *testing.T) {
	ctx := context.Background()
	p := NewProvider()

	url, state, nonce, err := p.Begin(ctx, ports.BeginInput{RedirectURL: "http://localhost/auth/callback"})
	require.NoError(t, err)
	assert.Equal(t, "https://idp.example.com/authorize?redirect_uri=http://localhost/auth/callback", url)
	assert.Equal(t, "state-1", state)
	assert.Equal(t, "nonce-1", nonce)

	_, state, _, err = p.Begin(ctx, ports.BeginInput{})
	require.NoError(t, err)
	assert.Equal(t, "state-2", state)

	id, err := p.Exchange(ctx, ports.ExchangeInput{Code: "c", State: "state-2", Nonce: "nonce-2"})
	require.NoError(t, err)
	assert.Equal(t, "seeker-1", id.UserID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), id.ExpiresAt, time.Minute)
	assert.Equal(t, []ports.ExchangeInput{{Code: "c", State: "state-2", Nonce: "nonce-2"}}, p.Exchanges())

	boom := errors.New("idp down")
	p.BeginErr, p.ExchangeErr = boom, boom
	_, _, _, err = p.Begin(ctx, ports.BeginInput{})
	require.ErrorIs(t, err, boom)
	_, err = p.Exchange(ctx, ports.ExchangeInput{})
	require.ErrorIs(t, err, boom)
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore()

	require.Error(t, s.Save(ctx, domainauth.Session{}))
	require.NoError(t, s.Save(ctx, domainauth.Session{ID: "s1", UserID: "u1"}))
	assert.Equal(t, 1, s.Len())

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	_, err = s.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, s.Delete(ctx, "s1"))
	require.NoError(t, s.Delete(ctx, "s1"))
	assert.Zero(t, s.Len())

	boom := errors.New("redis down")
	s.SaveErr, s.GetErr, s.DeleteErr = boom, boom, boom
	require.ErrorIs(t, s.Save(ctx, domainauth.Session{ID: "s2"}), boom)
	_, err = s.Get(ctx, "s2")
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, s.Delete(ctx, "s2"), boom)
}

func TestRoleMappers(t *testing.T) {
	raw := domainauth.RawRoleString("anything")
	assert.Equal(t, domainauth.RoleAdmin, FixedRoleMapper{Role: domainauth.RoleAdmin}.Map(raw))

	echo := FuncRoleMapper(func(r domainauth.RawRole) domainauth.Role {
		if r.GoString() == raw.GoString() {
			return domainauth.RoleEmployer
		}
		return domainauth.RoleUnrecognized
	})
	assert.Equal(t, domainauth.RoleEmployer, echo.Map(raw))
	assert.Equal(t, domainauth.RoleUnrecognized, echo.Map(domainauth.RawRole{}))
}
