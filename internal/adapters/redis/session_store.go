// Package redis provides Redis-backed adapters for the job board.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/target/jobboard/internal/domain/auth"
)

// DefaultSessionPrefix namespaces session keys when no prefix is configured.
const DefaultSessionPrefix = "jobboard:session:"

var (
	// ErrSessionNotFound covers missing, evicted and locally expired sessions.
	ErrSessionNotFound = errors.New("session not found")
	errEmptySessionID  = errors.New("session ID cannot be empty")
	errSessionExpired  = errors.New("session is expired")
)

// SessionStore persists sessions as JSON strings whose Redis TTL follows
// Session.ExpiresAt.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewSessionStore builds a store writing keys under prefix, or under
// DefaultSessionPrefix when prefix is empty.
func NewSessionStore(client redis.UniversalClient, prefix string) *SessionStore {
	if prefix == "" {
		prefix = DefaultSessionPrefix
	}
	return &SessionStore{client: client, prefix: prefix, now: time.Now}
}

func (s *SessionStore) key(id string) string { return s.prefix + id }

// storedSession is the JSON written to Redis. The role is kept as a plain
// string and parsed on load, so a value this build does not know reads back
// as RoleUnrecognized instead of granting anything.
type storedSession struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

func encodeSession(sess domainauth.Session) ([]byte, error) {
	return json.Marshal(storedSession{
		ID:        sess.ID,
		UserID:    sess.UserID,
		FirstName: sess.FirstName,
		LastName:  sess.LastName,
		Email:     sess.Email,
		Role:      string(sess.Role),
		ExpiresAt: sess.ExpiresAt,
	})
}

func decodeSession(b []byte) (domainauth.Session, error) {
	var st storedSession
	if err := json.Unmarshal(b, &st); err != nil {
		return domainauth.Session{}, err
	}
	return domainauth.Session{
		ID:        st.ID,
		UserID:    st.UserID,
		FirstName: st.FirstName,
		LastName:  st.LastName,
		Email:     st.Email,
		Role:      domainauth.ParseRole(st.Role),
		ExpiresAt: st.ExpiresAt,
	}, nil
}

func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errEmptySessionID
	}
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return errSessionExpired
	}
	payload, err := encodeSession(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sess.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrSessionNotFound
	}
	payload, err := s.client.Get(ctx, s.key(id)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return domainauth.Session{}, ErrSessionNotFound
	case err != nil:
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	sess, err := decodeSession(payload)
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("decode session: %w", err)
	}
	// Clock skew between hosts can outlive the Redis TTL.
	if s.now().After(sess.ExpiresAt) {
		if err := s.Delete(ctx, id); err != nil {
			return domainauth.Session{}, fmt.Errorf("drop expired session: %w", err)
		}
		return domainauth.Session{}, ErrSessionNotFound
	}
	return sess, nil
}

// Delete removes the session. Unknown and empty IDs are not errors.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
