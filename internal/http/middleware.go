package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	domainauth "github.com/target/jobboard/internal/domain/auth"
	"github.com/target/jobboard/internal/service"
)

// sessionCookieName is the cookie carrying the opaque session ID.
const sessionCookieName = "session_id"

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// Logging logs one line per request with its status and latency. Server
// errors log at error level.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			level := slog.LevelInfo
			if sw.status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(r.Context(), level, "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter remembers the first status written.
type statusWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.written {
		w.status, w.written = status, true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.written = true
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Recover turns a handler panic into a logged 500. http.ErrAbortHandler is
// re-raised so the server can abort the connection.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler { //nolint:errorlint // sentinel panic value, not a wrapped error
					panic(v)
				}
				logger.ErrorContext(r.Context(), "panic",
					slog.Any("error", v),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())),
				)
				WriteError(w, ErrorParams{
					Code:    http.StatusInternalServerError,
					ErrCode: "internal_error",
					Err:     errors.New("internal server error"),
				})
			}()
			next.ServeHTTP(w, r)
		})
	}
}

var (
	errUnauthenticated = ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: "authentication_required",
		Err:     errors.New("authentication required"),
	}
	errForbidden = ErrorParams{
		Code:    http.StatusForbidden,
		ErrCode: "insufficient_permissions",
		Err:     errors.New("insufficient permissions"),
	}
)

// gate admits a request when it carries a live session that admit accepts.
// No session is answered with 401, a rejected session with 403.
func gate(authSvc AuthServiceInterface, admit func(*domainauth.Session) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := sessionFromRequest(r, authSvc)
			switch {
			case session == nil:
				WriteError(w, errUnauthenticated)
			case !admit(session):
				WriteError(w, errForbidden)
			default:
				next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), session)))
			}
		})
	}
}

// RequireAuth admits any signed-in session, including one whose role is unrecognized.
func RequireAuth(authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return gate(authSvc, func(*domainauth.Session) bool { return true })
}

// RequireRoles admits sessions whose role is in roles. Sessions whose role is
// unrecognized or not listed get 403; an empty roles list admits nobody.
func RequireRoles(authSvc AuthServiceInterface, roles ...domainauth.Role) func(http.Handler) http.Handler {
	allowed := append([]domainauth.Role(nil), roles...)
	return gate(authSvc, func(s *domainauth.Session) bool { return domainauth.Allowed(s.Role, allowed) })
}

// OptionalAuth attaches the session when there is one and never rejects.
func OptionalAuth(authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session := sessionFromRequest(r, authSvc); session != nil {
				r = r.WithContext(SetSessionInContext(r.Context(), session))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// sessionFromRequest loads the session named by the session cookie. Lookup
// failures, including expiry, read as no session. A nil auth service never
// yields one.
func sessionFromRequest(r *http.Request, authSvc AuthServiceInterface) *domainauth.Session {
	if authSvc == nil {
		return nil
	}
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	session, err := authSvc.GetSession(r.Context(), c.Value)
	if err != nil {
		return nil
	}
	return session
}
