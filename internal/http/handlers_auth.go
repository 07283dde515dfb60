package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/target/jobboard/internal/domain/auth"
	"github.com/target/jobboard/internal/service"
)

const (
	stateCookieName    = "oauth_state"
	nonceCookieName    = "oauth_nonce"
	redirectCookieName = "post_login_redirect"
	oauthCookieMaxAge  = 600 // 10 minutes
)

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	CookieDomain string
	// LogoutURL is the identity provider's end-session URL, returned to clients on logout. Optional.
	LogoutURL string
	Logger    *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login handles the login initiation endpoint.
// GET /auth/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	result, err := h.Svc.BeginLogin(r.Context(), redirectURI)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin login failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_failed",
			Err:     errors.New("could not start login"),
		})
		return
	}

	h.setCookie(w, r, stateCookieName, result.State, oauthCookieMaxAge)
	h.setCookie(w, r, nonceCookieName, result.Nonce, oauthCookieMaxAge)
	h.setCookie(w, r, redirectCookieName, redirectURI, oauthCookieMaxAge)

	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// callbackCheck is one precondition on the callback request, in the order
// they are evaluated.
type callbackCheck struct {
	errCode string
	msg     string
	ok      func(r *http.Request) bool
}

var callbackChecks = []callbackCheck{
	{"missing_code", "authorization code is required", func(r *http.Request) bool {
		return r.URL.Query().Get("code") != ""
	}},
	{"missing_state", "state parameter is required", func(r *http.Request) bool {
		return r.URL.Query().Get("state") != ""
	}},
	{"invalid_state", "invalid or missing state parameter", func(r *http.Request) bool {
		c, err := r.Cookie(stateCookieName)
		return err == nil && c.Value == r.URL.Query().Get("state")
	}},
	{"missing_nonce", "missing nonce parameter", func(r *http.Request) bool {
		_, err := r.Cookie(nonceCookieName)
		return err == nil
	}},
}

// Callback finishes the login: it checks the state cookie, exchanges the code
// and sets the session cookie.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	for _, c := range callbackChecks {
		if !c.ok(r) {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: c.errCode, Err: errors.New(c.msg)})
			return
		}
	}
	nonce, _ := r.Cookie(nonceCookieName)
	q := r.URL.Query()

	result, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		Code:  q.Get("code"),
		State: q.Get("state"),
		Nonce: nonce.Value,
	})
	if err != nil {
		h.logger().WarnContext(r.Context(), "login completion failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "login_completion_failed",
			Err:     errors.New("login could not be completed"),
		})
		return
	}

	sessionAge := max(int(time.Until(result.Session.ExpiresAt).Seconds()), 1)
	h.setCookie(w, r, sessionCookieName, result.Session.ID, sessionAge)
	h.clearCookie(w, r, stateCookieName)
	h.clearCookie(w, r, nonceCookieName)

	target := "/"
	if c, err := r.Cookie(redirectCookieName); err == nil {
		target = safeRedirectPath(c.Value)
		h.clearCookie(w, r, redirectCookieName)
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// Logout handles the logout endpoint.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionCookie, err := r.Cookie(sessionCookieName); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), sessionCookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}
	h.clearCookie(w, r, sessionCookieName)

	body := map[string]string{"status": "signed_out"}
	if h.LogoutURL != "" {
		body["logout_url"] = h.LogoutURL
	}
	WriteJSON(w, http.StatusOK, body)
}

type statusUser struct {
	ID        string          `json:"id"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Email     string          `json:"email"`
	Role      domainauth.Role `json:"role"`
	// RoleRecognized is false when the identity provider's role claim matched
	// no known role; such sessions are denied on every role-restricted route.
	RoleRecognized bool `json:"role_recognized"`
}

type statusResponse struct {
	Authenticated bool        `json:"authenticated"`
	User          *statusUser `json:"user,omitempty"`
	ExpiresAt     *time.Time  `json:"expires_at,omitempty"`
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		WriteJSON(w, http.StatusOK, statusResponse{})
		return
	}

	session, err := h.Svc.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		// Session is invalid or expired, clear the cookie
		h.clearCookie(w, r, sessionCookieName)
		WriteJSON(w, http.StatusOK, statusResponse{})
		return
	}

	expires := session.ExpiresAt
	WriteJSON(w, http.StatusOK, statusResponse{
		Authenticated: true,
		User: &statusUser{
			ID:             session.UserID,
			FirstName:      session.FirstName,
			LastName:       session.LastName,
			Email:          session.Email,
			Role:           session.Role,
			RoleRecognized: session.HasRole(),
		},
		ExpiresAt: &expires,
	})
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// cookie builds every cookie the auth flow writes, so set and clear always
// agree on path, domain and flags.
func (h *AuthHandlers) cookie(r *http.Request, name, value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
	if maxAge < 0 {
		c.Expires = time.Unix(0, 0).UTC()
	}
	return c
}

func (h *AuthHandlers) setCookie(w http.ResponseWriter, r *http.Request, name, value string, maxAge int) {
	http.SetCookie(w, h.cookie(r, name, value, maxAge))
}

func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, h.cookie(r, name, "", -1))
}

// safeRedirectPath returns candidate when it is a same-origin absolute path
// and "/" otherwise.
func safeRedirectPath(candidate string) string {
	u, err := url.Parse(candidate)
	if candidate == "" || err != nil || u.IsAbs() || u.Host != "" ||
		!strings.HasPrefix(u.Path, "/") || strings.HasPrefix(candidate, "//") {
		return "/"
	}
	return candidate
}
