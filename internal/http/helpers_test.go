package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/target/jobboard/internal/domain/auth"
	"github.com/target/jobboard/internal/mocks"
	"github.com/target/jobboard/internal/service"
)

// mockAuthService is a test double for AuthServiceInterface. Sessions are
// looked up by cookie value in sessions; the func fields override defaults.
type mockAuthService struct {
	sessions          map[string]domainauth.Session
	beginLoginFunc    func(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	completeLoginFunc func(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	logoutFunc        func(ctx context.Context, sessionID string) error
}

func (m *mockAuthService) BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error) {
	if m.beginLoginFunc != nil {
		return m.beginLoginFunc(ctx, redirectURL)
	}
	return &service.BeginLoginResult{
		AuthURL: "https://login.example.com/auth?state=test-state",
		State:   "test-state",
		Nonce:   "test-nonce",
	}, nil
}

func (m *mockAuthService) CompleteLogin(
	ctx context.Context,
	input service.CompleteLoginInput,
) (*service.CompleteLoginResult, error) {
	if m.completeLoginFunc != nil {
		return m.completeLoginFunc(ctx, input)
	}
	return &service.CompleteLoginResult{
		Session: domainauth.Session{
			ID:        "test-session-id",
			UserID:    "test-user",
			Email:     "test@example.com",
			Role:      domainauth.RoleJobSeeker,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}, nil
}

func (m *mockAuthService) GetSession(_ context.Context, sessionID string) (*domainauth.Session, error) {
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, errors.New("session not found")
	}
	return &s, nil
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, sessionID)
	}
	delete(m.sessions, sessionID)
	return nil
}

// Session cookie values understood by newMockAuth.
const (
	employerCookie      = "employer-session"
	otherEmployerCookie = "other-employer-session"
	adminCookie         = "admin-session"
	seekerCookie        = "seeker-session"
	unrecognizedCookie  = "unrecognized-session"
)

const (
	testJobID   = "3f1c7a52-9a0e-4c36-9b55-0d3c2f9b1e10"
	testOwnerID = "employer-1"
)

func newMockAuth() *mockAuthService {
	exp := time.Now().Add(time.Hour)
	return &mockAuthService{sessions: map[string]domainauth.Session{
		employerCookie:      {ID: employerCookie, UserID: testOwnerID, Role: domainauth.RoleEmployer, ExpiresAt: exp},
		otherEmployerCookie: {ID: otherEmployerCookie, UserID: "employer-2", Role: domainauth.RoleEmployer, ExpiresAt: exp},
		adminCookie:         {ID: adminCookie, UserID: "admin-1", Role: domainauth.RoleAdmin, ExpiresAt: exp},
		seekerCookie:        {ID: seekerCookie, UserID: "seeker-1", Role: domainauth.RoleJobSeeker, ExpiresAt: exp},
		unrecognizedCookie:  {ID: unrecognizedCookie, UserID: "who-1", Role: domainauth.RoleUnrecognized, ExpiresAt: exp},
	}}
}

// apiFixture wires the real router and services over gomock repositories.
type apiFixture struct {
	jobs    *mocks.MockJobPostingRepository
	apps    *mocks.MockApplicationRepository
	auth    *mockAuthService
	handler http.Handler
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	jobs := mocks.NewMockJobPostingRepository(ctrl)
	apps := mocks.NewMockApplicationRepository(ctrl)
	auth := newMockAuth()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &apiFixture{
		jobs: jobs,
		apps: apps,
		auth: auth,
		handler: NewRouter(RouterServices{
			Jobs:         service.NewJobPostingService(service.JobPostingServiceOptions{Repo: jobs, Logger: logger}),
			Applications: service.NewApplicationService(service.ApplicationServiceOptions{Repo: apps, Jobs: jobs, Logger: logger}),
			Auth:         auth,
			Paging:       Paging{DefaultPageSize: 20, MaxPageSize: 100, SiblingCount: 1},
			Logger:       logger,
		}),
	}
}

// do sends a request with an optional session cookie and JSON body.
func (f *apiFixture) do(method, target, cookie, body string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	return decodeBody[errorBody](t, w)
}
