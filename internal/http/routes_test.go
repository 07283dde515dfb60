package httpx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRouter_Health(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	healthy := NewRouter(RouterServices{Logger: logger, Health: map[string]HealthCheck{
		"postgres": func(context.Context) error { return nil },
	}})
	w := httptest.NewRecorder()
	healthy.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	healthy.ServeHTTP(w, httptest.NewRequest(http.MethodHead, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	degraded := NewRouter(RouterServices{Logger: logger, Health: map[string]HealthCheck{
		"redis": func(context.Context) error { return errors.New("dial tcp: refused") },
	}})
	w = httptest.NewRecorder()
	degraded.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"degraded","checks":{"redis":"unavailable"}}`, w.Body.String())
}

func TestNewRouter_WithoutAuth(t *testing.T) {
	h := NewRouter(RouterServices{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/pagination/window?total_pages=3", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewRouter_AuthRoutes(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(http.MethodGet, "/auth/status", seekerCookie, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)

	w = f.do(http.MethodGet, "/auth/login", "", "")
	assert.Equal(t, http.StatusFound, w.Code)
}
