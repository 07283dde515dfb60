package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/target/jobboard/internal/domain/auth"
	"github.com/target/jobboard/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Jobs         *service.JobPostingService
	Applications *service.ApplicationService
	// Auth is optional; without it the auth routes are absent and every
	// role-restricted route answers 401.
	Auth         AuthServiceInterface
	CookieDomain string
	LogoutURL    string
	Paging       Paging
	Health       map[string]HealthCheck
	// Compression enables gzip for JSON responses at the given level (0 disables).
	CompressionLevel int
	Logger           *slog.Logger
}

// NewRouter creates and configures the HTTP router with logging and panic recovery.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	health := &HealthHandlers{Checks: services.Health, Logger: logger}
	mux.HandleFunc("GET /healthz", health.Health)

	if services.Auth != nil {
		registerAuthRoutes(mux, &AuthHandlers{
			Svc:          services.Auth,
			CookieDomain: services.CookieDomain,
			LogoutURL:    services.LogoutURL,
			Logger:       logger,
		})
	}

	paging := services.Paging.withDefaults()
	mux.HandleFunc("GET /api/pagination/window", PaginationWindow(paging.SiblingCount))

	if services.Jobs != nil {
		registerJobRoutes(mux, &JobHandlers{Svc: services.Jobs, Paging: paging, Logger: logger}, services.Auth)
	}
	if services.Applications != nil {
		registerApplicationRoutes(mux,
			&ApplicationHandlers{Svc: services.Applications, Paging: paging, Logger: logger},
			services.Auth,
		)
	}

	var handler http.Handler = mux
	if services.CompressionLevel > 0 {
		handler = Compression(CompressionConfig{Level: services.CompressionLevel, Logger: logger})(handler)
	}
	handler = Recover(logger)(handler)
	return Logging(logger)(handler)
}

// gated wraps h so only the listed roles reach it.
func gated(auth AuthServiceInterface, h http.HandlerFunc, roles ...domainauth.Role) http.Handler {
	return RequireRoles(auth, roles...)(h)
}

func registerJobRoutes(mux *http.ServeMux, h *JobHandlers, auth AuthServiceInterface) {
	mux.HandleFunc("GET /api/jobs", h.List)
	mux.HandleFunc("GET /api/jobs/{id}", h.Get)
	mux.Handle("POST /api/jobs", gated(auth, h.Create, domainauth.RoleEmployer, domainauth.RoleAdmin))
	mux.Handle("PUT /api/jobs/{id}", gated(auth, h.Update, domainauth.RoleEmployer, domainauth.RoleAdmin))
	mux.Handle("DELETE /api/jobs/{id}", gated(auth, h.Delete, domainauth.RoleEmployer, domainauth.RoleAdmin))
}

func registerApplicationRoutes(mux *http.ServeMux, h *ApplicationHandlers, auth AuthServiceInterface) {
	mux.Handle("POST /api/jobs/{id}/applications", gated(auth, h.Apply, domainauth.RoleJobSeeker))
	mux.Handle("GET /api/jobs/{id}/applications",
		gated(auth, h.ListForJob, domainauth.RoleEmployer, domainauth.RoleAdmin))
	mux.Handle("GET /api/me/applications", gated(auth, h.ListMine, domainauth.RoleJobSeeker))
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}
