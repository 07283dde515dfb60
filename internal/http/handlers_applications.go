package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/target/jobboard/internal/domain/model"
	"github.com/target/jobboard/internal/service"
)

// ApplicationHandlers serves application endpoints.
type ApplicationHandlers struct {
	Svc    *service.ApplicationService
	Paging Paging
	Logger *slog.Logger
}

// Apply handles POST /api/jobs/{id}/applications. An empty body is allowed.
func (h *ApplicationHandlers) Apply(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req model.ApplyRequest
	if r.ContentLength != 0 && !DecodeJSON(w, r, &req) {
		return
	}

	app, err := h.Svc.Apply(r.Context(), actor, r.PathValue("id"), req)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, app)
}

// ListForJob handles GET /api/jobs/{id}/applications.
func (h *ApplicationHandlers) ListForJob(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	jobID := r.PathValue("id")
	h.writePage(w, r, func(ctx context.Context, limit, offset int) (service.ListResult[*model.Application], error) {
		return h.Svc.ListForJob(ctx, actor, jobID, limit, offset)
	})
}

// ListMine handles GET /api/me/applications.
func (h *ApplicationHandlers) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	h.writePage(w, r, func(ctx context.Context, limit, offset int) (service.ListResult[*model.Application], error) {
		return h.Svc.ListForSeeker(ctx, actor, limit, offset)
	})
}

func (h *ApplicationHandlers) writePage(
	w http.ResponseWriter,
	r *http.Request,
	fetch pageFetcher[*model.Application],
) {
	resp, err := paginate(r, h.Paging, fetch)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}
