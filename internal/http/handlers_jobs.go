package httpx

import (
	"context"
	"log/slog"
	"net/http"

	domainauth "github.com/target/jobboard/internal/domain/auth"
	"github.com/target/jobboard/internal/domain/model"
	"github.com/target/jobboard/internal/service"
)

// JobHandlers serves job posting endpoints.
type JobHandlers struct {
	Svc    *service.JobPostingService
	Paging Paging
	Logger *slog.Logger
}

// List handles GET /api/jobs with search filters and page-number pagination.
func (h *JobHandlers) List(w http.ResponseWriter, r *http.Request) {
	filters, err := parseJobFilters(r.URL.Query())
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}

	resp, err := paginate(r, h.Paging,
		func(ctx context.Context, limit, offset int) (service.ListResult[model.JobPostingView], error) {
			opts := filters
			opts.Limit, opts.Offset = limit, offset
			res, listErr := h.Svc.List(ctx, opts)
			if listErr != nil {
				return service.ListResult[model.JobPostingView]{}, listErr
			}
			return service.ListResult[model.JobPostingView]{Items: views(res.Items), Total: res.Total}, nil
		})
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/jobs/{id}.
func (h *JobHandlers) Get(w http.ResponseWriter, r *http.Request) {
	job, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, job.View())
}

// Create handles POST /api/jobs. The posting is owned by the caller.
func (h *JobHandlers) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req model.CreateJobPostingRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	job, err := h.Svc.Create(r.Context(), actor, req)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	w.Header().Set("Location", "/api/jobs/"+job.ID)
	WriteJSON(w, http.StatusCreated, job.View())
}

// Update handles PUT /api/jobs/{id}.
func (h *JobHandlers) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req model.UpdateJobPostingRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	job, err := h.Svc.Update(r.Context(), actor, r.PathValue("id"), req)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, job.View())
}

// Delete handles DELETE /api/jobs/{id}.
func (h *JobHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := h.Svc.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func views(jobs []*model.JobPosting) []model.JobPostingView {
	out := make([]model.JobPostingView, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.View())
	}
	return out
}

// requireActor returns the caller set by the auth middleware, writing 401 when absent.
func requireActor(w http.ResponseWriter, r *http.Request) (domainauth.Actor, bool) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		WriteError(w, errUnauthenticated)
	}
	return actor, ok
}
