package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/target/jobboard/internal/core"
	domainauth "github.com/target/jobboard/internal/domain/auth"
	"github.com/target/jobboard/internal/domain/model"
	apperrors "github.com/target/jobboard/internal/errors"
)

// ApplicationServiceOptions groups dependencies for ApplicationService.
type ApplicationServiceOptions struct {
	Repo   core.ApplicationRepository // Required
	Jobs   core.JobPostingRepository  // Required: open-state and ownership checks
	Logger *slog.Logger               // Optional
}

// ApplicationService handles applying to postings and listing applications.
type ApplicationService struct {
	repo   core.ApplicationRepository
	jobs   core.JobPostingRepository
	logger *slog.Logger
}

// NewApplicationService constructs an ApplicationService. It panics without its repositories.
func NewApplicationService(opts ApplicationServiceOptions) *ApplicationService {
	if opts.Repo == nil || opts.Jobs == nil {
		//nolint:forbidigo // constructor misuse is a programming error
		panic("ApplicationService: Repo and Jobs are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ApplicationService{
		repo:   opts.Repo,
		jobs:   opts.Jobs,
		logger: logger.With("component", "application_service"),
	}
}

// Apply records actor's application to an open posting. Applying twice
// returns a conflict error.
func (s *ApplicationService) Apply(
	ctx context.Context,
	actor domainauth.Actor,
	jobID string,
	req model.ApplyRequest,
) (*model.Application, error) {
	if !domainauth.Allowed(actor.Role, []domainauth.Role{domainauth.RoleJobSeeker}) {
		return nil, apperrors.Forbidden("only job seekers can apply")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsOpen() {
		return nil, apperrors.Conflict("job posting is closed")
	}

	app, err := s.repo.Create(ctx, model.CreateApplicationParams{
		JobID:       job.ID,
		SeekerID:    actor.UserID,
		CoverLetter: req.CoverLetter,
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "application submitted", "job_id", job.ID, "application_id", app.ID)
	return app, nil
}

// ListForSeeker returns actor's own applications.
func (s *ApplicationService) ListForSeeker(
	ctx context.Context,
	actor domainauth.Actor,
	limit, offset int,
) (ListResult[*model.Application], error) {
	if !domainauth.Allowed(actor.Role, []domainauth.Role{domainauth.RoleJobSeeker}) {
		return ListResult[*model.Application]{}, apperrors.Forbidden("only job seekers have applications")
	}
	return s.list(ctx, model.ApplicationListOptions{
		SeekerID: actor.UserID,
		Limit:    clampLimit(limit),
		Offset:   max(offset, 0),
	})
}

// ListForJob returns applications to a posting. Only the posting's employer
// and admins may see them.
func (s *ApplicationService) ListForJob(
	ctx context.Context,
	actor domainauth.Actor,
	jobID string,
	limit, offset int,
) (ListResult[*model.Application], error) {
	if !domainauth.Allowed(actor.Role, []domainauth.Role{domainauth.RoleEmployer, domainauth.RoleAdmin}) {
		return ListResult[*model.Application]{}, apperrors.Forbidden("only employers can view applications")
	}
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return ListResult[*model.Application]{}, err
	}
	if !actor.IsAdmin() && !job.OwnedBy(actor.UserID) {
		return ListResult[*model.Application]{}, apperrors.Forbidden("you can only view applications to your own job postings")
	}
	return s.list(ctx, model.ApplicationListOptions{
		JobID:  job.ID,
		Limit:  clampLimit(limit),
		Offset: max(offset, 0),
	})
}

func (s *ApplicationService) list(
	ctx context.Context,
	opts model.ApplicationListOptions,
) (ListResult[*model.Application], error) {
	var res ListResult[*model.Application]
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.repo.List(gctx, opts)
		if err != nil {
			return fmt.Errorf("list applications: %w", err)
		}
		res.Items = items
		return nil
	})
	g.Go(func() error {
		total, err := s.repo.Count(gctx, opts)
		if err != nil {
			return fmt.Errorf("count applications: %w", err)
		}
		res.Total = total
		return nil
	})
	if err := g.Wait(); err != nil {
		return ListResult[*model.Application]{}, err
	}
	if res.Items == nil {
		res.Items = []*model.Application{}
	}
	return res, nil
}

func (s *ApplicationService) getJob(ctx context.Context, id string) (*model.JobPosting, error) {
	if !validID(id) {
		return nil, apperrors.NotFound("job posting not found")
	}
	return s.jobs.GetByID(ctx, id)
}

// validID reports whether id is a UUID; anything else cannot name a row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
