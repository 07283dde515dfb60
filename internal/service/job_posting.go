package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/target/jobboard/internal/core"
	domainauth "github.com/target/jobboard/internal/domain/auth"
	"github.com/target/jobboard/internal/domain/model"
	apperrors "github.com/target/jobboard/internal/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListResult is one page of items plus the total matching count.
type ListResult[T any] struct {
	Items []T
	Total int
}

// JobPostingServiceOptions groups dependencies for JobPostingService.
type JobPostingServiceOptions struct {
	Repo   core.JobPostingRepository // Required
	Logger *slog.Logger              // Optional
}

// JobPostingService enforces posting ownership on top of the repository.
type JobPostingService struct {
	repo   core.JobPostingRepository
	logger *slog.Logger
}

// NewJobPostingService constructs a JobPostingService. It panics without a repository.
func NewJobPostingService(opts JobPostingServiceOptions) *JobPostingService {
	if opts.Repo == nil {
		//nolint:forbidigo // constructor misuse is a programming error
		panic("JobPostingService: Repo is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &JobPostingService{repo: opts.Repo, logger: logger.With("component", "job_posting_service")}
}

// List returns a page of postings and the total count for opts' filters.
// The page and the count are fetched concurrently.
func (s *JobPostingService) List(
	ctx context.Context,
	opts model.JobPostingListOptions,
) (ListResult[*model.JobPosting], error) {
	opts = normalizeJobPostingListOptions(opts)

	var res ListResult[*model.JobPosting]
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.repo.List(gctx, opts)
		if err != nil {
			return fmt.Errorf("list job postings: %w", err)
		}
		res.Items = items
		return nil
	})
	g.Go(func() error {
		total, err := s.repo.Count(gctx, opts)
		if err != nil {
			return fmt.Errorf("count job postings: %w", err)
		}
		res.Total = total
		return nil
	})
	if err := g.Wait(); err != nil {
		return ListResult[*model.JobPosting]{}, err
	}
	if res.Items == nil {
		res.Items = []*model.JobPosting{}
	}
	return res, nil
}

// Get returns a posting by ID.
func (s *JobPostingService) Get(ctx context.Context, id string) (*model.JobPosting, error) {
	if !validID(id) {
		return nil, apperrors.NotFound("job posting not found")
	}
	return s.repo.GetByID(ctx, id)
}

// Create stores a posting owned by actor. Only employers and admins may post.
func (s *JobPostingService) Create(
	ctx context.Context,
	actor domainauth.Actor,
	req model.CreateJobPostingRequest,
) (*model.JobPosting, error) {
	if !domainauth.Allowed(actor.Role, []domainauth.Role{domainauth.RoleEmployer, domainauth.RoleAdmin}) {
		return nil, apperrors.Forbidden("only employers can create job postings")
	}
	req.EmployerID = actor.UserID
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	posting, err := s.repo.Create(ctx, &req)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "job posting created", "job_id", posting.ID, "employer_id", posting.EmployerID)
	return posting, nil
}

// Update applies req to a posting the actor owns (or any posting for admins).
func (s *JobPostingService) Update(
	ctx context.Context,
	actor domainauth.Actor,
	id string,
	req model.UpdateJobPostingRequest,
) (*model.JobPosting, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.authorizeWrite(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	merged := req.Apply(*existing)
	if err := model.ValidateSalaryRange(merged.SalaryMin, merged.SalaryMax); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, req)
}

// Delete removes a posting the actor owns (or any posting for admins).
func (s *JobPostingService) Delete(ctx context.Context, actor domainauth.Actor, id string) error {
	if _, err := s.authorizeWrite(ctx, actor, id); err != nil {
		return err
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFound("job posting not found")
	}
	s.logger.InfoContext(ctx, "job posting deleted", "job_id", id, "actor_id", actor.UserID)
	return nil
}

// authorizeWrite loads the posting and checks that actor may modify it.
func (s *JobPostingService) authorizeWrite(
	ctx context.Context,
	actor domainauth.Actor,
	id string,
) (*model.JobPosting, error) {
	if !domainauth.Allowed(actor.Role, []domainauth.Role{domainauth.RoleEmployer, domainauth.RoleAdmin}) {
		return nil, apperrors.Forbidden("only employers can modify job postings")
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !existing.OwnedBy(actor.UserID) {
		return nil, apperrors.Forbidden("you can only modify your own job postings")
	}
	return existing, nil
}

func normalizeJobPostingListOptions(opts model.JobPostingListOptions) model.JobPostingListOptions {
	opts.Limit = clampLimit(opts.Limit)
	opts.Offset = max(opts.Offset, 0)
	return opts
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultPageSize
	case limit > maxPageSize:
		return maxPageSize
	}
	return limit
}
