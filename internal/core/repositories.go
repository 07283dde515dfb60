// Package core holds the repository ports consumed by the service layer.
package core

import (
	"context"

	"github.com/target/jobboard/internal/domain/model"
)

// Service implementations depend on these interfaces, not on the Postgres
// repositories in internal/data.

// JobPostingRepository defines the interface for job posting data operations.
type JobPostingRepository interface {
	Create(ctx context.Context, req *model.CreateJobPostingRequest) (*model.JobPosting, error)
	GetByID(ctx context.Context, id string) (*model.JobPosting, error)
	// List returns one page of postings matching opts.
	List(ctx context.Context, opts model.JobPostingListOptions) ([]*model.JobPosting, error)
	// Count returns the number of postings matching opts, ignoring Limit and Offset.
	Count(ctx context.Context, opts model.JobPostingListOptions) (int, error)
	Update(ctx context.Context, id string, req model.UpdateJobPostingRequest) (*model.JobPosting, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ApplicationRepository defines the interface for application data operations.
type ApplicationRepository interface {
	// Create inserts an application. A second application by the same seeker
	// to the same posting fails with a conflict error.
	Create(ctx context.Context, params model.CreateApplicationParams) (*model.Application, error)
	List(ctx context.Context, opts model.ApplicationListOptions) ([]*model.Application, error)
	Count(ctx context.Context, opts model.ApplicationListOptions) (int, error)
}
