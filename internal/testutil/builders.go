package testutil

import (
	"github.com/target/jobboard/internal/domain/model"
)

// JobPostingBuilder builds CreateJobPostingRequest values with valid defaults.
type JobPostingBuilder struct {
	req model.CreateJobPostingRequest
}

// NewJobPosting starts a builder for a full-time posting owned by employerID.
func NewJobPosting(employerID string) *JobPostingBuilder {
	return &JobPostingBuilder{req: model.CreateJobPostingRequest{
		Title:          "Backend Engineer",
		Company:        "Acme",
		Location:       "Remote",
		EmploymentType: model.EmploymentFullTime,
		Description:    "Build things.",
		ApplyURL:       "https://careers.acme.example.com/jobs/1",
		EmployerID:     employerID,
	}}
}

// WithTitle sets the title.
func (b *JobPostingBuilder) WithTitle(title string) *JobPostingBuilder {
	b.req.Title = title
	return b
}

// WithCompany sets the company.
func (b *JobPostingBuilder) WithCompany(company string) *JobPostingBuilder {
	b.req.Company = company
	return b
}

// WithLocation sets the location.
func (b *JobPostingBuilder) WithLocation(location string) *JobPostingBuilder {
	b.req.Location = location
	return b
}

// WithEmploymentType sets the employment type.
func (b *JobPostingBuilder) WithEmploymentType(t model.EmploymentType) *JobPostingBuilder {
	b.req.EmploymentType = t
	return b
}

// WithRemote sets the remote flag.
func (b *JobPostingBuilder) WithRemote(remote bool) *JobPostingBuilder {
	b.req.Remote = remote
	return b
}

// WithSalary sets the salary range.
func (b *JobPostingBuilder) WithSalary(minSalary, maxSalary int64) *JobPostingBuilder {
	b.req.SalaryMin = &minSalary
	b.req.SalaryMax = &maxSalary
	return b
}

// Build returns a fresh copy of the request.
func (b *JobPostingBuilder) Build() *model.CreateJobPostingRequest {
	out := b.req
	return &out
}
