package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/target/jobboard/internal/errors"
)

func ptr[T any](v T) *T { return &v }

func validCreate() CreateJobPostingRequest {
	return CreateJobPostingRequest{
		Title:    "Backend Engineer",
		Company:  "Acme",
		Location: "Remote",
		ApplyURL: "https://careers.acme.co.uk/jobs/1",
	}
}

func TestCreateJobPostingRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *CreateJobPostingRequest)
		wantField string
	}{
		{name: "valid", mutate: func(*CreateJobPostingRequest) {}},
		{name: "missing title", mutate: func(r *CreateJobPostingRequest) { r.Title = "  " }, wantField: "title"},
		{
			name:      "title too long",
			mutate:    func(r *CreateJobPostingRequest) { r.Title = strings.Repeat("é", maxTitleLen+1) },
			wantField: "title",
		},
		{name: "missing company", mutate: func(r *CreateJobPostingRequest) { r.Company = "" }, wantField: "company"},
		{
			name:      "bad employment type",
			mutate:    func(r *CreateJobPostingRequest) { r.EmploymentType = "gig" },
			wantField: "employment_type",
		},
		{
			name:      "negative salary",
			mutate:    func(r *CreateJobPostingRequest) { r.SalaryMin = ptr(int64(-1)) },
			wantField: "salary_min",
		},
		{
			name: "inverted salary",
			mutate: func(r *CreateJobPostingRequest) {
				r.SalaryMin = ptr(int64(100))
				r.SalaryMax = ptr(int64(50))
			},
			wantField: "salary_max",
		},
		{
			name:      "non-http apply url",
			mutate:    func(r *CreateJobPostingRequest) { r.ApplyURL = "mailto:jobs@acme.com" },
			wantField: "apply_url",
		},
		{
			name:      "apply url without host",
			mutate:    func(r *CreateJobPostingRequest) { r.ApplyURL = "https:///jobs" },
			wantField: "apply_url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreate()
			tt.mutate(&req)
			req.Normalize()
			err := req.Validate()
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tt.wantField, apperrors.GetField(err))
		})
	}
}

func TestCreateJobPostingRequest_Normalize(t *testing.T) {
	req := CreateJobPostingRequest{Title: "  Dev ", Company: " Acme", EmploymentType: "Part-Time"}
	req.Normalize()
	assert.Equal(t, "Dev", req.Title)
	assert.Equal(t, "Acme", req.Company)
	assert.Equal(t, EmploymentPartTime, req.EmploymentType)

	empty := CreateJobPostingRequest{}
	empty.Normalize()
	assert.Equal(t, EmploymentFullTime, empty.EmploymentType)
}

func TestUpdateJobPostingRequest_Validate(t *testing.T) {
	empty := UpdateJobPostingRequest{}
	err := empty.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one field must be updated")

	badStatus := UpdateJobPostingRequest{Status: ptr(JobStatus("archived"))}
	assert.Equal(t, "status", apperrors.GetField(badStatus.Validate()))

	blankTitle := UpdateJobPostingRequest{Title: ptr("   ")}
	assert.Equal(t, "title", apperrors.GetField(blankTitle.Validate()))

	ok := UpdateJobPostingRequest{Status: ptr(JobStatusClosed), Remote: ptr(true)}
	require.NoError(t, ok.Validate())
}

func TestUpdateJobPostingRequest_Apply(t *testing.T) {
	orig := JobPosting{ID: "j1", Title: "Old", Company: "Acme", Status: JobStatusOpen, SalaryMin: ptr(int64(10))}
	upd := UpdateJobPostingRequest{Title: ptr(" New "), Status: ptr(JobStatusClosed)}

	got := upd.Apply(orig)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, JobStatusClosed, got.Status)
	assert.Equal(t, "Acme", got.Company)
	assert.Equal(t, int64(10), *got.SalaryMin)
	assert.Equal(t, "Old", orig.Title, "original must not change")
}

func TestRegistrableDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "https://careers.acme.co.uk/jobs/1", want: "acme.co.uk"},
		{in: "https://jobs.example.com", want: "example.com"},
		{in: "http://EXAMPLE.com.:8080/x", want: "example.com"},
		{in: "", want: ""},
		{in: "https://co.uk/", want: ""},
		{in: "::not a url", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, RegistrableDomain(tt.in))
		})
	}
}

func TestJobPosting_View(t *testing.T) {
	j := &JobPosting{ID: "j1", Title: "Dev", ApplyURL: "https://careers.acme.com/1", Status: JobStatusOpen}
	b, err := json.Marshal(j.View())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "j1", m["id"])
	assert.Equal(t, "acme.com", m["apply_domain"])
}

func TestJobPosting_Ownership(t *testing.T) {
	j := &JobPosting{EmployerID: "emp-1", Status: JobStatusOpen}
	assert.True(t, j.OwnedBy("emp-1"))
	assert.False(t, j.OwnedBy("emp-2"))
	assert.False(t, j.OwnedBy(""))
	assert.True(t, j.IsOpen())
}

func TestParseEmploymentType(t *testing.T) {
	got, ok := ParseEmploymentType(" Full Time ")
	assert.True(t, ok)
	assert.Equal(t, EmploymentFullTime, got)

	_, ok = ParseEmploymentType("freelance")
	assert.False(t, ok)
}
