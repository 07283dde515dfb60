// Package model defines the core data types exchanged between the job board's
// HTTP, service and data layers.
package model

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/publicsuffix"

	apperrors "github.com/target/jobboard/internal/errors"
)

const (
	maxTitleLen       = 200
	maxCompanyLen     = 200
	maxLocationLen    = 200
	maxDescriptionLen = 20000
)

// EmploymentType is the kind of engagement a posting offers.
type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full_time"
	EmploymentPartTime   EmploymentType = "part_time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentInternship EmploymentType = "internship"
)

// Valid reports whether t is a supported employment type.
func (t EmploymentType) Valid() bool {
	switch t {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentInternship:
		return true
	default:
		return false
	}
}

// ParseEmploymentType normalizes s ("Full-Time", "full time") and reports whether it is supported.
func ParseEmploymentType(s string) (EmploymentType, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	t := EmploymentType(norm)
	return t, t.Valid()
}

// JobStatus is the lifecycle state of a posting.
type JobStatus string

const (
	JobStatusOpen   JobStatus = "open"
	JobStatusClosed JobStatus = "closed"
)

// Valid reports whether s is a supported status.
func (s JobStatus) Valid() bool {
	return s == JobStatusOpen || s == JobStatusClosed
}

// JobPosting is a job advertised by an employer.
type JobPosting struct {
	ID             string         `json:"id"                   db:"id"`
	EmployerID     string         `json:"employer_id"          db:"employer_id"`
	Title          string         `json:"title"                db:"title"`
	Company        string         `json:"company"              db:"company"`
	Location       string         `json:"location"             db:"location"`
	EmploymentType EmploymentType `json:"employment_type"      db:"employment_type"`
	Remote         bool           `json:"remote"               db:"remote"`
	SalaryMin      *int64         `json:"salary_min,omitempty" db:"salary_min"`
	SalaryMax      *int64         `json:"salary_max,omitempty" db:"salary_max"`
	Description    string         `json:"description"          db:"description"`
	ApplyURL       string         `json:"apply_url,omitempty"  db:"apply_url"`
	Status         JobStatus      `json:"status"               db:"status"`
	CreatedAt      time.Time      `json:"created_at"           db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"           db:"updated_at"`
}

// IsOpen reports whether the posting accepts applications.
func (j *JobPosting) IsOpen() bool { return j.Status == JobStatusOpen }

// OwnedBy reports whether userID is the employer who created the posting.
func (j *JobPosting) OwnedBy(userID string) bool {
	return userID != "" && j.EmployerID == userID
}

// ApplyDomain returns the registrable domain (eTLD+1) of ApplyURL, e.g.
// "careers.example.co.uk" -> "example.co.uk". It returns "" when ApplyURL is
// empty or its host has no registrable domain.
func (j *JobPosting) ApplyDomain() string {
	return RegistrableDomain(j.ApplyURL)
}

// RegistrableDomain returns the eTLD+1 of rawURL's host, or "" if there is none.
func RegistrableDomain(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" {
		return ""
	}
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}
	return d
}

// JobPostingView is a posting with derived fields for API responses.
type JobPostingView struct {
	*JobPosting
	ApplyDomain string `json:"apply_domain,omitempty"`
}

// View wraps j with derived fields for API responses.
func (j *JobPosting) View() JobPostingView {
	return JobPostingView{JobPosting: j, ApplyDomain: j.ApplyDomain()}
}

// CreateJobPostingRequest is the payload for creating a posting.
// EmployerID is set by the service from the caller's session, never from the body.
type CreateJobPostingRequest struct {
	Title          string         `json:"title"`
	Company        string         `json:"company"`
	Location       string         `json:"location,omitempty"`
	EmploymentType EmploymentType `json:"employment_type,omitempty"`
	Remote         bool           `json:"remote,omitempty"`
	SalaryMin      *int64         `json:"salary_min,omitempty"`
	SalaryMax      *int64         `json:"salary_max,omitempty"`
	Description    string         `json:"description,omitempty"`
	ApplyURL       string         `json:"apply_url,omitempty"`
	EmployerID     string         `json:"-"`
}

// Normalize trims text fields and defaults the employment type to full time.
func (r *CreateJobPostingRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Company = strings.TrimSpace(r.Company)
	r.Location = strings.TrimSpace(r.Location)
	r.ApplyURL = strings.TrimSpace(r.ApplyURL)
	if r.EmploymentType == "" {
		r.EmploymentType = EmploymentFullTime
	} else if t, ok := ParseEmploymentType(string(r.EmploymentType)); ok {
		r.EmploymentType = t
	}
}

// Validate checks the request. Call Normalize first.
func (r *CreateJobPostingRequest) Validate() error {
	if r.Title == "" {
		return apperrors.ValidationField("title", "title is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Title) > maxTitleLen {
		return apperrors.ValidationField("title", "title cannot exceed 200 characters")
	}
	if r.Company == "" {
		return apperrors.ValidationField("company", "company is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Company) > maxCompanyLen {
		return apperrors.ValidationField("company", "company cannot exceed 200 characters")
	}
	if utf8.RuneCountInString(r.Location) > maxLocationLen {
		return apperrors.ValidationField("location", "location cannot exceed 200 characters")
	}
	if utf8.RuneCountInString(r.Description) > maxDescriptionLen {
		return apperrors.ValidationField("description", "description cannot exceed 20000 characters")
	}
	if !r.EmploymentType.Valid() {
		return apperrors.ValidationField("employment_type",
			"employment_type must be one of: full_time, part_time, contract, internship")
	}
	if err := validateSalary(r.SalaryMin, r.SalaryMax); err != nil {
		return err
	}
	return validateApplyURL(r.ApplyURL)
}

// UpdateJobPostingRequest is a partial update; nil fields are left unchanged.
type UpdateJobPostingRequest struct {
	Title          *string         `json:"title,omitempty"`
	Company        *string         `json:"company,omitempty"`
	Location       *string         `json:"location,omitempty"`
	EmploymentType *EmploymentType `json:"employment_type,omitempty"`
	Remote         *bool           `json:"remote,omitempty"`
	SalaryMin      *int64          `json:"salary_min,omitempty"`
	SalaryMax      *int64          `json:"salary_max,omitempty"`
	Description    *string         `json:"description,omitempty"`
	ApplyURL       *string         `json:"apply_url,omitempty"`
	Status         *JobStatus      `json:"status,omitempty"`
}

// HasUpdates reports whether any field is set.
func (r *UpdateJobPostingRequest) HasUpdates() bool {
	return r.Title != nil || r.Company != nil || r.Location != nil || r.EmploymentType != nil ||
		r.Remote != nil || r.SalaryMin != nil || r.SalaryMax != nil || r.Description != nil ||
		r.ApplyURL != nil || r.Status != nil
}

// Validate checks the fields being updated. Salary ordering is only checked
// when both bounds are supplied; the service re-checks against stored values.
func (r *UpdateJobPostingRequest) Validate() error {
	if !r.HasUpdates() {
		return apperrors.Validation("at least one field must be updated")
	}
	if r.Title != nil {
		if strings.TrimSpace(*r.Title) == "" {
			return apperrors.ValidationField("title", "title cannot be empty")
		}
		if utf8.RuneCountInString(*r.Title) > maxTitleLen {
			return apperrors.ValidationField("title", "title cannot exceed 200 characters")
		}
	}
	if r.Company != nil {
		if strings.TrimSpace(*r.Company) == "" {
			return apperrors.ValidationField("company", "company cannot be empty")
		}
		if utf8.RuneCountInString(*r.Company) > maxCompanyLen {
			return apperrors.ValidationField("company", "company cannot exceed 200 characters")
		}
	}
	if r.Location != nil && utf8.RuneCountInString(*r.Location) > maxLocationLen {
		return apperrors.ValidationField("location", "location cannot exceed 200 characters")
	}
	if r.Description != nil && utf8.RuneCountInString(*r.Description) > maxDescriptionLen {
		return apperrors.ValidationField("description", "description cannot exceed 20000 characters")
	}
	if r.EmploymentType != nil && !r.EmploymentType.Valid() {
		return apperrors.ValidationField("employment_type",
			"employment_type must be one of: full_time, part_time, contract, internship")
	}
	if r.Status != nil && !r.Status.Valid() {
		return apperrors.ValidationField("status", "status must be one of: open, closed")
	}
	if err := validateSalary(r.SalaryMin, r.SalaryMax); err != nil {
		return err
	}
	if r.ApplyURL != nil {
		return validateApplyURL(strings.TrimSpace(*r.ApplyURL))
	}
	return nil
}

// Apply returns a copy of j with the update applied.
func (r *UpdateJobPostingRequest) Apply(j JobPosting) JobPosting {
	if r.Title != nil {
		j.Title = strings.TrimSpace(*r.Title)
	}
	if r.Company != nil {
		j.Company = strings.TrimSpace(*r.Company)
	}
	if r.Location != nil {
		j.Location = strings.TrimSpace(*r.Location)
	}
	if r.EmploymentType != nil {
		j.EmploymentType = *r.EmploymentType
	}
	if r.Remote != nil {
		j.Remote = *r.Remote
	}
	if r.SalaryMin != nil {
		j.SalaryMin = r.SalaryMin
	}
	if r.SalaryMax != nil {
		j.SalaryMax = r.SalaryMax
	}
	if r.Description != nil {
		j.Description = *r.Description
	}
	if r.ApplyURL != nil {
		j.ApplyURL = strings.TrimSpace(*r.ApplyURL)
	}
	if r.Status != nil {
		j.Status = *r.Status
	}
	return j
}

// ValidateSalaryRange checks a resolved min/max pair.
func ValidateSalaryRange(minSalary, maxSalary *int64) error {
	return validateSalary(minSalary, maxSalary)
}

func validateSalary(minSalary, maxSalary *int64) error {
	if minSalary != nil && *minSalary < 0 {
		return apperrors.ValidationField("salary_min", "salary_min must be non-negative")
	}
	if maxSalary != nil && *maxSalary < 0 {
		return apperrors.ValidationField("salary_max", "salary_max must be non-negative")
	}
	if minSalary != nil && maxSalary != nil && *minSalary > *maxSalary {
		return apperrors.ValidationField("salary_max", "salary_max must be at least salary_min")
	}
	return nil
}

func validateApplyURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return apperrors.ValidationField("apply_url", "apply_url must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return apperrors.ValidationField("apply_url", "apply_url must use http or https scheme")
	}
	if u.Hostname() == "" {
		return apperrors.ValidationField("apply_url", "apply_url must have a valid host")
	}
	return nil
}

// JobPostingListOptions controls paging and filtering for listing postings.
// Notes:
// - Sort supports: "created_at", "title", "salary_max".
// - Dir supports: "asc", "desc"; anything else falls back to the sort's default.
// - Q matches title or company via ILIKE substring.
// - Location matches via ILIKE substring; the remaining filters match exactly.
type JobPostingListOptions struct {
	Limit          int
	Offset         int
	Q              *string
	Location       *string
	EmploymentType *EmploymentType
	Remote         *bool
	EmployerID     *string
	Status         *JobStatus
	Sort           string
	Dir            string
}
