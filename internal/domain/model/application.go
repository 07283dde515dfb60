package model

import (
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/target/jobboard/internal/errors"
)

const maxCoverLetterLen = 10000

// ApplicationStatus tracks an application through review.
type ApplicationStatus string

const (
	ApplicationSubmitted ApplicationStatus = "submitted"
	ApplicationReviewed  ApplicationStatus = "reviewed"
	ApplicationRejected  ApplicationStatus = "rejected"
)

// Application is a job seeker's application to a posting.
// A seeker may apply to a given posting once.
type Application struct {
	ID          string            `json:"id"           db:"id"`
	JobID       string            `json:"job_id"       db:"job_id"`
	SeekerID    string            `json:"seeker_id"    db:"seeker_id"`
	CoverLetter string            `json:"cover_letter" db:"cover_letter"`
	Status      ApplicationStatus `json:"status"       db:"status"`
	CreatedAt   time.Time         `json:"created_at"   db:"created_at"`
}

// ApplyRequest is the payload for applying to a posting.
type ApplyRequest struct {
	CoverLetter string `json:"cover_letter,omitempty"`
}

// Validate checks the request.
func (r *ApplyRequest) Validate() error {
	if utf8.RuneCountInString(r.CoverLetter) > maxCoverLetterLen {
		return apperrors.ValidationField("cover_letter", "cover_letter cannot exceed 10000 characters")
	}
	return nil
}

// CreateApplicationParams is what the service hands to the repository.
type CreateApplicationParams struct {
	JobID       string
	SeekerID    string
	CoverLetter string
}

// Validate checks the identifiers and cover letter.
func (p *CreateApplicationParams) Validate() error {
	if strings.TrimSpace(p.JobID) == "" {
		return apperrors.ValidationField("job_id", "job_id is required and cannot be empty")
	}
	if strings.TrimSpace(p.SeekerID) == "" {
		return apperrors.ValidationField("seeker_id", "seeker_id is required and cannot be empty")
	}
	req := ApplyRequest{CoverLetter: p.CoverLetter}
	return req.Validate()
}

// ApplicationListOptions selects applications by job or by seeker.
// Exactly one of JobID and SeekerID is set by callers.
type ApplicationListOptions struct {
	Limit    int
	Offset   int
	JobID    string
	SeekerID string
}
