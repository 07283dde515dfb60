package data

import apperrors "github.com/target/jobboard/internal/errors"

// Shared sentinel errors for data-layer repositories. They are AppErrors so
// callers can match them with errors.Is or classify them with apperrors.IsNotFound
// and friends.
var (
	ErrJobPostingNotFound = apperrors.NotFound("job posting not found")
	ErrJobPostingClosed   = apperrors.Conflict("job posting is closed")
	ErrAlreadyApplied     = apperrors.Conflict("you have already applied to this job posting")
	ErrJobPostingInUse    = apperrors.ForeignKey("cannot delete job posting because it has applications")
)
