package httpx

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/target/jobboard/internal/domain/model"
	apperrors "github.com/target/jobboard/internal/errors"
)

const (
	// SortDirAsc represents ascending sort direction.
	SortDirAsc = "asc"
	// SortDirDesc represents descending sort direction.
	SortDirDesc = "desc"
)

// ParseSortParam extracts sort field and direction from URL query parameters.
// It supports two formats:
// 1. Combined format: ?sort=field:dir (e.g., ?sort=created_at:desc)
// 2. Separate format: ?sort=field&dir=direction (e.g., ?sort=created_at&dir=desc)
//
// The direction is lowercased and must be "asc" or "desc"; anything else yields "".
func ParseSortParam(q url.Values, sortKey, dirKey string) (string, string) {
	sortParam := strings.TrimSpace(q.Get(sortKey))

	if field, dir, ok := strings.Cut(sortParam, ":"); ok {
		return strings.TrimSpace(field), normalizeDir(dir)
	}
	return sortParam, normalizeDir(q.Get(dirKey))
}

func normalizeDir(dir string) string {
	dir = strings.ToLower(strings.TrimSpace(dir))
	if dir == SortDirAsc || dir == SortDirDesc {
		return dir
	}
	return ""
}

// parseJobFilters builds list options from the job search query string.
// Empty parameters are ignored, except status which defaults to open ("all" lifts it).
// Malformed enum or boolean values are validation errors.
func parseJobFilters(q url.Values) (model.JobPostingListOptions, error) {
	var opts model.JobPostingListOptions
	opts.Q = optionalString(q, "q")
	opts.Location = optionalString(q, "location")
	opts.EmployerID = optionalString(q, "employer_id")

	if v := strings.TrimSpace(q.Get("employment_type")); v != "" {
		t, ok := model.ParseEmploymentType(v)
		if !ok {
			return opts, apperrors.ValidationField("employment_type",
				"employment_type must be one of: full_time, part_time, contract, internship")
		}
		opts.EmploymentType = &t
	}
	if v := strings.TrimSpace(q.Get("remote")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, apperrors.ValidationField("remote", "remote must be true or false")
		}
		opts.Remote = &b
	}
	switch v := strings.ToLower(strings.TrimSpace(q.Get("status"))); v {
	case "":
		open := model.JobStatusOpen
		opts.Status = &open
	case "all":
	default:
		s := model.JobStatus(v)
		if !s.Valid() {
			return opts, apperrors.ValidationField("status", "status must be one of: open, closed, all")
		}
		opts.Status = &s
	}
	opts.Sort, opts.Dir = ParseSortParam(q, "sort", "dir")
	return opts, nil
}

func optionalString(q url.Values, key string) *string {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil
	}
	return &v
}
