package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/target/jobboard/internal/data/database"
	"github.com/target/jobboard/internal/data/pgxutil"
	"github.com/target/jobboard/internal/domain/model"
	apperrors "github.com/target/jobboard/internal/errors"
)

const (
	sortDirAsc  = "ASC"
	sortDirDesc = "DESC"

	defaultListLimit = 50
	jobPostingsTable = "job_postings"
)

// JobPostingRepo provides database operations for job postings.
type JobPostingRepo struct {
	DB           *sql.DB
	clock Clock
}

// NewJobPostingRepo creates a new JobPostingRepo using the system clock.
func NewJobPostingRepo(db *sql.DB) *JobPostingRepo {
	return &JobPostingRepo{DB: db, clock: systemClock{}}
}

// NewJobPostingRepoWithClock creates a JobPostingRepo that stamps rows with clock.
func NewJobPostingRepoWithClock(db *sql.DB, clock Clock) *JobPostingRepo {
	return &JobPostingRepo{DB: db, clock: clock}
}

const jobPostingReturning = ` RETURNING id, employer_id, title, company, location, employment_type, remote,
	salary_min, salary_max, description, apply_url, status, created_at, updated_at`

const jobPostingGetByIDQuery = `
	SELECT id, employer_id, title, company, location, employment_type, remote,
	       salary_min, salary_max, description, apply_url, status, created_at, updated_at
	FROM job_postings
	WHERE id = $1`

func jobPostingColumns() []string {
	return []string{
		"id",
		"employer_id",
		"title",
		"company",
		"location",
		"employment_type",
		"remote",
		"salary_min",
		"salary_max",
		"description",
		"apply_url",
		"status",
		"created_at",
		"updated_at",
	}
}

// Create inserts a new posting. The request is normalized and validated first.
func (r *JobPostingRepo) Create(ctx context.Context, req *model.CreateJobPostingRequest) (*model.JobPosting, error) {
	if req == nil {
		return nil, errors.New("create job posting request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.EmployerID) == "" {
		return nil, apperrors.ValidationField("employer_id", "employer_id is required and cannot be empty")
	}

	now := r.clock.Now().UTC()
	var out model.JobPosting
	err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO job_postings (
				employer_id, title, company, location, employment_type, remote,
				salary_min, salary_max, description, apply_url, status, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`+jobPostingReturning,
			req.EmployerID,
			req.Title,
			req.Company,
			req.Location,
			req.EmploymentType,
			req.Remote,
			req.SalaryMin,
			req.SalaryMax,
			req.Description,
			req.ApplyURL,
			model.JobStatusOpen,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.JobPosting])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a posting by ID.
func (r *JobPostingRepo) GetByID(ctx context.Context, id string) (*model.JobPosting, error) {
	var out model.JobPosting
	err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, jobPostingGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.JobPosting])
		return err
	})
	if err != nil {
		return nil, r.mapReadErr(err, "get job posting")
	}
	return &out, nil
}

// List returns a page of postings matching opts.
func (r *JobPostingRepo) List(ctx context.Context, opts model.JobPostingListOptions) ([]*model.JobPosting, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query, args := jobPostingQuery(opts).Columns(jobPostingColumns()...).Page(limit, opts.Offset).SQL()

	var rowsOut []model.JobPosting
	err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.JobPosting])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list job postings: %w", apperrors.MapDBError(err))
	}
	res := make([]*model.JobPosting, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Count returns the number of postings matching opts' filters. Paging and sort are ignored.
func (r *JobPostingRepo) Count(ctx context.Context, opts model.JobPostingListOptions) (int, error) {
	query, args := jobPostingQuery(opts).CountSQL()

	var n int
	err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, query, args...).Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("count job postings: %w", apperrors.MapDBError(err))
	}
	return n, nil
}

// Update applies a partial update and returns the stored posting.
func (r *JobPostingRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateJobPostingRequest,
) (*model.JobPosting, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setClause, args := r.buildUpdateClause(req)
	args = append(args, id)
	query := "UPDATE job_postings SET " + setClause + " WHERE id = $" + strconv.Itoa(len(args)) + jobPostingReturning

	var out model.JobPosting
	err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.JobPosting])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobPostingNotFound
		}
		return nil, r.mapWriteErr(err)
	}
	return &out, nil
}

// buildUpdateClause builds the SET clause for the fields present in req.
// updated_at is always set so callers see the write.
func (r *JobPostingRepo) buildUpdateClause(req model.UpdateJobPostingRequest) (string, []any) {
	setParts := make([]string, 0, 11)
	args := make([]any, 0, 12)
	set := func(col string, v any) {
		args = append(args, v)
		setParts = append(setParts, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.Title != nil {
		set("title", strings.TrimSpace(*req.Title))
	}
	if req.Company != nil {
		set("company", strings.TrimSpace(*req.Company))
	}
	if req.Location != nil {
		set("location", strings.TrimSpace(*req.Location))
	}
	if req.EmploymentType != nil {
		set("employment_type", *req.EmploymentType)
	}
	if req.Remote != nil {
		set("remote", *req.Remote)
	}
	if req.SalaryMin != nil {
		set("salary_min", *req.SalaryMin)
	}
	if req.SalaryMax != nil {
		set("salary_max", *req.SalaryMax)
	}
	if req.Description != nil {
		set("description", *req.Description)
	}
	if req.ApplyURL != nil {
		set("apply_url", strings.TrimSpace(*req.ApplyURL))
	}
	if req.Status != nil {
		set("status", *req.Status)
	}
	set("updated_at", r.clock.Now().UTC())

	return strings.Join(setParts, ", "), args
}

// Delete deletes a posting by ID. It reports false when nothing was deleted.
func (r *JobPostingRepo) Delete(ctx context.Context, id string) (bool, error) {
	var affected int64
	err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM job_postings WHERE id = $1`, id)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.ForeignKeyViolation:
				return false, ErrJobPostingInUse
			case pgerrcode.InvalidTextRepresentation:
				return false, nil
			}
		}
		return false, fmt.Errorf("delete job posting: %w", apperrors.MapDBError(err))
	}
	return affected > 0, nil
}

// buildJobPostingQueryOptions turns list filters into query options. The
// caller supplies the projection and paging (or WithCountOnly).
// jobPostingQuery applies opts' filters and sort. Blank text filters are ignored.
func jobPostingQuery(opts model.JobPostingListOptions) *database.Select {
	q := database.From(jobPostingsTable)
	if text := trimmed(opts.Q); text != "" {
		q.ContainsAny(text, "title", "company")
	}
	if loc := trimmed(opts.Location); loc != "" {
		q.Contains("location", loc)
	}
	if opts.EmploymentType != nil && *opts.EmploymentType != "" {
		q.Eq("employment_type", string(*opts.EmploymentType))
	}
	if opts.Remote != nil {
		q.Eq("remote", *opts.Remote)
	}
	if emp := trimmed(opts.EmployerID); emp != "" {
		q.Eq("employer_id", emp)
	}
	if opts.Status != nil && *opts.Status != "" {
		q.Eq("status", string(*opts.Status))
	}

	sortCol, sortDir := validateSortOptions(opts.Sort, opts.Dir)
	if sortCol == "salary_max" {
		q.OrderByNullsLast(sortCol, sortDir)
	} else {
		q.OrderBy(sortCol, sortDir)
	}
	// id breaks ties so pages never overlap.
	return q.OrderBy("id", sortDir)
}

// validateSortOptions validates and returns safe sort column and direction.
// Titles default to ascending; everything else to newest or highest first.
func validateSortOptions(sort, dir string) (string, string) {
	allowedSorts := map[string]string{
		"created_at": "created_at",
		"title":      "title",
		"salary_max": "salary_max",
		"salary":     "salary_max",
	}
	sortCol := "created_at"
	if s, ok := allowedSorts[strings.ToLower(strings.TrimSpace(sort))]; ok {
		sortCol = s
	}

	sortDir := sortDirDesc
	if sortCol == "title" {
		sortDir = sortDirAsc
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "asc":
		sortDir = sortDirAsc
	case "desc":
		sortDir = sortDirDesc
	}
	return sortCol, sortDir
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func (r *JobPostingRepo) mapReadErr(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrJobPostingNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation {
		// Malformed UUIDs cannot name an existing row.
		return ErrJobPostingNotFound
	}
	return fmt.Errorf("%s: %w", op, apperrors.MapDBError(err))
}

func (r *JobPostingRepo) mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation {
		return ErrJobPostingNotFound
	}
	return apperrors.MapDBError(err)
}
