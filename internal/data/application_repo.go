package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/target/jobboard/internal/data/database"
	"github.com/target/jobboard/internal/data/pgxutil"
	"github.com/target/jobboard/internal/domain/model"
	apperrors "github.com/target/jobboard/internal/errors"
)

const applicationsTable = "applications"

// ApplicationRepo provides database operations for applications.
type ApplicationRepo struct {
	DB           *sql.DB
	clock Clock
}

// NewApplicationRepo creates a new ApplicationRepo using the system clock.
func NewApplicationRepo(db *sql.DB) *ApplicationRepo {
	return &ApplicationRepo{DB: db, clock: systemClock{}}
}

// NewApplicationRepoWithClock creates an ApplicationRepo that stamps rows with clock.
func NewApplicationRepoWithClock(db *sql.DB, clock Clock) *ApplicationRepo {
	return &ApplicationRepo{DB: db, clock: clock}
}

func applicationColumns() []string {
	return []string{"id", "job_id", "seeker_id", "cover_letter", "status", "created_at"}
}

// Create records an application. The posting is share-locked while the row is
// inserted, so a posting cannot close or disappear in between. A missing
// posting returns ErrJobPostingNotFound, a closed one ErrJobPostingClosed and
// a second application by the same seeker ErrAlreadyApplied.
func (r *ApplicationRepo) Create(ctx context.Context, params model.CreateApplicationParams) (*model.Application, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var out model.Application
	err := pgxutil.WithTx(ctx, r.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var status model.JobStatus
		err := tx.QueryRow(ctx, `SELECT status FROM job_postings WHERE id = $1 FOR SHARE`, params.JobID).Scan(&status)
		if err != nil {
			return err
		}
		if status != model.JobStatusOpen {
			return ErrJobPostingClosed
		}

		rows, err := tx.Query(ctx, `
			INSERT INTO applications (job_id, seeker_id, cover_letter, status, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, job_id, seeker_id, cover_letter, status, created_at`,
			params.JobID,
			params.SeekerID,
			params.CoverLetter,
			model.ApplicationSubmitted,
			r.clock.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Application])
		return err
	})
	if err != nil {
		return nil, mapApplicationWriteErr(err)
	}
	return &out, nil
}

// List returns applications for one posting or one seeker, newest first.
func (r *ApplicationRepo) List(ctx context.Context, opts model.ApplicationListOptions) ([]*model.Application, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query, args := applicationQuery(opts).
		Columns(applicationColumns()...).
		OrderBy("created_at", sortDirDesc).
		OrderBy("id", sortDirDesc).
		Page(limit, opts.Offset).
		SQL()

	var rowsOut []model.Application
	err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Application])
		return err
	})
	if err != nil {
		if isInvalidText(err) {
			return []*model.Application{}, nil
		}
		return nil, fmt.Errorf("list applications: %w", apperrors.MapDBError(err))
	}
	res := make([]*model.Application, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Count returns the number of applications matching opts.
func (r *ApplicationRepo) Count(ctx context.Context, opts model.ApplicationListOptions) (int, error) {
	query, args := applicationQuery(opts).CountSQL()

	var n int
	err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, query, args...).Scan(&n)
	})
	if err != nil {
		if isInvalidText(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("count applications: %w", apperrors.MapDBError(err))
	}
	return n, nil
}

func applicationQuery(opts model.ApplicationListOptions) *database.Select {
	q := database.From(applicationsTable)
	if opts.JobID != "" {
		q.Eq("job_id", opts.JobID)
	}
	if opts.SeekerID != "" {
		q.Eq("seeker_id", opts.SeekerID)
	}
	return q
}

func mapApplicationWriteErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrJobPostingNotFound
	}
	if errors.Is(err, ErrJobPostingClosed) {
		return ErrJobPostingClosed
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return ErrAlreadyApplied
		case pgerrcode.ForeignKeyViolation, pgerrcode.InvalidTextRepresentation:
			return ErrJobPostingNotFound
		}
	}
	return apperrors.MapDBError(err)
}

func isInvalidText(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation
}
