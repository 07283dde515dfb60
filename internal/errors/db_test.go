package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapDBError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  ErrorCode
		wantMsg   string
		wantField string
	}{
		{
			name:     "deadline",
			err:      fmt.Errorf("query: %w", context.DeadlineExceeded),
			wantCode: ErrCodeTimeout,
			wantMsg:  "request timed out",
		},
		{
			name:     "canceled",
			err:      context.Canceled,
			wantCode: ErrCodeCanceled,
			wantMsg:  "request canceled",
		},
		{
			name:     "no rows",
			err:      pgx.ErrNoRows,
			wantCode: ErrCodeNotFound,
			wantMsg:  "not found",
		},
		{
			name: "duplicate application from detail",
			err: &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: "applications_job_id_seeker_id_key",
				Detail:         "Key (job_id, seeker_id)=(3f1c7a52-9a0e-4c36-9b55-0d3c2f9b1e10, seeker-1) already exists.",
			},
			wantCode:  ErrCodeConflict,
			wantMsg:   "already exists",
			wantField: "seeker_id",
		},
		{
			name:      "unique with column metadata",
			err:       &pgconn.PgError{Code: pgerrcode.UniqueViolation, ColumnName: "id"},
			wantCode:  ErrCodeConflict,
			wantMsg:   "already exists",
			wantField: "id",
		},
		{
			name:     "unique without detail",
			err:      &pgconn.PgError{Code: pgerrcode.UniqueViolation},
			wantCode: ErrCodeConflict,
			wantMsg:  "already exists",
		},
		{
			name: "posting still has applications",
			err: &pgconn.PgError{
				Code:   pgerrcode.ForeignKeyViolation,
				Detail: `Key (id)=(3f1c7a52-9a0e-4c36-9b55-0d3c2f9b1e10) is still referenced from table "applications".`,
			},
			wantCode: ErrCodeForeignKey,
			wantMsg:  "still in use by an existing application",
		},
		{
			name: "application for missing posting",
			err: &pgconn.PgError{
				Code:   pgerrcode.ForeignKeyViolation,
				Detail: `Key (job_id)=(00000000-0000-0000-0000-000000000000) is not present in table "job_postings".`,
			},
			wantCode: ErrCodeForeignKey,
			wantMsg:  "referenced job posting does not exist",
		},
		{
			name: "unknown table falls back to its name",
			err: &pgconn.PgError{
				Code:   pgerrcode.ForeignKeyViolation,
				Detail: `Key (id)=(1) is still referenced from table "saved_searches".`,
			},
			wantCode: ErrCodeForeignKey,
			wantMsg:  "still in use by an existing saved searches",
		},
		{
			name:     "foreign key without detail",
			err:      &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation},
			wantCode: ErrCodeForeignKey,
			wantMsg:  "referenced record is missing or still in use",
		},
		{
			name:      "salary check",
			err:       &pgconn.PgError{Code: pgerrcode.CheckViolation, ConstraintName: "job_postings_salary_max_check"},
			wantCode:  ErrCodeValidation,
			wantMsg:   "salary_max has an invalid value",
			wantField: "salary_max",
		},
		{
			name:     "unknown check",
			err:      &pgconn.PgError{Code: pgerrcode.CheckViolation, ConstraintName: "other_check"},
			wantCode: ErrCodeValidation,
			wantMsg:  "invalid value",
		},
		{
			name:      "not null with column",
			err:       &pgconn.PgError{Code: pgerrcode.NotNullViolation, ColumnName: "seeker_id"},
			wantCode:  ErrCodeValidation,
			wantMsg:   "seeker_id is required",
			wantField: "seeker_id",
		},
		{
			name:     "not null without column",
			err:      &pgconn.PgError{Code: pgerrcode.NotNullViolation},
			wantCode: ErrCodeValidation,
			wantMsg:  "a required field is missing",
		},
		{
			name:     "other postgres error",
			err:      &pgconn.PgError{Code: pgerrcode.DeadlockDetected},
			wantCode: ErrCodeInternal,
			wantMsg:  "database error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapDBError(tt.err)

			var appErr *AppError
			require.ErrorAs(t, got, &appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, tt.wantMsg, appErr.Message)
			assert.Equal(t, tt.wantField, appErr.Field)
			assert.ErrorIs(t, got, tt.err, "cause is kept")
		})
	}
}

func TestMapDBError_Passthrough(t *testing.T) {
	assert.NoError(t, MapDBError(nil))

	plain := errors.New("driver: bad connection")
	assert.Same(t, plain, MapDBError(plain))
}
