package errors

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// "Key (job_id, seeker_id)=(...) already exists."
	reUniqueKey = regexp.MustCompile(`^Key \(([^)]+)\)=`)
	// "... is still referenced from table "applications"." or "... is not present in table "job_postings"."
	reForeignKey = regexp.MustCompile(`is (still referenced from|not present in) table "?([^".]+)"?`)
)

// tableNouns is how messages refer to a row of each table.
var tableNouns = map[string]string{
	"job_postings": "job posting",
	"applications": "application",
}

// checkFields maps CHECK constraints from the schema to the request field they guard.
var checkFields = map[string]string{
	"job_postings_title_check":           "title",
	"job_postings_company_check":         "company",
	"job_postings_employment_type_check": "employment_type",
	"job_postings_status_check":          "status",
	"job_postings_salary_min_check":      "salary_min",
	"job_postings_salary_max_check":      "salary_max",
	"applications_status_check":          "status",
}

// MapDBError classifies a database error as an AppError that keeps err as its
// cause. Errors it does not recognize are returned unchanged.
func MapDBError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return &AppError{Code: ErrCodeTimeout, Message: "request timed out", Cause: err}
	case errors.Is(err, context.Canceled):
		return &AppError{Code: ErrCodeCanceled, Message: "request canceled", Cause: err}
	case errors.Is(err, pgx.ErrNoRows):
		return &AppError{Code: ErrCodeNotFound, Message: "not found", Cause: err}
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return &AppError{Code: ErrCodeConflict, Message: "already exists", Field: uniqueField(pgErr), Cause: pgErr}
	case pgerrcode.ForeignKeyViolation:
		return &AppError{Code: ErrCodeForeignKey, Message: foreignKeyMessage(pgErr), Cause: pgErr}
	case pgerrcode.CheckViolation:
		if field, ok := checkFields[pgErr.ConstraintName]; ok {
			return &AppError{Code: ErrCodeValidation, Message: field + " has an invalid value", Field: field, Cause: pgErr}
		}
		return &AppError{Code: ErrCodeValidation, Message: "invalid value", Cause: pgErr}
	case pgerrcode.NotNullViolation:
		if pgErr.ColumnName != "" {
			return &AppError{
				Code:    ErrCodeValidation,
				Message: pgErr.ColumnName + " is required",
				Field:   pgErr.ColumnName,
				Cause:   pgErr,
			}
		}
		return &AppError{Code: ErrCodeValidation, Message: "a required field is missing", Cause: pgErr}
	default:
		return &AppError{Code: ErrCodeInternal, Message: "database error", Cause: pgErr}
	}
}

// uniqueField prefers the column metadata and falls back to the key list in Detail.
// Composite keys report their last column.
func uniqueField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	m := reUniqueKey.FindStringSubmatch(pgErr.Detail)
	if m == nil {
		return ""
	}
	cols := strings.Split(m[1], ",")
	return strings.TrimSpace(cols[len(cols)-1])
}

func foreignKeyMessage(pgErr *pgconn.PgError) string {
	m := reForeignKey.FindStringSubmatch(pgErr.Detail)
	if m == nil {
		return "referenced record is missing or still in use"
	}
	noun := tableNoun(m[2])
	if m[1] == "not present in" {
		return "referenced " + noun + " does not exist"
	}
	return "still in use by an existing " + noun
}

func tableNoun(table string) string {
	if noun, ok := tableNouns[table]; ok {
		return noun
	}
	return strings.ReplaceAll(table, "_", " ")
}
