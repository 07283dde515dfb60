// Package errors classifies failures for the HTTP layer. Repositories and
// services return *AppError values; handlers turn the code into a status and
// show Message (and Field, for validation) to the client.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode is the category of an AppError.
type ErrorCode string

const (
	ErrCodeNotFound   ErrorCode = "not_found"
	ErrCodeConflict   ErrorCode = "conflict"
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeForeignKey is a row still referenced by, or referring to a missing, other row.
	ErrCodeForeignKey ErrorCode = "foreign_key"
	ErrCodeForbidden  ErrorCode = "forbidden"
	ErrCodeTimeout    ErrorCode = "timeout"
	ErrCodeCanceled   ErrorCode = "canceled"
	// ErrCodeInternal messages are never shown to clients.
	ErrCodeInternal ErrorCode = "internal"
)

// AppError is a classified error. Message is safe to show to API clients
// unless Code is ErrCodeInternal.
type AppError struct {
	Code    ErrorCode
	Message string
	// Field names the offending request field for validation and conflict errors.
	Field string
	Cause error
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

func newError(code ErrorCode, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}

// NotFound reports a missing resource.
func NotFound(msg string) *AppError { return newError(ErrCodeNotFound, msg) }

// Conflict reports a write that clashes with existing state.
func Conflict(msg string) *AppError { return newError(ErrCodeConflict, msg) }

// Validation reports invalid input not tied to a single field.
func Validation(msg string) *AppError { return newError(ErrCodeValidation, msg) }

// ValidationField reports invalid input for field.
func ValidationField(field, msg string) *AppError {
	e := newError(ErrCodeValidation, msg)
	e.Field = field
	return e
}

// ForeignKey reports a referential-integrity failure.
func ForeignKey(msg string) *AppError { return newError(ErrCodeForeignKey, msg) }

// Forbidden reports an authenticated caller acting outside its role or ownership.
func Forbidden(msg string) *AppError { return newError(ErrCodeForbidden, msg) }

func codeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func IsNotFound(err error) bool   { return codeOf(err) == ErrCodeNotFound }
func IsConflict(err error) bool   { return codeOf(err) == ErrCodeConflict }
func IsValidation(err error) bool { return codeOf(err) == ErrCodeValidation }
func IsForeignKey(err error) bool { return codeOf(err) == ErrCodeForeignKey }
func IsForbidden(err error) bool  { return codeOf(err) == ErrCodeForbidden }
func IsTimeout(err error) bool    { return codeOf(err) == ErrCodeTimeout }
func IsCanceled(err error) bool   { return codeOf(err) == ErrCodeCanceled }

// GetField returns the offending field of the first AppError in err's chain.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
