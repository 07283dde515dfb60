package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/target/jobboard/internal/errors"
)

// writeServiceError translates a service error into a JSON error response.
// Only AppError messages reach the client; anything else is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var appErr *apperrors.AppError
	msg := "internal server error"
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	p := ErrorParams{Err: errors.New(msg), Field: apperrors.GetField(err)}

	switch {
	case apperrors.IsNotFound(err):
		p.Code, p.ErrCode = http.StatusNotFound, "not_found"
	case apperrors.IsConflict(err), apperrors.IsForeignKey(err):
		p.Code, p.ErrCode = http.StatusConflict, "conflict"
	case apperrors.IsValidation(err):
		p.Code, p.ErrCode = http.StatusBadRequest, "validation_failed"
	case apperrors.IsForbidden(err):
		p.Code, p.ErrCode = http.StatusForbidden, "insufficient_permissions"
	case apperrors.IsTimeout(err), errors.Is(err, context.DeadlineExceeded):
		p.Code, p.ErrCode = http.StatusGatewayTimeout, "timeout"
		p.Err = errors.New("request timed out")
	case apperrors.IsCanceled(err), errors.Is(err, context.Canceled):
		p.Code, p.ErrCode = http.StatusRequestTimeout, "canceled"
		p.Err = errors.New("request canceled")
	default:
		if logger == nil {
			logger = slog.Default()
		}
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		p.Code, p.ErrCode = http.StatusInternalServerError, "internal_error"
		p.Err = errors.New("internal server error")
		p.Field = ""
	}
	WriteError(w, p)
}
