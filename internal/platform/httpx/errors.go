// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/odyssey-erp/shiptrack/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807. Unexpected
// errors are logged and answered with a generic message.
func RespondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var verr *shared.ValidationError
	switch {
	case errors.As(err, &verr):
		JSON(w, http.StatusBadRequest, ValidationProblem{
			ProblemDetail: ProblemDetail{Title: "Validation Failed", Status: http.StatusBadRequest},
			Errors:        verr.Fields,
		})
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrUnauthorized), errors.Is(err, shared.ErrInvalidToken):
		Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
	case errors.Is(err, shared.ErrForbidden),
		errors.Is(err, shared.ErrCSRFTokenMissing),
		errors.Is(err, shared.ErrCSRFTokenMismatch):
		Problem(w, http.StatusForbidden, "Forbidden", "forbidden")
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, shared.ErrConflict):
		Problem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		if logger != nil {
			logger.Error("unexpected error",
				slog.Any("error", err),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		}
		Problem(w, http.StatusInternalServerError, "Internal Error", "unexpected failure")
	}
}
