package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/worklense/hrbi-backend-go/internal/domain/dashboard"
	"github.com/worklense/hrbi-backend-go/internal/domain/report"
	"github.com/worklense/hrbi-backend-go/internal/domain/workforce"
	"github.com/worklense/hrbi-backend-go/internal/pkg/jwt"
	"github.com/worklense/hrbi-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, jwt.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, jwt.ErrAdminRequired):
		Forbidden(w, "Admin role required")

	// Report errors
	case errors.Is(err, report.ErrReportNotFound):
		NotFound(w, "Report not found")
	case errors.Is(err, report.ErrInvalidTrailingFY):
		BadRequest(w, err.Error(), nil)

	// Dataset errors
	case errors.Is(err, dashboard.ErrDatasetNotLoaded):
		ServiceUnavailable(w, "Dataset has not been loaded yet")
	case errors.Is(err, workforce.ErrUnknownSource):
		NotFound(w, "Unknown data source")
	case errors.Is(err, workforce.ErrSourceNotWritable):
		Conflict(w, "Data source cannot be replaced")
	case errors.Is(err, workforce.ErrUnsupportedFormat),
		errors.Is(err, workforce.ErrInvalidSourceField),
		errors.Is(err, workforce.ErrMissingHeader),
		errors.Is(err, workforce.ErrEmptySheet):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled request error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
