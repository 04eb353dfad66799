package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/worklense/hrbi-backend-go/internal/domain/dashboard"
	"github.com/worklense/hrbi-backend-go/internal/handler/http/middleware"
	"github.com/worklense/hrbi-backend-go/internal/handler/http/response"
	"github.com/worklense/hrbi-backend-go/internal/pkg/validator"
	"github.com/worklense/hrbi-backend-go/internal/repository/spreadsheet"
)

type DataHandler interface {
	// Reload re-reads every data source
	Reload(w http.ResponseWriter, r *http.Request)
	// Upload replaces the file behind one data source
	Upload(w http.ResponseWriter, r *http.Request)
}

type dataHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDataHandler(dashboardService dashboard.DashboardService) DataHandler {
	return &dataHandlerImpl{dashboardService: dashboardService}
}

// Reload handles POST /data/reload
func (h *dataHandlerImpl) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboardService.Reload(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}

	status, err := h.dashboardService.Status(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Dataset reloaded on request", "subject", middleware.Subject(r))
	response.SuccessWithMessage(w, "Dataset reloaded", status)
}

// Upload handles POST /data/{source}
func (h *dataHandlerImpl) Upload(w http.ResponseWriter, r *http.Request) {
	source := chi.URLParam(r, "source")
	if !validator.IsIdentifier(source) {
		response.HandleError(w, validator.ValidationErrors{{
			Field:   "source",
			Message: "source must contain only lowercase letters, digits and underscores",
		}})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, spreadsheet.MaxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(spreadsheet.MaxUploadSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		if err == http.ErrMissingFile {
			response.BadRequest(w, "File is required", nil)
			return
		}
		response.BadRequest(w, "Failed to read file", nil)
		return
	}
	defer file.Close()

	key, err := h.dashboardService.Replace(r.Context(), source, file, fileHeader.Filename)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Data source uploaded", "source", source, "file", key, "subject", middleware.Subject(r))
	response.Created(w, "Data source replaced", map[string]string{
		"source": source,
		"file":   key,
	})
}
