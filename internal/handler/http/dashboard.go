package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/worklense/hrbi-backend-go/internal/domain/dashboard"
	"github.com/worklense/hrbi-backend-go/internal/domain/report"
	"github.com/worklense/hrbi-backend-go/internal/handler/http/response"
	"github.com/worklense/hrbi-backend-go/internal/pkg/format"
	"github.com/worklense/hrbi-backend-go/internal/pkg/validator"
)

type DashboardHandler interface {
	// ListReports returns the registered reports
	ListReports(w http.ResponseWriter, r *http.Request)
	// Render runs one report over the filtered dataset
	Render(w http.ResponseWriter, r *http.Request)
	// FilterOptions returns sidebar values per filter attribute
	FilterOptions(w http.ResponseWriter, r *http.Request)
	// FiscalYears returns the selectable financial years
	FiscalYears(w http.ResponseWriter, r *http.Request)
	// Charts returns the chart catalog
	Charts(w http.ResponseWriter, r *http.Request)
	// Status returns row counts of the loaded dataset
	Status(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
	defaultReport    string
}

// NewDashboardHandler returns the report handler. defaultReport is the report
// a client opens first.
func NewDashboardHandler(dashboardService dashboard.DashboardService, defaultReport string) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService, defaultReport: defaultReport}
}

// renderBody is the JSON body of a render request.
type renderBody struct {
	Selection     map[string][]string `json:"selection"`
	AsOf          string              `json:"as_of"` // format: YYYY-MM-DD or RFC 3339, default: now
	TrailingYears int                 `json:"trailing_years"`
}

type kpiView struct {
	report.KPI
	Display string `json:"display"`
	Exact   string `json:"exact,omitempty"`
}

type renderView struct {
	*dashboard.Rendered
	KPIs []kpiView `json:"kpis"`
}

type chartView struct {
	ID          report.ChartID `json:"id"`
	Description string         `json:"description"`
	ChartTypes  []string       `json:"chart_types"`
}

// ListReports handles GET /reports
func (h *dashboardHandlerImpl) ListReports(w http.ResponseWriter, r *http.Request) {
	reports := h.dashboardService.Reports(r.Context())

	def := h.defaultReport
	if len(reports) > 0 && !slices.ContainsFunc(reports, func(i report.Info) bool { return i.ID == def }) {
		def = reports[0].ID
	}
	response.Success(w, map[string]any{
		"default": def,
		"reports": reports,
	})
}

// Render handles POST /reports/{reportID}/render
func (h *dashboardHandlerImpl) Render(w http.ResponseWriter, r *http.Request) {
	var body renderBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	req := dashboard.RenderRequest{
		ReportID:      chi.URLParam(r, "reportID"),
		Selection:     body.Selection,
		TrailingYears: body.TrailingYears,
	}
	if body.AsOf != "" {
		asOf, ok := validator.IsValidDate(body.AsOf)
		if !ok {
			asOf, ok = validator.IsValidDateTime(body.AsOf)
		}
		if !ok {
			response.HandleError(w, validator.ValidationErrors{{
				Field:   "as_of",
				Message: "as_of must be a YYYY-MM-DD date or an RFC 3339 timestamp",
			}})
			return
		}
		req.AsOf = &asOf
	}

	result, err := h.dashboardService.Render(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	kpis := make([]kpiView, 0, len(result.Result.KPIs))
	for _, k := range result.Result.KPIs {
		kpis = append(kpis, kpiView{
			KPI:     k,
			Display: format.KPI(k.Value, k.Kind),
			Exact:   format.Exact(k.Value, k.Kind),
		})
	}
	response.Success(w, renderView{Rendered: result, KPIs: kpis})
}

// FilterOptions handles GET /filters
func (h *dashboardHandlerImpl) FilterOptions(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.FilterOptions(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// FiscalYears handles GET /fiscal-years
func (h *dashboardHandlerImpl) FiscalYears(w http.ResponseWriter, r *http.Request) {
	n := 0 // default: configured trailing years
	if s := r.URL.Query().Get("n"); s != "" {
		v, err := strconv.Atoi(s)
		if !validator.IsNumeric(s) || err != nil || v < 1 || v > dashboard.MaxTrailingYears {
			response.HandleError(w, validator.ValidationErrors{{
				Field:   "n",
				Message: "n must be between 1 and " + strconv.Itoa(dashboard.MaxTrailingYears),
			}})
			return
		}
		n = v
	}

	response.Success(w, h.dashboardService.FiscalYears(r.Context(), n))
}

// Charts handles GET /charts
func (h *dashboardHandlerImpl) Charts(w http.ResponseWriter, r *http.Request) {
	charts := make([]chartView, 0, len(report.DefaultCatalog))
	for id, def := range report.DefaultCatalog {
		charts = append(charts, chartView{ID: id, Description: def.Description, ChartTypes: def.ChartTypes})
	}
	sort.Slice(charts, func(i, j int) bool { return charts[i].ID < charts[j].ID })

	response.Success(w, charts)
}

// Status handles GET /status
func (h *dashboardHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.Status(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]any{
		"sources":   result.Sources,
		"rows":      result.Rows,
		"columns":   result.Columns,
		"missing":   result.Missing,
		"loaded_at": result.LoadedAt.Format(time.RFC3339),
	})
}
