package dashboard

import (
	"fmt"
	"time"

	"github.com/worklense/hrbi-backend-go/internal/domain/report"
	"github.com/worklense/hrbi-backend-go/internal/pkg/validator"
)

// MaxTrailingYears bounds the number of financial years a render may span.
const MaxTrailingYears = 20

// RenderRequest carries the whole session state of one dashboard render.
// Nothing is kept between requests.
type RenderRequest struct {
	ReportID string
	// Selection maps a categorical attribute to its allowed values. Empty or
	// complete value sets leave the attribute unfiltered; unknown attributes
	// are ignored.
	Selection map[string][]string
	// AsOf is the measurement date. Nil means now.
	AsOf *time.Time
	// TrailingYears is the number of financial years in series charts. Zero
	// means the configured default.
	TrailingYears int
}

func (r *RenderRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ReportID) {
		errs = append(errs, validator.ValidationError{
			Field:   "report_id",
			Message: "report_id is required",
		})
	} else if !validator.IsIdentifier(r.ReportID) {
		errs = append(errs, validator.ValidationError{
			Field:   "report_id",
			Message: "report_id must contain only lowercase letters, digits and underscores",
		})
	}

	if r.TrailingYears < 0 || r.TrailingYears > MaxTrailingYears {
		errs = append(errs, validator.ValidationError{
			Field:   "trailing_years",
			Message: fmt.Sprintf("trailing_years must be between 1 and %d", MaxTrailingYears),
		})
	}

	if r.AsOf != nil && (r.AsOf.Year() < 1900 || r.AsOf.Year() > 2100) {
		errs = append(errs, validator.ValidationError{
			Field:   "as_of",
			Message: "as_of must be between 1900 and 2100",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Rendered is a report result together with the context it was computed in.
type Rendered struct {
	Result *report.Result `json:"result"`
	// Selection is the effective filter after dropping empty and complete
	// value sets.
	Selection  map[string][]string `json:"selection"`
	Population int                 `json:"population"`
	LoadedAt   time.Time           `json:"loaded_at"`
}

// FiscalYear describes one selectable financial year.
type FiscalYear struct {
	Label       string    `json:"label"`
	DisplayName string    `json:"display_name"`
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Current     bool      `json:"current"`
}

// DatasetStatus summarizes the loaded dataset.
type DatasetStatus struct {
	Sources  []string            `json:"sources"`
	Rows     map[string]int      `json:"rows"`
	Columns  map[string][]string `json:"columns"`
	Missing  []string            `json:"missing"`
	LoadedAt time.Time           `json:"loaded_at"`
}
