package report

import (
	"time"

	"github.com/worklense/hrbi-backend-go/internal/domain/workforce"
)

// KPIKind drives presentation formatting only, never computation.
type KPIKind string

const (
	KindInteger    KPIKind = "Integer"
	KindPercentage KPIKind = "Percentage"
	KindCurrency   KPIKind = "Currency"
	KindYears      KPIKind = "Years"
)

// KPI is a display-agnostic metric result.
type KPI struct {
	ID    MetricID `json:"id"`
	Label string   `json:"label"`
	Value float64  `json:"value"`
	Kind  KPIKind  `json:"kind"`
}

// Table is a chart-ready tabular series. Column names are part of the
// contract with the presentation layer and documented per chart id.
type Table struct {
	Name      ChartID  `json:"name"`
	Title     string   `json:"title"`
	ChartType string   `json:"chart_type"`
	Columns   []string `json:"columns"`
	Rows      [][]any  `json:"rows"`
}

// Column returns the values of the named column, or nil if absent.
func (t Table) Column(name string) []any {
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		if idx < len(row) {
			out = append(out, row[idx])
		} else {
			out = append(out, nil)
		}
	}
	return out
}

// Result is what a report hands to the presentation layer.
type Result struct {
	RunID       string    `json:"run_id"`
	ReportID    string    `json:"report_id"`
	Title       string    `json:"title"`
	AsOf        time.Time `json:"as_of"`
	Period      string    `json:"period"`
	FiscalYears []string  `json:"fiscal_years"`
	KPIs        []KPI     `json:"kpis"`
	Tables      []Table   `json:"tables"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Table returns the named table.
func (r *Result) Table(name ChartID) (Table, bool) {
	for _, t := range r.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// KPI returns the KPI computed for id.
func (r *Result) KPI(id MetricID) (KPI, bool) {
	for _, k := range r.KPIs {
		if k.ID == id {
			return k, true
		}
	}
	return KPI{}, false
}

// Input is everything a report receives. Data holds the already filtered
// tables; reports never see session state.
type Input struct {
	Data          workforce.Bundle
	Config        Config
	AsOf          time.Time
	TrailingYears int
	GenderTarget  string
}

// Info describes a registered report.
type Info struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
