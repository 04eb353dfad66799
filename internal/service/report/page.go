// Package report holds the built-in dashboard reports and the registry that
// runs them.
package report

import (
	"time"

	"github.com/worklense/hrbi-backend-go/internal/domain/report"
	"github.com/worklense/hrbi-backend-go/internal/pkg/fiscal"
)

// DefaultTrailingYears is the length of the FY trend series when the input
// does not set one.
const DefaultTrailingYears = 5

// kpiSource resolves one metric for a report. ok is false when the report
// cannot compute the metric.
type kpiSource func(report.MetricID) (report.KPI, bool)

type chartBuilder func() report.Table

// page is the configurable layout shared by every report: a KPI strip and a
// list of charts, each overridable through the "<Topic>_KPIs" and
// "<Topic>_Charts" configuration sheets.
type page struct {
	topic  string
	kpis   []report.MetricID
	charts []report.ChartID
}

// window is the time frame derived from a report input.
type window struct {
	asOf    time.Time
	current int
	period  fiscal.Period
	years   []int
}

func newWindow(in report.Input) window {
	asOf := in.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}
	asOf = fiscal.Date(asOf)
	n := in.TrailingYears
	if n <= 0 {
		n = DefaultTrailingYears
	}
	current := fiscal.CurrentYear(asOf)
	return window{
		asOf:    asOf,
		current: current,
		period:  fiscal.YearPeriod(current),
		years:   fiscal.TrailingYears(current, n),
	}
}

func (w window) labels() []string {
	out := make([]string, len(w.years))
	for i, fy := range w.years {
		out[i] = fiscal.Label(fy)
	}
	return out
}

// build assembles the result from configuration, falling back to the page
// defaults when the topic has no sheet.
func (p page) build(title string, in report.Input, w window, kpi kpiSource, charts map[report.ChartID]chartBuilder) *report.Result {
	res := &report.Result{
		Title:       title,
		AsOf:        w.asOf,
		Period:      w.period.Title(),
		FiscalYears: w.labels(),
		KPIs:        []report.KPI{},
		Tables:      []report.Table{},
	}

	if rows, ok := in.Config.KPIsFor(p.topic); ok {
		for _, row := range rows {
			k, ok := kpi(row.Metric)
			if !ok {
				continue
			}
			if row.Label != "" {
				k.Label = row.Label
			}
			res.KPIs = append(res.KPIs, k)
		}
	} else {
		for _, id := range p.kpis {
			if k, ok := kpi(id); ok {
				res.KPIs = append(res.KPIs, k)
			}
		}
	}

	emit := func(id report.ChartID, title, chartType string) {
		build, ok := charts[id]
		if !ok {
			return
		}
		t := build()
		if title != "" {
			t.Title = title
		}
		t.ChartType = report.DefaultCatalog.Resolve(id, chartType)
		res.Tables = append(res.Tables, t)
	}

	seen := make(map[report.ChartID]struct{})
	if rows, ok := in.Config.ChartsFor(p.topic); ok {
		for _, row := range rows {
			if _, dup := seen[row.Chart]; dup {
				continue
			}
			seen[row.Chart] = struct{}{}
			emit(row.Chart, row.Title, row.ChartType)
		}
	} else {
		for _, id := range p.charts {
			emit(id, "", "")
		}
	}
	return res
}
