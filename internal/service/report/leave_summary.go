package report

import (
	"context"
	"fmt"

	"github.com/worklense/hrbi-backend-go/internal/domain/report"
	"github.com/worklense/hrbi-backend-go/internal/service/metric"
)

const LeaveSummaryID = "leave_summary"

// LeaveSummary reports leave taken by the filtered population.
type LeaveSummary struct {
	page page
}

func NewLeaveSummary() *LeaveSummary {
	return &LeaveSummary{page: page{
		topic: "LeaveSummary",
		kpis: []report.MetricID{
			report.MetricActiveHeadcount,
			report.MetricLeaveDays,
			report.MetricLeaveDaysPerHead,
		},
		charts: []report.ChartID{
			report.ChartLeaveByType,
			report.ChartLeaveTrend,
		},
	}}
}

func (r *LeaveSummary) ID() string    { return LeaveSummaryID }
func (r *LeaveSummary) Title() string { return "Leave Summary" }

func (r *LeaveSummary) Run(ctx context.Context, in report.Input) (*report.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w := newWindow(in)
	summary := metric.Summarize(in.Data.Employees, w.asOf, w.period, metric.Options{GenderTarget: in.GenderTarget})
	days := metric.LeaveDays(in.Data.Leaves, w.period)
	period := w.period.Title()

	kpi := func(id report.MetricID) (report.KPI, bool) {
		switch id {
		case report.MetricLeaveDays:
			return newKPI(id, fmt.Sprintf("Leave Days (%s)", period), days), true
		case report.MetricLeaveDaysPerHead:
			return newKPI(id, "Leave Days per Employee", ratio(days, float64(summary.Active))), true
		default:
			return summary.KPI(id)
		}
	}

	charts := workforceCharts(in.Data.Employees, w)
	charts[report.ChartLeaveByType] = func() report.Table { return metric.LeaveByType(in.Data.Leaves, w.period) }
	charts[report.ChartLeaveTrend] = func() report.Table { return metric.LeaveTrend(in.Data.Leaves, w.years) }

	return r.page.build(r.Title(), in, w, kpi, charts), nil
}

func newKPI(id report.MetricID, label string, value float64) report.KPI {
	return report.KPI{ID: id, Label: label, Value: value, Kind: id.Kind()}
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
