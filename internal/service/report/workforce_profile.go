package report

import (
	"context"

	"github.com/worklense/hrbi-backend-go/internal/domain/report"
	"github.com/worklense/hrbi-backend-go/internal/service/metric"
)

const WorkforceProfileID = "workforce_profile"

// WorkforceProfile breaks the active workforce down by organisation
// attributes and compensation.
type WorkforceProfile struct {
	page page
}

func NewWorkforceProfile() *WorkforceProfile {
	return &WorkforceProfile{page: page{
		topic: "WorkforceProfile",
		kpis: []report.MetricID{
			report.MetricActiveHeadcount,
			report.MetricAverageCost,
			report.MetricAverageExp,
			report.MetricJoiners,
			report.MetricLeavers,
		},
		charts: []report.ChartID{
			report.ChartDepartmentHeadcount,
			report.ChartBandDistribution,
			report.ChartEmploymentType,
			report.ChartZoneHeadcount,
			report.ChartSalaryDistribution,
			report.ChartTotalExperience,
			report.ChartMovement,
		},
	}}
}

func (r *WorkforceProfile) ID() string    { return WorkforceProfileID }
func (r *WorkforceProfile) Title() string { return "Workforce Profile" }

func (r *WorkforceProfile) Run(ctx context.Context, in report.Input) (*report.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w := newWindow(in)
	ds := in.Data.Employees
	summary := metric.Summarize(ds, w.asOf, w.period, metric.Options{GenderTarget: in.GenderTarget})

	return r.page.build(r.Title(), in, w, summary.KPI, workforceCharts(ds, w)), nil
}
