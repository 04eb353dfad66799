package report

import (
	"context"

	"github.com/worklense/hrbi-backend-go/internal/domain/report"
	"github.com/worklense/hrbi-backend-go/internal/domain/workforce"
	"github.com/worklense/hrbi-backend-go/internal/service/distribution"
	"github.com/worklense/hrbi-backend-go/internal/service/metric"
)

const (
	ExecutiveSummaryID = "executive_summary"

	ColGender        = "Gender"
	ColQualification = "Qualification"
)

// ExecutiveSummary is the headline report: workforce KPIs, FY trends and
// demographic breakdowns of the active population.
type ExecutiveSummary struct {
	page page
}

func NewExecutiveSummary() *ExecutiveSummary {
	return &ExecutiveSummary{page: page{
		topic: "ExecutiveSummary",
		kpis:  metric.DefaultKPIs,
		charts: []report.ChartID{
			report.ChartManpowerGrowth,
			report.ChartManpowerCost,
			report.ChartAttrition,
			report.ChartGenderDiversity,
			report.ChartEducationDistribution,
			report.ChartAgeDistribution,
			report.ChartTenureDistribution,
			report.ChartTotalExperience,
		},
	}}
}

func (r *ExecutiveSummary) ID() string    { return ExecutiveSummaryID }
func (r *ExecutiveSummary) Title() string { return "Executive Summary" }

func (r *ExecutiveSummary) Run(ctx context.Context, in report.Input) (*report.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w := newWindow(in)
	ds := in.Data.Employees
	summary := metric.Summarize(ds, w.asOf, w.period, metric.Options{GenderTarget: in.GenderTarget})

	return r.page.build(r.Title(), in, w, summary.KPI, workforceCharts(ds, w)), nil
}

// workforceCharts is the chart set computable from the employee master alone.
func workforceCharts(ds *workforce.Dataset, w window) map[report.ChartID]chartBuilder {
	rows := ds.Rows()
	active := distribution.ActiveAt(w.asOf)
	buckets := func(id report.ChartID, field distribution.Field, scheme distribution.Scheme) chartBuilder {
		return func() report.Table {
			return distribution.Table(id, scheme.Name, distribution.BucketCounts(rows, field, scheme, active))
		}
	}
	categories := func(id report.ChartID, label, attr string) chartBuilder {
		return func() report.Table {
			return distribution.Table(id, label, distribution.CategoryCounts(rows, attr, active))
		}
	}

	return map[report.ChartID]chartBuilder{
		report.ChartManpowerGrowth: func() report.Table { return metric.HeadcountGrowth(ds, w.years, w.asOf) },
		report.ChartManpowerCost:   func() report.Table { return metric.CostTrend(ds, w.years, w.asOf) },
		report.ChartAttrition:      func() report.Table { return metric.AttritionTrend(ds, w.years) },
		report.ChartMovement:       func() report.Table { return metric.Movement(ds, w.years) },

		report.ChartGenderDiversity:       categories(report.ChartGenderDiversity, ColGender, workforce.ColGender),
		report.ChartEducationDistribution: categories(report.ChartEducationDistribution, ColQualification, workforce.ColQualificationType),
		report.ChartBandDistribution:      categories(report.ChartBandDistribution, "Band", workforce.ColBand),
		report.ChartDepartmentHeadcount:   categories(report.ChartDepartmentHeadcount, "Department", workforce.ColDepartment),
		report.ChartEmploymentType:        categories(report.ChartEmploymentType, "Employment Type", workforce.ColEmploymentType),
		report.ChartZoneHeadcount:         categories(report.ChartZoneHeadcount, "Zone", workforce.ColZone),

		report.ChartAgeDistribution:    buckets(report.ChartAgeDistribution, distribution.AgeAt(w.asOf), distribution.AgeScheme),
		report.ChartTenureDistribution: buckets(report.ChartTenureDistribution, distribution.Experience, distribution.TenureScheme),
		report.ChartTotalExperience:    buckets(report.ChartTotalExperience, distribution.Experience, distribution.ExperienceScheme),
		report.ChartSalaryDistribution: buckets(report.ChartSalaryDistribution, distribution.Compensation, distribution.CompensationScheme),
	}
}
