package report

import (
	"context"
	"fmt"

	"github.com/worklense/hrbi-backend-go/internal/domain/report"
	"github.com/worklense/hrbi-backend-go/internal/service/metric"
)

const SalesProductivityID = "sales_productivity"

// SalesProductivity relates sales booked by the filtered population to its
// size and cost.
type SalesProductivity struct {
	page page
}

func NewSalesProductivity() *SalesProductivity {
	return &SalesProductivity{page: page{
		topic: "SalesProductivity",
		kpis: []report.MetricID{
			report.MetricActiveHeadcount,
			report.MetricSales,
			report.MetricSalesPerHead,
			report.MetricSalesToCost,
		},
		charts: []report.ChartID{
			report.ChartSalesTrend,
			report.ChartSalesByBusinessUnit,
			report.ChartManpowerCost,
		},
	}}
}

func (r *SalesProductivity) ID() string    { return SalesProductivityID }
func (r *SalesProductivity) Title() string { return "Sales Productivity" }

func (r *SalesProductivity) Run(ctx context.Context, in report.Input) (*report.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w := newWindow(in)
	summary := metric.Summarize(in.Data.Employees, w.asOf, w.period, metric.Options{GenderTarget: in.GenderTarget})
	sales := metric.SalesTotal(in.Data.Sales, w.period)
	period := w.period.Title()

	kpi := func(id report.MetricID) (report.KPI, bool) {
		switch id {
		case report.MetricSales:
			return newKPI(id, fmt.Sprintf("Sales (%s)", period), sales), true
		case report.MetricSalesPerHead:
			return newKPI(id, "Sales per Employee (INR)", ratio(sales, float64(summary.Active))), true
		case report.MetricSalesToCost:
			return newKPI(id, "Sales to Cost", metric.Percent(sales, summary.TotalCost)), true
		default:
			return summary.KPI(id)
		}
	}

	charts := workforceCharts(in.Data.Employees, w)
	charts[report.ChartSalesTrend] = func() report.Table { return metric.SalesTrend(in.Data.Sales, w.years) }
	charts[report.ChartSalesByBusinessUnit] = func() report.Table { return metric.SalesByBusinessUnit(in.Data.Sales, w.period) }

	return r.page.build(r.Title(), in, w, kpi, charts), nil
}
