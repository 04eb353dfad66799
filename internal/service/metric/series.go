package metric

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/worklense/hrbi-backend-go/internal/domain/report"
	"github.com/worklense/hrbi-backend-go/internal/domain/workforce"
	"github.com/worklense/hrbi-backend-go/internal/pkg/fiscal"
)

// Column names of the trend tables.
const (
	ColFY               = "FY"
	ColHeadcount        = "Headcount"
	ColCost             = "Cost"
	ColCostCrore        = "Cost (INR Cr)"
	ColLeavers          = "Leavers"
	ColJoiners          = "Joiners"
	ColAverageHeadcount = "Average Headcount"
	ColAttritionRate    = "Attrition Rate"
)

const crore = 1e7

// Snapshot returns the instant a financial year is measured at: its last day,
// or asOf when asOf falls inside the year.
func Snapshot(fy int, asOf time.Time) time.Time {
	p := fiscal.YearPeriod(fy)
	if p.Contains(asOf) {
		return asOf
	}
	return p.End
}

// HeadcountGrowth returns the active headcount at each year's snapshot.
func HeadcountGrowth(ds *workforce.Dataset, years []int, asOf time.Time) report.Table {
	rows := ds.Rows()
	t := newTable(report.ChartManpowerGrowth, ColFY, ColHeadcount)
	for _, fy := range years {
		t.Rows = append(t.Rows, []any{fiscal.Label(fy), Headcount(rows, Snapshot(fy, asOf))})
	}
	return t
}

// CostTrend returns the annual cost of the employees active at each year's
// snapshot, in rupees and in crores rounded to two places. Costs are 0 when
// the source has no compensation column.
func CostTrend(ds *workforce.Dataset, years []int, asOf time.Time) report.Table {
	rows := ds.Rows()
	hasCost := ds.HasColumn(workforce.ColTotalCTCPA)
	t := newTable(report.ChartManpowerCost, ColFY, ColCost, ColCostCrore)
	for _, fy := range years {
		var cost float64
		if hasCost {
			cost = TotalCost(ActiveAt(rows, Snapshot(fy, asOf)))
		}
		t.Rows = append(t.Rows, []any{fiscal.Label(fy), cost, Round(cost/crore, 2)})
	}
	return t
}

// AttritionTrend returns leavers, average headcount and attrition rate per
// financial year.
func AttritionTrend(ds *workforce.Dataset, years []int) report.Table {
	rows := ds.Rows()
	t := newTable(report.ChartAttrition, ColFY, ColLeavers, ColAverageHeadcount, ColAttritionRate)
	for _, fy := range years {
		p := fiscal.YearPeriod(fy)
		leavers := countLeavers(rows, p)
		avg, rate := Attrition(leavers, Headcount(rows, p.Start), Headcount(rows, p.End))
		t.Rows = append(t.Rows, []any{fiscal.Label(fy), leavers, avg, Round(rate, 2)})
	}
	return t
}

// Movement returns joiners and leavers per financial year.
func Movement(ds *workforce.Dataset, years []int) report.Table {
	rows := ds.Rows()
	t := newTable(report.ChartMovement, ColFY, ColJoiners, ColLeavers)
	for _, fy := range years {
		p := fiscal.YearPeriod(fy)
		t.Rows = append(t.Rows, []any{fiscal.Label(fy), countJoiners(rows, p), countLeavers(rows, p)})
	}
	return t
}

// Round rounds v half away from zero to places decimals.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func countLeavers(rows []workforce.Employee, p fiscal.Period) int {
	return lo.CountBy(rows, func(e workforce.Employee) bool {
		return e.DateOfJoining != nil && e.ExitedWithin(p.Start, p.End)
	})
}

func countJoiners(rows []workforce.Employee, p fiscal.Period) int {
	return lo.CountBy(rows, func(e workforce.Employee) bool {
		return e.JoinedWithin(p.Start, p.End)
	})
}

func newTable(name report.ChartID, columns ...string) report.Table {
	return report.Table{
		Name:    name,
		Title:   report.DefaultCatalog.Description(name),
		Columns: columns,
		Rows:    [][]any{},
	}
}
