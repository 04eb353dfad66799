package metric

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/worklense/hrbi-backend-go/internal/domain/report"
	"github.com/worklense/hrbi-backend-go/internal/domain/workforce"
	"github.com/worklense/hrbi-backend-go/internal/pkg/fiscal"
)

// Column names of the leave and sales tables.
const (
	ColLeaveType    = "Leave Type"
	ColLeaveDays    = "Leave Days"
	ColSales        = "Sales"
	ColSalesCrore   = "Sales (INR Cr)"
	ColBusinessUnit = "Business Unit"
	unattributedKey = "Unassigned"
)

// LeaveDays sums the duration of leave starting within p.
func LeaveDays(t *workforce.LeaveTable, p fiscal.Period) float64 {
	if t == nil {
		return 0
	}
	total := decimal.Zero
	for _, r := range t.Records {
		if r.StartDate == nil || !p.Contains(*r.StartDate) {
			continue
		}
		total = total.Add(decimal.NewFromFloat(r.Duration()))
	}
	return total.InexactFloat64()
}

// LeaveByType returns leave days starting within p per leave type, largest
// first.
func LeaveByType(t *workforce.LeaveTable, p fiscal.Period) report.Table {
	totals := make(map[string]decimal.Decimal)
	if t != nil {
		for _, r := range t.Records {
			if r.StartDate == nil || !p.Contains(*r.StartDate) {
				continue
			}
			key := r.LeaveType
			if key == "" {
				key = unattributedKey
			}
			totals[key] = totals[key].Add(decimal.NewFromFloat(r.Duration()))
		}
	}
	return rankedTable(report.ChartLeaveByType, ColLeaveType, ColLeaveDays, totals)
}

// LeaveTrend returns total leave days per financial year.
func LeaveTrend(t *workforce.LeaveTable, years []int) report.Table {
	tbl := newTable(report.ChartLeaveTrend, ColFY, ColLeaveDays)
	for _, fy := range years {
		tbl.Rows = append(tbl.Rows, []any{fiscal.Label(fy), LeaveDays(t, fiscal.YearPeriod(fy))})
	}
	return tbl
}

// SalesTotal sums sale amounts dated within p.
func SalesTotal(t *workforce.SalesTable, p fiscal.Period) float64 {
	if t == nil {
		return 0
	}
	total := decimal.Zero
	for _, r := range t.Records {
		if r.Amount == nil || r.Date == nil || !p.Contains(*r.Date) {
			continue
		}
		total = total.Add(decimal.NewFromFloat(*r.Amount))
	}
	return total.InexactFloat64()
}

// SalesTrend returns sales per financial year in rupees and crores.
func SalesTrend(t *workforce.SalesTable, years []int) report.Table {
	tbl := newTable(report.ChartSalesTrend, ColFY, ColSales, ColSalesCrore)
	for _, fy := range years {
		total := SalesTotal(t, fiscal.YearPeriod(fy))
		tbl.Rows = append(tbl.Rows, []any{fiscal.Label(fy), total, Round(total/crore, 2)})
	}
	return tbl
}

// SalesByBusinessUnit returns sales dated within p per business unit, largest
// first.
func SalesByBusinessUnit(t *workforce.SalesTable, p fiscal.Period) report.Table {
	totals := make(map[string]decimal.Decimal)
	if t != nil {
		for _, r := range t.Records {
			if r.Amount == nil || r.Date == nil || !p.Contains(*r.Date) {
				continue
			}
			key := r.BusinessUnit
			if key == "" {
				key = unattributedKey
			}
			totals[key] = totals[key].Add(decimal.NewFromFloat(*r.Amount))
		}
	}
	return rankedTable(report.ChartSalesByBusinessUnit, ColBusinessUnit, ColSales, totals)
}

func rankedTable(name report.ChartID, labelCol, valueCol string, totals map[string]decimal.Decimal) report.Table {
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if c := totals[keys[i]].Cmp(totals[keys[j]]); c != 0 {
			return c > 0
		}
		return keys[i] < keys[j]
	})

	tbl := newTable(name, labelCol, valueCol)
	for _, k := range keys {
		tbl.Rows = append(tbl.Rows, []any{k, totals[k].InexactFloat64()})
	}
	return tbl
}
