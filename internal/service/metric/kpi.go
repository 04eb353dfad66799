package metric

import (
	"fmt"
	"time"

	"github.com/worklense/hrbi-backend-go/internal/domain/report"
	"github.com/worklense/hrbi-backend-go/internal/domain/workforce"
	"github.com/worklense/hrbi-backend-go/internal/pkg/fiscal"
)

// DefaultKPIs is the KPI strip shown when no configuration is present.
var DefaultKPIs = []report.MetricID{
	report.MetricActiveHeadcount,
	report.MetricAttritionRate,
	report.MetricJoiners,
	report.MetricTotalCost,
	report.MetricGenderRatio,
	report.MetricAverageTenure,
	report.MetricAverageAge,
	report.MetricAverageExp,
}

// ComputeKPIs evaluates the default KPI strip.
func ComputeKPIs(ds *workforce.Dataset, asOf time.Time, period fiscal.Period) []report.KPI {
	return Summarize(ds, asOf, period, Options{}).KPIs(DefaultKPIs)
}

// Compute evaluates a single workforce metric. ok is false for metrics that
// need leave or sales data.
func Compute(id report.MetricID, ds *workforce.Dataset, asOf time.Time, period fiscal.Period, opts Options) (float64, bool) {
	return Summarize(ds, asOf, period, opts).Value(id)
}

// Value returns the value of a summary metric. ok is false for metrics that
// are not workforce aggregates, such as leave or sales figures.
func (s Summary) Value(id report.MetricID) (float64, bool) {
	switch id {
	case report.MetricActiveHeadcount:
		return float64(s.Active), true
	case report.MetricLeavers:
		return float64(s.Leavers), true
	case report.MetricJoiners:
		return float64(s.Joiners), true
	case report.MetricHeadcountStart:
		return float64(s.HeadcountStart), true
	case report.MetricHeadcountEnd:
		return float64(s.HeadcountEnd), true
	case report.MetricAverageHeadcount:
		return s.AverageHeadcount, true
	case report.MetricAttritionRate:
		return s.AttritionRate, true
	case report.MetricTotalCost:
		return s.TotalCost, true
	case report.MetricAverageCost:
		return s.AverageCost, true
	case report.MetricGenderRatio:
		return s.GenderRatio, true
	case report.MetricAverageTenure:
		return s.AverageTenure, true
	case report.MetricAverageAge:
		return s.AverageAge, true
	case report.MetricAverageExp:
		return s.AverageExperience, true
	default:
		return 0, false
	}
}

// Label returns the default display label for a summary metric.
func (s Summary) Label(id report.MetricID) string {
	period := s.Period.Title()
	switch id {
	case report.MetricActiveHeadcount:
		return "Active Employees"
	case report.MetricLeavers:
		return fmt.Sprintf("Leavers (%s)", period)
	case report.MetricJoiners:
		return fmt.Sprintf("Joiners (%s)", period)
	case report.MetricHeadcountStart:
		return "Opening Headcount"
	case report.MetricHeadcountEnd:
		return "Closing Headcount"
	case report.MetricAverageHeadcount:
		return "Average Headcount"
	case report.MetricAttritionRate:
		return fmt.Sprintf("Attrition Rate (%s)", period)
	case report.MetricTotalCost:
		return "Total Cost (INR)"
	case report.MetricAverageCost:
		return "Avg Cost per Employee (INR)"
	case report.MetricGenderRatio:
		return s.GenderTarget + " Ratio"
	case report.MetricAverageTenure:
		return "Avg Tenure"
	case report.MetricAverageAge:
		return "Avg Age"
	case report.MetricAverageExp:
		return "Avg Total Exp"
	default:
		return string(id)
	}
}

// KPI wraps one summary metric. ok is false for non-summary metrics.
func (s Summary) KPI(id report.MetricID) (report.KPI, bool) {
	v, ok := s.Value(id)
	if !ok {
		return report.KPI{}, false
	}
	return report.KPI{ID: id, Label: s.Label(id), Value: v, Kind: id.Kind()}, true
}

// KPIs wraps the given summary metrics in order, skipping unknown ones.
func (s Summary) KPIs(ids []report.MetricID) []report.KPI {
	out := make([]report.KPI, 0, len(ids))
	for _, id := range ids {
		if k, ok := s.KPI(id); ok {
			out = append(out, k)
		}
	}
	return out
}
