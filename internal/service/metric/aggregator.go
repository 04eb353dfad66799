// Package metric computes headcount, attrition, cost and demographic
// aggregates over a workforce Dataset. Every function here is pure: results
// depend only on the arguments, zero denominators yield 0, and missing
// columns degrade the affected metric to 0 without failing the others.
package metric

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/worklense/hrbi-backend-go/internal/domain/workforce"
	"github.com/worklense/hrbi-backend-go/internal/pkg/fiscal"
)

// DefaultGenderTarget is the gender whose share is reported by default.
const DefaultGenderTarget = "Female"

// Options tunes the aggregation.
type Options struct {
	GenderTarget string
}

func (o Options) genderTarget() string {
	if o.GenderTarget == "" {
		return DefaultGenderTarget
	}
	return o.GenderTarget
}

// Summary holds every aggregate of a single as-of/period evaluation.
type Summary struct {
	AsOf              time.Time
	Period            fiscal.Period
	GenderTarget      string
	Active            int
	Leavers           int
	Joiners           int
	HeadcountStart    int
	HeadcountEnd      int
	AverageHeadcount  float64
	AttritionRate     float64
	TotalCost         float64
	AverageCost       float64
	GenderRatio       float64
	AverageTenure     float64
	AverageAge        float64
	AverageExperience float64
}

// Summarize evaluates the dataset as of asOf for the given period.
func Summarize(ds *workforce.Dataset, asOf time.Time, period fiscal.Period, opts Options) Summary {
	rows := ds.Rows()
	active := ActiveAt(rows, asOf)

	s := Summary{
		AsOf:         asOf,
		Period:       period,
		GenderTarget: opts.genderTarget(),
		Active:       len(active),
	}

	s.Leavers = countLeavers(rows, period)
	s.Joiners = countJoiners(rows, period)
	s.HeadcountStart = Headcount(rows, period.Start)
	s.HeadcountEnd = Headcount(rows, period.End)
	s.AverageHeadcount, s.AttritionRate = Attrition(s.Leavers, s.HeadcountStart, s.HeadcountEnd)

	if ds.HasColumn(workforce.ColTotalCTCPA) {
		total, n := sumCost(active)
		s.TotalCost = total
		s.AverageCost = ratio(total, float64(n))
	}

	if ds.HasColumn(workforce.ColGender) {
		target := s.GenderTarget
		matching := lo.CountBy(active, func(e workforce.Employee) bool { return e.Gender == target })
		s.GenderRatio = Percent(float64(matching), float64(len(active)))
	}

	s.AverageTenure = Mean(active, experience)
	s.AverageExperience = Mean(active, experience)
	s.AverageAge = Mean(active, func(e workforce.Employee) (float64, bool) {
		age, ok := e.AgeAt(asOf)
		return float64(age), ok
	})

	return s
}

// ActiveAt returns the rows active at t.
func ActiveAt(rows []workforce.Employee, t time.Time) []workforce.Employee {
	return lo.Filter(rows, func(e workforce.Employee, _ int) bool { return e.IsActive(t) })
}

// Headcount counts the rows active at t.
func Headcount(rows []workforce.Employee, t time.Time) int {
	return lo.CountBy(rows, func(e workforce.Employee) bool { return e.IsActive(t) })
}

// Attrition returns the average of start and end headcount and the attrition
// rate leavers / average * 100. Both are 0 when there is no headcount.
func Attrition(leavers, headcountStart, headcountEnd int) (float64, float64) {
	if headcountStart+headcountEnd == 0 {
		return 0, 0
	}
	avg := float64(headcountStart+headcountEnd) / 2
	return avg, float64(leavers) / avg * 100
}

// Percent returns part / whole * 100, or 0 when whole is 0.
func Percent(part, whole float64) float64 {
	return ratio(part, whole) * 100
}

// Mean averages the values produced by field, skipping rows for which field
// reports no value. It returns 0 for an empty input.
func Mean(rows []workforce.Employee, field func(workforce.Employee) (float64, bool)) float64 {
	var sum float64
	var n int
	for _, e := range rows {
		if v, ok := field(e); ok {
			sum += v
			n++
		}
	}
	return ratio(sum, float64(n))
}

// TotalCost sums total_ctc_pa over rows using decimal arithmetic.
func TotalCost(rows []workforce.Employee) float64 {
	total, _ := sumCost(rows)
	return total
}

func sumCost(rows []workforce.Employee) (float64, int) {
	total := decimal.Zero
	n := 0
	for _, e := range rows {
		if e.TotalCTCPA == nil {
			continue
		}
		total = total.Add(decimal.NewFromFloat(*e.TotalCTCPA))
		n++
	}
	return total.InexactFloat64(), n
}

func experience(e workforce.Employee) (float64, bool) {
	if e.TotalExpYrs == nil {
		return 0, false
	}
	return *e.TotalExpYrs, true
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
