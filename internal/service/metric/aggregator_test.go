package metric

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worklense/hrbi-backend-go/internal/domain/report"
	"github.com/worklense/hrbi-backend-go/internal/domain/workforce"
	"github.com/worklense/hrbi-backend-go/internal/pkg/fiscal"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func ptr(v float64) *float64 { return &v }

var allColumns = []string{
	workforce.ColEmployeeID, workforce.ColGender, workforce.ColDateOfJoining,
	workforce.ColDateOfExit, workforce.ColDateOfBirth, workforce.ColTotalCTCPA,
	workforce.ColTotalExpYrs,
}

// threeEmployees: A stays, B leaves during FY-26, C joins during FY-26.
func threeEmployees(cJoined *time.Time) *workforce.Dataset {
	return workforce.NewDataset([]workforce.Employee{
		{ID: "A", Gender: "Female", DateOfJoining: date(2020, 1, 1), DateOfBirth: date(1990, 6, 1), TotalCTCPA: ptr(1_200_000), TotalExpYrs: ptr(10)},
		{ID: "B", Gender: "Male", DateOfJoining: date(2021, 6, 1), DateOfExit: date(2025, 5, 1), TotalCTCPA: ptr(900_000), TotalExpYrs: ptr(4)},
		{ID: "C", Gender: "Male", DateOfJoining: cJoined, DateOfBirth: date(2000, 6, 1), TotalCTCPA: ptr(600_000), TotalExpYrs: ptr(2)},
	}, allColumns)
}

func TestSummarize_EndToEnd(t *testing.T) {
	asOf := *date(2025, 12, 31)
	s := Summarize(threeEmployees(date(2025, 6, 1)), asOf, fiscal.YearPeriod(2026), Options{})

	assert.Equal(t, 2, s.Active)
	assert.Equal(t, 1, s.Leavers)
	assert.Equal(t, 1, s.Joiners)
	assert.Equal(t, 2, s.HeadcountStart)
	assert.Equal(t, 2, s.HeadcountEnd)
	assert.Equal(t, 2.0, s.AverageHeadcount)
	assert.InDelta(t, 50.0, s.AttritionRate, 1e-9)

	assert.Equal(t, 1_800_000.0, s.TotalCost)
	assert.Equal(t, 900_000.0, s.AverageCost)
	assert.InDelta(t, 50.0, s.GenderRatio, 1e-9)
	assert.InDelta(t, 6.0, s.AverageTenure, 1e-9)
	assert.InDelta(t, 6.0, s.AverageExperience, 1e-9)
	// 35 and 25 full years.
	assert.InDelta(t, 30.0, s.AverageAge, 1e-9)
}

func TestSummarize_JoinerBeforePeriodCountsInOpeningHeadcount(t *testing.T) {
	asOf := *date(2025, 12, 31)
	s := Summarize(threeEmployees(date(2025, 1, 1)), asOf, fiscal.YearPeriod(2026), Options{})

	assert.Equal(t, 2, s.Active)
	assert.Equal(t, 1, s.Leavers)
	assert.Equal(t, 0, s.Joiners)
	assert.Equal(t, 3, s.HeadcountStart)
	assert.Equal(t, 2, s.HeadcountEnd)
	assert.InDelta(t, 40.0, s.AttritionRate, 1e-9)
}

func TestSummarize_NullJoiningExcluded(t *testing.T) {
	ds := workforce.NewDataset([]workforce.Employee{
		{ID: "A", DateOfJoining: date(2020, 1, 1)},
		{ID: "X", DateOfExit: date(2025, 6, 1)},
	}, allColumns)

	s := Summarize(ds, *date(2025, 12, 31), fiscal.YearPeriod(2026), Options{})
	assert.Equal(t, 1, s.Active)
	assert.Equal(t, 0, s.Leavers)
}

func TestAttrition(t *testing.T) {
	avg, rate := Attrition(22, 100, 120)
	assert.Equal(t, 110.0, avg)
	assert.InDelta(t, 20.0, rate, 1e-9)

	avg, rate = Attrition(5, 0, 0)
	assert.Zero(t, avg)
	assert.Zero(t, rate)
}

func TestSummarize_EmptyDataset(t *testing.T) {
	for name, ds := range map[string]*workforce.Dataset{
		"nil":   nil,
		"empty": workforce.NewDataset(nil, allColumns),
	} {
		t.Run(name, func(t *testing.T) {
			s := Summarize(ds, *date(2025, 12, 31), fiscal.YearPeriod(2026), Options{})
			assert.Zero(t, s.Active)
			assert.Zero(t, s.AttritionRate)
			assert.Zero(t, s.AverageAge)
			assert.Zero(t, s.AverageTenure)
			assert.Zero(t, s.GenderRatio)
			assert.Zero(t, s.AverageCost)
		})
	}
}

func TestSummarize_MissingColumnsDegrade(t *testing.T) {
	ds := workforce.NewDataset([]workforce.Employee{
		{ID: "A", Gender: "Female", DateOfJoining: date(2020, 1, 1), TotalCTCPA: ptr(100)},
	}, []string{workforce.ColEmployeeID, workforce.ColDateOfJoining})

	s := Summarize(ds, *date(2025, 12, 31), fiscal.YearPeriod(2026), Options{})
	assert.Equal(t, 1, s.Active)
	assert.Zero(t, s.TotalCost)
	assert.Zero(t, s.GenderRatio)
}

func TestSummarize_GenderTarget(t *testing.T) {
	s := Summarize(threeEmployees(date(2025, 6, 1)), *date(2025, 12, 31), fiscal.YearPeriod(2026), Options{GenderTarget: "Male"})
	assert.InDelta(t, 50.0, s.GenderRatio, 1e-9)
	assert.Equal(t, "Male Ratio", s.Label(report.MetricGenderRatio))
}

func TestComputeKPIs(t *testing.T) {
	kpis := ComputeKPIs(threeEmployees(date(2025, 6, 1)), *date(2025, 12, 31), fiscal.YearPeriod(2026))
	require.Len(t, kpis, len(DefaultKPIs))

	labels := make([]string, len(kpis))
	for i, k := range kpis {
		labels[i] = k.Label
	}
	assert.Equal(t, []string{
		"Active Employees",
		"Attrition Rate (Financial Year 25-26)",
		"Joiners (Financial Year 25-26)",
		"Total Cost (INR)",
		"Female Ratio",
		"Avg Tenure",
		"Avg Age",
		"Avg Total Exp",
	}, labels)
	assert.Equal(t, report.KindPercentage, kpis[1].Kind)
	assert.Equal(t, report.KindCurrency, kpis[3].Kind)
}

func TestCompute(t *testing.T) {
	ds := threeEmployees(date(2025, 6, 1))
	period := fiscal.YearPeriod(2026)

	v, ok := Compute(report.MetricHeadcountStart, ds, *date(2025, 12, 31), period, Options{})
	require.True(t, ok)
	assert.Equal(t, 2.0, v)

	_, ok = Compute(report.MetricSales, ds, *date(2025, 12, 31), period, Options{})
	assert.False(t, ok)
}
