package dashboard

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worklense/hrbi-backend-go/internal/domain/dashboard"
	"github.com/worklense/hrbi-backend-go/internal/domain/report"
	"github.com/worklense/hrbi-backend-go/internal/domain/workforce"
	"github.com/worklense/hrbi-backend-go/internal/pkg/validator"
	"github.com/worklense/hrbi-backend-go/internal/service/dataset"
	reportsvc "github.com/worklense/hrbi-backend-go/internal/service/report"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func num(v float64) *float64 { return &v }

type staticRepo struct{ bundle workforce.Bundle }

func (r staticRepo) LoadEmployees(context.Context) (*workforce.Dataset, error) {
	return r.bundle.Employees, nil
}
func (r staticRepo) LoadLeaves(context.Context) (*workforce.LeaveTable, error) {
	return r.bundle.Leaves, nil
}
func (r staticRepo) LoadSales(context.Context) (*workforce.SalesTable, error) {
	return r.bundle.Sales, nil
}

type staticConfig struct {
	cfg report.Config
	err error
}

func (c staticConfig) LoadConfig(context.Context) (report.Config, error) { return c.cfg, c.err }

type renderRecorder struct {
	ids  []string
	errs int
}

func (r *renderRecorder) RecordRender(id string, d time.Duration, err error) {
	r.ids = append(r.ids, id)
	if err != nil {
		r.errs++
	}
}

func sampleBundle() workforce.Bundle {
	employees := workforce.NewDataset([]workforce.Employee{
		{ID: "A", Department: "Sales", Zone: "North", Gender: "Female", DateOfJoining: day(2020, 1, 1), TotalCTCPA: num(1_200_000)},
		{ID: "B", Department: "Finance", Zone: "South", Gender: "Male", DateOfJoining: day(2021, 6, 1), DateOfExit: day(2025, 5, 1), TotalCTCPA: num(900_000)},
		{ID: "C", Department: "Sales", Zone: "South", Gender: "Male", DateOfJoining: day(2025, 6, 1), TotalCTCPA: num(600_000)},
	}, []string{
		workforce.ColEmployeeID, workforce.ColDepartment, workforce.ColZone, workforce.ColGender,
		workforce.ColDateOfJoining, workforce.ColDateOfExit, workforce.ColTotalCTCPA,
	})
	return workforce.Bundle{
		Employees: employees,
		Leaves: &workforce.LeaveTable{Records: []workforce.LeaveRecord{
			{EmployeeID: "A", LeaveType: "Sick", StartDate: day(2025, 5, 1), Days: num(2)},
			{EmployeeID: "B", LeaveType: "Sick", StartDate: day(2025, 4, 10), Days: num(5)},
		}},
		Sales: &workforce.SalesTable{Records: []workforce.SaleRecord{
			{EmployeeID: "A", Date: day(2025, 5, 1), Amount: num(1_000_000)},
			{Date: day(2025, 6, 1), Amount: num(500_000)},
		}},
	}
}

// noMasterRepo serves the secondary sources while the employee master is
// missing.
type noMasterRepo struct{ staticRepo }

func (noMasterRepo) LoadEmployees(context.Context) (*workforce.Dataset, error) {
	return nil, workforce.ErrSourceNotFound
}

func newTestService(t *testing.T, cfg report.ConfigRepository, opts ...Option) (dashboard.DashboardService, *dataset.Store) {
	t.Helper()
	return newServiceOver(t, staticRepo{bundle: sampleBundle()}, cfg, opts...)
}

func newServiceOver(t *testing.T, repo workforce.Repository, cfg report.ConfigRepository, opts ...Option) (dashboard.DashboardService, *dataset.Store) {
	t.Helper()
	store := dataset.NewStore(repo)
	require.NoError(t, store.Reload(context.Background()))
	now := func() time.Time { return time.Date(2025, 12, 31, 10, 0, 0, 0, time.UTC) }
	opts = append([]Option{WithClock(now)}, opts...)
	return NewDashboardService(store, reportsvc.NewDefaultRegistry(), cfg, opts...), store
}

func kpiValue(t *testing.T, r *dashboard.Rendered, id report.MetricID) float64 {
	t.Helper()
	k, ok := r.Result.KPI(id)
	require.True(t, ok, "kpi %s", id)
	return k.Value
}

func TestRender_ExecutiveSummary(t *testing.T) {
	rec := &renderRecorder{}
	svc, _ := newTestService(t, staticConfig{}, WithRecorder(rec))

	out, err := svc.Render(context.Background(), dashboard.RenderRequest{ReportID: reportsvc.ExecutiveSummaryID})
	require.NoError(t, err)

	assert.Equal(t, 3, out.Population)
	assert.Equal(t, 2.0, kpiValue(t, out, report.MetricActiveHeadcount))
	assert.Equal(t, 50.0, kpiValue(t, out, report.MetricAttritionRate))
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), out.Result.AsOf)
	assert.Equal(t, []string{"FY-22", "FY-23", "FY-24", "FY-25", "FY-26"}, out.Result.FiscalYears)
	assert.Empty(t, out.Selection)
	assert.Equal(t, []string{reportsvc.ExecutiveSummaryID}, rec.ids)
}

func TestRender_FilterRestrictsAllSources(t *testing.T) {
	svc, _ := newTestService(t, staticConfig{})
	ctx := context.Background()
	sel := map[string][]string{workforce.ColDepartment: {"Sales"}}

	leave, err := svc.Render(ctx, dashboard.RenderRequest{ReportID: reportsvc.LeaveSummaryID, Selection: sel})
	require.NoError(t, err)
	assert.Equal(t, 2, leave.Population)
	assert.Equal(t, 2.0, kpiValue(t, leave, report.MetricLeaveDays))
	assert.Equal(t, map[string][]string{workforce.ColDepartment: {"Sales"}}, leave.Selection)

	sales, err := svc.Render(ctx, dashboard.RenderRequest{ReportID: reportsvc.SalesProductivityID, Selection: sel})
	require.NoError(t, err)
	assert.Equal(t, 1_000_000.0, kpiValue(t, sales, report.MetricSales))

	all, err := svc.Render(ctx, dashboard.RenderRequest{ReportID: reportsvc.SalesProductivityID})
	require.NoError(t, err)
	assert.Equal(t, 1_500_000.0, kpiValue(t, all, report.MetricSales))
}

func TestRender_UnfilteredKeepsSecondarySources(t *testing.T) {
	ctx := context.Background()
	b := sampleBundle()

	rows := b.Employees.Rows()
	for i := range rows {
		rows[i].ID = ""
	}
	withoutIDs := staticRepo{bundle: workforce.Bundle{
		Employees: workforce.NewDataset(rows, []string{workforce.ColDepartment, workforce.ColZone, workforce.ColDateOfJoining}),
		Leaves:    b.Leaves,
		Sales:     b.Sales,
	}}

	cases := []struct {
		name string
		repo workforce.Repository
	}{
		{"master without employee ids", withoutIDs},
		{"master missing", noMasterRepo{staticRepo{bundle: b}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newServiceOver(t, tc.repo, staticConfig{})

			leave, err := svc.Render(ctx, dashboard.RenderRequest{ReportID: reportsvc.LeaveSummaryID})
			require.NoError(t, err)
			assert.Equal(t, 7.0, kpiValue(t, leave, report.MetricLeaveDays))

			sales, err := svc.Render(ctx, dashboard.RenderRequest{ReportID: reportsvc.SalesProductivityID})
			require.NoError(t, err)
			assert.Equal(t, 1_500_000.0, kpiValue(t, sales, report.MetricSales))
		})
	}
}

func TestRender_UnfilteredKeepsRowsOutsideMaster(t *testing.T) {
	b := sampleBundle()
	b.Leaves.Records = append(b.Leaves.Records, workforce.LeaveRecord{EmployeeID: "Z", LeaveType: "Sick", StartDate: day(2025, 7, 1), Days: num(3)})
	svc, _ := newServiceOver(t, staticRepo{bundle: b}, staticConfig{})
	ctx := context.Background()

	all, err := svc.Render(ctx, dashboard.RenderRequest{ReportID: reportsvc.LeaveSummaryID})
	require.NoError(t, err)
	assert.Equal(t, 10.0, kpiValue(t, all, report.MetricLeaveDays))

	filtered, err := svc.Render(ctx, dashboard.RenderRequest{
		ReportID:  reportsvc.LeaveSummaryID,
		Selection: map[string][]string{workforce.ColDepartment: {"Sales"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2.0, kpiValue(t, filtered, report.MetricLeaveDays))
}

func TestRender_LocalClockUsesCalendarDate(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	employees := workforce.NewDataset([]workforce.Employee{
		{ID: "A", DateOfJoining: day(2020, 1, 1)},
		{ID: "D", DateOfJoining: day(2025, 4, 1)},
		{ID: "E", DateOfJoining: day(2025, 9, 1)},
	}, []string{workforce.ColEmployeeID, workforce.ColDateOfJoining})
	now := func() time.Time { return time.Date(2025, 4, 1, 3, 0, 0, 0, ist) }
	svc, _ := newServiceOver(t, staticRepo{bundle: workforce.Bundle{Employees: employees}}, staticConfig{}, WithClock(now))
	ctx := context.Background()

	out, err := svc.Render(ctx, dashboard.RenderRequest{ReportID: reportsvc.ExecutiveSummaryID, TrailingYears: 2})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), out.Result.AsOf)
	assert.Equal(t, 2.0, kpiValue(t, out, report.MetricActiveHeadcount))

	growth, ok := out.Result.Table(report.ChartManpowerGrowth)
	require.True(t, ok)
	assert.Equal(t, []any{"FY-26", 2}, growth.Rows[len(growth.Rows)-1])

	explicit := time.Date(2025, 4, 1, 1, 0, 0, 0, ist)
	out, err = svc.Render(ctx, dashboard.RenderRequest{ReportID: reportsvc.ExecutiveSummaryID, AsOf: &explicit})
	require.NoError(t, err)
	assert.Equal(t, 2.0, kpiValue(t, out, report.MetricActiveHeadcount))
}

func TestRender_FullSelectionIsUnfiltered(t *testing.T) {
	svc, _ := newTestService(t, staticConfig{})
	out, err := svc.Render(context.Background(), dashboard.RenderRequest{
		ReportID:  reportsvc.ExecutiveSummaryID,
		Selection: map[string][]string{workforce.ColZone: {"North", "South"}, workforce.ColDepartment: {}},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Population)
	assert.Empty(t, out.Selection)
}

func TestRender_AsOfAndTrailingYears(t *testing.T) {
	svc, _ := newTestService(t, staticConfig{})
	out, err := svc.Render(context.Background(), dashboard.RenderRequest{
		ReportID:      reportsvc.ExecutiveSummaryID,
		AsOf:          day(2025, 3, 31),
		TrailingYears: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"FY-24", "FY-25"}, out.Result.FiscalYears)
	assert.Equal(t, 2.0, kpiValue(t, out, report.MetricActiveHeadcount))
}

func TestRender_BrokenConfigFallsBackToDefaults(t *testing.T) {
	svc, _ := newTestService(t, staticConfig{err: report.ErrInvalidConfig})
	out, err := svc.Render(context.Background(), dashboard.RenderRequest{ReportID: reportsvc.ExecutiveSummaryID})
	require.NoError(t, err)
	assert.Len(t, out.Result.KPIs, 8)
}

func TestRender_Errors(t *testing.T) {
	rec := &renderRecorder{}
	svc, _ := newTestService(t, staticConfig{}, WithRecorder(rec))
	ctx := context.Background()

	_, err := svc.Render(ctx, dashboard.RenderRequest{TrailingYears: 50, Selection: map[string][]string{"salary": {"x"}}})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)

	stale, err := svc.Render(ctx, dashboard.RenderRequest{
		ReportID:  reportsvc.ExecutiveSummaryID,
		Selection: map[string][]string{"salary": {"x"}},
	})
	require.NoError(t, err, "unknown filter attributes are ignored")
	assert.Empty(t, stale.Selection)
	assert.Equal(t, 3, stale.Population)

	_, err = svc.Render(ctx, dashboard.RenderRequest{ReportID: "Executive Summary"})
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "report_id")

	_, err = svc.Render(ctx, dashboard.RenderRequest{ReportID: "nope"})
	assert.ErrorIs(t, err, report.ErrReportNotFound)
	assert.Equal(t, 1, rec.errs)

	empty := NewDashboardService(dataset.NewStore(staticRepo{}), reportsvc.NewDefaultRegistry(), staticConfig{})
	_, err = empty.Render(ctx, dashboard.RenderRequest{ReportID: reportsvc.ExecutiveSummaryID})
	assert.ErrorIs(t, err, dashboard.ErrDatasetNotLoaded)
	_, err = empty.FilterOptions(ctx)
	assert.ErrorIs(t, err, dashboard.ErrDatasetNotLoaded)
}

func TestFilterOptionsAndStatus(t *testing.T) {
	svc, _ := newTestService(t, staticConfig{})
	ctx := context.Background()

	opts, err := svc.FilterOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Finance", "Sales"}, opts[workforce.ColDepartment])
	assert.Equal(t, []string{"North", "South"}, opts[workforce.ColZone])
	_, hasBand := opts[workforce.ColBand]
	assert.False(t, hasBand)

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, status.Rows[workforce.SourceEmployeeMaster])
	assert.Equal(t, workforce.Sources, status.Sources)
	assert.Contains(t, status.Columns[workforce.SourceEmployeeMaster], workforce.ColDepartment)
	assert.Equal(t, []string{}, status.Columns[workforce.SourceLeaveRecords])
	assert.Empty(t, status.Missing)
}

func TestFiscalYears(t *testing.T) {
	svc, _ := newTestService(t, staticConfig{})
	years := svc.FiscalYears(context.Background(), 2)
	require.Len(t, years, 2)

	assert.Equal(t, "FY-25", years[0].Label)
	assert.False(t, years[0].Current)
	assert.Equal(t, "FY-26", years[1].Label)
	assert.Equal(t, "Financial Year 2026", years[1].DisplayName)
	assert.Equal(t, "Financial Year 25-26", years[1].Title)
	assert.True(t, years[1].Current)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), years[1].Start)
}

func TestReportsAndReplace(t *testing.T) {
	svc, _ := newTestService(t, staticConfig{})
	assert.Len(t, svc.Reports(context.Background()), 4)

	_, err := svc.Replace(context.Background(), workforce.SourceLeaveRecords, strings.NewReader("employee_id\n"), "x.csv")
	assert.True(t, errors.Is(err, workforce.ErrSourceNotWritable))
}
