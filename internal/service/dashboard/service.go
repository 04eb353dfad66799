package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/worklense/hrbi-backend-go/internal/domain/dashboard"
	"github.com/worklense/hrbi-backend-go/internal/domain/report"
	"github.com/worklense/hrbi-backend-go/internal/domain/workforce"
	"github.com/worklense/hrbi-backend-go/internal/pkg/fiscal"
	"github.com/worklense/hrbi-backend-go/internal/service/dataset"
	"github.com/worklense/hrbi-backend-go/internal/service/filter"
)

// Store is the dataset holder the service reads from.
type Store interface {
	Current() (*dataset.Snapshot, error)
	Reload(ctx context.Context) error
	Replace(ctx context.Context, source string, file io.Reader, filename string) (string, error)
}

// RenderRecorder receives render outcomes.
type RenderRecorder interface {
	RecordRender(reportID string, d time.Duration, err error)
}

// Defaults fill in render parameters the request leaves empty.
type Defaults struct {
	TrailingYears int
	GenderTarget  string
}

type DashboardServiceImpl struct {
	store    Store
	registry report.Registry
	config   report.ConfigRepository
	recorder RenderRecorder
	defaults Defaults
	now      func() time.Time
}

type Option func(*DashboardServiceImpl)

func WithClock(now func() time.Time) Option {
	return func(s *DashboardServiceImpl) { s.now = now }
}

func WithRecorder(r RenderRecorder) Option {
	return func(s *DashboardServiceImpl) { s.recorder = r }
}

func WithDefaults(d Defaults) Option {
	return func(s *DashboardServiceImpl) { s.defaults = d }
}

func NewDashboardService(store Store, registry report.Registry, config report.ConfigRepository, opts ...Option) dashboard.DashboardService {
	s := &DashboardServiceImpl{
		store:    store,
		registry: registry,
		config:   config,
		defaults: Defaults{TrailingYears: 5, GenderTarget: "Female"},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Render implements dashboard.DashboardService.
func (s *DashboardServiceImpl) Render(ctx context.Context, req dashboard.RenderRequest) (res *dashboard.Rendered, err error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		if s.recorder != nil {
			s.recorder.RecordRender(req.ReportID, time.Since(start), err)
		}
	}()

	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if _, err := s.registry.Get(req.ReportID); err != nil {
		return nil, err
	}

	cfg, err := s.config.LoadConfig(ctx)
	if err != nil {
		// A broken configuration falls back to report defaults.
		slog.Warn("Report configuration unavailable, using defaults", "error", err)
		cfg = report.Config{}
	}

	sel := filter.Selection(req.Selection)
	employees := filter.Apply(snap.Bundle.Employees, sel)

	in := report.Input{
		Data:          restrict(snap.Bundle, employees, sel),
		Config:        cfg,
		AsOf:          s.asOf(req.AsOf),
		TrailingYears: s.trailing(req.TrailingYears),
		GenderTarget:  s.defaults.GenderTarget,
	}

	result, err := s.registry.Run(ctx, req.ReportID, in)
	if err != nil {
		slog.Error("Report render failed", "report_id", req.ReportID, "error", err)
		return nil, err
	}

	slog.Info("Report rendered",
		"report_id", req.ReportID,
		"run_id", result.RunID,
		"population", employees.Len(),
		"duration", time.Since(start),
	)
	return &dashboard.Rendered{
		Result:     result,
		Selection:  sel.Normalize(snap.Bundle.Employees),
		Population: employees.Len(),
		LoadedAt:   snap.LoadedAt,
	}, nil
}

// FilterOptions implements dashboard.DashboardService.
func (s *DashboardServiceImpl) FilterOptions(ctx context.Context) (map[string][]string, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return filter.Options(snap.Bundle.Employees, workforce.FilterAttributes), nil
}

// Reports implements dashboard.DashboardService.
func (s *DashboardServiceImpl) Reports(ctx context.Context) []report.Info {
	return s.registry.List()
}

// FiscalYears implements dashboard.DashboardService.
func (s *DashboardServiceImpl) FiscalYears(ctx context.Context, n int) []dashboard.FiscalYear {
	current := fiscal.CurrentYear(s.now())
	years := fiscal.TrailingYears(current, min(s.trailing(n), dashboard.MaxTrailingYears))
	out := make([]dashboard.FiscalYear, 0, len(years))
	for _, fy := range years {
		p := fiscal.YearPeriod(fy)
		label := fiscal.Label(fy)
		out = append(out, dashboard.FiscalYear{
			Label:       label,
			DisplayName: fiscal.DisplayName(label),
			Title:       p.Title(),
			Start:       p.Start,
			End:         p.End,
			Current:     fy == current,
		})
	}
	return out
}

// Status implements dashboard.DashboardService.
func (s *DashboardServiceImpl) Status(ctx context.Context) (*dashboard.DatasetStatus, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	missing := snap.Missing
	if missing == nil {
		missing = []string{}
	}
	return &dashboard.DatasetStatus{
		Sources:  snap.Bundle.Names(),
		Rows:     snap.Bundle.Rows(),
		Columns:  snap.Bundle.Columns(),
		Missing:  missing,
		LoadedAt: snap.LoadedAt,
	}, nil
}

// Reload implements dashboard.DashboardService.
func (s *DashboardServiceImpl) Reload(ctx context.Context) error {
	return s.store.Reload(ctx)
}

// Replace implements dashboard.DashboardService.
func (s *DashboardServiceImpl) Replace(ctx context.Context, source string, file io.Reader, filename string) (string, error) {
	return s.store.Replace(ctx, source, file, filename)
}

// restrict narrows the secondary sources to the filtered population. Without
// an active filter they pass through untouched, so a degraded or id-less
// employee master only affects employee metrics. Sales without an employee
// belong to the whole organisation and are dropped once a filter applies.
func restrict(b workforce.Bundle, employees *workforce.Dataset, sel filter.Selection) workforce.Bundle {
	if sel.IsUnfiltered(b.Employees) {
		return workforce.Bundle{Employees: employees, Leaves: b.Leaves, Sales: b.Sales}
	}
	ids := employees.EmployeeIDs()
	return workforce.Bundle{
		Employees: employees,
		Leaves:    b.Leaves.ForEmployees(ids),
		Sales:     b.Sales.ForEmployees(ids, false),
	}
}

func (s *DashboardServiceImpl) snapshot() (*dataset.Snapshot, error) {
	snap, err := s.store.Current()
	if errors.Is(err, dataset.ErrNotLoaded) {
		return nil, fmt.Errorf("%w: %w", dashboard.ErrDatasetNotLoaded, err)
	}
	return snap, err
}

// asOf resolves the measurement date. Instants are reduced to their calendar
// date in the zone they were given in.
func (s *DashboardServiceImpl) asOf(t *time.Time) time.Time {
	if t == nil || t.IsZero() {
		return fiscal.Date(s.now())
	}
	return fiscal.Date(*t)
}

func (s *DashboardServiceImpl) trailing(n int) int {
	if n > 0 {
		return n
	}
	if s.defaults.TrailingYears > 0 {
		return s.defaults.TrailingYears
	}
	return 5
}
