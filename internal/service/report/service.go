package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/worklense/hrbi-backend-go/internal/domain/report"
)

type RegistryImpl struct {
	mu      sync.RWMutex
	reports map[string]report.Report
	now     func() time.Time
}

func NewRegistry() *RegistryImpl {
	return &RegistryImpl{
		reports: make(map[string]report.Report),
		now:     time.Now,
	}
}

// NewDefaultRegistry returns a registry holding every built-in report.
func NewDefaultRegistry() report.Registry {
	r := NewRegistry()
	r.MustRegister(NewExecutiveSummary())
	r.MustRegister(NewWorkforceProfile())
	r.MustRegister(NewLeaveSummary())
	r.MustRegister(NewSalesProductivity())
	return r
}

// Register adds a report. Ids must be unique.
func (r *RegistryImpl) Register(rep report.Report) error {
	if rep == nil || rep.ID() == "" {
		return report.ErrInvalidReport
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.reports[rep.ID()]; exists {
		return fmt.Errorf("%w: %s", report.ErrDuplicateReport, rep.ID())
	}
	r.reports[rep.ID()] = rep
	return nil
}

// MustRegister is Register that panics on error. Use it at startup only.
func (r *RegistryImpl) MustRegister(rep report.Report) {
	if err := r.Register(rep); err != nil {
		panic(err)
	}
}

func (r *RegistryImpl) Get(id string) (report.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rep, ok := r.reports[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", report.ErrReportNotFound, id)
	}
	return rep, nil
}

// List returns the registered reports sorted by title, then id.
func (r *RegistryImpl) List() []report.Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]report.Info, 0, len(r.reports))
	for _, rep := range r.reports {
		out = append(out, report.Info{ID: rep.ID(), Title: rep.Title()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Run executes one report. A failing, panicking or malformed report yields
// an error for that report only.
func (r *RegistryImpl) Run(ctx context.Context, id string, in report.Input) (res *report.Result, err error) {
	rep, err := r.Get(id)
	if err != nil {
		return nil, err
	}

	start := r.now()
	defer func() {
		if p := recover(); p != nil {
			slog.Error("Report panicked", "report_id", id, "panic", p)
			res, err = nil, fmt.Errorf("%w: %s: %v", report.ErrReportFailed, id, p)
		}
	}()

	res, err = rep.Run(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", report.ErrReportFailed, id, err)
	}
	if err := validateResult(res); err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}

	res.RunID = uuid.Must(uuid.NewV7()).String()
	res.ReportID = id
	if res.Title == "" {
		res.Title = rep.Title()
	}
	res.GeneratedAt = r.now()
	slog.Debug("Report rendered", "report_id", id, "run_id", res.RunID, "kpis", len(res.KPIs), "tables", len(res.Tables), "duration", res.GeneratedAt.Sub(start))
	return res, nil
}

func validateResult(res *report.Result) error {
	if res == nil {
		return fmt.Errorf("%w: nil result", report.ErrInvalidResult)
	}
	seen := make(map[report.ChartID]struct{}, len(res.Tables))
	for _, t := range res.Tables {
		if t.Name == "" || len(t.Columns) == 0 {
			return fmt.Errorf("%w: table without name or columns", report.ErrInvalidResult)
		}
		if _, dup := seen[t.Name]; dup {
			return fmt.Errorf("%w: duplicate table %s", report.ErrInvalidResult, t.Name)
		}
		seen[t.Name] = struct{}{}
		for i, row := range t.Rows {
			if len(row) != len(t.Columns) {
				return fmt.Errorf("%w: table %s row %d has %d cells for %d columns", report.ErrInvalidResult, t.Name, i, len(row), len(t.Columns))
			}
		}
	}
	return nil
}
