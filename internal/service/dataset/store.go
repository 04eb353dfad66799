// Package dataset keeps the loaded workforce tables in memory and swaps them
// atomically on reload.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/worklense/hrbi-backend-go/internal/domain/workforce"
	"github.com/worklense/hrbi-backend-go/internal/pkg/sse"
	"golang.org/x/sync/errgroup"
)

// EventReloaded is published on sse.TopicDataset after a successful reload.
const EventReloaded = "dataset.reloaded"

var ErrNotLoaded = errors.New("dataset has not been loaded")

// Snapshot is one immutable generation of the loaded tables.
type Snapshot struct {
	Bundle   workforce.Bundle
	LoadedAt time.Time
	// Missing lists the sources that were absent and loaded as empty tables.
	Missing []string
}

// ReloadRecorder receives reload outcomes.
type ReloadRecorder interface {
	RecordReload(rows map[string]int, d time.Duration, err error)
}

// Publisher receives reload events.
type Publisher interface {
	Publish(topic string, event sse.Event)
}

type Store struct {
	repo     workforce.Repository
	current  atomic.Pointer[Snapshot]
	reloadMu sync.Mutex
	recorder ReloadRecorder
	events   Publisher
	now      func() time.Time
}

type Option func(*Store)

func WithRecorder(r ReloadRecorder) Option {
	return func(s *Store) { s.recorder = r }
}

func WithPublisher(p Publisher) Option {
	return func(s *Store) { s.events = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(repo workforce.Repository, opts ...Option) *Store {
	s := &Store{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the latest snapshot. Readers keep using the snapshot they
// got even if a reload swaps in a new one.
func (s *Store) Current() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

// Reload loads all sources concurrently and swaps them in. Missing sources
// become empty tables. A failing employee master aborts the reload and the
// previous snapshot stays in place; a failing leave or sales source keeps
// its previous table.
func (s *Store) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()
	prev := s.current.Load()

	var (
		employees *workforce.Dataset
		leaves    *workforce.LeaveTable
		sales     *workforce.SalesTable
		missing   = make([]bool, len(workforce.Sources))
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Employee master
	g.Go(func() error {
		ds, err := s.repo.LoadEmployees(gCtx)
		switch {
		case errors.Is(err, workforce.ErrSourceNotFound):
			slog.Warn("Data source missing, using empty table", "source", workforce.SourceEmployeeMaster, "error", err)
			missing[0] = true
			employees = workforce.NewDataset(nil, nil)
		case err != nil:
			return fmt.Errorf("load %s: %w", workforce.SourceEmployeeMaster, err)
		default:
			employees = ds
		}
		return nil
	})

	// 2. Leave register
	g.Go(func() error {
		t, err := s.repo.LoadLeaves(gCtx)
		switch {
		case errors.Is(err, workforce.ErrSourceNotFound):
			slog.Warn("Data source missing, using empty table", "source", workforce.SourceLeaveRecords, "error", err)
			missing[1] = true
			leaves = &workforce.LeaveTable{}
		case err != nil:
			slog.Error("Data source failed to load, keeping previous table", "source", workforce.SourceLeaveRecords, "error", err)
			leaves = &workforce.LeaveTable{}
			if prev != nil && prev.Bundle.Leaves != nil {
				leaves = prev.Bundle.Leaves
			}
		default:
			leaves = t
		}
		return nil
	})

	// 3. Sales figures
	g.Go(func() error {
		t, err := s.repo.LoadSales(gCtx)
		switch {
		case errors.Is(err, workforce.ErrSourceNotFound):
			slog.Warn("Data source missing, using empty table", "source", workforce.SourceSalesFigures, "error", err)
			missing[2] = true
			sales = &workforce.SalesTable{}
		case err != nil:
			slog.Error("Data source failed to load, keeping previous table", "source", workforce.SourceSalesFigures, "error", err)
			sales = &workforce.SalesTable{}
			if prev != nil && prev.Bundle.Sales != nil {
				sales = prev.Bundle.Sales
			}
		default:
			sales = t
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.record(nil, time.Since(start), err)
		slog.Error("Dataset reload failed", "error", err, "kept_previous", prev != nil)
		return err
	}

	snap := &Snapshot{
		Bundle:   workforce.Bundle{Employees: employees, Leaves: leaves, Sales: sales},
		LoadedAt: s.now().UTC(),
	}
	for i, m := range missing {
		if m {
			snap.Missing = append(snap.Missing, workforce.Sources[i])
		}
	}
	s.current.Store(snap)

	rows := snap.Bundle.Rows()
	s.record(rows, time.Since(start), nil)
	slog.Info("Dataset reloaded",
		"employees", rows[workforce.SourceEmployeeMaster],
		"leaves", rows[workforce.SourceLeaveRecords],
		"sales", rows[workforce.SourceSalesFigures],
		"missing", snap.Missing,
		"duration", time.Since(start),
	)

	if s.events != nil {
		s.events.Publish(sse.TopicDataset, sse.Event{
			Event: EventReloaded,
			Data: map[string]any{
				"rows":      rows,
				"missing":   snap.Missing,
				"loaded_at": snap.LoadedAt,
			},
		})
	}
	return nil
}

// Replace hands an uploaded file to the repository and reloads. Repositories
// that cannot accept uploads return workforce.ErrSourceNotWritable.
func (s *Store) Replace(ctx context.Context, source string, file io.Reader, filename string) (string, error) {
	up, ok := s.repo.(workforce.Uploader)
	if !ok {
		return "", fmt.Errorf("%w: %s", workforce.ErrSourceNotWritable, source)
	}
	key, err := up.Replace(ctx, source, file, filename)
	if err != nil {
		return "", err
	}
	if err := s.Reload(ctx); err != nil {
		return key, fmt.Errorf("reload after replacing %s: %w", source, err)
	}
	return key, nil
}

func (s *Store) record(rows map[string]int, d time.Duration, err error) {
	if s.recorder != nil {
		s.recorder.RecordReload(rows, d, err)
	}
}
