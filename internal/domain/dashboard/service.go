package dashboard

import (
	"context"
	"io"

	"github.com/worklense/hrbi-backend-go/internal/domain/report"
)

// DashboardService renders reports over the in-memory dataset.
type DashboardService interface {
	// Render filters the dataset and runs one report.
	Render(ctx context.Context, req RenderRequest) (*Rendered, error)

	// FilterOptions returns the sidebar values per filter attribute.
	FilterOptions(ctx context.Context) (map[string][]string, error)

	Reports(ctx context.Context) []report.Info

	// FiscalYears returns the n financial years ending at the current one. Zero
	// means the configured default.
	FiscalYears(ctx context.Context, n int) []FiscalYear

	Status(ctx context.Context) (*DatasetStatus, error)

	Reload(ctx context.Context) error

	// Replace swaps the file behind a source and reloads.
	Replace(ctx context.Context, source string, file io.Reader, filename string) (string, error)
}
