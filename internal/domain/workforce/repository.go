package workforce

import (
	"context"
	"io"
)

// Repository loads the three workforce sources. Implementations return
// ErrSourceNotFound when a source does not exist; callers treat that as an
// empty table.
type Repository interface {
	LoadEmployees(ctx context.Context) (*Dataset, error)
	LoadLeaves(ctx context.Context) (*LeaveTable, error)
	LoadSales(ctx context.Context) (*SalesTable, error)
}

// Uploader replaces the file behind a named source.
type Uploader interface {
	Replace(ctx context.Context, source string, file io.Reader, filename string) (string, error)
}
