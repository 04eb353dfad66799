package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrInvalidPath  = errors.New("invalid file path")
	ErrFileNotFound = errors.New("file not found")
)

type FileStorage interface {
	// Upload writes a file and returns its storage key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download retrieves a file
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file
	Delete(ctx context.Context, path string) error

	// Stat returns size and modification time
	Stat(ctx context.Context, path string) (FileInfo, error)

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)
}

// FileInfo is the metadata the dataset cache keys on.
type FileInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
}
