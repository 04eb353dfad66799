package spreadsheet

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/worklense/hrbi-backend-go/internal/domain/report"
	"github.com/worklense/hrbi-backend-go/internal/domain/workforce"
	"github.com/worklense/hrbi-backend-go/internal/pkg/storage"
)

// Files names the file behind each source, relative to the storage root.
type Files struct {
	Employees    string
	Leaves       string
	Sales        string
	ReportConfig string
}

func (f Files) forSource(source string) (string, bool) {
	switch source {
	case workforce.SourceEmployeeMaster:
		return f.Employees, f.Employees != ""
	case workforce.SourceLeaveRecords:
		return f.Leaves, f.Leaves != ""
	case workforce.SourceSalesFigures:
		return f.Sales, f.Sales != ""
	}
	return "", false
}

// MaxUploadSize bounds replacement uploads.
const MaxUploadSize = 32 << 20

type Repository struct {
	store storage.FileStorage
	files Files
	cache *cache
}

type Option func(*Repository)

// WithCache memoizes decoded files keyed by path, size and modification time.
func WithCache() Option {
	return func(r *Repository) { r.cache = newCache() }
}

func NewRepository(store storage.FileStorage, files Files, opts ...Option) *Repository {
	r := &Repository{store: store, files: files}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository) LoadEmployees(ctx context.Context) (*workforce.Dataset, error) {
	v, err := r.load(ctx, r.files.Employees, func(s Sheet) (any, error) { return DecodeEmployees(s.Rows) })
	if err != nil {
		return nil, err
	}
	return v.(*workforce.Dataset), nil
}

func (r *Repository) LoadLeaves(ctx context.Context) (*workforce.LeaveTable, error) {
	v, err := r.load(ctx, r.files.Leaves, func(s Sheet) (any, error) { return DecodeLeaves(s.Rows) })
	if err != nil {
		return nil, err
	}
	return v.(*workforce.LeaveTable), nil
}

func (r *Repository) LoadSales(ctx context.Context) (*workforce.SalesTable, error) {
	v, err := r.load(ctx, r.files.Sales, func(s Sheet) (any, error) { return DecodeSales(s.Rows) })
	if err != nil {
		return nil, err
	}
	return v.(*workforce.SalesTable), nil
}

// LoadConfig reads the report configuration workbook. A missing file yields
// an empty Config.
func (r *Repository) LoadConfig(ctx context.Context) (report.Config, error) {
	if r.files.ReportConfig == "" {
		return report.Config{}, nil
	}
	info, err := r.store.Stat(ctx, r.files.ReportConfig)
	if errors.Is(err, storage.ErrFileNotFound) {
		return report.Config{}, nil
	}
	if err != nil {
		return report.Config{}, err
	}
	key := cacheKey{path: info.Path, size: info.Size, modTime: info.ModTime}
	if v, ok := r.cache.get(key); ok {
		return v.(report.Config), nil
	}

	sheets, err := r.readAll(ctx, r.files.ReportConfig)
	if err != nil {
		return report.Config{}, err
	}
	cfg, err := DecodeConfig(sheets)
	if err != nil {
		return report.Config{}, err
	}
	r.cache.put(key, cfg)
	return cfg, nil
}

// Replace validates an uploaded spreadsheet and swaps it in for source. The
// upload must use the same extension as the configured file.
func (r *Repository) Replace(ctx context.Context, source string, file io.Reader, filename string) (string, error) {
	target, ok := r.files.forSource(source)
	if !ok {
		return "", fmt.Errorf("%w: %s", workforce.ErrUnknownSource, source)
	}
	if !strings.EqualFold(filepath.Ext(filename), filepath.Ext(target)) {
		return "", fmt.Errorf("%w: %s expects a %s file", workforce.ErrUnsupportedFormat, source, filepath.Ext(target))
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return "", fmt.Errorf("%w: upload exceeds %d bytes", workforce.ErrInvalidSourceField, MaxUploadSize)
	}
	sheet, err := ReadFirstSheet(bytes.NewReader(data), filename)
	if err != nil {
		return "", fmt.Errorf("%w: %w", workforce.ErrUnsupportedFormat, err)
	}
	if _, err := newTable(sheet.Rows, nil); err != nil {
		return "", err
	}

	key, err := r.store.Upload(ctx, bytes.NewReader(data), target, contentType(target))
	if err != nil {
		return "", fmt.Errorf("store %s: %w", source, err)
	}
	slog.Info("Data source replaced", "source", source, "file", key, "bytes", len(data))
	return key, nil
}

func (r *Repository) load(ctx context.Context, path string, decode func(Sheet) (any, error)) (any, error) {
	if path == "" {
		return nil, workforce.ErrSourceNotFound
	}
	info, err := r.store.Stat(ctx, path)
	if errors.Is(err, storage.ErrFileNotFound) {
		return nil, fmt.Errorf("%w: %s", workforce.ErrSourceNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	key := cacheKey{path: info.Path, size: info.Size, modTime: info.ModTime}
	if v, ok := r.cache.get(key); ok {
		return v, nil
	}

	sheets, err := r.readAll(ctx, path)
	if err != nil {
		return nil, err
	}
	sheet, err := firstNonBlank(sheets)
	if errors.Is(err, workforce.ErrEmptySheet) {
		// An empty file is an empty table, not a failure.
		return nil, fmt.Errorf("%w: %s: %w", workforce.ErrSourceNotFound, path, err)
	}
	v, err := decode(sheet)
	if errors.Is(err, workforce.ErrMissingHeader) {
		return nil, fmt.Errorf("%w: %s: %w", workforce.ErrSourceNotFound, path, err)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	r.cache.put(key, v)
	return v, nil
}

func (r *Repository) readAll(ctx context.Context, path string) ([]Sheet, error) {
	rc, err := r.store.Download(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	sheets, err := ReadWorkbook(rc, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return sheets, nil
}

func firstNonBlank(sheets []Sheet) (Sheet, error) {
	for _, s := range sheets {
		if !blankRows(s.Rows) {
			return s, nil
		}
	}
	return Sheet{}, workforce.ErrEmptySheet
}

func contentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".xlsm":
		return "application/vnd.ms-excel.sheet.macroEnabled.12"
	case ".xls":
		return "application/vnd.ms-excel"
	case ".csv":
		return "text/csv"
	}
	return "application/octet-stream"
}

type cacheKey struct {
	path    string
	size    int64
	modTime time.Time
}

// cache holds the last decoded value per path. A nil cache never hits.
type cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	key   cacheKey
	value any
}

func newCache() *cache {
	return &cache{entries: make(map[string]cacheEntry)}
}

func (c *cache) get(key cacheKey) (any, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.path]
	if !ok || e.key.size != key.size || !e.key.modTime.Equal(key.modTime) {
		return nil, false
	}
	return e.value, true
}

func (c *cache) put(key cacheKey, value any) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key.path] = cacheEntry{key: key, value: value}
}
