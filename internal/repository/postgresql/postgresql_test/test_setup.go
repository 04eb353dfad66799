package postgresql_test

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/worklense/hrbi-backend-go/internal/pkg/database"
)

// TestDatabaseSetup is a throwaway schema on the database named by
// TEST_DATABASE_URL.
type TestDatabaseSetup struct {
	DB     *database.DB
	admin  *database.DB
	Schema string
}

// NewTestDatabase creates a fresh schema and returns a pool whose search_path
// points at it. ok is false when TEST_DATABASE_URL is unset.
func NewTestDatabase(ctx context.Context) (setup *TestDatabaseSetup, ok bool, err error) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		return nil, false, nil
	}

	admin, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 2})
	if err != nil {
		return nil, true, fmt.Errorf("failed to connect to test database: %w", err)
	}

	schema := "hrbi_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if _, err := admin.Exec(ctx, "CREATE SCHEMA "+schema); err != nil {
		admin.Close()
		return nil, true, fmt.Errorf("create schema: %w", err)
	}

	u, err := url.Parse(dsn)
	if err != nil {
		admin.Close()
		return nil, true, err
	}
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()

	db, err := database.NewPostgreSQLDB(ctx, u.String(), database.PoolOptions{MaxConns: 4})
	if err != nil {
		admin.Close()
		return nil, true, err
	}
	return &TestDatabaseSetup{DB: db, admin: admin, Schema: schema}, true, nil
}

// Exec runs statements against the test schema.
func (t *TestDatabaseSetup) Exec(ctx context.Context, statements ...string) error {
	for _, s := range statements {
		if _, err := t.DB.Exec(ctx, s); err != nil {
			return fmt.Errorf("exec %q: %w", s, err)
		}
	}
	return nil
}

// Close drops the schema and closes both pools.
func (t *TestDatabaseSetup) Close(ctx context.Context) {
	t.DB.Close()
	_, _ = t.admin.Exec(ctx, "DROP SCHEMA "+t.Schema+" CASCADE")
	t.admin.Close()
}
