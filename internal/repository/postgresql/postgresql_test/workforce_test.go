package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worklense/hrbi-backend-go/internal/domain/workforce"
	"github.com/worklense/hrbi-backend-go/internal/repository/postgresql"
)

func setupDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()
	ctx := context.Background()
	setup, ok, err := NewTestDatabase(ctx)
	if !ok {
		t.Skip("TEST_DATABASE_URL is not set")
	}
	require.NoError(t, err)
	t.Cleanup(func() { setup.Close(context.Background()) })
	return setup
}

func TestWorkforceRepository_LoadEmployees(t *testing.T) {
	setup := setupDatabase(t)
	ctx := context.Background()

	require.NoError(t, setup.Exec(ctx,
		`CREATE TABLE employees (
			employee_id text PRIMARY KEY,
			company text,
			gender text,
			date_of_joining date,
			date_of_exit date,
			total_ctc_pa numeric(14,2)
		)`,
		`INSERT INTO employees VALUES
			('E1', 'Acme', 'Female', '2020-04-01', NULL, 1200000),
			('E2', ' Globex ', NULL, '2024-01-01', '2025-06-30', NULL)`,
	))

	repo := postgresql.NewWorkforceRepository(setup.DB)
	ds, err := repo.LoadEmployees(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	rows := ds.Rows()
	assert.Equal(t, "E1", rows[0].ID)
	assert.Equal(t, 1_200_000.0, *rows[0].TotalCTCPA)
	assert.True(t, rows[0].DateOfJoining.Equal(time.Date(2020, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.Nil(t, rows[0].DateOfExit)

	assert.Equal(t, "Globex", rows[1].Company)
	assert.Equal(t, "", rows[1].Gender)
	assert.Nil(t, rows[1].TotalCTCPA)

	assert.True(t, ds.HasColumn(workforce.ColTotalCTCPA))
	assert.False(t, ds.HasColumn(workforce.ColDepartment))
	assert.False(t, ds.HasColumn(workforce.ColDateOfBirth))
}

func TestWorkforceRepository_MissingTable(t *testing.T) {
	setup := setupDatabase(t)
	repo := postgresql.NewWorkforceRepository(setup.DB)

	_, err := repo.LoadLeaves(context.Background())
	assert.ErrorIs(t, err, workforce.ErrSourceNotFound)

	_, err = repo.LoadSales(context.Background())
	assert.ErrorIs(t, err, workforce.ErrSourceNotFound)
}

func TestWorkforceRepository_LoadLeavesAndSales(t *testing.T) {
	setup := setupDatabase(t)
	ctx := context.Background()

	require.NoError(t, setup.Exec(ctx,
		`CREATE TABLE leave_records (employee_id text, leave_type text, start_date date, end_date date, days numeric)`,
		`INSERT INTO leave_records VALUES ('E1', 'Sick', '2025-05-01', '2025-05-03', NULL), ('E2', 'Casual', '2025-06-01', NULL, 0.5)`,
		`CREATE TABLE sales_figures (employee_id text, sale_date date, amount numeric, business_unit text)`,
		`INSERT INTO sales_figures VALUES ('E1', '2025-05-01', 150000, 'Retail'), (NULL, '2025-06-01', 2500, NULL)`,
	))

	repo := postgresql.NewWorkforceRepository(setup.DB)

	leaves, err := repo.LoadLeaves(ctx)
	require.NoError(t, err)
	require.Len(t, leaves.Records, 2)
	assert.Equal(t, 3.0, leaves.Records[0].Duration())
	assert.Equal(t, 0.5, leaves.Records[1].Duration())

	sales, err := repo.LoadSales(ctx)
	require.NoError(t, err)
	require.Len(t, sales.Records, 2)
	assert.Equal(t, 150_000.0, *sales.Records[0].Amount)
	assert.Equal(t, "", sales.Records[1].EmployeeID)
	assert.Equal(t, []string{workforce.ColEmployeeID, workforce.ColSaleDate, workforce.ColAmount, workforce.ColBusinessUnit}, sales.Columns)
	assert.Equal(t, []string{workforce.ColEmployeeID, workforce.ColLeaveType, workforce.ColStartDate, workforce.ColEndDate, workforce.ColDays}, leaves.Columns)
}

func TestWorkforceRepository_ReplaceIsNotSupported(t *testing.T) {
	repo := postgresql.NewWorkforceRepository(nil)
	_, err := repo.Replace(context.Background(), workforce.SourceEmployeeMaster, nil, "x.xlsx")
	assert.ErrorIs(t, err, workforce.ErrSourceNotWritable)
}
