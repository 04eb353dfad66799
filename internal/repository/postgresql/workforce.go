package postgresql

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/worklense/hrbi-backend-go/internal/domain/workforce"
	"github.com/worklense/hrbi-backend-go/internal/pkg/database"
)

// Table names of the workforce sources.
const (
	TableEmployees = "employees"
	TableLeaves    = "leave_records"
	TableSales     = "sales_figures"
)

const pgUndefinedTable = "42P01"

type column struct {
	name string
	cast string
}

var employeeColumns = []column{
	{workforce.ColEmployeeID, "text"},
	{workforce.ColEmployeeName, "text"},
	{workforce.ColCompany, "text"},
	{workforce.ColBusinessUnit, "text"},
	{workforce.ColDepartment, "text"},
	{workforce.ColFunction, "text"},
	{workforce.ColZone, "text"},
	{workforce.ColArea, "text"},
	{workforce.ColBand, "text"},
	{workforce.ColEmploymentType, "text"},
	{workforce.ColGender, "text"},
	{workforce.ColQualificationType, "text"},
	{workforce.ColDateOfJoining, "date"},
	{workforce.ColDateOfExit, "date"},
	{workforce.ColDateOfBirth, "date"},
	{workforce.ColTotalCTCPA, "float8"},
	{workforce.ColTotalExpYrs, "float8"},
}

var leaveColumns = []column{
	{workforce.ColEmployeeID, "text"},
	{workforce.ColLeaveType, "text"},
	{workforce.ColStartDate, "date"},
	{workforce.ColEndDate, "date"},
	{workforce.ColDays, "float8"},
}

var salesColumns = []column{
	{workforce.ColEmployeeID, "text"},
	{workforce.ColSaleDate, "date"},
	{workforce.ColAmount, "float8"},
	{workforce.ColBusinessUnit, "text"},
	{workforce.ColZone, "text"},
}

// WorkforceRepository reads the workforce sources from PostgreSQL.
type WorkforceRepository struct {
	db *database.DB
}

// NewWorkforceRepository returns a repository over db. Columns missing from a
// table are selected as NULL and reported as absent, the same as a spreadsheet
// without that header.
func NewWorkforceRepository(db *database.DB) *WorkforceRepository {
	return &WorkforceRepository{db: db}
}

// LoadEmployees implements workforce.Repository.
func (r *WorkforceRepository) LoadEmployees(ctx context.Context) (*workforce.Dataset, error) {
	var employees []workforce.Employee
	present, err := r.read(ctx, TableEmployees, employeeColumns, workforce.ColEmployeeID, func(rows pgx.Rows) error {
		var e workforce.Employee
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Company, &e.BusinessUnit, &e.Department, &e.Function,
			&e.Zone, &e.Area, &e.Band, &e.EmploymentType, &e.Gender, &e.QualificationType,
			&e.DateOfJoining, &e.DateOfExit, &e.DateOfBirth,
			&e.TotalCTCPA, &e.TotalExpYrs,
		); err != nil {
			return err
		}
		e.DateOfJoining = utcDate(e.DateOfJoining)
		e.DateOfExit = utcDate(e.DateOfExit)
		e.DateOfBirth = utcDate(e.DateOfBirth)
		employees = append(employees, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return workforce.NewDataset(employees, present), nil
}

// LoadLeaves implements workforce.Repository.
func (r *WorkforceRepository) LoadLeaves(ctx context.Context) (*workforce.LeaveTable, error) {
	out := &workforce.LeaveTable{}
	present, err := r.read(ctx, TableLeaves, leaveColumns, workforce.ColStartDate, func(rows pgx.Rows) error {
		var l workforce.LeaveRecord
		if err := rows.Scan(&l.EmployeeID, &l.LeaveType, &l.StartDate, &l.EndDate, &l.Days); err != nil {
			return err
		}
		l.StartDate = utcDate(l.StartDate)
		l.EndDate = utcDate(l.EndDate)
		out.Records = append(out.Records, l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Columns = present
	return out, nil
}

// LoadSales implements workforce.Repository.
func (r *WorkforceRepository) LoadSales(ctx context.Context) (*workforce.SalesTable, error) {
	out := &workforce.SalesTable{}
	present, err := r.read(ctx, TableSales, salesColumns, workforce.ColSaleDate, func(rows pgx.Rows) error {
		var s workforce.SaleRecord
		if err := rows.Scan(&s.EmployeeID, &s.Date, &s.Amount, &s.BusinessUnit, &s.Zone); err != nil {
			return err
		}
		s.Date = utcDate(s.Date)
		out.Records = append(out.Records, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Columns = present
	return out, nil
}

// read describes table and streams its rows through scan inside one snapshot
// so that the column set matches the rows returned. It returns the canonical
// columns the table carries.
func (r *WorkforceRepository) read(ctx context.Context, table string, cols []column, orderBy string, scan func(pgx.Rows) error) ([]string, error) {
	var names []string
	err := WithTransaction(ctx, r.db, ReadOnly, func(ctx context.Context) error {
		present, err := r.tableColumns(ctx, table)
		if err != nil {
			return err
		}
		rows, err := r.selectAll(ctx, table, cols, present, orderBy)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			if err := scan(rows); err != nil {
				return fmt.Errorf("scan %s: %w", table, err)
			}
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("read %s: %w", table, err)
		}
		names = presentNames(cols, present)
		return nil
	})
	return names, err
}

// Replace implements workforce.Uploader. Database sources are maintained
// outside the dashboard.
func (r *WorkforceRepository) Replace(ctx context.Context, source string, file io.Reader, filename string) (string, error) {
	return "", fmt.Errorf("%w: %s is backed by PostgreSQL", workforce.ErrSourceNotWritable, source)
}

// tableColumns returns the columns of table in the current schema. A missing
// table is reported as workforce.ErrSourceNotFound.
func (r *WorkforceRepository) tableColumns(ctx context.Context, table string) (map[string]struct{}, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
	`
	rows, err := q.Query(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", table, err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", table, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: table %s", workforce.ErrSourceNotFound, table)
	}
	present := make(map[string]struct{}, len(names))
	for _, n := range names {
		present[strings.ToLower(n)] = struct{}{}
	}
	return present, nil
}

func (r *WorkforceRepository) selectAll(ctx context.Context, table string, cols []column, present map[string]struct{}, orderBy string) (pgx.Rows, error) {
	exprs := make([]string, 0, len(cols))
	for _, c := range cols {
		exprs = append(exprs, selectExpr(c, present))
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(exprs, ", "), table)
	if _, ok := present[orderBy]; ok {
		query += " ORDER BY " + orderBy + " NULLS LAST"
	}

	rows, err := GetQuerier(ctx, r.db).Query(ctx, query)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
			return nil, fmt.Errorf("%w: table %s", workforce.ErrSourceNotFound, table)
		}
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	return rows, nil
}

// selectExpr renders one select-list entry. Text columns are coalesced to ""
// so that blanks and NULLs compare equal in filters.
func selectExpr(c column, present map[string]struct{}) string {
	_, ok := present[c.name]
	switch {
	case c.cast == "text" && ok:
		return fmt.Sprintf("COALESCE(TRIM(%s::text), '')", c.name)
	case c.cast == "text":
		return "''"
	case ok:
		return fmt.Sprintf("%s::%s", c.name, c.cast)
	default:
		return "NULL::" + c.cast
	}
}

func presentNames(cols []column, present map[string]struct{}) []string {
	var out []string
	for _, c := range cols {
		if _, ok := present[c.name]; ok {
			out = append(out, c.name)
		}
	}
	return out
}

// utcDate drops any location pgx attached to a date value.
func utcDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
