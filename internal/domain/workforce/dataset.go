package workforce

import (
	"slices"
	"sort"
)

// Dataset is a read-only view over employee rows together with the set of
// columns that were present in the source. A nil *Dataset is an empty table.
type Dataset struct {
	rows    []Employee
	columns map[string]struct{}
}

// NewDataset builds a Dataset from rows and the header columns of the source.
// The rows slice is copied.
func NewDataset(rows []Employee, columns []string) *Dataset {
	cols := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		cols[c] = struct{}{}
	}
	return &Dataset{rows: slices.Clone(rows), columns: cols}
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.rows)
}

// Rows returns a copy of the rows in source order.
func (d *Dataset) Rows() []Employee {
	if d == nil {
		return nil
	}
	return slices.Clone(d.rows)
}

// HasColumn reports whether the source carried the named column.
func (d *Dataset) HasColumn(name string) bool {
	if d == nil {
		return false
	}
	_, ok := d.columns[name]
	return ok
}

// Columns returns the source columns sorted by name.
func (d *Dataset) Columns() []string {
	if d == nil {
		return nil
	}
	cols := make([]string, 0, len(d.columns))
	for c := range d.columns {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Where returns a new view holding the rows that satisfy keep. Column
// metadata is carried over.
func (d *Dataset) Where(keep func(Employee) bool) *Dataset {
	if d == nil {
		return nil
	}
	rows := make([]Employee, 0, len(d.rows))
	for _, r := range d.rows {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return &Dataset{rows: rows, columns: d.columns}
}

// Distinct returns the sorted distinct non-empty values of a categorical
// attribute. Unknown attributes and missing columns yield nil.
func (d *Dataset) Distinct(attr string) []string {
	if !d.HasColumn(attr) {
		return nil
	}
	seen := make(map[string]struct{})
	for _, r := range d.rows {
		v, ok := r.Attribute(attr)
		if !ok {
			return nil
		}
		if v == "" {
			continue
		}
		seen[v] = struct{}{}
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// EmployeeIDs returns the set of non-empty employee ids in the view.
func (d *Dataset) EmployeeIDs() map[string]struct{} {
	ids := make(map[string]struct{}, d.Len())
	if d == nil {
		return ids
	}
	for _, r := range d.rows {
		if r.ID != "" {
			ids[r.ID] = struct{}{}
		}
	}
	return ids
}

// LeaveTable is the loaded leave register.
type LeaveTable struct {
	Records []LeaveRecord
	Columns []string
}

// Len returns the number of leave rows.
func (t *LeaveTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// ForEmployees keeps leave rows that belong to one of ids.
func (t *LeaveTable) ForEmployees(ids map[string]struct{}) *LeaveTable {
	if t == nil {
		return &LeaveTable{}
	}
	out := &LeaveTable{Columns: t.Columns}
	for _, r := range t.Records {
		if _, ok := ids[r.EmployeeID]; ok {
			out.Records = append(out.Records, r)
		}
	}
	return out
}

// SalesTable is the loaded sales figures sheet.
type SalesTable struct {
	Records []SaleRecord
	Columns []string
}

// Len returns the number of sales rows.
func (t *SalesTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// ForEmployees keeps sales rows attributed to one of ids. Rows without an
// employee id are not attributable to a filtered population and are kept only
// when keepUnattributed is true.
func (t *SalesTable) ForEmployees(ids map[string]struct{}, keepUnattributed bool) *SalesTable {
	if t == nil {
		return &SalesTable{}
	}
	out := &SalesTable{Columns: t.Columns}
	for _, r := range t.Records {
		if r.EmployeeID == "" {
			if keepUnattributed {
				out.Records = append(out.Records, r)
			}
			continue
		}
		if _, ok := ids[r.EmployeeID]; ok {
			out.Records = append(out.Records, r)
		}
	}
	return out
}

// Source names of the dataset mapping handed to reports.
const (
	SourceEmployeeMaster = "employee_master"
	SourceLeaveRecords   = "leave_records"
	SourceSalesFigures   = "sales_figures"
)

// Sources lists the known source names in load order.
var Sources = []string{SourceEmployeeMaster, SourceLeaveRecords, SourceSalesFigures}

// Bundle is the dataset-by-name mapping shared read-only across requests.
type Bundle struct {
	Employees *Dataset
	Leaves    *LeaveTable
	Sales     *SalesTable
}

// Rows returns the row count per source name.
func (b Bundle) Rows() map[string]int {
	return map[string]int{
		SourceEmployeeMaster: b.Employees.Len(),
		SourceLeaveRecords:   b.Leaves.Len(),
		SourceSalesFigures:   b.Sales.Len(),
	}
}

// Names returns the source names carried by a bundle.
func (b Bundle) Names() []string {
	return slices.Clone(Sources)
}

// Columns returns the canonical columns each source carried, keyed by source
// name. Absent sources map to an empty list.
func (b Bundle) Columns() map[string][]string {
	out := make(map[string][]string, len(Sources))
	for _, name := range b.Names() {
		var cols []string
		switch name {
		case SourceEmployeeMaster:
			cols = b.Employees.Columns()
		case SourceLeaveRecords:
			if b.Leaves != nil {
				cols = slices.Clone(b.Leaves.Columns)
			}
		case SourceSalesFigures:
			if b.Sales != nil {
				cols = slices.Clone(b.Sales.Columns)
			}
		}
		if cols == nil {
			cols = []string{}
		}
		out[name] = cols
	}
	return out
}
