package workforce

import (
	"math"
	"time"
)

// Employee is one row of the employee master. Rows are never mutated after
// loading; a reload replaces the whole Dataset.
type Employee struct {
	ID                string
	Name              string
	Company           string
	BusinessUnit      string
	Department        string
	Function          string
	Zone              string
	Area              string
	Band              string
	EmploymentType    string
	Gender            string
	QualificationType string
	DateOfJoining     *time.Time
	DateOfExit        *time.Time
	DateOfBirth       *time.Time
	TotalCTCPA        *float64
	TotalExpYrs       *float64
}

// Column names as they appear in the employee master header.
const (
	ColEmployeeID        = "employee_id"
	ColEmployeeName      = "employee_name"
	ColCompany           = "company"
	ColBusinessUnit      = "business_unit"
	ColDepartment        = "department"
	ColFunction          = "function"
	ColZone              = "zone"
	ColArea              = "area"
	ColBand              = "band"
	ColEmploymentType    = "employment_type"
	ColGender            = "gender"
	ColQualificationType = "qualification_type"
	ColDateOfJoining     = "date_of_joining"
	ColDateOfExit        = "date_of_exit"
	ColDateOfBirth       = "date_of_birth"
	ColTotalCTCPA        = "total_ctc_pa"
	ColTotalExpYrs       = "total_exp_yrs"
)

// Canonical columns of the leave register and the sales sheet, shared by
// every backend.
const (
	ColLeaveType = "leave_type"
	ColStartDate = "start_date"
	ColEndDate   = "end_date"
	ColDays      = "days"
	ColSaleDate  = "sale_date"
	ColAmount    = "amount"
)

// CategoricalAttributes are the string columns that can be filtered or
// tabulated.
var CategoricalAttributes = []string{
	ColCompany,
	ColBusinessUnit,
	ColDepartment,
	ColFunction,
	ColZone,
	ColArea,
	ColBand,
	ColEmploymentType,
	ColGender,
	ColQualificationType,
}

// FilterAttributes are the attributes offered in the dashboard sidebar.
var FilterAttributes = []string{
	ColCompany,
	ColBusinessUnit,
	ColDepartment,
	ColFunction,
	ColZone,
	ColArea,
	ColBand,
	ColEmploymentType,
}

// Attribute returns the value of a categorical attribute by column name.
// ok is false for names that are not categorical attributes.
func (e Employee) Attribute(name string) (string, bool) {
	switch name {
	case ColCompany:
		return e.Company, true
	case ColBusinessUnit:
		return e.BusinessUnit, true
	case ColDepartment:
		return e.Department, true
	case ColFunction:
		return e.Function, true
	case ColZone:
		return e.Zone, true
	case ColArea:
		return e.Area, true
	case ColBand:
		return e.Band, true
	case ColEmploymentType:
		return e.EmploymentType, true
	case ColGender:
		return e.Gender, true
	case ColQualificationType:
		return e.QualificationType, true
	default:
		return "", false
	}
}

// IsActive reports whether the employee had joined on or before t and had not
// exited on or before t. Employees without a joining date are never active.
func (e Employee) IsActive(t time.Time) bool {
	if e.DateOfJoining == nil || e.DateOfJoining.After(t) {
		return false
	}
	return e.DateOfExit == nil || e.DateOfExit.After(t)
}

// JoinedWithin reports whether the joining date falls in [start, end].
func (e Employee) JoinedWithin(start, end time.Time) bool {
	return within(e.DateOfJoining, start, end)
}

// ExitedWithin reports whether the exit date falls in [start, end].
func (e Employee) ExitedWithin(start, end time.Time) bool {
	return within(e.DateOfExit, start, end)
}

// AgeAt returns the age in whole years at t, computed as floor(days / 365).
func (e Employee) AgeAt(t time.Time) (int, bool) {
	if e.DateOfBirth == nil {
		return 0, false
	}
	days := int(math.Floor(t.Sub(*e.DateOfBirth).Hours() / 24))
	return floorDiv(days, 365), true
}

func within(d *time.Time, start, end time.Time) bool {
	if d == nil {
		return false
	}
	return !d.Before(start) && !d.After(end)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// LeaveRecord is one row of the leave register.
type LeaveRecord struct {
	EmployeeID string
	LeaveType  string
	StartDate  *time.Time
	EndDate    *time.Time
	Days       *float64
}

// Duration returns the leave length in days. An explicit Days value wins;
// otherwise the inclusive calendar span between StartDate and EndDate is used.
func (l LeaveRecord) Duration() float64 {
	if l.Days != nil {
		return *l.Days
	}
	if l.StartDate == nil {
		return 0
	}
	if l.EndDate == nil {
		return 1
	}
	span := l.EndDate.Sub(*l.StartDate).Hours()/24 + 1
	if span < 0 {
		return 0
	}
	return math.Floor(span)
}

// SaleRecord is one row of the sales figures sheet.
type SaleRecord struct {
	EmployeeID   string
	Date         *time.Time
	Amount       *float64
	BusinessUnit string
	Zone         string
}
