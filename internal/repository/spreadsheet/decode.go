package spreadsheet

import (
	"github.com/worklense/hrbi-backend-go/internal/domain/workforce"
)

var employeeAliases = map[string]string{
	"emp_id":          workforce.ColEmployeeID,
	"employee_code":   workforce.ColEmployeeID,
	"emp_code":        workforce.ColEmployeeID,
	"name":            workforce.ColEmployeeName,
	"emp_name":        workforce.ColEmployeeName,
	"bu":              workforce.ColBusinessUnit,
	"doj":             workforce.ColDateOfJoining,
	"joining_date":    workforce.ColDateOfJoining,
	"doe":             workforce.ColDateOfExit,
	"exit_date":       workforce.ColDateOfExit,
	"dob":             workforce.ColDateOfBirth,
	"birth_date":      workforce.ColDateOfBirth,
	"ctc":             workforce.ColTotalCTCPA,
	"total_ctc":       workforce.ColTotalCTCPA,
	"total_exp":       workforce.ColTotalExpYrs,
	"experience_yrs":  workforce.ColTotalExpYrs,
	"qualification":   workforce.ColQualificationType,
	"employment_mode": workforce.ColEmploymentType,
}

var employeeColumns = []string{
	workforce.ColEmployeeID, workforce.ColEmployeeName,
	workforce.ColCompany, workforce.ColBusinessUnit, workforce.ColDepartment,
	workforce.ColFunction, workforce.ColZone, workforce.ColArea, workforce.ColBand,
	workforce.ColEmploymentType, workforce.ColGender, workforce.ColQualificationType,
	workforce.ColDateOfJoining, workforce.ColDateOfExit, workforce.ColDateOfBirth,
	workforce.ColTotalCTCPA, workforce.ColTotalExpYrs,
}

// DecodeEmployees maps an employee master sheet to a Dataset. Missing columns
// leave the matching fields empty.
func DecodeEmployees(rows [][]string) (*workforce.Dataset, error) {
	t, err := newTable(rows, employeeAliases)
	if err != nil {
		return nil, err
	}

	var employees []workforce.Employee
	t.each(func(row []string) {
		employees = append(employees, workforce.Employee{
			ID:                t.cell(row, workforce.ColEmployeeID),
			Name:              t.cell(row, workforce.ColEmployeeName),
			Company:           t.cell(row, workforce.ColCompany),
			BusinessUnit:      t.cell(row, workforce.ColBusinessUnit),
			Department:        t.cell(row, workforce.ColDepartment),
			Function:          t.cell(row, workforce.ColFunction),
			Zone:              t.cell(row, workforce.ColZone),
			Area:              t.cell(row, workforce.ColArea),
			Band:              t.cell(row, workforce.ColBand),
			EmploymentType:    t.cell(row, workforce.ColEmploymentType),
			Gender:            t.cell(row, workforce.ColGender),
			QualificationType: t.cell(row, workforce.ColQualificationType),
			DateOfJoining:     t.date(row, workforce.ColDateOfJoining),
			DateOfExit:        t.date(row, workforce.ColDateOfExit),
			DateOfBirth:       t.date(row, workforce.ColDateOfBirth),
			TotalCTCPA:        t.number(row, workforce.ColTotalCTCPA),
			TotalExpYrs:       t.number(row, workforce.ColTotalExpYrs),
		})
	})
	return workforce.NewDataset(employees, t.columns(employeeColumns)), nil
}

var leaveAliases = map[string]string{
	"emp_id":        workforce.ColEmployeeID,
	"employee_code": workforce.ColEmployeeID,
	"type":          workforce.ColLeaveType,
	"from_date":     workforce.ColStartDate,
	"leave_start":   workforce.ColStartDate,
	"from":          workforce.ColStartDate,
	"to_date":       workforce.ColEndDate,
	"leave_end":     workforce.ColEndDate,
	"to":            workforce.ColEndDate,
	"no_of_days":    workforce.ColDays,
	"leave_days":    workforce.ColDays,
	"duration":      workforce.ColDays,
}

var leaveColumns = []string{workforce.ColEmployeeID, workforce.ColLeaveType, workforce.ColStartDate, workforce.ColEndDate, workforce.ColDays}

func DecodeLeaves(rows [][]string) (*workforce.LeaveTable, error) {
	t, err := newTable(rows, leaveAliases)
	if err != nil {
		return nil, err
	}
	out := &workforce.LeaveTable{Columns: t.columns(leaveColumns)}
	t.each(func(row []string) {
		out.Records = append(out.Records, workforce.LeaveRecord{
			EmployeeID: t.cell(row, workforce.ColEmployeeID),
			LeaveType:  t.cell(row, workforce.ColLeaveType),
			StartDate:  t.date(row, workforce.ColStartDate),
			EndDate:    t.date(row, workforce.ColEndDate),
			Days:       t.number(row, workforce.ColDays),
		})
	})
	return out, nil
}

var salesAliases = map[string]string{
	"emp_id":        workforce.ColEmployeeID,
	"employee_code": workforce.ColEmployeeID,
	"date":          workforce.ColSaleDate,
	"invoice_date":  workforce.ColSaleDate,
	"month":         workforce.ColSaleDate,
	"sales":         workforce.ColAmount,
	"sales_amount":  workforce.ColAmount,
	"net_sales":     workforce.ColAmount,
	"value":         workforce.ColAmount,
	"bu":            workforce.ColBusinessUnit,
}

var salesColumns = []string{workforce.ColEmployeeID, workforce.ColSaleDate, workforce.ColAmount, workforce.ColBusinessUnit, workforce.ColZone}

func DecodeSales(rows [][]string) (*workforce.SalesTable, error) {
	t, err := newTable(rows, salesAliases)
	if err != nil {
		return nil, err
	}
	out := &workforce.SalesTable{Columns: t.columns(salesColumns)}
	t.each(func(row []string) {
		out.Records = append(out.Records, workforce.SaleRecord{
			EmployeeID:   t.cell(row, workforce.ColEmployeeID),
			Date:         t.date(row, workforce.ColSaleDate),
			Amount:       t.number(row, workforce.ColAmount),
			BusinessUnit: t.cell(row, workforce.ColBusinessUnit),
			Zone:         t.cell(row, workforce.ColZone),
		})
	})
	return out, nil
}
