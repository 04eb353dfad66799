package report

import "errors"

var (
	ErrReportNotFound    = errors.New("report not found")
	ErrDuplicateReport   = errors.New("report already registered")
	ErrInvalidReport     = errors.New("report has no id")
	ErrInvalidResult     = errors.New("report returned an invalid result")
	ErrReportFailed      = errors.New("report failed")
	ErrInvalidConfig     = errors.New("invalid report configuration")
	ErrInvalidTrailingFY = errors.New("trailing years must be between 1 and 20")
)
