package workforce

import "errors"

var (
	ErrSourceNotFound     = errors.New("data source not found")
	ErrUnsupportedFormat  = errors.New("unsupported spreadsheet format")
	ErrEmptySheet         = errors.New("worksheet is empty")
	ErrUnknownSource      = errors.New("unknown data source")
	ErrMissingHeader      = errors.New("header row is missing")
	ErrSourceNotWritable  = errors.New("data source is not writable")
	ErrInvalidSourceField = errors.New("invalid source field")
)
