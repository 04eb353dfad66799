package spreadsheet

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/worklense/hrbi-backend-go/internal/domain/workforce"
	"github.com/xuri/excelize/v2"
)

var headerSeparators = regexp.MustCompile(`[\s\-./()]+`)

// NormalizeHeader lower-cases a header cell and joins words with underscores:
// "Date Of Joining" and "date-of-joining" both become "date_of_joining".
func NormalizeHeader(h string) string {
	h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	h = strings.ToLower(h)
	h = strings.Trim(headerSeparators.ReplaceAllString(h, "_"), "_")
	return h
}

// table is a sheet with its header row resolved to column indexes.
type table struct {
	index map[string]int
	rows  [][]string
}

// newTable treats the first non-blank row as the header. aliases maps
// alternative header spellings to canonical column names.
func newTable(rows [][]string, aliases map[string]string) (*table, error) {
	for i, row := range rows {
		if blankRows([][]string{row}) {
			continue
		}
		index := make(map[string]int, len(row))
		for col, cell := range row {
			name := NormalizeHeader(cell)
			if name == "" {
				continue
			}
			if canonical, ok := aliases[name]; ok {
				name = canonical
			}
			if _, dup := index[name]; !dup {
				index[name] = col
			}
		}
		return &table{index: index, rows: rows[i+1:]}, nil
	}
	return nil, workforce.ErrMissingHeader
}

func (t *table) has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// columns returns the canonical columns present among known.
func (t *table) columns(known []string) []string {
	var out []string
	for _, c := range known {
		if t.has(c) {
			out = append(out, c)
		}
	}
	return out
}

// each calls fn for every non-blank data row.
func (t *table) each(fn func(row []string)) {
	for _, row := range t.rows {
		if blankRows([][]string{row}) {
			continue
		}
		fn(row)
	}
}

// cell returns the trimmed value of col in row, or "" when absent.
func (t *table) cell(row []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t *table) date(row []string, col string) *time.Time {
	return parseDate(t.cell(row, col))
}

func (t *table) number(row []string, col string) *float64 {
	return parseNumber(t.cell(row, col))
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
	"02-Jan-2006",
	"02 Jan 2006",
	"2-Jan-06",
	"Jan 2, 2006",
	"01-02-06",
}

// Excel serials between 1900-01-01 and 9999-12-31.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// parseDate accepts ISO and common display formats as well as Excel serial
// numbers. Unparsable values yield nil. Results are UTC midnight.
func parseDate(s string) *time.Time {
	if s == "" || s == "-" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f < minExcelSerial || f > maxExcelSerial {
			return nil
		}
		t, err := excelize.ExcelDateToTime(f, false)
		if err != nil {
			return nil
		}
		return midnight(t)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return midnight(t)
		}
	}
	return nil
}

func midnight(t time.Time) *time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

var numberNoise = strings.NewReplacer(",", "", "₹", "", "INR", "", "Rs.", "", "Rs", "", " ", "", "\u00a0", "")

// parseNumber strips grouping separators and currency markers. Unparsable
// values yield nil.
func parseNumber(s string) *float64 {
	s = numberNoise.Replace(s)
	if s == "" || s == "-" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// parseBool reads visibility flags. Blank means def.
func parseBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def
	case "1", "true", "yes", "y", "t", "show", "visible":
		return true
	default:
		return false
	}
}
