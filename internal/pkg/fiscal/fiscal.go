// Package fiscal implements the April–March financial year calendar used by
// every dashboard period. A financial year is identified by the calendar year
// in which it ends: FY 2026 runs from 2025-04-01 to 2026-03-31 and is labelled
// "FY-26".
package fiscal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// StartMonth is the first month of a financial year.
const StartMonth = time.April

var ErrInvalidLabel = errors.New("invalid financial year label")

// CurrentYear returns the financial year containing now.
func CurrentYear(now time.Time) int {
	if now.Month() >= StartMonth {
		return now.Year() + 1
	}
	return now.Year()
}

// Label formats a financial year as "FY-YY".
func Label(fy int) string {
	return fmt.Sprintf("FY-%02d", ((fy%100)+100)%100)
}

// TrailingLabels returns n labels ending at current, oldest first.
func TrailingLabels(current, n int) []string {
	years := TrailingYears(current, n)
	labels := make([]string, len(years))
	for i, fy := range years {
		labels[i] = Label(fy)
	}
	return labels
}

// TrailingYears returns n financial years ending at current, oldest first.
func TrailingYears(current, n int) []int {
	if n <= 0 {
		return []int{}
	}
	years := make([]int, 0, n)
	for i := n - 1; i >= 0; i-- {
		years = append(years, current-i)
	}
	return years
}

// Date returns the calendar date of t, in t's own location, as UTC midnight.
// Source dates are stored that way, so every comparison against them uses it.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Bounds returns April 1 of fy-1 and March 31 of fy, at UTC midnight.
func Bounds(fy int) (time.Time, time.Time) {
	start := time.Date(fy-1, StartMonth, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(fy, time.March, 31, 0, 0, 0, 0, time.UTC)
	return start, end
}

// ParseLabel converts "FY-26" to 2026. Two-digit years are taken to be in the
// 2000s.
func ParseLabel(label string) (int, error) {
	s := strings.TrimSpace(label)
	if !strings.HasPrefix(strings.ToUpper(s), "FY-") || len(s) != 5 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	yy, err := strconv.Atoi(s[3:])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	return 2000 + yy, nil
}

// DisplayName converts "FY-26" to "Financial Year 2026". Strings that are not
// FY labels are returned unchanged.
func DisplayName(label string) string {
	fy, err := ParseLabel(label)
	if err != nil {
		return label
	}
	return fmt.Sprintf("Financial Year %d", fy)
}

// Period is an inclusive date range.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// YearPeriod returns the period covered by financial year fy.
func YearPeriod(fy int) Period {
	start, end := Bounds(fy)
	return Period{Start: start, End: end}
}

// Contains reports whether t lies in [Start, End].
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// FiscalYear returns the financial year this period spans exactly.
func (p Period) FiscalYear() (int, bool) {
	fy := CurrentYear(p.Start)
	if YearPeriod(fy).equal(p) {
		return fy, true
	}
	return 0, false
}

// Title is the human-readable name of the period, e.g. "Financial Year 25-26".
func (p Period) Title() string {
	if fy, ok := p.FiscalYear(); ok {
		return fmt.Sprintf("Financial Year %02d-%02d", (fy-1)%100, fy%100)
	}
	return p.Start.Format("02 Jan 2006") + " - " + p.End.Format("02 Jan 2006")
}

func (p Period) equal(o Period) bool {
	return p.Start.Equal(o.Start) && p.End.Equal(o.End)
}
