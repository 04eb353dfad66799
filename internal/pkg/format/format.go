// Package format renders KPI values for display. Computation never depends on
// it.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/worklense/hrbi-backend-go/internal/domain/report"
)

const crore = 1e7

// KPI formats value according to kind:
//
//	Currency    ₹12 Cr    (crores, no decimals)
//	Percentage  12.5%
//	Years       4.2 Yrs
//	Integer     1,234
func KPI(value float64, kind report.KPIKind) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "-"
	}
	switch kind {
	case report.KindCurrency:
		cr := decimal.NewFromFloat(value).Div(decimal.NewFromFloat(crore)).RoundBank(0)
		return "₹" + Thousands(cr.IntPart()) + " Cr"
	case report.KindPercentage:
		return fmt.Sprintf("%.1f%%", value)
	case report.KindYears:
		return fmt.Sprintf("%.1f Yrs", value)
	case report.KindInteger:
		return Thousands(int64(value))
	default:
		return strconv.FormatFloat(value, 'f', -1, 64)
	}
}

// Exact renders counts and amounts in full with Indian grouping, e.g.
// "₹12,50,00,000". Other kinds have no exact form and yield "".
func Exact(value float64, kind report.KPIKind) string {
	switch kind {
	case report.KindCurrency:
		return "₹" + Indian(value)
	case report.KindInteger:
		return Indian(value)
	}
	return ""
}

// Thousands groups digits in threes: 1234567 becomes "1,234,567".
func Thousands(n int64) string {
	sign, digits := split(n)
	return sign + group(digits, 3, 3)
}

// Indian groups digits the lakh/crore way: 12345678 becomes "1,23,45,678".
// Fractions are truncated.
func Indian(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "-"
	}
	sign, digits := split(int64(value))
	return sign + group(digits, 3, 2)
}

func split(n int64) (string, string) {
	s := strconv.FormatInt(n, 10)
	if strings.HasPrefix(s, "-") {
		return "-", s[1:]
	}
	return "", s
}

// group inserts commas after the last `first` digits and then every `rest`
// digits.
func group(digits string, first, rest int) string {
	if len(digits) <= first {
		return digits
	}
	head, tail := digits[:len(digits)-first], digits[len(digits)-first:]
	var parts []string
	for len(head) > rest {
		parts = append([]string{head[len(head)-rest:]}, parts...)
		head = head[:len(head)-rest]
	}
	parts = append([]string{head}, parts...)
	return strings.Join(append(parts, tail), ",")
}
