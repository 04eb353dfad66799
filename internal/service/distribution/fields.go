package distribution

import (
	"time"

	"github.com/worklense/hrbi-backend-go/internal/domain/workforce"
)

// Experience reads total_exp_yrs. Tenure buckets use the same field.
func Experience(e workforce.Employee) (float64, bool) {
	if e.TotalExpYrs == nil {
		return 0, false
	}
	return *e.TotalExpYrs, true
}

// Compensation reads total_ctc_pa.
func Compensation(e workforce.Employee) (float64, bool) {
	if e.TotalCTCPA == nil {
		return 0, false
	}
	return *e.TotalCTCPA, true
}

// AgeAt returns a Field reading the age in whole years at t.
func AgeAt(t time.Time) Field {
	return func(e workforce.Employee) (float64, bool) {
		age, ok := e.AgeAt(t)
		return float64(age), ok
	}
}

// ActiveAt keeps employees active at t.
func ActiveAt(t time.Time) Population {
	return func(e workforce.Employee) bool { return e.IsActive(t) }
}
