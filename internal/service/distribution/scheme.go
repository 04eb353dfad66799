// Package distribution buckets employees into ordered numeric bins and
// tabulates categorical attributes for chart tables.
package distribution

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidScheme = errors.New("invalid binning scheme")

// Scheme is an ordered set of bins. Bin i covers [Edges[i], Edges[i+1]);
// the last bin also includes its upper edge.
type Scheme struct {
	Name   string
	Edges  []float64
	Labels []string
}

var (
	AgeScheme = Scheme{
		Name:   "Age Group",
		Edges:  []float64{0, 20, 25, 30, 35, 40, 45, 50, 55, 60, 100},
		Labels: []string{"<20", "20-24", "25-29", "30-34", "35-39", "40-44", "45-49", "50-54", "55-59", "60+"},
	}

	TenureScheme = Scheme{
		Name:   "Tenure",
		Edges:  []float64{0, 0.5, 1, 3, 5, 10, 40},
		Labels: []string{"0-6 Months", "6-12 Months", "1-3 Years", "3-5 Years", "5-10 Years", "10+ Years"},
	}

	ExperienceScheme = Scheme{
		Name:   "Experience",
		Edges:  []float64{0, 1, 3, 5, 10, 40},
		Labels: []string{"<1 Year", "1-3 Years", "3-5 Years", "5-10 Years", "10+ Years"},
	}

	// CompensationScheme bins annual CTC in rupees.
	CompensationScheme = Scheme{
		Name:   "CTC Range",
		Edges:  []float64{0, 3e5, 6e5, 10e5, 20e5, 50e5, math.Inf(1)},
		Labels: []string{"<3 L", "3-6 L", "6-10 L", "10-20 L", "20-50 L", "50 L+"},
	}
)

// Validate checks that the scheme has one label per bin and strictly
// increasing edges.
func (s Scheme) Validate() error {
	if len(s.Edges) < 2 {
		return fmt.Errorf("%w: %s needs at least two edges", ErrInvalidScheme, s.Name)
	}
	if len(s.Labels) != len(s.Edges)-1 {
		return fmt.Errorf("%w: %s has %d labels for %d bins", ErrInvalidScheme, s.Name, len(s.Labels), len(s.Edges)-1)
	}
	for i := 1; i < len(s.Edges); i++ {
		if math.IsNaN(s.Edges[i]) || !(s.Edges[i] > s.Edges[i-1]) {
			return fmt.Errorf("%w: %s edges must be strictly increasing", ErrInvalidScheme, s.Name)
		}
	}
	return nil
}

// BucketOf returns the bin index holding v. ok is false when v lies outside
// every bin.
func (s Scheme) BucketOf(v float64) (int, bool) {
	n := len(s.Edges) - 1
	if n < 1 || math.IsNaN(v) || v < s.Edges[0] || v > s.Edges[n] {
		return 0, false
	}
	for i := 0; i < n; i++ {
		if v < s.Edges[i+1] {
			return i, true
		}
	}
	return n - 1, true
}
