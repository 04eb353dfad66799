// Package filter narrows the employee population by categorical attributes.
//
// Policy: an attribute that is absent from the selection, mapped to an empty
// value set, or mapped to every value present in the data is unfiltered.
// Attributes are combined with AND; values within one attribute with OR.
package filter

import (
	"sort"

	"github.com/samber/lo"
	"github.com/worklense/hrbi-backend-go/internal/domain/workforce"
)

// Selection maps an attribute name to its allowed values.
type Selection map[string][]string

// Apply returns the rows of ds that satisfy sel. The input is never modified.
// Unknown attributes and attributes missing from the source are ignored.
func Apply(ds *workforce.Dataset, sel Selection) *workforce.Dataset {
	if ds == nil {
		return nil
	}
	active := sel.Normalize(ds)
	if len(active) == 0 {
		return ds.Where(func(workforce.Employee) bool { return true })
	}

	sets := make(map[string]map[string]struct{}, len(active))
	for attr, values := range active {
		sets[attr] = lo.SliceToMap(values, func(v string) (string, struct{}) { return v, struct{}{} })
	}

	return ds.Where(func(e workforce.Employee) bool {
		for attr, allowed := range sets {
			v, _ := e.Attribute(attr)
			if _, ok := allowed[v]; !ok {
				return false
			}
		}
		return true
	})
}

// Normalize returns the effective selection against ds: entries for unknown
// attributes, missing columns, empty value sets and full value sets are
// dropped, and the remaining values are de-duplicated and sorted.
func (sel Selection) Normalize(ds *workforce.Dataset) Selection {
	out := make(Selection)
	for attr, values := range sel {
		if _, known := (workforce.Employee{}).Attribute(attr); !known {
			continue
		}
		if !ds.HasColumn(attr) {
			continue
		}
		values = lo.Uniq(values)
		if len(values) == 0 {
			continue
		}
		present := ds.Distinct(attr)
		if coversAll(values, present) {
			continue
		}
		sorted := append([]string(nil), values...)
		sort.Strings(sorted)
		out[attr] = sorted
	}
	return out
}

// IsUnfiltered reports whether sel leaves ds unchanged.
func (sel Selection) IsUnfiltered(ds *workforce.Dataset) bool {
	return len(sel.Normalize(ds)) == 0
}

// Options returns, per attribute, the sorted distinct non-empty values present
// in ds. Attributes missing from the source are omitted.
func Options(ds *workforce.Dataset, attrs []string) map[string][]string {
	out := make(map[string][]string, len(attrs))
	for _, attr := range attrs {
		if !ds.HasColumn(attr) {
			continue
		}
		values := ds.Distinct(attr)
		if values == nil {
			values = []string{}
		}
		out[attr] = values
	}
	return out
}

func coversAll(selected, present []string) bool {
	if len(present) == 0 {
		return false
	}
	chosen := lo.SliceToMap(selected, func(v string) (string, struct{}) { return v, struct{}{} })
	return lo.EveryBy(present, func(v string) bool {
		_, ok := chosen[v]
		return ok
	})
}
