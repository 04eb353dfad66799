package distribution

import (
	"sort"

	"github.com/samber/lo"
	"github.com/worklense/hrbi-backend-go/internal/domain/report"
	"github.com/worklense/hrbi-backend-go/internal/domain/workforce"
)

// ColCount is the value column of every distribution table.
const ColCount = "Count"

// Count is one labelled bucket.
type Count struct {
	Label string
	Count int
}

// Field extracts a numeric value from an employee. ok is false when the
// employee has no value.
type Field func(workforce.Employee) (float64, bool)

// Population selects the employees a distribution describes. A nil
// Population keeps every row.
type Population func(workforce.Employee) bool

// BucketCounts bins the rows kept by population, in the scheme's declared
// order. Every bin is listed, including empty ones. Rows without a value or
// with a value outside all bins are left out.
func BucketCounts(rows []workforce.Employee, field Field, scheme Scheme, population Population) []Count {
	counts := make([]Count, len(scheme.Labels))
	for i, l := range scheme.Labels {
		counts[i].Label = l
	}
	if scheme.Validate() != nil {
		return counts
	}
	for _, e := range rows {
		if population != nil && !population(e) {
			continue
		}
		v, ok := field(e)
		if !ok {
			continue
		}
		if i, ok := scheme.BucketOf(v); ok {
			counts[i].Count++
		}
	}
	return counts
}

// CategoryCounts tabulates a categorical attribute over the rows kept by
// population, by descending count and then by label. Blank values and
// unknown attributes are skipped.
func CategoryCounts(rows []workforce.Employee, attr string, population Population) []Count {
	kept := lo.Filter(rows, func(e workforce.Employee, _ int) bool {
		if population != nil && !population(e) {
			return false
		}
		v, ok := e.Attribute(attr)
		return ok && v != ""
	})
	byValue := lo.CountValuesBy(kept, func(e workforce.Employee) string {
		v, _ := e.Attribute(attr)
		return v
	})

	counts := make([]Count, 0, len(byValue))
	for label, n := range byValue {
		counts = append(counts, Count{Label: label, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Label < counts[j].Label
	})
	return counts
}

// Table converts counts to a two-column chart table.
func Table(name report.ChartID, labelColumn string, counts []Count) report.Table {
	rows := make([][]any, len(counts))
	for i, c := range counts {
		rows[i] = []any{c.Label, c.Count}
	}
	return report.Table{
		Name:    name,
		Title:   report.DefaultCatalog.Description(name),
		Columns: []string{labelColumn, ColCount},
		Rows:    rows,
	}
}
