package spreadsheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/worklense/hrbi-backend-go/internal/domain/report"
)

const (
	colMetric    = "metric"
	colLabel     = "label"
	colChart     = "chart"
	colTitle     = "title"
	colChartType = "chart_type"
	colOrder     = "order"
	colVisible   = "visible"
)

var configAliases = map[string]string{
	"metric_id":     colMetric,
	"kpi":           colMetric,
	"kpi_id":        colMetric,
	"kpi_label":     colLabel,
	"display_name":  colLabel,
	"chart_id":      colChart,
	"chart_name":    colChart,
	"metric_name":   colChart,
	"chart_title":   colTitle,
	"type":          colChartType,
	"display_order": colOrder,
	"sort_order":    colOrder,
	"position":      colOrder,
	"show":          colVisible,
	"enabled":       colVisible,
	"is_visible":    colVisible,
}

// DecodeConfig builds a report Config from workbook sheets. Sheets named
// "<Topic>_KPIs" and "<Topic>_Charts" are read; others are ignored. Unknown
// metric ids are rejected so that a typo does not silently drop a KPI.
func DecodeConfig(sheets []Sheet) (report.Config, error) {
	cfg := report.Config{
		KPIs:   map[string][]report.KPIConfig{},
		Charts: map[string][]report.ChartConfig{},
	}
	for _, s := range sheets {
		switch {
		case strings.HasSuffix(s.Name, "_KPIs"):
			rows, err := decodeKPISheet(s)
			if err != nil {
				return report.Config{}, err
			}
			cfg.KPIs[s.Name] = rows
		case strings.HasSuffix(s.Name, "_Charts"):
			rows, err := decodeChartSheet(s)
			if err != nil {
				return report.Config{}, err
			}
			cfg.Charts[s.Name] = rows
		}
	}
	return cfg, nil
}

func decodeKPISheet(s Sheet) ([]report.KPIConfig, error) {
	t, err := newTable(s.Rows, configAliases)
	if err != nil {
		return nil, nil
	}
	if !t.has(colMetric) {
		return nil, fmt.Errorf("%w: sheet %s has no %s column", report.ErrInvalidConfig, s.Name, colMetric)
	}

	var out []report.KPIConfig
	var decodeErr error
	n := 0
	t.each(func(row []string) {
		n++
		if decodeErr != nil {
			return
		}
		id := report.MetricID(strings.ToLower(t.cell(row, colMetric)))
		if !id.Valid() {
			decodeErr = fmt.Errorf("%w: sheet %s row %d: unknown metric %q", report.ErrInvalidConfig, s.Name, n, id)
			return
		}
		out = append(out, report.KPIConfig{
			Metric:  id,
			Label:   t.cell(row, colLabel),
			Order:   parseOrder(t.cell(row, colOrder), n),
			Visible: parseBool(t.cell(row, colVisible), true),
		})
	})
	return out, decodeErr
}

func decodeChartSheet(s Sheet) ([]report.ChartConfig, error) {
	t, err := newTable(s.Rows, configAliases)
	if err != nil {
		return nil, nil
	}
	if !t.has(colChart) {
		return nil, fmt.Errorf("%w: sheet %s has no %s column", report.ErrInvalidConfig, s.Name, colChart)
	}

	var out []report.ChartConfig
	n := 0
	t.each(func(row []string) {
		n++
		out = append(out, report.ChartConfig{
			Chart:     report.ChartID(strings.ToLower(t.cell(row, colChart))),
			Title:     t.cell(row, colTitle),
			ChartType: strings.ToLower(t.cell(row, colChartType)),
			Order:     parseOrder(t.cell(row, colOrder), n),
			Visible:   parseBool(t.cell(row, colVisible), true),
		})
	})
	return out, nil
}

// parseOrder falls back to the row position for blank or invalid cells.
func parseOrder(s string, position int) int {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return position
}
