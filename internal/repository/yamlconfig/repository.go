// Package yamlconfig loads the report configuration from a YAML file with
// the same sheet-per-topic layout as the configuration workbook:
//
//	kpis:
//	  ExecutiveSummary_KPIs:
//	    - metric: active_headcount
//	      label: Headcount
//	      order: 1
//	charts:
//	  ExecutiveSummary_Charts:
//	    - chart: manpower_growth
//	      chart_type: area
package yamlconfig

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/worklense/hrbi-backend-go/internal/domain/report"
)

type kpiRow struct {
	Metric  string `koanf:"metric"`
	Label   string `koanf:"label"`
	Order   int    `koanf:"order"`
	Visible *bool  `koanf:"visible"`
}

type chartRow struct {
	Chart     string `koanf:"chart"`
	Title     string `koanf:"title"`
	ChartType string `koanf:"chart_type"`
	Order     int    `koanf:"order"`
	Visible   *bool  `koanf:"visible"`
}

type document struct {
	KPIs   map[string][]kpiRow   `koanf:"kpis"`
	Charts map[string][]chartRow `koanf:"charts"`
}

type Repository struct {
	path string
}

func NewRepository(path string) *Repository {
	return &Repository{path: path}
}

// LoadConfig parses the file on every call. A missing file yields an empty
// Config.
func (r *Repository) LoadConfig(ctx context.Context) (report.Config, error) {
	if err := ctx.Err(); err != nil {
		return report.Config{}, err
	}
	if _, err := os.Stat(r.path); errors.Is(err, fs.ErrNotExist) {
		return report.Config{}, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(r.path), yaml.Parser()); err != nil {
		return report.Config{}, fmt.Errorf("%w: %s: %w", report.ErrInvalidConfig, r.path, err)
	}
	var doc document
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return report.Config{}, fmt.Errorf("%w: %s: %w", report.ErrInvalidConfig, r.path, err)
	}
	return doc.toConfig()
}

func (d document) toConfig() (report.Config, error) {
	cfg := report.Config{
		KPIs:   make(map[string][]report.KPIConfig, len(d.KPIs)),
		Charts: make(map[string][]report.ChartConfig, len(d.Charts)),
	}
	for sheet, rows := range d.KPIs {
		out := make([]report.KPIConfig, 0, len(rows))
		for i, row := range rows {
			id := report.MetricID(strings.ToLower(strings.TrimSpace(row.Metric)))
			if !id.Valid() {
				return report.Config{}, fmt.Errorf("%w: %s[%d]: unknown metric %q", report.ErrInvalidConfig, sheet, i, row.Metric)
			}
			out = append(out, report.KPIConfig{
				Metric:  id,
				Label:   row.Label,
				Order:   orderOr(row.Order, i+1),
				Visible: row.Visible == nil || *row.Visible,
			})
		}
		cfg.KPIs[sheet] = out
	}
	for sheet, rows := range d.Charts {
		out := make([]report.ChartConfig, 0, len(rows))
		for i, row := range rows {
			out = append(out, report.ChartConfig{
				Chart:     report.ChartID(strings.ToLower(strings.TrimSpace(row.Chart))),
				Title:     row.Title,
				ChartType: strings.ToLower(row.ChartType),
				Order:     orderOr(row.Order, i+1),
				Visible:   row.Visible == nil || *row.Visible,
			})
		}
		cfg.Charts[sheet] = out
	}
	return cfg, nil
}

func orderOr(order, position int) int {
	if order == 0 {
		return position
	}
	return order
}
