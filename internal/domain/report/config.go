package report

import (
	"context"
	"sort"
)

// KPIConfig is one row of a "<Report>_KPIs" configuration sheet.
type KPIConfig struct {
	Metric  MetricID `json:"metric" koanf:"metric"`
	Label   string   `json:"label" koanf:"label"`
	Order   int      `json:"order" koanf:"order"`
	Visible bool     `json:"visible" koanf:"visible"`
}

// ChartConfig is one row of a "<Report>_Charts" configuration sheet.
type ChartConfig struct {
	Chart     ChartID `json:"chart" koanf:"chart"`
	Title     string  `json:"title" koanf:"title"`
	ChartType string  `json:"chart_type" koanf:"chart_type"`
	Order     int     `json:"order" koanf:"order"`
	Visible   bool    `json:"visible" koanf:"visible"`
}

// Config is the sheet-per-topic report configuration. Keys are sheet names
// such as "ExecutiveSummary_KPIs".
type Config struct {
	KPIs   map[string][]KPIConfig   `json:"kpis" koanf:"kpis"`
	Charts map[string][]ChartConfig `json:"charts" koanf:"charts"`
}

// KPISheet returns the KPI sheet name for a report topic.
func KPISheet(topic string) string { return topic + "_KPIs" }

// ChartSheet returns the chart sheet name for a report topic.
func ChartSheet(topic string) string { return topic + "_Charts" }

// KPIsFor returns the visible KPI rows for topic ordered by Order. ok is false
// when the topic has no usable configuration and defaults apply.
func (c Config) KPIsFor(topic string) ([]KPIConfig, bool) {
	rows, ok := c.KPIs[KPISheet(topic)]
	if !ok || len(rows) == 0 {
		return nil, false
	}
	out := make([]KPIConfig, 0, len(rows))
	for _, r := range rows {
		if r.Visible && r.Metric.Valid() {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, true
}

// ChartsFor returns the visible chart rows for topic ordered by Order.
func (c Config) ChartsFor(topic string) ([]ChartConfig, bool) {
	rows, ok := c.Charts[ChartSheet(topic)]
	if !ok || len(rows) == 0 {
		return nil, false
	}
	out := make([]ChartConfig, 0, len(rows))
	for _, r := range rows {
		if r.Visible && r.Chart != "" {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, true
}

// IsEmpty reports whether no sheet was loaded.
func (c Config) IsEmpty() bool {
	return len(c.KPIs) == 0 && len(c.Charts) == 0
}

// ConfigRepository loads report configuration. A missing source yields an
// empty Config, not an error.
type ConfigRepository interface {
	LoadConfig(ctx context.Context) (Config, error)
}
