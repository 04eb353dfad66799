package report

// MetricID names one of the closed set of KPI computations a configuration
// row may select.
type MetricID string

const (
	MetricActiveHeadcount  MetricID = "active_headcount"
	MetricLeavers          MetricID = "leavers"
	MetricJoiners          MetricID = "joiners"
	MetricHeadcountStart   MetricID = "headcount_start"
	MetricHeadcountEnd     MetricID = "headcount_end"
	MetricAverageHeadcount MetricID = "average_headcount"
	MetricAttritionRate    MetricID = "attrition_rate"
	MetricTotalCost        MetricID = "total_cost"
	MetricAverageCost      MetricID = "average_cost"
	MetricGenderRatio      MetricID = "gender_ratio"
	MetricAverageTenure    MetricID = "avg_tenure"
	MetricAverageAge       MetricID = "avg_age"
	MetricAverageExp       MetricID = "avg_experience"
	MetricLeaveDays        MetricID = "leave_days"
	MetricLeaveDaysPerHead MetricID = "leave_days_per_head"
	MetricSales            MetricID = "sales"
	MetricSalesPerHead     MetricID = "sales_per_head"
	MetricSalesToCost      MetricID = "sales_to_cost"
)

var metricKinds = map[MetricID]KPIKind{
	MetricActiveHeadcount:  KindInteger,
	MetricLeavers:          KindInteger,
	MetricJoiners:          KindInteger,
	MetricHeadcountStart:   KindInteger,
	MetricHeadcountEnd:     KindInteger,
	MetricAverageHeadcount: KindInteger,
	MetricAttritionRate:    KindPercentage,
	MetricTotalCost:        KindCurrency,
	MetricAverageCost:      KindCurrency,
	MetricGenderRatio:      KindPercentage,
	MetricAverageTenure:    KindYears,
	MetricAverageAge:       KindYears,
	MetricAverageExp:       KindYears,
	MetricLeaveDays:        KindInteger,
	MetricLeaveDaysPerHead: KindInteger,
	MetricSales:            KindCurrency,
	MetricSalesPerHead:     KindCurrency,
	MetricSalesToCost:      KindPercentage,
}

// Kind returns the display kind of the metric.
func (m MetricID) Kind() KPIKind {
	return metricKinds[m]
}

// Valid reports whether m is a known metric.
func (m MetricID) Valid() bool {
	_, ok := metricKinds[m]
	return ok
}

// ChartID names a chart-ready table.
type ChartID string

const (
	ChartManpowerGrowth        ChartID = "manpower_growth"
	ChartManpowerCost          ChartID = "manpower_cost"
	ChartAttrition             ChartID = "attrition"
	ChartMovement              ChartID = "movement"
	ChartGenderDiversity       ChartID = "gender_diversity"
	ChartEducationDistribution ChartID = "education_distribution"
	ChartAgeDistribution       ChartID = "age_distribution"
	ChartTenureDistribution    ChartID = "tenure_distribution"
	ChartTotalExperience       ChartID = "total_experience"
	ChartSalaryDistribution    ChartID = "salary_distribution"
	ChartBandDistribution      ChartID = "band_distribution"
	ChartDepartmentHeadcount   ChartID = "department_headcount"
	ChartEmploymentType        ChartID = "employment_type"
	ChartZoneHeadcount         ChartID = "zone_headcount"
	ChartLeaveByType           ChartID = "leave_by_type"
	ChartLeaveTrend            ChartID = "leave_trend"
	ChartSalesTrend            ChartID = "sales_trend"
	ChartSalesByBusinessUnit   ChartID = "sales_by_business_unit"
)

// ChartSpec is the catalog entry for a chart id.
type ChartSpec struct {
	Description string   `json:"description"`
	ChartTypes  []string `json:"chart_types"`
}

// ChartCatalog maps chart ids to the chart types the presentation layer may
// use for them. The first type is the default.
type ChartCatalog map[ChartID]ChartSpec

// DefaultCatalog is the built-in chart catalog.
var DefaultCatalog = ChartCatalog{
	ChartManpowerGrowth:        {"Workforce Size Over Time", []string{"line", "area", "animated_line"}},
	ChartManpowerCost:          {"Manpower Cost Trend", []string{"bar", "line", "stacked_bar"}},
	ChartAttrition:             {"Attrition Rate", []string{"line", "bar", "waterfall"}},
	ChartMovement:              {"Joiners and Leavers", []string{"bar", "stacked_bar", "line"}},
	ChartGenderDiversity:       {"Gender Diversity", []string{"donut", "pie", "icon_grid"}},
	ChartEducationDistribution: {"Education Distribution", []string{"donut", "treemap", "horizontal_bar"}},
	ChartAgeDistribution:       {"Age Distribution", []string{"pie", "histogram", "box_plot"}},
	ChartTenureDistribution:    {"Tenure Distribution", []string{"pie", "histogram", "violin_plot"}},
	ChartTotalExperience:       {"Total Experience Distribution", []string{"bar", "box_plot", "density_plot"}},
	ChartSalaryDistribution:    {"Salary Distribution (CTC)", []string{"histogram", "box_plot", "violin_plot"}},
	ChartBandDistribution:      {"Band Distribution", []string{"bar", "horizontal_bar", "pie"}},
	ChartDepartmentHeadcount:   {"Headcount by Department", []string{"horizontal_bar", "bar", "treemap"}},
	ChartEmploymentType:        {"Employment Type Mix", []string{"donut", "pie", "bar"}},
	ChartZoneHeadcount:         {"Headcount by Zone", []string{"bar", "pie", "treemap"}},
	ChartLeaveByType:           {"Leave Days by Type", []string{"bar", "donut", "horizontal_bar"}},
	ChartLeaveTrend:            {"Leave Days Trend", []string{"line", "bar", "area"}},
	ChartSalesTrend:            {"Sales Trend", []string{"bar", "line", "area"}},
	ChartSalesByBusinessUnit:   {"Sales by Business Unit", []string{"horizontal_bar", "bar", "pie"}},
}

// Resolve returns requested when the catalog allows it for chart, otherwise
// the chart's default type.
func (c ChartCatalog) Resolve(chart ChartID, requested string) string {
	def, ok := c[chart]
	if !ok || len(def.ChartTypes) == 0 {
		return requested
	}
	for _, t := range def.ChartTypes {
		if t == requested {
			return t
		}
	}
	return def.ChartTypes[0]
}

// Description returns the catalog description for chart, or the id itself.
func (c ChartCatalog) Description(chart ChartID) string {
	if def, ok := c[chart]; ok {
		return def.Description
	}
	return string(chart)
}
