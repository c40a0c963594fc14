package render

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/datalens-ai/datalens/internal/result"
)

// Chart title/label defaults when the agent leaves them unspecified.
const (
	defaultBarTitle   = "统计图表"
	defaultBarXLabel  = "类别"
	defaultLineTitle  = "趋势图表"
	defaultLineXLabel = "时间/类别"
	defaultYLabel     = "数值"
)

// viridis anchor colors; bars get a sequential ramp sampled between them.
var palette = [...]string{"#440154", "#46327e", "#365c8d", "#277f8e", "#1fa187", "#4ac16d", "#a0da39", "#fde725"}

// barColors returns n sequential palette colors.
func barColors(n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	for i := range out {
		idx := i * (len(palette) - 1) / max(n-1, 1)
		out[i] = palette[idx]
	}
	return out
}

// Bar builds the bar chart: one bar per category in the given order,
// sequential colors, value labels above bars.
func Bar(spec *result.ChartSpec) (*charts.Bar, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	title, xLabel, yLabel := chartLabels(spec, defaultBarTitle, defaultBarXLabel)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: xLabel}),
		charts.WithYAxisOpts(opts.YAxis{Name: yLabel}),
	)

	colors := barColors(len(spec.Data))
	items := make([]opts.BarData, len(spec.Data))
	for i, v := range spec.Data {
		items[i] = opts.BarData{
			Value:     v,
			ItemStyle: &opts.ItemStyle{Color: colors[i]},
		}
	}
	bar.SetXAxis(spec.Columns).
		AddSeries("", items).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: true, Position: "top"}))
	return bar, nil
}

// Line builds the line chart: points connected in category order, with
// markers and gridlines.
func Line(spec *result.ChartSpec) (*charts.Line, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	title, xLabel, yLabel := chartLabels(spec, defaultLineTitle, defaultLineXLabel)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: xLabel, SplitLine: &opts.SplitLine{Show: true}}),
		charts.WithYAxisOpts(opts.YAxis{Name: yLabel, SplitLine: &opts.SplitLine{Show: true}}),
	)

	items := make([]opts.LineData, len(spec.Data))
	for i, v := range spec.Data {
		items[i] = opts.LineData{Value: v}
	}
	line.SetXAxis(spec.Columns).
		AddSeries("", items).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: true}),
		)
	return line, nil
}

func chartLabels(spec *result.ChartSpec, defTitle, defX string) (title, x, y string) {
	title, x, y = spec.Title, spec.XLabel, spec.YLabel
	if title == "" {
		title = defTitle
	}
	if x == "" {
		x = defX
	}
	if y == "" {
		y = defaultYLabel
	}
	return title, x, y
}
