package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/paceboot/paceboot/internal/stats"
)

const (
	chartWidth  = "100%"
	chartHeight = "500px"

	colorA    = "#5470c6"
	colorB    = "orangered"
	colorNull = "purple"
)

// BootstrapChart overlays the bootstrap mean distributions of both groups.
func BootstrapChart(l Labels, res *stats.Result, bins int) *charts.Bar {
	ha, hb := SharedHistogram(res.A.BootMeans, res.B.BootMeans, bins)

	lvl := FormatLevel(res.ConfidenceLevel)
	subtitle := fmt.Sprintf("%s: mean %.3f, %s%% CI (%.3f, %.3f)   %s: mean %.3f, %s%% CI (%.3f, %.3f)",
		l.A, res.A.Mean, lvl, res.A.CI.Lower, res.A.CI.Upper,
		l.B, res.B.Mean, lvl, res.B.CI.Lower, res.B.CI.Upper)

	bar := newHistogramChart(
		fmt.Sprintf("Bootstrap Means: %s vs %s", l.B, l.A),
		subtitle,
		"Mean "+unitLabel(l),
	)
	bar.SetXAxis(binLabels(ha))
	bar.AddSeries(l.A, barData(ha),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorA}),
		charts.WithBarChartOpts(opts.BarChart{BarGap: "-100%"}),
		charts.WithMarkLineNameXAxisItemOpts(groupMarkers(ha, l.A, res.A, lvl)...),
		charts.WithMarkLineStyleOpts(markerStyle(colorA)),
	)
	bar.AddSeries(l.B, barData(hb),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorB}),
		charts.WithBarChartOpts(opts.BarChart{BarGap: "-100%"}),
		charts.WithMarkLineNameXAxisItemOpts(groupMarkers(hb, l.B, res.B, lvl)...),
		charts.WithMarkLineStyleOpts(markerStyle(colorB)),
	)

	return bar
}

// NullChart shows the permutation distribution of the mean difference.
func NullChart(l Labels, res *stats.Result, bins int) *charts.Bar {
	h := Histogram(res.NullDiffs, bins)

	subtitle := fmt.Sprintf("observed difference %.3f, p = %.4f, %s%% CI (Null) (%.3f, %.3f)",
		res.ObservedDiff, res.PValue, FormatLevel(res.ConfidenceLevel), res.NullCI.Lower, res.NullCI.Upper)

	bar := newHistogramChart(
		"Null Distribution (Assuming No Difference)",
		subtitle,
		"Mean Difference Under Null",
	)
	bar.SetXAxis(binLabels(h))
	lvl := FormatLevel(res.ConfidenceLevel)
	bar.AddSeries("Null Differences", barData(h),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorNull}),
		charts.WithMarkLineNameXAxisItemOpts(
			marker(h, "Observed", res.ObservedDiff),
			marker(h, lvl+"% CI lower", res.NullCI.Lower),
			marker(h, lvl+"% CI upper", res.NullCI.Upper),
		),
		charts.WithMarkLineStyleOpts(markerStyle("black")),
	)

	return bar
}

// Page puts both charts on one HTML page.
func Page(l Labels, res *stats.Result, bins int) *components.Page {
	page := components.NewPage()
	page.AddCharts(
		BootstrapChart(l, res, bins),
		NullChart(l, res, bins),
	)
	return page
}

// RenderCharts writes the chart page for res to w.
func RenderCharts(w io.Writer, l Labels, res *stats.Result) error {
	if err := Page(l, res, DefaultBins).Render(w); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}
	return nil
}

func newHistogramChart(title, subtitle, xName string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Count"}),
	)
	return bar
}

// groupMarkers places vertical lines at a group's mean and CI bounds.
func groupMarkers(bins []Bin, name string, g stats.Group, lvl string) []opts.MarkLineNameXAxisItem {
	return []opts.MarkLineNameXAxisItem{
		marker(bins, name+" mean", g.Mean),
		marker(bins, name+" "+lvl+"% CI lower", g.CI.Lower),
		marker(bins, name+" "+lvl+"% CI upper", g.CI.Upper),
	}
}

// marker puts a line on the category of the bin holding v.
func marker(bins []Bin, name string, v float64) opts.MarkLineNameXAxisItem {
	return opts.MarkLineNameXAxisItem{Name: name, XAxis: BinIndex(bins, v)}
}

func markerStyle(color string) opts.MarkLineStyle {
	return opts.MarkLineStyle{
		Symbol:    []string{"none", "none"},
		Label:     &opts.Label{Show: opts.Bool(true), Formatter: "{b}", Position: "insideEndTop"},
		LineStyle: &opts.LineStyle{Color: color, Type: "dashed", Width: 2},
	}
}

func binLabels(bins []Bin) []string {
	labels := make([]string, len(bins))
	for i, b := range bins {
		labels[i] = strconv.FormatFloat(b.Center(), 'f', 3, 64)
	}
	return labels
}

func barData(bins []Bin) []opts.BarData {
	data := make([]opts.BarData, len(bins))
	for i, b := range bins {
		data[i] = opts.BarData{Value: b.Count}
	}
	return data
}

func unitLabel(l Labels) string {
	if l.Unit == "" {
		return "Value"
	}
	return "(" + l.Unit + ")"
}
