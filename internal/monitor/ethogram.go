package monitor

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/norvegicus-data/behavior.report/internal/behavior"
)

// ethogramRows fixes the vertical order of attention labels in the chart.
// One row per label, grooming at the bottom.
var ethogramRows = []behavior.Attention{
	behavior.AttentionGrooming,
	behavior.AttentionSniffingTop,
	behavior.AttentionSniffingBottom,
	behavior.AttentionHeadTop,
	behavior.AttentionHeadMiddle,
	behavior.AttentionHeadBottom,
	behavior.AttentionUnknown,
}

// RenderEthogram renders a scatter-style ethogram (HTML) of the attention
// label sequence over time using go-echarts. Each label occupies its own
// row so bouts read as horizontal bands.
func RenderEthogram(w io.Writer, title string, results []behavior.FrameResult) error {
	rowOf := make(map[behavior.Attention]int, len(ethogramRows))
	for i, label := range ethogramRows {
		rowOf[label] = i
	}

	series := make(map[behavior.Attention][]opts.ScatterData)
	for _, r := range results {
		row, ok := rowOf[r.Attention]
		if !ok {
			continue
		}
		series[r.Attention] = append(series[r.Attention], opts.ScatterData{
			Value: []interface{}{r.TimeSeconds, row},
		})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Ethogram", Theme: "dark", Width: "1200px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("frames=%d", len(results))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time (s)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -1, Max: len(ethogramRows), Name: "Behavior"}),
	)

	for _, label := range ethogramRows {
		data := series[label]
		if len(data) == 0 {
			continue
		}
		scatter.AddSeries(string(label), data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))
	}

	return scatter.Render(w)
}
