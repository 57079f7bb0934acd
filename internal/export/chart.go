package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/dealhawk/deal-service/internal/feed"
)

// discountBuckets are the histogram edges for the discount distribution.
var discountBuckets = []string{
	"0-9", "10-19", "20-29", "30-39", "40-49",
	"50-59", "60-69", "70-79", "80-89", "90-100",
}

// RenderCharts writes an HTML page with a discount distribution bar chart
// and a per-keyword pie chart for the given snapshot.
func RenderCharts(deals []feed.Deal, w io.Writer) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Discount Distribution"}))

	counts := make([]int, len(discountBuckets))
	for _, d := range deals {
		idx := d.Discount / 10
		if idx < 0 {
			idx = 0
		}
		if idx >= len(counts) {
			idx = len(counts) - 1
		}
		counts[idx]++
	}

	barData := make([]opts.BarData, len(counts))
	for i, c := range counts {
		barData[i] = opts.BarData{Value: c}
	}
	bar.SetXAxis(discountBuckets).AddSeries("Deals", barData)

	pie := charts.NewPie()
	pie.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Deals per Keyword"}))

	byKeyword := make(map[string]int)
	for _, d := range deals {
		byKeyword[d.Keyword]++
	}
	keywords := make([]string, 0, len(byKeyword))
	for k := range byKeyword {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)

	pieData := make([]opts.PieData, 0, len(keywords))
	for _, k := range keywords {
		name := k
		if name == "" {
			name = "(none)"
		}
		pieData = append(pieData, opts.PieData{Name: name, Value: byKeyword[k]})
	}
	pie.AddSeries("Keywords", pieData)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render discount chart: %w", err)
	}
	if err := pie.Render(w); err != nil {
		return fmt.Errorf("failed to render keyword chart: %w", err)
	}
	return nil
}
