package plot

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/pivolan/sheet_analyzer/stats"
)

// RenderGroupsPie writes an interactive HTML pie chart of the same data
// DrawGroups draws. Empty categories are left out.
func RenderGroupsPie(w io.Writer, title string, g stats.Grouper, counts []int) error {
	data, err := groupsFor(title, g, counts)
	if err != nil {
		return err
	}

	items := make([]opts.PieData, 0, len(data.yValues))
	for i, y := range data.yValues {
		if y == 0 {
			continue
		}
		item := opts.PieData{Name: data.categories[i], Value: y}
		if i < len(data.palette) && data.palette[i] != "" {
			item.ItemStyle = &opts.ItemStyle{Color: data.palette[i]}
		}
		items = append(items, item)
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title}),
	)
	pie.AddSeries(title, items)
	return pie.Render(w)
}
