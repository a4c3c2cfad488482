package plot

import (
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/pivolan/sheet_analyzer/stats"
)

var defaultBarColor = drawing.ColorPurple.WithAlpha(100)

// groupsData is one bar per grouper category.
type groupsData struct {
	categories []string
	palette    []string
	yValues    []float64
	nameGraph  string
}

func newGroupsData(title string, g stats.Grouper, counts []int) groupsData {
	y := make([]float64, len(counts))
	for i, c := range counts {
		y[i] = float64(c)
	}
	return groupsData{
		categories: g.Categories(),
		palette:    g.Palette(),
		yValues:    y,
		nameGraph:  title,
	}
}

func (d groupsData) GetNameGraph() string {
	return d.nameGraph
}

func (d groupsData) getYValues() []float64 {
	return d.yValues
}

func (d groupsData) total() float64 {
	sum := 0.0
	for _, y := range d.yValues {
		sum += y
	}
	return sum
}

// color returns the palette colour of category i, or the default bar colour.
func (d groupsData) color(i int) drawing.Color {
	if i < len(d.palette) && d.palette[i] != "" {
		return drawing.ColorFromHex(strings.TrimPrefix(d.palette[i], "#"))
	}
	return defaultBarColor
}

func (d groupsData) calculateChartDimensions(minBarWidth float64) (width, height int) {
	if len(d.yValues) == 0 || minBarWidth <= 0 {
		return 0, 0
	}
	x := 1.1
	if len(d.yValues) < 2 {
		x = 10.0
	} else if len(d.yValues) < 10 {
		x = 3.0
	}

	const (
		paddingY     = 100        // отступ для оси Y и подписей
		spacingRatio = 0.2        // соотношение отступа между столбцами к ширине столбца
		aspectRatio  = 9.0 / 16.0 // соотношение сторон по умолчанию
	)

	barSpacing := minBarWidth * spacingRatio
	totalWidth := (minBarWidth+barSpacing)*float64(len(d.yValues)) + paddingY
	width = int(totalWidth*x) + paddingY
	height = int(float64(width) * aspectRatio)
	return width, height
}

func (d groupsData) generateBarValues() []chart.Value {
	bars := make([]chart.Value, 0, len(d.yValues))
	for i, y := range d.yValues {
		label := ""
		if i < len(d.categories) {
			label = d.categories[i]
		}
		bars = append(bars, chart.Value{
			Value: y,
			Label: label,
			Style: chart.Style{
				FillColor:   d.color(i),
				StrokeColor: d.color(i),
			},
		})
	}
	return bars
}
