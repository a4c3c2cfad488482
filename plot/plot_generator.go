// Package plot draws the category counts of a grouped column.
package plot

import (
	"bytes"
	"fmt"
	"math"

	"github.com/pkg/errors"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/pivolan/sheet_analyzer/stats"
)

// ErrNothingToDraw is returned for groups without a single counted row.
var ErrNothingToDraw = errors.New("nothing to draw")

// DrawGroups renders a PNG bar chart with one bar per category of g,
// coloured with the grouper palette.
func DrawGroups(title string, g stats.Grouper, counts []int) ([]byte, error) {
	data, err := groupsFor(title, g, counts)
	if err != nil {
		return nil, err
	}
	return DrawPlotBar(data)
}

func groupsFor(title string, g stats.Grouper, counts []int) (groupsData, error) {
	if g == nil {
		return groupsData{}, errors.New("column has no grouper")
	}
	if len(counts) != len(g.Categories()) {
		return groupsData{}, errors.Errorf("got %d counts for %d categories", len(counts), len(g.Categories()))
	}
	data := newGroupsData(title, g, counts)
	if data.total() == 0 {
		return groupsData{}, ErrNothingToDraw
	}
	return data, nil
}

func calculateGridStep(maxValue float64) float64 {
	if maxValue <= 0 {
		return 0
	}
	if maxValue < 1e-10 {
		return 1e-10
	}

	// Находим порядок величины максимального значения
	magnitude := math.Pow(10, math.Floor(math.Log10(maxValue)))
	normalized := maxValue / magnitude

	var step float64
	switch {
	case normalized <= 1:
		step = 0.2
	case normalized <= 2:
		step = 0.5
	case normalized <= 5:
		step = 1.0
	default:
		step = 2.0
	}

	finalStep := step * magnitude
	// Округляем большие шаги до "красивых" чисел
	if finalStep >= 1000 {
		return math.Round(finalStep/100) * 100
	}
	if finalStep >= 100 {
		return math.Round(finalStep/10) * 10
	}
	// counts are whole rows
	if finalStep < 1 {
		return 1
	}
	return math.Round(finalStep)
}

func generateTicks(max float64) []chart.Tick {
	step := calculateGridStep(max)
	if step == 0 {
		return nil
	}
	var ticks []chart.Tick
	for v := 0.0; v <= max+step; v += step {
		ticks = append(ticks, chart.Tick{Value: v, Label: fmt.Sprintf("%.0f", v)})
	}
	return ticks
}

func DrawPlotBar(data dataForGraph) ([]byte, error) {
	barValues := data.generateBarValues()
	paddingX := customizePaddingXBottom(barValues)
	width, height := data.calculateChartDimensions(100)
	maxY := findMaxValue(data.getYValues())
	ticks := generateTicks(maxY)
	top := maxY
	if len(ticks) > 0 {
		top = ticks[len(ticks)-1].Value
	}

	bar := chart.BarChart{}
	bar.Title = data.GetNameGraph()
	bar.Background = chart.Style{
		StrokeColor: chart.ColorBlack,
		Padding: chart.Box{
			Bottom: paddingX,
			Top:    50,
		},
	}
	bar.Height = height + 50
	bar.Width = width + paddingX + 50
	bar.BarWidth = 60
	bar.Bars = barValues
	bar.YAxis = chart.YAxis{
		Range: &chart.ContinuousRange{
			Min: 0.0,
			Max: top,
		},
		Style: chart.Style{
			StrokeWidth: 2,
			StrokeColor: chart.ColorBlack,
			FontSize:    17,
		},
		Ticks: ticks,
		GridMajorStyle: chart.Style{
			StrokeColor:     chart.ColorBlack,
			StrokeWidth:     1,
			DotWidth:        1,
			StrokeDashArray: []float64{5.0, 5.0}, // Пунктирная линия
		},
	}
	bar.XAxis = chart.Style{
		StrokeWidth:         2,
		StrokeColor:         chart.ColorBlack,
		TextRotationDegrees: 88,
		FontSize:            17,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := bar.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering chart: %v", err)
	}
	return buffer.Bytes(), nil
}

func findMaxValue(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	max := y[0]
	for _, v := range y {
		if v > max {
			max = v
		}
	}
	return max
}

func customizePaddingXBottom(values []chart.Value) int {
	count := 0
	for _, v := range values {
		if len(v.Label) > count {
			count = len(v.Label)
		}
	}
	return count * 8
}
