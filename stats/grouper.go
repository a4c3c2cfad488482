package stats

import (
	"math"
	"strconv"
	"strings"
)

// Unmapped is returned by Grouper.IndexOf for values outside every category.
const Unmapped = -1

const blankCategory = "(blank)"

// Grouper maps raw column values into a small fixed set of categories.
type Grouper interface {
	Categories() []string
	IndexOf(value string) int
	// Palette is aligned with Categories, nil when the grouper has no colours.
	Palette() []string
}

// GroupCounts counts values per category. Unmapped values are skipped.
func GroupCounts(g Grouper, values []string) []int {
	counts := make([]int, len(g.Categories()))
	for _, v := range values {
		if i := g.IndexOf(v); i >= 0 && i < len(counts) {
			counts[i]++
		}
	}
	return counts
}

var percentageCategories = []string{"(Blank)", "0-20%", "20-40%", "40-60%", "60-80%", "80-100%"}

// PercentageGrouper buckets fractions or percentages into 20 point ranges.
type PercentageGrouper struct{}

func (PercentageGrouper) Categories() []string {
	return append([]string(nil), percentageCategories...)
}

func (PercentageGrouper) Palette() []string { return nil }

func (PercentageGrouper) IndexOf(value string) int {
	v := strings.TrimSpace(value)
	isPercent := strings.HasSuffix(v, "%")
	if isPercent {
		v = strings.TrimSuffix(v, "%")
	}
	n, ok := parseNumber(v)
	if !ok {
		return 0
	}
	if !isPercent {
		n *= 100
	}
	idx := 1 + int(math.Floor(n/20))
	if idx < 1 {
		idx = 1
	}
	if idx > 5 {
		idx = 5
	}
	return idx
}

// TagGrouper splits a tag column into tagged and untagged rows.
type TagGrouper struct{}

func (TagGrouper) Categories() []string { return []string{"Yes", "No"} }

func (TagGrouper) Palette() []string { return []string{"#00FF00", "#FF0000"} }

func (TagGrouper) IndexOf(value string) int {
	if value == "1" {
		return 0
	}
	return 1
}

// CategoricalGrouper has one category per distinct value.
type CategoricalGrouper struct {
	categories []string
	index      map[string]int
	palette    []string
	blankIndex int
}

// NewCategoricalGrouper builds a grouper from values in order, dropping
// duplicates. When withBlank is set a trailing "(blank)" category catches
// blank and unknown values.
func NewCategoricalGrouper(values []string, withBlank bool, palette []string) *CategoricalGrouper {
	g := &CategoricalGrouper{
		index:      make(map[string]int, len(values)+1),
		blankIndex: Unmapped,
	}
	for _, v := range values {
		if _, ok := g.index[v]; ok {
			continue
		}
		g.index[v] = len(g.categories)
		g.categories = append(g.categories, v)
	}
	if withBlank {
		g.blankIndex = len(g.categories)
		g.categories = append(g.categories, blankCategory)
	}
	if len(palette) > 0 {
		g.palette = append([]string(nil), palette...)
	}
	return g
}

func (g *CategoricalGrouper) Categories() []string {
	return append([]string(nil), g.categories...)
}

func (g *CategoricalGrouper) Palette() []string {
	if g.palette == nil {
		return nil
	}
	return append([]string(nil), g.palette...)
}

func (g *CategoricalGrouper) IndexOf(value string) int {
	// "0" and blank share an index
	if value == "" {
		value = "0"
	}
	if i, ok := g.index[value]; ok {
		return i
	}
	return g.blankIndex
}

func selectGrouper(name string, p *Profile, conv Conventions) Grouper {
	switch conv.Groupers[name] {
	case GroupPercentage:
		return PercentageGrouper{}
	case GroupFixedFive:
		return NewCategoricalGrouper(conv.FixedFive.Values, false, conv.FixedFive.Palette)
	}
	if p.isTag {
		return TagGrouper{}
	}
	if len(p.possible) < conv.MaxGroupValues || conv.Groupers[name] == GroupCategorical {
		return NewCategoricalGrouper(p.possible, p.blankCount > 0, nil)
	}
	return nil
}

// parseNumber accepts plain decimal numbers only. ParseFloat alone would also
// take digit separators like 1_000 and hex floats like 0x1p2.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.Trim(s, "0123456789.eE+-") != "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
