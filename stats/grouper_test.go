package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentageGrouper(t *testing.T) {
	g := PercentageGrouper{}
	assert.Equal(t, []string{"(Blank)", "0-20%", "20-40%", "40-60%", "60-80%", "80-100%"}, g.Categories())
	assert.Nil(t, g.Palette())

	tests := map[string]int{
		"":     0,
		"n/a":  0,
		"0":    1,
		"0.1":  1,
		"0.25": 2,
		"45%":  3,
		"0.79": 4,
		"80%":  5,
		"1":    5,
		"100%": 5,
		"250%": 5,
		"-0.3": 1,
	}
	for value, want := range tests {
		assert.Equal(t, want, g.IndexOf(value), value)
	}
}

func TestTagGrouper(t *testing.T) {
	g := TagGrouper{}
	assert.Equal(t, []string{"Yes", "No"}, g.Categories())
	assert.Len(t, g.Palette(), 2)
	assert.Equal(t, 0, g.IndexOf("1"))
	assert.Equal(t, 1, g.IndexOf(""))
	assert.Equal(t, 1, g.IndexOf("0"))
}

func TestCategoricalGrouper(t *testing.T) {
	g := NewCategoricalGrouper([]string{"b", "a", "b", "0"}, false, nil)
	assert.Equal(t, []string{"b", "a", "0"}, g.Categories())
	assert.Nil(t, g.Palette())
	assert.Equal(t, 0, g.IndexOf("b"))
	assert.Equal(t, 1, g.IndexOf("a"))
	assert.Equal(t, 2, g.IndexOf(""), "blank is looked up as 0")
	assert.Equal(t, Unmapped, g.IndexOf("zzz"))

	withBlank := NewCategoricalGrouper([]string{"x", "y"}, true, nil)
	assert.Equal(t, []string{"x", "y", "(blank)"}, withBlank.Categories())
	assert.Equal(t, 2, withBlank.IndexOf(""))
	assert.Equal(t, 2, withBlank.IndexOf("unknown"))
}

func TestGroupCounts(t *testing.T) {
	g := NewCategoricalGrouper([]string{"x", "y"}, true, nil)
	assert.Equal(t, []int{2, 1, 2}, GroupCounts(g, []string{"x", "", "y", "x", "q"}))

	strict := NewCategoricalGrouper([]string{"x"}, false, []string{"#123456"})
	assert.Equal(t, []int{1}, GroupCounts(strict, []string{"x", "y"}))
	assert.Equal(t, []string{"#123456"}, strict.Palette())
}
