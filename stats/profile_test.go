package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfile(values ...string) *Profile {
	return NewProfile("col", values, DefaultConventions())
}

func repeat(v string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestProfileCounts(t *testing.T) {
	for _, values := range [][]string{
		nil,
		{""},
		{"a", "", "b", "", ""},
		{"1", "1", "0"},
	} {
		p := newProfile(values...)
		nonBlank := 0
		for _, v := range values {
			if v != "" {
				nonBlank++
			}
		}
		assert.Equal(t, len(values), p.TotalCount())
		assert.Equal(t, p.TotalCount(), p.BlankCount()+nonBlank)
		assert.LessOrEqual(t, p.UniqueCount(), nonBlank)
	}
}

func TestProfileTag(t *testing.T) {
	values := repeat("", 9)
	values[4] = "1"
	p := newProfile(values...)
	assert.True(t, p.IsTag())
	assert.False(t, p.IsNumeric())
	assert.IsType(t, TagGrouper{}, p.Grouper())

	assert.False(t, newProfile("1", "1", "1").IsTag(), "no blanks")
	assert.False(t, newProfile("", "", "").IsTag(), "all blank")
	assert.True(t, newProfile("1", "0", "").IsTag())
	assert.False(t, newProfile("1", "2", "").IsTag())
}

func TestProfileNumeric(t *testing.T) {
	p := newProfile("3", "1", "2")
	require.True(t, p.IsNumeric())
	min, max, ok := p.NumericRange()
	assert.True(t, ok)
	assert.Equal(t, 1.0, min)
	assert.Equal(t, 3.0, max)

	assert.False(t, newProfile("3", "x", "2").IsNumeric())
	assert.False(t, newProfile("", "").IsNumeric(), "nothing parsed")
	assert.False(t, newProfile("12_04", "3").IsNumeric(), "digit separators")
	assert.False(t, newProfile("0x1p2", "3").IsNumeric(), "hex float")
	assert.False(t, newProfile("-0X10", "3").IsNumeric(), "signed hex")
	assert.False(t, newProfile("Inf", "3").IsNumeric())
	assert.True(t, newProfile(" 3 ", "1e3", "-2.5").IsNumeric())

	_, _, ok = newProfile("3", "x").NumericRange()
	assert.False(t, ok)
}

func TestProfileNumericZeroMinimum(t *testing.T) {
	min, max, ok := newProfile("5", "0", "2").NumericRange()
	require.True(t, ok)
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 5.0, max)

	min, max, ok = newProfile("0", "0", "1").NumericRange()
	require.True(t, ok)
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 1.0, max)
}

func TestProfileNumericPercent(t *testing.T) {
	min, max, ok := newProfile("50%", "0.1", "120%").NumericRange()
	require.True(t, ok)
	assert.Equal(t, 0.1, min)
	assert.Equal(t, 1.2, max)

	assert.False(t, newProfile("abc%").IsNumeric())
}

func TestProfileUniqueValuesByFrequency(t *testing.T) {
	p := newProfile("a", "b", "a", "c", "b", "a")
	assert.Equal(t, []string{"a (x3)", "b (x2)", "c (x1)"}, p.FrequencyLabels())

	p = newProfile("z", "y", "x", "y", "z")
	assert.Equal(t, []ValueCount{{"z", 2}, {"y", 2}, {"x", 1}}, p.UniqueValuesByFrequency())
}

func TestProfilePossibleValues(t *testing.T) {
	p := newProfile("pear", "", "apple", "pear", "fig")
	assert.Equal(t, []string{"apple", "fig", "pear"}, p.PossibleValues())
}

func TestNewTagProfile(t *testing.T) {
	p := NewTagProfile("Called", []string{"r1", "r7", "r9"}, 10, DefaultConventions())
	assert.True(t, p.IsTag())
	assert.Equal(t, 10, p.TotalCount())
	assert.Equal(t, 7, p.BlankCount())
	assert.Equal(t, "(tag) 3 (30%) rows tagged", p.Summarize(10))

	all := NewTagProfile("All", []string{"r1", "r2"}, 2, DefaultConventions())
	assert.False(t, all.IsTag())
}

func TestNewCategoryProfile(t *testing.T) {
	p := NewCategoryProfile(DefaultPolygonField, []string{"North", "South"}, DefaultConventions())
	assert.Equal(t, []string{"North", "South"}, p.PossibleValues())
	assert.False(t, p.IsNumeric())
	assert.NotNil(t, p.Grouper())
}

func TestProfileGrouperSelection(t *testing.T) {
	conv := DefaultConventions()

	p := NewProfile("PercentComplete", []string{"0.5", "x"}, conv)
	assert.IsType(t, PercentageGrouper{}, p.Grouper())

	p = NewProfile("Party", []string{"1", "", "3"}, conv)
	require.NotNil(t, p.Grouper())
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, p.Grouper().Categories())
	assert.Len(t, p.Grouper().Palette(), 5)

	p = NewProfile("City", []string{"Ames", "", "Boone"}, conv)
	require.NotNil(t, p.Grouper())
	assert.Equal(t, []string{"Ames", "Boone", "(blank)"}, p.Grouper().Categories())

	many := make([]string, 60)
	for i := range many {
		many[i] = string(rune('A'+i%26)) + string(rune('a'+i/26))
	}
	assert.Nil(t, NewProfile("Name", many, conv).Grouper())
	assert.NotNil(t, NewProfile("ResultOfContact", many, conv).Grouper())
}
