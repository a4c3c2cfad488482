// Package stats infers the type and value distribution of a sheet column.
//
// A Profile is built once from the raw string cells of a column and never
// changes afterwards. It answers the questions the query UI needs: is the
// column a tag, is it numeric and in which range, what are its distinct
// values and how are they distributed, and how can it be grouped for charts.
package stats

import (
	"sort"
	"strconv"
	"strings"
)

// ValueCount is a distinct value with the number of rows holding it.
type ValueCount struct {
	Value string
	Count int
}

func (v ValueCount) String() string {
	return v.Value + " (x" + strconv.Itoa(v.Count) + ")"
}

// Profile is the inferred summary of one column.
type Profile struct {
	name        string
	total       int
	blankCount  int
	uniques     []ValueCount
	possible    []string
	isTag       bool
	isNumeric   bool
	min, max    float64
	rangeSet    bool
	grouper     Grouper
	summaryLine int
}

// NewProfile analyzes the raw cell values of a column. Blank cells are empty
// strings. It never fails: malformed values only narrow the inferred type.
func NewProfile(name string, values []string, conv Conventions) *Profile {
	conv = conv.WithDefaults()
	p := &Profile{
		name:        name,
		total:       len(values),
		summaryLine: conv.SummaryThreshold,
	}

	freq := make(map[string]int)
	var order []string
	isTag := true
	isNumeric := true
	for _, v := range values {
		if v == "" {
			p.blankCount++
			continue
		}
		if _, seen := freq[v]; !seen {
			order = append(order, v)
		}
		freq[v]++

		if v != "1" && v != "0" {
			isTag = false
		}

		n, ok := parseCell(v)
		if !ok {
			isNumeric = false
			continue
		}
		if !p.rangeSet {
			p.min, p.max, p.rangeSet = n, n, true
			continue
		}
		if n < p.min {
			p.min = n
		}
		if n > p.max {
			p.max = n
		}
	}

	// a tag needs both tagged and untagged rows
	if p.blankCount == 0 || p.blankCount == p.total {
		isTag = false
	}
	if isTag || !p.rangeSet {
		isNumeric = false
	}
	p.isTag = isTag
	p.isNumeric = isNumeric

	p.possible = append([]string(nil), order...)
	sort.Strings(p.possible)

	p.uniques = make([]ValueCount, 0, len(order))
	for _, v := range order {
		p.uniques = append(p.uniques, ValueCount{Value: v, Count: freq[v]})
	}
	sort.SliceStable(p.uniques, func(i, j int) bool {
		return p.uniques[i].Count > p.uniques[j].Count
	})

	p.grouper = selectGrouper(name, p, conv)
	return p
}

// NewTagProfile builds a tag column where the rows in recIDs are tagged and
// the remaining rows up to totalRows are blank.
func NewTagProfile(name string, recIDs []string, totalRows int, conv Conventions) *Profile {
	if totalRows < len(recIDs) {
		totalRows = len(recIDs)
	}
	values := make([]string, totalRows)
	for i := range recIDs {
		values[i] = "1"
	}
	return NewProfile(name, values, conv)
}

// NewCategoryProfile builds a profile whose values are category names, such
// as the polygons defined for a sheet.
func NewCategoryProfile(name string, categories []string, conv Conventions) *Profile {
	return NewProfile(name, categories, conv)
}

// parseCell parses a number, treating a trailing % as a percentage.
func parseCell(v string) (float64, bool) {
	if strings.HasSuffix(v, "%") {
		n, ok := parseNumber(strings.TrimSuffix(v, "%"))
		return n / 100, ok
	}
	return parseNumber(v)
}

func (p *Profile) Name() string    { return p.name }
func (p *Profile) TotalCount() int { return p.total }
func (p *Profile) BlankCount() int { return p.blankCount }
func (p *Profile) IsTag() bool     { return p.isTag }
func (p *Profile) IsNumeric() bool { return p.isNumeric }

// Grouper is nil when the column cannot be grouped.
func (p *Profile) Grouper() Grouper { return p.grouper }

// NumericRange reports min and max; ok is false for non numeric columns.
func (p *Profile) NumericRange() (min, max float64, ok bool) {
	if !p.isNumeric {
		return 0, 0, false
	}
	return p.min, p.max, true
}

// PossibleValues returns the distinct non-blank values sorted ascending.
func (p *Profile) PossibleValues() []string {
	return append([]string(nil), p.possible...)
}

// UniqueValuesByFrequency returns the distinct non-blank values, most
// frequent first; equal counts keep their order of appearance.
func (p *Profile) UniqueValuesByFrequency() []ValueCount {
	return append([]ValueCount(nil), p.uniques...)
}

// FrequencyLabels formats UniqueValuesByFrequency as "value (xN)".
func (p *Profile) FrequencyLabels() []string {
	labels := make([]string, len(p.uniques))
	for i, u := range p.uniques {
		labels[i] = u.String()
	}
	return labels
}

// UniqueCount is the number of distinct non-blank values.
func (p *Profile) UniqueCount() int { return len(p.uniques) }
