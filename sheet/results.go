package sheet

import (
	"strconv"

	"github.com/pivolan/sheet_analyzer/domain/models"
)

// ResultColumns are fetched for every query run.
var ResultColumns = []string{"RecId", "Address", "City"}

// Results are the rows returned for a filter expression.
type Results struct {
	Expression string
	Contents   models.SheetContents
}

func (r *Results) RecIDs() []string    { return r.Contents["RecId"] }
func (r *Results) Addresses() []string { return r.Contents["Address"] }
func (r *Results) Cities() []string    { return r.Contents["City"] }

// Count is the number of matching rows.
func (r *Results) Count() int {
	return len(r.RecIDs())
}

// Households counts distinct address and city pairs. ok is false when the
// sheet has no address columns.
func (r *Results) Households() (n int, ok bool) {
	addrs, cities := r.Addresses(), r.Cities()
	if addrs == nil || cities == nil {
		return 0, false
	}
	seen := make(map[string]struct{}, len(addrs))
	for i, a := range addrs {
		city := ""
		if i < len(cities) {
			city = cities[i]
		}
		seen[a+","+city] = struct{}{}
	}
	return len(seen), true
}

// Describe gives "N rows" and, when possible, the household count.
func (r *Results) Describe() string {
	text := strconv.Itoa(r.Count()) + " rows"
	if n, ok := r.Households(); ok {
		text += "; " + strconv.Itoa(n) + " households"
	}
	return text
}
