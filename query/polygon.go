package query

import (
	"regexp"
	"strings"
)

var polygonFilterRe = regexp.MustCompile(`(?i)IsInPolygon.'(.+)',Lat,Long`)

// PolygonFilter is the expression selecting rows inside a polygon.
func PolygonFilter(dataID string) string {
	return "IsInPolygon('" + dataID + "',Lat,Long)"
}

// PolygonIDFromFilter extracts the polygon data id from a filter built by
// PolygonFilter.
func PolygonIDFromFilter(filter string) (string, bool) {
	m := polygonFilterRe.FindStringSubmatch(filter)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// FixupFilterExpression prepares a stored filter for display.
func FixupFilterExpression(filter string) string {
	filter = strings.TrimPrefix(filter, "where ")
	if strings.Contains(filter, "IsInPolygon") {
		return "{geofenced}"
	}
	return filter
}
