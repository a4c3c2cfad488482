package query

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/sheet_analyzer/stats"
)

func TestBuildFields(t *testing.T) {
	conv := stats.DefaultConventions()
	ages := make([]string, 40)
	for i := range ages {
		ages[i] = strconv.Itoa(20 + i)
	}
	profiles := map[string]*stats.Profile{
		"Called":                 stats.NewProfile("Called", []string{"1", "", ""}, conv),
		"Age":                    stats.NewProfile("Age", ages, conv),
		"City":                   stats.NewProfile("City", []string{"Ames", "Boone", "Ames"}, conv),
		"Birthday":               stats.NewProfile("Birthday", []string{"1990-01-01", "1980-05-05"}, conv),
		"Empty":                  stats.NewProfile("Empty", []string{"", ""}, conv),
		stats.DefaultPolygonField: stats.NewCategoryProfile(stats.DefaultPolygonField, []string{"North", "South"}, conv),
	}

	fields := BuildFields(profiles, conv)
	require.Len(t, fields, 5)
	byID := map[string]Field{}
	var ids []string
	for _, f := range fields {
		byID[f.ID] = f
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []string{"$IsInPolygon", "Age", "Birthday", "Called", "City"}, ids)

	called := byID["Called"]
	assert.Equal(t, Boolean, called.Type)
	assert.Equal(t, Radio, called.Input)
	assert.Equal(t, []Operator{Equal}, called.Operators)
	assert.Equal(t, []string{"true", "false"}, called.Values)

	age := byID["Age"]
	assert.Equal(t, Double, age.Type)
	assert.Equal(t, Number, age.Input, "40 values is too many for a dropdown")
	assert.True(t, age.Allows(GreaterOrEqual))
	assert.Nil(t, age.Values)

	bday := byID["Birthday"]
	assert.Equal(t, Double, bday.Type)
	assert.Equal(t, Number, bday.Input, "dates never use a dropdown")

	city := byID["City"]
	assert.Equal(t, String, city.Type)
	assert.Equal(t, Select, city.Input)
	assert.Equal(t, []string{"Ames", "Boone"}, city.Values)
	assert.False(t, city.Allows(Less))

	poly := byID[stats.DefaultPolygonField]
	assert.Equal(t, []Operator{Equal, NotEqual}, poly.Operators)
	assert.Equal(t, Select, poly.Input)
}

func TestFieldMarshalJSON(t *testing.T) {
	f := Field{ID: "City", Label: "City", Type: String, Input: Select, Operators: []Operator{Equal, IsEmpty}, Values: []string{"Ames"}}
	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"City","label":"City","type":"string","input":"select","values":["Ames"],"operators":["equal","is_empty"]}`, string(data))
}

func TestPolygonFilter(t *testing.T) {
	f := PolygonFilter("abc-123")
	assert.Equal(t, "IsInPolygon('abc-123',Lat,Long)", f)

	id, ok := PolygonIDFromFilter(f)
	assert.True(t, ok)
	assert.Equal(t, "abc-123", id)

	_, ok = PolygonIDFromFilter("Age > 3")
	assert.False(t, ok)

	assert.Equal(t, "Age > 3", FixupFilterExpression("where Age > 3"))
	assert.Equal(t, "{geofenced}", FixupFilterExpression("where IsInPolygon('x',Lat,Long)"))
}
