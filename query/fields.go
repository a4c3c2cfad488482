package query

import (
	"encoding/json"
	"sort"

	"github.com/pivolan/go_utils"
	"github.com/pivolan/sheet_analyzer/stats"
)

var (
	numericOperators = []Operator{
		Equal, NotEqual,
		IsEmpty, IsNotEmpty,
		Less, LessOrEqual,
		Greater, GreaterOrEqual,
	}
	stringOperators  = []Operator{Equal, NotEqual, IsEmpty, IsNotEmpty}
	polygonOperators = []Operator{Equal, NotEqual}
	tagOperators     = []Operator{Equal}
)

// Field describes one column to the query builder.
type Field struct {
	ID        string
	Label     string
	Type      ValueType
	Input     Input
	Operators []Operator
	Values    []string
}

// Allows reports whether op is offered for this field.
func (f Field) Allows(op Operator) bool {
	return go_utils.InArray(op.String(), f.operatorNames())
}

func (f Field) operatorNames() []string {
	names := make([]string, len(f.Operators))
	for i, op := range f.Operators {
		names[i] = op.String()
	}
	return names
}

func (f Field) MarshalJSON() ([]byte, error) {
	out := struct {
		ID        string   `json:"id"`
		Label     string   `json:"label"`
		Type      string   `json:"type"`
		Input     string   `json:"input"`
		Values    []string `json:"values,omitempty"`
		Operators []string `json:"operators"`
	}{
		ID:        f.ID,
		Label:     f.Label,
		Type:      f.Type.String(),
		Input:     f.Input.String(),
		Values:    f.Values,
		Operators: f.operatorNames(),
	}
	return json.Marshal(out)
}

// BuildFields derives the query builder configuration from column profiles.
// Columns without any value are left out.
func BuildFields(profiles map[string]*stats.Profile, conv stats.Conventions) []Field {
	conv = conv.WithDefaults()
	fields := make([]Field, 0, len(profiles))
	for name, p := range profiles {
		possible := p.PossibleValues()
		if len(possible) == 0 {
			continue
		}
		f := Field{ID: name, Label: name}
		if p.IsTag() {
			f.Type = Boolean
			f.Input = Radio
			f.Operators = tagOperators
			f.Values = []string{TrueValue, FalseValue}
			fields = append(fields, f)
			continue
		}

		isDate := conv.IsDateColumn(name)
		if isDate || p.IsNumeric() {
			f.Type = Double
			f.Input = Number
			f.Operators = numericOperators
		} else {
			f.Type = String
			f.Input = Text
			f.Operators = stringOperators
		}
		if name == conv.PolygonField {
			f.Operators = polygonOperators
		}
		// short lists become a dropdown
		if !isDate && len(possible) < conv.DropdownThreshold {
			f.Input = Select
			f.Values = possible
		}
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].ID < fields[j].ID })
	return fields
}
