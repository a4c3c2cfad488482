package stats

// GrouperKind names a grouping strategy that a column can be forced into by name.
type GrouperKind string

const (
	GroupPercentage  GrouperKind = "percentage"
	GroupFixedFive   GrouperKind = "fixed_five"
	GroupCategorical GrouperKind = "categorical"
)

// Conventions maps well-known column names to behaviour. Hosts may replace
// the defaults, e.g. from a YAML file.
type Conventions struct {
	// Groupers forces a grouping strategy for a column name.
	Groupers map[string]GrouperKind `yaml:"groupers"`
	// FixedFive holds the labels and colours for GroupFixedFive columns.
	FixedFive FixedCategories `yaml:"fixed_five"`
	// DateColumns are compared by age instead of raw value.
	DateColumns []string `yaml:"date_columns"`
	// PolygonField is the virtual "row is inside polygon" column.
	PolygonField string `yaml:"polygon_field"`

	MaxGroupValues    int `yaml:"max_group_values"`
	SummaryThreshold  int `yaml:"summary_threshold"`
	DropdownThreshold int `yaml:"dropdown_threshold"`
}

type FixedCategories struct {
	Values  []string `yaml:"values"`
	Palette []string `yaml:"palette"`
}

const DefaultPolygonField = "$IsInPolygon"

func DefaultConventions() Conventions {
	return Conventions{
		Groupers: map[string]GrouperKind{
			"PercentComplete": GroupPercentage,
			"Party":           GroupFixedFive,
			"ResultOfContact": GroupCategorical,
		},
		FixedFive: FixedCategories{
			Values:  []string{"1", "2", "3", "4", "5"},
			Palette: []string{"#FF0000", "#FF8080", "#C0C0C0", "#8080FF", "#0000FF"},
		},
		DateColumns:       []string{"Birthday", "Birthdate"},
		PolygonField:      DefaultPolygonField,
		MaxGroupValues:    50,
		SummaryThreshold:  8,
		DropdownThreshold: 30,
	}
}

// WithDefaults fills zero fields from DefaultConventions.
func (c Conventions) WithDefaults() Conventions {
	d := DefaultConventions()
	if c.Groupers == nil {
		c.Groupers = d.Groupers
	}
	if len(c.FixedFive.Values) == 0 {
		c.FixedFive = d.FixedFive
	}
	if c.DateColumns == nil {
		c.DateColumns = d.DateColumns
	}
	if c.PolygonField == "" {
		c.PolygonField = d.PolygonField
	}
	if c.MaxGroupValues <= 0 {
		c.MaxGroupValues = d.MaxGroupValues
	}
	if c.SummaryThreshold <= 0 {
		c.SummaryThreshold = d.SummaryThreshold
	}
	if c.DropdownThreshold <= 0 {
		c.DropdownThreshold = d.DropdownThreshold
	}
	return c
}

func (c Conventions) IsDateColumn(name string) bool {
	for _, d := range c.DateColumns {
		if d == name {
			return true
		}
	}
	return false
}
