package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/pivolan/sheet_analyzer/stats"
)

// LoadConventions reads column naming conventions from a YAML file. Missing
// keys keep their defaults; an empty path returns the defaults.
//
//	groupers:
//	  PercentComplete: percentage
//	  Party: fixed_five
//	date_columns: [Birthday, Birthdate]
//	max_group_values: 50
func LoadConventions(path string) (stats.Conventions, error) {
	if path == "" {
		return stats.DefaultConventions(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return stats.Conventions{}, errors.Wrap(err, "read conventions")
	}
	return ParseConventions(data)
}

func ParseConventions(data []byte) (stats.Conventions, error) {
	var conv stats.Conventions
	if err := yaml.Unmarshal(data, &conv); err != nil {
		return stats.Conventions{}, errors.Wrap(err, "parse conventions")
	}
	for name, kind := range conv.Groupers {
		switch kind {
		case stats.GroupPercentage, stats.GroupFixedFive, stats.GroupCategorical:
		default:
			return stats.Conventions{}, errors.Errorf("column %q: unknown grouper %q", name, kind)
		}
	}
	return conv.WithDefaults(), nil
}
