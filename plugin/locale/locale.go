// Package locale holds the localized strings used by the pretty date/time
// helpers: unit abbreviations plus month and weekday names.
package locale

import (
	"fmt"
)

// TimeStrings is the locale table injected into time display helpers.
type TimeStrings struct {
	Tag           string     `yaml:"tag" toml:"tag" json:"tag"`
	MinuteAbbrev  string     `yaml:"minute_abbrev" toml:"minute_abbrev" json:"minute_abbrev"`
	MinutesAbbrev string     `yaml:"minutes_abbrev" toml:"minutes_abbrev" json:"minutes_abbrev"`
	SecondAbbrev  string     `yaml:"second_abbrev" toml:"second_abbrev" json:"second_abbrev"`
	SecondsAbbrev string     `yaml:"seconds_abbrev" toml:"seconds_abbrev" json:"seconds_abbrev"`
	Months        [12]string `yaml:"months" toml:"months" json:"months"`
	Days          [7]string  `yaml:"days" toml:"days" json:"days"`
}

// Provider supplies a locale table. Consumers depend on this rather than a
// global lookup.
type Provider interface {
	TimeStrings() TimeStrings
}

// TimeStrings lets a table act as its own Provider.
func (s TimeStrings) TimeStrings() TimeStrings {
	return s
}

// Validate checks that every field a display helper may print is set.
func (s TimeStrings) Validate() error {
	if s.MinuteAbbrev == "" || s.MinutesAbbrev == "" || s.SecondAbbrev == "" || s.SecondsAbbrev == "" {
		return fmt.Errorf("locale %q: unit abbreviations must not be empty", s.Tag)
	}
	for i, m := range s.Months {
		if m == "" {
			return fmt.Errorf("locale %q: month %d has no name", s.Tag, i+1)
		}
	}
	for i, d := range s.Days {
		if d == "" {
			return fmt.Errorf("locale %q: weekday %d has no name", s.Tag, i)
		}
	}
	return nil
}

// English is the built-in table and the fallback for unknown tags.
var English = TimeStrings{
	Tag:           "en",
	MinuteAbbrev:  "min",
	MinutesAbbrev: "mins",
	SecondAbbrev:  "sec",
	SecondsAbbrev: "secs",
	Months: [12]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
	Days: [7]string{
		"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
	},
}
