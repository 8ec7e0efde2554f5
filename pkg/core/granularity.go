package core

import (
	"fmt"
	"strings"
)

// Granularity is a time bucket unit. The empty Granularity means the
// time dimension is used for filtering only.
type Granularity string

// Granularity values.
const (
	GranularitySecond  Granularity = "second"
	GranularityMinute  Granularity = "minute"
	GranularityHour    Granularity = "hour"
	GranularityDay     Granularity = "day"
	GranularityWeek    Granularity = "week"
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
	GranularityYear    Granularity = "year"
)

// Granularities lists every granularity from finest to coarsest.
var Granularities = []Granularity{
	GranularitySecond,
	GranularityMinute,
	GranularityHour,
	GranularityDay,
	GranularityWeek,
	GranularityMonth,
	GranularityQuarter,
	GranularityYear,
}

// ParseGranularity parses a granularity name (case-insensitive).
// An empty string yields the empty Granularity.
func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(s)))
	if g == "" || g.Valid() {
		return g, nil
	}
	return "", fmt.Errorf("unknown granularity %q", s)
}

// Valid reports whether g is one of the known granularities.
func (g Granularity) Valid() bool {
	for _, known := range Granularities {
		if g == known {
			return true
		}
	}
	return false
}

// IsSet reports whether a granularity was given.
func (g Granularity) IsSet() bool {
	return g != ""
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Granularity) UnmarshalText(text []byte) error {
	parsed, err := ParseGranularity(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
