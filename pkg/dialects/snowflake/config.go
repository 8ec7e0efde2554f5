// Package snowflake provides the Snowflake SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package snowflake

import "github.com/leapstack-labs/leapcube/pkg/core"

// Config is the Snowflake SQL dialect configuration.
var Config = &core.DialectConfig{
	Name:        "snowflake",
	Placeholder: core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormUppercase, // Snowflake normalizes to uppercase
	},
	TableAliasKeyword:   "AS",
	JoinAliasKeyword:    "AS",
	GroupBy:             core.GroupByOrdinal,
	Pagination:          core.PaginateNative,
	MaxIdentifierLength: 255,
	Truncation: map[core.Granularity]string{
		core.GranularitySecond:  "SECOND",
		core.GranularityMinute:  "MINUTE",
		core.GranularityHour:    "HOUR",
		core.GranularityDay:     "DAY",
		core.GranularityWeek:    "WEEK",
		core.GranularityMonth:   "MONTH",
		core.GranularityQuarter: "QUARTER",
		core.GranularityYear:    "YEAR",
	},
	Casts: core.CastTemplates{
		Date:      "TO_DATE({}::timestamp_tz)",
		Timestamp: "{}::timestamp_tz",
	},
	SupportsIlike: true,
}
