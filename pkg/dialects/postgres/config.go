// Package postgres provides the PostgreSQL SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package postgres

import "github.com/leapstack-labs/leapcube/pkg/core"

// Config is the PostgreSQL dialect configuration.
var Config = &core.DialectConfig{
	Name:        "postgres",
	Placeholder: core.PlaceholderDollar,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormLowercase, // Postgres normalizes unquoted to lowercase
	},
	TableAliasKeyword: "AS",
	JoinAliasKeyword:  "AS",
	GroupBy:           core.GroupByOrdinal,
	Pagination:        core.PaginateNative,
	// NAMEDATALEN - 1
	MaxIdentifierLength: 63,
	Truncation: map[core.Granularity]string{
		core.GranularitySecond:  "second",
		core.GranularityMinute:  "minute",
		core.GranularityHour:    "hour",
		core.GranularityDay:     "day",
		core.GranularityWeek:    "week",
		core.GranularityMonth:   "month",
		core.GranularityQuarter: "quarter",
		core.GranularityYear:    "year",
	},
	Casts: core.CastTemplates{
		Date:      "{}::timestamptz::date",
		Timestamp: "{}::timestamptz",
	},
	SupportsIlike: true,
}
