// Package duckdb provides the DuckDB SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package duckdb

import "github.com/leapstack-labs/leapcube/pkg/core"

// Config is the DuckDB dialect configuration.
var Config = &core.DialectConfig{
	Name:        "duckdb",
	Placeholder: core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormCaseInsensitive,
	},
	TableAliasKeyword: "AS",
	JoinAliasKeyword:  "AS",
	GroupBy:           core.GroupByOrdinal,
	Pagination:        core.PaginateNative,
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
		Date:      "CAST(CAST({} AS TIMESTAMPTZ) AS DATE)",
		Timestamp: "CAST({} AS TIMESTAMPTZ)",
	},
	SupportsIlike: true,
}
