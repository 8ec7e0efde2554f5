// Package databricks provides the Databricks SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package databricks

import "github.com/leapstack-labs/leapcube/pkg/core"

// Config is the Databricks SQL dialect configuration.
var Config = &core.DialectConfig{
	Name:        "databricks",
	Placeholder: core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         "`",
		QuoteEnd:      "`",
		Escape:        "``",
		Normalization: core.NormCaseInsensitive,
	},
	TableAliasKeyword:   "AS",
	JoinAliasKeyword:    "AS",
	GroupBy:             core.GroupByOrdinal,
	Pagination:          core.PaginateNative,
	MaxIdentifierLength: 255,
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
		Date:      "to_date({})",
		Timestamp: "to_timestamp({})",
	},
	SupportsIlike: true,
}
