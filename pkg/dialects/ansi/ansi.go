// Package ansi provides the base ANSI SQL dialect.
//
// It renders standard CAST templates, INTERVAL literals and the
// OFFSET ... FETCH NEXT pagination clause. Other dialects override
// the pieces their engines disagree on.
package ansi

import (
	"github.com/leapstack-labs/leapcube/pkg/core"
	"github.com/leapstack-labs/leapcube/pkg/dialect"
)

func init() {
	dialect.Register(Config.Name, func(dialect.Options) dialect.Capabilities { return ANSI })
}

// Config is the ANSI SQL dialect configuration.
var Config = &core.DialectConfig{
	Name:        "ansi",
	Placeholder: core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormUppercase,
	},
	TableAliasKeyword:   "AS",
	JoinAliasKeyword:    "AS",
	GroupBy:             core.GroupByExpression,
	Pagination:          core.PaginateNative,
	MaxIdentifierLength: 128,
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
		Date:      "CAST({} AS DATE)",
		Timestamp: "CAST({} AS TIMESTAMP)",
	},
}

// ANSI is the base ANSI SQL dialect. Every hook uses the Builder defaults.
var ANSI = dialect.New(Config).Build()
