// Package oracle provides the Oracle Database SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package oracle

import "github.com/leapstack-labs/leapcube/pkg/core"

// Identifier limits. Oracle 12.2 raised the limit from 30 to 128 bytes.
const (
	maxIdentifierLength       = 128
	legacyMaxIdentifierLength = 30
)

// timestampFormat parses the ISO-8601 millisecond UTC strings the compiler binds.
const timestampFormat = `'YYYY-MM-DD"T"HH24:MI:SS.FF"Z"'`

// Config is the Oracle dialect configuration for 12c and later.
// New(opts) derives a copy adjusted for older versions.
var Config = &core.DialectConfig{
	Name:        "oracle",
	Placeholder: core.PlaceholderColon,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormUppercase, // Oracle normalizes unquoted to uppercase
	},

	// Oracle rejects AS before table and derived-table aliases.
	TableAliasKeyword: "",
	JoinAliasKeyword:  "",

	// No GROUP BY ordinals.
	GroupBy:             core.GroupByExpression,
	Pagination:          core.PaginateNative,
	MaxIdentifierLength: maxIdentifierLength,

	// TRUNC format models. Second is handled by a DATE cast.
	Truncation: map[core.Granularity]string{
		core.GranularityMinute:  "MI",
		core.GranularityHour:    "HH24",
		core.GranularityDay:     "DD",
		core.GranularityWeek:    "IW",
		core.GranularityMonth:   "MM",
		core.GranularityQuarter: "Q",
		core.GranularityYear:    "YYYY",
	},

	Casts: core.CastTemplates{
		Date:      "CAST(to_timestamp_tz({}, " + timestampFormat + ") AS DATE)",
		Timestamp: "to_timestamp_tz({}, " + timestampFormat + ")",
	},

	SupportsIlike: false,
}
