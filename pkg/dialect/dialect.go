// Package dialect provides the SQL dialect capability contract.
//
// This package contains the public contract every target engine implements,
// a configurable implementation assembled with a Builder, and the registry
// that concrete dialects in pkg/dialects/*/ register with.
package dialect

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapcube/pkg/core"
	"github.com/leapstack-labs/leapcube/pkg/interval"
)

// Capabilities is the set of dialect-sensitive SQL fragments the compiler
// delegates to. Implementations are immutable once constructed.
type Capabilities interface {
	Name() string
	Config() *core.DialectConfig

	TableAliasKeyword() string
	JoinAliasKeyword() string
	QuoteIdentifier(name string) string
	FormatPlaceholder(index int) string

	DateCast(param string) string
	TimestampCast(param string) string
	Truncate(g core.Granularity, expr string) string
	ConvertTimezone(expr, tz string) string

	GroupByStrategy() core.GroupByStrategy
	NullSafeEqual(left, right string) string
	AddInterval(expr string, iv interval.Interval) string
	SubtractInterval(expr string, iv interval.Interval) string
	Paginator() Paginator
	MaxIdentifierLength() int

	LikeIgnoreCase(column string, negated bool, param string, match MatchType) string
	SupportsOperator(op core.FilterOperator) bool
}

// TruncateFunc renders a truncation of expr to g. token is the dialect's
// configured token for g (may be empty).
type TruncateFunc func(g core.Granularity, token, expr string) string

// NullSafeEqualFunc renders an equality that also holds when both sides
// are NULL.
type NullSafeEqualFunc func(left, right string) string

// TimezoneFunc converts a UTC timestamp expression to the zone tz.
type TimezoneFunc func(expr, tz string) string

// Dialect is the configurable Capabilities implementation.
type Dialect struct {
	cfg       *core.DialectConfig
	truncate  TruncateFunc
	intervals interval.Functions
	like      LikeFunc
	paginator Paginator
	timezone  TimezoneFunc
	nullEq    NullSafeEqualFunc
	disabled  map[core.FilterOperator]struct{}
}

var _ Capabilities = (*Dialect)(nil)

// Name returns the dialect name.
func (d *Dialect) Name() string { return d.cfg.Name }

// Config returns the pure data configuration for this dialect.
func (d *Dialect) Config() *core.DialectConfig { return d.cfg }

// TableAliasKeyword returns the keyword placed before a table alias.
func (d *Dialect) TableAliasKeyword() string { return d.cfg.TableAliasKeyword }

// JoinAliasKeyword returns the keyword placed before a joined or derived table alias.
func (d *Dialect) JoinAliasKeyword() string { return d.cfg.JoinAliasKeyword }

// NormalizeName normalizes an identifier according to dialect rules.
func (d *Dialect) NormalizeName(name string) string {
	switch d.cfg.Identifiers.Normalization {
	case core.NormUppercase:
		return strings.ToUpper(name)
	case core.NormLowercase, core.NormCaseInsensitive:
		return strings.ToLower(name)
	default: // NormCaseSensitive
		return name
	}
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	ids := d.cfg.Identifiers
	// Escape any existing quote end characters in the name (e.g., ] -> ]])
	escaped := strings.ReplaceAll(name, ids.QuoteEnd, ids.Escape)
	return ids.Quote + escaped + ids.QuoteEnd
}

// FormatPlaceholder returns a placeholder for the given parameter index (1-based).
// Returns "?" for PlaceholderQuestion, "$1" for PlaceholderDollar and ":1" for PlaceholderColon.
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.cfg.Placeholder {
	case core.PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	case core.PlaceholderColon:
		return ":" + strconv.Itoa(index)
	default: // PlaceholderQuestion
		return "?"
	}
}

// DateCast renders param as a date-typed expression.
func (d *Dialect) DateCast(param string) string {
	return applyTemplate(d.cfg.Casts.Date, param)
}

// TimestampCast renders param as a timestamp-typed expression.
func (d *Dialect) TimestampCast(param string) string {
	return applyTemplate(d.cfg.Casts.Timestamp, param)
}

// Truncate buckets expr to g. The empty granularity is the identity.
func (d *Dialect) Truncate(g core.Granularity, expr string) string {
	if !g.IsSet() {
		return expr
	}
	return d.truncate(g, d.cfg.Truncation[g], expr)
}

// ConvertTimezone converts expr into the zone tz.
func (d *Dialect) ConvertTimezone(expr, tz string) string {
	if d.timezone == nil || tz == "" {
		return expr
	}
	return d.timezone(expr, tz)
}

// GroupByStrategy returns how GROUP BY lists reference the projection.
func (d *Dialect) GroupByStrategy() core.GroupByStrategy { return d.cfg.GroupBy }

// NullSafeEqual renders left = right treating two NULLs as equal.
func (d *Dialect) NullSafeEqual(left, right string) string { return d.nullEq(left, right) }

// AddInterval moves expr forward by iv.
func (d *Dialect) AddInterval(expr string, iv interval.Interval) string {
	return interval.Compose(expr, iv, interval.Add, d.intervals)
}

// SubtractInterval moves expr backward by iv.
func (d *Dialect) SubtractInterval(expr string, iv interval.Interval) string {
	return interval.Compose(expr, iv, interval.Subtract, d.intervals)
}

// Paginator returns the pagination strategy for this dialect.
func (d *Dialect) Paginator() Paginator { return d.paginator }

// MaxIdentifierLength returns the longest identifier the engine accepts (0 = unlimited).
func (d *Dialect) MaxIdentifierLength() int { return d.cfg.MaxIdentifierLength }

// LikeIgnoreCase renders a case-insensitive pattern match of column against param.
func (d *Dialect) LikeIgnoreCase(column string, negated bool, param string, match MatchType) string {
	return d.like(column, negated, param, match)
}

// SupportsOperator reports whether the dialect can render op.
func (d *Dialect) SupportsOperator(op core.FilterOperator) bool {
	if !op.Known() {
		return false
	}
	_, off := d.disabled[op]
	return !off
}

func applyTemplate(tmpl, param string) string {
	if tmpl == "" {
		return param
	}
	return strings.ReplaceAll(tmpl, "{}", param)
}
