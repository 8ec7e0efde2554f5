package dialect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapcube/pkg/core"
	"github.com/leapstack-labs/leapcube/pkg/interval"
)

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
}

// New creates a dialect builder from a DialectConfig.
// Hooks left unset are filled with ANSI defaults when Build() is called.
func New(cfg *core.DialectConfig) *Builder {
	return &Builder{
		dialect: &Dialect{
			cfg:      cfg,
			disabled: make(map[core.FilterOperator]struct{}),
		},
	}
}

// TruncateWith sets the truncation renderer.
func (b *Builder) TruncateWith(fn TruncateFunc) *Builder {
	b.dialect.truncate = fn
	return b
}

// Intervals sets the interval composition functions.
func (b *Builder) Intervals(fns interval.Functions) *Builder {
	b.dialect.intervals = fns
	return b
}

// LikeWith sets the case-insensitive LIKE renderer.
func (b *Builder) LikeWith(fn LikeFunc) *Builder {
	b.dialect.like = fn
	return b
}

// Paginate sets the pagination strategy.
func (b *Builder) Paginate(p Paginator) *Builder {
	b.dialect.paginator = p
	return b
}

// TimezoneWith sets the timezone conversion renderer.
func (b *Builder) TimezoneWith(fn TimezoneFunc) *Builder {
	b.dialect.timezone = fn
	return b
}

// NullSafeEqualWith sets the NULL-safe equality renderer.
func (b *Builder) NullSafeEqualWith(fn NullSafeEqualFunc) *Builder {
	b.dialect.nullEq = fn
	return b
}

// DisableOperators marks filter operators the dialect cannot render.
func (b *Builder) DisableOperators(ops ...core.FilterOperator) *Builder {
	for _, op := range ops {
		b.dialect.disabled[op] = struct{}{}
	}
	return b
}

// Build returns the constructed dialect.
func (b *Builder) Build() *Dialect {
	d := b.dialect
	cfg := d.cfg

	for _, op := range cfg.DisabledOperators {
		d.disabled[op] = struct{}{}
	}
	if d.truncate == nil {
		d.truncate = DateTrunc
	}
	if d.intervals.CalendarStep == nil || d.intervals.Duration == nil {
		d.intervals = ANSIIntervals
	}
	if d.like == nil {
		if cfg.SupportsIlike {
			d.like = LikeWithIlike
		} else {
			d.like = LikeWithUpperConcat
		}
	}
	if d.nullEq == nil {
		d.nullEq = EqualOrBothNull
	}
	if d.paginator == nil {
		if cfg.Pagination == core.PaginateWrapping {
			d.paginator = RowNumWrapping
		} else {
			d.paginator = NativeClause{Format: OffsetFetch}
		}
	}
	return d
}

// DateTrunc renders DATE_TRUNC('token', expr).
func DateTrunc(_ core.Granularity, token, expr string) string {
	return fmt.Sprintf("DATE_TRUNC('%s', %s)", token, expr)
}

// EqualOrBothNull renders (l = r OR (l IS NULL AND r IS NULL)).
func EqualOrBothNull(left, right string) string {
	return "(" + left + " = " + right + " OR (" + left + " IS NULL AND " + right + " IS NULL))"
}

// IsNotDistinctFrom renders l IS NOT DISTINCT FROM r.
func IsNotDistinctFrom(left, right string) string {
	return left + " IS NOT DISTINCT FROM " + right
}

// ANSIIntervals compose with INTERVAL literals.
var ANSIIntervals = interval.Functions{
	CalendarStep: func(expr string, months int) string {
		return fmt.Sprintf("(%s + INTERVAL '%d' MONTH)", expr, months)
	},
	Duration: func(u interval.Unit, n int) string {
		return "INTERVAL '" + strconv.Itoa(n) + "' " + strings.ToUpper(u.String())
	},
}
