package oracle

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapcube/pkg/core"
	"github.com/leapstack-labs/leapcube/pkg/dialect"
	"github.com/leapstack-labs/leapcube/pkg/interval"
)

func init() {
	dialect.Register(Config.Name, func(opts dialect.Options) dialect.Capabilities {
		return New(opts)
	})
}

// Oracle is the dialect for Oracle 12.2 and later.
var Oracle = New(dialect.Options{})

// New builds the Oracle dialect for the given engine version.
//
// Before 12c there is no OFFSET/FETCH clause, so pagination wraps the
// query and filters on ROWNUM. Before 12.2 identifiers are limited to
// 30 bytes. IS NOT DISTINCT FROM is missing before 23ai, so NULL-safe
// key matches spell out the NULL case.
func New(opts dialect.Options) *dialect.Dialect {
	cfg := *Config
	if !opts.AtLeast(12, 0) {
		cfg.Pagination = core.PaginateWrapping
	}
	if !opts.AtLeast(12, 2) {
		cfg.MaxIdentifierLength = legacyMaxIdentifierLength
	}

	var paginator dialect.Paginator = dialect.NativeClause{Format: dialect.OffsetFetch}
	if cfg.Pagination == core.PaginateWrapping {
		paginator = dialect.RowNumWrapping
	}

	return dialect.New(&cfg).
		TruncateWith(truncate).
		Intervals(intervals).
		LikeWith(dialect.LikeWithUpperConcat).
		Paginate(paginator).
		TimezoneWith(convertTimezone).
		NullSafeEqualWith(dialect.EqualOrBothNull).
		Build()
}

func truncate(g core.Granularity, token, expr string) string {
	if g == core.GranularitySecond {
		// DATE has second precision, so the cast drops fractional seconds.
		return fmt.Sprintf("CAST(%s AS DATE)", expr)
	}
	return fmt.Sprintf("TRUNC(%s, '%s')", expr, token)
}

// Timestamps are stored in UTC.
func convertTimezone(expr, tz string) string {
	return fmt.Sprintf("FROM_TZ(CAST(%s AS TIMESTAMP), 'UTC') AT TIME ZONE '%s'", expr, tz)
}

var intervals = interval.Functions{
	CalendarStep: func(expr string, months int) string {
		return fmt.Sprintf("ADD_MONTHS(%s, %d)", expr, months)
	},
	Duration: func(u interval.Unit, n int) string {
		return fmt.Sprintf("NUMTODSINTERVAL(%d, '%s')", n, strings.ToUpper(u.String()))
	},
}
