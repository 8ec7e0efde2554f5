package postgres

import (
	"fmt"

	"github.com/leapstack-labs/leapcube/pkg/dialect"
	"github.com/leapstack-labs/leapcube/pkg/interval"
)

func init() {
	dialect.Register(Config.Name, func(dialect.Options) dialect.Capabilities { return Postgres })
}

// Postgres is the PostgreSQL dialect.
var Postgres = dialect.New(Config).
	Intervals(interval.Functions{
		CalendarStep: func(expr string, months int) string {
			return fmt.Sprintf("(%s + make_interval(months => %d))", expr, months)
		},
		Duration: func(u interval.Unit, n int) string {
			return fmt.Sprintf("INTERVAL '%d %s'", n, u)
		},
	}).
	TimezoneWith(func(expr, tz string) string {
		return fmt.Sprintf("(%s::timestamptz AT TIME ZONE '%s')", expr, tz)
	}).
	NullSafeEqualWith(dialect.IsNotDistinctFrom).
	Paginate(dialect.NativeClause{Format: dialect.LimitOffset}).
	Build()
