package snowflake

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapcube/pkg/dialect"
	"github.com/leapstack-labs/leapcube/pkg/interval"
)

func init() {
	dialect.Register(Config.Name, func(dialect.Options) dialect.Capabilities { return Snowflake })
}

// Snowflake is the Snowflake SQL dialect.
var Snowflake = dialect.New(Config).
	Intervals(interval.Functions{
		CalendarStep: func(expr string, months int) string {
			return fmt.Sprintf("DATEADD(MONTH, %d, %s)", months, expr)
		},
		Duration: func(u interval.Unit, n int) string {
			return fmt.Sprintf("INTERVAL '%d %s'", n, strings.ToUpper(u.String()))
		},
	}).
	TimezoneWith(func(expr, tz string) string {
		return fmt.Sprintf("CONVERT_TIMEZONE('%s', %s::timestamp_tz)::timestamp_ntz", tz, expr)
	}).
	NullSafeEqualWith(dialect.IsNotDistinctFrom).
	Paginate(dialect.NativeClause{Format: dialect.LimitOffset}).
	Build()
