package databricks

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapcube/pkg/dialect"
	"github.com/leapstack-labs/leapcube/pkg/interval"
)

func init() {
	dialect.Register(Config.Name, func(dialect.Options) dialect.Capabilities { return Databricks })
}

// Databricks is the Databricks SQL dialect.
var Databricks = dialect.New(Config).
	Intervals(interval.Functions{
		CalendarStep: func(expr string, months int) string {
			return fmt.Sprintf("add_months(%s, %d)", expr, months)
		},
		Duration: func(u interval.Unit, n int) string {
			return fmt.Sprintf("INTERVAL %d %s", n, strings.ToUpper(u.String()))
		},
	}).
	TimezoneWith(func(expr, tz string) string {
		return fmt.Sprintf("from_utc_timestamp(%s, '%s')", expr, tz)
	}).
	NullSafeEqualWith(dialect.IsNotDistinctFrom).
	Paginate(dialect.NativeClause{Format: dialect.LimitOffset}).
	Build()
