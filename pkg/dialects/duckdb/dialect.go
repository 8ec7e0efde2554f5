package duckdb

import (
	"fmt"

	"github.com/leapstack-labs/leapcube/pkg/dialect"
	"github.com/leapstack-labs/leapcube/pkg/interval"
)

func init() {
	dialect.Register(Config.Name, func(dialect.Options) dialect.Capabilities { return DuckDB })
}

// durationFuncs are DuckDB's interval constructors.
var durationFuncs = map[interval.Unit]string{
	interval.Day:    "to_days",
	interval.Hour:   "to_hours",
	interval.Minute: "to_minutes",
	interval.Second: "to_seconds",
}

// DuckDB is the DuckDB dialect.
var DuckDB = dialect.New(Config).
	Intervals(interval.Functions{
		CalendarStep: func(expr string, months int) string {
			return fmt.Sprintf("(%s + to_months(%d))", expr, months)
		},
		Duration: func(u interval.Unit, n int) string {
			return fmt.Sprintf("%s(%d)", durationFuncs[u], n)
		},
	}).
	TimezoneWith(func(expr, tz string) string {
		return fmt.Sprintf("timezone('%s', %s::timestamptz)", tz, expr)
	}).
	NullSafeEqualWith(dialect.IsNotDistinctFrom).
	Paginate(dialect.NativeClause{Format: dialect.LimitOffset}).
	Build()
