package compiler_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcube/internal/testutil"
	"github.com/leapstack-labs/leapcube/pkg/compiler"
	"github.com/leapstack-labs/leapcube/pkg/core"
	"github.com/leapstack-labs/leapcube/pkg/dialect"
	"github.com/leapstack-labs/leapcube/pkg/dialects/oracle"
	"github.com/leapstack-labs/leapcube/pkg/dialects/postgres"
	"github.com/leapstack-labs/leapcube/pkg/schema"
)

func newCompiler(t *testing.T, d dialect.Capabilities) *compiler.Compiler {
	t.Helper()
	c, err := compiler.New(compiler.Config{
		Dialect:   d,
		Evaluator: testutil.NewTestModel(t),
		Logger:    testutil.NewTestLogger(t),
	})
	require.NoError(t, err)
	return c
}

func ts(param string) string {
	return `to_timestamp_tz(` + param + `, 'YYYY-MM-DD"T"HH24:MI:SS.FF"Z"')`
}

func TestNewValidation(t *testing.T) {
	model := testutil.NewTestModel(t)

	_, err := compiler.New(compiler.Config{Evaluator: model})
	assert.ErrorIs(t, err, dialect.ErrDialectRequired)

	_, err = compiler.New(compiler.Config{Dialect: oracle.Oracle})
	assert.Error(t, err)

	_, err = compiler.New(compiler.Config{Dialect: oracle.Oracle, Evaluator: model, DefaultLimit: -1})
	assert.Error(t, err)

	_, err = compiler.New(compiler.Config{Dialect: oracle.Oracle, Evaluator: model, Timezone: "Mars/Olympus"})
	assert.ErrorIs(t, err, compiler.ErrInvalidTimezone)

	c, err := compiler.New(compiler.Config{Dialect: oracle.Oracle, Evaluator: model})
	require.NoError(t, err)
	assert.Equal(t, "oracle", c.Dialect().Name())
}

func TestCompileOracle(t *testing.T) {
	tests := []struct {
		name       string
		query      core.Query
		wantSQL    string
		wantParams []any
	}{
		{
			name:    "single measure",
			query:   core.Query{Measures: []string{"orders.count"}},
			wantSQL: `SELECT COUNT(*) AS "orders__count" FROM sales.orders "orders" ORDER BY "orders__count" DESC FETCH NEXT 10000 ROWS ONLY`,
		},
		{
			name: "dimension, time bucket, range and filter",
			query: core.Query{
				Measures:   []string{"orders.count"},
				Dimensions: []string{"orders.status"},
				TimeDimensions: []core.TimeDimension{{
					Dimension:   "orders.createdAt",
					Granularity: core.GranularityDay,
					DateRange:   &core.DateRange{"2024-01-01", "2024-01-31"},
				}},
				Filters: []core.Filter{{Member: "orders.status", Operator: core.OpEquals, Values: []string{"shipped"}}},
			},
			wantSQL: `SELECT "orders".status AS "orders__status", TRUNC("orders".created_at, 'DD') AS "orders__created_at_day", COUNT(*) AS "orders__count" ` +
				`FROM sales.orders "orders" ` +
				`WHERE "orders".created_at >= ` + ts(":1") + ` AND "orders".created_at <= ` + ts(":2") + ` AND "orders".status = :3 ` +
				`GROUP BY "orders".status, TRUNC("orders".created_at, 'DD') ` +
				`ORDER BY "orders__created_at_day" ASC FETCH NEXT 10000 ROWS ONLY`,
			wantParams: []any{"2024-01-01T00:00:00.000Z", "2024-01-31T23:59:59.999Z", "shipped"},
		},
		{
			name: "joined dimension",
			query: core.Query{
				Measures:   []string{"orders.totalAmount"},
				Dimensions: []string{"users.city"},
			},
			wantSQL: `SELECT "users".city AS "users__city", SUM("orders".amount) AS "orders__total_amount" ` +
				`FROM sales.orders "orders" LEFT JOIN users "users" ON "orders".user_id = "users".id ` +
				`GROUP BY "users".city ORDER BY "orders__total_amount" DESC FETCH NEXT 10000 ROWS ONLY`,
		},
		{
			name: "two hop join via filter",
			query: core.Query{
				Measures: []string{"orders.count"},
				Filters:  []core.Filter{{Member: "companies.name", Operator: core.OpSet}},
			},
			wantSQL: `SELECT COUNT(*) AS "orders__count" FROM sales.orders "orders" ` +
				`LEFT JOIN users "users" ON "orders".user_id = "users".id ` +
				`LEFT JOIN companies "companies" ON "users".company_id = "companies".id ` +
				`WHERE "companies".name IS NOT NULL ORDER BY "orders__count" DESC FETCH NEXT 10000 ROWS ONLY`,
		},
		{
			name: "limit and offset",
			query: core.Query{
				Dimensions: []string{"orders.status"},
				Limit:      core.LimitOf(5),
				Offset:     10,
			},
			wantSQL: `SELECT "orders".status AS "orders__status" FROM sales.orders "orders" GROUP BY "orders".status ` +
				`ORDER BY "orders__status" ASC OFFSET 10 ROWS FETCH NEXT 5 ROWS ONLY`,
		},
		{
			name: "unbounded",
			query: core.Query{
				Dimensions: []string{"orders.status"},
				Limit:      core.Unbounded(),
			},
			wantSQL: `SELECT "orders".status AS "orders__status" FROM sales.orders "orders" GROUP BY "orders".status ORDER BY "orders__status" ASC`,
		},
		{
			name: "explicit order",
			query: core.Query{
				Measures:   []string{"orders.count"},
				Dimensions: []string{"orders.status"},
				Order:      core.Order{{Member: "orders.status", Desc: true}, {Member: "orders.count"}},
				Limit:      core.LimitOf(1),
			},
			wantSQL: `SELECT "orders".status AS "orders__status", COUNT(*) AS "orders__count" FROM sales.orders "orders" ` +
				`GROUP BY "orders".status ORDER BY "orders__status" DESC, "orders__count" ASC FETCH NEXT 1 ROWS ONLY`,
		},
		{
			name: "case insensitive contains",
			query: core.Query{
				Measures: []string{"orders.count"},
				Filters:  []core.Filter{{Member: "orders.status", Operator: core.OpContains, Values: []string{"ship"}}},
				Limit:    core.Unbounded(),
			},
			wantSQL: `SELECT COUNT(*) AS "orders__count" FROM sales.orders "orders" ` +
				`WHERE UPPER("orders".status) LIKE '%' || UPPER(:1) || '%' ORDER BY "orders__count" DESC`,
			wantParams: []any{"ship"},
		},
		{
			name: "measure filter goes to having",
			query: core.Query{
				Measures:   []string{"orders.totalAmount"},
				Dimensions: []string{"orders.status"},
				Filters:    []core.Filter{{Member: "orders.totalAmount", Operator: core.OpGt, Values: []string{"100"}}},
				Limit:      core.Unbounded(),
			},
			wantSQL: `SELECT "orders".status AS "orders__status", SUM("orders".amount) AS "orders__total_amount" FROM sales.orders "orders" ` +
				`GROUP BY "orders".status HAVING SUM("orders".amount) > :1 ORDER BY "orders__total_amount" DESC`,
			wantParams: []any{"100"},
		},
		{
			name: "date dimension uses date cast",
			query: core.Query{
				Measures: []string{"orders.count"},
				TimeDimensions: []core.TimeDimension{{
					Dimension: "orders.shippedOn",
					DateRange: &core.DateRange{"2024-02-01", "2024-02-29"},
				}},
				Limit: core.Unbounded(),
			},
			wantSQL: `SELECT COUNT(*) AS "orders__count" FROM sales.orders "orders" ` +
				`WHERE "orders".shipped_on >= CAST(` + ts(":1") + ` AS DATE) AND "orders".shipped_on <= CAST(` + ts(":2") + ` AS DATE) ` +
				`ORDER BY "orders__count" DESC`,
			wantParams: []any{"2024-02-01T00:00:00.000Z", "2024-02-29T23:59:59.999Z"},
		},
		{
			name: "query timezone",
			query: core.Query{
				TimeDimensions: []core.TimeDimension{{
					Dimension:   "orders.createdAt",
					Granularity: core.GranularityMonth,
					DateRange:   &core.DateRange{"2024-01-01", "2024-01-01"},
				}},
				Timezone: "America/New_York",
				Limit:    core.Unbounded(),
			},
			wantSQL: `SELECT TRUNC(FROM_TZ(CAST("orders".created_at AS TIMESTAMP), 'UTC') AT TIME ZONE 'America/New_York', 'MM') AS "orders__created_at_month" ` +
				`FROM sales.orders "orders" WHERE "orders".created_at >= ` + ts(":1") + ` AND "orders".created_at <= ` + ts(":2") + ` ` +
				`GROUP BY TRUNC(FROM_TZ(CAST("orders".created_at AS TIMESTAMP), 'UTC') AT TIME ZONE 'America/New_York', 'MM') ` +
				`ORDER BY "orders__created_at_month" ASC`,
			wantParams: []any{"2024-01-01T05:00:00.000Z", "2024-01-02T04:59:59.999Z"},
		},
	}

	c := newCompiler(t, oracle.Oracle)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params, err := c.BuildSQLAndParams(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			if tt.wantParams == nil {
				assert.Empty(t, params)
			} else {
				assert.Equal(t, tt.wantParams, params)
			}
		})
	}
}

func TestCompileOracleLegacyWrapping(t *testing.T) {
	c := newCompiler(t, oracle.New(dialect.Options{Version: "11.2.0.4"}))
	inner := `SELECT "orders".status AS "orders__status" FROM sales.orders "orders" GROUP BY "orders".status ORDER BY "orders__status" ASC`

	tests := []struct {
		name  string
		query core.Query
		want  string
	}{
		{
			name:  "limit only",
			query: core.Query{Dimensions: []string{"orders.status"}, Limit: core.LimitOf(5)},
			want:  `SELECT * FROM (` + inner + `) WHERE ROWNUM <= 5`,
		},
		{
			name:  "default limit",
			query: core.Query{Dimensions: []string{"orders.status"}},
			want:  `SELECT * FROM (` + inner + `) WHERE ROWNUM <= 10000`,
		},
		{
			name:  "limit and offset",
			query: core.Query{Dimensions: []string{"orders.status"}, Limit: core.LimitOf(5), Offset: 10},
			want:  `SELECT * FROM (SELECT q__.*, ROWNUM rn__ FROM (` + inner + `) q__ WHERE ROWNUM <= 15) WHERE rn__ > 10`,
		},
		{
			name:  "unbounded",
			query: core.Query{Dimensions: []string{"orders.status"}, Limit: core.Unbounded()},
			want:  inner,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := c.Compile(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.SQL)
		})
	}
}

func TestCompileRequestID(t *testing.T) {
	c := newCompiler(t, oracle.Oracle)
	res, err := c.Compile(core.Query{RequestID: "req-1", Measures: []string{"orders.count"}})
	require.NoError(t, err)
	assert.Equal(t, "req-1", res.RequestID)
}

func TestDefaultLimitConfig(t *testing.T) {
	c, err := compiler.New(compiler.Config{
		Dialect:      oracle.Oracle,
		Evaluator:    testutil.NewTestModel(t),
		DefaultLimit: 50,
	})
	require.NoError(t, err)

	sql, _, err := c.BuildSQLAndParams(core.Query{Measures: []string{"orders.count"}})
	require.NoError(t, err)
	assert.Contains(t, sql, "FETCH NEXT 50 ROWS ONLY")

	sql, _, err = c.BuildSQLAndParams(core.Query{Measures: []string{"orders.count"}, Limit: core.LimitOf(0)})
	require.NoError(t, err)
	assert.Contains(t, sql, "FETCH NEXT 50 ROWS ONLY")
}

func TestDefaultTimezoneConfig(t *testing.T) {
	c, err := compiler.New(compiler.Config{
		Dialect:   oracle.Oracle,
		Evaluator: testutil.NewTestModel(t),
		Timezone:  "Asia/Tokyo",
	})
	require.NoError(t, err)

	_, params, err := c.BuildSQLAndParams(core.Query{
		Measures: []string{"orders.count"},
		TimeDimensions: []core.TimeDimension{{
			Dimension: "orders.createdAt",
			DateRange: &core.DateRange{"2024-03-10", "2024-03-10"},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"2024-03-09T15:00:00.000Z", "2024-03-10T14:59:59.999Z"}, params)
}

func TestDefaultOrder(t *testing.T) {
	c := newCompiler(t, oracle.Oracle)

	tests := []struct {
		name  string
		query core.Query
		want  string
	}{
		{
			name: "time bucket first",
			query: core.Query{
				Measures:       []string{"orders.count"},
				Dimensions:     []string{"orders.status"},
				TimeDimensions: []core.TimeDimension{{Dimension: "orders.createdAt", Granularity: core.GranularityYear}},
			},
			want: `ORDER BY "orders__created_at_year" ASC`,
		},
		{
			name:  "measure descending",
			query: core.Query{Measures: []string{"orders.totalAmount", "orders.count"}, Dimensions: []string{"orders.status"}},
			want:  `ORDER BY "orders__total_amount" DESC`,
		},
		{
			name:  "dimension ascending",
			query: core.Query{Dimensions: []string{"users.city", "orders.status"}},
			want:  `ORDER BY "users__city" ASC`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, _, err := c.BuildSQLAndParams(tt.query)
			require.NoError(t, err)
			assert.Contains(t, sql, tt.want)
		})
	}
}

func TestPostgresPlaceholdersFollowTextOrder(t *testing.T) {
	c := newCompiler(t, postgres.Postgres)

	sql, params, err := c.BuildSQLAndParams(core.Query{
		Measures:   []string{"orders.totalAmount"},
		Dimensions: []string{"orders.status"},
		Filters: []core.Filter{
			{Member: "orders.totalAmount", Operator: core.OpGt, Values: []string{"100"}},
			{Member: "orders.status", Operator: core.OpEquals, Values: []string{"shipped", "pending"}},
		},
	})
	require.NoError(t, err)

	want := `SELECT "orders".status AS "orders__status", SUM("orders".amount) AS "orders__total_amount" ` +
		`FROM sales.orders AS "orders" WHERE "orders".status IN ($1, $2) GROUP BY 1 ` +
		`HAVING SUM("orders".amount) > $3 ORDER BY "orders__total_amount" DESC LIMIT 10000`
	assert.Equal(t, want, sql)
	assert.Equal(t, []any{"shipped", "pending", "100"}, params)
}

func TestMemberSQLDollarTextIsNotAParameter(t *testing.T) {
	model, err := schema.LoadModel(strings.NewReader(`
cubes:
  - name: t
    sql_table: t
    dimensions:
      - name: a
        sql: "'$0$'"
        type: string
      - name: b
        sql: "{CUBE}.b"
        type: string
`))
	require.NoError(t, err)
	c, err := compiler.New(compiler.Config{Dialect: postgres.Postgres, Evaluator: model, Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)

	sql, params, err := c.BuildSQLAndParams(core.Query{
		Dimensions: []string{"t.a"},
		Filters:    []core.Filter{{Member: "t.b", Operator: core.OpEquals, Values: []string{"x"}}},
	})
	require.NoError(t, err)
	assert.Contains(t, sql, `SELECT '$0$' AS "t__a"`)
	assert.Contains(t, sql, `WHERE "t".b = $1`)
	assert.NotContains(t, sql, "$2")
	assert.Equal(t, []any{"x"}, params)
}

func TestCompileIsDeterministic(t *testing.T) {
	c := newCompiler(t, oracle.Oracle)
	require.NotSame(t, c, newCompiler(t, oracle.Oracle))
	q := core.Query{
		Measures:   []string{"orders.count", "orders.rollingAmount"},
		Dimensions: []string{"users.city"},
		TimeDimensions: []core.TimeDimension{{
			Dimension:   "orders.createdAt",
			Granularity: core.GranularityWeek,
			DateRange:   &core.DateRange{"2024-01-01", "2024-03-31"},
		}},
		Filters: []core.Filter{{Member: "orders.status", Operator: core.OpNotEquals, Values: []string{"void"}}},
		Limit:   core.LimitOf(20),
		Offset:  40,
	}

	first, err := c.Compile(q)
	require.NoError(t, err)
	for range 5 {
		again, err := c.Compile(q)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	fresh, err := newCompiler(t, oracle.Oracle).Compile(q)
	require.NoError(t, err)
	assert.Equal(t, first, fresh)
}
