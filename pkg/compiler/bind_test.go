package compiler_test

import (
	"runtime"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapcube/pkg/core"
	"github.com/leapstack-labs/leapcube/pkg/dialects/oracle"
)

// TestParamsBindInOrder executes compiled SQL through database/sql and
// checks that each placeholder receives the value at its position.
func TestParamsBindInOrder(t *testing.T) {
	c := newCompiler(t, oracle.Oracle)

	res, err := c.Compile(core.Query{
		Measures:   []string{"orders.totalAmount"},
		Dimensions: []string{"orders.status"},
		TimeDimensions: []core.TimeDimension{{
			Dimension:   "orders.createdAt",
			Granularity: core.GranularityMonth,
			DateRange:   &core.DateRange{"2024-01-01", "2024-06-30"},
		}},
		Filters: []core.Filter{
			{Member: "orders.totalAmount", Operator: core.OpGte, Values: []string{"500"}},
			{Member: "users.city", Operator: core.OpContains, Values: []string{"ber"}},
		},
	})
	require.NoError(t, err)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(res.SQL).
		WithArgs("2024-01-01T00:00:00.000Z", "2024-06-30T23:59:59.999Z", "ber", "500").
		WillReturnRows(sqlmock.NewRows([]string{"orders__status", "orders__created_at_month", "orders__total_amount"}).
			AddRow("shipped", "2024-01-01", 1200))

	rows, err := db.Query(res.SQL, res.Params...)
	require.NoError(t, err)
	defer rows.Close()

	var (
		status, month string
		total         int
	)
	require.True(t, rows.Next())
	require.NoError(t, rows.Scan(&status, &month, &total))
	assert.Equal(t, "shipped", status)
	assert.Equal(t, 1200, total)
	require.NoError(t, rows.Err())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompileConcurrently(t *testing.T) {
	c := newCompiler(t, oracle.Oracle)
	queries := []core.Query{
		{Measures: []string{"orders.count"}, Dimensions: []string{"orders.status"}},
		{
			Measures:       []string{"orders.rollingAmount", "orders.rollingCount"},
			TimeDimensions: []core.TimeDimension{{Dimension: "orders.createdAt", Granularity: core.GranularityDay}},
			Filters:        []core.Filter{{Member: "users.city", Operator: core.OpEquals, Values: []string{"Oslo"}}},
		},
	}

	want := make([]string, len(queries))
	for i, q := range queries {
		res, err := c.Compile(q)
		require.NoError(t, err)
		want[i] = res.SQL
	}

	var (
		mu  sync.Mutex
		got = make(map[int][]string)
	)
	var g errgroup.Group
	for n := range runtime.GOMAXPROCS(0) * 8 {
		i := n % len(queries)
		g.Go(func() error {
			res, err := c.Compile(queries[i])
			if err != nil {
				return err
			}
			mu.Lock()
			got[i] = append(got[i], res.SQL)
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i, sqls := range got {
		for _, sql := range sqls {
			assert.Equal(t, want[i], sql)
		}
	}
}
