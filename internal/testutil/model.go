package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcube/pkg/schema"
)

// ModelYAML is a small cube model: orders -> users -> companies, plus
// an unconnected products cube.
const ModelYAML = `
cubes:
  - name: orders
    sql_table: sales.orders
    joins:
      - name: users
        relationship: many_to_one
        sql: "{CUBE}.user_id = {users}.id"
    dimensions:
      - name: id
        sql: "{CUBE}.id"
        type: number
        primary_key: true
      - name: status
        sql: "{CUBE}.status"
        type: string
      - name: createdAt
        sql: "{CUBE}.created_at"
        type: time
      - name: shippedOn
        sql: "{CUBE}.shipped_on"
        type: date
    measures:
      - name: count
        type: count
      - name: totalAmount
        sql: "{CUBE}.amount"
        type: sum
      - name: rollingAmount
        sql: "{CUBE}.amount"
        type: sum
        rolling_window:
          trailing: 7 day
      - name: rollingCount
        type: count
        rolling_window:
          trailing: 1 month
          offset: start

  - name: users
    sql_table: users
    joins:
      - name: companies
        relationship: many_to_one
        sql: "{CUBE}.company_id = {companies}.id"
    dimensions:
      - name: id
        sql: "{CUBE}.id"
        type: number
        primary_key: true
      - name: city
        sql: "{CUBE}.city"
        type: string

  - name: companies
    sql_table: companies
    dimensions:
      - name: id
        sql: "{CUBE}.id"
        type: number
        primary_key: true
      - name: name
        sql: "{CUBE}.name"
        type: string

  - name: products
    sql_table: products
    dimensions:
      - name: sku
        sql: "{CUBE}.sku"
        type: string
`

// NewTestModel loads ModelYAML.
func NewTestModel(t testing.TB) *schema.Model {
	t.Helper()
	m, err := schema.LoadModel(strings.NewReader(ModelYAML))
	require.NoError(t, err)
	return m
}
