package all

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/leapcube/pkg/dialect"
)

func TestAllRegistered(t *testing.T) {
	assert.Equal(t,
		[]string{"ansi", "databricks", "duckdb", "oracle", "postgres", "snowflake"},
		dialect.List())
}
