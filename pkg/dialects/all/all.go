// Package all registers every bundled dialect.
package all

import (
	// Registered dialects
	_ "github.com/leapstack-labs/leapcube/pkg/dialects/ansi"
	_ "github.com/leapstack-labs/leapcube/pkg/dialects/databricks"
	_ "github.com/leapstack-labs/leapcube/pkg/dialects/duckdb"
	_ "github.com/leapstack-labs/leapcube/pkg/dialects/oracle"
	_ "github.com/leapstack-labs/leapcube/pkg/dialects/postgres"
	_ "github.com/leapstack-labs/leapcube/pkg/dialects/snowflake"
)
