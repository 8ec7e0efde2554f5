package snowflake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcube/pkg/core"
	"github.com/leapstack-labs/leapcube/pkg/dialect"
	"github.com/leapstack-labs/leapcube/pkg/interval"
)

func TestBuild(t *testing.T) {
	d := Snowflake

	require.NotNil(t, d)
	assert.Equal(t, "snowflake", d.Name())
	assert.Equal(t, `"`, d.Config().Identifiers.Quote)
	assert.True(t, Config.SupportsIlike)
	assert.Equal(t, 255, d.MaxIdentifierLength())
}

func TestDialectRegistration(t *testing.T) {
	// Verify the Snowflake dialect is registered and can be retrieved
	d, ok := dialect.Get("snowflake")
	require.True(t, ok, "snowflake dialect should be registered")
	require.NotNil(t, d)
	assert.Equal(t, "snowflake", d.Name())
}

func TestFragments(t *testing.T) {
	d := Snowflake

	assert.Equal(t, "DATE_TRUNC('QUARTER', x)", d.Truncate(core.GranularityQuarter, "x"))
	assert.Equal(t, "?::timestamp_tz", d.TimestampCast("?"))
	assert.Equal(t, "CONVERT_TIMEZONE('UTC', x::timestamp_tz)::timestamp_ntz", d.ConvertTimezone("x", "UTC"))
	assert.Equal(t,
		"DATEADD(MONTH, 9, x) + INTERVAL '4 DAY'",
		d.AddInterval("x", interval.MustParse("2 quarter 3 month 4 day")))
	assert.Equal(t, "x ILIKE ? || '%'", d.LikeIgnoreCase("x", false, "?", dialect.MatchStarts))
}
