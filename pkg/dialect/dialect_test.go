package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/leapcube/pkg/core"
	"github.com/leapstack-labs/leapcube/pkg/interval"
)

func testConfig() *core.DialectConfig {
	return &core.DialectConfig{
		Name:        "test",
		Placeholder: core.PlaceholderQuestion,
		Identifiers: core.IdentifierConfig{
			Quote:    `"`,
			QuoteEnd: `"`,
			Escape:   `""`,
		},
		TableAliasKeyword: "AS",
		JoinAliasKeyword:  "AS",
		Truncation: map[core.Granularity]string{
			core.GranularityDay:   "day",
			core.GranularityMonth: "month",
		},
		Casts: core.CastTemplates{
			Date:      "CAST({} AS DATE)",
			Timestamp: "CAST({} AS TIMESTAMP)",
		},
	}
}

func TestFormatPlaceholder(t *testing.T) {
	tests := []struct {
		style core.PlaceholderStyle
		index int
		want  string
	}{
		{core.PlaceholderQuestion, 1, "?"},
		{core.PlaceholderQuestion, 7, "?"},
		{core.PlaceholderDollar, 1, "$1"},
		{core.PlaceholderDollar, 12, "$12"},
		{core.PlaceholderColon, 3, ":3"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			cfg := testConfig()
			cfg.Placeholder = tt.style
			assert.Equal(t, tt.want, New(cfg).Build().FormatPlaceholder(tt.index))
		})
	}
}

func TestQuoteIdentifier(t *testing.T) {
	d := New(testConfig()).Build()
	assert.Equal(t, `"orders"`, d.QuoteIdentifier("orders"))
	assert.Equal(t, `"we""ird"`, d.QuoteIdentifier(`we"ird`))

	cfg := testConfig()
	cfg.Identifiers = core.IdentifierConfig{Quote: "[", QuoteEnd: "]", Escape: "]]"}
	assert.Equal(t, "[a]]b]", New(cfg).Build().QuoteIdentifier("a]b"))
}

func TestNormalizeName(t *testing.T) {
	cfg := testConfig()
	cfg.Identifiers.Normalization = core.NormUppercase
	assert.Equal(t, "ORDERS", New(cfg).Build().NormalizeName("orders"))

	cfg = testConfig()
	cfg.Identifiers.Normalization = core.NormCaseSensitive
	assert.Equal(t, "Orders", New(cfg).Build().NormalizeName("Orders"))
}

func TestCasts(t *testing.T) {
	d := New(testConfig()).Build()
	assert.Equal(t, "CAST(? AS DATE)", d.DateCast("?"))
	assert.Equal(t, "CAST(:1 AS TIMESTAMP)", d.TimestampCast(":1"))

	cfg := testConfig()
	cfg.Casts = core.CastTemplates{}
	assert.Equal(t, "?", New(cfg).Build().DateCast("?"))
}

func TestTruncate(t *testing.T) {
	d := New(testConfig()).Build()
	assert.Equal(t, "DATE_TRUNC('day', created_at)", d.Truncate(core.GranularityDay, "created_at"))
	assert.Equal(t, "created_at", d.Truncate("", "created_at"), "absent granularity is the identity")

	custom := New(testConfig()).
		TruncateWith(func(g core.Granularity, token, expr string) string {
			return "T(" + string(g) + "," + token + "," + expr + ")"
		}).
		Build()
	assert.Equal(t, "T(month,month,x)", custom.Truncate(core.GranularityMonth, "x"))
}

func TestConvertTimezone(t *testing.T) {
	d := New(testConfig()).Build()
	assert.Equal(t, "x", d.ConvertTimezone("x", "Europe/Paris"))

	d = New(testConfig()).
		TimezoneWith(func(expr, tz string) string { return expr + " AT TIME ZONE '" + tz + "'" }).
		Build()
	assert.Equal(t, "x AT TIME ZONE 'Europe/Paris'", d.ConvertTimezone("x", "Europe/Paris"))
	assert.Equal(t, "x", d.ConvertTimezone("x", ""))
}

func TestANSIIntervals(t *testing.T) {
	d := New(testConfig()).Build()
	iv := interval.MustParse("1 year 2 day")
	assert.Equal(t, "(x + INTERVAL '12' MONTH) + INTERVAL '2' DAY", d.AddInterval("x", iv))
	assert.Equal(t, "(x + INTERVAL '-12' MONTH) - INTERVAL '2' DAY", d.SubtractInterval("x", iv))
}

func TestStandaloneIntervals(t *testing.T) {
	d := New(testConfig()).Build()

	got, err := AddInterval(d, "x", "3 hour")
	assert.NoError(t, err)
	assert.Equal(t, "x + INTERVAL '3' HOUR", got)

	got, err = SubtractInterval(d, "x", "0 day")
	assert.NoError(t, err)
	assert.Equal(t, "x", got)

	_, err = AddInterval(d, "x", "1 week")
	assert.Error(t, err)
}

func TestLikeRenderers(t *testing.T) {
	tests := []struct {
		name    string
		fn      LikeFunc
		negated bool
		match   MatchType
		want    string
	}{
		{"ilike contains", LikeWithIlike, false, MatchContains, "col ILIKE '%' || ? || '%'"},
		{"ilike not starts", LikeWithIlike, true, MatchStarts, "col NOT ILIKE ? || '%'"},
		{"upper contains", LikeWithUpperConcat, false, MatchContains, "UPPER(col) LIKE '%' || UPPER(?) || '%'"},
		{"upper not ends", LikeWithUpperConcat, true, MatchEnds, "UPPER(col) NOT LIKE '%' || UPPER(?)"},
		{"upper exact", LikeWithUpperConcat, false, MatchExact, "UPPER(col) LIKE UPPER(?)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn("col", tt.negated, "?", tt.match))
		})
	}
}

func TestBuildLikeDefault(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, "UPPER(c) LIKE UPPER(?)", New(cfg).Build().LikeIgnoreCase("c", false, "?", MatchExact))

	cfg = testConfig()
	cfg.SupportsIlike = true
	assert.Equal(t, "c ILIKE ?", New(cfg).Build().LikeIgnoreCase("c", false, "?", MatchExact))
}

func TestSupportsOperator(t *testing.T) {
	cfg := testConfig()
	cfg.DisabledOperators = []core.FilterOperator{core.OpContains}
	d := New(cfg).DisableOperators(core.OpEndsWith).Build()

	assert.True(t, d.SupportsOperator(core.OpEquals))
	assert.False(t, d.SupportsOperator(core.OpContains))
	assert.False(t, d.SupportsOperator(core.OpEndsWith))
	assert.False(t, d.SupportsOperator("regex"))
}

func TestBuildPaginatorDefault(t *testing.T) {
	assert.Equal(t, core.PaginateNative, New(testConfig()).Build().Paginator().Strategy())

	cfg := testConfig()
	cfg.Pagination = core.PaginateWrapping
	assert.Equal(t, core.PaginateWrapping, New(cfg).Build().Paginator().Strategy())
}

func TestMatchTypeString(t *testing.T) {
	assert.Equal(t, "starts", MatchStarts.String())
	assert.Equal(t, "unknown", MatchType(42).String())
}

func TestNullSafeEqual(t *testing.T) {
	d := New(testConfig()).Build()
	assert.Equal(t, `(a.k = b.k OR (a.k IS NULL AND b.k IS NULL))`, d.NullSafeEqual("a.k", "b.k"))

	d = New(testConfig()).NullSafeEqualWith(IsNotDistinctFrom).Build()
	assert.Equal(t, `a.k IS NOT DISTINCT FROM b.k`, d.NullSafeEqual("a.k", "b.k"))
}
