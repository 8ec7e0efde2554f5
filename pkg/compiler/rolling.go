package compiler

import (
	"fmt"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/leapstack-labs/leapcube/pkg/core"
	"github.com/leapstack-labs/leapcube/pkg/dialect"
	"github.com/leapstack-labs/leapcube/pkg/interval"
	"github.com/leapstack-labs/leapcube/pkg/schema"
)

const (
	baseAlias = "base"
	keysAlias = "window_keys"
)

// planRolling renders a query with rolling measures. Regular measures are
// aggregated in the base derived table; each rolling measure gets its own
// derived table q_N keyed by the grouping columns and joined onto base.
//
//	SELECT base.<keys>, base.<measures>, q_0.<rolling>
//	FROM (<base>) base
//	LEFT JOIN (<rolling 0>) q_0 ON base.<keys> = q_0.<keys>
//
// Key matches are NULL-safe so a NULL group keeps its rolling value.
func (b *build) planRolling() (string, error) {
	window := -1
	for i, tc := range b.times {
		if tc.granularity.IsSet() {
			window = i
			break
		}
	}
	if window < 0 {
		return "", ErrRollingWindowNeedsGranularity
	}

	groups := b.groupColumns()
	baseSQL, err := b.baseTable(groups)
	if err != nil {
		return "", err
	}

	type derived struct {
		alias string
		sql   string
	}
	var subqueries []derived
	source := make(map[int]string, len(b.measures))

	for i, m := range b.measures {
		if m.member.RollingWindow == nil {
			source[i] = baseAlias
			continue
		}
		alias := b.aliases.Next()
		sql, err := b.rollingTable(m, groups, window)
		if err != nil {
			return "", fmt.Errorf("rolling measure %s: %w", m.member.Ref, err)
		}
		subqueries = append(subqueries, derived{alias: alias, sql: sql})
		source[i] = alias
	}

	cols := make([]string, 0, len(groups)+len(b.measures))
	for _, g := range groups {
		cols = append(cols, project(baseAlias+"."+g.alias, g.alias))
	}
	for i, m := range b.measures {
		cols = append(cols, project(source[i]+"."+m.alias, m.alias))
	}

	sb := sq.Select(cols...).
		From(dialect.AliasClause("("+baseSQL+")", b.d.JoinAliasKeyword(), baseAlias))
	for _, sub := range subqueries {
		on := make([]string, len(groups))
		for i, g := range groups {
			on[i] = b.d.NullSafeEqual(baseAlias+"."+g.alias, sub.alias+"."+g.alias)
		}
		sb = sb.LeftJoin(dialect.AliasClause("("+sub.sql+")", b.d.JoinAliasKeyword(), sub.alias) +
			" ON " + strings.Join(on, " AND "))
	}

	order, err := b.orderBy()
	if err != nil {
		return "", err
	}
	if len(order) > 0 {
		sb = sb.OrderBy(order...)
	}

	sql, _, err := sb.ToSql()
	if err != nil {
		return "", fmt.Errorf("render rolling query: %w", err)
	}
	return sql, nil
}

// baseTable groups the filtered rows and aggregates the regular measures.
func (b *build) baseTable(groups []column) (string, error) {
	cols, exprs := b.groupProjection(groups)
	for _, m := range b.measures {
		if m.member.RollingWindow == nil {
			cols = append(cols, project(m.expr, m.alias))
		}
	}

	sb := b.from(sq.Select(cols...))
	sb = where(sb, b.wherePreds(-1))
	sb = b.groupBy(sb, exprs)
	sb = having(sb, b.having)

	sql, _, err := sb.ToSql()
	if err != nil {
		return "", fmt.Errorf("render base table: %w", err)
	}
	return sql, nil
}

func (b *build) groupProjection(groups []column) ([]string, []string) {
	cols := make([]string, 0, len(groups))
	exprs := make([]string, 0, len(groups))
	for _, g := range groups {
		cols = append(cols, project(g.expr, g.alias))
		exprs = append(exprs, g.expr)
	}
	return cols, exprs
}

// rollingTable aggregates m over the rows inside its window around every
// bucket of times[window]. The buckets come from the same filtered
// grouping as the base table; the window replaces that dimension's
// date range.
func (b *build) rollingTable(m column, groups []column, window int) (string, error) {
	tc := b.times[window]
	bounds, err := b.windowBounds(m.member.RollingWindow, tc)
	if err != nil {
		return "", err
	}

	keyCols, keyExprs := b.groupProjection(groups)
	keys := b.from(sq.Select(keyCols...))
	keys = where(keys, b.wherePreds(-1))
	keys = b.groupBy(keys, keyExprs)
	keysSQL, _, err := keys.ToSql()
	if err != nil {
		return "", fmt.Errorf("render window keys: %w", err)
	}

	cols := make([]string, 0, len(groups)+1)
	refs := make([]string, 0, len(groups))
	var match []string
	for _, g := range groups {
		ref := keysAlias + "." + g.alias
		cols = append(cols, project(ref, g.alias))
		refs = append(refs, ref)
		if g.alias != tc.alias {
			match = append(match, b.d.NullSafeEqual(ref, g.expr))
		}
	}
	cols = append(cols, project(m.expr, m.alias))

	root := b.cubes[b.path.Root]
	sb := sq.Select(cols...).
		From(dialect.AliasClause("("+keysSQL+")", b.d.JoinAliasKeyword(), keysAlias)).
		JoinClause("CROSS JOIN " + dialect.AliasClause(root.Source(), b.d.JoinAliasKeyword(), b.cubeAlias[b.path.Root]))
	sb = b.joins(sb)
	sb = where(sb, match)
	sb = where(sb, bounds)
	sb = where(sb, b.wherePreds(window))

	if b.d.GroupByStrategy() == core.GroupByOrdinal {
		ordinals := make([]string, len(refs))
		for i := range refs {
			ordinals[i] = strconv.Itoa(i + 1)
		}
		sb = sb.GroupBy(ordinals...)
	} else {
		sb = sb.GroupBy(refs...)
	}

	sql, _, err := sb.ToSql()
	if err != nil {
		return "", fmt.Errorf("render window: %w", err)
	}
	return sql, nil
}

// windowBounds renders the lower and upper bound predicates of w relative
// to the bucket [from, to) of tc.
func (b *build) windowBounds(w *schema.RollingWindow, tc timeColumn) ([]string, error) {
	var step interval.Interval
	if tc.granularity == core.GranularityWeek {
		step = interval.Interval{interval.Day: 7}
	} else {
		unit, ok := interval.ParseUnit(string(tc.granularity))
		if !ok {
			return nil, fmt.Errorf("granularity %s cannot anchor a rolling window", tc.granularity)
		}
		step = interval.Interval{unit: 1}
	}

	from := keysAlias + "." + tc.alias
	anchor := b.d.AddInterval(from, step)
	if w.Offset == "start" {
		anchor = from
	}
	field := b.dimensionExpr(tc.member)

	var preds []string
	if w.Trailing != schema.Unbounded {
		trailing, err := interval.Parse(w.Trailing)
		if err != nil {
			return nil, err
		}
		preds = append(preds, field+" >= "+b.d.SubtractInterval(anchor, trailing))
	}
	if w.Leading != schema.Unbounded {
		leading, err := interval.Parse(w.Leading)
		if err != nil {
			return nil, err
		}
		preds = append(preds, field+" < "+b.d.AddInterval(anchor, leading))
	}
	return preds, nil
}
