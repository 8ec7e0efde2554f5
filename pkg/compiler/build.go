package compiler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	sq "github.com/Masterminds/squirrel"

	"github.com/leapstack-labs/leapcube/pkg/core"
	"github.com/leapstack-labs/leapcube/pkg/dialect"
	"github.com/leapstack-labs/leapcube/pkg/schema"
)

// build is the state of one compilation. It is never shared.
type build struct {
	c   *Compiler
	d   dialect.Capabilities
	q   core.Query
	loc *time.Location
	tz  string // empty when no conversion applies

	params  ParamAllocator
	aliases AliasCounter

	path       schema.JoinPath
	cubes      map[string]schema.Cube
	cubeAlias  map[string]string
	dimensions []column
	times      []timeColumn
	measures   []column

	// ranges[i] holds the date range predicate of times[i], if any.
	ranges  []string
	filters []string
	having  []string
}

// column is one projected member.
type column struct {
	member schema.Member
	expr   string // grouping or aggregate expression
	alias  string // quoted
}

// timeColumn is a requested time dimension. Without a granularity it
// only filters.
type timeColumn struct {
	column
	granularity core.Granularity
	raw         string // expanded, unconverted expression
	dateRange   *core.DateRange
}

func (c *Compiler) newBuild(q core.Query) *build {
	return &build{
		c:         c,
		d:         c.dialect,
		q:         q,
		cubes:     make(map[string]schema.Cube),
		cubeAlias: make(map[string]string),
	}
}

func (b *build) run() (string, error) {
	if err := b.loadTimezone(); err != nil {
		return "", err
	}
	if len(b.q.Measures) == 0 && len(b.q.Dimensions) == 0 && len(b.q.TimeDimensions) == 0 {
		return "", ErrEmptyQuery
	}
	if err := b.resolveJoins(); err != nil {
		return "", err
	}
	if err := b.resolveColumns(); err != nil {
		return "", err
	}
	if len(b.dimensions) == 0 && len(b.measures) == 0 && len(b.granular()) == 0 {
		return "", ErrEmptyQuery
	}
	if err := b.buildFilters(); err != nil {
		return "", err
	}

	var (
		sql string
		err error
	)
	if b.hasRolling() {
		sql, err = b.planRolling()
	} else {
		sql, err = b.flat()
	}
	if err != nil {
		return "", err
	}

	limit, bounded := b.q.Limit.Resolve(b.c.defaultLimit)
	page := dialect.Page{Limit: limit, Bounded: bounded, Offset: int(b.q.Offset)}
	return b.d.Paginator().Paginate(sql, page)
}

func (b *build) loadTimezone() error {
	name := b.q.Timezone
	if name == "" {
		name = b.c.timezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidTimezone, name, err)
	}
	b.loc = loc
	if loc != time.UTC {
		b.tz = loc.String()
	}
	return nil
}

// resolveJoins collects cubes in first-seen order and asks the join graph
// for a path rooted at the first one.
func (b *build) resolveJoins() error {
	var order []string
	seen := make(map[string]bool)
	add := func(ref string) error {
		cube, _, err := schema.SplitRef(ref)
		if err != nil {
			return err
		}
		if !seen[cube] {
			seen[cube] = true
			order = append(order, cube)
		}
		return nil
	}

	for _, ref := range b.q.Measures {
		if err := add(ref); err != nil {
			return err
		}
	}
	for _, ref := range b.q.Dimensions {
		if err := add(ref); err != nil {
			return err
		}
	}
	for _, td := range b.q.TimeDimensions {
		if err := add(td.Dimension); err != nil {
			return err
		}
	}
	if err := walkFilters(b.q.Filters, func(f core.Filter) error { return add(f.Member) }); err != nil {
		return err
	}

	path, err := b.c.joins.PathFor(order)
	if err != nil {
		return err
	}
	b.path = path

	for _, name := range path.Cubes() {
		cube, err := b.c.evaluator.Cube(name)
		if err != nil {
			return err
		}
		alias := cube.Alias
		if alias == "" {
			alias = cube.Name
		}
		if err := b.checkLength(alias); err != nil {
			return err
		}
		b.cubes[name] = cube
		b.cubeAlias[name] = b.d.QuoteIdentifier(alias)
	}
	return nil
}

func walkFilters(filters []core.Filter, fn func(core.Filter) error) error {
	for _, f := range filters {
		if f.IsGroup() {
			if err := walkFilters(f.And, fn); err != nil {
				return err
			}
			if err := walkFilters(f.Or, fn); err != nil {
				return err
			}
			continue
		}
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func (b *build) resolveColumns() error {
	for _, ref := range b.q.Dimensions {
		m, err := b.resolve(ref, schema.KindDimension)
		if err != nil {
			return err
		}
		alias, err := b.memberAlias(m, "")
		if err != nil {
			return err
		}
		b.dimensions = append(b.dimensions, column{member: m, expr: b.dimensionExpr(m), alias: alias})
	}

	for _, td := range b.q.TimeDimensions {
		m, err := b.resolve(td.Dimension, schema.KindDimension)
		if err != nil {
			return err
		}
		if !m.IsTime() {
			return &MemberKindError{Ref: td.Dimension, Want: "time dimension"}
		}
		if td.Granularity.IsSet() && !td.Granularity.Valid() {
			return fmt.Errorf("time dimension %s: unknown granularity %q", td.Dimension, td.Granularity)
		}
		tc := timeColumn{
			column:      column{member: m},
			granularity: td.Granularity,
			raw:         b.expand(m),
			dateRange:   td.DateRange,
		}
		if td.Granularity.IsSet() {
			alias, err := b.memberAlias(m, string(td.Granularity))
			if err != nil {
				return err
			}
			tc.alias = alias
			tc.expr = b.d.Truncate(td.Granularity, b.dimensionExpr(m))
		}
		b.times = append(b.times, tc)
	}

	for _, ref := range b.q.Measures {
		m, err := b.resolve(ref, schema.KindMeasure)
		if err != nil {
			return err
		}
		alias, err := b.memberAlias(m, "")
		if err != nil {
			return err
		}
		b.measures = append(b.measures, column{member: m, expr: b.aggregate(m), alias: alias})
	}
	return nil
}

func (b *build) resolve(ref string, kind schema.MemberKind) (schema.Member, error) {
	m, err := b.c.evaluator.Resolve(ref)
	if err != nil {
		return schema.Member{}, err
	}
	if m.Kind != kind {
		return schema.Member{}, &MemberKindError{Ref: ref, Want: kind.String()}
	}
	return m, nil
}

// expand renders a member's SQL against the cube aliases of this build.
func (b *build) expand(m schema.Member) string {
	return schema.Expand(m.SQL, m.Cube, func(cube string) string {
		if alias, ok := b.cubeAlias[cube]; ok {
			return alias
		}
		return b.d.QuoteIdentifier(cube)
	})
}

// dimensionExpr is the projected form of a dimension; timestamps are
// shifted into the query's zone.
func (b *build) dimensionExpr(m schema.Member) string {
	expr := b.expand(m)
	if m.Type == schema.TypeTime {
		expr = b.d.ConvertTimezone(expr, b.tz)
	}
	return expr
}

func (b *build) aggregate(m schema.Member) string {
	expr := b.expand(m)
	switch m.Type {
	case schema.AggCount:
		if expr == "" {
			return "COUNT(*)"
		}
		return "COUNT(" + expr + ")"
	case schema.AggCountDistinct:
		return "COUNT(DISTINCT " + expr + ")"
	case schema.AggSum, schema.AggAvg, schema.AggMin, schema.AggMax:
		return strings.ToUpper(m.Type) + "(" + expr + ")"
	default:
		return expr
	}
}

func (b *build) memberAlias(m schema.Member, suffix string) (string, error) {
	name := m.Alias
	if name == "" {
		name = snakeCase(m.Cube) + "__" + snakeCase(m.Name)
	}
	if suffix != "" {
		name += "_" + suffix
	}
	if err := b.checkLength(name); err != nil {
		return "", err
	}
	return b.d.QuoteIdentifier(name), nil
}

func (b *build) checkLength(name string) error {
	limit := b.d.MaxIdentifierLength()
	if limit > 0 && len(name) > limit {
		return &IdentifierTooLongError{Identifier: name, Length: len(name), Max: limit, Dialect: b.d.Name()}
	}
	return nil
}

// granular returns the time dimensions that are projected and grouped.
func (b *build) granular() []timeColumn {
	var out []timeColumn
	for _, tc := range b.times {
		if tc.granularity.IsSet() {
			out = append(out, tc)
		}
	}
	return out
}

// groupColumns returns the grouping columns in projection order.
func (b *build) groupColumns() []column {
	cols := append([]column(nil), b.dimensions...)
	for _, tc := range b.granular() {
		cols = append(cols, tc.column)
	}
	return cols
}

func (b *build) hasRolling() bool {
	for _, m := range b.measures {
		if m.member.RollingWindow != nil {
			return true
		}
	}
	return false
}

// from renders FROM and joins for the build's join path.
func (b *build) from(sb sq.SelectBuilder) sq.SelectBuilder {
	root := b.cubes[b.path.Root]
	sb = sb.From(dialect.AliasClause(root.Source(), b.d.TableAliasKeyword(), b.cubeAlias[b.path.Root]))
	return b.joins(sb)
}

func (b *build) joins(sb sq.SelectBuilder) sq.SelectBuilder {
	for _, step := range b.path.Steps {
		cube := b.cubes[step.To]
		on := schema.Expand(step.SQL, step.Owner, func(name string) string { return b.cubeAlias[name] })
		sb = sb.LeftJoin(dialect.AliasClause(cube.Source(), b.d.JoinAliasKeyword(), b.cubeAlias[step.To]) + " ON " + on)
	}
	return sb
}

// groupBy groups by exprs, which must be the leading projections.
func (b *build) groupBy(sb sq.SelectBuilder, exprs []string) sq.SelectBuilder {
	if len(exprs) == 0 {
		return sb
	}
	if b.d.GroupByStrategy() == core.GroupByOrdinal {
		ordinals := make([]string, len(exprs))
		for i := range exprs {
			ordinals[i] = strconv.Itoa(i + 1)
		}
		return sb.GroupBy(ordinals...)
	}
	return sb.GroupBy(exprs...)
}

// wherePreds returns the row predicates, omitting the date range of
// times[skip].
func (b *build) wherePreds(skip int) []string {
	var out []string
	for i, r := range b.ranges {
		if r != "" && i != skip {
			out = append(out, r)
		}
	}
	return append(out, b.filters...)
}

func where(sb sq.SelectBuilder, preds []string) sq.SelectBuilder {
	for _, p := range preds {
		sb = sb.Where(p)
	}
	return sb
}

func having(sb sq.SelectBuilder, preds []string) sq.SelectBuilder {
	for _, p := range preds {
		sb = sb.Having(p)
	}
	return sb
}

func project(expr, alias string) string {
	return expr + " AS " + alias
}

// flat renders a query without rolling measures.
func (b *build) flat() (string, error) {
	groups := b.groupColumns()

	var cols, groupExprs []string
	for _, g := range groups {
		cols = append(cols, project(g.expr, g.alias))
		groupExprs = append(groupExprs, g.expr)
	}
	for _, m := range b.measures {
		cols = append(cols, project(m.expr, m.alias))
	}

	sb := b.from(sq.Select(cols...))
	sb = where(sb, b.wherePreds(-1))
	sb = b.groupBy(sb, groupExprs)
	sb = having(sb, b.having)

	order, err := b.orderBy()
	if err != nil {
		return "", err
	}
	if len(order) > 0 {
		sb = sb.OrderBy(order...)
	}

	sql, _, err := sb.ToSql()
	if err != nil {
		return "", fmt.Errorf("render select: %w", err)
	}
	return sql, nil
}

// orderBy resolves explicit order members to projected aliases, or
// derives the default order.
func (b *build) orderBy() ([]string, error) {
	if len(b.q.Order) == 0 {
		switch {
		case len(b.granular()) > 0:
			return []string{b.granular()[0].alias + " ASC"}, nil
		case len(b.measures) > 0:
			return []string{b.measures[0].alias + " DESC"}, nil
		case len(b.dimensions) > 0:
			return []string{b.dimensions[0].alias + " ASC"}, nil
		}
		return nil, nil
	}

	out := make([]string, 0, len(b.q.Order))
	for _, o := range b.q.Order {
		alias, ok := b.projected(o.Member)
		if !ok {
			return nil, fmt.Errorf("order member %q is not part of the query", o.Member)
		}
		dir := " ASC"
		if o.Desc {
			dir = " DESC"
		}
		out = append(out, alias+dir)
	}
	return out, nil
}

// projected returns the alias under which ref is selected.
func (b *build) projected(ref string) (string, bool) {
	for _, m := range b.measures {
		if m.member.Ref == ref {
			return m.alias, true
		}
	}
	for _, d := range b.dimensions {
		if d.member.Ref == ref {
			return d.alias, true
		}
	}
	for _, tc := range b.granular() {
		if tc.member.Ref == ref || tc.member.Ref+"."+string(tc.granularity) == ref {
			return tc.alias, true
		}
	}
	return "", false
}

// snakeCase converts camelCase member names to snake_case.
func snakeCase(s string) string {
	var sb strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				sb.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
