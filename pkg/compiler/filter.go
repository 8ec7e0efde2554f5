package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapcube/pkg/core"
	"github.com/leapstack-labs/leapcube/pkg/dialect"
	"github.com/leapstack-labs/leapcube/pkg/schema"
)

// buildFilters renders date ranges and the filter tree. Dimension
// predicates go to WHERE, measure predicates to HAVING.
func (b *build) buildFilters() error {
	b.ranges = make([]string, len(b.times))
	for i, tc := range b.times {
		if tc.dateRange == nil {
			continue
		}
		lo, hi, err := b.rangeParams(tc.member, *tc.dateRange)
		if err != nil {
			return fmt.Errorf("time dimension %s: %w", tc.member.Ref, err)
		}
		b.ranges[i] = tc.raw + " >= " + lo + " AND " + tc.raw + " <= " + hi
	}

	for _, f := range b.q.Filters {
		sql, kind, err := b.filter(f)
		if err != nil {
			return err
		}
		if kind == schema.KindMeasure {
			b.having = append(b.having, sql)
		} else {
			b.filters = append(b.filters, sql)
		}
	}
	return nil
}

// rangeParams allocates the normalized endpoints of r and returns them cast
// for comparison with m.
func (b *build) rangeParams(m schema.Member, r core.DateRange) (string, string, error) {
	start, err := rangeStart(r.Start(), b.loc)
	if err != nil {
		return "", "", err
	}
	end, err := rangeEnd(r.End(), b.loc)
	if err != nil {
		return "", "", err
	}
	return b.cast(m, b.params.Allocate(start)), b.cast(m, b.params.Allocate(end)), nil
}

func (b *build) cast(m schema.Member, param string) string {
	switch m.Type {
	case schema.TypeTime:
		return b.d.TimestampCast(param)
	case schema.TypeDate:
		return b.d.DateCast(param)
	default:
		return param
	}
}

func (b *build) filter(f core.Filter) (string, schema.MemberKind, error) {
	if f.IsGroup() {
		return b.group(f)
	}
	if f.Member == "" {
		return "", 0, errors.New("filter requires a member or a group")
	}

	m, err := b.c.evaluator.Resolve(f.Member)
	if err != nil {
		return "", 0, err
	}
	if m.IsMeasure() && m.RollingWindow != nil {
		return "", 0, fmt.Errorf("%w: %s", ErrRollingMeasureFilter, f.Member)
	}
	if !b.d.SupportsOperator(f.Operator) {
		return "", 0, &UnsupportedOperatorError{Operator: f.Operator, Dialect: b.d.Name()}
	}

	expr := b.expand(m)
	if m.IsMeasure() {
		expr = b.aggregate(m)
	}
	sql, err := b.predicate(m, expr, f)
	if err != nil {
		return "", 0, fmt.Errorf("filter on %s: %w", f.Member, err)
	}
	return sql, m.Kind, nil
}

func (b *build) group(f core.Filter) (string, schema.MemberKind, error) {
	if len(f.And) > 0 && len(f.Or) > 0 {
		return "", 0, errors.New("filter group cannot combine and with or")
	}
	children, op := f.And, " AND "
	if len(f.Or) > 0 {
		children, op = f.Or, " OR "
	}

	parts := make([]string, 0, len(children))
	var kind schema.MemberKind
	for i, child := range children {
		sql, k, err := b.filter(child)
		if err != nil {
			return "", 0, err
		}
		if i > 0 && k != kind {
			return "", 0, ErrMixedFilterGroup
		}
		kind = k
		parts = append(parts, sql)
	}
	return "(" + strings.Join(parts, op) + ")", kind, nil
}

var likeMatches = map[core.FilterOperator]dialect.MatchType{
	core.OpContains:      dialect.MatchContains,
	core.OpNotContains:   dialect.MatchContains,
	core.OpStartsWith:    dialect.MatchStarts,
	core.OpNotStartsWith: dialect.MatchStarts,
	core.OpEndsWith:      dialect.MatchEnds,
	core.OpNotEndsWith:   dialect.MatchEnds,
}

var comparisons = map[core.FilterOperator]string{
	core.OpGt:  ">",
	core.OpGte: ">=",
	core.OpLt:  "<",
	core.OpLte: "<=",
}

func (b *build) predicate(m schema.Member, expr string, f core.Filter) (string, error) {
	switch f.Operator {
	case core.OpSet:
		return expr + " IS NOT NULL", nil
	case core.OpNotSet:
		return expr + " IS NULL", nil
	}
	if len(f.Values) == 0 {
		return "", fmt.Errorf("operator %s requires values", f.Operator)
	}

	switch f.Operator {
	case core.OpEquals:
		return b.in(expr, f.Values, false), nil

	case core.OpNotEquals:
		return "(" + b.in(expr, f.Values, true) + " OR " + expr + " IS NULL)", nil

	case core.OpContains, core.OpStartsWith, core.OpEndsWith:
		parts := b.likes(expr, f.Values, false, likeMatches[f.Operator])
		if len(parts) == 1 {
			return parts[0], nil
		}
		return "(" + strings.Join(parts, " OR ") + ")", nil

	case core.OpNotContains, core.OpNotStartsWith, core.OpNotEndsWith:
		parts := b.likes(expr, f.Values, true, likeMatches[f.Operator])
		return "(" + strings.Join(parts, " AND ") + " OR " + expr + " IS NULL)", nil

	case core.OpGt, core.OpGte, core.OpLt, core.OpLte:
		return expr + " " + comparisons[f.Operator] + " " + b.params.Allocate(f.Values[0]), nil

	case core.OpInDateRange, core.OpNotInDateRange:
		if len(f.Values) != 2 {
			return "", fmt.Errorf("%w: %s requires two values", ErrInvalidDateRange, f.Operator)
		}
		lo, hi, err := b.rangeParams(m, core.DateRange{f.Values[0], f.Values[1]})
		if err != nil {
			return "", err
		}
		if f.Operator == core.OpInDateRange {
			return "(" + expr + " >= " + lo + " AND " + expr + " <= " + hi + ")", nil
		}
		return "(" + expr + " < " + lo + " OR " + expr + " > " + hi + ")", nil

	case core.OpBeforeDate, core.OpAfterOrOnDate:
		v, err := rangeStart(f.Values[0], b.loc)
		if err != nil {
			return "", err
		}
		op := " < "
		if f.Operator == core.OpAfterOrOnDate {
			op = " >= "
		}
		return expr + op + b.cast(m, b.params.Allocate(v)), nil

	case core.OpAfterDate, core.OpBeforeOrOnDate:
		v, err := rangeEnd(f.Values[0], b.loc)
		if err != nil {
			return "", err
		}
		op := " > "
		if f.Operator == core.OpBeforeOrOnDate {
			op = " <= "
		}
		return expr + op + b.cast(m, b.params.Allocate(v)), nil
	}
	return "", &UnsupportedOperatorError{Operator: f.Operator, Dialect: b.d.Name()}
}

func (b *build) in(expr string, values []string, negated bool) string {
	if len(values) == 1 {
		op := " = "
		if negated {
			op = " <> "
		}
		return expr + op + b.params.Allocate(values[0])
	}
	markers := make([]string, len(values))
	for i, v := range values {
		markers[i] = b.params.Allocate(v)
	}
	op := " IN ("
	if negated {
		op = " NOT IN ("
	}
	return expr + op + strings.Join(markers, ", ") + ")"
}

func (b *build) likes(expr string, values []string, negated bool, match dialect.MatchType) []string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = b.d.LikeIgnoreCase(expr, negated, b.params.Allocate(v), match)
	}
	return parts
}
