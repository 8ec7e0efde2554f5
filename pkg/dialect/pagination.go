package dialect

import (
	"fmt"
	"strconv"

	sq "github.com/Masterminds/squirrel"

	"github.com/leapstack-labs/leapcube/pkg/core"
)

// Page is a resolved limit/offset request.
type Page struct {
	Limit   int
	Bounded bool // false when the caller opted out of any row bound
	Offset  int
}

// Empty reports whether the page requests no transformation at all.
func (p Page) Empty() bool {
	return !p.Bounded && p.Offset <= 0
}

// Paginator applies a Page to an assembled, unpaginated query.
type Paginator interface {
	Strategy() core.PaginationStrategy
	Paginate(sql string, page Page) (string, error)
}

// ClauseFormat is a native pagination clause shape.
type ClauseFormat int

const (
	// OffsetFetch renders OFFSET n ROWS FETCH NEXT m ROWS ONLY.
	OffsetFetch ClauseFormat = iota
	// LimitOffset renders LIMIT m OFFSET n.
	LimitOffset
)

// NativeClause appends a native pagination clause.
type NativeClause struct {
	Format ClauseFormat
}

// Strategy implements Paginator.
func (NativeClause) Strategy() core.PaginationStrategy { return core.PaginateNative }

// Paginate implements Paginator.
func (n NativeClause) Paginate(sql string, page Page) (string, error) {
	if page.Empty() {
		return sql, nil
	}

	switch n.Format {
	case LimitOffset:
		if page.Bounded {
			sql += " LIMIT " + strconv.Itoa(page.Limit)
		}
		if page.Offset > 0 {
			sql += " OFFSET " + strconv.Itoa(page.Offset)
		}
	default:
		if page.Offset > 0 {
			sql += " OFFSET " + strconv.Itoa(page.Offset) + " ROWS"
		}
		if page.Bounded {
			sql += " FETCH NEXT " + strconv.Itoa(page.Limit) + " ROWS ONLY"
		}
	}
	return sql, nil
}

// Wrapping emulates pagination by filtering a row ordinal pseudo-column
// over the wrapped query. Ordinal assignment follows the inner query's
// ORDER BY; without one, page boundaries are engine-defined.
type Wrapping struct {
	Ordinal      string // pseudo-column, e.g. ROWNUM
	OrdinalAlias string // alias of the ordinal in the middle layer
	InnerAlias   string // alias of the wrapped query in the middle layer
	AliasKeyword string // keyword before InnerAlias (may be empty)
}

// RowNumWrapping is the ROWNUM-based wrapping used by engines without
// row-limiting clauses.
var RowNumWrapping = Wrapping{
	Ordinal:      "ROWNUM",
	OrdinalAlias: "rn__",
	InnerAlias:   "q__",
}

// Strategy implements Paginator.
func (Wrapping) Strategy() core.PaginationStrategy { return core.PaginateWrapping }

// Paginate implements Paginator. A limit without offset wraps once; an
// offset wraps twice so the inner engine stops at offset+limit rows.
func (w Wrapping) Paginate(inner string, page Page) (string, error) {
	if page.Empty() {
		return inner, nil
	}

	if page.Offset <= 0 {
		wrapped, _, err := sq.Select("*").
			From("(" + inner + ")").
			Where(fmt.Sprintf("%s <= %d", w.Ordinal, page.Limit)).
			ToSql()
		if err != nil {
			return "", fmt.Errorf("wrap limit: %w", err)
		}
		return wrapped, nil
	}

	middle := sq.Select(w.InnerAlias+".*", w.Ordinal+" "+w.OrdinalAlias).
		From("(" + inner + ")" + aliasSep(w.AliasKeyword) + w.InnerAlias)
	if page.Bounded {
		middle = middle.Where(fmt.Sprintf("%s <= %d", w.Ordinal, page.Offset+page.Limit))
	}
	middleSQL, _, err := middle.ToSql()
	if err != nil {
		return "", fmt.Errorf("wrap offset: %w", err)
	}

	wrapped, _, err := sq.Select("*").
		From("(" + middleSQL + ")").
		Where(fmt.Sprintf("%s > %d", w.OrdinalAlias, page.Offset)).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("wrap offset: %w", err)
	}
	return wrapped, nil
}

// AliasClause joins an expression and its alias with keyword, which may be empty.
func AliasClause(expr, keyword, alias string) string {
	return expr + aliasSep(keyword) + alias
}

func aliasSep(keyword string) string {
	if keyword == "" {
		return " "
	}
	return " " + keyword + " "
}
