package dialect

import "fmt"

// MatchType selects where wildcards surround a LIKE pattern.
type MatchType int

const (
	// MatchContains matches the value anywhere ('%' || v || '%').
	MatchContains MatchType = iota
	// MatchStarts matches a prefix (v || '%').
	MatchStarts
	// MatchEnds matches a suffix ('%' || v).
	MatchEnds
	// MatchExact matches the whole value.
	MatchExact
)

// String returns the string representation of MatchType.
func (m MatchType) String() string {
	switch m {
	case MatchContains:
		return "contains"
	case MatchStarts:
		return "starts"
	case MatchEnds:
		return "ends"
	case MatchExact:
		return "exact"
	default:
		return "unknown"
	}
}

// LikeFunc renders a case-insensitive pattern match.
type LikeFunc func(column string, negated bool, param string, match MatchType) string

// Pattern wraps value with the '%' wildcard literals required by match.
func Pattern(value string, match MatchType) string {
	switch match {
	case MatchContains:
		return "'%' || " + value + " || '%'"
	case MatchStarts:
		return value + " || '%'"
	case MatchEnds:
		return "'%' || " + value
	default:
		return value
	}
}

// LikeWithIlike renders column [NOT] ILIKE pattern.
func LikeWithIlike(column string, negated bool, param string, match MatchType) string {
	return fmt.Sprintf("%s%s ILIKE %s", column, not(negated), Pattern(param, match))
}

// LikeWithUpperConcat renders UPPER(column) [NOT] LIKE pattern with
// both sides upper-cased, for engines without ILIKE.
func LikeWithUpperConcat(column string, negated bool, param string, match MatchType) string {
	return fmt.Sprintf("UPPER(%s)%s LIKE %s", column, not(negated), Pattern("UPPER("+param+")", match))
}

func not(negated bool) string {
	if negated {
		return " NOT"
	}
	return ""
}
