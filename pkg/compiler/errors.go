package compiler

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/leapcube/pkg/core"
)

var (
	// ErrEmptyQuery is returned for a query without members.
	ErrEmptyQuery = errors.New("query must reference at least one measure or dimension")
	// ErrRollingWindowNeedsGranularity is returned when a rolling measure has no time bucket to roll over.
	ErrRollingWindowNeedsGranularity = errors.New("rolling window measures require a time dimension with a granularity")
	// ErrRollingMeasureFilter is returned when a filter targets a rolling measure.
	ErrRollingMeasureFilter = errors.New("rolling window measures cannot be filtered")
	// ErrInvalidDateRange is returned for unparsable or incomplete date ranges.
	ErrInvalidDateRange = errors.New("invalid date range")
	// ErrInvalidTimezone is returned for unknown IANA zone ids.
	ErrInvalidTimezone = errors.New("invalid timezone")
	// ErrMixedFilterGroup is returned when a boolean group mixes dimension and measure filters.
	ErrMixedFilterGroup = errors.New("filter group mixes dimensions and measures")
)

// IdentifierTooLongError is returned when a generated alias exceeds the
// dialect's identifier limit.
type IdentifierTooLongError struct {
	Identifier string
	Length     int
	Max        int
	Dialect    string
}

func (e *IdentifierTooLongError) Error() string {
	return fmt.Sprintf("identifier %q is %d characters long, %s allows at most %d; set sql_alias to a shorter name",
		e.Identifier, e.Length, e.Dialect, e.Max)
}

// UnsupportedOperatorError is returned for filter operators a dialect cannot render.
type UnsupportedOperatorError struct {
	Operator core.FilterOperator
	Dialect  string
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("filter operator %q is not supported by dialect %s", e.Operator, e.Dialect)
}

// MemberKindError is returned when a member is used in the wrong role.
type MemberKindError struct {
	Ref  string
	Want string
}

func (e *MemberKindError) Error() string {
	return fmt.Sprintf("member %q cannot be used as a %s", e.Ref, e.Want)
}
