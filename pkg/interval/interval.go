// Package interval parses composite duration expressions such as
// "1 year 2 quarter 3 month 4 day" and composes them onto SQL date
// expressions.
package interval

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is an interval unit.
type Unit int

// Units in composition order. Calendar units come first.
const (
	Year Unit = iota
	Quarter
	Month
	Day
	Hour
	Minute
	Second
)

var unitNames = [...]string{"year", "quarter", "month", "day", "hour", "minute", "second"}

// DurationUnits are the fixed-length units, in the order duration terms are emitted.
var DurationUnits = []Unit{Day, Hour, Minute, Second}

// String returns the singular unit name.
func (u Unit) String() string {
	if u < Year || u > Second {
		return "unknown"
	}
	return unitNames[u]
}

// IsCalendar reports whether u advances in whole months.
func (u Unit) IsCalendar() bool {
	return u == Year || u == Quarter || u == Month
}

// ParseUnit parses a unit name. Plural forms and any casing are accepted.
func ParseUnit(s string) (Unit, bool) {
	name := strings.TrimSuffix(strings.ToLower(s), "s")
	for i, n := range unitNames {
		if n == name {
			return Unit(i), true
		}
	}
	return 0, false
}

// Interval maps units to signed magnitudes. Only units mentioned in the
// source text are present.
type Interval map[Unit]int

// ParseError reports an interval expression that could not be parsed.
type ParseError struct {
	Input  string
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("invalid interval %q: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("invalid interval %q: %s %q", e.Input, e.Reason, e.Token)
}

// Parse parses whitespace-separated "<magnitude> <unit>" pairs.
// Repeated units accumulate. Blank input yields an empty Interval.
func Parse(text string) (Interval, error) {
	fields := strings.Fields(text)
	if len(fields)%2 != 0 {
		return nil, &ParseError{Input: text, Token: fields[len(fields)-1], Reason: "missing unit after"}
	}

	iv := make(Interval, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, &ParseError{Input: text, Token: fields[i], Reason: "magnitude is not an integer:"}
		}
		unit, ok := ParseUnit(fields[i+1])
		if !ok {
			return nil, &ParseError{Input: text, Token: fields[i+1], Reason: "unsupported unit"}
		}
		iv[unit] += n
	}
	return iv, nil
}

// MustParse is like Parse but panics on error. For static expressions only.
func MustParse(text string) Interval {
	iv, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return iv
}

// Months folds the calendar units into a single month count.
func (iv Interval) Months() int {
	return iv[Year]*12 + iv[Quarter]*3 + iv[Month]
}

// IsZero reports whether every magnitude is zero.
func (iv Interval) IsZero() bool {
	for _, n := range iv {
		if n != 0 {
			return false
		}
	}
	return true
}

// Negate returns a copy with every magnitude's sign flipped.
func (iv Interval) Negate() Interval {
	out := make(Interval, len(iv))
	for u, n := range iv {
		out[u] = -n
	}
	return out
}

// String renders the interval in canonical unit order, skipping zero terms.
func (iv Interval) String() string {
	var parts []string
	for u := Year; u <= Second; u++ {
		if n := iv[u]; n != 0 {
			parts = append(parts, strconv.Itoa(n)+" "+u.String())
		}
	}
	return strings.Join(parts, " ")
}
