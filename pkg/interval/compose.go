package interval

import "strings"

// Direction selects addition or subtraction.
type Direction int

const (
	// Add moves the expression forward.
	Add Direction = iota
	// Subtract moves the expression backward.
	Subtract
)

// Functions are the dialect-specific renderers used by Compose.
type Functions struct {
	// CalendarStep wraps expr in a month-granular step by a signed month count.
	CalendarStep func(expr string, months int) string
	// Duration renders a fixed-length interval literal.
	Duration func(unit Unit, magnitude int) string
}

// Compose applies iv to the SQL expression expr.
//
// Calendar units are folded into one CalendarStep call (negated when
// subtracting). Each non-zero duration unit then contributes one term,
// in day, hour, minute, second order, joined with " + " or " - ".
// expr is treated as opaque text.
func Compose(expr string, iv Interval, dir Direction, fns Functions) string {
	if iv.IsZero() {
		return expr
	}

	res := expr
	if months := iv.Months(); months != 0 {
		if dir == Subtract {
			months = -months
		}
		res = fns.CalendarStep(res, months)
	}

	op := " + "
	if dir == Subtract {
		op = " - "
	}

	var b strings.Builder
	b.WriteString(res)
	for _, u := range DurationUnits {
		n := iv[u]
		if n == 0 {
			continue
		}
		b.WriteString(op)
		b.WriteString(fns.Duration(u, n))
	}
	return b.String()
}
