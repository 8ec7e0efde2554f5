package core

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Limit is a row limit.
//
// The zero value is "unspecified": the compiler applies its default
// upper bound. Unbounded() disables pagination entirely. The two are
// never conflated; JSON null decodes to Unbounded.
type Limit struct {
	n         int
	set       bool
	unbounded bool
}

// LimitOf returns a limit of n rows. Non-positive n yields an unspecified limit.
func LimitOf(n int) Limit {
	if n <= 0 {
		return Limit{}
	}
	return Limit{n: n, set: true}
}

// Unbounded returns a limit that opts out of the default upper bound.
func Unbounded() Limit {
	return Limit{unbounded: true}
}

// IsZero reports whether the limit is unspecified.
func (l Limit) IsZero() bool { return !l.set && !l.unbounded }

// IsUnbounded reports whether the limit was explicitly disabled.
func (l Limit) IsUnbounded() bool { return l.unbounded }

// Value returns the explicit limit, if any.
func (l Limit) Value() (int, bool) { return l.n, l.set }

// Resolve returns the effective row bound. bounded is false only for Unbounded.
func (l Limit) Resolve(defaultLimit int) (n int, bounded bool) {
	switch {
	case l.unbounded:
		return 0, false
	case l.set:
		return l.n, true
	default:
		return defaultLimit, true
	}
}

// String returns the limit in its query form.
func (l Limit) String() string {
	switch {
	case l.unbounded:
		return "unbounded"
	case l.set:
		return strconv.Itoa(l.n)
	default:
		return "default"
	}
}

// UnmarshalJSON accepts a number, a numeric string or null.
// Anything malformed decodes as unspecified.
func (l *Limit) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = Unbounded()
		return nil
	}
	n, ok := decodeCount(data)
	if !ok {
		*l = Limit{}
		return nil
	}
	*l = LimitOf(n)
	return nil
}

// MarshalJSON encodes Unbounded as null and an unspecified limit as the
// string "default", which UnmarshalJSON reads back as unspecified.
func (l Limit) MarshalJSON() ([]byte, error) {
	switch {
	case l.set:
		return []byte(strconv.Itoa(l.n)), nil
	case l.unbounded:
		return []byte("null"), nil
	default:
		return []byte(`"default"`), nil
	}
}

// Offset is a row offset; zero means no offset.
type Offset int

// UnmarshalJSON accepts a number, a numeric string or null.
// Anything malformed or negative decodes as zero.
func (o *Offset) UnmarshalJSON(data []byte) error {
	n, ok := decodeCount(bytes.TrimSpace(data))
	if !ok || n < 0 {
		*o = 0
		return nil
	}
	*o = Offset(n)
	return nil
}

// decodeCount reads a JSON number or numeric string as an int.
func decodeCount(data []byte) (int, bool) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
