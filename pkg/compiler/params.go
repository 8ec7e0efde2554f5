package compiler

import (
	"regexp"
	"strconv"

	"github.com/leapstack-labs/leapcube/pkg/dialect"
)

// ParamAllocator collects bound values during one build.
//
// Allocate returns an opaque marker; Finalize swaps the markers for the
// dialect's placeholders in textual order and returns the values in that
// same order. A marker used twice binds its value twice. Markers are
// NUL-delimited so member SQL text never matches one.
type ParamAllocator struct {
	values []any
}

const markerDelim = "\x00"

var markerPattern = regexp.MustCompile(`\x00(\d+)\x00`)

// Allocate registers v and returns its marker.
func (p *ParamAllocator) Allocate(v any) string {
	p.values = append(p.values, v)
	return markerDelim + strconv.Itoa(len(p.values)-1) + markerDelim
}

// Len returns the number of allocated values.
func (p *ParamAllocator) Len() int { return len(p.values) }

// Finalize replaces markers in sql with placeholders.
func (p *ParamAllocator) Finalize(sql string, d dialect.Capabilities) (string, []any) {
	params := make([]any, 0, len(p.values))
	out := markerPattern.ReplaceAllStringFunc(sql, func(m string) string {
		idx, err := strconv.Atoi(m[len(markerDelim) : len(m)-len(markerDelim)])
		if err != nil || idx >= len(p.values) {
			return m
		}
		params = append(params, p.values[idx])
		return d.FormatPlaceholder(len(params))
	})
	return out, params
}

// AliasCounter hands out derived-table aliases q_0, q_1, ... for one build.
type AliasCounter struct {
	next int
}

// Next returns the next alias.
func (a *AliasCounter) Next() string {
	alias := "q_" + strconv.Itoa(a.next)
	a.next++
	return alias
}

// Count returns how many aliases were handed out.
func (a *AliasCounter) Count() int { return a.next }
