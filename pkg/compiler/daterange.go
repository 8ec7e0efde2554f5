package compiler

import (
	"fmt"
	"strings"
	"time"
)

const paramTimeLayout = "2006-01-02T15:04:05.000Z"

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
}

// rangeStart normalizes a range start to a UTC instant. A bare date is the
// first millisecond of that day in loc.
func rangeStart(value string, loc *time.Location) (string, error) {
	t, _, err := parseInstant(value, loc)
	if err != nil {
		return "", err
	}
	return t.UTC().Format(paramTimeLayout), nil
}

// rangeEnd normalizes a range end to a UTC instant. A bare date is the
// last millisecond of that day in loc.
func rangeEnd(value string, loc *time.Location) (string, error) {
	t, dateOnly, err := parseInstant(value, loc)
	if err != nil {
		return "", err
	}
	if dateOnly {
		t = t.AddDate(0, 0, 1).Add(-time.Millisecond)
	}
	return t.UTC().Format(paramTimeLayout), nil
}

func parseInstant(value string, loc *time.Location) (time.Time, bool, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, false, fmt.Errorf("%w: empty endpoint", ErrInvalidDateRange)
	}
	if t, err := time.ParseInLocation(time.DateOnly, v, loc); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t, false, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, false, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("%w: cannot parse %q", ErrInvalidDateRange, value)
}
