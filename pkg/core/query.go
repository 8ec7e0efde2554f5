package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Query is the abstract analytical query compiled into SQL.
type Query struct {
	// RequestID identifies the query in logs. Optional.
	RequestID string `json:"requestId,omitempty"`

	Measures       []string        `json:"measures,omitempty"`
	Dimensions     []string        `json:"dimensions,omitempty"`
	TimeDimensions []TimeDimension `json:"timeDimensions,omitempty"`
	Filters        []Filter        `json:"filters,omitempty"`
	Order          Order           `json:"order,omitempty"`

	// Limit distinguishes "unspecified" (zero value) from "unbounded" (JSON null).
	Limit  Limit  `json:"limit,omitzero"`
	Offset Offset `json:"offset,omitempty"`

	// Timezone is an IANA zone id. Empty means the compiler default.
	Timezone string `json:"timezone,omitempty"`
}

// TimeDimension references a time-typed dimension.
type TimeDimension struct {
	Dimension   string      `json:"dimension"`
	Granularity Granularity `json:"granularity,omitempty"`
	DateRange   *DateRange  `json:"dateRange,omitempty"`
}

// DateRange is an inclusive [start, end] pair of dates or timestamps.
type DateRange [2]string

// Start returns the first endpoint.
func (r DateRange) Start() string { return r[0] }

// End returns the second endpoint.
func (r DateRange) End() string { return r[1] }

// FilterOperator names a filter predicate.
type FilterOperator string

// Filter operators.
const (
	OpEquals         FilterOperator = "equals"
	OpNotEquals      FilterOperator = "notEquals"
	OpContains       FilterOperator = "contains"
	OpNotContains    FilterOperator = "notContains"
	OpStartsWith     FilterOperator = "startsWith"
	OpNotStartsWith  FilterOperator = "notStartsWith"
	OpEndsWith       FilterOperator = "endsWith"
	OpNotEndsWith    FilterOperator = "notEndsWith"
	OpGt             FilterOperator = "gt"
	OpGte            FilterOperator = "gte"
	OpLt             FilterOperator = "lt"
	OpLte            FilterOperator = "lte"
	OpSet            FilterOperator = "set"
	OpNotSet         FilterOperator = "notSet"
	OpInDateRange    FilterOperator = "inDateRange"
	OpNotInDateRange FilterOperator = "notInDateRange"
	OpBeforeDate     FilterOperator = "beforeDate"
	OpBeforeOrOnDate FilterOperator = "beforeOrOnDate"
	OpAfterDate      FilterOperator = "afterDate"
	OpAfterOrOnDate  FilterOperator = "afterOrOnDate"
)

// Operators lists every known filter operator.
var Operators = []FilterOperator{
	OpEquals, OpNotEquals,
	OpContains, OpNotContains,
	OpStartsWith, OpNotStartsWith,
	OpEndsWith, OpNotEndsWith,
	OpGt, OpGte, OpLt, OpLte,
	OpSet, OpNotSet,
	OpInDateRange, OpNotInDateRange,
	OpBeforeDate, OpBeforeOrOnDate,
	OpAfterDate, OpAfterOrOnDate,
}

// Known reports whether op is a recognized operator.
func (op FilterOperator) Known() bool {
	for _, o := range Operators {
		if op == o {
			return true
		}
	}
	return false
}

// Filter is one node of a filter tree: either a member predicate
// or a boolean group (And / Or).
type Filter struct {
	Member   string         `json:"member,omitempty"`
	Operator FilterOperator `json:"operator,omitempty"`
	Values   []string       `json:"values,omitempty"`

	And []Filter `json:"and,omitempty"`
	Or  []Filter `json:"or,omitempty"`
}

// IsGroup reports whether the filter is a boolean group.
func (f Filter) IsGroup() bool {
	return len(f.And) > 0 || len(f.Or) > 0
}

// OrderMember is one ORDER BY entry.
type OrderMember struct {
	Member string
	Desc   bool
}

// Order is an ordered list of ORDER BY entries. It decodes from either an
// array of [member, direction] pairs or an object; object key order is kept.
type Order []OrderMember

// UnmarshalJSON implements json.Unmarshaler.
func (o *Order) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*o = nil
		return nil
	}

	switch data[0] {
	case '[':
		var pairs [][2]string
		if err := json.Unmarshal(data, &pairs); err != nil {
			return fmt.Errorf("order: %w", err)
		}
		out := make(Order, 0, len(pairs))
		for _, p := range pairs {
			desc, err := parseDirection(p[1])
			if err != nil {
				return err
			}
			out = append(out, OrderMember{Member: p[0], Desc: desc})
		}
		*o = out
		return nil
	case '{':
		dec := json.NewDecoder(bytes.NewReader(data))
		if _, err := dec.Token(); err != nil {
			return fmt.Errorf("order: %w", err)
		}
		var out Order
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return fmt.Errorf("order: %w", err)
			}
			var dir string
			if err := dec.Decode(&dir); err != nil {
				return fmt.Errorf("order: %w", err)
			}
			desc, err := parseDirection(dir)
			if err != nil {
				return err
			}
			out = append(out, OrderMember{Member: keyTok.(string), Desc: desc})
		}
		*o = out
		return nil
	default:
		return fmt.Errorf("order: expected array or object, got %s", data)
	}
}

// MarshalJSON encodes the order as an array of pairs.
func (o Order) MarshalJSON() ([]byte, error) {
	pairs := make([][2]string, 0, len(o))
	for _, m := range o {
		dir := "asc"
		if m.Desc {
			dir = "desc"
		}
		pairs = append(pairs, [2]string{m.Member, dir})
	}
	return json.Marshal(pairs)
}

func parseDirection(dir string) (bool, error) {
	switch strings.ToLower(dir) {
	case "", "asc":
		return false, nil
	case "desc":
		return true, nil
	default:
		return false, fmt.Errorf("order: unknown direction %q", dir)
	}
}
