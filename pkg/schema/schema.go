// Package schema describes the cube model the compiler resolves against.
//
// The compiler depends only on the Evaluator and JoinGraph interfaces.
// Model is a static implementation of both, loaded from YAML.
package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// MemberKind distinguishes dimensions from measures.
type MemberKind int

const (
	// KindDimension is a grouping attribute.
	KindDimension MemberKind = iota
	// KindMeasure is an aggregate.
	KindMeasure
)

// String returns the string representation of MemberKind.
func (k MemberKind) String() string {
	if k == KindMeasure {
		return "measure"
	}
	return "dimension"
}

// Dimension types.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeTime    = "time"
	TypeDate    = "date"
)

// Measure aggregation types.
const (
	AggCount         = "count"
	AggCountDistinct = "countDistinct"
	AggSum           = "sum"
	AggAvg           = "avg"
	AggMin           = "min"
	AggMax           = "max"
	AggNumber        = "number"
)

// Member is a resolved dimension or measure.
type Member struct {
	Ref  string // cube.member
	Cube string
	Name string
	Kind MemberKind

	// SQL may reference cubes as {CUBE} (the owning cube) or {name}.
	SQL        string
	Type       string
	PrimaryKey bool

	// Alias overrides the generated column alias.
	Alias string

	RollingWindow *RollingWindow
}

// IsMeasure reports whether the member is a measure.
func (m Member) IsMeasure() bool { return m.Kind == KindMeasure }

// IsTime reports whether the member holds timestamps or dates.
func (m Member) IsTime() bool { return m.Type == TypeTime || m.Type == TypeDate }

// RollingWindow bounds a measure to a window around each time bucket.
// Trailing and Leading are interval expressions or "unbounded". An omitted
// size puts that bound at the anchor, so a leading-only window starts at
// the anchor and a trailing-only window ends there.
type RollingWindow struct {
	Trailing string `yaml:"trailing"`
	Leading  string `yaml:"leading"`
	// Offset anchors the window at the bucket "start" or "end" (default).
	Offset string `yaml:"offset"`
}

// Unbounded is the rolling window size that disables a bound.
const Unbounded = "unbounded"

// Evaluator resolves member references.
type Evaluator interface {
	Resolve(ref string) (Member, error)
	Cube(name string) (Cube, error)
}

// JoinGraph computes join paths between cubes.
type JoinGraph interface {
	PathFor(cubes []string) (JoinPath, error)
}

// JoinStep joins To onto the cubes already in the path.
type JoinStep struct {
	From string
	To   string
	// Owner declared the join; {CUBE} in SQL refers to it.
	Owner        string
	Relationship string
	SQL          string
}

// JoinPath is the root cube plus ordered join steps.
type JoinPath struct {
	Root  string
	Steps []JoinStep
}

// Cubes returns every cube in the path, root first.
func (p JoinPath) Cubes() []string {
	out := []string{p.Root}
	for _, s := range p.Steps {
		out = append(out, s.To)
	}
	return out
}

// SplitRef splits "cube.member" into its parts.
func SplitRef(ref string) (cube, member string, err error) {
	cube, member, ok := strings.Cut(ref, ".")
	if !ok || cube == "" || member == "" {
		return "", "", fmt.Errorf("invalid member reference %q: expected cube.member", ref)
	}
	return cube, member, nil
}

var cubeRef = regexp.MustCompile(`\{(\w+)\}`)

// Expand substitutes cube references in sql. {CUBE} resolves to owner.
func Expand(sql, owner string, alias func(cube string) string) string {
	return cubeRef.ReplaceAllStringFunc(sql, func(m string) string {
		name := m[1 : len(m)-1]
		if name == "CUBE" {
			name = owner
		}
		return alias(name)
	})
}
