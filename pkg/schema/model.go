package schema

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapcube/pkg/interval"
)

// Cube is a logical table: a SQL source plus its members and joins.
type Cube struct {
	Name     string `yaml:"name"`
	SQLTable string `yaml:"sql_table"`
	SQL      string `yaml:"sql"`
	// Alias overrides the generated table alias.
	Alias string `yaml:"sql_alias"`

	Dimensions []Dimension `yaml:"dimensions"`
	Measures   []Measure   `yaml:"measures"`
	Joins      []Join      `yaml:"joins"`
}

// Source returns the FROM source of the cube, a table name or a parenthesized query.
func (c Cube) Source() string {
	if c.SQLTable != "" {
		return c.SQLTable
	}
	return "(" + strings.TrimSpace(c.SQL) + ")"
}

// Dimension is a cube dimension definition.
type Dimension struct {
	Name       string `yaml:"name"`
	SQL        string `yaml:"sql"`
	Type       string `yaml:"type"`
	PrimaryKey bool   `yaml:"primary_key"`
	Alias      string `yaml:"sql_alias"`
}

// Measure is a cube measure definition.
type Measure struct {
	Name          string         `yaml:"name"`
	SQL           string         `yaml:"sql"`
	Type          string         `yaml:"type"`
	Alias         string         `yaml:"sql_alias"`
	RollingWindow *RollingWindow `yaml:"rolling_window"`
}

// Join connects the declaring cube to the cube Name.
type Join struct {
	Name         string `yaml:"name"`
	Relationship string `yaml:"relationship"` // many_to_one, one_to_many, one_to_one
	SQL          string `yaml:"sql"`
}

// Model is a static, read-only cube model implementing Evaluator and JoinGraph.
type Model struct {
	cubes map[string]Cube
	order []string
	graph *joinGraph
}

var (
	_ Evaluator = (*Model)(nil)
	_ JoinGraph = (*Model)(nil)
)

type modelFile struct {
	Cubes []Cube `yaml:"cubes"`
}

// LoadModel reads a YAML model. Unknown fields are rejected.
func LoadModel(r io.Reader) (*Model, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f modelFile
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("invalid model YAML: %w", err)
	}
	return NewModel(f.Cubes...)
}

// LoadModelFile reads a YAML model from path.
func LoadModelFile(path string) (*Model, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from user configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open model: %w", err)
	}
	defer func() { _ = f.Close() }()

	m, err := LoadModel(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// NewModel validates cubes and builds their join graph.
func NewModel(cubes ...Cube) (*Model, error) {
	m := &Model{
		cubes: make(map[string]Cube, len(cubes)),
		graph: newJoinGraph(),
	}

	for _, c := range cubes {
		if c.Name == "" {
			return nil, &ValidationError{Message: "name is required"}
		}
		if _, dup := m.cubes[c.Name]; dup {
			return nil, &ValidationError{Cube: c.Name, Message: "duplicate cube"}
		}
		if err := validateCube(c); err != nil {
			return nil, err
		}
		m.cubes[c.Name] = c
		m.order = append(m.order, c.Name)
		m.graph.addNode(c.Name)
	}

	for _, name := range m.order {
		for _, j := range m.cubes[name].Joins {
			if _, ok := m.cubes[j.Name]; !ok {
				return nil, &ValidationError{Cube: name, Field: "joins." + j.Name, Message: "unknown cube"}
			}
			m.graph.addEdge(name, j)
		}
	}
	return m, nil
}

// Cubes returns the cube names in declaration order.
func (m *Model) Cubes() []string {
	return append([]string(nil), m.order...)
}

// Cube returns the named cube.
func (m *Model) Cube(name string) (Cube, error) {
	c, ok := m.cubes[name]
	if !ok {
		return Cube{}, &UnknownCubeError{Name: name}
	}
	return c, nil
}

// Resolve looks up a cube.member reference.
func (m *Model) Resolve(ref string) (Member, error) {
	cubeName, name, err := SplitRef(ref)
	if err != nil {
		return Member{}, err
	}
	c, ok := m.cubes[cubeName]
	if !ok {
		return Member{}, &UnknownMemberError{Ref: ref}
	}

	for _, d := range c.Dimensions {
		if d.Name == name {
			return Member{
				Ref:        ref,
				Cube:       cubeName,
				Name:       name,
				Kind:       KindDimension,
				SQL:        d.SQL,
				Type:       d.Type,
				PrimaryKey: d.PrimaryKey,
				Alias:      d.Alias,
			}, nil
		}
	}
	for _, ms := range c.Measures {
		if ms.Name == name {
			return Member{
				Ref:           ref,
				Cube:          cubeName,
				Name:          name,
				Kind:          KindMeasure,
				SQL:           ms.SQL,
				Type:          ms.Type,
				Alias:         ms.Alias,
				RollingWindow: ms.RollingWindow,
			}, nil
		}
	}
	return Member{}, &UnknownMemberError{Ref: ref}
}

// PathFor returns the join path connecting cubes, rooted at the first one.
func (m *Model) PathFor(cubes []string) (JoinPath, error) {
	if len(cubes) == 0 {
		return JoinPath{}, fmt.Errorf("join path requires at least one cube")
	}
	for _, c := range cubes {
		if _, ok := m.cubes[c]; !ok {
			return JoinPath{}, &UnknownCubeError{Name: c}
		}
	}
	return m.graph.path(cubes[0], cubes[1:])
}

var (
	dimensionTypes = map[string]bool{
		TypeString: true, TypeNumber: true, TypeBoolean: true, TypeTime: true, TypeDate: true,
	}
	measureTypes = map[string]bool{
		AggCount: true, AggCountDistinct: true, AggSum: true, AggAvg: true,
		AggMin: true, AggMax: true, AggNumber: true,
	}
	relationships = map[string]bool{
		"": true, "many_to_one": true, "one_to_many": true, "one_to_one": true,
	}
)

func validateCube(c Cube) error {
	if c.SQLTable == "" && strings.TrimSpace(c.SQL) == "" {
		return &ValidationError{Cube: c.Name, Message: "sql_table or sql is required"}
	}
	if field, ok := nulField(c); ok {
		return &ValidationError{Cube: c.Name, Field: field, Message: "sql contains a NUL byte"}
	}

	seen := make(map[string]bool)
	for _, d := range c.Dimensions {
		field := "dimensions." + d.Name
		if d.Name == "" || seen[d.Name] {
			return &ValidationError{Cube: c.Name, Field: field, Message: "missing or duplicate name"}
		}
		seen[d.Name] = true
		if d.SQL == "" {
			return &ValidationError{Cube: c.Name, Field: field, Message: "sql is required"}
		}
		if !dimensionTypes[d.Type] {
			return &ValidationError{Cube: c.Name, Field: field, Message: fmt.Sprintf("unknown type %q", d.Type)}
		}
	}

	for _, ms := range c.Measures {
		field := "measures." + ms.Name
		if ms.Name == "" || seen[ms.Name] {
			return &ValidationError{Cube: c.Name, Field: field, Message: "missing or duplicate name"}
		}
		seen[ms.Name] = true
		if !measureTypes[ms.Type] {
			return &ValidationError{Cube: c.Name, Field: field, Message: fmt.Sprintf("unknown type %q", ms.Type)}
		}
		if ms.SQL == "" && ms.Type != AggCount {
			return &ValidationError{Cube: c.Name, Field: field, Message: "sql is required"}
		}
		if ms.RollingWindow != nil {
			if err := validateWindow(ms.RollingWindow); err != nil {
				return &ValidationError{Cube: c.Name, Field: field + ".rolling_window", Message: err.Error()}
			}
		}
	}

	for _, j := range c.Joins {
		if j.SQL == "" {
			return &ValidationError{Cube: c.Name, Field: "joins." + j.Name, Message: "sql is required"}
		}
		if !relationships[j.Relationship] {
			return &ValidationError{Cube: c.Name, Field: "joins." + j.Name, Message: fmt.Sprintf("unknown relationship %q", j.Relationship)}
		}
	}
	return nil
}

// nulField returns the first field whose SQL holds a NUL byte. The
// compiler reserves NUL for its parameter markers.
func nulField(c Cube) (string, bool) {
	if strings.ContainsRune(c.SQLTable+c.SQL, 0) {
		return "sql", true
	}
	for _, d := range c.Dimensions {
		if strings.ContainsRune(d.SQL, 0) {
			return "dimensions." + d.Name, true
		}
	}
	for _, ms := range c.Measures {
		if strings.ContainsRune(ms.SQL, 0) {
			return "measures." + ms.Name, true
		}
	}
	for _, j := range c.Joins {
		if strings.ContainsRune(j.SQL, 0) {
			return "joins." + j.Name, true
		}
	}
	return "", false
}

func validateWindow(w *RollingWindow) error {
	if w.Trailing == "" && w.Leading == "" {
		return fmt.Errorf("trailing or leading is required")
	}
	for _, size := range []string{w.Trailing, w.Leading} {
		if size == "" || size == Unbounded {
			continue
		}
		if _, err := interval.Parse(size); err != nil {
			return err
		}
	}
	switch w.Offset {
	case "", "start", "end":
		return nil
	default:
		return fmt.Errorf("offset must be start or end, got %q", w.Offset)
	}
}
