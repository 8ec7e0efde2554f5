package schema

import "fmt"

// UnknownMemberError is returned when a member reference does not resolve.
type UnknownMemberError struct {
	Ref string
}

func (e *UnknownMemberError) Error() string {
	return fmt.Sprintf("unknown member %q", e.Ref)
}

// UnknownCubeError is returned when a cube name does not resolve.
type UnknownCubeError struct {
	Name string
}

func (e *UnknownCubeError) Error() string {
	return fmt.Sprintf("unknown cube %q", e.Name)
}

// NoJoinPathError is returned when two cubes are not connected.
type NoJoinPathError struct {
	From string
	To   string
}

func (e *NoJoinPathError) Error() string {
	return fmt.Sprintf("no join path from cube %q to cube %q", e.From, e.To)
}

// ValidationError reports an invalid model definition.
type ValidationError struct {
	Cube    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("cube %q: %s", e.Cube, e.Message)
	}
	return fmt.Sprintf("cube %q: %s: %s", e.Cube, e.Field, e.Message)
}
