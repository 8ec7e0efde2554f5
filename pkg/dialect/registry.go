package dialect

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Factory constructs a dialect for the given options.
type Factory func(opts Options) Capabilities

// Dialect registry
var (
	dialectsMu sync.RWMutex
	factories  = make(map[string]Factory)
)

// ErrDialectRequired is returned when a dialect is required but not provided.
var ErrDialectRequired = errors.New("dialect is required")

// UnknownDialectError is returned when a dialect name is not registered.
type UnknownDialectError struct {
	Name      string
	Available []string
}

func (e *UnknownDialectError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("unknown dialect %q (no dialects registered)", e.Name)
	}
	return fmt.Sprintf("unknown dialect %q, available: %s", e.Name, strings.Join(e.Available, ", "))
}

// Register registers a dialect factory in the global registry.
// Called by dialect implementations in their init() functions.
func Register(name string, f Factory) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	factories[strings.ToLower(name)] = f
}

// Open constructs the named dialect. Options are resolved once here;
// the returned Capabilities never changes afterwards.
func Open(name string, opts Options) (Capabilities, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrDialectRequired
	}

	dialectsMu.RLock()
	f, ok := factories[strings.ToLower(name)]
	dialectsMu.RUnlock()
	if !ok {
		return nil, &UnknownDialectError{Name: name, Available: List()}
	}
	return f(opts), nil
}

// Get returns the named dialect with default options.
func Get(name string) (Capabilities, bool) {
	d, err := Open(name, Options{})
	if err != nil {
		return nil, false
	}
	return d, true
}

// IsRegistered reports whether a dialect name is known.
func IsRegistered(name string) bool {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	_, ok := factories[strings.ToLower(name)]
	return ok
}

// List returns all registered dialect names (sorted).
func List() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
