// Package registry maps component type names to constructor functions.
// Component packages register their factories at process startup (package
// init); setup code queries the registry once when assembling a pipeline.
// Looking up an unregistered name is an explicit error, never a nil value.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownType is returned when no factory is registered under a name.
var ErrUnknownType = errors.New("registry: unknown type")

// Factory constructs a component from its configuration properties.
type Factory[T any] func(props map[string]string) (T, error)

// Registry holds the named factories for one kind of component.
type Registry[T any] struct {
	kind      string
	mu        sync.RWMutex
	factories map[string]Factory[T]
}

// New creates an empty registry. The kind string only appears in error
// messages ("integrator", "camera", ...).
func New[T any](kind string) *Registry[T] {
	return &Registry[T]{
		kind:      kind,
		factories: make(map[string]Factory[T]),
	}
}

// Register adds a factory under the given name, replacing any previous one.
func (r *Registry[T]) Register(name string, f Factory[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Create instantiates the component registered under name.
func (r *Registry[T]) Create(name string, props map[string]string) (T, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: no %s named %q", ErrUnknownType, r.kind, name)
	}
	return f(props)
}

// Names returns the registered type names in sorted order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
