package compose

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrTypeRegistered indicates a Registry already holds the given name.
var ErrTypeRegistered = errors.New("compose: type already registered")

// Registry indexes type descriptors by name so tooling can look up component
// and feature hierarchies without holding pointers to every *Type. Purely
// optional: the resolver works on bare descriptors.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*Type
}

// NewRegistry constructs an empty type registry.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]*Type),
	}
}

// Register stores t under its declared name, guarding against duplicates.
func (r *Registry) Register(t *Type) error {
	if t == nil {
		return fmt.Errorf("compose: type is nil")
	}
	if t.Name() == "" {
		return fmt.Errorf("compose: type name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.types == nil {
		r.types = make(map[string]*Type)
	}
	if _, exists := r.types[t.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrTypeRegistered, t.Name())
	}
	r.types[t.Name()] = t
	return nil
}

// Lookup returns the type registered under name.
func (r *Registry) Lookup(name string) (*Type, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Names returns registered type names sorted alphabetically.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
