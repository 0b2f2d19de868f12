package directive

import (
	"fmt"
	"sort"
	"sync"

	"kbind/internal/dom"
)

// Scope is an opaque value threaded to directive constructors. nil means no scope.
type Scope = any

// Factory constructs one directive instance bound to node. The compiler keeps
// no reference to what it builds; the instance owns its own lifecycle.
type Factory[V any] func(vm V, node dom.NodeID, scope Scope, expression string, params []string)

// Registry maps directive names to factories. The text factory is mandatory
// because every interpolated text node is bound through it.
type Registry[V any] struct {
	mu        sync.RWMutex
	text      Factory[V]
	factories map[string]Factory[V]
}

// NewRegistry creates a registry whose text directive is text.
func NewRegistry[V any](text Factory[V]) *Registry[V] {
	if text == nil {
		panic("directive: text factory is required")
	}
	return &Registry[V]{
		text:      text,
		factories: map[string]Factory[V]{NameText: text},
	}
}

// Register binds name to f, replacing any previous binding. Registering under
// NameText also replaces the text factory.
func (r *Registry[V]) Register(name string, f Factory[V]) error {
	if f == nil {
		return fmt.Errorf("directive %q: nil factory", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
	if name == NameText {
		r.text = f
	}
	return nil
}

// Lookup returns the factory bound to name.
func (r *Registry[V]) Lookup(name string) (Factory[V], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Has reports whether name is bound.
func (r *Registry[V]) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Text returns the text directive factory.
func (r *Registry[V]) Text() Factory[V] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.text
}

// Names returns all bound names, sorted.
func (r *Registry[V]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of bound names.
func (r *Registry[V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.factories)
}
