// Package tools holds the catalogue of named operations the agent can
// invoke against the accounting API, and the schema types used to advertise
// them to the model.
package tools

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages operation registration and lookup. The catalogue is
// populated once at startup and immutable afterwards.
type Registry struct {
	mu    sync.RWMutex
	ops   map[string]*Operation
	order []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		ops: make(map[string]*Operation),
	}
}

// Register adds an operation. Registering the same name twice is a
// configuration error and fails immediately.
func (r *Registry) Register(op Operation) error {
	if op.Name == "" {
		return fmt.Errorf("operation name is required")
	}
	if op.Handler == nil {
		return fmt.Errorf("operation %s has no handler", op.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ops[op.Name]; exists {
		return fmt.Errorf("operation %s already registered", op.Name)
	}

	r.ops[op.Name] = &op
	r.order = append(r.order, op.Name)
	return nil
}

// MustRegister is Register for startup wiring: a duplicate name panics,
// killing the process before it can advertise a broken catalogue.
func (r *Registry) MustRegister(op Operation) {
	if err := r.Register(op); err != nil {
		panic(err)
	}
}

// Lookup returns the operation registered under name.
func (r *Registry) Lookup(name string) (*Operation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	op, ok := r.ops[name]
	return op, ok
}

// Export returns the full catalogue in registration order, derived from the
// live registry at call time. Every registered operation appears exactly
// once; nothing is filtered.
func (r *Registry) Export() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		op := r.ops[name]
		defs = append(defs, Definition{
			Name:        op.Name,
			Description: op.Description,
			Schema:      op.Schema,
		})
	}
	return defs
}

// Names returns the sorted names of all registered operations.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered operations.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ops)
}
