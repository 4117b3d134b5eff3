package constraint

import (
	"sort"
	"sync"

	"mercator-hq/vesta/pkg/credential"
)

// FactoryFunc builds a constraint instance from stored parameters. It must
// reject malformed parameters with a *credential.ConfigError rather than
// deferring the problem to evaluation time.
type FactoryFunc func(params map[string]any) (credential.Constraint, error)

// Registry maps constraint identifiers to factory functions. It implements
// credential.Factory.
//
// Register all constraints at process startup; concurrent Create calls are
// safe at any point.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FactoryFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FactoryFunc),
	}
}

// Register adds a factory under the given id. Registering an id twice
// replaces the previous factory.
func (r *Registry) Register(id string, factory FactoryFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[id] = factory
}

// Create instantiates the constraint registered under id with the given
// parameters. An unregistered id fails with *credential.UnknownConstraintError.
func (r *Registry) Create(id string, params map[string]any) (credential.Constraint, error) {
	r.mu.RLock()
	factory, ok := r.factories[id]
	r.mu.RUnlock()

	if !ok {
		return nil, &credential.UnknownConstraintError{ID: id}
	}
	return factory(params)
}

// IDs returns the registered constraint identifiers, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Has reports whether an id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[id]
	return ok
}
