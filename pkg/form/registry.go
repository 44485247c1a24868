package form

import (
	"fmt"
	"sort"
	"sync"
)

// Registry tracks live form instances by id. There is no process-wide
// registry; hosts that need lookup construct one explicitly.
type Registry struct {
	mu    sync.RWMutex
	forms map[string]*Form
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{forms: make(map[string]*Form)}
}

// Add registers an instance under its id.
func (r *Registry) Add(f *Form) error {
	if f == nil {
		return fmt.Errorf("form: instance is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.forms[f.ID()]; exists {
		return fmt.Errorf("form: duplicate instance %q", f.ID())
	}
	r.forms[f.ID()] = f
	return nil
}

// Get returns the instance with the given id.
func (r *Registry) Get(id string) (*Form, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.forms[id]
	return f, ok
}

// Remove drops an instance. Removing an unknown id is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.forms, id)
}

// IDs returns the registered instance ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.forms))
	for id := range r.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
