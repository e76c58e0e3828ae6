package di

import (
	"fmt"
	"sort"
)

// Registry holds the one live instance per component.
//
// It is intentionally:
// - write-once per component (an entry is never overwritten)
// - written only while the container is being built
// - read-only afterwards, so concurrent lookups need no locking
type Registry struct {
	items map[TypeID]any
	order []TypeID
}

// NewRegistry returns an empty registry sized for n components.
func NewRegistry(n int) *Registry {
	return &Registry{items: make(map[TypeID]any, n), order: make([]TypeID, 0, n)}
}

// put stores the instance for id. It refuses to replace an existing entry.
func (r *Registry) put(id TypeID, instance any) error {
	if _, exists := r.items[id]; exists {
		return &DescriptorError{Component: id, Reason: "instance already registered", Err: ErrDuplicateComponent}
	}
	r.items[id] = instance
	r.order = append(r.order, id)
	return nil
}

// Get returns the instance for id if present.
func (r *Registry) Get(id TypeID) (any, bool) {
	v, ok := r.items[id]
	return v, ok
}

// Has reports whether an instance exists for id.
func (r *Registry) Has(id TypeID) bool {
	_, ok := r.items[id]
	return ok
}

// MustGet returns the instance or panics with a helpful message.
// Useful in tests and composition roots where a missing component is a bug.
func (r *Registry) MustGet(id TypeID) any {
	v, ok := r.items[id]
	if !ok {
		panic(fmt.Errorf("di: registry missing component %q", id))
	}
	return v
}

// Len returns the number of registered instances.
func (r *Registry) Len() int { return len(r.items) }

// IDs returns the registered identities in registration order.
func (r *Registry) IDs() []TypeID {
	out := make([]TypeID, len(r.order))
	copy(out, r.order)
	return out
}

// Names returns the registered identities as sorted strings.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, string(id))
	}
	sort.Strings(out)
	return out
}
