package operations

import (
	"fmt"
	"slices"
	"sync"
)

// Registry holds the steps of a run in the order they were registered, which
// is also the order they execute in.
type Registry struct {
	mu    sync.RWMutex
	byID  map[string]Step
	steps []Step
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Step)}
}

// Register appends step to the run order. IDs must be unique and non-empty.
func (r *Registry) Register(step Step) error {
	if step == nil {
		return NewValidationError("", "cannot register a nil step")
	}
	id := step.ID()
	if id == "" {
		return NewValidationError("", "step id is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.byID[id]; dup {
		return NewValidationError(id, "step already registered")
	}
	r.byID[id] = step
	r.steps = append(r.steps, step)
	return nil
}

// Unregister removes the step with id
func (r *Registry) Unregister(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("step %q not registered", id)
	}
	delete(r.byID, id)
	r.steps = slices.DeleteFunc(r.steps, func(s Step) bool { return s.ID() == id })
	return nil
}

// Get looks up a step by id
func (r *Registry) Get(id string) (Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	step, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("step %q not registered", id)
	}
	return step, nil
}

// Has reports whether id is registered
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[id]
	return ok
}

// List returns the steps in run order
func (r *Registry) List() []Step {
	r.mu.RLock()
	defer r.mu.RUnlock()

	steps := make([]Step, len(r.steps))
	copy(steps, r.steps)
	return steps
}

// ListIDs returns the step ids in run order
func (r *Registry) ListIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.steps))
	for i, s := range r.steps {
		ids[i] = s.ID()
	}
	return ids
}

// Count returns the number of registered steps
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.steps)
}

// ColumnDependents maps every column some step requires to the ids of the
// steps requiring it, in run order.
func (r *Registry) ColumnDependents() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	deps := make(map[string][]string)
	for _, s := range r.steps {
		for _, col := range s.RequiredColumns() {
			deps[col] = append(deps[col], s.ID())
		}
	}
	return deps
}
