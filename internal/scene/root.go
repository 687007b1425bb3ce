package scene

import "sync"

// Root is a scene-graph attachment point. Attach and Detach are
// idempotent so independent reconcilers can drive a shared root without
// coordination: a redundant call is a no-op, never corruption.
type Root struct {
	name string

	mu      sync.Mutex
	members map[*Entity]struct{}
}

// NewRoot creates an empty attachment root.
func NewRoot(name string) *Root {
	return &Root{
		name:    name,
		members: make(map[*Entity]struct{}),
	}
}

// Name returns the root's name.
func (r *Root) Name() string {
	return r.name
}

// Attach adds an entity to the root. Attaching an attached entity is a
// no-op.
func (r *Root) Attach(e *Entity) {
	r.mu.Lock()
	r.members[e] = struct{}{}
	r.mu.Unlock()
}

// Detach removes an entity from the root. The entity is retained by its
// registry and may be reattached later. Detaching a detached entity is
// a no-op.
func (r *Root) Detach(e *Entity) {
	r.mu.Lock()
	delete(r.members, e)
	r.mu.Unlock()
}

// Contains reports whether the entity is currently attached.
func (r *Root) Contains(e *Entity) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.members[e]
	return ok
}

// Len returns the number of attached entities.
func (r *Root) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

// Snapshot copies the state of every attached entity. The viewer calls
// this once per frame; order is unspecified.
func (r *Root) Snapshot() []State {
	r.mu.Lock()
	entities := make([]*Entity, 0, len(r.members))
	for e := range r.members {
		entities = append(entities, e)
	}
	r.mu.Unlock()

	states := make([]State, len(entities))
	for i, e := range entities {
		states[i] = e.snapshot()
	}
	return states
}
