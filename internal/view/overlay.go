package view

import "sync"

// Entity is anything with a stable string identity.
type Entity interface {
	EntityID() string
}

// Overlay keeps tentative local mutations on top of an authoritative snapshot,
// the merge discipline the dashboards use for optimistic updates. A tentative
// entry shadows the authoritative one with the same id until Confirm replaces
// it wholesale; entries are never merged field by field, so a slow response
// can never resurrect a stale partial write.
type Overlay[T Entity] struct {
	mu            sync.Mutex
	authoritative []T
	tentative     map[string]T
	order         []string
}

func NewOverlay[T Entity]() *Overlay[T] {
	return &Overlay[T]{tentative: make(map[string]T)}
}

// SetAuthoritative replaces the confirmed snapshot, keeping tentative entries.
func (o *Overlay[T]) SetAuthoritative(items []T) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.authoritative = items
}

// Stage records a tentative entry. An id not present in the snapshot is
// treated as a new record and surfaces first in the merged view.
func (o *Overlay[T]) Stage(item T) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := item.EntityID()
	if _, exists := o.tentative[id]; !exists {
		o.order = append(o.order, id)
	}
	o.tentative[id] = item
}

// Confirm installs the authoritative version of an entity and drops any
// tentative entry with the same id.
func (o *Overlay[T]) Confirm(item T) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := item.EntityID()
	o.dropTentative(id)

	for i, existing := range o.authoritative {
		if existing.EntityID() == id {
			o.authoritative[i] = item
			return
		}
	}
	o.authoritative = append([]T{item}, o.authoritative...)
}

// Discard drops a tentative entry after a failed mutation, restoring the
// authoritative view of that entity.
func (o *Overlay[T]) Discard(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dropTentative(id)
}

func (o *Overlay[T]) dropTentative(id string) {
	if _, exists := o.tentative[id]; !exists {
		return
	}
	delete(o.tentative, id)
	for i, existing := range o.order {
		if existing == id {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
}

// Snapshot returns the merged view: tentative entries win by id, and tentative
// entries unknown to the snapshot are prepended most-recent-first.
func (o *Overlay[T]) Snapshot() []T {
	o.mu.Lock()
	defer o.mu.Unlock()

	known := make(map[string]bool, len(o.authoritative))
	merged := make([]T, 0, len(o.authoritative)+len(o.order))

	for _, item := range o.authoritative {
		id := item.EntityID()
		known[id] = true
		if shadow, ok := o.tentative[id]; ok {
			merged = append(merged, shadow)
		} else {
			merged = append(merged, item)
		}
	}

	for i := len(o.order) - 1; i >= 0; i-- {
		id := o.order[i]
		if !known[id] {
			merged = append([]T{o.tentative[id]}, merged...)
		}
	}

	return merged
}
