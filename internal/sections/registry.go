// Package sections tracks the independently exportable regions of a rendered
// report and temporarily hides the ones excluded from an export.
package sections

import (
	"context"
	"errors"
	"sync"
)

// ErrSectionMissing is returned by a Region whose rendered node is no longer
// in a still-live document.
var ErrSectionMissing = errors.New("section element missing")

// Region is a rendered content node that can be shown or hidden.
type Region interface {
	// Hidden reports whether the region is currently hidden, for any reason.
	Hidden(ctx context.Context) (bool, error)
	// SetHidden hides or shows the region.
	SetHidden(ctx context.Context, hidden bool) error
}

// Entry pairs a section id with its region.
type Entry struct {
	ID     string
	Region Region
}

// Registry maps stable section ids to rendered regions.
// The owning view keeps it in sync; exports only borrow it.
// Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	regions map[string]Region
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{regions: make(map[string]Region)}
}

// Register adds a region under id. Registering an existing id replaces the
// previous region and keeps its position.
func (r *Registry) Register(id string, region Region) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.regions[id]; !ok {
		r.order = append(r.order, id)
	}
	r.regions[id] = region
}

// Unregister removes id. Unknown ids are ignored.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.regions[id]; !ok {
		return
	}
	delete(r.regions, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Lookup returns the region registered under id.
func (r *Registry) Lookup(id string) (Region, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	region, ok := r.regions[id]
	return region, ok
}

// IDs returns every registered id in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}

// Len returns the number of registered sections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// Snapshot returns the current entries in registration order.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, len(r.order))
	for i, id := range r.order {
		entries[i] = Entry{ID: id, Region: r.regions[id]}
	}
	return entries
}
