package index

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotFound reports a registry lookup for an identifier that was never
// registered. A missing child reference means the upstream document set
// is inconsistent; callers treat it as fatal for the current tour.
var ErrNotFound = errors.New("entry not found")

// Registry is the build-lifetime table of documented entities. It is
// owned by the build driver and mutated by one document collection at a
// time; it carries no locking of its own.
type Registry struct {
	entries  map[string]Entry
	topLevel []Section
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Purge removes every entry and top-level record owned by doc. It must
// run before re-collecting that document so an edit never leaves stale
// entries from the previous version.
func (r *Registry) Purge(doc string) {
	for id, e := range r.entries {
		if e.Doc == doc {
			delete(r.entries, id)
		}
	}
	kept := r.topLevel[:0]
	for _, s := range r.topLevel {
		if s.Doc != doc {
			kept = append(kept, s)
		}
	}
	r.topLevel = kept
}

// Put registers an entry under id, overwriting unconditionally.
// Identifiers are unique by construction upstream.
func (r *Registry) Put(id string, e Entry) {
	r.entries[id] = e
}

// Get returns the entry registered under id.
func (r *Registry) Get(id string) (Entry, error) {
	e, ok := r.entries[id]
	if !ok {
		return Entry{}, fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	return e, nil
}

// AddSection appends a top-level record. Order is first-encounter order
// across all documents in the build.
func (r *Registry) AddSection(s Section) {
	r.topLevel = append(r.topLevel, s)
}

// TopLevel returns a copy of the top-level records in order.
func (r *Registry) TopLevel() []Section {
	out := make([]Section, len(r.topLevel))
	copy(out, r.topLevel)
	return out
}

// SectionsFor returns the top-level records owned by doc, in order.
func (r *Registry) SectionsFor(doc string) []Section {
	var out []Section
	for _, s := range r.topLevel {
		if s.Doc == doc {
			out = append(out, s)
		}
	}
	return out
}

// Pages returns the distinct owning documents of the top-level records,
// in first-encounter order.
func (r *Registry) Pages() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range r.topLevel {
		if !seen[s.Doc] {
			seen[s.Doc] = true
			out = append(out, s.Doc)
		}
	}
	return out
}

// EntriesFor returns doc's entries sorted by identifier. The map holds
// no insertion order; sorting keeps the result deterministic for
// callers that persist it.
func (r *Registry) EntriesFor(doc string) []Entry {
	var out []Entry
	for _, e := range r.entries {
		if e.Doc == doc {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RefID < out[j].RefID })
	return out
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	return len(r.entries)
}
