package layout

import "github.com/louisbranch/seedshift/internal/variation/seed"

// DefaultMapping selects catalog positions for seeds. Seed 3 is pinned to the
// canonical entry.
func DefaultMapping() seed.Mapping {
	return seed.Mapping{
		Bucket:    seed.DefaultBucket,
		Overrides: map[int]int{3: 1},
	}
}

// Registry selects layout variants by seed.
type Registry struct {
	entries []Variant
	mapping seed.Mapping
}

// NewRegistry returns a registry over the fixed catalog using mapping.
func NewRegistry(mapping seed.Mapping) *Registry {
	return &Registry{entries: Catalog(), mapping: mapping}
}

// DefaultRegistry returns a registry using DefaultMapping.
func DefaultRegistry() *Registry {
	return NewRegistry(DefaultMapping())
}

// Index returns the 1-based catalog position chosen for s.
func (r *Registry) Index(s int, enabled bool) int {
	if !enabled {
		return 1
	}
	return r.mapping.Index(s, len(r.entries))
}

// Get returns the layout for seed s. Disabled lookups always return the
// canonical entry. Adjustable entries are specialized for s; the registry's
// own entries are never modified.
func (r *Registry) Get(s int, enabled bool) Variant {
	v := r.entries[r.Index(s, enabled)-1].clone()
	if !enabled || !v.Adjustable {
		return v
	}
	return Specialize(v, s)
}

// Catalog returns copies of the registry's entries.
func (r *Registry) Catalog() []Variant {
	out := make([]Variant, 0, len(r.entries))
	for _, v := range r.entries {
		out = append(out, v.clone())
	}
	return out
}

// Specialize rotates the sidebar placement of an adjustable variant using
// seed mod 5 and recomputes the dependent fields. Fixed-placement variants are
// returned unchanged. The input is not modified.
func Specialize(v Variant, s int) Variant {
	out := v.clone()
	if !out.Adjustable {
		return out
	}
	n := len(Placements)
	i := s % n
	if i < 0 {
		i += n
	}
	return arrange(out, Placements[i])
}
