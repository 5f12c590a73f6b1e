package graph

import "github.com/google/btree"

// relationType is one entry of the global type registry: the largest
// incoming-set size currently achieved under this type, and the set of
// destination entities tied at that size.
//
// Invariant while the entry exists: max > 0, top is non-empty, and every
// member of top has an incoming set under this type of exactly max
// elements.
type relationType struct {
	name string
	max  int
	top  *EntitySet
}

func relationTypeLess(a, b *relationType) bool {
	return a.name < b.name
}

// TypeRegistry maps relation type names to their index entries, ordered by
// type name so that report traversal is alphabetic. An entry exists iff at
// least one incoming set under that type is non-empty.
//
// The workload keeps the number of live types small (low tens), but the
// registry shares the btree discipline of EntitySet rather than assuming
// it: contracts hold unchanged if a workload with many types appears.
type TypeRegistry struct {
	tree *btree.BTreeG[*relationType]
}

// NewTypeRegistry returns an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{tree: btree.NewG(btreeDegree, relationTypeLess)}
}

// ensure returns the entry for name, creating an empty one (max 0, empty
// top set) at the correct sorted position if absent.
func (r *TypeRegistry) ensure(name string) *relationType {
	if rt, ok := r.tree.Get(&relationType{name: name}); ok {
		return rt
	}
	rt := &relationType{name: name, top: NewEntitySet()}
	r.tree.ReplaceOrInsert(rt)
	return rt
}

// get returns the entry for name, or nil.
func (r *TypeRegistry) get(name string) *relationType {
	if rt, ok := r.tree.Get(&relationType{name: name}); ok {
		return rt
	}
	return nil
}

// drop removes the entry for name.
func (r *TypeRegistry) drop(name string) {
	r.tree.Delete(&relationType{name: name})
}

// len returns the number of live entries.
func (r *TypeRegistry) len() int {
	return r.tree.Len()
}

// ascend visits entries in ascending type-name order until fn returns
// false. The registry must not be mutated during traversal.
func (r *TypeRegistry) ascend(fn func(*relationType) bool) {
	r.tree.Ascend(fn)
}

// snapshot returns the current entries in ascending name order. DeleteEntity
// iterates over this copy so that recompute may drop entries mid-loop.
func (r *TypeRegistry) snapshot() []*relationType {
	entries := make([]*relationType, 0, r.tree.Len())
	r.tree.Ascend(func(rt *relationType) bool {
		entries = append(entries, rt)
		return true
	})
	return entries
}
