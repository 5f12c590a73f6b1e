package graph

import "github.com/google/btree"

// btreeDegree is the node fan-out for the btrees backing entity sets and
// the type registry. 16 (up to 31 items per node) keeps nodes small while
// holding depth low for the 10^5-element sets the workload produces.
const btreeDegree = 16

// entityLess orders entities by lexicographic byte order of their
// identifiers. Identifiers are unique while an entity is alive, so this is
// a strict total order over live handles.
func entityLess(a, b *Entity) bool {
	return a.id < b.id
}

// EntitySet is an ordered set of entity handles keyed by identifier byte
// order. It backs both the per-(destination, type) incoming sets and the
// per-type top sets. Insert, Delete and Contains are O(log n); Ascend
// visits members in strictly ascending identifier order.
//
// The set holds non-owning references: the Store guarantees members are
// removed before the entity they reference is destroyed.
type EntitySet struct {
	tree *btree.BTreeG[*Entity]
}

// NewEntitySet returns an empty ordered set.
func NewEntitySet() *EntitySet {
	return &EntitySet{tree: btree.NewG(btreeDegree, entityLess)}
}

// Insert adds e to the set. Inserting a member already present is a no-op.
// Reports whether the set grew.
func (s *EntitySet) Insert(e *Entity) bool {
	_, replaced := s.tree.ReplaceOrInsert(e)
	return !replaced
}

// Delete removes e from the set. Reports whether e was a member.
func (s *EntitySet) Delete(e *Entity) bool {
	_, found := s.tree.Delete(e)
	return found
}

// Contains reports whether e is a member.
func (s *EntitySet) Contains(e *Entity) bool {
	return s.tree.Has(e)
}

// Len returns the number of members.
func (s *EntitySet) Len() int {
	return s.tree.Len()
}

// Ascend visits members in ascending identifier order until fn returns
// false. The set must not be mutated during traversal.
func (s *EntitySet) Ascend(fn func(*Entity) bool) {
	s.tree.Ascend(fn)
}

// Min returns the smallest member, or nil when the set is empty.
func (s *EntitySet) Min() *Entity {
	e, ok := s.tree.Min()
	if !ok {
		return nil
	}
	return e
}

// Clear removes all members.
func (s *EntitySet) Clear() {
	s.tree.Clear(false)
}

// IDs returns the member identifiers in ascending order. Intended for
// tests and diagnostics; report emission streams via Ascend instead.
func (s *EntitySet) IDs() []string {
	ids := make([]string, 0, s.tree.Len())
	s.tree.Ascend(func(e *Entity) bool {
		ids = append(ids, e.id)
		return true
	})
	return ids
}
