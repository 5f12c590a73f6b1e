package graph

import "log/slog"

// ReportSink consumes report fragments in emission order. Report calls
// either None (empty registry) or, per type in ascending name order,
// BeginType, Destination for each tied destination in ascending identifier
// order, then EndType. End terminates the report line in both cases.
type ReportSink interface {
	None()
	BeginType(name string)
	Destination(id string)
	EndType(max int)
	End()
}

// Stats is a point-in-time summary of store contents. Recomputes counts
// full index rebuilds cumulatively since the store was created.
type Stats struct {
	Entities   int
	Relations  int
	Types      int
	Recomputes uint64
}

// Store is the single writer over all tracker state: the entity registry,
// each entity's incoming sets, and the global type registry. Mutations are
// silently tolerant: operations whose preconditions fail (unknown entity,
// absent relation, duplicate add) report false and change nothing.
type Store struct {
	entities  map[string]*Entity
	types     *TypeRegistry
	relations int

	recomputes uint64
	logger     *slog.Logger
}

// NewStore creates an empty store. A nil logger falls back to
// slog.Default().
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		entities: make(map[string]*Entity),
		types:    NewTypeRegistry(),
		logger:   logger,
	}
}

// AddEntity registers id. Reports whether a new entity was created; adding
// an already-registered identifier is a no-op.
func (s *Store) AddEntity(id string) bool {
	if _, ok := s.entities[id]; ok {
		return false
	}
	s.entities[id] = newEntity(id)
	return true
}

// Lookup returns the live entity for id, or nil.
func (s *Store) Lookup(id string) *Entity {
	return s.entities[id]
}

// AddRelation records the relation (from, to, relType). Both entities must
// be registered and the triple must not already exist, otherwise nothing
// changes. The per-type maximum and top set are maintained incrementally.
func (s *Store) AddRelation(from, to, relType string) bool {
	src := s.entities[from]
	dst := s.entities[to]
	if src == nil || dst == nil {
		return false
	}

	set := dst.incomingSet(relType)
	if !set.Insert(src) {
		return false
	}
	s.relations++

	entry := s.types.ensure(relType)
	n := set.Len()
	switch {
	case n == entry.max:
		entry.top.Insert(dst)
	case n > entry.max:
		entry.top.Clear()
		entry.top.Insert(dst)
		entry.max = n
	}
	return true
}

// DeleteRelation removes the relation (from, to, relType) if it exists.
// When the removal leaves the sole top destination below the maximum, the
// type index is rebuilt by recompute.
func (s *Store) DeleteRelation(from, to, relType string) bool {
	src := s.entities[from]
	dst := s.entities[to]
	if src == nil || dst == nil {
		return false
	}
	entry := s.types.get(relType)
	if entry == nil {
		return false
	}
	set := dst.lookupIncoming(relType)
	if set == nil || !set.Delete(src) {
		return false
	}
	s.relations--

	nBefore := set.Len() + 1
	if set.Len() == 0 {
		dst.dropIncoming(relType)
	}

	if nBefore == entry.max {
		// dst was in the top set.
		if entry.top.Len() > 1 {
			entry.top.Delete(dst)
		} else {
			s.recompute(entry, "top_collapsed")
		}
	}
	return true
}

// DeleteEntity removes id and every relation it participates in, in either
// direction, then rebuilds the index of each live type. Deleting an
// unknown identifier is a no-op.
func (s *Store) DeleteEntity(id string) bool {
	e, ok := s.entities[id]
	if !ok {
		return false
	}

	// Iterate a snapshot: recompute may drop registry entries mid-loop.
	for _, entry := range s.types.snapshot() {
		// Relations e -> u: remove e from every other incoming set.
		for _, u := range s.entities {
			if u == e {
				continue
			}
			set := u.lookupIncoming(entry.name)
			if set == nil {
				continue
			}
			if set.Delete(e) {
				s.relations--
				if set.Len() == 0 {
					u.dropIncoming(entry.name)
				}
			}
		}

		// Relations * -> e: drop e's own incoming set wholesale.
		if set := e.lookupIncoming(entry.name); set != nil {
			s.relations -= set.Len()
			set.Clear()
			e.dropIncoming(entry.name)
		}
		entry.top.Delete(e)

		s.recompute(entry, "entity_deleted")
	}

	delete(s.entities, id)
	return true
}

// recompute rebuilds entry's maximum and top set from ground truth by
// scanning every live entity, and drops the entry when no incoming set
// under the type remains. Only invoked when incremental maintenance has
// lost the information needed to stay consistent.
func (s *Store) recompute(entry *relationType, reason string) {
	s.recomputes++
	entry.max = 0
	entry.top.Clear()

	for _, e := range s.entities {
		set := e.lookupIncoming(entry.name)
		if set == nil {
			continue
		}
		m := set.Len()
		switch {
		case m == entry.max:
			entry.top.Insert(e)
		case m > entry.max:
			entry.top.Clear()
			entry.top.Insert(e)
			entry.max = m
		}
	}

	if entry.max == 0 {
		s.types.drop(entry.name)
		s.logger.Debug("relation type retired", "type", entry.name, "reason", reason)
	}
}

// Report walks the type registry in ascending name order and streams the
// current maxima to sink. It never mutates state: repeated reports between
// mutations emit identical fragments.
func (s *Store) Report(sink ReportSink) {
	if s.types.len() == 0 {
		sink.None()
		sink.End()
		return
	}
	s.types.ascend(func(rt *relationType) bool {
		sink.BeginType(rt.name)
		rt.top.Ascend(func(e *Entity) bool {
			sink.Destination(e.id)
			return true
		})
		sink.EndType(rt.max)
		return true
	})
	sink.End()
}

// Stats returns current store counts.
func (s *Store) Stats() Stats {
	return Stats{
		Entities:   len(s.entities),
		Relations:  s.relations,
		Types:      s.types.len(),
		Recomputes: s.recomputes,
	}
}
