// Package graph holds the relation tracker's ground-truth state and the
// indexes derived from it.
//
// The Store owns every entity. Each entity carries, per relation type, the
// ordered set of entities that point at it (its incoming set). A global
// type registry maps each relation type in use to the largest incoming-set
// size currently achieved and the set of destinations tied at that size.
//
// All mutation entry points (AddEntity, DeleteEntity, AddRelation,
// DeleteRelation) keep the registry consistent incrementally; a full
// recompute runs only when the sole top destination of a type drops below
// the maximum or an entity is deleted. Ordered sets enumerate entities in
// ascending identifier byte order, so Report output is deterministic.
//
// The package is single-writer by design. Nothing here locks; the caller
// processes commands strictly sequentially.
package graph
