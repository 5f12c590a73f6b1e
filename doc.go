// Package reltrack implements a command-driven, in-memory relation tracker.
// It ingests a stream of textual commands that declare entities, add and
// remove typed directed relations between them, and on demand produces a
// report of, for each relation type in use, the most-referenced destination
// entities and the count they share.
//
// # Architecture
//
// The system is a fixed three-stage pipeline:
//
//	command.Scanner -> graph.Store -> report.Emitter
//
// The scanner tokenizes input lines into tagged Command records. The store
// is the sole owner of mutable state: an entity registry, per-destination
// incoming-relation sets, and a global per-type index tracking the current
// maximum incoming count and the set of destinations tied at it. The
// emitter renders report fragments to the output stream.
//
// Package engine drives the pipeline: it reads commands until "end" (or
// EOF), dispatches each to the store, and routes report traversals to the
// emitter. Processing is strictly sequential; the store has exactly one
// writer and no locking discipline.
//
// # Index maintenance
//
// The store maintains the per-type maximum incrementally. Additions and
// most removals are O(log n); the index falls back to a full recompute only
// when the information needed to maintain it incrementally has been lost
// (the sole top destination dropped below the maximum, or an entity was
// deleted outright). Ordered sets are btree-backed and enumerate entities
// in ascending identifier order, which makes report output deterministic.
//
// # Supporting packages
//
//   - config: configuration structures, defaults, validation, file loading
//   - errors: classified error handling (transient/invalid/fatal)
//   - metric: prometheus collectors, registry, and the optional HTTP server
//   - command: command verbs and the line tokenizer
//   - report: the report fragment emitter
//
// The cmd/reltrack binary wires the pipeline to stdin/stdout (or files),
// sets up structured logging on stderr, and optionally exposes metrics.
package reltrack
