// Package metric provides prometheus instrumentation for the relation
// tracker: the core collector set, a registry managing their lifecycle,
// and an optional HTTP server exposing them.
//
// The tracker core stays un-instrumented; the engine observes command
// outcomes and store statistics from the outside, so metrics can be turned
// off without touching the hot path.
package metric
