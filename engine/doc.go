// Package engine drives the tracker pipeline: it pulls commands from the
// scanner, dispatches them to the store, and routes report traversals to
// the emitter until the end command or EOF.
//
// The loop is strictly sequential; completion of one command is fully
// observable to the next. Metrics observation happens here, outside the
// store, so the hot path carries no instrumentation when metrics are off.
package engine
