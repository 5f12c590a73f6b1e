// Package report renders tracker report fragments to an output stream.
//
// The Emitter implements graph.ReportSink over a buffered writer. Write
// errors are sticky: the first failure is recorded and every later
// fragment becomes a no-op, so the engine checks Err once per command
// instead of after each byte.
package report
