// Package trace records what the template compiler does, for debugging slow
// or surprising compilations.
//
// # Usage
//
//	kbind compile --trace=- --trace-level=detail templates/
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes every event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events in memory, dumped on failure
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// Events carry a Scope describing their granularity. The Level decides which
// scopes are emitted:
//
//   - LevelPhase: driver and pass boundaries (parse, check, compile)
//   - LevelDetail: adds per-file events
//   - LevelDebug: adds per-node events (every scheduled task and every
//     constructed directive)
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//	span := trace.Begin(t, trace.ScopePass, "compile", 0)
//	defer span.End("")
package trace
