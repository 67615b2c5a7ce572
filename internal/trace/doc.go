// Package trace is the logging and tracing layer of mu.
//
// Every command carries a Tracer in its context. Operations open spans
// (check, flash, start_repl) and log point events under them; device
// code logs port scans and analyzer runs at ScopeDevice, and serial
// traffic at ScopeWire.
//
// # Usage
//
//	mu check --log=- --log-level=detail main.py
//
// # Tracers
//
//   - Nop: no-op tracer when disabled
//   - StreamTracer: immediate write to a file or stderr (text or NDJSON)
//   - RingTracer: circular buffer, dumped when a command panics
//   - MultiTracer: combines multiple tracers
//
// # Levels
//
//   - LevelOff: nothing
//   - LevelError: warnings and errors only
//   - LevelInfo: commands and operations
//   - LevelDetail: device events
//   - LevelDebug: everything including wire traffic
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopeOperation, "flash")
//	defer span.End("")
//	trace.Info(ctx, trace.ScopeDevice, "port scanned", "name", name)
//
// # Sessions
//
// WithSession tags everything logged under a context with a serial session
// id. The REPL uses its id so one session's traffic can be grepped out of
// a log shared with the language server.
package trace
