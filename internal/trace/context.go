package trace

import "context"

// frame is what a context carries for tracing: the tracer, the innermost
// open span and the serial session the work belongs to.
type frame struct {
	tracer  Tracer
	span    uint64
	session string
}

type frameKey struct{}

func frameOf(ctx context.Context) frame {
	if ctx != nil {
		if f, ok := ctx.Value(frameKey{}).(frame); ok {
			return f
		}
	}
	return frame{tracer: Nop}
}

func withFrame(ctx context.Context, f frame) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, frameKey{}, f)
}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return frameOf(ctx).tracer
}

// WithTracer attaches t to ctx. Span and session information is kept.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	f := frameOf(ctx)
	f.tracer = t
	return withFrame(ctx, f)
}

// WithSession tags every event emitted under ctx with a session id, e.g.
// the REPL id, so the traffic of one serial session can be picked out.
func WithSession(ctx context.Context, id string) context.Context {
	f := frameOf(ctx)
	f.session = id
	return withFrame(ctx, f)
}

// SessionOf returns the session id set by WithSession.
func SessionOf(ctx context.Context) string {
	return frameOf(ctx).session
}
