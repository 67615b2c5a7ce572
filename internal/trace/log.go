package trace

import (
	"context"
	"fmt"
	"time"
)

// Info emits a point event. kv alternates keys and values.
func Info(ctx context.Context, scope Scope, msg string, kv ...any) {
	emit(ctx, KindInfo, scope, msg, "", kv)
}

// Warn emits a warning. Warnings pass every level except LevelOff.
func Warn(ctx context.Context, scope Scope, msg string, kv ...any) {
	emit(ctx, KindWarn, scope, msg, "", kv)
}

// Error emits an error event with err as its detail.
func Error(ctx context.Context, scope Scope, msg string, err error, kv ...any) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	emit(ctx, KindError, scope, msg, detail, kv)
}

func emit(ctx context.Context, kind Kind, scope Scope, msg, detail string, kv []any) {
	f := frameOf(ctx)
	if !f.tracer.Enabled() || !f.tracer.Level().ShouldEmit(kind, scope) {
		return
	}
	f.tracer.Emit(&Event{
		Time:    time.Now(),
		Seq:     nextSeq(),
		Kind:    kind,
		Scope:   scope,
		SpanID:  f.span,
		Session: f.session,
		Name:    msg,
		Detail:  detail,
		Extra:   pairs(kv),
	})
}

func pairs(kv []any) map[string]string {
	if len(kv) == 0 {
		return nil
	}
	out := make(map[string]string, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		if i+1 == len(kv) {
			out[key] = "(missing)"
			break
		}
		out[key] = fmt.Sprint(kv[i+1])
	}
	return out
}
