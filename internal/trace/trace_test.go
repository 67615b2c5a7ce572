package trace

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestLevelShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		kind  Kind
		scope Scope
		want  bool
	}{
		{LevelOff, KindError, ScopeCommand, false},
		{LevelError, KindInfo, ScopeCommand, false},
		{LevelError, KindWarn, ScopeWire, true},
		{LevelInfo, KindInfo, ScopeOperation, true},
		{LevelInfo, KindInfo, ScopeDevice, false},
		{LevelDetail, KindSpanBegin, ScopeDevice, true},
		{LevelDetail, KindInfo, ScopeWire, false},
		{LevelDebug, KindInfo, ScopeWire, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.kind, tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s, %s) = %v, want %v", tt.level, tt.kind, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "info", "detail", "DEBUG"} {
		if _, err := ParseLevel(s); err != nil {
			t.Fatalf("ParseLevel(%q): %v", s, err)
		}
	}
	if _, err := ParseLevel("phase"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)
	ctx := WithTracer(context.Background(), tr)

	ctx, span := Start(ctx, ScopeOperation, "flash")
	Info(ctx, ScopeDevice, "port scanned", "vid", "0x0D28", "pid", "0x0204")
	Info(ctx, ScopeWire, "bytes", "n", 3)
	Error(ctx, ScopeDevice, "write failed", errors.New("boom"))
	span.End("ok")

	out := buf.String()
	for _, want := range []string{"\u2192 flash", "port scanned {pid=0x0204, vid=0x0D28}", "write failed (boom)", "\u2190 flash (ok)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "bytes") {
		t.Errorf("wire event emitted at detail level:\n%s", out)
	}
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	for _, name := range []string{"a", "b", "c", "d"} {
		Info(ctx, ScopeCommand, name)
	}
	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("snapshot len = %d, want 3", len(snap))
	}
	if snap[0].Name != "b" || snap[2].Name != "d" {
		t.Fatalf("unexpected order: %s %s %s", snap[0].Name, snap[1].Name, snap[2].Name)
	}
}

func TestFromContextDefaultsToNop(t *testing.T) {
	if FromContext(context.Background()).Enabled() {
		t.Fatal("expected nop tracer")
	}
	Info(context.Background(), ScopeCommand, "ignored")
}

func TestSpansNestAndCarrySession(t *testing.T) {
	r := NewRingTracer(16, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	ctx = WithSession(ctx, "0190c7a2-1234-7abc-8def-0123456789ab")

	ctx, outer := Start(ctx, ScopeOperation, "start_repl")
	inner, span := Start(ctx, ScopeDevice, "open_port")
	Info(inner, ScopeWire, "rx", "bytes", 12)
	span.End("")
	outer.WithExtra("port", "/dev/ttyACM0").End("ok")

	snap := r.Snapshot()
	if len(snap) != 5 {
		t.Fatalf("got %d events, want 5", len(snap))
	}
	if snap[1].ParentID != outer.ID() {
		t.Fatalf("inner parent = %d, want %d", snap[1].ParentID, outer.ID())
	}
	if snap[2].SpanID != span.ID() {
		t.Fatalf("point event span = %d, want %d", snap[2].SpanID, span.ID())
	}
	for _, ev := range snap {
		if ev.Session != SessionOf(ctx) {
			t.Fatalf("event %q lost the session", ev.Name)
		}
	}
	if snap[4].Extra["port"] != "/dev/ttyACM0" {
		t.Fatalf("end extras = %v", snap[4].Extra)
	}

	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "<0190c7a2>") {
		t.Fatalf("text dump misses short session id:\n%s", buf.String())
	}
}

func TestFilteredSpanIsInert(t *testing.T) {
	r := NewRingTracer(4, LevelInfo)
	ctx := WithTracer(context.Background(), r)
	_, span := Start(ctx, ScopeWire, "write")
	span.WithExtra("k", "v").End("")
	if r.Len() != 0 || span.ID() != 0 {
		t.Fatalf("filtered span recorded: len=%d id=%d", r.Len(), span.ID())
	}
}

func TestRingDropped(t *testing.T) {
	r := NewRingTracer(2, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	for range 5 {
		Info(ctx, ScopeCommand, "tick")
	}
	if r.Len() != 2 || r.Dropped() != 3 {
		t.Fatalf("len=%d dropped=%d, want 2 and 3", r.Len(), r.Dropped())
	}
}

func TestNewModes(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelInfo, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	multi, ok := tr.(*MultiTracer)
	if !ok || multi.Ring() == nil {
		t.Fatalf("both mode built %T", tr)
	}
	Info(WithTracer(context.Background(), tr), ScopeCommand, "hello")
	if !strings.Contains(buf.String(), "hello") || multi.Ring().Len() != 1 {
		t.Fatalf("event not fanned out: %q", buf.String())
	}

	tr, err = New(Config{Level: LevelOff, Mode: ModeStream})
	if err != nil || tr != Nop {
		t.Fatalf("off level = %v, %v", tr, err)
	}
	if _, err := New(Config{Level: LevelInfo}); err == nil {
		t.Fatal("expected error for missing mode")
	}
	if got := formatFor(Config{OutputPath: "mu.jsonl"}); got != FormatNDJSON {
		t.Fatalf("formatFor(.jsonl) = %v", got)
	}
}
