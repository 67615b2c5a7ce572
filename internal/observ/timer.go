package observ

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mu/internal/trace"
)

// Timer records the consecutive phases of one command run (collect, setup,
// check). Each phase is also a command-scope trace span. A Timer is not
// safe for concurrent use; parallel work belongs inside a single phase.
type Timer struct {
	phases []PhaseReport
	total  time.Duration
}

func NewTimer() *Timer { return &Timer{} }

// Track runs fn as the phase name. The note fn returns is kept with the
// phase; a failed phase without a note is noted as "failed".
func (t *Timer) Track(ctx context.Context, name string, fn func(ctx context.Context) (note string, err error)) error {
	start := time.Now()
	ctx, span := trace.Start(ctx, trace.ScopeCommand, name)
	note, err := fn(ctx)
	if err != nil && note == "" {
		note = "failed"
	}
	span.End(note)
	d := time.Since(start)
	t.total += d
	t.phases = append(t.phases, PhaseReport{Name: name, DurationMS: millis(d), Note: note})
	return err
}

// PhaseReport is the serializable form of a phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report lists the phases in run order with their total.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	return Report{TotalMS: millis(t.total), Phases: append([]PhaseReport(nil), t.phases...)}
}

// Summary renders the report for a terminal, one phase per line with its
// share of the total.
func (t *Timer) Summary() string {
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range t.phases {
		share := 0.0
		if t.total > 0 {
			share = 100 * p.DurationMS / millis(t.total)
		}
		fmt.Fprintf(&b, "  %-12s %9.2f ms %5.1f%%", p.Name, p.DurationMS, share)
		if p.Note != "" {
			fmt.Fprintf(&b, "  %s", p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-12s %9.2f ms\n", "total", millis(t.total))
	return b.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
