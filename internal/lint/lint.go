// Package lint runs the logical analyzer (pyflakes) over a script and
// normalizes its findings into diag sets.
package lint

import (
	"context"
	"fmt"

	"mu/internal/diag"
	"mu/internal/trace"
)

// Analyzer checks text and reports findings through r. filename is only
// used for display.
type Analyzer interface {
	Analyze(ctx context.Context, filename, text string, r Reporter) error
}

// Check expands the microbit wildcard import, analyzes the result and
// returns the normalized findings. Expansion keeps line numbers intact.
func Check(ctx context.Context, a Analyzer, filename, text string) (*diag.Set, error) {
	ctx, span := trace.Start(ctx, trace.ScopeOperation, "lint")
	defer span.End("")

	expandedText, expanded := Expand(text)
	var rec Recorder
	if err := a.Analyze(ctx, filename, expandedText, &rec); err != nil {
		return nil, fmt.Errorf("lint %s: %w", filename, err)
	}
	set := Normalize(rec.Records(), expanded)
	span.WithExtra("findings", fmt.Sprint(set.Count()))
	return set, nil
}
