package lint

import (
	"regexp"
	"strconv"

	"fortio.org/safecast"

	"mu/internal/diag"
)

// SyntaxErrorMessage replaces the analyzer's own syntax error text.
const SyntaxErrorMessage = "Syntax error. Python cannot understand this line. Check for missing characters!"

// flakePattern matches "<file>:<line>: <msg>" and "<file>:<line>:<col>: <msg>".
var flakePattern = regexp.MustCompile(`^(.+?):(\d+):(?:\d+:)?\s+(.*)$`)

// Normalize converts raw events into a diagnostic set. When expanded is
// true, unused-import findings for names added by Expand are dropped.
func Normalize(records []Record, expanded bool) *diag.Set {
	set := diag.NewSet()
	rep := diag.SetReporter{Set: set}
	for _, rec := range records {
		d := convert(rec)
		if expanded && IsExpansionArtifact(d.Message) {
			continue
		}
		rep.Report(d)
	}
	return set
}

func convert(rec Record) diag.Diagnostic {
	switch rec.Kind {
	case KindSyntax:
		return diag.New(diag.SevError, zeroBased(rec.Line), SyntaxErrorMessage).
			WithColumn(zeroBased(rec.Column))
	case KindFlake:
		m := flakePattern.FindStringSubmatch(rec.Message)
		if m == nil {
			return diag.New(diag.SevError, 0, rec.Message).WithColumn(0)
		}
		line, err := strconv.Atoi(m[2])
		if err != nil {
			return diag.New(diag.SevError, 0, rec.Message).WithColumn(0)
		}
		return diag.New(diag.SevError, zeroBased(line), m[3]).WithColumn(0)
	default:
		return diag.New(diag.SevError, 0, rec.Message)
	}
}

// zeroBased converts a 1-based position, clamping unknown or invalid
// values to 0.
func zeroBased(n int) uint32 {
	v, err := safecast.Conv[uint32](n - 1)
	if err != nil {
		return 0
	}
	return v
}
