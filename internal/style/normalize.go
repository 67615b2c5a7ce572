// Package style runs the style analyzer (pycodestyle) over a script and
// normalizes its report into diag sets.
package style

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mu/internal/diag"
)

// blankLinesCode gets a positional hint since the analyzer reports it on
// the first line after the blank run.
const blankLinesCode = "E303"

var (
	reportLine = regexp.MustCompile(`^.*:(\d+):(\d+):\s+(.*)$`)

	upper = cases.Upper(language.Und)
	lower = cases.Lower(language.Und)
)

// Normalize parses the analyzer's text report, one finding per line in the
// form "<file>:<line>:<col>: <code> <description>". Lines that do not fit
// are skipped.
func Normalize(report string) *diag.Set {
	set := diag.NewSet()
	rep := diag.SetReporter{Set: set}
	sc := bufio.NewScanner(strings.NewReader(report))
	for sc.Scan() {
		if d, ok := parseLine(strings.TrimRight(sc.Text(), "\r")); ok {
			rep.Report(d)
		}
	}
	return set
}

func parseLine(line string) (diag.Diagnostic, bool) {
	m := reportLine.FindStringSubmatch(line)
	if m == nil {
		return diag.Diagnostic{}, false
	}
	lineNo, ok := zeroBased(m[1])
	if !ok {
		return diag.Diagnostic{}, false
	}
	col, ok := zeroBased(m[2])
	if !ok {
		return diag.Diagnostic{}, false
	}
	code, description, found := strings.Cut(m[3], " ")
	if !found || code == "" {
		return diag.Diagnostic{}, false
	}
	if code == blankLinesCode {
		description += " above this line"
	}
	return diag.New(diag.SevStyle, lineNo, Capitalize(description)).
		WithColumn(col).
		WithCode(code), true
}

func zeroBased(s string) (uint32, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	v, err := safecast.Conv[uint32](n - 1)
	return v, err == nil
}

// Capitalize upper-cases the first character and lower-cases the rest.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return upper.String(string(r)) + lower.String(s[size:])
}
