package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"mu/internal/diag"
)

var (
	errorColor = color.New(color.FgRed, color.Bold)
	styleColor = color.New(color.FgYellow, color.Bold)
	pathColor  = color.New(color.Bold)
	codeColor  = color.New(color.FgCyan)
	caretColor = color.New(color.FgGreen, color.Bold)
)

// Pretty форматирует диагностики в человекочитаемый вид:
//
//	<path>:<line>:<col>: <severity> [<code>] <message>
//
// Lines and columns are 1-based; a diagnostic without a column prints
// only its line. With Context, the source line and a caret follow.
func Pretty(w io.Writer, f File, opts PrettyOpts) {
	if f.Set == nil {
		return
	}
	paint := func(c *color.Color, s string) string {
		if !opts.Color {
			return s
		}
		return c.Sprint(s)
	}
	path := formatPath(f.Path, opts.PathMode, opts.BaseDir)
	var lines []string
	if opts.Context && f.Source != "" {
		lines = strings.Split(f.Source, "\n")
	}
	for i, d := range f.Set.Items() {
		if opts.Max > 0 && i >= opts.Max {
			fmt.Fprintf(w, "... %d more\n", f.Set.Count()-opts.Max)
			return
		}
		loc := fmt.Sprintf("%s:%d", path, d.Line+1)
		if d.HasColumn {
			loc += fmt.Sprintf(":%d", d.Column+1)
		}
		sev := d.Severity.String()
		if d.Severity == diag.SevError {
			sev = paint(errorColor, sev)
		} else {
			sev = paint(styleColor, sev)
		}
		fmt.Fprintf(w, "%s: %s", paint(pathColor, loc), sev)
		if d.Code != "" {
			fmt.Fprintf(w, " %s", paint(codeColor, "["+d.Code+"]"))
		}
		fmt.Fprintf(w, " %s\n", d.Message)

		if int(d.Line) < len(lines) {
			src := strings.TrimRight(lines[d.Line], "\r")
			fmt.Fprintf(w, "    %s\n", strings.ReplaceAll(src, "\t", "    "))
			if d.HasColumn {
				fmt.Fprintf(w, "    %s%s\n", strings.Repeat(" ", caretOffset(src, int(d.Column))), paint(caretColor, "^"))
			}
		}
	}
}

// caretOffset is the display width of the first col runes of src, so the
// caret lines up under wide characters too.
func caretOffset(src string, col int) int {
	runes := []rune(src)
	if col > len(runes) {
		col = len(runes)
	}
	width := 0
	for _, r := range runes[:col] {
		if r == '\t' {
			width += 4
			continue
		}
		width += runewidth.RuneWidth(r)
	}
	return width
}
