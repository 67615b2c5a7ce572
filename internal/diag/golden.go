package diag

import (
	"fmt"
	"strings"
)

// FormatShort renders a set as one line per diagnostic in a stable order:
//
//	<line>:<col> <SEVERITY> [<code>] <message>
//
// Lines and columns are printed as stored (0-based); a missing column
// prints as "-". Used by tests and by `mu check --format short`.
func FormatShort(s *Set) string {
	var sb strings.Builder
	for _, d := range s.Items() {
		col := "-"
		if d.HasColumn {
			col = fmt.Sprint(d.Column)
		}
		fmt.Fprintf(&sb, "%d:%s %s", d.Line, col, strings.ToUpper(d.Severity.String()))
		if d.Code != "" {
			fmt.Fprintf(&sb, " [%s]", d.Code)
		}
		sb.WriteString(" ")
		sb.WriteString(d.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}
