package lsp

import "unicode/utf8"

// applyChanges applies incremental edits in order. A change without a
// range replaces the whole text.
func applyChanges(text string, changes []textDocumentContentChangeEvent) string {
	for _, change := range changes {
		if change.Range == nil {
			text = change.Text
			continue
		}
		start := clamp(offsetForPosition(text, change.Range.Start), 0, len(text))
		end := clamp(offsetForPosition(text, change.Range.End), start, len(text))
		text = text[:start] + change.Text + text[end:]
	}
	return text
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// offsetForPosition maps an LSP position (UTF-16 columns) to a byte offset.
func offsetForPosition(text string, pos position) int {
	if pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	i, line := 0, 0
	for i < len(text) && line < pos.Line {
		if text[i] == '\n' {
			line++
		}
		i++
	}
	if line < pos.Line {
		return len(text)
	}
	units := 0
	for i < len(text) && text[i] != '\n' && units < pos.Character {
		r, size := utf8.DecodeRuneInString(text[i:])
		need := 1
		if r > 0xFFFF {
			need = 2
		}
		if units+need > pos.Character {
			break
		}
		units += need
		i += size
	}
	return i
}
