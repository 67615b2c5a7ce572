// Package diag defines the diagnostic model shared by the lint and style
// normalizers, the editor facade and every renderer.
//
// # Data model
//
// Diagnostic is the central record: a 0-based line, an optional 0-based
// column, a message, an optional style code and a severity (Error for
// pyflakes findings, Style for pycodestyle findings).
//
// Set is the sparse per-line mapping the editor annotates. Producers emit
// through a Reporter; SetReporter collects into a Set.
//
// # Merge
//
// Merge takes the union of two sets by line. It never deduplicates: two
// analyzers reporting the same line both stay visible, lint first.
//
// Package diag does no formatting beyond FormatShort and no IO. Rendering
// lives in internal/diagfmt and internal/lsp.
package diag
