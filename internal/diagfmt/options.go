package diagfmt

import "mu/internal/diag"

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto uses a relative path when the file is under BaseDir.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color bool
	// Context prints the offending source line with a caret under the
	// column when the file's source is known.
	Context  bool
	PathMode PathMode
	BaseDir  string
	Max      int // 0 - без ограничения
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	PathMode PathMode
	BaseDir  string
	Max      int // per file
}

// File is one checked script and its findings.
type File struct {
	Path   string
	Source string // optional, used for context lines
	Set    *diag.Set
}
