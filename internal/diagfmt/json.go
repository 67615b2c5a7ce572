package diagfmt

import (
	"encoding/json"
	"io"

	"mu/internal/diag"
)

// DiagnosticJSON is one finding with the model's 0-based positions.
type DiagnosticJSON struct {
	Severity string  `json:"severity"`
	Line     uint32  `json:"line"`
	Column   *uint32 `json:"column,omitempty"`
	Code     string  `json:"code,omitempty"`
	Message  string  `json:"message"`
}

// FileJSON groups the findings of one script.
type FileJSON struct {
	File        string           `json:"file"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Truncated   int              `json:"truncated,omitempty"`
}

// DiagnosticsOutput is the root of the JSON output.
type DiagnosticsOutput struct {
	Files []FileJSON `json:"files"`
	Count int        `json:"count"`
}

// Build converts files into the JSON document without writing it.
func Build(files []File, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{Files: make([]FileJSON, 0, len(files))}
	for _, f := range files {
		fj := FileJSON{
			File:        formatPath(f.Path, opts.PathMode, opts.BaseDir),
			Diagnostics: []DiagnosticJSON{},
		}
		if f.Set != nil {
			items := f.Set.Items()
			if opts.Max > 0 && len(items) > opts.Max {
				fj.Truncated = len(items) - opts.Max
				items = items[:opts.Max]
			}
			for _, d := range items {
				fj.Diagnostics = append(fj.Diagnostics, toJSON(d))
			}
			out.Count += f.Set.Count()
		}
		out.Files = append(out.Files, fj)
	}
	return out
}

// JSON writes files as an indented JSON document.
func JSON(w io.Writer, files []File, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Build(files, opts))
}

func toJSON(d diag.Diagnostic) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Line:     d.Line,
		Code:     d.Code,
		Message:  d.Message,
	}
	if d.HasColumn {
		col := d.Column
		out.Column = &col
	}
	return out
}
