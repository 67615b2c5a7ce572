package checkrun

import (
	"context"
	"time"

	"mu/internal/diag"
)

// Stage describes a step of checking one file.
type Stage string

const (
	// StageRead loads the script from disk.
	StageRead Stage = "read"
	// StageCheck runs both analyzers.
	StageCheck Stage = "check"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file (or for the whole run when File is empty).
// Findings is set on the final event of a checked file.
type Event struct {
	File     string
	Stage    Stage
	Status   Status
	Err      error
	Elapsed  time.Duration
	Findings int
}

// ProgressSink consumes progress events. OnEvent may be called from
// several goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// Checker checks one script's text.
type Checker interface {
	CheckCode(ctx context.Context, filename, text string) (*diag.Set, error)
}

// Request describes a batch check.
type Request struct {
	Files    []string
	Jobs     int // <= 0 means GOMAXPROCS
	Checker  Checker
	Progress ProgressSink
}

// FileResult is the outcome for one file. Err is set when the file could
// not be read or an analyzer failed; Set then holds whatever was found.
type FileResult struct {
	Path    string
	Source  string
	Set     *diag.Set
	Err     error
	Elapsed time.Duration
}

// Result holds per-file results in request order.
type Result struct {
	Files []FileResult
}

// HasErrors reports whether any file has an error-severity finding.
func (r Result) HasErrors() bool {
	for _, f := range r.Files {
		if f.Set.HasErrors() {
			return true
		}
	}
	return false
}

// Count returns the number of findings over all files.
func (r Result) Count() int {
	n := 0
	for _, f := range r.Files {
		n += f.Set.Count()
	}
	return n
}
