package style

import (
	"context"
	"errors"
	"fmt"
	"os"

	"mu/internal/atomicfile"
	"mu/internal/diag"
	"mu/internal/toolrun"
	"mu/internal/trace"
)

// Analyzer checks the script stored at path and returns its text report.
type Analyzer interface {
	Analyze(ctx context.Context, path string) (string, error)
}

// Check stores text in a temporary file, runs a on it and normalizes the
// report. The file is removed afterwards.
func Check(ctx context.Context, a Analyzer, text string) (*diag.Set, error) {
	ctx, span := trace.Start(ctx, trace.ScopeOperation, "style")
	defer span.End("")

	f, err := os.CreateTemp("", "mu-style-*.py")
	if err != nil {
		return nil, fmt.Errorf("style: create temp file: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("style: %w", err)
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			trace.Warn(ctx, trace.ScopeDevice, "temp file not removed", "path", path, "err", rmErr)
		}
	}()

	if err := atomicfile.WriteFile(path, []byte(text), 0o600); err != nil {
		return nil, fmt.Errorf("style: write temp file: %w", err)
	}
	report, err := a.Analyze(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("style: %w", err)
	}
	set := Normalize(report)
	span.WithExtra("findings", fmt.Sprint(set.Count()))
	return set, nil
}

// DefaultPycodestyle is the command used when no manifest overrides it.
var DefaultPycodestyle = toolrun.Command{"python3", "-m", "pycodestyle"}

// Pycodestyle runs pycodestyle as an external tool on a file path.
type Pycodestyle struct {
	Command toolrun.Command
	Runner  *toolrun.Runner
}

var _ Analyzer = (*Pycodestyle)(nil)

func (p *Pycodestyle) Analyze(ctx context.Context, path string) (string, error) {
	cmd := p.Command
	if len(cmd) == 0 {
		cmd = DefaultPycodestyle
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	out, err := p.Runner.Run(ctx, toolrun.Request{
		Command: cmd,
		Args:    []string{path},
		Input:   content,
	})
	if err != nil {
		return "", err
	}
	return string(out.Stdout), nil
}
