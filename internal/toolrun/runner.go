// Package toolrun runs the external analyzers and flasher used by mu.
package toolrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"mu/internal/trace"
)

// Command is an argv prefix, e.g. ["python3", "-m", "pyflakes"].
type Command []string

func (c Command) String() string { return strings.Join(c, " ") }

// Validate reports an empty command.
func (c Command) Validate() error {
	if len(c) == 0 || strings.TrimSpace(c[0]) == "" {
		return errors.New("empty command")
	}
	return nil
}

// Request describes one tool invocation.
type Request struct {
	Command Command
	Args    []string // appended after Command
	Stdin   []byte
	// Input identifies the analyzed content for caching. Args are not part
	// of the cache key, so temp file names do not defeat the cache.
	// nil disables caching for this request.
	Input []byte
}

// Output is the captured result of a tool run. A non-zero ExitCode is a
// normal outcome for analyzers that report findings through it.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner executes requests, consulting an optional disk cache.
type Runner struct {
	cache *DiskCache
}

// NewRunner returns a runner; cache may be nil.
func NewRunner(cache *DiskCache) *Runner {
	return &Runner{cache: cache}
}

// Run executes req. It fails only if the tool cannot be started or ctx ends.
func (r *Runner) Run(ctx context.Context, req Request) (Output, error) {
	if err := req.Command.Validate(); err != nil {
		return Output{}, err
	}

	var key Digest
	useCache := r != nil && r.cache != nil && req.Input != nil
	if useCache {
		key = KeyFor(req.Command, req.Input)
		var cached Payload
		ok, err := r.cache.Get(key, &cached)
		if err != nil {
			trace.Warn(ctx, trace.ScopeDevice, "tool cache read failed", "err", err)
		} else if ok {
			trace.Info(ctx, trace.ScopeDevice, "tool cache hit", "tool", req.Command[0])
			return cached.Output(), nil
		}
	}

	argv := append(append([]string{}, req.Command[1:]...), req.Args...)
	cmd := exec.CommandContext(ctx, req.Command[0], argv...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if req.Stdin != nil {
		cmd.Stdin = bytes.NewReader(req.Stdin)
	}

	start := time.Now()
	err := cmd.Run()
	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr) && ctx.Err() == nil:
		out.ExitCode = exitErr.ExitCode()
	default:
		return Output{}, fmt.Errorf("run %s: %w", req.Command, err)
	}
	trace.Info(ctx, trace.ScopeDevice, "tool finished",
		"tool", req.Command.String(),
		"exit", out.ExitCode,
		"ms", time.Since(start).Milliseconds())

	if useCache {
		if err := r.cache.Put(key, NewPayload(out)); err != nil {
			trace.Warn(ctx, trace.ScopeDevice, "tool cache write failed", "err", err)
		}
	}
	return out, nil
}
