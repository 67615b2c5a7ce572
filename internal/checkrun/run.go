// Package checkrun checks many scripts in parallel and reports progress
// per file.
package checkrun

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"mu/internal/diag"
	"mu/internal/trace"
)

// Run checks every file of req. A file that cannot be read or whose check
// fails does not stop the others; only cancellation aborts the run.
func Run(ctx context.Context, req *Request) (Result, error) {
	if req == nil || req.Checker == nil {
		return Result{}, errors.New("checkrun: missing checker")
	}
	ctx, span := trace.Start(ctx, trace.ScopeCommand, "check_files")
	defer span.End(fmt.Sprintf("%d files", len(req.Files)))

	for _, path := range req.Files {
		emit(req.Progress, Event{File: path, Stage: StageRead, Status: StatusQueued})
	}
	if len(req.Files) == 0 {
		return Result{}, nil
	}

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// каждый воркер пишет только в свой индекс
	results := make([]FileResult, len(req.Files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(req.Files)))
	for i, path := range req.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = checkFile(gctx, req, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{Files: results}, err
	}
	return Result{Files: results}, ctx.Err()
}

func checkFile(ctx context.Context, req *Request, path string) FileResult {
	start := time.Now()
	res := FileResult{Path: path}

	emit(req.Progress, Event{File: path, Stage: StageRead, Status: StatusWorking})
	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("failed to read %s: %w", path, err)
		res.Set = diag.NewSet()
		res.Elapsed = time.Since(start)
		emit(req.Progress, Event{File: path, Stage: StageRead, Status: StatusError, Err: res.Err, Elapsed: res.Elapsed})
		return res
	}
	res.Source = string(data)

	emit(req.Progress, Event{File: path, Stage: StageCheck, Status: StatusWorking})
	res.Set, res.Err = req.Checker.CheckCode(ctx, path, res.Source)
	if res.Set == nil {
		res.Set = diag.NewSet()
	}
	res.Elapsed = time.Since(start)
	status := StatusDone
	if res.Err != nil {
		status = StatusError
	}
	emit(req.Progress, Event{
		File:     path,
		Stage:    StageCheck,
		Status:   status,
		Err:      res.Err,
		Elapsed:  res.Elapsed,
		Findings: res.Set.Count(),
	})
	return res
}
