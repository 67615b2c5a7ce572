// Package editor is the facade the front ends (CLI, language server) drive.
// It owns one device session and the two analyzers and maps user actions
// onto them.
package editor

import (
	"context"
	"errors"
	"fmt"

	"mu/internal/device"
	"mu/internal/diag"
	"mu/internal/lint"
	"mu/internal/style"
	"mu/internal/trace"
)

// Settings resolves the user's directories.
type Settings interface {
	device.Workspace
	HomeDir() string
	EnsureDirs(ctx context.Context) error
}

// Options wires an Editor.
type Options struct {
	View      device.View
	Boards    device.BoardFinder
	Transport device.Transport
	Flasher   device.Flasher
	Settings  Settings
	Lint      lint.Analyzer
	Style     style.Analyzer
	// GOOS overrides runtime.GOOS for device paths.
	GOOS string
}

// Editor coordinates checks, flashing and the serial session.
type Editor struct {
	view     device.View
	settings Settings
	flasher  device.Flasher
	lint     lint.Analyzer
	style    style.Analyzer
	session  *device.Session
}

// New builds an Editor and makes sure the data and workspace directories
// exist.
func New(ctx context.Context, opts Options) (*Editor, error) {
	if opts.View == nil || opts.Settings == nil {
		return nil, errors.New("editor: view and settings are required")
	}
	if err := opts.Settings.EnsureDirs(ctx); err != nil {
		return nil, err
	}
	return &Editor{
		view:     opts.View,
		settings: opts.Settings,
		flasher:  opts.Flasher,
		lint:     opts.Lint,
		style:    opts.Style,
		session: device.New(device.Config{
			View:      opts.View,
			Boards:    opts.Boards,
			Transport: opts.Transport,
			Flasher:   opts.Flasher,
			Workspace: opts.Settings,
			HomeDir:   opts.Settings.HomeDir(),
			GOOS:      opts.GOOS,
		}),
	}, nil
}

// Session exposes the device session, e.g. for reading its mode.
func (e *Editor) Session() *device.Session { return e.session }

// CheckCode runs both analyzers over text and merges their findings.
// filename is only used in messages; "untitled" stands in for a buffer
// that was never saved. A failing analyzer does not hide the other's
// findings: the merged set is returned along with the joined errors.
func (e *Editor) CheckCode(ctx context.Context, filename, text string) (*diag.Set, error) {
	if filename == "" {
		filename = "untitled"
	}
	ctx, span := trace.Start(ctx, trace.ScopeOperation, "check_code")
	defer span.End(filename)

	var errs []error
	lintSet, err := lint.Check(ctx, e.lint, filename, text)
	if err != nil {
		trace.Error(ctx, trace.ScopeOperation, "lint failed", err)
		errs = append(errs, err)
		lintSet = diag.NewSet()
	}
	styleSet, err := style.Check(ctx, e.style, text)
	if err != nil {
		trace.Error(ctx, trace.ScopeOperation, "style check failed", err)
		errs = append(errs, err)
		styleSet = diag.NewSet()
	}
	merged := diag.Merge(lintSet, styleSet)
	span.WithExtra("findings", fmt.Sprint(merged.Count()))
	return merged, errors.Join(errs...)
}

// Flash sends text to the board.
func (e *Editor) Flash(ctx context.Context, label, text string) (device.FlashResult, error) {
	return e.session.Flash(ctx, label, []byte(text))
}

// ToggleRepl starts or stops the REPL.
func (e *Editor) ToggleRepl(ctx context.Context) (device.Outcome, error) {
	return e.session.ToggleRepl(ctx)
}

// ToggleFilesystem starts or stops the file system session.
func (e *Editor) ToggleFilesystem(ctx context.Context) (device.Outcome, error) {
	return e.session.ToggleFilesystem(ctx)
}

// Workspace returns the directory scripts are saved in by default.
func (e *Editor) Workspace(ctx context.Context) string {
	return e.settings.Workspace(ctx)
}
